package ui

import (
	"bytes"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularFace *text.GoTextFace
	boldFace    *text.GoTextFace
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 18.0
)

func init() {
	regularFace = loadFace(goregular.TTF, defaultFontSize)
	boldFace = loadFace(gobold.TTF, titleFontSize)
}

func loadFace(ttf []byte, size float64) *text.GoTextFace {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		log.Printf("Warning: failed to load font: %v", err)
		return nil
	}
	return &text.GoTextFace{Source: src, Size: size}
}

// GetRegularFace returns the regular font face.
func GetRegularFace() *text.GoTextFace {
	return regularFace
}

// GetBoldFace returns the bold font face.
func GetBoldFace() *text.GoTextFace {
	return boldFace
}

// GetFaceWithSize returns the regular face at a custom size.
func GetFaceWithSize(size float64) *text.GoTextFace {
	if regularFace == nil {
		return nil
	}
	return &text.GoTextFace{Source: regularFace.Source, Size: size}
}

// MeasureText returns the width and height of s in logical pixels.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}

// drawText draws s with its top-left corner at logical (x, y).
func drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, c color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Scale(UIScale, UIScale)
	op.GeoM.Translate(x*UIScale, y*UIScale)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// drawTextCentered centres s on logical (cx, cy).
func drawTextCentered(screen *ebiten.Image, s string, face *text.GoTextFace, cx, cy float64, c color.Color) {
	w, h := MeasureText(s, face)
	drawText(screen, s, face, cx-w/2, cy-h/2, c)
}
