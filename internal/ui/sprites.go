package ui

import (
	"bytes"
	"image"
	"log"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// SpriteManager holds one rasterised image per piece.
type SpriteManager struct {
	pieces      map[board.Piece]*ebiten.Image
	size        int     // display size of a square
	renderScale float64 // pieces are rasterised larger and scaled down
	scale       float64 // HiDPI factor
}

// NewSpriteManager rasterises the piece set for squares of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[board.Piece]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
		scale:       1.0,
	}
	sm.loadPieces()
	return sm
}

// SetScale sets the HiDPI factor used when drawing.
func (sm *SpriteManager) SetScale(scale float64) {
	sm.scale = scale
}

// loadPieces draws every piece as SVG and rasterises it with oksvg.
func (sm *SpriteManager) loadPieces() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for _, c := range []board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt <= board.King; pt++ {
			p := board.NewPiece(pt, c)
			img, err := rasterizePiece(p, renderSize)
			if err != nil {
				log.Printf("Warning: failed to build sprite for %v: %v", p, err)
				continue
			}
			sm.pieces[p] = ebiten.NewImageFromImage(img)
		}
	}
}

func rasterizePiece(p board.Piece, size int) (*image.RGBA, error) {
	var buf bytes.Buffer
	if err := render.Piece(&buf, p, size); err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// GetPiece returns the sprite for a piece.
func (sm *SpriteManager) GetPiece(p board.Piece) *ebiten.Image {
	return sm.pieces[p]
}

// DrawPieceAt draws a piece with its top-left corner at device pixel (x, y).
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y int) {
	sprite := sm.GetPiece(p)
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	s := sm.scale / sm.renderScale
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the logical size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
