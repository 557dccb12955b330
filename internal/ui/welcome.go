package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	WelcomeWidth  = 400
	WelcomeHeight = 260
	maxNameLength = 20
)

// WelcomeScreen asks for the player's name on first launch.
type WelcomeScreen struct {
	visible    bool
	name       string
	blink      int
	startBtn   *Button
	onComplete func(name string)
}

// NewWelcomeScreen creates a hidden welcome screen.
func NewWelcomeScreen() *WelcomeScreen {
	x := (ScreenWidth - WelcomeWidth) / 2
	y := (ScreenHeight - WelcomeHeight) / 2
	ws := &WelcomeScreen{}
	ws.startBtn = &Button{
		X: x + (WelcomeWidth-160)/2, Y: y + WelcomeHeight - 24 - 44,
		W: 160, H: 44, Label: "Start Playing",
		OnClick: ws.finish,
	}
	return ws
}

// Show displays the welcome screen; onComplete receives the entered name.
func (ws *WelcomeScreen) Show(onComplete func(name string)) {
	ws.visible = true
	ws.name = ""
	ws.onComplete = onComplete
}

// IsVisible returns true if the screen is visible.
func (ws *WelcomeScreen) IsVisible() bool {
	return ws.visible
}

func (ws *WelcomeScreen) finish() {
	name := strings.TrimSpace(ws.name)
	if name == "" {
		name = "Player"
	}
	ws.visible = false
	if ws.onComplete != nil {
		ws.onComplete(name)
	}
}

// Update handles typing and the start button.
func (ws *WelcomeScreen) Update(input *InputHandler) {
	if !ws.visible {
		return
	}
	ws.blink = (ws.blink + 1) % 60

	for _, r := range ebiten.AppendInputChars(nil) {
		if utf8.RuneCountInString(ws.name) < maxNameLength {
			ws.name += string(r)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && ws.name != "" {
		_, size := utf8.DecodeLastRuneInString(ws.name)
		ws.name = ws.name[:len(ws.name)-size]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		ws.finish()
		return
	}

	mx, my := input.MousePosition()
	ws.startBtn.hovered = ws.startBtn.contains(mx, my)
	if ws.startBtn.hovered && input.IsLeftJustPressed() {
		ws.startBtn.OnClick()
	}
}

// Draw renders the dialog over a dimmed screen.
func (ws *WelcomeScreen) Draw(screen *ebiten.Image) {
	if !ws.visible {
		return
	}
	s := float32(UIScale)
	vector.DrawFilledRect(screen, 0, 0, ScreenWidth*s, ScreenHeight*s, dimColor, false)

	x := (ScreenWidth - WelcomeWidth) / 2
	y := (ScreenHeight - WelcomeHeight) / 2
	vector.DrawFilledRect(screen, float32(x)*s, float32(y)*s, WelcomeWidth*s, WelcomeHeight*s, panelBg, false)
	vector.StrokeRect(screen, float32(x)*s, float32(y)*s, WelcomeWidth*s, WelcomeHeight*s, s, buttonBorder, false)

	cx := float64(x) + WelcomeWidth/2
	drawTextCentered(screen, "Man vs Computer", GetBoldFace(), cx, float64(y+40), textPrimary)
	drawTextCentered(screen, "What should we call you?", GetRegularFace(), cx, float64(y+80), textSecondary)

	fx, fy, fw, fh := x+32, y+110, WelcomeWidth-64, 40
	vector.DrawFilledRect(screen, float32(fx)*s, float32(fy)*s, float32(fw)*s, float32(fh)*s, tabInactiveBg, false)
	vector.StrokeRect(screen, float32(fx)*s, float32(fy)*s, float32(fw)*s, float32(fh)*s, 2*s, accentColor, false)

	face := GetRegularFace()
	_, th := MeasureText("M", face)
	ty := float64(fy) + float64(fh)/2 - th/2
	if ws.name == "" {
		drawText(screen, "Player", face, float64(fx+10), ty, textMuted)
	} else {
		drawText(screen, ws.name, face, float64(fx+10), ty, textPrimary)
	}
	if ws.blink < 30 {
		w, _ := MeasureText(ws.name, face)
		vector.DrawFilledRect(screen, (float32(fx+10)+float32(w)+2)*s, float32(fy+8)*s, 2*s, float32(fh-16)*s, textPrimary, false)
	}

	b := ws.startBtn
	bg := accentColor
	if b.hovered {
		bg = accentHover
	}
	vector.DrawFilledRect(screen, float32(b.X)*s, float32(b.Y)*s, float32(b.W)*s, float32(b.H)*s, bg, false)
	drawTextCentered(screen, b.Label, face, float64(b.X)+float64(b.W)/2, float64(b.Y)+float64(b.H)/2, textPrimary)
}
