package ui

import (
	"fmt"
	"image/color"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/engine"
	"github.com/hailam/chessmate/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Panel dimensions
const (
	PanelPadding   = 20
	SectionSpacing = 28
	ButtonHeight   = 40
	TabHeight      = 32
	SectionLabelH  = 20
	MoveRowHeight  = 22
)

var (
	panelBg        = color.RGBA{38, 40, 45, 255}
	tabActiveBg    = color.RGBA{76, 132, 96, 255}
	tabInactiveBg  = color.RGBA{50, 54, 60, 255}
	buttonHoverBg  = color.RGBA{65, 70, 78, 255}
	buttonBorder   = color.RGBA{70, 75, 82, 255}
	accentColor    = color.RGBA{76, 175, 120, 255}
	accentHover    = color.RGBA{96, 195, 140, 255}
	textPrimary    = color.RGBA{240, 240, 245, 255}
	textSecondary  = color.RGBA{160, 165, 175, 255}
	textMuted      = color.RGBA{120, 125, 135, 255}
	dividerColor   = color.RGBA{60, 65, 72, 255}
	moveRowAlt     = color.RGBA{44, 48, 54, 255}
	statusThinking = color.RGBA{100, 180, 255, 255}
	statusGameOver = color.RGBA{255, 200, 80, 255}
)

// Button is a clickable rectangle in logical coordinates.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	hovered    bool
}

func (b *Button) contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Panel is the side panel with controls, the move list and the status line.
type Panel struct {
	game *Game

	newGameBtn *Button
	swapBtn    *Button
	diffTabs   []*Button // indexed by engine.Difficulty
	historyY   int
}

// NewPanel creates the panel for g.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g}

	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2
	y := PanelPadding + 8

	p.newGameBtn = &Button{X: x, Y: y, W: w, H: ButtonHeight, Label: "New Game (N)", OnClick: g.NewGameAction}
	y += ButtonHeight + 8
	p.swapBtn = &Button{X: x, Y: y, W: w, H: ButtonHeight - 6, OnClick: g.SwapColorsAction}
	y += ButtonHeight - 6 + SectionSpacing + SectionLabelH

	tabW := w / 3
	for d := engine.Easy; d <= engine.Hard; d++ {
		d := d
		p.diffTabs = append(p.diffTabs, &Button{
			X: x + int(d)*tabW, Y: y, W: tabW, H: TabHeight,
			Label:   fmt.Sprintf("%s (%d)", d, int(d)+1),
			OnClick: func() { g.SetDifficulty(d) },
		})
	}
	p.historyY = y + TabHeight + SectionSpacing
	return p
}

func (p *Panel) buttons() []*Button {
	return append([]*Button{p.newGameBtn, p.swapBtn}, p.diffTabs...)
}

// HandleInput processes clicks on the panel and reports whether it used
// the input.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()
	handled := false
	for _, b := range p.buttons() {
		b.hovered = b.contains(mx, my)
		if b.hovered && input.IsLeftJustPressed() && b.OnClick != nil {
			b.OnClick()
			handled = true
		}
	}
	return handled
}

// AnyButtonHovered reports whether the mouse is over a button.
func (p *Panel) AnyButtonHovered() bool {
	for _, b := range p.buttons() {
		if b.hovered {
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	s := float32(UIScale)
	vector.DrawFilledRect(screen, BoardSize*s, 0, PanelWidth*s, ScreenHeight*s, panelBg, false)

	p.drawButton(screen, p.newGameBtn, true, false)
	p.swapBtn.Label = "Play Black (F)"
	if p.game.HumanColor() == board.Black {
		p.swapBtn.Label = "Play White (F)"
	}
	p.drawButton(screen, p.swapBtn, false, false)

	x := float64(BoardSize + PanelPadding)
	drawText(screen, "Difficulty", GetRegularFace(), x, float64(p.diffTabs[0].Y-SectionLabelH), textMuted)
	for d, b := range p.diffTabs {
		p.drawButton(screen, b, false, engine.Difficulty(d) == p.game.Difficulty())
	}

	drawText(screen, "Moves", GetRegularFace(), x, float64(p.historyY), textMuted)
	p.drawMoveHistory(screen, p.historyY+SectionLabelH+4)
	p.drawStatusBar(screen)
}

func (p *Panel) drawButton(screen *ebiten.Image, b *Button, primary, active bool) {
	s := float32(UIScale)
	bg, fg := tabInactiveBg, textSecondary
	switch {
	case primary && b.hovered:
		bg, fg = accentHover, textPrimary
	case primary:
		bg, fg = accentColor, textPrimary
	case active:
		bg, fg = tabActiveBg, textPrimary
	case b.hovered:
		bg = buttonHoverBg
	}
	x, y, w, h := float32(b.X)*s, float32(b.Y)*s, float32(b.W)*s, float32(b.H)*s
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, s, buttonBorder, false)
	drawTextCentered(screen, b.Label, GetRegularFace(), float64(b.X)+float64(b.W)/2, float64(b.Y)+float64(b.H)/2, fg)
}

// moveRow is one numbered line of the move list.
type moveRow struct {
	number       int
	white, black string
}

// moveRows pairs the plies into numbered rows. A game that starts with
// Black to move gets "..." in the first white column.
func moveRows(history []game.Ply) []moveRow {
	var rows []moveRow
	for _, ply := range history {
		if ply.Color == board.White || len(rows) == 0 {
			rows = append(rows, moveRow{number: len(rows) + 1, white: "..."})
		}
		row := &rows[len(rows)-1]
		if ply.Color == board.White {
			row.white = ply.SAN
		} else {
			row.black = ply.SAN
		}
	}
	return rows
}

// drawMoveHistory draws the last rows that fit above the status bar.
func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	face := GetRegularFace()
	x := float64(BoardSize + PanelPadding)
	rows := moveRows(p.game.History())
	if len(rows) == 0 {
		drawText(screen, "No moves yet", face, x, float64(startY+5), textMuted)
		return
	}

	maxY := ScreenHeight - 90
	visible := (maxY - startY) / MoveRowHeight
	if len(rows) > visible {
		rows = rows[len(rows)-visible:]
	}

	s := float32(UIScale)
	y := startY
	for _, r := range rows {
		if r.number%2 == 0 {
			vector.DrawFilledRect(screen, float32(BoardSize+PanelPadding-4)*s, float32(y-2)*s,
				float32(PanelWidth-PanelPadding*2+8)*s, MoveRowHeight*s, moveRowAlt, false)
		}
		drawText(screen, fmt.Sprintf("%d.", r.number), face, x, float64(y), textMuted)
		drawText(screen, r.white, face, x+36, float64(y), textPrimary)
		drawText(screen, r.black, face, x+120, float64(y), textPrimary)
		y += MoveRowHeight
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	s := float32(UIScale)
	statusY := ScreenHeight - 80
	x := float64(BoardSize + PanelPadding)

	vector.DrawFilledRect(screen, float32(BoardSize+PanelPadding)*s, float32(statusY-10)*s,
		float32(PanelWidth-PanelPadding*2)*s, s, dividerColor, false)

	face := GetRegularFace()
	name := p.game.Username()
	if len(name) > 14 {
		name = name[:14] + "..."
	}
	drawText(screen, name, face, x, float64(statusY), textPrimary)
	drawText(screen, p.game.StatsLine(), face, x+130, float64(statusY), textSecondary)

	text, c := p.game.StatusText(), color.Color(textPrimary)
	switch {
	case p.game.IsOver():
		c = statusGameOver
	case p.game.IsAIThinking():
		c = statusThinking
	}
	drawText(screen, text, face, x, float64(statusY+22), c)

	sound := "on"
	if !p.game.SoundEnabled() {
		sound = "off"
	}
	drawText(screen, "S: sound "+sound+"   R: rotate   E: save PGN", face, x, float64(statusY+44), textMuted)
}
