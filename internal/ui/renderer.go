package ui

import (
	"image/color"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	InvalidColor   color.RGBA
	Background     color.RGBA
	PanelColor     color.RGBA
	TextColor      color.RGBA
	MutedText      color.RGBA
	AccentColor    color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255},
		DarkSquare:     color.RGBA{181, 136, 99, 255},
		SelectedSquare: color.RGBA{247, 247, 105, 180},
		LegalMoveColor: color.RGBA{130, 151, 105, 200},
		LastMoveColor:  color.RGBA{205, 210, 106, 110},
		CheckColor:     color.RGBA{224, 80, 80, 180},
		InvalidColor:   color.RGBA{255, 80, 80, 150},
		Background:     color.RGBA{40, 44, 52, 255},
		PanelColor:     color.RGBA{33, 37, 43, 255},
		TextColor:      color.RGBA{220, 220, 220, 255},
		MutedText:      color.RGBA{140, 145, 155, 255},
		AccentColor:    color.RGBA{97, 175, 239, 255},
	}
}

// Renderer draws the board and pieces. Positions passed in are logical
// pixels; the renderer multiplies by the HiDPI scale.
type Renderer struct {
	sprites    *SpriteManager
	theme      *Theme
	boardSize  int
	squareSize int
	flipped    bool // Black at the bottom
	scale      float64
}

// NewRenderer creates a new renderer.
func NewRenderer(boardSize, squareSize int) *Renderer {
	return &Renderer{
		sprites:    NewSpriteManager(squareSize),
		theme:      DefaultTheme(),
		boardSize:  boardSize,
		squareSize: squareSize,
		scale:      1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
	r.sprites.SetScale(scale)
}

// SetFlipped puts Black at the bottom of the board.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// Flipped reports whether Black is at the bottom.
func (r *Renderer) Flipped() bool {
	return r.flipped
}

func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// DrawBoard draws the squares and their coordinates.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for sq := board.A1; sq <= board.H8; sq++ {
		c := r.theme.LightSquare
		if (sq.File()+sq.Rank())%2 == 0 {
			c = r.theme.DarkSquare
		}
		r.fillSquare(screen, sq, c)
	}
	r.drawCoordinates(screen)
}

// drawCoordinates labels the bottom rank with files and the left file with
// ranks, in the color of the opposite square.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := GetFaceWithSize(11 * r.scale)
	if face == nil {
		return
	}
	for i := 0; i < 8; i++ {
		file, rank := i, 7-i
		if r.flipped {
			file, rank = 7-i, i
		}

		// file letter in the bottom right corner of the bottom row
		fileSq := board.NewSquare(file, rank0(r.flipped))
		x, y := r.SquareToScreen(fileSq)
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(r.s(x+r.squareSize-10)), float64(r.s(y+r.squareSize-15)))
		op.ColorScale.ScaleWithColor(r.coordColor(fileSq))
		text.Draw(screen, string(rune('a'+file)), face, op)

		// rank digit in the top left corner of the left column
		rankSq := board.NewSquare(file0(r.flipped), rank)
		x, y = r.SquareToScreen(rankSq)
		op = &text.DrawOptions{}
		op.GeoM.Translate(float64(r.s(x+3)), float64(r.s(y+2)))
		op.ColorScale.ScaleWithColor(r.coordColor(rankSq))
		text.Draw(screen, string(rune('1'+rank)), face, op)
	}
}

// rank0 is the rank drawn at the bottom.
func rank0(flipped bool) int {
	if flipped {
		return 7
	}
	return 0
}

// file0 is the file drawn on the left.
func file0(flipped bool) int {
	if flipped {
		return 7
	}
	return 0
}

func (r *Renderer) coordColor(sq board.Square) color.RGBA {
	if (sq.File()+sq.Rank())%2 == 0 {
		return r.theme.LightSquare
	}
	return r.theme.DarkSquare
}

// DrawHighlights draws the last move, the selected square and dots on the
// legal destinations.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected board.Square, dests []board.Square, last board.Move) {
	if last != board.NoMove {
		r.fillSquare(screen, last.From(), r.theme.LastMoveColor)
		r.fillSquare(screen, last.To(), r.theme.LastMoveColor)
	}
	if selected != board.NoSquare {
		r.fillSquare(screen, selected, r.theme.SelectedSquare)
	}
	for _, sq := range dests {
		r.drawLegalMoveIndicator(screen, sq)
	}
}

// DrawCheck highlights the king's square if in check.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingSq board.Square) {
	if kingSq != board.NoSquare {
		r.fillSquare(screen, kingSq, r.theme.CheckColor)
	}
}

func (r *Renderer) fillSquare(screen *ebiten.Image, sq board.Square, c color.Color) {
	if !sq.IsValid() {
		return
	}
	x, y := r.SquareToScreen(sq)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), c, false)
}

func (r *Renderer) drawLegalMoveIndicator(screen *ebiten.Image, sq board.Square) {
	x, y := r.SquareToScreen(sq)
	cx := r.s(x) + r.s(r.squareSize)/2
	cy := r.s(y) + r.s(r.squareSize)/2
	vector.DrawFilledCircle(screen, cx, cy, r.s(r.squareSize)*0.15, r.theme.LegalMoveColor, true)
}

// DrawPieces draws every piece except the one being dragged. shake, when
// non-nil, offsets individual squares.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pos *board.Position, skip board.Square, shake func(board.Square) float64) {
	for sq := board.A1; sq <= board.H8; sq++ {
		if sq == skip {
			continue
		}
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		x, y := r.SquareToScreen(sq)
		if shake != nil {
			x += int(shake(sq))
		}
		r.sprites.DrawPieceAt(screen, p, int(r.s(x)), int(r.s(y)))
	}
}

// DrawDraggedPiece draws p centred on the mouse position.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, p board.Piece, mouseX, mouseY int) {
	if p == board.NoPiece {
		return
	}
	half := r.squareSize / 2
	r.sprites.DrawPieceAt(screen, p, int(r.s(mouseX-half)), int(r.s(mouseY-half)))
}

// SquareToScreen returns the logical top-left corner of sq.
func (r *Renderer) SquareToScreen(sq board.Square) (int, int) {
	file, rank := sq.File(), sq.Rank()
	if r.flipped {
		return (7 - file) * r.squareSize, rank * r.squareSize
	}
	return file * r.squareSize, (7 - rank) * r.squareSize
}

// ScreenToSquare converts logical coordinates to a board square, or NoSquare
// when they fall outside the board.
func (r *Renderer) ScreenToSquare(x, y int) board.Square {
	if x < 0 || x >= r.boardSize || y < 0 || y >= r.boardSize {
		return board.NoSquare
	}
	file := x / r.squareSize
	rank := 7 - y/r.squareSize
	if r.flipped {
		file, rank = 7-file, 7-rank
	}
	return board.NewSquare(file, rank)
}

// SquareSize returns the size of one square in logical pixels.
func (r *Renderer) SquareSize() int {
	return r.squareSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
