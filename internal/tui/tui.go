// Package tui plays a game against the engine in a terminal using tcell.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/engine"
	"github.com/hailam/chessmate/internal/game"
)

// Board layout: each square is three cells wide and one row tall.
const (
	boardX    = 3
	boardY    = 1
	cellWidth = 3
	panelX    = boardX + 8*cellWidth + 4
)

var (
	lightStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(240, 217, 181))
	darkStyle   = tcell.StyleDefault.Background(tcell.NewRGBColor(181, 136, 99))
	cursorBg    = tcell.NewRGBColor(97, 175, 239)
	selectBg    = tcell.NewRGBColor(247, 247, 105)
	destBg      = tcell.NewRGBColor(130, 151, 105)
	lastMoveBg  = tcell.NewRGBColor(205, 210, 106)
	checkBg     = tcell.NewRGBColor(224, 80, 80)
	whiteFg     = tcell.NewRGBColor(255, 255, 255)
	blackFg     = tcell.NewRGBColor(0, 0, 0)
	textStyle   = tcell.StyleDefault
	mutedStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// App is the terminal front end. It owns the screen and the game and runs
// on a single goroutine; the engine reply wakes it with an interrupt event.
type App struct {
	screen tcell.Screen
	engine *engine.Engine
	game   *game.Game

	cursor   board.Square
	selected board.Square
	dests    []board.Square
	flipped  bool
	message  string
	quit     bool
}

// New creates an app on an initialised screen.
func New(screen tcell.Screen, eng *engine.Engine, human board.Color) *App {
	a := &App{screen: screen, engine: eng}
	a.game = game.New(eng, human)
	a.game.Notify = func() {
		// PostEvent fails only when the queue is full; the next key press
		// polls the engine anyway.
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
	a.reset()
	return a
}

func (a *App) reset() {
	human := a.game.Human()
	a.flipped = human == board.Black
	a.cursor = board.E2
	if human == board.Black {
		a.cursor = board.E7
	}
	a.clearSelection()
	a.message = ""
}

// Run processes events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	defer a.game.StopEngine()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for !a.quit {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.update(ctx)
		a.draw()

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil // screen finalised
		}
		a.handleEvent(ev)
	}
	return nil
}

// update collects the engine's move and starts it when it is its turn.
func (a *App) update(ctx context.Context) {
	if ply, ok := a.game.PollEngine(); ok {
		a.afterMove(ply)
	}
	if a.game.EngineToMove() {
		if err := a.game.StartEngine(ctx); err != nil {
			log.Printf("Warning: [AI] failed to start: %v", err)
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			if sq := a.squareAt(x, y); sq != board.NoSquare {
				a.cursor = sq
				a.activate()
			}
		}
	case *tcell.EventInterrupt:
		// engine finished; update picks up the move
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		a.quit = true
	case tcell.KeyUp:
		a.moveCursor(0, 1)
	case tcell.KeyDown:
		a.moveCursor(0, -1)
	case tcell.KeyLeft:
		a.moveCursor(-1, 0)
	case tcell.KeyRight:
		a.moveCursor(1, 0)
	case tcell.KeyEnter:
		a.activate()
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			a.activate()
		case 'q':
			a.quit = true
		case 'n':
			a.game.NewGame(a.game.Human())
			a.reset()
		case 'f':
			a.game.NewGame(a.game.Human().Other())
			a.reset()
		case 'r':
			a.flipped = !a.flipped
		case '1', '2', '3':
			d := engine.Difficulty(ev.Rune() - '1')
			a.engine.SetDifficulty(d)
			a.message = "Difficulty: " + d.String()
		}
	}
}

// moveCursor moves the cursor as seen on screen.
func (a *App) moveCursor(df, dr int) {
	if a.flipped {
		df, dr = -df, -dr
	}
	if sq, ok := a.cursor.Offset(df, dr); ok {
		a.cursor = sq
	}
}

// activate selects the piece under the cursor or moves the selected piece
// there.
func (a *App) activate() {
	if !a.game.HumanToMove() {
		if !a.game.IsOver() {
			a.message = "Not your turn"
		}
		return
	}
	p := a.game.PieceAt(a.cursor)
	if p != board.NoPiece && p.Color() == a.game.Human() {
		a.selected = a.cursor
		a.dests = a.game.LegalDestinations(a.cursor)
		a.message = ""
		return
	}
	if a.selected == board.NoSquare {
		return
	}

	ply, err := a.game.PlayHuman(a.selected, a.cursor)
	if err != nil {
		if errors.Is(err, game.ErrIllegalMove) {
			a.message = "Illegal move"
		} else {
			a.message = err.Error()
		}
		a.clearSelection()
		return
	}
	a.afterMove(ply)
}

func (a *App) afterMove(ply game.Ply) {
	a.clearSelection()
	a.message = ""
	if ply.Check && !a.game.IsOver() {
		a.message = "Check!"
	}
}

func (a *App) clearSelection() {
	a.selected = board.NoSquare
	a.dests = nil
}

// cellOf returns the screen column and row of the left cell of sq.
func (a *App) cellOf(sq board.Square) (int, int) {
	col, row := sq.File(), 7-sq.Rank()
	if a.flipped {
		col, row = 7-sq.File(), sq.Rank()
	}
	return boardX + col*cellWidth, boardY + row
}

// squareAt maps a screen cell to a square, or NoSquare off the board.
func (a *App) squareAt(x, y int) board.Square {
	col, row := (x-boardX)/cellWidth, y-boardY
	if x < boardX || col > 7 || row < 0 || row > 7 {
		return board.NoSquare
	}
	file, rank := col, 7-row
	if a.flipped {
		file, rank = 7-col, row
	}
	return board.NewSquare(file, rank)
}

func (a *App) draw() {
	a.screen.Clear()
	a.drawBoard()
	a.drawPanel()
	a.screen.Show()
}

func (a *App) drawBoard() {
	last := a.game.LastMove()
	check := a.game.CheckSquare()
	isDest := make(map[board.Square]bool, len(a.dests))
	for _, d := range a.dests {
		isDest[d] = true
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		style := lightStyle
		if (sq.File()+sq.Rank())%2 == 0 {
			style = darkStyle
		}
		switch {
		case sq == a.cursor:
			style = style.Background(cursorBg)
		case sq == a.selected:
			style = style.Background(selectBg)
		case sq == check:
			style = style.Background(checkBg)
		case isDest[sq]:
			style = style.Background(destBg)
		case last != board.NoMove && (sq == last.From() || sq == last.To()):
			style = style.Background(lastMoveBg)
		}

		glyph := ' '
		if p := a.game.PieceAt(sq); p != board.NoPiece {
			// filled glyphs for both sides, told apart by color
			glyph = []rune(board.NewPiece(p.Type(), board.Black).Glyph())[0]
			if p.Color() == board.White {
				style = style.Foreground(whiteFg)
			} else {
				style = style.Foreground(blackFg)
			}
		} else if isDest[sq] {
			glyph = '·'
		}

		x, y := a.cellOf(sq)
		a.screen.SetContent(x, y, ' ', nil, style)
		a.screen.SetContent(x+1, y, glyph, nil, style)
		a.screen.SetContent(x+2, y, ' ', nil, style)
	}

	for i := 0; i < 8; i++ {
		file, rank := i, 7-i
		if a.flipped {
			file, rank = 7-i, i
		}
		a.text(boardX-2, boardY+i, string(rune('1'+rank)), mutedStyle)
		a.text(boardX+i*cellWidth+1, boardY+8, string(rune('a'+file)), mutedStyle)
	}
}

func (a *App) drawPanel() {
	y := boardY
	a.text(panelX, y, "Man vs Computer", statusStyle)
	y += 2
	a.text(panelX, y, fmt.Sprintf("You play %s, difficulty %s", a.game.Human(), a.engine.Difficulty()), textStyle)
	y++
	a.text(panelX, y, a.status(), statusStyle)
	y++
	a.text(panelX, y, a.message, textStyle)
	y += 2

	for _, line := range wrap(a.game.MoveText(), 40) {
		a.text(panelX, y, line, textStyle)
		y++
	}

	_, h := a.screen.Size()
	help := "arrows/mouse: move  enter: select  n: new  f: swap  r: rotate  1-3: level  q: quit"
	a.text(0, max(h-1, boardY+10), help, mutedStyle)
}

func (a *App) status() string {
	switch {
	case a.game.IsOver():
		return a.game.ResultMessage() + " " + a.game.Result()
	case a.game.Thinking():
		return "Computer is thinking..."
	case a.game.HumanToMove():
		return "Your move"
	}
	return a.game.Turn().String() + " to move"
}

func (a *App) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// wrap splits s into lines of at most width runes at spaces.
func wrap(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
