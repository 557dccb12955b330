package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chessmate/internal/board"
)

// Options controls a board diagram.
type Options struct {
	SquareSize  int        // pixels per square, 0 means 64
	Flipped     bool       // Black at the bottom
	LastMove    board.Move // highlighted when not NoMove
	ShowCheck   bool       // shade a king that is in check
	Coordinates bool
}

// Colors match the desktop board.
const (
	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
	lastMove    = "#cdd26a"
	checkColor  = "#e05050"
	coordColor  = "#404040"
)

// DefaultOptions returns a plain, unflipped diagram with coordinates.
func DefaultOptions() Options {
	return Options{SquareSize: 64, ShowCheck: true, Coordinates: true}
}

// Board writes an SVG diagram of pos.
func Board(w io.Writer, pos *board.Position, opts Options) error {
	if pos == nil {
		return fmt.Errorf("render: nil position")
	}
	sq := opts.SquareSize
	if sq <= 0 {
		sq = 64
	}
	margin := 0
	if opts.Coordinates {
		margin = sq / 3
	}
	size := 8*sq + margin

	checked := [2]board.Square{board.NoSquare, board.NoSquare}
	if opts.ShowCheck {
		for _, c := range [2]board.Color{board.White, board.Black} {
			if pos.InCheck(c) {
				checked[c] = pos.KingSquare(c)
			}
		}
	}

	canvas := svg.New(w)
	canvas.Start(size, size)
	canvas.Title(pos.FEN(board.White))

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			s := board.NewSquare(file, rank)
			x, y := squareOrigin(s, sq, opts.Flipped)
			x += margin

			color := lightSquare
			if (file+rank)%2 == 0 {
				color = darkSquare
			}
			if opts.LastMove != board.NoMove && (s == opts.LastMove.From() || s == opts.LastMove.To()) {
				color = lastMove
			}
			if s == checked[board.White] || s == checked[board.Black] {
				color = checkColor
			}
			canvas.Rect(x, y, sq, sq, "fill:"+color)

			piece := pos.PieceAt(s)
			if piece == board.NoPiece {
				continue
			}
			canvas.Gtransform(fmt.Sprintf("translate(%d,%d) scale(%g)", x, y, float64(sq)/PieceViewBox))
			drawPiece(canvas, piece)
			canvas.Gend()
		}
	}

	if opts.Coordinates {
		font := fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:%s;text-anchor:middle", sq/4, coordColor)
		for i := 0; i < 8; i++ {
			file, rank := i, 7-i
			if opts.Flipped {
				file, rank = 7-i, i
			}
			canvas.Text(margin+i*sq+sq/2, 8*sq+margin*3/4, string(rune('a'+file)), font)
			canvas.Text(margin/2, i*sq+sq/2+sq/12, string(rune('1'+rank)), font)
		}
	}

	canvas.End()
	return nil
}

// squareOrigin returns the top-left pixel of s on the unmargined board.
func squareOrigin(s board.Square, sq int, flipped bool) (int, int) {
	file, rank := s.File(), s.Rank()
	if flipped {
		return (7 - file) * sq, rank * sq
	}
	return file * sq, (7 - rank) * sq
}
