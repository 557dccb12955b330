// Package render draws positions and piece glyphs as SVG.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chessmate/internal/board"
)

// PieceViewBox is the side of the square every piece outline is drawn in.
const PieceViewBox = 45

// Outlines in a 45x45 box. Each shape is a list of path commands plus
// circles given as {cx, cy, r}.
type outline struct {
	paths   []string
	circles [][3]float64
}

const pieceBase = "M 9 39 L 36 39 L 36 35 L 9 35 Z"

var outlines = [6]outline{
	board.Pawn: {
		paths:   []string{pieceBase, "M 16 35 C 16 28 19 24 22.5 20 C 26 24 29 28 29 35 Z"},
		circles: [][3]float64{{22.5, 14, 5.5}},
	},
	board.Knight: {
		paths: []string{
			pieceBase,
			"M 12 35 L 33 35 C 33 25 31 16 24 10 L 22 6 L 19 10 C 13 13 9 19 10 24 L 14 25 L 19 21 C 19 26 14 29 12 35 Z",
		},
		circles: [][3]float64{{17, 15, 1.2}},
	},
	board.Bishop: {
		paths: []string{
			pieceBase,
			"M 14 35 L 31 35 C 30 28 29 24 27 21 C 31 17 29 11 22.5 8 C 16 11 14 17 18 21 C 16 24 15 28 14 35 Z",
			"M 20 15 L 25 15 M 22.5 12.5 L 22.5 17.5",
		},
		circles: [][3]float64{{22.5, 6, 2.5}},
	},
	board.Rook: {
		paths: []string{
			pieceBase,
			"M 12 35 L 33 35 L 31 16 L 14 16 Z",
			"M 11 9 L 15 9 L 15 12 L 19.5 12 L 19.5 9 L 25.5 9 L 25.5 12 L 30 12 L 30 9 L 34 9 L 34 16 L 11 16 Z",
		},
	},
	board.Queen: {
		paths: []string{
			pieceBase,
			"M 10 35 L 35 35 L 38 14 L 30 25 L 27 11 L 22.5 24 L 18 11 L 15 25 L 7 14 Z",
		},
		circles: [][3]float64{{7, 12, 2.5}, {18, 9, 2.5}, {27, 9, 2.5}, {38, 12, 2.5}},
	},
	board.King: {
		paths: []string{
			pieceBase,
			"M 11 35 L 34 35 L 36 23 C 36 16 28 15 22.5 22 C 17 15 9 16 9 23 Z",
			"M 21 4 L 24 4 L 24 8 L 28 8 L 28 11 L 24 11 L 24 17 L 21 17 L 21 11 L 17 11 L 17 8 L 21 8 Z",
		},
	},
}

// pieceStyle returns fill and stroke for a piece of color c.
func pieceStyle(c board.Color) string {
	if c == board.White {
		return "fill:#ffffff;stroke:#000000;stroke-width:1.5;stroke-linejoin:round"
	}
	return "fill:#202020;stroke:#000000;stroke-width:1.5;stroke-linejoin:round"
}

// circlePath draws a circle as two arcs; svgo circles only take integers.
func circlePath(cx, cy, r float64) string {
	return fmt.Sprintf("M %g %g A %g %g 0 1 0 %g %g A %g %g 0 1 0 %g %g Z",
		cx-r, cy, r, r, cx+r, cy, r, r, cx-r, cy)
}

// drawPiece emits the outline of p into canvas using the 45x45 coordinates.
// The style goes on every element so rasterisers without group styles
// still fill it.
func drawPiece(canvas *svg.SVG, p board.Piece) {
	o := outlines[p.Type()]
	style := `style="` + pieceStyle(p.Color()) + `"`
	for _, d := range o.paths {
		canvas.Path(d, style)
	}
	for _, c := range o.circles {
		canvas.Path(circlePath(c[0], c[1], c[2]), style)
	}
}

// Piece writes a standalone SVG document of p, size pixels square.
func Piece(w io.Writer, p board.Piece, size int) error {
	if p.Type() == board.NoPieceType {
		return fmt.Errorf("render: no piece to draw")
	}
	canvas := svg.New(w)
	canvas.Startview(size, size, 0, 0, PieceViewBox, PieceViewBox)
	drawPiece(canvas, p)
	canvas.End()
	return nil
}
