// Package board implements the chess position model, move generation,
// check detection and the make/unmake executor used by the search.
package board

import "fmt"

// Square is a board square index (0-63).
// A1=0, H1=7, A8=56, H8=63. Rank 0 is White's back rank.
type Square uint8

// Named squares used by castling, tests and callers.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// File returns the file (column) of the square, 0=a .. 7=h.
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square, 0=1st .. 7=8th.
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// IsValid reports whether sq is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Offset returns the square df files and dr ranks away, and false if that
// falls off the board.
func (sq Square) Offset(df, dr int) (Square, bool) {
	f, r := sq.File()+df, sq.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

// RelativeRank returns the rank counted from c's own back rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

// String returns the algebraic name of the square, e.g. "e4".
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// ParseSquare parses algebraic notation ("e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return NewSquare(file, rank), nil
}
