package board

import (
	"errors"
	"fmt"
	"strings"
)

// CastleSide selects the rook a castling move uses.
type CastleSide uint8

const (
	QueenSide CastleSide = iota // rook on the a-file
	KingSide                    // rook on the h-file
)

// RookFile returns the file the side's rook starts on.
func (cs CastleSide) RookFile() int {
	if cs == KingSide {
		return 7
	}
	return 0
}

// String returns "O-O" or "O-O-O".
func (cs CastleSide) String() string {
	if cs == KingSide {
		return "O-O"
	}
	return "O-O-O"
}

// CastlingState records which castling pieces have left their origin
// squares. Flags are never cleared by play, only restored by UnmakeMove.
type CastlingState struct {
	KingMoved [2]bool    // [Color]
	RookMoved [2][2]bool // [Color][CastleSide]
}

// Unmoved reports whether neither the king nor the side's rook has moved.
// It does not check that the rook is still on the board.
func (cs CastlingState) Unmoved(c Color, side CastleSide) bool {
	return !cs.KingMoved[c] && !cs.RookMoved[c][side]
}

// BackRank returns the rank index of c's first rank.
func BackRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

// RookOrigin returns the starting square of c's rook on the given side.
func RookOrigin(c Color, side CastleSide) Square {
	return NewSquare(side.RookFile(), BackRank(c))
}

// Position is an 8x8 board of optional pieces plus the castling flags and the
// en-passant target. The side to move is owned by the caller so a Position
// can be explored speculatively for either color.
type Position struct {
	Board     [64]Piece
	Castling  CastlingState
	EnPassant Square // square skipped by the previous double pawn step, NoSquare if none
}

var backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition creates the standard starting position.
func NewPosition() *Position {
	p := &Position{}
	p.Clear()
	for file := 0; file < 8; file++ {
		p.Board[NewSquare(file, 0)] = NewPiece(backRankOrder[file], White)
		p.Board[NewSquare(file, 1)] = WhitePawn
		p.Board[NewSquare(file, 6)] = BlackPawn
		p.Board[NewSquare(file, 7)] = NewPiece(backRankOrder[file], Black)
	}
	return p
}

// Clear resets the position to an empty board with no flags set.
func (p *Position) Clear() {
	for sq := range p.Board {
		p.Board[sq] = NoPiece
	}
	p.Castling = CastlingState{}
	p.EnPassant = NoSquare
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Equal reports whether both positions agree on every square and flag.
func (p *Position) Equal(o *Position) bool {
	return *p == *o
}

// PieceAt returns the piece at sq, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if sq >= NoSquare {
		return NoPiece
	}
	return p.Board[sq]
}

// IsEmpty returns true if the square holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == NoPiece
}

// Put places a piece on a square, replacing whatever was there. It is meant
// for setting up positions; play goes through MakeMove.
func (p *Position) Put(piece Piece, sq Square) {
	p.Board[sq] = piece
}

// KingSquare locates c's king, or NoSquare if it is missing.
func (p *Position) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := A1; sq <= H8; sq++ {
		if p.Board[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// IsPromotion reports whether m moves a pawn onto its far rank.
func (p *Position) IsPromotion(m Move) bool {
	piece := p.PieceAt(m.From())
	return piece.Type() == Pawn && m.To().RelativeRank(piece.Color()) == 7
}

// IsCapture reports whether m removes an enemy piece, en passant included.
func (p *Position) IsCapture(m Move) bool {
	if !p.IsEmpty(m.To()) {
		return true
	}
	return p.PieceAt(m.From()).Type() == Pawn && m.To() == p.EnPassant && m.From().File() != m.To().File()
}

// IsCastling reports whether m is a king double step.
func (p *Position) IsCastling(m Move) bool {
	return p.PieceAt(m.From()).Type() == King && abs(m.To().File()-m.From().File()) == 2
}

// Material counts the pieces of each type per color.
func (p *Position) Material() (counts [2][6]int) {
	for _, piece := range p.Board {
		if piece != NoPiece {
			counts[piece.Color()][piece.Type()]++
		}
	}
	return counts
}

// Validate checks the structural invariants: one king per side and no pawn
// on a back rank.
func (p *Position) Validate() error {
	counts := p.Material()
	if counts[White][King] != 1 {
		return errors.New("white must have exactly one king")
	}
	if counts[Black][King] != 1 {
		return errors.New("black must have exactly one king")
	}
	for file := 0; file < 8; file++ {
		if p.Board[NewSquare(file, 0)].Type() == Pawn || p.Board[NewSquare(file, 7)].Type() == Pawn {
			return errors.New("pawns cannot be on rank 1 or 8")
		}
	}
	if p.EnPassant != NoSquare && p.EnPassant.Rank() != 2 && p.EnPassant.Rank() != 5 {
		return fmt.Errorf("en passant target %s is not on rank 3 or 6", p.EnPassant)
	}
	return nil
}

// String returns a diagram of the position with White at the bottom.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Castling flags: %+v\n", p.Castling)
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
