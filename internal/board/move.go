package board

import "fmt"

// Move encodes a (from, to) pair in 12 bits:
// bits 0-5: from square, bits 6-11: to square.
// Castling, en passant and promotion are not flagged; MakeMove infers them
// from the moving piece and the position.
type Move uint16

// NoMove represents an invalid or null move (a1a1 is never generated).
const NoMove Move = 0

// NewMove creates a move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// String returns the move in coordinate notation, e.g. "e2e4".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// UCI returns coordinate notation with a trailing "q" when the move is a
// pawn reaching the far rank in pos (auto-promotion is always to a queen).
func (m Move) UCI(pos *Position) string {
	if pos.IsPromotion(m) {
		return m.String() + "q"
	}
	return m.String()
}

// ParseMove parses coordinate notation ("e2e4", optionally "e7e8q").
// A promotion suffix other than "q" is rejected since only queening exists.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	if len(s) == 5 && s[4] != 'q' {
		return NoMove, fmt.Errorf("unsupported promotion piece: %c", s[4])
	}
	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo is the captured state MakeMove returns and UnmakeMove consumes.
// Every field written by MakeMove has its previous value recorded here so
// that the inverse never recomputes anything.
type UndoInfo struct {
	Moved     Piece  // piece that stood on From before the move
	Captured  Piece  // piece removed by the capture, NoPiece if none
	CaptureSq Square // square the captured piece stood on (differs from To for en passant)

	RookFrom Square // castling rook origin, NoSquare if not castling
	RookTo   Square

	Castling  CastlingState // flags before the move
	EnPassant Square        // en-passant target before the move
}
