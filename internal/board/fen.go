package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a Position and the side to move.
// Castling rights become moved-flags: a missing right marks that rook as
// moved, and a side with no rights (or a king off its home square) marks the
// king as moved. The move counters are accepted but not kept.
func ParseFEN(fen string) (*Position, Color, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, NoColor, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	pos := &Position{}
	pos.Clear()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, NoColor, err
	}

	var side Color
	switch parts[1] {
	case "w":
		side = White
	case "b":
		side = Black
	default:
		return nil, NoColor, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, NoColor, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, NoColor, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EnPassant = sq
	}

	for i := 4; i < len(parts) && i < 6; i++ {
		if _, err := strconv.Atoi(parts[i]); err != nil {
			return nil, NoColor, fmt.Errorf("invalid move counter: %s", parts[i])
		}
	}

	return pos, side, nil
}

// MustParseFEN is ParseFEN for known-good literals; it panics on error.
func MustParseFEN(fen string) (*Position, Color) {
	pos, side, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos, side
}

// parsePiecePlacement parses the piece placement field.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("invalid piece character: %c", c)
			}
			pos.Board[NewSquare(file, rank)] = piece
			file++
		}
		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}
	return nil
}

// parseCastlingRights converts the castling field into moved-flags.
func parseCastlingRights(pos *Position, castling string) error {
	var rights [2][2]bool
	if castling != "-" {
		for _, c := range castling {
			switch c {
			case 'K':
				rights[White][KingSide] = true
			case 'Q':
				rights[White][QueenSide] = true
			case 'k':
				rights[Black][KingSide] = true
			case 'q':
				rights[Black][QueenSide] = true
			default:
				return fmt.Errorf("invalid castling character: %c", c)
			}
		}
	}

	for _, c := range [2]Color{White, Black} {
		home := NewSquare(4, BackRank(c))
		kingHome := pos.Board[home] == NewPiece(King, c)
		pos.Castling.KingMoved[c] = !kingHome || (!rights[c][KingSide] && !rights[c][QueenSide])
		pos.Castling.RookMoved[c][KingSide] = !rights[c][KingSide]
		pos.Castling.RookMoved[c][QueenSide] = !rights[c][QueenSide]
	}
	return nil
}

// castlingString renders the FEN castling field from the flags and the
// pieces actually standing on their home squares.
func (p *Position) castlingString() string {
	var sb strings.Builder
	letters := [2][2]byte{{'Q', 'K'}, {'q', 'k'}}
	for _, c := range [2]Color{White, Black} {
		if p.Board[NewSquare(4, BackRank(c))] != NewPiece(King, c) {
			continue
		}
		for _, side := range [2]CastleSide{KingSide, QueenSide} {
			if p.Castling.Unmoved(c, side) && p.Board[RookOrigin(c, side)] == NewPiece(Rook, c) {
				sb.WriteByte(letters[c][side])
			}
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// FEN returns the FEN representation of the position with `side` to move.
// Move counters are always written as "0 1".
func (p *Position) FEN(side Color) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if side == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castlingString())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteString(" 0 1")
	return sb.String()
}
