// Package engine implements the computer opponent: a static evaluator and a
// fixed-depth minimax search with alpha-beta pruning.
package engine

import (
	"github.com/hailam/chessmate/internal/board"
)

// Scores are from White's point of view: positive favors White.
const (
	MateScore = 1_000_000
	DrawScore = 0
)

// Material values.
const (
	PawnValue   = 10
	KnightValue = 30
	BishopValue = 30
	RookValue   = 50
	QueenValue  = 90
	KingValue   = 900
)

// Piece values array for quick lookup, indexed by board.PieceType.
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Positional terms.
const (
	pawnAdvanceBonus   = 2   // per rank advanced from the pawn's own back rank
	knightCenterBonus  = 5   // d4, e4, d5, e5
	kingExposedPenalty = -20 // on ranks 1, 2, 7 and 8, for both colors
)

// Evaluate returns the static score of pos. A checkmated side scores as a
// mate for the other side and stalemate of either side is a draw; otherwise
// the score is the material and positional balance.
func Evaluate(pos *board.Position) int {
	if pos.IsCheckmate(board.Black) {
		return MateScore
	}
	if pos.IsCheckmate(board.White) {
		return -MateScore
	}
	if pos.IsStalemate(board.White) || pos.IsStalemate(board.Black) {
		return DrawScore
	}
	return EvaluateMaterial(pos)
}

// EvaluateMaterial sums material plus positional bonuses without looking for
// checkmate or stalemate.
func EvaluateMaterial(pos *board.Position) int {
	score := 0
	for sq := board.A1; sq < board.NoSquare; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		val := pieceValues[piece.Type()] + positionalBonus(piece, sq)
		if piece.Color() == board.White {
			score += val
		} else {
			score -= val
		}
	}
	return score
}

func positionalBonus(piece board.Piece, sq board.Square) int {
	switch piece.Type() {
	case board.Pawn:
		return pawnAdvanceBonus * sq.RelativeRank(piece.Color())
	case board.Knight:
		f, r := sq.File(), sq.Rank()
		if f >= 3 && f <= 4 && r >= 3 && r <= 4 {
			return knightCenterBonus
		}
	case board.King:
		if r := sq.Rank(); r < 2 || r > 5 {
			return kingExposedPenalty
		}
	}
	return 0
}
