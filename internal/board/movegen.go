package board

// Direction tables as (file, rank) deltas.
var (
	rookDirs   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = [8][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	knightOffsets = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets   = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// PseudoMoves appends every pseudo-legal move of the piece on sq to ml,
// ignoring whether the mover's own king is left in check. Castling and en
// passant are only produced when includeSpecial is set; attack tests pass
// false so that king move generation never recurses into itself.
// An empty square yields no moves.
func (p *Position) PseudoMoves(sq Square, includeSpecial bool, ml *MoveList) {
	piece := p.Board[sq]
	if piece == NoPiece {
		return
	}
	us := piece.Color()

	switch piece.Type() {
	case Pawn:
		p.generatePawnMoves(ml, sq, us, includeSpecial)
	case Knight:
		p.generateStepMoves(ml, sq, us, knightOffsets[:])
	case Bishop:
		p.generateSlidingMoves(ml, sq, us, bishopDirs[:])
	case Rook:
		p.generateSlidingMoves(ml, sq, us, rookDirs[:])
	case Queen:
		p.generateSlidingMoves(ml, sq, us, queenDirs[:])
	case King:
		p.generateStepMoves(ml, sq, us, kingOffsets[:])
		if includeSpecial {
			p.generateCastlingMoves(ml, sq, us)
		}
	}
}

// GeneratePseudoLegalMoves returns the pseudo-legal moves of every piece of
// color c, specials included.
func (p *Position) GeneratePseudoLegalMoves(c Color) *MoveList {
	ml := NewMoveList()
	for sq := A1; sq <= H8; sq++ {
		if piece := p.Board[sq]; piece != NoPiece && piece.Color() == c {
			p.PseudoMoves(sq, true, ml)
		}
	}
	return ml
}

// generatePawnMoves generates pushes, captures and en passant for one pawn.
func (p *Position) generatePawnMoves(ml *MoveList, from Square, us Color, includeSpecial bool) {
	dir := 1
	if us == Black {
		dir = -1
	}

	if to, ok := from.Offset(0, dir); ok && p.IsEmpty(to) {
		ml.Add(NewMove(from, to))
		if from.RelativeRank(us) == 1 {
			if to2, ok := from.Offset(0, 2*dir); ok && p.IsEmpty(to2) {
				ml.Add(NewMove(from, to2))
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		target := p.Board[to]
		if target != NoPiece && target.Color() != us {
			ml.Add(NewMove(from, to))
			continue
		}
		// En passant: the capturing pawn stands on its fifth rank and the
		// pawn that just double-stepped sits beside it, behind the target.
		if includeSpecial && target == NoPiece && to == p.EnPassant && from.RelativeRank(us) == 4 {
			if p.Board[NewSquare(to.File(), from.Rank())] == NewPiece(Pawn, us.Other()) {
				ml.Add(NewMove(from, to))
			}
		}
	}
}

// generateStepMoves handles the fixed-offset pieces (knight, king).
func (p *Position) generateStepMoves(ml *MoveList, from Square, us Color, offsets [][2]int) {
	for _, off := range offsets {
		to, ok := from.Offset(off[0], off[1])
		if !ok {
			continue
		}
		if target := p.Board[to]; target == NoPiece || target.Color() != us {
			ml.Add(NewMove(from, to))
		}
	}
}

// generateSlidingMoves walks each direction until the edge or a blocker.
// An enemy blocker is included, a friendly one is not.
func (p *Position) generateSlidingMoves(ml *MoveList, from Square, us Color, dirs [][2]int) {
	for _, d := range dirs {
		to := from
		for {
			var ok bool
			to, ok = to.Offset(d[0], d[1])
			if !ok {
				break
			}
			target := p.Board[to]
			if target == NoPiece {
				ml.Add(NewMove(from, to))
				continue
			}
			if target.Color() != us {
				ml.Add(NewMove(from, to))
			}
			break
		}
	}
}

// generateCastlingMoves adds the king double step for each side whose king
// and rook are unmoved, whose rook is still home, whose in-between squares
// are empty, and where the king is not in check and neither crosses nor
// lands on an attacked square.
func (p *Position) generateCastlingMoves(ml *MoveList, from Square, us Color) {
	rank := BackRank(us)
	if from != NewSquare(4, rank) || p.Castling.KingMoved[us] {
		return
	}
	if p.InCheck(us) {
		return
	}

	rook := NewPiece(Rook, us)
	for _, side := range [2]CastleSide{KingSide, QueenSide} {
		if p.Castling.RookMoved[us][side] || p.Board[RookOrigin(us, side)] != rook {
			continue
		}

		step, lo, hi := 1, 5, 6
		if side == QueenSide {
			step, lo, hi = -1, 1, 3
		}
		clear := true
		for file := lo; file <= hi; file++ {
			if !p.IsEmpty(NewSquare(file, rank)) {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}

		transit := NewSquare(4+step, rank)
		dest := NewSquare(4+2*step, rank)
		if !p.kingSafeOn(from, transit, us) || !p.kingSafeOn(from, dest, us) {
			continue
		}
		ml.Add(NewMove(from, dest))
	}
}

// kingSafeOn speculatively places the king from `from` on the empty square
// `to` and reports whether it would be out of check there.
func (p *Position) kingSafeOn(from, to Square, us Color) bool {
	king := p.Board[from]
	p.Board[to], p.Board[from] = king, NoPiece
	safe := !p.InCheck(us)
	p.Board[from], p.Board[to] = king, NoPiece
	return safe
}
