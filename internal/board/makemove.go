package board

// MakeMove applies m in place and returns the state needed to undo it.
// It relocates the piece, remembers any capture (en passant included),
// moves the rook on a king double step, sets the castling flags, promotes a
// pawn reaching the far rank to a queen, and sets the en-passant target only
// after a double pawn step.
//
// m must be a move generated for the current position.
func (p *Position) MakeMove(m Move) UndoInfo {
	from, to := m.From(), m.To()
	piece := p.Board[from]
	us := piece.Color()

	undo := UndoInfo{
		Moved:     piece,
		Captured:  p.Board[to],
		CaptureSq: to,
		RookFrom:  NoSquare,
		RookTo:    NoSquare,
		Castling:  p.Castling,
		EnPassant: p.EnPassant,
	}

	pt := piece.Type()

	// En passant: diagonal pawn move onto the empty target square removes
	// the pawn beside the mover.
	if pt == Pawn && to == p.EnPassant && undo.Captured == NoPiece && from.File() != to.File() {
		victimSq := NewSquare(to.File(), from.Rank())
		if victim := p.Board[victimSq]; victim == NewPiece(Pawn, us.Other()) {
			undo.Captured = victim
			undo.CaptureSq = victimSq
			p.Board[victimSq] = NoPiece
		}
	}

	p.Board[to] = piece
	p.Board[from] = NoPiece

	switch pt {
	case King:
		p.Castling.KingMoved[us] = true
		if df := to.File() - from.File(); df == 2 || df == -2 {
			side, rookToFile := KingSide, 5
			if df < 0 {
				side, rookToFile = QueenSide, 3
			}
			undo.RookFrom = RookOrigin(us, side)
			undo.RookTo = NewSquare(rookToFile, from.Rank())
			p.Board[undo.RookTo] = p.Board[undo.RookFrom]
			p.Board[undo.RookFrom] = NoPiece
			p.Castling.RookMoved[us][side] = true
		}
	case Rook:
		for _, side := range [2]CastleSide{QueenSide, KingSide} {
			if from == RookOrigin(us, side) {
				p.Castling.RookMoved[us][side] = true
			}
		}
	case Pawn:
		if to.RelativeRank(us) == 7 {
			p.Board[to] = NewPiece(Queen, us)
		}
	}

	if pt == Pawn && abs(to.Rank()-from.Rank()) == 2 {
		p.EnPassant = NewSquare(from.File(), (from.Rank()+to.Rank())/2)
	} else {
		p.EnPassant = NoSquare
	}

	return undo
}

// UnmakeMove restores the position to exactly what it was before the
// MakeMove call that produced undo.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	from, to := m.From(), m.To()

	if undo.RookFrom != NoSquare {
		p.Board[undo.RookFrom] = p.Board[undo.RookTo]
		p.Board[undo.RookTo] = NoPiece
	}

	p.Board[from] = undo.Moved
	p.Board[to] = NoPiece
	if undo.Captured != NoPiece {
		p.Board[undo.CaptureSq] = undo.Captured
	}

	p.Castling = undo.Castling
	p.EnPassant = undo.EnPassant
}
