package board

// InCheck reports whether c's king is attacked by any enemy piece.
// A missing king yields false.
func (p *Position) InCheck(c Color) bool {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return p.hitBy(ksq, c.Other())
}

// hitBy reports whether a pseudo-move of some piece of color `by` lands on
// sq. Pawn pushes and captures are both included, so the answer is only an
// attack test when sq is occupied by the other side.
func (p *Position) hitBy(sq Square, by Color) bool {
	var ml MoveList
	for from := A1; from <= H8; from++ {
		piece := p.Board[from]
		if piece == NoPiece || piece.Color() != by {
			continue
		}
		ml.Clear()
		p.PseudoMoves(from, false, &ml)
		for i := 0; i < ml.Len(); i++ {
			if ml.Get(i).To() == sq {
				return true
			}
		}
	}
	return false
}

// leavesKingInCheck applies m, tests us's king and undoes m.
func (p *Position) leavesKingInCheck(m Move, us Color) bool {
	undo := p.MakeMove(m)
	check := p.InCheck(us)
	p.UnmakeMove(m, undo)
	return check
}

// GenerateLegalMoves appends every legal move of color c to ml.
// This is the one definition of legality used for input validation,
// game-over detection and search alike.
func (p *Position) GenerateLegalMoves(c Color, ml *MoveList) {
	var pseudo MoveList
	for from := A1; from <= H8; from++ {
		piece := p.Board[from]
		if piece == NoPiece || piece.Color() != c {
			continue
		}
		pseudo.Clear()
		p.PseudoMoves(from, true, &pseudo)
		for i := 0; i < pseudo.Len(); i++ {
			if m := pseudo.Get(i); !p.leavesKingInCheck(m, c) {
				ml.Add(m)
			}
		}
	}
}

// LegalMoves returns all legal moves for color c.
func (p *Position) LegalMoves(c Color) *MoveList {
	ml := NewMoveList()
	p.GenerateLegalMoves(c, ml)
	return ml
}

// LegalMovesFrom returns the legal moves of c's piece on sq. Selecting an
// empty square or an enemy piece yields an empty list.
func (p *Position) LegalMovesFrom(c Color, sq Square) *MoveList {
	ml := NewMoveList()
	if piece := p.PieceAt(sq); piece == NoPiece || piece.Color() != c {
		return ml
	}
	var pseudo MoveList
	p.PseudoMoves(sq, true, &pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		if m := pseudo.Get(i); !p.leavesKingInCheck(m, c) {
			ml.Add(m)
		}
	}
	return ml
}

// IsLegal reports whether m is a legal move for color c.
func (p *Position) IsLegal(c Color, m Move) bool {
	return p.LegalMovesFrom(c, m.From()).Contains(m)
}

// HasLegalMoves reports whether c has at least one legal move. It stops at
// the first one found.
func (p *Position) HasLegalMoves(c Color) bool {
	var pseudo MoveList
	for from := A1; from <= H8; from++ {
		piece := p.Board[from]
		if piece == NoPiece || piece.Color() != c {
			continue
		}
		pseudo.Clear()
		p.PseudoMoves(from, true, &pseudo)
		for i := 0; i < pseudo.Len(); i++ {
			if !p.leavesKingInCheck(pseudo.Get(i), c) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate reports whether c is in check with no legal moves.
func (p *Position) IsCheckmate(c Color) bool {
	return p.InCheck(c) && !p.HasLegalMoves(c)
}

// IsStalemate reports whether c is not in check but has no legal moves.
func (p *Position) IsStalemate(c Color) bool {
	return !p.InCheck(c) && !p.HasLegalMoves(c)
}

// IsTerminal reports whether either side is checkmated or stalemated.
func (p *Position) IsTerminal() bool {
	return !p.HasLegalMoves(White) || !p.HasLegalMoves(Black)
}
