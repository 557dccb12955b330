package board

import (
	"slices"
	"testing"
)

func mustMove(t *testing.T, s string) Move {
	t.Helper()
	m, err := ParseMove(s)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

// play applies a sequence of moves alternating from side, failing if any is
// not legal at the time it is played.
func play(t *testing.T, pos *Position, side Color, moves ...string) Color {
	t.Helper()
	for _, s := range moves {
		m := mustMove(t, s)
		if !pos.IsLegal(side, m) {
			t.Fatalf("%s is not legal for %v:%v", s, side, pos)
		}
		pos.MakeMove(m)
		side = side.Other()
	}
	return side
}

func moveStrings(ml *MoveList) []string {
	out := make([]string, 0, ml.Len())
	for _, m := range ml.Slice() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func TestInitialLegalMoves(t *testing.T) {
	pos := NewPosition()

	white := pos.LegalMoves(White)
	if white.Len() != 20 {
		t.Fatalf("white has %d legal moves, want 20: %v", white.Len(), moveStrings(white))
	}
	var pawn, knight int
	for _, m := range white.Slice() {
		switch pos.PieceAt(m.From()).Type() {
		case Pawn:
			pawn++
		case Knight:
			knight++
		}
	}
	if pawn != 16 || knight != 4 {
		t.Errorf("got %d pawn and %d knight moves, want 16 and 4", pawn, knight)
	}

	black := pos.LegalMoves(Black)
	if black.Len() != 20 {
		t.Fatalf("black has %d legal moves, want 20: %v", black.Len(), moveStrings(black))
	}
	for _, m := range white.Slice() {
		mirror := NewMove(NewSquare(m.From().File(), 7-m.From().Rank()), NewSquare(m.To().File(), 7-m.To().Rank()))
		if !black.Contains(mirror) {
			t.Errorf("black is missing the mirror of %v (%v)", m, mirror)
		}
	}
}

func TestPseudoMovesEmptySquare(t *testing.T) {
	pos := NewPosition()
	var ml MoveList
	pos.PseudoMoves(E4, true, &ml)
	if ml.Len() != 0 {
		t.Errorf("empty square produced %d moves", ml.Len())
	}
	if got := pos.LegalMovesFrom(White, E7); got.Len() != 0 {
		t.Errorf("selecting an enemy piece produced %d moves", got.Len())
	}
}

func TestSlidingMovesStopAtBlockers(t *testing.T) {
	pos, _ := MustParseFEN("4k3/8/8/1p6/8/8/8/R3K3 w - - 0 1")
	var ml MoveList
	pos.PseudoMoves(A1, false, &ml)
	got := moveStrings(&ml)
	want := []string{"a1a2", "a1a3", "a1a4", "a1a5", "a1a6", "a1a7", "a1a8", "a1b1", "a1c1", "a1d1"}
	if !slices.Equal(got, want) {
		t.Errorf("rook moves = %v, want %v", got, want)
	}

	pos, _ = MustParseFEN("4k3/8/8/8/8/2p5/1P6/B3K3 w - - 0 1")
	ml.Clear()
	pos.PseudoMoves(A1, false, &ml)
	if ml.Len() != 0 {
		t.Errorf("bishop behind own pawn has moves: %v", moveStrings(&ml))
	}
}

func TestCastling(t *testing.T) {
	kingside := NewMove(E1, G1)
	queenside := NewMove(E1, C1)

	tests := []struct {
		name      string
		fen       string
		kingside  bool
		queenside bool
	}{
		{"both available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", false, false},
		{"f1 attacked", "4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"g1 attacked", "4k1r1/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"d1 attacked", "3rk3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, false},
		{"b1 attacked only", "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, true},
		{"in check", "4k3/8/8/8/4r3/8/8/R3K2R w KQ - 0 1", false, false},
		{"g1 occupied", "4k3/8/8/8/8/8/8/R3K1NR w KQ - 0 1", false, true},
		{"b1 occupied", "4k3/8/8/8/8/8/8/RN2K2R w KQ - 0 1", true, false},
		{"rook missing", "4k3/8/8/8/8/8/8/R3K3 w KQ - 0 1", false, true},
		{"enemy rook on h1", "4k3/8/8/8/8/8/8/R3K2r w KQ - 0 1", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, side := MustParseFEN(tc.fen)
			moves := pos.LegalMoves(side)
			if got := moves.Contains(kingside); got != tc.kingside {
				t.Errorf("kingside castling legal = %v, want %v", got, tc.kingside)
			}
			if got := moves.Contains(queenside); got != tc.queenside {
				t.Errorf("queenside castling legal = %v, want %v", got, tc.queenside)
			}
		})
	}
}

func TestCastlingMovesRookAndSetsFlags(t *testing.T) {
	pos, _ := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	before := pos.Copy()

	undo := pos.MakeMove(NewMove(E1, G1))
	if pos.PieceAt(G1) != WhiteKing || pos.PieceAt(F1) != WhiteRook {
		t.Fatalf("kingside castle did not place king and rook:%v", pos)
	}
	if !pos.IsEmpty(H1) || !pos.IsEmpty(E1) {
		t.Fatalf("castle left pieces behind:%v", pos)
	}
	if !pos.Castling.KingMoved[White] || !pos.Castling.RookMoved[White][KingSide] {
		t.Errorf("castling flags not set: %+v", pos.Castling)
	}
	pos.UnmakeMove(NewMove(E1, G1), undo)
	if !pos.Equal(before) {
		t.Fatalf("unmake of castle is not exact:%v", pos)
	}

	undo = pos.MakeMove(NewMove(E8, C8))
	if pos.PieceAt(C8) != BlackKing || pos.PieceAt(D8) != BlackRook || !pos.IsEmpty(A8) {
		t.Fatalf("queenside castle did not place king and rook:%v", pos)
	}
	pos.UnmakeMove(NewMove(E8, C8), undo)
	if !pos.Equal(before) {
		t.Fatalf("unmake of queenside castle is not exact:%v", pos)
	}
}

func TestCastlingNotOfferedAfterKingOrRookReturns(t *testing.T) {
	pos, side := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	side = play(t, pos, side, "e1f1", "e8f8", "f1e1", "f8e8")
	moves := pos.LegalMoves(side)
	if moves.Contains(NewMove(E1, G1)) || moves.Contains(NewMove(E1, C1)) {
		t.Errorf("castling offered after the king moved and returned")
	}

	pos, side = MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	side = play(t, pos, side, "h1h2", "a8a7", "h2h1", "a7a8")
	moves = pos.LegalMoves(side)
	if moves.Contains(NewMove(E1, G1)) {
		t.Errorf("kingside castling offered after the h1 rook moved and returned")
	}
	if !moves.Contains(NewMove(E1, C1)) {
		t.Errorf("queenside castling should still be available")
	}
	if pos.LegalMoves(side.Other()).Contains(NewMove(E8, C8)) {
		t.Errorf("black queenside castling offered after the a8 rook moved and returned")
	}
}

func TestEnPassantWindow(t *testing.T) {
	pos, side := MustParseFEN("4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")
	capture := NewMove(D4, E3)

	side = play(t, pos, side, "e2e4")
	if pos.EnPassant != E3 {
		t.Fatalf("en passant target = %v, want e3", pos.EnPassant)
	}
	if !pos.IsLegal(side, capture) {
		t.Fatalf("d4xe3 en passant should be legal right after e2e4:%v", pos)
	}

	// Capturing removes the pawn on e4 and restores it on undo.
	before := pos.Copy()
	undo := pos.MakeMove(capture)
	if !pos.IsEmpty(E4) || pos.PieceAt(E3) != BlackPawn {
		t.Fatalf("en passant capture did not remove e4:%v", pos)
	}
	if undo.Captured != WhitePawn || undo.CaptureSq != E4 {
		t.Errorf("undo record = %+v, want captured white pawn on e4", undo)
	}
	pos.UnmakeMove(capture, undo)
	if !pos.Equal(before) {
		t.Fatalf("unmake of en passant is not exact:%v", pos)
	}

	// One ply later the option is gone.
	side = play(t, pos, side, "e8d8", "e1d1")
	if pos.EnPassant != NoSquare {
		t.Errorf("en passant target should be cleared, got %v", pos.EnPassant)
	}
	if pos.IsLegal(side, capture) {
		t.Errorf("en passant offered after the window closed")
	}
}

func TestEnPassantNeedsPawnBeside(t *testing.T) {
	// Target set but the square behind it holds no enemy pawn.
	pos, side := MustParseFEN("4k3/8/8/8/3p4/8/8/4K3 b - e3 0 1")
	if pos.IsLegal(side, NewMove(D4, E3)) {
		t.Error("en passant generated with no pawn to capture")
	}
}

func TestPromotionToQueen(t *testing.T) {
	pos, side := MustParseFEN("1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	before := pos.Copy()

	for _, s := range []string{"a7a8", "a7b8"} {
		m := mustMove(t, s)
		if !pos.IsLegal(side, m) {
			t.Fatalf("%s should be legal", s)
		}
		if !pos.IsPromotion(m) {
			t.Errorf("%s should be a promotion", s)
		}
		if got := m.UCI(pos); got != s+"q" {
			t.Errorf("UCI(%s) = %s, want %sq", s, got, s)
		}
		undo := pos.MakeMove(m)
		if pos.PieceAt(m.To()) != WhiteQueen {
			t.Errorf("%s did not promote to a queen:%v", s, pos)
		}
		pos.UnmakeMove(m, undo)
		if !pos.Equal(before) {
			t.Fatalf("unmake of %s is not exact:%v", s, pos)
		}
	}
}

func TestDoubleStepNeedsClearPath(t *testing.T) {
	pos, side := MustParseFEN("4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1")
	if pos.LegalMovesFrom(side, E2).Len() != 0 {
		t.Errorf("blocked pawn has moves: %v", moveStrings(pos.LegalMovesFrom(side, E2)))
	}

	pos, side = MustParseFEN("4k3/8/8/8/4n3/8/4P3/4K3 w - - 0 1")
	got := moveStrings(pos.LegalMovesFrom(side, E2))
	if !slices.Equal(got, []string{"e2e3"}) {
		t.Errorf("pawn moves = %v, want [e2e3]", got)
	}
}
