package board

import "testing"

func TestCheckmate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"back rank", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1"},
		{"fool's mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"},
		{"scholar's mate", "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4"},
		{"smothered", "6rk/5Npp/8/8/8/8/8/6K1 b - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, side := MustParseFEN(tc.fen)
			if !pos.InCheck(side) {
				t.Fatalf("expected %v to be in check:%v", side, pos)
			}
			if moves := pos.LegalMoves(side); moves.Len() != 0 {
				t.Logf("legal moves: %v", moves.Slice())
				t.Fatalf("expected no legal moves, got %d", moves.Len())
			}
			if !pos.IsCheckmate(side) {
				t.Error("expected checkmate")
			}
			if pos.IsStalemate(side) {
				t.Error("checkmate reported as stalemate")
			}
			if !pos.IsTerminal() {
				t.Error("expected terminal position")
			}
		})
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can take the rook on g8.
	pos, side := MustParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if !pos.InCheck(side) {
		t.Fatal("expected check")
	}
	if pos.IsCheckmate(side) {
		t.Error("expected NOT checkmate")
	}
	if !pos.IsLegal(side, NewMove(H8, G8)) {
		t.Error("Kxg8 should be legal")
	}
}

func TestStalemate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"queen boxes king", "k7/2Q5/1K6/8/8/8/8/8 b - - 0 1"},
		{"king and pawn", "7k/7P/6K1/8/8/8/8/8 b - - 0 1"},
		{"blocked pawn", "8/8/8/8/8/1q6/p7/K1k5 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, side := MustParseFEN(tc.fen)
			if pos.InCheck(side) {
				t.Fatalf("did not expect check:%v", pos)
			}
			if !pos.IsStalemate(side) {
				t.Logf("legal moves: %v", pos.LegalMoves(side).Slice())
				t.Fatal("expected stalemate")
			}
			if pos.IsCheckmate(side) {
				t.Error("stalemate reported as checkmate")
			}
		})
	}
}

func TestMissingKingIsNeverInCheck(t *testing.T) {
	pos, _ := MustParseFEN("4k3/8/8/8/8/8/8/4R3 w - - 0 1")
	if pos.KingSquare(White) != NoSquare {
		t.Fatal("white king should be absent")
	}
	if pos.InCheck(White) {
		t.Error("absent king must not be reported in check")
	}
	if err := pos.Validate(); err == nil {
		t.Error("Validate should reject a position without a white king")
	}
}
