package board

import "testing"

// perft counts the leaf nodes of the legal move tree at the given depth.
// Only queen promotions exist in this model, so reference counts are taken
// at depths where no promotion occurs.
func perft(p *Position, side Color, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.LegalMoves(side)
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, side.Other(), depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

type perftCase struct {
	depth    int
	expected int64
	slow     bool
}

func runPerft(t *testing.T, fen string, cases []perftCase) {
	t.Helper()
	pos, side, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	before := pos.Copy()

	for _, tc := range cases {
		if tc.slow && testing.Short() {
			continue
		}
		got := perft(pos, side, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
		if !pos.Equal(before) {
			t.Fatalf("position changed after perft(%d):%v", tc.depth, pos)
		}
	}
}

func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, StartFEN, []perftCase{
		{1, 20, false},
		{2, 400, false},
		{3, 8902, false},
		{4, 197281, true},
	})
}

// Kiwipete: castling both ways, pins, en passant.
func TestPerftKiwipete(t *testing.T) {
	runPerft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []perftCase{
		{1, 48, false},
		{2, 2039, false},
		{3, 97862, true},
	})
}

// Position 3 exercises en passant discovered checks along the rank.
func TestPerftPosition3(t *testing.T) {
	runPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []perftCase{
		{1, 14, false},
		{2, 191, false},
		{3, 2812, false},
		{4, 43238, true},
	})
}

// The black pawn on e4 may not take d3 en passant: it would expose the king
// on a4 to the rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	fen := "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1"
	pos, side := MustParseFEN(fen)

	if pos.IsLegal(side, NewMove(E4, D3)) {
		t.Errorf("en passant e4d3 should be illegal (horizontal pin)")
	}

	// Ka3, Ka5, Kb3, Kb4, Kb5, e3.
	runPerft(t, fen, []perftCase{
		{1, 6, false},
		{2, 94, false},
	})
}
