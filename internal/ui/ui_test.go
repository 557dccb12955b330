package ui

import (
	"testing"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/game"
)

func TestSquareScreenMapping(t *testing.T) {
	for _, flipped := range []bool{false, true} {
		r := &Renderer{boardSize: BoardSize, squareSize: SquareSize, flipped: flipped, scale: 1}
		for sq := board.A1; sq <= board.H8; sq++ {
			x, y := r.SquareToScreen(sq)
			if got := r.ScreenToSquare(x+SquareSize/2, y+SquareSize/2); got != sq {
				t.Fatalf("flipped=%v: %v maps back to %v", flipped, sq, got)
			}
		}
	}

	r := &Renderer{boardSize: BoardSize, squareSize: SquareSize}
	if x, y := r.SquareToScreen(board.A1); x != 0 || y != 7*SquareSize {
		t.Errorf("a1 at (%d, %d), want bottom left", x, y)
	}
	r.flipped = true
	if x, y := r.SquareToScreen(board.A1); x != 7*SquareSize || y != 0 {
		t.Errorf("flipped a1 at (%d, %d), want top right", x, y)
	}
	if sq := r.ScreenToSquare(BoardSize, 10); sq != board.NoSquare {
		t.Errorf("point right of the board mapped to %v", sq)
	}
}

func TestMoveRows(t *testing.T) {
	rows := moveRows([]game.Ply{
		{Color: board.White, SAN: "e4"},
		{Color: board.Black, SAN: "e5"},
		{Color: board.White, SAN: "Nf3"},
	})
	want := []moveRow{{1, "e4", "e5"}, {2, "Nf3", ""}}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}

	rows = moveRows([]game.Ply{{Color: board.Black, SAN: "Kd7"}, {Color: board.White, SAN: "Ke2"}})
	if len(rows) != 2 || rows[0] != (moveRow{1, "...", "Kd7"}) || rows[1].white != "Ke2" {
		t.Errorf("black-first rows = %+v", rows)
	}
}

func TestIllegalReason(t *testing.T) {
	pos, _ := board.MustParseFEN("4k3/8/8/8/4r3/8/4B3/4K3 w - - 0 1")
	tests := []struct {
		from, to board.Square
		want     string
	}{
		{board.E1, board.E2, "Square occupied by your piece"},
		{board.E2, board.D3, "Illegal move - King would be in check"},
		{board.E2, board.E3, "Invalid move for this piece"},
		{board.D4, board.D5, "Invalid move"},
	}
	for _, tc := range tests {
		if got := illegalReason(pos, tc.from, tc.to); got != tc.want {
			t.Errorf("%v-%v: %q, want %q", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCastleByRook(t *testing.T) {
	pos, _ := board.MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if to, ok := castleByRook(pos, board.E1, board.H1); !ok || to != board.G1 {
		t.Errorf("e1-h1 = %v, %v; want g1", to, ok)
	}
	if to, ok := castleByRook(pos, board.E1, board.A1); !ok || to != board.C1 {
		t.Errorf("e1-a1 = %v, %v; want c1", to, ok)
	}
	if to, ok := castleByRook(pos, board.E8, board.H8); !ok || to != board.G8 {
		t.Errorf("e8-h8 = %v, %v; want g8", to, ok)
	}
	if _, ok := castleByRook(pos, board.E1, board.E8); ok {
		t.Error("king onto enemy king treated as castling")
	}

	// f1 attacked: no castling by dragging onto the rook either.
	pos, _ = board.MustParseFEN("4kr2/8/8/8/8/8/8/4K2R w K - 0 1")
	if _, ok := castleByRook(pos, board.E1, board.H1); ok {
		t.Error("castling through an attacked square was allowed")
	}
}

func TestSynthLength(t *testing.T) {
	data := synth(0.1, 0.5, linearDecay, sine(440))
	if len(data) != int(sampleRate*0.1)*4 {
		t.Errorf("got %d bytes", len(data))
	}
	if got := plateau(0.1, 0.7)(0.5); got != 1 {
		t.Errorf("plateau middle = %v, want 1", got)
	}
	if got := attackDecay(0.1)(0); got != 0 {
		t.Errorf("attack start = %v, want 0", got)
	}
}
