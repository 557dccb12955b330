package uci

import (
	"bytes"
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/engine"
)

func run(t *testing.T, script string) []string {
	t.Helper()
	var out bytes.Buffer
	u := New(engine.NewEngineWithRand(rand.New(rand.NewSource(1))), strings.NewReader(script), &out)
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func lastLine(lines []string, prefix string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], prefix) {
			return lines[i]
		}
	}
	return ""
}

func TestHandshake(t *testing.T) {
	lines := run(t, "uci\nisready\nquit\n")
	if lines[len(lines)-2] != "uciok" || lines[len(lines)-1] != "readyok" {
		t.Errorf("unexpected handshake %q", lines)
	}
}

func TestGoFindsMate(t *testing.T) {
	lines := run(t, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 2\n")
	if got := lastLine(lines, "bestmove"); got != "bestmove a1a8" {
		t.Errorf("got %q, want bestmove a1a8", got)
	}
	if info := lastLine(lines, "info depth 2"); info == "" {
		t.Errorf("no info line in %q", lines)
	}
}

func TestPositionWithMoves(t *testing.T) {
	var out bytes.Buffer
	u := New(engine.NewEngine(), strings.NewReader(""), &out)
	if err := u.handlePosition(strings.Fields("startpos moves e2e4 e7e5 g1f3")); err != nil {
		t.Fatal(err)
	}
	if u.side != board.Black {
		t.Errorf("side = %v, want Black", u.side)
	}
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 0 1"
	if got := u.pos.FEN(u.side); got != want {
		t.Errorf("FEN = %q, want %q", got, want)
	}

	if err := u.handlePosition(strings.Fields("startpos moves e2e5")); err == nil {
		t.Error("illegal move accepted")
	}
}

func TestStopStillReportsMove(t *testing.T) {
	lines := run(t, "position startpos\ngo depth 4\nstop\nquit\n")
	got := lastLine(lines, "bestmove")
	if got == "" || got == "bestmove 0000" {
		t.Fatalf("got %q, want a move from the start position", got)
	}
	m, err := board.ParseMove(strings.TrimPrefix(got, "bestmove "))
	if err != nil {
		t.Fatalf("parse %q: %v", got, err)
	}
	if pos := board.NewPosition(); !pos.IsLegal(board.White, m) {
		t.Errorf("%v is not legal from the start position", m)
	}
}

func TestMateScore(t *testing.T) {
	tests := []struct {
		score int
		side  board.Color
		want  string
	}{
		{engine.MateScore, board.White, "score mate 1 "},
		{engine.MateScore, board.Black, "score mate -1 "},
		{-engine.MateScore, board.Black, "score mate 1 "},
		{25, board.White, "score cp 250 "},
		{25, board.Black, "score cp -250 "},
	}
	for _, tc := range tests {
		info := engine.SearchInfo{Depth: 2, Score: tc.score, Time: time.Millisecond}
		if got := formatInfo(info, tc.side); !strings.Contains(got, tc.want) {
			t.Errorf("score %d for %v: %q, want %q", tc.score, tc.side, got, tc.want)
		}
	}
}

func TestPromotionIsReportedWithSuffix(t *testing.T) {
	lines := run(t, "position fen 7k/P7/8/8/8/8/8/K7 w - - 0 1\ngo depth 1\n")
	if got := lastLine(lines, "bestmove"); got != "bestmove a7a8q" {
		t.Errorf("got %q, want bestmove a7a8q", got)
	}
}

func TestNoMoveIsNullMove(t *testing.T) {
	lines := run(t, "position fen k7/2Q5/1K6/8/8/8/8/8 b - - 0 1\ngo\n")
	if got := lastLine(lines, "bestmove"); got != "bestmove 0000" {
		t.Errorf("got %q, want bestmove 0000", got)
	}
}

func TestSetOptionDifficulty(t *testing.T) {
	var out bytes.Buffer
	eng := engine.NewEngine()
	u := New(eng, strings.NewReader("setoption name Difficulty value hard\nquit\n"), &out)
	if err := u.Run(); err != nil {
		t.Fatal(err)
	}
	if eng.Difficulty() != engine.Hard {
		t.Errorf("difficulty = %v, want Hard", eng.Difficulty())
	}
}

func TestPerftCommand(t *testing.T) {
	lines := run(t, "position startpos\nperft 2\nquit\n")
	if got := lastLine(lines, "Nodes searched"); !strings.HasPrefix(got, "Nodes searched: 400 ") {
		t.Errorf("got %q", got)
	}

	lines = run(t, "position startpos\nperft 1\nquit\n")
	var moves []string
	for _, l := range lines {
		if strings.HasSuffix(l, ": 1") {
			moves = append(moves, l)
		}
	}
	if len(moves) != 20 || !slices.IsSorted(moves) {
		t.Fatalf("divide lines not sorted: %q", moves)
	}
	if moves[0] != "a2a3: 1" {
		t.Errorf("first divide line %q, want a2a3: 1", moves[0])
	}
}
