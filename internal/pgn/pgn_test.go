package pgn

import (
	"slices"
	"strings"
	"testing"

	"github.com/hailam/chessmate/internal/board"
)

func record(t *testing.T, r *Recorder, moves ...string) []string {
	t.Helper()
	var out []string
	for _, m := range moves {
		san, err := r.Record(m)
		if err != nil {
			t.Fatalf("Record(%s): %v", m, err)
		}
		out = append(out, san)
	}
	return out
}

func TestRecordSAN(t *testing.T) {
	r, err := NewRecorder(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	got := record(t, r, "e2e4", "e7e5", "g1f3", "b8c6", "f1b5")
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	if !slices.Equal(got, want) {
		t.Errorf("SAN = %v, want %v", got, want)
	}
	if text := r.MoveText(); text != "1. e4 e5 2. Nf3 Nc6 3. Bb5" {
		t.Errorf("MoveText = %q", text)
	}
	if r.Result() != "*" {
		t.Errorf("Result = %q, want *", r.Result())
	}
}

func TestRecordCheckmate(t *testing.T) {
	r, _ := NewRecorder("")
	san := record(t, r, "f2f3", "e7e5", "g2g4", "d8h4")
	if san[3] != "Qh4#" {
		t.Errorf("mating move SAN = %q, want Qh4#", san[3])
	}
	if err := r.Finish(BlackWon, "checkmate"); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if r.Result() != "0-1" {
		t.Errorf("Result = %q, want 0-1", r.Result())
	}
	if !strings.Contains(r.String(), "Qh4#") {
		t.Errorf("PGN missing the mating move:\n%s", r.String())
	}
}

func TestRecordPromotionFromFEN(t *testing.T) {
	r, err := NewRecorder("8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	san := record(t, r, "e7e8q")
	if san[0] != "e8=Q" {
		t.Errorf("promotion SAN = %q, want e8=Q", san[0])
	}
	if !strings.Contains(r.String(), `[FEN "8/4P3/8/8/8/8/k7/4K3 w - - 0 1"]`) {
		t.Errorf("PGN missing FEN tag:\n%s", r.String())
	}
}

func TestMoveTextBlackFirst(t *testing.T) {
	r, err := NewRecorder("4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	record(t, r, "e8d7", "e1d2", "d7c6")
	if text := r.MoveText(); text != "1... Kd7 2. Kd2 Kc6" {
		t.Errorf("MoveText = %q", text)
	}
}

func TestRecordRefusedMoveSticks(t *testing.T) {
	r, _ := NewRecorder("")
	if _, err := r.Record("e2e5"); err == nil {
		t.Fatal("expected an error for an impossible move")
	}
	if _, err := r.Record("e2e4"); err == nil || r.Err() == nil {
		t.Error("recorder should stay broken after a refused move")
	}
	if len(r.SAN()) != 0 {
		t.Errorf("SAN = %v, want none", r.SAN())
	}
}

func TestFinishDraw(t *testing.T) {
	r, _ := NewRecorder("")
	record(t, r, "e2e4")
	if err := r.Finish(Drawn, "stalemate"); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if r.Result() != "1/2-1/2" {
		t.Errorf("Result = %q, want 1/2-1/2", r.Result())
	}
	if !strings.Contains(r.String(), `[Termination "stalemate"]`) {
		t.Errorf("PGN missing termination tag:\n%s", r.String())
	}
}

func TestFinishUnknownOutcome(t *testing.T) {
	r, _ := NewRecorder("")
	record(t, r, "e2e4")
	if err := r.Finish(Outcome(42), ""); err == nil {
		t.Error("unknown outcome accepted")
	}
	if r.Result() != "*" {
		t.Errorf("Result = %q, want *", r.Result())
	}
}

func TestParseRoundTrip(t *testing.T) {
	r, _ := NewRecorder("")
	r.SetPlayers("alice", "Computer")
	moves := []string{"d2d4", "d7d5", "c2c4", "e7e6", "b1c3", "g8f6"}
	record(t, r, moves...)

	got, tags, err := Parse(r.String())
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, r.String())
	}
	if !slices.Equal(got, moves) {
		t.Errorf("moves = %v, want %v", got, moves)
	}
	if tags["White"] != "alice" || tags["Black"] != "Computer" {
		t.Errorf("tags = %v", tags)
	}
}
