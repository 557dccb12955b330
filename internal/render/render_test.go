package render

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/hailam/chessmate/internal/board"
)

// wellFormed walks the whole document with the XML decoder.
func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("invalid SVG: %v\n%s", err, doc)
		}
	}
}

func TestBoardStartPosition(t *testing.T) {
	var buf bytes.Buffer
	if err := Board(&buf, board.NewPosition(), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	wellFormed(t, buf.Bytes())

	out := buf.String()
	if n := strings.Count(out, "<rect"); n != 64 {
		t.Errorf("got %d squares, want 64", n)
	}
	if n := strings.Count(out, "translate("); n != 32 {
		t.Errorf("got %d pieces, want 32", n)
	}
	if !strings.Contains(out, board.StartFEN) {
		t.Error("title should carry the FEN")
	}
	if strings.Contains(out, checkColor) {
		t.Error("no king is in check at the start")
	}
}

func TestBoardHighlights(t *testing.T) {
	pos, _ := board.MustParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	opts := DefaultOptions()
	opts.LastMove = board.NewMove(board.D8, board.H4)
	opts.Flipped = true

	var buf bytes.Buffer
	if err := Board(&buf, pos, opts); err != nil {
		t.Fatal(err)
	}
	wellFormed(t, buf.Bytes())
	out := buf.String()
	if strings.Count(out, "fill:"+lastMove) != 2 {
		t.Errorf("last move should shade two squares")
	}
	if strings.Count(out, "fill:"+checkColor) != 1 {
		t.Errorf("the checked king's square should be shaded")
	}
}

func TestBoardNilPosition(t *testing.T) {
	if err := Board(io.Discard, nil, DefaultOptions()); err == nil {
		t.Error("expected an error for a nil position")
	}
}

func TestPieceDocuments(t *testing.T) {
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			var buf bytes.Buffer
			p := board.NewPiece(pt, c)
			if err := Piece(&buf, p, 90); err != nil {
				t.Fatalf("%v: %v", p, err)
			}
			wellFormed(t, buf.Bytes())
			if !strings.Contains(buf.String(), `viewBox="0 0 45 45"`) {
				t.Errorf("%v: missing viewBox", p)
			}
		}
	}
	if err := Piece(io.Discard, board.NoPiece, 90); err == nil {
		t.Error("expected an error for NoPiece")
	}
}
