// Package pgn keeps a notation record of a game: SAN for display and PGN
// text for the game archive.
package pgn

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/notnil/chess"

	"github.com/hailam/chessmate/internal/board"
)

// Outcome is the final result written into the PGN.
type Outcome int

const (
	Unfinished Outcome = iota
	WhiteWon
	BlackWon
	Drawn
)

// Recorder mirrors a game move by move.
type Recorder struct {
	game *chess.Game
	san  []string
	err  error // first move the reference game refused; recording stops there
}

// NewRecorder starts a record from the given FEN.
func NewRecorder(fen string) (*Recorder, error) {
	opts := []func(*chess.Game){chess.UseNotation(chess.AlgebraicNotation{})}
	if fen != "" && fen != board.StartFEN {
		f, err := chess.FEN(fen)
		if err != nil {
			return nil, fmt.Errorf("pgn: bad start position: %w", err)
		}
		opts = append(opts, f)
	}
	r := &Recorder{game: chess.NewGame(opts...)}
	if fen != "" && fen != board.StartFEN {
		r.game.AddTagPair("SetUp", "1")
		r.game.AddTagPair("FEN", fen)
	}
	r.game.AddTagPair("Event", "Man vs Computer")
	r.game.AddTagPair("Date", time.Now().Format("2006.01.02"))
	return r, nil
}

// SetPlayers fills the White and Black tags.
func (r *Recorder) SetPlayers(white, black string) {
	r.game.AddTagPair("White", white)
	r.game.AddTagPair("Black", black)
}

// Record appends a move given in coordinate form ("e2e4", "e7e8q") and
// returns its SAN. Once a move has been refused the recorder stays broken and
// every later call returns that error.
func (r *Recorder) Record(uci string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	pos := r.game.Position()
	m, err := chess.UCINotation{}.Decode(pos, uci)
	if err == nil {
		if valid := findValid(pos, m); valid != nil {
			san := chess.AlgebraicNotation{}.Encode(pos, valid)
			if err = r.game.Move(valid); err == nil {
				r.san = append(r.san, san)
				return san, nil
			}
		} else {
			err = errors.New("not a legal move")
		}
	}
	r.err = fmt.Errorf("pgn: move %d %s: %w", len(r.san)+1, uci, err)
	return "", r.err
}

// findValid returns the generated move matching m, which carries the check
// and capture tags SAN needs.
func findValid(pos *chess.Position, m *chess.Move) *chess.Move {
	for _, v := range pos.ValidMoves() {
		if v.S1() == m.S1() && v.S2() == m.S2() && v.Promo() == m.Promo() {
			return v
		}
	}
	return nil
}

// Err returns the error that stopped recording, if any.
func (r *Recorder) Err() error {
	return r.err
}

// SAN returns the moves recorded so far in standard algebraic notation.
func (r *Recorder) SAN() []string {
	return append([]string(nil), r.san...)
}

// MoveText returns the numbered move list, e.g. "1. e4 e5 2. Nf3".
func (r *Recorder) MoveText() string {
	first := 0
	if r.game.Positions()[0].Turn() == chess.Black {
		first = 1
	}
	var sb strings.Builder
	for i, san := range r.san {
		if i > 0 {
			sb.WriteByte(' ')
		}
		ply := first + i
		if ply%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", ply/2+1)
		} else if i == 0 {
			fmt.Fprintf(&sb, "%d... ", ply/2+1)
		}
		sb.WriteString(san)
	}
	return sb.String()
}

// Finish stamps the result. Checkmate and stalemate of the side to move are
// already known to the reference game; other endings are written as tags.
func (r *Recorder) Finish(o Outcome, termination string) error {
	if termination != "" {
		r.game.AddTagPair("Termination", termination)
	}
	if r.game.Outcome() != chess.NoOutcome {
		return nil
	}
	switch o {
	case Unfinished:
	case WhiteWon:
		r.game.Resign(chess.Black)
	case BlackWon:
		r.game.Resign(chess.White)
	case Drawn:
		// Only the reference game's draw methods can set a drawn outcome.
		if err := r.game.Draw(chess.DrawOffer); err != nil {
			return fmt.Errorf("pgn: record draw: %w", err)
		}
	default:
		return fmt.Errorf("pgn: unknown outcome %d", o)
	}
	return nil
}

// Result returns the PGN result token.
func (r *Recorder) Result() string {
	return r.game.Outcome().String()
}

// String returns the PGN text of the game.
func (r *Recorder) String() string {
	return r.game.String()
}

// Parse reads a PGN and returns its moves in coordinate form along with its
// tags.
func Parse(text string) ([]string, map[string]string, error) {
	opt, err := chess.PGN(strings.NewReader(text))
	if err != nil {
		return nil, nil, fmt.Errorf("pgn: %w", err)
	}
	g := chess.NewGame(opt)

	positions := g.Positions()
	moves := make([]string, 0, len(g.Moves()))
	for i, m := range g.Moves() {
		moves = append(moves, chess.UCINotation{}.Encode(positions[i], m))
	}
	tags := make(map[string]string)
	for _, tp := range g.TagPairs() {
		tags[tp.Key] = tp.Value
	}
	return moves, tags, nil
}
