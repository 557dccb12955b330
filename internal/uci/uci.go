// Package uci speaks a subset of the Universal Chess Interface so the engine
// can be driven by chess GUIs and match runners.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/engine"
)

// UCI implements the protocol loop.
type UCI struct {
	engine *engine.Engine
	pos    *board.Position
	side   board.Color

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serialises writes to out

	cancel     context.CancelFunc
	searchDone chan struct{}
}

// New creates a protocol handler reading commands from in and writing
// responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	pos, side := board.MustParseFEN(board.StartFEN)
	return &UCI{engine: eng, pos: pos, side: side, in: in, out: out}
}

// Run processes commands until "quit" or end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "uci":
			u.println("id name chessmate")
			u.println("id author chessmate")
			u.println("option name Difficulty type combo default Medium var Easy var Medium var Hard")
			u.println("uciok")
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.wait()
			u.pos, u.side = board.MustParseFEN(board.StartFEN)
		case "position":
			u.wait()
			if err := u.handlePosition(args); err != nil {
				u.println("info string " + err.Error())
			}
		case "go":
			u.handleGo(args)
		case "stop":
			u.stop()
		case "setoption":
			u.handleSetOption(args)
		case "d":
			u.println(u.pos.String())
			u.println("Fen: " + u.pos.FEN(u.side))
		case "perft":
			u.handlePerft(args)
		case "quit":
			u.stop()
			return nil
		}
	}
	u.wait()
	return scanner.Err()
}

func (u *UCI) println(s string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out, s)
}

// handlePosition parses
//
//	position startpos [moves m1 m2 ...]
//	position fen <fen> [moves m1 m2 ...]
func (u *UCI) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("position: missing arguments")
	}

	movesAt := len(args)
	for i, a := range args {
		if a == "moves" {
			movesAt = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		return fmt.Errorf("position: unknown keyword %q", args[0])
	}
	pos, side, err := board.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("invalid FEN: %w", err)
	}

	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := board.ParseMove(s)
			if err != nil || !pos.IsLegal(side, m) {
				return fmt.Errorf("invalid move: %s", s)
			}
			pos.MakeMove(m)
			side = side.Other()
		}
	}
	u.pos, u.side = pos, side
	return nil
}

// handleGo starts a search on a copy of the position. Only "depth" is
// honoured; clock parameters are ignored.
func (u *UCI) handleGo(args []string) {
	u.wait()

	var limits engine.SearchLimits
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			limits.Depth, _ = strconv.Atoi(args[i+1])
			i++
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	u.cancel, u.searchDone = cancel, done

	pos, side := u.pos.Copy(), u.side
	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.println(formatInfo(info, side))
	}

	go func() {
		defer close(done)
		defer cancel()
		m, ok := u.engine.SearchWithLimits(ctx, pos, side, limits)
		if !ok {
			u.println("bestmove 0000")
			return
		}
		u.println("bestmove " + m.UCI(pos))
	}()
}

// formatInfo reports the score from the mover's side, in centipawns or as
// a mate. Mate scores carry no distance, so the mate is reported within the
// number of moves the search could see.
func formatInfo(info engine.SearchInfo, side board.Color) string {
	score := info.Score
	if side == board.Black {
		score = -score
	}
	var value string
	switch {
	case score >= engine.MateScore:
		value = fmt.Sprintf("mate %d", (info.Depth+1)/2)
	case score <= -engine.MateScore:
		value = fmt.Sprintf("mate -%d", info.Depth/2)
	default:
		value = fmt.Sprintf("cp %d", score*100/engine.PawnValue)
	}
	return fmt.Sprintf("info depth %d score %s nodes %d time %d pv %s",
		info.Depth, value, info.Nodes, info.Time.Milliseconds(), info.Move)
}

func (u *UCI) stop() {
	if u.cancel != nil {
		u.cancel()
	}
	u.wait()
}

// wait blocks until the running search, if any, has printed its bestmove.
func (u *UCI) wait() {
	if u.searchDone != nil {
		<-u.searchDone
		u.searchDone = nil
		u.cancel = nil
	}
}

// handleSetOption handles "setoption name Difficulty value <level>".
func (u *UCI) handleSetOption(args []string) {
	if len(args) < 4 || args[0] != "name" || args[2] != "value" {
		return
	}
	if !strings.EqualFold(args[1], "Difficulty") {
		u.println("info string unknown option " + args[1])
		return
	}
	for d := range engine.DifficultySettings {
		if strings.EqualFold(d.String(), args[3]) {
			u.engine.SetDifficulty(d)
			return
		}
	}
	u.println("info string unknown difficulty " + args[3])
}

func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}
	start := time.Now()
	divide := u.engine.PerftDivide(u.pos.Copy(), u.side, depth)
	lines := make([]string, 0, len(divide))
	var total uint64
	for m, n := range divide {
		lines = append(lines, fmt.Sprintf("%s: %d", m.UCI(u.pos), n))
		total += n
	}
	slices.Sort(lines)
	for _, line := range lines {
		u.println(line)
	}
	u.println(fmt.Sprintf("\nNodes searched: %d (%v)", total, time.Since(start).Round(time.Millisecond)))
}
