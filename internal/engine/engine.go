package engine

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/hailam/chessmate/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth   int
	Move    board.Move
	Score   int
	Nodes   uint64
	Time    time.Duration
	Stopped bool
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // levels including the root move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 levels: replies only
	Medium                   // 3 levels: the classic setting
	Hard                     // 4 levels
)

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	}
	return "Unknown"
}

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2},
	Medium: {Depth: DefaultMaxDepth},
	Hard:   {Depth: 4},
}

// Engine is the chess AI engine.
type Engine struct {
	mu       sync.Mutex // held for the duration of a search
	searcher *Searcher

	cfg        sync.Mutex
	difficulty Difficulty

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine at Medium difficulty with a clock-seeded
// shuffle.
func NewEngine() *Engine {
	return NewEngineWithRand(nil)
}

// NewEngineWithRand creates an engine whose root shuffle draws from rng,
// which makes its choices reproducible.
func NewEngineWithRand(rng *rand.Rand) *Engine {
	return &Engine{
		searcher:   NewSearcher(DifficultySettings[Medium].Depth, rng),
		difficulty: Medium,
	}
}

// SetDifficulty sets the difficulty used by the next search. It does not
// wait for a running search.
func (e *Engine) SetDifficulty(d Difficulty) {
	if _, ok := DifficultySettings[d]; !ok {
		return
	}
	e.cfg.Lock()
	defer e.cfg.Unlock()
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	e.cfg.Lock()
	defer e.cfg.Unlock()
	return e.difficulty
}

// Depth returns the search depth of the current difficulty.
func (e *Engine) Depth() int {
	return DifficultySettings[e.Difficulty()].Depth
}

// Search finds the best move for us at the current difficulty. ok is false
// only when us has no legal move; a cancelled search still returns a legal
// move.
func (e *Engine) Search(ctx context.Context, pos *board.Position, us board.Color) (board.Move, bool) {
	return e.SearchWithLimits(ctx, pos, us, SearchLimits{})
}

// SearchWithLimits is Search with an explicit depth; a zero depth uses the
// difficulty setting.
func (e *Engine) SearchWithLimits(ctx context.Context, pos *board.Position, us board.Color, limits SearchLimits) (board.Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	depth := limits.Depth
	if depth < 1 {
		depth = e.Depth()
	}
	e.searcher.SetMaxDepth(depth)

	start := time.Now()
	res, err := e.searcher.Search(ctx, pos, us)
	if err != nil {
		return board.NoMove, false
	}

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth:   depth,
			Move:    res.Move,
			Score:   res.Score,
			Nodes:   res.Nodes,
			Time:    time.Since(start),
			Stopped: res.Stopped,
		})
	}
	return res.Move, true
}

// Stop stops the current search after the root move being scored.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Perft counts the leaf nodes of the legal move tree (for debugging move
// generation).
func (e *Engine) Perft(pos *board.Position, side board.Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.LegalMoves(side)
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, side.Other(), depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// PerftDivide returns the perft count below each root move.
func (e *Engine) PerftDivide(pos *board.Position, side board.Color, depth int) map[board.Move]uint64 {
	out := make(map[board.Move]uint64)
	if depth < 1 {
		return out
	}
	moves := pos.LegalMoves(side)
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		out[move] = e.Perft(pos, side.Other(), depth-1)
		pos.UnmakeMove(move, undo)
	}
	return out
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string in pawns,
// from White's point of view.
func ScoreToString(score int) string {
	switch {
	case score >= MateScore:
		return "White mates"
	case score <= -MateScore:
		return "Black mates"
	}

	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	return sign + strconv.Itoa(score/PawnValue) + "." + strconv.Itoa(score%PawnValue)
}
