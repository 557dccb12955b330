package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/hailam/chessmate/internal/board"
)

// Search constants
const (
	Infinity        = MateScore + 1
	DefaultMaxDepth = 3
)

// ErrNoLegalMoves is returned when the side to move has no move at all.
var ErrNoLegalMoves = errors.New("engine: no legal moves")

// Result is the outcome of a root search.
type Result struct {
	Move    board.Move
	Score   int
	Nodes   uint64
	Scored  int // root moves fully searched
	Stopped bool
}

// Searcher performs the alpha-beta search. A Searcher is not safe for
// concurrent searches; Stop and Nodes may be called from any goroutine.
type Searcher struct {
	maxDepth int
	rng      *rand.Rand
	stopFlag atomic.Bool
	nodes    atomic.Uint64
}

// NewSearcher creates a searcher that looks maxDepth levels deep, counting
// the root as level one. A nil rng seeds one from the clock.
func NewSearcher(maxDepth int, rng *rand.Rand) *Searcher {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Searcher{maxDepth: maxDepth, rng: rng}
}

// MaxDepth returns the configured search depth.
func (s *Searcher) MaxDepth() int {
	return s.maxDepth
}

// SetMaxDepth changes the search depth for subsequent searches.
func (s *Searcher) SetMaxDepth(d int) {
	if d >= 1 {
		s.maxDepth = d
	}
}

// Stop signals the search to stop after the current root move. A Stop that
// arrives before a search begins stops that search; the flag is cleared when
// a search returns.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// IsStopped returns true if the search has been stopped.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// Reset clears the stop flag and node counter.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes.Store(0)
}

// Nodes returns the number of nodes visited by the current or last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes.Load()
}

// ChooseMove picks a move for us in pos, or reports false when us has no
// legal move. pos is used as scratch space and is restored before return.
func (s *Searcher) ChooseMove(pos *board.Position, us board.Color) (board.Move, bool) {
	res, err := s.Search(context.Background(), pos, us)
	if err != nil {
		return board.NoMove, false
	}
	return res.Move, true
}

// Search scores every legal root move for us in random order and returns
// the best one for us; the first move seen wins ties. Cancellation through
// ctx or Stop is honoured between root moves, in which case the best move
// found so far is returned with Stopped set. A search stopped before any
// move was scored still returns the first legal move in shuffled order, so
// ErrNoLegalMoves is the only way to get no move.
func (s *Searcher) Search(ctx context.Context, pos *board.Position, us board.Color) (Result, error) {
	s.nodes.Store(0)
	defer s.stopFlag.Store(false)

	moves := pos.LegalMoves(us).Slice()
	if len(moves) == 0 {
		return Result{}, ErrNoLegalMoves
	}
	s.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	// The reply belongs to the opponent, who maximizes if it is White.
	replyMaximizes := us.Other() == board.White

	res := Result{Move: board.NoMove}
	bestForUs := -Infinity
	for _, m := range moves {
		if ctx.Err() != nil || s.stopFlag.Load() {
			res.Stopped = true
			break
		}

		undo := pos.MakeMove(m)
		score := s.AlphaBeta(pos, 1, -Infinity, Infinity, replyMaximizes, s.maxDepth)
		pos.UnmakeMove(m, undo)
		res.Scored++

		forUs := score
		if us == board.Black {
			forUs = -score
		}
		if forUs > bestForUs {
			bestForUs = forUs
			res.Move = m
			res.Score = score
		}
	}

	res.Nodes = s.nodes.Load()
	if res.Move == board.NoMove {
		res.Move = moves[0]
		res.Score = Evaluate(pos)
	}
	return res, nil
}

// AlphaBeta returns the minimax value of pos with alpha-beta pruning.
// maximizing selects the side to move: White maximizes, Black minimizes.
// Terminal positions for either side and nodes at maxDepth are evaluated
// statically.
func (s *Searcher) AlphaBeta(pos *board.Position, depth, alpha, beta int, maximizing bool, maxDepth int) int {
	s.nodes.Add(1)
	if depth >= maxDepth || pos.IsTerminal() {
		return Evaluate(pos)
	}

	moves := pos.LegalMoves(sideToMove(maximizing))
	if maximizing {
		best := -Infinity
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			undo := pos.MakeMove(m)
			best = max(best, s.AlphaBeta(pos, depth+1, alpha, beta, false, maxDepth))
			pos.UnmakeMove(m, undo)

			alpha = max(alpha, best)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := Infinity
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		best = min(best, s.AlphaBeta(pos, depth+1, alpha, beta, true, maxDepth))
		pos.UnmakeMove(m, undo)

		beta = min(beta, best)
		if beta <= alpha {
			break
		}
	}
	return best
}

// Minimax is AlphaBeta without pruning. It always returns the same value
// and exists to check the pruning.
func (s *Searcher) Minimax(pos *board.Position, depth int, maximizing bool, maxDepth int) int {
	s.nodes.Add(1)
	if depth >= maxDepth || pos.IsTerminal() {
		return Evaluate(pos)
	}

	moves := pos.LegalMoves(sideToMove(maximizing))
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		v := s.Minimax(pos, depth+1, !maximizing, maxDepth)
		pos.UnmakeMove(m, undo)
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

func sideToMove(maximizing bool) board.Color {
	if maximizing {
		return board.White
	}
	return board.Black
}
