// Package game runs a human-versus-computer game: it owns the position and
// the turn, validates the human's moves and hands the position to the engine
// when the computer is to move.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/pgn"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
	ErrEngineBusy  = errors.New("computer is thinking")
	ErrNotYourTurn = errors.New("not your turn")
)

// Status is the state of the game.
type Status int

const (
	Ongoing Status = iota
	WhiteWins
	BlackWins
	Stalemate
)

func (s Status) String() string {
	switch s {
	case WhiteWins:
		return "White wins"
	case BlackWins:
		return "Black wins"
	case Stalemate:
		return "Stalemate"
	}
	return "Ongoing"
}

// Engine chooses moves for the computer side.
type Engine interface {
	Search(ctx context.Context, pos *board.Position, us board.Color) (board.Move, bool)
}

// Ply is one move as it was played.
type Ply struct {
	Color    board.Color
	Move     board.Move
	SAN      string
	Captured board.Piece
	Castle   bool
	Check    bool // the move gives check
}

type engineReply struct {
	move board.Move
	ok   bool
}

// Game is a single game between the human and the engine. It is not safe for
// concurrent use: call it from one goroutine (the UI loop). The engine only
// ever sees a private copy of the position.
type Game struct {
	engine   Engine
	pos      *board.Position
	turn     board.Color
	human    board.Color
	startFEN string
	history  []Ply
	status   Status
	rec      *pgn.Recorder
	started  time.Time

	pending chan engineReply // non-nil while the engine holds the turn
	cancel  context.CancelFunc

	// Notify, when set, is called from the engine goroutine once its reply
	// is ready to be collected with PollEngine.
	Notify func()
	// OnFinish is called once when the game ends.
	OnFinish func(*Game)
}

// New starts a game from the initial position with the human playing human.
func New(eng Engine, human board.Color) *Game {
	g, err := NewFromFEN(eng, human, board.StartFEN)
	if err != nil {
		panic(err) // the start position always parses
	}
	return g
}

// NewFromFEN starts a game from fen.
func NewFromFEN(eng Engine, human board.Color, fen string) (*Game, error) {
	g := &Game{engine: eng}
	if err := g.reset(human, fen); err != nil {
		return nil, err
	}
	return g, nil
}

// NewGame abandons the current game and starts over from the initial
// position.
func (g *Game) NewGame(human board.Color) {
	if err := g.reset(human, board.StartFEN); err != nil {
		log.Printf("Warning: failed to reset game: %v", err)
	}
}

func (g *Game) reset(human board.Color, fen string) error {
	pos, side, err := board.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	if err := pos.Validate(); err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	rec, err := pgn.NewRecorder(fen)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	g.StopEngine()
	g.pos = pos
	g.turn = side
	g.human = human
	g.startFEN = fen
	g.history = nil
	g.status = Ongoing
	g.rec = rec
	g.started = time.Now()
	g.updateStatus()
	return nil
}

// SetPlayers fills the PGN player names.
func (g *Game) SetPlayers(white, black string) {
	g.rec.SetPlayers(white, black)
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// PieceAt returns the piece on sq.
func (g *Game) PieceAt(sq board.Square) board.Piece {
	return g.pos.PieceAt(sq)
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color { return g.turn }

// Human returns the human's color.
func (g *Game) Human() board.Color { return g.human }

// Status returns the current game status.
func (g *Game) Status() Status { return g.status }

// IsOver reports whether the game has ended.
func (g *Game) IsOver() bool { return g.status != Ongoing }

// Thinking reports whether the engine currently holds the turn.
func (g *Game) Thinking() bool { return g.pending != nil }

// HumanToMove reports whether the human may move now.
func (g *Game) HumanToMove() bool {
	return g.status == Ongoing && g.turn == g.human && g.pending == nil
}

// EngineToMove reports whether the engine should be started.
func (g *Game) EngineToMove() bool {
	return g.status == Ongoing && g.turn != g.human && g.pending == nil
}

// History returns the moves played so far.
func (g *Game) History() []Ply {
	return append([]Ply(nil), g.history...)
}

// LastMove returns the most recent move, or NoMove.
func (g *Game) LastMove() board.Move {
	if len(g.history) == 0 {
		return board.NoMove
	}
	return g.history[len(g.history)-1].Move
}

// CheckSquare returns the king square of the side to move if it is in
// check, otherwise NoSquare.
func (g *Game) CheckSquare() board.Square {
	if g.pos.InCheck(g.turn) {
		return g.pos.KingSquare(g.turn)
	}
	return board.NoSquare
}

// Elapsed returns the time since the game started.
func (g *Game) Elapsed() time.Duration {
	return time.Since(g.started)
}

// LegalDestinations returns the squares the piece on sq may move to. It is
// empty unless sq holds a piece of the human's side and the human is to
// move.
func (g *Game) LegalDestinations(sq board.Square) []board.Square {
	if !g.HumanToMove() || !sq.IsValid() {
		return nil
	}
	moves := g.pos.LegalMovesFrom(g.turn, sq)
	dests := make([]board.Square, 0, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		dests = append(dests, moves.Get(i).To())
	}
	return dests
}

// PlayHuman plays the human's move from -> to.
func (g *Game) PlayHuman(from, to board.Square) (Ply, error) {
	switch {
	case g.status != Ongoing:
		return Ply{}, ErrGameOver
	case g.pending != nil:
		return Ply{}, ErrEngineBusy
	case g.turn != g.human:
		return Ply{}, ErrNotYourTurn
	}
	if !from.IsValid() || !to.IsValid() {
		return Ply{}, ErrIllegalMove
	}
	m := board.NewMove(from, to)
	if !g.pos.IsLegal(g.turn, m) {
		return Ply{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	return g.apply(m), nil
}

// StartEngine hands a copy of the position to the engine on a new
// goroutine. The reply is applied by PollEngine or WaitEngine.
func (g *Game) StartEngine(ctx context.Context) error {
	switch {
	case g.status != Ongoing:
		return ErrGameOver
	case g.pending != nil:
		return ErrEngineBusy
	case g.turn == g.human:
		return ErrNotYourTurn
	}

	ctx, cancel := context.WithCancel(ctx)
	reply := make(chan engineReply, 1)
	g.pending = reply
	g.cancel = cancel

	pos, side, eng, notify := g.pos.Copy(), g.turn, g.engine, g.Notify
	go func() {
		defer cancel()
		m, ok := eng.Search(ctx, pos, side)
		reply <- engineReply{move: m, ok: ok}
		if notify != nil {
			notify()
		}
	}()
	return nil
}

// PollEngine applies the engine's move if it has arrived. It never blocks.
func (g *Game) PollEngine() (Ply, bool) {
	if g.pending == nil {
		return Ply{}, false
	}
	select {
	case r := <-g.pending:
		return g.collect(r)
	default:
		return Ply{}, false
	}
}

// WaitEngine blocks until the engine replies or ctx is done.
func (g *Game) WaitEngine(ctx context.Context) (Ply, error) {
	if g.pending == nil {
		return Ply{}, errors.New("engine is not running")
	}
	select {
	case r := <-g.pending:
		ply, ok := g.collect(r)
		if !ok {
			return Ply{}, errors.New("engine returned no move")
		}
		return ply, nil
	case <-ctx.Done():
		return Ply{}, ctx.Err()
	}
}

// StopEngine cancels a running search and gives the turn back without a
// move.
func (g *Game) StopEngine() {
	if g.cancel != nil {
		g.cancel()
	}
	g.pending = nil
	g.cancel = nil
}

func (g *Game) collect(r engineReply) (Ply, bool) {
	g.pending = nil
	g.cancel = nil
	if !r.ok {
		log.Printf("[AI] Search returned no move")
		return Ply{}, false
	}
	if !g.pos.IsLegal(g.turn, r.move) {
		log.Printf("Warning: [AI] discarding illegal move %s", r.move)
		return Ply{}, false
	}
	return g.apply(r.move), true
}

// apply plays a legal move for the side to move and records it.
func (g *Game) apply(m board.Move) Ply {
	ply := Ply{
		Color:  g.turn,
		Move:   m,
		Castle: g.pos.IsCastling(m),
	}
	uci := m.UCI(g.pos)

	undo := g.pos.MakeMove(m)
	ply.Captured = undo.Captured
	g.turn = g.turn.Other()
	ply.Check = g.pos.InCheck(g.turn)

	wasBroken := g.rec.Err() != nil
	san, err := g.rec.Record(uci)
	if err != nil {
		if !wasBroken {
			log.Printf("Warning: move record stopped: %v", err)
		}
		san = uci
	}
	ply.SAN = san

	g.history = append(g.history, ply)
	g.updateStatus()
	return ply
}

func (g *Game) updateStatus() {
	if g.status != Ongoing {
		return
	}
	switch {
	case g.pos.IsCheckmate(g.turn):
		if g.turn == board.White {
			g.status = BlackWins
		} else {
			g.status = WhiteWins
		}
	case g.pos.IsStalemate(g.turn), g.pos.IsStalemate(g.turn.Other()):
		g.status = Stalemate
	default:
		return
	}
	g.finish()
}

func (g *Game) finish() {
	var err error
	switch g.status {
	case WhiteWins:
		err = g.rec.Finish(pgn.WhiteWon, "checkmate")
	case BlackWins:
		err = g.rec.Finish(pgn.BlackWon, "checkmate")
	case Stalemate:
		err = g.rec.Finish(pgn.Drawn, "stalemate")
	}
	if err != nil {
		log.Printf("Warning: failed to record result: %v", err)
	}
	if g.OnFinish != nil {
		g.OnFinish(g)
	}
}

// HumanWon reports whether the game ended with the human giving mate.
func (g *Game) HumanWon() bool {
	return (g.status == WhiteWins && g.human == board.White) ||
		(g.status == BlackWins && g.human == board.Black)
}

// ResultMessage returns the end-of-game text, or "" while playing.
func (g *Game) ResultMessage() string {
	switch {
	case g.status == Ongoing:
		return ""
	case g.status == Stalemate:
		return "Draw by stalemate"
	case g.HumanWon():
		return "You win!"
	}
	return "Computer wins!"
}

// PGN returns the game record in PGN.
func (g *Game) PGN() string {
	return g.rec.String()
}

// MoveText returns the numbered SAN move list.
func (g *Game) MoveText() string {
	return g.rec.MoveText()
}

// Result returns the PGN result token.
func (g *Game) Result() string {
	return g.rec.Result()
}

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// FEN returns the current position in FEN.
func (g *Game) FEN() string {
	return g.pos.FEN(g.turn)
}
