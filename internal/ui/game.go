// Package ui implements the desktop chess game using Ebitengine.
package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/engine"
	"github.com/hailam/chessmate/internal/game"
	"github.com/hailam/chessmate/internal/storage"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// UIScale is the device scale factor, updated in Layout.
var UIScale float64 = 1.0

var (
	dimColor    = color.RGBA{0, 0, 0, 140}
	bannerColor = color.RGBA{30, 33, 39, 230}
)

// Game implements ebiten.Game.
type Game struct {
	game   *game.Game
	engine *engine.Engine
	ctx    context.Context
	cancel context.CancelFunc

	storage *storage.Storage
	prefs   *storage.UserPreferences
	stats   *storage.GameStats

	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager
	welcome  *WelcomeScreen

	selected board.Square
	dests    []board.Square
	dragging bool

	scale float64
}

// NewGame builds the window state, loads preferences and starts a game.
func NewGame() *Game {
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		engine:   engine.NewEngine(),
		ctx:      ctx,
		cancel:   cancel,
		renderer: NewRenderer(BoardSize, SquareSize),
		input:    NewInputHandler(),
		feedback: NewFeedbackManager(),
		welcome:  NewWelcomeScreen(),
		selected: board.NoSquare,
		scale:    1.0,
	}
	g.engine.OnInfo = func(info engine.SearchInfo) {
		log.Printf("[AI] depth %d: %s (%s) %d nodes in %v",
			info.Depth, info.Move, engine.ScoreToString(info.Score), info.Nodes, info.Time.Round(time.Millisecond))
	}

	var err error
	g.storage, err = storage.NewStorage()
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
	}
	g.loadPreferences()

	g.panel = NewPanel(g)
	g.startGame()
	g.checkFirstLaunch()
	return g
}

// loadPreferences applies stored preferences, falling back to defaults.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	g.stats = storage.NewGameStats()
	if g.storage == nil {
		g.applyPreferences()
		return
	}

	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
	} else {
		g.prefs = prefs
	}
	stats, err := g.storage.LoadStats()
	if err != nil {
		log.Printf("Warning: Failed to load stats: %v", err)
	} else {
		g.stats = stats
	}
	g.applyPreferences()
}

func (g *Game) applyPreferences() {
	g.engine.SetDifficulty(engineDifficulty(g.prefs.Difficulty))
	g.feedback.Audio().SetEnabled(g.prefs.SoundEnabled)
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

// checkFirstLaunch shows the welcome screen on first launch.
func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}
	isFirst, err := g.storage.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if !isFirst {
		return
	}
	g.welcome.Show(func(name string) {
		g.prefs.Username = name
		g.savePreferences()
		g.setPlayers()
		if err := g.storage.MarkFirstLaunchComplete(); err != nil {
			log.Printf("Warning: Failed to mark first launch complete: %v", err)
		}
	})
}

func engineDifficulty(d storage.Difficulty) engine.Difficulty {
	switch d {
	case storage.DifficultyEasy:
		return engine.Easy
	case storage.DifficultyHard:
		return engine.Hard
	}
	return engine.Medium
}

func storageDifficulty(d engine.Difficulty) storage.Difficulty {
	switch d {
	case engine.Easy:
		return storage.DifficultyEasy
	case engine.Hard:
		return storage.DifficultyHard
	}
	return storage.DifficultyMedium
}

// HumanColor returns the color the human plays.
func (g *Game) HumanColor() board.Color {
	if g.prefs.PlayerColor == storage.ColorBlack {
		return board.Black
	}
	return board.White
}

// startGame abandons the current game, if any, and starts a new one.
func (g *Game) startGame() {
	human := g.HumanColor()
	if g.game == nil {
		g.game = game.New(g.engine, human)
	} else {
		g.game.NewGame(human)
	}
	g.game.OnFinish = g.recordResult
	g.setPlayers()
	g.renderer.SetFlipped((human == board.Black) != g.prefs.FlipBoard)
	g.clearSelection()
}

func (g *Game) setPlayers() {
	white, black := g.prefs.Username, "Computer"
	if g.HumanColor() == board.Black {
		white, black = black, white
	}
	g.game.SetPlayers(white, black)
}

// recordResult updates statistics and archives the finished game.
func (g *Game) recordResult(gm *game.Game) {
	g.feedback.OnGameOver(gm.ResultMessage(), gm.HumanWon())
	log.Printf("Game over: %s (%s)", gm.ResultMessage(), gm.Result())
	if g.storage == nil {
		return
	}

	side := storage.ColorWhite
	if gm.Human() == board.Black {
		side = storage.ColorBlack
	}
	result := storage.GameResult{
		Won:         gm.HumanWon(),
		Draw:        gm.Status() == game.Stalemate,
		Difficulty:  storageDifficulty(g.engine.Difficulty()),
		PlayerColor: side,
		Duration:    gm.Elapsed(),
	}
	if err := g.storage.RecordGame(result); err != nil {
		log.Printf("Warning: Failed to record game: %v", err)
	}
	if stats, err := g.storage.LoadStats(); err == nil {
		g.stats = stats
	}

	rec := &storage.GameRecord{
		Result: gm.Result(),
		Moves:  len(gm.History()),
		PGN:    gm.PGN(),
	}
	if err := g.storage.SaveGameRecord(rec); err != nil {
		log.Printf("Warning: Failed to archive game: %v", err)
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	if g.welcome.IsVisible() {
		g.welcome.Update(g.input)
		return nil
	}

	g.handleKeys()
	if !g.panel.HandleInput(g.input) {
		g.handleBoardInput()
	}
	g.checkAIMove()

	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case IsKeyJustPressed(ebiten.KeyN):
		g.NewGameAction()
	case IsKeyJustPressed(ebiten.KeyF):
		g.SwapColorsAction()
	case IsKeyJustPressed(ebiten.KeyR):
		g.prefs.FlipBoard = !g.prefs.FlipBoard
		g.renderer.SetFlipped(!g.renderer.Flipped())
		g.savePreferences()
	case IsKeyJustPressed(ebiten.KeyDigit1):
		g.SetDifficulty(engine.Easy)
	case IsKeyJustPressed(ebiten.KeyDigit2):
		g.SetDifficulty(engine.Medium)
	case IsKeyJustPressed(ebiten.KeyDigit3):
		g.SetDifficulty(engine.Hard)
	case IsKeyJustPressed(ebiten.KeyS):
		g.prefs.SoundEnabled = !g.prefs.SoundEnabled
		g.feedback.Audio().SetEnabled(g.prefs.SoundEnabled)
		g.savePreferences()
	case IsKeyJustPressed(ebiten.KeyE):
		g.exportPGN()
	}
}

// checkAIMove collects the engine's reply and starts the engine when it is
// its turn.
func (g *Game) checkAIMove() {
	if ply, ok := g.game.PollEngine(); ok {
		g.afterMove(ply)
	}
	if g.game.EngineToMove() {
		if err := g.game.StartEngine(g.ctx); err != nil {
			log.Printf("Warning: [AI] failed to start: %v", err)
		}
	}
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	mx, my := g.input.MousePosition()

	if g.dragging && g.input.IsLeftJustReleased() {
		g.dragging = false
		to := g.renderer.ScreenToSquare(mx, my)
		if to != board.NoSquare && to != g.selected {
			g.tryMove(g.selected, to)
		}
		return
	}
	if !g.input.IsLeftJustPressed() {
		return
	}

	sq := g.renderer.ScreenToSquare(mx, my)
	if sq == board.NoSquare {
		return
	}
	if !g.game.HumanToMove() {
		if !g.game.IsOver() {
			g.feedback.Show("Not your turn", ToastInfo, time.Second)
		}
		return
	}

	p := g.game.PieceAt(sq)
	switch {
	case p != board.NoPiece && p.Color() == g.game.Human() && !g.isCastleTarget(sq):
		g.selected = sq
		g.dests = g.game.LegalDestinations(sq)
		g.dragging = true
	case g.selected != board.NoSquare:
		g.tryMove(g.selected, sq)
	}
}

// isCastleTarget reports whether clicking sq with the king selected means
// castling onto that rook.
func (g *Game) isCastleTarget(sq board.Square) bool {
	if g.selected == board.NoSquare || g.game.PieceAt(g.selected).Type() != board.King {
		return false
	}
	_, ok := castleByRook(g.game.Position(), g.selected, sq)
	return ok
}

// castleByRook maps a king move onto its own rook to the castling move, so
// players can castle the way they would on a real board.
func castleByRook(pos *board.Position, from, to board.Square) (board.Square, bool) {
	king, rook := pos.PieceAt(from), pos.PieceAt(to)
	if king.Type() != board.King || rook.Type() != board.Rook || rook.Color() != king.Color() {
		return to, false
	}
	if from.Rank() != to.Rank() {
		return to, false
	}
	dest := board.NewSquare(6, from.Rank())
	if to.File() < from.File() {
		dest = board.NewSquare(2, from.Rank())
	}
	if !pos.IsCastling(board.NewMove(from, dest)) || !pos.IsLegal(king.Color(), board.NewMove(from, dest)) {
		return to, false
	}
	return dest, true
}

func (g *Game) tryMove(from, to board.Square) {
	if dest, ok := castleByRook(g.game.Position(), from, to); ok {
		to = dest
	}
	ply, err := g.game.PlayHuman(from, to)
	if err != nil {
		if errors.Is(err, game.ErrIllegalMove) {
			g.feedback.OnIllegalMove(from, to, illegalReason(g.game.Position(), from, to))
		}
		g.clearSelection()
		return
	}
	g.afterMove(ply)
}

// illegalReason explains why from-to was refused.
func illegalReason(pos *board.Position, from, to board.Square) string {
	p := pos.PieceAt(from)
	if p == board.NoPiece {
		return "Invalid move"
	}
	if q := pos.PieceAt(to); q != board.NoPiece && q.Color() == p.Color() {
		return "Square occupied by your piece"
	}
	ml := board.NewMoveList()
	pos.PseudoMoves(from, true, ml)
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i).To() == to {
			return "Illegal move - King would be in check"
		}
	}
	return "Invalid move for this piece"
}

func (g *Game) afterMove(ply game.Ply) {
	g.clearSelection()
	if !g.game.IsOver() {
		g.feedback.OnMove(ply)
	}
}

func (g *Game) clearSelection() {
	g.selected = board.NoSquare
	g.dests = nil
	g.dragging = false
}

// NewGameAction starts a new game with the same colors.
func (g *Game) NewGameAction() {
	g.startGame()
}

// SwapColorsAction starts a new game with the human on the other side.
func (g *Game) SwapColorsAction() {
	if g.prefs.PlayerColor == storage.ColorBlack {
		g.prefs.PlayerColor = storage.ColorWhite
	} else {
		g.prefs.PlayerColor = storage.ColorBlack
	}
	g.savePreferences()
	g.startGame()
}

// SetDifficulty changes the engine depth for the next search.
func (g *Game) SetDifficulty(d engine.Difficulty) {
	g.engine.SetDifficulty(d)
	g.prefs.Difficulty = storageDifficulty(d)
	g.savePreferences()
	g.feedback.Show("Difficulty: "+d.String(), ToastInfo, time.Second)
}

// Difficulty returns the engine difficulty.
func (g *Game) Difficulty() engine.Difficulty {
	return g.engine.Difficulty()
}

// History returns the moves of the current game.
func (g *Game) History() []game.Ply {
	return g.game.History()
}

// Username returns the player's name.
func (g *Game) Username() string {
	return g.prefs.Username
}

// StatsLine summarises the player's record.
func (g *Game) StatsLine() string {
	return fmt.Sprintf("W%d L%d D%d", g.stats.Wins, g.stats.Losses, g.stats.Draws)
}

// StatusText describes whose turn it is or how the game ended.
func (g *Game) StatusText() string {
	switch {
	case g.game.IsOver():
		return g.game.ResultMessage()
	case g.game.Thinking():
		return "Computer is thinking..."
	case g.game.Turn() == g.game.Human():
		return g.game.Turn().String() + " to move (you)"
	}
	return g.game.Turn().String() + " to move"
}

// IsOver reports whether the game has ended.
func (g *Game) IsOver() bool {
	return g.game.IsOver()
}

// IsAIThinking reports whether the engine is searching.
func (g *Game) IsAIThinking() bool {
	return g.game.Thinking()
}

// SoundEnabled reports whether sound effects are on.
func (g *Game) SoundEnabled() bool {
	return g.prefs.SoundEnabled
}

// exportPGN writes the current game next to the database.
func (g *Game) exportPGN() {
	dir, err := storage.GetDataDir()
	if err != nil {
		log.Printf("Warning: Failed to locate data directory: %v", err)
		return
	}
	path := filepath.Join(dir, "game-"+time.Now().Format("20060102-150405")+".pgn")
	if err := os.WriteFile(path, []byte(g.game.PGN()), 0o644); err != nil {
		log.Printf("Warning: Failed to save PGN: %v", err)
		g.feedback.Show("Could not save PGN", ToastWarning, 2*time.Second)
		return
	}
	log.Printf("Saved %s", path)
	g.feedback.Show("Saved "+filepath.Base(path), ToastSuccess, 2*time.Second)
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawBoard(screen)
	g.renderer.DrawCheck(screen, g.game.CheckSquare())
	g.renderer.DrawHighlights(screen, g.selected, g.dests, g.game.LastMove())

	pos := g.game.Position()
	skip := board.NoSquare
	if g.dragging {
		skip = g.selected
	}
	g.renderer.DrawPieces(screen, pos, skip, g.feedback.ShakeOffset)
	if g.dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, pos.PieceAt(g.selected), mx, my)
	}

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen)
	g.drawBanner(screen)
	g.welcome.Draw(screen)
}

// drawBanner shows the result across the board once the game is over.
func (g *Game) drawBanner(screen *ebiten.Image) {
	if !g.game.IsOver() {
		return
	}
	s := float32(g.scale)
	const h = 110
	y := (BoardSize - h) / 2
	vector.DrawFilledRect(screen, 0, float32(y)*s, BoardSize*s, h*s, bannerColor, false)
	drawTextCentered(screen, g.game.ResultMessage(), GetBoldFace(), BoardSize/2, float64(y+40), statusGameOver)
	drawTextCentered(screen, g.game.Result()+"   press N for a new game", GetRegularFace(), BoardSize/2, float64(y+75), textSecondary)
}

// Layout returns the screen size in device pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = max(ebiten.Monitor().DeviceScaleFactor(), 1.0)
	UIScale = g.scale
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// Close stops the engine and closes storage.
func (g *Game) Close() {
	g.game.StopEngine()
	g.cancel()
	if g.storage != nil {
		if err := g.storage.Close(); err != nil {
			log.Printf("Warning: Failed to close storage: %v", err)
		}
	}
}
