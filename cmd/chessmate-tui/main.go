// Command chessmate-tui plays against the engine in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/engine"
	"github.com/hailam/chessmate/internal/tui"
)

var (
	black   = flag.Bool("black", false, "play the black pieces")
	level   = flag.Int("level", 2, "difficulty: 1 easy, 2 medium, 3 hard")
	logFile = flag.String("log", "", "write log output to file instead of discarding it")
)

func main() {
	flag.Parse()

	logOut, err := openLog(*logFile)
	if err != nil {
		fail(err)
	}
	defer logOut.Close()

	screen, err := openScreen(tcell.NewScreen)
	if err != nil {
		fail(err)
	}
	// The screen owns the terminal, so logging goes to a file or nowhere.
	log.SetOutput(logOut)

	eng := engine.NewEngine()
	eng.SetDifficulty(engine.Difficulty(*level - 1))

	human := board.White
	if *black {
		human = board.Black
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = tui.New(screen, eng, human).Run(ctx)
	screen.Fini()
	if err != nil && ctx.Err() == nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "chessmate-tui:", err)
	os.Exit(1)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openLog opens the log file, or a sink that discards everything when path
// is empty.
func openLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}

// openScreen creates and initialises the terminal screen.
func openScreen(newScreen func() (tcell.Screen, error)) (tcell.Screen, error) {
	screen, err := newScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	return screen, nil
}
