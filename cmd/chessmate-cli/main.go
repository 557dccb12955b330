// Command chessmate-cli exposes the rules engine and search from the shell:
// perft counts, best-move search, static evaluation, SVG diagrams, legal
// move listings and a UCI loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/engine"
	"github.com/hailam/chessmate/internal/render"
	"github.com/hailam/chessmate/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

const usage = `usage: chessmate-cli [-cpuprofile file] <command> [flags]

commands:
  perft  -fen FEN -depth N [-divide]
  best   -fen FEN -depth N [-seed S]
  eval   -fen FEN
  moves  -fen FEN
  svg    -fen FEN [-out file] [-size px] [-flip]
  uci
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if err := run(flag.Arg(0), flag.Args()[1:], os.Stdout); err != nil {
		log.Printf("Error: %v", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run(cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fen := fs.String("fen", board.StartFEN, "position in FEN")

	switch cmd {
	case "perft":
		depth := fs.Int("depth", 4, "perft depth")
		divide := fs.Bool("divide", false, "print the count below each root move")
		if err := fs.Parse(args); err != nil {
			return err
		}
		pos, side, err := board.ParseFEN(*fen)
		if err != nil {
			return err
		}
		return perft(out, pos, side, *depth, *divide)

	case "best":
		depth := fs.Int("depth", engine.DefaultMaxDepth, "search depth including the root move")
		seed := fs.Int64("seed", time.Now().UnixNano(), "seed for the root move shuffle")
		if err := fs.Parse(args); err != nil {
			return err
		}
		pos, side, err := board.ParseFEN(*fen)
		if err != nil {
			return err
		}
		s := engine.NewSearcher(*depth, rand.New(rand.NewSource(*seed)))
		start := time.Now()
		res, err := s.Search(context.Background(), pos, side)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bestmove %s score %s nodes %d time %v\n",
			res.Move.UCI(pos), engine.ScoreToString(res.Score), res.Nodes, time.Since(start).Round(time.Millisecond))
		return nil

	case "eval":
		if err := fs.Parse(args); err != nil {
			return err
		}
		pos, _, err := board.ParseFEN(*fen)
		if err != nil {
			return err
		}
		score := engine.Evaluate(pos)
		fmt.Fprintf(out, "%d (%s)\n", score, engine.ScoreToString(score))
		return nil

	case "moves":
		if err := fs.Parse(args); err != nil {
			return err
		}
		pos, side, err := board.ParseFEN(*fen)
		if err != nil {
			return err
		}
		ml := pos.LegalMoves(side)
		moves := make([]string, 0, ml.Len())
		for i := 0; i < ml.Len(); i++ {
			moves = append(moves, ml.Get(i).UCI(pos))
		}
		sort.Strings(moves)
		for _, m := range moves {
			fmt.Fprintln(out, m)
		}
		return nil

	case "svg":
		outPath := fs.String("out", "", "output file (default stdout)")
		size := fs.Int("size", 60, "square size in pixels")
		flip := fs.Bool("flip", false, "draw Black at the bottom")
		if err := fs.Parse(args); err != nil {
			return err
		}
		pos, _, err := board.ParseFEN(*fen)
		if err != nil {
			return err
		}
		opts := render.DefaultOptions()
		opts.SquareSize = *size
		opts.Flipped = *flip
		w := out
		if *outPath != "" {
			f, err := os.Create(*outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return render.Board(w, pos, opts)

	case "uci":
		return uci.New(engine.NewEngine(), os.Stdin, out).Run()
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func perft(out io.Writer, pos *board.Position, side board.Color, depth int, divide bool) error {
	if depth < 1 {
		return fmt.Errorf("depth must be at least 1")
	}
	eng := engine.NewEngine()
	start := time.Now()

	if !divide {
		nodes := eng.Perft(pos, side, depth)
		fmt.Fprintf(out, "perft(%d) = %d (%v)\n", depth, nodes, time.Since(start).Round(time.Millisecond))
		return nil
	}

	counts := eng.PerftDivide(pos, side, depth)
	lines := make([]string, 0, len(counts))
	var total uint64
	for m, n := range counts {
		lines = append(lines, fmt.Sprintf("%s: %d", m.UCI(pos), n))
		total += n
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	fmt.Fprintf(out, "\nNodes searched: %d (%v)\n", total, time.Since(start).Round(time.Millisecond))
	return nil
}
