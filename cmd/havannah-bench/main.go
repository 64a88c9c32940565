// Command havannah-bench runs a self-play match on an empty board with a
// fixed time budget per move and prints each move with its principal
// variation, plus the per-child statistics at the root when -stats is
// given. Worker RNGs are seeded from their thread index, not from a
// flag. It stands in for the excluded
// text-protocol front end (spec.md §1's Non-goals) as a harness, not a
// GTP/HTP implementation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hexmind/havannah"
	"github.com/hexmind/havannah/board"
)

var (
	size      = flag.Int("size", 8, "board side length (3-10)")
	threads   = flag.Int("threads", 4, "worker count")
	moveTime  = flag.Duration("movetime", 2*time.Second, "time budget per move")
	maxMoves  = flag.Int("maxmoves", 40, "stop after this many plies even if undecided")
	maxMem    = flag.Int("maxmem", 1<<20, "arena node-count budget")
	seedBase  = flag.Int64("seed", 1, "unused: worker RNGs are seeded from their thread index")
	dumpStats = flag.Bool("stats", false, "print per-child statistics after every move")
)

func main() {
	flag.Parse()

	b, err := board.NewBoard(*size)
	if err != nil {
		log.Fatalf("havannah-bench: %v", err)
	}

	cfg := havannah.DefaultConfig()
	cfg.Threads = *threads
	cfg.MaxMem = *maxMem
	cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)

	coord := havannah.NewCoordinator(cfg, b)
	defer coord.Close()

	ctx := context.Background()
	for ply := 0; ply < *maxMoves && b.Outcome() == board.OutcomeUnknown; ply++ {
		move, pv, stats, err := coord.Genmove(ctx, *moveTime, 0)
		if err != nil {
			log.Fatalf("havannah-bench: ply %d: %v", ply, err)
		}
		if !move.IsCell() {
			fmt.Println("no legal move left")
			break
		}

		toplay := b.Toplay()
		if err := b.Play(move, toplay); err != nil {
			log.Fatalf("havannah-bench: applying %v: %v", move, err)
		}
		if err := coord.Advance(move); err != nil {
			log.Fatalf("havannah-bench: advancing to %v: %v", move, err)
		}

		fmt.Printf("ply %3d  %v plays %s\n", ply, toplay, b.Coord(move))
		fmt.Printf("  pv:")
		for _, m := range pv {
			fmt.Printf(" %s", b.Coord(m))
		}
		fmt.Println()

		if *dumpStats {
			for _, s := range stats {
				fmt.Printf("    %-4s exp=%.3f/%d rave=%.3f/%d outcome=%v\n",
					b.Coord(s.Move), s.ExpAvg, s.ExpVisits, s.RaveAvg, s.RaveVisits, s.Outcome)
			}
		}
	}

	fmt.Println()
	b.Render(os.Stdout)
	fmt.Printf("final outcome: %v\n", b.Outcome())
}
