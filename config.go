// Package havannah is the coordinator: it owns the root board, the
// search tree, a pool of persistent worker goroutines, the memory
// budget, and the run/GC state machine described in spec §4.6. Everything
// below it (board, tree, movelist, knowledge, rollout, search, solver) is
// a leaf package with no knowledge of threading; this package is where
// concurrency and configuration finally meet the algorithm.
package havannah

import (
	"log"
	"math/rand"

	"github.com/hexmind/havannah/rollout"
	"github.com/hexmind/havannah/search"
	"github.com/hexmind/havannah/solver"
)

// Config is the flat parameter record of spec §6's table, split across
// the three layers that actually consume each field (mirroring the
// teacher's own Config -> {NNConf, MCTSConf} nesting in datatypes.go).
type Config struct {
	// Scheduling
	Threads int  // worker count; 1 degenerates to single-threaded
	Ponder  bool // keep searching on the opponent's time after genmove returns
	MaxRuns uint32 // per-worker iteration cap for a timed round; 0 = unbounded (timeout-only)

	// Memory / GC
	MaxMem      int     // arena node-count budget (tree.Tree's maxMem)
	GCLimitInit float64 // starting gc_limit: visit threshold below which an unproven child is freed
	GCLogVisits uint32  // log a freed node whose visit count exceeds this

	// Final move selection
	MSExplore float32 // LCB coefficient for unproven children
	MSRave    float32 // -1 "simulation count", -2 "win count"; else RAVE-blended like candidateScore

	// Search iteration (see search.Config for field meaning)
	Search   search.Config
	DecrRave float32 // rave_factor decay applied once per move played

	// Rollout (see rollout.Config for field meaning)
	Rollout rollout.Config

	// Root noise / diagnostics
	RootNoiseWeight float32 // mixed into search.Config.RootNoiseWeight at first root expansion
	GraphvizDump    bool    // not read by the coordinator: no DOT snapshot is written; Tree.DOT renders one on request

	// Solver consultation
	Solver       solver.Solver // solver.None if unconfigured
	SolverMemBudget int        // memBudget passed to Solver.RunPNSAB

	Logger *log.Logger
}

// DefaultConfig mirrors the teacher's own layered defaults
// (agogo.Config composing mcts.Config / dual.Config): sane, conservative
// numbers rather than zero values that would disable the whole engine.
func DefaultConfig() Config {
	return Config{
		Threads:     1,
		Ponder:      false,
		MaxRuns:     0,
		MaxMem:      1 << 20,
		GCLimitInit: 5,
		GCLogVisits: 10000,
		MSExplore:   0.1,
		MSRave:      0,
		Search:      search.DefaultConfig(),
		DecrRave:    1,
		Rollout:     rollout.Config{InstantWin: 1, LastGoodReply: 1},
		Solver:      solver.None,
		Logger:      log.Default(),
	}
}

// newRand is split out so tests and callers can seed it deterministically
// (spec §8's regression property requires reproducible runs with a fixed
// seed and RootNoiseWeight at 0).
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
