// Package search implements one MCTS iteration (selection, expansion,
// rollout, proof back-propagation) over a CompactTree/board pair. The
// coordinator package drives the worker loop that calls RunIteration
// repeatedly; this package owns the per-iteration algorithm only.
package search

import "github.com/hexmind/havannah/knowledge"

// Config is the iteration-level slice of the flat parameter table: UCT
// /RAVE blending, expansion, knowledge scaling, progressive widening,
// symmetry pruning and the optional minimax/root-noise enrichments.
type Config struct {
	VisitExpand uint32 // visits before a leaf is expanded

	RaveFactor float32 // RAVE alpha curve: alpha = RaveFactor / (RaveFactor + visits)
	PRave      float64 // probability this iteration blends RAVE into child selection (RAVE stats are always credited)
	PExplore   float64 // probability this iteration adds the UCT explore term

	Explore        float32 // UCT exploration constant
	Fpurgency      float32 // value assigned to an unvisited child
	KnowledgeScale float32 // global scale applied to a child's knowledge prior
	Knowledge      knowledge.Weights

	PruneSymmetry bool    // restrict expansion of an empty board to orbit reps
	DynWiden      float64 // progressive widening base; values <= 1 disable

	OpMoves bool // RAVE credits moves by either side, not just the same side

	Minimax int // 0 off, 1 test_win only (always on), >=2 shallow negamax at expansion

	RootNoiseWeight float32 // 0 disables Dirichlet root-noise mixing
}

// DefaultConfig mirrors the teacher's own DefaultConfig pattern: sane,
// conservative defaults rather than zero values that would disable
// everything at once.
func DefaultConfig() Config {
	return Config{
		VisitExpand:    5,
		RaveFactor:     300,
		PRave:          1,
		PExplore:       1,
		Explore:        0.3,
		Fpurgency:      1.1,
		KnowledgeScale: 0.0008,
		Knowledge: knowledge.Weights{
			LocalReply: 5,
			Locality:   2,
			Connect:    3,
			Size:       1,
			Bridge:     8,
			Dists:      1,
		},
	}
}
