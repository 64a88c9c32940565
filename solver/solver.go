// Package solver defines the coordinator's optional external-solver
// interface: a proof-number/alpha-beta search the MCTS engine may
// consult at expansion time or before starting a search at all. A
// solver is never required — search and coordinator both treat an
// "unknown" result (or solver.None) as "fall back to plain MCTS."
package solver

import (
	"context"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/tree"
)

// Solver is anything that can prove or score a position independently
// of the tree search.
type Solver interface {
	// RunPNSAB attempts to prove the outcome of b for defender, within
	// memBudget nodes. Returns tree.OutcomeUnknown if it can't decide
	// before the budget or context runs out.
	RunPNSAB(ctx context.Context, b *board.Board, defender board.Piece, memBudget int) (tree.Outcome, error)

	// Negamax returns a depth-limited score for b from the perspective
	// of the side to move, in [-2, 2] (±2 meaning a proven win/loss
	// found within depth, ±1..0 a heuristic lean). alpha/beta bound the
	// search window in the usual negamax sense.
	Negamax(ctx context.Context, b *board.Board, depth int, alpha, beta float32) (float32, error)
}

// None is the zero-information solver: it always reports "unknown" and
// never errors, matching spec §7's "solver unavailable ⇒ fall back to
// plain MCTS." Coordinator and search both default to it.
var None Solver = noneSolver{}

type noneSolver struct{}

func (noneSolver) RunPNSAB(ctx context.Context, b *board.Board, defender board.Piece, memBudget int) (tree.Outcome, error) {
	return tree.OutcomeUnknown, nil
}

func (noneSolver) Negamax(ctx context.Context, b *board.Board, depth int, alpha, beta float32) (float32, error) {
	return 0, nil
}
