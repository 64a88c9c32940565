package solver

import (
	"context"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/knowledge"
	"github.com/hexmind/havannah/tree"
)

// Shallow is a depth-bounded negamax solver used by search's expansion
// -time tactical check (config minimax >= 2). It has no proof-number
// bookkeeping of its own — RunPNSAB is a thin wrapper that asks Negamax
// for a maximal-depth verdict and only reports a decided tree.Outcome
// when the score saturates at ±2 (a forced, provably-decided line
// within the searched depth, not merely a good heuristic lean).
type Shallow struct {
	Weights  knowledge.Weights
	MaxDepth int
}

// NewShallow returns a Shallow solver seeded with the knowledge weights
// used to score non-terminal leaves (the same weights the tree's own
// expansion priors use, so the two agree on what "good" looks like).
func NewShallow(w knowledge.Weights, maxDepth int) *Shallow {
	if maxDepth <= 0 {
		maxDepth = 2
	}
	return &Shallow{Weights: w, MaxDepth: maxDepth}
}

func (s *Shallow) RunPNSAB(ctx context.Context, b *board.Board, defender board.Piece, memBudget int) (tree.Outcome, error) {
	score, err := s.Negamax(ctx, b, s.MaxDepth, -2, 2)
	if err != nil {
		return tree.OutcomeUnknown, err
	}
	toplay := b.Toplay()
	switch {
	case score >= 2:
		return tree.FromBoard(board.ForPiece(toplay)), nil
	case score <= -2:
		return tree.FromBoard(board.ForPiece(toplay.Opponent())), nil
	}
	return tree.OutcomeUnknown, nil
}

// Negamax is a plain alpha-beta search with no transposition table:
// depth is small (minimax is a cheap expansion-time tactical check, not
// a full solver), so the extra bookkeeping isn't worth it.
func (s *Shallow) Negamax(ctx context.Context, b *board.Board, depth int, alpha, beta float32) (float32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	toplay := b.Toplay()
	if o := b.Outcome(); o.Decided() {
		switch o {
		case board.OutcomeDraw:
			return 0, nil
		case board.ForPiece(toplay):
			return 2, nil
		default:
			return -2, nil
		}
	}
	if depth == 0 {
		return s.evaluate(b, toplay), nil
	}

	moves := b.LegalMoves(false)
	best := float32(-2)
	for _, m := range moves {
		if b.TestWin(m, toplay) {
			return 2, nil
		}
	}
	for _, m := range moves {
		child := b.Clone()
		if err := child.Play(m, toplay); err != nil {
			return 0, err
		}
		score, err := s.Negamax(ctx, child, depth-1, -beta, -alpha)
		if err != nil {
			return 0, err
		}
		score = -score
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	return best, nil
}

// evaluate scores a non-terminal leaf heuristically via the same
// knowledge priors expansion uses, normalised into a small fraction of
// the [-2, 2] range so it never masquerades as a proof.
func (s *Shallow) evaluate(b *board.Board, toplay board.Piece) float32 {
	var total int32
	for _, m := range b.LegalMoves(false) {
		total += knowledge.Prior(b, board.MoveNone, m, toplay, s.Weights)
	}
	n := b.MovesRemain()
	if n == 0 {
		return 0
	}
	avg := float32(total) / float32(n)
	score := avg / 1000
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}
