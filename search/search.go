package search

import (
	"context"
	"math/rand"
	"sort"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/knowledge"
	"github.com/hexmind/havannah/movelist"
	"github.com/hexmind/havannah/rollout"
	"github.com/hexmind/havannah/solver"
	"github.com/hexmind/havannah/tree"
)

// Worker bundles one goroutine's private scratch state: its own board
// clone target, move list and rollout engine are never shared, so an
// iteration never takes a lock outside of the tree/arena itself.
type Worker struct {
	Tree    *tree.Tree
	Cfg     Config
	Rand    *rand.Rand
	Rollout *rollout.Engine
	Solver  solver.Solver // solver.None if unconfigured
	ML      *movelist.MoveList
}

// NewWorker wires a worker's scratch state. slv may be solver.None.
func NewWorker(t *tree.Tree, cfg Config, rng *rand.Rand, roll *rollout.Engine, slv solver.Solver) *Worker {
	if slv == nil {
		slv = solver.None
	}
	return &Worker{Tree: t, Cfg: cfg, Rand: rng, Rollout: roll, Solver: slv, ML: movelist.New()}
}

// RunIteration performs one full MCTS iteration (spec §4.3) from the
// tree's current root against a private clone of rootBoard, and returns
// the root's own score (unused by callers other than tests — the real
// effect is the stats now recorded into the tree).
func (w *Worker) RunIteration(rootBoard *board.Board) (float32, error) {
	w.ML.Reset()
	b := rootBoard.Clone()
	useRave := w.Rand.Float64() < w.Cfg.PRave
	useExplore := w.Rand.Float64() < w.Cfg.PExplore
	root := w.Tree.Root()
	result, err := w.iterate(b, root, useRave, useExplore)
	if err != nil {
		return 0, err
	}
	// The root has no parent to credit it the way descend() credits
	// every other node, so RunIteration does that bookkeeping itself:
	// this is what gives root.Exp().Visits() a meaningful count for
	// its own children's UCT explore term.
	w.Tree.Node(root).AddExp(result)
	return result, nil
}

// iterate descends, expands, rolls out and backs up exactly one node,
// returning its score from the perspective of the player to move at b.
func (w *Worker) iterate(b *board.Board, node tree.NodeID, useRave, useExplore bool) (float32, error) {
	// Node() pointers are only valid until the next arena growth, and
	// recursing into children below may trigger Tree.Alloc deep inside
	// this same call — so node is never fetched once and held across a
	// recursive call; every use below re-fetches by id.
	w.Tree.Node(node).AddVirtualLoss()
	defer func() { w.Tree.Node(node).SubVirtualLoss() }()

	if b.Outcome().Decided() {
		return terminalScore(b.Outcome()), nil
	}
	if o := w.Tree.Node(node).Outcome(); o.Proven() {
		return proofScore(o, b.Toplay()), nil
	}

	kids := w.Tree.Children(node)
	if len(kids) == 0 {
		if w.Tree.Node(node).Exp().Visits() >= w.Cfg.VisitExpand && !w.Tree.OverBudget() && w.Tree.Node(node).TryLockChildren() {
			expanded, err := w.expand(b, node)
			w.Tree.Node(node).UnlockChildren()
			if err != nil {
				return 0, err
			}
			if expanded {
				kids = w.Tree.Children(node)
			}
		}
		if len(kids) == 0 {
			// Either a genuine leaf (lock contention, below visit_expand,
			// or over budget) or expansion proved the node outright.
			if o := w.Tree.Node(node).Outcome(); o.Proven() {
				return proofScore(o, b.Toplay()), nil
			}
			prevMove, _ := b.LastMove()
			toplay := b.Toplay()
			outcome := w.Rollout.Run(b, prevMove, w.ML)
			return proofScore(tree.FromBoard(outcome), toplay), nil
		}
	}

	toplay := b.Toplay()
	child, winner := w.selectChild(node, kids, toplay, useRave, useExplore)
	if winner {
		// A child is a proven win for toplay: take it without further
		// sampling, then let the recursive call's own proof short-circuit
		// do the backup bookkeeping.
		return w.descend(b, node, child, toplay, useRave, useExplore)
	}
	if child == tree.NilNode {
		// No unknown child remains and none is a win: every child is
		// decided. Fold them into this node's own outcome and return it.
		tree.Backup(w.Tree, node, kids[0], toplay)
		return proofScore(w.Tree.Node(node).Outcome(), toplay), nil
	}
	return w.descend(b, node, child, toplay, useRave, useExplore)
}

// descend plays child's move on b, recurses, then records the result
// into child's exp/rave stats and runs proof back-propagation.
func (w *Worker) descend(b *board.Board, parent tree.NodeID, child tree.NodeID, toplay board.Piece, useRave, useExplore bool) (float32, error) {
	move := w.Tree.Node(child).Move()
	startIdx := w.ML.Len()
	w.ML.AddTree(move, toplay)
	if err := b.Play(move, toplay); err != nil {
		return 0, err
	}

	childResult, err := w.iterate(b, child, useRave, useExplore)
	if err != nil {
		return 0, err
	}
	score := 1 - childResult
	w.Tree.Node(child).AddExp(score)

	for _, kid := range w.Tree.Children(parent) {
		k := w.Tree.Node(kid)
		if w.ML.ContainsFrom(startIdx, k.Move(), toplay, w.Cfg.OpMoves) {
			k.AddRave(score)
		}
	}

	tree.Backup(w.Tree, parent, child, toplay)
	return score, nil
}

// selectChild implements §4.3's selection rule: a proven win for toplay
// is taken immediately (winner=true); otherwise the best unknown child
// is chosen by UCT+RAVE, restricted to progressive widening's cap; if
// no unknown child remains, child is tree.NilNode and the caller folds
// the node's outcome from its now fully-decided children.
func (w *Worker) selectChild(node tree.NodeID, kids []tree.NodeID, toplay board.Piece, useRave, useExplore bool) (tree.NodeID, bool) {
	for _, kid := range kids {
		if isWinForPiece(w.Tree.Node(kid).Outcome(), toplay) {
			return kid, true
		}
	}

	anyUnknown := false
	for _, kid := range kids {
		if w.Tree.Node(kid).Outcome() == tree.OutcomeUnknown {
			anyUnknown = true
			break
		}
	}
	if !anyUnknown {
		return tree.NilNode, false
	}

	candidates := kids
	if limit := widenLimit(w.Cfg.DynWiden, w.Tree.Node(node).Exp().Visits()); limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	parentVisits := w.Tree.Node(node).Exp().Visits()
	best := tree.NilNode
	var bestScore float32
	for _, kid := range candidates {
		s := candidateScore(w.Tree.Node(kid), parentVisits, toplay, w.Cfg, useRave, useExplore)
		if best == tree.NilNode || s > bestScore {
			best, bestScore = kid, s
		}
	}
	return best, false
}

// expand creates one child per legal move, seeds their knowledge
// priors, and applies macro-move expansion (§4.3): an immediate win
// proves the node outright; a single immediate loss collapses the
// children to that one forced reply; two or more immediate losses
// prove the node lost. Returns whether children remain published (a
// proven node discards its children and returns false).
func (w *Worker) expand(b *board.Board, node tree.NodeID) (bool, error) {
	n := w.Tree.Node(node)
	toplay := b.Toplay()
	moves := b.LegalMoves(w.Cfg.PruneSymmetry && b.NumMoves() == 0)
	if len(moves) == 0 {
		return false, nil
	}

	prevMove, _ := b.LastMove()
	priors := make([]int32, len(moves))
	for i, m := range moves {
		priors[i] = knowledge.Prior(b, prevMove, m, toplay, w.Cfg.Knowledge)
	}
	order := make([]int, len(moves))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return priors[order[i]] > priors[order[j]] })
	sortedMoves := make([]board.Move, len(moves))
	sortedPriors := make([]int32, len(moves))
	for i, idx := range order {
		sortedMoves[i] = moves[idx]
		sortedPriors[i] = priors[idx]
	}

	var winMove board.Move = board.MoveNone
	lossMove := board.MoveNone
	losses := 0
	for _, m := range sortedMoves {
		if b.TestWin(m, toplay) {
			winMove = m
			break
		}
	}
	if !winMove.IsCell() {
		for _, m := range sortedMoves {
			if b.TestWin(m, toplay.Opponent()) {
				lossMove = m
				losses++
				if losses >= 2 {
					break
				}
			} else if w.Cfg.Minimax >= 2 {
				if lost, err := w.probeLoss(b, m, toplay); err == nil && lost {
					lossMove = m
					losses++
					if losses >= 2 {
						break
					}
				}
			}
		}
	}

	if winMove.IsCell() {
		n.SetProven(tree.FromBoard(board.ForPiece(toplay)), 0, winMove)
		return false, nil
	}
	if losses >= 2 {
		n.SetProven(tree.FromBoard(board.ForPiece(toplay.Opponent())), 0, lossMove)
		return false, nil
	}

	ids := w.Tree.Alloc(sortedMoves)
	for i, id := range ids {
		w.Tree.Node(id).AddKnow(sortedPriors[i])
	}

	if losses == 1 {
		forced := tree.NilNode
		for i, m := range sortedMoves {
			if m == lossMove {
				forced = ids[i]
				break
			}
		}
		for _, id := range ids {
			if id != forced {
				w.Tree.Dealloc([]tree.NodeID{id})
			}
		}
		for i := uint32(0); i < w.Cfg.VisitExpand; i++ {
			w.Tree.Node(forced).AddExp(1)
		}
		w.Tree.PublishChildren(node, []tree.NodeID{forced})
		return true, nil
	}

	w.Tree.PublishChildren(node, ids)
	if node == w.Tree.Root() {
		MixRootNoise(w.Tree, node, w.Cfg.RootNoiseWeight)
	}
	return true, nil
}

// probeLoss consults the configured solver's shallow negamax when
// Config.Minimax >= 2, treating a strongly negative score for m's
// resulting position (from the mover's own perspective) as a proven
// loss signal that board.TestWin alone wouldn't have caught.
func (w *Worker) probeLoss(b *board.Board, m board.Move, toplay board.Piece) (bool, error) {
	child := b.Clone()
	if err := child.Play(m, toplay); err != nil {
		return false, err
	}
	score, err := w.Solver.Negamax(context.Background(), child, w.Cfg.Minimax-1, -2, 2)
	if err != nil {
		return false, err
	}
	return score <= -1.9, nil
}
