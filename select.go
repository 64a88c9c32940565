package havannah

import (
	"math"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/tree"
)

// ChildStat is one row of the per-child statistics snapshot spec §6's
// controller contract asks for.
type ChildStat struct {
	Move      board.Move
	ExpAvg    float32
	ExpVisits uint32
	RaveAvg   float32
	RaveVisits uint32
	Outcome   tree.Outcome
}

// selectionScore implements spec §4.6's final move selection: over
// unproven children, argmax of exp.avg() - msexplore*sqrt(ln(N.visits) /
// (child.visits+1)) (LCB-style, so a less-visited child with the same
// average is penalised rather than rewarded). msrave = -1 collapses the
// score to a raw simulation count, -2 to a raw win count; any other
// value blends rave into the average the same way candidateScore does,
// without the explore term (selection at the root happens once, after
// search stops, not while iterating).
func selectionScore(c *tree.Node, msexplore, msrave float32, parentVisits uint32) float32 {
	exp := c.Exp()
	if msrave == -1 {
		return float32(exp.Visits())
	}
	if msrave == -2 {
		return exp.Avg() * float32(exp.Visits())
	}

	avg := exp.Avg()
	if msrave != 0 {
		if rave := c.Rave(); rave.Visits() > 0 {
			alpha := msrave / (msrave + float32(exp.Visits()))
			avg = alpha*rave.Avg() + (1-alpha)*avg
		}
	}

	n := parentVisits
	if n < 1 {
		n = 1
	}
	explore := msexplore * float32(math.Sqrt(math.Log(float64(n))/float64(exp.Visits()+1)))
	return avg - explore
}

// selectBestChild picks the move the coordinator actually plays: a
// proven win for toplay always wins outright (tie-broken by fewest
// visits, i.e. the shortest forced win); failing that, while any child
// is unproven, the LCB-style selectionScore argmax over the unproven
// children decides; only when every child is a proven loss or draw is
// the longest-surviving one preferred (most visits, i.e. the longest
// loss or draw — the hardest one for the opponent to find).
func selectBestChild(t *tree.Tree, node tree.NodeID, toplay board.Piece, msexplore, msrave float32) tree.NodeID {
	kids := t.Children(node)
	if len(kids) == 0 {
		return tree.NilNode
	}

	var wins []tree.NodeID
	var decided []tree.NodeID
	var unproven []tree.NodeID
	for _, kid := range kids {
		o := t.Node(kid).Outcome()
		switch {
		case isWinOutcomeFor(o, toplay):
			wins = append(wins, kid)
		case o.Proven():
			decided = append(decided, kid)
		default:
			unproven = append(unproven, kid)
		}
	}

	if len(wins) > 0 {
		best := wins[0]
		for _, kid := range wins[1:] {
			if t.Node(kid).Exp().Visits() < t.Node(best).Exp().Visits() {
				best = kid
			}
		}
		return best
	}
	if len(unproven) == 0 && len(decided) > 0 {
		best := decided[0]
		for _, kid := range decided[1:] {
			if t.Node(kid).Exp().Visits() > t.Node(best).Exp().Visits() {
				best = kid
			}
		}
		return best
	}

	parentVisits := t.Node(node).Exp().Visits()
	candidates := unproven
	if len(candidates) == 0 {
		candidates = kids
	}
	best := candidates[0]
	bestScore := selectionScore(t.Node(best), msexplore, msrave, parentVisits)
	for _, kid := range candidates[1:] {
		s := selectionScore(t.Node(kid), msexplore, msrave, parentVisits)
		if s > bestScore {
			best, bestScore = kid, s
		}
	}
	return best
}

func isWinOutcomeFor(o tree.Outcome, p board.Piece) bool {
	if p == board.Player1 {
		return o == tree.OutcomeP1Win
	}
	return o == tree.OutcomeP2Win
}

// principalVariation walks selectBestChild from root, applying each
// chosen move to a scratch board clone, until a node has no published
// children left to choose from.
func principalVariation(t *tree.Tree, root tree.NodeID, rootBoard *board.Board, msexplore, msrave float32) []board.Move {
	var pv []board.Move
	b := rootBoard.Clone()
	node := root
	for {
		kids := t.Children(node)
		if len(kids) == 0 {
			return pv
		}
		toplay := b.Toplay()
		best := selectBestChild(t, node, toplay, msexplore, msrave)
		if best == tree.NilNode {
			return pv
		}
		move := t.Node(best).Move()
		pv = append(pv, move)
		if err := b.Play(move, toplay); err != nil {
			return pv
		}
		node = best
	}
}

// childStats snapshots every child of node for the controller contract.
func childStats(t *tree.Tree, node tree.NodeID) []ChildStat {
	kids := t.Children(node)
	stats := make([]ChildStat, len(kids))
	for i, kid := range kids {
		n := t.Node(kid)
		exp, rave := n.Exp(), n.Rave()
		stats[i] = ChildStat{
			Move:       n.Move(),
			ExpAvg:     exp.Avg(),
			ExpVisits:  exp.Visits(),
			RaveAvg:    rave.Avg(),
			RaveVisits: rave.Visits(),
			Outcome:    n.Outcome(),
		}
	}
	return stats
}
