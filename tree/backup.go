package tree

import "github.com/hexmind/havannah/board"

// Backup implements do_backup (spec §4.4): fold child's proven/partial
// outcome into parent, which is the node toplay was choosing from. It
// returns true once parent carries a decided-or-partial outcome,
// matching the C++ original's "keep retrying from the top on CAS
// failure" contract, except here the retry is internal to the call
// since Node.CAS already serializes on the node's own mutex.
func Backup(t *Tree, parent, child NodeID, toplay board.Piece) bool {
	pnode := t.Node(parent)
	for {
		before := pnode.Outcome()
		if before.Proven() {
			return true // already settled, possibly by another worker
		}

		cnode := t.Node(child)
		co := cnode.Outcome()
		if co == OutcomeUnknown {
			return false // this child contributes nothing yet
		}

		if co.isWinFor(toplay) {
			// Prefer the shortest proven win among every winning child, not
			// just the one that triggered this backup (spec §4.4 step 3):
			// fewest visits, since a forced win found with less search is
			// the more direct one.
			best := cnode
			for _, kid := range t.Children(parent) {
				if kid == child {
					continue
				}
				k := t.Node(kid)
				if k.Outcome().isWinFor(toplay) && k.Exp().Visits() < best.Exp().Visits() {
					best = k
				}
			}
			if pnode.CAS(before, winFor(toplay), best.Proofdepth()+1, best.Move()) {
				return true
			}
			continue
		}

		kids := t.Children(parent)
		outcomes := make([]Outcome, 0, len(kids))
		var proofdepth uint8
		var bestKid NodeID = NilNode
		sawUnknown := false

		for _, kid := range kids {
			k := t.Node(kid)
			ko := k.Outcome()
			if ko == OutcomeUnknown {
				sawUnknown = true
				continue
			}
			outcomes = append(outcomes, ko)
			if d := k.Proofdepth() + 1; d > proofdepth {
				proofdepth = d
			}
			// Prefer the longest-surviving child among the remaining
			// partial outcomes ("long loss"/"long draw"): most visits.
			if bestKid == NilNode || k.Exp().Visits() > t.Node(bestKid).Exp().Visits() {
				bestKid = kid
			}
		}

		if sawUnknown {
			return false
		}
		if len(outcomes) == 0 {
			return false
		}

		combined := combine(outcomes)
		bestmove := board.MoveNone
		if bestKid != NilNode {
			bestmove = t.Node(bestKid).Move()
		}
		if pnode.CAS(before, combined, proofdepth, bestmove) {
			return true
		}
	}
}
