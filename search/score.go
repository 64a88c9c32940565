package search

import (
	"math"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/tree"
)

// terminalScore converts a just-decided board outcome into a score from
// the perspective of the side now due to move (who, by construction,
// just lost or drew — the move that decided the game was played by
// their opponent).
func terminalScore(o board.Outcome) float32 {
	if o == board.OutcomeDraw {
		return 0.5
	}
	return 0
}

// proofScore converts a node's proof-lattice outcome into a score from
// toplay's perspective. Unlike terminalScore, a tree-level proof can
// assert that toplay themselves is winning, since proofs propagate
// upward rather than firing only at the instant a move decides the
// game.
func proofScore(o tree.Outcome, toplay board.Piece) float32 {
	switch o {
	case tree.OutcomeDraw:
		return 0.5
	case tree.OutcomeP1WinOrDraw:
		if toplay == board.Player1 {
			return 0.75
		}
		return 0.25
	case tree.OutcomeP2WinOrDraw:
		if toplay == board.Player2 {
			return 0.75
		}
		return 0.25
	}
	if (toplay == board.Player1 && o == tree.OutcomeP1Win) || (toplay == board.Player2 && o == tree.OutcomeP2Win) {
		return 1
	}
	if o.Proven() {
		return 0
	}
	return 0.5
}

// isWinForPiece reports whether a node's proof is a settled win for p.
func isWinForPiece(o tree.Outcome, p board.Piece) bool {
	if p == board.Player1 {
		return o == tree.OutcomeP1Win
	}
	return o == tree.OutcomeP2Win
}

// candidateScore is the UCT+RAVE blend from spec §4.3:
//
//	value(C)  = alpha*rave_avg(C) + (1-alpha)*exp_avg(C) + knowledgeScale*C.know/sqrt(C.visits+1)
//	alpha     = raveFactor / (raveFactor + C.visits)
//	score(C)  = value(C) + explore*sqrt(ln(parentVisits) / (C.visits+1))
//
// An unvisited child (decided or not) always returns fpurgency, the
// "first-play urgency" constant, so every child gets sampled at least
// once before UCT statistics start to matter. Decided non-win children
// use proofScore in place of exp_avg/rave_avg, so a proven draw or loss
// naturally scores below a promising unknown child without needing a
// separate tie-break pass.
func candidateScore(c *tree.Node, parentVisits uint32, toplay board.Piece, cfg Config, useRave, useExplore bool) float32 {
	exp := c.Exp()
	if exp.Visits() == 0 {
		return cfg.Fpurgency
	}

	var avg float32
	if o := c.Outcome(); o.Decided() {
		avg = proofScore(o, toplay)
	} else {
		avg = exp.Avg()
		if useRave {
			rave := c.Rave()
			if rave.Visits() > 0 {
				alpha := cfg.RaveFactor / (cfg.RaveFactor + float32(exp.Visits()))
				avg = alpha*rave.Avg() + (1-alpha)*avg
			}
		}
	}

	value := avg + cfg.KnowledgeScale*float32(c.Know())/float32(math.Sqrt(float64(exp.Visits())+1))

	if !useExplore {
		return value
	}
	n := parentVisits
	if n < 1 {
		n = 1
	}
	explore := cfg.Explore * float32(math.Sqrt(math.Log(float64(n))/float64(exp.Visits()+1)))
	return value + explore
}

// widenLimit implements progressive widening: the number of children a
// selection step will consider is capped at
// floor(ln(visits)/ln(dynwiden)) + 2, letting the tree start narrow and
// broaden as a node accumulates visits. dynwiden <= 1 disables the cap,
// and so does a parent with fewer than 2 visits (every child is then
// considered).
func widenLimit(dynwiden float64, parentVisits uint32) int {
	if dynwiden <= 1 || parentVisits < 2 {
		return -1
	}
	return int(math.Log(float64(parentVisits))/math.Log(dynwiden)) + 2
}
