// Package rollout implements the single-threaded stochastic game
// finisher a search worker calls once it reaches a leaf: play legal
// moves (optionally gamma-weighted) until the board decides, short
// -circuited by a handful of cheap tactical checks.
package rollout

import (
	"math"
	"math/rand"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/movelist"
)

// Config is the flat set of rollout-tuning knobs from the configuration
// table (weighted_random, instantwin, instwin_depth, check_rings,
// check_ring_depth, min_ring_size, ring_incr, ring_perm, rollout_pattern,
// last_good_reply).
type Config struct {
	WeightedRandom bool
	Gammas         [1 << 12]float32 // indexed by board.Pattern's 12-bit key

	InstantWin   int // 0 off, 1 win-only, 2 +forced block, 3/4 +contour scan
	InstWinDepth int // negative scales by -1*board size

	CheckRings     float64 // probability this rollout checks rings at all
	CheckRingDepth float64 // plies to keep checking; negative = fraction of moves remaining
	MinRingSize    int
	RingIncr       float64 // grows MinRingSize every this-many plies; negative = fraction
	RingPerm       bool    // skip the "fully enclosed" check for speed

	RolloutPattern bool
	LastGoodReply  int // 0 off, 1 set-on-win, 2 also clear-on-loss
}

// Engine runs rollouts for one worker. The last-good-reply table and the
// pattern-scan rotation offset persist across rollouts (that's the point
// of the table); everything else is rebuilt per call.
type Engine struct {
	cfg  Config
	rnd  *rand.Rand
	size int

	goodReply     [2][]board.Move
	patternOffset int
}

// NewEngine builds a rollout engine for boards of the given side length.
func NewEngine(cfg Config, boardSize int, rnd *rand.Rand) *Engine {
	if _, err := board.NewBoard(boardSize); err != nil {
		panic(err) // programmer error: invalid size reaching this layer
	}
	sizeD := 2*boardSize - 1
	vecsize := sizeD * sizeD // flattened (x,y) index space a board.Move ranges over, not NumCells
	e := &Engine{cfg: cfg, rnd: rnd, size: boardSize}
	e.goodReply[0] = make([]board.Move, vecsize)
	e.goodReply[1] = make([]board.Move, vecsize)
	for i := range e.goodReply[0] {
		e.goodReply[0][i] = board.MoveNone
		e.goodReply[1][i] = board.MoveNone
	}
	return e
}

// Run plays out b (mutating it in place) from prevMove until decided,
// recording every rollout move into ml, and returns the final outcome.
func (e *Engine) Run(b *board.Board, prevMove board.Move, ml *movelist.MoveList) board.Outcome {
	legal := b.LegalMoves(false)
	num := len(legal)

	var wtree [2]*fenwick
	var index map[board.Move]int
	if e.cfg.WeightedRandom {
		wtree[0] = newFenwick(num)
		wtree[1] = newFenwick(num)
		index = make(map[board.Move]int, num)
		for i, m := range legal {
			index[m] = i
			p := b.Pattern(m)
			wtree[0].SetWeight(i, e.cfg.Gammas[p])
			wtree[1].SetWeight(i, e.cfg.Gammas[board.PatternInvert(p)])
		}
	} else {
		e.rnd.Shuffle(num, func(i, j int) { legal[i], legal[j] = legal[j], legal[i] })
	}
	nextRandom := 0

	doInstWin := e.cfg.InstWinDepth
	if doInstWin < 0 {
		doInstWin = -doInstWin * e.size
	}

	checkRings := e.rnd.Float64() < e.cfg.CheckRings
	checkDepth := int(e.cfg.CheckRingDepth)
	if e.cfg.CheckRingDepth < 0 {
		checkDepth = int(math.Ceil(float64(num) * -e.cfg.CheckRingDepth))
	}

	minRingSize := e.cfg.MinRingSize
	ringCounterFull := int(e.cfg.RingIncr)
	if e.cfg.RingIncr < 0 {
		ringCounterFull = int(math.Ceil(float64(num) * -e.cfg.RingIncr))
	}
	ringCounter := ringCounterFull

	depth := 0
	move := prevMove
	var forced board.Move = board.MoveNone

	for b.Outcome() == board.OutcomeUnknown {
		turn := b.Toplay()

		if forced.IsCell() {
			move = forced
			forced = board.MoveNone
		} else {
			mv, decided, winner := e.chooseMove(b, move, &doInstWin, checkRings)
			if decided {
				return board.ForPiece(winner)
			}
			if mv.IsCell() {
				move = mv
			} else {
				move = e.sampleMove(b, legal, &nextRandom, wtree, index, turn)
			}
		}

		ml.AddRollout(move, turn)
		minring := b.NumCells() + 1 // longer than any ring: rings go unrecognised
		if checkRings {
			minring = minRingSize
		}
		if err := b.PlayFiltered(move, turn, minring, e.cfg.RingPerm); err != nil {
			panic(err) // a sampled/chosen move must always be legal
		}

		if ringCounterFull > 0 {
			ringCounter--
			if ringCounter == 0 {
				minRingSize++
				ringCounter = ringCounterFull
			}
		}
		depth++
		if depth >= checkDepth {
			checkRings = false
		}

		if e.cfg.WeightedRandom {
			e.refreshWeights(b, move, wtree, index)
		}
	}

	outcome := b.Outcome()
	if e.cfg.LastGoodReply > 0 && outcome.Decided() && outcome != board.OutcomeDraw {
		e.updateGoodReply(ml, outcome)
	}
	return outcome
}

// sampleMove draws the next move when no tactical shortcut or forced
// reply applied: weighted by gamma if configured, else the next entry in
// the pre-shuffled list. Illegal draws (already played by a shortcut
// taken earlier this rollout) are skipped.
func (e *Engine) sampleMove(b *board.Board, legal []board.Move, nextRandom *int, wtree [2]*fenwick, index map[board.Move]int, turn board.Piece) board.Move {
	if wtree[0] != nil {
		for {
			j := wtree[turn-1].Choose(e.rnd.Float32() * wtree[turn-1].Total())
			if j < 0 {
				break // both trees exhausted: fall back to scanning
			}
			m := legal[j]
			wtree[0].SetWeight(j, 0)
			wtree[1].SetWeight(j, 0)
			if b.Valid(m) {
				return m
			}
		}
	}
	for *nextRandom < len(legal) {
		m := legal[*nextRandom]
		*nextRandom++
		if b.Valid(m) {
			return m
		}
	}
	panic("rollout: ran out of legal moves before the board decided")
}

func (e *Engine) refreshWeights(b *board.Board, justPlayed board.Move, wtree [2]*fenwick, index map[board.Move]int) {
	for d := 0; d < board.NumDirections; d++ {
		n, ok := b.Neighbour(justPlayed, d)
		if !ok || b.Get(n) != board.Empty {
			continue
		}
		i, ok := index[n]
		if !ok {
			continue
		}
		p := b.Pattern(n)
		wtree[0].SetWeight(i, e.cfg.Gammas[p])
		wtree[1].SetWeight(i, e.cfg.Gammas[board.PatternInvert(p)])
	}
}

func (e *Engine) nextPatternOffset() int {
	e.patternOffset = (e.patternOffset + 1) % board.NumDirections
	return e.patternOffset
}

// updateGoodReply records, for every consecutive (prev, cur) pair in the
// finished rollout, cur as the good reply to prev when cur's player is
// the winner (and clears that slot on a loss, if configured to).
func (e *Engine) updateGoodReply(ml *movelist.MoveList, outcome board.Outcome) {
	winner := board.Player1
	if outcome == board.OutcomeP2 {
		winner = board.Player2
	}
	for i := 1; i < ml.Len(); i++ {
		prev := ml.At(i - 1)
		cur := ml.At(i)
		slot := int(prev.Move)
		if slot < 0 || slot >= len(e.goodReply[cur.Player-1]) {
			continue
		}
		if cur.Player == winner {
			e.goodReply[cur.Player-1][slot] = cur.Move
		} else if e.cfg.LastGoodReply == 2 {
			e.goodReply[cur.Player-1][slot] = board.MoveNone
		}
	}
}
