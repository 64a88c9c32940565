package tree

import "github.com/hexmind/havannah/board"

// Outcome is the six-valued proof lattice attached to every node: besides
// the fully unknown state and the three fully-decided results, two
// ambiguous values let backup express "ruled out a loss for one side but
// not yet a draw-or-win split" without blocking on a full sub-tree proof.
type Outcome int8

const (
	OutcomeUnknown Outcome = iota
	OutcomeP1Win
	OutcomeP2Win
	OutcomeDraw
	OutcomeP1WinOrDraw // P1 win or draw: P2 cannot win from here
	OutcomeP2WinOrDraw // P2 win or draw: P1 cannot win from here
)

func (o Outcome) String() string {
	switch o {
	case OutcomeP1Win:
		return "P1Win"
	case OutcomeP2Win:
		return "P2Win"
	case OutcomeDraw:
		return "Draw"
	case OutcomeP1WinOrDraw:
		return "P1WinOrDraw"
	case OutcomeP2WinOrDraw:
		return "P2WinOrDraw"
	}
	return "Unknown"
}

// Decided reports whether o rules out anything: every value but Unknown
// carries some information, but only the three singleton values fully
// settle the game.
func (o Outcome) Decided() bool { return o != OutcomeUnknown }

// Proven reports whether o is one of the three fully-settled outcomes.
func (o Outcome) Proven() bool {
	return o == OutcomeP1Win || o == OutcomeP2Win || o == OutcomeDraw
}

// FromBoard converts a board-level (three-valued-plus-unknown) outcome
// into the tree's lattice; board outcomes never carry the ambiguous
// win-or-draw values, so the conversion is a direct embedding.
func FromBoard(bo board.Outcome) Outcome {
	switch bo {
	case board.OutcomeP1:
		return OutcomeP1Win
	case board.OutcomeP2:
		return OutcomeP2Win
	case board.OutcomeDraw:
		return OutcomeDraw
	}
	return OutcomeUnknown
}

// possibility set bits, used internally to OR partial outcomes together.
const (
	bitP1 = 1 << iota
	bitDraw
	bitP2
)

func (o Outcome) mask() uint8 {
	switch o {
	case OutcomeP1Win:
		return bitP1
	case OutcomeP2Win:
		return bitP2
	case OutcomeDraw:
		return bitDraw
	case OutcomeP1WinOrDraw:
		return bitP1 | bitDraw
	case OutcomeP2WinOrDraw:
		return bitDraw | bitP2
	}
	return bitP1 | bitDraw | bitP2 // Unknown: nothing ruled out
}

func fromMask(m uint8) Outcome {
	switch m {
	case bitP1:
		return OutcomeP1Win
	case bitP2:
		return OutcomeP2Win
	case bitDraw:
		return OutcomeDraw
	case bitP1 | bitDraw:
		return OutcomeP1WinOrDraw
	case bitDraw | bitP2:
		return OutcomeP2WinOrDraw
	}
	return OutcomeUnknown // full set, or the unreachable P1|P2 pair
}

// winFor returns the Outcome meaning "won by p".
func winFor(p board.Piece) Outcome {
	if p == board.Player1 {
		return OutcomeP1Win
	}
	return OutcomeP2Win
}

// isWinFor reports whether o is a proven win for p.
func (o Outcome) isWinFor(p board.Piece) bool { return o == winFor(p) }

// combine implements do_backup's "tightest possible label" step: given
// the outcomes of every child of a node whose side to move is toplay, and
// assuming none is a decided win for toplay (the caller short-circuits
// that case separately), it unions their possibility sets.
func combine(children []Outcome) Outcome {
	var m uint8
	for _, c := range children {
		m |= c.mask()
	}
	return fromMask(m)
}
