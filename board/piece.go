package board

// Piece identifies the occupant of a cell.
type Piece int8

// The three piece values a cell can hold.
const (
	Empty Piece = iota
	Player1
	Player2
)

// Opponent returns the other player. Calling it on Empty is a bug at the
// call site, not a recoverable condition, so it is left undefined there.
func (p Piece) Opponent() Piece {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p Piece) String() string {
	switch p {
	case Empty:
		return "empty"
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	}
	return "?"
}

// Outcome is the concrete, monotone result of a Board.
type Outcome int8

const (
	OutcomeUnknown Outcome = iota
	OutcomeDraw
	OutcomeP1
	OutcomeP2
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnknown:
		return "unknown"
	case OutcomeDraw:
		return "draw"
	case OutcomeP1:
		return "P1"
	case OutcomeP2:
		return "P2"
	}
	return "?"
}

// Decided reports whether the game is over.
func (o Outcome) Decided() bool { return o != OutcomeUnknown }

// ForPiece converts a winning piece into its Outcome value.
func ForPiece(p Piece) Outcome {
	if p == Player1 {
		return OutcomeP1
	}
	return OutcomeP2
}
