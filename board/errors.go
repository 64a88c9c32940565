package board

import "github.com/pkg/errors"

// Sentinel error kinds surfaced to callers, per the engine's error policy:
// apart from RenderPNG's font and image-encoding errors, only out-of-range
// construction and illegal moves are ever returned from this package;
// everything else (union-find races, ring-walk depth) is resolved
// internally.
var (
	// ErrInvalidArgument is returned by NewBoard for an out-of-range size
	// or other malformed construction argument.
	ErrInvalidArgument = errors.New("board: invalid argument")

	// ErrInvalidMove is returned by Play when the move is off-board,
	// occupied, or the game is already decided.
	ErrInvalidMove = errors.New("board: invalid move")
)

// invalidArgument wraps ErrInvalidArgument with context.
func invalidArgument(msg string) error {
	return errors.Wrap(ErrInvalidArgument, msg)
}

// invalidMove wraps ErrInvalidMove with context.
func invalidMove(msg string) error {
	return errors.Wrap(ErrInvalidMove, msg)
}
