package tree

import "github.com/pkg/errors"

// ErrOutOfMemory names the arena-exhausted-after-garbage-collection
// condition. No code in this module returns it. The tree package never
// fails an allocation (the freelist or a slice append always succeeds),
// and the coordinator, which watches Tree.OverBudget, answers an arena
// still over budget after a garbage-collection pass with another pass
// rather than with an error.
var ErrOutOfMemory = errors.New("tree: arena exhausted after garbage collection")
