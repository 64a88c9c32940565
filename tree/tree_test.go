package tree

import (
	"testing"

	"github.com/hexmind/havannah/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocFreelistReuse(t *testing.T) {
	tr := NewTree(1000)
	root := tr.New(board.MoveNone)
	kids := tr.Alloc([]board.Move{0, 1, 2})
	require.Len(t, kids, 3)
	assert.Equal(t, 4, tr.MemUsed())

	tr.Dealloc(kids[1:2])
	assert.Equal(t, 3, tr.MemUsed())

	again := tr.New(board.Move(5))
	assert.Equal(t, kids[1], again, "freed slot should be recycled before growing the arena")
	assert.Equal(t, board.Move(5), tr.Node(again).Move())
	_ = root
}

func TestExpansionLockSingleWriter(t *testing.T) {
	tr := NewTree(1000)
	id := tr.New(board.MoveNone)
	n := tr.Node(id)

	require.True(t, n.TryLockChildren())
	assert.False(t, n.TryLockChildren(), "a second writer must back off")
	n.UnlockChildren()
	assert.True(t, n.TryLockChildren(), "unlocking must allow a later writer through")
}

func TestCompactTrimsTrailingGarbage(t *testing.T) {
	tr := NewTree(1000)
	ids := tr.Alloc([]board.Move{0, 1, 2, 3})
	tr.Dealloc(ids[2:]) // free the tail

	tr.Compact()
	assert.Equal(t, 2, tr.MemUsed())

	// A node in the middle being live blocks trimming past it.
	mid := tr.Alloc([]board.Move{9})
	tr.Dealloc(ids[:1])
	tr.Compact()
	assert.GreaterOrEqual(t, tr.MemUsed(), 1)
	_ = mid
}

func TestOutcomeCombineUnionsPossibilities(t *testing.T) {
	assert.Equal(t, OutcomeDraw, combine([]Outcome{OutcomeDraw}))
	assert.Equal(t, OutcomeP1WinOrDraw, combine([]Outcome{OutcomeDraw, OutcomeP1Win}))
	assert.Equal(t, OutcomeP2WinOrDraw, combine([]Outcome{OutcomeP2Win, OutcomeDraw, OutcomeP2WinOrDraw}))
	assert.Equal(t, OutcomeP2Win, combine([]Outcome{OutcomeP2Win, OutcomeP2Win}))
}

func TestBackupShortCircuitsOnWinForToplay(t *testing.T) {
	tr := NewTree(1000)
	parent := tr.New(board.MoveNone)
	kids := tr.Alloc([]board.Move{0, 1})
	tr.PublishChildren(parent, kids)

	tr.Node(kids[0]).SetProven(OutcomeP1Win, 0, board.Move(0))
	require.True(t, Backup(tr, parent, kids[0], board.Player1))
	assert.Equal(t, OutcomeP1Win, tr.Node(parent).Outcome())
	assert.Equal(t, board.Move(0), tr.Node(parent).Bestmove())
}

func TestBackupWaitsOnUnknownSibling(t *testing.T) {
	tr := NewTree(1000)
	parent := tr.New(board.MoveNone)
	kids := tr.Alloc([]board.Move{0, 1})
	tr.PublishChildren(parent, kids)

	tr.Node(kids[0]).SetProven(OutcomeP2Win, 0, board.Move(0))
	ok := Backup(tr, parent, kids[0], board.Player1)
	assert.False(t, ok, "sibling kids[1] is still unknown")
	assert.Equal(t, OutcomeUnknown, tr.Node(parent).Outcome())
}

func TestBackupCombinesAllDecidedChildren(t *testing.T) {
	tr := NewTree(1000)
	parent := tr.New(board.MoveNone)
	kids := tr.Alloc([]board.Move{0, 1})
	tr.PublishChildren(parent, kids)

	tr.Node(kids[0]).SetProven(OutcomeP2Win, 0, board.Move(0))
	tr.Node(kids[1]).SetProven(OutcomeDraw, 0, board.Move(1))

	require.True(t, Backup(tr, parent, kids[1], board.Player1))
	assert.Equal(t, OutcomeP2WinOrDraw, tr.Node(parent).Outcome())
}

func TestBackupAlreadyProvenIsIdempotent(t *testing.T) {
	tr := NewTree(1000)
	parent := tr.New(board.MoveNone)
	kids := tr.Alloc([]board.Move{0, 1})
	tr.PublishChildren(parent, kids)

	tr.Node(parent).SetProven(OutcomeDraw, 3, board.Move(1))
	tr.Node(kids[0]).SetProven(OutcomeP1Win, 0, board.Move(0))

	require.True(t, Backup(tr, parent, kids[0], board.Player1))
	assert.Equal(t, OutcomeDraw, tr.Node(parent).Outcome(), "a settled parent is never overwritten")
}
