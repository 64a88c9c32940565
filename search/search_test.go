package search

import (
	"math/rand"
	"testing"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/rollout"
	"github.com/hexmind/havannah/solver"
	"github.com/hexmind/havannah/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorker(t *testing.T, seed int64) (*Worker, *board.Board) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	tr := tree.NewTree(10000)
	tr.SetRoot(tr.New(board.MoveNone))

	cfg := DefaultConfig()
	roll := rollout.NewEngine(rollout.Config{}, 3, rand.New(rand.NewSource(seed+1)))
	w := NewWorker(tr, cfg, rand.New(rand.NewSource(seed)), roll, solver.None)
	return w, b
}

func TestRunIterationExpandsRootAfterEnoughVisits(t *testing.T) {
	w, b := newWorker(t, 1)
	w.Cfg.VisitExpand = 2

	for i := 0; i < 5; i++ {
		_, err := w.RunIteration(b)
		require.NoError(t, err)
	}

	root := w.Tree.Root()
	assert.GreaterOrEqual(t, w.Tree.Node(root).Exp().Visits(), uint32(5))
	assert.NotEmpty(t, w.Tree.Children(root))
}

func TestRunIterationAccumulatesStatsOverManyIterations(t *testing.T) {
	w, b := newWorker(t, 2)
	w.Cfg.VisitExpand = 1

	for i := 0; i < 400; i++ {
		_, err := w.RunIteration(b)
		require.NoError(t, err)
	}

	root := w.Tree.Node(w.Tree.Root())
	assert.GreaterOrEqual(t, root.Exp().Visits(), uint32(400))
	// Whether or not the root resolves within this many iterations, a
	// proven outcome (when it happens) must always be a decided value.
	if o := root.Outcome(); o.Proven() {
		assert.True(t, o == tree.OutcomeP1Win || o == tree.OutcomeP2Win || o == tree.OutcomeDraw)
	}
}

func TestRunIterationNoPanicOnRepeatedCalls(t *testing.T) {
	w, b := newWorker(t, 3)
	for i := 0; i < 20; i++ {
		_, err := w.RunIteration(b)
		require.NoError(t, err)
	}
}

func TestCandidateScoreUnvisitedReturnsFpurgency(t *testing.T) {
	tr := tree.NewTree(100)
	id := tr.New(board.MoveNone)
	cfg := DefaultConfig()
	cfg.Fpurgency = 7.5

	got := candidateScore(tr.Node(id), 10, board.Player1, cfg, true, true)
	assert.Equal(t, float32(7.5), got)
}

func TestWidenLimitGrowsWithVisits(t *testing.T) {
	assert.Equal(t, -1, widenLimit(0, 100))
	small := widenLimit(2, 2)
	big := widenLimit(2, 64)
	assert.Greater(t, big, small)
}
