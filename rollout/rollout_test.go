package rollout

import (
	"math/rand"
	"testing"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/movelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunToCompletionOnSmallBoard(t *testing.T) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	e := NewEngine(Config{}, 3, rand.New(rand.NewSource(1)))
	ml := movelist.New()
	outcome := e.Run(b, board.MoveNone, ml)

	assert.True(t, outcome.Decided())
	assert.Equal(t, b.Outcome(), outcome)
	// Run stops on the deciding move: a draw only once every cell is
	// filled, a win on the winner's own stone.
	if outcome == board.OutcomeDraw {
		assert.Equal(t, b.NumCells(), b.NumMoves())
	} else {
		_, last := b.LastMove()
		assert.Equal(t, board.ForPiece(last), outcome)
	}
}

func TestRunWithInstantWinConfigCompletes(t *testing.T) {
	b, err := board.NewBoard(4)
	require.NoError(t, err)
	corners := b.Corners()
	require.NoError(t, b.Play(corners[0], board.Player1))

	cfg := Config{InstantWin: 3, InstWinDepth: 50}
	e := NewEngine(cfg, 4, rand.New(rand.NewSource(2)))
	ml := movelist.New()
	outcome := e.Run(b, corners[0], ml)

	assert.True(t, outcome.Decided())
}

func TestRunRecordsEveryPlyIntoMoveList(t *testing.T) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	e := NewEngine(Config{}, 3, rand.New(rand.NewSource(3)))
	ml := movelist.New()
	before := b.NumMoves()
	e.Run(b, board.MoveNone, ml)

	assert.Equal(t, b.NumMoves()-before, ml.Len())
}

func TestWeightedRandomRunCompletes(t *testing.T) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	cfg := Config{WeightedRandom: true}
	for i := range cfg.Gammas {
		cfg.Gammas[i] = 1
	}
	e := NewEngine(cfg, 3, rand.New(rand.NewSource(4)))
	ml := movelist.New()
	outcome := e.Run(b, board.MoveNone, ml)

	assert.True(t, outcome.Decided())
}

func TestLastGoodReplyIsRecordedOnWin(t *testing.T) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	cfg := Config{LastGoodReply: 1}
	e := NewEngine(cfg, 3, rand.New(rand.NewSource(5)))
	ml := movelist.New()
	outcome := e.Run(b, board.MoveNone, ml)
	require.True(t, outcome.Decided())

	if outcome == board.OutcomeDraw {
		return
	}
	hasEntry := false
	for _, mv := range e.goodReply[0] {
		if mv.IsCell() {
			hasEntry = true
		}
	}
	for _, mv := range e.goodReply[1] {
		if mv.IsCell() {
			hasEntry = true
		}
	}
	assert.True(t, hasEntry)
}

func TestContourScanFindsSingleForcedBlock(t *testing.T) {
	b, err := board.NewBoard(5)
	require.NoError(t, err)
	// A lone stone on a quiet board offers no winning reply to block.
	require.NoError(t, b.Play(b.FromXY(2, 2), board.Player1))

	e := NewEngine(Config{InstantWin: 3}, 5, rand.New(rand.NewSource(6)))
	_, found, _ := e.contourScan(b, b.FromXY(2, 2))
	assert.False(t, found) // a lone stone offers no winning reply yet

	// P1 owns a straight line of stones from corner (0,0) with exactly one
	// empty neighbour, corner (4,0), that would let P1 complete a bridge;
	// with P2 to move, contourScan surfaces it as the single forced block.
	b2, err := board.NewBoard(5)
	require.NoError(t, err)
	require.NoError(t, b2.Play(b2.FromXY(4, 4), board.Player2))
	for x := 0; x < 4; x++ {
		require.NoError(t, b2.Play(b2.FromXY(x, 0), board.Player1))
	}
	mv, found, winner := e.contourScan(b2, b2.FromXY(3, 0))
	assert.True(t, found)
	assert.Equal(t, b2.FromXY(4, 0), mv)
	assert.Equal(t, board.Empty, winner)
}
