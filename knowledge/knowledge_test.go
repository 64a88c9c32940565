package knowledge

import (
	"testing"

	"github.com/hexmind/havannah/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorZeroWeightsGiveZero(t *testing.T) {
	b, err := board.NewBoard(5)
	require.NoError(t, err)
	require.NoError(t, b.Play(b.FromXY(2, 2), board.Player1))

	got := Prior(b, b.FromXY(2, 2), b.FromXY(3, 3), board.Player1, Weights{})
	assert.Equal(t, int32(0), got)
}

func TestPriorLocalityRewardsNearbyStones(t *testing.T) {
	b, err := board.NewBoard(5)
	require.NoError(t, err)
	require.NoError(t, b.Play(b.FromXY(2, 2), board.Player1))

	w := Weights{Locality: 1}
	near := Prior(b, board.MoveNone, b.FromXY(2, 1), board.Player1, w)
	far := Prior(b, board.MoveNone, b.FromXY(0, 4), board.Player1, w)
	assert.Greater(t, near, far)
}

func TestPriorConnectRewardsCornerJoin(t *testing.T) {
	b, err := board.NewBoard(5)
	require.NoError(t, err)
	require.NoError(t, b.Play(b.FromXY(0, 0), board.Player1)) // corner

	w := Weights{Connect: 1}
	joining := Prior(b, board.MoveNone, b.FromXY(1, 1), board.Player1, w)
	notJoining := Prior(b, board.MoveNone, b.FromXY(4, 4), board.Player1, w)
	assert.Greater(t, joining, notJoining)
}

func TestPriorBridgeRewardsForcedReply(t *testing.T) {
	b, err := board.NewBoard(5)
	require.NoError(t, err)
	require.NoError(t, b.Play(b.FromXY(1, 1), board.Player1))
	require.NoError(t, b.Play(b.FromXY(3, 2), board.Player1))
	require.NoError(t, b.Play(b.FromXY(2, 2), board.Player2))

	w := Weights{Bridge: 5}
	got := Prior(b, b.FromXY(2, 2), b.FromXY(2, 1), board.Player1, w)
	assert.Equal(t, int32(5), got)
}
