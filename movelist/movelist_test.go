package movelist

import (
	"testing"

	"github.com/hexmind/havannah/board"
	"github.com/stretchr/testify/assert"
)

func TestAddAndReset(t *testing.T) {
	l := New()
	l.AddTree(board.Move(1), board.Player1)
	l.AddRollout(board.Move(2), board.Player2)
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.At(0).InTree)
	assert.False(t, l.At(1).InTree)

	l.Reset()
	assert.Equal(t, 0, l.Len())
}

func TestContainsFromRespectsStartAndSide(t *testing.T) {
	l := New()
	l.AddTree(board.Move(1), board.Player1)
	l.AddTree(board.Move(2), board.Player2)
	l.AddRollout(board.Move(3), board.Player1)

	assert.True(t, l.ContainsFrom(0, board.Move(3), board.Player1, false))
	assert.False(t, l.ContainsFrom(2, board.Move(1), board.Player1, false), "move 1 is before index 2")
	assert.False(t, l.ContainsFrom(0, board.Move(2), board.Player1, false), "move 2 was played by Player2")
	assert.True(t, l.ContainsFrom(0, board.Move(2), board.Player1, true), "opmoves credits either side")
}
