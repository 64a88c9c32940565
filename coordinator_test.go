package havannah

import (
	"context"
	"testing"
	"time"

	"github.com/hexmind/havannah/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(threads int) Config {
	cfg := DefaultConfig()
	cfg.Threads = threads
	cfg.MaxMem = 5000
	cfg.Search.VisitExpand = 2
	cfg.Logger = nil
	return cfg
}

func TestGenmoveReturnsALegalMoveOnSmallBoard(t *testing.T) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	c := NewCoordinator(testConfig(2), b)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	move, pv, stats, err := c.Genmove(ctx, 150*time.Millisecond, 0)
	require.NoError(t, err)
	assert.True(t, move.IsCell())
	assert.NotEmpty(t, stats)
	_ = pv
}

func TestAdvanceReusesExploredSubtree(t *testing.T) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	c := NewCoordinator(testConfig(1), b)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	move, _, _, err := c.Genmove(ctx, 100*time.Millisecond, 0)
	require.NoError(t, err)

	require.NoError(t, c.Advance(move))
	assert.Equal(t, move, c.Tree.Node(c.Tree.Root()).Move())
	assert.NotZero(t, c.Tree.Node(c.Tree.Root()).Exp().Visits(), "the new root keeps the stats search gathered for it")
}

func TestCloseStopsAllWorkersCleanly(t *testing.T) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	c := NewCoordinator(testConfig(3), b)
	require.NoError(t, c.Close())
}

func TestPonderingRoundIsInterruptedByNextGenmove(t *testing.T) {
	b, err := board.NewBoard(3)
	require.NoError(t, err)

	cfg := testConfig(1)
	cfg.Ponder = true
	c := NewCoordinator(cfg, b)
	defer c.Close()

	ctx := context.Background()
	_, _, _, err = c.Genmove(ctx, 50*time.Millisecond, 0)
	require.NoError(t, err)

	// A pondering round should now be running in the background; a
	// second genmove call must be able to interrupt it and return
	// promptly rather than hang.
	done := make(chan struct{})
	go func() {
		_, _, _, _ = c.Genmove(ctx, 50*time.Millisecond, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second Genmove did not return; pondering round was not interrupted")
	}
}

func TestCyclicBarrierReleasesAfterNArrivals(t *testing.T) {
	bar := newCyclicBarrier(3)
	ran := 0
	done := make(chan struct{}, 3)
	abort := make(chan struct{})
	for i := 0; i < 3; i++ {
		go func() {
			bar.Wait(func() { ran++ }, abort)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("barrier never released all three arrivals")
		}
	}
	assert.Equal(t, 1, ran)
}
