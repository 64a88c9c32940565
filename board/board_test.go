package board

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopology(t *testing.T) {
	for s := MinSize; s <= MaxSize; s++ {
		b, err := NewBoard(s)
		require.NoError(t, err)

		onBoard := 0
		corners := 0
		edges := 0
		for y := 0; y < b.sizeD; y++ {
			for x := 0; x < b.sizeD; x++ {
				if !b.onBoard(x, y) {
					continue
				}
				onBoard++
				if b.cornerOf(x, y) >= 0 {
					corners++
				}
				if b.edgeOf(x, y) >= 0 {
					edges++
				}
			}
		}
		assert.Equal(t, 3*s*(s-1)+1, onBoard, "size %d", s)
		assert.Equal(t, b.NumCells(), onBoard, "size %d", s)
		assert.Equal(t, 6, corners, "size %d", s)
		assert.Equal(t, 6*(s-2), edges, "size %d", s)
	}
}

func TestInvalidSize(t *testing.T) {
	_, err := NewBoard(2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewBoard(11)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUnionFindMaskInvariant(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)

	moves := []Move{b.FromXY(0, 0), b.FromXY(1, 0), b.FromXY(2, 0)}
	for _, m := range moves {
		require.NoError(t, b.Play(m, Player1))
	}

	root := b.find(int32(moves[0]))
	for _, m := range moves {
		assert.Equal(t, root, b.find(int32(m)))
	}
	assert.Equal(t, int32(len(moves)), b.cells[root].size)
	// Corner 0 from (0,0), edge 0 from (1,0) and (2,0), ORed at the root.
	assert.Equal(t, uint8(1), b.cells[root].corner)
	assert.Equal(t, uint8(1), b.cells[root].edge)
}

// Corner bridge, s=3: P1 touches both corners (0,0) and (0,2).
func TestBridgeWinCorner(t *testing.T) {
	b, err := NewBoard(3)
	require.NoError(t, err)

	require.NoError(t, b.Play(b.FromXY(0, 0), Player1)) // a1
	require.NoError(t, b.Play(b.FromXY(1, 0), Player2)) // b1
	require.NoError(t, b.Play(b.FromXY(0, 1), Player1)) // a2
	require.NoError(t, b.Play(b.FromXY(2, 0), Player2)) // c1
	require.NoError(t, b.Play(b.FromXY(0, 2), Player1)) // a3

	assert.Equal(t, OutcomeP1, b.Outcome())
}

// A full top row on s=4 connects both top corners; the bridge fires once
// the second corner joins the group, and stays P1 afterward (monotone).
func TestBridgeAcrossFullEdgeIdempotent(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)

	require.NoError(t, b.Play(b.FromXY(0, 0), Player1))
	require.NoError(t, b.Play(b.FromXY(1, 0), Player1))
	require.NoError(t, b.Play(b.FromXY(2, 0), Player1))
	assert.Equal(t, OutcomeUnknown, b.Outcome(), "only one corner joined so far")

	require.NoError(t, b.Play(b.FromXY(3, 0), Player1))
	assert.Equal(t, OutcomeP1, b.Outcome())

	assert.ErrorIs(t, b.Play(b.FromXY(1, 1), Player2), ErrInvalidMove)
	assert.Equal(t, OutcomeP1, b.Outcome())
}

// Fork win: a group touching three distinct edges (without necessarily
// touching two corners) wins. The connecting path is found by BFS so the
// test doesn't depend on hand-plotted coordinates.
func TestForkWinThreeEdges(t *testing.T) {
	b, err := NewBoard(5)
	require.NoError(t, err)

	edgeReps := make(map[int]int)
	for y := 0; y < b.sizeD; y++ {
		for x := 0; x < b.sizeD; x++ {
			if !b.onBoard(x, y) {
				continue
			}
			if e := b.edgeOf(x, y); e >= 0 {
				if _, ok := edgeReps[e]; !ok {
					edgeReps[e] = b.xyIndex(x, y)
				}
			}
		}
	}
	require.Len(t, edgeReps, 6)

	bfsPath := func(from int, targets map[int]bool) []int {
		prev := make(map[int]int)
		visited := map[int]bool{from: true}
		queue := []int{from}
		reach := -1
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if targets[cur] {
				reach = cur
				break
			}
			cx, cy := b.XY(Move(cur))
			for i := 0; i < 6; i++ {
				nx, ny := cx+neighbourDX[i], cy+neighbourDY[i]
				if !b.onBoard2(nx, ny) {
					continue
				}
				ni := b.xyIndex(nx, ny)
				if visited[ni] {
					continue
				}
				visited[ni] = true
				prev[ni] = cur
				queue = append(queue, ni)
			}
		}
		require.GreaterOrEqual(t, reach, 0)
		path := []int{reach}
		for path[len(path)-1] != from {
			path = append(path, prev[path[len(path)-1]])
		}
		return path
	}

	pathA := bfsPath(edgeReps[0], map[int]bool{edgeReps[2]: true})
	inPathA := make(map[int]bool, len(pathA))
	for _, c := range pathA {
		inPathA[c] = true
	}
	pathB := bfsPath(edgeReps[4], inPathA)

	group := make(map[int]bool)
	for _, c := range append(pathA, pathB...) {
		group[c] = true
	}
	cells := make([]int, 0, len(group))
	for c := range group {
		cells = append(cells, c)
	}
	sort.Ints(cells)

	for _, c := range cells {
		require.NoError(t, b.Play(Move(c), Player1))
	}

	assert.Equal(t, OutcomeP1, b.Outcome())
	assert.GreaterOrEqual(t, b.EdgeCount(Move(cells[0])), 3)
}

// Ring win, s=4: a unit hexagon of P1 stones around (1,1) closes on the
// sixth placement.
func TestRingWin(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)

	ring := []struct{ x, y int }{{1, 0}, {2, 1}, {2, 2}, {1, 2}, {0, 1}, {0, 0}}
	outside := []struct{ x, y int }{{3, 0}, {3, 1}, {3, 2}, {3, 3}, {2, 3}}

	for i, c := range ring[:5] {
		require.NoError(t, b.Play(b.FromXY(c.x, c.y), Player1))
		require.NoError(t, b.Play(b.FromXY(outside[i].x, outside[i].y), Player2))
	}
	last := ring[5]
	require.NoError(t, b.Play(b.FromXY(last.x, last.y), Player1))

	assert.Equal(t, OutcomeP1, b.Outcome())
}

func TestRingMinSizeFilter(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)

	ring := []struct{ x, y int }{{1, 0}, {2, 1}, {2, 2}, {1, 2}, {0, 1}, {0, 0}}
	outside := []struct{ x, y int }{{3, 0}, {3, 1}, {3, 2}, {3, 3}}

	for i, c := range ring[:4] {
		require.NoError(t, b.PlayFiltered(b.FromXY(c.x, c.y), Player1, 10, false))
		require.NoError(t, b.PlayFiltered(b.FromXY(outside[i].x, outside[i].y), Player2, 10, false))
	}
	require.NoError(t, b.PlayFiltered(b.FromXY(ring[4].x, ring[4].y), Player1, 10, false))
	require.NoError(t, b.PlayFiltered(b.FromXY(ring[5].x, ring[5].y), Player1, 10, false))

	assert.Equal(t, OutcomeUnknown, b.Outcome(), "ring of length 6 suppressed by min_ring_size=10")
}

func TestMonotoneOutcome(t *testing.T) {
	b, err := NewBoard(3)
	require.NoError(t, err)

	require.NoError(t, b.Play(b.FromXY(0, 0), Player1))
	require.NoError(t, b.Play(b.FromXY(1, 0), Player2))
	require.NoError(t, b.Play(b.FromXY(0, 1), Player1))
	require.NoError(t, b.Play(b.FromXY(2, 0), Player2))
	require.NoError(t, b.Play(b.FromXY(0, 2), Player1))
	require.Equal(t, OutcomeP1, b.Outcome())

	err = b.Play(b.FromXY(1, 1), Player2)
	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.Equal(t, OutcomeP1, b.Outcome())
}

func TestTestWinDoesNotMutate(t *testing.T) {
	b, err := NewBoard(3)
	require.NoError(t, err)
	require.NoError(t, b.Play(b.FromXY(0, 0), Player1))
	require.NoError(t, b.Play(b.FromXY(1, 0), Player2))
	require.NoError(t, b.Play(b.FromXY(0, 1), Player1))
	require.NoError(t, b.Play(b.FromXY(2, 0), Player2))

	before := b.String()
	won := b.TestWin(b.FromXY(0, 2), Player1)
	assert.True(t, won)
	assert.Equal(t, before, b.String())
	assert.Equal(t, OutcomeUnknown, b.Outcome())
}

func TestLegalMovesSymmetryPruning(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)

	all := b.LegalMoves(false)
	pruned := b.LegalMoves(true)
	assert.Equal(t, b.NumCells(), len(all))
	assert.Less(t, len(pruned), len(all))

	require.NoError(t, b.Play(all[0], Player1))
	afterMove := b.LegalMoves(true)
	assert.Equal(t, len(all)-1, len(afterMove), "pruning only applies to the empty board")
}

func TestTestCellReportsSpeculativeGroupStats(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)
	require.NoError(t, b.Play(b.FromXY(0, 0), Player1)) // corner
	require.NoError(t, b.Play(b.FromXY(1, 0), Player2))

	corners, edges, size := b.TestCell(b.FromXY(1, 1), Player1)
	assert.Equal(t, 1, corners, "joins the corner at (0,0)")
	assert.Equal(t, 0, edges)
	assert.Equal(t, 2, size)

	// TestCell must not mutate.
	assert.Equal(t, Empty, b.Get(b.FromXY(1, 1)))
}

func TestCubeDistance(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)
	assert.Equal(t, 0, b.CubeDistance(b.FromXY(1, 1), b.FromXY(1, 1)))
	assert.Equal(t, 1, b.CubeDistance(b.FromXY(1, 1), b.FromXY(2, 1)))
	assert.Equal(t, 3, b.CubeDistance(b.FromXY(0, 0), b.FromXY(3, 3)))
}

func TestBridgeProbeDetectsForcedReply(t *testing.T) {
	b, err := NewBoard(5)
	require.NoError(t, err)
	// Defender (P1) stones at (1,1) and (3,2) bracket the empty cell
	// (2,1) around the opponent's probe stone at (2,2): playing the
	// empty cell is the only way to keep the two defender stones
	// connected through this gap.
	require.NoError(t, b.Play(b.FromXY(1, 1), Player1))
	require.NoError(t, b.Play(b.FromXY(3, 2), Player1))
	require.NoError(t, b.Play(b.FromXY(2, 2), Player2))

	assert.True(t, b.BridgeProbe(b.FromXY(2, 2), b.FromXY(2, 1)))
	assert.False(t, b.BridgeProbe(b.FromXY(2, 2), b.FromXY(0, 0)), "not adjacent to the probe")
}

func TestPatternInvertSwapsPlayers(t *testing.T) {
	b, err := NewBoard(4)
	require.NoError(t, err)
	require.NoError(t, b.Play(b.FromXY(1, 1), Player1))

	p := b.Pattern(b.FromXY(2, 1))
	inv := PatternInvert(p)
	assert.NotEqual(t, p, inv)
	assert.Equal(t, p, PatternInvert(inv))
}
