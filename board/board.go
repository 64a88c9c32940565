// Package board implements the Havannah hexagonal board: topology, move
// legality and incremental win detection via an augmented union-find.
package board

import (
	"fmt"
	"math/bits"
)

// MinSize and MaxSize bound the supported hexagon side length.
const (
	MinSize = 3
	MaxSize = 10
)

// neighbourDX/neighbourDY are the six unit neighbour offsets, listed
// clockwise starting from the upper-left direction.
var neighbourDX = [6]int{-1, 0, 1, 1, 0, -1}
var neighbourDY = [6]int{-1, -1, 0, 1, 1, 0}

type cell struct {
	piece  Piece
	parent int32
	size   int32
	corner uint8 // 6-bit mask, meaningful only at a union-find root
	edge   uint8 // 6-bit mask, meaningful only at a union-find root
}

// Board is a value-copyable hexagonal Havannah position of side Size().
type Board struct {
	size       int
	sizeD      int
	cells      []cell
	numMoves   int
	outcome    Outcome
	lastMove   Move
	lastPlayer Piece
}

// NewBoard constructs an empty board of the given side length.
func NewBoard(size int) (*Board, error) {
	if size < MinSize || size > MaxSize {
		return nil, invalidArgument(fmt.Sprintf("board size %d outside [%d,%d]", size, MinSize, MaxSize))
	}
	b := &Board{
		size:     size,
		sizeD:    2*size - 1,
		lastMove: MoveNone,
	}
	b.cells = make([]cell, b.sizeD*b.sizeD)
	for y := 0; y < b.sizeD; y++ {
		for x := 0; x < b.sizeD; x++ {
			i := b.xyIndex(x, y)
			var cm, em uint8
			if c := b.cornerOf(x, y); c >= 0 {
				cm = 1 << uint(c)
			}
			if e := b.edgeOf(x, y); e >= 0 {
				em = 1 << uint(e)
			}
			b.cells[i] = cell{parent: int32(i), size: 1, corner: cm, edge: em}
		}
	}
	return b, nil
}

// Clone returns a deep, independent copy of b. The search worker clones
// the root board once per rollout rather than mutating shared state.
func (b *Board) Clone() *Board {
	nb := *b
	nb.cells = make([]cell, len(b.cells))
	copy(nb.cells, b.cells)
	return &nb
}

// Size returns the hexagon side length s.
func (b *Board) Size() int { return b.size }

// NumCells returns 3s(s-1)+1, the number of on-board cells.
func (b *Board) NumCells() int { return 3*b.size*(b.size-1) + 1 }

// NumMoves returns how many stones have been placed so far.
func (b *Board) NumMoves() int { return b.numMoves }

// MovesRemain returns the number of empty on-board cells.
func (b *Board) MovesRemain() int { return b.NumCells() - b.numMoves }

// Toplay returns the player to move next.
func (b *Board) Toplay() Piece {
	if b.numMoves%2 == 0 {
		return Player1
	}
	return Player2
}

// Outcome returns the current (monotone) game result.
func (b *Board) Outcome() Outcome { return b.outcome }

// LastMove returns the most recently played move and its player, or
// (MoveNone, Empty) if no move has been played.
func (b *Board) LastMove() (Move, Piece) { return b.lastMove, b.lastPlayer }

// Get returns the occupant of a cell move.
func (b *Board) Get(m Move) Piece {
	return b.cells[int32(m)].piece
}

func (b *Board) xyIndex(x, y int) int { return y*b.sizeD + x }

// XY converts a cell move back into its axial coordinates.
func (b *Board) XY(m Move) (x, y int) {
	i := int(m)
	return i % b.sizeD, i / b.sizeD
}

// FromXY converts axial coordinates into a cell move; it does not check
// bounds.
func (b *Board) FromXY(x, y int) Move { return Move(b.xyIndex(x, y)) }

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func (b *Board) onBoard(x, y int) bool {
	return abs(x-y) < b.size
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.sizeD && y < b.sizeD
}

func (b *Board) onBoard2(x, y int) bool {
	return b.inBounds(x, y) && b.onBoard(x, y)
}

// cornerOf returns the corner index (0-5) of (x,y), or -1 if it is not a
// corner cell. The six corners are the extreme vertices of the hexagon.
func (b *Board) cornerOf(x, y int) int {
	if !b.onBoard(x, y) {
		return -1
	}
	m, e := b.size-1, b.sizeD-1
	switch {
	case x == 0 && y == 0:
		return 0
	case x == m && y == 0:
		return 1
	case x == e && y == m:
		return 2
	case x == e && y == e:
		return 3
	case x == m && y == e:
		return 4
	case x == 0 && y == m:
		return 5
	}
	return -1
}

// edgeOf returns the edge index (0-5) of (x,y), or -1 if it is not a
// non-corner border cell.
func (b *Board) edgeOf(x, y int) int {
	if !b.onBoard(x, y) {
		return -1
	}
	m, e := b.size-1, b.sizeD-1
	switch {
	case y == 0 && x != 0 && x != m:
		return 0
	case x-y == m && x != m && x != e:
		return 1
	case x == e && y != m && y != e:
		return 2
	case y == e && x != e && x != m:
		return 3
	case y-x == m && x != m && x != 0:
		return 4
	case x == 0 && y != m && y != 0:
		return 5
	}
	return -1
}

func (b *Board) isBorderCell(x, y int) bool {
	for i := 0; i < 6; i++ {
		if !b.onBoard2(x+neighbourDX[i], y+neighbourDY[i]) {
			return true
		}
	}
	return false
}

// Valid reports whether m is a legal move for the player to move: the
// game must be undecided, the cell must exist, and it must be empty.
func (b *Board) Valid(m Move) bool {
	if b.outcome.Decided() || !m.IsCell() {
		return false
	}
	x, y := b.XY(m)
	if !b.onBoard2(x, y) {
		return false
	}
	return b.cells[int32(m)].piece == Empty
}

// Play places p at m, unions it with same-colour neighbours and updates
// the outcome. It always runs full (unfiltered) ring detection.
func (b *Board) Play(m Move, p Piece) error {
	return b.playFiltered(m, p, 0, false)
}

// PlayFiltered is Play with the rollout-only ring-detection knobs: rings
// shorter than minRingSize are not recognised, and when permissive is
// true the "fully enclosed interior" check is skipped for speed.
func (b *Board) PlayFiltered(m Move, p Piece, minRingSize int, permissive bool) error {
	return b.playFiltered(m, p, minRingSize, permissive)
}

func (b *Board) playFiltered(m Move, p Piece, minRingSize int, permissive bool) error {
	if !b.Valid(m) {
		return invalidMove(fmt.Sprintf("move %v not valid for %v", m, p))
	}
	idx := int32(m)
	b.cells[idx].piece = p
	b.numMoves++

	alreadyJoined := b.unionNeighbours(m, p)

	root := b.find(idx)
	g := b.cells[root]
	switch {
	case bits.OnesCount8(g.corner) >= 2, bits.OnesCount8(g.edge) >= 3:
		b.outcome = ForPiece(p)
	case alreadyJoined && g.size >= 6 && b.detectRing(m, minRingSize, permissive):
		b.outcome = ForPiece(p)
	case b.numMoves == b.NumCells():
		b.outcome = OutcomeDraw
	}
	b.lastMove = m
	b.lastPlayer = p
	return nil
}

// unionNeighbours joins m with every on-board same-colour neighbour,
// returning true if any of those unions found m already in the same
// group (the played cell closed a cycle).
func (b *Board) unionNeighbours(m Move, p Piece) bool {
	idx := int32(m)
	x, y := b.XY(m)
	alreadyJoined := false
	for i := 0; i < 6; i++ {
		nx, ny := x+neighbourDX[i], y+neighbourDY[i]
		if !b.onBoard2(nx, ny) {
			continue
		}
		ni := int32(b.xyIndex(nx, ny))
		if b.cells[ni].piece != p {
			continue
		}
		if b.union(idx, ni) {
			alreadyJoined = true
		}
	}
	return alreadyJoined
}

// TestCell speculatively asks what group stats (corners touched, edges
// touched, group size) would result from playing p at m, without
// mutating b. Used by the knowledge heuristics' connectivity/size terms.
func (b *Board) TestCell(m Move, p Piece) (corners, edges, size int) {
	cp := b.Clone()
	cp.cells[int32(m)].piece = p
	cp.unionNeighbours(m, p)
	root := cp.find(int32(m))
	g := cp.cells[root]
	return bits.OnesCount8(g.corner), bits.OnesCount8(g.edge), int(g.size)
}

// CellCorner and CellEdge report whether m is itself (irrespective of any
// group it might join) a corner or edge cell — the per-cell mask fixed
// at construction, unaffected by union-find.
func (b *Board) CellCorner(m Move) bool { return b.cells[int32(m)].corner != 0 }
func (b *Board) CellEdge(m Move) bool   { return b.cells[int32(m)].edge != 0 }

// CubeDistance returns the hex grid distance between two cells.
func (b *Board) CubeDistance(a, c Move) int {
	ax, ay := b.XY(a)
	cx, cy := b.XY(c)
	aq, ar, as := b.toCube(ax, ay)
	cq, cr, cs := b.toCube(cx, cy)
	dq, dr, ds := abs(aq-cq), abs(ar-cr), abs(as-cs)
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// Corners returns the six corner cells in index order.
func (b *Board) Corners() []Move {
	out := make([]Move, 0, 6)
	for y := 0; y < b.sizeD; y++ {
		for x := 0; x < b.sizeD; x++ {
			if b.cornerOf(x, y) >= 0 {
				out = append(out, b.FromXY(x, y))
			}
		}
	}
	return out
}

// TestWin speculatively asks whether playing p at m would win outright.
// It never mutates b.
func (b *Board) TestWin(m Move, p Piece) bool {
	if !b.Valid(m) {
		return false
	}
	cp := b.Clone()
	if err := cp.playFiltered(m, p, 0, false); err != nil {
		return false
	}
	return cp.outcome == ForPiece(p)
}

// LegalMoves returns every empty on-board cell. When pruneSymmetry is
// true and the board is still empty, only one representative per D6
// orbit (12-fold symmetry) is returned.
func (b *Board) LegalMoves(pruneSymmetry bool) []Move {
	prune := pruneSymmetry && b.numMoves == 0
	moves := make([]Move, 0, b.MovesRemain())
	for y := 0; y < b.sizeD; y++ {
		for x := 0; x < b.sizeD; x++ {
			if !b.onBoard(x, y) {
				continue
			}
			i := b.xyIndex(x, y)
			if b.cells[i].piece != Empty {
				continue
			}
			if prune && !b.isOrbitRepresentative(x, y) {
				continue
			}
			moves = append(moves, Move(i))
		}
	}
	return moves
}

// Local counts same-colour stones within a 2-hop neighbourhood of m,
// used as a knowledge prior.
func (b *Board) Local(m Move, p Piece) int {
	x, y := b.XY(m)
	seen := make(map[int]bool)
	type pt struct{ x, y int }
	frontier := []pt{{x, y}}
	count := 0
	for hop := 0; hop < 2; hop++ {
		var next []pt
		for _, f := range frontier {
			for i := 0; i < 6; i++ {
				nx, ny := f.x+neighbourDX[i], f.y+neighbourDY[i]
				if !b.onBoard2(nx, ny) {
					continue
				}
				ni := b.xyIndex(nx, ny)
				if seen[ni] {
					continue
				}
				seen[ni] = true
				if b.cells[ni].piece == p {
					count++
				}
				next = append(next, pt{nx, ny})
			}
		}
		frontier = next
	}
	return count
}

// Pattern encodes the six-neighbour colour pattern of a cell (2 bits per
// neighbour: empty/P1/P2/off-board) into a key for gamma lookup.
func (b *Board) Pattern(m Move) uint16 {
	x, y := b.XY(m)
	var pat uint16
	for i := 0; i < 6; i++ {
		nx, ny := x+neighbourDX[i], y+neighbourDY[i]
		var v uint16
		if b.onBoard2(nx, ny) {
			v = uint16(b.cells[b.xyIndex(nx, ny)].piece)
		} else {
			v = 3
		}
		pat |= v << uint(2*i)
	}
	return pat
}

// PatternInvert swaps the P1/P2 roles within a pattern key, so a single
// gamma table can serve both players.
func PatternInvert(p uint16) uint16 {
	var out uint16
	for i := 0; i < 6; i++ {
		v := (p >> uint(2*i)) & 0x3
		switch v {
		case 1:
			v = 2
		case 2:
			v = 1
		}
		out |= v << uint(2*i)
	}
	return out
}

// CornerCount and EdgeCount report the number of corners/edges the
// group rooted at m's cell currently touches — used by knowledge's
// connectivity heuristic.
func (b *Board) CornerCount(m Move) int {
	root := b.find(int32(m))
	return bits.OnesCount8(b.cells[root].corner)
}

func (b *Board) EdgeCount(m Move) int {
	root := b.find(int32(m))
	return bits.OnesCount8(b.cells[root].edge)
}

// GroupSize returns the size of the group rooted at m's cell.
func (b *Board) GroupSize(m Move) int {
	root := b.find(int32(m))
	return int(b.cells[root].size)
}
