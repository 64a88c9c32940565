package board

// find returns the union-find root of cell i, compressing the path as it
// goes (invariant: find(i) == find(parent(i))).
func (b *Board) find(i int32) int32 {
	if b.cells[i].parent != i {
		b.cells[i].parent = b.find(b.cells[i].parent)
	}
	return b.cells[i].parent
}

// union merges the groups containing i and j, attaching the smaller
// subtree to the larger and OR-combining their corner/edge masks. It
// returns true if i and j were already in the same group — meaning the
// move that triggered this union just closed a cycle.
func (b *Board) union(i, j int32) bool {
	ri, rj := b.find(i), b.find(j)
	if ri == rj {
		return true
	}
	if b.cells[ri].size < b.cells[rj].size {
		ri, rj = rj, ri
	}
	b.cells[rj].parent = ri
	b.cells[ri].size += b.cells[rj].size
	b.cells[ri].corner |= b.cells[rj].corner
	b.cells[ri].edge |= b.cells[rj].edge
	return false
}

// detectRing looks for a simple same-colour cycle through m that
// encloses at least one cell. It is only called right after a move
// closed a union-find cycle, so the minimal cycle is reachable by
// walking only the three forward (non-backtracking) directions from a
// neighbour of m.
func (b *Board) detectRing(m Move, minRingSize int, permissive bool) bool {
	x, y := b.XY(m)
	group := b.find(int32(m))
	start := int32(m)

	for i := 0; i < 6; i++ {
		nx, ny := x+neighbourDX[i], y+neighbourDY[i]
		if !b.onBoard2(nx, ny) {
			continue
		}
		ni := int32(b.xyIndex(nx, ny))
		if b.find(ni) != group {
			continue
		}
		path, ok := b.followRing(start, ni, i, group, []int32{start}, minRingSize)
		if !ok {
			continue
		}
		if permissive || b.ringEncloses(path) {
			return true
		}
	}
	return false
}

// followRing advances the ring walk from cur, trying only the next
// three clockwise directions (dir+5, dir+6, dir+7 mod 6) so it never
// backtracks. It succeeds when the walk returns to start.
func (b *Board) followRing(start, cur int32, dir int, group int32, path []int32, minRingSize int) ([]int32, bool) {
	if cur == start {
		// path holds start at both ends, so the ring has len(path)-1 cells.
		if minRingSize > 0 && len(path)-1 < minRingSize {
			return nil, false
		}
		return path, true
	}

	cx, cy := b.XY(Move(cur))
	for k := 5; k <= 7; k++ {
		nd := (dir + k) % 6
		nx, ny := cx+neighbourDX[nd], cy+neighbourDY[nd]
		if !b.onBoard2(nx, ny) {
			continue
		}
		ni := int32(b.xyIndex(nx, ny))
		if b.find(ni) != group {
			continue
		}
		next := make([]int32, len(path)+1)
		copy(next, path)
		next[len(path)] = ni
		if p, ok := b.followRing(start, ni, nd, group, next, minRingSize); ok {
			return p, true
		}
	}
	return nil, false
}

// ringEncloses reports whether the cells in path form a loop with at
// least one on-board cell trapped inside: flood-filling from every
// board-border cell (treating path as walls) must fail to reach some
// on-board cell outside the path.
func (b *Board) ringEncloses(path []int32) bool {
	inRing := make(map[int32]bool, len(path))
	for _, c := range path {
		inRing[c] = true
	}

	visited := make([]bool, len(b.cells))
	var stack []int32
	for y := 0; y < b.sizeD; y++ {
		for x := 0; x < b.sizeD; x++ {
			if !b.onBoard(x, y) {
				continue
			}
			i := int32(b.xyIndex(x, y))
			if inRing[i] || !b.isBorderCell(x, y) {
				continue
			}
			visited[i] = true
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		cx, cy := b.XY(Move(cur))
		for i := 0; i < 6; i++ {
			nx, ny := cx+neighbourDX[i], cy+neighbourDY[i]
			if !b.onBoard2(nx, ny) {
				continue
			}
			ni := int32(b.xyIndex(nx, ny))
			if visited[ni] || inRing[ni] {
				continue
			}
			visited[ni] = true
			stack = append(stack, ni)
		}
	}

	for y := 0; y < b.sizeD; y++ {
		for x := 0; x < b.sizeD; x++ {
			if !b.onBoard(x, y) {
				continue
			}
			i := int32(b.xyIndex(x, y))
			if !inRing[i] && !visited[i] {
				return true
			}
		}
	}
	return false
}
