package rollout

// fenwick is a binary indexed tree over non-negative float32 weights,
// supporting O(log n) point updates and weighted sampling. The rollout
// engine keeps one per player (gamma vs. gamma-inverted), rebuilt once
// per rollout and then patched in place as cells are played and
// neighbouring patterns change.
type fenwick struct {
	n    int
	tree []float32
	raw  []float32
}

func newFenwick(n int) *fenwick {
	return &fenwick{n: n, tree: make([]float32, n+1), raw: make([]float32, n)}
}

// SetWeight overwrites the weight at i (0-based).
func (f *fenwick) SetWeight(i int, w float32) {
	delta := w - f.raw[i]
	if delta == 0 {
		return
	}
	f.raw[i] = w
	for j := i + 1; j <= f.n; j += j & (-j) {
		f.tree[j] += delta
	}
}

// Total returns the sum of all weights.
func (f *fenwick) Total() float32 {
	var sum float32
	for j := f.n; j > 0; j -= j & (-j) {
		sum += f.tree[j]
	}
	return sum
}

// Choose draws an index with probability proportional to its weight,
// given a uniform draw r in [0, Total()). Returns -1 if every weight is
// zero.
func (f *fenwick) Choose(r float32) int {
	if r < 0 {
		r = 0
	}
	idx := 0
	remaining := r
	bitMask := 1
	for bitMask*2 <= f.n {
		bitMask *= 2
	}
	for step := bitMask; step > 0; step >>= 1 {
		next := idx + step
		if next <= f.n && f.tree[next] <= remaining {
			idx = next
			remaining -= f.tree[next]
		}
	}
	if idx >= f.n {
		return -1
	}
	return idx
}
