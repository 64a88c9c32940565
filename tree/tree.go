// Package tree implements the bounded-memory search-tree arena: nodes
// are allocated from a flat slice with a free list, children are
// published as a single atomic slice swap guarded by a per-node
// single-writer lock, and compaction reclaims trailing garbage after a
// garbage-collection pass.
package tree

import (
	"fmt"
	"sync"

	"github.com/hexmind/havannah/board"
)

const defaultCapacityHint = 1 << 16

// Tree is the CompactTree arena: a node pool plus a parallel children
// table. Node pointers returned by Node() are only valid until the next
// call that grows the underlying slice; callers re-fetch by NodeID
// rather than holding pointers across goroutine hand-offs.
type Tree struct {
	mu sync.RWMutex

	nodes    []Node
	children [][]NodeID
	freelist []NodeID

	maxMem int // node-count budget, not bytes: simpler and good enough at this scale
	root   NodeID
}

// NewTree creates an arena bounded to maxMem live nodes.
func NewTree(maxMem int) *Tree {
	return &Tree{
		nodes:    make([]Node, 0, defaultCapacityHint),
		children: make([][]NodeID, 0, defaultCapacityHint),
		freelist: nil,
		maxMem:   maxMem,
		root:     NilNode,
	}
}

// Root and SetRoot get/set the arena's current root node.
func (t *Tree) Root() NodeID { return t.root }
func (t *Tree) SetRoot(id NodeID) {
	t.mu.Lock()
	t.root = id
	t.mu.Unlock()
}

// Node returns a pointer to the node at id. See the Tree doc comment for
// the lifetime caveat.
func (t *Tree) Node(id NodeID) *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &t.nodes[id]
}

// New allocates a single node for move, reusing a freed slot if one is
// available.
func (t *Tree) New(move board.Move) NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocLocked(move)
}

func (t *Tree) allocLocked(move board.Move) NodeID {
	if l := len(t.freelist); l > 0 {
		id := t.freelist[l-1]
		t.freelist = t.freelist[:l-1]
		t.nodes[id].reset(id, move)
		t.children[id] = t.children[id][:0]
		return id
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{})
	t.nodes[id].reset(id, move)
	t.children = append(t.children, nil)
	return id
}

// Alloc allocates a contiguous child block: one node per move, in order.
// This is the "children array" expansion publishes once fully built.
func (t *Tree) Alloc(moves []board.Move) []NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]NodeID, len(moves))
	for i, m := range moves {
		ids[i] = t.allocLocked(m)
	}
	return ids
}

// Dealloc returns a block of nodes (and, recursively, nothing below them
// — callers walk the tree themselves to dealloc whole subtrees) to the
// free list.
func (t *Tree) Dealloc(ids []NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		t.children[id] = t.children[id][:0]
		t.freelist = append(t.freelist, id)
	}
}

// Children returns the (possibly empty) children block published for
// id. A reader never blocks on an in-progress expansion: it simply sees
// the empty slice until PublishChildren swaps in the populated one.
func (t *Tree) Children(id NodeID) []NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.children[id]
}

// PublishChildren atomically (with respect to Children) installs kids as
// id's children block. The caller must already hold id's expansion lock
// (TryLockChildren).
func (t *Tree) PublishChildren(id NodeID, kids []NodeID) {
	t.mu.Lock()
	t.children[id] = kids
	t.mu.Unlock()
}

// MemUsed returns the number of currently live (non-freed) nodes.
func (t *Tree) MemUsed() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes) - len(t.freelist)
}

// MaxMem returns the configured node-count budget.
func (t *Tree) MaxMem() int { return t.maxMem }

// OverBudget reports whether the arena has exceeded its memory budget,
// the condition that drives a worker from Running to GC.
func (t *Tree) OverBudget() bool { return t.MemUsed() >= t.maxMem }

// Compact reclaims trailing free slots from the arena. It does not
// relocate live nodes — nodes carry no parent back-reference, so moving
// one would require rewriting every ancestor's children block, which the
// arena does not track well enough to do safely. Trimming the tail after
// a GC pass (which frees whole subtrees depth-first, so garbage tends to
// cluster at the end of the arena) recovers most of the benefit at a
// fraction of the complexity. Requires mutator quiescence: callers only
// invoke this from the coordinator's GC barrier.
func (t *Tree) Compact() {
	t.mu.Lock()
	defer t.mu.Unlock()

	free := make(map[NodeID]bool, len(t.freelist))
	for _, id := range t.freelist {
		free[id] = true
	}

	n := len(t.nodes)
	for n > 0 && free[NodeID(n-1)] {
		n--
	}
	if n == len(t.nodes) {
		return
	}
	t.nodes = t.nodes[:n]
	t.children = t.children[:n]

	kept := t.freelist[:0]
	for _, id := range t.freelist {
		if int(id) < n {
			kept = append(kept, id)
		}
	}
	t.freelist = kept
}

// Reset empties the arena entirely, for a fresh search on a new board.
func (t *Tree) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = t.nodes[:0]
	t.children = t.children[:0]
	t.freelist = t.freelist[:0]
	t.root = NilNode
}

func (t *Tree) String() string {
	return fmt.Sprintf("tree{live=%d cap=%d max=%d}", t.MemUsed(), len(t.nodes), t.maxMem)
}
