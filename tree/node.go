package tree

import (
	"sync"

	"github.com/hexmind/havannah/board"
)

// NodeID indexes into a Tree's node arena. NilNode marks "no node" the
// way board.MoveNone marks "no move".
type NodeID int32

const NilNode NodeID = -1

// IsValid reports whether id refers to an allocated slot.
func (id NodeID) IsValid() bool { return id >= 0 }

// Node is one search-tree vertex. Every mutable field is guarded by mu,
// mirroring the per-node mutex the rest of the engine's node types use:
// correctness under concurrent selection/backup matters far more here
// than shaving a lock per visit.
type Node struct {
	mu sync.Mutex

	id   NodeID
	move board.Move

	exp  Stat
	rave Stat
	know int32

	outcome    Outcome
	proofdepth uint8
	bestmove   board.Move

	childrenLocked bool
}

func (n *Node) reset(id NodeID, move board.Move) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.id = id
	n.move = move
	n.exp = Stat{}
	n.rave = Stat{}
	n.know = 0
	n.outcome = OutcomeUnknown
	n.proofdepth = 0
	n.bestmove = board.MoveNone
	n.childrenLocked = false
}

// Move returns the move that leads into this node.
func (n *Node) Move() board.Move { return n.move }

// AddExp records an in-tree simulation result.
func (n *Node) AddExp(score float32) {
	n.mu.Lock()
	n.exp.Add(score)
	n.mu.Unlock()
}

// AddRave records an AMAF simulation result.
func (n *Node) AddRave(score float32) {
	n.mu.Lock()
	n.rave.Add(score)
	n.mu.Unlock()
}

// AddVirtualLoss/SubVirtualLoss bias concurrent selection away from a
// node currently being explored by another worker.
func (n *Node) AddVirtualLoss() {
	n.mu.Lock()
	n.exp.AddVirtualLoss(1)
	n.mu.Unlock()
}

func (n *Node) SubVirtualLoss() {
	n.mu.Lock()
	n.exp.SubVirtualLoss(1)
	n.mu.Unlock()
}

// Exp and Rave return copies of the accumulators.
func (n *Node) Exp() Stat {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.exp
}

func (n *Node) Rave() Stat {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rave
}

// Know returns the knowledge prior.
func (n *Node) Know() int32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.know
}

// AddKnow accumulates a knowledge term; called once per expansion, from
// a single writer, so a plain add under the lock is enough.
func (n *Node) AddKnow(delta int32) {
	n.mu.Lock()
	n.know += delta
	n.mu.Unlock()
}

// Outcome, Proofdepth and Bestmove return the proof-propagation state.
func (n *Node) Outcome() Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.outcome
}

func (n *Node) Proofdepth() uint8 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.proofdepth
}

func (n *Node) Bestmove() board.Move {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bestmove
}

// SetProven forces a decided outcome directly, used by macro-move
// expansion when an immediate tactical result is found rather than
// proven by backup from children.
func (n *Node) SetProven(o Outcome, proofdepth uint8, bestmove board.Move) {
	n.mu.Lock()
	n.outcome = o
	n.proofdepth = proofdepth
	n.bestmove = bestmove
	n.mu.Unlock()
}

// CAS atomically swaps the outcome from old to new, along with the
// accompanying proofdepth/bestmove, failing silently if another worker
// already moved the outcome on. Mirrors do_backup's compare-and-swap
// retry loop using the node's own mutex instead of a lock-free word.
func (n *Node) CAS(old, new Outcome, proofdepth uint8, bestmove board.Move) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.outcome != old {
		return false
	}
	n.outcome = new
	n.proofdepth = proofdepth
	n.bestmove = bestmove
	return true
}

// TryLockChildren attempts to acquire the single-writer expansion lock
// for this node's children block. A false return means another worker is
// expanding this node right now; the caller should back off and fall
// through to rollout instead.
func (n *Node) TryLockChildren() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.childrenLocked {
		return false
	}
	n.childrenLocked = true
	return true
}

// UnlockChildren releases the expansion lock. It is always called,
// whether expansion published children, proved the node outright, or
// aborted: the lock only ever protects the transition, never the
// steady-state "already has children" check a reader makes afterward.
func (n *Node) UnlockChildren() {
	n.mu.Lock()
	n.childrenLocked = false
	n.mu.Unlock()
}
