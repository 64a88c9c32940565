package havannah

import "sync"

// cyclicBarrier is a reusable rendezvous point for a dynamic set of
// participants. Workers join by calling Wait; the arrival that brings
// the waiting count up to the current target runs action synchronously
// before releasing everyone else blocked in Wait, then the barrier
// resets for its next use — the shape spec §4.6's "gc" barrier needs
// ("all workers rendezvous on gc; the last arrival performs garbage
// collection synchronously, then wakes via gc again").
//
// A worker that is leaving its round for good (run cap reached, root
// proven, a panic, or the round's timeout) without another Wait call
// ahead of it must call Leave instead of simply returning: Leave drops
// the target by one so the remaining participants' rendezvous doesn't
// wait forever on a worker that will never arrive. If dropping the
// target completes a pending rendezvous, Leave runs action itself and
// releases the waiters — always safe, since by construction the
// departing worker is done running iterations for this round.
type cyclicBarrier struct {
	mu      sync.Mutex
	target  int
	count   int
	release chan struct{}
}

func newCyclicBarrier(n int) *cyclicBarrier {
	return &cyclicBarrier{target: n, release: make(chan struct{})}
}

// Wait blocks until target goroutines have called Wait, or abort fires
// first. The goroutine that completes the rendezvous runs action
// (which may be nil) before releasing the others.
func (b *cyclicBarrier) Wait(action func(), abort <-chan struct{}) bool {
	b.mu.Lock()
	b.count++
	if b.count >= b.target {
		b.fire(action)
		return true
	}
	release := b.release
	b.mu.Unlock()

	select {
	case <-release:
		return true
	case <-abort:
		return false
	}
}

// Leave permanently removes one participant from the barrier's target
// for the remainder of its current cycle. If every remaining
// participant is already waiting, this departure completes the
// rendezvous and releases them.
func (b *cyclicBarrier) Leave(action func()) {
	b.mu.Lock()
	if b.target > 0 {
		b.target--
	}
	if b.count > 0 && b.count >= b.target {
		b.fire(action)
		return
	}
	b.mu.Unlock()
}

// Reset restores the barrier's target for its next round of use — every
// persistent worker rejoins each round regardless of how many left the
// previous one early via Leave.
func (b *cyclicBarrier) Reset(n int) {
	b.mu.Lock()
	b.target = n
	b.count = 0
	b.mu.Unlock()
}

// fire must be called with b.mu held; it releases the lock itself. It
// runs action, resets count, and wakes every current waiter.
func (b *cyclicBarrier) fire(action func()) {
	b.count = 0
	if action != nil {
		action()
	}
	old := b.release
	b.release = make(chan struct{})
	b.mu.Unlock()
	close(old)
}
