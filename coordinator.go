package havannah

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/hexmind/havannah/board"
	"github.com/hexmind/havannah/rollout"
	"github.com/hexmind/havannah/search"
	"github.com/hexmind/havannah/tree"
)

// Coordinator owns the root board, the search tree, a pool of persistent
// worker goroutines, the memory budget, and the run/GC state machine of
// spec §4.6. Workers are started once in NewCoordinator and parked until
// released; Genmove never spawns a goroutine per move, only a fresh
// "generation" the parked workers wake up to.
type Coordinator struct {
	mu         sync.Mutex
	cond       *sync.Cond
	generation uint64
	closed     bool
	closedWG   sync.WaitGroup

	roundWG        *sync.WaitGroup
	roundAbort     chan struct{}
	roundStopOnce  *sync.Once
	runCap         uint32
	timeoutFlag    int32 // atomic
	fatal          int32 // atomic

	panicsMu sync.Mutex
	panics   *multierror.Error

	gcBarrier   *cyclicBarrier
	gcLimit     float64
	gcLogVisits uint32

	Tree      *tree.Tree
	rootBoard *board.Board

	cfg     Config
	workers []*search.Worker
}

// NewCoordinator builds the arena, wires one search.Worker (with its own
// rollout.Engine and private RNG) per configured thread, and starts the
// persistent worker pool parked at generation 0.
func NewCoordinator(cfg Config, rootBoard *board.Board) *Coordinator {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.RootNoiseWeight != 0 {
		cfg.Search.RootNoiseWeight = cfg.RootNoiseWeight
	}
	t := tree.NewTree(cfg.MaxMem)
	t.SetRoot(t.New(board.MoveNone))

	c := &Coordinator{
		Tree:        t,
		rootBoard:   rootBoard.Clone(),
		cfg:         cfg,
		gcLimit:     cfg.GCLimitInit,
		gcLogVisits: cfg.GCLogVisits,
		gcBarrier:   newCyclicBarrier(cfg.Threads),
	}
	c.cond = sync.NewCond(&c.mu)

	for i := 0; i < cfg.Threads; i++ {
		roll := rollout.NewEngine(cfg.Rollout, rootBoard.Size(), newRand(int64(i)*2+1))
		w := search.NewWorker(t, cfg.Search, newRand(int64(i)*2+2), roll, cfg.Solver)
		c.workers = append(c.workers, w)
	}

	c.closedWG.Add(cfg.Threads)
	for i := range c.workers {
		go c.workerLoop(i)
	}
	return c
}

// workerLoop is the persistent per-thread state machine of spec §4.6:
// Wait_Start parks on a generation change, Running executes iterations
// until shouldStop fires, Wait_End rejoins Wait_Start by looping back to
// the top. GC is handled inline inside runRound via the gc barrier.
func (c *Coordinator) workerLoop(idx int) {
	defer c.closedWG.Done()
	var myGen uint64
	for {
		c.mu.Lock()
		for c.generation == myGen && !c.closed {
			c.cond.Wait()
		}
		if c.closed {
			c.mu.Unlock()
			return
		}
		myGen = c.generation
		wg := c.roundWG
		abort := c.roundAbort
		c.mu.Unlock()

		c.runRound(idx, abort)
		wg.Done()
	}
}

func (c *Coordinator) runRound(idx int, abort <-chan struct{}) {
	w := c.workers[idx]
	var count uint32
	for {
		if c.shouldStop(count) {
			// Leaving the round for good: the gc barrier must stop
			// counting this worker towards its rendezvous target, or a
			// sibling parked in OverBudget's Wait could block forever.
			c.gcBarrier.Leave(c.performGC)
			return
		}
		if c.Tree.OverBudget() {
			c.gcBarrier.Wait(c.performGC, abort)
			continue
		}
		if _, err := c.safeRunIteration(w); err != nil {
			c.gcBarrier.Leave(c.performGC)
			return
		}
		count++
	}
}

func (c *Coordinator) shouldStop(count uint32) bool {
	if atomic.LoadInt32(&c.timeoutFlag) != 0 {
		return true
	}
	if atomic.LoadInt32(&c.fatal) != 0 {
		return true
	}
	if c.runCap > 0 && count >= c.runCap {
		return true
	}
	return c.Tree.Node(c.Tree.Root()).Outcome().Proven()
}

// safeRunIteration contains a panic to this one worker's current
// iteration (spec §7: "a panic inside a worker must terminate all
// workers and surface to the controller — never silently"). Recovering
// here, rather than letting the goroutine die, keeps the worker pool
// intact for the next genmove call once the caller has seen the error.
func (c *Coordinator) safeRunIteration(w *search.Worker) (result float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			atomic.StoreInt32(&c.fatal, 1)
			c.recordPanic(errors.Errorf("havannah: worker panic: %v", r))
		}
	}()
	result, err = w.RunIteration(c.rootBoard)
	if err != nil {
		atomic.StoreInt32(&c.fatal, 1)
		c.recordPanic(errors.WithStack(err))
	}
	return result, err
}

func (c *Coordinator) recordPanic(err error) {
	c.panicsMu.Lock()
	c.panics = multierror.Append(c.panics, err)
	c.panicsMu.Unlock()
}

func (c *Coordinator) drainPanics() error {
	c.panicsMu.Lock()
	defer c.panicsMu.Unlock()
	err := c.panics.ErrorOrNil()
	c.panics = nil
	atomic.StoreInt32(&c.fatal, 0)
	return err
}

// startRound bumps the generation, wakes every parked worker, and
// returns the WaitGroup the caller awaits for every worker to reach
// Wait_End. cap of 0 means unbounded (the round only ends via timeout,
// a proven root, or a worker panic) — used for pondering.
func (c *Coordinator) startRound(runCap uint32) (*sync.WaitGroup, chan struct{}) {
	// Every persistent worker rejoins this round regardless of how many
	// Left the gc barrier early in the previous one.
	c.gcBarrier.Reset(c.cfg.Threads)

	c.mu.Lock()
	c.generation++
	wg := &sync.WaitGroup{}
	wg.Add(c.cfg.Threads)
	abort := make(chan struct{})
	c.roundWG = wg
	c.roundAbort = abort
	c.roundStopOnce = &sync.Once{}
	c.runCap = runCap
	atomic.StoreInt32(&c.timeoutFlag, 0)
	c.cond.Broadcast()
	c.mu.Unlock()
	return wg, abort
}

// stopRound sets the timeout flag every worker checks at the top of its
// iteration loop and releases anyone parked mid-GC-rendezvous.
func (c *Coordinator) stopRound() {
	atomic.StoreInt32(&c.timeoutFlag, 1)
	c.mu.Lock()
	once := c.roundStopOnce
	abort := c.roundAbort
	c.mu.Unlock()
	if once == nil {
		return
	}
	once.Do(func() { close(abort) })
}

// interruptPondering stops and waits out any background pondering round
// left running from a previous Genmove call. A no-op before the first
// call, and a near-instant no-op if no round is currently live.
func (c *Coordinator) interruptPondering() {
	c.mu.Lock()
	wg := c.roundWG
	c.mu.Unlock()
	if wg == nil {
		return
	}
	c.stopRound()
	wg.Wait()
}

// Genmove runs one timed search round (spec §4.6's genmove(time,
// max_runs)), then returns the selected move, its principal variation,
// and a per-child statistics snapshot. If Config.Ponder is set and the
// root is still unproven, a new unbounded round is started in the
// background before returning — the next Genmove or Close call
// interrupts it.
func (c *Coordinator) Genmove(ctx context.Context, timeBudget time.Duration, maxRuns uint32) (board.Move, []board.Move, []ChildStat, error) {
	c.interruptPondering()
	if err := c.drainPanics(); err != nil {
		return board.MoveNone, nil, nil, err
	}

	runCap := maxRuns
	if runCap == 0 {
		runCap = c.cfg.MaxRuns
	}
	wg, abort := c.startRound(runCap)

	timer := time.NewTimer(timeBudget)
	defer timer.Stop()
	go func() {
		select {
		case <-timer.C:
			c.stopRound()
		case <-ctx.Done():
			c.stopRound()
		case <-abort:
		}
	}()
	wg.Wait()

	if err := c.drainPanics(); err != nil {
		return board.MoveNone, nil, nil, err
	}

	root := c.Tree.Root()
	toplay := c.rootBoard.Toplay()
	stats := childStats(c.Tree, root)

	best := selectBestChild(c.Tree, root, toplay, c.cfg.MSExplore, c.cfg.MSRave)
	if best == tree.NilNode {
		return board.MoveNone, nil, stats, nil
	}
	move := c.Tree.Node(best).Move()
	pv := principalVariation(c.Tree, root, c.rootBoard, c.cfg.MSExplore, c.cfg.MSRave)

	if c.cfg.Ponder && !c.Tree.Node(root).Outcome().Proven() {
		c.startRound(0)
	}
	return move, pv, stats, nil
}

// Advance plays move onto the tracked root board and moves the tree's
// root down to the matching child, reusing whatever subtree search has
// already built there and discarding every sibling line. A move with no
// existing child (e.g. resuming from a position this tree never
// explored) gets a fresh, statless root node.
func (c *Coordinator) Advance(move board.Move) error {
	c.interruptPondering()

	toplay := c.rootBoard.Toplay()
	if err := c.rootBoard.Play(move, toplay); err != nil {
		return err
	}

	root := c.Tree.Root()
	next := tree.NilNode
	for _, kid := range c.Tree.Children(root) {
		if c.Tree.Node(kid).Move() == move {
			next = kid
		} else {
			c.freeSubtree(kid)
		}
	}
	if next == tree.NilNode {
		next = c.Tree.New(move)
	}
	c.Tree.Dealloc([]tree.NodeID{root})
	c.Tree.SetRoot(next)

	if c.cfg.DecrRave != 0 && c.cfg.DecrRave != 1 {
		c.cfg.Search.RaveFactor *= c.cfg.DecrRave
		for _, w := range c.workers {
			w.Cfg.RaveFactor = c.cfg.Search.RaveFactor
		}
	}
	return nil
}

// Stats returns a per-child statistics snapshot for the current root,
// satisfying §6's controller contract outside of a Genmove call too
// (e.g. for a ponder-miss report).
func (c *Coordinator) Stats() []ChildStat {
	return childStats(c.Tree, c.Tree.Root())
}

// Close stops every worker goroutine permanently and returns any error
// collected from a worker panic that no Genmove call has drained yet.
func (c *Coordinator) Close() error {
	c.interruptPondering()
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.cond.Broadcast()
	c.mu.Unlock()
	c.closedWG.Wait()
	return c.drainPanics()
}

// performGC is the gc barrier's action: the single worker that completed
// the rendezvous runs the depth-first sweep of spec §4.6 synchronously
// while every other worker is blocked waiting on the same barrier, which
// is exactly the "co-operative stop-the-world" quiescence tree.Compact
// requires.
func (c *Coordinator) performGC() {
	if c.cfg.Logger != nil {
		c.cfg.Logger.Printf("havannah: gc start mem=%d/%d gc_limit=%.1f", c.Tree.MemUsed(), c.Tree.MaxMem(), c.gcLimit)
	}
	c.gcWalk(c.Tree.Root())
	c.Tree.Compact()
	if float64(c.Tree.MemUsed()) >= 0.5*float64(c.Tree.MaxMem()) {
		c.gcLimit *= 1.3
	} else {
		c.gcLimit = math.Max(5, c.gcLimit*0.9)
	}
	if c.cfg.Logger != nil {
		c.cfg.Logger.Printf("havannah: gc end mem=%d/%d gc_limit=%.1f", c.Tree.MemUsed(), c.Tree.MaxMem(), c.gcLimit)
	}
}

// gcWalk frees every child of node that is either decided (any outcome
// other than unknown, partial ones included) or unproven with too few
// visits to be worth keeping, and recurses into whatever survives. A
// freed child is dropped from node's children together with its
// subtree, its stats and its outcome.
func (c *Coordinator) gcWalk(node tree.NodeID) {
	kids := c.Tree.Children(node)
	kept := kids[:0:0]
	for _, kid := range kids {
		n := c.Tree.Node(kid)
		switch {
		case n.Outcome().Decided():
			if n.Exp().Visits() > c.gcLogVisits && c.cfg.Logger != nil {
				c.cfg.Logger.Printf("havannah: gc freeing solved node move=%v visits=%d outcome=%v",
					n.Move(), n.Exp().Visits(), n.Outcome())
			}
			c.freeSubtree(kid)
		case n.Exp().Visits() < uint32(c.gcLimit):
			c.freeSubtree(kid)
		default:
			kept = append(kept, kid)
			c.gcWalk(kid)
		}
	}
	c.Tree.PublishChildren(node, kept)
}

func (c *Coordinator) freeSubtree(id tree.NodeID) {
	kids := c.Tree.Children(id)
	for _, kid := range kids {
		c.freeSubtree(kid)
	}
	if len(kids) > 0 {
		c.Tree.PublishChildren(id, nil)
	}
	c.Tree.Dealloc([]tree.NodeID{id})
}
