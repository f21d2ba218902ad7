package drain

import (
	"math"
	"sync/atomic"

	"github.com/adatrace/adatrace/agent/event"
	"github.com/adatrace/adatrace/agent/lane"
	"github.com/adatrace/adatrace/agent/registry"
)

// schedState is the fair iterator's internal state.
type schedState int32

const (
	schedActive schedState = iota
	// schedDraining requests one final accounting iteration on shutdown.
	schedDraining
)

// scheduler holds the fair iterator's per-thread bookkeeping. Owned by the
// drain worker; only the state flag is touched from outside.
type scheduler struct {
	mode  FairMode
	state atomic.Int32

	// credits and the selection rule implement weighted fair queueing:
	// among pending threads, pick the one with the smallest
	// credits/pending ratio, then charge it a fixed increment.
	credits []uint64
	// eventsDrained accumulates per-thread drained events, the input to
	// Jain's index.
	eventsDrained []uint64
	// lastVisit is the monotonic timestamp of each thread's last visit,
	// for the wait metrics.
	lastVisit []uint64

	rrLastSelected uint32
	iterations     uint64
}

const creditIncrement = 16

func newScheduler(capacity uint32, mode FairMode) *scheduler {
	return &scheduler{
		mode:          mode,
		credits:       make([]uint64, capacity),
		eventsDrained: make([]uint64, capacity),
		lastVisit:     make([]uint64, capacity),
	}
}

func (s *scheduler) setDraining() {
	s.state.Store(int32(schedDraining))
}

func (s *scheduler) draining() bool {
	return schedState(s.state.Load()) == schedDraining
}

// pendingThread describes one thread with submitted rings waiting.
type pendingThread struct {
	slot    uint32
	ls      *registry.LaneSet
	pending uint32
}

// fairIteration runs one pass of the fair per-thread iterator. Returns
// true if at least one ring was drained.
func (e *Engine) fairIteration(cfg Config) bool {
	s := e.sched
	start := event.Now()
	s.iterations++
	e.m.iterations.Add(1)

	// Collect threads with pending work.
	capacity := e.reg.Capacity()
	pending := make([]pendingThread, 0, capacity)
	for slot := uint32(0); slot < capacity; slot++ {
		ls := e.laneSet(slot)
		if ls == nil {
			continue
		}
		if n := ls.PendingRings(); n > 0 {
			pending = append(pending, pendingThread{slot: slot, ls: ls, pending: n})
		}
	}

	if len(pending) == 0 {
		return false
	}

	// Wait metrics over the threads that had work queued.
	var maxWait, sumWait uint64
	for _, p := range pending {
		if s.lastVisit[p.slot] == 0 {
			continue
		}
		wait := start - s.lastVisit[p.slot]
		sumWait += wait
		if wait > maxWait {
			maxWait = wait
		}
	}
	e.m.maxThreadWaitNs.Store(maxWait)
	e.m.avgThreadWaitNs.Store(sumWait / uint64(len(pending)))

	budget := cfg.MaxThreadsPerCycle
	if budget == 0 || budget > uint32(len(pending)) {
		budget = uint32(len(pending))
	}
	skipped := uint32(len(pending)) - budget
	e.m.threadsSkipped.Add(uint64(skipped))

	bytesBefore := e.m.bytesDrained.Load()
	var iterEvents uint64
	worked := false

	for range budget {
		i := s.selectNext(pending)
		p := pending[i]
		pending = append(pending[:i], pending[i+1:]...)

		s.credits[p.slot] += creditIncrement
		s.lastVisit[p.slot] = event.Now()
		e.m.threadsProcessed.Add(1)

		events := e.drainThread(cfg, p)
		if events > 0 {
			worked = true
		}
		s.eventsDrained[p.slot] += events
		iterEvents += events
	}
	iterBytes := e.m.bytesDrained.Load() - bytesBefore

	// Health metric: recomputed on the first iteration, every 100th, and
	// once more on the shutdown iteration.
	if s.iterations == 1 || s.iterations%100 == 0 || s.draining() {
		e.m.fairnessIndex.Store(math.Float64bits(jainIndex(s.eventsDrained)))
	}

	duration := event.Now() - start
	e.m.iterationDurationNs.Store(duration)
	if duration > 0 {
		e.m.eventsPerSecond.Store(iterEvents * 1e9 / duration)
		e.m.bytesPerSecond.Store(iterBytes * 1e9 / duration)
	}

	return worked
}

// selectNext picks the next thread among pending ones according to the
// configured rule and returns its position in the slice.
func (s *scheduler) selectNext(pending []pendingThread) int {
	if s.mode == FairModeRoundRobin {
		// First pending slot strictly after the last selected one,
		// wrapping around.
		best := 0
		for i, p := range pending {
			if p.slot > s.rrLastSelected {
				best = i
				break
			}
		}
		s.rrLastSelected = pending[best].slot
		return best
	}

	// Weighted fair: smallest credits/pending ratio. Compared as cross
	// products to stay in integers.
	best := 0
	for i := 1; i < len(pending); i++ {
		a, b := pending[i], pending[best]
		if s.credits[a.slot]*uint64(b.pending) < s.credits[b.slot]*uint64(a.pending) {
			best = i
		}
	}
	return best
}

// drainThread drains one thread's lanes up to the per-visit event budget.
func (e *Engine) drainThread(cfg Config, p pendingThread) uint64 {
	var events uint64
	for _, ln := range []*lane.Lane{p.ls.IndexLane(), p.ls.DetailLane()} {
		for {
			if cfg.MaxEventsPerThread != 0 && events >= uint64(cfg.MaxEventsPerThread) {
				e.m.fairnessSwitches.Add(1)
				return events
			}
			idx, ok := ln.TakeRing()
			if !ok {
				break
			}
			events += e.persistAndReturn(p.slot, ln, idx)
		}
	}
	return events
}
