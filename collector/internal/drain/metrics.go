package drain

import (
	"math"
	"sync/atomic"
)

// metrics is the engine's internal counter block. Everything is a relaxed
// monotonic counter except fairnessIndex, which is a recomputed gauge.
type metrics struct {
	cyclesTotal atomic.Uint64
	cyclesIdle  atomic.Uint64

	ringsTotal  atomic.Uint64
	ringsIndex  atomic.Uint64
	ringsDetail atomic.Uint64

	eventsDrained atomic.Uint64
	bytesDrained  atomic.Uint64

	fairnessSwitches atomic.Uint64
	sleeps           atomic.Uint64
	yields           atomic.Uint64
	finalDrains      atomic.Uint64
	totalSleepUs     atomic.Uint64

	sinkFailures atomic.Uint64

	// Fair iterator.
	iterations          atomic.Uint64
	threadsProcessed    atomic.Uint64
	threadsSkipped      atomic.Uint64
	iterationDurationNs atomic.Uint64
	eventsPerSecond     atomic.Uint64
	bytesPerSecond      atomic.Uint64
	fairnessIndex       atomic.Uint64 // float64 bits
	maxThreadWaitNs     atomic.Uint64
	avgThreadWaitNs     atomic.Uint64

	// ringsPerThread[slot][lane] is sized at engine creation.
	ringsPerThread [][2]atomic.Uint64
}

func newMetrics(capacity uint32) *metrics {
	m := &metrics{
		ringsPerThread: make([][2]atomic.Uint64, capacity),
	}
	m.fairnessIndex.Store(math.Float64bits(1.0))
	return m
}

// Snapshot is a point-in-time copy of the drain metrics.
type Snapshot struct {
	CyclesTotal uint64
	CyclesIdle  uint64

	RingsTotal  uint64
	RingsIndex  uint64
	RingsDetail uint64

	EventsDrained uint64
	BytesDrained  uint64

	FairnessSwitches uint64
	Sleeps           uint64
	Yields           uint64
	FinalDrains      uint64
	TotalSleepUs     uint64

	SinkFailures uint64

	Iterations          uint64
	ThreadsProcessed    uint64
	ThreadsSkipped      uint64
	IterationDurationNs uint64
	EventsPerSecond     uint64
	BytesPerSecond      uint64
	FairnessIndex       float64
	MaxThreadWaitNs     uint64
	AvgThreadWaitNs     uint64

	RingsPerThread [][2]uint64
}

func (m *metrics) snapshot() Snapshot {
	s := Snapshot{
		CyclesTotal:         m.cyclesTotal.Load(),
		CyclesIdle:          m.cyclesIdle.Load(),
		RingsTotal:          m.ringsTotal.Load(),
		RingsIndex:          m.ringsIndex.Load(),
		RingsDetail:         m.ringsDetail.Load(),
		EventsDrained:       m.eventsDrained.Load(),
		BytesDrained:        m.bytesDrained.Load(),
		FairnessSwitches:    m.fairnessSwitches.Load(),
		Sleeps:              m.sleeps.Load(),
		Yields:              m.yields.Load(),
		FinalDrains:         m.finalDrains.Load(),
		TotalSleepUs:        m.totalSleepUs.Load(),
		SinkFailures:        m.sinkFailures.Load(),
		Iterations:          m.iterations.Load(),
		ThreadsProcessed:    m.threadsProcessed.Load(),
		ThreadsSkipped:      m.threadsSkipped.Load(),
		IterationDurationNs: m.iterationDurationNs.Load(),
		EventsPerSecond:     m.eventsPerSecond.Load(),
		BytesPerSecond:      m.bytesPerSecond.Load(),
		FairnessIndex:       math.Float64frombits(m.fairnessIndex.Load()),
		MaxThreadWaitNs:     m.maxThreadWaitNs.Load(),
		AvgThreadWaitNs:     m.avgThreadWaitNs.Load(),
		RingsPerThread:      make([][2]uint64, len(m.ringsPerThread)),
	}
	for i := range m.ringsPerThread {
		s.RingsPerThread[i][0] = m.ringsPerThread[i][0].Load()
		s.RingsPerThread[i][1] = m.ringsPerThread[i][1].Load()
	}
	return s
}

// jainIndex computes Jain's fairness index over per-thread event counts.
// 1.0 is perfect fairness; threads with zero events are excluded.
func jainIndex(counts []uint64) float64 {
	var n, sum, sumSq float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		x := float64(c)
		n++
		sum += x
		sumSq += x * x
	}
	if n == 0 || sumSq == 0 {
		return 1.0
	}
	return sum * sum / (n * sumSq)
}
