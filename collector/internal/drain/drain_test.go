package drain

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/adatrace/adatrace/agent/event"
	"github.com/adatrace/adatrace/agent/lane"
	"github.com/adatrace/adatrace/agent/registry"
	"github.com/adatrace/adatrace/agent/ring"
	"github.com/adatrace/adatrace/common/testutils"
)

const testRingSlots = 8 // events per ring; 7 usable

func testRegistryConfig(capacity uint32) registry.Config {
	return registry.Config{
		Capacity: capacity,
		IndexLane: lane.Config{
			RingCount: 4,
			RingBytes: testRingSlots*event.IndexEventSize + 256,
		},
		DetailLane: lane.Config{
			RingCount: 2,
			RingBytes: testRingSlots*event.DetailEventSize + 256,
		},
	}
}

func newTestRegistry(t *testing.T, capacity uint32) *registry.Registry {
	t.Helper()

	cfg := testRegistryConfig(capacity)
	a := testutils.NewArena(t, cfg.ArenaBytes())
	r, err := registry.Init(a, cfg)
	require.NoError(t, err)
	return r
}

func newTestEngine(t *testing.T, reg *registry.Registry, cfg Config, opts ...Option) *Engine {
	t.Helper()

	opts = append([]Option{WithLog(zaptest.NewLogger(t).Sugar())}, opts...)
	e, err := New(reg, cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Destroy() })
	return e
}

// fillRings makes the producer submit exactly n index-lane rings by
// writing full-ring batches.
func fillRings(t *testing.T, ls *registry.LaneSet, n int) {
	t.Helper()
	for range n {
		for i := range testRingSlots {
			ev := event.IndexEvent{FunctionID: uint64(i)}
			require.True(t, ls.IndexLane().Write(ev.Ptr()))
		}
	}
}

func TestLifecycle(t *testing.T) {
	reg := newTestRegistry(t, 4)
	e := newTestEngine(t, reg, DefaultConfig())

	assert.Equal(t, StateInitialized, e.State())

	require.NoError(t, e.Start())
	assert.Equal(t, StateRunning, e.State())

	assert.ErrorIs(t, e.Start(), ErrAlreadyStarted)

	require.NoError(t, e.Stop())
	assert.Equal(t, StateStopped, e.State())

	// Stop is idempotent.
	require.NoError(t, e.Stop())

	// A stopped engine can be restarted.
	require.NoError(t, e.Start())
	require.NoError(t, e.Stop())
}

func TestUpdateConfig(t *testing.T) {
	reg := newTestRegistry(t, 4)
	e := newTestEngine(t, reg, DefaultConfig())

	cfg := DefaultConfig()
	cfg.MaxBatchSize = 2
	require.NoError(t, e.UpdateConfig(cfg))

	require.NoError(t, e.Start())
	assert.ErrorIs(t, e.UpdateConfig(cfg), ErrBusy)
	require.NoError(t, e.Stop())

	require.NoError(t, e.UpdateConfig(cfg))

	t.Run("rejects bad config", func(t *testing.T) {
		bad := DefaultConfig()
		bad.FairMode = "banana"
		assert.Error(t, e.UpdateConfig(bad))
	})
}

func TestDrainsSubmittedRings(t *testing.T) {
	reg := newTestRegistry(t, 4)

	ls, err := reg.Register(100)
	require.NoError(t, err)

	fillRings(t, ls, 2)
	require.Equal(t, uint32(2), ls.IndexLane().SubmitLen())

	e := newTestEngine(t, reg, DefaultConfig())
	require.NoError(t, e.Start())

	require.Eventually(t, func() bool {
		return e.Metrics().RingsTotal >= 2
	}, 2*time.Second, time.Millisecond)

	require.NoError(t, e.Stop())

	m := e.Metrics()
	assert.Equal(t, uint64(2), m.RingsIndex)
	assert.Zero(t, m.RingsDetail)
	assert.Equal(t, uint64(2), m.RingsPerThread[ls.Slot()][lane.Index])
	assert.GreaterOrEqual(t, m.EventsDrained, uint64(2*(testRingSlots-1)))

	// Every ring is back in circulation.
	assert.Zero(t, ls.IndexLane().SubmitLen())
	assert.Equal(t, ls.IndexLane().RingCount()-1,
		ls.IndexLane().FreeLen()+ls.IndexLane().SubmitLen())
}

// Scenario: final drain on shutdown. Rings submitted while the drain is
// running are all persisted by Stop, and afterwards every take comes back
// empty.
func TestFinalDrainOnStop(t *testing.T) {
	reg := newTestRegistry(t, 4)

	ls, err := reg.Register(7)
	require.NoError(t, err)

	e := newTestEngine(t, reg, DefaultConfig())
	require.NoError(t, e.Start())

	// 6 submitted rings: 3 per fill wave, the engine may be draining
	// concurrently.
	fillRings(t, ls, 3)
	fillRings(t, ls, 3)

	require.NoError(t, e.Stop())

	m := e.Metrics()
	assert.Equal(t, uint64(6), m.RingsTotal)
	assert.GreaterOrEqual(t, m.FinalDrains, uint64(1))

	_, ok := ls.IndexLane().TakeRing()
	assert.False(t, ok, "no ring may remain submitted after the final drain")
	_, ok = ls.DetailLane().TakeRing()
	assert.False(t, ok)
}

func TestSinkErrorsDoNotStall(t *testing.T) {
	reg := newTestRegistry(t, 4)

	ls, err := reg.Register(3)
	require.NoError(t, err)
	fillRings(t, ls, 3)

	e := newTestEngine(t, reg, DefaultConfig(), WithSink(failingSink{}))
	require.NoError(t, e.Start())
	require.NoError(t, e.Stop())

	m := e.Metrics()
	assert.Equal(t, uint64(3), m.RingsTotal, "rings are drained despite sink failures")
	assert.Equal(t, uint64(3), m.SinkFailures)

	// And returned: the free pool is whole again.
	assert.Equal(t, ls.IndexLane().RingCount()-1, ls.IndexLane().FreeLen())
}

// Repeated start/stop under producer load never leaks a ring out of the
// submit+free+active accounting.
func TestStartStopUnderLoad(t *testing.T) {
	reg := newTestRegistry(t, 4)

	ls, err := reg.Register(55)
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(0); ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			ev := event.IndexEvent{FunctionID: i}
			ls.IndexLane().Write(ev.Ptr())
		}
	}()

	e := newTestEngine(t, reg, DefaultConfig())
	for range 10 {
		require.NoError(t, e.Start())
		time.Sleep(5 * time.Millisecond)
		require.NoError(t, e.Stop())
	}

	close(stop)
	wg.Wait()

	// Producer quiescent: the pool conservation law must hold.
	ln := ls.IndexLane()
	assert.Equal(t, ln.RingCount(), ln.SubmitLen()+ln.FreeLen()+1)
}

func TestSetSinkSwapsMidSession(t *testing.T) {
	reg := newTestRegistry(t, 4)

	ls, err := reg.Register(21)
	require.NoError(t, err)
	fillRings(t, ls, 1)

	e := newTestEngine(t, reg, DefaultConfig())

	// First ring goes to the failing sink, the rest to the null sink.
	e.SetSink(failingSink{})
	require.NoError(t, e.Start())
	require.Eventually(t, func() bool {
		return e.Metrics().SinkFailures >= 1
	}, 2*time.Second, time.Millisecond)

	e.SetSink(nil) // resets to the null sink
	fillRings(t, ls, 1)
	require.NoError(t, e.Stop())

	m := e.Metrics()
	assert.Equal(t, uint64(2), m.RingsTotal)
	assert.Equal(t, uint64(1), m.SinkFailures)
}

func TestIdleMetering(t *testing.T) {
	reg := newTestRegistry(t, 2)

	cfg := DefaultConfig()
	cfg.PollInterval = 200 * time.Microsecond

	e := newTestEngine(t, reg, cfg)
	require.NoError(t, e.Start())
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.Stop())

	m := e.Metrics()
	assert.Greater(t, m.CyclesIdle, uint64(0))
	assert.Greater(t, m.Sleeps, uint64(0))
	assert.Greater(t, m.Yields, uint64(0))
	assert.Greater(t, m.TotalSleepUs, uint64(0))
}

// Many producers at full speed against a live drain: every single write
// call is accounted for as either accepted or overflowed, and nothing
// crashes or leaks a ring.
func TestProducerAccounting(t *testing.T) {
	const (
		threads         = 8
		writesPerThread = 20000
	)

	reg := newTestRegistry(t, threads)
	e := newTestEngine(t, reg, DefaultConfig())
	require.NoError(t, e.Start())

	sets := make([]*registry.LaneSet, threads)
	var wg sync.WaitGroup
	for i := range threads {
		ls, err := reg.Register(uint64(5000 + i))
		require.NoError(t, err)
		sets[i] = ls

		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := uint64(0); n < writesPerThread; n++ {
				ev := event.IndexEvent{FunctionID: n, ThreadID: uint32(i)}
				ls.IndexLane().Write(ev.Ptr())
			}
		}()
	}
	wg.Wait()

	require.NoError(t, e.Stop())

	for i, ls := range sets {
		ln := ls.IndexLane()
		assert.Equal(t, uint64(writesPerThread), ln.EventsWritten()+ln.OverflowCount(),
			"thread %d lost track of writes", i)
		assert.Equal(t, ln.RingCount(), ln.SubmitLen()+ln.FreeLen()+1,
			"thread %d leaked a ring", i)
	}
}

type failingSink struct{}

func (failingSink) Submit(uint32, lane.Kind, *ring.Ring) error { return errors.New("disk on fire") }
func (failingSink) Flush() error                               { return nil }
func (failingSink) Finalize() error                            { return nil }
