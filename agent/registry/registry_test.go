package registry

import (
	"sync"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adatrace/adatrace/agent/event"
	"github.com/adatrace/adatrace/agent/lane"
	"github.com/adatrace/adatrace/common/testutils"
)

func smallConfig(capacity uint32) Config {
	return Config{
		Capacity: capacity,
		IndexLane: lane.Config{
			RingCount: 2,
			RingBytes: 8*event.IndexEventSize + 256,
		},
		DetailLane: lane.Config{
			RingCount: 2,
			RingBytes: 4*event.DetailEventSize + 256,
		},
	}
}

func newTestRegistry(t *testing.T, capacity uint32) *Registry {
	t.Helper()

	cfg := smallConfig(capacity)
	a := testutils.NewArena(t, cfg.ArenaBytes())
	r, err := Init(a, cfg)
	require.NoError(t, err)
	return r
}

func TestInitMustBeFirstAllocation(t *testing.T) {
	a := testutils.NewArena(t, 4*datasize.MB)

	_, err := a.Bump(64, 64)
	require.NoError(t, err)

	_, err = Init(a, smallConfig(4))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRegisterFirstTouch(t *testing.T) {
	r := newTestRegistry(t, 4)

	ls, err := r.Register(1001)
	require.NoError(t, err)
	require.NotNil(t, ls)

	assert.Equal(t, uint64(1001), ls.ThreadID())
	assert.Zero(t, ls.Slot())
	assert.True(t, ls.Active())
	assert.NotZero(t, ls.RegisteredAt())
	assert.Equal(t, uint32(1), r.Count())

	assert.Equal(t, lane.Index, ls.IndexLane().Kind())
	assert.Equal(t, lane.Detail, ls.DetailLane().Kind())
	assert.Equal(t, uint32(event.IndexEventSize), ls.IndexLane().EventSize())
	assert.Equal(t, uint32(event.DetailEventSize), ls.DetailLane().EventSize())
}

func TestRegisterIdempotent(t *testing.T) {
	r := newTestRegistry(t, 4)

	first, err := r.Register(42)
	require.NoError(t, err)
	again, err := r.Register(42)
	require.NoError(t, err)

	// Same slot, same lanes, count untouched.
	assert.Equal(t, first.Slot(), again.Slot())
	assert.Equal(t, uint32(1), r.Count())

	// Writes through one handle are visible through the other.
	ev := event.IndexEvent{FunctionID: 7}
	require.True(t, first.IndexLane().Write(ev.Ptr()))
	assert.Equal(t, uint64(1), again.IndexLane().EventsWritten())
}

func TestRegisterInvalidTid(t *testing.T) {
	r := newTestRegistry(t, 4)
	_, err := r.Register(0)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCapacityExceeded(t *testing.T) {
	r := newTestRegistry(t, 2)

	_, err := r.Register(1)
	require.NoError(t, err)
	_, err = r.Register(2)
	require.NoError(t, err)

	_, err = r.Register(3)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, uint32(2), r.Count())
}

func TestUnregister(t *testing.T) {
	r := newTestRegistry(t, 4)

	ls, err := r.Register(10)
	require.NoError(t, err)

	r.Unregister(ls)
	assert.False(t, ls.Active())

	// The slot is not reclaimed; the same tid gets a fresh slot.
	again, err := r.Register(10)
	require.NoError(t, err)
	assert.NotEqual(t, ls.Slot(), again.Slot())

	// The drain still sees the dead slot and its leftovers.
	dead, err := r.GetAt(ls.Slot())
	require.NoError(t, err)
	require.NotNil(t, dead)
	assert.False(t, dead.Active())
}

func TestGetAt(t *testing.T) {
	r := newTestRegistry(t, 4)

	empty, err := r.GetAt(1)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = r.GetAt(100)
	assert.ErrorIs(t, err, ErrInvalid)

	ls, err := r.Register(5)
	require.NoError(t, err)

	got, err := r.GetAt(ls.Slot())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(5), got.ThreadID())
}

// Concurrent registrations land in distinct slots, and every thread gets a
// working lane set.
func TestRegisterConcurrent(t *testing.T) {
	const threads = 16
	r := newTestRegistry(t, threads)

	slots := make([]uint32, threads)
	var wg sync.WaitGroup
	for i := range threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ls, err := r.Register(uint64(i + 1))
			if err != nil {
				t.Error(err)
				return
			}
			ev := event.IndexEvent{ThreadID: uint32(i + 1)}
			if !ls.IndexLane().Write(ev.Ptr()) {
				t.Errorf("write failed for thread %d", i+1)
			}
			slots[i] = ls.Slot()
		}()
	}
	wg.Wait()

	seen := make(map[uint32]struct{}, threads)
	for _, s := range slots {
		_, dup := seen[s]
		assert.False(t, dup, "slot %d assigned twice", s)
		seen[s] = struct{}{}
	}
	assert.Equal(t, uint32(threads), r.Count())
}

// Cross-mapping attach: the consumer mapping walks the registry purely by
// offsets and reads back the producer's event bytes.
func TestAttachAcrossMappings(t *testing.T) {
	cfg := smallConfig(4)
	producerArena, consumerArena := testutils.ArenaPair(t, cfg.ArenaBytes())

	producer, err := Init(producerArena, cfg)
	require.NoError(t, err)

	ls, err := producer.Register(777)
	require.NoError(t, err)

	want := event.IndexEvent{
		TimestampNs: event.Now(),
		FunctionID:  0xFEED,
		ThreadID:    777,
		Kind:        event.KindCall,
		CallDepth:   3,
	}
	require.True(t, ls.IndexLane().Write(want.Ptr()))

	consumer, err := Attach(consumerArena)
	require.NoError(t, err)
	assert.Equal(t, producer.Capacity(), consumer.Capacity())
	assert.Equal(t, producer.Config(), consumer.Config())

	got, err := consumer.GetAt(ls.Slot())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(777), got.ThreadID())

	// The event is still in the producer's active ring; read it straight
	// out through the consumer mapping.
	r, err := got.IndexLane().RingAt(got.IndexLane().ActiveRingIdx())
	require.NoError(t, err)

	var ev event.IndexEvent
	require.True(t, r.Read(ev.Ptr()))
	assert.Equal(t, want, ev)
}

func TestAttachRejectsForeignArena(t *testing.T) {
	a := testutils.NewArena(t, datasize.MB)
	// Arena without a registry: first bytes past the header are zero.
	_, err := Attach(a)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestSlotCacheLineDiscipline(t *testing.T) {
	assert.Zero(t, slotSharedSize%cacheLine)
	assert.Zero(t, registrySharedSize%cacheLine)
}
