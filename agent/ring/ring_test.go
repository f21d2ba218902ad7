package ring

import (
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adatrace/adatrace/agent/event"
)

func newTestRing(t *testing.T, slots, eventSize uint32) *Ring {
	t.Helper()

	mem := make([]byte, SizeFor(slots, eventSize))
	r, err := Init(unsafe.Pointer(&mem[0]), uint32(len(mem)), eventSize)
	require.NoError(t, err)
	require.Equal(t, slots, r.Capacity())
	return r
}

func TestInitCapacity(t *testing.T) {
	tests := []struct {
		name      string
		size      uint32
		eventSize uint32
		capacity  uint32
		err       error
	}{
		{"exact power of two", HeaderSize + 8*32, 32, 8, nil},
		{"rounds down", HeaderSize + 13*32, 32, 8, nil},
		{"minimum", HeaderSize + 2*32, 32, 2, nil},
		{"below minimum", HeaderSize + 1*32, 32, 0, ErrTooSmall},
		{"no payload", HeaderSize, 32, 0, ErrTooSmall},
		{"zero event size", HeaderSize + 64, 0, 0, ErrTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := make([]byte, max(tt.size, 1))
			r, err := Init(unsafe.Pointer(&mem[0]), tt.size, tt.eventSize)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.capacity, r.Capacity())
			assert.True(t, r.IsEmpty())
			assert.False(t, r.IsFull())
		})
	}
}

func TestAttach(t *testing.T) {
	mem := make([]byte, SizeFor(8, event.IndexEventSize))

	_, err := Init(unsafe.Pointer(&mem[0]), uint32(len(mem)), event.IndexEventSize)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		r, err := Attach(unsafe.Pointer(&mem[0]), event.IndexEventSize)
		require.NoError(t, err)
		assert.Equal(t, uint32(8), r.Capacity())
	})

	t.Run("event size mismatch", func(t *testing.T) {
		_, err := Attach(unsafe.Pointer(&mem[0]), event.DetailEventSize)
		assert.ErrorIs(t, err, ErrBadVersion)
	})

	t.Run("bad magic", func(t *testing.T) {
		junk := make([]byte, len(mem))
		_, err := Attach(unsafe.Pointer(&junk[0]), event.IndexEventSize)
		assert.ErrorIs(t, err, ErrBadMagic)
	})
}

// The cursors must sit on distinct cache lines; this is a layout contract,
// not an optimization to be left to luck.
func TestHeaderCacheLineDiscipline(t *testing.T) {
	writeOff := unsafe.Offsetof(Header{}.writePos)
	readOff := unsafe.Offsetof(Header{}.readPos)
	overflowOff := unsafe.Offsetof(Header{}.overflow)

	assert.Zero(t, writeOff%CacheLine)
	assert.Zero(t, readOff%CacheLine)
	assert.Zero(t, overflowOff%CacheLine)
	assert.NotEqual(t, writeOff/CacheLine, readOff/CacheLine)
	assert.Zero(t, uintptr(HeaderSize)%CacheLine)
}

func TestWriteReadRoundTrip(t *testing.T) {
	r := newTestRing(t, 16, event.IndexEventSize)

	// capacity-1 events fit; contents and order must survive.
	written := make([]event.IndexEvent, 0, 15)
	for i := range 15 {
		ev := event.IndexEvent{
			TimestampNs: uint64(1000 + i),
			FunctionID:  uint64(i),
			ThreadID:    7,
			Kind:        event.KindCall,
			CallDepth:   uint32(i),
		}
		require.True(t, r.Write(ev.Ptr()))
		written = append(written, ev)
	}

	assert.True(t, r.IsFull())
	assert.Equal(t, uint32(15), r.AvailableRead())
	assert.Zero(t, r.AvailableWrite())

	var got []event.IndexEvent
	var ev event.IndexEvent
	for r.Read(ev.Ptr()) {
		got = append(got, ev)
	}

	if diff := cmp.Diff(written, got); diff != "" {
		t.Fatalf("events mutated in transit (-want +got):\n%s", diff)
	}
	assert.True(t, r.IsEmpty())
}

func TestWriteFullDropsAndCounts(t *testing.T) {
	r := newTestRing(t, 2, event.IndexEventSize)

	var ev event.IndexEvent
	require.True(t, r.Write(ev.Ptr()))
	assert.True(t, r.IsFull())

	// Every rejected write bumps the overflow counter exactly once.
	for i := range uint64(5) {
		assert.False(t, r.Write(ev.Ptr()))
		assert.Equal(t, i+1, r.OverflowCount())
	}

	// Draining one slot makes the ring writable again; the counter never
	// goes back down.
	require.True(t, r.Read(ev.Ptr()))
	assert.True(t, r.Write(ev.Ptr()))
	assert.Equal(t, uint64(5), r.OverflowCount())
}

func TestReadBatch(t *testing.T) {
	r := newTestRing(t, 8, event.IndexEventSize)

	for i := range 5 {
		ev := event.IndexEvent{FunctionID: uint64(i)}
		require.True(t, r.Write(ev.Ptr()))
	}

	dst := make([]event.IndexEvent, 8)

	assert.Equal(t, uint32(3), r.ReadBatch(unsafe.Pointer(&dst[0]), 3))
	assert.Equal(t, uint64(0), dst[0].FunctionID)
	assert.Equal(t, uint64(2), dst[2].FunctionID)

	// Early exit on empty.
	assert.Equal(t, uint32(2), r.ReadBatch(unsafe.Pointer(&dst[0]), 8))
	assert.Zero(t, r.ReadBatch(unsafe.Pointer(&dst[0]), 8))
}

func TestReset(t *testing.T) {
	r := newTestRing(t, 4, event.IndexEventSize)

	var ev event.IndexEvent
	require.True(t, r.Write(ev.Ptr()))
	require.True(t, r.Write(ev.Ptr()))
	r.hdr.overflow.Add(3)

	r.Reset()

	assert.True(t, r.IsEmpty())
	assert.Zero(t, r.AvailableRead())
	// Overflow is a session counter, not ring state; Reset keeps it.
	assert.Equal(t, uint64(3), r.OverflowCount())
}

func TestWrapAround(t *testing.T) {
	r := newTestRing(t, 4, event.IndexEventSize)

	var out event.IndexEvent
	next := uint64(0)
	for range 100 {
		ev := event.IndexEvent{FunctionID: next}
		require.True(t, r.Write(ev.Ptr()))
		require.True(t, r.Read(out.Ptr()))
		assert.Equal(t, next, out.FunctionID)
		next++
	}
}

// One producer, one consumer, full speed: every event arrives intact and in
// order, and accepted+rejected accounts for every write call.
func TestConcurrentSPSC(t *testing.T) {
	r := newTestRing(t, 64, event.IndexEventSize)

	const total = 100000

	var accepted, rejected uint64
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := range uint64(total) {
			ev := event.IndexEvent{FunctionID: i}
			if r.Write(ev.Ptr()) {
				accepted++
			} else {
				rejected++
			}
		}
	}()

	var got []uint64
	var ev event.IndexEvent
	producerDone := false
	for {
		if r.Read(ev.Ptr()) {
			got = append(got, ev.FunctionID)
			continue
		}
		if producerDone {
			break
		}
		select {
		case <-done:
			producerDone = true
		default:
		}
	}

	assert.Equal(t, uint64(total), accepted+rejected)
	assert.Equal(t, accepted, uint64(len(got)))
	assert.Equal(t, rejected, r.OverflowCount())

	// Per-ring FIFO: ids are strictly increasing even across drops.
	for i := 1; i < len(got); i++ {
		require.Greater(t, got[i], got[i-1])
	}
}

func BenchmarkWrite(b *testing.B) {
	mem := make([]byte, SizeFor(1024, event.IndexEventSize))
	r, err := Init(unsafe.Pointer(&mem[0]), uint32(len(mem)), event.IndexEventSize)
	if err != nil {
		b.Fatal(err)
	}

	ev := event.IndexEvent{FunctionID: 1}
	var sink event.IndexEvent

	b.ReportAllocs()
	for b.Loop() {
		if !r.Write(ev.Ptr()) {
			// Make room without measuring a real consumer.
			r.Read(sink.Ptr())
			r.Write(ev.Ptr())
		}
	}
}
