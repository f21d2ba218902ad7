package tracer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/adatrace/adatrace/agent/event"
	"github.com/adatrace/adatrace/agent/lane"
	"github.com/adatrace/adatrace/agent/registry"
)

func testConfig(t *testing.T) *Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.ShmDir = t.TempDir()
	cfg.ShmName = "tracer-test"
	cfg.Registry = registry.Config{
		Capacity: 8,
		IndexLane: lane.Config{
			RingCount: 2,
			RingBytes: 64*event.IndexEventSize + 256,
		},
		DetailLane: lane.Config{
			RingCount: 2,
			RingBytes: 8*event.DetailEventSize + 256,
		},
	}
	return cfg
}

func newTestTracer(t *testing.T) *Tracer {
	t.Helper()

	tr, err := New(testConfig(t), WithLog(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, writeFile(path, `
shm_name: myapp-trace
arena_size: 32mb
registry:
  capacity: 16
`))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "myapp-trace", cfg.ShmName)
	assert.Equal(t, 32*datasize.MB, cfg.ArenaSize)
	assert.Equal(t, uint32(16), cfg.Registry.Capacity)
	// Defaults survive a partial file.
	assert.Equal(t, DefaultConfig().Registry.IndexLane, cfg.Registry.IndexLane)
}

func TestWriterTraceRoundTrip(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tr := newTestTracer(t)

	w, err := tr.Writer()
	require.NoError(t, err)

	w.TraceCall(100)
	w.TraceCall(200)
	w.TraceReturn(200)
	w.TraceReturn(100)

	ls := w.LaneSet()
	assert.Equal(t, uint64(4), ls.IndexLane().EventsWritten())
	assert.Equal(t, uint64(4), ls.DetailLane().EventsWritten())
	assert.Zero(t, w.Depth())

	// Read the events back and check depth bookkeeping.
	r, err := ls.IndexLane().RingAt(ls.IndexLane().ActiveRingIdx())
	require.NoError(t, err)

	var evs []event.IndexEvent
	var ev event.IndexEvent
	for r.Read(ev.Ptr()) {
		evs = append(evs, ev)
	}
	require.Len(t, evs, 4)

	assert.Equal(t, event.KindCall, evs[0].Kind)
	assert.Zero(t, evs[0].CallDepth)
	assert.Equal(t, uint64(100), evs[0].FunctionID)

	assert.Equal(t, event.KindCall, evs[1].Kind)
	assert.Equal(t, uint32(1), evs[1].CallDepth)

	assert.Equal(t, event.KindReturn, evs[2].Kind)
	assert.Equal(t, uint32(1), evs[2].CallDepth)

	assert.Equal(t, event.KindReturn, evs[3].Kind)
	assert.Zero(t, evs[3].CallDepth)

	// Timestamps are monotonic within the thread.
	for i := 1; i < len(evs); i++ {
		assert.GreaterOrEqual(t, evs[i].TimestampNs, evs[i-1].TimestampNs)
	}
}

func TestWriterIdempotentPerThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tr := newTestTracer(t)

	w1, err := tr.Writer()
	require.NoError(t, err)
	w2, err := tr.Writer()
	require.NoError(t, err)

	assert.Equal(t, w1.LaneSet().Slot(), w2.LaneSet().Slot())
	assert.Equal(t, uint32(1), tr.Registry().Count())
}

func TestWriterFrameCapture(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tr := newTestTracer(t)
	w, err := tr.Writer()
	require.NoError(t, err)

	frame := &Frame{
		FramePtr: 0x7000,
		StackPtr: 0x6000,
		LinkReg:  0x1234,
		Stack:    []byte{0xAA, 0xBB, 0xCC},
	}
	frame.Args[0] = 42
	w.TraceCallFrame(500, frame)

	// Plain hooks must not leak the previous frame's registers.
	w.TraceReturn(500)

	ls := w.LaneSet()
	r, err := ls.DetailLane().RingAt(ls.DetailLane().ActiveRingIdx())
	require.NoError(t, err)

	var dev event.DetailEvent
	require.True(t, r.Read(dev.Ptr()))
	assert.Equal(t, uint64(500), dev.FunctionID)
	assert.Equal(t, uint64(42), dev.Args[0])
	assert.Equal(t, uint64(0x7000), dev.FramePtr)
	assert.Equal(t, uint64(3), dev.SnapLen)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, dev.Snap[:3])

	require.True(t, r.Read(dev.Ptr()))
	assert.Zero(t, dev.Args[0])
	assert.Zero(t, dev.FramePtr)
	assert.Zero(t, dev.SnapLen)
}

func TestWriterMarkDetail(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tr := newTestTracer(t)
	w, err := tr.Writer()
	require.NoError(t, err)

	assert.False(t, w.LaneSet().DetailLane().IsMarked())
	w.MarkDetail()
	assert.True(t, w.LaneSet().DetailLane().IsMarked())
}

func TestWriterClose(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tr := newTestTracer(t)
	w, err := tr.Writer()
	require.NoError(t, err)

	w.TraceCall(1)
	w.Close()

	assert.False(t, w.LaneSet().Active())

	// Buffered events are still there for the drain.
	ls, err := tr.Registry().GetAt(w.LaneSet().Slot())
	require.NoError(t, err)
	require.NotNil(t, ls)
	assert.Equal(t, uint64(1), ls.IndexLane().EventsWritten())
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
