// Package tracer is the producer-side entry point: it owns the session
// arena and registry and hands out per-thread writers.
//
// The hot path is Writer.TraceCall / Writer.TraceReturn. A writer belongs
// to the OS thread that registered it; the instrumentation layer is
// expected to keep one writer per thread and never share them. The core
// deliberately does not manage thread-local storage itself.
package tracer

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/adatrace/adatrace/agent/arena"
	"github.com/adatrace/adatrace/agent/event"
	"github.com/adatrace/adatrace/agent/registry"
)

type options struct {
	Log *zap.SugaredLogger
}

func newOptions() *options {
	return &options{
		Log: zap.NewNop().Sugar(),
	}
}

// Option is a function that configures the tracer.
type Option func(*options)

// WithLog sets the logger for the tracer.
func WithLog(log *zap.SugaredLogger) Option {
	return func(o *options) {
		o.Log = log
	}
}

// Tracer owns one tracing session's shared state on the producer side.
type Tracer struct {
	cfg      *Config
	arena    *arena.Arena
	registry *registry.Registry
	log      *zap.SugaredLogger
}

// New creates the session arena and registry. The traced process calls
// this exactly once; collectors attach afterwards.
func New(cfg *Config, options ...Option) (*Tracer, error) {
	opts := newOptions()
	for _, o := range options {
		o(opts)
	}
	log := opts.Log

	size := cfg.arenaSize()
	log.Infow("creating trace arena",
		zap.String("dir", cfg.ShmDir),
		zap.String("name", cfg.ShmName),
		zap.Stringer("size", size),
	)

	a, err := arena.Create(cfg.ShmDir, cfg.ShmName, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create arena: %w", err)
	}

	reg, err := registry.Init(a, cfg.Registry)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize thread registry: %w", err)
	}

	return &Tracer{
		cfg:      cfg,
		arena:    a,
		registry: reg,
		log:      log,
	}, nil
}

// Registry exposes the thread registry, mainly for tests and tooling.
func (m *Tracer) Registry() *registry.Registry {
	return m.registry
}

// Writer registers the calling OS thread and returns its writer. Idempotent
// per thread. Callers that care about thread identity should hold
// runtime.LockOSThread for the writer's lifetime.
func (m *Tracer) Writer() (*Writer, error) {
	tid := uint64(unix.Gettid())

	ls, err := m.registry.Register(tid)
	if err != nil {
		// Capacity exhaustion is graceful degradation, not a crash: the
		// thread simply runs untraced.
		m.log.Warnw("thread registration failed", zap.Uint64("tid", tid), zap.Error(err))
		return nil, err
	}

	return &Writer{ls: ls, tid: uint32(tid)}, nil
}

// Close unmaps the arena. The file stays behind for late attachers; see
// Destroy.
func (m *Tracer) Close() error {
	return m.arena.Close()
}

// Destroy unlinks the arena file and unmaps it.
func (m *Tracer) Destroy() error {
	if err := m.arena.Unlink(); err != nil {
		return err
	}
	return m.arena.Close()
}

// Frame carries the ABI state captured by the instrumentation for a detail
// event.
type Frame struct {
	Args     [event.ArgRegs]uint64
	Rets     [event.RetRegs]uint64
	FramePtr uint64
	StackPtr uint64
	LinkReg  uint64
	// Stack is the raw stack window to snapshot; bounded to
	// event.SnapMax bytes.
	Stack []byte
}

// Writer is the per-thread hot path. Not safe for concurrent use: exactly
// one OS thread owns it.
type Writer struct {
	ls    *registry.LaneSet
	tid   uint32
	depth uint32

	// scratch avoids building a 512-byte detail event on the stack of
	// every hook.
	scratch event.DetailEvent
}

// LaneSet exposes the writer's lanes, mainly for tests and tooling.
func (w *Writer) LaneSet() *registry.LaneSet {
	return w.ls
}

// TraceCall records a function entry with no register capture.
func (w *Writer) TraceCall(fnID uint64) {
	w.trace(fnID, event.KindCall, nil)
}

// TraceReturn records a function exit with no register capture.
func (w *Writer) TraceReturn(fnID uint64) {
	w.trace(fnID, event.KindReturn, nil)
}

// TraceCallFrame records a function entry including the ABI frame.
func (w *Writer) TraceCallFrame(fnID uint64, f *Frame) {
	w.trace(fnID, event.KindCall, f)
}

// TraceReturnFrame records a function exit including the ABI frame.
func (w *Writer) TraceReturnFrame(fnID uint64, f *Frame) {
	w.trace(fnID, event.KindReturn, f)
}

func (w *Writer) trace(fnID uint64, kind event.Kind, f *Frame) {
	depth := w.depth
	switch kind {
	case event.KindCall:
		w.depth++
	case event.KindReturn:
		if w.depth > 0 {
			w.depth--
		}
		depth = w.depth
	}

	head := event.IndexEvent{
		TimestampNs: event.Now(),
		FunctionID:  fnID,
		ThreadID:    w.tid,
		Kind:        kind,
		CallDepth:   depth,
	}
	w.ls.IndexLane().Write(head.Ptr())

	// The detail lane always captures; whether a ring ever reaches the
	// sink is decided by marking at swap time.
	w.scratch.IndexEvent = head
	if f != nil {
		w.scratch.Args = f.Args
		w.scratch.Rets = f.Rets
		w.scratch.FramePtr = f.FramePtr
		w.scratch.StackPtr = f.StackPtr
		w.scratch.LinkReg = f.LinkReg
		w.scratch.Snapshot(f.Stack)
	} else {
		w.scratch.Args = [event.ArgRegs]uint64{}
		w.scratch.Rets = [event.RetRegs]uint64{}
		w.scratch.FramePtr = 0
		w.scratch.StackPtr = 0
		w.scratch.LinkReg = 0
		w.scratch.SnapLen = 0
	}
	w.ls.DetailLane().Write(w.scratch.Ptr())
}

// MarkDetail arms the detail lane: the ring that fills next is submitted
// for persistence.
func (w *Writer) MarkDetail() {
	w.ls.DetailLane().Mark()
}

// Depth returns the writer's current call depth.
func (w *Writer) Depth() uint32 {
	return w.depth
}

// Close marks the thread as exited. Buffered events stay drainable.
func (w *Writer) Close() {
	w.ls.Unregister()
}
