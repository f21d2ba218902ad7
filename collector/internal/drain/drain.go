// Package drain implements the consumer pipeline: one dedicated goroutine
// that polls every registered thread, pops submitted rings, hands them to
// the persistence sink, resets them and returns them to the producers'
// free pools.
//
// Two scheduling modes coexist and are selected by a single configuration
// switch: the default round-robin cycle and a credit-based weighted fair
// iterator. Nothing else in the configuration flips the mode.
package drain

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/adatrace/adatrace/agent/lane"
	"github.com/adatrace/adatrace/agent/registry"
	"github.com/adatrace/adatrace/collector/internal/sink"
)

// State is the engine lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	ErrBusy           = errors.New("drain is running")
	ErrAlreadyStarted = errors.New("drain already started")
	ErrInvalidState   = errors.New("operation not allowed in this state")
)

// FairMode selects how the fair iterator picks its next thread.
type FairMode string

const (
	// FairModeCredit is weighted fair selection by credits/pending ratio.
	FairModeCredit FairMode = "credit"
	// FairModeRoundRobin rotates over pending threads from the last
	// selected slot.
	FairModeRoundRobin FairMode = "round_robin"
)

// Config tunes the drain engine.
type Config struct {
	// PollInterval is the idle sleep. Zero means spin-yield only.
	PollInterval time.Duration `yaml:"poll_interval"`
	// MaxBatchSize bounds rings drained per lane visit. Zero is
	// unlimited, still subject to the fairness quantum.
	MaxBatchSize uint32 `yaml:"max_batch_size"`
	// FairnessQuantum caps rings per lane visit in round-robin mode so a
	// noisy thread cannot starve the rest. Zero disables the cap.
	FairnessQuantum uint32 `yaml:"fairness_quantum"`
	// YieldOnIdle makes idle cycles give up the CPU before sleeping.
	YieldOnIdle bool `yaml:"yield_on_idle"`
	// MaxThreadsPerCycle bounds distinct threads visited per round-robin
	// cycle or fair iteration, in either mode. Zero is unlimited.
	MaxThreadsPerCycle uint32 `yaml:"max_threads_per_cycle"`
	// MaxEventsPerThread bounds events drained per thread visit in fair
	// mode. Zero is unlimited.
	MaxEventsPerThread uint32 `yaml:"max_events_per_thread"`
	// IterationInterval is the fair iterator's idle sleep.
	IterationInterval time.Duration `yaml:"iteration_interval"`
	// EnableFairScheduling selects the fair iterator instead of the
	// round-robin cycle. This switch alone decides the mode.
	EnableFairScheduling bool `yaml:"enable_fair_scheduling"`
	// FairMode picks the fair iterator's selection rule.
	FairMode FairMode `yaml:"fair_mode"`
}

// DefaultConfig returns the default drain configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:      100 * time.Microsecond,
		MaxBatchSize:      8,
		FairnessQuantum:   4,
		YieldOnIdle:       true,
		IterationInterval: time.Millisecond,
		FairMode:          FairModeCredit,
	}
}

func (m Config) validate() error {
	if m.PollInterval < 0 || m.IterationInterval < 0 {
		return fmt.Errorf("%w: negative interval", ErrInvalidState)
	}
	switch m.FairMode {
	case "", FairModeCredit, FairModeRoundRobin:
	default:
		return fmt.Errorf("%w: unknown fair mode %q", ErrInvalidState, m.FairMode)
	}
	return nil
}

type options struct {
	Log  *zap.SugaredLogger
	Sink sink.Sink
}

func newOptions() *options {
	return &options{
		Log:  zap.NewNop().Sugar(),
		Sink: sink.Null{},
	}
}

// Option is a function that configures the drain engine.
type Option func(*options)

// WithLog sets the logger for the drain engine.
func WithLog(log *zap.SugaredLogger) Option {
	return func(o *options) {
		o.Log = log
	}
}

// WithSink sets the persistence sink.
func WithSink(s sink.Sink) Option {
	return func(o *options) {
		o.Sink = s
	}
}

// Engine is the drain engine. One per session.
type Engine struct {
	mu    sync.Mutex // guards lifecycle transitions and cfg
	snkMu sync.Mutex // guards snk; the worker takes it per drained ring
	cfg   Config
	reg   *registry.Registry
	snk   sink.Sink
	log   *zap.SugaredLogger
	state atomic.Int32

	stopCh chan struct{}
	done   chan struct{}

	rr       uint32
	sched    *scheduler
	m        *metrics
	laneSets []*registry.LaneSet
}

// New creates an engine in the Initialized state.
func New(reg *registry.Registry, cfg Config, options ...Option) (*Engine, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrInvalidState)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.FairMode == "" {
		cfg.FairMode = FairModeCredit
	}

	opts := newOptions()
	for _, o := range options {
		o(opts)
	}

	e := &Engine{
		cfg:      cfg,
		reg:      reg,
		snk:      opts.Sink,
		log:      opts.Log,
		m:        newMetrics(reg.Capacity()),
		sched:    newScheduler(reg.Capacity(), cfg.FairMode),
		laneSets: make([]*registry.LaneSet, reg.Capacity()),
	}
	e.state.Store(int32(StateInitialized))
	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Metrics returns a point-in-time snapshot of the drain counters.
func (e *Engine) Metrics() Snapshot {
	return e.m.snapshot()
}

// SetSink replaces the persistence sink. The previous sink is not
// finalized; that remains the caller's job.
func (e *Engine) SetSink(s sink.Sink) {
	e.snkMu.Lock()
	defer e.snkMu.Unlock()
	if s == nil {
		s = sink.Null{}
	}
	e.snk = s
}

func (e *Engine) sink() sink.Sink {
	e.snkMu.Lock()
	defer e.snkMu.Unlock()
	return e.snk
}

// UpdateConfig replaces the configuration. Allowed only while the worker
// is not running.
func (e *Engine) UpdateConfig(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.State() {
	case StateInitialized, StateStopped:
	default:
		return fmt.Errorf("%w: state %s", ErrBusy, e.State())
	}

	if cfg.FairMode == "" {
		cfg.FairMode = FairModeCredit
	}
	e.cfg = cfg
	e.sched = newScheduler(e.reg.Capacity(), cfg.FairMode)
	return nil
}

// Start spawns the drain worker.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.State() {
	case StateInitialized, StateStopped:
	case StateRunning, StateStopping:
		return ErrAlreadyStarted
	default:
		return fmt.Errorf("%w: state %s", ErrInvalidState, e.State())
	}

	e.stopCh = make(chan struct{})
	e.done = make(chan struct{})
	e.state.Store(int32(StateRunning))

	e.log.Infow("starting drain",
		zap.Bool("fair", e.cfg.EnableFairScheduling),
		zap.Duration("poll_interval", e.cfg.PollInterval),
	)
	go e.run(e.cfg, e.stopCh, e.done)
	return nil
}

// Stop joins the worker and performs the final drain. Idempotent.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.State() {
	case StateRunning:
	case StateStopped, StateInitialized:
		return nil
	case StateStopping:
		// A concurrent Stop is already joining; wait for it.
		done := e.done
		e.mu.Unlock()
		<-done
		e.mu.Lock()
		return nil
	default:
		return fmt.Errorf("%w: state %s", ErrInvalidState, e.State())
	}

	e.state.Store(int32(StateStopping))
	close(e.stopCh)
	<-e.done

	e.finalDrain()
	e.state.Store(int32(StateStopped))
	e.log.Info("stopped drain")
	return nil
}

// Destroy stops the engine if needed. The engine is unusable afterwards.
func (e *Engine) Destroy() error {
	if err := e.Stop(); err != nil {
		return err
	}
	e.state.Store(int32(StateUninitialized))
	return nil
}

// run is the drain worker. cfg is a private copy: UpdateConfig is fenced
// off while the worker lives.
func (e *Engine) run(cfg Config, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		var worked bool
		if cfg.EnableFairScheduling {
			worked = e.fairIteration(cfg)
		} else {
			worked = e.cycle(cfg)
		}

		if !worked {
			e.idle(cfg, stopCh)
		}
	}
}

func (e *Engine) idle(cfg Config, stopCh <-chan struct{}) {
	e.m.cyclesIdle.Add(1)

	if cfg.YieldOnIdle {
		runtime.Gosched()
		e.m.yields.Add(1)
	}

	interval := cfg.PollInterval
	if cfg.EnableFairScheduling {
		interval = cfg.IterationInterval
	}
	if interval <= 0 {
		return
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-stopCh:
	case <-timer.C:
	}
	e.m.sleeps.Add(1)
	e.m.totalSleepUs.Add(uint64(interval.Microseconds()))
}

// laneSet returns the slot's lane set, caching process-local handles. The
// handles hold no shared-memory pointers beyond the mapping itself.
func (e *Engine) laneSet(slot uint32) *registry.LaneSet {
	if ls := e.laneSets[slot]; ls != nil {
		return ls
	}
	ls, err := e.reg.GetAt(slot)
	if err != nil || ls == nil {
		if err != nil {
			e.log.Debugw("skipping unreadable slot", zap.Uint32("slot", slot), zap.Error(err))
		}
		return nil
	}
	e.laneSets[slot] = ls
	return ls
}

// cycle runs one round-robin pass over all slots. Returns true if at least
// one ring was drained.
func (e *Engine) cycle(cfg Config) bool {
	e.m.cyclesTotal.Add(1)

	capacity := e.reg.Capacity()
	worked := false
	visited := uint32(0)

	for off := uint32(0); off < capacity; off++ {
		if cfg.MaxThreadsPerCycle != 0 && visited >= cfg.MaxThreadsPerCycle {
			break
		}

		slot := (e.rr + off) % capacity
		ls := e.laneSet(slot)
		if ls == nil {
			continue
		}
		visited++

		for _, ln := range []*lane.Lane{ls.IndexLane(), ls.DetailLane()} {
			if e.drainLane(cfg, slot, ln) > 0 {
				worked = true
			}
		}
	}

	e.rr = (e.rr + 1) % capacity
	return worked
}

// drainLane pops up to the per-visit ring budget from one lane.
func (e *Engine) drainLane(cfg Config, slot uint32, ln *lane.Lane) uint32 {
	limit := cfg.MaxBatchSize
	if cfg.FairnessQuantum != 0 && (limit == 0 || cfg.FairnessQuantum < limit) {
		limit = cfg.FairnessQuantum
	}

	var drained uint32
	for limit == 0 || drained < limit {
		idx, ok := ln.TakeRing()
		if !ok {
			break
		}
		e.persistAndReturn(slot, ln, idx)
		drained++
	}

	if limit != 0 && drained == limit && ln.SubmitLen() > 0 {
		// hit_limit: the lane still has work but its visit is over.
		e.m.fairnessSwitches.Add(1)
	}
	return drained
}

// persistAndReturn hands one taken ring to the sink, resets it and returns
// it to the lane's free pool. Returns the number of events the ring held.
func (e *Engine) persistAndReturn(slot uint32, ln *lane.Lane, idx uint32) uint64 {
	r, err := ln.RingAt(idx)
	if err != nil {
		// A corrupt index out of a submit queue is unrecoverable; do not
		// silently lose track of it.
		panic(fmt.Sprintf("drain: submit queue produced invalid ring index %d: %v", idx, err))
	}

	events := uint64(r.AvailableRead())
	bytes := events * uint64(r.EventSize())

	if s := e.sink(); s != nil {
		if err := s.Submit(slot, ln.Kind(), r); err != nil {
			// The sink's problem stays the sink's: count it, log it, and
			// return the ring regardless so the producer never stalls.
			e.m.sinkFailures.Add(1)
			e.log.Warnw("sink rejected ring",
				zap.Uint32("slot", slot),
				zap.Stringer("lane", ln.Kind()),
				zap.Error(err),
			)
		}
	}

	r.Reset()
	e.returnRing(ln, idx)

	e.m.ringsTotal.Add(1)
	if ln.Kind() == lane.Detail {
		e.m.ringsDetail.Add(1)
	} else {
		e.m.ringsIndex.Add(1)
	}
	e.m.ringsPerThread[slot][ln.Kind()].Add(1)
	e.m.eventsDrained.Add(events)
	e.m.bytesDrained.Add(bytes)
	return events
}

// returnRing pushes a drained ring back onto the free queue, retrying with
// capped exponential backoff while the queue is transiently full. Losing a
// ring index would be a correctness bug, so the loop never gives up; it
// gets loud instead.
func (e *Engine) returnRing(ln *lane.Lane, idx uint32) {
	if ln.ReturnRing(idx) {
		return
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Microsecond
	b.MaxInterval = 10 * time.Millisecond

	for attempt := uint64(1); ; attempt++ {
		runtime.Gosched()
		if ln.ReturnRing(idx) {
			return
		}
		time.Sleep(b.NextBackOff())
		if attempt%1000 == 0 {
			e.log.Errorw("unable to return drained ring to free queue",
				zap.Uint32("ring", idx),
				zap.Uint64("attempts", attempt),
			)
		}
	}
}

// finalDrain keeps running cycles until a full pass finds no work, so a
// stopping session loses nothing that producers managed to submit.
func (e *Engine) finalDrain() {
	e.m.finalDrains.Add(1)

	// Unbounded batches: shutdown wants throughput, not fairness.
	cfg := e.cfg
	cfg.MaxBatchSize = 0
	cfg.FairnessQuantum = 0
	cfg.MaxThreadsPerCycle = 0

	if cfg.EnableFairScheduling {
		// One last fair iteration for the iterator's own bookkeeping,
		// then plain cycles until dry.
		e.sched.setDraining()
		e.fairIteration(cfg)
	}

	for e.cycle(cfg) {
	}

	if s := e.sink(); s != nil {
		if err := s.Flush(); err != nil {
			e.m.sinkFailures.Add(1)
			e.log.Warnw("sink flush failed during final drain", zap.Error(err))
		}
	}
}
