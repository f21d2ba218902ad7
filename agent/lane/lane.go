// Package lane implements the per-thread ring pool and its swap protocol.
//
// A lane owns ringCount rings: one active, receiving writes, and the rest
// in flight between two index queues. The producer retires a full active
// ring by swapping in a spare from the free queue and pushing the old index
// onto the submit queue; the drain pops submitted rings, persists them,
// resets them and pushes them back onto the free queue. Ring ownership
// therefore moves exclusively through ring indices; no pointer ever crosses
// the thread or process boundary.
//
// The detail lane differs in one rule: a full ring is only submitted when
// the marked flag is armed. Unmarked full rings roll over in place, so
// detail capture is always on but only windows of interest ever reach the
// sink.
package lane

import (
	"errors"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/adatrace/adatrace/agent/arena"
	"github.com/adatrace/adatrace/agent/ring"
	"github.com/adatrace/adatrace/agent/spscq"
)

// Kind distinguishes the two lanes of a thread.
type Kind uint32

const (
	// Index is the compact always-on lane.
	Index Kind = 0
	// Detail is the rich lane gated by marking.
	Detail Kind = 1
)

func (k Kind) String() string {
	if k == Detail {
		return "detail"
	}
	return "index"
}

const (
	// Magic marks initialized lane headers in the arena.
	Magic uint32 = 0x4C414E45 // "LANE"

	cacheLine = 64
)

var (
	ErrBadMagic  = errors.New("memory does not hold a lane")
	ErrBadConfig = errors.New("invalid lane configuration")
)

// Config sizes one lane.
type Config struct {
	// RingCount is the pool size: one active ring plus spares.
	RingCount uint32 `yaml:"ring_count"`
	// RingBytes is the shared memory footprint of each ring, header
	// included.
	RingBytes uint32 `yaml:"ring_bytes"`
}

// ringDescriptor locates one ring inside the arena.
type ringDescriptor struct {
	bytes  uint32
	_      uint32
	offset uint64
}

// laneShared is the lane header in shared memory. Independently mutated
// fields are padded onto their own cache lines.
type laneShared struct {
	magic     uint32
	kind      uint32
	ringCount uint32
	eventSize uint32
	submitOff uint64
	freeOff   uint64
	_         [cacheLine - 32]byte

	active atomic.Uint32
	_      [cacheLine - 4]byte

	marked atomic.Uint32
	_      [cacheLine - 4]byte

	eventsWritten atomic.Uint64
	_             [cacheLine - 8]byte

	swapCount atomic.Uint64
	_         [cacheLine - 8]byte

	dropCount atomic.Uint64
	_         [cacheLine - 8]byte
}

const laneSharedSize = uint64(unsafe.Sizeof(laneShared{}))

// Lane is a process-local handle. It holds queue handles but materializes
// ring addresses from descriptors on every access.
type Lane struct {
	a      *arena.Arena
	sh     *laneShared
	submit *spscq.Queue
	free   *spscq.Queue
}

func queueCapacity(ringCount uint32) uint32 {
	if ringCount < 2 {
		// Even the degenerate single-ring pool carries its queues; the
		// index queue needs its minimum capacity.
		return 2
	}
	if ringCount&(ringCount-1) == 0 {
		return ringCount
	}
	return 1 << bits.Len32(ringCount)
}

// ArenaBytes returns how much arena space Init will bump for a lane with
// the given configuration, alignment padding excluded.
func ArenaBytes(cfg Config) uint64 {
	q := uint64(spscq.SizeBytes(queueCapacity(cfg.RingCount)))
	return laneSharedSize +
		uint64(cfg.RingCount)*uint64(unsafe.Sizeof(ringDescriptor{})) +
		2*q +
		uint64(cfg.RingCount)*uint64(cfg.RingBytes)
}

// Init bumps and formats a lane in the arena and returns its offset.
//
// The pool starts with ring 0 active, spares 1..ringCount-1 preloaded into
// the free queue, and an empty submit queue.
func Init(a *arena.Arena, kind Kind, cfg Config, eventSize uint32) (uint64, error) {
	if cfg.RingCount == 0 {
		return 0, fmt.Errorf("%w: ring count 0", ErrBadConfig)
	}
	if ring.CapacityFor(cfg.RingBytes, eventSize) == 0 {
		return 0, fmt.Errorf("%w: %d ring bytes cannot hold 2 events of %d bytes",
			ErrBadConfig, cfg.RingBytes, eventSize)
	}

	descBytes := uint64(cfg.RingCount) * uint64(unsafe.Sizeof(ringDescriptor{}))
	off, err := a.Bump(laneSharedSize+descBytes, cacheLine)
	if err != nil {
		return 0, err
	}
	sh := (*laneShared)(a.At(off))

	qCap := queueCapacity(cfg.RingCount)
	submitOff, err := a.Bump(uint64(spscq.SizeBytes(qCap)), cacheLine)
	if err != nil {
		return 0, err
	}
	if _, err := spscq.Init(a.At(submitOff), qCap); err != nil {
		return 0, err
	}
	freeOff, err := a.Bump(uint64(spscq.SizeBytes(qCap)), cacheLine)
	if err != nil {
		return 0, err
	}
	freeQ, err := spscq.Init(a.At(freeOff), qCap)
	if err != nil {
		return 0, err
	}

	descs := descriptorsAt(a, off, cfg.RingCount)
	for i := range cfg.RingCount {
		ringOff, err := a.Bump(uint64(cfg.RingBytes), cacheLine)
		if err != nil {
			return 0, err
		}
		if _, err := ring.Init(a.At(ringOff), cfg.RingBytes, eventSize); err != nil {
			return 0, err
		}
		descs[i] = ringDescriptor{bytes: cfg.RingBytes, offset: ringOff}
	}

	for i := uint32(1); i < cfg.RingCount; i++ {
		freeQ.Push(i)
	}

	sh.kind = uint32(kind)
	sh.ringCount = cfg.RingCount
	sh.eventSize = eventSize
	sh.submitOff = submitOff
	sh.freeOff = freeOff
	sh.active.Store(0)
	sh.marked.Store(0)
	sh.magic = Magic

	return off, nil
}

// AttachAt builds a lane handle over the header at the given offset.
func AttachAt(a *arena.Arena, off uint64) (*Lane, error) {
	sh := (*laneShared)(a.At(off))
	if sh.magic != Magic {
		return nil, fmt.Errorf("%w: magic %#x at offset %d", ErrBadMagic, sh.magic, off)
	}

	submit, err := spscq.Attach(a.At(sh.submitOff))
	if err != nil {
		return nil, fmt.Errorf("failed to attach submit queue: %w", err)
	}
	free, err := spscq.Attach(a.At(sh.freeOff))
	if err != nil {
		return nil, fmt.Errorf("failed to attach free queue: %w", err)
	}

	return &Lane{a: a, sh: sh, submit: submit, free: free}, nil
}

func descriptorsAt(a *arena.Arena, laneOff uint64, count uint32) []ringDescriptor {
	return unsafe.Slice((*ringDescriptor)(a.At(laneOff+laneSharedSize)), count)
}

func (l *Lane) descriptors() []ringDescriptor {
	return descriptorsAt(l.a, l.a.OffsetOf(unsafe.Pointer(l.sh)), l.sh.ringCount)
}

// RingAt materializes the ring with the given pool index.
func (l *Lane) RingAt(idx uint32) (*ring.Ring, error) {
	if idx >= l.sh.ringCount {
		return nil, fmt.Errorf("ring index %d out of range [0, %d)", idx, l.sh.ringCount)
	}
	return ring.Attach(l.a.At(l.descriptors()[idx].offset), l.sh.eventSize)
}

func (l *Lane) mustRing(idx uint32) *ring.Ring {
	r, err := l.RingAt(idx)
	if err != nil {
		panic(err)
	}
	return r
}

// Write copies one event into the lane, swapping rings as needed. Producer
// side only; never blocks.
//
// Returns false only when the event had to be dropped outright, which can
// only happen in the degenerate single-ring configuration.
func (l *Lane) Write(src unsafe.Pointer) bool {
	r := l.mustRing(l.sh.active.Load())
	if !r.IsFull() {
		// Only the drain frees space, so a non-full active ring cannot
		// refuse a write.
		r.Write(src)
		l.sh.eventsWritten.Add(1)
		return true
	}

	if l.Kind() == Detail && !l.IsMarked() {
		// The window was never armed: roll the ring over in place. Its
		// oldest contents are dropped without a submit.
		r.Reset()
		l.sh.dropCount.Add(1)
		r.Write(src)
		l.sh.eventsWritten.Add(1)
		return true
	}

	if _, ok := l.SwapActive(); !ok {
		// Single-ring pool with nothing to reclaim: drop the event and let
		// the ring count the rejection.
		return r.Write(src)
	}

	l.mustRing(l.sh.active.Load()).Write(src)
	l.sh.eventsWritten.Add(1)
	return true
}

// SwapActive retires the active ring: a replacement is taken from the free
// queue (or reclaimed from the submit queue under exhaustion), installed as
// active, and the old index is submitted. Returns the retired index.
//
// Producer side only.
func (l *Lane) SwapActive() (uint32, bool) {
	repl, ok := l.free.Pop()
	if !ok {
		// Drop-oldest: the drain is not keeping up, reclaim the oldest
		// submitted ring instead of blocking. Its data is lost.
		repl, ok = l.submit.Pop()
		if !ok {
			return 0, false
		}
		l.mustRing(repl).Reset()
		l.sh.dropCount.Add(1)
	}

	old := l.sh.active.Swap(repl)
	if l.Kind() == Detail {
		// The armed window ends with the ring that triggered the swap.
		l.sh.marked.Store(0)
	}

	if !l.submit.Push(old) {
		// The submit queue is sized to hold every ring, so this only
		// fires if the drain stalled long enough for the queue to fill
		// transiently. Make room by dropping the oldest submission.
		if victim, ok := l.submit.Pop(); ok {
			l.mustRing(victim).Reset()
			l.free.Push(victim)
			l.sh.dropCount.Add(1)
		}
		l.submit.Push(old)
	}

	l.sh.swapCount.Add(1)
	return old, true
}

// TakeRing pops the oldest submitted ring. Drain side.
func (l *Lane) TakeRing() (uint32, bool) {
	return l.submit.Pop()
}

// ReturnRing hands a drained ring back to the producer. Drain side; the
// caller resets the ring first.
func (l *Lane) ReturnRing(idx uint32) bool {
	return l.free.Push(idx)
}

// Mark arms the detail lane: the next ring to fill will be submitted. The
// flag is cleared by the swap it triggers.
func (l *Lane) Mark() {
	l.sh.marked.Store(1)
}

// IsMarked reports whether a marked window is currently armed.
func (l *Lane) IsMarked() bool {
	return l.sh.marked.Load() != 0
}

// Kind returns which lane this is.
func (l *Lane) Kind() Kind {
	return Kind(l.sh.kind)
}

// EventSize returns the record size this lane carries.
func (l *Lane) EventSize() uint32 {
	return l.sh.eventSize
}

// RingCount returns the pool size.
func (l *Lane) RingCount() uint32 {
	return l.sh.ringCount
}

// ActiveRingIdx returns the index of the ring currently receiving writes.
func (l *Lane) ActiveRingIdx() uint32 {
	return l.sh.active.Load()
}

// SubmitLen estimates the number of rings waiting for the drain.
func (l *Lane) SubmitLen() uint32 {
	return l.submit.Len()
}

// FreeLen estimates the number of spare rings.
func (l *Lane) FreeLen() uint32 {
	return l.free.Len()
}

// EventsWritten returns the number of events accepted by this lane.
func (l *Lane) EventsWritten() uint64 {
	return l.sh.eventsWritten.Load()
}

// SwapCount returns how many times the active ring was retired.
func (l *Lane) SwapCount() uint64 {
	return l.sh.swapCount.Load()
}

// DropCount returns how many rings were sacrificed under drop-oldest.
func (l *Lane) DropCount() uint64 {
	return l.sh.dropCount.Load()
}

// OverflowCount sums the per-ring rejected-write counters.
func (l *Lane) OverflowCount() uint64 {
	var total uint64
	for i := range l.sh.ringCount {
		total += l.mustRing(i).OverflowCount()
	}
	return total
}
