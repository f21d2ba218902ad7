// Package registry implements the bounded table of per-thread lane sets.
//
// Registration is lock-free: the registering thread scans for a free slot,
// claims it with a CAS on the thread id, builds its two lanes from the
// arena bump allocator and only then publishes the slot by storing
// active=1. A reader that observes active=1 therefore sees fully
// initialized lane offsets.
//
// Slots are never reused. A thread that exits merely flips active off; its
// memory stays reserved for the rest of the session, which keeps the drain
// free to finish any rings the thread left behind.
package registry

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/c2h5oh/datasize"

	"github.com/adatrace/adatrace/agent/arena"
	"github.com/adatrace/adatrace/agent/event"
	"github.com/adatrace/adatrace/agent/lane"
)

const (
	// Magic marks an initialized registry in the arena.
	Magic uint32 = 0x54524547 // "TREG"

	cacheLine = 64
)

var (
	ErrCapacityExceeded = errors.New("thread registry capacity exceeded")
	ErrBadMagic         = errors.New("arena does not hold a thread registry")
	ErrInvalid          = errors.New("invalid argument")
)

// Config sizes a registry and the lanes of every thread it can hold.
type Config struct {
	// Capacity is the maximum number of threads traced in one session.
	Capacity uint32 `yaml:"capacity"`
	// IndexLane configures every thread's always-on lane.
	IndexLane lane.Config `yaml:"index_lane"`
	// DetailLane configures every thread's marking-gated lane.
	DetailLane lane.Config `yaml:"detail_lane"`
}

// DefaultConfig returns a registry configuration good for moderate
// workloads: 4 index rings of 4096 events and 2 detail rings of 128 events
// per thread.
func DefaultConfig() Config {
	return Config{
		Capacity: 64,
		IndexLane: lane.Config{
			RingCount: 4,
			RingBytes: 4096*event.IndexEventSize + 256,
		},
		DetailLane: lane.Config{
			RingCount: 2,
			RingBytes: 128*event.DetailEventSize + 256,
		},
	}
}

// ArenaBytes estimates the arena size needed for this configuration,
// including alignment slack. Useful to size arena.Create.
func (m Config) ArenaBytes() datasize.ByteSize {
	perThread := lane.ArenaBytes(m.IndexLane) + lane.ArenaBytes(m.DetailLane)
	table := registrySharedSize + uint64(m.Capacity)*slotSharedSize
	// One cache line of alignment slack per bumped block, ~10 blocks per
	// thread, plus the arena header.
	slack := uint64(m.Capacity)*10*cacheLine + arena.FirstOffset
	return datasize.ByteSize(table + uint64(m.Capacity)*perThread + slack)
}

// registryShared is the registry header in shared memory.
type registryShared struct {
	magic    uint32
	capacity uint32
	count    atomic.Uint32

	indexRingCount  uint32
	indexRingBytes  uint32
	detailRingCount uint32
	detailRingBytes uint32
	_               [cacheLine - 28]byte
}

// slotShared is one thread's entry. A multiple of the cache line so
// neighbouring slots never share one.
type slotShared struct {
	threadID      atomic.Uint64
	slot          uint32
	_             uint32
	indexLaneOff  uint64
	detailLaneOff uint64
	registeredAt  uint64
	_             [cacheLine - 40]byte

	// published is set once, after the lanes are fully built, and never
	// cleared; active additionally tracks thread liveness.
	published atomic.Uint32
	active    atomic.Uint32
	_         [cacheLine - 8]byte
}

const (
	registrySharedSize = uint64(unsafe.Sizeof(registryShared{}))
	slotSharedSize     = uint64(unsafe.Sizeof(slotShared{}))
)

// Registry is a process-local handle.
type Registry struct {
	a   *arena.Arena
	sh  *registryShared
	cfg Config
}

// LaneSet is a process-local handle over one thread's slot and lanes.
type LaneSet struct {
	sh     *slotShared
	index  *lane.Lane
	detail *lane.Lane
}

// Init places the registry at the head of a fresh arena. It must be the
// first allocation: Attach finds the registry at the arena's first bumped
// offset.
func Init(a *arena.Arena, cfg Config) (*Registry, error) {
	if cfg.Capacity == 0 {
		return nil, fmt.Errorf("%w: capacity 0", ErrInvalid)
	}

	size := registrySharedSize + uint64(cfg.Capacity)*slotSharedSize
	off, err := a.Bump(size, cacheLine)
	if err != nil {
		return nil, err
	}
	if off != arena.FirstOffset {
		return nil, fmt.Errorf("%w: registry must be the arena's first allocation, got offset %d",
			ErrInvalid, off)
	}

	sh := (*registryShared)(a.At(off))
	sh.capacity = cfg.Capacity
	sh.count.Store(0)
	sh.indexRingCount = cfg.IndexLane.RingCount
	sh.indexRingBytes = cfg.IndexLane.RingBytes
	sh.detailRingCount = cfg.DetailLane.RingCount
	sh.detailRingBytes = cfg.DetailLane.RingBytes
	sh.magic = Magic

	return &Registry{a: a, sh: sh, cfg: cfg}, nil
}

// Attach materializes an existing registry from an attached arena.
func Attach(a *arena.Arena) (*Registry, error) {
	sh := (*registryShared)(a.At(arena.FirstOffset))
	if sh.magic != Magic {
		return nil, fmt.Errorf("%w: magic %#x", ErrBadMagic, sh.magic)
	}

	cfg := Config{
		Capacity:   sh.capacity,
		IndexLane:  lane.Config{RingCount: sh.indexRingCount, RingBytes: sh.indexRingBytes},
		DetailLane: lane.Config{RingCount: sh.detailRingCount, RingBytes: sh.detailRingBytes},
	}
	return &Registry{a: a, sh: sh, cfg: cfg}, nil
}

func (m *Registry) slotAt(i uint32) *slotShared {
	base := arena.FirstOffset + registrySharedSize
	return (*slotShared)(m.a.At(base + uint64(i)*slotSharedSize))
}

// Register returns the lane set for the given thread id, creating it on
// first touch. Idempotent for a live thread. Returns ErrCapacityExceeded
// when every slot is taken: the caller continues untraced.
func (m *Registry) Register(tid uint64) (*LaneSet, error) {
	if tid == 0 {
		return nil, fmt.Errorf("%w: thread id 0", ErrInvalid)
	}

	for i := range m.sh.capacity {
		s := m.slotAt(i)

		if s.threadID.Load() == tid && s.active.Load() != 0 {
			return m.laneSet(s)
		}

		if s.threadID.Load() == 0 && s.threadID.CompareAndSwap(0, tid) {
			if err := m.populateSlot(s, i); err != nil {
				// The slot is burned: claimed, never published. Memory is
				// the cost of keeping registration wait-free.
				return nil, err
			}
			m.sh.count.Add(1)
			return m.laneSet(s)
		}

		// Lost the CAS to another thread; that slot belongs to someone
		// else now, keep scanning.
	}

	return nil, ErrCapacityExceeded
}

func (m *Registry) populateSlot(s *slotShared, idx uint32) error {
	indexOff, err := lane.Init(m.a, lane.Index, m.cfg.IndexLane, event.IndexEventSize)
	if err != nil {
		return fmt.Errorf("failed to initialize index lane: %w", err)
	}
	detailOff, err := lane.Init(m.a, lane.Detail, m.cfg.DetailLane, event.DetailEventSize)
	if err != nil {
		return fmt.Errorf("failed to initialize detail lane: %w", err)
	}

	s.slot = idx
	s.indexLaneOff = indexOff
	s.detailLaneOff = detailOff
	s.registeredAt = event.Now()
	// Publish: a reader that observes the flag sees the offsets above.
	s.published.Store(1)
	s.active.Store(1)
	return nil
}

func (m *Registry) laneSet(s *slotShared) (*LaneSet, error) {
	index, err := lane.AttachAt(m.a, s.indexLaneOff)
	if err != nil {
		return nil, fmt.Errorf("failed to attach index lane: %w", err)
	}
	detail, err := lane.AttachAt(m.a, s.detailLaneOff)
	if err != nil {
		return nil, fmt.Errorf("failed to attach detail lane: %w", err)
	}
	return &LaneSet{sh: s, index: index, detail: detail}, nil
}

// GetAt returns the lane set occupying slot i, or nil if the slot was
// never claimed or never finished initializing. Inactive slots are still
// returned: the drain finishes whatever an exited thread left behind.
func (m *Registry) GetAt(i uint32) (*LaneSet, error) {
	if i >= m.sh.capacity {
		return nil, fmt.Errorf("%w: slot %d out of range [0, %d)", ErrInvalid, i, m.sh.capacity)
	}
	s := m.slotAt(i)
	if s.published.Load() == 0 {
		return nil, nil
	}
	return m.laneSet(s)
}

// Unregister marks the lane set's thread as gone. The slot stays reserved.
func (m *Registry) Unregister(ls *LaneSet) {
	ls.Unregister()
}

// Unregister marks the owning thread as gone. The slot stays reserved.
func (m *LaneSet) Unregister() {
	m.sh.active.Store(0)
}

// Capacity returns the slot count.
func (m *Registry) Capacity() uint32 {
	return m.sh.capacity
}

// Count returns the number of successful registrations. Diagnostic only;
// correctness decisions use per-slot state.
func (m *Registry) Count() uint32 {
	return m.sh.count.Load()
}

// Config returns the lane configuration this registry was created with.
func (m *Registry) Config() Config {
	return m.cfg
}

// ThreadID returns the owning thread's id.
func (m *LaneSet) ThreadID() uint64 {
	return m.sh.threadID.Load()
}

// Slot returns the slot index.
func (m *LaneSet) Slot() uint32 {
	return m.sh.slot
}

// Active reports whether the owning thread is still registered.
func (m *LaneSet) Active() bool {
	return m.sh.active.Load() != 0
}

// RegisteredAt returns the monotonic timestamp of the registration.
func (m *LaneSet) RegisteredAt() uint64 {
	return m.sh.registeredAt
}

// IndexLane returns the always-on lane.
func (m *LaneSet) IndexLane() *lane.Lane {
	return m.index
}

// DetailLane returns the marking-gated lane.
func (m *LaneSet) DetailLane() *lane.Lane {
	return m.detail
}

// PendingRings estimates how many submitted rings wait in both lanes, the
// signal the fair scheduler uses to pick its next thread.
func (m *LaneSet) PendingRings() uint32 {
	return m.index.SubmitLen() + m.detail.SubmitLen()
}
