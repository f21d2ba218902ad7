// Package event defines the two fixed-size records that flow through the
// ring buffers.
//
// IndexEvent is the cheap always-on heartbeat written on every hook.
// DetailEvent carries the ABI register file and a bounded stack snapshot and
// is only persisted for marked windows. Both sizes are part of the shared
// memory layout and must never change without bumping the arena version.
package event

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Kind discriminates hook events.
type Kind uint32

const (
	KindCall   Kind = 1
	KindReturn Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindReturn:
		return "return"
	default:
		return "unknown"
	}
}

const (
	// IndexEventSize is the wire size of an IndexEvent.
	IndexEventSize = 32
	// DetailEventSize is the wire size of a DetailEvent.
	DetailEventSize = 512

	// ArgRegs and RetRegs cover the integer argument and return registers
	// of the common 64-bit calling conventions.
	ArgRegs = 8
	RetRegs = 2

	// SnapMax is the bounded stack-memory snapshot size. It is what is left
	// of a DetailEvent after the fixed fields.
	SnapMax = DetailEventSize - IndexEventSize - (ArgRegs+RetRegs+3+1)*8
)

// IndexEvent is the compact per-hook record.
type IndexEvent struct {
	TimestampNs uint64
	FunctionID  uint64
	ThreadID    uint32
	Kind        Kind
	CallDepth   uint32
	_           uint32
}

// DetailEvent is the rich record written while a marked window is open.
type DetailEvent struct {
	IndexEvent
	Args     [ArgRegs]uint64
	Rets     [RetRegs]uint64
	FramePtr uint64
	StackPtr uint64
	LinkReg  uint64
	SnapLen  uint64
	Snap     [SnapMax]byte
}

// Ptr returns the event as an untyped pointer for the ring write path.
func (m *IndexEvent) Ptr() unsafe.Pointer {
	return unsafe.Pointer(m)
}

// Ptr returns the event as an untyped pointer for the ring write path.
func (m *DetailEvent) Ptr() unsafe.Pointer {
	return unsafe.Pointer(m)
}

// Snapshot copies at most SnapMax bytes of buf into the event and records
// the captured length.
func (m *DetailEvent) Snapshot(buf []byte) {
	m.SnapLen = uint64(copy(m.Snap[:], buf))
}

// fallbackEpoch anchors the fallback clock; time.Since reads Go's monotonic
// clock.
var fallbackEpoch = time.Now()

// Now returns the current monotonic timestamp in nanoseconds.
//
// Timestamps are the only cross-thread ordering signal, so they must come
// from CLOCK_MONOTONIC, never from the wall clock.
func Now() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		// The fallback also carries a monotonic reading.
		return uint64(time.Since(fallbackEpoch))
	}
	return uint64(ts.Nano())
}
