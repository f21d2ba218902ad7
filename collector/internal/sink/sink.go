// Package sink defines the persistence boundary of the drain pipeline and
// the binary log file sink behind it.
//
// The drain hands each taken ring to the sink exactly once. The sink must
// copy or serialize everything it wants before returning: the ring goes
// back into the producer's free pool immediately after, whatever the sink
// returned. Sink errors are counted upstream, never propagated into the
// hot path.
package sink

import (
	"github.com/adatrace/adatrace/agent/lane"
	"github.com/adatrace/adatrace/agent/ring"
)

// Sink consumes drained rings.
type Sink interface {
	// Submit persists the readable contents of the ring. The ring must
	// not be retained beyond the call.
	Submit(slot uint32, kind lane.Kind, r *ring.Ring) error
	// Flush pushes buffered data toward durability.
	Flush() error
	// Finalize flushes and releases resources. The sink is not used again.
	Finalize() error
}

// Null discards everything. Useful for tests and load measurement.
type Null struct{}

func (Null) Submit(uint32, lane.Kind, *ring.Ring) error { return nil }
func (Null) Flush() error                               { return nil }
func (Null) Finalize() error                            { return nil }
