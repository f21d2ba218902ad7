package event

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// The wire sizes are part of the shared memory layout; a drift here breaks
// every attached process.
func TestWireSizes(t *testing.T) {
	assert.Equal(t, uintptr(IndexEventSize), unsafe.Sizeof(IndexEvent{}))
	assert.Equal(t, uintptr(DetailEventSize), unsafe.Sizeof(DetailEvent{}))
}

func TestDetailEventEmbedsIndex(t *testing.T) {
	// The index fields must sit at offset zero so a detail record can be
	// decoded as an index record.
	assert.Zero(t, unsafe.Offsetof(DetailEvent{}.IndexEvent))
}

func TestSnapshot(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		var ev DetailEvent
		big := make([]byte, SnapMax*2)
		for i := range big {
			big[i] = byte(i)
		}

		ev.Snapshot(big)
		assert.Equal(t, uint64(SnapMax), ev.SnapLen)
		assert.Equal(t, big[:SnapMax], ev.Snap[:])
	})

	t.Run("short", func(t *testing.T) {
		var ev DetailEvent
		ev.Snapshot([]byte{1, 2, 3})
		assert.Equal(t, uint64(3), ev.SnapLen)
		assert.Equal(t, []byte{1, 2, 3}, ev.Snap[:3])
	})
}

func TestNowMonotonic(t *testing.T) {
	prev := Now()
	for range 1000 {
		cur := Now()
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "call", KindCall.String())
	assert.Equal(t, "return", KindReturn.String())
	assert.Equal(t, "unknown", Kind(7).String())
}
