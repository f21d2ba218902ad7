package sink

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/adatrace/adatrace/agent/lane"
	"github.com/adatrace/adatrace/agent/ring"
)

// BlockMagic starts every block in the log file.
const BlockMagic uint32 = 0x41444C47 // "ADLG"

// BlockHeader frames one drained ring in the log file. Little-endian on
// disk, followed by Count*EventSize bytes of raw events.
type BlockHeader struct {
	Magic     uint32
	Slot      uint32
	Kind      uint32
	EventSize uint32
	Count     uint32
	_         uint32
}

// BlockHeaderSize is the on-disk block header size.
const BlockHeaderSize = int(unsafe.Sizeof(BlockHeader{}))

// File writes drained rings to a durable binary log.
//
// Write errors do not stop the drain: they are reported once on the error
// channel, counted, and the sink keeps accepting (and discarding) rings so
// the agent never stalls behind a broken disk.
type File struct {
	f      *os.File
	w      *bufio.Writer
	buf    []byte
	errCh  chan error
	failed bool
	blocks uint64
	events uint64
	log    *zap.SugaredLogger
}

// NewFile creates (or truncates) the log file at path.
func NewFile(path string, log *zap.SugaredLogger) (*File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace log %q: %w", path, err)
	}

	return &File{
		f:     f,
		w:     bufio.NewWriterSize(f, 1<<20),
		errCh: make(chan error, 1),
		log:   log,
	}, nil
}

// Errors delivers at most one persistence error to the controller.
func (m *File) Errors() <-chan error {
	return m.errCh
}

// Blocks returns the number of blocks written so far.
func (m *File) Blocks() uint64 {
	return m.blocks
}

// Events returns the number of events written so far.
func (m *File) Events() uint64 {
	return m.events
}

func (m *File) fail(err error) error {
	if !m.failed {
		m.failed = true
		m.log.Errorw("trace log write failed; discarding further blocks", zap.Error(err))
		select {
		case m.errCh <- err:
		default:
		}
	}
	return err
}

// Submit drains the ring's readable events into one log block.
func (m *File) Submit(slot uint32, kind lane.Kind, r *ring.Ring) error {
	count := r.AvailableRead()
	if count == 0 {
		return nil
	}

	eventSize := r.EventSize()
	need := int(count) * int(eventSize)
	if cap(m.buf) < need {
		m.buf = make([]byte, need)
	}
	m.buf = m.buf[:need]

	got := r.ReadBatch(unsafe.Pointer(&m.buf[0]), count)
	m.buf = m.buf[:int(got)*int(eventSize)]

	if m.failed {
		// Keep draining rings so the agent side stays healthy, but stop
		// touching the broken file.
		return nil
	}

	hdr := BlockHeader{
		Magic:     BlockMagic,
		Slot:      slot,
		Kind:      uint32(kind),
		EventSize: eventSize,
		Count:     got,
	}
	if err := binary.Write(m.w, binary.LittleEndian, &hdr); err != nil {
		return m.fail(err)
	}
	if _, err := m.w.Write(m.buf); err != nil {
		return m.fail(err)
	}

	m.blocks++
	m.events += uint64(got)
	return nil
}

// Flush pushes buffered blocks to the kernel.
func (m *File) Flush() error {
	if m.failed {
		return nil
	}
	if err := m.w.Flush(); err != nil {
		return m.fail(err)
	}
	return nil
}

// Finalize flushes, syncs and closes the log.
func (m *File) Finalize() error {
	if err := m.Flush(); err != nil {
		m.f.Close()
		return err
	}
	if err := m.f.Sync(); err != nil {
		m.f.Close()
		return m.fail(err)
	}
	return m.f.Close()
}
