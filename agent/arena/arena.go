// Package arena provides the shared memory region backing one tracing
// session.
//
// The arena is a file-backed mapping shared between the traced process and
// the collector. Every internal reference is a byte offset relative to the
// mapping base, so the two processes may (and usually do) map the region at
// different virtual addresses and still agree on the layout.
//
// Layout:
//
//	[0..8)   magic ("ADA" + version byte sequence)
//	[8..16)  layout version
//	[16..24) bump cursor (shared, atomic)
//	[64..)   bumped placements, each 64-byte aligned
//
// The bump allocator only ever grows. There is no free and no relocation:
// once a session is initialized its layout is immutable.
package arena

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"golang.org/x/sys/unix"
)

// Version is the arena layout version. Attach refuses mappings created by a
// different version.
const Version uint64 = 1

// DefaultDir is where arena files live unless the caller says otherwise.
const DefaultDir = "/dev/shm"

const (
	magicOff  = 0
	versionOff = 8
	cursorOff = 16

	// FirstOffset is the first offset Bump ever hands out. The region below
	// it holds the arena header and is cache-line padding beyond that.
	FirstOffset = 64

	// MinSize is the smallest arena that makes any sense: header plus one
	// cache line of payload.
	MinSize = 128
)

var (
	ErrTooSmall        = errors.New("arena size is too small")
	ErrOutOfArena      = errors.New("out of arena space")
	ErrNotFound        = errors.New("arena not found")
	ErrBadMagic        = errors.New("mapping is not a trace arena")
	ErrVersionMismatch = errors.New("arena layout version mismatch")
)

// magic returns the 8 magic bytes: "ADA" followed by the version byte
// sequence. Process A writes them last during Create; process B validates
// them first during Attach.
func magic() [8]byte {
	m := [8]byte{'A', 'D', 'A'}
	binary.LittleEndian.PutUint32(m[4:], uint32(Version))
	return m
}

// Arena is one process's view of the shared region.
type Arena struct {
	f    *os.File
	data []byte
	size uint64
}

// Create allocates a zeroed shared region of at least size bytes under dir
// (rounded up to the page size) and maps it read/write.
//
// An existing file with the same name is truncated: a crashed session must
// not block the next one.
func Create(dir, name string, size datasize.ByteSize) (*Arena, error) {
	if size.Bytes() < MinSize {
		return nil, fmt.Errorf("%w: %s < %d bytes", ErrTooSmall, size, MinSize)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create arena file %q: %w", path, err)
	}

	pageSize := uint64(os.Getpagesize())
	mapSize := (size.Bytes() + pageSize - 1) &^ (pageSize - 1)

	if err := unix.Ftruncate(int(f.Fd()), int64(mapSize)); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to size arena file %q: %w", path, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(mapSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to map arena file %q: %w", path, err)
	}

	a := &Arena{f: f, data: data, size: mapSize}

	binary.LittleEndian.PutUint64(a.data[versionOff:], Version)
	a.cursor().Store(FirstOffset)

	// The magic is published last: an attacher that sees it sees a fully
	// initialized header.
	m := magic()
	copy(a.data[magicOff:magicOff+8], m[:])

	return a, nil
}

// Attach opens an existing arena read/write and validates its header.
func Attach(dir, name string) (*Arena, error) {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open arena file %q: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat arena file %q: %w", path, err)
	}
	if fi.Size() < MinSize {
		f.Close()
		return nil, fmt.Errorf("%w: %q is %d bytes", ErrTooSmall, path, fi.Size())
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to map arena file %q: %w", path, err)
	}

	a := &Arena{f: f, data: data, size: uint64(fi.Size())}

	m := magic()
	if [3]byte(a.data[magicOff:magicOff+3]) != [3]byte(m[:3]) {
		a.Close()
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, path)
	}
	if v := binary.LittleEndian.Uint64(a.data[versionOff:]); v != Version {
		a.Close()
		return nil, fmt.Errorf("%w: have %d, want %d", ErrVersionMismatch, v, Version)
	}

	return a, nil
}

func (m *Arena) cursor() *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Pointer(&m.data[cursorOff]))
}

// Bump reserves size bytes aligned to align and returns their offset.
//
// The cursor lives in the shared header, so placements made by concurrently
// registering threads (or even by both processes during startup) never
// collide. Alignment must be a power of two.
func (m *Arena) Bump(size, align uint64) (uint64, error) {
	if size == 0 || align == 0 || align&(align-1) != 0 {
		return 0, fmt.Errorf("invalid bump request: size=%d align=%d", size, align)
	}

	cur := m.cursor()
	for {
		old := cur.Load()
		off := (old + align - 1) &^ (align - 1)
		end := off + size
		if end > m.size {
			return 0, fmt.Errorf("%w: need %d bytes at offset %d, arena is %d bytes",
				ErrOutOfArena, size, off, m.size)
		}
		if cur.CompareAndSwap(old, end) {
			return off, nil
		}
	}
}

// At materializes the pointer base+off. The offset must have been produced
// by Bump. The result is recomputed on every call and must not be stored in
// shared memory.
func (m *Arena) At(off uint64) unsafe.Pointer {
	if off >= m.size {
		panic(fmt.Sprintf("arena offset %d out of range [0, %d)", off, m.size))
	}
	return unsafe.Pointer(&m.data[off])
}

// OffsetOf is the inverse of At for pointers into this mapping. It exists
// for tests that assert no absolute pointer ever lands in shared memory.
func (m *Arena) OffsetOf(p unsafe.Pointer) uint64 {
	base := uintptr(unsafe.Pointer(&m.data[0]))
	return uint64(uintptr(p) - base)
}

// Size returns the mapped size in bytes.
func (m *Arena) Size() uint64 {
	return m.size
}

// Remaining returns how many bytes Bump can still hand out, ignoring
// alignment padding.
func (m *Arena) Remaining() uint64 {
	return m.size - m.cursor().Load()
}

// Close unmaps the region and closes the backing file. The file itself is
// left in place for other participants; see Unlink.
func (m *Arena) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Unlink removes the backing file. Existing mappings stay valid until every
// participant unmaps.
func (m *Arena) Unlink() error {
	return os.Remove(m.f.Name())
}
