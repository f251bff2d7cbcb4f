package cabi

import (
	"encoding/binary"

	cabierrors "github.com/wippyai/cabi/errors"
)

// Memory represents the guest's linear memory: a flat byte buffer addressed
// by u32 pointers, accessed little-endian. Load and Store operations on
// descriptors read and write through this interface; the core never
// assumes a particular backing store, so the same descriptors work whether
// memory is backed by a real WebAssembly instance or an in-process buffer.
type Memory interface {
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU16(offset uint32) (uint16, error)
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU8(offset uint32, value uint8) error
	WriteU16(offset uint32, value uint16) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer reports the current size of linear memory in bytes. Not every
// Memory implementation needs to support it, so it is a separate capability
// interface rather than part of Memory itself.
type MemorySizer interface {
	Size() uint32
}

// Allocator is the guest's single allocation hook, matching the canonical
// ABI's cabi_realloc: a new block is obtained by passing a zero old
// pointer and zero old size, and an existing block is grown or shrunk by
// passing its current pointer and size. There is no Free: ownership of
// everything the core allocates or receives a pointer to belongs to the
// guest, and the core never reclaims it.
type Allocator interface {
	Realloc(oldPtr, oldSize, align, newSize uint32) (uint32, error)
}

// Alloc requests a fresh block of newSize bytes aligned to align, by
// calling Realloc with a zero old allocation.
func Alloc(a Allocator, align, newSize uint32) (uint32, error) {
	return a.Realloc(0, 0, align, newSize)
}

// LinearMemory is a bump-allocating, in-process Memory and Allocator
// implementation. It is useful for tests and for hosts that do not have a
// real WebAssembly instance backing their guest state.
type LinearMemory struct {
	buf  []byte
	next uint32
}

// NewLinearMemory creates a LinearMemory with the given initial capacity in
// bytes. Capacity grows on demand as allocations or writes require it.
func NewLinearMemory(capacity uint32) *LinearMemory {
	if capacity == 0 {
		capacity = 65536
	}
	return &LinearMemory{buf: make([]byte, capacity)}
}

func (m *LinearMemory) Size() uint32 {
	return uint32(len(m.buf))
}

func (m *LinearMemory) grow(minSize uint32) {
	if minSize <= uint32(len(m.buf)) {
		return
	}
	newSize := uint32(len(m.buf))
	if newSize == 0 {
		newSize = 65536
	}
	for newSize < minSize {
		newSize *= 2
	}
	grown := make([]byte, newSize)
	copy(grown, m.buf)
	m.buf = grown
}

func (m *LinearMemory) bounds(offset, length uint32) error {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m.buf)) {
		return cabierrors.OutOfBounds(cabierrors.PhaseLoad, nil, int(offset), len(m.buf))
	}
	return nil
}

func (m *LinearMemory) Read(offset, length uint32) ([]byte, error) {
	if err := m.bounds(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.buf[offset:offset+length])
	return out, nil
}

func (m *LinearMemory) Write(offset uint32, data []byte) error {
	m.grow(offset + uint32(len(data)))
	copy(m.buf[offset:], data)
	return nil
}

func (m *LinearMemory) ReadU8(offset uint32) (uint8, error) {
	if err := m.bounds(offset, 1); err != nil {
		return 0, err
	}
	return m.buf[offset], nil
}

func (m *LinearMemory) ReadU16(offset uint32) (uint16, error) {
	if err := m.bounds(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.buf[offset:]), nil
}

func (m *LinearMemory) ReadU32(offset uint32) (uint32, error) {
	if err := m.bounds(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.buf[offset:]), nil
}

func (m *LinearMemory) ReadU64(offset uint32) (uint64, error) {
	if err := m.bounds(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.buf[offset:]), nil
}

func (m *LinearMemory) WriteU8(offset uint32, value uint8) error {
	m.grow(offset + 1)
	m.buf[offset] = value
	return nil
}

func (m *LinearMemory) WriteU16(offset uint32, value uint16) error {
	m.grow(offset + 2)
	binary.LittleEndian.PutUint16(m.buf[offset:], value)
	return nil
}

func (m *LinearMemory) WriteU32(offset uint32, value uint32) error {
	m.grow(offset + 4)
	binary.LittleEndian.PutUint32(m.buf[offset:], value)
	return nil
}

func (m *LinearMemory) WriteU64(offset uint32, value uint64) error {
	m.grow(offset + 8)
	binary.LittleEndian.PutUint64(m.buf[offset:], value)
	return nil
}

// Realloc implements Allocator with a simple bump allocator: shrink and
// in-place grow requests at the end of the arena are honored cheaply, and
// anything else is satisfied by bumping the arena pointer. The arena
// starts at byte 1024: addresses below that are never handed out, so a
// caller may use them as fixed locations (e.g. a Store at pointer 0)
// without an allocation made during that Store overlapping them.
func (m *LinearMemory) Realloc(oldPtr, oldSize, align, newSize uint32) (uint32, error) {
	if newSize == 0 {
		return 0, nil
	}
	const arenaStart = 1024
	if m.next < arenaStart {
		m.next = arenaStart
	}
	if oldPtr != 0 && oldPtr+oldSize == m.next && align != 0 {
		if oldPtr%align == 0 {
			m.grow(oldPtr + newSize)
			m.next = oldPtr + newSize
			return oldPtr, nil
		}
	}
	base := alignUp(m.next, align)
	m.grow(base + newSize)
	if oldPtr != 0 && oldSize > 0 {
		n := oldSize
		if newSize < n {
			n = newSize
		}
		copy(m.buf[base:base+n], m.buf[oldPtr:oldPtr+n])
	}
	m.next = base + newSize
	return base, nil
}

func alignUp(offset, align uint32) uint32 {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
