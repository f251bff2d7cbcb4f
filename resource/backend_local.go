package resource

import (
	"sync"

	cabierrors "github.com/wippyai/cabi/errors"
)

// LocalBackend is an in-process Backend: resource values live in a Go
// slice, addressed by handle, with a free list recycling dropped slots
// and a per-entry borrow count enforcing the canonical ABI's rule that an
// owning handle can't be dropped while a borrow<T> on it is outstanding.
type LocalBackend struct {
	entries  []resourceSlot
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type resourceSlot struct {
	value       any
	typeID      uint32
	rep         uint32
	borrowCount uint32
	live        bool
}

// NewLocalBackend creates an empty in-process backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]resourceSlot, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

func (b *LocalBackend) Create(typeID uint32, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, cabierrors.NotInitialized(cabierrors.PhaseHost, "resource backend (closed)")
	}
	return b.store(resourceSlot{typeID: typeID, value: value, live: true}), nil
}

func (b *LocalBackend) Get(handle Handle) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.slot(handle)
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (b *LocalBackend) Drop(handle Handle) (any, bool) {
	if handle == 0 {
		return nil, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) || !b.entries[idx].live {
		return nil, false
	}
	e := &b.entries[idx]
	if e.borrowCount > 0 {
		return nil, false
	}

	value := e.value
	*e = resourceSlot{}
	b.freeList = append(b.freeList, handle)
	return value, true
}

func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for i := range b.entries {
		if !b.entries[i].live {
			continue
		}
		if d, ok := b.entries[i].value.(Dropper); ok {
			d.Drop()
		}
		b.entries[i] = resourceSlot{}
	}
	b.entries = nil
	b.freeList = nil
	return nil
}

func (b *LocalBackend) NewFromRep(typeID uint32, rep uint32) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	return b.store(resourceSlot{typeID: typeID, rep: rep, live: true})
}

func (b *LocalBackend) Rep(handle Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.slot(handle)
	if !ok {
		return 0, false
	}
	return e.rep, true
}

func (b *LocalBackend) Borrow(handle Handle) bool {
	if handle == 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := handle - 1
	if int(idx) >= len(b.entries) || !b.entries[idx].live {
		return false
	}
	b.entries[idx].borrowCount++
	return true
}

func (b *LocalBackend) ReturnBorrow(handle Handle) bool {
	if handle == 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := handle - 1
	if int(idx) >= len(b.entries) || !b.entries[idx].live || b.entries[idx].borrowCount == 0 {
		return false
	}
	b.entries[idx].borrowCount--
	return true
}

func (b *LocalBackend) TypeID(handle Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.slot(handle)
	if !ok {
		return 0, false
	}
	return e.typeID, true
}

func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, e := range b.entries {
		if e.live {
			n++
		}
	}
	return n
}

func (b *LocalBackend) Each(fn func(Handle, uint32, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i, e := range b.entries {
		if e.live && !fn(Handle(i+1), e.typeID, e.value) {
			return
		}
	}
}

// store inserts e, reusing a free slot if one is available, and returns
// the handle it was assigned. Callers must already hold b.mu.
func (b *LocalBackend) store(e resourceSlot) Handle {
	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle
	}
	b.entries = append(b.entries, e)
	return Handle(len(b.entries))
}

// slot returns the live entry behind handle. Callers must already hold
// b.mu for reading.
func (b *LocalBackend) slot(handle Handle) (resourceSlot, bool) {
	if handle == 0 {
		return resourceSlot{}, false
	}
	idx := handle - 1
	if int(idx) >= len(b.entries) || !b.entries[idx].live {
		return resourceSlot{}, false
	}
	return b.entries[idx], true
}
