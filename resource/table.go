package resource

import "sync"

// HandleTable is the host-side map from Handle to resource value backing
// every own<T>/borrow<T> descriptor a ResourceRegistry declares. It wraps
// a Backend with the close-gating a registry needs to stop accepting new
// resources once a component instance is torn down.
type HandleTable struct {
	backend Backend
	closed  bool
	mu      sync.RWMutex
}

// NewTable creates an empty table backed by an in-process LocalBackend.
func NewTable() *HandleTable {
	return &HandleTable{backend: NewLocalBackend()}
}

// Insert stores value under typeID and returns its handle, or 0 if the
// table is closed or the backend rejects the insert.
func (t *HandleTable) Insert(typeID uint32, value any) Handle {
	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return 0
	}

	handle, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}
	return handle
}

// Get retrieves the value behind handle.
func (t *HandleTable) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetTyped retrieves the value behind handle only if it was declared
// under typeID, so an own<T> handle can never be read back as a
// different resource type.
func (t *HandleTable) GetTyped(handle Handle, typeID uint32) (any, bool) {
	actual, ok := t.backend.TypeID(handle)
	if !ok || actual != typeID {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Remove drops handle and runs its Dropper, if it has one.
func (t *HandleTable) Remove(handle Handle) (any, bool) {
	value, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	return value, true
}

// Len returns the number of live resources.
func (t *HandleTable) Len() int {
	return t.backend.Len()
}

// Clear drops every live resource.
func (t *HandleTable) Clear() {
	var handles []Handle
	t.backend.Each(func(h Handle, _ uint32, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close stops the table from accepting new resources and releases
// everything it currently holds.
func (t *HandleTable) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return t.backend.Close()
}

// Backend returns the underlying Backend for resource.new/resource.rep
// and borrow-tracking operations that the plain Insert/Get/Remove surface
// doesn't expose.
func (t *HandleTable) Backend() Backend {
	return t.backend
}
