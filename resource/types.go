package resource

// Handle is an opaque reference into a HandleTable: the host-side stand-in
// for an own<T> or borrow<T> value on the wire. Handle 0 is reserved and
// never valid.
type Handle uint32

// Dropper is optionally implemented by a resource value that needs
// cleanup once its owning handle is dropped or the table holding it is
// closed.
type Dropper interface {
	Drop()
}

// Backend is the storage a HandleTable delegates to. Beyond plain
// insert/get/drop, it carries the bookkeeping own<T>/borrow<T> marshaling
// needs directly: a representation value for resource.new/resource.rep
// and a borrow count so an owning handle can't be dropped out from under
// an outstanding borrow<T>.
type Backend interface {
	// Create stores value under typeID and returns a fresh handle.
	Create(typeID uint32, value any) (Handle, error)

	// Get retrieves the value behind handle.
	Get(handle Handle) (any, bool)

	// Drop removes handle and returns (value, true) if its destructor
	// should run. Returns (nil, false) if handle is invalid or still
	// borrowed.
	Drop(handle Handle) (any, bool)

	// Close releases every resource the backend holds.
	Close() error

	// NewFromRep creates a handle from a bare representation value
	// (typically a guest memory pointer), for resource.new.
	NewFromRep(typeID uint32, rep uint32) Handle

	// Rep returns the representation value behind handle, for
	// resource.rep.
	Rep(handle Handle) (uint32, bool)

	// TypeID returns the declared resource type behind handle.
	TypeID(handle Handle) (uint32, bool)

	// Borrow records one outstanding borrow<T> against handle.
	Borrow(handle Handle) bool

	// ReturnBorrow releases one borrow recorded by Borrow.
	ReturnBorrow(handle Handle) bool

	// Len reports the number of live resources.
	Len() int

	// Each iterates every live resource.
	Each(func(Handle, uint32, any) bool)
}
