package cabi

import (
	cabierrors "github.com/wippyai/cabi/errors"
	"github.com/wippyai/cabi/resource"
	"go.uber.org/zap"
)

// NamespaceResourceType declares a resource type: the namespaced name
// own<T>/borrow<T> descriptors refer to, plus the FunctionTypes of its
// constructor, methods, and static functions. The registry assigns the
// type a unique type ID so a resource.HandleTable can tell resources of
// different declared types apart even though both are, on the wire, the
// same opaque handle.
type NamespaceResourceType struct {
	Name        string
	typeID      uint32
	Constructor *FunctionType
	Methods     map[string]*FunctionType
	Statics     map[string]*FunctionType
}

// ResourceRegistry tracks the declared resource types for one component
// and the live handle table backing them.
type ResourceRegistry struct {
	table *resource.HandleTable
	types map[string]*NamespaceResourceType
	next  uint32
}

// NewResourceRegistry creates an empty registry with its own handle
// table.
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{
		table: resource.NewTable(),
		types: make(map[string]*NamespaceResourceType),
	}
}

// Declare registers a resource type under name, with its constructor,
// methods, and statics. Declaring the same name twice is an error.
func (r *ResourceRegistry) Declare(name string, constructor *FunctionType, methods, statics map[string]*FunctionType) (*NamespaceResourceType, error) {
	if _, exists := r.types[name]; exists {
		return nil, cabierrors.New(cabierrors.PhaseCompile, cabierrors.KindInvalidData).
			Detail("resource %q already declared", name).Build()
	}
	r.next++
	rt := &NamespaceResourceType{
		Name:        name,
		typeID:      r.next,
		Constructor: constructor,
		Methods:     methods,
		Statics:     statics,
	}
	r.types[name] = rt
	return rt, nil
}

// Lookup returns the declared resource type for name, if any.
func (r *ResourceRegistry) Lookup(name string) (*NamespaceResourceType, bool) {
	rt, ok := r.types[name]
	return rt, ok
}

// New creates an owning Handle for value under the named resource type.
func (r *ResourceRegistry) New(name string, value any) (Handle, error) {
	rt, ok := r.types[name]
	if !ok {
		return 0, cabierrors.NotFound(cabierrors.PhaseHost, "resource type", name)
	}
	h := r.table.Insert(rt.typeID, value)
	if h == 0 {
		return 0, cabierrors.New(cabierrors.PhaseHost, cabierrors.KindAllocation).
			Detail("resource table rejected insert for %q", name).Build()
	}
	Logger().Debug("resource created", zap.String("type", name), zap.Uint32("handle", uint32(h)))
	return Handle(h), nil
}

// Get retrieves the value an owning or borrowed Handle refers to, under
// the named resource type. It fails if the handle was never issued for
// that type.
func (r *ResourceRegistry) Get(name string, h Handle) (any, error) {
	rt, ok := r.types[name]
	if !ok {
		return nil, cabierrors.NotFound(cabierrors.PhaseHost, "resource type", name)
	}
	v, ok := r.table.GetTyped(resource.Handle(h), rt.typeID)
	if !ok {
		return nil, cabierrors.NotFound(cabierrors.PhaseHost, "resource handle", rt.Name)
	}
	return v, nil
}

// Drop destroys the resource behind an owning Handle, failing if it has
// outstanding borrows.
func (r *ResourceRegistry) Drop(h Handle) (any, error) {
	v, ok := r.table.Remove(resource.Handle(h))
	if !ok {
		return nil, cabierrors.New(cabierrors.PhaseHost, cabierrors.KindInvalidData).
			Detail("drop failed: handle invalid or has outstanding borrows").Build()
	}
	Logger().Debug("resource dropped", zap.Uint32("handle", uint32(h)))
	return v, nil
}

// Borrow records a temporary access against an owning Handle without
// transferring ownership. ReturnBorrow must be called once the borrow
// scope ends.
func (r *ResourceRegistry) Borrow(h Handle) bool {
	return r.table.Backend().Borrow(resource.Handle(h))
}

// ReturnBorrow releases a borrow recorded by Borrow.
func (r *ResourceRegistry) ReturnBorrow(h Handle) bool {
	return r.table.Backend().ReturnBorrow(resource.Handle(h))
}

// Close releases every resource the registry holds.
func (r *ResourceRegistry) Close() error {
	return r.table.Close()
}
