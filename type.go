package cabi

import "github.com/wippyai/cabi/internal/abi"

// Type is an immutable descriptor of a component model value shape: its
// Kind, its memory size and alignment, and the flat value-type signature
// used when the value travels as function parameters or results instead of
// through linear memory. Descriptors are built bottom-up by the
// constructor functions (Bool, ListType, RecordType, ...) from already-built
// child descriptors, so there is no separate compilation or resolution
// pass and no cache: once built, a Type and everything reachable from it
// is safe to share across goroutines.
type Type struct {
	kind  Kind
	size  uint32
	align uint32
	flat  []abi.FlatKind

	// list, option
	elem *Type

	// record, tuple
	fields []Field

	// variant, enum
	cases     []Case
	discSize  uint32
	discAlign uint32

	// result
	okType  *Type
	errType *Type

	// flags
	flagNames []string
	flagWords uint32

	// own, borrow
	resourceName string
}

// Field describes one named, positioned member of a record or tuple.
type Field struct {
	Name   string
	Type   *Type
	Offset uint32
}

// Case describes one named, optionally-payloaded arm of a variant or enum.
type Case struct {
	Name          string
	Type          *Type // nil for a payload-less case
	PayloadOffset uint32
}

func (t *Type) Kind() Kind           { return t.kind }
func (t *Type) Size() uint32         { return t.size }
func (t *Type) Align() uint32        { return t.align }
func (t *Type) FlatTypes() []abi.FlatKind {
	out := make([]abi.FlatKind, len(t.flat))
	copy(out, t.flat)
	return out
}
func (t *Type) FlatCount() int { return len(t.flat) }

// Elem returns the element type of a list or option descriptor, or nil
// for any other kind (own and borrow carry a resource name instead).
func (t *Type) Elem() *Type { return t.elem }

// Fields returns the declared-order fields of a record or tuple
// descriptor, or nil for any other kind.
func (t *Type) Fields() []Field { return t.fields }

// Cases returns the declared-order cases of a variant or enum descriptor,
// or nil for any other kind.
func (t *Type) Cases() []Case { return t.cases }

// OkType and ErrType return the payload descriptors of a result
// descriptor; either may be nil (result<_, E> or result<T, _>).
func (t *Type) OkType() *Type  { return t.okType }
func (t *Type) ErrType() *Type { return t.errType }

// FlagNames returns the declared-order flag names of a flags descriptor.
func (t *Type) FlagNames() []string { return t.flagNames }

// ResourceName returns the namespaced resource name an own/borrow
// descriptor's handles refer to.
func (t *Type) ResourceName() string { return t.resourceName }

// IsPure reports whether the descriptor's Load/Store never touch linear
// memory beyond the value's own in-place footprint: it has no string or
// list anywhere in its shape, so lifting/lowering it never needs an
// allocator.
func (t *Type) IsPure() bool {
	switch t.kind {
	case KindString, KindList:
		return false
	case KindRecord, KindTuple:
		for _, f := range t.fields {
			if !f.Type.IsPure() {
				return false
			}
		}
		return true
	case KindVariant:
		for _, c := range t.cases {
			if c.Type != nil && !c.Type.IsPure() {
				return false
			}
		}
		return true
	case KindOption:
		return t.elem.IsPure()
	case KindResult:
		if t.okType != nil && !t.okType.IsPure() {
			return false
		}
		if t.errType != nil && !t.errType.IsPure() {
			return false
		}
		return true
	default:
		return true
	}
}
