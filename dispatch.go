package cabi

import cabierrors "github.com/wippyai/cabi/errors"

// Load reads a value of this shape out of linear memory at ptr. ptr must
// already satisfy the descriptor's alignment.
func (t *Type) Load(mem Memory, ptr uint32, opts Options) (any, error) {
	return t.loadAt(mem, ptr, opts, nil)
}

// Store writes value into linear memory at ptr in this shape, allocating
// out-of-line storage (string bytes, list elements) through alloc as
// needed. ptr must already satisfy the descriptor's alignment.
func (t *Type) Store(mem Memory, alloc Allocator, ptr uint32, value any, opts Options) error {
	return t.storeAt(mem, alloc, ptr, value, opts, nil)
}

// Lift reconstructs a value of this shape from the flat value stream,
// reading any out-of-line storage (string bytes, list elements, variant
// payloads) through mem.
func (t *Type) Lift(src *FlatSource, mem Memory, opts Options) (any, error) {
	return t.liftFrom(src, mem, opts, nil)
}

// Lower flattens value into a fresh FlatSink, allocating out-of-line
// storage through alloc as needed.
func (t *Type) Lower(mem Memory, alloc Allocator, value any, opts Options) (*FlatSink, error) {
	sink := NewFlatSink(t.FlatCount())
	if err := t.lowerInto(sink, mem, alloc, value, opts, nil); err != nil {
		return nil, err
	}
	return sink, nil
}

func (t *Type) loadAt(mem Memory, ptr uint32, opts Options, path []string) (any, error) {
	switch t.kind {
	case KindBool, KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64, KindF32, KindF64, KindChar:
		return loadPrimitive(t, mem, ptr, path)
	case KindString:
		return loadString(mem, ptr, opts, path)
	case KindList:
		return loadList(t, mem, ptr, path)
	case KindRecord, KindTuple:
		return loadRecord(t, mem, ptr, opts, path)
	case KindVariant, KindOption, KindResult, KindEnum:
		return loadVariant(t, mem, ptr, opts, path)
	case KindFlags:
		return loadFlags(t, mem, ptr, path)
	case KindOwn, KindBorrow:
		return loadHandle(mem, ptr)
	default:
		return nil, cabierrors.Unsupported(cabierrors.PhaseLoad, "unknown kind")
	}
}

func (t *Type) storeAt(mem Memory, alloc Allocator, ptr uint32, value any, opts Options, path []string) error {
	switch t.kind {
	case KindBool, KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64, KindF32, KindF64, KindChar:
		return storePrimitive(t, mem, ptr, value, path)
	case KindString:
		return storeString(mem, alloc, ptr, value, opts, path)
	case KindList:
		return storeList(t, mem, alloc, ptr, value, path)
	case KindRecord, KindTuple:
		return storeRecord(t, mem, alloc, ptr, value, opts, path)
	case KindVariant, KindOption, KindResult, KindEnum:
		return storeVariant(t, mem, alloc, ptr, value, opts, path)
	case KindFlags:
		return storeFlags(t, mem, ptr, value, path)
	case KindOwn, KindBorrow:
		return storeHandle(mem, ptr, value, path)
	default:
		return cabierrors.Unsupported(cabierrors.PhaseStore, "unknown kind")
	}
}

func (t *Type) liftFrom(src *FlatSource, mem Memory, opts Options, path []string) (any, error) {
	switch t.kind {
	case KindBool, KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64, KindF32, KindF64, KindChar:
		return liftPrimitive(t, src, path)
	case KindString:
		return liftString(src, mem, opts, path)
	case KindList:
		return liftList(t, src, mem, path)
	case KindRecord, KindTuple:
		return liftRecord(t, src, mem, opts, path)
	case KindVariant, KindOption, KindResult, KindEnum:
		return liftVariant(t, src, mem, opts, path)
	case KindFlags:
		return liftFlags(t, src, path)
	case KindOwn, KindBorrow:
		return liftHandle(src, path)
	default:
		return nil, cabierrors.Unsupported(cabierrors.PhaseLift, "unknown kind")
	}
}

func (t *Type) lowerInto(sink *FlatSink, mem Memory, alloc Allocator, value any, opts Options, path []string) error {
	switch t.kind {
	case KindBool, KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64, KindF32, KindF64, KindChar:
		return lowerPrimitive(t, sink, value, path)
	case KindString:
		return lowerString(sink, mem, alloc, value, opts, path)
	case KindList:
		return lowerList(t, sink, mem, alloc, value, path)
	case KindRecord, KindTuple:
		return lowerRecord(t, sink, mem, alloc, value, opts, path)
	case KindVariant, KindOption, KindResult, KindEnum:
		return lowerVariant(t, sink, mem, alloc, value, opts, path)
	case KindFlags:
		return lowerFlags(t, sink, value, path)
	case KindOwn, KindBorrow:
		return lowerHandle(sink, value, path)
	default:
		return cabierrors.Unsupported(cabierrors.PhaseLower, "unknown kind")
	}
}
