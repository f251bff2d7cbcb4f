package cabi

import (
	"strconv"

	cabierrors "github.com/wippyai/cabi/errors"
	"github.com/wippyai/cabi/internal/abi"
)

// List values travel as a (data pointer, length) pair on the wire,
// whether they appear in linear memory or in the flat stream: elements
// always live in memory, back to back at the element type's own aligned
// size, so Lift/Lower for a list allocates and walks memory exactly as
// Load/Store do. A homogeneous typed Go slice (e.g. []int32) round-trips
// through the matching element kind without going through `any` boxing;
// anything else uses the generic []any representation.

func loadListElements(elem *Type, mem Memory, dataPtr, length uint32, path []string) (any, error) {
	stride := elem.Size()
	if fast, ok := loadTypedSlice(elem, mem, dataPtr, length); ok {
		return fast, nil
	}
	out := make([]any, length)
	for i := uint32(0); i < length; i++ {
		off, ok := abi.SafeAddU32(dataPtr, i*stride)
		if !ok {
			return nil, cabierrors.OutOfBounds(cabierrors.PhaseLoad, path, int(i), int(length))
		}
		v, err := elem.loadAt(mem, off, Options{}, append(path, strconv.Itoa(int(i))))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// storeListElements writes a native list value (typed slice or []any) to
// freshly allocated memory and returns the (ptr, length) pair.
func storeListElements(elem *Type, mem Memory, alloc Allocator, value any, path []string) (uint32, uint32, error) {
	length, writeFast, ok := typedSliceLength(elem, value)
	if !ok {
		generic, isSlice := value.([]any)
		if !isSlice {
			return 0, 0, cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "list")
		}
		length = uint32(len(generic))
	}
	if length > abi.MaxListLength {
		return 0, 0, cabierrors.OutOfBounds(cabierrors.PhaseStore, path, int(length), abi.MaxListLength)
	}

	stride := elem.Size()
	byteLen, ok := abi.SafeMulU32(length, stride)
	if !ok || byteLen > abi.MaxAlloc {
		return 0, 0, cabierrors.OutOfBounds(cabierrors.PhaseStore, path, int(byteLen), abi.MaxAlloc)
	}
	dataPtr, err := Alloc(alloc, elem.Align(), byteLen)
	if err != nil {
		return 0, 0, cabierrors.AllocationFailed(cabierrors.PhaseStore, byteLen, elem.Align())
	}

	if writeFast {
		if err := storeTypedSlice(elem, mem, dataPtr, value); err != nil {
			return 0, 0, err
		}
		return dataPtr, length, nil
	}

	generic := value.([]any)
	for i, v := range generic {
		off, ok := abi.SafeAddU32(dataPtr, uint32(i)*stride)
		if !ok {
			return 0, 0, cabierrors.OutOfBounds(cabierrors.PhaseStore, path, i, len(generic))
		}
		if err := elem.storeAt(mem, alloc, off, v, Options{}, append(path, strconv.Itoa(i))); err != nil {
			return 0, 0, err
		}
	}
	return dataPtr, length, nil
}

func loadList(t *Type, mem Memory, ptr uint32, path []string) (any, error) {
	dataPtr, err := mem.ReadU32(ptr)
	if err != nil {
		return nil, err
	}
	length, err := mem.ReadU32(ptr + 4)
	if err != nil {
		return nil, err
	}
	if length > abi.MaxListLength {
		return nil, cabierrors.OutOfBounds(cabierrors.PhaseLoad, path, int(length), abi.MaxListLength)
	}
	return loadListElements(t.elem, mem, dataPtr, length, path)
}

func storeList(t *Type, mem Memory, alloc Allocator, ptr uint32, value any, path []string) error {
	dataPtr, length, err := storeListElements(t.elem, mem, alloc, value, path)
	if err != nil {
		return err
	}
	if err := mem.WriteU32(ptr, dataPtr); err != nil {
		return err
	}
	return mem.WriteU32(ptr+4, length)
}

func liftList(t *Type, src *FlatSource, mem Memory, path []string) (any, error) {
	dataBits, ok := src.next()
	if !ok {
		return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
	}
	lenBits, ok := src.next()
	if !ok {
		return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
	}
	length := uint32(lenBits)
	if length > abi.MaxListLength {
		return nil, cabierrors.OutOfBounds(cabierrors.PhaseLift, path, int(length), abi.MaxListLength)
	}
	return loadListElements(t.elem, mem, uint32(dataBits), length, path)
}

func lowerList(t *Type, sink *FlatSink, mem Memory, alloc Allocator, value any, path []string) error {
	dataPtr, length, err := storeListElements(t.elem, mem, alloc, value, path)
	if err != nil {
		return err
	}
	sink.push(uint64(dataPtr))
	sink.push(uint64(length))
	return nil
}

