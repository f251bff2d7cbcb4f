package cabi

import cabierrors "github.com/wippyai/cabi/errors"

// own<T> and borrow<T> are both opaque u32 handles on the wire; the core
// never dereferences them or distinguishes ownership at the marshaling
// layer. That distinction is the host's to enforce.

func loadHandle(mem Memory, ptr uint32) (any, error) {
	v, err := mem.ReadU32(ptr)
	if err != nil {
		return nil, err
	}
	return Handle(v), nil
}

func storeHandle(mem Memory, ptr uint32, value any, path []string) error {
	h, ok := value.(Handle)
	if !ok {
		return cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "handle")
	}
	return mem.WriteU32(ptr, uint32(h))
}

func liftHandle(src *FlatSource, path []string) (any, error) {
	bits, ok := src.next()
	if !ok {
		return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
	}
	return Handle(uint32(bits)), nil
}

func lowerHandle(sink *FlatSink, value any, path []string) error {
	h, ok := value.(Handle)
	if !ok {
		return cabierrors.TypeMismatch(cabierrors.PhaseLower, path, "", "handle")
	}
	sink.push(uint64(h))
	return nil
}
