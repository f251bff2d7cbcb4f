package cabi

import (
	cabierrors "github.com/wippyai/cabi/errors"
)

// Flags is flattened as its words, one u32 per flat slot regardless of
// bucket (a 1-8 flag set still flattens to a single i32, just with the
// high bits always clear). In memory, a 1-8 or 9-16 flag set occupies 1 or
// 2 bytes; larger sets take 4 bytes per word.

func loadFlags(t *Type, mem Memory, ptr uint32, path []string) (any, error) {
	f, err := NewFlags(t)
	if err != nil {
		return nil, err
	}
	switch t.flagWords {
	case 0:
		return f, nil
	case 1:
		var v uint32
		var err error
		switch t.size {
		case 1:
			var b uint8
			b, err = mem.ReadU8(ptr)
			v = uint32(b)
		case 2:
			var h uint16
			h, err = mem.ReadU16(ptr)
			v = uint32(h)
		default:
			v, err = mem.ReadU32(ptr)
		}
		if err != nil {
			return nil, err
		}
		f.words[0] = v
		return f, nil
	default:
		for i := uint32(0); i < t.flagWords; i++ {
			v, err := mem.ReadU32(ptr + i*4)
			if err != nil {
				return nil, err
			}
			f.words[i] = v
		}
		return f, nil
	}
}

func storeFlags(t *Type, mem Memory, ptr uint32, value any, path []string) error {
	f, ok := value.(*Flags)
	if !ok {
		return cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "flags")
	}
	if t.flagWords == 0 {
		return nil
	}
	if t.flagWords == 1 {
		switch t.size {
		case 1:
			return mem.WriteU8(ptr, uint8(f.words[0]))
		case 2:
			return mem.WriteU16(ptr, uint16(f.words[0]))
		default:
			return mem.WriteU32(ptr, f.words[0])
		}
	}
	for i := uint32(0); i < t.flagWords; i++ {
		if err := mem.WriteU32(ptr+i*4, f.words[i]); err != nil {
			return err
		}
	}
	return nil
}

func liftFlags(t *Type, src *FlatSource, path []string) (any, error) {
	f, err := NewFlags(t)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < t.flagWords; i++ {
		bits, ok := src.next()
		if !ok {
			return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
		}
		f.words[i] = uint32(bits)
	}
	return f, nil
}

func lowerFlags(t *Type, sink *FlatSink, value any, path []string) error {
	f, ok := value.(*Flags)
	if !ok {
		return cabierrors.TypeMismatch(cabierrors.PhaseLower, path, "", "flags")
	}
	for i := uint32(0); i < t.flagWords; i++ {
		sink.push(uint64(f.words[i]))
	}
	return nil
}
