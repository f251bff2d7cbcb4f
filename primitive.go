package cabi

import (
	"math"

	cabierrors "github.com/wippyai/cabi/errors"
	"github.com/wippyai/cabi/internal/abi"
)

// Primitive Go types map directly onto the fixed-width wire kinds: Go's
// own same-width signed/unsigned conversions already implement the
// canonical ABI's "add/subtract 2^n" two's-complement wraparound, so
// lowering a negative s8 is simply uint8(int8(v)) and lifting it back is
// int8(uint8(bits)) — no manual range math needed. Go's type system also
// makes the signed-range validation the canonical ABI describes for lower
// unnecessary: an int8 literally cannot hold a value outside [-128, 127].

func loadPrimitive(t *Type, mem Memory, ptr uint32, path []string) (any, error) {
	switch t.kind {
	case KindBool:
		b, err := mem.ReadU8(ptr)
		if err != nil {
			return nil, err
		}
		return b != 0, nil
	case KindU8:
		v, err := mem.ReadU8(ptr)
		return v, err
	case KindS8:
		v, err := mem.ReadU8(ptr)
		return int8(v), err
	case KindU16:
		v, err := mem.ReadU16(ptr)
		return v, err
	case KindS16:
		v, err := mem.ReadU16(ptr)
		return int16(v), err
	case KindU32:
		v, err := mem.ReadU32(ptr)
		return v, err
	case KindS32:
		v, err := mem.ReadU32(ptr)
		return int32(v), err
	case KindU64:
		v, err := mem.ReadU64(ptr)
		return v, err
	case KindS64:
		v, err := mem.ReadU64(ptr)
		return int64(v), err
	case KindF32:
		bits, err := mem.ReadU32(ptr)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(bits), nil
	case KindF64:
		bits, err := mem.ReadU64(ptr)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(bits), nil
	case KindChar:
		bits, err := mem.ReadU32(ptr)
		if err != nil {
			return nil, err
		}
		r := rune(bits)
		if !abi.ValidateChar(r) {
			return nil, cabierrors.InvalidData(cabierrors.PhaseValidate, path, "char value is a surrogate or out of Unicode range")
		}
		return r, nil
	}
	panic("loadPrimitive: not a primitive kind")
}

func storePrimitive(t *Type, mem Memory, ptr uint32, value any, path []string) error {
	mismatch := func(goType string) error {
		return cabierrors.TypeMismatch(cabierrors.PhaseStore, path, goType, t.kind.String())
	}
	switch t.kind {
	case KindBool:
		v, ok := value.(bool)
		if !ok {
			return mismatch("bool")
		}
		b := uint8(0)
		if v {
			b = 1
		}
		return mem.WriteU8(ptr, b)
	case KindU8:
		v, ok := value.(uint8)
		if !ok {
			return mismatch("uint8")
		}
		return mem.WriteU8(ptr, v)
	case KindS8:
		v, ok := value.(int8)
		if !ok {
			return mismatch("int8")
		}
		return mem.WriteU8(ptr, uint8(v))
	case KindU16:
		v, ok := value.(uint16)
		if !ok {
			return mismatch("uint16")
		}
		return mem.WriteU16(ptr, v)
	case KindS16:
		v, ok := value.(int16)
		if !ok {
			return mismatch("int16")
		}
		return mem.WriteU16(ptr, uint16(v))
	case KindU32:
		v, ok := value.(uint32)
		if !ok {
			return mismatch("uint32")
		}
		return mem.WriteU32(ptr, v)
	case KindS32:
		v, ok := value.(int32)
		if !ok {
			return mismatch("int32")
		}
		return mem.WriteU32(ptr, uint32(v))
	case KindU64:
		v, ok := value.(uint64)
		if !ok {
			return mismatch("uint64")
		}
		return mem.WriteU64(ptr, v)
	case KindS64:
		v, ok := value.(int64)
		if !ok {
			return mismatch("int64")
		}
		return mem.WriteU64(ptr, uint64(v))
	case KindF32:
		v, ok := value.(float32)
		if !ok {
			return mismatch("float32")
		}
		return mem.WriteU32(ptr, abi.CanonicalizeF32(math.Float32bits(v)))
	case KindF64:
		v, ok := value.(float64)
		if !ok {
			return mismatch("float64")
		}
		return mem.WriteU64(ptr, abi.CanonicalizeF64(math.Float64bits(v)))
	case KindChar:
		v, ok := value.(rune)
		if !ok {
			return mismatch("rune")
		}
		if !abi.ValidateChar(v) {
			return cabierrors.InvalidData(cabierrors.PhaseValidate, path, "char value is a surrogate or out of Unicode range")
		}
		return mem.WriteU32(ptr, uint32(v))
	}
	panic("storePrimitive: not a primitive kind")
}

func liftPrimitive(t *Type, src *FlatSource, path []string) (any, error) {
	bits, ok := src.next()
	if !ok {
		return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
	}
	switch t.kind {
	case KindBool:
		return bits != 0, nil
	case KindU8:
		return uint8(bits), nil
	case KindS8:
		return int8(uint8(bits)), nil
	case KindU16:
		return uint16(bits), nil
	case KindS16:
		return int16(uint16(bits)), nil
	case KindU32:
		return uint32(bits), nil
	case KindS32:
		return int32(uint32(bits)), nil
	case KindU64:
		return bits, nil
	case KindS64:
		return int64(bits), nil
	case KindF32:
		return math.Float32frombits(abi.CanonicalizeF32(uint32(bits))), nil
	case KindF64:
		return math.Float64frombits(abi.CanonicalizeF64(bits)), nil
	case KindChar:
		r := rune(uint32(bits))
		if !abi.ValidateChar(r) {
			return nil, cabierrors.InvalidData(cabierrors.PhaseValidate, path, "char value is a surrogate or out of Unicode range")
		}
		return r, nil
	}
	panic("liftPrimitive: not a primitive kind")
}

func lowerPrimitive(t *Type, sink *FlatSink, value any, path []string) error {
	mismatch := func(goType string) error {
		return cabierrors.TypeMismatch(cabierrors.PhaseLower, path, goType, t.kind.String())
	}
	switch t.kind {
	case KindBool:
		v, ok := value.(bool)
		if !ok {
			return mismatch("bool")
		}
		if v {
			sink.push(1)
		} else {
			sink.push(0)
		}
	case KindU8:
		v, ok := value.(uint8)
		if !ok {
			return mismatch("uint8")
		}
		sink.push(uint64(v))
	case KindS8:
		v, ok := value.(int8)
		if !ok {
			return mismatch("int8")
		}
		sink.push(uint64(uint8(v)))
	case KindU16:
		v, ok := value.(uint16)
		if !ok {
			return mismatch("uint16")
		}
		sink.push(uint64(v))
	case KindS16:
		v, ok := value.(int16)
		if !ok {
			return mismatch("int16")
		}
		sink.push(uint64(uint16(v)))
	case KindU32:
		v, ok := value.(uint32)
		if !ok {
			return mismatch("uint32")
		}
		sink.push(uint64(v))
	case KindS32:
		v, ok := value.(int32)
		if !ok {
			return mismatch("int32")
		}
		sink.push(uint64(uint32(v)))
	case KindU64:
		v, ok := value.(uint64)
		if !ok {
			return mismatch("uint64")
		}
		sink.push(v)
	case KindS64:
		v, ok := value.(int64)
		if !ok {
			return mismatch("int64")
		}
		sink.push(uint64(v))
	case KindF32:
		v, ok := value.(float32)
		if !ok {
			return mismatch("float32")
		}
		sink.push(uint64(abi.CanonicalizeF32(math.Float32bits(v))))
	case KindF64:
		v, ok := value.(float64)
		if !ok {
			return mismatch("float64")
		}
		sink.push(abi.CanonicalizeF64(math.Float64bits(v)))
	case KindChar:
		v, ok := value.(rune)
		if !ok {
			return mismatch("rune")
		}
		if !abi.ValidateChar(v) {
			return cabierrors.InvalidData(cabierrors.PhaseValidate, path, "char value is a surrogate or out of Unicode range")
		}
		sink.push(uint64(uint32(v)))
	default:
		panic("lowerPrimitive: not a primitive kind")
	}
	return nil
}
