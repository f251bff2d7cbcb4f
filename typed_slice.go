package cabi

import (
	"math"

	"github.com/wippyai/cabi/internal/abi"
)

// loadTypedSlice is list's fast path for element kinds with a direct Go
// slice representation: it batch-reads memory instead of calling
// elem.loadAt once per element.
func loadTypedSlice(elem *Type, mem Memory, dataPtr, length uint32) (any, bool) {
	switch elem.Kind() {
	case KindU8:
		b, err := mem.Read(dataPtr, length)
		if err != nil {
			return nil, false
		}
		return b, true
	case KindS8:
		b, err := mem.Read(dataPtr, length)
		if err != nil {
			return nil, false
		}
		out := make([]int8, length)
		for i, v := range b {
			out[i] = int8(v)
		}
		return out, true
	case KindBool:
		b, err := mem.Read(dataPtr, length)
		if err != nil {
			return nil, false
		}
		out := make([]bool, length)
		for i, v := range b {
			out[i] = v != 0
		}
		return out, true
	case KindU16:
		out := make([]uint16, length)
		for i := range out {
			v, err := mem.ReadU16(dataPtr + uint32(i)*2)
			if err != nil {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	case KindS16:
		out := make([]int16, length)
		for i := range out {
			v, err := mem.ReadU16(dataPtr + uint32(i)*2)
			if err != nil {
				return nil, false
			}
			out[i] = int16(v)
		}
		return out, true
	case KindU32:
		out := make([]uint32, length)
		for i := range out {
			v, err := mem.ReadU32(dataPtr + uint32(i)*4)
			if err != nil {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	case KindS32:
		out := make([]int32, length)
		for i := range out {
			v, err := mem.ReadU32(dataPtr + uint32(i)*4)
			if err != nil {
				return nil, false
			}
			out[i] = int32(v)
		}
		return out, true
	case KindU64:
		out := make([]uint64, length)
		for i := range out {
			v, err := mem.ReadU64(dataPtr + uint32(i)*8)
			if err != nil {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	case KindS64:
		out := make([]int64, length)
		for i := range out {
			v, err := mem.ReadU64(dataPtr + uint32(i)*8)
			if err != nil {
				return nil, false
			}
			out[i] = int64(v)
		}
		return out, true
	case KindF32:
		out := make([]float32, length)
		for i := range out {
			v, err := mem.ReadU32(dataPtr + uint32(i)*4)
			if err != nil {
				return nil, false
			}
			out[i] = math.Float32frombits(v)
		}
		return out, true
	case KindF64:
		out := make([]float64, length)
		for i := range out {
			v, err := mem.ReadU64(dataPtr + uint32(i)*8)
			if err != nil {
				return nil, false
			}
			out[i] = math.Float64frombits(v)
		}
		return out, true
	default:
		return nil, false
	}
}

// typedSliceLength reports whether value is the typed Go slice matching
// elem's kind, and if so its length.
func typedSliceLength(elem *Type, value any) (uint32, bool, bool) {
	switch elem.Kind() {
	case KindU8:
		v, ok := value.([]uint8)
		return uint32(len(v)), ok, ok
	case KindS8:
		v, ok := value.([]int8)
		return uint32(len(v)), ok, ok
	case KindBool:
		v, ok := value.([]bool)
		return uint32(len(v)), ok, ok
	case KindU16:
		v, ok := value.([]uint16)
		return uint32(len(v)), ok, ok
	case KindS16:
		v, ok := value.([]int16)
		return uint32(len(v)), ok, ok
	case KindU32:
		v, ok := value.([]uint32)
		return uint32(len(v)), ok, ok
	case KindS32:
		v, ok := value.([]int32)
		return uint32(len(v)), ok, ok
	case KindU64:
		v, ok := value.([]uint64)
		return uint32(len(v)), ok, ok
	case KindS64:
		v, ok := value.([]int64)
		return uint32(len(v)), ok, ok
	case KindF32:
		v, ok := value.([]float32)
		return uint32(len(v)), ok, ok
	case KindF64:
		v, ok := value.([]float64)
		return uint32(len(v)), ok, ok
	default:
		return 0, false, false
	}
}

func storeTypedSlice(elem *Type, mem Memory, dataPtr uint32, value any) error {
	switch elem.Kind() {
	case KindU8:
		return mem.Write(dataPtr, value.([]uint8))
	case KindS8:
		v := value.([]int8)
		buf := make([]byte, len(v))
		for i, e := range v {
			buf[i] = uint8(e)
		}
		return mem.Write(dataPtr, buf)
	case KindBool:
		v := value.([]bool)
		buf := make([]byte, len(v))
		for i, e := range v {
			if e {
				buf[i] = 1
			}
		}
		return mem.Write(dataPtr, buf)
	case KindU16:
		for i, e := range value.([]uint16) {
			if err := mem.WriteU16(dataPtr+uint32(i)*2, e); err != nil {
				return err
			}
		}
	case KindS16:
		for i, e := range value.([]int16) {
			if err := mem.WriteU16(dataPtr+uint32(i)*2, uint16(e)); err != nil {
				return err
			}
		}
	case KindU32:
		for i, e := range value.([]uint32) {
			if err := mem.WriteU32(dataPtr+uint32(i)*4, e); err != nil {
				return err
			}
		}
	case KindS32:
		for i, e := range value.([]int32) {
			if err := mem.WriteU32(dataPtr+uint32(i)*4, uint32(e)); err != nil {
				return err
			}
		}
	case KindU64:
		for i, e := range value.([]uint64) {
			if err := mem.WriteU64(dataPtr+uint32(i)*8, e); err != nil {
				return err
			}
		}
	case KindS64:
		for i, e := range value.([]int64) {
			if err := mem.WriteU64(dataPtr+uint32(i)*8, uint64(e)); err != nil {
				return err
			}
		}
	case KindF32:
		for i, e := range value.([]float32) {
			bits := abi.CanonicalizeF32(math.Float32bits(e))
			if err := mem.WriteU32(dataPtr+uint32(i)*4, bits); err != nil {
				return err
			}
		}
	case KindF64:
		for i, e := range value.([]float64) {
			bits := abi.CanonicalizeF64(math.Float64bits(e))
			if err := mem.WriteU64(dataPtr+uint32(i)*8, bits); err != nil {
				return err
			}
		}
	}
	return nil
}
