package cabi

import (
	cabierrors "github.com/wippyai/cabi/errors"
	"github.com/wippyai/cabi/internal/abi"
)

// Variant, option, result, and enum are all laid out by buildVariant as a
// discriminant followed by a payload big enough for the widest case, so
// they share one Load/Store/Lift/Lower implementation parameterized only
// by how the discriminant maps to and from a native value:
//   - variant<...>  -> Variant{Case, Value}
//   - option<T>     -> Option{Some, Value} if Options.KeepOption, else a
//                       plain `any` (nil for none)
//   - result<T, E>  -> Result{OK, Value}
//   - enum          -> the case name as a string, no payload

func readDiscriminant(t *Type, mem Memory, ptr uint32, path []string) (uint32, error) {
	switch t.discSize {
	case 1:
		v, err := mem.ReadU8(ptr)
		return uint32(v), err
	case 2:
		v, err := mem.ReadU16(ptr)
		return uint32(v), err
	default:
		return mem.ReadU32(ptr)
	}
}

func writeDiscriminant(t *Type, mem Memory, ptr uint32, disc uint32, path []string) error {
	switch t.discSize {
	case 1:
		return mem.WriteU8(ptr, uint8(disc))
	case 2:
		return mem.WriteU16(ptr, uint16(disc))
	default:
		return mem.WriteU32(ptr, disc)
	}
}

func caseIndex(t *Type, name string, path []string) (int, error) {
	for i, c := range t.cases {
		if c.Name == name {
			return i, nil
		}
	}
	return 0, cabierrors.FieldUnknown(cabierrors.PhaseStore, path, name)
}

func loadVariant(t *Type, mem Memory, ptr uint32, opts Options, path []string) (any, error) {
	disc, err := readDiscriminant(t, mem, ptr, path)
	if err != nil {
		return nil, err
	}
	if int(disc) >= len(t.cases) {
		return nil, cabierrors.InvalidDiscriminant(cabierrors.PhaseLoad, path, disc, uint32(len(t.cases)-1))
	}
	c := t.cases[disc]
	var payload any
	if c.Type != nil {
		payload, err = c.Type.loadAt(mem, ptr+c.PayloadOffset, opts, append(path, c.Name))
		if err != nil {
			return nil, err
		}
	}
	return variantNative(t, c, payload, opts)
}

func storeVariant(t *Type, mem Memory, alloc Allocator, ptr uint32, value any, opts Options, path []string) error {
	name, payload, err := variantParts(t, value, opts, path)
	if err != nil {
		return err
	}
	idx, err := caseIndex(t, name, path)
	if err != nil {
		return err
	}
	if err := writeDiscriminant(t, mem, ptr, uint32(idx), path); err != nil {
		return err
	}
	c := t.cases[idx]
	if c.Type != nil {
		if err := c.Type.storeAt(mem, alloc, ptr+c.PayloadOffset, payload, opts, append(path, c.Name)); err != nil {
			return err
		}
	}
	return nil
}

func liftVariant(t *Type, src *FlatSource, mem Memory, opts Options, path []string) (any, error) {
	discBits, ok := src.next()
	if !ok {
		return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
	}
	disc := uint32(discBits)
	if int(disc) >= len(t.cases) {
		return nil, cabierrors.InvalidDiscriminant(cabierrors.PhaseLift, path, disc, uint32(len(t.cases)-1))
	}
	c := t.cases[disc]

	// Every case consumes the same number of joined flat slots, whether or
	// not this case's own payload used all of them; the slots the case
	// uses are reinterpreted against its own flat types, and the rest are
	// consumed unchanged.
	joined := t.flat[1:]
	var caseFlat []abi.FlatKind
	if c.Type != nil {
		caseFlat = c.Type.FlatTypes()
	}
	slotValues := make([]uint64, len(joined))
	for i := range joined {
		bits, ok := src.next()
		if !ok {
			return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
		}
		if i < len(caseFlat) {
			coerced, ok := abi.ReinterpretSlot(bits, joined[i], caseFlat[i])
			if !ok {
				return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "no flat coercion from the joined slot type to the case's type")
			}
			bits = coerced
		}
		slotValues[i] = bits
	}

	var payload any
	if c.Type != nil {
		sub := NewFlatSource(slotValues[:len(caseFlat)])
		v, err := c.Type.liftFrom(sub, mem, opts, append(path, c.Name))
		if err != nil {
			return nil, err
		}
		payload = v
	}
	return variantNative(t, c, payload, opts)
}

func lowerVariant(t *Type, sink *FlatSink, mem Memory, alloc Allocator, value any, opts Options, path []string) error {
	name, payload, err := variantParts(t, value, opts, path)
	if err != nil {
		return err
	}
	idx, err := caseIndex(t, name, path)
	if err != nil {
		return err
	}
	c := t.cases[idx]
	sink.push(uint64(idx))

	joined := t.flat[1:]
	caseSink := newScratchSink(len(joined))
	defer caseSink.release()
	if c.Type != nil {
		if err := c.Type.lowerInto(caseSink, mem, alloc, payload, opts, append(path, c.Name)); err != nil {
			return err
		}
	}
	caseFlat := caseSink.Values()
	caseTypes := []abi.FlatKind(nil)
	if c.Type != nil {
		caseTypes = c.Type.FlatTypes()
	}
	for i := range joined {
		if i < len(caseFlat) {
			coerced, ok := abi.ReinterpretSlot(caseFlat[i], caseTypes[i], joined[i])
			if !ok {
				return cabierrors.ABIViolation(cabierrors.PhaseLower, path, "no flat coercion for this case")
			}
			sink.push(coerced)
		} else {
			sink.push(0)
		}
	}
	return nil
}

// variantNative converts a loaded/lifted (case, payload) pair into the
// kind-appropriate native value.
func variantNative(t *Type, c Case, payload any, opts Options) (any, error) {
	switch t.kind {
	case KindEnum:
		return c.Name, nil
	case KindOption:
		some := c.Name == "some"
		if opts.KeepOption {
			return Option{Some: some, Value: payload}, nil
		}
		if !some {
			return nil, nil
		}
		return payload, nil
	case KindResult:
		return Result{OK: c.Name == "ok", Value: payload}, nil
	default:
		return Variant{Case: c.Name, Value: payload}, nil
	}
}

// variantParts extracts the (case name, payload) pair a native value
// represents, for storing/lowering.
func variantParts(t *Type, value any, opts Options, path []string) (string, any, error) {
	switch t.kind {
	case KindEnum:
		name, ok := value.(string)
		if !ok {
			return "", nil, cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "enum")
		}
		return name, nil, nil
	case KindOption:
		if opts.KeepOption {
			opt, ok := value.(Option)
			if !ok {
				return "", nil, cabierrors.OptionRepresentationMismatch(cabierrors.PhaseStore, path, "expected cabi.Option with KeepOption set")
			}
			if !opt.Some {
				return "none", nil, nil
			}
			return "some", opt.Value, nil
		}
		if value == nil {
			return "none", nil, nil
		}
		if _, ok := value.(Option); ok {
			return "", nil, cabierrors.OptionRepresentationMismatch(cabierrors.PhaseStore, path, "got cabi.Option but KeepOption is not set")
		}
		return "some", value, nil
	case KindResult:
		r, ok := value.(Result)
		if !ok {
			return "", nil, cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "result")
		}
		if r.OK {
			return "ok", r.Value, nil
		}
		return "err", r.Value, nil
	default:
		v, ok := value.(Variant)
		if !ok {
			return "", nil, cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "variant")
		}
		return v.Case, v.Value, nil
	}
}
