package abi

import "github.com/tetratelabs/wazero/api"

// FlatKind is one of the four core wasm value types that make up the flat
// parameter/result stream. It is an alias of wazero's value-type enum: the
// core never instantiates a WebAssembly module, but the enum is the exact
// domain vocabulary for "the four machine types a flat slot can hold", so
// there is no reason to invent a parallel one.
type FlatKind = api.ValueType

const (
	FlatI32 FlatKind = api.ValueTypeI32
	FlatI64 FlatKind = api.ValueTypeI64
	FlatF32 FlatKind = api.ValueTypeF32
	FlatF64 FlatKind = api.ValueTypeF64
)

// JoinFlat unifies the flat-slot type needed by two variant cases at the
// same payload position: equal types unify trivially, an i32/f32 pair
// shares a 32-bit slot typed i32, and anything else (differing width, or
// a 64-bit type paired with anything) needs a 64-bit slot.
func JoinFlat(a, b FlatKind) FlatKind {
	if a == b {
		return a
	}
	if (a == FlatI32 && b == FlatF32) || (a == FlatF32 && b == FlatI32) {
		return FlatI32
	}
	return FlatI64
}

// ReinterpretSlot re-expresses value, currently holding a bit pattern of
// kind have, as the bit pattern a slot of kind want would hold. It
// implements the lower-side widening that packs a narrower case value into
// a joined slot, and (run with have/want swapped) the lift-side narrowing
// that recovers a case's own value out of a joined slot. Supported pairs
// are exactly those the join rule can produce: same-kind (no-op),
// i32<->f32 (same-width bitcast), i32->i64 (zero-extend), i64->i32
// (truncate), f32<->i64 (bitcast then extend/truncate through i32), and
// f64<->i64 (same-width bitcast).
func ReinterpretSlot(value uint64, have, want FlatKind) (uint64, bool) {
	if have == want {
		return value, true
	}
	switch {
	case have == FlatI32 && want == FlatF32, have == FlatF32 && want == FlatI32:
		return uint64(uint32(value)), true
	case have == FlatI32 && want == FlatI64:
		return uint64(uint32(value)), true
	case have == FlatF32 && want == FlatI64:
		return uint64(uint32(value)), true
	case have == FlatF64 && want == FlatI64, have == FlatI64 && want == FlatF64:
		return value, true
	case have == FlatI64 && want == FlatI32, have == FlatI64 && want == FlatF32:
		return uint64(uint32(value)), true
	default:
		return 0, false
	}
}
