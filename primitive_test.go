package cabi

import (
	"math"
	"testing"
)

func TestPrimitiveStoreLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		val  any
	}{
		{"bool true", Bool, true},
		{"bool false", Bool, false},
		{"u8 max", U8, uint8(255)},
		{"s8 min", S8, int8(-128)},
		{"s8 max", S8, int8(127)},
		{"u16", U16, uint16(65535)},
		{"s16", S16, int16(-32768)},
		{"u32 max", U32, uint32(1<<32 - 1)},
		{"s32", S32, int32(-1)},
		{"u64", U64, uint64(1<<64 - 1)},
		{"s64", S64, int64(-1)},
		{"f32", F32, float32(3.5)},
		{"f64", F64, float64(-2.25)},
		{"char ascii", Char, rune('a')},
		{"char max codepoint", Char, rune(0x10FFFF)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewLinearMemory(0)
			if err := tt.typ.Store(mem, mem, 0, tt.val, Options{}); err != nil {
				t.Fatalf("Store: %v", err)
			}
			got, err := tt.typ.Load(mem, 0, Options{})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != tt.val {
				t.Fatalf("got %#v, want %#v", got, tt.val)
			}
		})
	}
}

func TestPrimitiveLowerLiftRoundTrip(t *testing.T) {
	mem := NewLinearMemory(0)
	sink, err := U32.Lower(mem, mem, uint32(42), Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if sink.Values()[0] != 42 || len(sink.Values()) != U32.FlatCount() {
		t.Fatalf("unexpected flat values %v", sink.Values())
	}
	src := NewFlatSource(sink.Values())
	got, err := U32.Lift(src, mem, Options{})
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if got != uint32(42) {
		t.Fatalf("got %v", got)
	}
	if src.Remaining() != 0 {
		t.Fatalf("lift left %d slots unconsumed", src.Remaining())
	}
}

func TestSignedWireWraparound(t *testing.T) {
	// wire 255 lifts as s8 = -1
	src := NewFlatSource([]uint64{255})
	got, err := S8.Lift(src, nil, Options{})
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if got != int8(-1) {
		t.Fatalf("got %v, want -1", got)
	}
}

func TestCharRejectsSurrogates(t *testing.T) {
	mem := NewLinearMemory(0)
	if err := mem.WriteU32(0, 0xD800); err != nil {
		t.Fatal(err)
	}
	if _, err := Char.Load(mem, 0, Options{}); err == nil {
		t.Fatal("expected surrogate rejection")
	}
}

func TestCharAcceptsMaxValidCodepoint(t *testing.T) {
	mem := NewLinearMemory(0)
	if err := Char.Store(mem, mem, 0, rune(0x10FFFF), Options{}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := Char.Load(mem, 0, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != rune(0x10FFFF) {
		t.Fatalf("got %v", got)
	}
}

func TestCharRejectsOutOfRange(t *testing.T) {
	mem := NewLinearMemory(0)
	if err := mem.WriteU32(0, 0x110000); err != nil {
		t.Fatal(err)
	}
	if _, err := Char.Load(mem, 0, Options{}); err == nil {
		t.Fatal("expected out-of-range rejection")
	}
}

func TestFloat32NaNCanonicalization(t *testing.T) {
	mem := NewLinearMemory(0)
	nonCanonical := math.Float32frombits(0x7fa00001) // a NaN, not the canonical pattern
	if err := F32.Store(mem, mem, 0, nonCanonical, Options{}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	bits, err := mem.ReadU32(0)
	if err != nil {
		t.Fatal(err)
	}
	if bits != 0x7fc00000 {
		t.Fatalf("got bit pattern %#x, want canonical 0x7fc00000", bits)
	}
}

func TestFloat64NaNCanonicalization(t *testing.T) {
	mem := NewLinearMemory(0)
	nonCanonical := math.Float64frombits(0x7ff4000000000001)
	sink, err := F64.Lower(mem, mem, nonCanonical, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if sink.Values()[0] != 0x7ff8000000000000 {
		t.Fatalf("got bit pattern %#x, want canonical", sink.Values()[0])
	}
}

func TestPrimitiveStoreTypeMismatch(t *testing.T) {
	mem := NewLinearMemory(0)
	if err := U32.Store(mem, mem, 0, "not a u32", Options{}); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestBoolAnyNonzeroByteLiftsTrue(t *testing.T) {
	mem := NewLinearMemory(0)
	if err := mem.WriteU8(0, 2); err != nil {
		t.Fatal(err)
	}
	got, err := Bool.Load(mem, 0, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != true {
		t.Fatalf("got %v, want true for any nonzero wire byte", got)
	}

	src := NewFlatSource([]uint64{2})
	got, err = Bool.Lift(src, mem, Options{})
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if got != true {
		t.Fatalf("got %v, want true for any nonzero flat value", got)
	}
}
