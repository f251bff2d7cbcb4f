package cabi

import (
	"reflect"
	"testing"
)

func TestRecordLayoutAndRoundTrip(t *testing.T) {
	rt, err := RecordType(
		FieldSpec{Name: "name", Type: String()},
		FieldSpec{Name: "age", Type: U32},
	)
	if err != nil {
		t.Fatal(err)
	}
	if rt.Size() != 12 || rt.Align() != 4 || rt.FlatCount() != 3 {
		t.Fatalf("got size=%d align=%d flat=%d, want size=12 align=4 flat=3", rt.Size(), rt.Align(), rt.FlatCount())
	}
	if rt.Fields()[1].Offset != 8 {
		t.Fatalf("age field offset = %d, want 8", rt.Fields()[1].Offset)
	}

	mem := NewLinearMemory(0)
	val := map[string]any{"name": "a", "age": uint32(7)}
	if err := rt.Store(mem, mem, 0, val, Options{}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := rt.Load(mem, 0, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, val) {
		t.Fatalf("got %#v, want %#v", got, val)
	}
}

func TestRecordMissingFieldFails(t *testing.T) {
	rt, err := RecordType(FieldSpec{Name: "a", Type: U32})
	if err != nil {
		t.Fatal(err)
	}
	mem := NewLinearMemory(0)
	if err := rt.Store(mem, mem, 0, map[string]any{}, Options{}); err == nil {
		t.Fatal("expected FieldMissing error")
	}
}

func TestTupleRoundTrip(t *testing.T) {
	tt, err := TupleType(U32, Bool)
	if err != nil {
		t.Fatal(err)
	}
	mem := NewLinearMemory(0)
	val := []any{uint32(9), true}
	sink, err := tt.Lower(mem, mem, val, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	src := NewFlatSource(sink.Values())
	got, err := tt.Lift(src, mem, Options{})
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if !reflect.DeepEqual(got, val) {
		t.Fatalf("got %#v, want %#v", got, val)
	}
}

func TestTupleArityMismatchFails(t *testing.T) {
	tt, err := TupleType(U32, U32)
	if err != nil {
		t.Fatal(err)
	}
	mem := NewLinearMemory(0)
	if err := tt.Store(mem, mem, 0, []any{uint32(1)}, Options{}); err == nil {
		t.Fatal("expected arity mismatch error")
	}
}

func TestRecordFieldOrderIndependentOfMapIteration(t *testing.T) {
	rt, err := RecordType(
		FieldSpec{Name: "z", Type: U8},
		FieldSpec{Name: "a", Type: U8},
	)
	if err != nil {
		t.Fatal(err)
	}
	mem := NewLinearMemory(0)
	sink, err := rt.Lower(mem, mem, map[string]any{"a": uint8(1), "z": uint8(2)}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// declared order is z, a - flat values must follow declaration, not map order
	if sink.Values()[0] != 2 || sink.Values()[1] != 1 {
		t.Fatalf("got %v, want [2 1] (declared order z, a)", sink.Values())
	}
}
