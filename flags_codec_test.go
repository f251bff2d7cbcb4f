package cabi

import (
	"strconv"
	"testing"
)

func TestFlagsBucketing(t *testing.T) {
	tests := []struct {
		n             int
		wantSize      uint32
		wantAlign     uint32
		wantFlatSlots int
	}{
		{0, 0, 1, 0},
		{8, 1, 1, 1},
		{16, 2, 2, 1},
		{32, 4, 4, 1},
		{40, 8, 4, 2},
	}
	for _, tt := range tests {
		names := make([]string, tt.n)
		for i := range names {
			names[i] = string(rune('a' + i%26))
		}
		// ensure unique names for counts above 26 by suffixing the index
		for i := range names {
			names[i] = names[i] + strconv.Itoa(i)
		}
		ft, err := FlagsType(names...)
		if err != nil {
			t.Fatalf("n=%d: %v", tt.n, err)
		}
		if ft.Size() != tt.wantSize || ft.Align() != tt.wantAlign || ft.FlatCount() != tt.wantFlatSlots {
			t.Fatalf("n=%d: got size=%d align=%d flat=%d, want size=%d align=%d flat=%d",
				tt.n, ft.Size(), ft.Align(), ft.FlatCount(), tt.wantSize, tt.wantAlign, tt.wantFlatSlots)
		}
	}
}

func Test26FlagsRoundTripAndWireWord(t *testing.T) {
	names := make([]string, 26)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	ft, err := FlagsType(names...)
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewFlags(ft)
	if err != nil {
		t.Fatal(err)
	}
	f.Set("b", true) // bit 1
	f.Set("z", true) // bit 25

	mem := NewLinearMemory(0)
	if err := ft.Store(mem, mem, 0, f, Options{}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	word, err := mem.ReadU32(0)
	if err != nil {
		t.Fatal(err)
	}
	if word != 0x02000002 {
		t.Fatalf("got wire word %#x, want 0x02000002", word)
	}

	got, err := ft.Load(mem, 0, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gotFlags := got.(*Flags)
	if !gotFlags.Get("b") || !gotFlags.Get("z") || gotFlags.Get("a") {
		t.Fatal("loaded flags do not match expected bit pattern")
	}
}

func TestFlagsLowerLiftRoundTrip(t *testing.T) {
	ft, err := FlagsType("x", "y", "z")
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewFlags(ft)
	if err != nil {
		t.Fatal(err)
	}
	f.Set("y", true)
	sink, err := ft.Lower(nil, nil, f, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	src := NewFlatSource(sink.Values())
	got, err := ft.Lift(src, nil, Options{})
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	gotFlags := got.(*Flags)
	if !gotFlags.Get("y") || gotFlags.Get("x") || gotFlags.Get("z") {
		t.Fatal("lifted flags do not match")
	}
}
