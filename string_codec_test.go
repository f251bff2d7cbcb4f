package cabi

import "testing"

func TestStringUTF8RoundTrip(t *testing.T) {
	mem := NewLinearMemory(0)
	s := "héllo"
	if err := String().Store(mem, mem, 0, s, Options{Encoding: EncodingUTF8}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := String().Load(mem, 0, Options{Encoding: EncodingUTF8})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != s {
		t.Fatalf("got %q, want %q", got, s)
	}
}

func TestStringUTF8HeaderLayout(t *testing.T) {
	mem := NewLinearMemory(0)
	s := "héllo"
	if err := String().Store(mem, mem, 0, s, Options{Encoding: EncodingUTF8}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	codeUnits, err := mem.ReadU32(4)
	if err != nil {
		t.Fatal(err)
	}
	if codeUnits != 6 {
		t.Fatalf("got %d code units, want 6 (é encodes to 2 UTF-8 bytes)", codeUnits)
	}
}

func TestStringUTF16RoundTrip(t *testing.T) {
	mem := NewLinearMemory(0)
	s := "日本語"
	if err := String().Store(mem, mem, 0, s, Options{Encoding: EncodingUTF16}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := String().Load(mem, 0, Options{Encoding: EncodingUTF16})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != s {
		t.Fatalf("got %q, want %q", got, s)
	}
}

func TestStringLatin1UTF16Unsupported(t *testing.T) {
	mem := NewLinearMemory(0)
	err := String().Store(mem, mem, 0, "x", Options{Encoding: EncodingLatin1OrUTF16})
	if err == nil {
		t.Fatal("expected UnsupportedEncoding error")
	}
}

func TestStringLowerLiftRoundTrip(t *testing.T) {
	mem := NewLinearMemory(0)
	sink, err := String().Lower(mem, mem, "abc", Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if len(sink.Values()) != 2 {
		t.Fatalf("expected 2 flat slots, got %d", len(sink.Values()))
	}
	src := NewFlatSource(sink.Values())
	got, err := String().Lift(src, mem, Options{})
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if got != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestStringDescriptorShape(t *testing.T) {
	s := String()
	if s.Size() != 8 || s.Align() != 4 || s.FlatCount() != 2 {
		t.Fatalf("unexpected shape: size=%d align=%d flat=%d", s.Size(), s.Align(), s.FlatCount())
	}
}
