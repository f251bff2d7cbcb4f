package cabi

import "testing"

func TestCallHostSimpleReturn(t *testing.T) {
	reg := NewHostRegistry()
	if err := reg.RegisterFunc("test:ns/api", "add", func(a, b uint32) uint32 { return a + b }); err != nil {
		t.Fatal(err)
	}
	got, err := CallHost(reg, "test:ns/api", "add", []any{uint32(2), uint32(3)})
	if err != nil {
		t.Fatalf("CallHost: %v", err)
	}
	if got != uint32(5) {
		t.Fatalf("got %v, want 5", got)
	}
}

func TestCallHostTrailingErrorNil(t *testing.T) {
	reg := NewHostRegistry()
	if err := reg.RegisterFunc("test:ns/api", "maybe", func(a uint32) (uint32, error) {
		return a * 2, nil
	}); err != nil {
		t.Fatal(err)
	}
	got, err := CallHost(reg, "test:ns/api", "maybe", []any{uint32(4)})
	if err != nil {
		t.Fatalf("CallHost: %v", err)
	}
	if got != uint32(8) {
		t.Fatalf("got %v, want 8", got)
	}
}

func TestCallHostTrailingErrorNonNil(t *testing.T) {
	reg := NewHostRegistry()
	sentinel := errStub{"boom"}
	if err := reg.RegisterFunc("test:ns/api", "fails", func() (uint32, error) {
		return 0, sentinel
	}); err != nil {
		t.Fatal(err)
	}
	_, err := CallHost(reg, "test:ns/api", "fails", nil)
	if err == nil {
		t.Fatal("expected error to propagate from host function")
	}
}

type errStub struct{ msg string }

func (e errStub) Error() string { return e.msg }

func TestCallHostArgCountMismatch(t *testing.T) {
	reg := NewHostRegistry()
	if err := reg.RegisterFunc("test:ns/api", "add", func(a, b uint32) uint32 { return a + b }); err != nil {
		t.Fatal(err)
	}
	if _, err := CallHost(reg, "test:ns/api", "add", []any{uint32(1)}); err == nil {
		t.Fatal("expected error for wrong argument count")
	}
}

func TestCallHostNotFound(t *testing.T) {
	reg := NewHostRegistry()
	if _, err := CallHost(reg, "test:ns/api", "missing", nil); err == nil {
		t.Fatal("expected NotFound error")
	}
}

func TestCallHostArgTypeConversion(t *testing.T) {
	reg := NewHostRegistry()
	// lifted values arrive as their wire-native Go types (e.g. int32); the
	// handler may declare a differently-sized but convertible parameter type.
	if err := reg.RegisterFunc("test:ns/api", "scale", func(n int) int { return n * 10 }); err != nil {
		t.Fatal(err)
	}
	got, err := CallHost(reg, "test:ns/api", "scale", []any{int32(4)})
	if err != nil {
		t.Fatalf("CallHost: %v", err)
	}
	if got != 40 {
		t.Fatalf("got %v, want 40", got)
	}
}

func TestCallWasmArgsDirect(t *testing.T) {
	ft := NewFunctionType([]FieldSpec{
		{Name: "a", Type: U32},
		{Name: "b", Type: U32},
	}, U32)
	mem := NewLinearMemory(0)
	src := NewFlatSource([]uint64{7, 9})
	args, err := CallWasmArgs(ft, src, mem, Options{})
	if err != nil {
		t.Fatalf("CallWasmArgs: %v", err)
	}
	if args[0] != uint32(7) || args[1] != uint32(9) {
		t.Fatalf("got %#v, want [7 9]", args)
	}
}

func TestCallWasmArgsIndirect(t *testing.T) {
	params := make([]FieldSpec, 20)
	for i := range params {
		params[i] = FieldSpec{Name: "p", Type: U32}
	}
	ft := NewFunctionType(params, nil)
	if !ft.ParamsIndirect() {
		t.Fatal("expected indirect params for 20 u32 fields")
	}

	mem := NewLinearMemory(1 << 16)
	base := uint32(0)
	offset := uint32(0)
	for i := range params {
		offset = alignUp(offset, 4)
		if err := mem.WriteU32(base+offset, uint32(i+1)); err != nil {
			t.Fatal(err)
		}
		offset += 4
	}

	src := NewFlatSource([]uint64{uint64(base)})
	args, err := CallWasmArgs(ft, src, mem, Options{})
	if err != nil {
		t.Fatalf("CallWasmArgs: %v", err)
	}
	for i, a := range args {
		if a != uint32(i+1) {
			t.Fatalf("arg %d: got %v, want %v", i, a, i+1)
		}
	}
}

func TestCallWasmResultDirect(t *testing.T) {
	ft := NewFunctionType(nil, U32)
	mem := NewLinearMemory(0)
	sink, err := CallWasmResult(ft, mem, mem, 0, uint32(42), Options{})
	if err != nil {
		t.Fatalf("CallWasmResult: %v", err)
	}
	if len(sink.Values()) != 1 || sink.Values()[0] != 42 {
		t.Fatalf("got %v, want [42]", sink.Values())
	}
}

func TestCallWasmResultRetptr(t *testing.T) {
	result, err := TupleType(U32, U32)
	if err != nil {
		t.Fatal(err)
	}
	ft := NewFunctionType(nil, result)
	if !ft.UsesRetptr() {
		t.Fatal("expected retptr for a 2-slot result")
	}

	mem := NewLinearMemory(1 << 16)
	sink, err := CallWasmResult(ft, mem, mem, 0, []any{uint32(11), uint32(22)}, Options{})
	if err != nil {
		t.Fatalf("CallWasmResult: %v", err)
	}
	if len(sink.Values()) != 0 {
		t.Fatalf("retptr result should flatten to zero direct slots, got %v", sink.Values())
	}
	a, err := mem.ReadU32(0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := mem.ReadU32(4)
	if err != nil {
		t.Fatal(err)
	}
	if a != 11 || b != 22 {
		t.Fatalf("got (%d,%d), want (11,22)", a, b)
	}
}

func TestCallWasmResultVoid(t *testing.T) {
	ft := NewFunctionType(nil, nil)
	mem := NewLinearMemory(0)
	sink, err := CallWasmResult(ft, mem, mem, 0, nil, Options{})
	if err != nil {
		t.Fatalf("CallWasmResult: %v", err)
	}
	if len(sink.Values()) != 0 {
		t.Fatal("void result should produce an empty flat sink")
	}
}
