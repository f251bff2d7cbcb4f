// Package cabi implements the WebAssembly Component Model's canonical
// ABI: a type-directed, bidirectional value-marshaling engine bridging a
// host (native Go values) and a guest (a linear byte buffer plus a flat
// stream of i32/i64/f32/f64 machine values).
//
// A Type descriptor carries its kind, memory size, alignment, and flat
// value-type signature, and exposes four operations: Load/Store to and
// from linear memory at a pointer, and Lift/Lower to and from the flat
// value stream. Composite descriptors (list, record, tuple, variant,
// option, result, flags, enum) derive all four attributes from their
// children, built bottom-up by the package's constructor functions.
//
// # Package layout
//
//	cabi/                Type descriptors, codecs, Memory/Allocator, Host/Resource
//	├── errors/           Structured error type raised at every marshaling boundary
//	├── resource/         Handle table backing own<T>/borrow<T>
//	└── internal/abi/     Alignment, discriminant sizing, NaN canonicalization, flat-slot join/coercion
//
// # Quick start
//
//	recordType, _ := cabi.RecordType(
//	    cabi.FieldSpec{Name: "name", Type: cabi.String()},
//	    cabi.FieldSpec{Name: "age", Type: cabi.U32},
//	)
//	mem := cabi.NewLinearMemory(0)
//	if err := recordType.Store(mem, mem, 0, map[string]any{"name": "ada", "age": uint32(36)}, cabi.Options{}); err != nil {
//	    log.Fatal(err)
//	}
//	v, err := recordType.Load(mem, 0, cabi.Options{})
//
// # Host functions
//
// Register Go methods as callable host functions, named by kebab-casing
// the Go method name:
//
//	registry := cabi.NewHostRegistry()
//	registry.RegisterFunc("wasi:random/random", "get-random-u64",
//	    func() uint64 { return rand.Uint64() },
//	)
//
// # Concurrency
//
// Descriptors are immutable after construction and safe to share across
// goroutines. Load/Store/Lift/Lower are synchronous and run to
// completion on the calling goroutine; the core never frees memory it
// allocates through a Memory's Allocator — that lifetime belongs to the
// guest.
package cabi
