package cabi

import (
	cabierrors "github.com/wippyai/cabi/errors"
	"github.com/wippyai/cabi/internal/abi"
)

func primitive(k Kind, size, align uint32, flat abi.FlatKind) *Type {
	return &Type{kind: k, size: size, align: align, flat: []abi.FlatKind{flat}}
}

// Primitive descriptors. These are immutable singletons; share them freely
// instead of constructing new ones.
var (
	Bool = primitive(KindBool, 1, 1, abi.FlatI32)
	U8   = primitive(KindU8, 1, 1, abi.FlatI32)
	S8   = primitive(KindS8, 1, 1, abi.FlatI32)
	U16  = primitive(KindU16, 2, 2, abi.FlatI32)
	S16  = primitive(KindS16, 2, 2, abi.FlatI32)
	U32  = primitive(KindU32, 4, 4, abi.FlatI32)
	S32  = primitive(KindS32, 4, 4, abi.FlatI32)
	U64  = primitive(KindU64, 8, 8, abi.FlatI64)
	S64  = primitive(KindS64, 8, 8, abi.FlatI64)
	F32  = primitive(KindF32, 4, 4, abi.FlatF32)
	F64  = primitive(KindF64, 8, 8, abi.FlatF64)
	Char = primitive(KindChar, 4, 4, abi.FlatI32)
)

// String returns the descriptor for the wstring type: a (data pointer,
// code unit count) pair in memory, flattened as two i32 values. The actual
// byte encoding (utf-8 or utf-16) is a per-call Options choice, not part
// of the type.
func String() *Type {
	return &Type{kind: KindString, size: 8, align: 4, flat: []abi.FlatKind{abi.FlatI32, abi.FlatI32}}
}

// ListType returns the descriptor for list<elem>: a (data pointer, length)
// pair in memory, flattened as two i32 values.
func ListType(elem *Type) *Type {
	return &Type{kind: KindList, size: 8, align: 4, flat: []abi.FlatKind{abi.FlatI32, abi.FlatI32}, elem: elem}
}

// Typed-buffer shortcuts. Each is wire-compatible with ListType of the
// matching element type; they exist only so callers working with a single
// element kind don't have to spell out ListType(U8) and so on.
func I8Buffer() *Type  { return ListType(S8) }
func I16Buffer() *Type { return ListType(S16) }
func I32Buffer() *Type { return ListType(S32) }
func I64Buffer() *Type { return ListType(S64) }
func U8Buffer() *Type  { return ListType(U8) }
func U16Buffer() *Type { return ListType(U16) }
func U32Buffer() *Type { return ListType(U32) }
func U64Buffer() *Type { return ListType(U64) }

// FieldSpec is a single record or tuple member supplied to RecordType or
// TupleType, before offsets are computed.
type FieldSpec struct {
	Name string
	Type *Type
}

// RecordType lays out fields in declared order: each field's offset is its
// own alignment rounded up from the running offset, the record's size is
// the final offset rounded up to the record's own alignment, and the
// record's alignment is the maximum of its fields' alignments. The flat
// signature is the concatenation of the fields' flat signatures in
// declared order.
func RecordType(fields ...FieldSpec) (*Type, error) {
	if len(fields) == 0 {
		return nil, cabierrors.InvalidData(cabierrors.PhaseCompile, nil, "record must have at least one field")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return nil, cabierrors.New(cabierrors.PhaseCompile, cabierrors.KindInvalidData).
				Detail("duplicate record field %q", f.Name).Build()
		}
		seen[f.Name] = true
	}
	built, size, align, flat := layoutSequence(fields)
	return &Type{kind: KindRecord, size: size, align: align, flat: flat, fields: built}, nil
}

// TupleType lays out unnamed, positional elements the same way RecordType
// lays out fields.
func TupleType(elems ...*Type) (*Type, error) {
	if len(elems) == 0 {
		return nil, cabierrors.InvalidData(cabierrors.PhaseCompile, nil, "tuple must have at least one element")
	}
	specs := make([]FieldSpec, len(elems))
	for i, e := range elems {
		specs[i] = FieldSpec{Type: e}
	}
	built, size, align, flat := layoutSequence(specs)
	return &Type{kind: KindTuple, size: size, align: align, flat: flat, fields: built}, nil
}

// layoutSequence computes offsets, overall size/alignment, and the
// concatenated flat signature for a record or tuple's member list.
func layoutSequence(specs []FieldSpec) ([]Field, uint32, uint32, []abi.FlatKind) {
	fields := make([]Field, len(specs))
	var offset, align uint32 = 0, 1
	var flat []abi.FlatKind
	for i, s := range specs {
		offset = abi.AlignTo(offset, s.Type.Align())
		fields[i] = Field{Name: s.Name, Type: s.Type, Offset: offset}
		offset += s.Type.Size()
		if s.Type.Align() > align {
			align = s.Type.Align()
		}
		flat = append(flat, s.Type.FlatTypes()...)
	}
	size := abi.AlignTo(offset, align)
	return fields, size, align, flat
}

// CaseSpec is a single variant or enum case supplied to VariantType or
// EnumType, before the discriminant and payload layout are computed.
type CaseSpec struct {
	Name string
	Type *Type // nil for a payload-less case
}

// VariantType lays out a tagged union: the discriminant is sized by
// DiscriminantSize/Align for the number of cases, the payload starts at
// the discriminant size rounded up to the widest case's alignment, and the
// descriptor's size and alignment cover the widest case. The flat
// signature is the discriminant (always i32) followed by, for each flat
// position across the cases' payloads, the join of every case's flat type
// at that position.
func VariantType(cases ...CaseSpec) (*Type, error) {
	if len(cases) == 0 {
		return nil, cabierrors.InvalidData(cabierrors.PhaseCompile, nil, "variant must have at least one case")
	}
	if len(cases) > 1<<32 {
		return nil, cabierrors.ABIViolation(cabierrors.PhaseCompile, nil, "variant exceeds maximum case count")
	}
	seen := make(map[string]bool, len(cases))
	for _, c := range cases {
		if seen[c.Name] {
			return nil, cabierrors.New(cabierrors.PhaseCompile, cabierrors.KindInvalidData).
				Detail("duplicate variant case %q", c.Name).Build()
		}
		seen[c.Name] = true
	}
	return buildVariant(KindVariant, cases)
}

func buildVariant(kind Kind, cases []CaseSpec) (*Type, error) {
	discSize := abi.DiscriminantSize(len(cases))
	discAlign := abi.DiscriminantAlign(len(cases))

	var payloadAlign uint32 = 1
	var payloadSize uint32 = 0
	for _, c := range cases {
		if c.Type == nil {
			continue
		}
		if c.Type.Align() > payloadAlign {
			payloadAlign = c.Type.Align()
		}
		if c.Type.Size() > payloadSize {
			payloadSize = c.Type.Size()
		}
	}

	align := discAlign
	if payloadAlign > align {
		align = payloadAlign
	}
	payloadOffset := abi.AlignTo(discSize, payloadAlign)
	size := abi.AlignTo(payloadOffset+payloadSize, align)

	var joined []abi.FlatKind
	built := make([]Case, len(cases))
	for i, c := range cases {
		built[i] = Case{Name: c.Name, Type: c.Type, PayloadOffset: payloadOffset}
		if c.Type == nil {
			continue
		}
		cflat := c.Type.FlatTypes()
		for j, ft := range cflat {
			if j < len(joined) {
				joined[j] = abi.JoinFlat(joined[j], ft)
			} else {
				joined = append(joined, ft)
			}
		}
	}

	flat := append([]abi.FlatKind{abi.FlatI32}, joined...)
	return &Type{
		kind: kind, size: size, align: align, flat: flat,
		cases: built, discSize: discSize, discAlign: discAlign,
	}, nil
}

// OptionType lays out option<elem> as a two-case variant: "none" with no
// payload and "some" with the element's payload.
func OptionType(elem *Type) (*Type, error) {
	t, err := buildVariant(KindOption, []CaseSpec{
		{Name: "none"},
		{Name: "some", Type: elem},
	})
	if err != nil {
		return nil, err
	}
	t.elem = elem
	return t, nil
}

// ResultType lays out result<ok, err> as a two-case variant: "ok" and
// "err". Either payload may be nil (result<_, E> or result<T, _>).
func ResultType(ok, errType *Type) (*Type, error) {
	t, err := buildVariant(KindResult, []CaseSpec{
		{Name: "ok", Type: ok},
		{Name: "err", Type: errType},
	})
	if err != nil {
		return nil, err
	}
	t.okType = ok
	t.errType = errType
	return t, nil
}

// EnumType lays out a plain enumeration: a bare discriminant with no
// payload on any case.
func EnumType(names ...string) (*Type, error) {
	if len(names) == 0 {
		return nil, cabierrors.InvalidData(cabierrors.PhaseCompile, nil, "enum must have at least one case")
	}
	specs := make([]CaseSpec, len(names))
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if seen[n] {
			return nil, cabierrors.New(cabierrors.PhaseCompile, cabierrors.KindInvalidData).
				Detail("duplicate enum case %q", n).Build()
		}
		seen[n] = true
		specs[i] = CaseSpec{Name: n}
	}
	return buildVariant(KindEnum, specs)
}

// FlagsType lays out a named bit set. Storage is bucketed by count: 0
// flags need no storage at all, 1-8 fit a u8, 9-16 a u16, 17-32 a u32, and
// anything larger is packed into ceil(n/32) u32 words. Every bucket up to
// 32 flags flattens to a single i32 flat slot; larger sets flatten to one
// i32 per word, since flat values always travel zero-extended to 32 bits.
func FlagsType(names ...string) (*Type, error) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, cabierrors.New(cabierrors.PhaseCompile, cabierrors.KindInvalidData).
				Detail("duplicate flag name %q", n).Build()
		}
		seen[n] = true
	}

	n := len(names)
	var size, align, words uint32
	switch {
	case n == 0:
		size, align, words = 0, 1, 0
	case n <= 8:
		size, align, words = 1, 1, 1
	case n <= 16:
		size, align, words = 2, 2, 1
	case n <= 32:
		size, align, words = 4, 4, 1
	default:
		words = uint32((n + 31) / 32)
		size, align = words*4, 4
	}

	var flat []abi.FlatKind
	for i := uint32(0); i < words; i++ {
		flat = append(flat, abi.FlatI32)
	}

	return &Type{
		kind: KindFlags, size: size, align: align, flat: flat,
		flagNames: append([]string(nil), names...), flagWords: words,
	}, nil
}

// OwnType returns the descriptor for an owning handle to the named
// resource: an opaque u32 on the wire.
func OwnType(resourceName string) *Type {
	return &Type{kind: KindOwn, size: 4, align: 4, flat: []abi.FlatKind{abi.FlatI32}, resourceName: resourceName}
}

// BorrowType returns the descriptor for a borrowed handle to the named
// resource: an opaque u32 on the wire, identical in representation to
// OwnType but not conferring ownership.
func BorrowType(resourceName string) *Type {
	return &Type{kind: KindBorrow, size: 4, align: 4, flat: []abi.FlatKind{abi.FlatI32}, resourceName: resourceName}
}
