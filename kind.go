package cabi

// Kind identifies the shape of a Type descriptor.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindF32
	KindF64
	KindChar
	KindString
	KindList
	KindRecord
	KindTuple
	KindVariant
	KindOption
	KindResult
	KindEnum
	KindFlags
	KindOwn
	KindBorrow
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindU8:      "u8",
	KindS8:      "s8",
	KindU16:     "u16",
	KindS16:     "s16",
	KindU32:     "u32",
	KindS32:     "s32",
	KindU64:     "u64",
	KindS64:     "s64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindChar:    "char",
	KindString:  "string",
	KindList:    "list",
	KindRecord:  "record",
	KindTuple:   "tuple",
	KindVariant: "variant",
	KindOption:  "option",
	KindResult:  "result",
	KindEnum:    "enum",
	KindFlags:   "flags",
	KindOwn:     "own",
	KindBorrow:  "borrow",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is one of the fixed-size numeric or char
// kinds with no nested children.
func (k Kind) IsPrimitive() bool {
	return k <= KindChar
}

// IsResourceHandle reports whether k represents an own<T>/borrow<T> handle.
func (k Kind) IsResourceHandle() bool {
	return k == KindOwn || k == KindBorrow
}
