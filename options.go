package cabi

// Encoding selects the byte representation used for string values.
type Encoding uint8

const (
	// EncodingUTF8 encodes/decodes string bodies as UTF-8, 1-byte aligned.
	EncodingUTF8 Encoding = iota
	// EncodingUTF16 encodes/decodes string bodies as UTF-16LE code units,
	// 2-byte aligned.
	EncodingUTF16
	// EncodingLatin1OrUTF16 is the canonical ABI's "latin1+utf16" tagged
	// encoding. It is reserved in the type system but not implemented:
	// every Lower/Store/Lift/Load call that names it fails with
	// UnsupportedEncoding.
	EncodingLatin1OrUTF16
)

// Options is the per-call context every Load, Store, Lift, and Lower
// operation takes: it is never baked into a Type descriptor, since the
// same descriptor can be reused across calls with different string
// encodings or option representations.
type Options struct {
	// Encoding selects the string byte representation. The zero value is
	// EncodingUTF8.
	Encoding Encoding
	// KeepOption selects option<T>'s native representation: true lifts and
	// lowers it as the tagged Option{Some, Value} struct, false lifts and
	// lowers it as a plain `any` (nil for none, the payload for some).
	KeepOption bool
}
