// Package errors provides the structured error type raised at every
// marshaling boundary: loading/storing linear memory, and lifting/lowering
// the flat value stream. Every error is raised eagerly at the point of
// violation; nothing is retried or silently coerced.
package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which boundary operation produced the error.
type Phase string

const (
	PhaseCompile  Phase = "compile"  // type descriptor construction
	PhaseLower    Phase = "lower"    // native value -> flat stream
	PhaseLift     Phase = "lift"     // flat stream -> native value
	PhaseStore    Phase = "store"    // native value -> linear memory
	PhaseLoad     Phase = "load"     // linear memory -> native value
	PhaseValidate Phase = "validate" // value/range validation
	PhaseHost     Phase = "host"     // host function registration
	PhaseCall     Phase = "call"     // call_service / call_wasm dispatch
)

// Kind categorizes the error.
type Kind string

const (
	KindTypeMismatch               Kind = "type_mismatch"
	KindOutOfBounds                Kind = "out_of_bounds"
	KindInvalidData                Kind = "invalid_data"
	KindUnsupported                Kind = "unsupported"
	KindAllocation                 Kind = "allocation"
	KindFieldMissing               Kind = "field_missing"
	KindFieldUnknown               Kind = "field_unknown"
	KindInvalidUTF8                Kind = "invalid_utf8"
	KindOverflow                   Kind = "overflow"
	KindNilPointer                 Kind = "nil_pointer"
	KindInvalidEnum                Kind = "invalid_enum"
	KindInvalidVariant             Kind = "invalid_variant"
	KindNotFound                   Kind = "not_found"
	KindNotInitialized             Kind = "not_initialized"
	KindInvalidInput               Kind = "invalid_input"
	KindRegistration               Kind = "registration"
	KindABIViolation               Kind = "abi_violation"
	KindUnsupportedEncoding        Kind = "unsupported_encoding"
	KindOptionRepresentationMismatch Kind = "option_representation_mismatch"
	KindBigIntOverflow             Kind = "bigint_overflow"
)

// Error is the structured error type raised throughout the marshaling core.
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.WireType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WireType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", wire type ")
			b.WriteString(e.WireType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("wire type ")
			b.WriteString(e.WireType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WireType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path.
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name.
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire (component model) type name.
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value.
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns.

func TypeMismatch(phase Phase, path []string, goType, wireType string) *Error {
	return &Error{Phase: phase, Kind: KindTypeMismatch, Path: path, GoType: goType, WireType: wireType}
}

func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{Phase: phase, Kind: KindInvalidUTF8, Path: path, Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview)}
}

func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{Phase: phase, Kind: KindAllocation, Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align)}
}

func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{Phase: phase, Kind: KindFieldMissing, Path: path, Detail: fmt.Sprintf("required field %q not found", fieldName)}
}

func InvalidDiscriminant(phase Phase, path []string, disc uint32, maxValid uint32) *Error {
	return &Error{Phase: phase, Kind: KindInvalidVariant, Path: path, Detail: fmt.Sprintf("discriminant %d out of range (max %d)", disc, maxValid), Value: disc}
}

func Unsupported(phase Phase, what string) *Error {
	return &Error{Phase: phase, Kind: KindUnsupported, Detail: what}
}

func UnsupportedEncoding(phase Phase, path []string, encoding string) *Error {
	return &Error{Phase: phase, Kind: KindUnsupportedEncoding, Path: path, Detail: fmt.Sprintf("encoding %q is not implemented", encoding)}
}

func OptionRepresentationMismatch(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindOptionRepresentationMismatch, Path: path, Detail: detail}
}

func BigIntOverflow(phase Phase, path []string, value any, wireType string) *Error {
	return &Error{Phase: phase, Kind: KindBigIntOverflow, Path: path, WireType: wireType, Detail: fmt.Sprintf("value %v does not fit in %s", value, wireType), Value: value}
}

func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{Phase: phase, Kind: KindOutOfBounds, Path: path, Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length), Value: index}
}

func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{Phase: phase, Kind: KindNilPointer, Path: path, GoType: goType, Detail: "nil pointer"}
}

func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{Phase: phase, Kind: KindOverflow, Path: path, WireType: targetType, Detail: fmt.Sprintf("value %v overflows %s", value, targetType), Value: value}
}

func FieldUnknown(phase Phase, path []string, fieldName string) *Error {
	return &Error{Phase: phase, Kind: KindFieldUnknown, Path: path, Detail: fmt.Sprintf("unknown field %q", fieldName)}
}

func InvalidEnum(phase Phase, path []string, value any, enumType string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidEnum, Path: path, WireType: enumType, Detail: fmt.Sprintf("invalid enum value %v for %s", value, enumType), Value: value}
}

func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidData, Path: path, Detail: detail}
}

func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Detail: detail, Cause: cause}
}

func NotInitialized(phase Phase, component string) *Error {
	return &Error{Phase: phase, Kind: KindNotInitialized, Detail: fmt.Sprintf("%s not initialized", component)}
}

func NotFound(phase Phase, what, name string) *Error {
	return &Error{Phase: phase, Kind: KindNotFound, Detail: fmt.Sprintf("%s %q not found", what, name)}
}

func InvalidInput(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidInput, Detail: detail}
}

func Registration(phase Phase, namespace, name string, cause error) *Error {
	return &Error{Phase: phase, Kind: KindRegistration, Detail: fmt.Sprintf("register %s#%s", namespace, name), Cause: cause}
}

func ABIViolation(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindABIViolation, Path: path, Detail: detail}
}
