package cabi

import (
	"unicode/utf8"

	cabierrors "github.com/wippyai/cabi/errors"
	"github.com/wippyai/cabi/internal/abi"
	"golang.org/x/text/encoding/unicode"
)

var utf16Codec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeStringBody converts a Go string (always UTF-8 internally) into the
// wire bytes for the requested encoding, returning the bytes and the
// alignment their allocation must use.
func encodeStringBody(s string, enc Encoding, path []string) ([]byte, uint32, error) {
	switch enc {
	case EncodingUTF8:
		if !utf8.ValidString(s) {
			return nil, 0, cabierrors.InvalidUTF8(cabierrors.PhaseLower, path, []byte(s))
		}
		return []byte(s), 1, nil
	case EncodingUTF16:
		body, err := utf16Codec.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, 0, cabierrors.New(cabierrors.PhaseLower, cabierrors.KindInvalidData).
				Path(path...).Detail("utf-16 encode failed: %v", err).Build()
		}
		return body, 2, nil
	default:
		return nil, 0, cabierrors.UnsupportedEncoding(cabierrors.PhaseLower, path, "latin1+utf-16")
	}
}

// decodeStringBody converts wire bytes in the requested encoding back into
// a Go string.
func decodeStringBody(body []byte, enc Encoding, path []string) (string, error) {
	switch enc {
	case EncodingUTF8:
		if !utf8.Valid(body) {
			return "", cabierrors.InvalidUTF8(cabierrors.PhaseLift, path, body)
		}
		return string(body), nil
	case EncodingUTF16:
		out, err := utf16Codec.NewDecoder().Bytes(body)
		if err != nil {
			return "", cabierrors.New(cabierrors.PhaseLift, cabierrors.KindInvalidData).
				Path(path...).Detail("utf-16 decode failed: %v", err).Build()
		}
		return string(out), nil
	default:
		return "", cabierrors.UnsupportedEncoding(cabierrors.PhaseLift, path, "latin1+utf-16")
	}
}

// codeUnitSize is the wire code-unit width for the encoding: 1 byte for
// utf-8, 2 bytes for utf-16.
func codeUnitSize(enc Encoding) uint32 {
	if enc == EncodingUTF16 {
		return 2
	}
	return 1
}

func loadString(mem Memory, ptr uint32, opts Options, path []string) (any, error) {
	dataPtr, err := mem.ReadU32(ptr)
	if err != nil {
		return nil, err
	}
	codeUnits, err := mem.ReadU32(ptr + 4)
	if err != nil {
		return nil, err
	}
	byteLen, ok := abi.SafeMulU32(codeUnits, codeUnitSize(opts.Encoding))
	if !ok || byteLen > abi.MaxStringSize {
		return nil, cabierrors.OutOfBounds(cabierrors.PhaseLoad, path, int(byteLen), abi.MaxStringSize)
	}
	body, err := mem.Read(dataPtr, byteLen)
	if err != nil {
		return nil, err
	}
	return decodeStringBody(body, opts.Encoding, path)
}

func storeString(mem Memory, alloc Allocator, ptr uint32, value any, opts Options, path []string) error {
	s, ok := value.(string)
	if !ok {
		return cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "string")
	}
	body, align, err := encodeStringBody(s, opts.Encoding, path)
	if err != nil {
		return err
	}
	if uint32(len(body)) > abi.MaxStringSize {
		return cabierrors.OutOfBounds(cabierrors.PhaseStore, path, len(body), abi.MaxStringSize)
	}
	dataPtr, err := Alloc(alloc, align, uint32(len(body)))
	if err != nil {
		return cabierrors.AllocationFailed(cabierrors.PhaseStore, uint32(len(body)), align)
	}
	if err := mem.Write(dataPtr, body); err != nil {
		return err
	}
	if err := mem.WriteU32(ptr, dataPtr); err != nil {
		return err
	}
	codeUnits := uint32(len(body)) / codeUnitSize(opts.Encoding)
	return mem.WriteU32(ptr+4, codeUnits)
}

func liftString(src *FlatSource, mem Memory, opts Options, path []string) (any, error) {
	dataBits, ok := src.next()
	if !ok {
		return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
	}
	lenBits, ok := src.next()
	if !ok {
		return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, path, "flat value stream exhausted")
	}
	dataPtr := uint32(dataBits)
	codeUnits := uint32(lenBits)
	byteLen, ok := abi.SafeMulU32(codeUnits, codeUnitSize(opts.Encoding))
	if !ok || byteLen > abi.MaxStringSize {
		return nil, cabierrors.OutOfBounds(cabierrors.PhaseLift, path, int(byteLen), abi.MaxStringSize)
	}
	body, err := mem.Read(dataPtr, byteLen)
	if err != nil {
		return nil, err
	}
	return decodeStringBody(body, opts.Encoding, path)
}

func lowerString(sink *FlatSink, mem Memory, alloc Allocator, value any, opts Options, path []string) error {
	s, ok := value.(string)
	if !ok {
		return cabierrors.TypeMismatch(cabierrors.PhaseLower, path, "", "string")
	}
	body, align, err := encodeStringBody(s, opts.Encoding, path)
	if err != nil {
		return err
	}
	if uint32(len(body)) > abi.MaxStringSize {
		return cabierrors.OutOfBounds(cabierrors.PhaseLower, path, len(body), abi.MaxStringSize)
	}
	dataPtr, err := Alloc(alloc, align, uint32(len(body)))
	if err != nil {
		return cabierrors.AllocationFailed(cabierrors.PhaseLower, uint32(len(body)), align)
	}
	if err := mem.Write(dataPtr, body); err != nil {
		return err
	}
	sink.push(uint64(dataPtr))
	sink.push(uint64(uint32(len(body)) / codeUnitSize(opts.Encoding)))
	return nil
}
