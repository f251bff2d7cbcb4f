package cabi

import (
	"strconv"

	cabierrors "github.com/wippyai/cabi/errors"
)

// Records and tuples share the same layout machinery (RecordType and
// TupleType both populate t.fields with declared-order offsets), so they
// share the same codec. A record's native value is a name-keyed map; a
// tuple's is a positional []any. Lower/Store always walk t.fields in
// declared order, never a map's iteration order, so field order on the
// wire is exactly the order the descriptor was built with regardless of
// how a Go map happens to range.

func loadRecord(t *Type, mem Memory, ptr uint32, opts Options, path []string) (any, error) {
	if t.kind == KindTuple {
		out := make([]any, len(t.fields))
		for i, f := range t.fields {
			v, err := f.Type.loadAt(mem, ptr+f.Offset, opts, append(path, f.fieldPathName(i)))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	out := make(map[string]any, len(t.fields))
	for _, f := range t.fields {
		v, err := f.Type.loadAt(mem, ptr+f.Offset, opts, append(path, f.Name))
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func storeRecord(t *Type, mem Memory, alloc Allocator, ptr uint32, value any, opts Options, path []string) error {
	if t.kind == KindTuple {
		elems, ok := value.([]any)
		if !ok {
			return cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "tuple")
		}
		if len(elems) != len(t.fields) {
			return cabierrors.InvalidData(cabierrors.PhaseStore, path, "tuple arity mismatch")
		}
		for i, f := range t.fields {
			if err := f.Type.storeAt(mem, alloc, ptr+f.Offset, elems[i], opts, append(path, f.fieldPathName(i))); err != nil {
				return err
			}
		}
		return nil
	}
	fields, ok := value.(map[string]any)
	if !ok {
		return cabierrors.TypeMismatch(cabierrors.PhaseStore, path, "", "record")
	}
	for _, f := range t.fields {
		v, present := fields[f.Name]
		if !present {
			return cabierrors.FieldMissing(cabierrors.PhaseStore, path, f.Name)
		}
		if err := f.Type.storeAt(mem, alloc, ptr+f.Offset, v, opts, append(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func liftRecord(t *Type, src *FlatSource, mem Memory, opts Options, path []string) (any, error) {
	if t.kind == KindTuple {
		out := make([]any, len(t.fields))
		for i, f := range t.fields {
			v, err := f.Type.liftFrom(src, mem, opts, append(path, f.fieldPathName(i)))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	out := make(map[string]any, len(t.fields))
	for _, f := range t.fields {
		v, err := f.Type.liftFrom(src, mem, opts, append(path, f.Name))
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func lowerRecord(t *Type, sink *FlatSink, mem Memory, alloc Allocator, value any, opts Options, path []string) error {
	if t.kind == KindTuple {
		elems, ok := value.([]any)
		if !ok {
			return cabierrors.TypeMismatch(cabierrors.PhaseLower, path, "", "tuple")
		}
		if len(elems) != len(t.fields) {
			return cabierrors.InvalidData(cabierrors.PhaseLower, path, "tuple arity mismatch")
		}
		for i, f := range t.fields {
			if err := f.Type.lowerInto(sink, mem, alloc, elems[i], opts, append(path, f.fieldPathName(i))); err != nil {
				return err
			}
		}
		return nil
	}
	fields, ok := value.(map[string]any)
	if !ok {
		return cabierrors.TypeMismatch(cabierrors.PhaseLower, path, "", "record")
	}
	for _, f := range t.fields {
		v, present := fields[f.Name]
		if !present {
			return cabierrors.FieldMissing(cabierrors.PhaseLower, path, f.Name)
		}
		if err := f.Type.lowerInto(sink, mem, alloc, v, opts, append(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// fieldPathName names a tuple element for error paths, since tuple
// fields carry no declared name.
func (f Field) fieldPathName(i int) string {
	if f.Name != "" {
		return f.Name
	}
	return "#" + strconv.Itoa(i)
}
