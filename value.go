package cabi

import cabierrors "github.com/wippyai/cabi/errors"

// Native values for primitive, string, and resource-handle kinds are plain
// Go types: bool, the fixed-width int/uint/float kinds, rune for char, and
// string. Handle is the native value for own<T>/borrow<T>.
//
// Compound kinds use the small set of value types below. There is no
// generated Go struct per record/variant shape — the descriptor built at
// runtime (RecordType, VariantType, ...) is the only source of truth for a
// compound value's layout, so the native representation has to stay
// generic: a record is a name-keyed map, a variant carries its active case
// by name, and so on. Lower always consults the descriptor's declared
// field/case order, never a map's iteration order.

// Handle is the native value for own<T> and borrow<T>: an opaque,
// non-zero, 32-bit identifier assigned and interpreted entirely by the
// host. The core never dereferences it.
type Handle uint32

// Variant is the native value for a variant<...> value: Case names one of
// the descriptor's declared cases, and Value holds that case's payload
// (nil if the case carries none).
type Variant struct {
	Case  string
	Value any
}

// Result is the native value for a result<ok, err> value.
type Result struct {
	OK    bool
	Value any
}

// Option is the tagged native value for an option<T> value, used when
// Options.KeepOption is true. When KeepOption is false, option<T> instead
// lowers/lifts as a plain `any`: nil for none, the payload itself for
// some.
type Option struct {
	Some  bool
	Value any
}

// Flags is the native value for a flags value: a named bit set backed by
// the descriptor's declared flag order.
type Flags struct {
	names []string
	index map[string]int
	words []uint32
}

// NewFlags creates an all-clear Flags value for the given flags
// descriptor.
func NewFlags(t *Type) (*Flags, error) {
	if t.Kind() != KindFlags {
		return nil, cabierrors.TypeMismatch(cabierrors.PhaseCompile, nil, "Flags", t.Kind().String())
	}
	names := t.FlagNames()
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return &Flags{names: names, index: idx, words: make([]uint32, t.flagWords)}, nil
}

// Names returns the flag names in declared order.
func (f *Flags) Names() []string { return f.names }

// Get reports whether the named flag is set.
func (f *Flags) Get(name string) bool {
	i, ok := f.index[name]
	if !ok {
		return false
	}
	return f.words[i>>5]&(1<<uint(i&31)) != 0
}

// Set sets or clears the named flag. It is a no-op if name is not one of
// the descriptor's declared flags.
func (f *Flags) Set(name string, v bool) {
	i, ok := f.index[name]
	if !ok {
		return
	}
	if v {
		f.words[i>>5] |= 1 << uint(i&31)
	} else {
		f.words[i>>5] &^= 1 << uint(i&31)
	}
}

// Words returns the underlying u32 storage words, one bit per flag, in
// declared order starting from bit 0 of word 0. Mutating the returned
// slice mutates f.
func (f *Flags) Words() []uint32 { return f.words }
