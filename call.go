package cabi

import (
	"reflect"

	cabierrors "github.com/wippyai/cabi/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// CallHost invokes a registered host function with already-lifted native
// argument values, converting them to the handler's declared Go
// parameter types and converting its return values back to the plain
// `any` representation the core's Lower understands. If the handler's
// last return value is an error and it is non-nil, CallHost returns a
// call-phase error wrapping it instead of a result value.
func CallHost(registry *HostRegistry, namespace, name string, args []any) (any, error) {
	hf, ok := registry.Lookup(namespace, name)
	if !ok {
		return nil, cabierrors.NotFound(cabierrors.PhaseCall, "host function", namespace+"#"+name)
	}

	fn := reflect.ValueOf(hf.Handler)
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return nil, cabierrors.New(cabierrors.PhaseCall, cabierrors.KindTypeMismatch).
			Detail("registered handler for %s#%s is not a function", namespace, name).Build()
	}

	variadic := ft.IsVariadic()
	minIn := ft.NumIn()
	if variadic {
		minIn--
	}
	if len(args) < minIn || (!variadic && len(args) != ft.NumIn()) {
		return nil, cabierrors.New(cabierrors.PhaseCall, cabierrors.KindInvalidInput).
			Detail("%s#%s expects %d arguments, got %d", namespace, name, ft.NumIn(), len(args)).Build()
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var want reflect.Type
		switch {
		case variadic && i >= minIn:
			want = ft.In(ft.NumIn() - 1).Elem()
		default:
			want = ft.In(i)
		}
		v, err := convertArg(a, want, namespace, name, i)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}

	out := fn.Call(in)
	return splitHostResult(out, namespace, name)
}

// convertArg adapts a lifted native value (the small, fixed set of Go
// types Load/Lift ever produce) to the exact type a handler parameter
// declares, e.g. lifted int32 -> a handler parameter typed int.
func convertArg(value any, want reflect.Type, namespace, name string, index int) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(want) {
		return rv.Convert(want), nil
	}
	return reflect.Value{}, cabierrors.New(cabierrors.PhaseCall, cabierrors.KindTypeMismatch).
		GoType(rv.Type().String()).Detail("argument %d of %s#%s cannot convert to %s", index, namespace, name, want).Build()
}

// splitHostResult interprets a handler's return values: a trailing error
// return, if present and non-nil, short-circuits the call; a single
// remaining value is returned as-is for Lower to consume, and several
// remaining values are returned together as a []any.
func splitHostResult(out []reflect.Value, namespace, name string) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			return nil, cabierrors.Wrap(cabierrors.PhaseCall, cabierrors.KindInvalidData,
				last.Interface().(error), namespace+"#"+name+" returned an error")
		}
		out = out[:len(out)-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vals := make([]any, len(out))
		for i, v := range out {
			vals[i] = v.Interface()
		}
		return vals, nil
	}
}

// CallWasmArgs lifts a function's flat parameter stream (plus any
// indirect-parameter block in memory) into the native argument slice a
// handler or generated binding expects.
func CallWasmArgs(ft *FunctionType, src *FlatSource, mem Memory, opts Options) ([]any, error) {
	args := make([]any, len(ft.Params))
	if ft.ParamsIndirect() {
		ptrBits, ok := src.next()
		if !ok {
			return nil, cabierrors.ABIViolation(cabierrors.PhaseLift, nil, "flat value stream exhausted")
		}
		ptr := uint32(ptrBits)
		offset := uint32(0)
		for i, p := range ft.Params {
			offset = alignUp(offset, p.Type.Align())
			v, err := p.Type.Load(mem, ptr+offset, opts)
			if err != nil {
				return nil, err
			}
			args[i] = v
			offset += p.Type.Size()
		}
		return args, nil
	}
	for i, p := range ft.Params {
		v, err := p.Type.liftFrom(src, mem, opts, []string{p.Name})
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// CallWasmResult lowers a function's native result value into its flat
// result stream, or into a retptr block in memory if the result type
// flattens beyond MaxFlatResults. retptr is only consulted when
// UsesRetptr is true.
func CallWasmResult(ft *FunctionType, mem Memory, alloc Allocator, retptr uint32, value any, opts Options) (*FlatSink, error) {
	if ft.Result == nil {
		return NewFlatSink(0), nil
	}
	if ft.UsesRetptr() {
		if err := ft.Result.Store(mem, alloc, retptr, value, opts); err != nil {
			return nil, err
		}
		return NewFlatSink(0), nil
	}
	return ft.Result.Lower(mem, alloc, value, opts)
}
