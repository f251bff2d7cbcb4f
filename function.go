package cabi

import "github.com/wippyai/cabi/internal/abi"

// MaxFlatParams and MaxFlatResults are the canonical ABI's thresholds for
// switching a function signature from the flat calling convention to the
// indirect one: beyond these counts, values travel through a single
// pointer into linear memory instead of as individual flat slots.
const (
	MaxFlatParams  = 16
	MaxFlatResults = 1
)

// FunctionType describes a component function signature: named,
// positional parameters and a single result shape (nil for a function
// that returns nothing). It computes, in addition to the parameter and
// result descriptors themselves, the flat calling convention actually
// used once the MaxFlatParams/MaxFlatResults thresholds are applied.
type FunctionType struct {
	Params []FieldSpec
	Result *Type

	paramFlat      []abi.FlatKind
	resultFlat     []abi.FlatKind
	paramsIndirect bool
	resultIndirect bool
}

// NewFunctionType builds a FunctionType from its parameter and result
// shapes and computes its flattened calling convention.
func NewFunctionType(params []FieldSpec, result *Type) *FunctionType {
	ft := &FunctionType{Params: params, Result: result}

	for _, p := range params {
		ft.paramFlat = append(ft.paramFlat, p.Type.FlatTypes()...)
	}
	if result != nil {
		ft.resultFlat = result.FlatTypes()
	}

	if len(ft.paramFlat) > MaxFlatParams {
		ft.paramFlat = []abi.FlatKind{abi.FlatI32}
		ft.paramsIndirect = true
	}
	if len(ft.resultFlat) > MaxFlatResults {
		// The result then travels through an out-pointer into linear
		// memory: the flat result list collapses to nothing and the result
		// is marked indirect (UsesRetptr reports it, RetptrLayout gives the
		// block's size and alignment). Adding the pointer to a flat
		// parameter list is the caller's concern; ParamFlatTypes does not
		// include it.
		ft.resultFlat = nil
		ft.resultIndirect = true
	}

	return ft
}

// ParamFlatTypes returns the flat parameter signature after the
// MaxFlatParams threshold has been applied: either each parameter's own
// flat types concatenated, or a single i32 pointer to the parameter tuple
// if that would exceed 16 slots.
func (ft *FunctionType) ParamFlatTypes() []abi.FlatKind {
	out := make([]abi.FlatKind, len(ft.paramFlat))
	copy(out, ft.paramFlat)
	return out
}

// ResultFlatTypes returns the flat result signature after the
// MaxFlatResults threshold has been applied.
func (ft *FunctionType) ResultFlatTypes() []abi.FlatKind {
	out := make([]abi.FlatKind, len(ft.resultFlat))
	copy(out, ft.resultFlat)
	return out
}

// ParamsIndirect reports whether parameters travel through a single
// pointer into linear memory instead of as individual flat slots.
func (ft *FunctionType) ParamsIndirect() bool { return ft.paramsIndirect }

// UsesRetptr reports whether the result travels through an out-pointer
// (a retptr) instead of flat result slots, because it flattens to more
// than MaxFlatResults values.
func (ft *FunctionType) UsesRetptr() bool { return ft.resultIndirect }

// RetptrLayout returns the size and alignment of the block a caller must
// allocate to receive an indirect result, treating the result type as if
// it were the sole field of a record. Callers only need this when
// UsesRetptr is true.
func (ft *FunctionType) RetptrLayout() (size, align uint32) {
	if ft.Result == nil {
		return 0, 1
	}
	return ft.Result.Size(), ft.Result.Align()
}
