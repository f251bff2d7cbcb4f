package cabi

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	cabierrors "github.com/wippyai/cabi/errors"
)

// Host is implemented by a struct-based host module: every exported
// method except Namespace becomes a callable host function, named by
// converting its Go method name to kebab-case (GetHTTPRequest ->
// get-http-request, matching the component model's own naming convention).
type Host interface {
	// Namespace returns the interface name host functions are registered
	// under (e.g. "my:pkg/api").
	Namespace() string
}

// ExplicitRegistrar lets a Host provide exact wire names when automatic
// kebab-case conversion doesn't apply (names the component model allows
// that aren't valid Go identifiers, like "[constructor]file").
type ExplicitRegistrar interface {
	Register() map[string]any
}

// HostFunc is one registered host function: its handler and, for
// reflection-discovered methods, the receiver it is bound to.
type HostFunc struct {
	Handler  any
	Receiver reflect.Value
}

// HostRegistry maps namespace#name to host functions across every
// registered Host.
type HostRegistry struct {
	mu    sync.RWMutex
	funcs map[string]map[string]*HostFunc
}

// NewHostRegistry creates an empty registry.
func NewHostRegistry() *HostRegistry {
	return &HostRegistry{funcs: make(map[string]map[string]*HostFunc)}
}

// RegisterHost registers every callable function h exposes under its
// namespace, preferring an ExplicitRegistrar's exact names and falling
// back to reflection over h's exported methods.
func (r *HostRegistry) RegisterHost(h Host) error {
	ns := h.Namespace()
	if ns == "" {
		return cabierrors.InvalidInput(cabierrors.PhaseHost, "namespace cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.funcs[ns] == nil {
		r.funcs[ns] = make(map[string]*HostFunc)
	}

	if er, ok := h.(ExplicitRegistrar); ok {
		rv := reflect.ValueOf(h)
		for name, handler := range er.Register() {
			r.funcs[ns][name] = &HostFunc{Handler: handler, Receiver: rv}
		}
		return nil
	}

	rv := reflect.ValueOf(h)
	rt := rv.Type()
	for i := 0; i < rt.NumMethod(); i++ {
		method := rt.Method(i)
		if !method.IsExported() || method.Name == "Namespace" {
			continue
		}
		wireName := toKebabCase(method.Name)
		r.funcs[ns][wireName] = &HostFunc{Handler: rv.Method(i).Interface(), Receiver: rv}
	}
	return nil
}

// RegisterFunc registers a single free function fn under namespace#name,
// bypassing the Host/reflection discovery path entirely.
func (r *HostRegistry) RegisterFunc(namespace, name string, fn any) error {
	if namespace == "" {
		return cabierrors.InvalidInput(cabierrors.PhaseHost, "namespace cannot be empty")
	}
	if name == "" {
		return cabierrors.InvalidInput(cabierrors.PhaseHost, "function name cannot be empty")
	}
	if reflect.ValueOf(fn).Kind() != reflect.Func {
		return cabierrors.New(cabierrors.PhaseHost, cabierrors.KindTypeMismatch).
			GoType(reflect.TypeOf(fn).String()).Detail("handler must be a function").Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.funcs[namespace] == nil {
		r.funcs[namespace] = make(map[string]*HostFunc)
	}
	r.funcs[namespace][name] = &HostFunc{Handler: fn}
	return nil
}

// Lookup returns the registered host function for namespace#name, if
// any.
func (r *HostRegistry) Lookup(namespace, name string) (*HostFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.funcs[namespace]
	if !ok {
		return nil, false
	}
	hf, ok := ns[name]
	return hf, ok
}

// toKebabCase converts a PascalCase Go identifier to kebab-case,
// treating a run of uppercase letters as a single acronym word whose last
// letter starts the next word when a lowercase letter follows:
// GetHTTPRequest -> get-http-request. Adjacent acronyms are not split
// apart: GetHTTPURL -> get-httpurl.
func toKebabCase(s string) string {
	if len(s) == 0 {
		return ""
	}
	runes := []rune(s)
	var result strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !unicode.IsUpper(r) {
			result.WriteRune(r)
			continue
		}
		acronymEnd := i + 1
		for acronymEnd < len(runes) && unicode.IsUpper(runes[acronymEnd]) {
			acronymEnd++
		}
		if acronymEnd > i+1 && acronymEnd < len(runes) && unicode.IsLower(runes[acronymEnd]) {
			acronymEnd--
		}
		if i > 0 {
			result.WriteByte('-')
		}
		for j := i; j < acronymEnd; j++ {
			result.WriteRune(unicode.ToLower(runes[j]))
		}
		i = acronymEnd - 1
	}
	return result.String()
}
