package cabi

import "testing"

func TestToKebabCase(t *testing.T) {
	tests := map[string]string{
		"GetRandomU64": "get-random-u64",
		"GetHTTPURL":   "get-httpurl",
		"Read":         "read",
		"ID":           "id",
	}
	for in, want := range tests {
		if got := toKebabCase(in); got != want {
			t.Errorf("toKebabCase(%q) = %q, want %q", in, got, want)
		}
	}
}

type testHost struct{}

func (testHost) Namespace() string { return "test:ns/api" }
func (testHost) AddOne(n uint32) uint32 { return n + 1 }

func TestRegisterHostReflection(t *testing.T) {
	reg := NewHostRegistry()
	if err := reg.RegisterHost(testHost{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Lookup("test:ns/api", "add-one"); !ok {
		t.Fatal("expected add-one to be registered under its kebab-case name")
	}
	if _, ok := reg.Lookup("test:ns/api", "namespace"); ok {
		t.Fatal("Namespace itself should not be registered as a callable")
	}
}

type explicitHost struct{}

func (explicitHost) Namespace() string { return "test:ns/explicit" }
func (explicitHost) Register() map[string]any {
	return map[string]any{
		"[constructor]file": func() uint32 { return 1 },
	}
}

func TestRegisterHostExplicit(t *testing.T) {
	reg := NewHostRegistry()
	if err := reg.RegisterHost(explicitHost{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Lookup("test:ns/explicit", "[constructor]file"); !ok {
		t.Fatal("expected explicit registrar name to be used verbatim")
	}
}

func TestRegisterHostEmptyNamespaceFails(t *testing.T) {
	reg := NewHostRegistry()
	if err := reg.RegisterHost(emptyNamespaceHost{}); err == nil {
		t.Fatal("expected error for empty namespace")
	}
}

type emptyNamespaceHost struct{}

func (emptyNamespaceHost) Namespace() string { return "" }
