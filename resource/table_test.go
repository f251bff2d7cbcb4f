package resource

import "testing"

func TestHandleTableBasic(t *testing.T) {
	table := NewTable()

	h := table.Insert(1, "file-contents")
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "file-contents" {
		t.Fatalf("got %v, want file-contents", val)
	}

	if _, ok := table.GetTyped(h, 1); !ok {
		t.Fatal("GetTyped with the declared type should succeed")
	}
	if _, ok := table.GetTyped(h, 2); ok {
		t.Fatal("GetTyped with a mismatched type should fail")
	}

	val, ok = table.Remove(h)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "file-contents" {
		t.Fatalf("got %v, want file-contents", val)
	}
	if table.Len() != 0 {
		t.Fatal("expected Len() == 0 after Remove")
	}
}

func TestHandleTableClear(t *testing.T) {
	table := NewTable()
	table.Insert(1, "a")
	table.Insert(1, "b")
	table.Insert(1, "c")

	if table.Len() != 3 {
		t.Fatalf("got Len() == %d, want 3", table.Len())
	}

	table.Clear()
	if table.Len() != 0 {
		t.Fatal("expected Len() == 0 after Clear")
	}
}

func TestHandleTableCloseRejectsFurtherInserts(t *testing.T) {
	table := NewTable()
	table.Insert(1, "a")
	table.Insert(1, "b")

	if err := table.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if h := table.Insert(1, "c"); h != 0 {
		t.Fatal("expected Insert to fail on a closed table")
	}
}

func TestHandleTableBackendRepRoundTrip(t *testing.T) {
	table := NewTable()
	backend := table.Backend()
	if backend == nil {
		t.Fatal("Backend() returned nil")
	}

	h := backend.NewFromRep(1, 12345)
	rep, ok := backend.Rep(h)
	if !ok {
		t.Fatal("Rep failed")
	}
	if rep != 12345 {
		t.Fatalf("got rep %d, want 12345", rep)
	}
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestHandleTableRemoveRunsDropper(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h := table.Insert(1, d)
	table.Remove(h)

	if d.count != 1 {
		t.Fatalf("expected Drop() to be called once, called %d times", d.count)
	}
}
