package resource

import (
	"sync"
	"testing"

	cabierrors "github.com/wippyai/cabi/errors"
)

func TestLocalBackendCreateGetDrop(t *testing.T) {
	b := NewLocalBackend()

	handle, err := b.Create(1, "test value")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if handle == 0 {
		t.Fatal("expected non-zero handle")
	}

	val, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test value" {
		t.Fatalf("got %v, want test value", val)
	}

	val, ok = b.Drop(handle)
	if !ok {
		t.Fatal("Drop failed")
	}
	if val != "test value" {
		t.Fatalf("got %v, want test value", val)
	}

	if _, ok := b.Get(handle); ok {
		t.Fatal("expected Get to fail after Drop")
	}
}

func TestLocalBackendRepAndTypeID(t *testing.T) {
	b := NewLocalBackend()

	handle := b.NewFromRep(1, 12345)
	if handle == 0 {
		t.Fatal("expected non-zero handle")
	}

	rep, ok := b.Rep(handle)
	if !ok {
		t.Fatal("Rep failed")
	}
	if rep != 12345 {
		t.Fatalf("got rep %d, want 12345", rep)
	}

	typeID, ok := b.TypeID(handle)
	if !ok {
		t.Fatal("TypeID failed")
	}
	if typeID != 1 {
		t.Fatalf("got typeID %d, want 1", typeID)
	}
}

func TestLocalBackendBorrowBlocksDrop(t *testing.T) {
	b := NewLocalBackend()
	handle := b.NewFromRep(1, 100)

	if !b.Borrow(handle) {
		t.Fatal("Borrow failed")
	}
	if _, ok := b.Drop(handle); ok {
		t.Fatal("Drop should fail with an outstanding borrow")
	}
	if !b.ReturnBorrow(handle) {
		t.Fatal("ReturnBorrow failed")
	}
	if _, ok := b.Drop(handle); !ok {
		t.Fatal("Drop should succeed once the borrow is returned")
	}
}

func TestLocalBackendMultipleBorrowsMustAllReturn(t *testing.T) {
	b := NewLocalBackend()
	handle := b.NewFromRep(1, 100)

	for i := 0; i < 5; i++ {
		if !b.Borrow(handle) {
			t.Fatalf("Borrow %d failed", i)
		}
	}
	if _, ok := b.Drop(handle); ok {
		t.Fatal("Drop should fail with outstanding borrows")
	}
	for i := 0; i < 5; i++ {
		if !b.ReturnBorrow(handle) {
			t.Fatalf("ReturnBorrow %d failed", i)
		}
	}
	if _, ok := b.Drop(handle); !ok {
		t.Fatal("Drop should succeed once every borrow is returned")
	}
}

func TestLocalBackendHandleReuse(t *testing.T) {
	b := NewLocalBackend()

	h1 := b.NewFromRep(1, 1)
	h2 := b.NewFromRep(1, 2)
	h3 := b.NewFromRep(1, 3)
	b.Drop(h2)
	b.Drop(h1)

	h4 := b.NewFromRep(1, 4)
	h5 := b.NewFromRep(1, 5)

	if _, ok := b.Rep(h3); !ok {
		t.Fatal("h3 should still be valid")
	}
	if _, ok := b.Rep(h4); !ok {
		t.Fatal("h4 should be valid")
	}
	if _, ok := b.Rep(h5); !ok {
		t.Fatal("h5 should be valid")
	}
}

func TestLocalBackendCloseRejectsFurtherCreate(t *testing.T) {
	b := NewLocalBackend()
	b.NewFromRep(1, 1)
	b.NewFromRep(1, 2)

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err := b.Create(1, "test")
	want := cabierrors.NotInitialized(cabierrors.PhaseHost, "resource backend (closed)")
	if err == nil || !err.(*cabierrors.Error).Is(want) {
		t.Fatalf("got %v, want a NotInitialized error", err)
	}
}

func TestLocalBackendConcurrentCreateBorrowDrop(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, _ := b.Create(1, id)
			b.Borrow(h)
			b.ReturnBorrow(h)
			b.Drop(h)
		}(i)
	}
	wg.Wait()
}

func TestLocalBackendLen(t *testing.T) {
	b := NewLocalBackend()
	if b.Len() != 0 {
		t.Fatal("expected Len() == 0 initially")
	}

	h1, _ := b.Create(1, "a")
	h2, _ := b.Create(1, "b")
	b.Create(1, "c")
	if b.Len() != 3 {
		t.Fatalf("got Len() == %d, want 3", b.Len())
	}

	b.Drop(h1)
	if b.Len() != 2 {
		t.Fatalf("got Len() == %d, want 2", b.Len())
	}
	b.Drop(h2)
	if b.Len() != 1 {
		t.Fatalf("got Len() == %d, want 1", b.Len())
	}
}

func TestLocalBackendEachAndEarlyTermination(t *testing.T) {
	b := NewLocalBackend()
	b.Create(1, "a")
	b.Create(2, "b")
	b.Create(1, "c")

	count := 0
	b.Each(func(Handle, uint32, any) bool {
		count++
		return true
	})
	if count != 3 {
		t.Fatalf("got %d, want to visit all 3 entries", count)
	}

	count = 0
	b.Each(func(Handle, uint32, any) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("got %d, want early termination after 1 entry", count)
	}
}

func TestLocalBackendHandleZeroAlwaysInvalid(t *testing.T) {
	b := NewLocalBackend()

	if _, ok := b.Get(0); ok {
		t.Fatal("handle 0 should be invalid for Get")
	}
	if _, ok := b.Rep(0); ok {
		t.Fatal("handle 0 should be invalid for Rep")
	}
	if b.Borrow(0) {
		t.Fatal("handle 0 should fail Borrow")
	}
	if b.ReturnBorrow(0) {
		t.Fatal("handle 0 should fail ReturnBorrow")
	}
	if _, ok := b.Drop(0); ok {
		t.Fatal("handle 0 should fail Drop")
	}
	if _, ok := b.Get(999); ok {
		t.Fatal("a never-issued handle should be invalid")
	}
}
