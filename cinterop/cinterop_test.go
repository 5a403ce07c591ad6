package cinterop

import (
	"testing"
	"unsafe"

	"github.com/jupiterrider/ffi"
)

func TestCString(t *testing.T) {
	tests := []string{"", "hello", "héllo wörld", "日本"}

	for _, s := range tests {
		cs, err := NewCString(s)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", s, err)
		}
		if cs.IsNil() {
			t.Fatalf("%q: expected a pointer", s)
		}
		if got := cs.String(); got != s {
			t.Errorf("expected %q, got %q", s, got)
		}

		again := CStringFromPointer(cs.Pointer())
		if got := again.String(); got != s {
			t.Errorf("expected %q through a raw pointer, got %q", s, got)
		}
	}
}

func TestCStringRejectsNUL(t *testing.T) {
	if _, err := NewCString("a\x00b"); err == nil {
		t.Error("expected an error for an embedded NUL")
	}
	if _, err := NewCStringWide("a\x00b"); err == nil {
		t.Error("expected an error for an embedded NUL")
	}
}

func TestCStringWide(t *testing.T) {
	tests := []string{"", "wide", "ünïcödé", "日本語"}

	for _, s := range tests {
		ws, err := NewCStringWide(s)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", s, err)
		}
		if got := ws.String(); got != s {
			t.Errorf("expected %q, got %q", s, got)
		}
	}
}

func TestNilStrings(t *testing.T) {
	var cs CString
	var ws CStringWide

	if !cs.IsNil() || cs.String() != "" {
		t.Errorf("expected a nil empty CString, got %q", cs.String())
	}
	if !ws.IsNil() || ws.String() != "" {
		t.Errorf("expected a nil empty CStringWide, got %q", ws.String())
	}
}

func TestLayout(t *testing.T) {
	ptr := unsafe.Sizeof(uintptr(0))

	if got := unsafe.Sizeof(CString{}); got != ptr {
		t.Errorf("expected CString to be %d bytes, got %d", ptr, got)
	}
	if got := unsafe.Sizeof(CStringWide{}); got != ptr {
		t.Errorf("expected CStringWide to be %d bytes, got %d", ptr, got)
	}
	if got := uint64(unsafe.Sizeof(CCharWide(0))); got != FFITypeCCharWide.Size {
		t.Errorf("expected CCharWide to match its descriptor size %d, got %d", FFITypeCCharWide.Size, got)
	}
}

func TestCBool(t *testing.T) {
	if !NewCBool(true).Bool() || NewCBool(false).Bool() {
		t.Error("expected CBool to round trip")
	}
	if !CBool(7).Bool() {
		t.Error("expected any non-zero value to be true")
	}
}

func TestElements(t *testing.T) {
	raw := [3]int32{1, 2, 3}

	got := Elements[int32](unsafe.Pointer(&raw), 3)
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", got)
	}

	got[0] = 9
	if raw[0] != 9 {
		t.Error("expected the view to alias the storage")
	}

	if Elements[int32](nil, 3) != nil {
		t.Error("expected nil for a nil pointer")
	}
}

func TestNewStructType(t *testing.T) {
	typ := NewStructType(
		Field{Type: &FFITypeCChar, Count: 3},
		Field{Type: &FFITypeCString, Count: 1},
		Field{Type: &FFITypeCBool, Count: 0},
	)

	elems := unsafe.Slice(typ.Elements, 5)
	for i, want := range []*ffi.Type{&FFITypeCChar, &FFITypeCChar, &FFITypeCChar, &FFITypeCString} {
		if elems[i] != want {
			t.Errorf("element %d: expected %p, got %p", i, want, elems[i])
		}
	}
	if elems[4] != nil {
		t.Error("expected the element list to be nil terminated")
	}
}
