// Package cinterop provides the C marker types that generated bindings use
// for characters, booleans and strings, together with their libffi type
// descriptors.
package cinterop

import (
	"unsafe"

	"github.com/jupiterrider/ffi"
)

// CChar is a C char. Arrays of CChar are kept as raw bytes in generated
// structs.
type CChar byte

// CBool is a one byte C bool.
type CBool uint8

// NewCBool converts a Go bool.
func NewCBool(b bool) CBool {
	if b {
		return 1
	}
	return 0
}

func (b CBool) Bool() bool {
	return b != 0
}

// CString is a NUL terminated char*. It has the size and layout of a C
// pointer so it can be embedded in structs passed to native code.
type CString struct {
	ptr *byte
}

// CStringFromPointer wraps a char* returned by native code.
func CStringFromPointer(p unsafe.Pointer) CString {
	return CString{ptr: (*byte)(p)}
}

func (s CString) IsNil() bool {
	return s.ptr == nil
}

func (s CString) Pointer() unsafe.Pointer {
	return unsafe.Pointer(s.ptr)
}

// String copies the characters up to the terminating NUL. A nil CString is
// the empty string.
func (s CString) String() string {
	if s.ptr == nil {
		return ""
	}
	return bytePtrToString(s.ptr)
}

// NewCString allocates a NUL terminated copy of s. The memory is owned by
// the Go runtime, so native code must not keep the pointer past the call.
func NewCString(s string) (CString, error) {
	p, err := bytePtrFromString(s)
	if err != nil {
		return CString{}, err
	}
	return CString{ptr: p}, nil
}

// CStringWide is a NUL terminated wchar_t*.
type CStringWide struct {
	ptr *CCharWide
}

func CStringWideFromPointer(p unsafe.Pointer) CStringWide {
	return CStringWide{ptr: (*CCharWide)(p)}
}

func (s CStringWide) IsNil() bool {
	return s.ptr == nil
}

func (s CStringWide) Pointer() unsafe.Pointer {
	return unsafe.Pointer(s.ptr)
}

func (s CStringWide) String() string {
	if s.ptr == nil {
		return ""
	}
	return wideToString(s.ptr)
}

// NewCStringWide allocates a NUL terminated wide copy of s.
func NewCStringWide(s string) (CStringWide, error) {
	p, err := wideFromString(s)
	if err != nil {
		return CStringWide{}, err
	}
	return CStringWide{ptr: p}, nil
}

// Elements views n consecutive values of T starting at p. Generated structs
// use it to expose arrays that are stored as raw bytes.
func Elements[T any](p unsafe.Pointer, n int) []T {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*T)(p), n)
}

// libffi descriptors for the marker types. Generated code refers to them
// by address, like its own FFIType variables.
var (
	FFITypeCChar       = ffi.TypeSint8
	FFITypeCBool       = ffi.TypeUint8
	FFITypeCString     = ffi.TypePointer
	FFITypeCStringWide = ffi.TypePointer
)

// Field is Count consecutive struct members of one libffi type. C arrays
// inside structs are described this way.
type Field struct {
	Type  *ffi.Type
	Count int
}

// NewStructType builds the libffi descriptor of a struct from its fields in
// declaration order.
func NewStructType(fields ...Field) ffi.Type {
	var elems []*ffi.Type
	for _, f := range fields {
		for range f.Count {
			elems = append(elems, f.Type)
		}
	}
	return ffi.NewType(elems...)
}
