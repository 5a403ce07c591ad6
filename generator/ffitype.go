package generator

import (
	"strconv"
	"strings"

	"github.com/ardanlabs/ffi-bindgen/decl"
)

var cinteropTypes = map[string]bool{
	"CChar":       true,
	"CCharWide":   true,
	"CBool":       true,
	"CString":     true,
	"CStringWide": true,
}

var primitiveFFI = map[string]string{
	"void":           "ffi.TypeVoid",
	"bool":           "ffi.TypeUint8",
	"int8":           "ffi.TypeSint8",
	"uint8":          "ffi.TypeUint8",
	"int16":          "ffi.TypeSint16",
	"uint16":         "ffi.TypeUint16",
	"int32":          "ffi.TypeSint32",
	"uint32":         "ffi.TypeUint32",
	"int64":          "ffi.TypeSint64",
	"uint64":         "ffi.TypeUint64",
	"float32":        "ffi.TypeFloat",
	"float64":        "ffi.TypeDouble",
	"int":            "ffi.TypePointer",
	"uint":           "ffi.TypePointer",
	"uintptr":        "ffi.TypePointer",
	"unsafe.Pointer": "ffi.TypePointer",
	"CChar":          "cinterop.FFITypeCChar",
	"CCharWide":      "cinterop.FFITypeCCharWide",
	"CBool":          "cinterop.FFITypeCBool",
	"CString":        "cinterop.FFITypeCString",
	"CStringWide":    "cinterop.FFITypeCStringWide",
}

// smallIntegers are returned by libffi widened to a full register.
var smallIntegers = map[string]bool{
	"bool":      true,
	"int8":      true,
	"uint8":     true,
	"int16":     true,
	"uint16":    true,
	"int32":     true,
	"uint32":    true,
	"CChar":     true,
	"CCharWide": true,
	"CBool":     true,
}

// typeExpr renders a mapped type name as a type expression of the
// generated package.
func (g *Generator) typeExpr(name string) string {
	prefix, base := splitType(name)

	if cinteropTypes[base] {
		return prefix + "cinterop." + base
	}
	if goName, ok := g.names.lookup(typeSpace, base); ok {
		return prefix + goName
	}

	return prefix + base
}

// fieldType is the Go type of a struct field, arrays included.
func (g *Generator) fieldType(t decl.Type) string {
	expr := g.typeExpr(t.Name)
	if t.ArraySize > 0 {
		return "[" + strconv.Itoa(t.ArraySize) + "]" + expr
	}
	return expr
}

// paramType is the Go type of a parameter or result. C array parameters
// decay to pointers.
func (g *Generator) paramType(t decl.Type) string {
	expr := g.typeExpr(t.Name)
	if t.ArraySize > 0 {
		return "*" + expr
	}
	return expr
}

// ffiType returns the libffi descriptor of one base element of a type as a
// value expression. Unknown types are passed as pointers.
func (g *Generator) ffiType(name string) string {
	prefix, base := splitType(name)
	if strings.Contains(prefix, "*") {
		return "ffi.TypePointer"
	}

	if expr, ok := primitiveFFI[base]; ok {
		return expr
	}

	switch g.kinds[base] {
	case decl.KindStruct, decl.KindEnum, decl.KindAliasStruct:
		goName, _ := g.names.lookup(typeSpace, base)
		return "FFIType" + goName
	}

	return "ffi.TypePointer"
}

// argType is the descriptor of a parameter or result. Arrays decay to
// pointers.
func (g *Generator) argType(t decl.Type) string {
	if t.ArraySize > 0 {
		return "&ffi.TypePointer"
	}
	return "&" + g.ffiType(t.Name)
}

// isSmallInteger reports whether a result has to be read through ffi.Arg.
func (g *Generator) isSmallInteger(t decl.Type) bool {
	name := t.Name
	for range 8 {
		if t.ArraySize > 0 {
			return false
		}

		prefix, base := splitType(name)
		if prefix != "" {
			return false
		}
		if smallIntegers[base] {
			return true
		}

		switch g.kinds[base] {
		case decl.KindEnum:
			t = g.enums[base]
		case decl.KindAliasStruct:
			t = g.aliases[base]
		default:
			return false
		}
		name = t.Name
	}

	return false
}
