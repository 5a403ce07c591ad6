package mapper

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/ffi-bindgen/catalog"
	"github.com/ardanlabs/ffi-bindgen/decl"
)

// fixedBuffers lists the element types Go code can use directly as a fixed
// size array field.
var fixedBuffers = map[string]bool{
	"bool":    true,
	"int8":    true,
	"uint8":   true,
	"int16":   true,
	"uint16":  true,
	"int32":   true,
	"uint32":  true,
	"int64":   true,
	"uint64":  true,
	"float32": true,
	"float64": true,
}

func (p *pass) lookup(name string) (catalog.Type, error) {
	t, ok := p.types[name]
	if !ok {
		return catalog.Type{}, fmt.Errorf("%w: %q", ErrTypeNotFound, name)
	}
	return t, nil
}

// goType maps a catalog type to its Go type.
func (p *pass) goType(t catalog.Type) (decl.Type, error) {
	name, err := p.typeName(t)
	if err != nil {
		return decl.Type{}, err
	}

	gt := decl.Type{
		Name:         name,
		OriginalName: t.Name,
		SizeOf:       t.SizeOf,
	}
	if t.AlignOf != nil {
		gt.AlignOf = *t.AlignOf
	}
	if t.ArraySize != nil {
		gt.ArraySize = *t.ArraySize
	}

	return gt, nil
}

func (p *pass) typeName(t catalog.Type) (string, error) {
	if t.Kind == catalog.KindFunctionPointer {
		return p.functionPointerName(t)
	}

	size := t.SizeOf
	if t.ElementSize != nil {
		size = *t.ElementSize
	}

	name, err := p.spellingName(t.Name, size, t.IsSystem, t.ElementSize != nil)
	if err != nil {
		return "", err
	}

	if name == "va_list" {
		name = "uintptr"
	}

	return name, nil
}

// spellingName maps a canonical C spelling. Arrays map to their element
// type; the array size travels separately in decl.Type.
func (p *pass) spellingName(name string, size int, isSystem, exactSize bool) (string, error) {
	if i := strings.IndexByte(name, '['); i > 0 && strings.HasSuffix(name, "]") {
		if et, ok := p.types[name[:i]]; ok {
			isSystem = et.IsSystem
			if !exactSize {
				size = et.SizeOf
			}
		}

		elem, err := p.spellingName(name[:i], size, isSystem, exactSize)
		if err != nil {
			return "", err
		}

		// Only the outer dimension is the field's ArraySize; inner ones
		// become part of the element type.
		dims := name[i:]
		if j := strings.IndexByte(dims, ']'); j >= 0 {
			dims = dims[j+1:]
		}

		return dims + elem, nil
	}

	if strings.HasSuffix(name, "*") {
		return p.pointerName(name, size, isSystem, exactSize)
	}

	return p.elementName(name, size, isSystem)
}

func (p *pass) pointerName(name string, size int, isSystem, exactSize bool) (string, error) {
	elem := strings.TrimRight(name, "*")
	stars := len(name) - len(elem)
	elem = strings.TrimSpace(elem)

	switch elem {
	case "char":
		return strings.Repeat("*", stars-1) + "CString", nil
	case "wchar_t":
		return strings.Repeat("*", stars-1) + "CStringWide", nil
	case "FILE", "DIR":
		return strings.Repeat("*", stars-1) + "uintptr", nil
	case "void":
		return strings.Repeat("*", stars-1) + "unsafe.Pointer", nil
	}

	// A pointer's own size says nothing about its pointee, so prefer what
	// the catalog knows about the element.
	if et, ok := p.types[elem]; ok {
		isSystem = et.IsSystem
		if !exactSize {
			size = et.SizeOf
		}
	}

	mapped, err := p.elementName(elem, size, isSystem)
	if err != nil {
		return "", err
	}

	return strings.Repeat("*", stars) + mapped, nil
}

func (p *pass) elementName(name string, size int, isSystem bool) (string, error) {
	if !isSystem {
		if alias, ok := p.userAliases[name]; ok {
			return alias, nil
		}
		return name, nil
	}

	if alias, ok := p.systemAliases[name]; ok {
		return alias, nil
	}

	switch name {
	case "char":
		return "CChar", nil
	case "wchar_t":
		return "CCharWide", nil
	case "bool", "_Bool":
		return "CBool", nil
	case "int8_t":
		return "int8", nil
	case "uint8_t":
		return "uint8", nil
	case "int16_t":
		return "int16", nil
	case "uint16_t":
		return "uint16", nil
	case "int32_t":
		return "int32", nil
	case "uint32_t":
		return "uint32", nil
	case "int64_t":
		return "int64", nil
	case "uint64_t":
		return "uint64", nil
	case "uintptr_t":
		return "uintptr", nil
	case "intptr_t":
		return "int", nil
	case "float":
		return "float32", nil
	case "double":
		return "float64", nil

	case "unsigned char", "unsigned short", "unsigned short int", "unsigned", "unsigned int",
		"unsigned long", "unsigned long int", "unsigned long long", "unsigned long long int", "size_t":
		return unsignedWidth(name, size)

	case "signed char", "short", "short int", "signed short", "signed short int", "int", "signed",
		"signed int", "long", "long int", "signed long", "signed long int", "long long", "long long int",
		"signed long long", "signed long long int", "ssize_t":
		return signedWidth(name, size)
	}

	return name, nil
}

func unsignedWidth(name string, size int) (string, error) {
	switch size {
	case 1:
		return "uint8", nil
	case 2:
		return "uint16", nil
	case 4:
		return "uint32", nil
	case 8:
		return "uint64", nil
	}
	return "", fmt.Errorf("%w: %q has size %d", ErrUnsupportedWidth, name, size)
}

func signedWidth(name string, size int) (string, error) {
	switch size {
	case 1:
		return "int8", nil
	case 2:
		return "int16", nil
	case 4:
		return "int32", nil
	case 8:
		return "int64", nil
	}
	return "", fmt.Errorf("%w: %q has size %d", ErrUnsupportedWidth, name, size)
}
