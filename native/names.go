package native

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCyclicType is returned when resolving a type name does not terminate.
var ErrCyclicType = errors.New("cyclic type")

const maxTypeDepth = 64

var keywordStripper = strings.NewReplacer(
	"struct ", "",
	"union ", "",
	"enum ", "",
	"const ", "",
)

// Canonical strips elaborated-type keywords and const qualifiers from a
// native spelling.
func Canonical(spelling string) string {
	s := keywordStripper.Replace(spelling)
	return strings.ReplaceAll(s, "*const", "*")
}

// CursorName returns the canonical name of a cursor.
func CursorName(c Cursor) string {
	if c == nil {
		return ""
	}
	return Canonical(c.Spelling())
}

// TypeName returns the canonical name of a type: the key the catalog uses
// for it. decl is the cursor that declared the type, or nil to ask the type
// for its own declaration. Types that have no catalog name yield "".
func TypeName(t Type, decl Cursor) (string, error) {
	return typeName(t, decl, 0)
}

func typeName(t Type, decl Cursor, depth int) (string, error) {
	if depth > maxTypeDepth {
		return "", fmt.Errorf("%w: %q", ErrCyclicType, t.Spelling())
	}

	spelling := t.Spelling()
	if spelling == "" {
		return "", nil
	}

	switch t.Kind() {
	case TypePrimitive, TypeFunctionProto:
		return Canonical(spelling), nil
	}

	if decl == nil {
		decl = t.Declaration()
	}

	var name string

	switch t.Kind() {
	case TypePointer:
		pointee := t.PointeeType()
		if pointee.Kind() == TypeAttributed {
			pointee = pointee.ModifiedType()
		}

		pointeeDecl := pointee.Declaration()
		if pointee.Kind() == TypeFunctionProto && (pointeeDecl == nil || pointeeDecl.Kind() == CursorNoDeclFound) {
			name = pointee.Spelling()
			break
		}

		inner, err := typeName(pointee, pointeeDecl, depth+1)
		if err != nil {
			return "", err
		}
		name = inner + "*"

	case TypeTypedef:
		name = CursorName(t.Declaration())

	case TypeRecord:
		name = spelling

	case TypeEnum:
		name = CursorName(decl)
		if name == "" {
			name = spelling
		}

	case TypeConstantArray:
		inner, err := typeName(t.ElementType(), decl, depth+1)
		if err != nil {
			return "", err
		}
		name = inner

	case TypeIncompleteArray:
		inner, err := typeName(t.ElementType(), decl, depth+1)
		if err != nil {
			return "", err
		}
		name = inner + "*"

	case TypeElaborated:
		named := t.NamedType()
		inner, err := typeName(named, named.Declaration(), depth+1)
		if err != nil {
			return "", err
		}
		name = inner

	case TypeAttributed:
		inner, err := typeName(t.ModifiedType(), decl, depth+1)
		if err != nil {
			return "", err
		}
		name = inner

	default:
		return "", nil
	}

	return Canonical(name), nil
}
