//go:build clang

package clangsrc

import (
	"fmt"

	"github.com/go-clang/clang-v13/clang"

	"github.com/ardanlabs/ffi-bindgen/catalog"
	"github.com/ardanlabs/ffi-bindgen/native"
)

var cursorKinds = map[clang.CursorKind]native.CursorKind{
	clang.Cursor_TranslationUnit:    native.CursorTranslationUnit,
	clang.Cursor_StructDecl:         native.CursorStructDecl,
	clang.Cursor_UnionDecl:          native.CursorUnionDecl,
	clang.Cursor_EnumDecl:           native.CursorEnumDecl,
	clang.Cursor_FieldDecl:          native.CursorFieldDecl,
	clang.Cursor_EnumConstantDecl:   native.CursorEnumConstantDecl,
	clang.Cursor_FunctionDecl:       native.CursorFunctionDecl,
	clang.Cursor_VarDecl:            native.CursorVarDecl,
	clang.Cursor_ParmDecl:           native.CursorParmDecl,
	clang.Cursor_TypedefDecl:        native.CursorTypedefDecl,
	clang.Cursor_TypeRef:            native.CursorTypeRef,
	clang.Cursor_MacroDefinition:    native.CursorMacroDefinition,
	clang.Cursor_MacroExpansion:     native.CursorMacroExpansion,
	clang.Cursor_InclusionDirective: native.CursorInclusionDirective,
	clang.Cursor_NoDeclFound:        native.CursorNoDeclFound,
}

var typeKinds = map[clang.TypeKind]native.TypeKind{
	clang.Type_Invalid:         native.TypeInvalid,
	clang.Type_Unexposed:       native.TypeUnexposed,
	clang.Type_Pointer:         native.TypePointer,
	clang.Type_ConstantArray:   native.TypeConstantArray,
	clang.Type_IncompleteArray: native.TypeIncompleteArray,
	clang.Type_Typedef:         native.TypeTypedef,
	clang.Type_Record:          native.TypeRecord,
	clang.Type_Enum:            native.TypeEnum,
	clang.Type_Elaborated:      native.TypeElaborated,
	clang.Type_Attributed:      native.TypeAttributed,
	clang.Type_FunctionProto:   native.TypeFunctionProto,
	clang.Type_FunctionNoProto: native.TypeFunctionNoProto,
}

type cursor struct {
	c clang.Cursor
}

func (c cursor) Kind() native.CursorKind {
	if k, ok := cursorKinds[c.c.Kind()]; ok {
		return k
	}
	return native.CursorUnknown
}

func (c cursor) Spelling() string                { return c.c.Spelling() }
func (c cursor) Type() native.Type               { return typ{c.c.Type()} }
func (c cursor) Location() native.SourceLocation { return location{c.c.Location()} }

func (c cursor) TranslationUnit() native.Cursor {
	return cursor{c.c.TranslationUnit().TranslationUnitCursor()}
}

// Visit carries data through a closure; libclang's own client data pointer
// never leaves this package.
func (c cursor) Visit(fn native.VisitFunc, data native.Handle) {
	c.c.Visit(func(child, parent clang.Cursor) clang.ChildVisitResult {
		switch fn(cursor{child}, cursor{parent}, data) {
		case native.VisitBreak:
			return clang.ChildVisit_Break
		case native.VisitRecurse:
			return clang.ChildVisit_Recurse
		}
		return clang.ChildVisit_Continue
	})
}

type typ struct {
	t clang.Type
}

func (t typ) Kind() native.TypeKind {
	k := t.t.Kind()
	if k >= clang.Type_FirstBuiltin && k <= clang.Type_LastBuiltin {
		return native.TypePrimitive
	}
	if nk, ok := typeKinds[k]; ok {
		return nk
	}
	return native.TypeUnexposed
}

func (t typ) Spelling() string           { return t.t.Spelling() }
func (t typ) PointeeType() native.Type   { return typ{t.t.PointeeType()} }
func (t typ) ElementType() native.Type   { return typ{t.t.ArrayElementType()} }
func (t typ) NamedType() native.Type     { return typ{t.t.NamedType()} }
func (t typ) ModifiedType() native.Type  { return typ{t.t.ModifiedType()} }
func (t typ) Declaration() native.Cursor { return cursor{t.t.Declaration()} }

type location struct {
	l clang.SourceLocation
}

func (l location) FileLocation() (string, int, int, bool) {
	f, line, column, _ := l.l.FileLocation()
	name := f.Name()
	return name, int(line), int(column), name != ""
}

func (l location) IsFromMainFile() bool {
	return l.l.IsFromMainFile()
}

// ScanMacros parses header with a detailed preprocessing record and returns
// its object-like macros in declaration order. Macros from included files
// are not returned.
func ScanMacros(header string, includeDirs []string, resolver native.Resolver) ([]catalog.MacroDefinition, error) {
	idx := clang.NewIndex(0, 0)
	defer idx.Dispose()

	tu := idx.ParseTranslationUnit(header, compileArgs(includeDirs), nil,
		uint32(clang.TranslationUnit_DetailedPreprocessingRecord))
	if tu == (clang.TranslationUnit{}) {
		return nil, fmt.Errorf("parsing %s: failed to parse translation unit", header)
	}
	defer tu.Dispose()

	root := cursor{tu.TranslationUnitCursor()}

	var t native.Traverser
	found, err := t.Children(root, func(child, _ native.Cursor) bool {
		c := child.(cursor)
		return child.Kind() == native.CursorMacroDefinition && !c.c.IsMacroFunctionLike()
	}, true)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", header, err)
	}

	var macros []catalog.MacroDefinition
	for _, m := range found {
		c := m.(cursor)

		tokens := tu.Tokenize(c.c.Extent())
		if len(tokens) < 2 {
			continue
		}

		// The first token is the macro name.
		spelled := make([]string, 0, len(tokens)-1)
		for _, tok := range tokens[1:] {
			spelled = append(spelled, tu.TokenSpelling(tok))
		}

		macros = append(macros, catalog.MacroDefinition{
			Name:     m.Spelling(),
			Tokens:   spelled,
			Location: resolver.Resolve(m.Location(), root),
		})
	}

	return macros, nil
}
