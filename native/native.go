// Package native walks the cursor graph of a native C parser and derives the
// canonical names and source locations that key the type catalog.
//
// The parser itself is abstracted by the Cursor, Type and SourceLocation
// interfaces. A libclang adapter lives in package clangsrc; tests use fakes.
package native

import "errors"

// ErrNoDeclFound is returned when a cursor of kind CursorNoDeclFound is used
// where a real declaration is required.
var ErrNoDeclFound = errors.New("cursor has no declaration")

type CursorKind int

const (
	CursorUnknown CursorKind = iota
	CursorTranslationUnit
	CursorStructDecl
	CursorUnionDecl
	CursorEnumDecl
	CursorFieldDecl
	CursorEnumConstantDecl
	CursorFunctionDecl
	CursorVarDecl
	CursorParmDecl
	CursorTypedefDecl
	CursorTypeRef
	CursorMacroDefinition
	CursorMacroExpansion
	CursorInclusionDirective
	CursorNoDeclFound
)

type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeUnexposed
	TypePrimitive
	TypePointer
	TypeConstantArray
	TypeIncompleteArray
	TypeTypedef
	TypeRecord
	TypeEnum
	TypeElaborated
	TypeAttributed
	TypeFunctionProto
	TypeFunctionNoProto
)

// VisitResult tells the native visitor how to continue.
type VisitResult int

const (
	VisitBreak VisitResult = iota
	VisitContinue
	VisitRecurse
)

// Handle is the only data the native visit primitive carries across the
// callback boundary.
type Handle int

type VisitFunc func(child, parent Cursor, data Handle) VisitResult

type Cursor interface {
	Kind() CursorKind
	Spelling() string
	Type() Type
	Location() SourceLocation
	TranslationUnit() Cursor

	// Visit calls fn for each child in order, passing data through
	// unchanged. VisitRecurse descends into the child before its next
	// sibling.
	Visit(fn VisitFunc, data Handle)
}

type Type interface {
	Kind() TypeKind
	Spelling() string
	PointeeType() Type
	ElementType() Type
	NamedType() Type
	ModifiedType() Type
	Declaration() Cursor
}

type SourceLocation interface {
	// FileLocation reports ok=false when the location has no backing file.
	FileLocation() (file string, line, column int, ok bool)
	IsFromMainFile() bool
}
