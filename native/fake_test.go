package native

type fakeLocation struct {
	file     string
	line     int
	column   int
	mainFile bool
}

func (l fakeLocation) FileLocation() (string, int, int, bool) {
	return l.file, l.line, l.column, l.file != ""
}

func (l fakeLocation) IsFromMainFile() bool {
	return l.mainFile
}

type fakeCursor struct {
	kind     CursorKind
	spelling string
	typ      Type
	location fakeLocation
	tu       *fakeCursor
	children []*fakeCursor

	visits int
}

func (c *fakeCursor) Kind() CursorKind         { return c.kind }
func (c *fakeCursor) Spelling() string         { return c.spelling }
func (c *fakeCursor) Type() Type               { return c.typ }
func (c *fakeCursor) Location() SourceLocation { return c.location }

func (c *fakeCursor) TranslationUnit() Cursor {
	if c.tu == nil {
		return nil
	}
	return c.tu
}

// Visit mimics clang_visitChildren, including recursion and early break.
func (c *fakeCursor) Visit(fn VisitFunc, data Handle) {
	c.visit(fn, data)
}

func (c *fakeCursor) visit(fn VisitFunc, data Handle) bool {
	c.visits++
	for _, child := range c.children {
		switch fn(child, c, data) {
		case VisitBreak:
			return false
		case VisitRecurse:
			if !child.visit(fn, data) {
				return false
			}
		}
	}
	return true
}

type fakeType struct {
	kind     TypeKind
	spelling string
	pointee  *fakeType
	element  *fakeType
	named    *fakeType
	modified *fakeType
	decl     *fakeCursor
}

func (t *fakeType) Kind() TypeKind     { return t.kind }
func (t *fakeType) Spelling() string   { return t.spelling }
func (t *fakeType) PointeeType() Type  { return t.pointee }
func (t *fakeType) ElementType() Type  { return t.element }
func (t *fakeType) NamedType() Type    { return t.named }
func (t *fakeType) ModifiedType() Type { return t.modified }

func (t *fakeType) Declaration() Cursor {
	if t.decl == nil {
		return &fakeCursor{kind: CursorNoDeclFound}
	}
	return t.decl
}

func cursor(kind CursorKind, spelling string, mainFile bool, children ...*fakeCursor) *fakeCursor {
	return &fakeCursor{
		kind:     kind,
		spelling: spelling,
		location: fakeLocation{file: "/src/api.h", line: 1, column: 1, mainFile: mainFile},
		children: children,
	}
}

func spellings(cursors []Cursor) []string {
	out := make([]string, len(cursors))
	for i, c := range cursors {
		out[i] = c.Spelling()
	}
	return out
}
