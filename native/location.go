package native

import (
	"path/filepath"
	"strings"

	"github.com/ardanlabs/ffi-bindgen/catalog"
)

// PathRewrite replaces the first occurrence of From in a file path with To.
type PathRewrite struct {
	From string
	To   string
}

// Resolver turns native locations into platform independent ones. Rewrites
// are tried in order and the first match wins, so CI checkouts in different
// directories produce the same location comments.
type Resolver struct {
	LinkedPaths            []PathRewrite
	UserIncludeDirectories []string
}

// Resolve maps loc to a catalog location. A location without a backing file
// is placed in the translation unit's own file when tu names one.
func (r Resolver) Resolve(loc SourceLocation, tu Cursor) catalog.Location {
	file, line, column, ok := loc.FileLocation()
	if !ok {
		if tu == nil || tu.Spelling() == "" {
			return catalog.NoLocation
		}
		path := tu.Spelling()
		return catalog.Location{
			FileName: filepath.Base(path),
			FilePath: filepath.ToSlash(path),
			Line:     line,
			Column:   column,
		}
	}

	return catalog.Location{
		FileName: filepath.Base(file),
		FilePath: r.Path(file),
		Line:     line,
		Column:   column,
	}
}

// Path applies the first matching linked path and then the first matching
// user include directory to file.
func (r Resolver) Path(file string) string {
	if file == "" {
		return ""
	}

	path, err := filepath.Abs(file)
	if err != nil {
		path = filepath.Clean(file)
	}
	path = filepath.ToSlash(path)

	for _, rw := range r.LinkedPaths {
		from := filepath.ToSlash(rw.From)
		if from != "" && strings.Contains(path, from) {
			path = strings.Trim(strings.Replace(path, from, filepath.ToSlash(rw.To), 1), `/\`)
			break
		}
	}

	for _, dir := range r.UserIncludeDirectories {
		dir = filepath.ToSlash(dir)
		if dir != "" && strings.Contains(path, dir) {
			path = strings.Trim(strings.Replace(path, dir, "", 1), `/\`)
			break
		}
	}

	return path
}

// CursorLocation returns the location of the declaration behind cursor. The
// translation unit itself, function prototypes outside function
// declarations, pointers, arrays and primitives have no location.
func (r Resolver) CursorLocation(cursor Cursor, t Type) (catalog.Location, error) {
	if cursor.Kind() == CursorTranslationUnit {
		return catalog.NoLocation, nil
	}

	if t != nil {
		switch t.Kind() {
		case TypeFunctionProto, TypeFunctionNoProto:
			if cursor.Kind() != CursorFunctionDecl {
				return catalog.NoLocation, nil
			}
		case TypePointer, TypeConstantArray, TypeIncompleteArray, TypePrimitive:
			return catalog.NoLocation, nil
		}
	}

	if cursor.Kind() == CursorNoDeclFound {
		return catalog.NoLocation, ErrNoDeclFound
	}

	return r.Resolve(cursor.Location(), cursor.TranslationUnit()), nil
}
