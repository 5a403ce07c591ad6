package native

import "fmt"

// Predicate selects cursors during a traversal. A nil Predicate accepts
// every cursor.
type Predicate func(child, parent Cursor) bool

type visitContext struct {
	predicate Predicate
	sameFile  bool
	recursive bool
	results   []Cursor
}

// Traverser collects cursors through the native visit primitive. Predicates
// may start nested traversals on the same Traverser; each in-flight
// traversal owns one slot of the context stack and the native callback only
// carries that slot's handle.
//
// A Traverser must not be shared between goroutines.
type Traverser struct {
	stack []*visitContext
}

// Children returns the direct children of cursor accepted by predicate. With
// sameFile only children located in the main file are returned.
func (t *Traverser) Children(cursor Cursor, predicate Predicate, sameFile bool) ([]Cursor, error) {
	return t.walk(cursor, predicate, sameFile, false)
}

// Descendants returns every descendant of cursor accepted by predicate in
// pre-order. A rejected cursor is not descended into. With sameFile cursors
// located in the main file are excluded, which is the opposite of Children:
// it is used to descend into included headers.
func (t *Traverser) Descendants(cursor Cursor, predicate Predicate, sameFile bool) ([]Cursor, error) {
	return t.walk(cursor, predicate, sameFile, true)
}

// Depth reports the number of traversals in flight.
func (t *Traverser) Depth() int {
	return len(t.stack)
}

func (t *Traverser) walk(cursor Cursor, predicate Predicate, sameFile, recursive bool) ([]Cursor, error) {
	if cursor.Kind() == CursorNoDeclFound {
		return nil, ErrNoDeclFound
	}

	ctx := visitContext{
		predicate: predicate,
		sameFile:  sameFile,
		recursive: recursive,
		results:   []Cursor{},
	}

	h := t.push(&ctx)
	defer t.pop(h)

	cursor.Visit(t.visit, h)

	return ctx.results, nil
}

func (t *Traverser) visit(child, parent Cursor, h Handle) VisitResult {
	ctx := t.context(h)

	if ctx.sameFile {
		fromMain := child.Location().IsFromMainFile()
		if fromMain == ctx.recursive {
			return VisitContinue
		}
	}

	if ctx.predicate != nil && !ctx.predicate(child, parent) {
		return VisitContinue
	}

	ctx.results = append(ctx.results, child)

	if ctx.recursive {
		return VisitRecurse
	}

	return VisitContinue
}

func (t *Traverser) push(ctx *visitContext) Handle {
	t.stack = append(t.stack, ctx)
	return Handle(len(t.stack))
}

func (t *Traverser) pop(h Handle) {
	if int(h) != len(t.stack) {
		panic(fmt.Sprintf("native: popping traversal %d while %d is on top", h, len(t.stack)))
	}

	t.stack[len(t.stack)-1] = nil
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *Traverser) context(h Handle) *visitContext {
	if h < 1 || int(h) > len(t.stack) {
		panic(fmt.Sprintf("native: stale traversal handle %d", h))
	}
	return t.stack[h-1]
}
