// Package macro folds object-like C macro bodies into typed Go constants.
//
// The evaluator is a small Go constant-expression checker: it parses the
// macro tokens with C operator precedence, types them with Go's untyped
// constant rules and folds them exactly with go/constant.
package macro

import (
	"errors"
	"fmt"
	"go/constant"
	"math"
	"strconv"
)

// ErrUnmappable reports that no constant could be derived from a macro.
var ErrUnmappable = errors.New("macro is not mappable")

// Result is a folded constant. Type is a Go predeclared type name and Value
// is the literal text that reproduces the constant in Go source.
type Result struct {
	Type  string
	Value string
	Exact constant.Value
}

// Evaluator is safe for concurrent use once built.
type Evaluator struct {
	systemAliases map[string]string
	userAliases   map[string]string

	// LongSize is the byte width of C long on the target platform. Zero
	// leaves long casts unmappable.
	LongSize int
}

func New(systemAliases, userAliases map[string]string) *Evaluator {
	return &Evaluator{
		systemAliases: systemAliases,
		userAliases:   userAliases,
	}
}

// Evaluate folds tokens into a constant. mapped holds the constants already
// derived in this pass; a reference to any other identifier is unmappable.
func (e *Evaluator) Evaluate(tokens []string, mapped map[string]Result) (Result, error) {
	r, err := e.evaluate(tokens, mapped)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnmappable, err)
	}
	return r, nil
}

func (e *Evaluator) evaluate(tokens []string, mapped map[string]Result) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, errors.New("no initializer")
	}

	tokens, err := e.normalize(tokens)
	if err != nil {
		return Result{}, err
	}

	var longBits int
	switch e.LongSize {
	case 4, 8:
		longBits = e.LongSize * 8
	}

	tree, err := parse(tokens, longBits)
	if err != nil {
		return Result{}, err
	}

	ev := evaluator{env: mapped}
	op, err := ev.eval(tree)
	if err != nil {
		return Result{}, err
	}

	return render(op)
}

// render gives untyped results their default type and produces the literal
// text.
func render(op operand) (Result, error) {
	b, err := defaultType(op)
	if err != nil {
		return Result{}, err
	}

	v, ok := representable(op.val, b)
	if !ok {
		return Result{}, fmt.Errorf("constant %s overflows %s", op.val, b.name)
	}

	r := Result{Type: b.name, Exact: v}

	switch b.class {
	case classInt:
		r.Value = v.ExactString()
	case classFloat:
		f, _ := constant.Float64Val(v)
		if b.bits == 32 {
			r.Value = strconv.FormatFloat(float64(float32(f)), 'g', -1, 32)
		} else {
			r.Value = strconv.FormatFloat(f, 'g', -1, 64)
		}
	case classString:
		r.Value = strconv.Quote(constant.StringVal(v))
	case classBool:
		r.Value = strconv.FormatBool(constant.BoolVal(v))
	}

	return r, nil
}

func defaultType(op operand) (basic, error) {
	if op.typ != nil {
		return *op.typ, nil
	}

	switch op.class {
	case classInt:
		if _, ok := representable(op.val, basics["int"]); ok {
			return basics["int"], nil
		}
		if _, ok := representable(op.val, basics["uint64"]); ok {
			return basics["uint64"], nil
		}
		return basic{}, fmt.Errorf("constant %s overflows uint64", op.val)

	case classRune:
		return basics["int32"], nil

	case classFloat:
		if f, _ := constant.Float64Val(op.val); math.IsInf(f, 0) {
			return basic{}, fmt.Errorf("constant %s overflows float64", op.val)
		}
		return basics["float64"], nil

	case classString:
		return basics["string"], nil
	}

	return basics["bool"], nil
}
