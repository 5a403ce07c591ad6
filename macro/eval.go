package macro

import (
	"fmt"
	"go/constant"
	"go/token"
	"math"
)

// maxShift bounds shift counts so a hostile macro cannot allocate a huge
// integer.
const maxShift = 1024

var binaryTokens = map[string]token.Token{
	"+":  token.ADD,
	"-":  token.SUB,
	"*":  token.MUL,
	"/":  token.QUO,
	"%":  token.REM,
	"&":  token.AND,
	"|":  token.OR,
	"^":  token.XOR,
	"==": token.EQL,
	"!=": token.NEQ,
	"<":  token.LSS,
	"<=": token.LEQ,
	">":  token.GTR,
	">=": token.GEQ,
	"&&": token.LAND,
	"||": token.LOR,
	"<<": token.SHL,
	">>": token.SHR,
}

type evaluator struct {
	env map[string]Result
}

func (ev *evaluator) eval(n node) (operand, error) {
	switch n := n.(type) {
	case literalNode:
		return n.op, nil

	case identNode:
		return ev.ident(n.name)

	case unaryNode:
		x, err := ev.eval(n.x)
		if err != nil {
			return operand{}, err
		}
		return unary(n.op, x)

	case binaryNode:
		x, err := ev.eval(n.x)
		if err != nil {
			return operand{}, err
		}
		y, err := ev.eval(n.y)
		if err != nil {
			return operand{}, err
		}
		return binary(n.op, x, y)

	case condNode:
		c, err := ev.eval(n.cond)
		if err != nil {
			return operand{}, err
		}
		var pick bool
		switch {
		case c.class == classBool:
			pick = constant.BoolVal(c.val)
		case c.isInteger():
			pick = constant.Sign(c.val) != 0
		default:
			return operand{}, fmt.Errorf("non-boolean condition of type %s", c.typeName())
		}
		if pick {
			return ev.eval(n.then)
		}
		return ev.eval(n.els)

	case convNode:
		x, err := ev.eval(n.x)
		if err != nil {
			return operand{}, err
		}
		return convert(x, n.typ, n.wrap)
	}

	return operand{}, fmt.Errorf("unexpected node %T", n)
}

// ident binds a previously mapped constant as a typed constant.
func (ev *evaluator) ident(name string) (operand, error) {
	r, ok := ev.env[name]
	if !ok {
		return operand{}, fmt.Errorf("undefined: %s", name)
	}

	b, ok := basics[r.Type]
	if !ok {
		return operand{}, fmt.Errorf("%s has unsupported type %s", name, r.Type)
	}

	v := r.Exact
	if v == nil {
		v = valueFromText(r.Value, b)
	}

	rv, ok := representable(v, b)
	if !ok {
		return operand{}, fmt.Errorf("%s value %s does not fit %s", name, r.Value, r.Type)
	}

	return typed(b, rv), nil
}

func valueFromText(text string, b basic) constant.Value {
	switch b.class {
	case classInt:
		return constant.MakeFromLiteral(text, token.INT, 0)
	case classFloat:
		return constant.MakeFromLiteral(text, token.FLOAT, 0)
	case classString:
		return constant.MakeFromLiteral(text, token.STRING, 0)
	case classBool:
		return constant.MakeBool(text == "true")
	}
	return constant.MakeUnknown()
}

func unary(op string, x operand) (operand, error) {
	var v constant.Value

	switch op {
	case "+":
		if !x.isNumeric() {
			return operand{}, fmt.Errorf("invalid operation: +%s", x.typeName())
		}
		return x, nil

	case "-":
		if !x.isNumeric() {
			return operand{}, fmt.Errorf("invalid operation: -%s", x.typeName())
		}
		v = constant.UnaryOp(token.SUB, x.val, 0)

	case "!":
		if x.class != classBool {
			return operand{}, fmt.Errorf("invalid operation: !%s", x.typeName())
		}
		v = constant.UnaryOp(token.NOT, x.val, 0)

	case "~":
		if !x.isInteger() {
			return operand{}, fmt.Errorf("invalid operation: ~%s", x.typeName())
		}
		var prec uint
		if x.typ != nil && x.typ.unsigned {
			prec = uint(x.typ.bits)
		}
		v = constant.UnaryOp(token.XOR, x.val, prec)

	default:
		return operand{}, fmt.Errorf("unknown unary operator %s", op)
	}

	return x.with(v)
}

func binary(op string, x, y operand) (operand, error) {
	tok, ok := binaryTokens[op]
	if !ok {
		return operand{}, fmt.Errorf("unknown operator %s", op)
	}

	if tok == token.SHL || tok == token.SHR {
		return shift(tok, x, y)
	}

	x, y, err := unify(x, y)
	if err != nil {
		return operand{}, fmt.Errorf("invalid operation %s: %w", op, err)
	}

	switch tok {
	case token.LAND, token.LOR:
		if x.class != classBool {
			return operand{}, fmt.Errorf("operator %s not defined on %s", op, x.typeName())
		}
		return untyped(classBool, constant.BinaryOp(x.val, tok, y.val)), nil

	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		if x.class == classBool && tok != token.EQL && tok != token.NEQ {
			return operand{}, fmt.Errorf("operator %s not defined on %s", op, x.typeName())
		}
		return untyped(classBool, constant.MakeBool(constant.Compare(x.val, tok, y.val))), nil

	case token.ADD:
		if !x.isNumeric() && x.class != classString {
			return operand{}, fmt.Errorf("operator + not defined on %s", x.typeName())
		}

	case token.SUB, token.MUL, token.QUO:
		if !x.isNumeric() {
			return operand{}, fmt.Errorf("operator %s not defined on %s", op, x.typeName())
		}

	case token.REM, token.AND, token.OR, token.XOR:
		if !x.isInteger() {
			return operand{}, fmt.Errorf("operator %s not defined on %s", op, x.typeName())
		}
	}

	if (tok == token.QUO || tok == token.REM) && constant.Sign(y.val) == 0 {
		return operand{}, fmt.Errorf("division by zero")
	}

	if tok == token.QUO && x.isInteger() {
		tok = token.QUO_ASSIGN
	}

	return x.with(constant.BinaryOp(x.val, tok, y.val))
}

func shift(tok token.Token, x, y operand) (operand, error) {
	if !x.isInteger() {
		return operand{}, fmt.Errorf("shifted operand of type %s must be integer", x.typeName())
	}
	if !y.isInteger() {
		return operand{}, fmt.Errorf("shift count of type %s must be integer", y.typeName())
	}

	n, ok := constant.Uint64Val(y.val)
	if !ok {
		return operand{}, fmt.Errorf("invalid shift count %s", y.val)
	}
	if n > maxShift {
		return operand{}, fmt.Errorf("shift count %d too large", n)
	}

	return x.with(constant.Shift(x.val, tok, uint(n)))
}

// unify converts the operands of a binary operation to a common type the
// way Go does for constant expressions.
func unify(x, y operand) (operand, operand, error) {
	switch {
	case x.typ != nil && y.typ != nil:
		if x.typ.name != y.typ.name {
			return operand{}, operand{}, fmt.Errorf("mismatched types %s and %s", x.typeName(), y.typeName())
		}
		return x, y, nil

	case x.typ != nil:
		cy, err := convert(y, *x.typ, false)
		return x, cy, err

	case y.typ != nil:
		cx, err := convert(x, *y.typ, false)
		return cx, y, err
	}

	if x.class == y.class {
		return x, y, nil
	}

	if !x.isNumeric() || !y.isNumeric() {
		return operand{}, operand{}, fmt.Errorf("mismatched types %s and %s", x.typeName(), y.typeName())
	}

	c := max(x.class, y.class)
	return promote(x, c), promote(y, c), nil
}

func promote(o operand, c class) operand {
	if c == classFloat {
		return untyped(c, constant.ToFloat(o.val))
	}
	return untyped(c, o.val)
}

// convert implements both conversion forms. A C cast to an integer type
// truncates floats and wraps out of range integers; a Go conversion must be
// exact.
func convert(x operand, b basic, wrapInt bool) (operand, error) {
	if wrapInt && b.class == classInt && x.isNumeric() {
		v := x.val
		if x.class == classFloat {
			f, _ := constant.Float64Val(v)
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return operand{}, fmt.Errorf("cannot convert %s to %s", x.val, b.name)
			}
			v = constant.ToInt(constant.MakeFloat64(math.Trunc(f)))
		}
		return typed(b, wrap(v, b)), nil
	}

	if b.class == classFloat && !x.isNumeric() {
		return operand{}, fmt.Errorf("cannot convert %s to %s", x.typeName(), b.name)
	}

	v, ok := representable(x.val, b)
	if !ok {
		return operand{}, fmt.Errorf("cannot use %s (%s) as %s value", x.val, x.typeName(), b.name)
	}

	return typed(b, v), nil
}

// with returns o carrying v, checked against o's type when it has one.
func (o operand) with(v constant.Value) (operand, error) {
	if v.Kind() == constant.Unknown {
		return operand{}, fmt.Errorf("constant overflow")
	}

	if o.typ == nil {
		return untyped(o.class, v), nil
	}

	rv, ok := representable(v, *o.typ)
	if !ok {
		return operand{}, fmt.Errorf("constant %s overflows %s", v, o.typ.name)
	}

	return typed(*o.typ, rv), nil
}
