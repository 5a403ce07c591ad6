package macro

import (
	"go/constant"
	"go/token"
	"math"
	"math/big"
)

type class int

const (
	classInt class = iota
	classRune
	classFloat
	classString
	classBool
)

// basic is a Go predeclared type that a constant can carry.
type basic struct {
	name     string
	class    class
	bits     int
	unsigned bool
}

var basics = map[string]basic{
	"int8":    {name: "int8", class: classInt, bits: 8},
	"int16":   {name: "int16", class: classInt, bits: 16},
	"int32":   {name: "int32", class: classInt, bits: 32},
	"int64":   {name: "int64", class: classInt, bits: 64},
	"int":     {name: "int", class: classInt, bits: 64},
	"uint8":   {name: "uint8", class: classInt, bits: 8, unsigned: true},
	"uint16":  {name: "uint16", class: classInt, bits: 16, unsigned: true},
	"uint32":  {name: "uint32", class: classInt, bits: 32, unsigned: true},
	"uint64":  {name: "uint64", class: classInt, bits: 64, unsigned: true},
	"uint":    {name: "uint", class: classInt, bits: 64, unsigned: true},
	"uintptr": {name: "uintptr", class: classInt, bits: 64, unsigned: true},
	"byte":    {name: "uint8", class: classInt, bits: 8, unsigned: true},
	"rune":    {name: "int32", class: classInt, bits: 32},
	"float32": {name: "float32", class: classFloat, bits: 32},
	"float64": {name: "float64", class: classFloat, bits: 64},
	"string":  {name: "string", class: classString},
	"bool":    {name: "bool", class: classBool},
}

// cTypes maps C type keyword sequences whose width does not depend on the
// data model. "long" and "unsigned long" are deliberately absent.
var cTypes = map[string]string{
	"char":                   "int8",
	"signed char":            "int8",
	"unsigned char":          "uint8",
	"short":                  "int16",
	"short int":              "int16",
	"signed short":           "int16",
	"signed short int":       "int16",
	"unsigned short":         "uint16",
	"unsigned short int":     "uint16",
	"int":                    "int32",
	"signed":                 "int32",
	"signed int":             "int32",
	"unsigned":               "uint32",
	"unsigned int":           "uint32",
	"long long":              "int64",
	"long long int":          "int64",
	"signed long long":       "int64",
	"signed long long int":   "int64",
	"unsigned long long":     "uint64",
	"unsigned long long int": "uint64",
	"float":                  "float32",
	"double":                 "float64",
}

func isCTypeKeyword(s string) bool {
	switch s {
	case "signed", "unsigned", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

// operand is a folded constant. typ is nil while the constant is untyped.
type operand struct {
	typ   *basic
	class class
	val   constant.Value
}

func untyped(c class, v constant.Value) operand {
	return operand{class: c, val: v}
}

func typed(b basic, v constant.Value) operand {
	return operand{typ: &b, class: b.class, val: v}
}

func (o operand) isInteger() bool {
	return o.class == classInt || o.class == classRune
}

func (o operand) isNumeric() bool {
	return o.class == classInt || o.class == classRune || o.class == classFloat
}

func (o operand) typeName() string {
	if o.typ != nil {
		return o.typ.name
	}
	switch o.class {
	case classInt:
		return "untyped int"
	case classRune:
		return "untyped rune"
	case classFloat:
		return "untyped float"
	case classString:
		return "untyped string"
	}
	return "untyped bool"
}

func intBounds(b basic) (lo, hi constant.Value) {
	one := constant.MakeInt64(1)
	if b.unsigned {
		hi = constant.BinaryOp(constant.Shift(one, token.SHL, uint(b.bits)), token.SUB, one)
		return constant.MakeInt64(0), hi
	}
	hi = constant.BinaryOp(constant.Shift(one, token.SHL, uint(b.bits-1)), token.SUB, one)
	lo = constant.UnaryOp(token.SUB, constant.Shift(one, token.SHL, uint(b.bits-1)), 0)
	return lo, hi
}

// representable converts v to a value of type b, or reports false when Go
// would reject the constant as overflowing or truncated.
func representable(v constant.Value, b basic) (constant.Value, bool) {
	switch b.class {
	case classInt:
		iv := constant.ToInt(v)
		if iv.Kind() != constant.Int {
			return nil, false
		}
		lo, hi := intBounds(b)
		if constant.Compare(iv, token.LSS, lo) || constant.Compare(iv, token.GTR, hi) {
			return nil, false
		}
		return iv, true

	case classFloat:
		fv := constant.ToFloat(v)
		if fv.Kind() != constant.Float && fv.Kind() != constant.Int {
			return nil, false
		}
		f, _ := constant.Float64Val(fv)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, false
		}
		if b.bits == 32 {
			if math.Abs(f) > math.MaxFloat32 {
				return nil, false
			}
			return constant.MakeFloat64(float64(float32(f))), true
		}
		return constant.MakeFloat64(f), true

	case classString:
		if v.Kind() != constant.String {
			return nil, false
		}
		return v, true

	case classBool:
		if v.Kind() != constant.Bool {
			return nil, false
		}
		return v, true
	}

	return nil, false
}

// wrap reduces an integer value modulo 2^bits the way a C cast does.
func wrap(v constant.Value, b basic) constant.Value {
	n, ok := new(big.Int).SetString(constant.ToInt(v).ExactString(), 10)
	if !ok {
		return v
	}

	m := new(big.Int).Lsh(big.NewInt(1), uint(b.bits))
	n.Mod(n, m)

	if !b.unsigned {
		half := new(big.Int).Rsh(m, 1)
		if n.Cmp(half) >= 0 {
			n.Sub(n, m)
		}
	}

	return constant.Make(n)
}
