package macro

import (
	"fmt"
	"go/constant"
	"go/token"
	"strconv"
	"strings"
)

type node interface{}

type literalNode struct{ op operand }

type identNode struct{ name string }

type unaryNode struct {
	op string
	x  node
}

type binaryNode struct {
	op   string
	x, y node
}

type condNode struct {
	cond, then, els node
}

// convNode is either a C cast "(T)x", which wraps integers like C does, or a
// Go conversion "T(x)", which requires x to be representable.
type convNode struct {
	typ  basic
	x    node
	wrap bool
}

// binaryPrec follows C precedence, not Go's: the tokens come from C headers.
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

type parser struct {
	tokens   []string
	pos      int
	longBits int
}

func parse(tokens []string, longBits int) (node, error) {
	p := &parser{tokens: tokens, longBits: longBits}

	n, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.tokens) {
		if p.peek() == "," {
			return nil, fmt.Errorf("expression declares more than one value")
		}
		return nil, fmt.Errorf("unexpected token %q", p.peek())
	}

	return n, nil
}

func (p *parser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *parser) peekAt(offset int) string {
	if p.pos+offset < len(p.tokens) {
		return p.tokens[p.pos+offset]
	}
	return ""
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(tok string) error {
	if got := p.next(); got != tok {
		if got == "" {
			return fmt.Errorf("expected %q, got end of expression", tok)
		}
		return fmt.Errorf("expected %q, got %q", tok, got)
	}
	return nil
}

func (p *parser) expr() (node, error) {
	cond, err := p.binary(1)
	if err != nil {
		return nil, err
	}

	if p.peek() != "?" {
		return cond, nil
	}
	p.next()

	then, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	els, err := p.expr()
	if err != nil {
		return nil, err
	}

	return condNode{cond: cond, then: then, els: els}, nil
}

func (p *parser) binary(minPrec int) (node, error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			return x, nil
		}
		p.next()

		y, err := p.binary(prec + 1)
		if err != nil {
			return nil, err
		}
		x = binaryNode{op: op, x: x, y: y}
	}
}

func (p *parser) unary() (node, error) {
	switch op := p.peek(); op {
	case "+", "-", "!", "~":
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: op, x: x}, nil

	case "(":
		if b, width, ok := p.castType(); ok {
			p.pos += width
			x, err := p.unary()
			if err != nil {
				return nil, err
			}
			return convNode{typ: b, x: x, wrap: true}, nil
		}
	}

	return p.primary()
}

// castType looks ahead for "(" type-name ")" and reports the type and the
// number of tokens it spans.
func (p *parser) castType() (basic, int, bool) {
	var words []string

	i := 1
	for ; ; i++ {
		t := p.peekAt(i)
		if t == "const" || t == "volatile" {
			continue
		}
		if t == "" || t == ")" {
			break
		}
		words = append(words, t)
	}

	if p.peekAt(i) != ")" || len(words) == 0 {
		return basic{}, 0, false
	}

	if len(words) == 1 {
		if name, ok := p.cType(words[0]); ok {
			return basics[name], i + 1, true
		}
		if b, ok := basics[words[0]]; ok {
			return b, i + 1, true
		}
		return basic{}, 0, false
	}

	for _, w := range words {
		if !isCTypeKeyword(w) {
			return basic{}, 0, false
		}
	}

	name, ok := p.cType(strings.Join(words, " "))
	if !ok {
		return basic{}, 0, false
	}

	return basics[name], i + 1, true
}

// cType resolves a C type keyword sequence. The width of long is only known
// when the caller supplied it.
func (p *parser) cType(spelling string) (string, bool) {
	if name, ok := cTypes[spelling]; ok {
		return name, true
	}

	if p.longBits == 0 {
		return "", false
	}

	switch spelling {
	case "long", "long int", "signed long", "signed long int":
		return fmt.Sprintf("int%d", p.longBits), true
	case "unsigned long", "unsigned long int":
		return fmt.Sprintf("uint%d", p.longBits), true
	}

	return "", false
}

func (p *parser) primary() (node, error) {
	tok := p.next()

	switch {
	case tok == "":
		return nil, fmt.Errorf("unexpected end of expression")

	case tok == "(":
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return x, nil

	case tok == "sizeof" || tok == "_Alignof" || tok == "alignof":
		return nil, fmt.Errorf("%s is not supported", tok)

	case isDigit(tok[0]) || (tok[0] == '.' && len(tok) > 1):
		op, err := parseNumber(tok)
		if err != nil {
			return nil, err
		}
		return literalNode{op: op}, nil

	case strings.HasSuffix(tok, "'"):
		r, err := parseChar(tok)
		if err != nil {
			return nil, err
		}
		return literalNode{op: untyped(classRune, constant.MakeInt64(int64(r)))}, nil

	case strings.HasSuffix(tok, `"`):
		s, err := parseString(tok)
		if err != nil {
			return nil, err
		}
		for strings.HasSuffix(p.peek(), `"`) {
			more, err := parseString(p.next())
			if err != nil {
				return nil, err
			}
			s += more
		}
		return literalNode{op: untyped(classString, constant.MakeString(s))}, nil

	case tok == "true" || tok == "false":
		return literalNode{op: untyped(classBool, constant.MakeBool(tok == "true"))}, nil

	case isIdentStart(tok[0]):
		if b, ok := basics[tok]; ok && p.peek() == "(" {
			p.next()
			x, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return convNode{typ: b, x: x}, nil
		}
		return identNode{name: tok}, nil
	}

	return nil, fmt.Errorf("unexpected token %q", tok)
}

func parseNumber(tok string) (operand, error) {
	lower := strings.ToLower(tok)
	isHex := strings.HasPrefix(lower, "0x")

	isFloat := strings.ContainsAny(lower, ".") ||
		(!isHex && strings.Contains(lower, "e")) ||
		(isHex && strings.Contains(lower, "p"))

	if isFloat {
		body := tok
		var b *basic
		switch lower[len(lower)-1] {
		case 'f':
			body = tok[:len(tok)-1]
			f := basics["float32"]
			b = &f
		case 'l':
			body = tok[:len(tok)-1]
			f := basics["float64"]
			b = &f
		}

		v := constant.MakeFromLiteral(body, token.FLOAT, 0)
		if v.Kind() == constant.Unknown {
			return operand{}, fmt.Errorf("malformed floating literal %q", tok)
		}
		if b == nil {
			return untyped(classFloat, v), nil
		}
		rv, ok := representable(v, *b)
		if !ok {
			return operand{}, fmt.Errorf("%s overflows %s", tok, b.name)
		}
		return typed(*b, rv), nil
	}

	body := strings.TrimRight(lower, "ul")
	suffix := lower[len(body):]

	var v constant.Value
	switch {
	case isHex:
		v = constant.MakeFromLiteral(body, token.INT, 0)
	case strings.HasPrefix(body, "0b"):
		v = constant.MakeFromLiteral(body, token.INT, 0)
	case len(body) > 1 && body[0] == '0':
		v = constant.MakeFromLiteral("0o"+body[1:], token.INT, 0)
	default:
		v = constant.MakeFromLiteral(body, token.INT, 0)
	}
	if v.Kind() != constant.Int {
		return operand{}, fmt.Errorf("malformed integer literal %q", tok)
	}

	var name string
	switch suffix {
	case "":
		return untyped(classInt, v), nil
	case "u":
		name = "uint32"
	case "l", "ll":
		name = "int64"
	case "ul", "lu", "ull", "llu":
		name = "uint64"
	default:
		return operand{}, fmt.Errorf("unsupported integer suffix %q", tok)
	}

	b := basics[name]
	rv, ok := representable(v, b)
	if !ok {
		return operand{}, fmt.Errorf("%s overflows %s", tok, name)
	}

	return typed(b, rv), nil
}

func parseChar(tok string) (rune, error) {
	start := strings.IndexByte(tok, '\'')
	body := tok[start+1 : len(tok)-1]
	if body == "" {
		return 0, fmt.Errorf("empty character literal")
	}

	if body[0] != '\\' {
		r := []rune(body)
		if len(r) != 1 {
			return 0, fmt.Errorf("multi-character literal %s", tok)
		}
		return r[0], nil
	}

	if len(body) < 2 {
		return 0, fmt.Errorf("malformed character literal %s", tok)
	}

	switch e := body[1]; {
	case e >= '0' && e <= '7':
		n, err := strconv.ParseUint(body[1:], 8, 32)
		if err != nil || len(body) > 4 {
			return 0, fmt.Errorf("malformed octal escape %s", tok)
		}
		return rune(n), nil
	case e == 'x':
		n, err := strconv.ParseUint(body[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("malformed hex escape %s", tok)
		}
		return rune(n), nil
	default:
		simple := map[byte]rune{
			'n': '\n', 't': '\t', 'r': '\r', 'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v',
			'\\': '\\', '\'': '\'', '"': '"', '?': '?',
		}
		r, ok := simple[e]
		if !ok || len(body) != 2 {
			return 0, fmt.Errorf("unknown escape %s", tok)
		}
		return r, nil
	}
}

func parseString(tok string) (string, error) {
	start := strings.IndexByte(tok, '"')
	s, err := strconv.Unquote(tok[start:])
	if err != nil {
		return "", fmt.Errorf("malformed string literal %s", tok)
	}
	return s, nil
}
