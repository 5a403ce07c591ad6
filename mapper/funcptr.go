package mapper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ardanlabs/ffi-bindgen/catalog"
)

var underscoreRunRe = regexp.MustCompile(`_{2,}`)

// functionPointerName returns the Go type name of a function pointer. A
// typedef'd pointer keeps its typedef name; an anonymous one gets a name
// synthesized from its signature, cached by C spelling for the pass.
func (p *pass) functionPointerName(t catalog.Type) (string, error) {
	if t.Kind == catalog.KindTypedef {
		return t.Name, nil
	}

	if t.Kind != catalog.KindFunctionPointer {
		return "", fmt.Errorf("%w: %q is a %s, expected a function pointer", ErrUnexpectedKind, t.Name, t.Kind)
	}

	if name, ok := p.fnPtrNames[t.Name]; ok {
		return name, nil
	}

	open := strings.IndexByte(t.Name, '(')
	if open < 0 {
		return "", fmt.Errorf("%w: %q is not a function pointer spelling", ErrUnexpectedKind, t.Name)
	}

	retType, err := p.lookup(cleanSpelling(t.Name[:open]))
	if err != nil {
		return "", err
	}
	ret, err := p.typeName(retType)
	if err != nil {
		return "", err
	}

	var parts []string
	for param := range strings.SplitSeq(strings.Trim(t.Name[open:], "()"), ",") {
		param = cleanSpelling(param)
		if param == "" {
			continue
		}

		pt, err := p.lookup(param)
		if err != nil {
			return "", err
		}
		if pt.Name == "void" && pt.IsSystem {
			continue
		}

		name, err := p.typeName(pt)
		if err != nil {
			return "", err
		}
		parts = append(parts, p.nameComponent(name))
	}

	parts = append(parts, p.nameComponent(ret))
	name := underscoreRunRe.ReplaceAllString("FnPtr_"+strings.Join(parts, "_"), "_")

	p.fnPtrNames[t.Name] = name

	return name, nil
}

func cleanSpelling(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " *", "*"))
}

// nameComponent turns a Go type name into a piece of an identifier:
// "*int32" becomes "Int32Ptr" and "unsafe.Pointer" becomes "VoidPtr".
func (p *pass) nameComponent(goName string) string {
	ptrs := 0
	for strings.HasPrefix(goName, "*") {
		goName = goName[1:]
		ptrs++
	}

	if goName == "unsafe.Pointer" {
		goName = "VoidPtr"
	}

	goName = strings.ReplaceAll(goName, ".", "")
	goName = strings.ReplaceAll(goName, " ", "_")
	goName = p.title.String(goName)

	return goName + strings.Repeat("Ptr", ptrs)
}
