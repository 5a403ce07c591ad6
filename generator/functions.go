package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ardanlabs/ffi-bindgen/decl"
)

func (g *Generator) generateFunctions(grp *group) (string, bool) {
	if len(grp.functions) == 0 {
		return "", false
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "var (\n")
	for _, fn := range grp.functions {
		fmt.Fprintf(&buf, "\t%s ffi.Fun\n", g.funcVarName(fn))
	}
	fmt.Fprintf(&buf, ")\n\n")

	loader := grp.loaderName()

	fmt.Fprintf(&buf, "func init() {\n")
	fmt.Fprintf(&buf, "\tfuncLoaders = append(funcLoaders, %s)\n", loader)
	fmt.Fprintf(&buf, "}\n\n")

	fmt.Fprintf(&buf, "func %s() error {\n", loader)
	fmt.Fprintf(&buf, "\tvar err error\n\n")

	for _, fn := range grp.functions {
		args := []string{g.argType(fn.ReturnType)}
		for _, p := range fn.Parameters {
			args = append(args, g.argType(p.Type))
		}

		fmt.Fprintf(&buf, "\tif %s, err = lib.Prep(%q, %s); err != nil {\n",
			g.funcVarName(fn), fn.Name, strings.Join(args, ", "))
		fmt.Fprintf(&buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", fn.Name)
		fmt.Fprintf(&buf, "\t}\n\n")
	}

	fmt.Fprintf(&buf, "\treturn nil\n")
	fmt.Fprintf(&buf, "}\n\n")

	for _, fn := range grp.functions {
		g.writeFunctionWrapper(&buf, fn)
	}

	return buf.String(), true
}

func (g *Generator) funcVarName(fn *decl.Function) string {
	name, _ := g.names.lookup(valueSpace, fn.Name)
	return toLowerCamel(name) + "Func"
}

// writeFunctionWrapper writes the Go function that calls fn. Arguments are
// passed by address as libffi expects, and small integer results are read
// through a full register sized ffi.Arg.
func (g *Generator) writeFunctionWrapper(buf *bytes.Buffer, fn *decl.Function) {
	goName, _ := g.names.lookup(valueSpace, fn.Name)

	taken := make(map[string]bool)
	var params, names []string
	for _, p := range fn.Parameters {
		name := p.Name
		for taken[name] || g.names.used[name] {
			name += "_"
		}
		taken[name] = true

		names = append(names, name)
		params = append(params, name+" "+g.paramType(p.Type))
	}

	result := "result"
	for taken[result] {
		result += "_"
	}

	hasReturn := fn.ReturnType.Name != "void"
	retType := g.paramType(fn.ReturnType)
	viaArg := hasReturn && g.isSmallInteger(fn.ReturnType)

	fmt.Fprintf(buf, "%s\n", fn.LocationComment)
	if hasReturn {
		fmt.Fprintf(buf, "func %s(%s) %s {\n", goName, strings.Join(params, ", "), retType)
	} else {
		fmt.Fprintf(buf, "func %s(%s) {\n", goName, strings.Join(params, ", "))
	}

	callArgs := []string{"nil"}
	switch {
	case viaArg:
		fmt.Fprintf(buf, "\tvar %s ffi.Arg\n", result)
		callArgs[0] = "unsafe.Pointer(&" + result + ")"
	case hasReturn:
		fmt.Fprintf(buf, "\tvar %s %s\n", result, retType)
		callArgs[0] = "unsafe.Pointer(&" + result + ")"
	}

	for _, name := range names {
		callArgs = append(callArgs, "unsafe.Pointer(&"+name+")")
	}

	fmt.Fprintf(buf, "\t%s.Call(%s)\n", g.funcVarName(fn), strings.Join(callArgs, ", "))

	switch {
	case viaArg:
		fmt.Fprintf(buf, "\treturn %s(%s)\n", retType, result)
	case hasReturn:
		fmt.Fprintf(buf, "\treturn %s\n", result)
	}

	fmt.Fprintf(buf, "}\n\n")
}
