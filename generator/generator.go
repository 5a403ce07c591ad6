// Package generator emits the Go source of a binding package from the
// merged declarations of every platform.
package generator

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/ardanlabs/ffi-bindgen/decl"
)

const (
	ffiImport      = "github.com/jupiterrider/ffi"
	cinteropImport = "github.com/ardanlabs/ffi-bindgen/cinterop"
)

type Generator struct {
	packageName string
	libName     string
	forest      *decl.Forest
	names       *registry

	// kinds records what each C type name declares. Aliases are only
	// recorded when no other declaration uses the name.
	kinds map[string]decl.Kind

	// aliases and enums map names to their underlying types.
	aliases map[string]decl.Type
	enums   map[string]decl.Type

	// implicit lists function pointer types that are referenced but have no
	// declaration of their own.
	implicit []string
}

func New(packageName, libName string, forest *decl.Forest) *Generator {
	g := Generator{
		packageName: packageName,
		libName:     libName,
		forest:      forest,
		names:       newRegistry(),
		kinds:       make(map[string]decl.Kind),
		aliases:     make(map[string]decl.Type),
		enums:       make(map[string]decl.Type),
	}
	g.register()

	return &g
}

// Generate returns the generated files by name.
func (g *Generator) Generate() (map[string]string, error) {
	files := make(map[string]string)

	loaderCode, err := g.generateLoader()
	if err != nil {
		return nil, fmt.Errorf("generating loader: %w", err)
	}
	files["loader.go"] = loaderCode

	for _, grp := range g.groups() {
		name := "types" + grp.suffix() + ".go"
		if code, ok := g.generateTypes(grp); ok {
			if files[name], err = g.format(name, grp, code); err != nil {
				return nil, fmt.Errorf("generating types: %w", err)
			}
		}

		name = "functions" + grp.suffix() + ".go"
		if code, ok := g.generateFunctions(grp); ok {
			if files[name], err = g.format(name, grp, code); err != nil {
				return nil, fmt.Errorf("generating functions: %w", err)
			}
		}
	}

	return files, nil
}

// group holds the declarations that share one platform set, and so one
// pair of files.
type group struct {
	platforms []decl.Platform
	universal bool

	constants []*decl.Constant
	enums     []*decl.Enum
	opaques   []*decl.OpaqueStruct
	fnPtrs    []*decl.FunctionPointer
	aliases   []*decl.AliasStruct
	structs   []*decl.Struct
	functions []*decl.Function
	implicit  []string
}

func (grp *group) suffix() string {
	if grp.universal {
		return ""
	}

	parts := make([]string, len(grp.platforms))
	for i, p := range grp.platforms {
		parts[i] = p.GOOS() + "-" + p.GOARCH()
	}
	return "." + strings.Join(parts, ".")
}

// loaderName is the name of the function that prepares the group's
// functions.
func (grp *group) loaderName() string {
	if grp.universal {
		return "loadFuncs"
	}

	var b strings.Builder
	b.WriteString("loadFuncs")
	for _, p := range grp.platforms {
		b.WriteString(toGoName(p.GOOS()))
		b.WriteString(toGoName(p.GOARCH()))
	}
	return b.String()
}

// buildConstraint matches exactly the platforms of the group. Universal
// files are constrained to the platforms of the forest.
func buildConstraint(platforms []decl.Platform) string {
	terms := make([]string, len(platforms))
	for i, p := range platforms {
		terms[i] = p.GOOS() + " && " + p.GOARCH()
		if len(platforms) > 1 {
			terms[i] = "(" + terms[i] + ")"
		}
	}
	return "//go:build " + strings.Join(terms, " || ")
}

// groups splits the forest by platform set. The universal group comes
// first, the rest are ordered by file name.
func (g *Generator) groups() []*group {
	universal := group{platforms: g.forest.Platforms, universal: true}
	byKey := make(map[string]*group)

	pick := func(n *decl.Node) *group {
		if g.forest.IsUniversal(n) {
			return &universal
		}

		key := fmt.Sprint(n.Platforms)
		grp, ok := byKey[key]
		if !ok {
			grp = &group{platforms: n.Platforms}
			byKey[key] = grp
		}
		return grp
	}

	for _, d := range g.forest.Declarations() {
		grp := pick(d.Base())

		switch d := d.(type) {
		case *decl.Constant:
			grp.constants = append(grp.constants, d)
		case *decl.Enum:
			grp.enums = append(grp.enums, d)
		case *decl.OpaqueStruct:
			grp.opaques = append(grp.opaques, d)
		case *decl.FunctionPointer:
			grp.fnPtrs = append(grp.fnPtrs, d)
		case *decl.AliasStruct:
			if g.kinds[d.Name] == decl.KindAliasStruct {
				grp.aliases = append(grp.aliases, d)
			}
		case *decl.Struct:
			grp.structs = append(grp.structs, d)
		case *decl.Function:
			grp.functions = append(grp.functions, d)
		}
	}

	universal.implicit = g.implicit

	out := []*group{&universal}
	for _, grp := range byKey {
		out = append(out, grp)
	}
	slices.SortFunc(out[1:], func(a, b *group) int {
		return strings.Compare(a.suffix(), b.suffix())
	})

	return out
}

// register names every declaration up front so references resolve to the
// same Go name in every file.
func (g *Generator) register() {
	var structs func(s *decl.Struct)
	structs = func(s *decl.Struct) {
		g.kinds[s.Name] = decl.KindStruct
		g.names.assign(typeSpace, s.Name, toGoName(s.Name))
		for i := range s.NestedStructs {
			structs(&s.NestedStructs[i])
		}
	}

	for i := range g.forest.Structs {
		structs(&g.forest.Structs[i])
	}
	for _, e := range g.forest.Enums {
		g.kinds[e.Name] = decl.KindEnum
		g.enums[e.Name] = e.IntegerType
		g.names.assign(typeSpace, e.Name, toGoName(e.Name))
	}
	for _, o := range g.forest.OpaqueStructs {
		g.kinds[o.Name] = decl.KindOpaqueStruct
		g.names.assign(typeSpace, o.Name, toGoName(o.Name))
	}

	// Function pointer names are already Go identifiers.
	for _, fp := range g.forest.FunctionPointers {
		g.kinds[fp.Name] = decl.KindFunctionPointer
		g.names.assign(typeSpace, fp.Name, fp.Name)
	}

	for _, a := range g.forest.AliasStructs {
		if kind, ok := g.kinds[a.Name]; ok && kind != decl.KindAliasStruct {
			continue
		}
		if base := baseName(a.UnderlyingType.Name); base == a.Name {
			continue
		}
		g.kinds[a.Name] = decl.KindAliasStruct
		g.aliases[a.Name] = a.UnderlyingType
		g.names.assign(typeSpace, a.Name, toGoName(a.Name))
	}

	for _, fn := range g.forest.Functions {
		g.names.assign(valueSpace, fn.Name, toGoName(fn.Name))
	}
	for _, e := range g.forest.Enums {
		for _, v := range e.Values {
			g.names.assign(valueSpace, v.Name, toGoName(v.Name))
		}
	}
	for _, c := range g.forest.Constants {
		g.names.assign(valueSpace, c.Name, toGoName(c.Name))
	}

	g.collectImplicit()
}

// collectImplicit finds synthesized function pointer names that are used
// without being declared.
func (g *Generator) collectImplicit() {
	seen := make(map[string]bool)
	visit := func(t decl.Type) {
		base := baseName(t.Name)
		if !strings.HasPrefix(base, "FnPtr_") || seen[base] {
			return
		}
		seen[base] = true
		if _, ok := g.kinds[base]; !ok {
			g.implicit = append(g.implicit, base)
		}
	}

	var fields func(s *decl.Struct)
	fields = func(s *decl.Struct) {
		for _, f := range s.Fields {
			visit(f.Type)
		}
		for i := range s.NestedStructs {
			fields(&s.NestedStructs[i])
		}
	}

	for i := range g.forest.Structs {
		fields(&g.forest.Structs[i])
	}
	for _, fn := range g.forest.Functions {
		visit(fn.ReturnType)
		for _, p := range fn.Parameters {
			visit(p.Type)
		}
	}
	for _, fp := range g.forest.FunctionPointers {
		visit(fp.ReturnType)
		for _, p := range fp.Parameters {
			visit(p.Type)
		}
	}
	for _, a := range g.forest.AliasStructs {
		visit(a.UnderlyingType)
	}

	for _, name := range g.implicit {
		g.kinds[name] = decl.KindFunctionPointer
		g.names.assign(typeSpace, name, name)
	}
}

var usedPackageRe = regexp.MustCompile(`\b(unsafe|ffi|cinterop|fmt)\.[A-Z]`)

// format adds the file header and the imports the body uses, then runs
// the result through goimports formatting.
func (g *Generator) format(name string, grp *group, body string) (string, error) {
	used := make(map[string]bool)
	for _, m := range usedPackageRe.FindAllStringSubmatch(body, -1) {
		used[m[1]] = true
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// Code generated by ffi-bindgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "%s\n\n", buildConstraint(grp.platforms))
	fmt.Fprintf(&buf, "package %s\n\n", g.packageName)

	var std, third []string
	if used["fmt"] {
		std = append(std, `"fmt"`)
	}
	if used["unsafe"] {
		std = append(std, `"unsafe"`)
	}
	if used["ffi"] {
		third = append(third, `"`+ffiImport+`"`)
	}
	if used["cinterop"] {
		third = append(third, `"`+cinteropImport+`"`)
	}

	if len(std)+len(third) > 0 {
		fmt.Fprintf(&buf, "import (\n")
		for _, imp := range std {
			fmt.Fprintf(&buf, "\t%s\n", imp)
		}
		if len(std) > 0 && len(third) > 0 {
			fmt.Fprintf(&buf, "\n")
		}
		for _, imp := range third {
			fmt.Fprintf(&buf, "\t%s\n", imp)
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	buf.WriteString(body)

	src, err := imports.Process(name, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("formatting %s: %w", name, err)
	}

	return string(src), nil
}
