package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ardanlabs/ffi-bindgen/decl"
)

func (g *Generator) generateTypes(grp *group) (string, bool) {
	var buf bytes.Buffer

	if len(grp.constants) > 0 {
		fmt.Fprintf(&buf, "const (\n")
		for _, c := range grp.constants {
			name, _ := g.names.lookup(valueSpace, c.Name)
			fmt.Fprintf(&buf, "\t%s\n", c.LocationComment)
			fmt.Fprintf(&buf, "\t%s %s = %s\n", name, g.typeExpr(c.Type), c.Value)
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	for _, e := range grp.enums {
		g.writeEnum(&buf, e)
	}

	for _, o := range grp.opaques {
		name, _ := g.names.lookup(typeSpace, o.Name)
		fmt.Fprintf(&buf, "%s\n", o.LocationComment)
		fmt.Fprintf(&buf, "type %s struct{}\n\n", name)
	}

	for _, fp := range grp.fnPtrs {
		fmt.Fprintf(&buf, "%s\n", fp.LocationComment)
		fmt.Fprintf(&buf, "type %s uintptr\n\n", g.typeExpr(fp.Name))
	}
	for _, name := range grp.implicit {
		fmt.Fprintf(&buf, "type %s uintptr\n\n", name)
	}

	for _, a := range grp.aliases {
		name, _ := g.names.lookup(typeSpace, a.Name)
		fmt.Fprintf(&buf, "%s\n", a.LocationComment)
		fmt.Fprintf(&buf, "type %s %s\n\n", name, g.fieldType(a.UnderlyingType))
		fmt.Fprintf(&buf, "var FFIType%s = %s\n\n", name, g.descriptor(a.UnderlyingType))
	}

	emitted := make(map[string]bool)
	for _, s := range grp.structs {
		g.writeStruct(&buf, s, emitted)
	}

	return buf.String(), buf.Len() > 0
}

// descriptor returns the libffi descriptor of a whole type as a value
// expression.
func (g *Generator) descriptor(t decl.Type) string {
	n := arrayCount(t.Name, t.ArraySize)
	if n == 1 && t.ArraySize == 0 {
		return g.ffiType(t.Name)
	}
	return fmt.Sprintf("cinterop.NewStructType(cinterop.Field{Type: &%s, Count: %d})", g.ffiType(t.Name), n)
}

func (g *Generator) writeEnum(buf *bytes.Buffer, e *decl.Enum) {
	name, _ := g.names.lookup(typeSpace, e.Name)

	fmt.Fprintf(buf, "%s\n", e.LocationComment)
	fmt.Fprintf(buf, "type %s %s\n\n", name, g.typeExpr(e.IntegerType.Name))
	fmt.Fprintf(buf, "var FFIType%s = %s\n\n", name, g.ffiType(e.IntegerType.Name))

	if len(e.Values) == 0 {
		return
	}

	fmt.Fprintf(buf, "const (\n")
	for _, v := range e.Values {
		vName, _ := g.names.lookup(valueSpace, v.Name)
		fmt.Fprintf(buf, "\t%s\n", v.LocationComment)
		fmt.Fprintf(buf, "\t%s %s = %d\n", vName, name, v.Value)
	}
	fmt.Fprintf(buf, ")\n\n")
}

// accessor is a method that exposes a field kept as raw storage.
type accessor struct {
	name    string
	storage string
	elem    string
	count   int
}

// writeStruct lays the fields out at their C offsets. Explicit padding
// covers the gaps; arrays of elements Go cannot hold in a plain array are
// kept as bytes and read through an accessor.
func (g *Generator) writeStruct(buf *bytes.Buffer, s *decl.Struct, emitted map[string]bool) {
	if emitted[s.Name] {
		return
	}
	emitted[s.Name] = true

	for i := range s.NestedStructs {
		g.writeStruct(buf, &s.NestedStructs[i], emitted)
	}

	name, _ := g.names.lookup(typeSpace, s.Name)

	fmt.Fprintf(buf, "%s\n", s.LocationComment)
	if s.IsUnion {
		g.writeUnion(buf, name, s)
		return
	}

	used := make(map[string]bool)
	var accessors []accessor

	fmt.Fprintf(buf, "type %s struct {\n", name)

	cursor := 0
	for _, f := range s.Fields {
		if f.Offset > cursor {
			fmt.Fprintf(buf, "\t_ [%d]byte\n", f.Offset-cursor)
			cursor = f.Offset
		}

		fName := uniqueField(toGoName(f.Name), used)

		fmt.Fprintf(buf, "\t%s\n", f.LocationComment)
		if f.IsWrapped {
			storage := uniqueField("raw"+fName, used)
			fmt.Fprintf(buf, "\t%s [%d]byte\n", storage, f.Type.SizeOf)
			accessors = append(accessors, accessor{
				name:    fName,
				storage: storage,
				elem:    g.typeExpr(f.Type.Name),
				count:   f.Type.ArraySize,
			})
		} else {
			fmt.Fprintf(buf, "\t%s %s\n", fName, g.fieldType(f.Type))
		}
		cursor += f.Type.SizeOf

		if f.Padding > 0 {
			fmt.Fprintf(buf, "\t_ [%d]byte\n", f.Padding)
			cursor += f.Padding
		}
	}

	if s.SizeOf > cursor {
		fmt.Fprintf(buf, "\t_ [%d]byte\n", s.SizeOf-cursor)
	}
	fmt.Fprintf(buf, "}\n\n")

	for _, a := range accessors {
		fmt.Fprintf(buf, "func (s *%s) %s() []%s {\n", name, a.name, a.elem)
		fmt.Fprintf(buf, "\treturn cinterop.Elements[%s](unsafe.Pointer(&s.%s), %d)\n", a.elem, a.storage, a.count)
		fmt.Fprintf(buf, "}\n\n")
	}

	var fields []string
	for _, f := range s.Fields {
		fields = append(fields, fmt.Sprintf("\tcinterop.Field{Type: &%s, Count: %d},\n",
			g.ffiType(f.Type.Name), arrayCount(f.Type.Name, f.Type.ArraySize)))
	}
	if len(fields) == 0 {
		fields = append(fields, fmt.Sprintf("\tcinterop.Field{Type: &ffi.TypeUint8, Count: %d},\n", max(s.SizeOf, 1)))
	}

	fmt.Fprintf(buf, "var FFIType%s = cinterop.NewStructType(\n%s)\n\n", name, strings.Join(fields, ""))
}

// writeUnion stores the union as aligned bytes with one accessor per
// member.
func (g *Generator) writeUnion(buf *bytes.Buffer, name string, s *decl.Struct) {
	align, unit := alignment(s.Type.AlignOf)

	fmt.Fprintf(buf, "type %s struct {\n", name)
	if align != "" {
		fmt.Fprintf(buf, "\t_ [0]%s\n", align)
	}
	fmt.Fprintf(buf, "\tdata [%d]byte\n", s.SizeOf)
	fmt.Fprintf(buf, "}\n\n")

	used := map[string]bool{"data": true}
	for _, f := range s.Fields {
		fName := uniqueField(toGoName(f.Name), used)
		typ := g.fieldType(f.Type)

		fmt.Fprintf(buf, "%s\n", f.LocationComment)
		fmt.Fprintf(buf, "func (u *%s) %s() *%s {\n", name, fName, typ)
		fmt.Fprintf(buf, "\treturn (*%s)(unsafe.Pointer(&u.data))\n", typ)
		fmt.Fprintf(buf, "}\n\n")
	}

	fmt.Fprintf(buf, "var FFIType%s = cinterop.NewStructType(\n", name)
	fmt.Fprintf(buf, "\tcinterop.Field{Type: &ffi.%s, Count: %d},\n", unit.ffi, max(s.SizeOf/unit.size, 1))
	fmt.Fprintf(buf, ")\n\n")
}

type unitType struct {
	ffi  string
	size int
}

// alignment returns the zero length array element that forces an
// alignment, and the integer unit libffi should see the union as.
func alignment(align int) (string, unitType) {
	switch {
	case align >= 8:
		return "uint64", unitType{"TypeUint64", 8}
	case align >= 4:
		return "uint32", unitType{"TypeUint32", 4}
	case align >= 2:
		return "uint16", unitType{"TypeUint16", 2}
	}
	return "", unitType{"TypeUint8", 1}
}

func uniqueField(name string, used map[string]bool) string {
	if name == "" {
		name = "Field"
	}
	for used[name] {
		name += "_"
	}
	used[name] = true
	return name
}
