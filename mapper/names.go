package mapper

import (
	"go/token"
	"regexp"
	"strconv"

	"github.com/ardanlabs/ffi-bindgen/catalog"
)

var trailingDigitsRe = regexp.MustCompile(`\d+$`)

// uniqueName returns name, or fallback when name is empty, made a Go
// identifier and distinct from every name in used. A trailing number is
// incremented rather than a new one appended: param, param2, param3.
func uniqueName(name, fallback string, used map[string]bool) string {
	if name == "" {
		name = fallback
	}
	name = identifier(name)

	for used[name] {
		loc := trailingDigitsRe.FindStringIndex(name)
		if loc == nil {
			name += "2"
			continue
		}

		n, err := strconv.Atoi(name[loc[0]:])
		if err != nil {
			name += "2"
			continue
		}
		name = name[:loc[0]] + strconv.Itoa(n+1)
	}

	used[name] = true

	return name
}

// identifier makes a C name usable as a Go identifier.
func identifier(name string) string {
	if token.IsKeyword(name) {
		return name + "_"
	}
	return name
}

var kindLabels = map[catalog.Kind]string{
	catalog.KindFunction:                 "Function",
	catalog.KindFunctionParameter:        "FunctionParameter",
	catalog.KindFunctionPointer:          "FunctionPointer",
	catalog.KindFunctionPointerParameter: "FunctionPointerParameter",
	catalog.KindRecord:                   "Struct",
	catalog.KindRecordField:              "RecordField",
	catalog.KindEnum:                     "Enum",
	catalog.KindEnumValue:                "EnumValue",
	catalog.KindOpaqueType:               "OpaqueType",
	catalog.KindTypedef:                  "Typedef",
	catalog.KindMacroDefinition:          "MacroDefinition",
}

// locationComment renders the comment that points generated code back at
// the C declaration: "// Function @ api.h:10:5" or "// Typedef @ Builtin".
func locationComment(kind catalog.Kind, loc catalog.Location) string {
	return "// " + kindLabels[kind] + " @ " + loc.String()
}

func recordComment(r catalog.Record) string {
	label := "Struct"
	if r.IsUnion {
		label = "Union"
	}
	return "// " + label + " @ " + r.Location.String()
}
