package native

import (
	"errors"
	"testing"
)

func TestCursorName(t *testing.T) {
	tests := []struct {
		spelling string
		want     string
	}{
		{"struct Point", "Point"},
		{"union Value", "Value"},
		{"enum Color", "Color"},
		{"const char", "char"},
		{"char *const", "char *"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		got := CursorName(&fakeCursor{spelling: tt.spelling})
		if got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.spelling, tt.want, got)
		}
	}
}

func TestTypeName(t *testing.T) {
	intType := &fakeType{kind: TypePrimitive, spelling: "int"}
	constChar := &fakeType{kind: TypePrimitive, spelling: "const char"}

	pointDecl := &fakeCursor{kind: CursorStructDecl, spelling: "Point"}
	point := &fakeType{kind: TypeRecord, spelling: "struct Point", decl: pointDecl}

	sizeDecl := &fakeCursor{kind: CursorTypedefDecl, spelling: "size_t"}
	size := &fakeType{kind: TypeTypedef, spelling: "size_t", decl: sizeDecl}

	colorDecl := &fakeCursor{kind: CursorEnumDecl, spelling: "Color"}
	color := &fakeType{kind: TypeEnum, spelling: "enum Color", decl: colorDecl}
	anonEnum := &fakeType{kind: TypeEnum, spelling: "enum (unnamed at api.h:3:1)", decl: &fakeCursor{kind: CursorEnumDecl}}

	proto := &fakeType{kind: TypeFunctionProto, spelling: "void (int)"}

	tests := []struct {
		name string
		typ  *fakeType
		want string
	}{
		{"primitive", intType, "int"},
		{"qualified primitive", constChar, "char"},
		{"function prototype", proto, "void (int)"},
		{"pointer", &fakeType{kind: TypePointer, spelling: "int *", pointee: intType}, "int*"},
		{"pointer to pointer", &fakeType{kind: TypePointer, spelling: "char **", pointee: &fakeType{kind: TypePointer, spelling: "char *", pointee: constChar}}, "char**"},
		{"function pointer", &fakeType{kind: TypePointer, spelling: "void (*)(int)", pointee: proto}, "void (int)"},
		{"typedef", size, "size_t"},
		{"record", point, "Point"},
		{"enum", color, "Color"},
		{"anonymous enum", anonEnum, "(unnamed at api.h:3:1)"},
		{"constant array", &fakeType{kind: TypeConstantArray, spelling: "int[4]", element: intType}, "int"},
		{"incomplete array", &fakeType{kind: TypeIncompleteArray, spelling: "int[]", element: intType}, "int*"},
		{"elaborated", &fakeType{kind: TypeElaborated, spelling: "struct Point", named: point}, "Point"},
		{"attributed", &fakeType{kind: TypeAttributed, spelling: "int _Nonnull", modified: intType}, "int"},
		{"pointer to attributed", &fakeType{kind: TypePointer, spelling: "Point *", pointee: &fakeType{kind: TypeAttributed, spelling: "Point _Nonnull", modified: point}}, "Point*"},
		{"unexposed", &fakeType{kind: TypeUnexposed, spelling: "weird"}, ""},
		{"empty spelling", &fakeType{kind: TypeRecord}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TypeName(tt.typ, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTypeNameCycle(t *testing.T) {
	loop := &fakeType{kind: TypeElaborated, spelling: "struct Loop"}
	loop.named = loop

	if _, err := TypeName(loop, nil); !errors.Is(err, ErrCyclicType) {
		t.Errorf("expected ErrCyclicType, got %v", err)
	}
}
