// Package decl is the Go side of the mapping: declarations ready for code
// emission, tagged with the platforms they apply to.
package decl

import (
	"slices"
	"strings"
)

// Platform is a GOOS/GOARCH pair such as "linux/amd64".
type Platform string

func (p Platform) GOOS() string {
	goos, _, _ := strings.Cut(string(p), "/")
	return goos
}

func (p Platform) GOARCH() string {
	_, goarch, _ := strings.Cut(string(p), "/")
	return goarch
}

type Kind int

const (
	KindFunction Kind = iota + 1
	KindFunctionPointer
	KindStruct
	KindOpaqueStruct
	KindAliasStruct
	KindEnum
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "Function"
	case KindFunctionPointer:
		return "FunctionPointer"
	case KindStruct:
		return "Struct"
	case KindOpaqueStruct:
		return "OpaqueStruct"
	case KindAliasStruct:
		return "AliasStruct"
	case KindEnum:
		return "Enum"
	case KindConstant:
		return "Constant"
	}
	return "Unknown"
}

// Node is the identity shared by every declaration. SizeOf is zero when the
// size is unknown.
type Node struct {
	Platforms       []Platform
	Name            string
	Kind            Kind
	LocationComment string
	SizeOf          int
	Attributes      []string
}

func (n *Node) Base() *Node {
	return n
}

// equal compares everything but the platforms.
func (n *Node) equal(o *Node) bool {
	return n.Name == o.Name &&
		n.Kind == o.Kind &&
		n.LocationComment == o.LocationComment &&
		n.SizeOf == o.SizeOf &&
		slices.Equal(n.Attributes, o.Attributes)
}

// Declaration is implemented by pointers to every declaration variant.
type Declaration interface {
	Base() *Node

	// Equal reports whether two declarations are the same logical entity.
	// Platforms are not compared.
	Equal(Declaration) bool
}

// Type is a mapped type. Name uses Go syntax: "*int32", "unsafe.Pointer",
// "CString". ArraySize is zero for non array types.
type Type struct {
	Name         string
	OriginalName string
	SizeOf       int
	AlignOf      int
	ArraySize    int
}

type Parameter struct {
	Name            string
	LocationComment string
	Type            Type
}

type Function struct {
	Node
	CallingConvention string
	ReturnType        Type
	Parameters        []Parameter
}

func (f *Function) Equal(d Declaration) bool {
	o, ok := d.(*Function)
	return ok && f.Node.equal(&o.Node) &&
		f.CallingConvention == o.CallingConvention &&
		f.ReturnType == o.ReturnType &&
		slices.Equal(f.Parameters, o.Parameters)
}

type FunctionPointer struct {
	Node
	ReturnType Type
	Parameters []Parameter
}

func (f *FunctionPointer) Equal(d Declaration) bool {
	o, ok := d.(*FunctionPointer)
	return ok && f.Node.equal(&o.Node) &&
		f.ReturnType == o.ReturnType &&
		slices.Equal(f.Parameters, o.Parameters)
}

// StructField is wrapped when its type is an array of elements Go code
// cannot index as a plain fixed buffer.
type StructField struct {
	Name            string
	LocationComment string
	Type            Type
	Offset          int
	Padding         int
	IsWrapped       bool
}

type Struct struct {
	Node
	IsUnion       bool
	Type          Type
	Fields        []StructField
	NestedStructs []Struct
}

func (s *Struct) Equal(d Declaration) bool {
	o, ok := d.(*Struct)
	return ok && s.equal(o)
}

func (s *Struct) equal(o *Struct) bool {
	return s.Node.equal(&o.Node) &&
		s.IsUnion == o.IsUnion &&
		s.Type == o.Type &&
		slices.Equal(s.Fields, o.Fields) &&
		slices.EqualFunc(s.NestedStructs, o.NestedStructs, func(a, b Struct) bool {
			return a.equal(&b)
		})
}

// OpaqueStruct is a handle type only used behind pointers.
type OpaqueStruct struct {
	Node
}

func (s *OpaqueStruct) Equal(d Declaration) bool {
	o, ok := d.(*OpaqueStruct)
	return ok && s.Node.equal(&o.Node)
}

type AliasStruct struct {
	Node
	UnderlyingType Type
}

func (s *AliasStruct) Equal(d Declaration) bool {
	o, ok := d.(*AliasStruct)
	return ok && s.Node.equal(&o.Node) && s.UnderlyingType == o.UnderlyingType
}

type EnumValue struct {
	Name            string
	LocationComment string
	Value           int64
}

type Enum struct {
	Node
	IntegerType Type
	Values      []EnumValue
}

func (e *Enum) Equal(d Declaration) bool {
	o, ok := d.(*Enum)
	return ok && e.Node.equal(&o.Node) &&
		e.IntegerType == o.IntegerType &&
		slices.Equal(e.Values, o.Values)
}

// Constant is a folded macro. Type is a Go predeclared type and Value the
// literal text.
type Constant struct {
	Node
	Type  string
	Value string
}

func (c *Constant) Equal(d Declaration) bool {
	o, ok := d.(*Constant)
	return ok && c.Node.equal(&o.Node) && c.Type == o.Type && c.Value == o.Value
}
