package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindPointer
	KindArray
	KindFunction
	KindFunctionParameter
	KindFunctionPointer
	KindFunctionPointerParameter
	KindRecord
	KindRecordField
	KindEnum
	KindEnumValue
	KindOpaqueType
	KindTypedef
	KindVariable
	KindMacroDefinition
)

var kindNames = [...]string{
	KindUnknown:                  "unknown",
	KindPrimitive:                "primitive",
	KindPointer:                  "pointer",
	KindArray:                    "array",
	KindFunction:                 "function",
	KindFunctionParameter:        "function_parameter",
	KindFunctionPointer:          "function_pointer",
	KindFunctionPointerParameter: "function_pointer_parameter",
	KindRecord:                   "record",
	KindRecordField:              "record_field",
	KindEnum:                     "enum",
	KindEnumValue:                "enum_value",
	KindOpaqueType:               "opaque_type",
	KindTypedef:                  "typedef",
	KindVariable:                 "variable",
	KindMacroDefinition:          "macro_definition",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", name)
}

type CallingConvention string

const (
	CallingConventionCdecl    CallingConvention = "cdecl"
	CallingConventionStdCall  CallingConvention = "stdcall"
	CallingConventionFastCall CallingConvention = "fastcall"
)

// Location is a platform independent source coordinate. The zero value means
// the declaration has no meaningful location (builtins, pointer types, ...).
type Location struct {
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

var NoLocation = Location{}

func (l Location) IsBuiltin() bool {
	return l.FileName == "" && l.FilePath == ""
}

func (l Location) String() string {
	if l.IsBuiltin() {
		return "Builtin"
	}
	path := l.FilePath
	if path == "" {
		path = l.FileName
	}
	return fmt.Sprintf("%s:%d:%d", path, l.Line, l.Column)
}

type Type struct {
	Name        string   `json:"name"`
	Kind        Kind     `json:"kind"`
	SizeOf      int      `json:"sizeOf"`
	AlignOf     *int     `json:"alignOf,omitempty"`
	ArraySize   *int     `json:"arraySize,omitempty"`
	ElementSize *int     `json:"elementSize,omitempty"`
	IsSystem    bool     `json:"isSystem,omitempty"`
	Location    Location `json:"location,omitzero"`
}

type FunctionParameter struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Location Location `json:"location,omitzero"`
}

type Function struct {
	Name              string              `json:"name"`
	ReturnType        string              `json:"returnType"`
	CallingConvention CallingConvention   `json:"callingConvention"`
	Parameters        []FunctionParameter `json:"parameters,omitempty"`
	Location          Location            `json:"location,omitzero"`
}

type RecordField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Offset   int      `json:"offset"`
	Padding  int      `json:"padding,omitempty"`
	Location Location `json:"location,omitzero"`
}

type Record struct {
	Name          string        `json:"name"`
	IsUnion       bool          `json:"isUnion,omitempty"`
	Fields        []RecordField `json:"fields,omitempty"`
	NestedRecords []Record      `json:"nestedRecords,omitempty"`
	Location      Location      `json:"location,omitzero"`
}

type EnumValue struct {
	Name     string   `json:"name"`
	Value    int64    `json:"value"`
	Location Location `json:"location,omitzero"`
}

type Enum struct {
	Name        string      `json:"name"`
	IntegerType string      `json:"integerType"`
	Values      []EnumValue `json:"values,omitempty"`
	Location    Location    `json:"location,omitzero"`
}

type Typedef struct {
	Name           string   `json:"name"`
	UnderlyingType string   `json:"underlyingType"`
	Location       Location `json:"location,omitzero"`
}

type OpaqueType struct {
	Name     string   `json:"name"`
	Location Location `json:"location,omitzero"`
}

type FunctionPointerParameter struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Location Location `json:"location,omitzero"`
}

// FunctionPointer describes a function pointer type. Type holds the full
// "return (params)" spelling; Name is only set for named (typedef'd) pointers.
type FunctionPointer struct {
	Name       string                     `json:"name,omitempty"`
	Type       string                     `json:"type"`
	ReturnType string                     `json:"returnType"`
	Parameters []FunctionPointerParameter `json:"parameters,omitempty"`
	Location   Location                   `json:"location,omitzero"`
}

type MacroDefinition struct {
	Name     string   `json:"name"`
	Tokens   []string `json:"tokens"`
	Location Location `json:"location,omitzero"`
}

// Catalog is the scan of one translation unit for one platform.
type Catalog struct {
	Platform         string            `json:"platform"`
	Types            []Type            `json:"types"`
	Functions        []Function        `json:"functions,omitempty"`
	FunctionPointers []FunctionPointer `json:"functionPointers,omitempty"`
	Records          []Record          `json:"records,omitempty"`
	Enums            []Enum            `json:"enums,omitempty"`
	Typedefs         []Typedef         `json:"typedefs,omitempty"`
	OpaqueTypes      []OpaqueType      `json:"opaqueTypes,omitempty"`
	Macros           []MacroDefinition `json:"macros,omitempty"`
}
