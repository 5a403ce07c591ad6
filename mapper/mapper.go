// Package mapper converts the C catalog of one platform into Go
// declarations.
package mapper

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardanlabs/ffi-bindgen/catalog"
	"github.com/ardanlabs/ffi-bindgen/decl"
	"github.com/ardanlabs/ffi-bindgen/diag"
	"github.com/ardanlabs/ffi-bindgen/macro"
)

// Mapper maps catalogs with a fixed configuration. Non-fatal findings go
// to the sink, so use one Mapper per platform when mapping concurrently.
type Mapper struct {
	tables
	sink *diag.Sink
}

func New(opts Options, sink *diag.Sink) *Mapper {
	return &Mapper{
		tables: newTables(opts),
		sink:   sink,
	}
}

// pass holds the state of one Map call.
type pass struct {
	*Mapper
	platform   string
	types      map[string]catalog.Type
	fnPtrNames map[string]string
	title      cases.Caser
}

// Map converts one catalog. A fatal error is returned as *Error; everything
// else is reported to the sink and the offending declaration is left out.
func (m *Mapper) Map(c *catalog.Catalog) (*decl.Set, error) {
	types, err := c.Index()
	if err != nil {
		return nil, &Error{Platform: c.Platform, Err: err}
	}

	p := pass{
		Mapper:     m,
		platform:   c.Platform,
		types:      types,
		fnPtrNames: make(map[string]string),
		title:      cases.Title(language.Und, cases.NoLower),
	}

	set := decl.Set{Platform: decl.Platform(c.Platform)}

	// Typedefs go first: mapping one can name a function pointer that later
	// categories look up under the same spelling.
	if set.AliasStructs, err = p.aliasStructs(c.Typedefs); err != nil {
		return nil, err
	}
	if set.FunctionPointers, err = p.functionPointers(c.FunctionPointers); err != nil {
		return nil, err
	}
	if set.Functions, err = p.functions(c.Functions); err != nil {
		return nil, err
	}
	if set.Structs, err = p.structs(c.Records); err != nil {
		return nil, err
	}
	if set.OpaqueStructs, err = p.opaqueStructs(c.OpaqueTypes); err != nil {
		return nil, err
	}
	if set.Enums, err = p.enums(c.Enums); err != nil {
		return nil, err
	}
	set.Constants = p.constants(c.Macros)

	return &set, nil
}

func (p *pass) fail(symbol string, err error) error {
	return &Error{Platform: p.platform, Symbol: symbol, Err: err}
}

func (p *pass) aliasStructs(typedefs []catalog.Typedef) ([]decl.AliasStruct, error) {
	var out []decl.AliasStruct

	for _, td := range typedefs {
		if p.skip(td.Name) {
			continue
		}

		t, err := p.lookup(td.Name)
		if err != nil {
			return nil, p.fail(td.Name, err)
		}
		under, err := p.lookup(td.UnderlyingType)
		if err != nil {
			return nil, p.fail(td.Name, err)
		}

		if t.IsSystem && under.IsSystem {
			p.sink.Add(diag.SystemTypedef(td.Name, td.Location, under.Name))
			continue
		}

		underType, err := p.goType(under)
		if err != nil {
			return nil, p.fail(td.Name, err)
		}

		out = append(out, decl.AliasStruct{
			Node: decl.Node{
				Name:            td.Name,
				Kind:            decl.KindAliasStruct,
				LocationComment: locationComment(catalog.KindTypedef, td.Location),
				SizeOf:          t.SizeOf,
			},
			UnderlyingType: underType,
		})
	}

	return out, nil
}

func (p *pass) functionPointers(fps []catalog.FunctionPointer) ([]decl.FunctionPointer, error) {
	var out []decl.FunctionPointer
	seen := make(map[string]bool)

	for _, fp := range fps {
		key := fp.Name
		if key == "" {
			key = fp.Type
		}

		t, err := p.lookup(key)
		if err != nil {
			return nil, p.fail(key, err)
		}
		name, err := p.functionPointerName(t)
		if err != nil {
			return nil, p.fail(key, err)
		}

		if p.skip(name) || seen[name] {
			continue
		}
		seen[name] = true

		ret, err := p.returnType(fp.ReturnType)
		if err != nil {
			return nil, p.fail(name, err)
		}

		used := make(map[string]bool)
		params := make([]decl.Parameter, 0, len(fp.Parameters))
		for _, param := range fp.Parameters {
			dp, err := p.parameter(param.Name, param.Type, catalog.KindFunctionPointerParameter, param.Location, used)
			if err != nil {
				return nil, p.fail(name, err)
			}
			params = append(params, dp)
		}

		out = append(out, decl.FunctionPointer{
			Node: decl.Node{
				Name:            name,
				Kind:            decl.KindFunctionPointer,
				LocationComment: locationComment(catalog.KindFunctionPointer, fp.Location),
				SizeOf:          t.SizeOf,
			},
			ReturnType: ret,
			Parameters: params,
		})
	}

	return out, nil
}

func (p *pass) functions(fns []catalog.Function) ([]decl.Function, error) {
	var out []decl.Function

	for _, fn := range fns {
		if p.skip(fn.Name) {
			continue
		}

		cc, err := callingConvention(fn.CallingConvention)
		if err != nil {
			return nil, p.fail(fn.Name, err)
		}

		ret, err := p.returnType(fn.ReturnType)
		if err != nil {
			return nil, p.fail(fn.Name, err)
		}

		used := make(map[string]bool)
		params := make([]decl.Parameter, 0, len(fn.Parameters))
		for _, param := range fn.Parameters {
			dp, err := p.parameter(param.Name, param.Type, catalog.KindFunctionParameter, param.Location, used)
			if err != nil {
				return nil, p.fail(fn.Name, err)
			}
			params = append(params, dp)
		}

		out = append(out, decl.Function{
			Node: decl.Node{
				Name:            fn.Name,
				Kind:            decl.KindFunction,
				LocationComment: locationComment(catalog.KindFunction, fn.Location),
			},
			CallingConvention: string(cc),
			ReturnType:        ret,
			Parameters:        params,
		})
	}

	return out, nil
}

func callingConvention(cc catalog.CallingConvention) (catalog.CallingConvention, error) {
	switch cc {
	case "":
		return catalog.CallingConventionCdecl, nil
	case catalog.CallingConventionCdecl, catalog.CallingConventionStdCall, catalog.CallingConventionFastCall:
		return cc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrCallingConvention, cc)
}

func (p *pass) returnType(name string) (decl.Type, error) {
	t, err := p.lookup(name)
	if err != nil {
		return decl.Type{}, err
	}
	return p.goType(t)
}

func (p *pass) parameter(name, typeName string, kind catalog.Kind, loc catalog.Location, used map[string]bool) (decl.Parameter, error) {
	t, err := p.lookup(typeName)
	if err != nil {
		return decl.Parameter{}, err
	}
	gt, err := p.goType(t)
	if err != nil {
		return decl.Parameter{}, err
	}

	return decl.Parameter{
		Name:            uniqueName(name, "param", used),
		LocationComment: locationComment(kind, loc),
		Type:            gt,
	}, nil
}

func (p *pass) structs(records []catalog.Record) ([]decl.Struct, error) {
	var out []decl.Struct

	for _, r := range records {
		if p.skip(r.Name) {
			continue
		}

		s, err := p.record(r)
		if err != nil {
			return nil, p.fail(r.Name, err)
		}
		if p.ignored[s.Name] {
			continue
		}

		out = append(out, s)
	}

	return out, nil
}

func (p *pass) record(r catalog.Record) (decl.Struct, error) {
	t, err := p.lookup(r.Name)
	if err != nil {
		return decl.Struct{}, err
	}
	typ, err := p.goType(t)
	if err != nil {
		return decl.Struct{}, err
	}

	used := make(map[string]bool)
	fields := make([]decl.StructField, 0, len(r.Fields))
	for _, f := range r.Fields {
		ft, err := p.lookup(f.Type)
		if err != nil {
			return decl.Struct{}, fmt.Errorf("field %s: %w", f.Name, err)
		}
		fgt, err := p.goType(ft)
		if err != nil {
			return decl.Struct{}, fmt.Errorf("field %s: %w", f.Name, err)
		}

		fields = append(fields, decl.StructField{
			Name:            uniqueName(f.Name, "anonymous", used),
			LocationComment: locationComment(catalog.KindRecordField, f.Location),
			Type:            fgt,
			Offset:          f.Offset,
			Padding:         f.Padding,
			IsWrapped:       fgt.ArraySize > 0 && !fixedBuffers[fgt.Name],
		})
	}

	var nested []decl.Struct
	for _, nr := range r.NestedRecords {
		ns, err := p.record(nr)
		if err != nil {
			return decl.Struct{}, fmt.Errorf("nested %s: %w", nr.Name, err)
		}
		if p.ignored[ns.Name] {
			continue
		}
		nested = append(nested, ns)
	}

	return decl.Struct{
		Node: decl.Node{
			Name:            typ.Name,
			Kind:            decl.KindStruct,
			LocationComment: recordComment(r),
			SizeOf:          t.SizeOf,
		},
		IsUnion:       r.IsUnion,
		Type:          typ,
		Fields:        fields,
		NestedStructs: nested,
	}, nil
}

func (p *pass) opaqueStructs(opaques []catalog.OpaqueType) ([]decl.OpaqueStruct, error) {
	var out []decl.OpaqueStruct

	for _, o := range opaques {
		if p.skip(o.Name) {
			continue
		}

		t, err := p.lookup(o.Name)
		if err != nil {
			return nil, p.fail(o.Name, err)
		}
		name, err := p.typeName(t)
		if err != nil {
			return nil, p.fail(o.Name, err)
		}
		if p.ignored[name] {
			continue
		}

		out = append(out, decl.OpaqueStruct{
			Node: decl.Node{
				Name:            name,
				Kind:            decl.KindOpaqueStruct,
				LocationComment: locationComment(catalog.KindOpaqueType, o.Location),
				SizeOf:          t.SizeOf,
			},
		})
	}

	return out, nil
}

func (p *pass) enums(enums []catalog.Enum) ([]decl.Enum, error) {
	var out []decl.Enum

	for _, e := range enums {
		if p.skip(e.Name) {
			continue
		}

		it, err := p.lookup(e.IntegerType)
		if err != nil {
			return nil, p.fail(e.Name, err)
		}
		integer, err := p.goType(it)
		if err != nil {
			return nil, p.fail(e.Name, err)
		}

		values := make([]decl.EnumValue, len(e.Values))
		for i, v := range e.Values {
			values[i] = decl.EnumValue{
				Name:            v.Name,
				LocationComment: locationComment(catalog.KindEnumValue, v.Location),
				Value:           v.Value,
			}
		}

		out = append(out, decl.Enum{
			Node: decl.Node{
				Name:            e.Name,
				Kind:            decl.KindEnum,
				LocationComment: locationComment(catalog.KindEnum, e.Location),
				SizeOf:          it.SizeOf,
			},
			IntegerType: integer,
			Values:      values,
		})
	}

	return out, nil
}

// constants folds the macros in order, so a macro can use the ones defined
// before it. Failures never abort the pass.
func (p *pass) constants(macros []catalog.MacroDefinition) []decl.Constant {
	ev := macro.New(p.systemAliases, p.userAliases)
	if long, ok := p.types["long"]; ok {
		ev.LongSize = long.SizeOf
	}

	var out []decl.Constant
	mapped := make(map[string]macro.Result)

	for _, m := range macros {
		if p.ignored[m.Name] {
			continue
		}

		r, err := ev.Evaluate(m.Tokens, mapped)
		if err != nil {
			if strings.HasSuffix(m.Name, p.apiSuffix) {
				continue
			}
			p.sink.Add(diag.MacroNotTranspiled(m.Name, m.Location, err))
			continue
		}

		if _, ok := mapped[m.Name]; ok {
			p.sink.Add(diag.MacroAlreadyExists(m.Name, m.Location))
			continue
		}
		mapped[m.Name] = r

		out = append(out, decl.Constant{
			Node: decl.Node{
				Name:            m.Name,
				Kind:            decl.KindConstant,
				LocationComment: locationComment(catalog.KindMacroDefinition, m.Location),
			},
			Type:  r.Type,
			Value: r.Value,
		})
	}

	return out
}
