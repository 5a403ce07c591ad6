package decl

import (
	"cmp"
	"slices"
)

// Set is the output of one mapping pass. The field order is the order the
// mapper fills them in.
type Set struct {
	Platform         Platform
	AliasStructs     []AliasStruct
	FunctionPointers []FunctionPointer
	Functions        []Function
	Structs          []Struct
	OpaqueStructs    []OpaqueStruct
	Enums            []Enum
	Constants        []Constant
}

// Declarations flattens the set in category order.
func (s *Set) Declarations() []Declaration {
	var out []Declaration
	for i := range s.AliasStructs {
		out = append(out, &s.AliasStructs[i])
	}
	for i := range s.FunctionPointers {
		out = append(out, &s.FunctionPointers[i])
	}
	for i := range s.Functions {
		out = append(out, &s.Functions[i])
	}
	for i := range s.Structs {
		out = append(out, &s.Structs[i])
	}
	for i := range s.OpaqueStructs {
		out = append(out, &s.OpaqueStructs[i])
	}
	for i := range s.Enums {
		out = append(out, &s.Enums[i])
	}
	for i := range s.Constants {
		out = append(out, &s.Constants[i])
	}
	return out
}

// Forest is the merged output of every platform. Each declaration lists the
// platforms it applies to; Platforms lists every input platform.
type Forest struct {
	Platforms []Platform
	Set
}

// IsUniversal reports whether n applies to every platform of the forest.
func (f *Forest) IsUniversal(n *Node) bool {
	return len(n.Platforms) == len(f.Platforms)
}

type mergeable[T any] interface {
	*T
	Declaration
}

type merger[T any, PT mergeable[T]] struct {
	out    []T
	byName map[string][]int
}

func (m *merger[T, PT]) add(items []T, p Platform) {
	if m.byName == nil {
		m.byName = make(map[string][]int)
	}

	for _, item := range items {
		d := PT(&item)
		name := d.Base().Name

		joined := false
		for _, i := range m.byName[name] {
			existing := PT(&m.out[i])
			if !existing.Equal(d) {
				continue
			}
			b := existing.Base()
			if !slices.Contains(b.Platforms, p) {
				b.Platforms = append(b.Platforms, p)
			}
			joined = true
			break
		}

		if joined {
			continue
		}

		d.Base().Platforms = []Platform{p}
		m.byName[name] = append(m.byName[name], len(m.out))
		m.out = append(m.out, item)
	}
}

func (m *merger[T, PT]) result() []T {
	for i := range m.out {
		slices.Sort(PT(&m.out[i]).Base().Platforms)
	}
	return m.out
}

// Merge unions the per-platform sets. Declarations that are equal across
// platforms become one declaration tagged with all of them; divergent ones
// stay separate. Platforms are processed in sorted order and the output
// keeps the order of first appearance.
func Merge(sets []*Set) *Forest {
	sorted := slices.Clone(sets)
	slices.SortStableFunc(sorted, func(a, b *Set) int {
		return cmp.Compare(a.Platform, b.Platform)
	})

	var (
		aliases   merger[AliasStruct, *AliasStruct]
		fnPtrs    merger[FunctionPointer, *FunctionPointer]
		functions merger[Function, *Function]
		structs   merger[Struct, *Struct]
		opaques   merger[OpaqueStruct, *OpaqueStruct]
		enums     merger[Enum, *Enum]
		constants merger[Constant, *Constant]
	)

	f := Forest{}

	for _, s := range sorted {
		if !slices.Contains(f.Platforms, s.Platform) {
			f.Platforms = append(f.Platforms, s.Platform)
		}

		aliases.add(s.AliasStructs, s.Platform)
		fnPtrs.add(s.FunctionPointers, s.Platform)
		functions.add(s.Functions, s.Platform)
		structs.add(s.Structs, s.Platform)
		opaques.add(s.OpaqueStructs, s.Platform)
		enums.add(s.Enums, s.Platform)
		constants.add(s.Constants, s.Platform)
	}

	f.AliasStructs = aliases.result()
	f.FunctionPointers = fnPtrs.result()
	f.Functions = functions.result()
	f.Structs = structs.result()
	f.OpaqueStructs = opaques.result()
	f.Enums = enums.result()
	f.Constants = constants.result()

	return &f
}
