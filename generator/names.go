package generator

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	typeSpace = iota
	valueSpace
)

type nameKey struct {
	space int
	cName string
}

// registry hands out package level Go names. C keeps struct tags apart from
// ordinary identifiers, so a struct and a function may share a C name; they
// still need distinct Go names.
type registry struct {
	names map[nameKey]string
	used  map[string]bool
}

// reserved are the identifiers generated code declares or imports itself.
var reserved = []string{
	"Load", "lib", "funcLoaders", "getLibraryPath", "loadFuncs",
	"ffi", "unsafe", "cinterop", "fmt", "filepath", "runtime",
}

func newRegistry() *registry {
	r := registry{
		names: make(map[nameKey]string),
		used:  make(map[string]bool),
	}
	for _, name := range reserved {
		r.used[name] = true
	}
	return &r
}

// assign returns the Go name of cName, choosing want when it is free.
func (r *registry) assign(space int, cName, want string) string {
	key := nameKey{space: space, cName: cName}
	if name, ok := r.names[key]; ok {
		return name
	}

	if want == "" {
		want = cName
	}
	for r.used[want] {
		want += "_"
	}

	r.names[key] = want
	r.used[want] = true

	return want
}

func (r *registry) lookup(space int, cName string) (string, bool) {
	name, ok := r.names[nameKey{space: space, cName: cName}]
	return name, ok
}

var acronyms = map[string]bool{
	"id": true, "url": true, "api": true, "http": true, "json": true, "xml": true,
	"sql": true, "io": true, "ip": true, "tcp": true, "udp": true,
}

// toGoName turns a C identifier into an exported Go one: calc_add becomes
// CalcAdd, MAX_PATH becomes MaxPath and user_id becomes UserID.
func toGoName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_'
	})

	var result strings.Builder
	for _, part := range parts {
		lower := strings.ToLower(part)

		switch {
		case acronyms[lower]:
			result.WriteString(strings.ToUpper(part))
		case part == strings.ToUpper(part):
			result.WriteString(strings.ToUpper(part[:1]) + lower[1:])
		default:
			result.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}

	return result.String()
}

func toLowerCamel(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// splitType separates the pointer and array prefixes of a Go type name
// from the named type at its base: "*[3]Point" gives "*[3]" and "Point".
func splitType(name string) (prefix, base string) {
	base = name
	for {
		switch {
		case strings.HasPrefix(base, "*"):
			base = base[1:]
		case strings.HasPrefix(base, "["):
			end := strings.IndexByte(base, ']')
			if end < 0 {
				return name[:len(name)-len(base)], base
			}
			base = base[end+1:]
		default:
			return name[:len(name)-len(base)], base
		}
	}
}

func baseName(name string) string {
	_, base := splitType(name)
	return base
}

// arrayCount returns the number of base elements a type spans: a field of
// type "[3]int32" with ArraySize 2 holds six int32 values. Pointers count as
// one element.
func arrayCount(t string, arraySize int) int {
	n := max(arraySize, 1)

	for strings.HasPrefix(t, "[") {
		end := strings.IndexByte(t, ']')
		if end < 0 {
			break
		}
		dim, err := strconv.Atoi(t[1:end])
		if err != nil {
			break
		}
		n *= dim
		t = t[end+1:]
	}

	return n
}
