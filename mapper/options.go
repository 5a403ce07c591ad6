package mapper

// DefaultAPIDecorationSuffix marks export decoration macros such as
// MYLIB_API_DECL. They are dropped silently when they do not fold.
const DefaultAPIDecorationSuffix = "API_DECL"

// builtinTargets are alias targets Go code already provides, so a typedef
// aliased to one of them is never declared.
var builtinTargets = map[string]bool{
	"int8":      true,
	"uint8":     true,
	"int16":     true,
	"uint16":    true,
	"int32":     true,
	"uint32":    true,
	"int64":     true,
	"uint64":    true,
	"CBool":     true,
	"CChar":     true,
	"CCharWide": true,
}

type TypeAlias struct {
	Source string
	Target string
}

// Options configures a Mapper. The zero value is usable.
type Options struct {
	TypeAliases         []TypeAlias
	IgnoredNames        []string
	SystemTypeAliases   map[string]string
	APIDecorationSuffix string
}

type tables struct {
	userAliases    map[string]string
	systemAliases  map[string]string
	builtinAliases map[string]bool
	ignored        map[string]bool
	apiSuffix      string
}

func newTables(opts Options) tables {
	t := tables{
		userAliases:    make(map[string]string, len(opts.TypeAliases)),
		systemAliases:  make(map[string]string, len(opts.SystemTypeAliases)),
		builtinAliases: make(map[string]bool),
		ignored:        make(map[string]bool, len(opts.IgnoredNames)+len(opts.SystemTypeAliases)),
		apiSuffix:      opts.APIDecorationSuffix,
	}

	for _, a := range opts.TypeAliases {
		t.userAliases[a.Source] = a.Target
		if builtinTargets[a.Target] {
			t.builtinAliases[a.Source] = true
		}
	}

	for name, target := range opts.SystemTypeAliases {
		t.systemAliases[name] = target
		t.ignored[name] = true
	}

	for _, name := range opts.IgnoredNames {
		t.ignored[name] = true
	}

	if t.apiSuffix == "" {
		t.apiSuffix = DefaultAPIDecorationSuffix
	}

	return t
}

// skip reports whether a declaration with this name is never emitted.
func (t *tables) skip(name string) bool {
	return t.ignored[name] || t.builtinAliases[name]
}
