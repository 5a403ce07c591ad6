// Package config loads the generator configuration from a YAML file with
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/ardanlabs/ffi-bindgen/mapper"
	"github.com/ardanlabs/ffi-bindgen/native"
)

var ErrInvalid = errors.New("invalid config")

// Environment variables that override the file.
const (
	EnvOutput  = "FFIBINDGEN_OUTPUT"
	EnvPackage = "FFIBINDGEN_PACKAGE"
	EnvLib     = "FFIBINDGEN_LIB"
	EnvVerbose = "FFIBINDGEN_VERBOSE"
)

type Platform struct {
	Name    string   `yaml:"name"`
	Catalog string   `yaml:"catalog"`
	Headers []string `yaml:"headers"`
}

type TypeAlias struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

type PathRewrite struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type Config struct {
	Package                string            `yaml:"package"`
	Lib                    string            `yaml:"lib"`
	Output                 string            `yaml:"output"`
	Verbose                bool              `yaml:"verbose"`
	APIDecorationSuffix    string            `yaml:"api_decoration_suffix"`
	Platforms              []Platform        `yaml:"platforms"`
	TypeAliases            []TypeAlias       `yaml:"type_aliases"`
	IgnoredNames           []string          `yaml:"ignored_names"`
	SystemTypeAliases      map[string]string `yaml:"system_type_aliases"`
	LinkedPaths            []PathRewrite     `yaml:"linked_paths"`
	UserIncludeDirectories []string          `yaml:"user_include_directories"`

	// Path is the file the config was loaded from.
	Path string `yaml:"-"`
}

// Load reads the file at path, resolves relative paths against its
// directory and applies the environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.Path = path
	cfg.resolve(filepath.Dir(path))
	cfg.ApplyEnv()

	return cfg, nil
}

// Parse decodes a config. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	c.Output = abs(c.Output)
	for i := range c.Platforms {
		c.Platforms[i].Catalog = abs(c.Platforms[i].Catalog)
		for j := range c.Platforms[i].Headers {
			c.Platforms[i].Headers[j] = abs(c.Platforms[i].Headers[j])
		}
	}
	for i := range c.UserIncludeDirectories {
		c.UserIncludeDirectories[i] = abs(c.UserIncludeDirectories[i])
	}
}

// ApplyEnv overrides fields from the FFIBINDGEN_* variables that are set.
func (c *Config) ApplyEnv() {
	c.Output = env.Str(EnvOutput, c.Output)
	c.Package = env.Str(EnvPackage, c.Package)
	c.Lib = env.Str(EnvLib, c.Lib)
	if env.Has(EnvVerbose) {
		c.Verbose = env.Bool(EnvVerbose)
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Package == "" {
		errs = append(errs, errors.New("package is required"))
	}
	if c.Lib == "" {
		errs = append(errs, errors.New("lib is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if len(c.Platforms) == 0 {
		errs = append(errs, errors.New("at least one platform is required"))
	}

	seen := make(map[string]bool)
	for i, p := range c.Platforms {
		goos, goarch, ok := strings.Cut(p.Name, "/")
		if !ok || goos == "" || goarch == "" {
			errs = append(errs, fmt.Errorf("platforms[%d]: name %q is not goos/goarch", i, p.Name))
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("platforms[%d]: duplicate platform %q", i, p.Name))
		}
		seen[p.Name] = true

		if p.Catalog == "" {
			errs = append(errs, fmt.Errorf("platforms[%d]: catalog is required", i))
		}
	}

	for i, a := range c.TypeAliases {
		if a.Source == "" || a.Target == "" {
			errs = append(errs, fmt.Errorf("type_aliases[%d]: source and target are required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return nil
}

// MapperOptions returns the mapping options the config describes.
func (c *Config) MapperOptions() mapper.Options {
	opts := mapper.Options{
		IgnoredNames:        c.IgnoredNames,
		SystemTypeAliases:   c.SystemTypeAliases,
		APIDecorationSuffix: c.APIDecorationSuffix,
	}
	for _, a := range c.TypeAliases {
		opts.TypeAliases = append(opts.TypeAliases, mapper.TypeAlias{Source: a.Source, Target: a.Target})
	}
	return opts
}

// Resolver returns the location resolver for the configured path tables.
func (c *Config) Resolver() native.Resolver {
	r := native.Resolver{UserIncludeDirectories: c.UserIncludeDirectories}
	for _, lp := range c.LinkedPaths {
		r.LinkedPaths = append(r.LinkedPaths, native.PathRewrite{From: lp.From, To: lp.To})
	}
	return r
}

// Files lists the config file, catalogs and headers, which are the inputs
// a watcher has to follow.
func (c *Config) Files() []string {
	var files []string
	if c.Path != "" {
		files = append(files, c.Path)
	}
	for _, p := range c.Platforms {
		files = append(files, p.Catalog)
		files = append(files, p.Headers...)
	}
	return files
}
