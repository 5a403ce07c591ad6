package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/ardanlabs/ffi-bindgen/catalog"
	"github.com/ardanlabs/ffi-bindgen/clangsrc"
	"github.com/ardanlabs/ffi-bindgen/config"
	"github.com/ardanlabs/ffi-bindgen/decl"
	"github.com/ardanlabs/ffi-bindgen/diag"
	"github.com/ardanlabs/ffi-bindgen/generator"
	"github.com/ardanlabs/ffi-bindgen/logger"
	"github.com/ardanlabs/ffi-bindgen/mapper"
)

const generatedHeader = "// Code generated by ffi-bindgen. DO NOT EDIT."

// options are the command line overrides of the config file.
type options struct {
	configPath  string
	outputDir   string
	packageName string
	libName     string
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "bindgen.yaml", "Path to the YAML config file")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for generated Go files (overrides config)")
	flag.StringVar(&opts.packageName, "package", "", "Go package name (overrides config)")
	flag.StringVar(&opts.libName, "lib", "", "Library name, e.g. 'mylib' for libmylib.so (overrides config)")
	flag.BoolVar(&opts.verbose, "v", false, "Print debug output")
	watch := flag.Bool("watch", false, "Regenerate when the config, catalogs or headers change")
	flag.Parse()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Verbose)

	if err := run(context.Background(), cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "error generating bindings: %v\n", err)
		if !*watch {
			os.Exit(1)
		}
	}

	if *watch {
		if err := watchInputs(opts, cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "error watching inputs: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadConfig reads the config file and applies the flags on top of it.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.outputDir != "" {
		cfg.Output = opts.outputDir
	}
	if opts.packageName != "" {
		cfg.Package = opts.packageName
	}
	if opts.libName != "" {
		cfg.Lib = opts.libName
	}
	if opts.verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// run maps every platform concurrently, merges the results and writes the
// generated package. Diagnostics are printed only when the run succeeds.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	sets := make([]*decl.Set, len(cfg.Platforms))
	sinks := make([]*diag.Sink, len(cfg.Platforms))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range cfg.Platforms {
		sinks[i] = diag.NewSink(p.Name)

		g.Go(func() error {
			set, err := mapPlatform(ctx, cfg, p, sinks[i], log)
			sets[i] = set
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	forest := decl.Merge(sets)
	log.Debugf("merged %d platforms into %d declarations", len(forest.Platforms), len(forest.Declarations()))

	files, err := generator.New(cfg.Package, cfg.Lib, forest).Generate()
	if err != nil {
		return err
	}

	if err := writeFiles(cfg.Output, files, log); err != nil {
		return err
	}

	warnings := diag.Concat(sinks...)
	for _, d := range warnings {
		log.Diagnostic(d)
	}
	log.Infof("Generated %d files for %d platforms with %d warnings", len(files), len(forest.Platforms), len(warnings))

	return nil
}

func mapPlatform(ctx context.Context, cfg *config.Config, p config.Platform, sink *diag.Sink, log *logger.Logger) (*decl.Set, error) {
	c, err := catalog.Load(p.Catalog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}

	if c.Platform != p.Name {
		return nil, fmt.Errorf("%s: catalog %s is for platform %q", p.Name, p.Catalog, c.Platform)
	}

	for _, header := range p.Headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		macros, err := headerMacros(header, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", p.Name, header, err)
		}

		added := c.AddMacros(macros)
		log.Debugf("%s: %d of %d macros from %s added", p.Name, added, len(macros), header)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return mapper.New(cfg.MapperOptions(), sink).Map(c)
}

// headerMacros reads the macros of a header through libclang, or by
// scanning its text when libclang support is not built in.
func headerMacros(header string, cfg *config.Config) ([]catalog.MacroDefinition, error) {
	resolver := cfg.Resolver()

	macros, err := clangsrc.ScanMacros(header, cfg.UserIncludeDirectories, resolver)
	if !errors.Is(err, clangsrc.ErrUnavailable) {
		return macros, err
	}

	data, err := os.ReadFile(header)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	return catalog.ScanMacros(string(data), resolver.Path(header)), nil
}

// writeFiles writes the generated files in name order and removes files a
// previous run generated that are no longer produced.
func writeFiles(dir string, files map[string]string, log *logger.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := removeStale(dir, files, log); err != nil {
		return err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		content := files[name]
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Infof("Generated: %s (%s)", path, humanize.Bytes(uint64(len(content))))
	}

	return nil
}

func removeStale(dir string, files map[string]string, log *logger.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading output directory: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" {
			continue
		}
		if _, ok := files[name]; ok {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if !strings.HasPrefix(string(data), generatedHeader) {
			continue
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", name, err)
		}
		log.Debugf("removed stale %s", path)
	}

	return nil
}
