package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/ffi-bindgen/catalog"
	"github.com/ardanlabs/ffi-bindgen/logger"
)

func intp(v int) *int { return &v }

func writeCatalog(t *testing.T, path, platform string) {
	t.Helper()

	loc := catalog.Location{FileName: "calc.h", FilePath: "calc.h", Line: 3, Column: 5}
	c := catalog.Catalog{
		Platform: platform,
		Types: []catalog.Type{
			{Name: "void", Kind: catalog.KindPrimitive, IsSystem: true},
			{Name: "int", Kind: catalog.KindPrimitive, SizeOf: 4, AlignOf: intp(4), IsSystem: true},
			{Name: "point", Kind: catalog.KindRecord, SizeOf: 8, AlignOf: intp(4), Location: loc},
		},
		Records: []catalog.Record{
			{
				Name: "point",
				Fields: []catalog.RecordField{
					{Name: "x", Type: "int", Offset: 0, Location: loc},
					{Name: "y", Type: "int", Offset: 4, Location: loc},
				},
				Location: loc,
			},
		},
		Functions: []catalog.Function{
			{
				Name:              "calc_add",
				ReturnType:        "int",
				CallingConvention: catalog.CallingConventionCdecl,
				Parameters: []catalog.FunctionParameter{
					{Name: "a", Type: "int"},
					{Name: "b", Type: "int"},
				},
				Location: loc,
			},
		},
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// setup writes a config, a catalog and a header into a temporary directory
// and returns the config path.
func setup(t *testing.T, catalogPlatform string) string {
	t.Helper()

	dir := t.TempDir()
	writeCatalog(t, filepath.Join(dir, "linux.json"), catalogPlatform)

	header := "#ifndef CALC_H\n#define CALC_H\n#define CALC_MAX 16\n#endif\n"
	if err := os.WriteFile(filepath.Join(dir, "calc.h"), []byte(header), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := `package: calc
lib: calculator
output: out
platforms:
  - name: linux/amd64
    catalog: linux.json
    headers: [calc.h]
`
	path := filepath.Join(dir, "bindgen.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRun(t *testing.T) {
	configPath := setup(t, "linux/amd64")
	outDir := filepath.Join(filepath.Dir(configPath), "out")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(outDir, "types.windows-amd64.go")
	if err := os.WriteFile(stale, []byte(generatedHeader+"\n\npackage calc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	handWritten := filepath.Join(outDir, "extra.go")
	if err := os.WriteFile(handWritten, []byte("package calc\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(options{configPath: configPath})
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	var out, errOut bytes.Buffer
	if err := run(context.Background(), cfg, logger.New(&out, &errOut, false)); err != nil {
		t.Fatalf("expected run to succeed, got %v", err)
	}

	types, err := os.ReadFile(filepath.Join(outDir, "types.go"))
	if err != nil {
		t.Fatalf("expected types.go, got %v", err)
	}
	for _, want := range []string{"CalcMax", "type Point struct", "//go:build linux && amd64"} {
		if !strings.Contains(string(types), want) {
			t.Errorf("expected types.go to contain %q", want)
		}
	}

	functions, err := os.ReadFile(filepath.Join(outDir, "functions.go"))
	if err != nil {
		t.Fatalf("expected functions.go, got %v", err)
	}
	if !strings.Contains(string(functions), "func CalcAdd(a int32, b int32) int32 {") {
		t.Errorf("expected CalcAdd wrapper, got:\n%s", functions)
	}

	if _, err := os.Stat(filepath.Join(outDir, "loader.go")); err != nil {
		t.Errorf("expected loader.go, got %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("expected stale generated file to be removed, got %v", err)
	}
	if _, err := os.Stat(handWritten); err != nil {
		t.Errorf("expected hand written file to be kept, got %v", err)
	}

	if !strings.Contains(out.String(), "Generated 3 files for 1 platforms") {
		t.Errorf("expected summary line, got %q", out.String())
	}
}

func TestRunPlatformMismatch(t *testing.T) {
	configPath := setup(t, "windows/amd64")

	cfg, err := loadConfig(options{configPath: configPath})
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	var out bytes.Buffer
	err = run(context.Background(), cfg, logger.New(&out, &out, false))
	if err == nil || !strings.Contains(err.Error(), `is for platform "windows/amd64"`) {
		t.Errorf("expected platform mismatch error, got %v", err)
	}
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	configPath := setup(t, "linux/amd64")

	cfg, err := loadConfig(options{
		configPath:  configPath,
		outputDir:   "/tmp/bindings",
		packageName: "other",
		libName:     "otherlib",
		verbose:     true,
	})
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.Output != "/tmp/bindings" {
		t.Errorf("expected output /tmp/bindings, got %q", cfg.Output)
	}
	if cfg.Package != "other" {
		t.Errorf("expected package other, got %q", cfg.Package)
	}
	if cfg.Lib != "otherlib" {
		t.Errorf("expected lib otherlib, got %q", cfg.Lib)
	}
	if !cfg.Verbose {
		t.Error("expected verbose")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	configPath := setup(t, "linux/amd64")

	if err := os.WriteFile(configPath, []byte("package: calc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(options{configPath: configPath}); err == nil {
		t.Error("expected validation error")
	}
}
