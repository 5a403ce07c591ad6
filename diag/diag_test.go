package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/ffi-bindgen/catalog"
)

func TestSystemTypedefSummary(t *testing.T) {
	loc := catalog.Location{FileName: "types.h", FilePath: "sys/types.h", Line: 12, Column: 3}

	d := SystemTypedef("my_size", loc, "size_t")

	want := "The typedef 'my_size' at sys/types.h:12:3 is a system alias to the system type 'size_t'."
	if d.Summary != want {
		t.Errorf("expected %q, got %q", want, d.Summary)
	}
	if d.Severity != Warning {
		t.Errorf("expected warning, got %s", d.Severity)
	}
	if d.Symbol != "my_size" {
		t.Errorf("expected symbol my_size, got %s", d.Symbol)
	}
}

func TestMacroNotTranspiledReason(t *testing.T) {
	d := MacroNotTranspiled("FOO", catalog.NoLocation, errors.New("undefined: BAR"))

	if !strings.Contains(d.Summary, "Builtin") {
		t.Errorf("expected the builtin location in %q", d.Summary)
	}
	if !strings.Contains(d.Summary, "undefined: BAR") {
		t.Errorf("expected the reason in %q", d.Summary)
	}
}

func TestSinkOrderAndPlatform(t *testing.T) {
	s := NewSink("linux/amd64")
	s.Add(MacroAlreadyExists("A", catalog.NoLocation))
	s.Add(MacroNotTranspiled("B", catalog.NoLocation, nil))

	got := s.Diagnostics()
	if len(got) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(got))
	}
	if got[0].Symbol != "A" || got[1].Symbol != "B" {
		t.Errorf("expected order A, B, got %s, %s", got[0].Symbol, got[1].Symbol)
	}
	for _, d := range got {
		if d.Platform != "linux/amd64" {
			t.Errorf("expected platform linux/amd64, got %q", d.Platform)
		}
	}

	got[0].Symbol = "changed"
	if s.Diagnostics()[0].Symbol != "A" {
		t.Error("expected Diagnostics to return a copy")
	}
}

func TestConcat(t *testing.T) {
	a := NewSink("darwin/arm64")
	a.Add(MacroAlreadyExists("A", catalog.NoLocation))

	b := NewSink("linux/amd64")
	b.Add(MacroAlreadyExists("B", catalog.NoLocation))
	b.Add(MacroAlreadyExists("C", catalog.NoLocation))

	got := Concat(a, b)

	var symbols []string
	for _, d := range got {
		symbols = append(symbols, d.Symbol)
	}
	if strings.Join(symbols, ",") != "A,B,C" {
		t.Errorf("expected A,B,C, got %v", symbols)
	}
}
