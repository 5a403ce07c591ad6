package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/ffi-bindgen/catalog"
	"github.com/ardanlabs/ffi-bindgen/diag"
)

func TestLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut, false)

	l.Info("mapped 3 platforms")
	l.Warnf("%d diagnostics", 2)
	l.Errorf("writing %s: %v", "types.go", errors.New("denied"))
	l.Debugf("hidden")

	tests := []struct {
		buf  *bytes.Buffer
		want string
	}{
		{&out, "[BINDGEN-INFO] "},
		{&out, "mapped 3 platforms"},
		{&out, "[BINDGEN-WARN] "},
		{&out, "2 diagnostics"},
		{&errOut, "[BINDGEN-ERROR] "},
		{&errOut, "writing types.go: denied"},
	}

	for _, tt := range tests {
		if !strings.Contains(tt.buf.String(), tt.want) {
			t.Errorf("expected %q in %q", tt.want, tt.buf.String())
		}
	}

	if strings.Contains(out.String(), "hidden") {
		t.Error("expected debug output to be suppressed")
	}
	if strings.Contains(out.String(), "\033[") {
		t.Error("expected no colour on a buffer")
	}
}

func TestVerbose(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, &out, true)

	l.Debugf("catalog %s", "linux.json")

	if !strings.Contains(out.String(), "[BINDGEN-DEBUG] ") || !strings.Contains(out.String(), "catalog linux.json") {
		t.Errorf("expected debug output, got %q", out.String())
	}
}

func TestDiagnostic(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut, false)

	loc := catalog.Location{FilePath: "include/api.h", Line: 4, Column: 9}
	l.Diagnostic(diag.MacroAlreadyExists("MAX", loc))

	got := out.String()
	if !strings.Contains(got, "[BINDGEN-WARN] ") || !strings.Contains(got, "MAX") || !strings.Contains(got, "include/api.h:4:9") {
		t.Errorf("expected a warning naming MAX and its location, got %q", got)
	}
	if errOut.Len() != 0 {
		t.Errorf("expected nothing on the error stream, got %q", errOut.String())
	}
}
