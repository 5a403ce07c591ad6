// Package diag collects the non-fatal findings of a mapping pass.
package diag

import (
	"fmt"

	"github.com/ardanlabs/ffi-bindgen/catalog"
)

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

type Code string

const (
	CodeMacroNotTranspiled Code = "macro-not-transpiled"
	CodeMacroAlreadyExists Code = "macro-already-exists"
	CodeSystemTypedef      Code = "system-typedef"
)

// Diagnostic carries enough context to act on a finding without rerunning
// the native parser.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Platform string
	Symbol   string
	Location catalog.Location
	Summary  string
}

func (d Diagnostic) String() string {
	if d.Platform == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Summary)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Code, d.Platform, d.Summary)
}

func MacroNotTranspiled(name string, loc catalog.Location, reason error) Diagnostic {
	summary := fmt.Sprintf("The macro object '%s' at %s could not be transpiled.", name, loc)
	if reason != nil {
		summary = fmt.Sprintf("The macro object '%s' at %s could not be transpiled: %v.", name, loc, reason)
	}

	return Diagnostic{
		Severity: Warning,
		Code:     CodeMacroNotTranspiled,
		Symbol:   name,
		Location: loc,
		Summary:  summary,
	}
}

func MacroAlreadyExists(name string, loc catalog.Location) Diagnostic {
	return Diagnostic{
		Severity: Warning,
		Code:     CodeMacroAlreadyExists,
		Symbol:   name,
		Location: loc,
		Summary:  fmt.Sprintf("The macro object '%s' at %s already exists.", name, loc),
	}
}

func SystemTypedef(name string, loc catalog.Location, underlying string) Diagnostic {
	return Diagnostic{
		Severity: Warning,
		Code:     CodeSystemTypedef,
		Symbol:   name,
		Location: loc,
		Summary: fmt.Sprintf("The typedef '%s' at %s is a system alias to the system type '%s'.",
			name, loc, underlying),
	}
}

// Sink accumulates diagnostics in the order they are reported. Use one Sink
// per mapping pass.
type Sink struct {
	platform    string
	diagnostics []Diagnostic
}

func NewSink(platform string) *Sink {
	return &Sink{platform: platform}
}

func (s *Sink) Add(d Diagnostic) {
	if d.Platform == "" {
		d.Platform = s.platform
	}
	s.diagnostics = append(s.diagnostics, d)
}

func (s *Sink) Len() int {
	return len(s.diagnostics)
}

// Diagnostics returns a copy of what has been reported so far.
func (s *Sink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}

// Concat joins the diagnostics of several sinks in the order given.
func Concat(sinks ...*Sink) []Diagnostic {
	var out []Diagnostic
	for _, s := range sinks {
		out = append(out, s.diagnostics...)
	}
	return out
}
