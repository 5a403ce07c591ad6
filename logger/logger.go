// Package logger provides levelled logging for the generator CLI.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardanlabs/ffi-bindgen/diag"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Logger writes info, warning and debug messages to one stream and errors
// to another.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	verbose     bool
}

// NewLogger creates a logger on stdout and stderr.
func NewLogger(verbose bool) *Logger {
	return New(os.Stdout, os.Stderr, verbose)
}

// New creates a logger on the given streams. Prefixes are coloured only
// when the stream is a terminal.
func New(out, errOut io.Writer, verbose bool) *Logger {
	flags := log.Ltime

	return &Logger{
		infoLogger:  log.New(out, prefix(out, "[BINDGEN-INFO] ", colorCyan), flags),
		warnLogger:  log.New(out, prefix(out, "[BINDGEN-WARN] ", colorYellow), flags),
		errorLogger: log.New(errOut, prefix(errOut, "[BINDGEN-ERROR] ", colorRed), flags),
		debugLogger: log.New(out, prefix(out, "[BINDGEN-DEBUG] ", colorGray), flags),
		verbose:     verbose,
	}
}

func prefix(w io.Writer, p, color string) string {
	if isTerminal(w) {
		return color + p + colorReset
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.infoLogger.Printf(format, args...)
}

func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.warnLogger.Printf(format, args...)
}

func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.errorLogger.Printf(format, args...)
}

// Debugf logs only when the logger is verbose.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.debugLogger.Printf(format, args...)
}

// Diagnostic logs a mapping diagnostic at the level matching its severity.
func (l *Logger) Diagnostic(d diag.Diagnostic) {
	msg := fmt.Sprintf("%s (%s)", d, d.Location)

	switch d.Severity {
	case diag.Error:
		l.Error(msg)
	case diag.Warning:
		l.Warn(msg)
	default:
		l.Debugf("%s", msg)
	}
}
