// Package diagnostics implements the --verbose / warning-reporting
// surface described in spec.md §6: a single place that every other
// package funnels user-facing messages through, so the CLI controls
// color and verbosity in one spot.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/petermattis/goid"
)

// Severity orders diagnostics the way the driver's exit-code policy
// (spec.md §6) cares about: a run with at least one Error exits 1.
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warning"
	case Error:
		return "error"
	default:
		return "note"
	}
}

// Diagnostic is one reported message, optionally anchored to a source
// location (empty File for messages about the run as a whole).
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string
	Line     int
	Col      int
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Col, d.Severity, d.Message)
}

// Logger is the process-wide sink for diagnostics. It is safe for
// concurrent use so parallel per-TU generation (spec.md §5) can log
// from any worker goroutine without its own locking.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	color   bool

	errorCount int
	warnCount  int
}

// New constructs a Logger writing to out. color is auto-detected: an
// *os.File attached to a terminal, with NO_COLOR honored, but only
// when out is an *os.File at all — a bytes.Buffer passed in tests
// never colors.
func New(out io.Writer, verbose bool) *Logger {
	return &Logger{out: out, verbose: verbose, color: detectColor(out)}
}

func detectColor(out io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) report(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch d.Severity {
	case Error:
		l.errorCount++
	case Warn:
		l.warnCount++
	}
	line := d.String()
	if l.color {
		line = colorize(d.Severity, line)
	}
	fmt.Fprintln(l.out, line)
}

func colorize(sev Severity, line string) string {
	switch sev {
	case Error:
		return "\x1b[31m" + line + "\x1b[0m"
	case Warn:
		return "\x1b[33m" + line + "\x1b[0m"
	default:
		return line
	}
}

func (l *Logger) Warnf(file string, line, col int, format string, args ...any) {
	l.report(Diagnostic{Severity: Warn, Message: fmt.Sprintf(format, args...), File: file, Line: line, Col: col})
}

func (l *Logger) Errorf(file string, line, col int, format string, args ...any) {
	l.report(Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...), File: file, Line: line, Col: col})
}

// Verbosef logs only when the logger was constructed with verbose
// output requested; every message is tagged with the calling
// goroutine's id so interleaved concurrent output stays attributable
// to the worker that produced it.
func (l *Logger) Verbosef(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "[g%d] %s\n", goid.Get(), msg)
}

func (l *Logger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errorCount
}

func (l *Logger) WarnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warnCount
}
