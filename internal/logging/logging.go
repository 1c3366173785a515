// Package logging provides the leveled terminal logger used across the
// build pipeline. Progress goes to stdout, warnings and errors to stderr,
// colored when the terminal supports it.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Level filters which messages a logger emits.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var (
	debugTag = color.New(color.FgHiBlack).Sprint("DEBUG")
	infoTag  = color.New(color.FgGreen).Sprint("INFO")
	warnTag  = color.New(color.FgYellow).Sprint("WARN")
	errorTag = color.New(color.FgRed, color.Bold).Sprint("ERROR")
)

// Logger is a minimal leveled logger. It is safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	level  Level
	out    io.Writer
	errOut io.Writer
}

// New creates a logger from a verbosity count: zero shows progress,
// each repetition of the verbose flag reveals one more level.
func New(verbosity int) *Logger {
	level := LevelInfo
	if verbosity > 0 {
		level = LevelDebug
	}
	return &Logger{level: level, out: os.Stdout, errOut: os.Stderr}
}

// NewWithOutput creates a logger writing to the given streams, for tests.
func NewWithOutput(level Level, out, errOut io.Writer) *Logger {
	return &Logger{level: level, out: out, errOut: errOut}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, l.out, debugTag, format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, l.out, infoTag, format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, l.errOut, warnTag, format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, l.errOut, errorTag, format, args...)
}

func (l *Logger) logf(level Level, w io.Writer, tag, format string, args ...any) {
	if level > l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(w, "%s %s\n", tag, fmt.Sprintf(format, args...))
}
