// Package logger provides console logging for wikimirror.
// Progress lines go to stdout unless quiet mode is set, warnings always
// go to stderr, and debug lines only appear with --verbose.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"
)

var (
	mu      sync.RWMutex
	verbose bool
	quiet   bool
	out     io.Writer = os.Stdout
	errOut  io.Writer = os.Stderr
)

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetQuiet suppresses progress output.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writers for progress and warning output.
// Useful for testing.
func SetOutput(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = stdout
	errOut = stderr
}

// Info prints a progress message unless quiet mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !quiet {
		fmt.Fprintf(out, format+"\n", args...)
	}
}

// Warn prints a warning. Warnings are never suppressed.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(errOut, "  Warning: "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(errOut, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(errOut, "\n=== %s ===\n", name)
	}
}

// Truncate shortens s to at most n bytes for log lines, never splitting
// a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
