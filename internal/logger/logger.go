// Package logger provides verbose logging for kbadmin.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to show each backend request and its outcome.
// The TUI redirects output to a rotating log file with SetFile, since
// anything written to stderr would corrupt the terminal screen.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for file output.
const (
	maxFileSizeMB = 10
	maxBackups    = 3
	maxAgeDays    = 28
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetFile routes output to a size-rotated log file at path and enables
// timestamps. The returned closer restores stderr output.
func SetFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxFileSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}

	mu.Lock()
	output = &timestamped{w: lj}
	mu.Unlock()

	return closerFunc(func() error {
		mu.Lock()
		output = os.Stderr
		mu.Unlock()
		return lj.Close()
	}), nil
}

// timestamped prefixes every write with the current time.
type timestamped struct {
	w io.Writer
}

func (t *timestamped) Write(p []byte) (int, error) {
	if _, err := fmt.Fprint(t.w, time.Now().Format(time.RFC3339)+" "); err != nil {
		return 0, err
	}
	return t.w.Write(p)
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
	}
}
