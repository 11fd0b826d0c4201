// Package debug provides leveled, best-effort diagnostic logging for the
// vault pipeline. It mirrors the teacher's debug package: a mutex-guarded
// writer, an optional file sink under the OS temp dir, and per-subsystem
// helpers gated by a numeric level instead of a single on/off switch.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level mirrors the config's debugLevel (0..3): 0 silences everything, 3 is
// the most verbose.
var level = 0

var (
	output io.Writer
	file   *os.File
	mu     sync.Mutex
)

// SetLevel sets the active verbosity. Values outside 0..3 are clamped.
func SetLevel(l int) {
	mu.Lock()
	defer mu.Unlock()
	if l < 0 {
		l = 0
	}
	if l > 3 {
		l = 3
	}
	level = l
}

// SetOutput sets a custom writer for log output. Pass nil to disable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// InitLogFile opens a timestamped log file under the OS temp dir and routes
// output there. Returns the file path.
func InitLogFile() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	dir := filepath.Join(os.TempDir(), "vaultproc-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating debug log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.log", time.Now().Format("2006-01-02T150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating debug log file: %w", err)
	}

	file = f
	output = f
	return path, nil
}

// CloseLogFile closes the log file opened by InitLogFile, if any.
func CloseLogFile() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	output = nil
	return err
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

func log(minLevel int, component, format string, args ...interface{}) {
	mu.Lock()
	l := level
	mu.Unlock()
	if l < minLevel {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// LogWalk logs C1 Vault Walker diagnostics (level >= 2).
func LogWalk(format string, args ...interface{}) { log(2, "WALK", format, args...) }

// LogMedia logs C2 Media Transcoder diagnostics (level >= 1).
func LogMedia(format string, args ...interface{}) { log(1, "MEDIA", format, args...) }

// LogParse logs C3 Markdown Parser diagnostics (level >= 2).
func LogParse(format string, args ...interface{}) { log(2, "PARSE", format, args...) }

// LogSlug logs C4 Slug Allocator diagnostics (level >= 1).
func LogSlug(format string, args ...interface{}) { log(1, "SLUG", format, args...) }

// LogLink logs C5 Link Resolver & Renderer diagnostics (level >= 2).
func LogLink(format string, args ...interface{}) { log(2, "LINK", format, args...) }

// LogGraph logs C6 Relationship/Graph Builder diagnostics (level >= 2).
func LogGraph(format string, args ...interface{}) { log(2, "GRAPH", format, args...) }

// LogEmit logs C7 Issue Collector/Emitter diagnostics (level >= 1).
func LogEmit(format string, args ...interface{}) { log(1, "EMIT", format, args...) }

// Trace logs the most verbose diagnostics (level >= 3), for any subsystem.
func Trace(component, format string, args ...interface{}) {
	log(3, component, format, args...)
}
