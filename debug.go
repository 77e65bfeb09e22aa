package uira

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Debug logging switches. The log is off unless UIRA_DEBUG is "true";
// UIRA_DEBUG_DIR overrides where the per-invocation files land.
const (
	EnvDebug    = "UIRA_DEBUG"
	EnvDebugDir = "UIRA_DEBUG_DIR"
)

// DebugLog writes one file per pipeline invocation, named by a ULID so
// concurrent invocations never collide and the files sort by time.
// All methods are no-ops when the log is disabled.
type DebugLog struct {
	file *os.File
}

// OpenDebugLog opens the debug log according to the environment. A
// disabled or unopenable log degrades to a no-op rather than failing the
// invocation.
func OpenDebugLog() *DebugLog {
	if os.Getenv(EnvDebug) != "true" {
		return &DebugLog{}
	}

	dir := os.Getenv(EnvDebugDir)
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "uira")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &DebugLog{}
	}

	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return &DebugLog{}
	}

	f, err := os.Create(filepath.Join(dir, "uira-"+id.String()+".log"))
	if err != nil {
		return &DebugLog{}
	}
	return &DebugLog{file: f}
}

// Printf appends a timestamped line to the log.
func (d *DebugLog) Printf(format string, args ...interface{}) {
	if d == nil || d.file == nil {
		return
	}
	fmt.Fprintf(d.file, time.Now().Format(time.RFC3339Nano)+" "+format+"\n", args...)
}

// Close closes the underlying file.
func (d *DebugLog) Close() {
	if d != nil && d.file != nil {
		_ = d.file.Close()
	}
}
