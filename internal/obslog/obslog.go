// Package obslog is the service's leveled stderr logger, generalized from
// the teacher's ad hoc "[raven-mcp] ..." stderr lines (internal/mcp) and
// internal/watcher.Watcher.logDebug into a small structured logger that
// tags each JSON-RPC request line with a request id (google/uuid), so
// dispatcher errors can be correlated with the request that caused them.
// Free-form lines carry "-" in place of a request id.
package obslog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is a log severity.
type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

var levelOrder = map[Level]int{Debug: 0, Info: 1, Warn: 2, Error: 3}

// Logger writes one line per call to its writer, never to stdout, which the
// JSON-RPC transport reserves for protocol frames (spec.md §1).
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	minimum Level
}

// New creates a Logger writing to stderr at the given minimum level.
func New(minimum Level) *Logger {
	return &Logger{out: os.Stderr, minimum: minimum}
}

// NewRequestID generates a correlation id for one JSON-RPC request.
func NewRequestID() string {
	return uuid.NewString()
}

func (l *Logger) log(level Level, requestID, method string, kind string, d time.Duration, msg string) {
	if levelOrder[level] < levelOrder[l.minimum] {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "time=%s level=%s request_id=%s method=%s kind=%s duration_ms=%d msg=%q\n",
		time.Now().UTC().Format(time.RFC3339Nano), level, requestID, method, kind, d.Milliseconds(), msg)
}

// Request logs the outcome of one dispatched request.
func (l *Logger) Request(requestID, method string, kind string, d time.Duration, err error) {
	level := Info
	msg := "ok"
	if err != nil {
		level = Error
		msg = err.Error()
	}
	l.log(level, requestID, method, kind, d, msg)
}

// Debugf logs a free-form debug line, for startup/shutdown and watcher
// chatter that doesn't carry a request id.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(Debug, "-", "-", "-", 0, fmt.Sprintf(format, args...))
}

// Infof logs a free-form informational line.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(Info, "-", "-", "-", 0, fmt.Sprintf(format, args...))
}

// Errorf logs a free-form error line.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(Error, "-", "-", "-", 0, fmt.Sprintf(format, args...))
}
