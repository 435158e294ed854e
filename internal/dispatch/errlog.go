package dispatch

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// FileFailureLog appends timestamped delivery failures to a log file.
type FileFailureLog struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// OpenFailureLog opens (or creates) the failure log in append mode.
func OpenFailureLog(path string) (*FileFailureLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open failure log %s: %w", path, err)
	}
	return &FileFailureLog{w: f, c: f}, nil
}

// NewFailureLogWriter wraps an arbitrary writer, for tests and custom sinks.
func NewFailureLogWriter(w io.Writer) *FileFailureLog {
	return &FileFailureLog{w: w}
}

func (l *FileFailureLog) Failure(recipient string, attempt int, cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s - Failed to send email to %s on attempt %d. Error: %v\n",
		time.Now().Format("2006-01-02 15:04:05"), recipient, attempt, cause)
}

func (l *FileFailureLog) Close() error {
	if l.c == nil {
		return nil
	}
	return l.c.Close()
}
