// Package logger records executed commands as newline-delimited JSON.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Command is the log entry for one executed input line.
type Command struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	Line            string `json:"line"`
	Dir             string `json:"dir"`
	ExitCode        int    `json:"exit_code"`
}

// Logger appends command entries to an external sink.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewJSONLines creates a Logger that writes one JSON object per line.
func NewJSONLines(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// Record timestamps and writes one entry.
func (l *Logger) Record(entry *Command) error {
	entry.TimestampMicros = l.now().UnixNano() / int64(time.Microsecond)

	out, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = fmt.Fprintln(l.w, string(out))
	return err
}
