// Package logging builds the charmbracelet loggers used by the CLI and the
// viewer. File logs are written through a buffered sink that a background
// goroutine flushes once per second, so physics steps never block on disk.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/zap/zapcore"
)

// FlushInterval is how often queued log lines are written to disk.
const FlushInterval = time.Second

// bufferSize is the amount of pending output held before a write flushes
// synchronously.
const bufferSize = 256 * 1024

// Prefix is stamped on every line.
const Prefix = "goblin"

// ErrClosed is returned by writes after the sink was closed.
var ErrClosed = errors.New("logging: sink closed")

// ParseLevel converts a level name (debug, info, warn, error, fatal).
func ParseLevel(name string) (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}

// New returns a console logger writing to w.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Sink is a file writer whose output is buffered and flushed in the
// background. It is safe for concurrent use.
type Sink struct {
	mu     sync.Mutex
	file   *os.File
	buf    *zapcore.BufferedWriteSyncer
	level  log.Level
	closed bool
}

// Open creates (or appends to) the log file at path and returns a logger
// writing into it together with the sink that must be closed on shutdown.
func Open(path string, level log.Level) (*log.Logger, *Sink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open log file: %w", err)
	}

	s := &Sink{
		file:  f,
		level: level,
		buf: &zapcore.BufferedWriteSyncer{
			WS:            f,
			Size:          bufferSize,
			FlushInterval: FlushInterval,
		},
	}

	header := fmt.Sprintf("=== log opened %s level=%s ===\n", time.Now().Format(time.RFC3339), level)
	if _, err := s.Write([]byte(header)); err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	logger := log.NewWithOptions(s, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          Prefix,
		Level:           level,
	})
	return logger, s, nil
}

// Write queues p. The bytes are copied before Write returns.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.buf.Write(p)
}

// Sync forces pending output to disk.
func (s *Sink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.buf.Sync()
}

// Path returns the file name the sink writes to.
func (s *Sink) Path() string {
	return s.file.Name()
}

// Close writes the footer, drains the buffer and closes the file. Calling
// Close more than once is a no-op.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	footer := fmt.Sprintf("=== log closed %s ===\n", time.Now().Format(time.RFC3339))
	_, werr := s.buf.Write([]byte(footer))
	serr := s.buf.Stop()
	cerr := s.file.Close()
	return errors.Join(werr, serr, cerr)
}
