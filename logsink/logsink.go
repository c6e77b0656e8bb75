// Package logsink is a process-wide registry of named zerolog loggers.
//
// Get returns the same *Logger for the same name. A logger starts with no
// handlers; EnsureHandler attaches the default stream handler on first use so
// emissions are never dropped silently.
package logsink

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	registryMu sync.Mutex
	registry   = map[string]*Logger{}
)

// Get returns the logger registered under name, creating it on first use.
func Get(name string) *Logger {
	registryMu.Lock()
	defer registryMu.Unlock()

	if l, ok := registry[name]; ok {
		return l
	}

	l := New(name)
	registry[name] = l

	return l
}

// Reset drops every registered logger. Later Get calls start from scratch.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry = map[string]*Logger{}
}

// Logger fans zerolog lines out to a set of handlers.
type Logger struct {
	name string

	mu       sync.Mutex
	level    zerolog.Level
	handlers []io.Writer
}

// New returns an unregistered logger with no handlers.
func New(name string, handlers ...io.Writer) *Logger {
	return &Logger{
		name:     name,
		level:    zerolog.DebugLevel,
		handlers: append([]io.Writer(nil), handlers...),
	}
}

func (l *Logger) Name() string { return l.name }

// Handlers returns a copy of the attached handlers.
func (l *Logger) Handlers() []io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]io.Writer(nil), l.handlers...)
}

func (l *Logger) AddHandler(w io.Writer) {
	if w == nil {
		return
	}

	l.mu.Lock()
	l.handlers = append(l.handlers, w)
	l.mu.Unlock()
}

// EnsureHandler attaches DefaultHandler when no handler is attached and
// reports whether it did so.
func (l *Logger) EnsureHandler() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.handlers) > 0 {
		return false
	}

	l.handlers = append(l.handlers, DefaultHandler())

	return true
}

// SetLevel sets the minimum level; anything above ErrorLevel silences Error.
func (l *Logger) SetLevel(level zerolog.Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Error writes msg at error level to every handler. Write failures are joined.
func (l *Logger) Error(msg string) error {
	l.mu.Lock()
	level := l.level
	handlers := append([]io.Writer(nil), l.handlers...)
	l.mu.Unlock()

	if level > zerolog.ErrorLevel || len(handlers) == 0 {
		return nil
	}

	var buf bytes.Buffer

	zl := zerolog.New(&buf).
		With().
		Time(zerolog.TimestampFieldName, time.Now()).
		Str("logger", l.name).
		Logger()
	zl.Error().Msg(msg)

	line := buf.Bytes()

	var errs []error

	for _, h := range handlers {
		if _, err := h.Write(line); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Pretty switches DefaultHandler to a human-readable console writer.
var Pretty = false

// DefaultHandler is the stream handler attached by EnsureHandler.
func DefaultHandler() io.Writer { return NewStreamHandler(nil) }

// NewStreamHandler wraps w (stderr when nil) as a handler.
func NewStreamHandler(w io.Writer) io.Writer {
	if w == nil {
		w = os.Stderr
	}

	if Pretty {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return w
}
