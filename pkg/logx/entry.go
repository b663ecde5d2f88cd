package logx

import (
	"context"
	"fmt"
)

// Entry accumulates fields for a log line. Every With* call returns a new
// Entry, so a component logger can be shared between goroutines and extended
// per call without its fields leaking into other lines.
type Entry struct {
	logger *Logger
	fields Fields
	data   any
	err    error
	ctx    context.Context
}

func newEntry(logger *Logger) *Entry {
	return &Entry{
		logger: logger,
		fields: make(Fields),
	}
}

func (e *Entry) clone(extra int) *Entry {
	fields := make(Fields, len(e.fields)+extra)
	for k, v := range e.fields {
		fields[k] = v
	}
	return &Entry{
		logger: e.logger,
		fields: fields,
		data:   e.data,
		err:    e.err,
		ctx:    e.ctx,
	}
}

// WithField adds a field to the entry (chainable)
func (e *Entry) WithField(key string, value any) *Entry {
	out := e.clone(1)
	out.fields[key] = value
	return out
}

// WithFields adds multiple fields to the entry (chainable)
func (e *Entry) WithFields(fields Fields) *Entry {
	out := e.clone(len(fields))
	for k, v := range fields {
		out.fields[k] = v
	}
	return out
}

// WithComponent tags the entry with the emitting component
func (e *Entry) WithComponent(name string) *Entry {
	return e.WithField("component", name)
}

// WithError attaches an error (chainable)
func (e *Entry) WithError(err error) *Entry {
	out := e.clone(0)
	out.err = err
	return out
}

// WithContext adds context (chainable)
func (e *Entry) WithContext(ctx context.Context) *Entry {
	out := e.clone(0)
	out.ctx = ctx
	return out
}

// WithStruct adds structured data (chainable)
func (e *Entry) WithStruct(data any) *Entry {
	out := e.clone(0)
	out.data = data
	return out
}

func (e *Entry) emit(level Level, msg string) {
	e.logger.log(level, msg, e.fields, e.data, e.err)
}

// Trace logs at trace level
func (e *Entry) Trace(msg string) { e.emit(LevelTrace, msg) }

// Debug logs at debug level
func (e *Entry) Debug(msg string) { e.emit(LevelDebug, msg) }

// Info logs at info level
func (e *Entry) Info(msg string) { e.emit(LevelInfo, msg) }

// Warn logs at warn level
func (e *Entry) Warn(msg string) { e.emit(LevelWarn, msg) }

// Error logs at error level
func (e *Entry) Error(msg string) { e.emit(LevelError, msg) }

// Debugf logs formatted debug message
func (e *Entry) Debugf(format string, args ...any) {
	e.emit(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs formatted info message
func (e *Entry) Infof(format string, args ...any) {
	e.emit(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs formatted warn message
func (e *Entry) Warnf(format string, args ...any) {
	e.emit(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs formatted error message
func (e *Entry) Errorf(format string, args ...any) {
	e.emit(LevelError, fmt.Sprintf(format, args...))
}

// Fatalf logs formatted fatal message and exits
func (e *Entry) Fatalf(format string, args ...any) {
	e.emit(LevelFatal, fmt.Sprintf(format, args...))
	e.logger.exit(1)
}
