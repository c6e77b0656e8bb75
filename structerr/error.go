package structerr

import (
	"fmt"
	"reflect"

	"github.com/next-trace/scg-structerr/contract"
	"github.com/next-trace/scg-structerr/trace"
)

// UnknownCode is the code used when none (or a zero value) is supplied.
const UnknownCode = "UNKNOWN_ERROR"

// Error is a structured error carrying a code, a message, metadata and an optional cause.
//
// Fields are set once by New and never change afterwards.
type Error struct {
	code     any
	message  string
	metadata map[string]any
	cause    error

	sink      Sink
	tracer    trace.Source
	traceMode TraceMode
	// captured holds the trace sampled at construction in TraceCaptureOnce mode.
	captured string
}

// compile-time guarantee that *Error implements contract.StructuredError
var _ contract.StructuredError = (*Error)(nil)

// ------ standard error interface

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.cause != nil {
		return fmt.Sprintf("[%v] %s, caused by %v", e.code, e.message, e.cause)
	}

	return fmt.Sprintf("[%v] %s", e.code, e.message)
}

// GoString backs the %#v verb.
func (e *Error) GoString() string {
	if e == nil {
		return "<nil>"
	}

	return fmt.Sprintf("StructuredError(error_code=%v, message=%s)", e.code, e.message)
}

func (e *Error) Unwrap() error { return e.cause }

// ------ getters

func (e *Error) Code() any                { return e.code }
func (e *Error) CodeString() string       { return fmt.Sprint(e.code) }
func (e *Error) Message() string          { return e.message }
func (e *Error) Metadata() map[string]any { return cloneMap(e.metadata) }
func (e *Error) Cause() error             { return e.cause }
func (e *Error) TraceMode() TraceMode     { return e.traceMode }

// ------ core constructor

// New creates an Error and emits its log record before returning.
// A failing sink does not affect construction; call Log to observe sink errors.
func New(message string, opts ...Option) *Error {
	e := &Error{
		message:   message,
		metadata:  map[string]any{},
		tracer:    trace.Default,
		traceMode: TraceResample,
	}
	for _, o := range opts {
		o(e)
	}

	e.code = normalizeCode(e.code)
	if isNil(e.cause) {
		e.cause = nil
	}
	if isNil(e.sink) {
		e.sink = nil
	}

	if e.traceMode == TraceCaptureOnce {
		e.captured = e.tracer.Current()
	}

	_ = e.Log()

	return e
}

// normalizeCode replaces nil, "" and integer zero with UnknownCode.
func normalizeCode(code any) any {
	if code == nil {
		return UnknownCode
	}

	v := reflect.ValueOf(code)
	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return UnknownCode
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.IsZero() {
			return UnknownCode
		}
	}

	return code
}

// isNil reports whether v is nil or holds a nil pointer, map, func, chan or slice.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}

	return false
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))

	for k, v := range in {
		// Deep-clone nested maps with string keys to avoid leaking internal references.
		if mv, ok := v.(map[string]any); ok {
			out[k] = cloneMap(mv)
			continue
		}

		out[k] = v
	}

	return out
}
