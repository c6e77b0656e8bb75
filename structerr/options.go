package structerr

import "github.com/next-trace/scg-structerr/trace"

// Option configures an Error during construction via New().
type Option func(*Error)

// TraceMode selects when stack_trace is sampled from the trace source.
type TraceMode int

const (
	// TraceResample samples the source on every Log/ToMap/Record call.
	TraceResample TraceMode = iota
	// TraceCaptureOnce samples the source once, at construction.
	TraceCaptureOnce
)

func (m TraceMode) String() string {
	switch m {
	case TraceResample:
		return "resample"
	case TraceCaptureOnce:
		return "capture-once"
	default:
		return "unknown"
	}
}

// WithCode sets the error code. Text and integer codes are both accepted.
func WithCode(code any) Option { return func(e *Error) { e.code = code } }

// WithMetadata sets the metadata map. The provided map is defensively cloned.
func WithMetadata(md map[string]any) Option {
	return func(e *Error) { e.metadata = cloneMap(md) }
}

// WithCause sets the underlying cause returned by Cause() and Unwrap().
func WithCause(cause error) Option { return func(e *Error) { e.cause = cause } }

// WithSink routes the construction log record to s instead of the named default logger.
func WithSink(s Sink) Option { return func(e *Error) { e.sink = s } }

// WithTracer replaces trace.Default as the stack-trace source. Nil selects trace.None.
func WithTracer(src trace.Source) Option {
	return func(e *Error) {
		if src == nil {
			src = trace.None
		}
		e.tracer = src
	}
}

// WithTraceMode chooses between resampling and capture-once stack traces.
func WithTraceMode(m TraceMode) Option { return func(e *Error) { e.traceMode = m } }
