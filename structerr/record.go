package structerr

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/next-trace/scg-structerr/logsink"
)

// LoggerName is the logsink channel used when no Sink is injected.
const LoggerName = "structured-error"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Sink receives the encoded record of every constructed Error at error severity.
// *logsink.Logger satisfies it.
type Sink interface {
	Error(msg string) error
}

// handlerEnsurer is implemented by sinks that can attach a default handler on demand.
type handlerEnsurer interface {
	EnsureHandler() bool
}

// Record is the serialized shape shared by the log record, ToMap and MarshalJSON.
type Record struct {
	ErrorCode  any            `json:"error_code"`
	Message    string         `json:"message"`
	Metadata   map[string]any `json:"metadata"`
	Cause      *string        `json:"cause"`
	StackTrace string         `json:"stack_trace"`
}

// Record builds the current record. stack_trace follows the error's TraceMode.
func (e *Error) Record() Record {
	r := Record{
		ErrorCode:  e.code,
		Message:    e.message,
		Metadata:   cloneMap(e.metadata),
		StackTrace: e.stackTrace(),
	}

	if e.cause != nil {
		s := e.cause.Error()
		r.Cause = &s
	}

	return r
}

// ToMap returns the record as a map; cause is nil when absent.
func (e *Error) ToMap() map[string]any {
	r := e.Record()

	var cause any
	if r.Cause != nil {
		cause = *r.Cause
	}

	return map[string]any{
		"error_code":  r.ErrorCode,
		"message":     r.Message,
		"metadata":    r.Metadata,
		"cause":       cause,
		"stack_trace": r.StackTrace,
	}
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}

// Log encodes the record and emits it through the sink. New calls it once;
// calling it again emits again and returns any sink failure.
func (e *Error) Log() error {
	sink := e.sink
	if isNil(sink) {
		sink = logsink.Get(LoggerName)
	}

	if he, ok := sink.(handlerEnsurer); ok {
		he.EnsureHandler()
	}

	r := e.Record()

	b, err := json.Marshal(r)
	if err != nil {
		// Metadata held a value JSON cannot encode; fall back to its fmt form.
		r.Metadata = printable(r.Metadata)
		if b, err = json.Marshal(r); err != nil {
			return err
		}
	}

	return sink.Error(string(b))
}

func printable(md map[string]any) map[string]any {
	out := make(map[string]any, len(md))
	for k, v := range md {
		out[k] = fmt.Sprintf("%v", v)
	}

	return out
}

func (e *Error) stackTrace() string {
	if e.traceMode == TraceCaptureOnce {
		return e.captured
	}

	return e.tracer.Current()
}
