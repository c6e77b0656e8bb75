// Package contract exposes the minimal structured error interface used by other packages.
//
// Implementations must ensure Metadata returns a defensive copy and support
// errors.Unwrap for proper interoperability with standard error helpers.
package contract

// StructuredError is the minimal, stable surface that other packages can depend on.
//
// Implementations must:
//   - Never return a nil Code; fall back to a sentinel instead.
//   - Ensure Metadata() returns a defensive, non-nil copy (never the internal map).
//   - Support errors.Unwrap via Unwrap().
//   - Serialize to the exact field set error_code, message, metadata, cause, stack_trace.
type StructuredError interface {
	error
	Code() any
	Message() string
	// Metadata returns a defensive copy; NEVER return the internal map directly.
	Metadata() map[string]any
	Cause() error
	ToMap() map[string]any
	Unwrap() error
}
