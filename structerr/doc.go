// Package structerr provides a structured error type that logs itself on construction.
//
// It exposes a single concrete type Error that implements contract.StructuredError and
// integrates with the standard library's errors helpers (Is/As) via Unwrap.
//
// Key characteristics:
//   - Machine-facing Code (text or integer), defaulting to UnknownCode
//   - Human-readable Message
//   - Metadata map with defensive cloning on read/write, never nil
//   - Optional cause, kept for display and serialization
//   - Exactly one error-level log emission per construction, through a Sink
//   - Map/JSON serialization with the fixed field set
//     error_code, message, metadata, cause, stack_trace
//
// Construction options are available via New and With* helpers, and Wrap/Ensure provide
// convenient utilities for adapting arbitrary errors.
package structerr
