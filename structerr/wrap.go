package structerr

import (
	"errors"
)

// Wrap creates an Error around cause. A nil cause yields an Error without one.
func Wrap(cause error, code any, message string, metadata map[string]any, opts ...Option) *Error {
	base := []Option{WithCode(code), WithMetadata(metadata), WithCause(cause)}

	return New(message, append(base, opts...)...)
}

// Ensure converts any error to *Error.
//
// Behavior:
//   - nil input => nil output
//   - if err is already *Error => returned as-is (same pointer), nothing is logged
//   - otherwise wrap it with UnknownCode, using err's text as the message
func Ensure(err error, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var e *Error

	if errors.As(err, &e) {
		return e
	}

	return Wrap(err, UnknownCode, err.Error(), nil, opts...)
}
