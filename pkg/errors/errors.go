// Package errors defines the structured error type and taxonomy for the
// rget concurrent range-download engine.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is.
var (
	// ErrInvalidURL is returned when a provided URL is malformed or its
	// scheme/host fail validation.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnsupportedProtocol is returned when the chunk downloader has no
	// implementation for the URL's scheme.
	ErrUnsupportedProtocol = errors.New("unsupported protocol")

	// ErrPartialMissing is returned by the merger when an expected
	// partial file is absent.
	ErrPartialMissing = errors.New("partial file missing")
)

// DownloadError is the single structured error type the engine returns.
// It carries enough context (Code, Message, URL, Index) for a caller to
// both match on errors.Is/As and print a useful diagnostic.
type DownloadError struct {
	// Code classifies the failure.
	Code ErrorCode

	// Message is a human-readable detail string.
	Message string

	// URL is the resource URL involved, if any.
	URL string

	// ChunkIndex is the chunk that failed, or -1 if not chunk-specific.
	ChunkIndex int

	// Underlying is the wrapped cause, if any.
	Underlying error
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Underlying != nil {
		return e.Underlying.Error()
	}

	return e.Code.String()
}

// Unwrap allows errors.Is/As to see through to the underlying cause.
func (e *DownloadError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is one of the package sentinels this code
// implies, so callers can write errors.Is(err, errors.ErrInvalidURL)
// instead of matching on Code directly.
func (e *DownloadError) Is(target error) bool {
	switch e.Code {
	case CodeURLParseError, CodeInvalidScheme, CodeInvalidHostname:
		return target == ErrInvalidURL
	case CodeUnsupportedProtocol:
		return target == ErrUnsupportedProtocol
	}

	return false
}

// New creates a DownloadError with no wrapped cause.
func New(code ErrorCode, message string) *DownloadError {
	return &DownloadError{Code: code, Message: message, ChunkIndex: -1}
}

// Newf creates a DownloadError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *DownloadError {
	return &DownloadError{Code: code, Message: fmt.Sprintf(format, args...), ChunkIndex: -1}
}

// Wrap wraps an existing error under the given code.
func Wrap(code ErrorCode, err error, message string) *DownloadError {
	return &DownloadError{Code: code, Message: message, Underlying: err, ChunkIndex: -1}
}

// WrapChunk wraps an existing error under the given code, attaching the
// failing chunk's index so the dispatcher can surface errors in
// chunk-index order.
func WrapChunk(code ErrorCode, index int, err error, message string) *DownloadError {
	return &DownloadError{Code: code, Message: message, Underlying: err, ChunkIndex: index}
}

// CouldNotConnect builds the umbrella CodeCouldNotConnect error the spec
// uses for transport failure, non-2xx responses, header parse failures,
// write-size mismatches and missing partials.
func CouldNotConnect(format string, args ...interface{}) *DownloadError {
	return Newf(CodeCouldNotConnect, format, args...)
}

// PartialMissing builds the CodeCouldNotConnect error the merger raises
// for a missing partial file, wrapping ErrPartialMissing so callers can
// match it with errors.Is regardless of the message text.
func PartialMissing(path string) *DownloadError {
	return Wrap(CodeCouldNotConnect, ErrPartialMissing, "Partial file missing: "+path)
}

// AsDownloadError extracts a *DownloadError from err, if any is present in
// its chain.
func AsDownloadError(err error) (*DownloadError, bool) {
	var de *DownloadError
	if errors.As(err, &de) {
		return de, true
	}

	return nil, false
}
