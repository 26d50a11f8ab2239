package errors

// ErrorCode classifies the kind of failure a download operation produced.
//
// The set below is a direct, non-lossy mapping of the error taxonomy in the
// engine's contract: UrlParseError, InvalidScheme, InvalidHostname,
// UnsupportedProtocol, CouldNotConnect, CouldNotReadChunk, TaskError and
// StringError each get their own code so callers can still distinguish them
// with errors.Is/As, even though they share one Go error type.
type ErrorCode int

const (
	// CodeUnknown is an unclassified error.
	CodeUnknown ErrorCode = iota

	// CodeURLParseError means the URL string itself could not be parsed.
	CodeURLParseError

	// CodeInvalidScheme means the URL's scheme is not one of http, https,
	// ftp, ftps.
	CodeInvalidScheme

	// CodeInvalidHostname means the URL has no host component.
	CodeInvalidHostname

	// CodeUnsupportedProtocol means the scheme was accepted by the
	// validator but the chunk downloader has no implementation for it
	// (ftp, ftps).
	CodeUnsupportedProtocol

	// CodeCouldNotConnect is the umbrella code for transport failure,
	// non-2xx probe responses, non-206 chunk responses, malformed
	// Content-Range headers, write-size mismatches, missing partials, and
	// other I/O failures. Carries a human-readable Message.
	CodeCouldNotConnect

	// CodeCouldNotReadChunk means the response body failed mid-stream.
	CodeCouldNotReadChunk

	// CodeTaskError means a worker goroutine failed to join cleanly
	// (recovered panic).
	CodeTaskError

	// CodeStringError is a last-resort wrapper around a foreign error
	// string with no more specific classification.
	CodeStringError
)

// String returns the taxonomy name for the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeURLParseError:
		return "url_parse_error"
	case CodeInvalidScheme:
		return "invalid_scheme"
	case CodeInvalidHostname:
		return "invalid_hostname"
	case CodeUnsupportedProtocol:
		return "unsupported_protocol"
	case CodeCouldNotConnect:
		return "could_not_connect"
	case CodeCouldNotReadChunk:
		return "could_not_read_chunk"
	case CodeTaskError:
		return "task_error"
	case CodeStringError:
		return "string_error"
	default:
		return "unknown"
	}
}
