package errors

// ErrorCode categorizes a failure so callers can branch on it without
// parsing messages.
type ErrorCode string

// Base codes, usable from any layer.
const (
	// ErrorCodeIO represents an OS-level read/write/seek failure.
	// It propagates unchanged; the store makes no attempt at rollback.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput marks a construction-time validation failure:
	// empty tablespace, invalid mode, non-positive segment cap, a
	// missing or non-directory path, or a malformed segment filename.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal is the fallback for failures that don't fit any
	// other code.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Byte-stream codes.
const (
	// ErrorCodeNotOpen marks I/O attempted on a closed byte-stream.
	ErrorCodeNotOpen ErrorCode = "STREAM_NOT_OPEN"

	// ErrorCodeModeForbidden marks a write attempted on a read-only
	// stream, or a read attempted on a write-only stream.
	ErrorCodeModeForbidden ErrorCode = "STREAM_MODE_FORBIDDEN"
)

// Log-record codes.
const (
	// ErrorCodeLogCorrupted marks a truncated header, truncated
	// payload, or invalid operation byte encountered while decoding.
	ErrorCodeLogCorrupted ErrorCode = "LOG_CORRUPTED"
)

// Index codes.
const (
	// ErrorCodeKeyNotFound marks a GET against a key absent from the
	// index.
	ErrorCodeKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeInvalidOffset marks an index entry whose offset decodes
	// to a record for a different key. The index self-heals by evicting
	// the stale entry before this error is returned.
	ErrorCodeInvalidOffset ErrorCode = "INDEX_INVALID_OFFSET"
)
