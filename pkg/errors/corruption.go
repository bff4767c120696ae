package errors

import "fmt"

// CorruptionError marks a log record that failed to decode: a header
// or payload shorter than declared, or an operation byte outside
// {SET, DELETE}. It always carries the offset decoding began at, per
// the decoder's contract.
type CorruptionError struct {
	*baseError
	offset int64
	cause  string
}

// NewCorruptionError creates a new corruption error for the record
// that starts at offset, with cause describing what was wrong with it
// ("truncated header", "truncated payload", "invalid operation byte").
func NewCorruptionError(offset int64, cause string) *CorruptionError {
	return &CorruptionError{
		baseError: NewBaseError(nil, ErrorCodeLogCorrupted, fmt.Sprintf("log record corrupted at offset %d: %s", offset, cause)),
		offset:    offset,
		cause:     cause,
	}
}

// Offset returns the byte position at which decoding began.
func (ce *CorruptionError) Offset() int64 {
	return ce.offset
}

// Cause returns the short description of what was wrong with the record.
func (ce *CorruptionError) Cause() string {
	return ce.cause
}
