package errors

// IndexError carries the key context for an offset-index failure:
// the key was never set (or was deleted), or its stored offset no
// longer points at a record for that key.
type IndexError struct {
	*baseError
	key    string
	offset int64
}

// NewIndexError creates a new index-specific error.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{baseError: NewBaseError(err, code, msg)}
}

// WithKey records which key was being looked up.
func (ie *IndexError) WithKey(key string) *IndexError {
	ie.key = key
	return ie
}

// WithOffset records the stale offset that triggered the failure.
func (ie *IndexError) WithOffset(offset int64) *IndexError {
	ie.offset = offset
	return ie
}

// Key returns the key that was being processed when the error occurred.
func (ie *IndexError) Key() string {
	return ie.key
}

// Offset returns the offset associated with the error, if any.
func (ie *IndexError) Offset() int64 {
	return ie.offset
}

// NewKeyNotFoundError builds the error returned by GET for a key the
// index has no entry for.
func NewKeyNotFoundError(key string) *IndexError {
	return NewIndexError(nil, ErrorCodeKeyNotFound, "key not found").WithKey(key)
}

// NewInvalidOffsetError builds the error returned when the index's
// stored offset decodes to a record for a different key. The caller
// is expected to have already evicted the stale entry.
func NewInvalidOffsetError(key string, offset int64) *IndexError {
	return NewIndexError(nil, ErrorCodeInvalidOffset, "index offset does not point at the requested key").
		WithKey(key).
		WithOffset(offset)
}
