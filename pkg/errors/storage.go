package errors

// StorageError carries the file/offset context for a byte-stream
// failure: a closed-stream access, a mode violation, or a raw I/O
// error bubbled up from the OS.
type StorageError struct {
	*baseError
	path   string
	offset int64
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithPath records which file was being accessed.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// WithOffset records the byte position involved in the failure.
func (se *StorageError) WithOffset(offset int64) *StorageError {
	se.offset = offset
	return se
}

// WithDetail adds contextual information while preserving the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// Path returns the file path involved in the failure.
func (se *StorageError) Path() string {
	return se.path
}

// Offset returns the byte position involved in the failure.
func (se *StorageError) Offset() int64 {
	return se.offset
}

// NewNotOpenError builds the error returned when I/O is attempted on a
// closed byte-stream.
func NewNotOpenError(path string) *StorageError {
	return NewStorageError(nil, ErrorCodeNotOpen, "operation failed: stream is not open").
		WithPath(path)
}

// NewModeForbiddenError builds the error returned when an operation
// isn't permitted by the stream's open mode.
func NewModeForbiddenError(path, mode, operation string) *StorageError {
	return NewStorageError(nil, ErrorCodeModeForbidden, "operation forbidden by stream mode").
		WithPath(path).
		WithDetail("mode", mode).
		WithDetail("operation", operation)
}

// NewIOError wraps a raw OS-level failure with path/offset context.
func NewIOError(err error, path string, offset int64) *StorageError {
	return NewStorageError(err, ErrorCodeIO, "I/O operation failed").
		WithPath(path).
		WithOffset(offset)
}
