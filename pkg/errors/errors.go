// Package errors defines vaultlog's typed error taxonomy: every
// failure a caller can observe is one of a small set of kinds, each
// carrying the payload needed to act on it (the offending key, the
// byte offset, the decode cause, the file path) instead of a bare
// message.
//
// Each kind embeds baseError for a common Error()/Unwrap()/Code()
// surface and a fluent With* builder, then adds its own domain
// context. errors.Is/errors.As work across the whole chain.
package errors

import stdErrors "errors"

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return stdErrors.As(err, &se)
}

// IsIndexError reports whether err is (or wraps) an IndexError.
func IsIndexError(err error) bool {
	var ie *IndexError
	return stdErrors.As(err, &ie)
}

// IsCorruptionError reports whether err is (or wraps) a CorruptionError.
func IsCorruptionError(err error) bool {
	var ce *CorruptionError
	return stdErrors.As(err, &ce)
}

// AsValidationError extracts a ValidationError from err's chain, if present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorageError extracts a StorageError from err's chain, if present.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsIndexError extracts an IndexError from err's chain, if present.
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// AsCorruptionError extracts a CorruptionError from err's chain, if present.
func AsCorruptionError(err error) (*CorruptionError, bool) {
	var ce *CorruptionError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// GetErrorCode extracts the ErrorCode from any of the taxonomy's
// error kinds, or ErrorCodeInternal for anything else.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if se, ok := AsStorageError(err); ok {
		return se.Code()
	}
	if ie, ok := AsIndexError(err); ok {
		return ie.Code()
	}
	if ce, ok := AsCorruptionError(err); ok {
		return ce.Code()
	}
	return ErrorCodeInternal
}
