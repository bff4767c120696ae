// Package stream defines the byte-stream contract that
// both the monolithic and segmented log backends satisfy, and the
// closed set of open modes every backend validates against.
//
// A ByteStream is a scoped resource: Open lazily acquires the
// underlying OS handle(s) and is a no-op if already open; Close
// flushes and releases them and is idempotent. I/O on a closed stream
// fails with a NotOpen error.
package stream

import (
	"strings"

	"github.com/vaultlog/vaultlog/pkg/errors"
)

// Mode is a byte-stream open mode.
type Mode string

// The closed set of modes a ByteStream accepts.
const (
	ModeRead           Mode = "rb"
	ModeAppend         Mode = "ab"
	ModeReadUpdate     Mode = "r+b"
	ModeReadAppend     Mode = "a+b"
	ModeTruncateWrite  Mode = "wb"
	ModeTruncateUpdate Mode = "w+b"
)

var validModes = map[Mode]struct{}{
	ModeRead:           {},
	ModeAppend:         {},
	ModeReadUpdate:     {},
	ModeReadAppend:     {},
	ModeTruncateWrite:  {},
	ModeTruncateUpdate: {},
}

// ParseMode validates raw against the closed set of modes, returning
// an InvalidArgument error for anything else.
func ParseMode(raw string) (Mode, error) {
	m := Mode(strings.TrimSpace(raw))
	if _, ok := validModes[m]; !ok {
		return "", errors.NewInvalidArgumentError("mode", raw, "unsupported byte-stream mode")
	}
	return m, nil
}

// CanRead reports whether m permits read operations.
func (m Mode) CanRead() bool {
	switch m {
	case ModeAppend, ModeTruncateWrite:
		return false
	default:
		return true
	}
}

// CanWrite reports whether m permits write operations.
func (m Mode) CanWrite() bool {
	return m != ModeRead
}

// CreatesOnOpen reports whether m permits creating a new underlying
// file when none exists yet (append or truncate modes).
func (m Mode) CreatesOnOpen() bool {
	return m != ModeRead && m != ModeReadUpdate
}

// Truncates reports whether m discards any existing file contents on
// open.
func (m Mode) Truncates() bool {
	return m == ModeTruncateWrite || m == ModeTruncateUpdate
}

// Appends reports whether m always positions writes at the current
// end of the stream.
func (m Mode) Appends() bool {
	return m == ModeAppend || m == ModeReadAppend
}

// Whence values for Seek, mirroring io.Seek*.
const (
	SeekStart   = 0
	SeekCurrent = 1
	SeekEnd     = 2
)

// ByteStream is the uniform contract implemented by both backends: write,
// read, seek, tell, close, and scoped open, implemented identically by
// the monolithic and segmented backends.
type ByteStream interface {
	// Open lazily acquires the underlying OS handle(s). Calling Open
	// again while already open is a no-op.
	Open() error

	// Close flushes buffered bytes and releases the underlying OS
	// handle(s). Close is idempotent.
	Close() error

	// IsOpen reports whether the stream currently holds an open handle.
	IsOpen() bool

	// Write appends/overwrites bytes according to mode and returns the
	// number of bytes written.
	Write(p []byte) (int, error)

	// Read reads up to size bytes, or all remaining bytes when
	// size < 0. It returns fewer bytes than requested only at
	// end-of-log; it never returns an error for a short read by
	// itself.
	Read(size int) ([]byte, error)

	// Seek repositions the stream to offset, interpreted per whence,
	// and returns the new absolute global position. Negative resulting
	// positions are clamped to 0.
	Seek(offset int64, whence int) (int64, error)

	// Tell returns the current absolute global position.
	Tell() (int64, error)
}
