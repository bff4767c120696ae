// Package record implements the log record codec: the fixed 17-byte
// header layout plus key/value payload, and the forward-only decode
// loop the storage engine drives during its startup scan and
// per-operation reads.
//
// The header is a 1-byte operation tag followed by two 8-byte
// native-endian size fields, with no separators between consecutive
// records.
package record

import (
	"encoding/binary"
	"io"

	"github.com/vaultlog/vaultlog/pkg/errors"
)

// Op is the one-byte operation tag at the start of every record.
type Op byte

const (
	// OpSet marks a record that stores a value for a key.
	OpSet Op = 0
	// OpDelete marks a tombstone for a key. Its value is always empty.
	OpDelete Op = 1
)

// HeaderSize is the fixed width of a record's header: 1 byte op +
// 8 bytes key_size + 8 bytes value_size.
const HeaderSize = 17

// Record is one decoded log entry: a SET with its key and value, or a
// DELETE with its key and an empty value.
type Record struct {
	Op    Op
	Key   []byte
	Value []byte
}

// Len returns the total on-disk size of the record: HeaderSize plus
// the key and value lengths.
func (r Record) Len() int {
	return HeaderSize + len(r.Key) + len(r.Value)
}

// Encode serializes op/key/value into their on-disk representation:
// the 17-byte header followed by key||value, with no padding and
// native endianness for the two size fields.
func Encode(op Op, key, value []byte) []byte {
	buf := make([]byte, HeaderSize+len(key)+len(value))
	buf[0] = byte(op)
	binary.NativeEndian.PutUint64(buf[1:9], uint64(len(key)))
	binary.NativeEndian.PutUint64(buf[9:17], uint64(len(value)))
	copy(buf[HeaderSize:], key)
	copy(buf[HeaderSize+len(key):], value)
	return buf
}

// reader is the minimal surface record.Decode needs from a
// byte-stream: forward-only reads from the current position plus the
// current offset for corruption reporting. stream.ByteStream
// satisfies it directly.
type reader interface {
	Read(size int) ([]byte, error)
	Tell() (int64, error)
}

// Decode consumes one record from r's current position:
//
//  1. note the current offset;
//  2. read 17 header bytes — zero bytes read means a clean
//     end-of-log, signaled by io.EOF;
//  3. fewer than 17 (but more than zero) is a truncated-header
//     corruption at that offset;
//  4. an operation byte outside {0,1} is a corruption at that offset;
//  5. read key_size+value_size payload bytes — fewer than declared is
//     a truncated-payload corruption at that offset;
//  6. split the payload into key and value by their declared sizes.
//
// Decode never seeks; it only consumes bytes forward.
func Decode(r reader) (*Record, int64, error) {
	offset, err := r.Tell()
	if err != nil {
		return nil, 0, err
	}

	header, err := r.Read(HeaderSize)
	if err != nil {
		return nil, offset, err
	}
	if len(header) == 0 {
		return nil, offset, io.EOF
	}
	if len(header) < HeaderSize {
		return nil, offset, errors.NewCorruptionError(offset, "truncated header")
	}

	op := Op(header[0])
	if op != OpSet && op != OpDelete {
		return nil, offset, errors.NewCorruptionError(offset, "invalid operation byte")
	}

	keySize := binary.NativeEndian.Uint64(header[1:9])
	valueSize := binary.NativeEndian.Uint64(header[9:17])
	payloadSize := keySize + valueSize

	var payload []byte
	if payloadSize > 0 {
		payload, err = r.Read(int(payloadSize))
		if err != nil {
			return nil, offset, err
		}
	}
	if uint64(len(payload)) < payloadSize {
		return nil, offset, errors.NewCorruptionError(offset, "truncated payload")
	}

	rec := &Record{
		Op:    op,
		Key:   payload[:keySize:keySize],
		Value: payload[keySize:payloadSize:payloadSize],
	}
	return rec, offset, nil
}
