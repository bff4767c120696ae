package record

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultlog/vaultlog/pkg/errors"
)

// fakeReader is a minimal reader backed by an in-memory byte slice, so
// decode tests don't need a real byte-stream.
type fakeReader struct {
	buf []byte
	pos int64
}

func (f *fakeReader) Tell() (int64, error) { return f.pos, nil }

func (f *fakeReader) Read(size int) ([]byte, error) {
	if f.pos >= int64(len(f.buf)) {
		return nil, nil
	}
	end := f.pos + int64(size)
	if end > int64(len(f.buf)) {
		end = int64(len(f.buf))
	}
	out := f.buf[f.pos:end]
	f.pos = end
	return out, nil
}

func TestEncodeDecode_roundTrip(t *testing.T) {
	buf := Encode(OpSet, []byte("hello"), []byte("world"))
	require.Equal(t, HeaderSize+len("hello")+len("world"), len(buf))

	r := &fakeReader{buf: buf}
	rec, offset, err := Decode(r)
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset)
	assert.Equal(t, OpSet, rec.Op)
	assert.Equal(t, []byte("hello"), rec.Key)
	assert.Equal(t, []byte("world"), rec.Value)
}

func TestEncode_deleteHasEmptyValue(t *testing.T) {
	buf := Encode(OpDelete, []byte("key"), nil)
	r := &fakeReader{buf: buf}
	rec, _, err := Decode(r)
	require.NoError(t, err)
	assert.Equal(t, OpDelete, rec.Op)
	assert.Empty(t, rec.Value)
}

func TestDecode_cleanEOF(t *testing.T) {
	r := &fakeReader{buf: nil}
	_, _, err := Decode(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecode_truncatedHeader(t *testing.T) {
	r := &fakeReader{buf: []byte{0, 1, 2, 3}}
	_, offset, err := Decode(r)
	assert.Equal(t, int64(0), offset)
	assert.True(t, errors.IsCorruptionError(err))
}

func TestDecode_invalidOperationByte(t *testing.T) {
	buf := Encode(OpSet, []byte("k"), []byte("v"))
	buf[0] = 7
	r := &fakeReader{buf: buf}
	_, _, err := Decode(r)
	assert.True(t, errors.IsCorruptionError(err))
}

func TestDecode_truncatedPayload(t *testing.T) {
	buf := Encode(OpSet, []byte("key"), []byte("value"))
	truncated := buf[:HeaderSize+1]
	r := &fakeReader{buf: truncated}
	_, _, err := Decode(r)
	assert.True(t, errors.IsCorruptionError(err))

	ce, ok := errors.AsCorruptionError(err)
	require.True(t, ok)
	assert.Equal(t, "truncated payload", ce.Cause())
}

func TestDecode_offsetAdvancesAcrossMultipleRecords(t *testing.T) {
	first := Encode(OpSet, []byte("a"), []byte("1"))
	second := Encode(OpDelete, []byte("ab"), nil)
	r := &fakeReader{buf: append(first, second...)}

	_, offset1, err := Decode(r)
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset1)

	_, offset2, err := Decode(r)
	require.NoError(t, err)
	assert.Equal(t, int64(len(first)), offset2)
}
