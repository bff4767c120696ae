// Package engine implements the append-only storage engine: it drives
// one byte-stream backend and one offset index through startup replay
// and the SET/DELETE/GET operations.
package engine

import (
	"io"

	"go.uber.org/zap"

	"github.com/vaultlog/vaultlog/internal/index"
	"github.com/vaultlog/vaultlog/internal/record"
	"github.com/vaultlog/vaultlog/internal/stream"
	"github.com/vaultlog/vaultlog/pkg/errors"
)

// Engine is the append-only storage engine: one byte-stream backend
// plus one in-memory offset index rebuilt from that backend on
// construction.
type Engine struct {
	bs  stream.ByteStream
	idx *index.Index
	log *zap.SugaredLogger
}

// Open constructs an Engine over bs: opens bs, performs the startup
// scan to rebuild idx from the log, seeks to end-of-log, and returns.
// A corrupted log aborts construction; no partially-built engine is
// returned.
func Open(bs stream.ByteStream, idx *index.Index, log *zap.SugaredLogger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	e := &Engine{bs: bs, idx: idx, log: log}

	if err := e.bs.Open(); err != nil {
		return nil, err
	}

	if err := e.replay(); err != nil {
		e.bs.Close()
		return nil, err
	}

	if _, err := e.bs.Seek(0, stream.SeekEnd); err != nil {
		e.bs.Close()
		return nil, err
	}

	return e, nil
}

// replay performs the startup scan: seek to 0, decode records forward
// until clean EOF, applying each to idx. A record past a corruption
// point is never applied and the replay fails; entries applied to idx
// before that point are not rolled back.
func (e *Engine) replay() error {
	if _, err := e.bs.Seek(0, stream.SeekStart); err != nil {
		return err
	}

	var count int
	for {
		currentOffset, err := e.bs.Tell()
		if err != nil {
			return err
		}

		rec, _, err := record.Decode(e.bs)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch rec.Op {
		case record.OpSet:
			e.idx.Set(string(rec.Key), currentOffset)
		case record.OpDelete:
			e.idx.Delete(string(rec.Key))
		}
		count++
	}

	e.log.Debugw("replayed log", "records", count, "keys", e.idx.Len())
	return nil
}

// Set appends a SET record for key/value and points the index at its
// offset. Last-write-wins: any earlier offset for key is abandoned in
// the log.
func (e *Engine) Set(key, value []byte) error {
	offset, err := e.bs.Seek(0, stream.SeekEnd)
	if err != nil {
		return err
	}

	buf := record.Encode(record.OpSet, key, value)
	if _, err := e.bs.Write(buf); err != nil {
		return err
	}

	e.idx.Set(string(key), offset)
	return nil
}

// Delete removes key. It is idempotent: deleting an absent key writes
// nothing and succeeds silently.
func (e *Engine) Delete(key []byte) error {
	if !e.idx.Has(string(key)) {
		return nil
	}

	if _, err := e.bs.Seek(0, stream.SeekEnd); err != nil {
		return err
	}

	buf := record.Encode(record.OpDelete, key, nil)
	if _, err := e.bs.Write(buf); err != nil {
		return err
	}

	e.idx.Delete(string(key))
	return nil
}

// Get returns the current value for key. A missing
// index entry fails KeyNotFound; a stale offset whose decoded record
// key doesn't match evicts the key from the index and fails
// InvalidOffset.
func (e *Engine) Get(key []byte) ([]byte, error) {
	offset, ok := e.idx.Get(string(key))
	if !ok {
		return nil, errors.NewKeyNotFoundError(string(key))
	}

	if _, err := e.bs.Seek(offset, stream.SeekStart); err != nil {
		return nil, err
	}

	rec, _, err := record.Decode(e.bs)
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewKeyNotFoundError(string(key))
		}
		return nil, err
	}

	if string(rec.Key) != string(key) {
		e.idx.Delete(string(key))
		return nil, errors.NewInvalidOffsetError(string(key), offset)
	}

	if _, err := e.bs.Seek(0, stream.SeekEnd); err != nil {
		return nil, err
	}

	return rec.Value, nil
}

// Has reports whether key currently resolves to a live record without
// reading the log.
func (e *Engine) Has(key []byte) bool {
	return e.idx.Has(string(key))
}

// Close flushes and releases the underlying byte-stream and discards
// the in-memory index. Close is idempotent (delegated to the
// byte-stream's own idempotent Close).
func (e *Engine) Close() error {
	e.idx.Close()
	return e.bs.Close()
}
