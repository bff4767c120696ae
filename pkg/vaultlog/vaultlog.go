// Package vaultlog is the public entry point for the embedded
// key/value store: a single exported DB type wrapping the storage
// engine.
package vaultlog

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vaultlog/vaultlog/internal/engine"
	"github.com/vaultlog/vaultlog/internal/index"
	"github.com/vaultlog/vaultlog/internal/segment"
	"github.com/vaultlog/vaultlog/internal/stream"
	"github.com/vaultlog/vaultlog/pkg/errors"
	"github.com/vaultlog/vaultlog/pkg/filesys"
	"github.com/vaultlog/vaultlog/pkg/logger"
	"github.com/vaultlog/vaultlog/pkg/options"
)

// DB is an embedded, single-process key/value store backed by an
// append-only log and an in-memory offset index. A DB owns exactly one
// tablespace: one monolithic file or one family of segment files.
type DB struct {
	eng *engine.Engine
	opt options.Options
	log *zap.SugaredLogger
}

// Open builds a DB for tablespace under the configured data directory,
// applying opts over the library defaults. Construction performs the
// startup scan: a corrupted log fails Open outright and no DB is
// returned.
func Open(ctx context.Context, tablespace string, opts ...options.OptionFunc) (*DB, error) {
	if err := segment.ValidateTablespace(tablespace); err != nil {
		return nil, err
	}

	opt := options.NewDefaultOptions()
	opt.Tablespace = tablespace
	for _, apply := range opts {
		apply(&opt)
	}

	mode, err := stream.ParseMode(string(opt.Mode))
	if err != nil {
		return nil, err
	}

	log := logger.New("vaultlog")

	var bs stream.ByteStream
	switch opt.Backend {
	case options.BackendMonolithic:
		if err := filesys.CreateDir(opt.DataDir, 0o755, true); err != nil {
			return nil, errors.NewIOError(err, opt.DataDir, 0)
		}
		path := filepath.Join(opt.DataDir, opt.Tablespace+segment.Extension)
		bs = stream.NewMonolithic(path, mode, log)
	case options.BackendSegmented:
		bs, err = stream.NewSegmented(opt.DataDir, opt.Tablespace, int64(opt.SegmentSize), mode, log)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewInvalidArgumentError("backend", opt.Backend, "unsupported backend kind")
	}

	eng, err := engine.Open(bs, index.New(), log)
	if err != nil {
		return nil, err
	}

	return &DB{eng: eng, opt: opt, log: log}, nil
}

// Set stores value under key, overwriting any existing value. An empty
// key and an empty value are both valid.
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	return db.eng.Set([]byte(key), value)
}

// Get retrieves the current value stored under key, or a KeyNotFound
// error if no live record exists for it.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	return db.eng.Get([]byte(key))
}

// Has reports whether key currently resolves to a live record.
func (db *DB) Has(ctx context.Context, key string) bool {
	return db.eng.Has([]byte(key))
}

// Delete removes key. It is idempotent: deleting an absent key is a
// no-op.
func (db *DB) Delete(ctx context.Context, key string) error {
	return db.eng.Delete([]byte(key))
}

// Close flushes and releases the underlying log file(s).
func (db *DB) Close(ctx context.Context) error {
	return db.eng.Close()
}
