package vaultlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultlog/vaultlog/internal/segment"
	"github.com/vaultlog/vaultlog/pkg/options"
)

func openTestDB(t *testing.T, opts ...options.OptionFunc) *DB {
	t.Helper()
	dir := t.TempDir()
	base := []options.OptionFunc{options.WithDataDir(dir), options.WithMode("a+b")}
	db, err := Open(context.Background(), "orders", append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(context.Background()) })
	return db
}

func TestDB_standardSetGet(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.Set(ctx, "normal_key", []byte("normal_value")))
	got, err := db.Get(ctx, "normal_key")
	require.NoError(t, err)
	assert.Equal(t, []byte("normal_value"), got)
}

func TestDB_updateWins(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.Set(ctx, "hello", []byte("world")))
	require.NoError(t, db.Set(ctx, "hello", []byte("all")))

	got, err := db.Get(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("all"), got)
}

func TestDB_deleteThenGetFails(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.Set(ctx, "k", []byte("v")))
	require.NoError(t, db.Delete(ctx, "k"))

	_, err := db.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, db.Has(ctx, "k"))
}

func TestDB_persistenceAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	dbA, err := Open(ctx, "orders", options.WithDataDir(dir), options.WithMode("a+b"))
	require.NoError(t, err)
	require.NoError(t, dbA.Set(ctx, "k", []byte("v")))
	require.NoError(t, dbA.Close(ctx))

	dbB, err := Open(ctx, "orders", options.WithDataDir(dir), options.WithMode("a+b"))
	require.NoError(t, err)
	defer dbB.Close(ctx)

	got, err := dbB.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestDB_interleavedMultiKey(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.Set(ctx, "k1", []byte("alpha")))
	require.NoError(t, db.Set(ctx, "k2", []byte("beta")))
	require.NoError(t, db.Set(ctx, "k1", []byte("gamma")))
	require.NoError(t, db.Delete(ctx, "k2"))
	require.NoError(t, db.Set(ctx, "k3", []byte("delta")))
	require.NoError(t, db.Set(ctx, "k2", []byte("epsilon")))

	k1, err := db.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("gamma"), k1)

	k2, err := db.Get(ctx, "k2")
	require.NoError(t, err)
	assert.Equal(t, []byte("epsilon"), k2)

	k3, err := db.Get(ctx, "k3")
	require.NoError(t, err)
	assert.Equal(t, []byte("delta"), k3)
}

func TestDB_binarySafeEdgeRecord(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := Open(ctx, "orders", options.WithDataDir(dir), options.WithMode("a+b"), options.WithBackend(options.BackendMonolithic))
	require.NoError(t, err)

	require.NoError(t, db.Set(ctx, "", []byte("")))
	got, err := db.Get(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, db.Close(ctx))

	raw, err := os.ReadFile(filepath.Join(dir, "orders"+segment.Extension))
	require.NoError(t, err)
	require.Len(t, raw, 17)
	assert.Equal(t, byte(0), raw[0])
	for _, b := range raw[1:] {
		assert.Equal(t, byte(0), b)
	}
}

func TestDB_segmentedRollover(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := Open(ctx, "orders",
		options.WithDataDir(dir),
		options.WithMode("a+b"),
		options.WithBackend(options.BackendSegmented),
		options.WithSegmentSize(32))
	require.NoError(t, err)
	defer db.Close(ctx)

	value := make([]byte, 100)
	for i := range value {
		value[i] = byte('a' + i%26)
	}
	require.NoError(t, db.Set(ctx, "bigkey", value))

	got, err := db.Get(ctx, "bigkey")
	require.NoError(t, err)
	assert.Equal(t, value, got)

	found, _, err := segment.Discover(dir, "orders")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(found), 3)
}
