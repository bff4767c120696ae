package stream

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonolithic_openIsLazyAndIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.dblog")
	m := NewMonolithic(path, ModeReadAppend, nil)
	assert.False(t, m.IsOpen())

	require.NoError(t, m.Open())
	assert.True(t, m.IsOpen())
	require.NoError(t, m.Open())
	assert.True(t, m.IsOpen())
}

func TestMonolithic_writeReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.dblog")
	m := NewMonolithic(path, ModeReadAppend, nil)
	require.NoError(t, m.Open())
	defer m.Close()

	n, err := m.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = m.Seek(0, SeekStart)
	require.NoError(t, err)

	got, err := m.Read(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestMonolithic_ioAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.dblog")
	m := NewMonolithic(path, ModeReadAppend, nil)
	require.NoError(t, m.Open())
	require.NoError(t, m.Close())

	_, err := m.Write([]byte("x"))
	assert.Error(t, err)
	_, err = m.Read(1)
	assert.Error(t, err)
}

func TestMonolithic_readOnlyRejectsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.dblog")
	seed := NewMonolithic(path, ModeTruncateWrite, nil)
	require.NoError(t, seed.Open())
	_, err := seed.Write([]byte("seed"))
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	m := NewMonolithic(path, ModeRead, nil)
	require.NoError(t, m.Open())
	defer m.Close()

	_, err = m.Write([]byte("x"))
	assert.Error(t, err)
}

func TestMonolithic_readAllWithNegativeSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.dblog")
	m := NewMonolithic(path, ModeReadAppend, nil)
	require.NoError(t, m.Open())
	defer m.Close()

	_, err := m.Write([]byte("abcdef"))
	require.NoError(t, err)
	_, err = m.Seek(0, SeekStart)
	require.NoError(t, err)

	got, err := m.Read(-1)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), got)
}

func TestMonolithic_tellTracksPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.dblog")
	m := NewMonolithic(path, ModeReadAppend, nil)
	require.NoError(t, m.Open())
	defer m.Close()

	pos, err := m.Tell()
	require.NoError(t, err)
	assert.Zero(t, pos)

	_, err = m.Write([]byte("abc"))
	require.NoError(t, err)

	pos, err = m.Tell()
	require.NoError(t, err)
	assert.EqualValues(t, 3, pos)
}
