package segment

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTablespace(t *testing.T) {
	assert.NoError(t, ValidateTablespace("orders"))
	assert.NoError(t, ValidateTablespace("orders-v2_final"))
	assert.Error(t, ValidateTablespace(""))
	assert.Error(t, ValidateTablespace("has a space"))
	assert.Error(t, ValidateTablespace("has/slash"))
}

func TestDescriptor_NameAndPath(t *testing.T) {
	d := New("/data", "orders", 7)
	assert.Equal(t, "orders_0000000007.dblog", d.Name())
	assert.Equal(t, filepath.Join("/data", "orders_0000000007.dblog"), d.Path())
}

func TestDescriptor_SizeAbsentFile(t *testing.T) {
	d := New(t.TempDir(), "orders", 0)
	size, err := d.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestDescriptor_SizeExistingFile(t *testing.T) {
	dir := t.TempDir()
	d := New(dir, "orders", 0)
	require.NoError(t, os.WriteFile(d.Path(), []byte("hello"), 0o644))

	size, err := d.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
}

func TestParse_roundTrip(t *testing.T) {
	d := New("/data", "orders", 42)
	parsed, err := Parse(d.Path())
	require.NoError(t, err)
	assert.Equal(t, "orders", parsed.Tablespace)
	assert.EqualValues(t, 42, parsed.Index)
}

func TestParse_rejectsMalformedNames(t *testing.T) {
	cases := []string{
		"/data/orders.dblog",
		"/data/orders_42.dblog",
		"/data/orders_0000000042.log",
		"/data/_0000000042.dblog",
	}
	for _, path := range cases {
		_, err := Parse(path)
		assert.Error(t, err, path)
	}
}

func TestByIndex_sortOrder(t *testing.T) {
	descs := []Descriptor{
		New("/d", "t", 3),
		New("/d", "t", 1),
		New("/d", "t", 2),
	}
	sort.Sort(ByIndex(descs))
	assert.EqualValues(t, 1, descs[0].Index)
	assert.EqualValues(t, 2, descs[1].Index)
	assert.EqualValues(t, 3, descs[2].Index)
}

func TestDiscover_skipsUnparsableAndForeignNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"orders_0000000000.dblog",
		"orders_0000000001.dblog",
		"orders_bad.dblog",
		"orders_v2_0000000000.dblog",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	found, skipped, err := Discover(dir, "orders")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Len(t, skipped, 2)
}
