// Package segment implements the segment descriptor: an
// immutable value identifying one segment file of a segmented log,
// plus the helpers the segmented byte-stream backend uses to discover,
// name, and order segments on disk.
//
// A segment descriptor's path construction and filename parsing are
// naming contract: <tablespace>_<index:010>.dblog.
package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/vaultlog/vaultlog/pkg/errors"
)

// Extension is the fixed suffix every segment (and the monolithic log)
// file carries.
const Extension = ".dblog"

// namePattern matches ^([A-Za-z0-9_-]+)_(\d{10})\.dblog$
var namePattern = regexp.MustCompile(`^([A-Za-z0-9_-]+)_(\d{10})\.dblog$`)

// tablespacePattern validates a bare tablespace identifier.
var tablespacePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateTablespace rejects a tablespace that doesn't match
// [A-Za-z0-9_-]+.
func ValidateTablespace(tablespace string) error {
	if !tablespacePattern.MatchString(tablespace) {
		return errors.NewInvalidArgumentError("tablespace", tablespace,
			"tablespace must match [A-Za-z0-9_-]+ and be non-empty")
	}
	return nil
}

// Descriptor identifies one segment file. It is immutable once
// constructed; only its backing file may change (created, grown,
// removed) by the stream backend.
type Descriptor struct {
	Tablespace string
	Index      uint64
	Dir        string
}

// New builds a descriptor for the given tablespace/index pair, rooted
// at dir.
func New(dir, tablespace string, index uint64) Descriptor {
	return Descriptor{Tablespace: tablespace, Index: index, Dir: dir}
}

// Name returns the segment's bare filename:
// <tablespace>_<index:010>.dblog.
func (d Descriptor) Name() string {
	return fmt.Sprintf("%s_%010d%s", d.Tablespace, d.Index, Extension)
}

// Path returns the segment's full filesystem path.
func (d Descriptor) Path() string {
	return filepath.Join(d.Dir, d.Name())
}

// Size returns the segment's current on-disk size, or 0 if its file
// doesn't exist yet.
func (d Descriptor) Size() (int64, error) {
	stat, err := os.Stat(d.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return stat.Size(), nil
}

// Parse parses a segment's path into a Descriptor, rejecting filenames
// that don't match ^[A-Za-z0-9_-]+_\d{10}\.dblog$.
func Parse(path string) (Descriptor, error) {
	dir, base := filepath.Split(path)
	match := namePattern.FindStringSubmatch(base)
	if match == nil {
		return Descriptor{}, errors.NewInvalidArgumentError("path", path,
			"filename does not match <tablespace>_<index:010>.dblog")
	}

	index, err := strconv.ParseUint(match[2], 10, 64)
	if err != nil {
		return Descriptor{}, errors.NewInvalidArgumentError("path", path,
			"segment index is not a valid unsigned integer")
	}

	return Descriptor{Tablespace: match[1], Index: index, Dir: filepath.Clean(dir)}, nil
}

// ByIndex sorts descriptors in ascending index order, matching
// index order.
type ByIndex []Descriptor

func (s ByIndex) Len() int           { return len(s) }
func (s ByIndex) Less(i, j int) bool { return s[i].Index < s[j].Index }
func (s ByIndex) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Discover globs dir for <tablespace>_*.dblog files, parses each,
// skipping (and reporting via skipped) any filename that fails to
// parse, so directory gaps or foreign files are visible to the caller
// rather than silently absorbed.
func Discover(dir, tablespace string) (found []Descriptor, skipped []string, err error) {
	pattern := filepath.Join(dir, tablespace+"_*"+Extension)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, err
	}

	for _, path := range matches {
		desc, perr := Parse(path)
		if perr != nil || desc.Tablespace != tablespace {
			skipped = append(skipped, path)
			continue
		}
		found = append(found, desc)
	}
	return found, skipped, nil
}
