// Package filesys provides the small set of filesystem utilities the
// stream and segment packages build on: directory creation/existence
// checks and glob-based directory listing.
package filesys

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrIsNotDir is returned when a path that was expected to be a
// directory turns out to be a regular file.
var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates a directory at dirPath with the given permissions.
//
// If the directory already exists:
//   - if force is true, it proceeds without error;
//   - if force is false, it returns the stat error as-is.
//
// It returns ErrIsNotDir if the existing path is a file.
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}
	if !force && !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dirPath, permission)
}

// Exists reports whether a file or directory exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return stat.IsDir(), nil
}

// Glob lists the files matching pattern, sorted lexicographically by
// filepath.Glob's own contract.
func Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// RemoveFile deletes the file at path. Removing a file that doesn't
// exist is not an error.
func RemoveFile(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
