// Package fsutil provides the filesystem helpers used by imgurdl: download directory
// setup, default paths, and atomic file placement.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
)

// PathIsFileError is returned when a download directory path is occupied by a file.
type PathIsFileError struct {
	Path string
}

func (e *PathIsFileError) Error() string {
	return fmt.Sprintf("%s: %s", pkgerrors.ErrPathIsFile, e.Path)
}

// Is matches pkgerrors.ErrPathIsFile.
func (e *PathIsFileError) Is(target error) bool {
	return target == pkgerrors.ErrPathIsFile
}

// EnsureDir creates a directory and all necessary parent directories with default permissions if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of a file path if it doesn't exist.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// EnsureDownloadDir prepares the directory a batch is written into.
// Absolute names are used as-is; relative names are placed under root.
// It fails with *PathIsFileError when a non-directory occupies the path and
// returns the absolute, cleaned directory path otherwise.
func EnsureDownloadDir(name, root string) (string, error) {
	absPath, err := ResolveDownloadDir(name, root)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	switch {
	case err == nil && !info.IsDir():
		return "", &PathIsFileError{Path: absPath}
	case err == nil:
		return absPath, nil
	case !os.IsNotExist(err):
		return "", pkgerrors.Wrapf(err, "failed to stat download directory %s", absPath)
	}

	if err := EnsureDir(absPath); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to create download directory %s", absPath)
	}
	return absPath, nil
}
