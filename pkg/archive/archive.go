// Package archive packs download directories into zip or tar.gz files.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/fsutil"
)

// Format is an archive container format.
type Format string

// Supported formats.
const (
	FormatZip   Format = "zip"
	FormatTarGz Format = "tar.gz"
)

// ParseFormat validates a user-supplied format name. The empty string means no archive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatZip, FormatTarGz:
		return f, nil
	case "tgz":
		return FormatTarGz, nil
	default:
		return "", pkgerrors.ErrInvalidArchiveFormatWithDetails(s)
	}
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// PathFor returns the archive path placed next to dir, e.g. /x/album -> /x/album.zip.
func (f Format) PathFor(dir string) string {
	return filepath.Clean(dir) + f.Extension()
}

func (f Format) archiver() (archives.Archiver, error) {
	switch f {
	case FormatZip:
		return archives.Zip{}, nil
	case FormatTarGz:
		return archives.CompressedArchive{
			Compression: archives.Gz{},
			Archival:    archives.Tar{},
		}, nil
	default:
		return nil, pkgerrors.ErrInvalidArchiveFormatWithDetails(string(f))
	}
}

// Manager handles archive extraction and creation operations.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Create writes sourceDir, as a top-level folder of the same name, to archivePath.
// Partial downloads are left out. The archive appears at archivePath only once complete.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath string, format Format) error {
	archiver, err := format.archiver()
	if err != nil {
		return err
	}
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath: filepath.Base(absolutePath),
	})
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}
	files = withoutPartials(files)

	if err := fsutil.EnsureFileDir(archivePath); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(archivePath), fsutil.TempPattern)
	if err != nil {
		return fmt.Errorf("failed to create output file for %s: %w", archivePath, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := archiver.Archive(ctx, tmp, files); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to create archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Chmod(tmpPath, fsutil.FileModeDefault); err != nil {
		return fmt.Errorf("failed to set archive permissions: %w", err)
	}
	return fsutil.Move(tmpPath, archivePath)
}

func withoutPartials(files []archives.FileInfo) []archives.FileInfo {
	kept := files[:0]
	for _, f := range files {
		if ok, _ := filepath.Match(fsutil.TempPattern, f.Name()); ok {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// ExtractAll extracts all regular files and directories from an archive into destDir.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return am.extractEntry(fsys, path, destDir, d)
	})
}

func (am *Manager) extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}
	if !fs.ValidPath(path) {
		return fmt.Errorf("refusing to extract %q: %w", path, pkgerrors.ErrInvalidPath)
	}
	targetPath := filepath.Join(destDir, filepath.FromSlash(path))

	if d.IsDir() {
		return fsutil.EnsureDir(targetPath)
	}
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	return am.writeRegularFile(fsys, path, targetPath, info)
}

func (am *Manager) writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return err
	}
	dstFile, err := fsutil.CreateFilePerm(targetPath, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", path, err)
	}
	if err := os.Chtimes(targetPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time for %s: %w", targetPath, err)
	}
	return nil
}
