package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
)

const (
	// AppName is the name of the application used in paths
	AppName = "imgurdl"

	// DefaultDownloadDirName is the folder created in the user's home for downloads.
	DefaultDownloadDirName = "ImgurDownloads"
)

// DefaultDownloadRoot returns ~/ImgurDownloads.
func DefaultDownloadRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DefaultDownloadDirName), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ResolveDownloadDir returns the absolute directory for name.
// Relative names are joined onto root; an empty root means DefaultDownloadRoot.
func ResolveDownloadDir(name, root string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("download directory name cannot be empty: %w", pkgerrors.ErrInvalidPath)
	}
	name, err := ExpandHome(name)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}

	if root == "" {
		if root, err = DefaultDownloadRoot(); err != nil {
			return "", err
		}
	}
	if root, err = ExpandHome(root); err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", pkgerrors.Wrapf(pkgerrors.ErrInvalidPath, "download root %s", root)
	}
	return filepath.Join(absRoot, name), nil
}

// GetConfigDir returns the platform-specific config directory for the application
// On Linux: ~/.config/imgurdl/
// On macOS: ~/Library/Application Support/imgurdl/
// On Windows: %AppData%\imgurdl\
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}
