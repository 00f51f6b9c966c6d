package fsutil

// File and directory permission constants.
// Downloaded images are user content, so they use the default (world-readable) modes.
const (
	// File modes.
	FileModeDefault = 0o644 // -rw-r--r--: downloaded images and archives
	FileModeSecure  = 0o600 // -rw-------: config files holding API credentials

	// Directory modes.
	DirModeDefault = 0o755 // drwxr-xr-x: download directories
	DirModeSecure  = 0o700 // drwx------: config directory

	// TempPattern is the pattern for in-progress download files.
	TempPattern = ".imgurdl-*.part"
)
