// Package errors defines the sentinel errors shared across imgurdl and small helpers
// for wrapping them with context. Domain packages declare typed errors (FetchError,
// ResolverError, PathIsFileError, ...) that match these sentinels through errors.Is.
package errors

import "fmt"

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to rename temporary config file")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists (use --force to overwrite)")
	ErrConfigMarshal     = fmt.Errorf("failed to marshal config to YAML")

	ErrUnsupportedConfigVersion = fmt.Errorf("unsupported config version")
	ErrWorkersInvalid           = fmt.Errorf("workers must be at least 1")
	ErrHTTPTimeoutNegative      = fmt.Errorf("http_timeout cannot be negative")
	ErrFetchTimeoutNegative     = fmt.Errorf("fetch_timeout cannot be negative")
	ErrInvalidOutputFormat      = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel          = fmt.Errorf("invalid log level")
	ErrInvalidArchiveFormat     = fmt.Errorf("invalid archive format")
	ErrUnknownConfigKey         = fmt.Errorf("unknown configuration key")
)

// Gallery and download errors.
var (
	// ErrResolve is matched by every gallery listing failure.
	ErrResolve = fmt.Errorf("gallery resolution failed")

	// ErrInvalidGalleryRef is returned when an argument is neither an album URL nor a subreddit name.
	ErrInvalidGalleryRef = fmt.Errorf("invalid gallery reference")

	// ErrMissingClientID is returned when no Imgur client id is configured.
	ErrMissingClientID = fmt.Errorf("imgur client id is not configured")

	// ErrPathIsFile is returned when a download directory path is occupied by a non-directory.
	ErrPathIsFile = fmt.Errorf("path exists and is not a directory")

	// ErrInvalidPath is returned when a file or directory path is invalid.
	ErrInvalidPath = fmt.Errorf("invalid path")

	// ErrDownloadFailed is matched by every per-item fetch failure.
	ErrDownloadFailed = fmt.Errorf("download failed")

	// ErrNamingCollisionExhausted is returned when the id-suffixed name collides as well.
	ErrNamingCollisionExhausted = fmt.Errorf("naming collision could not be resolved")

	// ErrBatchFailed is returned by commands when a batch completed with failed items.
	ErrBatchFailed = fmt.Errorf("batch completed with failures")
)

// Hook errors.
var (
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrInvalidOutputFormatWithDetails is a helper to create a wrapped error with the invalid format and valid options.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: text, json", ErrInvalidOutputFormat, format)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level and valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: error, warn, info, debug", ErrInvalidLogLevel, level)
}

// ErrInvalidArchiveFormatWithDetails is a helper to create a wrapped error with the invalid archive format.
func ErrInvalidArchiveFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: zip, tar.gz", ErrInvalidArchiveFormat, format)
}

// ErrUnsupportedConfigVersionWithDetails reports a config version outside the supported range.
func ErrUnsupportedConfigVersionWithDetails(version, constraint string) error {
	return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedConfigVersion, version, constraint)
}

// ErrUnknownConfigKeyWithName reports an unknown key passed to config get/set.
func ErrUnknownConfigKeyWithName(key string) error {
	return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
}
