// Package config loads, validates and saves the imgurdl configuration file.
// The file holds Imgur API credentials and the download settings; missing
// values fall back to defaults and credentials can be supplied through the
// environment instead.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	Version string `yaml:"version"`

	// Imgur API access
	Imgur ImgurConfig `yaml:"imgur"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// ImgurConfig holds the API endpoint and credentials.
type ImgurConfig struct {
	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`
	AccessToken  string `yaml:"access_token,omitempty"`
	BaseURL      string `yaml:"base_url"`
}

// Settings represents general application settings.
type Settings struct {
	// Download settings
	DownloadDir   string `yaml:"download_dir"`
	Workers       int    `yaml:"workers"`
	ArchiveFormat string `yaml:"archive_format,omitempty"` // "", zip, tar.gz
	HooksDir      string `yaml:"hooks_dir,omitempty"`

	// Network settings
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	UserAgent    string        `yaml:"user_agent"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // error, warn, info, debug
}

// Default configuration values.
const (
	// CurrentVersion is written to new configuration files.
	CurrentVersion = "1.0"

	// SupportedVersions is the range of configuration versions this build reads.
	SupportedVersions = ">= 1.0, < 2.0"

	// DefaultBaseURL is the public Imgur API.
	DefaultBaseURL = "https://api.imgur.com"

	// DefaultWorkers matches the download engine's pool size.
	DefaultWorkers = 12

	// DefaultHTTPTimeout is the default timeout for API requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultFetchTimeout bounds a single image download.
	DefaultFetchTimeout = 2 * time.Minute

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "imgurdl/0.1"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// Environment variables that override the credentials of the file.
const (
	EnvClientID     = "IMGUR_CLIENT_ID"
	EnvClientSecret = "IMGUR_CLIENT_SECRET"
	EnvAccessToken  = "IMGUR_ACCESS_TOKEN"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Imgur: ImgurConfig{
			BaseURL: DefaultBaseURL,
		},
		Settings: Settings{
			DownloadDir:  "~/" + fsutil.DefaultDownloadDirName,
			Workers:      DefaultWorkers,
			HTTPTimeout:  DefaultHTTPTimeout,
			FetchTimeout: DefaultFetchTimeout,
			UserAgent:    DefaultUserAgent,
			OutputFormat: "text",
			LogLevel:     "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}

	return &config, nil
}

// ApplyEnv overrides credentials with non-empty environment values.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvClientID)); v != "" {
		c.Imgur.ClientID = v
	}
	if v := strings.TrimSpace(getenv(EnvClientSecret)); v != "" {
		c.Imgur.ClientSecret = v
	}
	if v := strings.TrimSpace(getenv(EnvAccessToken)); v != "" {
		c.Imgur.AccessToken = v
	}
}

// SaveConfig writes the configuration atomically through a temporary file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeSecure); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	file, err := os.CreateTemp(filepath.Dir(absPath), filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}
	tempPath := file.Name()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	_ = encoder.Close()
	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	// credentials live in this file
	if err := os.Chmod(tempPath, fsutil.FileModeSecure); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateVersion(c.Version); err != nil {
		return err
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	return nil
}

func validateVersion(v string) error {
	parsed, err := version.NewVersion(v)
	if err != nil {
		return errors.ErrUnsupportedConfigVersionWithDetails(v, SupportedVersions)
	}
	constraint, err := version.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(parsed) {
		return errors.ErrUnsupportedConfigVersionWithDetails(v, SupportedVersions)
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.Workers < 1 {
		return errors.ErrWorkersInvalid
	}
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	if s.FetchTimeout < 0 {
		return errors.ErrFetchTimeoutNegative
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	validArchives := map[string]bool{"": true, "zip": true, "tar.gz": true}
	if !validArchives[s.ArchiveFormat] {
		return errors.ErrInvalidArchiveFormatWithDetails(s.ArchiveFormat)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GetDefaultHooksDir returns the hooks directory next to the default config file.
func GetDefaultHooksDir() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "hooks"), nil
}

// HooksDir returns the configured hooks directory or the default one.
func (c *Config) HooksDir() string {
	if c.Settings.HooksDir != "" {
		return c.Settings.HooksDir
	}
	dir, err := GetDefaultHooksDir()
	if err != nil {
		return ""
	}
	return dir
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Imgur.BaseURL == "" {
		c.Imgur.BaseURL = defaults.Imgur.BaseURL
	}
	if c.Settings.DownloadDir == "" {
		c.Settings.DownloadDir = defaults.Settings.DownloadDir
	}
	if c.Settings.Workers == 0 {
		c.Settings.Workers = defaults.Settings.Workers
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.FetchTimeout == 0 {
		c.Settings.FetchTimeout = defaults.Settings.FetchTimeout
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}
