package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/nao1215/reportdeck/internal/i18n"
	"github.com/nao1215/reportdeck/internal/model"
)

// Default configuration values.
const (
	// DefaultReports is the reports directory next to the working directory.
	DefaultReports = "reports"

	// DefaultConcurrency bounds the number of documents fetched at once.
	DefaultConcurrency = 8

	// DefaultListenAddress keeps the server on the loopback interface.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultUserAgent identifies reportdeck in HTTP requests.
	DefaultUserAgent = "reportdeck (+https://github.com/nao1215/reportdeck)"

	// DefaultMaxBodySize limits the size of one fetched document.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultSourceLimit is the number of source facets shown before
	// "show more".
	DefaultSourceLimit = 5

	// AppName is the application name used for XDG directory paths.
	AppName = "reportdeck"
)

// Config holds all configuration options for reportdeck.
// It is populated from defaults, the YAML file and CLI flags, in that
// order, and passed through the application rather than kept global.
type Config struct {
	// Reports is the catalog location: a local directory or an http(s)
	// base URL that serves reports-index.json and the documents.
	Reports string

	// Concurrency is the number of documents fetched in parallel.
	Concurrency int

	// UserAgent is sent with remote fetches.
	UserAgent string

	// Headers are extra HTTP headers sent with remote fetches.
	Headers map[string]string

	// MaxBodySize is the largest accepted document in bytes.
	MaxBodySize int64

	// ListenAddress is the host:port the web server binds to.
	ListenAddress string

	// Watch reloads the catalog when a local reports directory changes.
	Watch bool

	// Language is the interface language used when no preference is stored.
	Language string

	// Theme is the display theme used when no preference is stored.
	Theme model.Theme

	// SourceLimit is the number of source facets shown before "show more".
	SourceLimit int

	// DataDir is the directory of the preferences database.
	// Defaults to the XDG data directory (~/.local/share/reportdeck on Linux).
	DataDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, .reportdeck is searched in the current and home directories.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches the log output to JSON.
	LogJSON bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Reports:       DefaultReports,
		Concurrency:   DefaultConcurrency,
		UserAgent:     DefaultUserAgent,
		Headers:       map[string]string{},
		MaxBodySize:   DefaultMaxBodySize,
		ListenAddress: DefaultListenAddress,
		Language:      i18n.DefaultLanguage,
		Theme:         model.ThemeLight,
		SourceLimit:   DefaultSourceLimit,
		DataDir:       XDGDataDir(),
	}
}

// IsRemote reports whether the catalog is fetched over HTTP.
func (c *Config) IsRemote() bool {
	lower := strings.ToLower(c.Reports)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// XDGDataDir returns the XDG data directory for reportdeck.
// On Linux: ~/.local/share/reportdeck
// On macOS: ~/Library/Application Support/reportdeck
// On Windows: %LOCALAPPDATA%\reportdeck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for reportdeck.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Reports) == "" {
		return ErrNoReports
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.SourceLimit <= 0 {
		return ErrInvalidSourceLimit
	}

	if c.Theme != model.ThemeLight && c.Theme != model.ThemeDark {
		return ErrInvalidTheme
	}

	if !i18n.IsSupported(c.Language) {
		return ErrUnsupportedLanguage
	}

	for name := range c.Headers {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " :\r\n") {
			return ErrInvalidHeader
		}
	}

	return nil
}
