package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/reportdeck/internal/i18n"
	"github.com/nao1215/reportdeck/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".reportdeck"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .reportdeck configuration file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	// Reports is the catalog directory or base URL.
	Reports string `yaml:"reports,omitempty"`

	// Concurrency is the number of documents fetched in parallel.
	Concurrency int `yaml:"concurrency,omitempty"`

	// SourceLimit is the number of source facets shown before "show more".
	SourceLimit int `yaml:"sourceLimit,omitempty"`

	// DataDir is where the preferences database lives.
	DataDir string `yaml:"dataDir,omitempty"`

	// HTTP configures remote catalog fetches.
	HTTP HTTPSection `yaml:"http,omitempty"`

	// Server configures "reportdeck serve".
	Server ServerSection `yaml:"server,omitempty"`

	// Display holds the fallback display preferences.
	Display DisplaySection `yaml:"display,omitempty"`
}

// HTTPSection configures remote catalog fetches.
type HTTPSection struct {
	// UserAgent replaces the default User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are added to every request, e.g. an Authorization header
	// for a private catalog.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxBodySize is the largest accepted document in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`
}

// ServerSection configures the web server.
type ServerSection struct {
	// Listen is the host:port to bind.
	Listen string `yaml:"listen,omitempty"`

	// Watch reloads the catalog when the reports directory changes.
	Watch *bool `yaml:"watch,omitempty"`
}

// DisplaySection holds the fallback display preferences.
type DisplaySection struct {
	// Language is es, en or fr.
	Language string `yaml:"language,omitempty"`

	// Theme is light or dark.
	Theme string `yaml:"theme,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cf.HTTP.Headers == nil {
		cf.HTTP.Headers = make(map[string]string)
	}

	return &cf, nil
}

// Apply copies the values set in the file onto cfg. A relative reports
// directory is resolved against baseDir, the directory of the file.
func (cf *File) Apply(cfg *Config, baseDir string) {
	if cf.Reports != "" {
		cfg.Reports = cf.Reports
		if !cfg.IsRemote() && !filepath.IsAbs(cfg.Reports) && baseDir != "" {
			cfg.Reports = filepath.Join(baseDir, cfg.Reports)
		}
	}
	if cf.Concurrency != 0 {
		cfg.Concurrency = cf.Concurrency
	}
	if cf.SourceLimit != 0 {
		cfg.SourceLimit = cf.SourceLimit
	}
	if cf.DataDir != "" {
		cfg.DataDir = cf.DataDir
		if !filepath.IsAbs(cfg.DataDir) && baseDir != "" {
			cfg.DataDir = filepath.Join(baseDir, cfg.DataDir)
		}
	}
	if cf.HTTP.UserAgent != "" {
		cfg.UserAgent = cf.HTTP.UserAgent
	}
	if cf.HTTP.MaxBodySize != 0 {
		cfg.MaxBodySize = cf.HTTP.MaxBodySize
	}
	if len(cf.HTTP.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for k, v := range cf.HTTP.Headers {
			cfg.Headers[k] = v
		}
	}
	if cf.Server.Listen != "" {
		cfg.ListenAddress = cf.Server.Listen
	}
	if cf.Server.Watch != nil {
		cfg.Watch = *cf.Server.Watch
	}
	if cf.Display.Language != "" {
		cfg.Language = i18n.Resolve(cf.Display.Language)
	}
	if cf.Display.Theme != "" {
		cfg.Theme = model.Theme(cf.Display.Theme)
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .reportdeck in the current directory
// 3. Look for .reportdeck in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Load builds a Config from the defaults and the configuration file found
// by FindConfigFile. An explicit configPath that does not exist is an error;
// a missing implicit file is not.
func Load(configPath string) (*Config, error) {
	cfg := NewConfig()
	cfg.ConfigFilePath = configPath

	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return cfg, nil
	}

	file, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	file.Apply(cfg, filepath.Dir(path))
	cfg.ConfigFilePath = path

	return cfg, nil
}
