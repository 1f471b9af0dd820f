package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/reportdeck/internal/model"
)

// TestNewConfig verifies the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Reports is ./reports", func(t *testing.T) {
		t.Parallel()
		if cfg.Reports != "reports" {
			t.Errorf("expected Reports to be 'reports', got %q", cfg.Reports)
		}
	})

	t.Run("default Concurrency is 8", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 8 {
			t.Errorf("expected Concurrency to be 8, got %d", cfg.Concurrency)
		}
	})

	t.Run("default ListenAddress is loopback", func(t *testing.T) {
		t.Parallel()
		if cfg.ListenAddress != "127.0.0.1:8080" {
			t.Errorf("expected ListenAddress to be '127.0.0.1:8080', got %q", cfg.ListenAddress)
		}
	})

	t.Run("default display is spanish and light", func(t *testing.T) {
		t.Parallel()
		if cfg.Language != "es" || cfg.Theme != model.ThemeLight {
			t.Errorf("expected es/light, got %s/%s", cfg.Language, cfg.Theme)
		}
	})

	t.Run("default SourceLimit is 5", func(t *testing.T) {
		t.Parallel()
		if cfg.SourceLimit != 5 {
			t.Errorf("expected SourceLimit to be 5, got %d", cfg.SourceLimit)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method, one rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(*Config) {}},
		{name: "remote catalog is valid", modify: func(c *Config) { c.Reports = "https://example.org/reports/" }},
		{name: "empty reports", modify: func(c *Config) { c.Reports = "  " }, wantErr: ErrNoReports},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "negative body size", modify: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
		{name: "zero body size uses default", modify: func(c *Config) { c.MaxBodySize = 0 }},
		{name: "zero source limit", modify: func(c *Config) { c.SourceLimit = 0 }, wantErr: ErrInvalidSourceLimit},
		{name: "unknown theme", modify: func(c *Config) { c.Theme = "sepia" }, wantErr: ErrInvalidTheme},
		{name: "unsupported language", modify: func(c *Config) { c.Language = "de" }, wantErr: ErrUnsupportedLanguage},
		{name: "header with colon", modify: func(c *Config) { c.Headers = map[string]string{"X-Bad:": "v"} }, wantErr: ErrInvalidHeader},
		{name: "empty header name", modify: func(c *Config) { c.Headers = map[string]string{"": "v"} }, wantErr: ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestIsRemote tests catalog location classification.
func TestIsRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		reports string
		want    bool
	}{
		{reports: "reports", want: false},
		{reports: "/srv/reports", want: false},
		{reports: "http://localhost:8000/reports/", want: true},
		{reports: "HTTPS://example.org/reports", want: true},
		{reports: "ftp://example.org/reports", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.reports, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Reports = tt.reports
			if got := cfg.IsRemote(); got != tt.want {
				t.Errorf("IsRemote() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestLoadConfigFile tests reading and applying the YAML file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("reports: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("applies every section", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `reports: catalog
concurrency: 3
sourceLimit: 7
dataDir: state
http:
  userAgent: custom-agent
  maxBodySize: 2048
  headers:
    Authorization: Token abc
server:
  listen: 0.0.0.0:9000
  watch: true
display:
  language: en-GB
  theme: dark
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := NewConfig()
		want.Reports = filepath.Join(dir, "catalog")
		want.Concurrency = 3
		want.SourceLimit = 7
	want.DataDir = filepath.Join(dir, "state")
		want.UserAgent = "custom-agent"
		want.MaxBodySize = 2048
		want.Headers = map[string]string{"Authorization": "Token abc"}
		want.ListenAddress = "0.0.0.0:9000"
		want.Watch = true
		want.Language = "en"
		want.Theme = model.ThemeDark
		want.ConfigFilePath = path

		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("remote reports are not joined", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "remote.yaml")
		if err := os.WriteFile(path, []byte("reports: https://example.org/reports/\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Reports != "https://example.org/reports/" {
			t.Errorf("unexpected reports %q", cfg.Reports)
		}
	})

	t.Run("explicit path that does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestFindConfigFile tests the explicit path branch.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("reports: r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile(%q) = %q", path, got)
	}
	if got := FindConfigFile(filepath.Join(dir, "missing.yaml")); got != "" {
		t.Errorf("expected empty path for a missing explicit file, got %q", got)
	}
}
