package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/reportdeck/internal/model"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "reportdeck" {
			t.Errorf("expected use 'reportdeck', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		for name, shorthand := range map[string]string{"config": "c", "reports": "r", "verbose": "v", "log-json": ""} {
			flag := cmd.PersistentFlags().Lookup(name)
			if flag == nil {
				t.Errorf("expected %s flag", name)
				continue
			}
			if flag.Shorthand != shorthand {
				t.Errorf("expected %s shorthand %q, got %q", name, shorthand, flag.Shorthand)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		names := map[string]bool{}
		for _, sub := range cmd.Commands() {
			names[sub.Name()] = true
		}
		for _, want := range []string{"browse", "serve", "tui", "index", "check", "prefs", "init", "version"} {
			if !names[want] {
				t.Errorf("expected %s subcommand", want)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// testCatalog is a workspace with a config file, a reports directory and
// a preferences directory.
type testCatalog struct {
	root    string
	reports string
	config  string
}

// newTestCatalog writes two reports, one dated today, and their manifest.
func newTestCatalog(t *testing.T) testCatalog {
	t.Helper()

	root := t.TempDir()
	tc := testCatalog{
		root:    root,
		reports: filepath.Join(root, "reports"),
		config:  filepath.Join(root, ".reportdeck"),
	}
	if err := os.MkdirAll(tc.reports, 0o750); err != nil {
		t.Fatal(err)
	}

	today := time.Now().Format("02-01-2006")
	tc.write(t, "a.json", `{"title":"Ransomware wave","source":"CERT-EU","description":"Encrypting campaign","categories":["ransomware"],"date":"`+today+`"}`)
	tc.write(t, "b.json", `{"title":"Phishing kit","source":"Mandiant","description":"Credential theft","categories":["phishing"],"date":"01-01-2020"}`)
	tc.write(t, model.IndexFileName, `{"reports":["a.json","b.json"],"lastUpdated":"2025-06-14T08:00:00.000Z","totalReports":2}`)

	config := "reports: reports\ndataDir: state\n"
	if err := os.WriteFile(tc.config, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	return tc
}

func (tc testCatalog) write(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(tc.reports, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// run executes the root command with the catalog's config file.
func (tc testCatalog) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", tc.config}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}
