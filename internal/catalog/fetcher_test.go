package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDirFetcher tests local directory reads.
func TestDirFetcher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "2024"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2024", "a.json"), []byte(`{"title":"a"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	f := NewDirFetcher(dir)

	t.Run("reads nested name", func(t *testing.T) {
		t.Parallel()

		data, err := f.Fetch(context.Background(), "2024/a.json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"title":"a"}` {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := f.Fetch(context.Background(), "missing.json")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})

	for _, name := range []string{"", "../secret.json", "/etc/passwd", "a/../../b.json", `..\x.json`} {
		t.Run("rejects "+name, func(t *testing.T) {
			t.Parallel()

			_, err := f.Fetch(context.Background(), name)
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("expected ErrInvalidName for %q, got %v", name, err)
			}
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := f.Fetch(ctx, "2024/a.json"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestNewHTTPFetcher tests base URL validation.
func TestNewHTTPFetcher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "adds trailing slash", base: "https://example.com/data", want: "https://example.com/data/"},
		{name: "keeps trailing slash", base: "http://example.com/", want: "http://example.com/"},
		{name: "empty path", base: "http://example.com", want: "http://example.com/"},
		{name: "rejects ftp", base: "ftp://example.com/", wantErr: true},
		{name: "rejects relative", base: "data/", wantErr: true},
		{name: "rejects missing host", base: "http:///data", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := NewHTTPFetcher(tt.base)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Base() != tt.want {
				t.Errorf("expected base %q, got %q", tt.want, f.Base())
			}
		})
	}
}

// TestHTTPFetcher tests requests against a local server.
func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/data/reports-index.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "deck-test" {
			http.Error(w, "bad agent", http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"reports":[]}`))
	})
	mux.HandleFunc("/data/big.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("0123456789", 4)))
	})
	mux.HandleFunc("/data/exact.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 32)))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	f, err := NewHTTPFetcher(server.URL+"/data",
		WithHTTPClient(server.Client()),
		WithUserAgent("deck-test"),
		WithHeaders(map[string]string{"Authorization": "Bearer secret"}),
		WithMaxBodySize(32),
	)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("sends headers", func(t *testing.T) {
		t.Parallel()

		data, err := f.Fetch(context.Background(), "reports-index.json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"reports":[]}` {
			t.Errorf("unexpected body %q", data)
		}
	})

	t.Run("body limit", func(t *testing.T) {
		t.Parallel()

		if _, err := f.Fetch(context.Background(), "big.json"); !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("expected ErrBodyTooLarge, got %v", err)
		}

		data, err := f.Fetch(context.Background(), "exact.json")
		if err != nil {
			t.Fatalf("unexpected error at the limit: %v", err)
		}
		if len(data) != 32 {
			t.Errorf("expected 32 bytes, got %d", len(data))
		}
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		t.Parallel()

		_, err := f.Fetch(context.Background(), "missing.json")
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("rejects traversal", func(t *testing.T) {
		t.Parallel()

		_, err := f.Fetch(context.Background(), "../reports-index.json")
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("expected ErrInvalidName, got %v", err)
		}
	})
}
