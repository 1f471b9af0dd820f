package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestDocumentNormalize tests the conversion from document to report.
func TestDocumentNormalize(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all fields present", func(t *testing.T) {
		t.Parallel()

		var doc Document
		data := `{
			"title": "Botnet takedown",
			"source": "CERT-EU",
			"description": "Coordinated action",
			"url": "https://example.org/r/1",
			"cve": "CVE-2024-1234",
			"categories": ["malware", "botnet"],
			"date": "15-03-2024"
		}`
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := doc.Normalize(3, now)
		want := Report{
			ID:          3,
			Title:       "Botnet takedown",
			Source:      "CERT-EU",
			Description: "Coordinated action",
			URL:         "https://example.org/r/1",
			CVE:         "CVE-2024-1234",
			Categories:  []string{"malware", "botnet"},
			Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing optional fields use defaults", func(t *testing.T) {
		t.Parallel()

		var doc Document
		if err := json.Unmarshal([]byte(`{"title": "Only a title"}`), &doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := doc.Normalize(1, now)
		if got.Categories == nil || len(got.Categories) != 0 {
			t.Errorf("expected empty non-nil categories, got %#v", got.Categories)
		}
		if !got.Date.Equal(now) {
			t.Errorf("expected date to default to now, got %v", got.Date)
		}
		if got.Source != "" || got.Description != "" || got.URL != "" || got.CVE != "" {
			t.Errorf("expected empty optional fields, got %+v", got)
		}
	})

	t.Run("numeric date is epoch milliseconds", func(t *testing.T) {
		t.Parallel()

		var doc Document
		if err := json.Unmarshal([]byte(`{"date": 1710460800000}`), &doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := doc.Normalize(1, now)
		want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		if !got.Date.Equal(want) {
			t.Errorf("expected %v, got %v", want, got.Date)
		}
	})

	t.Run("null date is now", func(t *testing.T) {
		t.Parallel()

		var doc Document
		if err := json.Unmarshal([]byte(`{"date": null}`), &doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doc.Normalize(1, now); !got.Date.Equal(now) {
			t.Errorf("expected now, got %v", got.Date)
		}
	})

	t.Run("boolean date is rejected", func(t *testing.T) {
		t.Parallel()

		var doc Document
		if err := json.Unmarshal([]byte(`{"date": true}`), &doc); err == nil {
			t.Error("expected an error for a boolean date")
		}
	})
}

// TestReportHasCategory tests exact category membership.
func TestReportHasCategory(t *testing.T) {
	t.Parallel()

	r := Report{Categories: []string{"APT", "espionage"}}
	if !r.HasCategory("APT") {
		t.Error("expected APT to be present")
	}
	if r.HasCategory("apt") {
		t.Error("expected category comparison to be case-sensitive")
	}
}

// TestParseWindow tests recency window parsing.
func TestParseWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Window
		wantErr bool
	}{
		{input: "all", want: WindowAll},
		{input: "", want: WindowAll},
		{input: "ALL", want: WindowAll},
		{input: "7", want: 7},
		{input: "0", want: 0},
		{input: "-3", wantErr: true},
		{input: "week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseWindow(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWindow) {
					t.Fatalf("expected ErrInvalidWindow, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestWindowNext tests preset cycling.
func TestWindowNext(t *testing.T) {
	t.Parallel()

	got := []Window{}
	w := WindowAll
	for range PresetWindows {
		w = w.Next()
		got = append(got, w)
	}

	want := []Window{3, 7, 30, WindowAll}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Next mismatch (-want +got):\n%s", diff)
	}

	if Window(12).Next() != WindowAll {
		t.Error("expected non-preset window to reset to all")
	}
}

// TestFilterSpecToggle tests facet selection toggling.
func TestFilterSpecToggle(t *testing.T) {
	t.Parallel()

	spec := NewFilterSpec()
	if !spec.IsEmpty() {
		t.Fatal("expected new spec to be empty")
	}

	spec = spec.ToggleSource("CERT-EU").ToggleSource("Mandiant")
	if !spec.HasSource("CERT-EU") || !spec.HasSource("Mandiant") {
		t.Errorf("expected both sources selected, got %v", spec.Sources)
	}

	spec = spec.ToggleSource("CERT-EU")
	if spec.HasSource("CERT-EU") {
		t.Error("expected CERT-EU to be deselected")
	}

	spec = spec.ToggleCategory("apt")
	if !spec.HasCategory("apt") || spec.IsEmpty() {
		t.Error("expected apt to be selected")
	}
}

// TestTheme tests theme parsing and toggling.
func TestTheme(t *testing.T) {
	t.Parallel()

	if ParseTheme("dark") != ThemeDark {
		t.Error("expected dark")
	}
	if ParseTheme("solarized") != ThemeLight {
		t.Error("expected unknown theme to default to light")
	}
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Error("expected toggle to alternate")
	}
}
