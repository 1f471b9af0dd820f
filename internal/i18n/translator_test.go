package i18n

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestTranslate tests lookups, fallbacks and placeholder substitution.
func TestTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang string
		key  string
		args []any
		want string
	}{
		{name: "spanish", lang: "es", key: "today", want: "Hoy"},
		{name: "english", lang: "en", key: "today", want: "Today"},
		{name: "french", lang: "fr", key: "today", want: "Aujourd'hui"},
		{name: "unsupported language uses default table", lang: "xx", key: "today", want: "Hoy"},
		{name: "empty language uses default table", lang: "", key: "yesterday", want: "Ayer"},
		{name: "missing key returns key", lang: "en", key: "noSuchKey", want: "noSuchKey"},
		{name: "placeholder", lang: "en", key: "daysAgo", args: []any{5}, want: "5 days ago"},
		{name: "placeholder in spanish", lang: "es", key: "weeksAgo", args: []any{2}, want: "Hace 2 semanas"},
		{name: "extra args are ignored", lang: "fr", key: "monthsAgo", args: []any{3, "x"}, want: "Il y a 3 mois"},
		{name: "placeholders in a missing key", lang: "en", key: "{0}-{1}-{0}", args: []any{"a", "b"}, want: "a-b-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Translate(tt.lang, tt.key, tt.args...)
			if got != tt.want {
				t.Errorf("Translate(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

// TestResolve tests language resolution.
func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "es", want: "es"},
		{input: "en", want: "en"},
		{input: "fr", want: "fr"},
		{input: "en-GB", want: "en"},
		{input: "fr_CA", want: "fr"},
		{input: "es-MX", want: "es"},
		{input: "xx", want: "es"},
		{input: "", want: "es"},
		{input: "not a tag", want: "es"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := Resolve(tt.input); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestTablesHaveSameKeys guards against a key added to one language only.
func TestTablesHaveSameKeys(t *testing.T) {
	t.Parallel()

	reference := tables[DefaultLanguage]
	for _, lang := range Languages() {
		table := tables[lang]
		if len(table) != len(reference) {
			t.Errorf("%s: expected %d keys, got %d", lang, len(reference), len(table))
		}
		for key := range reference {
			if _, ok := table[key]; !ok {
				t.Errorf("%s: missing key %q", lang, key)
			}
		}
	}
}

// TestLanguagesAndFlags tests the language menu data.
func TestLanguagesAndFlags(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"es", "en", "fr"}, Languages()); diff != "" {
		t.Errorf("Languages mismatch (-want +got):\n%s", diff)
	}

	langs := Languages()
	langs[0] = "mutated"
	if Languages()[0] != "es" {
		t.Error("expected Languages to return a copy")
	}

	if Flag("xx") != unknownFlag {
		t.Error("expected unknown flag for unsupported language")
	}
	if Flag("fr") == unknownFlag {
		t.Error("expected a flag for french")
	}
}

// TestTranslator tests the language-bound translator.
func TestTranslator(t *testing.T) {
	t.Parallel()

	tr := New("en-US")
	if tr.Language() != "en" {
		t.Fatalf("expected en, got %q", tr.Language())
	}
	if got := tr.T("daysAgo", 3); got != "3 days ago" {
		t.Errorf("expected %q, got %q", "3 days ago", got)
	}
	if !IsSupported("fr") || IsSupported("fr-CA") {
		t.Error("IsSupported should only accept exact ids")
	}
}
