package render

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/reportdeck/internal/filter"
	"github.com/nao1215/reportdeck/internal/i18n"
	"github.com/nao1215/reportdeck/internal/model"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func testBuilder() *Builder {
	return NewBuilder(WithClock(func() time.Time { return fixedNow }))
}

// catalog returns seven reports from seven sources.
func catalog() []model.Report {
	sources := []string{"CERT-EU", "Mandiant", "Talos", "Unit42", "ESET", "Kaspersky", "CERT-EU"}
	out := make([]model.Report, len(sources))
	for i, s := range sources {
		out[i] = model.Report{
			ID:          i + 1,
			Title:       "Report " + s,
			Source:      s,
			Description: "Campaign analysis",
			Categories:  []string{},
			Date:        fixedNow.Add(-time.Duration(i) * day),
		}
	}
	out[0].Categories = []string{"malware", "APT"}
	out[0].CVE = "CVE-2024-1234"
	out[0].URL = "https://example.com/r1"
	out[1].Categories = []string{"phishing"}
	out[2].Categories = []string{"malware"}
	return out
}

// TestRelativeDate tests the relative date buckets.
func TestRelativeDate(t *testing.T) {
	t.Parallel()

	en := i18n.New("en")
	es := i18n.New("es")

	tests := []struct {
		name string
		date time.Time
		tr   i18n.Translator
		want string
	}{
		{name: "now", date: fixedNow, tr: en, want: "Today"},
		{name: "one hour ago rounds up", date: fixedNow.Add(-time.Hour), tr: en, want: "Yesterday"},
		{name: "exactly one day", date: fixedNow.Add(-day), tr: en, want: "Yesterday"},
		{name: "three days", date: fixedNow.Add(-3 * day), tr: en, want: "3 days ago"},
		{name: "three days spanish", date: fixedNow.Add(-3 * day), tr: es, want: "Hace 3 días"},
		{name: "seven days", date: fixedNow.Add(-7 * day), tr: en, want: "7 days ago"},
		{name: "eight days is one week", date: fixedNow.Add(-8 * day), tr: en, want: "1 weeks ago"},
		{name: "thirty days is four weeks", date: fixedNow.Add(-30 * day), tr: en, want: "4 weeks ago"},
		{name: "thirty one days is one month", date: fixedNow.Add(-31 * day), tr: en, want: "1 months ago"},
		{name: "sixty five days", date: fixedNow.Add(-65 * day), tr: en, want: "2 months ago"},
		{name: "future uses absolute distance", date: fixedNow.Add(2 * day), tr: en, want: "2 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RelativeDate(tt.date, fixedNow, tt.tr); got != tt.want {
				t.Errorf("RelativeDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestTagClass tests keyword classification order.
func TestTagClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want string
	}{
		{tag: "Malware", want: "tag-malware"},
		{tag: "APT28", want: "tag-apt"},
		{tag: "ransomware", want: "tag-ransomware"},
		{tag: "ransomware-malware", want: "tag-malware"},
		{tag: "spear-phishing", want: "tag-phishing"},
		{tag: "Zero-day Vulnerability", want: "tag-vulnerability"},
		{tag: "rapture", want: "tag-apt"},
		{tag: "cloud", want: "tag-default"},
		{tag: "", want: "tag-default"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			if got := TagClass(tt.tag); got != tt.want {
				t.Errorf("TagClass(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

// TestHighlight tests segment splitting.
func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    string
		term string
		want Text
	}{
		{name: "no term", s: "Router bug", term: "", want: Text{{Text: "Router bug"}}},
		{name: "empty string", s: "", term: "x", want: Text{}},
		{name: "no match", s: "Router bug", term: "zero", want: Text{{Text: "Router bug"}}},
		{
			name: "prefix match keeps case",
			s:    "CVE-2024-1234",
			term: "cve",
			want: Text{{Text: "CVE", Match: true}, {Text: "-2024-1234"}},
		},
		{
			name: "every occurrence",
			s:    "abcABCxabc",
			term: "ABC",
			want: Text{{Text: "abc", Match: true}, {Text: "ABC", Match: true}, {Text: "x"}, {Text: "abc", Match: true}},
		},
		{
			name: "metacharacters are literal",
			s:    "axb a.b",
			term: "a.b",
			want: Text{{Text: "axb "}, {Text: "a.b", Match: true}},
		},
		{
			name: "whole string",
			s:    "apt",
			term: "APT",
			want: Text{{Text: "apt", Match: true}},
		},
		{
			name: "non-ASCII case pair",
			s:    "ÉCLAIR et éclair",
			term: "éclair",
			want: Text{{Text: "ÉCLAIR", Match: true}, {Text: " et "}, {Text: "éclair", Match: true}},
		},
		{
			name: "sharp s is not expanded",
			s:    "Straße exploit",
			term: "ss",
			want: Text{{Text: "Straße exploit"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Highlight(tt.s, tt.term)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Highlight mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tt.s {
				t.Errorf("segments do not rebuild the input: %q", got.String())
			}
		})
	}
}

// TestBuilderBuild tests the view model for a populated catalog.
func TestBuilderBuild(t *testing.T) {
	t.Parallel()

	all := catalog()
	spec := model.FilterSpec{
		Term:       "cve",
		Sources:    []string{"Mandiant"},
		Categories: []string{"malware"},
		Window:     7,
	}

	v := testBuilder().Build(Input{
		Filtered:    all[:2],
		All:         all,
		Spec:        spec,
		Lang:        "en-GB",
		Theme:       model.ThemeDark,
		LastUpdated: "2025-06-01T00:00:00Z",
	})

	t.Run("header", func(t *testing.T) {
		t.Parallel()

		if v.Lang != "en" || v.Theme != model.ThemeDark {
			t.Errorf("unexpected lang/theme %q/%q", v.Lang, v.Theme)
		}
		if v.Count != 2 || v.Total != 7 {
			t.Errorf("expected 2 of 7, got %d of %d", v.Count, v.Total)
		}
		if v.Labels.Reports != "Reports" || v.Labels.SourceLabel != "Source:" {
			t.Errorf("labels not translated: %+v", v.Labels)
		}
		if v.Empty != nil || v.Error != nil {
			t.Error("expected neither empty nor error state")
		}
		if v.LastUpdated != "2025-06-01T00:00:00Z" {
			t.Errorf("unexpected LastUpdated %q", v.LastUpdated)
		}
	})

	t.Run("sources are capped in discovery order", func(t *testing.T) {
		t.Parallel()

		want := []FacetItem{
			{Value: "CERT-EU", Count: 2},
			{Value: "Mandiant", Count: 1, Selected: true},
			{Value: "Talos", Count: 1},
			{Value: "Unit42", Count: 1},
			{Value: "ESET", Count: 1},
		}
		if diff := cmp.Diff(want, v.Sources); diff != "" {
			t.Errorf("sources mismatch (-want +got):\n%s", diff)
		}
		if v.HiddenSources != 1 {
			t.Errorf("expected 1 hidden source, got %d", v.HiddenSources)
		}
	})

	t.Run("categories are not capped", func(t *testing.T) {
		t.Parallel()

		want := []FacetItem{
			{Value: "malware", Count: 2, Selected: true},
			{Value: "APT", Count: 1},
			{Value: "phishing", Count: 1},
		}
		if diff := cmp.Diff(want, v.Categories); diff != "" {
			t.Errorf("categories mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("windows and languages", func(t *testing.T) {
		t.Parallel()

		var active []string
		for _, w := range v.Windows {
			if w.Active {
				active = append(active, w.Param)
			}
		}
		if diff := cmp.Diff([]string{"7"}, active); diff != "" {
			t.Errorf("active windows mismatch (-want +got):\n%s", diff)
		}
		if v.Windows[0].Label != "All" || v.Windows[2].Label != "Last week" {
			t.Errorf("unexpected window labels: %+v", v.Windows)
		}

		if len(v.Languages) != 3 || !v.Languages[1].Active || v.Languages[1].ID != "en" {
			t.Errorf("unexpected language menu: %+v", v.Languages)
		}
	})

	t.Run("cards", func(t *testing.T) {
		t.Parallel()

		first := v.Cards[0]
		if first.Date != "Today" || first.DateISO != "2025-06-15" {
			t.Errorf("unexpected date %q/%q", first.Date, first.DateISO)
		}
		if diff := cmp.Diff(Text{{Text: "CVE", Match: true}, {Text: "-2024-1234"}}, first.CVE); diff != "" {
			t.Errorf("cve mismatch (-want +got):\n%s", diff)
		}
		wantTags := []Tag{
			{Value: Text{{Text: "malware"}}, Class: "tag-malware"},
			{Value: Text{{Text: "APT"}}, Class: "tag-apt"},
		}
		if diff := cmp.Diff(wantTags, first.Tags); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}
		if first.URL != "https://example.com/r1" {
			t.Errorf("unexpected URL %q", first.URL)
		}

		second := v.Cards[1]
		if second.CVE != nil {
			t.Errorf("expected no CVE, got %v", second.CVE)
		}
		if second.Date != "Yesterday" {
			t.Errorf("expected Yesterday, got %q", second.Date)
		}
	})
}

// TestBuilderBuildEmpty tests the empty state and uncategorized reports.
func TestBuilderBuildEmpty(t *testing.T) {
	t.Parallel()

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()

		v := testBuilder().Build(Input{All: catalog(), Spec: model.NewFilterSpec(), Lang: "es"})
		if v.Empty == nil {
			t.Fatal("expected empty state")
		}
		if v.Empty.Title != "No se encontraron informes" {
			t.Errorf("unexpected empty title %q", v.Empty.Title)
		}
		if v.Cards == nil || len(v.Cards) != 0 {
			t.Errorf("expected empty non-nil cards, got %#v", v.Cards)
		}
		if len(v.Sources) == 0 {
			t.Error("facets must still be computed from the full catalog")
		}
		if !v.Windows[0].Active {
			t.Error("expected the unbounded window to be active")
		}
	})

	t.Run("missing categories render no tags", func(t *testing.T) {
		t.Parallel()

		doc := model.Document{Title: "untagged", Source: "X"}
		r := doc.Normalize(1, fixedNow)
		v := testBuilder().Build(Input{Filtered: []model.Report{r}, All: []model.Report{r}, Spec: model.NewFilterSpec()})

		if len(v.Cards[0].Tags) != 0 {
			t.Errorf("expected no tags, got %+v", v.Cards[0].Tags)
		}
		if len(v.Categories) != 0 {
			t.Errorf("expected no category facets, got %+v", v.Categories)
		}
		if v.Theme != model.ThemeLight || v.Lang != "es" {
			t.Errorf("expected defaults light/es, got %q/%q", v.Theme, v.Lang)
		}
	})

	t.Run("selected sources hidden by the cap are kept", func(t *testing.T) {
		t.Parallel()

		spec := model.FilterSpec{Sources: []string{"Kaspersky", "Mandiant", "Kaspersky", "Gone"}, Window: model.WindowAll}
		v := testBuilder().Build(Input{All: catalog(), Spec: spec})
		if diff := cmp.Diff([]string{"Kaspersky", "Gone"}, v.SelectedHiddenSources); diff != "" {
			t.Errorf("hidden selections mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("custom source limit", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder(WithClock(func() time.Time { return fixedNow }), WithSourceLimit(2))
		v := b.Build(Input{All: catalog(), Spec: model.NewFilterSpec()})
		if len(v.Sources) != 2 || v.HiddenSources != 4 {
			t.Errorf("expected 2 shown and 4 hidden, got %d and %d", len(v.Sources), v.HiddenSources)
		}
	})
}

// TestBuilderBuildError tests the failed-load view.
func TestBuilderBuildError(t *testing.T) {
	t.Parallel()

	v := testBuilder().BuildError("fr", model.ThemeDark)
	if v.Error == nil {
		t.Fatal("expected error state")
	}
	if v.Error.Title != i18n.Translate("fr", "errorLoadingReports") {
		t.Errorf("unexpected title %q", v.Error.Title)
	}
	if v.Error.Message != i18n.Translate("fr", "errorMessage") {
		t.Errorf("unexpected message %q", v.Error.Message)
	}
	if v.Count != 0 || len(v.Cards) != 0 || v.Empty != nil {
		t.Errorf("error view must not carry results: %+v", v)
	}
	if v.Theme != model.ThemeDark {
		t.Errorf("expected dark theme, got %q", v.Theme)
	}
}

// TestHighlightMarksEveryFilterHit tests that a report matched by a search
// term has at least one marked segment.
func TestHighlightMarksEveryFilterHit(t *testing.T) {
	t.Parallel()

	records := []model.Report{
		{ID: 1, Title: "Straße exploit", Source: "CERT-Bund", Date: fixedNow},
		{ID: 2, Title: "ÉCLAIR botnet", Source: "ANSSI", Date: fixedNow},
		{ID: 3, Title: "Kernel bug", Source: "MSRC", CVE: "CVE-2025-0001", Date: fixedNow},
		{ID: 4, Title: "Phish", Source: "Mandiant", Categories: []string{"ΣΊΣΥΦΟΣ"}, Date: fixedNow},
	}
	terms := []string{"ss", "ß", "éclair", "KERNEL", "cve-2025", "σίσυφος", "mandiant"}

	for _, term := range terms {
		t.Run(term, func(t *testing.T) {
			t.Parallel()

			spec := model.FilterSpec{Term: term, Window: model.WindowAll}
			for _, r := range records {
				fields := append([]string{r.Title, r.Description, r.Source, r.CVE}, r.Categories...)
				marked := false
				for _, f := range fields {
					for _, seg := range Highlight(f, term) {
						marked = marked || seg.Match
					}
				}
				if matched := filter.Matches(r, spec, fixedNow); matched != marked {
					t.Errorf("report %d: filter matched=%v, highlight marked=%v", r.ID, matched, marked)
				}
			}
		})
	}
}
