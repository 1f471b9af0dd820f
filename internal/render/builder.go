package render

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/nao1215/reportdeck/internal/filter"
	"github.com/nao1215/reportdeck/internal/i18n"
	"github.com/nao1215/reportdeck/internal/model"
)

// DefaultSourceLimit is how many sources the facet list shows.
const DefaultSourceLimit = 5

// Input is what one Build call renders.
type Input struct {
	// Filtered are the reports to show as cards, already filtered and sorted.
	Filtered []model.Report

	// All is the full catalog, used for facet counts.
	All []model.Report

	// Spec is the filter that produced Filtered. It marks selected facets,
	// the active window and the highlighted term.
	Spec model.FilterSpec

	// Lang is any language tag; it is resolved to a supported language.
	Lang string

	// Theme is the active theme.
	Theme model.Theme

	// LastUpdated is the manifest timestamp, shown as published.
	LastUpdated string
}

// Builder produces View values.
type Builder struct {
	now         func() time.Time
	sourceLimit int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock sets the clock used for relative dates.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithSourceLimit sets how many source facets are shown.
func WithSourceLimit(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.sourceLimit = n
		}
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		now:         time.Now,
		sourceLimit: DefaultSourceLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders the cards and facets of in.
func (b *Builder) Build(in Input) *View {
	tr := i18n.New(in.Lang)
	now := b.now()
	v := b.chrome(tr, in.Theme, in.Spec)
	v.LastUpdated = in.LastUpdated
	v.Total = len(in.All)

	hl := newHighlighter(in.Spec.Term)
	v.Cards = make([]Card, 0, len(in.Filtered))
	for _, r := range in.Filtered {
		v.Cards = append(v.Cards, b.card(r, hl, tr, now))
	}
	v.Count = len(v.Cards)

	if v.Count == 0 {
		v.Empty = &Notice{
			Title:   tr.T("noReportsFound"),
			Message: tr.T("noReportsDescription"),
		}
	}

	facets := filter.ComputeFacets(in.All)
	shown := facets.Sources
	if len(shown) > b.sourceLimit {
		v.HiddenSources = len(shown) - b.sourceLimit
		shown = shown[:b.sourceLimit]
	}
	v.Sources = facetItems(shown, in.Spec.HasSource)
	v.Categories = facetItems(facets.Categories, in.Spec.HasCategory)
	v.SelectedHiddenSources = hiddenSelections(v.Sources, in.Spec.Sources)

	return v
}

// hiddenSelections returns the selected values without a shown item, in
// selection order and without duplicates.
func hiddenSelections(shown []FacetItem, selected []string) []string {
	seen := make(map[string]struct{}, len(shown)+len(selected))
	for _, item := range shown {
		seen[item.Value] = struct{}{}
	}
	var out []string
	for _, value := range selected {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// BuildError renders the failed-load state.
// The cause is not shown: the message only tells the user that the
// reports could not be loaded.
func (b *Builder) BuildError(lang string, theme model.Theme) *View {
	tr := i18n.New(lang)
	v := b.chrome(tr, theme, model.NewFilterSpec())
	v.Cards = []Card{}
	v.Sources = []FacetItem{}
	v.Categories = []FacetItem{}
	v.Error = &Notice{
		Title:   tr.T("errorLoadingReports"),
		Message: tr.T("errorMessage"),
	}
	return v
}

// chrome fills everything that does not depend on the catalog.
func (b *Builder) chrome(tr i18n.Translator, theme model.Theme, spec model.FilterSpec) *View {
	if theme == "" {
		theme = model.ThemeLight
	}

	v := &View{
		Lang:  tr.Language(),
		Theme: theme,
		Term:  spec.Term,
		Labels: Labels{
			Filters:           tr.T("filters"),
			SearchPlaceholder: tr.T("searchPlaceholder"),
			LastUpdate:        tr.T("lastUpdate"),
			Source:            tr.T("source"),
			ShowMore:          tr.T("showMore"),
			Categories:        tr.T("categories"),
			Reports:           tr.T("reports"),
			SourceLabel:       tr.T("sourceLabel"),
			ViewFullReport:    tr.T("viewFullReport"),
			ChangeTheme:       tr.T("changeTheme"),
			ChangeLanguage:    tr.T("changeLanguage"),
		},
	}

	for _, lang := range i18n.Languages() {
		v.Languages = append(v.Languages, LanguageOption{
			ID:     lang,
			Flag:   i18n.Flag(lang),
			Active: lang == v.Lang,
		})
	}

	for _, w := range model.PresetWindows {
		v.Windows = append(v.Windows, WindowOption{
			Param:  w.String(),
			Label:  tr.T(w.LabelKey()),
			Active: w == spec.Window || (w.Unbounded() && spec.Window.Unbounded()),
		})
	}

	return v
}

func (b *Builder) card(r model.Report, hl *highlighter, tr i18n.Translator, now time.Time) Card {
	c := Card{
		ID:          r.ID,
		Title:       hl.split(r.Title),
		Source:      r.Source,
		Date:        RelativeDate(r.Date, now, tr),
		DateISO:     r.Date.Format(time.DateOnly),
		Description: hl.split(r.Description),
		URL:         r.URL,
		Tags:        make([]Tag, 0, len(r.Categories)),
	}
	if r.CVE != "" {
		c.CVE = hl.split(r.CVE)
	}
	for _, category := range r.Categories {
		c.Tags = append(c.Tags, Tag{
			Value: hl.split(category),
			Class: TagClass(category),
		})
	}
	return c
}

func facetItems(facets []model.Facet, selected func(string) bool) []FacetItem {
	items := make([]FacetItem, len(facets))
	for i, f := range facets {
		items[i] = FacetItem{
			Value:    f.Value,
			Count:    f.Count,
			Selected: selected(f.Value),
		}
	}
	return items
}

// RelativeDate formats date relative to now.
//
// The distance is ceil(|now - date| / 24h) days, so dates in the future
// read the same as dates in the past. 0 is "today", 1 "yesterday", up to 7
// is a day count, up to 30 whole weeks, and anything older whole months of
// 30 days.
func RelativeDate(date, now time.Time, tr i18n.Translator) string {
	diff := now.Sub(date)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(float64(diff) / float64(24*time.Hour)))

	switch {
	case days == 0:
		return tr.T("today")
	case days == 1:
		return tr.T("yesterday")
	case days <= 7:
		return tr.T("daysAgo", days)
	case days <= 30:
		return tr.T("weeksAgo", days/7)
	default:
		return tr.T("monthsAgo", days/30)
	}
}

// tagClasses maps tag keywords to CSS classes. Order matters: the first
// keyword contained in the tag wins.
var tagClasses = []struct {
	keyword string
	class   string
}{
	{"malware", "tag-malware"},
	{"apt", "tag-apt"},
	{"ransomware", "tag-ransomware"},
	{"phishing", "tag-phishing"},
	{"vulnerability", "tag-vulnerability"},
}

// TagClass returns the colour class for a category tag.
func TagClass(tag string) string {
	lower := strings.ToLower(tag)
	for _, tc := range tagClasses {
		if strings.Contains(lower, tc.keyword) {
			return tc.class
		}
	}
	return "tag-default"
}

// highlighter marks every case-insensitive occurrence of a term.
type highlighter struct {
	re *regexp.Regexp
}

func newHighlighter(term string) *highlighter {
	return &highlighter{re: filter.TermPattern(term)}
}

// Highlight splits s into segments marking every occurrence of term.
func Highlight(s, term string) Text {
	return newHighlighter(term).split(s)
}

func (h *highlighter) split(s string) Text {
	if s == "" {
		return Text{}
	}
	if h.re == nil {
		return Text{{Text: s}}
	}

	matches := h.re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return Text{{Text: s}}
	}

	out := make(Text, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			out = append(out, Segment{Text: s[last:m[0]]})
		}
		out = append(out, Segment{Text: s[m[0]:m[1]], Match: true})
		last = m[1]
	}
	if last < len(s) {
		out = append(out, Segment{Text: s[last:]})
	}
	return out
}
