package filter

import (
	"math"
	"regexp"
	"slices"
	"time"

	"github.com/nao1215/reportdeck/internal/model"
)

// day is the length of one recency window step.
const day = 24 * time.Hour

// Engine applies filter specifications against a clock.
// The clock is the only input besides the records and the spec, and it is
// read once per Apply call so every record is measured against the same
// instant.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used by the recency window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Engine. The default clock is time.Now.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the reports matching spec, most recent first, using the
// current time for the recency window.
func Apply(records []model.Report, spec model.FilterSpec) []model.Report {
	return New().Apply(records, spec)
}

// Apply returns the reports matching spec, most recent first.
// Reports with equal dates keep their input order.
func (e *Engine) Apply(records []model.Report, spec model.FilterSpec) []model.Report {
	m := newMatcher(spec, e.now())

	out := make([]model.Report, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, func(a, b model.Report) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// Matches reports whether a single report passes spec at instant now.
func Matches(r model.Report, spec model.FilterSpec, now time.Time) bool {
	return newMatcher(spec, now).match(r)
}

// TermPattern returns the case-insensitive pattern of a search term, or nil
// for an empty term. The highlighter marks exactly what this pattern finds.
func TermPattern(term string) *regexp.Regexp {
	if term == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}

// DaysSince returns ceil((now - date) / 24h).
// The result is zero or negative for dates at or after now.
func DaysSince(date, now time.Time) int {
	return int(math.Ceil(float64(now.Sub(date)) / float64(day)))
}

// matcher holds the per-call derived state of a spec.
type matcher struct {
	term       *regexp.Regexp
	sources    map[string]struct{}
	categories map[string]struct{}
	window     model.Window
	now        time.Time
}

func newMatcher(spec model.FilterSpec, now time.Time) *matcher {
	m := &matcher{
		term:       TermPattern(spec.Term),
		sources:    toSet(spec.Sources),
		categories: toSet(spec.Categories),
		window:     spec.Window,
		now:        now,
	}
	return m
}

func (m *matcher) match(r model.Report) bool {
	return m.matchText(r) && m.matchSource(r) && m.matchCategory(r) && m.matchRecency(r)
}

// matchText checks title, description, source, CVE and every category.
func (m *matcher) matchText(r model.Report) bool {
	if m.term == nil {
		return true
	}
	if m.contains(r.Title) || m.contains(r.Description) || m.contains(r.Source) {
		return true
	}
	if r.CVE != "" && m.contains(r.CVE) {
		return true
	}
	for _, c := range r.Categories {
		if m.contains(c) {
			return true
		}
	}
	return false
}

func (m *matcher) contains(s string) bool {
	return m.term.MatchString(s)
}

func (m *matcher) matchSource(r model.Report) bool {
	if len(m.sources) == 0 {
		return true
	}
	_, ok := m.sources[r.Source]
	return ok
}

func (m *matcher) matchCategory(r model.Report) bool {
	if len(m.categories) == 0 {
		return true
	}
	for _, c := range r.Categories {
		if _, ok := m.categories[c]; ok {
			return true
		}
	}
	return false
}

// matchRecency uses the ceiling of the elapsed days, so a report dated
// exactly window days ago is still inside. Future dates give a
// non-positive count and always match.
func (m *matcher) matchRecency(r model.Report) bool {
	if m.window.Unbounded() {
		return true
	}
	return DaysSince(r.Date, m.now) <= int(m.window)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
