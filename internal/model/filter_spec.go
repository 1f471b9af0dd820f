package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Window is a recency window in days.
// WindowAll means no recency constraint.
type Window int

// WindowAll disables the recency constraint.
const WindowAll Window = -1

// Preset windows offered by every user interface, in display order.
var PresetWindows = []Window{WindowAll, 3, 7, 30}

// ErrInvalidWindow is returned by ParseWindow for values that are neither
// "all" nor a non-negative day count.
var ErrInvalidWindow = errors.New("invalid recency window: use \"all\" or a number of days")

// ParseWindow parses "all" (or an empty string) and non-negative day counts.
func ParseWindow(s string) (Window, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return WindowAll, nil
	}

	days, err := strconv.Atoi(s)
	if err != nil || days < 0 {
		return WindowAll, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
	return Window(days), nil
}

// Unbounded reports whether the window places no constraint on dates.
func (w Window) Unbounded() bool {
	return w < 0
}

// String returns "all" or the day count.
func (w Window) String() string {
	if w.Unbounded() {
		return "all"
	}
	return strconv.Itoa(int(w))
}

// LabelKey returns the translation key naming a preset window.
// Non-preset windows return an empty key.
func (w Window) LabelKey() string {
	switch {
	case w.Unbounded():
		return "all"
	case w == 3:
		return "last3days"
	case w == 7:
		return "lastWeek"
	case w == 30:
		return "lastMonth"
	default:
		return ""
	}
}

// Next returns the preset window after w, wrapping around.
func (w Window) Next() Window {
	for i, p := range PresetWindows {
		if p == w {
			return PresetWindows[(i+1)%len(PresetWindows)]
		}
	}
	return PresetWindows[0]
}

// FilterSpec describes which reports are visible.
// It is rebuilt from user input every time filters are applied and has no
// identity of its own. The zero value (with Window set to WindowAll by
// NewFilterSpec) matches every report.
type FilterSpec struct {
	// Term is matched case-insensitively as a substring. Empty matches all.
	Term string `json:"term,omitempty"`

	// Sources restricts reports to these sources (OR). Empty means any.
	Sources []string `json:"sources,omitempty"`

	// Categories restricts reports to those carrying at least one of these
	// categories (OR). Empty means any.
	Categories []string `json:"categories,omitempty"`

	// Window is the recency window.
	Window Window `json:"window"`
}

// NewFilterSpec returns a spec with no constraints.
func NewFilterSpec() FilterSpec {
	return FilterSpec{Window: WindowAll}
}

// IsEmpty reports whether the spec constrains nothing.
func (s FilterSpec) IsEmpty() bool {
	return s.Term == "" && len(s.Sources) == 0 && len(s.Categories) == 0 && s.Window.Unbounded()
}

// HasSource reports whether source is selected.
func (s FilterSpec) HasSource(source string) bool {
	return contains(s.Sources, source)
}

// HasCategory reports whether category is selected.
func (s FilterSpec) HasCategory(category string) bool {
	return contains(s.Categories, category)
}

// ToggleSource returns a copy of the spec with source selected or deselected.
func (s FilterSpec) ToggleSource(source string) FilterSpec {
	s.Sources = toggle(s.Sources, source)
	return s
}

// ToggleCategory returns a copy of the spec with category selected or deselected.
func (s FilterSpec) ToggleCategory(category string) FilterSpec {
	s.Categories = toggle(s.Categories, category)
	return s
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func toggle(values []string, v string) []string {
	out := make([]string, 0, len(values)+1)
	found := false
	for _, x := range values {
		if x == v {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

// Facet is one filterable value with the number of catalog records that
// reference it.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
