package render

import (
	"strings"

	"github.com/nao1215/reportdeck/internal/model"
)

// View is everything a writer needs to present one state of the browser.
type View struct {
	// Lang is the resolved language id of every string in the view.
	Lang string `json:"lang"`

	// Theme is the active display theme.
	Theme model.Theme `json:"theme"`

	// Labels holds the translated interface strings.
	Labels Labels `json:"labels"`

	// Languages is the language menu.
	Languages []LanguageOption `json:"languages"`

	// Term is the active search term, empty when none.
	Term string `json:"term,omitempty"`

	// Windows lists the recency window buttons.
	Windows []WindowOption `json:"windows"`

	// Count is the number of cards.
	Count int `json:"count"`

	// Total is the number of reports in the catalog.
	Total int `json:"total"`

	// Cards are the matching reports, most recent first.
	Cards []Card `json:"cards"`

	// Sources is the source facet list, capped to the first entries in
	// discovery order.
	Sources []FacetItem `json:"sources"`

	// HiddenSources is how many sources the cap left out.
	HiddenSources int `json:"hiddenSources,omitempty"`

	// SelectedHiddenSources are selected sources missing from Sources, kept
	// so a page form submits them again.
	SelectedHiddenSources []string `json:"selectedHiddenSources,omitempty"`

	// Categories is the full category facet list.
	Categories []FacetItem `json:"categories"`

	// LastUpdated is the manifest timestamp as published, empty when absent.
	LastUpdated string `json:"lastUpdated,omitempty"`

	// Empty is set when no report matches.
	Empty *Notice `json:"empty,omitempty"`

	// Error is set when the catalog could not be loaded. Cards and facets
	// are empty in that case.
	Error *Notice `json:"error,omitempty"`
}

// Labels are the translated strings of the page chrome.
type Labels struct {
	Filters           string `json:"filters"`
	SearchPlaceholder string `json:"searchPlaceholder"`
	LastUpdate        string `json:"lastUpdate"`
	Source            string `json:"source"`
	ShowMore          string `json:"showMore"`
	Categories        string `json:"categories"`
	Reports           string `json:"reports"`
	SourceLabel       string `json:"sourceLabel"`
	ViewFullReport    string `json:"viewFullReport"`
	ChangeTheme       string `json:"changeTheme"`
	ChangeLanguage    string `json:"changeLanguage"`
}

// LanguageOption is one entry of the language menu.
type LanguageOption struct {
	ID     string `json:"id"`
	Flag   string `json:"flag"`
	Active bool   `json:"active"`
}

// WindowOption is one recency window button.
type WindowOption struct {
	// Param is the query value selecting the window ("all", "3" ...).
	Param  string `json:"param"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// FacetItem is one checkbox of a facet list.
type FacetItem struct {
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// Notice is a titled message for the empty and error states.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Card is one report in the result list.
type Card struct {
	ID          int    `json:"id"`
	Title       Text   `json:"title"`
	Source      string `json:"source"`
	Date        string `json:"date"`
	DateISO     string `json:"dateISO"`
	CVE         Text   `json:"cve,omitempty"`
	Description Text   `json:"description"`
	URL         string `json:"url,omitempty"`
	Tags        []Tag  `json:"tags"`
}

// Tag is a category label with its colour class.
type Tag struct {
	Value Text   `json:"value"`
	Class string `json:"class"`
}

// Text is a string split into highlighted and plain segments.
type Text []Segment

// Segment is a run of text; Match marks a search hit.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// String joins the segments back into plain text.
func (t Text) String() string {
	var sb strings.Builder
	for _, s := range t {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// HasMatch reports whether any segment is a search hit.
func (t Text) HasMatch() bool {
	for _, s := range t {
		if s.Match {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the text has no characters.
func (t Text) IsEmpty() bool {
	for _, s := range t {
		if s.Text != "" {
			return false
		}
	}
	return true
}
