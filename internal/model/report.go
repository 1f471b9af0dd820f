package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Report is one security report after normalization.
// Reports are created by the catalog loader and never modified afterwards;
// filtering and rendering always work on copies of the slice header.
type Report struct {
	// ID is the 1-based position of the report in the loaded catalog.
	// It is assigned purely by load order and is not stable across reloads:
	// reordering the manifest, or a document failing to load, shifts it.
	ID int `json:"id"`

	// Title is the report headline.
	Title string `json:"title"`

	// Source is the publisher of the report (vendor, CERT, blog...).
	Source string `json:"source"`

	// Description is a short plain-text summary.
	Description string `json:"description"`

	// URL links to the full report. Empty when the document has none.
	URL string `json:"url,omitempty"`

	// CVE is an optional vulnerability identifier shown as a badge.
	CVE string `json:"cve,omitempty"`

	// Categories are free-form tags in document order. Never nil.
	Categories []string `json:"categories"`

	// Date is the publication date of the report.
	Date time.Time `json:"date"`
}

// HasCategory reports whether the report is tagged with category.
// The comparison is exact, matching how facet selections are applied.
func (r Report) HasCategory(category string) bool {
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Document is the on-disk JSON shape of a report document.
// Every field is optional; missing fields are resolved to defaults by
// Normalize rather than treated as errors.
type Document struct {
	Title       string       `json:"title"`
	Source      string       `json:"source"`
	Description string       `json:"description"`
	URL         string       `json:"url,omitempty"`
	CVE         string       `json:"cve,omitempty"`
	Categories  []string     `json:"categories,omitempty"`
	Date        DocumentDate `json:"date,omitempty"`
}

// Normalize converts the document into a Report with the given id.
// now is used for a missing or unparsable date.
func (d Document) Normalize(id int, now time.Time) Report {
	categories := d.Categories
	if categories == nil {
		categories = []string{}
	}

	return Report{
		ID:          id,
		Title:       d.Title,
		Source:      d.Source,
		Description: d.Description,
		URL:         d.URL,
		CVE:         d.CVE,
		Categories:  categories,
		Date:        ParseDate(string(d.Date), now),
	}
}

// DocumentDate holds the raw "date" field of a document.
// Producers emit either a string (ISO-8601 or dd-mm-yyyy) or, in older
// catalogs, a number of milliseconds since the Unix epoch. Both are kept
// as text and resolved by ParseDate.
type DocumentDate string

// UnmarshalJSON accepts a string, a number or null.
func (d *DocumentDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = DocumentDate(s)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	*d = DocumentDate(time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339Nano))
	return nil
}

// IndexFileName is the manifest file name inside the reports directory.
const IndexFileName = "reports-index.json"

// TemplateFileName is the example document shipped next to real reports.
// It is never listed in the manifest.
const TemplateFileName = "template.json"

// Index is the catalog manifest.
// Reports lists document file names relative to the reports directory, in
// the order they should be loaded. LastUpdated and TotalReports are
// informational only and are never validated against Reports.
type Index struct {
	Reports      []string `json:"reports"`
	LastUpdated  string   `json:"lastUpdated"`
	TotalReports int      `json:"totalReports"`
}

// String returns a short description used in log output.
func (i *Index) String() string {
	if i == nil {
		return "<nil index>"
	}
	return strconv.Itoa(len(i.Reports)) + " reports"
}
