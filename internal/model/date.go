package model

import (
	"regexp"
	"strings"
	"time"
)

// dayMonthYear matches the dd-mm-yyyy form used by hand-written catalogs.
var dayMonthYear = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// dayMonthYearLayout is the time layout for dayMonthYear.
const dayMonthYearLayout = "02-01-2006"

// dateLayouts contains the generic layouts tried after dd-mm-yyyy.
// The order matters: more specific formats should come first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate parses a report date in either of the formats found across
// catalog versions.
//
// A value matching dd-mm-yyyy is read as day-month-year at UTC midnight.
// Anything else is tried against common ISO-8601 and RFC layouts; values
// without a zone are read as UTC. An empty value, or one no layout
// accepts, yields now.
func ParseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}

	if dayMonthYear.MatchString(s) {
		if t, err := time.Parse(dayMonthYearLayout, s); err == nil {
			return t
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return now
}

// ParseDualFormatDate is ParseDate with the current time as fallback.
func ParseDualFormatDate(s string) time.Time {
	return ParseDate(s, time.Now())
}

// IsDayMonthYear reports whether s uses the dd-mm-yyyy form.
// The setup check recommends this form for new documents.
func IsDayMonthYear(s string) bool {
	return dayMonthYear.MatchString(s)
}
