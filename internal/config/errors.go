package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoReports is returned when no catalog location is configured.
	ErrNoReports = errors.New("no reports location: provide a directory or an http(s) URL")

	// ErrInvalidConcurrency is returned when the fetch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidSourceLimit is returned when the source facet cap is not positive.
	ErrInvalidSourceLimit = errors.New("invalid source limit: must be positive")

	// ErrInvalidTheme is returned for a theme other than light or dark.
	ErrInvalidTheme = errors.New("invalid theme: must be light or dark")

	// ErrUnsupportedLanguage is returned for a language without a table.
	ErrUnsupportedLanguage = errors.New("unsupported language: must be es, en or fr")

	// ErrInvalidHeader is returned for a header name that cannot be sent.
	ErrInvalidHeader = errors.New("invalid header name")
)
