// Package i18n resolves user-facing text for the supported interface
// languages (Spanish, English and French).
//
// Lookups never fail: an unsupported language falls back to the default
// language table, and a missing key is returned unchanged so the interface
// still shows something meaningful. Positional placeholders such as {0}
// are replaced by the stringified arguments.
package i18n
