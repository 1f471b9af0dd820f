// Package database provides SQLite-based storage for reportdeck.
//
// The PrefsDB stores the display preferences that survive between runs:
//   - the theme (light or dark)
//   - the interface language (es, en or fr)
//
// The database is a single file under the XDG data directory, opened
// through the CGO-free modernc.org/sqlite driver.
package database
