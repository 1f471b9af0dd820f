// Package main provides the entry point for the reportdeck CLI.
//
// reportdeck browses a catalog of security reports: a directory (or HTTP
// origin) holding reports-index.json and one JSON document per report.
//
// Usage:
//
//	reportdeck browse --q ransomware --window 7
//	reportdeck serve --watch
//	reportdeck tui
//	reportdeck index
//	reportdeck check
//
// See --help for all available options.
package main

// main is the entry point for reportdeck.
func main() {
	Execute()
}
