// Package model defines the core data structures used throughout reportdeck.
//
// This package contains the following main types:
//   - Report: One security report normalized from its JSON document
//   - Index: The catalog manifest listing report documents
//   - FilterSpec: The transient filter state applied to a catalog
//   - Facet: A filterable value with its catalog-wide record count
//   - Theme: The persisted light/dark display preference
//
// The models are designed to be serializable to JSON for API output.
package model
