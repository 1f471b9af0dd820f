// Package app wires the catalog, the filter engine and the view builder
// into the Controller every user interface drives, and watches a local
// reports directory for changes.
package app
