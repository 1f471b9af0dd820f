// Package filter computes which catalog reports are visible for a filter
// specification, and the facet counts shown next to the filter options.
//
// Everything here is a pure function of its inputs: no I/O, no package
// state, and the input slices are never modified. Applying the same
// specification twice to the same records yields the same sequence.
package filter
