// Package tui is the interactive terminal browser.
//
// The model drives the same controller as the web server: every key that
// changes the filter rebuilds a render.View and lays it out with
// render.TextWriter inside a scrolling viewport.
//
// Keys:
//
//	/        focus the search box (enter applies, esc cancels)
//	w        cycle the recency window
//	tab      move between the report list and the facet list
//	j k      move the facet cursor or scroll the reports
//	space    toggle the facet under the cursor
//	m        show every source instead of the first few
//	c        clear all filters
//	t        toggle the theme
//	l        cycle the language
//	r        reload the catalog
//	q        quit
package tui
