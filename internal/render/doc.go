// Package render turns filtered reports into a view model and writes that
// view model in several output formats.
//
// Building and writing are separate steps. Builder produces a View, a
// plain data description of the page: report cards, facet lists, counts,
// empty or error state and every label already translated. Writers only
// lay a View out as HTML, Markdown, terminal text or JSON; they never
// filter, translate or format dates themselves.
package render
