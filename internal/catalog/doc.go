// Package catalog loads the report catalog and holds the current record set.
//
// A load reads the manifest (reports-index.json) through a Fetcher, then
// fetches every listed document concurrently. A broken manifest fails the
// whole load; a broken document only drops that document. Results are
// published through a Store, which ignores results from loads that were
// overtaken by a newer one.
package catalog
