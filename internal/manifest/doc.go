// Package manifest generates reports-index.json from the contents of a
// reports directory.
//
// The generated manifest lists every *.json file of the directory in
// alphabetical order, except the manifest itself and the example
// template. Documents are not opened: a malformed document is listed like
// any other and only skipped later, when the catalog is loaded.
package manifest
