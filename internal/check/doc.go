// Package check verifies that a reports directory is ready to be served.
//
// The check is a pipeline of ordered steps. Each step appends findings to
// a model.CheckReport; a step returns an error only when later steps
// cannot run at all (for example, when the directory does not exist).
// Warnings describe problems the browser tolerates, errors describe
// problems that break loading.
package check
