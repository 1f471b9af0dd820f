package catalog

import "errors"

var (
	// ErrIndexUnavailable means the manifest could not be fetched or parsed.
	// It is the only error that fails a load.
	ErrIndexUnavailable = errors.New("report index unavailable")

	// ErrRecordUnavailable means one report document could not be fetched
	// or parsed. The document is skipped.
	ErrRecordUnavailable = errors.New("report document unavailable")

	// ErrInvalidName is returned for document names that escape the
	// reports location (absolute paths, "..", empty names).
	ErrInvalidName = errors.New("invalid report name")

	// ErrUnexpectedStatus is returned by HTTPFetcher for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is returned by HTTPFetcher for responses larger than
	// the configured body limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrStaleGeneration is returned by Store.Commit when a newer load has
	// already been committed.
	ErrStaleGeneration = errors.New("stale catalog generation")
)
