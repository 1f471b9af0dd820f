package catalog

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/reportdeck/internal/model"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one successful load.
type Result struct {
	// Records are the loaded reports with ids 1..N in manifest order.
	Records []model.Report

	// Index is the parsed manifest.
	Index *model.Index

	// Skipped lists documents that failed to load, in manifest order.
	Skipped []Skipped

	// Fingerprint is a hex SHA3-256 digest of the manifest and every loaded
	// document. It changes whenever the visible catalog changes.
	Fingerprint string

	// LoadedAt is the load-time "now" used for missing dates.
	LoadedAt time.Time
}

// Skipped records a document that was dropped from a load.
type Skipped struct {
	Name string
	Err  error
}

// Loader fetches the manifest and the documents it lists.
type Loader struct {
	fetcher     Fetcher
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConcurrency sets how many documents are fetched at once.
// Default is 8.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger used for skipped documents.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithClock sets the clock that supplies the load-time "now".
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader creates a Loader reading through f.
func NewLoader(f Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:     f,
		concurrency: 8,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// fetched is the per-document outcome, stored at the manifest position.
type fetched struct {
	raw []byte
	doc model.Document
	err error
}

// Load reads the manifest and every listed document.
//
// Documents are fetched concurrently, but Load only returns after every
// attempt has settled. The returned error wraps ErrIndexUnavailable when
// the manifest is unusable, or is the context error when ctx was cancelled
// during the load. Individual document failures never fail the load.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	now := l.now()

	raw, err := l.fetcher.Fetch(ctx, model.IndexFileName)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	index, err := ParseIndex(raw)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loading catalog",
		"reports", len(index.Reports),
		"concurrency", l.concurrency,
	)

	outcomes := make([]fetched, len(index.Reports))

	// The group context is not used for fetches: a failing document must
	// not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(l.concurrency)

	for i, name := range index.Reports {
		g.Go(func() error {
			outcomes[i] = l.fetchDocument(ctx, name)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines never return errors

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := sha3.New256()
	hash.Write(raw)

	result := &Result{
		Records:  make([]model.Report, 0, len(index.Reports)),
		Index:    index,
		LoadedAt: now,
	}

	for i, out := range outcomes {
		name := index.Reports[i]
		if out.err != nil {
			l.logger.Warn("skipping report document",
				"name", name,
				"error", out.err,
			)
			result.Skipped = append(result.Skipped, Skipped{Name: name, Err: out.err})
			continue
		}

		id := len(result.Records) + 1
		result.Records = append(result.Records, out.doc.Normalize(id, now))
		hash.Write([]byte{0})
		hash.Write(out.raw)
	}

	result.Fingerprint = hex.EncodeToString(hash.Sum(nil))

	l.logger.Info("catalog loaded",
		"reports", len(result.Records),
		"skipped", len(result.Skipped),
	)

	return result, nil
}

func (l *Loader) fetchDocument(ctx context.Context, name string) fetched {
	raw, err := l.fetcher.Fetch(ctx, name)
	if err != nil {
		return fetched{err: fmt.Errorf("%w: %w", ErrRecordUnavailable, err)}
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return fetched{err: fmt.Errorf("%w: %s: %w", ErrRecordUnavailable, name, err)}
	}
	return fetched{raw: raw, doc: doc}
}

// ParseIndex decodes manifest bytes.
// The "reports" field must be present and be an array of strings; the
// informational fields are decoded leniently.
func ParseIndex(data []byte) (*model.Index, error) {
	var raw struct {
		Reports      json.RawMessage `json:"reports"`
		LastUpdated  json.RawMessage `json:"lastUpdated"`
		TotalReports json.RawMessage `json:"totalReports"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed manifest: %w", ErrIndexUnavailable, err)
	}

	reports := bytes.TrimSpace(raw.Reports)
	if len(reports) == 0 || bytes.Equal(reports, []byte("null")) {
		return nil, fmt.Errorf("%w: manifest has no reports list", ErrIndexUnavailable)
	}

	index := &model.Index{}
	if err := json.Unmarshal(reports, &index.Reports); err != nil {
		return nil, fmt.Errorf("%w: reports must be an array of strings: %w", ErrIndexUnavailable, err)
	}

	// Informational fields are best effort.
	_ = json.Unmarshal(raw.LastUpdated, &index.LastUpdated)   //nolint:errcheck
	_ = json.Unmarshal(raw.TotalReports, &index.TotalReports) //nolint:errcheck

	return index, nil
}

// errNotObject is returned for documents that are valid JSON but not objects.
var errNotObject = errors.New("document is not a JSON object")

// ParseDocument decodes one report document.
func ParseDocument(data []byte) (model.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if json.Valid(trimmed) {
			return model.Document{}, errNotObject
		}
	}

	var doc model.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}
