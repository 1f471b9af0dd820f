package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/reportdeck/internal/catalog"
	"github.com/nao1215/reportdeck/internal/config"
	"github.com/nao1215/reportdeck/internal/filter"
	"github.com/nao1215/reportdeck/internal/model"
	"github.com/nao1215/reportdeck/internal/render"
)

// Controller owns the catalog state and turns filter requests into views.
// It is safe for concurrent use.
type Controller struct {
	loader  *catalog.Loader
	store   *catalog.Store
	engine  *filter.Engine
	builder *render.Builder
	logger  *slog.Logger
}

// Option configures a Controller.
type Option func(*controllerOptions)

type controllerOptions struct {
	logger      *slog.Logger
	now         func() time.Time
	sourceLimit int
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *controllerOptions) {
		o.logger = logger
	}
}

// WithClock sets the clock used for recency filtering and relative dates.
func WithClock(now func() time.Time) Option {
	return func(o *controllerOptions) {
		o.now = now
	}
}

// WithSourceLimit sets how many source facets views show.
func WithSourceLimit(n int) Option {
	return func(o *controllerOptions) {
		o.sourceLimit = n
	}
}

// NewController creates a Controller around loader. No load happens
// until Reload is called.
func NewController(loader *catalog.Loader, opts ...Option) *Controller {
	o := &controllerOptions{
		now:         time.Now,
		sourceLimit: render.DefaultSourceLimit,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &Controller{
		loader: loader,
		store:  catalog.NewStore(),
		engine: filter.New(filter.WithClock(o.now)),
		builder: render.NewBuilder(
			render.WithClock(o.now),
			render.WithSourceLimit(o.sourceLimit),
		),
		logger: o.logger,
	}
}

// New creates a Controller for the catalog named by cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Controller, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, err
	}

	loader := catalog.NewLoader(fetcher,
		catalog.WithConcurrency(cfg.Concurrency),
		catalog.WithLogger(logger),
	)

	return NewController(loader,
		WithLogger(logger),
		WithSourceLimit(cfg.SourceLimit),
	), nil
}

// NewFetcher returns the fetcher for the configured catalog location.
func NewFetcher(cfg *config.Config) (catalog.Fetcher, error) {
	if !cfg.IsRemote() {
		return catalog.NewDirFetcher(cfg.Reports), nil
	}

	opts := []catalog.HTTPOption{
		catalog.WithUserAgent(cfg.UserAgent),
		catalog.WithHeaders(cfg.Headers),
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, catalog.WithMaxBodySize(cfg.MaxBodySize))
	}

	fetcher, err := catalog.NewHTTPFetcher(cfg.Reports, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid reports URL: %w", err)
	}
	return fetcher, nil
}

// Reload loads the catalog and commits the result. A load overtaken by a
// newer one is discarded without error. The returned error is the load
// error, which the store also keeps for the views.
func (c *Controller) Reload(ctx context.Context) (catalog.Snapshot, error) {
	gen := c.store.Begin()
	c.logger.Debug("loading catalog", "generation", gen)

	result, loadErr := c.loader.Load(ctx)
	if loadErr != nil && ctx.Err() != nil {
		// Cancellation says nothing about the catalog.
		return c.store.Snapshot(), loadErr
	}

	if err := c.store.Commit(gen, result, loadErr); err != nil {
		if errors.Is(err, catalog.ErrStaleGeneration) {
			c.logger.Debug("discarded stale catalog load", "generation", gen)
			return c.store.Snapshot(), nil
		}
		return c.store.Snapshot(), err
	}

	if loadErr != nil {
		c.logger.Error("failed to load catalog", "generation", gen, "error", loadErr)
		return c.store.Snapshot(), loadErr
	}

	c.logger.Debug("catalog loaded",
		"generation", gen,
		"reports", len(result.Records),
		"skipped", len(result.Skipped),
		"fingerprint", result.Fingerprint,
	)
	return c.store.Snapshot(), nil
}

// Snapshot returns the committed catalog state.
func (c *Controller) Snapshot() catalog.Snapshot {
	return c.store.Snapshot()
}

// Filter returns the committed records that match spec, newest first.
func (c *Controller) Filter(spec model.FilterSpec) []model.Report {
	return c.engine.Apply(c.store.Snapshot().Records, spec)
}

// View renders the committed catalog for spec. A failed last load gives
// the error view.
func (c *Controller) View(spec model.FilterSpec, lang string, theme model.Theme) *render.View {
	return c.ViewOf(c.store.Snapshot(), spec, lang, theme)
}

// ViewOf renders snap for spec. Callers that already hold a snapshot use
// it to keep the view consistent with what they inspected.
func (c *Controller) ViewOf(snap catalog.Snapshot, spec model.FilterSpec, lang string, theme model.Theme) *render.View {
	if snap.Err != nil {
		return c.builder.BuildError(lang, theme)
	}

	in := render.Input{
		Filtered: c.engine.Apply(snap.Records, spec),
		All:      snap.Records,
		Spec:     spec,
		Lang:     lang,
		Theme:    theme,
	}
	if snap.Index != nil {
		in.LastUpdated = snap.Index.LastUpdated
	}
	return c.builder.Build(in)
}
