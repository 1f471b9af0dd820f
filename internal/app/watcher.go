package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nao1215/reportdeck/internal/catalog"
	"github.com/nao1215/reportdeck/internal/manifest"
	"github.com/nao1215/reportdeck/internal/model"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Reloader reloads the catalog.
type Reloader interface {
	Reload(ctx context.Context) (catalog.Snapshot, error)
}

// Watcher reloads the catalog when JSON files of a local reports
// directory change.
type Watcher struct {
	dir       string
	reloader  Reloader
	debounce  time.Duration
	autoIndex bool
	now       func() time.Time
	logger    *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithAutoIndex regenerates the manifest before reloading when report
// documents were added, changed or removed.
func WithAutoIndex(enabled bool) WatcherOption {
	return func(w *Watcher) {
		w.autoIndex = enabled
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a Watcher for dir.
func NewWatcher(dir string, reloader Reloader, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:      dir,
		reloader: reloader,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Run watches until ctx is done. It returns nil on cancellation and an
// error when the directory cannot be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Debug("watching reports directory", "dir", w.dir)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := false
	documentsChanged := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			relevant, document := classify(event)
			if !relevant {
				continue
			}
			w.logger.Debug("reports directory changed", "file", filepath.Base(event.Name), "op", event.Op.String())
			documentsChanged = documentsChanged || document
			pending = true
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			w.flush(ctx, documentsChanged)
			pending = false
			documentsChanged = false
		}
	}
}

// flush regenerates the manifest if needed and reloads.
func (w *Watcher) flush(ctx context.Context, documentsChanged bool) {
	if w.autoIndex && documentsChanged {
		index, _, err := manifest.Update(w.dir, w.now())
		if err != nil {
			w.logger.Error("failed to regenerate manifest", "dir", w.dir, "error", err)
		} else {
			w.logger.Debug("manifest regenerated", "reports", index.TotalReports)
		}
	}

	if _, err := w.reloader.Reload(ctx); err != nil && ctx.Err() == nil {
		w.logger.Warn("reload after change failed", "error", err)
	}
}

// classify reports whether an event can change the catalog, and whether
// it touched a report document rather than the manifest.
func classify(event fsnotify.Event) (relevant, document bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false, false
	}

	name := filepath.Base(event.Name)
	if name == model.IndexFileName {
		return true, false
	}
	if manifest.IsEligible(name) {
		return true, true
	}
	return false, false
}
