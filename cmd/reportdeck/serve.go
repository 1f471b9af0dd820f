package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/reportdeck/internal/app"
	"github.com/nao1215/reportdeck/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful shutdown of the web server.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report browser over HTTP",
		Long: `Serve starts the web browser for the catalog.

Routes:
  GET  /                 the report page (q, source, category, window, lang, theme)
  GET  /api/reports      the same view as JSON, with an ETag
  GET  /export/:format   the view as text, markdown, json or html
  POST /api/reload       reload the catalog
  GET  /healthz          catalog status

With --watch, a local reports directory is watched and the catalog reloads
when documents or the manifest change. --auto-index also regenerates
reports-index.json when documents are added or removed.

Examples:
  reportdeck serve
  reportdeck serve -l 0.0.0.0:8080 --watch --auto-index`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", "",
		"Address to listen on (default: 127.0.0.1:8080)")
	cmd.Flags().Bool("watch", false,
		"Reload when the local reports directory changes")
	cmd.Flags().Bool("auto-index", false,
		"Regenerate the manifest when watched documents change")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	if listen, changed := lookupFlag(cmd, "listen"); changed {
		cfg.ListenAddress = listen
	}
	if watch, changed := lookupFlag(cmd, "watch"); changed {
		cfg.Watch = watch == "true"
	}
	autoIndex, err := cmd.Flags().GetBool("auto-index")
	if err != nil {
		return err
	}
	if cfg.Watch && cfg.IsRemote() {
		return errors.New("--watch needs a local reports directory")
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	d, err := resolveDisplay(ctx, cmd, cfg, logger)
	if err != nil {
		return err
	}

	ctrl, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	if _, err := ctrl.Reload(ctx); err != nil {
		// The page shows the error state until a reload succeeds.
		logger.Warn("initial catalog load failed", "reports", cfg.Reports, "error", err)
	}

	srv := server.New(ctrl,
		server.WithLogger(logger),
		server.WithDefaults(d.lang, d.theme),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", cfg.Reports, cfg.ListenAddress)
		return srv.Listen(cfg.ListenAddress)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Watch {
		watcher := app.NewWatcher(cfg.Reports, ctrl,
			app.WithAutoIndex(autoIndex),
			app.WithWatcherLogger(logger),
		)
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	return g.Wait()
}
