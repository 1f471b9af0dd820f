package main

import (
	"github.com/nao1215/reportdeck/internal/app"
	"github.com/nao1215/reportdeck/internal/database"
	"github.com/nao1215/reportdeck/internal/tui"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the tui command.
func NewTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the catalog interactively in the terminal",
		Long: `Tui opens an interactive browser for the catalog.

Press / to search, w to cycle the recency window, tab to move to the
facet list and space to toggle a source or category. t switches the theme
and l the language; both are saved as preferences. r reloads the catalog
and q quits.

Examples:
  reportdeck tui
  reportdeck tui -q phishing --lang en`,
		Args: cobra.NoArgs,
		RunE: runTUICmd,
	}

	addFilterFlags(cmd)

	return cmd
}

// runTUICmd executes the tui command.
func runTUICmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	spec, err := specFromFlags(cmd)
	if err != nil {
		return err
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

	opts := []tui.Option{tui.WithSpec(spec), tui.WithLogger(logger)}
	db, err := database.Open(cfg.DataDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("preferences will not be saved", "dir", cfg.DataDir, "error", err)
	} else {
		defer db.Close()
		opts = append(opts, tui.WithPreferences(db))
	}

	return tui.Run(ctx, tui.New(ctrl, d.lang, d.theme, opts...))
}
