package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/reportdeck/internal/manifest"
	"github.com/spf13/cobra"
)

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index [reports-dir]",
		Short: "Regenerate reports-index.json",
		Long: `Index scans the reports directory and rewrites reports-index.json.

Every *.json file except reports-index.json and template.json is listed,
sorted by name, with the current time as lastUpdated. The documents are
not validated; use "reportdeck check" for that.

Examples:
  # Index the configured reports directory
  reportdeck index

  # Index another directory
  reportdeck index ./public/reports`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIndexCmd,
	}
}

// runIndexCmd executes the index command.
func runIndexCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	dir := cfg.Reports
	if len(args) == 1 {
		dir = args[0]
	} else if cfg.IsRemote() {
		return errors.New("cannot index a remote catalog (pass a local directory)")
	}

	index, path, err := manifest.Update(dir, time.Now())
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", dir, err)
	}
	logger.Debug("manifest written", "path", path, "reports", index.TotalReports)

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d reports)\n", path, index.TotalReports)
	for _, name := range index.Reports {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
	}
	return nil
}
