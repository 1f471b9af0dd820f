package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/reportdeck/internal/check"
	"github.com/spf13/cobra"
)

// errCheckFailed makes the command exit non-zero after printing the report.
var errCheckFailed = errors.New("setup check found errors")

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [reports-dir]",
		Short: "Check the reports directory for problems",
		Long: `Check verifies that a reports directory is ready to be served:

- the directory exists
- it holds report documents
- reports-index.json exists, is valid and matches the directory
- each document is a JSON object with title, source, description,
  categories and a dd-mm-yyyy date

Errors make the command exit with a non-zero status; warnings do not.

Examples:
  reportdeck check
  reportdeck check ./public/reports`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheckCmd,
	}
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	dir := cfg.Reports
	if len(args) == 1 {
		dir = args[0]
	} else if cfg.IsRemote() {
		return errors.New("cannot check a remote catalog (pass a local directory)")
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	report, err := check.Run(ctx, dir, check.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if _, err := check.WriteText(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if report.HasErrors() {
		return errCheckFailed
	}
	return nil
}
