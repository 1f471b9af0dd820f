package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/reportdeck/internal/app"
	"github.com/nao1215/reportdeck/internal/render"
	"github.com/spf13/cobra"
)

// NewBrowseCmd creates the browse command.
func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Print the filtered report catalog",
		Long: `Browse loads the catalog once, applies the filters and prints the result.

Examples:
  # Every report, newest first
  reportdeck browse

  # Ransomware reports of the last week, in English
  reportdeck browse -q ransomware -w 7 --lang en

  # Reports from two sources as Markdown rendered for the terminal
  reportdeck browse -s CERT-EU -s Mandiant -f markdown --pretty

  # Write a standalone HTML page
  reportdeck browse -f html -o site/index.html

  # Use a remote catalog
  reportdeck browse -r https://example.org/reports/`,
		Args: cobra.NoArgs,
		RunE: runBrowseCmd,
	}

	addFilterFlags(cmd)
	cmd.Flags().StringP("format", "f", string(render.FormatText),
		"Output format: text, markdown, json or html")
	cmd.Flags().StringP("output", "o", "",
		"Write the output to this file (creates directories if needed)")
	cmd.Flags().Bool("pretty", false,
		"Render markdown for the terminal and indent JSON")

	return cmd
}

// runBrowseCmd executes the browse command.
func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	spec, err := specFromFlags(cmd)
	if err != nil {
		return err
	}

	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	pretty, err := cmd.Flags().GetBool("pretty")
	if err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
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
	_, loadErr := ctrl.Reload(ctx)
	if loadErr != nil && ctx.Err() != nil {
		return loadErr
	}

	view := ctrl.View(spec, d.lang, d.theme)
	if err := writeView(cmd.OutOrStdout(), outputPath, format, pretty, view); err != nil {
		return err
	}

	if loadErr != nil {
		return fmt.Errorf("failed to load catalog from %s: %w", cfg.Reports, loadErr)
	}
	return nil
}

// writeView writes v to the file at path, or to stdout when path is empty.
func writeView(stdout io.Writer, path string, format render.Format, pretty bool, v *render.View) error {
	output := stdout
	if path != "" {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if _, err := render.NewWriter(format, output, pretty).Write(v); err != nil {
		return fmt.Errorf("failed to write %s output: %w", format, err)
	}
	return nil
}
