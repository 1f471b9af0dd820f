package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/reportdeck/internal/config"
	"github.com/nao1215/reportdeck/internal/manifest"
	"github.com/nao1215/reportdeck/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed templates/reportdeck.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new reportdeck configuration file",
		Long: `Initialize creates a new .reportdeck configuration file in the current directory.

The --reports flag sets the catalog location written to the file. After
writing, init loads the new file and reports what it finds there.

The generated file includes:
- The catalog location and fetch settings
- Web server settings
- Display defaults, documented inline

Examples:
  # Create .reportdeck in current directory
  reportdeck init

  # Create config file at a specific path
  reportdeck init -o myconfig.yaml

  # Point the new file at a published catalog
  reportdeck init -r https://example.org/reports/

  # Force overwrite existing file
  reportdeck init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/reportdeck.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}
	if reports, changed := lookupFlag(cmd, "reports"); changed {
		if content, err = setReports(content, reports); err != nil {
			return err
		}
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	cfg, err := config.Load(outputPath)
	if err != nil {
		return fmt.Errorf("created %s but it does not load: %w", outputPath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintf(out, "Reports location: %s\n", cfg.Reports)
	describeCatalog(out, cfg)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - HTTP headers for a private catalog")
	fmt.Fprintln(out, "  - The default language and theme")

	return nil
}

// setReports replaces the reports value of the template.
func setReports(content []byte, reports string) ([]byte, error) {
	value, err := yaml.Marshal(reports)
	if err != nil {
		return nil, fmt.Errorf("invalid --reports value: %w", err)
	}
	const line = "\nreports: reports\n"
	if !bytes.Contains(content, []byte(line)) {
		return nil, errors.New("config template has no reports entry")
	}
	return bytes.Replace(content, []byte(line), append([]byte("\nreports: "), value...), 1), nil
}

// describeCatalog prints what the configured reports location holds.
func describeCatalog(out io.Writer, cfg *config.Config) {
	if cfg.IsRemote() {
		fmt.Fprintln(out, "Remote catalog; run \"reportdeck check\" to test the connection.")
		return
	}

	names, err := manifest.Scan(cfg.Reports)
	if err != nil {
		fmt.Fprintln(out, "The reports directory does not exist yet; create it and run \"reportdeck index\".")
		return
	}
	if _, err := os.Stat(filepath.Join(cfg.Reports, model.IndexFileName)); err != nil {
		fmt.Fprintf(out, "%d report documents and no %s; run \"reportdeck index\".\n", len(names), model.IndexFileName)
		return
	}
	fmt.Fprintf(out, "%d report documents indexed by %s.\n", len(names), model.IndexFileName)
}
