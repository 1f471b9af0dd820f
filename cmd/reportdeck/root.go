package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/reportdeck/internal/config"
	"github.com/nao1215/reportdeck/internal/database"
	"github.com/nao1215/reportdeck/internal/i18n"
	logging "github.com/nao1215/reportdeck/internal/log"
	"github.com/nao1215/reportdeck/internal/model"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for reportdeck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reportdeck",
		Short: "Browse a catalog of security reports",
		Long: `reportdeck browses a curated catalog of security reports.

A catalog is a directory (or an HTTP origin) that holds reports-index.json
and one JSON document per report. reportdeck filters the catalog by search
term, source, category and recency, and shows it on the terminal, in an
interactive browser, or as a small web site.

The catalog location, display defaults and HTTP settings are read from
.reportdeck in the current or home directory (see "reportdeck init").`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .reportdeck in current or home directory)")
	cmd.PersistentFlags().StringP("reports", "r", "",
		"Reports directory or http(s) base URL (default: ./reports)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	// Add subcommands
	cmd.AddCommand(NewBrowseCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewTUICmd())
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewPrefsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// lookupFlag returns a flag of the command or of its parents.
func lookupFlag(cmd *cobra.Command, name string) (string, bool) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.Root().PersistentFlags().Lookup(name)
	}
	if f == nil {
		return "", false
	}
	return f.Value.String(), f.Changed
}

// loadConfig builds the configuration from the defaults, the config file
// and the global flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := lookupFlag(cmd, "config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if reports, changed := lookupFlag(cmd, "reports"); changed {
		cfg.Reports = reports
	}
	if verbose, _ := lookupFlag(cmd, "verbose"); verbose == "true" {
		cfg.Verbose = true
	}
	if logJSON, _ := lookupFlag(cmd, "log-json"); logJSON == "true" {
		cfg.LogJSON = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newLogger creates the secure logger for cfg and installs it as default.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := logging.New(cmd.ErrOrStderr(), logging.Options{
		Verbose: cfg.Verbose,
		JSON:    cfg.LogJSON,
	})
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// display is the language and theme a command starts with.
type display struct {
	lang  string
	theme model.Theme
}

// resolveDisplay picks the language and theme. Explicit --lang and --theme
// flags win, then the stored preferences, then the configuration.
func resolveDisplay(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (display, error) {
	d := display{lang: cfg.Language, theme: cfg.Theme}

	db, err := database.Open(cfg.DataDir, database.Options{EnableWAL: true})
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		logger.Warn("failed to open preferences", "dir", cfg.DataDir, "error", err)
	default:
		defer db.Close()
		if value, ok, err := db.Get(ctx, database.KeyLanguage); err == nil && ok {
			d.lang = i18n.Resolve(value)
		}
		if value, ok, err := db.Get(ctx, database.KeyTheme); err == nil && ok {
			d.theme = model.ParseTheme(value)
		}
	}

	if lang, changed := lookupFlag(cmd, "lang"); changed {
		d.lang = i18n.Resolve(lang)
	}
	if theme, changed := lookupFlag(cmd, "theme"); changed {
		parsed, err := parseThemeFlag(theme)
		if err != nil {
			return d, err
		}
		d.theme = parsed
	}
	return d, nil
}

// parseThemeFlag accepts only the two theme names.
func parseThemeFlag(s string) (model.Theme, error) {
	switch model.Theme(s) {
	case model.ThemeLight, model.ThemeDark:
		return model.Theme(s), nil
	default:
		return "", fmt.Errorf("%w: %q (use light or dark)", config.ErrInvalidTheme, s)
	}
}
