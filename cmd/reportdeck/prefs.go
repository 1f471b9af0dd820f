package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/nao1215/reportdeck/internal/database"
	"github.com/nao1215/reportdeck/internal/i18n"
	"github.com/spf13/cobra"
)

// NewPrefsCmd creates the prefs command and its subcommands.
func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the stored display preferences",
		Long: `Prefs lists the stored preferences. The theme and language subcommands
read or change them. Stored preferences are used by browse, tui and serve
when no --lang or --theme flag is given.

Examples:
  reportdeck prefs
  reportdeck prefs theme dark
  reportdeck prefs theme toggle
  reportdeck prefs lang en`,
		Args: cobra.NoArgs,
		RunE: runPrefsListCmd,
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or set the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE:      runPrefsThemeCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "lang [es|en|fr]",
		Short: "Show or set the interface language",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPrefsLangCmd,
	})

	return cmd
}

// openPrefs opens the preferences database of the configured data dir.
func openPrefs(cmd *cobra.Command) (*database.PrefsDB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	newLogger(cmd, cfg)

	db, err := database.Open(cfg.DataDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	return db, nil
}

// runPrefsListCmd lists every stored preference.
func runPrefsListCmd(cmd *cobra.Command, _ []string) error {
	db, err := openPrefs(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	prefs, err := db.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(prefs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No preferences stored.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tUPDATED")
	for _, p := range prefs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Key, p.Value, p.UpdatedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

// runPrefsThemeCmd shows, sets or toggles the theme.
func runPrefsThemeCmd(cmd *cobra.Command, args []string) error {
	db, err := openPrefs(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if len(args) == 0 {
		theme, err := db.Theme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme)
		return nil
	}

	if args[0] == "toggle" {
		theme, err := db.ToggleTheme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", theme)
		return nil
	}

	theme, err := parseThemeFlag(args[0])
	if err != nil {
		return err
	}
	if err := db.SetTheme(ctx, theme); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", theme)
	return nil
}

// runPrefsLangCmd shows or sets the language.
func runPrefsLangCmd(cmd *cobra.Command, args []string) error {
	db, err := openPrefs(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if len(args) == 0 {
		lang, err := db.Language(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", i18n.Flag(lang), lang)
		return nil
	}

	stored, err := db.SetLanguage(ctx, args[0])
	if err != nil {
		return err
	}
	if stored != args[0] {
		fmt.Fprintf(cmd.OutOrStdout(), "%q resolved to %s\n", args[0], stored)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Language set to %s %s\n", i18n.Flag(stored), stored)
	return nil
}
