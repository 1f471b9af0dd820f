package main

import (
	"fmt"

	"github.com/nao1215/reportdeck/internal/model"
	"github.com/spf13/cobra"
)

// addFilterFlags adds the filter and display flags shared by browse and tui.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "",
		"Search term matched against title, description, source, categories and CVE")
	cmd.Flags().StringArrayP("source", "s", nil,
		"Only show reports from this source (repeatable)")
	cmd.Flags().StringArrayP("category", "k", nil,
		"Only show reports with this category (repeatable)")
	cmd.Flags().StringP("window", "w", "all",
		"Recency window: all or a number of days (3, 7, 30 ...)")
	cmd.Flags().String("lang", "",
		"Interface language: es, en or fr (default: stored preference)")
	cmd.Flags().String("theme", "",
		"Display theme: light or dark (default: stored preference)")
}

// specFromFlags builds the filter from the flags added by addFilterFlags.
func specFromFlags(cmd *cobra.Command) (model.FilterSpec, error) {
	spec := model.NewFilterSpec()

	var err error
	spec.Term, err = cmd.Flags().GetString("query")
	if err != nil {
		return spec, err
	}

	sources, err := cmd.Flags().GetStringArray("source")
	if err != nil {
		return spec, err
	}
	for _, s := range sources {
		if !spec.HasSource(s) {
			spec = spec.ToggleSource(s)
		}
	}

	categories, err := cmd.Flags().GetStringArray("category")
	if err != nil {
		return spec, err
	}
	for _, c := range categories {
		if !spec.HasCategory(c) {
			spec = spec.ToggleCategory(c)
		}
	}

	window, err := cmd.Flags().GetString("window")
	if err != nil {
		return spec, err
	}
	spec.Window, err = model.ParseWindow(window)
	if err != nil {
		return spec, fmt.Errorf("invalid --window: %w", err)
	}

	return spec, nil
}
