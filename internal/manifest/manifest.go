package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nao1215/reportdeck/internal/model"
)

// ErrNotDirectory is returned when the reports path is not a directory.
var ErrNotDirectory = errors.New("reports path is not a directory")

// excluded are file names that are never listed.
var excluded = []string{model.IndexFileName, model.TemplateFileName}

// timestampLayout matches the millisecond UTC form used by existing
// manifests ("2025-06-15T09:30:00.000Z").
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// IsEligible reports whether a file name belongs in the manifest.
func IsEligible(name string) bool {
	return strings.HasSuffix(name, ".json") && !slices.Contains(excluded, name)
}

// Scan returns the eligible file names of dir in alphabetical order.
// Subdirectories are ignored.
func Scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access reports directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read reports directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsEligible(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Generate builds the manifest for dir with now as lastUpdated.
func Generate(dir string, now time.Time) (*model.Index, error) {
	names, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	return &model.Index{
		Reports:      names,
		LastUpdated:  now.UTC().Format(timestampLayout),
		TotalReports: len(names),
	}, nil
}

// Marshal encodes index with two-space indentation.
func Marshal(index *model.Index) ([]byte, error) {
	reports := index.Reports
	if reports == nil {
		reports = []string{}
	}
	out := model.Index{
		Reports:      reports,
		LastUpdated:  index.LastUpdated,
		TotalReports: index.TotalReports,
	}
	return json.MarshalIndent(out, "", "  ")
}

// Write stores index as dir/reports-index.json and returns the file path.
// The file is written to a temporary name first and renamed into place,
// so a browser loading the catalog never sees a half-written manifest.
func Write(dir string, index *model.Index) (string, error) {
	data, err := Marshal(index)
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}

	path := filepath.Join(dir, model.IndexFileName)
	tmp, err := os.CreateTemp(dir, ".reports-index-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create manifest: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	// The manifest is served to browsers, so it must be world-readable.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec
		return "", fmt.Errorf("failed to set manifest permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to replace manifest: %w", err)
	}
	return path, nil
}

// Update generates and writes the manifest of dir in one step.
func Update(dir string, now time.Time) (*model.Index, string, error) {
	index, err := Generate(dir, now)
	if err != nil {
		return nil, "", err
	}
	path, err := Write(dir, index)
	if err != nil {
		return nil, "", err
	}
	return index, path, nil
}
