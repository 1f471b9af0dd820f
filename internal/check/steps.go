package check

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nao1215/reportdeck/internal/catalog"
	"github.com/nao1215/reportdeck/internal/manifest"
	"github.com/nao1215/reportdeck/internal/model"
)

// ErrDirectoryMissing stops the check when there is nothing to inspect.
var ErrDirectoryMissing = errors.New("reports directory not found")

// RecommendedFields are the document fields every report should set.
var RecommendedFields = []string{"title", "source", "description", "categories", "date"}

// DirectoryStep verifies that the reports directory exists.
type DirectoryStep struct{}

// Name returns the step name.
func (DirectoryStep) Name() string { return "directory" }

// Do executes the step.
func (s DirectoryStep) Do(_ context.Context, report *model.CheckReport) error {
	info, err := os.Stat(report.Dir)
	if err != nil || !info.IsDir() {
		report.Add(model.Finding{
			Check:    s.Name(),
			Severity: model.SeverityError,
			Subject:  report.Dir,
			Message:  "reports directory not found",
		})
		return fmt.Errorf("%w: %s", ErrDirectoryMissing, report.Dir)
	}

	report.Add(model.Finding{
		Check:    s.Name(),
		Severity: model.SeverityInfo,
		Subject:  report.Dir,
		Message:  "reports directory exists",
	})
	return nil
}

// ReportFilesStep verifies that the directory holds report documents.
type ReportFilesStep struct{}

// Name returns the step name.
func (ReportFilesStep) Name() string { return "report_files" }

// Do executes the step.
func (s ReportFilesStep) Do(_ context.Context, report *model.CheckReport) error {
	names, err := manifest.Scan(report.Dir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		report.Add(model.Finding{
			Check:    s.Name(),
			Severity: model.SeverityWarning,
			Subject:  report.Dir,
			Message:  "no report files found (only the template)",
		})
		return nil
	}

	report.Add(model.Finding{
		Check:    s.Name(),
		Severity: model.SeverityInfo,
		Subject:  report.Dir,
		Message:  fmt.Sprintf("found %d report file(s): %s", len(names), strings.Join(names, ", ")),
	})
	return nil
}

// IndexStep verifies that the manifest exists and is well formed.
type IndexStep struct{}

// Name returns the step name.
func (IndexStep) Name() string { return "index" }

// Do executes the step.
func (s IndexStep) Do(_ context.Context, report *model.CheckReport) error {
	path := filepath.Join(report.Dir, model.IndexFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		report.Add(model.Finding{
			Check:    s.Name(),
			Severity: model.SeverityWarning,
			Subject:  model.IndexFileName,
			Message:  "manifest not found (run \"reportdeck index\")",
		})
		return nil
	}

	index, err := catalog.ParseIndex(data)
	if err != nil {
		report.Add(model.Finding{
			Check:    s.Name(),
			Severity: model.SeverityError,
			Subject:  model.IndexFileName,
			Message:  "manifest is invalid: " + err.Error(),
		})
		return nil
	}

	msg := fmt.Sprintf("manifest lists %d report(s)", len(index.Reports))
	if index.LastUpdated != "" {
		msg += ", last updated " + index.LastUpdated
	}
	report.Add(model.Finding{
		Check:    s.Name(),
		Severity: model.SeverityInfo,
		Subject:  model.IndexFileName,
		Message:  msg,
	})
	return nil
}

// SyncStep compares the manifest with the files on disk.
// It stays silent when the manifest is missing or invalid; IndexStep
// reports those cases.
type SyncStep struct{}

// Name returns the step name.
func (SyncStep) Name() string { return "sync" }

// Do executes the step.
func (s SyncStep) Do(_ context.Context, report *model.CheckReport) error {
	data, err := os.ReadFile(filepath.Join(report.Dir, model.IndexFileName))
	if err != nil {
		return nil
	}
	index, err := catalog.ParseIndex(data)
	if err != nil {
		return nil
	}

	onDisk, err := manifest.Scan(report.Dir)
	if err != nil {
		return err
	}

	inSync := true
	for _, name := range onDisk {
		if !slices.Contains(index.Reports, name) {
			inSync = false
			report.Add(model.Finding{
				Check:    s.Name(),
				Severity: model.SeverityWarning,
				Subject:  name,
				Message:  "not listed in the manifest (run \"reportdeck index\")",
			})
		}
	}
	for _, name := range index.Reports {
		if !slices.Contains(onDisk, name) {
			inSync = false
			report.Add(model.Finding{
				Check:    s.Name(),
				Severity: model.SeverityWarning,
				Subject:  name,
				Message:  "listed in the manifest but missing from the directory",
			})
		}
	}
	if index.TotalReports != len(index.Reports) {
		inSync = false
		report.Add(model.Finding{
			Check:    s.Name(),
			Severity: model.SeverityWarning,
			Subject:  model.IndexFileName,
			Message:  fmt.Sprintf("totalReports is %d but %d report(s) are listed", index.TotalReports, len(index.Reports)),
		})
	}

	if inSync {
		report.Add(model.Finding{
			Check:    s.Name(),
			Severity: model.SeverityInfo,
			Subject:  model.IndexFileName,
			Message:  "manifest matches the directory",
		})
	}
	return nil
}

// DocumentsStep validates every JSON document of the directory, the
// template included.
type DocumentsStep struct{}

// Name returns the step name.
func (DocumentsStep) Name() string { return "documents" }

// Do executes the step.
func (s DocumentsStep) Do(ctx context.Context, report *model.CheckReport) error {
	entries, err := os.ReadDir(report.Dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == model.IndexFileName {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := os.ReadFile(filepath.Join(report.Dir, name))
		if err != nil {
			report.Add(model.Finding{Check: s.Name(), Severity: model.SeverityError, Subject: name, Message: "cannot read file: " + err.Error()})
			continue
		}
		for _, f := range ValidateDocument(data) {
			f.Check = s.Name()
			f.Subject = name
			report.Add(f)
		}
	}
	return nil
}

// ValidateDocument returns the findings for one report document.
// Check and Subject are left for the caller to fill in.
func ValidateDocument(data []byte) []model.Finding {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		msg := "invalid JSON"
		if err != nil {
			msg += ": " + err.Error()
		} else {
			msg += ": document is not an object"
		}
		return []model.Finding{{Severity: model.SeverityError, Message: msg}}
	}

	var findings []model.Finding

	var missing []string
	for _, field := range RecommendedFields {
		if isBlank(fields[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		findings = append(findings, model.Finding{
			Severity: model.SeverityWarning,
			Message:  "missing fields: " + strings.Join(missing, ", "),
		})
	}

	if raw, ok := fields["date"]; ok && !isBlank(raw) {
		var date string
		if err := json.Unmarshal(raw, &date); err != nil || !model.IsDayMonthYear(date) {
			findings = append(findings, model.Finding{
				Severity: model.SeverityWarning,
				Message:  "date format should be dd-mm-yyyy",
			})
		}
	}

	if len(findings) == 0 {
		findings = append(findings, model.Finding{
			Severity: model.SeverityInfo,
			Message:  "valid structure",
		})
	}
	return findings
}

// isBlank reports whether a field counts as unset: absent, null, false,
// zero or an empty string. Empty arrays and objects count as set.
func isBlank(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", `""`, "0":
		return true
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil && n == 0 {
		return true
	}
	return false
}
