package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/reportdeck/internal/model"
)

// NewDefault creates a pipeline with every built-in step in the order
// the checks are reported.
func NewDefault(opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		DirectoryStep{},
		ReportFilesStep{},
		IndexStep{},
		SyncStep{},
		DocumentsStep{},
	)
	return p
}

// Run checks the reports directory with the default steps.
// A missing directory is reported as a finding, not as an error; the
// error is reserved for cancellation and I/O failures.
func Run(ctx context.Context, dir string, opts ...Option) (*model.CheckReport, error) {
	report := &model.CheckReport{Dir: dir}
	if err := NewDefault(opts...).Execute(ctx, report); err != nil && !errors.Is(err, ErrDirectoryMissing) {
		return report, err
	}
	return report, nil
}

// WriteText writes a human-readable summary of the report.
func WriteText(w io.Writer, report *model.CheckReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        REPORTDECK SETUP CHECK\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Directory: %s\n\n", report.Dir))

	current := ""
	for _, f := range report.Findings {
		if f.Check != current {
			current = f.Check
			sb.WriteString(strings.Repeat("-", 70))
			sb.WriteString("\n")
			sb.WriteString(strings.ToUpper(strings.ReplaceAll(current, "_", " ")))
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("  [%s] ", indicator(f.Severity)))
		if f.Subject != "" && f.Subject != report.Dir {
			sb.WriteString(f.Subject)
			sb.WriteString(": ")
		}
		sb.WriteString(f.Message)
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("OK: %d  WARNING: %d  ERROR: %d\n",
		report.Count(model.SeverityInfo),
		report.Count(model.SeverityWarning),
		report.Count(model.SeverityError),
	))
	if report.HasErrors() {
		sb.WriteString("Fix the errors above before serving the reports.\n")
	} else {
		sb.WriteString("Ready to serve.\n")
	}

	return io.WriteString(w, sb.String())
}

// indicator returns a visual marker for the severity level.
func indicator(s model.Severity) string {
	switch s {
	case model.SeverityInfo:
		return "ok"
	case model.SeverityWarning:
		return "!"
	case model.SeverityError:
		return "!!"
	default:
		return "?"
	}
}
