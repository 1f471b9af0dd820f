package model

// Severity represents how serious a setup check finding is.
type Severity int

const (
	// SeverityInfo indicates a passing check or an informational note.
	SeverityInfo Severity = iota

	// SeverityWarning indicates a problem the browser tolerates, such as a
	// missing recommended field or a stale manifest.
	SeverityWarning

	// SeverityError indicates a problem that breaks loading, such as a
	// malformed manifest or a document that is not valid JSON.
	SeverityError
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Finding is a single result of the setup check.
type Finding struct {
	// Check is the name of the check step that produced the finding.
	Check string `json:"check"`

	// Severity is the finding level.
	Severity Severity `json:"severity"`

	// Subject is the file or directory the finding is about.
	Subject string `json:"subject,omitempty"`

	// Message describes the finding.
	Message string `json:"message"`
}

// CheckReport accumulates findings from the setup check.
type CheckReport struct {
	// Dir is the checked reports directory.
	Dir string `json:"dir"`

	// Findings are in the order the checks produced them.
	Findings []Finding `json:"findings"`
}

// Add appends a finding.
func (r *CheckReport) Add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Count returns the number of findings with the given severity.
func (r *CheckReport) Count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any finding is an error.
func (r *CheckReport) HasErrors() bool {
	return r.Count(SeverityError) > 0
}
