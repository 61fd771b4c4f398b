package regf

import "github.com/cerata/regf/internal/keytree"

// Severity classifies how serious a diagnostic finding is.
type Severity int

const (
	SevInfo Severity = iota
	SevWarning
	SevError
	SevCritical
)

func (s Severity) String() string { return keytree.Severity(s).String() }

// Diagnostic records one non-fatal corruption finding: which structure,
// where, and how serious (spec §4.9 [EXPANSION]).
type Diagnostic struct {
	Offset    uint32
	Structure string
	Severity  Severity
	Issue     string
}

// DiagnosticReport summarizes every Diagnostic found during a full
// structural scan (Hive.Diagnose), plus severity counts for a quick
// health check.
type DiagnosticReport struct {
	Diagnostics []Diagnostic
	Critical    int
	Errors      int
	Warnings    int
	Info        int
}

// HasCriticalIssues reports whether the scan found any critical finding.
func (r *DiagnosticReport) HasCriticalIssues() bool { return r.Critical > 0 }

// HasIssues reports whether the scan found anything at all.
func (r *DiagnosticReport) HasIssues() bool { return len(r.Diagnostics) > 0 }

// FormatText renders a compact, human-readable report.
func (r *DiagnosticReport) FormatText() string {
	inner := toInnerReport(r)
	return inner.FormatText()
}

func wrapReport(r *keytree.DiagnosticReport) *DiagnosticReport {
	out := &DiagnosticReport{
		Critical: r.Critical,
		Errors:   r.Errors,
		Warnings: r.Warnings,
		Info:     r.Info,
	}
	for _, d := range r.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Offset:    d.Offset,
			Structure: d.Structure,
			Severity:  Severity(d.Severity),
			Issue:     d.Issue,
		})
	}
	return out
}

func toInnerReport(r *DiagnosticReport) *keytree.DiagnosticReport {
	inner := &keytree.DiagnosticReport{
		Critical: r.Critical,
		Errors:   r.Errors,
		Warnings: r.Warnings,
		Info:     r.Info,
	}
	for _, d := range r.Diagnostics {
		inner.Diagnostics = append(inner.Diagnostics, keytree.Diagnostic{
			Offset:    d.Offset,
			Structure: d.Structure,
			Severity:  keytree.Severity(d.Severity),
			Issue:     d.Issue,
		})
	}
	return inner
}
