package keytree

import (
	"context"
	"fmt"
	"strings"
)

// Severity classifies how serious a diagnostic finding is.
type Severity int

const (
	SevInfo Severity = iota
	SevWarning
	SevError
	SevCritical
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic records one non-fatal corruption finding: which structure,
// where, and how serious (spec §4.9 [EXPANSION]).
type Diagnostic struct {
	Offset    uint32
	Structure string // "nk", "vk", "lf"/"lh"/"li"/"ri", "db", "sk"
	Severity  Severity
	Issue     string
}

// DiagnosticReport collects every Diagnostic found during a full structural
// scan (Tree.Diagnose), plus severity counts for a quick health check.
type DiagnosticReport struct {
	Diagnostics []Diagnostic
	Critical    int
	Errors      int
	Warnings    int
	Info        int
}

func (r *DiagnosticReport) add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SevCritical:
		r.Critical++
	case SevError:
		r.Errors++
	case SevWarning:
		r.Warnings++
	case SevInfo:
		r.Info++
	}
}

// HasCriticalIssues reports whether the scan found any SevCritical finding.
func (r *DiagnosticReport) HasCriticalIssues() bool { return r.Critical > 0 }

// HasIssues reports whether the scan found anything at all.
func (r *DiagnosticReport) HasIssues() bool { return len(r.Diagnostics) > 0 }

// FormatText renders a compact, human-readable report.
func (r *DiagnosticReport) FormatText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "critical=%d error=%d warning=%d info=%d\n", r.Critical, r.Errors, r.Warnings, r.Info)
	for _, d := range r.Diagnostics {
		fmt.Fprintf(&b, "0x%08X [%s/%s] %s\n", d.Offset, d.Severity, d.Structure, d.Issue)
	}
	return b.String()
}

// Diagnose performs an exhaustive structural scan of every key, value, and
// referenced subkey/value-list cell reachable from the root, collecting a
// Diagnostic for each non-fatal malformation found (spec §4.9). It never
// returns early on corruption; only Abort or an unreadable root propagates
// as an error.
func (t *Tree) Diagnose(ctx context.Context) (*DiagnosticReport, error) {
	report := &DiagnosticReport{}
	visited := make(map[uint32]struct{})
	root, err := t.Root(ctx)
	if err != nil {
		return nil, err
	}
	t.diagnoseKey(ctx, root, report, visited)
	if t.aborted() {
		return nil, ErrAborted
	}
	return report, nil
}

func (t *Tree) diagnoseKey(ctx context.Context, key *Key, report *DiagnosticReport, visited map[uint32]struct{}) {
	if t.aborted() {
		return
	}
	if _, seen := visited[uint32(key.id)]; seen {
		report.add(Diagnostic{Offset: uint32(key.id), Structure: "nk", Severity: SevError, Issue: "subkey list revisits an already-seen cell"})
		return
	}
	visited[uint32(key.id)] = struct{}{}

	children, err := key.Subkeys(ctx)
	if err != nil {
		report.add(Diagnostic{Offset: uint32(key.id), Structure: "nk", Severity: SevCritical, Issue: err.Error()})
		return
	}
	if key.IsCorrupted() {
		report.add(Diagnostic{
			Offset:    uint32(key.id),
			Structure: "nk",
			Severity:  SevError,
			Issue:     fmt.Sprintf("declared %d subkeys, enumerated %d", key.rec.SubkeyCount, len(children)),
		})
	}

	for _, childID := range children {
		if t.aborted() {
			return
		}
		child, err := t.Key(ctx, childID)
		if err != nil {
			report.add(Diagnostic{Offset: uint32(childID), Structure: "nk", Severity: SevCritical, Issue: err.Error()})
			continue
		}
		t.diagnoseKey(ctx, child, report, visited)
	}

	values, err := key.Values(ctx)
	if err != nil {
		report.add(Diagnostic{Offset: uint32(key.id), Structure: "nk", Severity: SevError, Issue: err.Error()})
		return
	}
	for _, vid := range values {
		val, err := t.value(ctx, vid)
		if err != nil {
			report.add(Diagnostic{Offset: uint32(vid), Structure: "vk", Severity: SevError, Issue: err.Error()})
			continue
		}
		if _, err := val.ReadData(ctx); err != nil {
			report.add(Diagnostic{Offset: uint32(vid), Structure: "vk", Severity: SevWarning, Issue: err.Error()})
		}
	}
}
