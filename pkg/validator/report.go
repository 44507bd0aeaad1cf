// Report aggregation and health scoring.
package validator

import (
	"sort"

	"github.com/gnana997/uisema/pkg/ir"
)

// severityWeights drive the health score. The maximum weight doubles as
// the per-diagnostic ceiling the score is normalized against.
var severityWeights = map[ir.Severity]float64{
	ir.SeverityError:   5,
	ir.SeverityWarning: 2,
	ir.SeverityInfo:    1,
	ir.SeverityHint:    0.5,
}

const maxSeverityWeight = 5

// Report is the flat, serializable output of a validation run.
type Report struct {
	TotalFiles  int                        `json:"total_files"`
	Diagnostics []ir.Diagnostic            `json:"diagnostics"`
	BySeverity  map[ir.Severity]int        `json:"by_severity"`
	ByCategory  map[string]int             `json:"by_category"`
	PerFile     map[string][]ir.Diagnostic `json:"per_file"`
	HealthScore float64                    `json:"health_score"`
}

// buildReport aggregates diagnostics into buckets, partitions them back
// per file by location path, and computes the health score.
func buildReport(totalFiles int, diags []ir.Diagnostic) *Report {
	report := &Report{
		TotalFiles:  totalFiles,
		Diagnostics: diags,
		BySeverity:  make(map[ir.Severity]int),
		ByCategory:  make(map[string]int),
		PerFile:     make(map[string][]ir.Diagnostic),
	}

	weighted := 0.0
	for _, d := range diags {
		report.BySeverity[d.Severity]++
		report.ByCategory[d.Category]++
		if d.Location.FilePath != "" {
			report.PerFile[d.Location.FilePath] = append(report.PerFile[d.Location.FilePath], d)
		}
		weighted += severityWeights[d.Severity]
	}

	// Health: 100 x (1 - weighted/max), where max treats every finding
	// as if it were an error. No findings scores 100; all errors score 0.
	if len(diags) == 0 {
		report.HealthScore = 100
	} else {
		score := 100 * (1 - weighted/(maxSeverityWeight*float64(len(diags))))
		report.HealthScore = clamp(score, 0, 100)
	}

	return report
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ErrorCount returns the number of error-severity diagnostics.
func (r *Report) ErrorCount() int {
	return r.BySeverity[ir.SeverityError]
}

// FilesWithIssues returns the affected file paths, sorted.
func (r *Report) FilesWithIssues() []string {
	paths := make([]string, 0, len(r.PerFile))
	for path := range r.PerFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Filter returns the diagnostics matching the given severity and
// category; empty strings match everything.
func (r *Report) Filter(severity ir.Severity, category string) []ir.Diagnostic {
	var out []ir.Diagnostic
	for _, d := range r.Diagnostics {
		if severity != "" && d.Severity != severity {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		out = append(out, d)
	}
	return out
}
