package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gnana997/uisema/pkg/analyzer"
	"github.com/gnana997/uisema/pkg/ir"
)

// printReport writes a human-readable report: diagnostics grouped by file,
// then the summary line and health score.
func printReport(w io.Writer, result *analyzer.ProjectResult) {
	report := result.Report

	for _, file := range report.FilesWithIssues() {
		rel, err := filepath.Rel(result.Root, file)
		if err != nil {
			rel = file
		}
		fmt.Fprintf(w, "%s\n", rel)
		for _, d := range report.PerFile[file] {
			fmt.Fprintf(w, "  %-7s %-10s %d:%d  %s\n",
				d.Severity, d.Code, d.Location.Line, d.Location.Column, d.Message)
			if d.Suggestion != "" {
				fmt.Fprintf(w, "          %s\n", d.Suggestion)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d files analyzed, %d diagnostics (%d errors, %d warnings, %d info, %d hints)\n",
		report.TotalFiles,
		len(report.Diagnostics),
		report.BySeverity[ir.SeverityError],
		report.BySeverity[ir.SeverityWarning],
		report.BySeverity[ir.SeverityInfo],
		report.BySeverity[ir.SeverityHint])
	fmt.Fprintf(w, "health score: %.1f\n", report.HealthScore)
}

// printReportJSON writes the full serializable report.
func printReportJSON(w io.Writer, result *analyzer.ProjectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Report)
}
