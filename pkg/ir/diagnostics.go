package ir

import (
	"fmt"
	"sync"
)

// Severity ranks a diagnostic's impact.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Diagnostic categories shared across the passes. Validation rule families
// add their own categories on top of these.
const (
	CategoryExtraction      = "extraction"
	CategoryInvalidImport   = "invalid-import"
	CategoryUnresolvedType  = "unresolved-type"
	CategoryDuplicateSymbol = "duplicate-symbol"
	CategoryLifecycle       = "lifecycle"
	CategoryMutation        = "set-state"
	CategoryPerformance     = "performance"
	CategoryUnusedCode      = "unused-code"
	CategoryCommonMistake   = "common-mistake"
)

// Diagnostic is a structured finding produced by any pass.
//
// Diagnostics are never mutated after creation and never removed, only
// appended; they are the enduring output of the whole pipeline.
type Diagnostic struct {
	Code       string   `json:"code"`
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	Message    string   `json:"message"`
	Location   Location `json:"location"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// codePrefixes maps categories to the stable prefix embedded in codes.
var codePrefixes = map[string]string{
	CategoryExtraction:      "EXT",
	CategoryInvalidImport:   "IMP",
	CategoryUnresolvedType:  "TYP",
	CategoryDuplicateSymbol: "SYM",
	CategoryLifecycle:       "LIFE",
	CategoryMutation:        "MUT",
	CategoryPerformance:     "PERF",
	CategoryUnusedCode:      "UNUSED",
	CategoryCommonMistake:   "MISTAKE",
}

var (
	diagSeqMu sync.Mutex
	diagSeq   = make(map[string]int)
)

// NewDiagnostic constructs a diagnostic with a machine-readable code derived
// from the category and a per-category running sequence number (MUT001,
// MUT002, ...). Codes are unique within a process, not across runs.
func NewDiagnostic(severity Severity, category, message string, loc Location) Diagnostic {
	prefix, ok := codePrefixes[category]
	if !ok {
		prefix = "GEN"
	}
	diagSeqMu.Lock()
	diagSeq[category]++
	seq := diagSeq[category]
	diagSeqMu.Unlock()
	return Diagnostic{
		Code:     fmt.Sprintf("%s%03d", prefix, seq),
		Severity: severity,
		Category: category,
		Message:  message,
		Location: loc,
	}
}

// WithSuggestion returns a copy of the diagnostic carrying a remediation hint.
func (d Diagnostic) WithSuggestion(suggestion string) Diagnostic {
	d.Suggestion = suggestion
	return d
}
