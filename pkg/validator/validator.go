// Package validator runs the rule families over resolved declaration
// files and aggregates their findings into a report.
//
// Rules are independent: each gets the file and the shared resolution
// snapshot, emits diagnostics, and never mutates the IR. A rule that has
// nothing to say emits nothing; validation has no failure mode besides
// diagnostics.
package validator

import (
	"log/slog"

	"github.com/gnana997/uisema/pkg/ir"
)

// Rule is one validation rule family member.
type Rule interface {
	Name() string
	Check(ctx *RuleContext) []ir.Diagnostic
}

// RuleContext is everything a rule sees: one file, the shared snapshot,
// and the thresholds.
type RuleContext struct {
	File     *ir.DeclarationFile
	Snapshot *ir.ResolutionSnapshot
	Config   Config
}

// Config holds the tunable rule thresholds.
type Config struct {
	// MaxBuildNodes is the expression-node budget for one build method.
	MaxBuildNodes int
	// MaxBuildDepth is the nesting-depth budget for one build method.
	MaxBuildDepth int
	// UnusedFieldRatio is the fraction of state fields a build may leave
	// untouched before the unused-fields finding fires.
	UnusedFieldRatio float64
	// MaxContextLookups caps `X.of(context)` lookups per build.
	MaxContextLookups int
	// ConstCandidateMin is the widget-construction count at which an
	// all-non-const build is reported.
	ConstCandidateMin int
}

// DefaultConfig returns the thresholds used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxBuildNodes:     120,
		MaxBuildDepth:     8,
		UnusedFieldRatio:  0.5,
		MaxContextLookups: 3,
		ConstCandidateMin: 5,
	}
}

// Validator runs a fixed rule set over files.
type Validator struct {
	config Config
	rules  []Rule
	logger *slog.Logger
}

// NewValidator creates a validator with the default rule families. A nil
// logger falls back to slog.Default().
func NewValidator(config Config, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		config: config,
		logger: logger,
		rules: []Rule{
			&LifecycleRule{},
			&MutationRule{},
			&PerformanceRule{},
			&UnusedCodeRule{},
			&CommonMistakeRule{},
		},
	}
}

// Validate runs every rule over every file and aggregates the results,
// folding in the diagnostics the earlier passes already attached to the
// files and the snapshot.
func (v *Validator) Validate(files []*ir.DeclarationFile, snap *ir.ResolutionSnapshot) *Report {
	var diags []ir.Diagnostic

	for _, f := range files {
		diags = append(diags, f.Diagnostics...)
		ctx := &RuleContext{File: f, Snapshot: snap, Config: v.config}
		for _, rule := range v.rules {
			found := rule.Check(ctx)
			if len(found) > 0 {
				v.logger.Debug("rule findings",
					"rule", rule.Name(),
					"file", f.Path,
					"count", len(found))
			}
			diags = append(diags, found...)
		}
	}
	if snap != nil {
		diags = append(diags, snap.Issues...)
	}

	return buildReport(len(files), diags)
}
