// Mutation-trigger rules over aggregated setState call sites.
package validator

import (
	"fmt"

	"github.com/gnana997/uisema/pkg/ir"
)

// MutationRule checks setState usage on state classes.
type MutationRule struct{}

func (r *MutationRule) Name() string { return "set-state" }

func (r *MutationRule) Check(ctx *RuleContext) []ir.Diagnostic {
	var diags []ir.Diagnostic
	for _, cls := range ctx.File.Classes {
		if cls.State == nil {
			continue
		}
		diags = append(diags, r.checkClass(cls)...)
	}
	return diags
}

func (r *MutationRule) checkClass(cls *ir.ClassDecl) []ir.Diagnostic {
	var diags []ir.Diagnostic

	// Calling the trigger during build recurses the framework; one
	// finding per class regardless of call-site count.
	for _, call := range cls.State.SetStateCalls {
		if call.InBuild {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityError, ir.CategoryMutation,
				fmt.Sprintf("%s calls setState during build", cls.Name), call.Loc).
				WithSuggestion("trigger state changes from event handlers or lifecycle hooks, never from build"))
			break
		}
	}

	for _, call := range cls.State.SetStateCalls {
		if call.InLoop {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityError, ir.CategoryMutation,
				fmt.Sprintf("%s calls setState inside a loop", cls.Name), call.Loc).
				WithSuggestion("accumulate changes and call setState once after the loop"))
		}
		if call.IsAsync {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryMutation,
				fmt.Sprintf("%s calls setState from an async context", cls.Name), call.Loc).
				WithSuggestion("guard with a mounted check before calling setState after an await"))
		}
		if len(call.TouchedFields) == 0 {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityInfo, ir.CategoryMutation,
				fmt.Sprintf("%s calls setState without touching any tracked field", cls.Name), call.Loc))
		}
	}

	return diags
}
