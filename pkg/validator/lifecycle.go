// Lifecycle rules for paired state classes.
package validator

import (
	"fmt"

	"github.com/gnana997/uisema/pkg/ir"
)

// releaseMethods are the calls that count as releasing a resource.
var releaseMethods = map[string]bool{
	"dispose": true,
	"cancel":  true,
	"close":   true,
	"stop":    true,
}

// LifecycleRule checks hook presence, super delegation, and resource
// release on state classes.
type LifecycleRule struct{}

func (r *LifecycleRule) Name() string { return "lifecycle" }

func (r *LifecycleRule) Check(ctx *RuleContext) []ir.Diagnostic {
	var diags []ir.Diagnostic
	for _, cls := range ctx.File.Classes {
		if cls.State == nil {
			continue
		}
		diags = append(diags, r.checkClass(cls)...)
	}
	return diags
}

func (r *LifecycleRule) checkClass(cls *ir.ClassDecl) []ir.Diagnostic {
	var diags []ir.Diagnostic
	info := cls.State

	if len(info.DisposableFields) > 0 && !info.HasInitState {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryLifecycle,
			fmt.Sprintf("%s holds %d disposable resource(s) but has no initState", cls.Name, len(info.DisposableFields)),
			cls.Loc))
	}
	if info.HasInitState && !info.InitCallsSuper {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityError, ir.CategoryLifecycle,
			fmt.Sprintf("%s.initState does not call super.initState()", cls.Name),
			methodLoc(cls, "initState")).
			WithSuggestion("call super.initState() first"))
	}
	if info.HasInitState && info.InitIsAsync {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryLifecycle,
			fmt.Sprintf("%s.initState is async; the framework will not await it", cls.Name),
			methodLoc(cls, "initState")).
			WithSuggestion("move async work into a separate method called from initState"))
	}
	if len(info.DisposableFields) > 0 && !info.HasDispose {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityError, ir.CategoryLifecycle,
			fmt.Sprintf("%s holds disposable resources but has no dispose", cls.Name),
			cls.Loc).
			WithSuggestion("add a dispose() method releasing every resource, then call super.dispose()"))
	}
	if info.HasDispose && !info.DisposeCallsSuper {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityError, ir.CategoryLifecycle,
			fmt.Sprintf("%s.dispose does not call super.dispose()", cls.Name),
			methodLoc(cls, "dispose")).
			WithSuggestion("call super.dispose() last"))
	}
	if info.HasDidUpdate && !info.DidUpdateCallsSuper {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityError, ir.CategoryLifecycle,
			fmt.Sprintf("%s.didUpdateWidget does not call super.didUpdateWidget()", cls.Name),
			methodLoc(cls, "didUpdateWidget")))
	}

	if info.HasDispose {
		released := releasedFields(cls.MethodNamed("dispose"))
		for _, field := range info.DisposableFields {
			if !released[field.FieldName] {
				diags = append(diags, ir.NewDiagnostic(ir.SeverityError, ir.CategoryLifecycle,
					fmt.Sprintf("%s.%s (%s) is never released in dispose", cls.Name, field.FieldName, field.ResourceType),
					field.Loc).
					WithSuggestion(fmt.Sprintf("release this.%s in dispose()", field.FieldName)))
			}
		}
	}

	return diags
}

// releasedFields collects field names the dispose body releases through
// this.<field>.<release>() calls, including optional-chained ones.
func releasedFields(dispose *ir.MethodDecl) map[string]bool {
	released := map[string]bool{}
	if dispose == nil || dispose.Body == nil {
		return released
	}
	for _, e := range dispose.Body.Expressions {
		mc, ok := e.(*ir.MethodCall)
		if !ok || !releaseMethods[mc.Method] {
			continue
		}
		prop, ok := mc.Target.(*ir.PropertyAccess)
		if !ok {
			continue
		}
		if target, ok := prop.Target.(*ir.Ident); ok && target.Name == "this" {
			released[prop.Property] = true
		}
	}
	return released
}

func methodLoc(cls *ir.ClassDecl, name string) ir.Location {
	if m := cls.MethodNamed(name); m != nil {
		return m.Loc
	}
	return cls.Loc
}
