// Common-mistake rules.
package validator

import (
	"fmt"

	"github.com/gnana997/uisema/pkg/analysis"
	"github.com/gnana997/uisema/pkg/ir"
)

// CommonMistakeRule checks mutable widget fields, mutable private
// globals, keyless widgets built in loops, and conditions that fold to a
// constant.
type CommonMistakeRule struct{}

func (r *CommonMistakeRule) Name() string { return "common-mistake" }

func (r *CommonMistakeRule) Check(ctx *RuleContext) []ir.Diagnostic {
	var diags []ir.Diagnostic

	for _, v := range ctx.File.Variables {
		if v.Failed() {
			continue
		}
		if v.IsPrivate() && !v.IsFinal && !v.IsConst {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryCommonMistake,
				fmt.Sprintf("private top-level variable %q is mutable", v.Name), v.Loc).
				WithSuggestion("make it const, or move the state into a provider"))
		}
	}

	for _, cls := range ctx.File.Classes {
		diags = append(diags, r.checkWidgetFields(cls)...)
		for _, m := range cls.Methods {
			if m.Body == nil {
				continue
			}
			if isBuilder(m.Component) {
				diags = append(diags, r.checkLoopKeys(cls.Name+"."+m.Name, m.Body)...)
			}
			diags = append(diags, r.checkConstantConditions(m.Body)...)
		}
	}
	for _, fn := range ctx.File.Functions {
		if fn.Body == nil {
			continue
		}
		if isBuilder(fn.Component) {
			diags = append(diags, r.checkLoopKeys(fn.Name, fn.Body)...)
		}
		diags = append(diags, r.checkConstantConditions(fn.Body)...)
	}

	return diags
}

// checkConstantConditions folds if/while/do-while conditions and reports
// the ones with a compile-time boolean value.
func (r *CommonMistakeRule) checkConstantConditions(body *ir.FunctionBody) []ir.Diagnostic {
	folder := analysis.NewConstantFolder()
	var diags []ir.Diagnostic

	analysis.WalkStmts(body.Statements, func(s ir.Stmt) bool {
		var cond ir.Expr
		switch n := s.(type) {
		case *ir.IfStmt:
			cond = n.Cond
		case *ir.WhileStmt:
			cond = n.Cond
		case *ir.DoWhileStmt:
			cond = n.Cond
		default:
			return true
		}
		if cond == nil {
			return true
		}
		if b, ok := folder.Fold(cond).Bool(); ok {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryCommonMistake,
				fmt.Sprintf("condition is always %t", b), cond.Pos()).
				WithSuggestion("drop the condition or compute it at runtime"))
		}
		return true
	})
	return diags
}

// checkWidgetFields reports mutable fields on widget classes, which the
// framework expects to be immutable configuration.
func (r *CommonMistakeRule) checkWidgetFields(cls *ir.ClassDecl) []ir.Diagnostic {
	// State classes exist to hold mutable fields; only the widget-side
	// configuration is expected to be immutable.
	if cls.Component == nil || cls.State != nil {
		return nil
	}
	switch cls.Component.Kind {
	case ir.ComponentKindStateless, ir.ComponentKindStateful:
	default:
		return nil
	}

	var diags []ir.Diagnostic
	for _, f := range cls.Fields {
		if f.IsFinal || f.IsConst || f.IsStatic {
			continue
		}
		diags = append(diags, ir.NewDiagnostic(ir.SeverityInfo, ir.CategoryCommonMistake,
			fmt.Sprintf("widget field %s.%s is mutable", cls.Name, f.Name), f.Loc).
			WithSuggestion("declare widget configuration readonly; keep mutable state in the state class"))
	}
	return diags
}

// checkLoopKeys reports widgets constructed in a loop with no key prop;
// without keys the framework cannot match elements across rebuilds.
func (r *CommonMistakeRule) checkLoopKeys(name string, body *ir.FunctionBody) []ir.Diagnostic {
	var diags []ir.Diagnostic
	for _, site := range collectConstructions(body) {
		if !site.inLoop || hasKeyProp(site.call) {
			continue
		}
		diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryCommonMistake,
			fmt.Sprintf("%s builds %s in a loop without a key", name, site.call.ClassName),
			site.call.Pos()).
			WithSuggestion("give each widget in the loop a stable key"))
	}
	return diags
}

func hasKeyProp(cc *ir.ConstructorCall) bool {
	for _, arg := range cc.Args {
		props, ok := arg.(*ir.MapLit)
		if !ok {
			continue
		}
		for _, entry := range props.Entries {
			if key, ok := entry.Key.(*ir.StringLit); ok && key.Value == "key" {
				return true
			}
		}
	}
	return false
}
