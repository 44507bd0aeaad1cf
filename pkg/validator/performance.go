// Performance rules over build bodies.
package validator

import (
	"fmt"

	"github.com/gnana997/uisema/pkg/analysis"
	"github.com/gnana997/uisema/pkg/ir"
)

// PerformanceRule checks build size, loop construction, unused state
// fields, repeated context lookups, and const opportunities.
type PerformanceRule struct{}

func (r *PerformanceRule) Name() string { return "performance" }

func (r *PerformanceRule) Check(ctx *RuleContext) []ir.Diagnostic {
	var diags []ir.Diagnostic

	for _, fn := range ctx.File.Functions {
		if isBuilder(fn.Component) && fn.Body != nil {
			diags = append(diags, r.checkBuild(ctx.Config, fn.Name, fn.Loc, fn.Body)...)
		}
	}
	for _, cls := range ctx.File.Classes {
		for _, m := range cls.Methods {
			if isBuilder(m.Component) && m.Body != nil {
				name := cls.Name + "." + m.Name
				diags = append(diags, r.checkBuild(ctx.Config, name, m.Loc, m.Body)...)
			}
		}
		if cls.State != nil {
			diags = append(diags, r.checkUnusedFields(ctx.Config, cls)...)
		}
	}

	return diags
}

func isBuilder(info *ir.ComponentInfo) bool {
	return info != nil && info.Kind == ir.ComponentKindBuilder
}

func (r *PerformanceRule) checkBuild(cfg Config, name string, loc ir.Location, body *ir.FunctionBody) []ir.Diagnostic {
	var diags []ir.Diagnostic
	var depth analysis.DepthCalculator

	nodes := depth.BodyNodeCount(body)
	deep := depth.BodyDepth(body)
	if nodes > cfg.MaxBuildNodes || deep > cfg.MaxBuildDepth {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryPerformance,
			fmt.Sprintf("%s is oversized: %d nodes (max %d), depth %d (max %d)",
				name, nodes, cfg.MaxBuildNodes, deep, cfg.MaxBuildDepth), loc).
			WithSuggestion("split the tree into smaller builder methods or widget classes"))
	}

	constructions := collectConstructions(body)
	for _, site := range constructions {
		if site.inLoop {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryPerformance,
				fmt.Sprintf("%s constructs %s inside a loop", name, site.call.ClassName),
				site.call.Pos()).
				WithSuggestion("hoist loop-invariant widgets or build the list once"))
		}
	}

	if lookups := countContextLookups(body); lookups > cfg.MaxContextLookups {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryPerformance,
			fmt.Sprintf("%s performs %d context lookups (max %d)", name, lookups, cfg.MaxContextLookups), loc).
			WithSuggestion("look the value up once and reuse the local"))
	}

	if len(constructions) >= cfg.ConstCandidateMin {
		anyConst := false
		for _, site := range constructions {
			if site.call.IsConst {
				anyConst = true
				break
			}
		}
		if !anyConst {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityInfo, ir.CategoryPerformance,
				fmt.Sprintf("%s constructs %d widgets, none const", name, len(constructions)), loc))
		}
	}

	return diags
}

// checkUnusedFields reports builds that read too small a fraction of the
// state class's fields.
func (r *PerformanceRule) checkUnusedFields(cfg Config, cls *ir.ClassDecl) []ir.Diagnostic {
	build := cls.MethodNamed("build")
	if build == nil || build.Body == nil || len(cls.Fields) == 0 {
		return nil
	}

	used := map[string]bool{}
	de := analysis.NewDependencyExtractor()
	de.CollectBody(build.Body)
	for _, f := range cls.Fields {
		if de.Has(f.Name) {
			used[f.Name] = true
		}
	}

	unused := len(cls.Fields) - len(used)
	if float64(unused)/float64(len(cls.Fields)) <= cfg.UnusedFieldRatio {
		return nil
	}
	return []ir.Diagnostic{ir.NewDiagnostic(ir.SeverityInfo, ir.CategoryPerformance,
		fmt.Sprintf("%s.build uses %d of %d state fields", cls.Name, len(used), len(cls.Fields)),
		build.Loc)}
}

// constructionSite is one widget construction with its loop context.
type constructionSite struct {
	call   *ir.ConstructorCall
	inLoop bool
}

// collectConstructions walks a body and records every constructor call,
// tracking whether it sits inside a loop (including through lambdas).
func collectConstructions(body *ir.FunctionBody) []constructionSite {
	var sites []constructionSite
	var walkStmts func(stmts []ir.Stmt, inLoop bool)
	var walkExpr func(e ir.Expr, inLoop bool)

	walkExpr = func(e ir.Expr, inLoop bool) {
		if e == nil {
			return
		}
		if cc, ok := e.(*ir.ConstructorCall); ok {
			sites = append(sites, constructionSite{call: cc, inLoop: inLoop})
		}
		if lambda, ok := e.(*ir.Lambda); ok && lambda.Body != nil {
			walkStmts(lambda.Body.Statements, inLoop)
			return
		}
		for _, child := range analysis.ExprChildren(e) {
			walkExpr(child, inLoop)
		}
	}

	walkStmts = func(stmts []ir.Stmt, inLoop bool) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *ir.ForStmt:
				if v.Init != nil {
					walkStmts([]ir.Stmt{v.Init}, inLoop)
				}
				walkExpr(v.Cond, inLoop)
				walkExpr(v.Update, true)
				if v.Body != nil {
					walkStmts([]ir.Stmt{v.Body}, true)
				}
			case *ir.ForEachStmt:
				walkExpr(v.Iterable, inLoop)
				if v.Body != nil {
					walkStmts([]ir.Stmt{v.Body}, true)
				}
			case *ir.WhileStmt:
				walkExpr(v.Cond, inLoop)
				if v.Body != nil {
					walkStmts([]ir.Stmt{v.Body}, true)
				}
			case *ir.DoWhileStmt:
				if v.Body != nil {
					walkStmts([]ir.Stmt{v.Body}, true)
				}
				walkExpr(v.Cond, inLoop)
			default:
				for _, e := range analysis.StmtExprs(s) {
					walkExpr(e, inLoop)
				}
				for _, child := range analysis.StmtChildren(s) {
					walkStmts([]ir.Stmt{child}, inLoop)
				}
			}
		}
	}

	walkStmts(body.Statements, false)
	return sites
}

// countContextLookups counts `X.of(context)`-shaped lookups. The body's
// expression list already holds every node exactly once.
func countContextLookups(body *ir.FunctionBody) int {
	count := 0
	for _, e := range body.Expressions {
		mc, ok := e.(*ir.MethodCall)
		if !ok || mc.Method != "of" || len(mc.Args) == 0 {
			continue
		}
		if arg, ok := mc.Args[0].(*ir.Ident); ok && arg.Name == "context" {
			count++
		}
	}
	return count
}
