// State class analysis: lifecycle hooks, disposable resources, and
// mutation trigger call sites.
package extractor

import (
	"github.com/gnana997/uisema/pkg/analysis"
	"github.com/gnana997/uisema/pkg/ir"
)

// disposableTypes are the resource types that must be released in the
// dispose hook.
var disposableTypes = map[string]bool{
	"AnimationController":   true,
	"StreamSubscription":    true,
	"Timer":                 true,
	"TextEditingController": true,
	"FocusNode":             true,
	"ScrollController":      true,
}

// analyzeStateClass fills the state extension for classes extending the
// framework State base. Other classes get nil.
func (fx *fileExtractor) analyzeStateClass(cls *ir.ClassDecl) *ir.StateInfo {
	if cls.Superclass == nil || cls.Superclass.Name != "State" {
		return nil
	}

	info := &ir.StateInfo{}

	if m := cls.MethodNamed("initState"); m != nil {
		info.HasInitState = true
		info.InitCallsSuper = callsSuper(m.Body, "initState")
		info.InitIsAsync = m.IsAsync
	}
	if m := cls.MethodNamed("dispose"); m != nil {
		info.HasDispose = true
		info.DisposeCallsSuper = callsSuper(m.Body, "dispose")
	}
	if m := cls.MethodNamed("didUpdateWidget"); m != nil {
		info.HasDidUpdate = true
		info.DidUpdateCallsSuper = callsSuper(m.Body, "didUpdateWidget")
	}

	for _, f := range cls.Fields {
		if rt := disposableResourceType(f); rt != "" {
			info.DisposableFields = append(info.DisposableFields, ir.DisposableField{
				FieldName:    f.Name,
				ResourceType: rt,
				Loc:          f.Loc,
			})
		}
	}

	fieldNames := make(map[string]bool, len(cls.Fields))
	for _, f := range cls.Fields {
		fieldNames[f.Name] = true
	}
	for _, m := range cls.Methods {
		if m.Body == nil {
			continue
		}
		w := &setStateWalker{
			fieldNames: fieldNames,
			inBuild:    m.Name == "build",
		}
		w.walkStmts(m.Body.Statements, walkCtx{isAsync: m.IsAsync})
		info.SetStateCalls = append(info.SetStateCalls, w.calls...)
	}

	return info
}

// disposableResourceType reports the resource type a field holds, from
// its declared type or its initializer, or "" for non-resources.
func disposableResourceType(f *ir.FieldDecl) string {
	if f.DeclType != nil && disposableTypes[f.DeclType.Name] {
		return f.DeclType.Name
	}
	if cc, ok := f.Init.(*ir.ConstructorCall); ok && disposableTypes[cc.ClassName] {
		return cc.ClassName
	}
	return ""
}

// callsSuper reports whether the body delegates to super.<method>().
func callsSuper(body *ir.FunctionBody, method string) bool {
	if body == nil {
		return false
	}
	for _, e := range body.Expressions {
		mc, ok := e.(*ir.MethodCall)
		if !ok || mc.Method != method {
			continue
		}
		if target, ok := mc.Target.(*ir.Ident); ok && target.Name == "super" {
			return true
		}
	}
	return false
}

// walkCtx carries the statement context a mutation trigger call site is
// judged against.
type walkCtx struct {
	inLoop  bool
	isAsync bool
}

// setStateWalker aggregates setState call sites with their statement
// context. The generic expression walker loses loop and async context at
// lambda boundaries, so this walker tracks both explicitly.
type setStateWalker struct {
	fieldNames map[string]bool
	inBuild    bool
	calls      []ir.SetStateCall
}

func (w *setStateWalker) walkStmts(stmts []ir.Stmt, ctx walkCtx) {
	for _, s := range stmts {
		w.walkStmt(s, ctx)
	}
}

func (w *setStateWalker) walkStmt(s ir.Stmt, ctx walkCtx) {
	if s == nil {
		return
	}
	switch v := s.(type) {
	case *ir.ForStmt:
		w.walkStmt(v.Init, ctx)
		w.walkExpr(v.Cond, ctx)
		loopCtx := ctx
		loopCtx.inLoop = true
		w.walkExpr(v.Update, loopCtx)
		w.walkStmt(v.Body, loopCtx)
	case *ir.ForEachStmt:
		w.walkExpr(v.Iterable, ctx)
		loopCtx := ctx
		loopCtx.inLoop = true
		w.walkStmt(v.Body, loopCtx)
	case *ir.WhileStmt:
		w.walkExpr(v.Cond, ctx)
		loopCtx := ctx
		loopCtx.inLoop = true
		w.walkStmt(v.Body, loopCtx)
	case *ir.DoWhileStmt:
		loopCtx := ctx
		loopCtx.inLoop = true
		w.walkStmt(v.Body, loopCtx)
		w.walkExpr(v.Cond, ctx)
	default:
		for _, e := range analysis.StmtExprs(s) {
			w.walkExpr(e, ctx)
		}
		for _, child := range analysis.StmtChildren(s) {
			w.walkStmt(child, ctx)
		}
	}
}

func (w *setStateWalker) walkExpr(e ir.Expr, ctx walkCtx) {
	if e == nil {
		return
	}
	if lambda, ok := e.(*ir.Lambda); ok {
		lambdaCtx := ctx
		if lambda.IsAsync {
			lambdaCtx.isAsync = true
		}
		if lambda.Body != nil {
			w.walkStmts(lambda.Body.Statements, lambdaCtx)
		}
		return
	}

	if args, ok := setStateCall(e); ok {
		w.calls = append(w.calls, ir.SetStateCall{
			Loc:           e.Pos(),
			InBuild:       w.inBuild,
			InLoop:        ctx.inLoop,
			IsAsync:       ctx.isAsync,
			TouchedFields: w.touchedFields(args),
		})
	}

	for _, child := range analysis.ExprChildren(e) {
		w.walkExpr(child, ctx)
	}
}

// setStateCall matches both bare and this-qualified trigger calls.
func setStateCall(e ir.Expr) ([]ir.Expr, bool) {
	switch v := e.(type) {
	case *ir.FunctionCall:
		if v.Name == "setState" {
			return v.Args, true
		}
	case *ir.MethodCall:
		if v.Method != "setState" {
			return nil, false
		}
		if target, ok := v.Target.(*ir.Ident); ok && target.Name == "this" {
			return v.Args, true
		}
	}
	return nil, false
}

// touchedFields intersects the trigger callback's referenced names with
// the class's field names.
func (w *setStateWalker) touchedFields(args []ir.Expr) []string {
	if len(args) == 0 {
		return nil
	}
	lambda, ok := args[0].(*ir.Lambda)
	if !ok || lambda.Body == nil {
		return nil
	}

	var touched []string
	de := analysis.NewDependencyExtractor()
	de.CollectBody(lambda.Body)
	for _, name := range de.Names() {
		if w.fieldNames[name] {
			touched = append(touched, name)
		}
	}
	return touched
}
