// Package analysis implements the reusable visitor framework over the
// expression/statement IR and the tree analyses built on it: nesting depth,
// bottom-up type inference, constant folding, dependency extraction,
// statement counting, declared-variable collection, and reachability.
//
// Each analysis implements one operation per node variant; DispatchExpr and
// DispatchStmt are the shared double-dispatch layer, so new analyses are
// added without touching the IR node definitions. An unrecognized node
// returns the visitor's default rather than failing.
package analysis

import "github.com/gnana997/uisema/pkg/ir"

// ExprVisitor is implemented by analyses over expression nodes. DefaultExpr
// is returned for nil or unrecognized nodes.
type ExprVisitor[T any] interface {
	VisitIntLit(*ir.IntLit) T
	VisitDoubleLit(*ir.DoubleLit) T
	VisitBoolLit(*ir.BoolLit) T
	VisitStringLit(*ir.StringLit) T
	VisitNullLit(*ir.NullLit) T
	VisitStringInterp(*ir.StringInterp) T
	VisitListLit(*ir.ListLit) T
	VisitMapLit(*ir.MapLit) T
	VisitIdent(*ir.Ident) T
	VisitPropertyAccess(*ir.PropertyAccess) T
	VisitIndexAccess(*ir.IndexAccess) T
	VisitBinary(*ir.Binary) T
	VisitUnary(*ir.Unary) T
	VisitAssign(*ir.Assign) T
	VisitConditional(*ir.Conditional) T
	VisitFunctionCall(*ir.FunctionCall) T
	VisitMethodCall(*ir.MethodCall) T
	VisitConstructorCall(*ir.ConstructorCall) T
	VisitLambda(*ir.Lambda) T
	VisitAwait(*ir.Await) T
	VisitThrowExpr(*ir.ThrowExpr) T
	VisitCast(*ir.Cast) T
	VisitTypeCheck(*ir.TypeCheck) T
	VisitEnumAccess(*ir.EnumAccess) T
	DefaultExpr() T
}

// DispatchExpr forwards an expression node to the matching visitor
// operation. Nil and unrecognized nodes yield the visitor default.
func DispatchExpr[T any](v ExprVisitor[T], e ir.Expr) T {
	switch n := e.(type) {
	case *ir.IntLit:
		return v.VisitIntLit(n)
	case *ir.DoubleLit:
		return v.VisitDoubleLit(n)
	case *ir.BoolLit:
		return v.VisitBoolLit(n)
	case *ir.StringLit:
		return v.VisitStringLit(n)
	case *ir.NullLit:
		return v.VisitNullLit(n)
	case *ir.StringInterp:
		return v.VisitStringInterp(n)
	case *ir.ListLit:
		return v.VisitListLit(n)
	case *ir.MapLit:
		return v.VisitMapLit(n)
	case *ir.Ident:
		return v.VisitIdent(n)
	case *ir.PropertyAccess:
		return v.VisitPropertyAccess(n)
	case *ir.IndexAccess:
		return v.VisitIndexAccess(n)
	case *ir.Binary:
		return v.VisitBinary(n)
	case *ir.Unary:
		return v.VisitUnary(n)
	case *ir.Assign:
		return v.VisitAssign(n)
	case *ir.Conditional:
		return v.VisitConditional(n)
	case *ir.FunctionCall:
		return v.VisitFunctionCall(n)
	case *ir.MethodCall:
		return v.VisitMethodCall(n)
	case *ir.ConstructorCall:
		return v.VisitConstructorCall(n)
	case *ir.Lambda:
		return v.VisitLambda(n)
	case *ir.Await:
		return v.VisitAwait(n)
	case *ir.ThrowExpr:
		return v.VisitThrowExpr(n)
	case *ir.Cast:
		return v.VisitCast(n)
	case *ir.TypeCheck:
		return v.VisitTypeCheck(n)
	case *ir.EnumAccess:
		return v.VisitEnumAccess(n)
	default:
		return v.DefaultExpr()
	}
}

// StmtVisitor is implemented by analyses over statement nodes.
type StmtVisitor[T any] interface {
	VisitExprStmt(*ir.ExprStmt) T
	VisitVarDecl(*ir.VarDeclStmt) T
	VisitBlock(*ir.BlockStmt) T
	VisitIf(*ir.IfStmt) T
	VisitFor(*ir.ForStmt) T
	VisitForEach(*ir.ForEachStmt) T
	VisitWhile(*ir.WhileStmt) T
	VisitDoWhile(*ir.DoWhileStmt) T
	VisitSwitch(*ir.SwitchStmt) T
	VisitTry(*ir.TryStmt) T
	VisitReturn(*ir.ReturnStmt) T
	VisitBreak(*ir.BreakStmt) T
	VisitContinue(*ir.ContinueStmt) T
	VisitThrow(*ir.ThrowStmt) T
	DefaultStmt() T
}

// DispatchStmt forwards a statement node to the matching visitor operation.
func DispatchStmt[T any](v StmtVisitor[T], s ir.Stmt) T {
	switch n := s.(type) {
	case *ir.ExprStmt:
		return v.VisitExprStmt(n)
	case *ir.VarDeclStmt:
		return v.VisitVarDecl(n)
	case *ir.BlockStmt:
		return v.VisitBlock(n)
	case *ir.IfStmt:
		return v.VisitIf(n)
	case *ir.ForStmt:
		return v.VisitFor(n)
	case *ir.ForEachStmt:
		return v.VisitForEach(n)
	case *ir.WhileStmt:
		return v.VisitWhile(n)
	case *ir.DoWhileStmt:
		return v.VisitDoWhile(n)
	case *ir.SwitchStmt:
		return v.VisitSwitch(n)
	case *ir.TryStmt:
		return v.VisitTry(n)
	case *ir.ReturnStmt:
		return v.VisitReturn(n)
	case *ir.BreakStmt:
		return v.VisitBreak(n)
	case *ir.ContinueStmt:
		return v.VisitContinue(n)
	case *ir.ThrowStmt:
		return v.VisitThrow(n)
	default:
		return v.DefaultStmt()
	}
}

// BaseExprVisitor provides default-returning implementations of every
// ExprVisitor operation. Analyses embed it and override only the variants
// they care about.
type BaseExprVisitor[T any] struct{}

func (BaseExprVisitor[T]) VisitIntLit(*ir.IntLit) T                   { var z T; return z }
func (BaseExprVisitor[T]) VisitDoubleLit(*ir.DoubleLit) T             { var z T; return z }
func (BaseExprVisitor[T]) VisitBoolLit(*ir.BoolLit) T                 { var z T; return z }
func (BaseExprVisitor[T]) VisitStringLit(*ir.StringLit) T             { var z T; return z }
func (BaseExprVisitor[T]) VisitNullLit(*ir.NullLit) T                 { var z T; return z }
func (BaseExprVisitor[T]) VisitStringInterp(*ir.StringInterp) T       { var z T; return z }
func (BaseExprVisitor[T]) VisitListLit(*ir.ListLit) T                 { var z T; return z }
func (BaseExprVisitor[T]) VisitMapLit(*ir.MapLit) T                   { var z T; return z }
func (BaseExprVisitor[T]) VisitIdent(*ir.Ident) T                     { var z T; return z }
func (BaseExprVisitor[T]) VisitPropertyAccess(*ir.PropertyAccess) T   { var z T; return z }
func (BaseExprVisitor[T]) VisitIndexAccess(*ir.IndexAccess) T         { var z T; return z }
func (BaseExprVisitor[T]) VisitBinary(*ir.Binary) T                   { var z T; return z }
func (BaseExprVisitor[T]) VisitUnary(*ir.Unary) T                     { var z T; return z }
func (BaseExprVisitor[T]) VisitAssign(*ir.Assign) T                   { var z T; return z }
func (BaseExprVisitor[T]) VisitConditional(*ir.Conditional) T         { var z T; return z }
func (BaseExprVisitor[T]) VisitFunctionCall(*ir.FunctionCall) T       { var z T; return z }
func (BaseExprVisitor[T]) VisitMethodCall(*ir.MethodCall) T           { var z T; return z }
func (BaseExprVisitor[T]) VisitConstructorCall(*ir.ConstructorCall) T { var z T; return z }
func (BaseExprVisitor[T]) VisitLambda(*ir.Lambda) T                   { var z T; return z }
func (BaseExprVisitor[T]) VisitAwait(*ir.Await) T                     { var z T; return z }
func (BaseExprVisitor[T]) VisitThrowExpr(*ir.ThrowExpr) T             { var z T; return z }
func (BaseExprVisitor[T]) VisitCast(*ir.Cast) T                       { var z T; return z }
func (BaseExprVisitor[T]) VisitTypeCheck(*ir.TypeCheck) T             { var z T; return z }
func (BaseExprVisitor[T]) VisitEnumAccess(*ir.EnumAccess) T           { var z T; return z }
func (BaseExprVisitor[T]) DefaultExpr() T                             { var z T; return z }
