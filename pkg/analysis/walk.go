package analysis

import "github.com/gnana997/uisema/pkg/ir"

// ExprChildren returns an expression's direct sub-expressions. String
// interpolation segments count as children; a lambda contributes the
// expressions reachable from its body.
func ExprChildren(e ir.Expr) []ir.Expr {
	switch n := e.(type) {
	case *ir.StringInterp:
		return n.Parts
	case *ir.ListLit:
		return n.Elements
	case *ir.MapLit:
		out := make([]ir.Expr, 0, len(n.Entries)*2)
		for _, entry := range n.Entries {
			out = append(out, entry.Key, entry.Value)
		}
		return out
	case *ir.PropertyAccess:
		return []ir.Expr{n.Target}
	case *ir.IndexAccess:
		return []ir.Expr{n.Target, n.Index}
	case *ir.Binary:
		return []ir.Expr{n.Left, n.Right}
	case *ir.Unary:
		return []ir.Expr{n.Operand}
	case *ir.Assign:
		return []ir.Expr{n.Target, n.Value}
	case *ir.Conditional:
		return []ir.Expr{n.Cond, n.Then, n.Else}
	case *ir.FunctionCall:
		return n.Args
	case *ir.MethodCall:
		out := make([]ir.Expr, 0, len(n.Args)+1)
		out = append(out, n.Target)
		return append(out, n.Args...)
	case *ir.ConstructorCall:
		return n.Args
	case *ir.Lambda:
		if n.Body == nil {
			return nil
		}
		return topLevelStmtExprs(n.Body.Statements)
	case *ir.Await:
		return []ir.Expr{n.Operand}
	case *ir.ThrowExpr:
		return []ir.Expr{n.Operand}
	case *ir.Cast:
		return []ir.Expr{n.Operand}
	case *ir.TypeCheck:
		return []ir.Expr{n.Operand}
	}
	return nil
}

// StmtExprs returns the expressions directly owned by a statement, without
// descending into nested statements.
func StmtExprs(s ir.Stmt) []ir.Expr {
	switch n := s.(type) {
	case *ir.ExprStmt:
		return []ir.Expr{n.E}
	case *ir.VarDeclStmt:
		if n.Init != nil {
			return []ir.Expr{n.Init}
		}
	case *ir.IfStmt:
		return []ir.Expr{n.Cond}
	case *ir.ForStmt:
		var out []ir.Expr
		if n.Cond != nil {
			out = append(out, n.Cond)
		}
		if n.Update != nil {
			out = append(out, n.Update)
		}
		return out
	case *ir.ForEachStmt:
		return []ir.Expr{n.Iterable}
	case *ir.WhileStmt:
		return []ir.Expr{n.Cond}
	case *ir.DoWhileStmt:
		return []ir.Expr{n.Cond}
	case *ir.SwitchStmt:
		out := []ir.Expr{n.Subject}
		for _, c := range n.Cases {
			out = append(out, c.Values...)
		}
		return out
	case *ir.ReturnStmt:
		if n.Value != nil {
			return []ir.Expr{n.Value}
		}
	case *ir.ThrowStmt:
		return []ir.Expr{n.Value}
	}
	return nil
}

// StmtChildren returns a statement's directly nested statements.
func StmtChildren(s ir.Stmt) []ir.Stmt {
	switch n := s.(type) {
	case *ir.BlockStmt:
		return n.Stmts
	case *ir.IfStmt:
		out := []ir.Stmt{n.Then}
		if n.Else != nil {
			out = append(out, n.Else)
		}
		return out
	case *ir.ForStmt:
		var out []ir.Stmt
		if n.Init != nil {
			out = append(out, n.Init)
		}
		out = append(out, n.Body)
		return out
	case *ir.ForEachStmt:
		return []ir.Stmt{n.Body}
	case *ir.WhileStmt:
		return []ir.Stmt{n.Body}
	case *ir.DoWhileStmt:
		return []ir.Stmt{n.Body}
	case *ir.SwitchStmt:
		var out []ir.Stmt
		for _, c := range n.Cases {
			out = append(out, c.Body...)
		}
		return out
	case *ir.TryStmt:
		var out []ir.Stmt
		if n.Body != nil {
			out = append(out, n.Body)
		}
		for _, c := range n.Catches {
			if c.Body != nil {
				out = append(out, c.Body)
			}
		}
		if n.Finally != nil {
			out = append(out, n.Finally)
		}
		return out
	}
	return nil
}

// WalkExpr visits e and every reachable sub-expression in preorder,
// descending into lambda bodies. The walk stops early when fn returns false.
func WalkExpr(e ir.Expr, fn func(ir.Expr) bool) bool {
	if e == nil {
		return true
	}
	if !fn(e) {
		return false
	}
	for _, child := range ExprChildren(e) {
		if !WalkExpr(child, fn) {
			return false
		}
	}
	return true
}

// WalkStmts visits every statement in the list recursively, including nested
// bodies, in document order.
func WalkStmts(stmts []ir.Stmt, fn func(ir.Stmt) bool) bool {
	for _, s := range stmts {
		if s == nil {
			continue
		}
		if !fn(s) {
			return false
		}
		if !WalkStmts(StmtChildren(s), fn) {
			return false
		}
	}
	return true
}

// topLevelStmtExprs collects the expressions directly owned by every
// statement in the tree, without descending into sub-expressions. WalkExpr
// handles the sub-expression recursion so nothing is visited twice.
func topLevelStmtExprs(stmts []ir.Stmt) []ir.Expr {
	var out []ir.Expr
	WalkStmts(stmts, func(s ir.Stmt) bool {
		out = append(out, StmtExprs(s)...)
		return true
	})
	return out
}

// FlattenStmtExprs collects every expression reachable from a statement
// list, recursively, in document order. Used to populate
// ir.FunctionBody.Expressions during extraction.
func FlattenStmtExprs(stmts []ir.Stmt) []ir.Expr {
	var out []ir.Expr
	for _, e := range topLevelStmtExprs(stmts) {
		WalkExpr(e, func(sub ir.Expr) bool {
			out = append(out, sub)
			return true
		})
	}
	return out
}
