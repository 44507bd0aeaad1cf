package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uisema/pkg/ir"
)

func exprStmt(e ir.Expr) *ir.ExprStmt { return &ir.ExprStmt{E: e} }
func retStmt(e ir.Expr) *ir.ReturnStmt {
	return &ir.ReturnStmt{Value: e}
}
func callStmt(name string) *ir.ExprStmt {
	return exprStmt(&ir.FunctionCall{Name: name})
}
func block(stmts ...ir.Stmt) *ir.BlockStmt { return &ir.BlockStmt{Stmts: stmts} }

func TestReachability_AfterReturn(t *testing.T) {
	ra := ReachabilityAnalyzer{}

	// return x; print(y);
	after := callStmt("print")
	unreachable := ra.Unreachable([]ir.Stmt{retStmt(ident("x")), after})
	require.Len(t, unreachable, 1)
	assert.Same(t, ir.Stmt(after), unreachable[0])
}

func TestReachability_IfWithoutElse(t *testing.T) {
	ra := ReachabilityAnalyzer{}

	// if (c) { return x; } print(y);  the print stays reachable.
	stmts := []ir.Stmt{
		&ir.IfStmt{Cond: ident("c"), Then: block(retStmt(ident("x")))},
		callStmt("print"),
	}
	assert.Empty(t, ra.Unreachable(stmts))
}

func TestReachability_IfElseBothTerminate(t *testing.T) {
	ra := ReachabilityAnalyzer{}

	after := callStmt("print")
	stmts := []ir.Stmt{
		&ir.IfStmt{
			Cond: ident("c"),
			Then: block(retStmt(intLit(1))),
			Else: block(&ir.ThrowStmt{Value: ident("e")}),
		},
		after,
	}
	unreachable := ra.Unreachable(stmts)
	require.Len(t, unreachable, 1)
	assert.Same(t, ir.Stmt(after), unreachable[0])
}

func TestReachability_LoopsAlwaysReachableAfter(t *testing.T) {
	ra := ReachabilityAnalyzer{}

	// Even a loop whose body returns may run zero iterations.
	stmts := []ir.Stmt{
		&ir.WhileStmt{Cond: ident("c"), Body: block(retStmt(nil))},
		&ir.ForEachStmt{VarName: "item", Iterable: ident("items"), Body: block(&ir.BreakStmt{})},
		callStmt("print"),
	}
	assert.Empty(t, ra.Unreachable(stmts))
}

func TestReachability_NestedAfterThrow(t *testing.T) {
	ra := ReachabilityAnalyzer{}

	dead := callStmt("log")
	stmts := []ir.Stmt{
		&ir.WhileStmt{
			Cond: ident("c"),
			Body: block(&ir.ThrowStmt{Value: ident("e")}, dead),
		},
	}
	unreachable := ra.Unreachable(stmts)
	require.Len(t, unreachable, 1)
	assert.Same(t, ir.Stmt(dead), unreachable[0])
}

func TestReachability_SwitchAllCasesTerminate(t *testing.T) {
	ra := ReachabilityAnalyzer{}

	after := callStmt("print")
	sw := &ir.SwitchStmt{
		Subject: ident("mode"),
		Cases: []ir.SwitchCase{
			{Values: []ir.Expr{intLit(1)}, Body: []ir.Stmt{retStmt(intLit(1))}},
			{IsDefault: true, Body: []ir.Stmt{&ir.ThrowStmt{Value: ident("e")}}},
		},
	}
	unreachable := ra.Unreachable([]ir.Stmt{sw, after})
	require.Len(t, unreachable, 1)
	assert.Same(t, ir.Stmt(after), unreachable[0])

	// One fallthrough case keeps the tail reachable.
	sw.Cases[1].Body = []ir.Stmt{callStmt("log")}
	assert.Empty(t, ra.Unreachable([]ir.Stmt{sw, after}))
}

func TestReachability_TryCatchFinally(t *testing.T) {
	ra := ReachabilityAnalyzer{}

	after := callStmt("print")

	// Body and catch both terminate → tail unreachable.
	try := &ir.TryStmt{
		Body:    block(retStmt(nil)),
		Catches: []ir.CatchClause{{Param: "e", Body: block(&ir.ThrowStmt{Value: ident("e")})}},
	}
	unreachable := ra.Unreachable([]ir.Stmt{try, after})
	require.Len(t, unreachable, 1)

	// A non-terminating catch keeps the tail reachable.
	try2 := &ir.TryStmt{
		Body:    block(retStmt(nil)),
		Catches: []ir.CatchClause{{Param: "e", Body: block(callStmt("log"))}},
	}
	assert.Empty(t, ra.Unreachable([]ir.Stmt{try2, after}))

	// A terminating finally dominates everything.
	try3 := &ir.TryStmt{
		Body:    block(callStmt("work")),
		Finally: block(retStmt(nil)),
	}
	unreachable = ra.Unreachable([]ir.Stmt{try3, after})
	require.Len(t, unreachable, 1)
	assert.Same(t, ir.Stmt(after), unreachable[0])
}

func TestCountStatements(t *testing.T) {
	stmts := []ir.Stmt{
		&ir.IfStmt{
			Cond: ident("c"),
			Then: block(callStmt("a"), callStmt("b")),
			Else: block(callStmt("d")),
		},
		retStmt(nil),
	}
	// if + 2 blocks + 3 calls + return = 7
	assert.Equal(t, 7, CountStatements(stmts))
}

func TestCollectDeclaredVars(t *testing.T) {
	stmts := []ir.Stmt{
		&ir.VarDeclStmt{Name: "total", Init: intLit(0)},
		&ir.ForEachStmt{VarName: "item", Iterable: ident("items"), Body: block(
			&ir.VarDeclStmt{Name: "doubled"},
		)},
		&ir.TryStmt{Body: block(), Catches: []ir.CatchClause{{Param: "err", Body: block()}}},
	}
	assert.Equal(t, []string{"total", "item", "doubled", "err"}, CollectDeclaredVars(stmts))
}
