package analysis

import "github.com/gnana997/uisema/pkg/ir"

// DepthCalculator computes the maximum nesting depth of an expression tree:
// 1 for leaves, 1 + max(children) otherwise. String interpolation segments
// count as children. Used by the oversized-build performance rule.
type DepthCalculator struct{}

// Depth returns the nesting depth of e. Nil yields 0.
func (DepthCalculator) Depth(e ir.Expr) int {
	if e == nil {
		return 0
	}
	max := 0
	for _, child := range ExprChildren(e) {
		if d := (DepthCalculator{}).Depth(child); d > max {
			max = d
		}
	}
	return 1 + max
}

// BodyDepth returns the maximum depth over every expression directly owned
// by the body's statements.
func (dc DepthCalculator) BodyDepth(body *ir.FunctionBody) int {
	if body == nil {
		return 0
	}
	max := 0
	for _, e := range topLevelStmtExprs(body.Statements) {
		if d := dc.Depth(e); d > max {
			max = d
		}
	}
	return max
}

// NodeCount returns the number of expression nodes reachable from e.
func (DepthCalculator) NodeCount(e ir.Expr) int {
	count := 0
	WalkExpr(e, func(ir.Expr) bool {
		count++
		return true
	})
	return count
}

// BodyNodeCount returns the number of expression nodes reachable from the
// body's statements.
func (dc DepthCalculator) BodyNodeCount(body *ir.FunctionBody) int {
	if body == nil {
		return 0
	}
	count := 0
	for _, e := range topLevelStmtExprs(body.Statements) {
		count += dc.NodeCount(e)
	}
	return count
}
