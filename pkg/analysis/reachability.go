package analysis

import "github.com/gnana997/uisema/pkg/ir"

// ReachabilityAnalyzer finds statements that can never execute.
//
// A return/throw/break/continue makes everything lexically after it, within
// the same block, unreachable. An if without an else never terminates the
// block. Loops are always reachable after, since zero iterations is
// possible. A switch terminates only when every case returns or throws. A
// try terminates when both its body and every catch terminate, or when the
// finally block itself terminates.
type ReachabilityAnalyzer struct{}

// Unreachable returns every statement in the tree that is lexically
// unreachable, in document order.
func (ra ReachabilityAnalyzer) Unreachable(stmts []ir.Stmt) []ir.Stmt {
	var out []ir.Stmt
	ra.walkBlock(stmts, &out)
	return out
}

// walkBlock scans one statement list, collecting unreachable statements,
// and reports whether the list always terminates abruptly.
func (ra ReachabilityAnalyzer) walkBlock(stmts []ir.Stmt, out *[]ir.Stmt) bool {
	terminated := false
	for _, s := range stmts {
		if s == nil {
			continue
		}
		if terminated {
			*out = append(*out, s)
			continue
		}
		if ra.walkStmt(s, out) {
			terminated = true
		}
	}
	return terminated
}

// walkStmt recurses into a statement's nested bodies and reports whether
// the statement itself always terminates abruptly.
func (ra ReachabilityAnalyzer) walkStmt(s ir.Stmt, out *[]ir.Stmt) bool {
	switch n := s.(type) {
	case *ir.ReturnStmt, *ir.ThrowStmt, *ir.BreakStmt, *ir.ContinueStmt:
		return true

	case *ir.BlockStmt:
		return ra.walkBlock(n.Stmts, out)

	case *ir.IfStmt:
		thenTerm := ra.walkNested(n.Then, out)
		if n.Else == nil {
			// Without an else the condition may be false, so code after
			// the if stays reachable.
			return false
		}
		elseTerm := ra.walkNested(n.Else, out)
		return thenTerm && elseTerm

	case *ir.ForStmt:
		ra.walkNested(n.Body, out)
		return false
	case *ir.ForEachStmt:
		ra.walkNested(n.Body, out)
		return false
	case *ir.WhileStmt:
		ra.walkNested(n.Body, out)
		return false
	case *ir.DoWhileStmt:
		ra.walkNested(n.Body, out)
		return false

	case *ir.SwitchStmt:
		if len(n.Cases) == 0 {
			return false
		}
		all := true
		for _, c := range n.Cases {
			if !ra.walkBlock(c.Body, out) {
				all = false
			}
		}
		return all

	case *ir.TryStmt:
		bodyTerm := false
		if n.Body != nil {
			bodyTerm = ra.walkBlock(n.Body.Stmts, out)
		}
		catchesTerm := true
		for _, c := range n.Catches {
			if c.Body == nil {
				catchesTerm = false
				continue
			}
			if !ra.walkBlock(c.Body.Stmts, out) {
				catchesTerm = false
			}
		}
		if n.Finally != nil {
			// The finally block always runs; if it terminates abruptly the
			// whole try does, regardless of body and catches.
			if ra.walkBlock(n.Finally.Stmts, out) {
				return true
			}
		}
		return bodyTerm && catchesTerm
	}
	return false
}

// walkNested treats a single nested statement as a one-element block.
func (ra ReachabilityAnalyzer) walkNested(s ir.Stmt, out *[]ir.Stmt) bool {
	if s == nil {
		return false
	}
	if block, ok := s.(*ir.BlockStmt); ok {
		return ra.walkBlock(block.Stmts, out)
	}
	return ra.walkStmt(s, out)
}
