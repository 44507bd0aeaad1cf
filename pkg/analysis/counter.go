package analysis

import "github.com/gnana997/uisema/pkg/ir"

// CountStatements returns the number of statements in the list, including
// statements nested in blocks, branches, loops, cases, and try clauses.
func CountStatements(stmts []ir.Stmt) int {
	count := 0
	WalkStmts(stmts, func(ir.Stmt) bool {
		count++
		return true
	})
	return count
}

// CollectDeclaredVars returns the names declared anywhere in the statement
// list, in document order: local variable declarations, foreach loop
// variables, and catch parameters.
func CollectDeclaredVars(stmts []ir.Stmt) []string {
	var out []string
	WalkStmts(stmts, func(s ir.Stmt) bool {
		switch n := s.(type) {
		case *ir.VarDeclStmt:
			out = append(out, n.Name)
		case *ir.ForEachStmt:
			if n.VarName != "" {
				out = append(out, n.VarName)
			}
		case *ir.TryStmt:
			for _, c := range n.Catches {
				if c.Param != "" {
					out = append(out, c.Param)
				}
			}
		}
		return true
	})
	return out
}
