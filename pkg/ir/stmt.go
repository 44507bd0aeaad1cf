package ir

// Stmt is the closed set of statement nodes.
type Stmt interface {
	Pos() Location
	isStmt()
}

// StmtBase carries the location shared by every statement variant.
type StmtBase struct {
	Loc Location
}

func (b *StmtBase) Pos() Location { return b.Loc }
func (*StmtBase) isStmt()         {}

// ExprStmt wraps an expression evaluated for effect.
type ExprStmt struct {
	StmtBase
	E Expr
}

// VarDeclStmt declares a local variable, optionally typed and initialized.
type VarDeclStmt struct {
	StmtBase
	Name     string
	DeclType *TypeRef
	Init     Expr
	IsFinal  bool
	IsConst  bool
}

// BlockStmt is a brace-delimited statement list.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	StmtBase
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

// ForStmt is a classic three-clause loop. Any clause may be nil.
type ForStmt struct {
	StmtBase
	Init   Stmt
	Cond   Expr
	Update Expr
	Body   Stmt
}

// ForEachStmt iterates over a collection.
type ForEachStmt struct {
	StmtBase
	VarName  string
	Iterable Expr
	Body     Stmt
}

// WhileStmt is a pre-test loop.
type WhileStmt struct {
	StmtBase
	Cond Expr
	Body Stmt
}

// DoWhileStmt is a post-test loop.
type DoWhileStmt struct {
	StmtBase
	Body Stmt
	Cond Expr
}

// SwitchCase is one arm of a switch. A default arm has IsDefault set and no
// values.
type SwitchCase struct {
	Values    []Expr
	Body      []Stmt
	IsDefault bool
}

// SwitchStmt dispatches on a subject expression.
type SwitchStmt struct {
	StmtBase
	Subject Expr
	Cases   []SwitchCase
}

// CatchClause handles one exception class in a TryStmt.
type CatchClause struct {
	Param string
	Body  *BlockStmt
}

// TryStmt is try/catch/finally. Finally is nil when absent.
type TryStmt struct {
	StmtBase
	Body    *BlockStmt
	Catches []CatchClause
	Finally *BlockStmt
}

// ReturnStmt exits the enclosing function, optionally with a value.
type ReturnStmt struct {
	StmtBase
	Value Expr // nil for a bare return
}

// BreakStmt exits the enclosing loop or switch.
type BreakStmt struct {
	StmtBase
}

// ContinueStmt advances the enclosing loop.
type ContinueStmt struct {
	StmtBase
}

// ThrowStmt raises an exception in statement position.
type ThrowStmt struct {
	StmtBase
	Value Expr
}
