package ir

// Expr is the closed set of expression nodes. Every node carries a source
// location and an optional inferred type. Analyses dispatch over the concrete
// variants via the visitor framework rather than type-asserting ad hoc.
type Expr interface {
	Pos() Location
	// StaticType returns the node's annotated or inferred type, or nil when
	// no type has been attached.
	StaticType() *TypeRef
	// SetType attaches an inferred type to the node.
	SetType(t *TypeRef)
	isExpr()
}

// ExprBase carries the fields shared by every expression variant.
type ExprBase struct {
	Loc  Location
	Type *TypeRef
}

func (b *ExprBase) Pos() Location         { return b.Loc }
func (b *ExprBase) StaticType() *TypeRef  { return b.Type }
func (b *ExprBase) SetType(t *TypeRef)    { b.Type = t }
func (*ExprBase) isExpr()                 {}

// IntLit is an integer literal.
type IntLit struct {
	ExprBase
	Value int64
}

// DoubleLit is a floating point literal.
type DoubleLit struct {
	ExprBase
	Value float64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	ExprBase
	Value bool
}

// StringLit is a plain string literal without interpolation.
type StringLit struct {
	ExprBase
	Value string
}

// NullLit is the null literal.
type NullLit struct {
	ExprBase
}

// StringInterp is a template string. Parts alternate between StringLit
// fragments and embedded expressions; each part counts as a child for
// nesting-depth purposes.
type StringInterp struct {
	ExprBase
	Parts []Expr
}

// ListLit is a list/array literal.
type ListLit struct {
	ExprBase
	Elements []Expr
	IsConst  bool
}

// MapEntry is one key/value pair of a MapLit.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is a map/object literal.
type MapLit struct {
	ExprBase
	Entries []MapEntry
	IsConst bool
}

// Ident is a bare identifier reference.
type Ident struct {
	ExprBase
	Name string
}

// PropertyAccess is target.property (reads and method tear-offs).
type PropertyAccess struct {
	ExprBase
	Target   Expr
	Property string
}

// IndexAccess is target[index].
type IndexAccess struct {
	ExprBase
	Target Expr
	Index  Expr
}

// Binary is a binary operator application. Op is the operator token as
// written ("+", "==", "&&", "~/", "instanceof", ...).
type Binary struct {
	ExprBase
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a unary operator application ("-", "!", "~", "++", "--").
type Unary struct {
	ExprBase
	Op      string
	Operand Expr
	Prefix  bool
}

// Assign is an assignment or compound assignment. Op is "=" or a compound
// form such as "+=".
type Assign struct {
	ExprBase
	Op     string
	Target Expr
	Value  Expr
}

// Conditional is the ternary cond ? then : else.
type Conditional struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

// FunctionCall is a call to a free function by name.
type FunctionCall struct {
	ExprBase
	Name string
	Args []Expr
}

// MethodCall is target.method(args).
type MethodCall struct {
	ExprBase
	Target Expr
	Method string
	Args   []Expr
}

// ConstructorCall is instantiation of a class, `new Button(...)` or the
// const-equivalent form.
type ConstructorCall struct {
	ExprBase
	ClassName string
	Args      []Expr
	IsConst   bool
}

// Lambda is an anonymous function expression. The body is a full
// FunctionBody so nested statements participate in analyses.
type Lambda struct {
	ExprBase
	Params  []string
	Body    *FunctionBody
	IsAsync bool
}

// Await is `await operand`.
type Await struct {
	ExprBase
	Operand Expr
}

// ThrowExpr is a throw used in expression position.
type ThrowExpr struct {
	ExprBase
	Operand Expr
}

// Cast is an explicit cast, `operand as Type`.
type Cast struct {
	ExprBase
	Operand    Expr
	TargetType *TypeRef
}

// TypeCheck is a runtime type test (`x instanceof T`), optionally negated.
type TypeCheck struct {
	ExprBase
	Operand     Expr
	CheckedType *TypeRef
	Negated     bool
}

// EnumAccess is the domain-specific enum member reference, `Color.red`.
// The extraction pass emits it for property access on a capitalized
// identifier that is not a call target.
type EnumAccess struct {
	ExprBase
	EnumName string
	Member   string
}
