package analysis

import "github.com/gnana997/uisema/pkg/ir"

// TypeInferencer performs lightweight bottom-up type inference.
//
// Scope is deliberately narrow: literals, arithmetic with int/double
// promotion, comparisons, and propagation through assignment and
// conditional branches. Everything else keeps its previously-annotated type
// or falls back to dynamic. No unification.
type TypeInferencer struct {
	BaseExprVisitor[*ir.TypeRef]
}

// NewTypeInferencer returns a ready inferencer.
func NewTypeInferencer() *TypeInferencer {
	return &TypeInferencer{}
}

// Infer computes the type of e and attaches it to the node when the node
// carries none. Never returns nil.
func (ti *TypeInferencer) Infer(e ir.Expr) *ir.TypeRef {
	if e == nil {
		return ir.DynamicType()
	}
	t := DispatchExpr[*ir.TypeRef](ti, e)
	if t == nil {
		t = ir.DynamicType()
	}
	if e.StaticType() == nil {
		e.SetType(t)
	}
	return t
}

// annotated returns the node's existing annotation, or dynamic.
func annotated(e ir.Expr) *ir.TypeRef {
	if t := e.StaticType(); t != nil {
		return t
	}
	return ir.DynamicType()
}

func (ti *TypeInferencer) DefaultExpr() *ir.TypeRef { return ir.DynamicType() }

func (ti *TypeInferencer) VisitIntLit(*ir.IntLit) *ir.TypeRef       { return ir.SimpleType("int") }
func (ti *TypeInferencer) VisitDoubleLit(*ir.DoubleLit) *ir.TypeRef { return ir.SimpleType("double") }
func (ti *TypeInferencer) VisitBoolLit(*ir.BoolLit) *ir.TypeRef     { return ir.SimpleType("bool") }
func (ti *TypeInferencer) VisitStringLit(*ir.StringLit) *ir.TypeRef { return ir.SimpleType("String") }
func (ti *TypeInferencer) VisitNullLit(*ir.NullLit) *ir.TypeRef     { return ir.NullableType("Null") }

func (ti *TypeInferencer) VisitStringInterp(*ir.StringInterp) *ir.TypeRef {
	return ir.SimpleType("String")
}

func (ti *TypeInferencer) VisitListLit(n *ir.ListLit) *ir.TypeRef { return ir.SimpleType("List") }
func (ti *TypeInferencer) VisitMapLit(n *ir.MapLit) *ir.TypeRef   { return ir.SimpleType("Map") }

// Identifiers, member reads, indexing, and calls keep whatever annotation
// extraction attached; without one they are dynamic.
func (ti *TypeInferencer) VisitIdent(n *ir.Ident) *ir.TypeRef                   { return annotated(n) }
func (ti *TypeInferencer) VisitPropertyAccess(n *ir.PropertyAccess) *ir.TypeRef { return annotated(n) }
func (ti *TypeInferencer) VisitIndexAccess(n *ir.IndexAccess) *ir.TypeRef       { return annotated(n) }
func (ti *TypeInferencer) VisitFunctionCall(n *ir.FunctionCall) *ir.TypeRef     { return annotated(n) }
func (ti *TypeInferencer) VisitMethodCall(n *ir.MethodCall) *ir.TypeRef         { return annotated(n) }

func (ti *TypeInferencer) VisitConstructorCall(n *ir.ConstructorCall) *ir.TypeRef {
	return ir.SimpleType(n.ClassName)
}

func (ti *TypeInferencer) VisitBinary(n *ir.Binary) *ir.TypeRef {
	switch n.Op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||", "instanceof":
		// Comparisons always yield boolean.
		return ir.SimpleType("bool")
	}

	left := ti.Infer(n.Left)
	right := ti.Infer(n.Right)

	switch n.Op {
	case "+", "-", "*", "%", "/", "~/":
		if !left.IsNumericType() || !right.IsNumericType() {
			// String concatenation keeps String; anything else is unknown.
			if n.Op == "+" && left.Equal(ir.SimpleType("String")) {
				return ir.SimpleType("String")
			}
			return ir.DynamicType()
		}
		if n.Op == "/" {
			// True division promotes int/int to double.
			return ir.SimpleType("double")
		}
		if n.Op == "~/" {
			return ir.SimpleType("int")
		}
		if left.Name == "double" || right.Name == "double" {
			return ir.SimpleType("double")
		}
		return ir.SimpleType("int")
	case "&", "|", "^", "<<", ">>":
		return ir.SimpleType("int")
	}
	return ir.DynamicType()
}

func (ti *TypeInferencer) VisitUnary(n *ir.Unary) *ir.TypeRef {
	switch n.Op {
	case "!":
		return ir.SimpleType("bool")
	case "~":
		return ir.SimpleType("int")
	case "-", "++", "--":
		return ti.Infer(n.Operand)
	}
	return ir.DynamicType()
}

// Assignment propagates from its value.
func (ti *TypeInferencer) VisitAssign(n *ir.Assign) *ir.TypeRef {
	return ti.Infer(n.Value)
}

// Conditional propagates the branch type when both branches agree,
// dynamic otherwise.
func (ti *TypeInferencer) VisitConditional(n *ir.Conditional) *ir.TypeRef {
	thenT := ti.Infer(n.Then)
	elseT := ti.Infer(n.Else)
	if thenT.Equal(elseT) {
		return thenT
	}
	return ir.DynamicType()
}

func (ti *TypeInferencer) VisitLambda(*ir.Lambda) *ir.TypeRef { return ir.SimpleType("Function") }

func (ti *TypeInferencer) VisitAwait(n *ir.Await) *ir.TypeRef { return annotated(n) }

func (ti *TypeInferencer) VisitThrowExpr(*ir.ThrowExpr) *ir.TypeRef { return ir.NeverType() }

func (ti *TypeInferencer) VisitCast(n *ir.Cast) *ir.TypeRef {
	if n.TargetType != nil {
		return n.TargetType
	}
	return ir.DynamicType()
}

func (ti *TypeInferencer) VisitTypeCheck(*ir.TypeCheck) *ir.TypeRef { return ir.SimpleType("bool") }

func (ti *TypeInferencer) VisitEnumAccess(n *ir.EnumAccess) *ir.TypeRef {
	return ir.SimpleType(n.EnumName)
}
