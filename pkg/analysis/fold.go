package analysis

import "github.com/gnana997/uisema/pkg/ir"

// ConstValue is the result of constant folding. Known is false for anything
// that cannot be evaluated at compile time; Value holds int64, float64,
// bool, string, nil (the null literal), []ConstValue, or
// map[string]ConstValue.
type ConstValue struct {
	Known bool
	Value any
}

// NotConstant is the folding result for non-constant expressions.
var NotConstant = ConstValue{}

// Const wraps a known compile-time value.
func Const(v any) ConstValue { return ConstValue{Known: true, Value: v} }

// Int returns the value as int64. Second result is false for non-integers.
func (c ConstValue) Int() (int64, bool) {
	v, ok := c.Value.(int64)
	return v, c.Known && ok
}

// Float returns the value as float64, converting integers.
func (c ConstValue) Float() (float64, bool) {
	if !c.Known {
		return 0, false
	}
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Bool returns the value as bool.
func (c ConstValue) Bool() (bool, bool) {
	v, ok := c.Value.(bool)
	return v, c.Known && ok
}

// ConstantFolder evaluates expressions at compile time where possible.
//
// Literals, container literals, arithmetic/relational/logical/bitwise
// operators, unary operators, and conditionals fold; any identifier, call,
// or assignment is non-constant and yields NotConstant rather than an error.
type ConstantFolder struct {
	BaseExprVisitor[ConstValue]
}

// NewConstantFolder returns a ready folder.
func NewConstantFolder() *ConstantFolder {
	return &ConstantFolder{}
}

// Fold evaluates e, returning NotConstant when any part cannot be evaluated.
func (cf *ConstantFolder) Fold(e ir.Expr) ConstValue {
	if e == nil {
		return NotConstant
	}
	return DispatchExpr[ConstValue](cf, e)
}

func (cf *ConstantFolder) DefaultExpr() ConstValue { return NotConstant }

func (cf *ConstantFolder) VisitIntLit(n *ir.IntLit) ConstValue       { return Const(n.Value) }
func (cf *ConstantFolder) VisitDoubleLit(n *ir.DoubleLit) ConstValue { return Const(n.Value) }
func (cf *ConstantFolder) VisitBoolLit(n *ir.BoolLit) ConstValue     { return Const(n.Value) }
func (cf *ConstantFolder) VisitStringLit(n *ir.StringLit) ConstValue { return Const(n.Value) }
func (cf *ConstantFolder) VisitNullLit(*ir.NullLit) ConstValue       { return Const(nil) }

func (cf *ConstantFolder) VisitStringInterp(n *ir.StringInterp) ConstValue {
	out := ""
	for _, part := range n.Parts {
		v := cf.Fold(part)
		if !v.Known {
			return NotConstant
		}
		s, ok := v.Value.(string)
		if !ok {
			return NotConstant
		}
		out += s
	}
	return Const(out)
}

func (cf *ConstantFolder) VisitListLit(n *ir.ListLit) ConstValue {
	elems := make([]ConstValue, 0, len(n.Elements))
	for _, e := range n.Elements {
		v := cf.Fold(e)
		if !v.Known {
			return NotConstant
		}
		elems = append(elems, v)
	}
	return Const(elems)
}

func (cf *ConstantFolder) VisitMapLit(n *ir.MapLit) ConstValue {
	entries := make(map[string]ConstValue, len(n.Entries))
	for _, entry := range n.Entries {
		k := cf.Fold(entry.Key)
		v := cf.Fold(entry.Value)
		if !k.Known || !v.Known {
			return NotConstant
		}
		key, ok := k.Value.(string)
		if !ok {
			return NotConstant
		}
		entries[key] = v
	}
	return Const(entries)
}

func (cf *ConstantFolder) VisitConditional(n *ir.Conditional) ConstValue {
	cond := cf.Fold(n.Cond)
	b, ok := cond.Bool()
	if !ok {
		return NotConstant
	}
	if b {
		return cf.Fold(n.Then)
	}
	return cf.Fold(n.Else)
}

func (cf *ConstantFolder) VisitUnary(n *ir.Unary) ConstValue {
	v := cf.Fold(n.Operand)
	if !v.Known {
		return NotConstant
	}
	switch n.Op {
	case "-":
		if i, ok := v.Value.(int64); ok {
			return Const(-i)
		}
		if f, ok := v.Value.(float64); ok {
			return Const(-f)
		}
	case "!":
		if b, ok := v.Value.(bool); ok {
			return Const(!b)
		}
	case "~":
		if i, ok := v.Value.(int64); ok {
			return Const(^i)
		}
	}
	return NotConstant
}

func (cf *ConstantFolder) VisitBinary(n *ir.Binary) ConstValue {
	left := cf.Fold(n.Left)
	right := cf.Fold(n.Right)
	if !left.Known || !right.Known {
		return NotConstant
	}

	switch n.Op {
	case "&&", "||":
		lb, lok := left.Bool()
		rb, rok := right.Bool()
		if !lok || !rok {
			return NotConstant
		}
		if n.Op == "&&" {
			return Const(lb && rb)
		}
		return Const(lb || rb)

	case "==":
		return Const(constEqual(left, right))
	case "!=":
		return Const(!constEqual(left, right))

	case "&", "|", "^", "<<", ">>":
		li, lok := left.Int()
		ri, rok := right.Int()
		if !lok || !rok {
			return NotConstant
		}
		switch n.Op {
		case "&":
			return Const(li & ri)
		case "|":
			return Const(li | ri)
		case "^":
			return Const(li ^ ri)
		case "<<":
			if ri < 0 || ri > 63 {
				return NotConstant
			}
			return Const(li << uint(ri))
		case ">>":
			if ri < 0 || ri > 63 {
				return NotConstant
			}
			return Const(li >> uint(ri))
		}
	}

	// String concatenation.
	if n.Op == "+" {
		if ls, ok := left.Value.(string); ok {
			if rs, ok := right.Value.(string); ok {
				return Const(ls + rs)
			}
			return NotConstant
		}
	}

	return foldNumeric(n.Op, left, right)
}

// foldNumeric evaluates arithmetic and relational operators. Integer
// operands stay integers except under true division.
func foldNumeric(op string, left, right ConstValue) ConstValue {
	li, lIsInt := left.Int()
	ri, rIsInt := right.Int()

	if lIsInt && rIsInt {
		switch op {
		case "+":
			return Const(li + ri)
		case "-":
			return Const(li - ri)
		case "*":
			return Const(li * ri)
		case "%":
			if ri == 0 {
				return NotConstant
			}
			return Const(li % ri)
		case "~/":
			if ri == 0 {
				return NotConstant
			}
			return Const(li / ri)
		case "/":
			if ri == 0 {
				return NotConstant
			}
			return Const(float64(li) / float64(ri))
		case "<":
			return Const(li < ri)
		case ">":
			return Const(li > ri)
		case "<=":
			return Const(li <= ri)
		case ">=":
			return Const(li >= ri)
		}
		return NotConstant
	}

	lf, lok := left.Float()
	rf, rok := right.Float()
	if !lok || !rok {
		return NotConstant
	}
	switch op {
	case "+":
		return Const(lf + rf)
	case "-":
		return Const(lf - rf)
	case "*":
		return Const(lf * rf)
	case "/":
		if rf == 0 {
			return NotConstant
		}
		return Const(lf / rf)
	case "<":
		return Const(lf < rf)
	case ">":
		return Const(lf > rf)
	case "<=":
		return Const(lf <= rf)
	case ">=":
		return Const(lf >= rf)
	}
	return NotConstant
}

// constEqual compares two known constant scalars. Containers never compare
// equal (kept conservative).
func constEqual(a, b ConstValue) bool {
	if af, ok := a.Float(); ok {
		if bf, ok := b.Float(); ok {
			return af == bf
		}
		return false
	}
	switch av := a.Value.(type) {
	case string:
		bv, ok := b.Value.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.Value.(bool)
		return ok && av == bv
	case nil:
		return b.Value == nil
	}
	return false
}
