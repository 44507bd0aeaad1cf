// Expression lowering from parse-tree nodes.
package extractor

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uisema/pkg/ir"
)

// expr lowers one expression node. Unknown node kinds degrade to an
// identifier carrying the raw source text so downstream passes keep
// working on partially understood files.
func (fx *fileExtractor) expr(node *ts.Node) ir.Expr {
	if node == nil {
		return nil
	}
	eb := ir.ExprBase{Loc: fx.location(node)}

	switch node.GrammarName() {
	case "parenthesized_expression", "non_null_expression", "spread_element":
		if inner := firstNamedChild(node); inner != nil {
			return fx.expr(inner)
		}
		return &ir.Ident{ExprBase: eb, Name: fx.text(node)}

	case "number":
		return fx.numberLit(node, eb)

	case "string":
		return &ir.StringLit{ExprBase: eb, Value: fx.stringValue(node)}

	case "template_string":
		return fx.templateString(node, eb)

	case "true":
		return &ir.BoolLit{ExprBase: eb, Value: true}
	case "false":
		return &ir.BoolLit{ExprBase: eb, Value: false}
	case "null", "undefined":
		return &ir.NullLit{ExprBase: eb}

	case "identifier", "this", "super", "private_property_identifier":
		return &ir.Ident{ExprBase: eb, Name: fx.text(node)}

	case "member_expression":
		return fx.memberExpr(node, eb)

	case "subscript_expression":
		return &ir.IndexAccess{
			ExprBase: eb,
			Target:   fx.expr(node.ChildByFieldName("object")),
			Index:    fx.expr(node.ChildByFieldName("index")),
		}

	case "binary_expression":
		return fx.binaryExpr(node, eb)

	case "unary_expression":
		return &ir.Unary{
			ExprBase: eb,
			Op:       fx.fieldText(node, "operator"),
			Operand:  fx.expr(node.ChildByFieldName("argument")),
			Prefix:   true,
		}

	case "update_expression":
		op := node.ChildByFieldName("operator")
		arg := node.ChildByFieldName("argument")
		u := &ir.Unary{ExprBase: eb, Operand: fx.expr(arg)}
		if op != nil {
			u.Op = fx.text(op)
			u.Prefix = arg == nil || op.StartByte() < arg.StartByte()
		}
		return u

	case "assignment_expression":
		return &ir.Assign{
			ExprBase: eb,
			Op:       "=",
			Target:   fx.expr(node.ChildByFieldName("left")),
			Value:    fx.expr(node.ChildByFieldName("right")),
		}

	case "augmented_assignment_expression":
		return &ir.Assign{
			ExprBase: eb,
			Op:       fx.fieldText(node, "operator"),
			Target:   fx.expr(node.ChildByFieldName("left")),
			Value:    fx.expr(node.ChildByFieldName("right")),
		}

	case "ternary_expression":
		return &ir.Conditional{
			ExprBase: eb,
			Cond:     fx.expr(node.ChildByFieldName("condition")),
			Then:     fx.expr(node.ChildByFieldName("consequence")),
			Else:     fx.expr(node.ChildByFieldName("alternative")),
		}

	case "call_expression":
		return fx.callExpr(node, eb)

	case "new_expression":
		return &ir.ConstructorCall{
			ExprBase:  eb,
			ClassName: fx.constructorName(node.ChildByFieldName("constructor")),
			Args:      fx.arguments(node.ChildByFieldName("arguments")),
		}

	case "arrow_function", "function_expression":
		return fx.lambdaExpr(node, eb)

	case "await_expression":
		return &ir.Await{ExprBase: eb, Operand: fx.expr(firstNamedChild(node))}

	case "array":
		list := &ir.ListLit{ExprBase: eb}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			list.Elements = append(list.Elements, fx.expr(node.NamedChild(i)))
		}
		return list

	case "object":
		return fx.objectLit(node, eb)

	case "as_expression", "satisfies_expression":
		cast := &ir.Cast{ExprBase: eb, Operand: fx.expr(firstNamedChild(node))}
		if node.NamedChildCount() > 1 {
			cast.TargetType = fx.lowerType(node.NamedChild(1))
		}
		return cast

	default:
		return &ir.Ident{ExprBase: eb, Name: fx.text(node)}
	}
}

// numberLit distinguishes integer and floating literals. Hex, octal, and
// binary forms are integers.
func (fx *fileExtractor) numberLit(node *ts.Node, eb ir.ExprBase) ir.Expr {
	raw := strings.ReplaceAll(fx.text(node), "_", "")
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		v, err := strconv.ParseInt(lower[2:], baseForPrefix(lower), 64)
		if err == nil {
			return &ir.IntLit{ExprBase: eb, Value: v}
		}
	}
	if strings.ContainsAny(lower, ".e") {
		v, _ := strconv.ParseFloat(lower, 64)
		return &ir.DoubleLit{ExprBase: eb, Value: v}
	}
	v, err := strconv.ParseInt(lower, 10, 64)
	if err != nil {
		f, _ := strconv.ParseFloat(lower, 64)
		return &ir.DoubleLit{ExprBase: eb, Value: f}
	}
	return &ir.IntLit{ExprBase: eb, Value: v}
}

func baseForPrefix(s string) int {
	switch {
	case strings.HasPrefix(s, "0x"):
		return 16
	case strings.HasPrefix(s, "0o"):
		return 8
	default:
		return 2
	}
}

// stringValue joins the fragment children of a string literal node.
func (fx *fileExtractor) stringValue(node *ts.Node) string {
	var sb strings.Builder
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.GrammarName() {
		case "string_fragment":
			sb.WriteString(fx.text(child))
		case "escape_sequence":
			sb.WriteString(unescape(fx.text(child)))
		}
	}
	return sb.String()
}

func unescape(seq string) string {
	if len(seq) < 2 {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\':
		return "\\"
	case '\'':
		return "'"
	case '"':
		return "\""
	case '`':
		return "`"
	default:
		return seq[1:]
	}
}

// templateString lowers a template literal into an interpolation whose
// parts alternate between string fragments and substituted expressions.
func (fx *fileExtractor) templateString(node *ts.Node, eb ir.ExprBase) ir.Expr {
	interp := &ir.StringInterp{ExprBase: eb}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.GrammarName() {
		case "string_fragment":
			interp.Parts = append(interp.Parts, &ir.StringLit{
				ExprBase: ir.ExprBase{Loc: fx.location(child)},
				Value:    fx.text(child),
			})
		case "escape_sequence":
			// Same folding as plain string literals, so a template escape
			// does not change value when a substitution is added.
			interp.Parts = append(interp.Parts, &ir.StringLit{
				ExprBase: ir.ExprBase{Loc: fx.location(child)},
				Value:    unescape(fx.text(child)),
			})
		case "template_substitution":
			if inner := firstNamedChild(child); inner != nil {
				interp.Parts = append(interp.Parts, fx.expr(inner))
			}
		}
	}
	// A template with no substitutions is just a string.
	if allStringParts(interp.Parts) {
		var sb strings.Builder
		for _, p := range interp.Parts {
			sb.WriteString(p.(*ir.StringLit).Value)
		}
		return &ir.StringLit{ExprBase: eb, Value: sb.String()}
	}
	return interp
}

func allStringParts(parts []ir.Expr) bool {
	for _, p := range parts {
		if _, ok := p.(*ir.StringLit); !ok {
			return false
		}
	}
	return true
}

// memberExpr lowers target.property. Property access on a capitalized
// bare identifier is treated as an enum member reference; everything else
// is an ordinary property access.
func (fx *fileExtractor) memberExpr(node *ts.Node, eb ir.ExprBase) ir.Expr {
	object := node.ChildByFieldName("object")
	property := fx.fieldText(node, "property")

	if object != nil && object.GrammarName() == "identifier" {
		name := fx.text(object)
		if isCapitalized(name) {
			return &ir.EnumAccess{ExprBase: eb, EnumName: name, Member: property}
		}
	}

	return &ir.PropertyAccess{
		ExprBase: eb,
		Target:   fx.expr(object),
		Property: property,
	}
}

// binaryExpr lowers binary operators. instanceof becomes a type check so
// the flow rules see it as evidence rather than arithmetic.
func (fx *fileExtractor) binaryExpr(node *ts.Node, eb ir.ExprBase) ir.Expr {
	op := fx.fieldText(node, "operator")
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")

	if op == "instanceof" {
		return &ir.TypeCheck{
			ExprBase:    eb,
			Operand:     fx.expr(left),
			CheckedType: ir.SimpleType(fx.text(right)),
		}
	}

	return &ir.Binary{
		ExprBase: eb,
		Op:       op,
		Left:     fx.expr(left),
		Right:    fx.expr(right),
	}
}

// callExpr lowers call expressions into constructor, method, or function
// calls. A call to a bare capitalized identifier is a constructor
// invocation; the `new` keyword is optional in the dialect.
func (fx *fileExtractor) callExpr(node *ts.Node, eb ir.ExprBase) ir.Expr {
	fn := node.ChildByFieldName("function")
	args := fx.arguments(node.ChildByFieldName("arguments"))
	if fn == nil {
		return &ir.FunctionCall{ExprBase: eb, Name: fx.text(node), Args: args}
	}

	switch fn.GrammarName() {
	case "identifier":
		name := fx.text(fn)
		if isCapitalized(name) {
			return &ir.ConstructorCall{ExprBase: eb, ClassName: name, Args: args}
		}
		return &ir.FunctionCall{ExprBase: eb, Name: name, Args: args}
	case "member_expression":
		object := fn.ChildByFieldName("object")
		method := fx.fieldText(fn, "property")
		return &ir.MethodCall{
			ExprBase: eb,
			Target:   fx.expr(object),
			Method:   method,
			Args:     args,
		}
	default:
		return &ir.FunctionCall{ExprBase: eb, Name: fx.text(fn), Args: args}
	}
}

// constructorName extracts the class name from a new-expression target,
// flattening namespaced references like p.Button to their final segment.
func (fx *fileExtractor) constructorName(node *ts.Node) string {
	if node == nil {
		return ""
	}
	switch node.GrammarName() {
	case "identifier", "type_identifier":
		return fx.text(node)
	case "member_expression":
		return fx.fieldText(node, "property")
	default:
		return fx.text(node)
	}
}

func (fx *fileExtractor) arguments(node *ts.Node) []ir.Expr {
	if node == nil {
		return nil
	}
	args := make([]ir.Expr, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		args = append(args, fx.expr(node.NamedChild(i)))
	}
	return args
}

// lambdaExpr lowers arrow functions and function expressions. Expression
// bodies are wrapped in an implicit return.
func (fx *fileExtractor) lambdaExpr(node *ts.Node, eb ir.ExprBase) ir.Expr {
	lambda := &ir.Lambda{ExprBase: eb, IsAsync: hasKeyword(node, "async")}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, p := range fx.extractParams(params) {
			lambda.Params = append(lambda.Params, p.Name)
		}
	} else if param := node.ChildByFieldName("parameter"); param != nil {
		lambda.Params = append(lambda.Params, fx.text(param))
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		lambda.Body = &ir.FunctionBody{IsAsync: lambda.IsAsync}
		return lambda
	}
	if body.GrammarName() == "statement_block" {
		lambda.Body = fx.functionBody(body, lambda.IsAsync)
	} else {
		ret := &ir.ReturnStmt{
			StmtBase: ir.StmtBase{Loc: fx.location(body)},
			Value:    fx.expr(body),
		}
		lambda.Body = fx.bodyFromStmts([]ir.Stmt{ret}, lambda.IsAsync)
	}
	return lambda
}

// objectLit lowers an object literal. Shorthand properties expand to
// key/identifier pairs.
func (fx *fileExtractor) objectLit(node *ts.Node, eb ir.ExprBase) ir.Expr {
	lit := &ir.MapLit{ExprBase: eb}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.GrammarName() {
		case "pair":
			key := child.ChildByFieldName("key")
			value := child.ChildByFieldName("value")
			lit.Entries = append(lit.Entries, ir.MapEntry{
				Key:   fx.pairKey(key),
				Value: fx.expr(value),
			})
		case "shorthand_property_identifier":
			name := fx.text(child)
			loc := fx.location(child)
			lit.Entries = append(lit.Entries, ir.MapEntry{
				Key:   &ir.StringLit{ExprBase: ir.ExprBase{Loc: loc}, Value: name},
				Value: &ir.Ident{ExprBase: ir.ExprBase{Loc: loc}, Name: name},
			})
		case "spread_element":
			// Spread entries have no static key to record.
		}
	}
	return lit
}

// pairKey lowers an object key. Identifier keys become string literals so
// property maps key uniformly on strings.
func (fx *fileExtractor) pairKey(node *ts.Node) ir.Expr {
	if node == nil {
		return nil
	}
	eb := ir.ExprBase{Loc: fx.location(node)}
	switch node.GrammarName() {
	case "property_identifier", "identifier":
		return &ir.StringLit{ExprBase: eb, Value: fx.text(node)}
	case "string":
		return &ir.StringLit{ExprBase: eb, Value: fx.stringValue(node)}
	case "computed_property_name":
		return fx.expr(firstNamedChild(node))
	default:
		return fx.expr(node)
	}
}

func (fx *fileExtractor) fieldText(node *ts.Node, field string) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return fx.text(child)
}

func firstNamedChild(node *ts.Node) *ts.Node {
	if node == nil || node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(0)
}

// hasKeyword scans a node's unnamed children for a keyword token.
func hasKeyword(node *ts.Node, keyword string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).GrammarName() == keyword {
			return true
		}
	}
	return false
}

func isCapitalized(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
