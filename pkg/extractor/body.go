// Statement, parameter, and type-annotation lowering.
package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uisema/pkg/analysis"
	"github.com/gnana997/uisema/pkg/ir"
)

// functionBody lowers a statement block into a FunctionBody with the
// flattened expression list attached.
func (fx *fileExtractor) functionBody(block *ts.Node, isAsync bool) *ir.FunctionBody {
	return fx.bodyFromStmts(fx.blockStmts(block), isAsync)
}

func (fx *fileExtractor) bodyFromStmts(stmts []ir.Stmt, isAsync bool) *ir.FunctionBody {
	return &ir.FunctionBody{
		Statements:  stmts,
		Expressions: analysis.FlattenStmtExprs(stmts),
		IsAsync:     isAsync,
	}
}

// blockStmts lowers the children of a statement block.
func (fx *fileExtractor) blockStmts(block *ts.Node) []ir.Stmt {
	if block == nil {
		return nil
	}
	var stmts []ir.Stmt
	for i := uint(0); i < block.NamedChildCount(); i++ {
		stmts = append(stmts, fx.stmts(block.NamedChild(i))...)
	}
	return stmts
}

// stmts lowers one statement node. Variable declarations can declare
// several names, so the result is a slice.
func (fx *fileExtractor) stmts(node *ts.Node) []ir.Stmt {
	if node == nil {
		return nil
	}
	sb := ir.StmtBase{Loc: fx.location(node)}

	switch node.GrammarName() {
	case "expression_statement":
		inner := firstNamedChild(node)
		if inner == nil {
			return nil
		}
		return []ir.Stmt{&ir.ExprStmt{StmtBase: sb, E: fx.expr(inner)}}

	case "lexical_declaration", "variable_declaration":
		return fx.varDeclStmts(node)

	case "statement_block":
		return []ir.Stmt{&ir.BlockStmt{StmtBase: sb, Stmts: fx.blockStmts(node)}}

	case "if_statement":
		stmt := &ir.IfStmt{
			StmtBase: sb,
			Cond:     fx.condition(node.ChildByFieldName("condition")),
			Then:     fx.singleStmt(node.ChildByFieldName("consequence")),
		}
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			// The alternative is an else_clause wrapping the branch.
			stmt.Else = fx.singleStmt(firstNamedChild(alt))
		}
		return []ir.Stmt{stmt}

	case "for_statement":
		stmt := &ir.ForStmt{
			StmtBase: sb,
			Cond:     fx.optionalExpr(node.ChildByFieldName("condition")),
			Update:   fx.optionalExpr(node.ChildByFieldName("increment")),
			Body:     fx.singleStmt(node.ChildByFieldName("body")),
		}
		if init := node.ChildByFieldName("initializer"); init != nil {
			stmt.Init = fx.singleStmt(init)
		}
		return []ir.Stmt{stmt}

	case "for_in_statement":
		return []ir.Stmt{&ir.ForEachStmt{
			StmtBase: sb,
			VarName:  fx.fieldText(node, "left"),
			Iterable: fx.expr(node.ChildByFieldName("right")),
			Body:     fx.singleStmt(node.ChildByFieldName("body")),
		}}

	case "while_statement":
		return []ir.Stmt{&ir.WhileStmt{
			StmtBase: sb,
			Cond:     fx.condition(node.ChildByFieldName("condition")),
			Body:     fx.singleStmt(node.ChildByFieldName("body")),
		}}

	case "do_statement":
		return []ir.Stmt{&ir.DoWhileStmt{
			StmtBase: sb,
			Body:     fx.singleStmt(node.ChildByFieldName("body")),
			Cond:     fx.condition(node.ChildByFieldName("condition")),
		}}

	case "switch_statement":
		return []ir.Stmt{fx.switchStmt(node, sb)}

	case "try_statement":
		return []ir.Stmt{fx.tryStmt(node, sb)}

	case "return_statement":
		return []ir.Stmt{&ir.ReturnStmt{StmtBase: sb, Value: fx.optionalExpr(firstNamedChild(node))}}

	case "break_statement":
		return []ir.Stmt{&ir.BreakStmt{StmtBase: sb}}

	case "continue_statement":
		return []ir.Stmt{&ir.ContinueStmt{StmtBase: sb}}

	case "throw_statement":
		return []ir.Stmt{&ir.ThrowStmt{StmtBase: sb, Value: fx.expr(firstNamedChild(node))}}

	case "labeled_statement":
		if body := node.ChildByFieldName("body"); body != nil {
			return fx.stmts(body)
		}
		return nil

	case "function_declaration":
		// Local functions become lambda-initialized locals so dependency
		// and reachability analyses see their bodies.
		fn := fx.extractFunction(node)
		if fn == nil {
			return nil
		}
		lambda := &ir.Lambda{
			ExprBase: ir.ExprBase{Loc: fn.Loc},
			Body:     fn.Body,
			IsAsync:  fn.IsAsync,
		}
		for _, p := range fn.Params {
			lambda.Params = append(lambda.Params, p.Name)
		}
		return []ir.Stmt{&ir.VarDeclStmt{StmtBase: sb, Name: fn.Name, Init: lambda, IsFinal: true}}

	case "empty_statement", "comment":
		return nil

	default:
		return []ir.Stmt{&ir.ExprStmt{StmtBase: sb, E: fx.expr(node)}}
	}
}

// singleStmt lowers a node that grammar guarantees to be one statement,
// wrapping multi-declarator results in a block.
func (fx *fileExtractor) singleStmt(node *ts.Node) ir.Stmt {
	if node == nil {
		return nil
	}
	lowered := fx.stmts(node)
	switch len(lowered) {
	case 0:
		return nil
	case 1:
		return lowered[0]
	default:
		return &ir.BlockStmt{StmtBase: ir.StmtBase{Loc: fx.location(node)}, Stmts: lowered}
	}
}

// condition unwraps the parenthesized condition of if/while/do/switch.
func (fx *fileExtractor) condition(node *ts.Node) ir.Expr {
	if node == nil {
		return nil
	}
	if node.GrammarName() == "parenthesized_expression" {
		return fx.expr(firstNamedChild(node))
	}
	return fx.expr(node)
}

// optionalExpr tolerates absent and empty clauses (for-loop headers).
func (fx *fileExtractor) optionalExpr(node *ts.Node) ir.Expr {
	if node == nil || node.GrammarName() == "empty_statement" {
		return nil
	}
	if node.GrammarName() == "expression_statement" {
		return fx.optionalExpr(firstNamedChild(node))
	}
	return fx.expr(node)
}

// varDeclStmts lowers every declarator of a variable declaration.
func (fx *fileExtractor) varDeclStmts(node *ts.Node) []ir.Stmt {
	isConst := hasKeyword(node, "const")
	var stmts []ir.Stmt
	for i := uint(0); i < node.NamedChildCount(); i++ {
		decl := node.NamedChild(i)
		if decl.GrammarName() != "variable_declarator" {
			continue
		}
		stmts = append(stmts, &ir.VarDeclStmt{
			StmtBase: ir.StmtBase{Loc: fx.location(decl)},
			Name:     fx.fieldText(decl, "name"),
			DeclType: fx.typeFromAnnotation(decl.ChildByFieldName("type")),
			Init:     fx.expr(decl.ChildByFieldName("value")),
			IsFinal:  isConst,
			IsConst:  isConst,
		})
	}
	return stmts
}

func (fx *fileExtractor) switchStmt(node *ts.Node, sb ir.StmtBase) ir.Stmt {
	stmt := &ir.SwitchStmt{
		StmtBase: sb,
		Subject:  fx.condition(node.ChildByFieldName("value")),
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return stmt
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		arm := body.NamedChild(i)
		switch arm.GrammarName() {
		case "switch_case":
			c := ir.SwitchCase{}
			if v := arm.ChildByFieldName("value"); v != nil {
				c.Values = append(c.Values, fx.expr(v))
			}
			c.Body = fx.caseBody(arm)
			stmt.Cases = append(stmt.Cases, c)
		case "switch_default":
			stmt.Cases = append(stmt.Cases, ir.SwitchCase{
				IsDefault: true,
				Body:      fx.caseBody(arm),
			})
		}
	}
	return stmt
}

// caseBody lowers the statements of one switch arm, skipping the value
// expression child.
func (fx *fileExtractor) caseBody(arm *ts.Node) []ir.Stmt {
	value := arm.ChildByFieldName("value")
	var body []ir.Stmt
	for i := uint(0); i < arm.NamedChildCount(); i++ {
		child := arm.NamedChild(i)
		if value != nil && child.Id() == value.Id() {
			continue
		}
		body = append(body, fx.stmts(child)...)
	}
	return body
}

func (fx *fileExtractor) tryStmt(node *ts.Node, sb ir.StmtBase) ir.Stmt {
	stmt := &ir.TryStmt{StmtBase: sb}
	if body := node.ChildByFieldName("body"); body != nil {
		stmt.Body = &ir.BlockStmt{StmtBase: ir.StmtBase{Loc: fx.location(body)}, Stmts: fx.blockStmts(body)}
	}
	if handler := node.ChildByFieldName("handler"); handler != nil {
		clause := ir.CatchClause{}
		if param := handler.ChildByFieldName("parameter"); param != nil {
			clause.Param = fx.text(param)
		}
		if body := handler.ChildByFieldName("body"); body != nil {
			clause.Body = &ir.BlockStmt{StmtBase: ir.StmtBase{Loc: fx.location(body)}, Stmts: fx.blockStmts(body)}
		}
		stmt.Catches = append(stmt.Catches, clause)
	}
	if finalizer := node.ChildByFieldName("finalizer"); finalizer != nil {
		if body := finalizer.ChildByFieldName("body"); body != nil {
			stmt.Finally = &ir.BlockStmt{StmtBase: ir.StmtBase{Loc: fx.location(body)}, Stmts: fx.blockStmts(body)}
		} else if block := firstNamedChild(finalizer); block != nil {
			stmt.Finally = &ir.BlockStmt{StmtBase: ir.StmtBase{Loc: fx.location(block)}, Stmts: fx.blockStmts(block)}
		}
	}
	return stmt
}

// extractParams lowers a formal parameter list.
func (fx *fileExtractor) extractParams(params *ts.Node) []ir.Param {
	if params == nil {
		return nil
	}
	var out []ir.Param
	for i := uint(0); i < params.NamedChildCount(); i++ {
		node := params.NamedChild(i)
		switch node.GrammarName() {
		case "required_parameter", "optional_parameter":
			p := ir.Param{
				Name:       fx.fieldText(node, "pattern"),
				DeclType:   fx.typeFromAnnotation(node.ChildByFieldName("type")),
				IsOptional: node.GrammarName() == "optional_parameter",
			}
			if def := node.ChildByFieldName("value"); def != nil {
				p.DefaultValue = fx.expr(def)
				p.IsOptional = true
			}
			out = append(out, p)
		case "identifier":
			out = append(out, ir.Param{Name: fx.text(node)})
		}
	}
	return out
}

// typeFromAnnotation unwraps a type_annotation node and lowers its type.
func (fx *fileExtractor) typeFromAnnotation(annotation *ts.Node) *ir.TypeRef {
	if annotation == nil {
		return nil
	}
	if annotation.GrammarName() == "type_annotation" {
		return fx.lowerType(firstNamedChild(annotation))
	}
	return fx.lowerType(annotation)
}

// lowerType converts a type node to a TypeRef. The dialect keeps its own
// primitive names, so a type identifier maps through unchanged; the
// host-syntax primitives map onto the dialect's vocabulary. A union with
// null lowers to a nullable base type.
func (fx *fileExtractor) lowerType(node *ts.Node) *ir.TypeRef {
	if node == nil {
		return nil
	}
	switch node.GrammarName() {
	case "predefined_type":
		switch fx.text(node) {
		case "void":
			return ir.VoidType()
		case "never":
			return ir.NeverType()
		case "any", "unknown", "object":
			return ir.DynamicType()
		case "number":
			return ir.SimpleType("double")
		case "string":
			return ir.SimpleType("String")
		case "boolean":
			return ir.SimpleType("bool")
		default:
			return ir.SimpleType(fx.text(node))
		}
	case "identifier", "type_identifier":
		name := fx.text(node)
		if name == "dynamic" {
			return ir.DynamicType()
		}
		return ir.SimpleType(name)
	case "generic_type":
		if name := node.ChildByFieldName("name"); name != nil {
			return ir.SimpleType(fx.text(name))
		}
		return ir.SimpleType(fx.text(node))
	case "union_type":
		return fx.lowerUnionType(node)
	case "array_type":
		return ir.SimpleType("List")
	case "literal_type":
		if inner := firstNamedChild(node); inner != nil && (inner.GrammarName() == "null" || inner.GrammarName() == "undefined") {
			return ir.DynamicType()
		}
		return ir.DynamicType()
	case "parenthesized_type":
		return fx.lowerType(firstNamedChild(node))
	case "nested_type_identifier":
		if name := node.ChildByFieldName("name"); name != nil {
			return ir.SimpleType(fx.text(name))
		}
		return ir.SimpleType(fx.text(node))
	default:
		return ir.DynamicType()
	}
}

// lowerUnionType handles `T | null`, the dialect's nullable spelling.
// Any other union degrades to dynamic.
func (fx *fileExtractor) lowerUnionType(node *ts.Node) *ir.TypeRef {
	var base *ir.TypeRef
	sawNull := false
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.GrammarName() == "literal_type" {
			if inner := firstNamedChild(child); inner != nil && (inner.GrammarName() == "null" || inner.GrammarName() == "undefined") {
				sawNull = true
				continue
			}
		}
		if base != nil {
			return ir.DynamicType()
		}
		base = fx.lowerType(child)
	}
	if base == nil {
		return ir.DynamicType()
	}
	if sawNull {
		nullable := ir.NullableType(base.Name)
		nullable.Kind = base.Kind
		return nullable
	}
	return base
}
