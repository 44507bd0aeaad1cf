// Class, function, and variable declaration extraction.
package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uisema/pkg/ir"
)

// extractClass lowers a class declaration with its heritage and members,
// then runs component classification and state analysis on the result.
func (fx *fileExtractor) extractClass(node *ts.Node) *ir.ClassDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	cls := &ir.ClassDecl{
		DeclBase:   fx.newBase(fx.text(nameNode), node),
		IsAbstract: node.GrammarName() == "abstract_class_declaration",
	}

	fx.extractHeritage(node, cls)

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.NamedChildCount(); i++ {
			fx.extractMember(body.NamedChild(i), cls)
		}
	}

	cls.Component = fx.ex.detector.DetectClass(cls)
	cls.State = fx.analyzeStateClass(cls)
	return cls
}

// extractHeritage fills superclass, interfaces, and mixins.
//
// A mixin application is spelled as a call in extends position:
//
//	class Cart extends Observable(BaseModel) { ... }
//
// lowers to superclass BaseModel with mixin Observable.
func (fx *fileExtractor) extractHeritage(node *ts.Node, cls *ir.ClassDecl) {
	var heritage *ts.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child.GrammarName() == "class_heritage" {
			heritage = child
			break
		}
	}
	if heritage == nil {
		return
	}

	for i := uint(0); i < heritage.NamedChildCount(); i++ {
		clause := heritage.NamedChild(i)
		switch clause.GrammarName() {
		case "extends_clause":
			fx.extractExtends(clause, cls)
		case "implements_clause":
			for j := uint(0); j < clause.NamedChildCount(); j++ {
				if t := fx.lowerType(clause.NamedChild(j)); t != nil {
					cls.Interfaces = append(cls.Interfaces, t)
				}
			}
		}
	}
}

func (fx *fileExtractor) extractExtends(clause *ts.Node, cls *ir.ClassDecl) {
	value := clause.ChildByFieldName("value")
	if value == nil {
		value = firstNamedChild(clause)
	}
	if value == nil {
		return
	}

	switch value.GrammarName() {
	case "identifier", "type_identifier":
		cls.Superclass = ir.SimpleType(fx.text(value))
	case "generic_type":
		cls.Superclass = fx.lowerType(value)
	case "call_expression":
		// Mixin application wrapping the real base class.
		if fn := value.ChildByFieldName("function"); fn != nil {
			cls.Mixins = append(cls.Mixins, ir.SimpleType(fx.text(fn)))
		}
		if args := value.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
			base := args.NamedChild(0)
			cls.Superclass = ir.SimpleType(fx.text(base))
		}
	default:
		cls.Superclass = ir.SimpleType(fx.text(value))
	}

	// Generic superclass arguments like State<CounterWidget> keep only the
	// base name; pairing goes through the createState return type instead.
	if cls.Superclass != nil {
		if idx := strings.IndexByte(cls.Superclass.Name, '<'); idx > 0 {
			cls.Superclass.Name = cls.Superclass.Name[:idx]
		}
	}
}

// extractMember lowers one class-body member, isolating failures the same
// way top-level extraction does.
func (fx *fileExtractor) extractMember(node *ts.Node, cls *ir.ClassDecl) {
	defer func() {
		if r := recover(); r != nil {
			fx.recordFailure(node, "member extraction panic")
		}
	}()

	switch node.GrammarName() {
	case "method_definition":
		name := fx.fieldText(node, "name")
		if name == "constructor" {
			cls.Constructors = append(cls.Constructors, fx.extractConstructor(node, cls))
			return
		}
		cls.Methods = append(cls.Methods, fx.extractMethod(node, cls, false))
	case "abstract_method_signature", "method_signature":
		cls.Methods = append(cls.Methods, fx.extractMethod(node, cls, true))
	case "public_field_definition":
		if f := fx.extractField(node, cls); f != nil {
			cls.Fields = append(cls.Fields, f)
		}
	}
}

func (fx *fileExtractor) extractMethod(node *ts.Node, cls *ir.ClassDecl, abstract bool) *ir.MethodDecl {
	name := fx.fieldText(node, "name")
	isAsync := hasKeyword(node, "async")

	m := &ir.MethodDecl{
		FunctionDecl: ir.FunctionDecl{
			DeclBase:   fx.newBase(name, node),
			ReturnType: fx.typeFromAnnotation(node.ChildByFieldName("return_type")),
			Params:     fx.extractParams(node.ChildByFieldName("parameters")),
			IsAsync:    isAsync,
		},
		Owner:      cls.Name,
		IsStatic:   hasKeyword(node, "static"),
		IsAbstract: abstract || hasKeyword(node, "abstract"),
		IsGetter:   hasKeyword(node, "get"),
		IsSetter:   hasKeyword(node, "set"),
	}

	if body := node.ChildByFieldName("body"); body != nil {
		m.Body = fx.functionBody(body, isAsync)
	}

	m.Component = fx.ex.detector.DetectMethod(m)
	return m
}

// extractConstructor lowers the constructor, collecting `this.x = y`
// assignments as field initializations.
func (fx *fileExtractor) extractConstructor(node *ts.Node, cls *ir.ClassDecl) *ir.ConstructorDecl {
	ctor := &ir.ConstructorDecl{
		DeclBase: fx.newBase(cls.Name, node),
		Owner:    cls.Name,
		Params:   fx.extractParams(node.ChildByFieldName("parameters")),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return ctor
	}
	stmts := fx.blockStmts(body)
	ctor.FieldInits = make(map[string]ir.Expr)
	for _, s := range stmts {
		es, ok := s.(*ir.ExprStmt)
		if !ok {
			continue
		}
		assign, ok := es.E.(*ir.Assign)
		if !ok || assign.Op != "=" {
			continue
		}
		prop, ok := assign.Target.(*ir.PropertyAccess)
		if !ok {
			continue
		}
		if target, ok := prop.Target.(*ir.Ident); ok && target.Name == "this" {
			ctor.FieldInits[prop.Property] = assign.Value
		}
	}
	return ctor
}

func (fx *fileExtractor) extractField(node *ts.Node, cls *ir.ClassDecl) *ir.FieldDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	isReadonly := hasKeyword(node, "readonly")
	return &ir.FieldDecl{
		DeclBase: fx.newBase(fx.text(nameNode), node),
		Owner:    cls.Name,
		DeclType: fx.typeFromAnnotation(node.ChildByFieldName("type")),
		Init:     fx.expr(node.ChildByFieldName("value")),
		IsFinal:  isReadonly,
		IsConst:  isReadonly && hasKeyword(node, "static"),
		IsStatic: hasKeyword(node, "static"),
	}
}

// extractFunction lowers a top-level function declaration.
func (fx *fileExtractor) extractFunction(node *ts.Node) *ir.FunctionDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	isAsync := hasKeyword(node, "async")

	fn := &ir.FunctionDecl{
		DeclBase:   fx.newBase(fx.text(nameNode), node),
		ReturnType: fx.typeFromAnnotation(node.ChildByFieldName("return_type")),
		Params:     fx.extractParams(node.ChildByFieldName("parameters")),
		IsAsync:    isAsync,
	}
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		for i := uint(0); i < tp.NamedChildCount(); i++ {
			param := tp.NamedChild(i)
			if name := param.ChildByFieldName("name"); name != nil {
				fn.TypeParams = append(fn.TypeParams, fx.text(name))
			}
		}
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Body = fx.functionBody(body, isAsync)
	}

	fn.Component = fx.ex.detector.DetectFunction(fn)
	return fn
}

// extractVariables lowers every declarator of a top-level variable
// declaration.
func (fx *fileExtractor) extractVariables(node *ts.Node) []*ir.VariableDecl {
	isConst := hasKeyword(node, "const")
	var out []*ir.VariableDecl
	for i := uint(0); i < node.NamedChildCount(); i++ {
		decl := node.NamedChild(i)
		if decl.GrammarName() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		out = append(out, &ir.VariableDecl{
			DeclBase: fx.newBase(fx.text(nameNode), decl),
			DeclType: fx.typeFromAnnotation(decl.ChildByFieldName("type")),
			Init:     fx.expr(decl.ChildByFieldName("value")),
			IsFinal:  isConst,
			IsConst:  isConst,
		})
	}
	return out
}
