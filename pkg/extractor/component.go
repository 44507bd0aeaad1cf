// Component classification and widget tree extraction.
package extractor

import (
	"strings"

	"github.com/gnana997/uisema/pkg/analysis"
	"github.com/gnana997/uisema/pkg/ir"
)

// ComponentDetector classifies declarations as component-producing. The
// default implementation covers the framework's class hierarchy and the
// builder-function naming conventions; callers can inject their own for
// frameworks with different vocabularies.
type ComponentDetector interface {
	DetectClass(cls *ir.ClassDecl) *ir.ComponentInfo
	DetectMethod(m *ir.MethodDecl) *ir.ComponentInfo
	DetectFunction(fn *ir.FunctionDecl) *ir.ComponentInfo
}

// DefaultDetector classifies through two tiers. The return-type tier is
// authoritative: a Widget-typed return or a framework base class. The
// name-heuristic tier is the lossy fallback (build/render/create in the
// name) and is recorded as such so consumers can discount it.
type DefaultDetector struct{}

// NewDefaultDetector returns the framework-default component detector.
func NewDefaultDetector() *DefaultDetector {
	return &DefaultDetector{}
}

// DetectClass classifies widget classes by their base class.
func (d *DefaultDetector) DetectClass(cls *ir.ClassDecl) *ir.ComponentInfo {
	if cls.Superclass == nil {
		return nil
	}
	switch cls.Superclass.Name {
	case "StatelessWidget":
		info := &ir.ComponentInfo{Kind: ir.ComponentKindStateless, Tier: ir.TierReturnType}
		if build := cls.MethodNamed("build"); build != nil && build.Body != nil {
			info.Widget = WidgetTree(build.Body)
		}
		return info
	case "StatefulWidget":
		return &ir.ComponentInfo{Kind: ir.ComponentKindStateful, Tier: ir.TierReturnType}
	case "State":
		info := &ir.ComponentInfo{Kind: ir.ComponentKindStateful, Tier: ir.TierReturnType}
		if build := cls.MethodNamed("build"); build != nil && build.Body != nil {
			info.Widget = WidgetTree(build.Body)
		}
		return info
	}
	return nil
}

// DetectMethod classifies component-producing methods.
func (d *DefaultDetector) DetectMethod(m *ir.MethodDecl) *ir.ComponentInfo {
	if info := d.detectCallable(m.Name, m.ReturnType, m.Body); info != nil {
		return info
	}
	return nil
}

// DetectFunction classifies free builder and factory functions.
func (d *DefaultDetector) DetectFunction(fn *ir.FunctionDecl) *ir.ComponentInfo {
	return d.detectCallable(fn.Name, fn.ReturnType, fn.Body)
}

func (d *DefaultDetector) detectCallable(name string, ret *ir.TypeRef, body *ir.FunctionBody) *ir.ComponentInfo {
	if ret != nil && ret.Name == "Widget" {
		info := &ir.ComponentInfo{Kind: ir.ComponentKindBuilder, Tier: ir.TierReturnType}
		if body != nil {
			info.Widget = WidgetTree(body)
		}
		return info
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "build"), strings.Contains(lower, "render"):
		info := &ir.ComponentInfo{Kind: ir.ComponentKindBuilder, Tier: ir.TierNameHeuristic}
		if body != nil {
			info.Widget = WidgetTree(body)
		}
		return info
	case strings.HasPrefix(lower, "create") && ret != nil && strings.HasSuffix(ret.Name, "Widget"):
		return &ir.ComponentInfo{Kind: ir.ComponentKindFactory, Tier: ir.TierNameHeuristic}
	}
	return nil
}

// WidgetTree extracts structural widget metadata from the first returned
// constructor call of a body. Returns nil when the body returns nothing
// constructor-shaped.
func WidgetTree(body *ir.FunctionBody) *ir.WidgetNode {
	var root *ir.ConstructorCall
	analysis.WalkStmts(body.Statements, func(s ir.Stmt) bool {
		ret, ok := s.(*ir.ReturnStmt)
		if !ok || ret.Value == nil {
			return true
		}
		if cc, ok := unwrapConstructor(ret.Value); ok {
			root = cc
			return false
		}
		return true
	})
	if root == nil {
		return nil
	}
	return widgetNode(root)
}

func unwrapConstructor(e ir.Expr) (*ir.ConstructorCall, bool) {
	switch v := e.(type) {
	case *ir.ConstructorCall:
		return v, true
	case *ir.Cast:
		return unwrapConstructor(v.Operand)
	}
	return nil, false
}

// widgetNode converts a constructor call to a widget node, recursing into
// the conventional child and children properties.
func widgetNode(cc *ir.ConstructorCall) *ir.WidgetNode {
	node := &ir.WidgetNode{
		Name:    cc.ClassName,
		Props:   map[string]ir.Expr{},
		IsConst: cc.IsConst,
		Loc:     cc.Pos(),
	}

	for _, arg := range cc.Args {
		props, ok := arg.(*ir.MapLit)
		if !ok {
			continue
		}
		for _, entry := range props.Entries {
			key, ok := entry.Key.(*ir.StringLit)
			if !ok {
				continue
			}
			node.Props[key.Value] = entry.Value
			switch key.Value {
			case "child":
				if child, ok := unwrapConstructor(entry.Value); ok {
					node.Children = append(node.Children, widgetNode(child))
				}
			case "children":
				if list, ok := entry.Value.(*ir.ListLit); ok {
					for _, el := range list.Elements {
						if child, ok := unwrapConstructor(el); ok {
							node.Children = append(node.Children, widgetNode(child))
						}
					}
				}
			}
		}
	}
	return node
}
