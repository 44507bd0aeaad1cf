package analysis

import (
	"sort"

	"github.com/gnana997/uisema/pkg/ir"
)

// DependencyExtractor collects every name an expression tree references:
// identifiers, property names, method/function/constructor names, and enum
// members, recursively. Feeds use-before-declare and call-graph style
// analyses in the validation pass.
type DependencyExtractor struct {
	names map[string]bool
}

// NewDependencyExtractor returns an empty extractor. An instance accumulates
// across Collect calls; Names drains nothing.
func NewDependencyExtractor() *DependencyExtractor {
	return &DependencyExtractor{names: make(map[string]bool)}
}

// Collect records every name referenced by e, descending into lambda bodies.
func (de *DependencyExtractor) Collect(e ir.Expr) {
	WalkExpr(e, func(sub ir.Expr) bool {
		switch n := sub.(type) {
		case *ir.Ident:
			de.names[n.Name] = true
		case *ir.PropertyAccess:
			de.names[n.Property] = true
		case *ir.MethodCall:
			de.names[n.Method] = true
		case *ir.FunctionCall:
			de.names[n.Name] = true
		case *ir.ConstructorCall:
			de.names[n.ClassName] = true
		case *ir.EnumAccess:
			de.names[n.EnumName] = true
			de.names[n.Member] = true
		}
		return true
	})
}

// CollectBody records every name referenced anywhere in a function body.
func (de *DependencyExtractor) CollectBody(body *ir.FunctionBody) {
	if body == nil {
		return
	}
	for _, e := range topLevelStmtExprs(body.Statements) {
		de.Collect(e)
	}
}

// Has reports whether the given name was referenced.
func (de *DependencyExtractor) Has(name string) bool {
	return de.names[name]
}

// Names returns the collected names, sorted for determinism.
func (de *DependencyExtractor) Names() []string {
	out := make([]string, 0, len(de.names))
	for name := range de.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ExtractDependencies is the one-shot form: every name referenced by e.
func ExtractDependencies(e ir.Expr) []string {
	de := NewDependencyExtractor()
	de.Collect(e)
	return de.Names()
}

// ExtractBodyDependencies is the one-shot form over a function body.
func ExtractBodyDependencies(body *ir.FunctionBody) []string {
	de := NewDependencyExtractor()
	de.CollectBody(body)
	return de.Names()
}
