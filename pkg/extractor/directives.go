// Import, export, and reference directive extraction.
package extractor

import (
	"regexp"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uisema/pkg/ir"
)

// referencePattern matches triple-slash reference directives, which mark
// a file as part of another library.
var referencePattern = regexp.MustCompile(`^///\s*<reference\s+path\s*=\s*["']([^"']+)["']\s*/>`)

func isReferenceDirective(text string) bool {
	return referencePattern.MatchString(strings.TrimSpace(text))
}

// extractReferenceDirective lowers `/// <reference path="..." />` comments
// into part-of directives. Ordinary comments are ignored.
func (fx *fileExtractor) extractReferenceDirective(node *ts.Node) {
	m := referencePattern.FindStringSubmatch(strings.TrimSpace(fx.text(node)))
	if m == nil {
		return
	}
	fx.file.Parts = append(fx.file.Parts, &ir.PartOfDirective{
		DeclBase: fx.newBase(m[1], node),
		URI:      m[1],
	})
}

// extractImport lowers an import statement.
//
// Forms and their lowering:
//
//	import { A, B as C } from 'uri'  -> Show: [A, C]
//	import * as p from 'uri'         -> Prefix: p
//	import D from 'uri'              -> Show: [D]
//	import 'uri'                     -> bare import, everything visible
func (fx *fileExtractor) extractImport(node *ts.Node) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	uri := trimQuotes(fx.text(sourceNode))

	imp := &ir.ImportDirective{
		DeclBase: fx.newBase(uri, node),
		URI:      uri,
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.GrammarName() != "import_clause" {
			continue
		}
		fx.extractImportClause(child, imp)
	}

	fx.file.Imports = append(fx.file.Imports, imp)
}

// extractImportClause fills prefix and shown names from the clause node.
func (fx *fileExtractor) extractImportClause(clause *ts.Node, imp *ir.ImportDirective) {
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		switch child.GrammarName() {
		case "identifier":
			// Default import binds a single name.
			imp.Show = append(imp.Show, fx.text(child))
		case "namespace_import":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if inner := child.NamedChild(j); inner.GrammarName() == "identifier" {
					imp.Prefix = fx.text(inner)
				}
			}
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec.GrammarName() != "import_specifier" {
					continue
				}
				// The alias is the local binding when present.
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					imp.Show = append(imp.Show, fx.text(alias))
				} else if name := spec.ChildByFieldName("name"); name != nil {
					imp.Show = append(imp.Show, fx.text(name))
				}
			}
		}
	}
}

// extractExport lowers an export statement. Exported declarations are
// extracted in place; export clauses become re-export directives.
func (fx *fileExtractor) extractExport(node *ts.Node) {
	// export class / export function / export const: lower the wrapped
	// declaration and record the exported names.
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		exp := &ir.ExportDirective{DeclBase: fx.newBase("", node)}
		switch decl.GrammarName() {
		case "class_declaration", "abstract_class_declaration":
			if cls := fx.extractClass(decl); cls != nil {
				fx.file.Classes = append(fx.file.Classes, cls)
				exp.Show = append(exp.Show, cls.Name)
			}
		case "function_declaration":
			if fn := fx.extractFunction(decl); fn != nil {
				fx.file.Functions = append(fx.file.Functions, fn)
				exp.Show = append(exp.Show, fn.Name)
			}
		case "lexical_declaration", "variable_declaration":
			vars := fx.extractVariables(decl)
			fx.file.Variables = append(fx.file.Variables, vars...)
			for _, v := range vars {
				exp.Show = append(exp.Show, v.Name)
			}
		default:
			return
		}
		if len(exp.Show) > 0 {
			exp.Name = exp.Show[0]
			fx.file.Exports = append(fx.file.Exports, exp)
		}
		return
	}

	// export { A, B } [from 'uri'] and export * from 'uri'.
	exp := &ir.ExportDirective{DeclBase: fx.newBase("", node)}
	if sourceNode := node.ChildByFieldName("source"); sourceNode != nil {
		exp.URI = trimQuotes(fx.text(sourceNode))
		exp.Name = exp.URI
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.GrammarName() != "export_clause" {
			continue
		}
		for j := uint(0); j < child.NamedChildCount(); j++ {
			spec := child.NamedChild(j)
			if spec.GrammarName() != "export_specifier" {
				continue
			}
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exp.Show = append(exp.Show, fx.text(alias))
			} else if name := spec.ChildByFieldName("name"); name != nil {
				exp.Show = append(exp.Show, fx.text(name))
			}
		}
	}
	if exp.URI == "" && len(exp.Show) == 0 {
		return
	}
	if exp.Name == "" && len(exp.Show) > 0 {
		exp.Name = exp.Show[0]
	}
	fx.file.Exports = append(fx.file.Exports, exp)
}

func trimQuotes(s string) string {
	return strings.Trim(s, "\"'`")
}
