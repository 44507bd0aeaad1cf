// Unused-code rules: imports and private methods.
package validator

import (
	"fmt"
	"strings"

	"github.com/gnana997/uisema/pkg/analysis"
	"github.com/gnana997/uisema/pkg/ir"
)

// lifecycleHooks are framework entry points that are invoked externally
// and never counted as unused.
var lifecycleHooks = map[string]bool{
	"build":           true,
	"createState":     true,
	"initState":       true,
	"dispose":         true,
	"didUpdateWidget": true,
}

// UnusedCodeRule reports imports and private methods nothing references.
// The private-method check is a heuristic: reflective or generated
// callers are invisible to it, which is why it only reaches info.
type UnusedCodeRule struct{}

func (r *UnusedCodeRule) Name() string { return "unused-code" }

func (r *UnusedCodeRule) Check(ctx *RuleContext) []ir.Diagnostic {
	used := usedNames(ctx.File)

	var diags []ir.Diagnostic
	diags = append(diags, r.checkImports(ctx, used)...)
	diags = append(diags, r.checkPrivateMethods(ctx.File, used)...)
	diags = append(diags, r.checkUnreachable(ctx.File)...)
	return diags
}

// checkUnreachable reports statements that can never execute because a
// return, throw, break, or continue precedes them in the same block.
func (r *UnusedCodeRule) checkUnreachable(f *ir.DeclarationFile) []ir.Diagnostic {
	var ra analysis.ReachabilityAnalyzer
	var diags []ir.Diagnostic

	report := func(owner string, body *ir.FunctionBody) {
		if body == nil {
			return
		}
		for _, s := range ra.Unreachable(body.Statements) {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityInfo, ir.CategoryUnusedCode,
				fmt.Sprintf("statement in %s is unreachable", owner), s.Pos()).
				WithSuggestion("remove the dead statement"))
		}
	}

	for _, fn := range f.Functions {
		report(fn.Name, fn.Body)
	}
	for _, cls := range f.Classes {
		for _, m := range cls.Methods {
			report(cls.Name+"."+m.Name, m.Body)
		}
	}
	return diags
}

// checkImports reports imports without show/hide filters whose symbols
// the file never touches.
func (r *UnusedCodeRule) checkImports(ctx *RuleContext, used map[string]bool) []ir.Diagnostic {
	var diags []ir.Diagnostic
	for _, imp := range ctx.File.Imports {
		if len(imp.Show) > 0 || len(imp.Hide) > 0 {
			continue
		}

		if imp.Prefix != "" {
			if !used[imp.Prefix] {
				diags = append(diags, ir.NewDiagnostic(ir.SeverityHint, ir.CategoryUnusedCode,
					fmt.Sprintf("import %q is never used through prefix %q", imp.URI, imp.Prefix),
					imp.Loc).
					WithSuggestion("remove the import"))
			}
			continue
		}

		// A bare import of a project file is unused when none of the
		// target's exports appear in this file. Bare external imports
		// stay opaque; they may be side-effect imports.
		if ctx.Snapshot == nil {
			continue
		}
		binding, ok := ctx.Snapshot.ImportTable[ir.BindingKey(ctx.File.Path, imp.URI, "")]
		if !ok || binding.ResolvedPath == "" {
			continue
		}
		exported := ctx.Snapshot.ExportedSymbols[binding.ResolvedPath]
		if len(exported) == 0 {
			continue
		}
		anyUsed := false
		for name := range exported {
			if used[name] {
				anyUsed = true
				break
			}
		}
		if !anyUsed {
			diags = append(diags, ir.NewDiagnostic(ir.SeverityHint, ir.CategoryUnusedCode,
				fmt.Sprintf("import %q is never used", imp.URI), imp.Loc).
				WithSuggestion("remove the import"))
		}
	}
	return diags
}

// checkPrivateMethods reports underscore methods no code in the file
// references.
func (r *UnusedCodeRule) checkPrivateMethods(f *ir.DeclarationFile, used map[string]bool) []ir.Diagnostic {
	var diags []ir.Diagnostic
	for _, cls := range f.Classes {
		for _, m := range cls.Methods {
			if !m.IsPrivate() || lifecycleHooks[m.Name] {
				continue
			}
			// Generated handler names follow an _on<Event> convention and
			// are wired up by the tooling, not by in-file calls.
			if strings.HasPrefix(m.Name, "_on") {
				continue
			}
			if used[m.Name] {
				continue
			}
			diags = append(diags, ir.NewDiagnostic(ir.SeverityInfo, ir.CategoryUnusedCode,
				fmt.Sprintf("private method %s.%s appears unused", cls.Name, m.Name), m.Loc))
		}
	}
	return diags
}

// usedNames collects every identifier-like name a file references in
// bodies, initializers, and type annotations. Declaring a name does not
// count as using it.
func usedNames(f *ir.DeclarationFile) map[string]bool {
	de := analysis.NewDependencyExtractor()

	for _, v := range f.Variables {
		de.Collect(v.Init)
	}
	for _, fn := range f.Functions {
		de.CollectBody(fn.Body)
		collectTypeNames(de, fn.ReturnType)
		for _, p := range fn.Params {
			collectTypeNames(de, p.DeclType)
			de.Collect(p.DefaultValue)
		}
	}
	for _, cls := range f.Classes {
		collectTypeNames(de, cls.Superclass)
		for _, t := range cls.Interfaces {
			collectTypeNames(de, t)
		}
		for _, t := range cls.Mixins {
			collectTypeNames(de, t)
		}
		for _, field := range cls.Fields {
			de.Collect(field.Init)
			collectTypeNames(de, field.DeclType)
		}
		for _, m := range cls.Methods {
			de.CollectBody(m.Body)
			collectTypeNames(de, m.ReturnType)
			for _, p := range m.Params {
				collectTypeNames(de, p.DeclType)
			}
		}
		for _, ctor := range cls.Constructors {
			for _, init := range ctor.FieldInits {
				de.Collect(init)
			}
			for _, p := range ctor.Params {
				collectTypeNames(de, p.DeclType)
			}
		}
	}

	used := make(map[string]bool)
	for _, name := range de.Names() {
		used[name] = true
	}
	return used
}

func collectTypeNames(de *analysis.DependencyExtractor, t *ir.TypeRef) {
	if t != nil && t.Kind == ir.TypeSimple && t.Name != "" {
		de.Collect(&ir.Ident{Name: t.Name})
	}
}
