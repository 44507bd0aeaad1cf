// Type-reference resolution.
package resolver

import (
	"fmt"
	"path/filepath"

	"github.com/gnana997/uisema/pkg/ir"
)

// typeSite is one resolvable type reference with the location diagnostics
// should point at.
type typeSite struct {
	ref *ir.TypeRef
	loc ir.Location
}

// resolveTypes marks resolvable type references and records a warning for
// each distinct unresolvable name. Nodes are never replaced or rewritten;
// only the Resolved gate flips, and it is recomputed from scratch every
// run: a file may be reused across runs from the extraction cache, and a
// name that resolved last run can lose its defining file.
func (r *Resolver) resolveTypes(snap *ir.ResolutionSnapshot, f *ir.DeclarationFile, byPath map[string]*ir.DeclarationFile) {
	reported := map[string]bool{}

	sites := collectTypeSites(f)
	for _, site := range sites {
		site.ref.Resolved = false
	}

	for _, site := range sites {
		ref := site.ref
		if ref.Kind != ir.TypeSimple || ref.Resolved {
			continue
		}
		if ir.IsBuiltinType(ref.Name) {
			ref.Resolved = true
			continue
		}

		if r.nameResolves(snap, f, byPath, ref.Name) {
			ref.Resolved = true
			continue
		}

		if reported[ref.Name] {
			continue
		}
		reported[ref.Name] = true
		snap.Issues = append(snap.Issues, ir.NewDiagnostic(
			ir.SeverityWarning, ir.CategoryUnresolvedType,
			fmt.Sprintf("unresolved type %q", ref.Name), site.loc))
	}
}

// nameResolves checks the local file first, then the import bindings.
func (r *Resolver) nameResolves(snap *ir.ResolutionSnapshot, f *ir.DeclarationFile, byPath map[string]*ir.DeclarationFile, name string) bool {
	for _, decl := range f.Declarations() {
		if decl.DeclName() == name {
			return true
		}
	}

	for _, imp := range f.Imports {
		binding, ok := snap.ImportTable[ir.BindingKey(f.Path, imp.URI, imp.Prefix)]
		if !ok {
			continue
		}
		if binding.ResolvedPath == "" {
			// Opaque external library: names it shows are taken on faith.
			if contains(imp.Show, name) {
				return true
			}
			continue
		}
		if binding.Visible != nil && !binding.Visible[name] {
			continue
		}
		target, ok := byPath[filepath.Clean(binding.ResolvedPath)]
		if !ok {
			continue
		}
		for _, decl := range target.Declarations() {
			if decl.DeclName() == name {
				return true
			}
		}
	}
	return false
}

// collectTypeSites gathers every annotated type reference in a file with
// its owning declaration's location.
func collectTypeSites(f *ir.DeclarationFile) []typeSite {
	var sites []typeSite
	add := func(ref *ir.TypeRef, loc ir.Location) {
		if ref != nil {
			sites = append(sites, typeSite{ref: ref, loc: loc})
		}
	}

	for _, v := range f.Variables {
		add(v.DeclType, v.Loc)
	}
	for _, fn := range f.Functions {
		add(fn.ReturnType, fn.Loc)
		for _, p := range fn.Params {
			add(p.DeclType, fn.Loc)
		}
	}
	for _, cls := range f.Classes {
		add(cls.Superclass, cls.Loc)
		for _, t := range cls.Interfaces {
			add(t, cls.Loc)
		}
		for _, t := range cls.Mixins {
			add(t, cls.Loc)
		}
		for _, field := range cls.Fields {
			add(field.DeclType, field.Loc)
		}
		for _, m := range cls.Methods {
			add(m.ReturnType, m.Loc)
			for _, p := range m.Params {
				add(p.DeclType, m.Loc)
			}
		}
		for _, ctor := range cls.Constructors {
			for _, p := range ctor.Params {
				add(p.DeclType, ctor.Loc)
			}
		}
	}
	return sites
}
