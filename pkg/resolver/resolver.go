// Package resolver builds the cross-file resolution snapshot: the global
// symbol registry, the import table, widget/state pairing, provider
// classification, and type-reference resolution.
//
// Resolution is single-writer. The analyzer extracts files in parallel,
// then one resolver run walks every file and produces one snapshot shared
// by reference. Resolution always completes; its only failure mode is
// diagnostics on the snapshot.
package resolver

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/uisema/pkg/ir"
)

// Resolver performs the cross-file resolution pass.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger falls back to
// slog.Default().
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// ResolveAll resolves every file against every other and attaches the
// resulting snapshot to each file. Files are processed in path order so
// first-wins duplicate handling is deterministic.
func (r *Resolver) ResolveAll(files []*ir.DeclarationFile, projectRoot string) *ir.ResolutionSnapshot {
	snap := ir.NewResolutionSnapshot()

	ordered := make([]*ir.DeclarationFile, len(files))
	copy(ordered, files)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	byPath := make(map[string]*ir.DeclarationFile, len(ordered))
	for _, f := range ordered {
		f.PackageName = libraryName(f.Path, projectRoot)
		byPath[filepath.Clean(f.Path)] = f
	}

	for _, f := range ordered {
		r.registerFile(snap, f)
	}
	r.resolveExports(snap, ordered, byPath, projectRoot)
	for _, f := range ordered {
		r.resolveImports(snap, f, byPath, projectRoot)
	}
	for _, f := range ordered {
		r.pairStates(snap, f, byPath)
		r.classifyProviders(snap, f)
	}
	for _, f := range ordered {
		r.resolveTypes(snap, f, byPath)
	}

	for _, f := range ordered {
		f.Resolution = snap
	}

	r.logger.Debug("resolution complete",
		"files", len(ordered),
		"symbols", len(snap.Registry),
		"bindings", len(snap.ImportTable),
		"pairs", len(snap.StatePairs),
		"providers", len(snap.Providers),
		"issues", len(snap.Issues))

	return snap
}

// libraryName derives the qualified-name prefix for a file from its path
// relative to the package root, dots for separators, extension dropped.
func libraryName(path, projectRoot string) string {
	rel := filepath.Clean(path)
	if projectRoot != "" {
		if r, err := filepath.Rel(projectRoot, rel); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = strings.TrimPrefix(rel, "lib"+string(filepath.Separator))
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}

// registerFile adds every top-level declaration to the global registry.
// A second registration of the same qualified name keeps the first entry
// and records a duplicate-symbol diagnostic.
func (r *Resolver) registerFile(snap *ir.ResolutionSnapshot, f *ir.DeclarationFile) {
	exported := make(map[string]bool)
	for _, exp := range f.Exports {
		for _, name := range exp.Show {
			exported[name] = true
		}
	}
	snap.ExportedSymbols[f.Path] = exported

	register := func(decl ir.Declaration) {
		if decl.Failed() {
			return
		}
		qn := f.PackageName + "." + decl.DeclName()
		if existing, ok := snap.Registry[qn]; ok {
			snap.Issues = append(snap.Issues, ir.NewDiagnostic(
				ir.SeverityError, ir.CategoryDuplicateSymbol,
				fmt.Sprintf("symbol %q already declared at %s", qn, existing.Pos()),
				decl.Pos()))
			return
		}
		snap.Registry[qn] = decl
	}

	for _, v := range f.Variables {
		register(v)
	}
	for _, fn := range f.Functions {
		register(fn)
	}
	for _, cls := range f.Classes {
		register(cls)
	}
}

// resolveExports resolves re-export directives and folds the re-exported
// names into the exporting file's exported-symbol set. A dangling export
// URI is diagnosed like a dangling import. Because `export *` pulls in the
// target's whole set, merging repeats until chained re-exports settle.
func (r *Resolver) resolveExports(snap *ir.ResolutionSnapshot, files []*ir.DeclarationFile, byPath map[string]*ir.DeclarationFile, projectRoot string) {
	type reexport struct {
		from   string
		target string
		show   []string
	}
	var edges []reexport

	for _, f := range files {
		for _, exp := range f.Exports {
			if exp.URI == "" {
				continue
			}
			resolved, external := resolveURI(exp.URI, f.Path, projectRoot)
			if external {
				// Names re-exported from opaque libraries are taken on
				// faith, like shown names on opaque imports.
				set := snap.ExportedSymbols[f.Path]
				for _, name := range exp.Show {
					set[name] = true
				}
				continue
			}
			target, ok := byPath[filepath.Clean(resolved)]
			if !ok {
				snap.Issues = append(snap.Issues, ir.NewDiagnostic(
					ir.SeverityError, ir.CategoryInvalidImport,
					fmt.Sprintf("cannot resolve export %q from %s", exp.URI, f.Path),
					exp.Loc))
				continue
			}
			edges = append(edges, reexport{from: f.Path, target: target.Path, show: exp.Show})
		}
	}

	for changed := true; changed; {
		changed = false
		for _, e := range edges {
			set := snap.ExportedSymbols[e.from]
			names := e.show
			if len(names) == 0 {
				for name := range snap.ExportedSymbols[e.target] {
					if !set[name] {
						set[name] = true
						changed = true
					}
				}
				continue
			}
			for _, name := range names {
				if !set[name] {
					set[name] = true
					changed = true
				}
			}
		}
	}
}

// resolveImports fills the import table for one file.
//
// URI scheme:
//
//	package:<pkg>/<path> -> under the package root (lib/)
//	./x, ../x            -> relative to the importing file
//	sdk:<name>           -> built-in, resolves to nothing
//	bare specifier       -> external, treated as built-in
func (r *Resolver) resolveImports(snap *ir.ResolutionSnapshot, f *ir.DeclarationFile, byPath map[string]*ir.DeclarationFile, projectRoot string) {
	for _, imp := range f.Imports {
		binding := &ir.ImportBinding{
			ImportingFile: f.Path,
			URI:           imp.URI,
			Prefix:        imp.Prefix,
		}

		resolved, external := resolveURI(imp.URI, f.Path, projectRoot)
		if external {
			// Built-in and external libraries are opaque; the binding
			// exists so prefix references resolve, but it points nowhere.
			snap.ImportTable[ir.BindingKey(f.Path, imp.URI, imp.Prefix)] = binding
			continue
		}

		target, ok := byPath[filepath.Clean(resolved)]
		if !ok {
			snap.Issues = append(snap.Issues, ir.NewDiagnostic(
				ir.SeverityError, ir.CategoryInvalidImport,
				fmt.Sprintf("cannot resolve import %q from %s", imp.URI, f.Path),
				imp.Loc))
			continue
		}

		binding.ResolvedPath = target.Path
		binding.Visible = visibleSet(imp, snap.ExportedSymbols[target.Path])
		snap.ImportTable[ir.BindingKey(f.Path, imp.URI, imp.Prefix)] = binding
	}
}

// resolveURI maps an import URI to a candidate file path. The second
// result is true for built-in and external imports, which never resolve
// to a project file.
func resolveURI(uri, importingFile, projectRoot string) (string, bool) {
	switch {
	case strings.HasPrefix(uri, "package:"):
		rest := strings.TrimPrefix(uri, "package:")
		// The leading segment is the package name; the remainder lives
		// under the package root.
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			rest = rest[idx+1:]
		}
		return filepath.Join(projectRoot, "lib", filepath.FromSlash(rest)), false
	case strings.HasPrefix(uri, "./"), strings.HasPrefix(uri, "../"):
		return filepath.Join(filepath.Dir(importingFile), filepath.FromSlash(uri)), false
	case strings.HasPrefix(uri, "sdk:"):
		return "", true
	default:
		return "", true
	}
}

// visibleSet applies show/hide filters against the target's exports.
// A nil result means everything exported is visible.
func visibleSet(imp *ir.ImportDirective, exported map[string]bool) map[string]bool {
	if len(imp.Show) == 0 && len(imp.Hide) == 0 {
		return nil
	}
	visible := make(map[string]bool)
	if len(imp.Show) > 0 {
		for _, name := range imp.Show {
			visible[name] = true
		}
		return visible
	}
	for name := range exported {
		if !contains(imp.Hide, name) {
			visible[name] = true
		}
	}
	return visible
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// pairStates links stateful widget classes to their state classes through
// the createState factory's return type. The widget side matches on the
// whole superclass chain, so widgets extending an intermediate base still
// pair. An unpaired widget is not a diagnostic; the validator has nothing
// to say without a state class.
func (r *Resolver) pairStates(snap *ir.ResolutionSnapshot, f *ir.DeclarationFile, byPath map[string]*ir.DeclarationFile) {
	for _, cls := range f.Classes {
		factory := cls.MethodNamed("createState")
		if factory == nil || factory.ReturnType == nil {
			continue
		}
		if !r.extendsTransitively(snap, f, byPath, cls, "StatefulWidget") {
			continue
		}

		stateName := factory.ReturnType.Name
		stateCls, stateQN := r.lookupClass(snap, f, byPath, stateName)
		if stateCls == nil {
			continue
		}
		if !r.extendsTransitively(snap, f, byPath, stateCls, "State") {
			continue
		}

		snap.StatePairs[f.PackageName+"."+cls.Name] = stateQN
	}
}

// lookupClass finds a class by simple name: same file first, then through
// the file's import bindings.
func (r *Resolver) lookupClass(snap *ir.ResolutionSnapshot, f *ir.DeclarationFile, byPath map[string]*ir.DeclarationFile, name string) (*ir.ClassDecl, string) {
	if cls := f.ClassNamed(name); cls != nil {
		return cls, f.PackageName + "." + name
	}

	for _, imp := range f.Imports {
		binding, ok := snap.ImportTable[ir.BindingKey(f.Path, imp.URI, imp.Prefix)]
		if !ok || binding.ResolvedPath == "" {
			continue
		}
		if binding.Visible != nil && !binding.Visible[name] {
			continue
		}
		target, ok := byPath[filepath.Clean(binding.ResolvedPath)]
		if !ok {
			continue
		}
		if cls := target.ClassNamed(name); cls != nil {
			return cls, target.PackageName + "." + name
		}
	}
	return nil, ""
}

// extendsTransitively walks the superclass chain through the registry.
func (r *Resolver) extendsTransitively(snap *ir.ResolutionSnapshot, f *ir.DeclarationFile, byPath map[string]*ir.DeclarationFile, cls *ir.ClassDecl, base string) bool {
	seen := map[string]bool{}
	current := cls
	for current != nil && !seen[current.Name] {
		seen[current.Name] = true
		if current.Superclass == nil {
			return false
		}
		if current.Superclass.Name == base {
			return true
		}
		next, _ := r.lookupClass(snap, f, byPath, current.Superclass.Name)
		current = next
	}
	return false
}

// providerBases maps observable base classes and mixins to provider kinds.
var providerBases = map[string]ir.ProviderKind{
	"ChangeNotifier": ir.ProviderKindNotifier,
	"ValueNotifier":  ir.ProviderKindValueNotifier,
	"Observable":     ir.ProviderKindStore,
	"Store":          ir.ProviderKindStore,
}

// classifyProviders records classes participating in the observable
// vocabulary, by base class or by mixin.
func (r *Resolver) classifyProviders(snap *ir.ResolutionSnapshot, f *ir.DeclarationFile) {
	for _, cls := range f.Classes {
		kind, ok := providerKind(cls)
		if !ok {
			continue
		}
		snap.Providers[f.PackageName+"."+cls.Name] = ir.ProviderInfo{Kind: kind, Decl: cls}
	}
}

func providerKind(cls *ir.ClassDecl) (ir.ProviderKind, bool) {
	if cls.Superclass != nil {
		if kind, ok := providerBases[cls.Superclass.Name]; ok {
			return kind, true
		}
	}
	for _, mixin := range cls.Mixins {
		if kind, ok := providerBases[mixin.Name]; ok {
			return kind, true
		}
	}
	return "", false
}
