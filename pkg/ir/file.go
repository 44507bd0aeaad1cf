package ir

// DeclarationFile is the complete declaration IR for one source file: every
// top-level directive, variable, function, and class, plus extraction-time
// diagnostics.
//
// Created once by the extraction pass. The resolution pass attaches the
// shared snapshot and confirms type references in place; nothing else is
// mutated after extraction.
type DeclarationFile struct {
	Path        string
	PackageName string

	Imports []*ImportDirective
	Exports []*ExportDirective
	Parts   []*PartOfDirective

	Variables []*VariableDecl
	Functions []*FunctionDecl
	Classes   []*ClassDecl

	// Diagnostics appended during extraction. Later passes append to their
	// own accumulators; nothing is ever removed.
	Diagnostics []Diagnostic

	// Resolution is the shared snapshot attached by the resolution pass.
	// All files of a run reference the same snapshot.
	Resolution *ResolutionSnapshot
}

// Declarations returns every top-level declaration, grouped as variables,
// then functions, then classes (directives excluded).
func (f *DeclarationFile) Declarations() []Declaration {
	out := make([]Declaration, 0, len(f.Variables)+len(f.Functions)+len(f.Classes))
	for _, v := range f.Variables {
		out = append(out, v)
	}
	for _, fn := range f.Functions {
		out = append(out, fn)
	}
	for _, c := range f.Classes {
		out = append(out, c)
	}
	return out
}

// ClassNamed returns the class declared in this file with the given name.
func (f *DeclarationFile) ClassNamed(name string) *ClassDecl {
	for _, c := range f.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ImportBinding is the resolution of one import directive: the file it maps
// to and the symbols it makes visible to the importing file.
type ImportBinding struct {
	ImportingFile string
	URI           string
	Prefix        string
	ResolvedPath  string
	// Visible is the symbol set the directive exposes after applying the
	// show/hide filters. Keys are simple names.
	Visible map[string]bool
}

// ProviderKind classifies an observable/provider store.
type ProviderKind string

const (
	ProviderKindNotifier      ProviderKind = "change-notifier"
	ProviderKindValueNotifier ProviderKind = "value-notifier"
	ProviderKindStore         ProviderKind = "store"
)

// ProviderInfo records a classified observable/provider class.
type ProviderInfo struct {
	Kind ProviderKind
	Decl *ClassDecl
}

// ResolutionSnapshot is the complete output of the symbol resolution pass.
// One snapshot exists per run, created by the resolver, shared by reference
// across every file, and read-only for the validation pass.
type ResolutionSnapshot struct {
	// Registry maps package-qualified names to exactly one declaration.
	Registry map[string]Declaration

	// ImportTable maps bindingKey(importingFile, uri, prefix) to the
	// resolved binding. Unresolved imports have no entry.
	ImportTable map[string]*ImportBinding

	// ExportedSymbols maps a file path to the set of simple names it
	// exports (declarations plus re-exports).
	ExportedSymbols map[string]map[string]bool

	// StatePairs maps a stateful component class name to its paired state
	// class name.
	StatePairs map[string]string

	// Providers maps a class name to its provider classification.
	Providers map[string]ProviderInfo

	// Issues are the diagnostics accumulated during resolution,
	// append-only.
	Issues []Diagnostic
}

// NewResolutionSnapshot returns an empty snapshot with all tables allocated.
func NewResolutionSnapshot() *ResolutionSnapshot {
	return &ResolutionSnapshot{
		Registry:        make(map[string]Declaration),
		ImportTable:     make(map[string]*ImportBinding),
		ExportedSymbols: make(map[string]map[string]bool),
		StatePairs:      make(map[string]string),
		Providers:       make(map[string]ProviderInfo),
	}
}

// BindingKey builds the import-table key for (importing file, uri, prefix).
func BindingKey(importingFile, uri, prefix string) string {
	return importingFile + "\x00" + uri + "\x00" + prefix
}
