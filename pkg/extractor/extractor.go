// Package extractor lowers parsed source trees into declaration files.
//
// Extraction is per-file and isolated: a broken declaration produces a
// fallback entry plus a diagnostic, never a failed file. Files extract
// independently, so the analyzer can fan them out across a worker pool.
package extractor

import (
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uisema/pkg/ir"
	"github.com/gnana997/uisema/pkg/parser"
)

// Extractor converts one parse tree into one ir.DeclarationFile.
//
// It parses each file ONCE and walks the same tree for directives,
// declarations, and component/state analysis.
//
// Usage:
//
//	ex := extractor.NewExtractor(parserManager, nil, logger)
//	file, err := ex.ExtractFile(filePath, sourceCode)
type Extractor struct {
	parserManager *parser.Manager
	detector      ComponentDetector
	logger        *slog.Logger
}

// NewExtractor creates an extractor. A nil detector falls back to the
// default framework heuristics, a nil logger to slog.Default().
func NewExtractor(pm *parser.Manager, detector ComponentDetector, logger *slog.Logger) *Extractor {
	if detector == nil {
		detector = NewDefaultDetector()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{
		parserManager: pm,
		detector:      detector,
		logger:        logger,
	}
}

// ExtractFile parses a file once and extracts everything from the same
// tree: directives, top-level variables and functions, classes with their
// members, component classification, and state analysis.
//
// Extraction never fails for a single bad declaration. The failed
// declaration is kept as a fallback entry carrying its extraction error,
// and a diagnostic is recorded on the file.
func (e *Extractor) ExtractFile(filePath string, sourceCode []byte) (*ir.DeclarationFile, error) {
	lang := parser.DetectLanguage(filePath)
	if lang == parser.LanguageUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", filePath)
	}

	tree, err := e.parserManager.Parse(sourceCode, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	defer tree.Close()

	file := &ir.DeclarationFile{Path: filePath}
	fx := &fileExtractor{
		ex:     e,
		file:   file,
		source: sourceCode,
		path:   filePath,
	}
	fx.walkProgram(tree.RootNode())

	e.logger.Debug("extracted file",
		"file", filePath,
		"language", lang,
		"classes", len(file.Classes),
		"functions", len(file.Functions),
		"imports", len(file.Imports),
		"diagnostics", len(file.Diagnostics))

	return file, nil
}

// fileExtractor carries per-file extraction state so the Extractor itself
// stays stateless and safe to share across workers.
type fileExtractor struct {
	ex     *Extractor
	file   *ir.DeclarationFile
	source []byte
	path   string
}

// walkProgram dispatches each top-level node of the parse tree.
func (fx *fileExtractor) walkProgram(root *ts.Node) {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		fx.extractTopLevel(node)
	}
}

// extractTopLevel extracts one top-level node, isolating failures to a
// fallback declaration plus a diagnostic.
func (fx *fileExtractor) extractTopLevel(node *ts.Node) {
	defer func() {
		if r := recover(); r != nil {
			fx.recordFailure(node, fmt.Sprintf("extraction panic: %v", r))
		}
	}()

	switch node.GrammarName() {
	case "import_statement":
		fx.extractImport(node)
	case "export_statement":
		fx.extractExport(node)
	case "comment":
		fx.extractReferenceDirective(node)
	case "class_declaration", "abstract_class_declaration":
		if cls := fx.extractClass(node); cls != nil {
			fx.file.Classes = append(fx.file.Classes, cls)
		}
	case "function_declaration":
		if fn := fx.extractFunction(node); fn != nil {
			fx.file.Functions = append(fx.file.Functions, fn)
		}
	case "lexical_declaration", "variable_declaration":
		fx.file.Variables = append(fx.file.Variables, fx.extractVariables(node)...)
	case "enum_declaration", "interface_declaration", "type_alias_declaration":
		// Type-level declarations carry no runtime behavior; the resolver
		// only needs classes, functions, and variables.
	default:
		// Stray expressions at the top level are legal but uninteresting.
	}
}

// recordFailure emits a fallback declaration and an extraction diagnostic
// for a node that could not be lowered.
func (fx *fileExtractor) recordFailure(node *ts.Node, reason string) {
	loc := fx.location(node)
	name := fx.declaredName(node)
	if name == "" {
		name = "<unknown>"
	}

	fx.ex.logger.Warn("declaration extraction failed",
		"file", fx.path,
		"declaration", name,
		"reason", reason)

	fallback := &ir.VariableDecl{
		DeclBase: ir.DeclBase{
			ID:              ir.NextDeclID(),
			Name:            name,
			Loc:             loc,
			ExtractionError: reason,
		},
	}
	fx.file.Variables = append(fx.file.Variables, fallback)

	diag := ir.NewDiagnostic(ir.SeverityWarning, ir.CategoryExtraction,
		fmt.Sprintf("failed to extract declaration %q: %s", name, reason), loc)
	fx.file.Diagnostics = append(fx.file.Diagnostics, diag)
}

// declaredName pulls the name field out of a declaration node, looking
// one level into export wrappers and variable declarators.
func (fx *fileExtractor) declaredName(node *ts.Node) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return fx.text(nameNode)
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.GrammarName() {
		case "variable_declarator", "class_declaration", "function_declaration":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				return fx.text(nameNode)
			}
		}
	}
	return ""
}

// location converts a node span to an ir.Location (1-based line/column,
// 0-based byte offset).
func (fx *fileExtractor) location(node *ts.Node) ir.Location {
	start := node.StartPosition()
	return ir.Location{
		FilePath: fx.path,
		Line:     uint32(start.Row + 1),
		Column:   uint32(start.Column + 1),
		Offset:   uint32(node.StartByte()),
		Length:   uint32(node.EndByte() - node.StartByte()),
	}
}

func (fx *fileExtractor) text(node *ts.Node) string {
	return string(node.Utf8Text(fx.source))
}

// newBase constructs the shared declaration base for a node.
func (fx *fileExtractor) newBase(name string, node *ts.Node) ir.DeclBase {
	return ir.DeclBase{
		ID:   ir.NextDeclID(),
		Name: name,
		Loc:  fx.location(node),
		Doc:  fx.docComment(node),
	}
}

// docComment collects the contiguous comment block immediately above a
// declaration node.
func (fx *fileExtractor) docComment(node *ts.Node) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.GrammarName() != "comment" {
		return ""
	}
	// Reference directives are handled separately, never as docs.
	if isReferenceDirective(fx.text(prev)) {
		return ""
	}
	return fx.text(prev)
}
