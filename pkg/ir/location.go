// Package ir defines the analyzer's typed intermediate representation:
// declarations, expressions, statements, type references, source locations,
// diagnostics, and the cross-file resolution snapshot.
//
// The IR is distinct from the raw tree-sitter syntax tree. It is created once
// by the extraction pass, annotated in place by the resolution pass, and read
// by the validation pass. Nodes carry identity, location, and construction
// helpers only; all behavior lives in the passes.
package ir

import "fmt"

// Location represents a position in source code.
//
// Uses 1-based line/column numbers for LSP compatibility and a 0-based byte
// offset plus length for O(1) code slicing: sourceCode[Offset : Offset+Length].
type Location struct {
	FilePath string `json:"file_path"`
	Line     uint32 `json:"line"`   // 1-based line number
	Column   uint32 `json:"column"` // 1-based column number
	Offset   uint32 `json:"offset"` // 0-based byte offset (inclusive)
	Length   uint32 `json:"length"` // span length in bytes
}

// String renders the location as file:line:column.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.Line, l.Column)
}

// IsZero reports whether the location carries no position information.
func (l Location) IsZero() bool {
	return l.FilePath == "" && l.Line == 0 && l.Column == 0
}
