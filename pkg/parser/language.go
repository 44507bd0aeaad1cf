package parser

import (
	"path/filepath"
	"strings"
)

// Language identifies which grammar parses a source file.
//
// The analyzed dialect is TypeScript-flavored; plain JavaScript sources are
// accepted for projects that skip type annotations.
type Language int

const (
	// LanguageTypeScript covers .ts/.mts/.cts sources.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js/.mjs/.cjs sources.
	LanguageJavaScript
	// LanguageUnknown marks an unsupported file extension.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the grammar from a file path.
// Returns LanguageUnknown if the extension is not recognized.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// SupportedExtensions lists the extensions project discovery picks up.
func SupportedExtensions() []string {
	return []string{".ts", ".mts", ".cts", ".js", ".mjs", ".cjs"}
}
