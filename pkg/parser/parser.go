// Package parser wraps the external tree-sitter grammars behind a pooled,
// thread-safe manager. The analyzer proper never touches grammar setup: it
// hands source bytes in and gets a typed syntax tree back.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/uisema/pkg/util"
)

// Manager manages tree-sitter parsers per language with lazy pool
// initialization and thread-safe concurrent access.
//
// Memory management: the Manager owns the parser pools and must be closed
// via Close(); callers own returned Tree instances and must call
// tree.Close() after use.
//
// Example:
//
//	manager := parser.NewManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.ParseFile([]byte(content), "lib/widgets/button.ts")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	pools map[Language]*parserPool
	mutex sync.RWMutex

	logger *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewManager creates a new parser Manager. A nil logger falls back to
// slog.Default().
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:  make(map[Language]*parserPool),
		logger: logger,
	}
}

// Parse parses source code with the given grammar.
//
// Returns a Tree that MUST be closed by the caller. A tree containing parse
// errors is still returned so the extraction pass can recover per
// declaration from a partial tree.
func (m *Manager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	m.mutex.Lock()
	m.stats.parsesCalled++
	m.mutex.Unlock()

	pool, err := m.getOrCreatePool(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree")
	}
	if tree.RootNode().HasError() {
		m.logger.Warn("parse tree contains errors", "language", lang.String())
	}
	return tree, nil
}

// ParseFile parses a file, detecting the grammar from its path.
func (m *Manager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return m.Parse(source, lang)
}

// Close releases all parser pool resources. The Manager cannot be used
// afterwards.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.logger.Info("closing parser manager", "parses_called", m.stats.parsesCalled)
	for lang, pool := range m.pools {
		if pool != nil {
			pool.close()
			m.logger.Debug("closed parser pool", "language", lang.String())
		}
	}
	m.pools = make(map[Language]*parserPool)
	return nil
}

// getOrCreatePool returns the pool for a language, creating it on first use.
// Double-checked locking keeps the fast path read-only.
func (m *Manager) getOrCreatePool(lang Language) (*parserPool, error) {
	m.mutex.RLock()
	pool, exists := m.pools[lang]
	m.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if pool, exists = m.pools[lang]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(lang)
	if err != nil {
		return nil, err
	}
	poolSize := util.GetOptimalPoolSize()
	pool = newParserPool(lang, langPtr, poolSize, m.logger)
	m.pools[lang] = pool

	m.logger.Debug("created parser pool", "language", lang.String(), "max_size", poolSize)
	return pool, nil
}

// languagePointer returns the tree-sitter grammar pointer for a language.
func languagePointer(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// Stats reports parser usage counters.
type Stats struct {
	ParsersCreated int
	ParsesCalled   int
}

// GetStats returns parser usage statistics.
func (m *Manager) GetStats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	total := 0
	for _, pool := range m.pools {
		total += pool.getCreatedCount()
	}
	return Stats{ParsersCreated: total, ParsesCalled: m.stats.parsesCalled}
}
