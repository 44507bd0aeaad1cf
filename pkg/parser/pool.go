package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool manages a pool of tree-sitter parsers for one grammar.
//
// Channel-based pooling gives thread-safe acquire/release; parsers are
// created lazily up to maxSize, after which acquire blocks until a parser
// is released.
type parserPool struct {
	pool    chan *ts.Parser
	langPtr unsafe.Pointer
	lang    Language
	maxSize int

	mutex   sync.Mutex
	created int

	logger *slog.Logger
}

func newParserPool(lang Language, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		lang:    lang,
		maxSize: maxSize,
		logger:  logger,
	}
}

// acquire returns a parser from the pool, creating one if the pool is empty
// and below capacity.
func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
		return p.createParserIfNeeded()
	}
}

func (p *parserPool) createParserIfNeeded() (*ts.Parser, error) {
	p.mutex.Lock()
	if p.created < p.maxSize {
		parser := ts.NewParser()
		if parser == nil {
			p.mutex.Unlock()
			return nil, fmt.Errorf("failed to create parser")
		}
		tsLang := ts.NewLanguage(p.langPtr)
		if err := parser.SetLanguage(tsLang); err != nil {
			parser.Close()
			p.mutex.Unlock()
			return nil, fmt.Errorf("failed to set language: %w", err)
		}
		p.created++
		p.logger.Debug("created parser in pool",
			"language", p.lang.String(),
			"pool_size", p.created)
		p.mutex.Unlock()
		return parser, nil
	}

	// Capacity reached; wait for a release.
	p.mutex.Unlock()
	return <-p.pool, nil
}

// release returns a parser to the pool for reuse.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.pool <- parser:
	default:
		// Pool full; close the excess parser rather than leak it.
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser",
			"language", p.lang.String())
	}
}

// close drains and closes every pooled parser. The pool is unusable after.
func (p *parserPool) close() {
	close(p.pool)
	count := 0
	for parser := range p.pool {
		if parser != nil {
			parser.Close()
			count++
		}
	}
	p.logger.Debug("closed parser pool",
		"language", p.lang.String(),
		"parsers_closed", count)
}

func (p *parserPool) getCreatedCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
