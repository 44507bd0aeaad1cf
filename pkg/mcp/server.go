// Package mcp exposes a completed project analysis over the Model Context
// Protocol so editor agents can query diagnostics without re-running the
// pipeline themselves.
package mcp

import (
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uisema/pkg/analyzer"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server, exposing analysis and diagnostic
// query tools over stdio.
type Server struct {
	mcpServer *server.MCPServer
	analyzer  *analyzer.Analyzer
	root      string
	scanOpts  analyzer.ScanOptions
	logger    *slog.Logger

	// last is the most recent completed analysis, shared by the query
	// tools. analyze_project replaces it wholesale.
	mu   sync.RWMutex
	last *analyzer.ProjectResult
}

// NewServer creates an MCP server over the given analyzer and project root.
func NewServer(a *analyzer.Analyzer, root string, scanOpts analyzer.ScanOptions, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		analyzer: a,
		root:     root,
		scanOpts: scanOpts,
		logger:   logger,
	}

	s.mcpServer = server.NewMCPServer(
		"uisema",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: analyzeProjectTool(), Handler: s.handleAnalyzeProject},
		server.ServerTool{Tool: getDiagnosticsTool(), Handler: s.handleGetDiagnostics},
		server.ServerTool{Tool: projectSummaryTool(), Handler: s.handleProjectSummary},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
