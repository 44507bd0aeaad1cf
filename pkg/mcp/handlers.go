package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uisema/pkg/analyzer"
	"github.com/gnana997/uisema/pkg/ir"
)

// analysisSummary is the analyze_project response payload.
type analysisSummary struct {
	Root         string  `json:"root"`
	Files        int     `json:"files"`
	Declarations int     `json:"declarations"`
	Diagnostics  int     `json:"diagnostics"`
	HealthScore  float64 `json:"health_score"`
	FromCache    int     `json:"from_cache"`
	FailedFiles  int     `json:"failed_files"`
	DurationMs   int64   `json:"duration_ms"`
}

// projectSummary is the project_summary response payload.
type projectSummary struct {
	Root            string                     `json:"root"`
	Files           int                        `json:"files"`
	Declarations    int                        `json:"declarations"`
	HealthScore     float64                    `json:"health_score"`
	BySeverity      map[ir.Severity]int        `json:"by_severity"`
	ByCategory      map[string]int             `json:"by_category"`
	FilesWithIssues []string                   `json:"files_with_issues"`
	StatePairs      map[string]string          `json:"state_pairs"`
	Providers       map[string]ir.ProviderKind `json:"providers"`
}

func (s *Server) handleAnalyzeProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := argString(req, "root")
	if root == "" {
		root = s.root
	}

	result, err := s.analyzer.AnalyzeProject(root, s.scanOpts, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	return jsonResult(analysisSummary{
		Root:         result.Root,
		Files:        result.Stats.FilesAnalyzed,
		Declarations: result.Stats.Declarations,
		Diagnostics:  len(result.Report.Diagnostics),
		HealthScore:  result.Report.HealthScore,
		FromCache:    result.Stats.FilesFromCache,
		FailedFiles:  result.Stats.FilesFailed,
		DurationMs:   result.Stats.TotalTimeMs,
	})
}

func (s *Server) handleGetDiagnostics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.latestAnalysis()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	severity := ir.Severity(argString(req, "severity"))
	switch severity {
	case "", ir.SeverityError, ir.SeverityWarning, ir.SeverityInfo, ir.SeverityHint:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown severity: %s", severity)), nil
	}

	diags := result.Report.Filter(severity, argString(req, "category"))

	if file := argString(req, "file"); file != "" {
		filtered := make([]ir.Diagnostic, 0, len(diags))
		for _, d := range diags {
			if d.Location.FilePath == file {
				filtered = append(filtered, d)
			}
		}
		diags = filtered
	}

	return jsonResult(diags)
}

func (s *Server) handleProjectSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.latestAnalysis()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	providers := make(map[string]ir.ProviderKind, len(result.Snapshot.Providers))
	for name, info := range result.Snapshot.Providers {
		providers[name] = info.Kind
	}

	return jsonResult(projectSummary{
		Root:            result.Root,
		Files:           result.Stats.FilesAnalyzed,
		Declarations:    result.Stats.Declarations,
		HealthScore:     result.Report.HealthScore,
		BySeverity:      result.Report.BySeverity,
		ByCategory:      result.Report.ByCategory,
		FilesWithIssues: result.Report.FilesWithIssues(),
		StatePairs:      result.Snapshot.StatePairs,
		Providers:       providers,
	})
}

// latestAnalysis returns the most recent analysis, running the pipeline
// once if no analysis has completed yet.
func (s *Server) latestAnalysis() (*analyzer.ProjectResult, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last != nil {
		return last, nil
	}

	result, err := s.analyzer.AnalyzeProject(s.root, s.scanOpts, nil)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
	return result, nil
}

func argString(req mcp.CallToolRequest, key string) string {
	args := req.GetArguments()
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
