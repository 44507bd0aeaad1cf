package mcp

import "github.com/mark3labs/mcp-go/mcp"

func analyzeProjectTool() mcp.Tool {
	return mcp.NewTool("analyze_project",
		mcp.WithDescription("Run the full analysis pipeline over the project and return a summary with the health score"),
		mcp.WithString("root",
			mcp.Description("Project root to analyze; defaults to the server's configured root"),
		),
	)
}

func getDiagnosticsTool() mcp.Tool {
	return mcp.NewTool("get_diagnostics",
		mcp.WithDescription("Return diagnostics from the latest analysis, optionally filtered"),
		mcp.WithString("severity",
			mcp.Description("Filter by severity: error, warning, info, hint"),
		),
		mcp.WithString("category",
			mcp.Description("Filter by category, e.g. lifecycle, set-state, performance, unused-code, common-mistake"),
		),
		mcp.WithString("file",
			mcp.Description("Filter to diagnostics located in the given file path"),
		),
	)
}

func projectSummaryTool() mcp.Tool {
	return mcp.NewTool("project_summary",
		mcp.WithDescription("Return aggregate counts from the latest analysis: files, declarations, diagnostics by severity/category, widget-state pairs, providers"),
	)
}
