// Command uisema analyzes component-based UI sources: it extracts
// declarations, resolves symbols across files, and reports lifecycle,
// mutation, performance, and hygiene findings with a project health score.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnana997/uisema/pkg/analyzer"
	mcpserver "github.com/gnana997/uisema/pkg/mcp"
	"github.com/gnana997/uisema/pkg/util"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "analyze":
		os.Exit(runAnalyze(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "version":
		fmt.Printf("uisema %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: uisema <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  analyze <root>   Analyze a project and print the report")
	fmt.Println("  watch <root>     Re-analyze on file changes")
	fmt.Println("  serve <root>     Start the MCP server on stdio")
	fmt.Println("  version          Print version")
	fmt.Println("  help             Show this help message")
	fmt.Println()
	fmt.Println("Flags (analyze):")
	fmt.Println("  --json           Emit the report as JSON")
	fmt.Println("  --log-level      Override log level (debug, info, warn, error)")
}

// setup builds the analyzer and scan options for a project root, applying
// .uisema/config.yaml when present.
func setup(root, logLevel string) (*analyzer.Analyzer, analyzer.ScanOptions, error) {
	cfg, err := loadProjectConfig(root)
	if err != nil {
		return nil, analyzer.ScanOptions{}, fmt.Errorf("failed to load project config: %w", err)
	}

	logger := util.NewLogger(*loggerFrom(cfg, logLevel))
	util.SetDefault(logger)

	a, err := analyzer.NewAnalyzer(analyzerConfigFrom(cfg), logger)
	if err != nil {
		return nil, analyzer.ScanOptions{}, err
	}
	return a, scanOptionsFrom(cfg), nil
}

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "emit the report as JSON")
	logLevel := fs.String("log-level", "", "override log level")
	fs.Parse(args)

	root := fs.Arg(0)
	if root == "" {
		root = "."
	}

	a, scanOpts, err := setup(root, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer a.Close()

	result, err := a.AnalyzeProject(root, scanOpts, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		return 1
	}

	if *jsonOut {
		if err := printReportJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode report: %v\n", err)
			return 1
		}
	} else {
		printReport(os.Stdout, result)
	}

	if result.Report.ErrorCount() > 0 {
		return 1
	}
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	logLevel := fs.String("log-level", "", "override log level")
	fs.Parse(args)

	root := fs.Arg(0)
	if root == "" {
		root = "."
	}

	a, scanOpts, err := setup(root, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer a.Close()

	result, err := a.AnalyzeProject(root, scanOpts, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		return 1
	}
	printReport(os.Stdout, result)

	w, err := analyzer.NewWatcher(a, root, scanOpts, analyzer.DefaultWatchOptions(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create watcher: %v\n", err)
		return 1
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start watcher: %v\n", err)
		return 1
	}
	defer w.Stop()

	fmt.Println("watching for changes (ctrl-c to stop)...")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case result := <-w.Results():
			printReport(os.Stdout, result)
		case <-sigCh:
			return 0
		}
	}
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	logLevel := fs.String("log-level", "", "override log level")
	fs.Parse(args)

	root := fs.Arg(0)
	if root == "" {
		root = "."
	}

	a, scanOpts, err := setup(root, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer a.Close()

	srv := mcpserver.NewServer(a, root, scanOpts, nil)
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}
