package analyzer

import (
	"time"

	"github.com/gnana997/uisema/pkg/ir"
	"github.com/gnana997/uisema/pkg/util"
	"github.com/gnana997/uisema/pkg/validator"
)

// Config configures the project analyzer.
type Config struct {
	// Workers is the number of extraction workers (0 = auto-detect,
	// matching the parser pool size).
	Workers int

	// MaxCachedResults bounds the LRU cache of per-file extraction
	// results used for incremental re-analysis.
	MaxCachedResults int

	// FileCache configures the mmap-backed source cache.
	FileCache util.FileCacheConfig

	// Validator configures the validation rule thresholds.
	Validator validator.Config
}

// DefaultConfig returns the recommended analyzer configuration.
func DefaultConfig() Config {
	return Config{
		Workers:          0,
		MaxCachedResults: 1000,
		FileCache:        util.DefaultFileCacheConfig(),
		Validator:        validator.DefaultConfig(),
	}
}

// ScanOptions configures project file discovery.
type ScanOptions struct {
	// Include patterns in doublestar glob syntax, matched against paths
	// relative to the project root. Empty means all supported extensions.
	Include []string

	// Exclude patterns. A matching directory is skipped entirely.
	Exclude []string
}

// DefaultScanOptions returns discovery options for a conventional project
// layout: sources under lib/, dependency and build output excluded.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.ts",
			"**/*.js",
		},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"build/**",
			"dist/**",
			".uisema/**",
		},
	}
}

// Stats records timing and throughput for one pipeline run.
type Stats struct {
	FilesDiscovered int
	FilesAnalyzed   int
	FilesFailed     int
	FilesFromCache  int

	Declarations int

	WorkerCount int

	DiscoveryTimeMs int64
	ExtractTimeMs   int64
	ResolveTimeMs   int64
	ValidateTimeMs  int64
	TotalTimeMs     int64

	StartTime time.Time
	EndTime   time.Time

	Errors []FileError
}

// FileError records a file that could not be read or parsed at all.
// Partial extraction failures surface as diagnostics instead.
type FileError struct {
	FilePath string
	Err      error
}

// ProjectResult is the outcome of one full pipeline run over a project.
type ProjectResult struct {
	Root     string
	Files    []*ir.DeclarationFile
	Snapshot *ir.ResolutionSnapshot
	Report   *validator.Report
	Stats    Stats
}

// ProgressCallback is invoked as files complete extraction.
type ProgressCallback func(done, total int, filePath string)

// WatchOptions configures watch-mode re-analysis.
type WatchOptions struct {
	// DebounceMs groups rapid changes into a single re-analysis.
	// Default: 200ms.
	DebounceMs int
}

// DefaultWatchOptions returns the recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{DebounceMs: 200}
}
