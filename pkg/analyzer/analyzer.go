// Package analyzer orchestrates the analysis pipeline over a project tree:
// file discovery, parallel extraction, single-writer resolution, and
// validation. A run produces a ProjectResult; the only failure mode for
// analyzable sources is diagnostics in the report.
package analyzer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uisema/pkg/extractor"
	"github.com/gnana997/uisema/pkg/ir"
	"github.com/gnana997/uisema/pkg/parser"
	"github.com/gnana997/uisema/pkg/resolver"
	"github.com/gnana997/uisema/pkg/util"
	"github.com/gnana997/uisema/pkg/validator"
)

// Analyzer runs the full pipeline over a project root.
//
// Extraction is parallel and per-file; resolution and validation run on a
// single goroutine over the collected files. Per-file extraction results
// are cached by content hash so a re-run only re-extracts changed files.
type Analyzer struct {
	config Config

	parserManager *parser.Manager
	extractor     *extractor.Extractor
	resolver      *resolver.Resolver
	validator     *validator.Validator

	fileCache   *util.FileCache
	resultCache *lru.Cache[string, *cachedExtraction]

	logger *slog.Logger
}

// NewAnalyzer creates an analyzer with its own parser pools and caches.
// Call Close when done to release mapped files and parsers.
func NewAnalyzer(config Config, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxCachedResults <= 0 {
		config.MaxCachedResults = DefaultConfig().MaxCachedResults
	}

	resultCache, err := lru.New[string, *cachedExtraction](config.MaxCachedResults)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	pm := parser.NewManager(logger)

	return &Analyzer{
		config:        config,
		parserManager: pm,
		extractor:     extractor.NewExtractor(pm, nil, logger),
		resolver:      resolver.NewResolver(logger),
		validator:     validator.NewValidator(config.Validator, logger),
		fileCache:     util.NewFileCache(config.FileCache, logger),
		resultCache:   resultCache,
		logger:        logger,
	}, nil
}

// AnalyzeProject discovers sources under root, extracts them in parallel,
// then resolves and validates the project as a whole.
//
// Unreadable files are recorded in Stats.Errors and skipped; files that
// parse at all contribute a declaration file even when extraction of
// individual declarations failed.
func (a *Analyzer) AnalyzeProject(root string, options ScanOptions, progress ProgressCallback) (*ProjectResult, error) {
	startTime := time.Now()
	stats := Stats{StartTime: startTime}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	a.logger.Info("starting project analysis", "root", absRoot)

	discoveryStart := time.Now()
	paths, err := a.discoverFiles(absRoot, options)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(paths)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	extractStart := time.Now()
	files := a.extractParallel(paths, &stats, progress)
	stats.ExtractTimeMs = time.Since(extractStart).Milliseconds()

	for _, f := range files {
		stats.Declarations += len(f.Declarations())
	}

	resolveStart := time.Now()
	snapshot := a.resolver.ResolveAll(files, absRoot)
	stats.ResolveTimeMs = time.Since(resolveStart).Milliseconds()

	validateStart := time.Now()
	report := a.validator.Validate(files, snapshot)
	stats.ValidateTimeMs = time.Since(validateStart).Milliseconds()

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	a.logger.Info("project analysis complete",
		"files", stats.FilesAnalyzed,
		"failed", stats.FilesFailed,
		"from_cache", stats.FilesFromCache,
		"declarations", stats.Declarations,
		"diagnostics", len(report.Diagnostics),
		"health", report.HealthScore,
		"duration_ms", stats.TotalTimeMs)

	return &ProjectResult{
		Root:     absRoot,
		Files:    files,
		Snapshot: snapshot,
		Report:   report,
		Stats:    stats,
	}, nil
}

// discoverFiles walks the root and returns matching source files, sorted.
func (a *Analyzer) discoverFiles(root string, options ScanOptions) ([]string, error) {
	for _, pattern := range options.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.logger.Warn("walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range options.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(options.Include) > 0 {
			matched := false
			for _, pattern := range options.Include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		} else if parser.DetectLanguage(path) == parser.LanguageUnknown {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// extractParallel fans the files out to the worker pool and collects the
// declaration files in path order.
func (a *Analyzer) extractParallel(paths []string, stats *Stats, progress ProgressCallback) []*ir.DeclarationFile {
	total := len(paths)
	if total == 0 {
		return nil
	}

	numWorkers := util.GetOptimalPoolSizeWithOverride(a.config.Workers)
	stats.WorkerCount = numWorkers

	pool := newWorkerPool(numWorkers, a.extractor, a.fileCache, a.resultCache, a.logger)
	pool.start()
	defer pool.stop()

	byPath := make(map[string]*ir.DeclarationFile, total)
	var completed atomic.Int32

	// The collector must run before submission: the submit loop blocks
	// once the jobs channel fills, and only the collector drains results.
	done := make(chan struct{})
	go func() {
		defer close(done)
		remaining := total
		for remaining > 0 {
			select {
			case result := <-pool.results:
				byPath[result.filePath] = result.file
				stats.FilesAnalyzed++
				if result.fromCache {
					stats.FilesFromCache++
				}
				if progress != nil {
					progress(int(completed.Add(1)), total, result.filePath)
				}
			case fileErr := <-pool.errors:
				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++
				a.logger.Warn("file analysis failed",
					"file", fileErr.FilePath,
					"error", fileErr.Err)
				completed.Add(1)
			}
			remaining--
		}
	}()

	for i, path := range paths {
		if err := pool.submit(fileJob{filePath: path, jobID: i}); err != nil {
			a.logger.Error("job submission failed", "file", path, "error", err)
			break
		}
	}
	pool.finishSubmitting()
	<-done

	files := make([]*ir.DeclarationFile, 0, len(byPath))
	for _, path := range paths {
		if f, ok := byPath[path]; ok {
			files = append(files, f)
		}
	}
	return files
}

// Invalidate drops the cached source bytes and extraction result for a
// file so the next run re-reads and re-extracts it.
func (a *Analyzer) Invalidate(filePath string) {
	a.fileCache.Evict(filePath)
	a.resultCache.Remove(filePath)
}

// FileCacheStats exposes the source cache counters.
func (a *Analyzer) FileCacheStats() util.FileCacheStats {
	return a.fileCache.Stats()
}

// Close releases the parser pools and unmaps cached files.
func (a *Analyzer) Close() error {
	err := a.parserManager.Close()
	if cerr := a.fileCache.Close(); err == nil {
		err = cerr
	}
	a.resultCache.Purge()
	return err
}
