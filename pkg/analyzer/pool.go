package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uisema/pkg/extractor"
	"github.com/gnana997/uisema/pkg/ir"
	"github.com/gnana997/uisema/pkg/util"
)

// fileJob is one file queued for extraction.
type fileJob struct {
	filePath string
	jobID    int
}

// fileResult is the extraction outcome for one file.
type fileResult struct {
	filePath  string
	file      *ir.DeclarationFile
	fromCache bool
	jobID     int
}

// cachedExtraction pairs an extracted file with the content hash it was
// extracted from, so watch-mode re-analysis can skip unchanged files.
type cachedExtraction struct {
	hash string
	file *ir.DeclarationFile
}

// workerPool runs file extraction on a fixed set of goroutines fed by a
// buffered jobs channel. The worker count must match the parser pool size
// or workers block waiting for parsers.
type workerPool struct {
	numWorkers int
	jobs       chan fileJob
	results    chan fileResult
	errors     chan FileError
	wg         sync.WaitGroup

	extractor   *extractor.Extractor
	fileCache   *util.FileCache
	resultCache *lru.Cache[string, *cachedExtraction]
	logger      *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
	cacheHits     atomic.Int64
}

func newWorkerPool(
	numWorkers int,
	ex *extractor.Extractor,
	fileCache *util.FileCache,
	resultCache *lru.Cache[string, *cachedExtraction],
	logger *slog.Logger,
) *workerPool {
	if numWorkers == 0 {
		numWorkers = util.GetOptimalPoolSize()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &workerPool{
		numWorkers:  numWorkers,
		jobs:        make(chan fileJob, numWorkers*2),
		results:     make(chan fileResult, numWorkers),
		errors:      make(chan FileError, numWorkers),
		extractor:   ex,
		fileCache:   fileCache,
		resultCache: resultCache,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (wp *workerPool) start() {
	if !wp.started.CompareAndSwap(false, true) {
		return
	}
	wp.logger.Debug("starting extraction workers", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *workerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *workerPool) processJob(workerID int, job fileJob) {
	content, err := wp.fileCache.Get(job.filePath)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{
			FilePath: job.filePath,
			Err:      fmt.Errorf("failed to read file: %w", err),
		}
		return
	}

	hash := util.ContentHash(content)

	if cached, ok := wp.resultCache.Get(job.filePath); ok && cached.hash == hash {
		wp.cacheHits.Add(1)
		wp.jobsProcessed.Add(1)
		wp.results <- fileResult{
			filePath:  job.filePath,
			file:      cached.file,
			fromCache: true,
			jobID:     job.jobID,
		}
		return
	}

	file, err := wp.extractor.ExtractFile(job.filePath, content)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{
			FilePath: job.filePath,
			Err:      fmt.Errorf("extraction failed: %w", err),
		}
		return
	}

	wp.resultCache.Add(job.filePath, &cachedExtraction{hash: hash, file: file})

	wp.jobsProcessed.Add(1)
	wp.results <- fileResult{
		filePath: job.filePath,
		file:     file,
		jobID:    job.jobID,
	}
}

// submit enqueues a job. Blocks while the jobs channel is full.
func (wp *workerPool) submit(job fileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// finishSubmitting closes the jobs channel so workers drain and exit.
// Idempotent.
func (wp *workerPool) finishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// stop shuts the pool down: no new jobs, wait for in-flight work, close
// the output channels. Idempotent.
func (wp *workerPool) stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()
	close(wp.results)
	close(wp.errors)
	wp.cancel()

	wp.logger.Debug("extraction workers stopped",
		"processed", wp.jobsProcessed.Load(),
		"failed", wp.jobsFailed.Load(),
		"cache_hits", wp.cacheHits.Load())
}
