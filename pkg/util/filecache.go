package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	mmap "github.com/edsrzf/mmap-go"
)

// FileCache provides fast repeated access to source files via memory
// mapping. Mapped pages are loaded on demand by the OS, so slicing a
// declaration's bytes out of a large file costs O(1) instead of a full
// read. Falls back to os.ReadFile when mapping fails (empty files, exotic
// filesystems).
//
// Thread-safe: parallel readers, exclusive loads.
type FileCache struct {
	mu    sync.RWMutex
	files map[string]*mappedFile

	config FileCacheConfig
	logger *slog.Logger

	stats FileCacheStats
}

type mappedFile struct {
	data     []byte
	mapped   mmap.MMap // nil when the fallback path loaded the file
	size     int64
	fallback bool
}

// FileCacheConfig controls cache limits.
type FileCacheConfig struct {
	// MaxFiles caps the number of cached files; 0 means unlimited.
	MaxFiles int
	// MaxMemoryMB caps total mapped bytes (virtual memory, not RSS);
	// 0 means unlimited.
	MaxMemoryMB int
}

// DefaultFileCacheConfig covers projects up to ~10k source files.
func DefaultFileCacheConfig() FileCacheConfig {
	return FileCacheConfig{
		MaxFiles:    10000,
		MaxMemoryMB: 2048,
	}
}

// FileCacheStats reports cache effectiveness.
type FileCacheStats struct {
	CachedFiles  int
	TotalBytes   int64
	Hits         int64
	Misses       int64
	MmapFailures int64
}

// NewFileCache creates a file cache. A nil logger falls back to
// slog.Default().
func NewFileCache(config FileCacheConfig, logger *slog.Logger) *FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{
		files:  make(map[string]*mappedFile),
		config: config,
		logger: logger,
	}
}

// Get returns the file's bytes, mapping it on first access. The returned
// slice is valid until Close or Evict; callers must not mutate it.
func (fc *FileCache) Get(filePath string) ([]byte, error) {
	fc.mu.RLock()
	mf, ok := fc.files[filePath]
	fc.mu.RUnlock()
	if ok {
		fc.mu.Lock()
		fc.stats.Hits++
		fc.mu.Unlock()
		return mf.data, nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	// Double check: another goroutine may have loaded it.
	if mf, ok = fc.files[filePath]; ok {
		fc.stats.Hits++
		return mf.data, nil
	}
	fc.stats.Misses++

	if fc.config.MaxFiles > 0 && len(fc.files) >= fc.config.MaxFiles {
		return nil, fmt.Errorf("file cache limit reached (%d files)", fc.config.MaxFiles)
	}
	if fc.config.MaxMemoryMB > 0 && fc.stats.TotalBytes >= int64(fc.config.MaxMemoryMB)*1024*1024 {
		return nil, fmt.Errorf("file cache memory limit reached (%d MB)", fc.config.MaxMemoryMB)
	}

	mf, err := fc.load(filePath)
	if err != nil {
		return nil, err
	}
	fc.files[filePath] = mf
	fc.stats.CachedFiles = len(fc.files)
	fc.stats.TotalBytes += mf.size
	return mf.data, nil
}

// load maps the file, falling back to a plain read.
func (fc *FileCache) load(filePath string) (*mappedFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}

	if info.Size() > 0 {
		if m, err := mmap.Map(f, mmap.RDONLY, 0); err == nil {
			return &mappedFile{data: m, mapped: m, size: info.Size()}, nil
		}
		fc.stats.MmapFailures++
		fc.logger.Debug("mmap failed, falling back to read", "path", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return &mappedFile{data: data, size: int64(len(data)), fallback: true}, nil
}

// FetchCode slices a byte range out of a cached file.
func (fc *FileCache) FetchCode(filePath string, startByte, endByte uint32) (string, error) {
	data, err := fc.Get(filePath)
	if err != nil {
		return "", err
	}
	if endByte <= startByte || int(endByte) > len(data) {
		return "", fmt.Errorf("invalid byte range [%d, %d) for %s (size %d)",
			startByte, endByte, filePath, len(data))
	}
	return string(data[startByte:endByte]), nil
}

// Evict unmaps one file, e.g. after a watcher change event.
func (fc *FileCache) Evict(filePath string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	mf, ok := fc.files[filePath]
	if !ok {
		return
	}
	delete(fc.files, filePath)
	fc.stats.CachedFiles = len(fc.files)
	fc.stats.TotalBytes -= mf.size
	if mf.mapped != nil {
		if err := mf.mapped.Unmap(); err != nil {
			fc.logger.Warn("failed to unmap file", "path", filePath, "error", err)
		}
	}
}

// Size returns the number of currently cached files.
func (fc *FileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

// Stats returns a snapshot of the cache metrics.
func (fc *FileCache) Stats() FileCacheStats {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.stats
}

// Close unmaps every cached file. The cache is reusable afterwards (it
// simply starts empty).
func (fc *FileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var firstErr error
	for path, mf := range fc.files {
		if mf.mapped != nil {
			if err := mf.mapped.Unmap(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to unmap %s: %w", path, err)
			}
		}
	}
	fc.files = make(map[string]*mappedFile)
	fc.stats.CachedFiles = 0
	fc.stats.TotalBytes = 0
	return firstErr
}
