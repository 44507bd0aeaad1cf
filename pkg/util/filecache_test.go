// Tests for the mmap-backed FileCache.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestFiles creates temporary source files for cache testing.
func setupTestFiles(t *testing.T) (dir string, files map[string]string) {
	t.Helper()

	dir = t.TempDir()
	files = make(map[string]string)

	tsCode := `export class Calculator {
  add(a: number, b: number): number {
    return a + b;
  }
}`
	tsPath := filepath.Join(dir, "calc.ts")
	require.NoError(t, os.WriteFile(tsPath, []byte(tsCode), 0644))
	files["calc.ts"] = tsPath

	jsCode := `function greet(name) {
  return "Hello " + name;
}`
	jsPath := filepath.Join(dir, "greet.js")
	require.NoError(t, os.WriteFile(jsPath, []byte(jsCode), 0644))
	files["greet.js"] = jsPath

	emptyPath := filepath.Join(dir, "empty.ts")
	require.NoError(t, os.WriteFile(emptyPath, []byte{}, 0644))
	files["empty.ts"] = emptyPath

	largeCode := strings.Repeat("// comment line\n", 2000)
	largePath := filepath.Join(dir, "large.js")
	require.NoError(t, os.WriteFile(largePath, []byte(largeCode), 0644))
	files["large.js"] = largePath

	return dir, files
}

// TestFileCache_BasicOperations verifies Get, FetchCode, Size and Stats.
func TestFileCache_BasicOperations(t *testing.T) {
	_, files := setupTestFiles(t)
	tsPath := files["calc.ts"]

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	assert.Equal(t, 0, cache.Size(), "new cache should be empty")

	data, err := cache.Get(tsPath)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, 1, cache.Size())

	// Second access is served from the cache.
	data2, err := cache.Get(tsPath)
	require.NoError(t, err)
	assert.Equal(t, data, data2)

	code, err := cache.FetchCode(tsPath, 13, 23)
	require.NoError(t, err)
	assert.Equal(t, "Calculator", code)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.CachedFiles)
	assert.Equal(t, int64(1), stats.Misses)
	assert.GreaterOrEqual(t, stats.Hits, int64(1))
	assert.Greater(t, stats.TotalBytes, int64(0))

	require.NoError(t, cache.Close())
	assert.Equal(t, 0, cache.Size())

	t.Logf("cache stats: hits=%d misses=%d bytes=%d",
		stats.Hits, stats.Misses, stats.TotalBytes)
}

// TestFileCache_Limits_MaxFiles verifies MaxFiles enforcement.
func TestFileCache_Limits_MaxFiles(t *testing.T) {
	dir := t.TempDir()

	cache := NewFileCache(FileCacheConfig{MaxFiles: 2}, nil)
	defer cache.Close()

	paths := make([]string, 3)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("file%d.ts", i))
		require.NoError(t, os.WriteFile(paths[i], []byte(fmt.Sprintf("// %d", i)), 0644))
	}

	_, err := cache.Get(paths[0])
	require.NoError(t, err)
	_, err = cache.Get(paths[1])
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Size())

	_, err = cache.Get(paths[2])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file cache limit reached")
	assert.Equal(t, 2, cache.Size())
}

// TestFileCache_Limits_MaxMemoryMB verifies the mapped-bytes cap.
func TestFileCache_Limits_MaxMemoryMB(t *testing.T) {
	dir := t.TempDir()

	cache := NewFileCache(FileCacheConfig{MaxMemoryMB: 1}, nil)
	defer cache.Close()

	bigPath := filepath.Join(dir, "big.ts")
	require.NoError(t, os.WriteFile(bigPath, []byte(strings.Repeat("x", 1<<20)), 0644))
	_, err := cache.Get(bigPath)
	require.NoError(t, err)

	nextPath := filepath.Join(dir, "next.ts")
	require.NoError(t, os.WriteFile(nextPath, []byte("const x = 1;"), 0644))
	_, err = cache.Get(nextPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory limit reached")
}

// TestFileCache_Unlimited verifies a zero-limit cache holds many files.
func TestFileCache_Unlimited(t *testing.T) {
	dir := t.TempDir()

	cache := NewFileCache(FileCacheConfig{}, nil)
	defer cache.Close()

	numFiles := 100
	for i := 0; i < numFiles; i++ {
		path := filepath.Join(dir, fmt.Sprintf("file%d.ts", i))
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("// file %d", i)), 0644))
		_, err := cache.Get(path)
		require.NoError(t, err)
	}

	assert.Equal(t, numFiles, cache.Size())
	assert.Equal(t, int64(numFiles), cache.Stats().Misses)
}

// TestFileCache_ConcurrentAccess verifies thread-safe reads.
func TestFileCache_ConcurrentAccess(t *testing.T) {
	_, files := setupTestFiles(t)
	tsPath := files["calc.ts"]
	jsPath := files["greet.js"]

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	numGoroutines := 100
	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			path := tsPath
			if id%2 == 0 {
				path = jsPath
			}

			data, err := cache.Get(path)
			if err != nil {
				errs <- fmt.Errorf("goroutine %d: %w", id, err)
				return
			}
			if len(data) > 10 {
				if _, err := cache.FetchCode(path, 0, 10); err != nil {
					errs <- fmt.Errorf("goroutine %d: %w", id, err)
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	stats := cache.Stats()
	assert.Equal(t, 2, stats.CachedFiles)
	assert.Greater(t, stats.Hits, int64(90))

	t.Logf("concurrent access: %d goroutines, %d hits, %d misses",
		numGoroutines, stats.Hits, stats.Misses)
}

// TestFileCache_ByteRangeValidation verifies FetchCode range checks.
func TestFileCache_ByteRangeValidation(t *testing.T) {
	_, files := setupTestFiles(t)
	tsPath := files["calc.ts"]

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	data, err := cache.Get(tsPath)
	require.NoError(t, err)
	fileSize := uint32(len(data))

	tests := []struct {
		name      string
		start     uint32
		end       uint32
		shouldErr bool
	}{
		{name: "valid range", start: 0, end: 10},
		{name: "end before start", start: 10, end: 5, shouldErr: true},
		{name: "end equals start", start: 10, end: 10, shouldErr: true},
		{name: "end beyond file size", start: 0, end: fileSize + 100, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cache.FetchCode(tsPath, tt.start, tt.end)
			if tt.shouldErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid byte range")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestFileCache_EmptyFile verifies the read fallback for empty files.
func TestFileCache_EmptyFile(t *testing.T) {
	_, files := setupTestFiles(t)
	emptyPath := files["empty.ts"]

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	data, err := cache.Get(emptyPath)
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = cache.FetchCode(emptyPath, 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid byte range")
}

// TestFileCache_Evict verifies eviction unmaps a single file.
func TestFileCache_Evict(t *testing.T) {
	_, files := setupTestFiles(t)
	tsPath := files["calc.ts"]

	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	_, err := cache.Get(tsPath)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Size())

	cache.Evict(tsPath)
	assert.Equal(t, 0, cache.Size())
	assert.Equal(t, int64(0), cache.Stats().TotalBytes)

	// Evicting twice is a no-op.
	cache.Evict(tsPath)

	// The next Get reloads from disk.
	_, err = cache.Get(tsPath)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cache.Stats().Misses)
}

// TestFileCache_CloseIsReusable verifies the cache starts empty after Close.
func TestFileCache_CloseIsReusable(t *testing.T) {
	_, files := setupTestFiles(t)
	tsPath := files["calc.ts"]

	cache := NewFileCache(DefaultFileCacheConfig(), nil)

	_, err := cache.Get(tsPath)
	require.NoError(t, err)
	require.NoError(t, cache.Close())
	assert.Equal(t, 0, cache.Size())

	_, err = cache.Get(tsPath)
	require.NoError(t, err)
	require.NoError(t, cache.Close())
}

// TestFileCache_FileNotFound verifies error handling for missing files.
func TestFileCache_FileNotFound(t *testing.T) {
	cache := NewFileCache(DefaultFileCacheConfig(), nil)
	defer cache.Close()

	_, err := cache.Get("/nonexistent/path/file.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")

	_, err = cache.FetchCode("/nonexistent/path/file.ts", 0, 10)
	require.Error(t, err)
}

// BenchmarkFileCache_FetchCode measures repeated range extraction from a
// mapped file against re-reading it from disk.
func BenchmarkFileCache_FetchCode(b *testing.B) {
	dir := b.TempDir()
	content := strings.Repeat("// comment line\n", 4000)
	path := filepath.Join(dir, "large.js")
	require.NoError(b, os.WriteFile(path, []byte(content), 0644))

	b.Run("FileCache", func(b *testing.B) {
		cache := NewFileCache(DefaultFileCacheConfig(), nil)
		defer cache.Close()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			offset := uint32((i * 512) % (len(content) - 512))
			if _, err := cache.FetchCode(path, offset, offset+512); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("ReadFile", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			offset := (i * 512) % (len(content) - 512)
			data, err := os.ReadFile(path)
			if err != nil {
				b.Fatal(err)
			}
			_ = string(data[offset : offset+512])
		}
	})
}
