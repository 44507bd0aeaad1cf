package util

import "runtime"

// GetOptimalPoolSize returns the pool size shared by the parser pools and
// the extraction worker pool. The two MUST match, or workers block waiting
// for parsers.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32). Two parsers per core
// keeps cores busy during CGO-heavy parse calls; the floor guarantees some
// parallelism on small machines and the cap bounds memory on big ones.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns the override when positive,
// otherwise the computed optimal size. Used for testing and tuning.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
