package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uisema/pkg/ir"
)

const cartSource = `export class Cart {
  readonly items: List = [];

  get total(): double {
    return 0.0;
  }
}
`

const mainSource = `import { Cart } from 'package:shop/models/cart.ts';

export class CheckoutWidget extends StatelessWidget {
  readonly cart: Cart;

  build(context: BuildContext): Widget {
    return new Text({ data: 'checkout' });
  }
}
`

func setupAnalyzer(t *testing.T) *Analyzer {
	t.Helper()

	a, err := NewAnalyzer(DefaultConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

// writeProject lays the given sources out under a temp root and returns it.
// Keys are paths relative to the root, e.g. "lib/main.ts".
func writeProject(t *testing.T, sources map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, src := range sources {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return root
}

func TestAnalyzeProject_Basic(t *testing.T) {
	a := setupAnalyzer(t)
	root := writeProject(t, map[string]string{
		"lib/main.ts":        mainSource,
		"lib/models/cart.ts": cartSource,
	})

	result, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesAnalyzed)
	assert.Equal(t, 0, result.Stats.FilesFailed)
	assert.Equal(t, 2, result.Stats.Declarations)

	require.Len(t, result.Files, 2)
	// Discovery sorts, so main.ts precedes models/cart.ts.
	assert.Equal(t, "main", result.Files[0].PackageName)
	assert.Equal(t, "models.cart", result.Files[1].PackageName)

	require.NotNil(t, result.Snapshot)
	assert.Contains(t, result.Snapshot.Registry, "main.CheckoutWidget")
	assert.Contains(t, result.Snapshot.Registry, "models.cart.Cart")
	for _, f := range result.Files {
		assert.Same(t, result.Snapshot, f.Resolution)
	}

	require.NotNil(t, result.Report)
	assert.Equal(t, 2, result.Report.TotalFiles)
	assert.GreaterOrEqual(t, result.Report.HealthScore, 0.0)
	assert.LessOrEqual(t, result.Report.HealthScore, 100.0)

	t.Logf("health=%.1f diagnostics=%d", result.Report.HealthScore, len(result.Report.Diagnostics))
}

func TestAnalyzeProject_ExcludedAndUnsupportedFiles(t *testing.T) {
	a := setupAnalyzer(t)
	root := writeProject(t, map[string]string{
		"lib/main.ts":                  mainSource,
		"lib/models/cart.ts":           cartSource,
		"lib/notes.md":                 "# not source\n",
		"node_modules/pkg/index.ts":    "export class Vendored {}\n",
		"build/generated/artifacts.ts": "export class Generated {}\n",
	})

	result, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.NotContains(t, result.Snapshot.Registry, "node_modules.pkg.index.Vendored")
}

func TestAnalyzeProject_EmptyProject(t *testing.T) {
	a := setupAnalyzer(t)
	root := t.TempDir()

	result, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stats.FilesDiscovered)
	assert.Empty(t, result.Files)
	assert.Equal(t, 100.0, result.Report.HealthScore)
}

func TestAnalyzeProject_InvalidPattern(t *testing.T) {
	a := setupAnalyzer(t)
	root := t.TempDir()

	_, err := a.AnalyzeProject(root, ScanOptions{Include: []string{"[broken"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")
}

func TestAnalyzeProject_SecondRunHitsCache(t *testing.T) {
	a := setupAnalyzer(t)
	root := writeProject(t, map[string]string{
		"lib/main.ts":        mainSource,
		"lib/models/cart.ts": cartSource,
	})

	first, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Stats.FilesFromCache)

	second, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Stats.FilesFromCache)

	// Re-analysis of unchanged sources reports identical findings.
	assert.Equal(t, len(first.Report.Diagnostics), len(second.Report.Diagnostics))
	assert.Equal(t, first.Report.HealthScore, second.Report.HealthScore)
	assert.Equal(t, len(first.Snapshot.Registry), len(second.Snapshot.Registry))
}

func TestAnalyzeProject_InvalidatePicksUpEdits(t *testing.T) {
	a := setupAnalyzer(t)
	root := writeProject(t, map[string]string{
		"lib/models/cart.ts": cartSource,
	})

	first, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Contains(t, first.Snapshot.Registry, "models.cart.Cart")

	path := filepath.Join(root, "lib", "models", "cart.ts")
	a.Invalidate(path)
	require.NoError(t, os.WriteFile(path, []byte("export class Basket {\n  readonly items: List = [];\n}\n"), 0o644))

	second, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Stats.FilesFromCache)
	assert.Contains(t, second.Snapshot.Registry, "models.cart.Basket")
	assert.NotContains(t, second.Snapshot.Registry, "models.cart.Cart")
}

func TestAnalyzeProject_RemovedFileUnresolvesCachedTypes(t *testing.T) {
	a := setupAnalyzer(t)
	root := writeProject(t, map[string]string{
		"lib/main.ts":        mainSource,
		"lib/models/cart.ts": cartSource,
	})

	first, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)
	for _, d := range first.Snapshot.Issues {
		if d.Category == ir.CategoryUnresolvedType {
			assert.NotContains(t, d.Message, "Cart")
		}
	}

	// Deleting the defining file must surface even though main.ts is
	// replayed from the extraction cache with last run's resolution marks.
	cartPath := filepath.Join(root, "lib", "models", "cart.ts")
	a.Invalidate(cartPath)
	require.NoError(t, os.Remove(cartPath))

	second, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats.FilesFromCache)

	var unresolved []ir.Diagnostic
	for _, d := range second.Snapshot.Issues {
		if d.Category == ir.CategoryUnresolvedType && strings.Contains(d.Message, "Cart") {
			unresolved = append(unresolved, d)
		}
	}
	require.Len(t, unresolved, 1)

	require.Len(t, second.Files, 1)
	cls := second.Files[0].ClassNamed("CheckoutWidget")
	require.NotNil(t, cls)
	assert.False(t, cls.FieldNamed("cart").DeclType.Resolved)
}

func TestAnalyzeProject_ProgressCallback(t *testing.T) {
	a := setupAnalyzer(t)
	root := writeProject(t, map[string]string{
		"lib/main.ts":        mainSource,
		"lib/models/cart.ts": cartSource,
	})

	var calls atomic.Int32
	var lastDone atomic.Int32
	_, err := a.AnalyzeProject(root, DefaultScanOptions(), func(done, total int, filePath string) {
		calls.Add(1)
		lastDone.Store(int32(done))
		assert.Equal(t, 2, total)
		assert.NotEmpty(t, filePath)
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(2), lastDone.Load())
}

func TestWatcher_ReanalyzesOnWrite(t *testing.T) {
	a := setupAnalyzer(t)
	root := writeProject(t, map[string]string{
		"lib/models/cart.ts": cartSource,
	})

	_, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	w, err := NewWatcher(a, root, DefaultScanOptions(), WatchOptions{DebounceMs: 50}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(root, "lib", "models", "cart.ts")
	require.NoError(t, os.WriteFile(path, []byte("export class Basket {\n  readonly items: List = [];\n}\n"), 0o644))

	select {
	case result := <-w.Results():
		assert.Contains(t, result.Snapshot.Registry, "models.cart.Basket")
		assert.NotContains(t, result.Snapshot.Registry, "models.cart.Cart")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for re-analysis")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	a := setupAnalyzer(t)
	root := t.TempDir()

	w, err := NewWatcher(a, root, DefaultScanOptions(), DefaultWatchOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func BenchmarkAnalyzeProject(b *testing.B) {
	a, err := NewAnalyzer(DefaultConfig(), nil)
	require.NoError(b, err)
	defer a.Close()

	root := b.TempDir()
	require.NoError(b, os.MkdirAll(filepath.Join(root, "lib", "models"), 0o755))
	require.NoError(b, os.WriteFile(filepath.Join(root, "lib", "main.ts"), []byte(mainSource), 0o644))
	require.NoError(b, os.WriteFile(filepath.Join(root, "lib", "models", "cart.ts"), []byte(cartSource), 0o644))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := a.AnalyzeProject(root, DefaultScanOptions(), nil)
		if err != nil {
			b.Fatal(err)
		}
	}
}
