package parser

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"lib/widgets/button.ts", LanguageTypeScript},
		{"lib/legacy/util.mts", LanguageTypeScript},
		{"lib/legacy/util.cts", LanguageTypeScript},
		{"lib/vendor/shim.js", LanguageJavaScript},
		{"lib/vendor/shim.mjs", LanguageJavaScript},
		{"LIB/WIDGETS/BUTTON.TS", LanguageTypeScript},
		{"README.md", LanguageUnknown},
		{"noextension", LanguageUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.path), "path %s", tt.path)
	}
}

func TestParse_TypeScript(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	tree, err := m.Parse([]byte("export class Badge {}\n"), LanguageTypeScript)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.GrammarName())
	assert.False(t, root.HasError())
}

func TestParse_UnknownLanguage(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	_, err := m.Parse([]byte("x"), LanguageUnknown)
	require.Error(t, err)
}

func TestParseFile_DetectsByExtension(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	tree, err := m.ParseFile([]byte("const x = 1;\n"), "lib/consts.js")
	require.NoError(t, err)
	tree.Close()

	_, err = m.ParseFile([]byte("anything"), "notes.txt")
	require.Error(t, err)
}

func TestParse_BrokenSourceStillYieldsTree(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	tree, err := m.Parse([]byte("class {{{ !!!"), LanguageTypeScript)
	require.NoError(t, err, "partial trees are still returned")
	defer tree.Close()

	assert.True(t, tree.RootNode().HasError())
}

func TestParse_Concurrent(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	const goroutines = 16
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			source := []byte(fmt.Sprintf("export class Widget%d {}\n", n))
			tree, err := m.Parse(source, LanguageTypeScript)
			if err != nil {
				errs <- err
				return
			}
			tree.Close()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent parse failed: %v", err)
	}

	stats := m.GetStats()
	assert.Equal(t, goroutines, stats.ParsesCalled)
	assert.Greater(t, stats.ParsersCreated, 0)
}
