package pack

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptpack/pkg/ignore"
)

// writeProjectFile creates rel (slash form) under root with the given
// content, making parent directories as needed.
func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// matcherFunc adapts a plain function to the PathMatcher interface.
type matcherFunc func(relPath string) bool

func (f matcherFunc) Matches(relPath string) bool { return f(relPath) }

var matchNothing = matcherFunc(func(string) bool { return false })

// recordingMatcher remembers every probe it receives.
type recordingMatcher struct {
	inner  PathMatcher
	probes []string
}

func (m *recordingMatcher) Matches(relPath string) bool {
	m.probes = append(m.probes, relPath)
	return m.inner.Matches(relPath)
}

func relPaths(candidates []CandidateFile) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.RelPath)
	}
	return out
}

func TestEnumerateCollectsRegularFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "main.go", "package main\n")
	writeProjectFile(t, root, "src/app.go", "package src\n")
	writeProjectFile(t, root, "docs/readme.md", "# readme\n")

	candidates, err := Enumerate(context.Background(), root, matchNothing, 0, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"docs/readme.md", "main.go", "src/app.go"}, relPaths(candidates))
	for _, c := range candidates {
		assert.Equal(t, filepath.Join(root, filepath.FromSlash(c.RelPath)), c.AbsPath)
	}
}

func TestEnumeratePrunesIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/app.go", "package src\n")
	writeProjectFile(t, root, "node_modules/left-pad/index.js", "module.exports = 1\n")

	matcher := &recordingMatcher{inner: ignore.Compile(ignore.DefaultPatterns(), "")}
	candidates, err := Enumerate(context.Background(), root, matcher, 0, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"src/app.go"}, relPaths(candidates))
	// Pruned, not just filtered: nothing below node_modules is probed.
	assert.Contains(t, matcher.probes, "node_modules/")
	assert.NotContains(t, matcher.probes, "node_modules/left-pad/")
	assert.NotContains(t, matcher.probes, "node_modules/left-pad/index.js")
}

func TestEnumerateSkipsIgnoredFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "app.go", "package main\n")
	writeProjectFile(t, root, "logo.png", "not really a png")

	candidates, err := Enumerate(context.Background(), root, ignore.Compile(ignore.DefaultPatterns(), ""), 0, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"app.go"}, relPaths(candidates))
}

func TestEnumerateAppliesSizeCap(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "small.txt", "hello\n")
	writeProjectFile(t, root, "big.txt", strings.Repeat("x", 2048))

	t.Run("cap skips oversized files", func(t *testing.T) {
		candidates, err := Enumerate(context.Background(), root, matchNothing, 1, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, []string{"small.txt"}, relPaths(candidates))
	})

	t.Run("zero cap keeps everything", func(t *testing.T) {
		candidates, err := Enumerate(context.Background(), root, matchNothing, 0, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, []string{"big.txt", "small.txt"}, relPaths(candidates))
	})
}

func TestEnumerateSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeProjectFile(t, root, "real.txt", "real\n")
	writeProjectFile(t, outside, "secret.txt", "secret\n")

	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linked-dir")))

	candidates, err := Enumerate(context.Background(), root, matchNothing, 0, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"real.txt"}, relPaths(candidates))
}

func TestEnumerateRejectsBadRoot(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Enumerate(context.Background(), filepath.Join(t.TempDir(), "missing"), matchNothing, 0, zap.NewNop())
		require.Error(t, err)
		assert.True(t, IsKind(err, KindEnumeration))
	})

	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, "file.txt", "x")

		_, err := Enumerate(context.Background(), filepath.Join(root, "file.txt"), matchNothing, 0, zap.NewNop())
		require.Error(t, err)
		assert.True(t, IsKind(err, KindEnumeration))
	})
}

func TestEnumerateHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Enumerate(ctx, root, matchNothing, 0, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
