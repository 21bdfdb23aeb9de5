package pack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newProjectWithOutputDir prepares a root whose output directory
// already exists, which is what Run guarantees before the gitignore
// update happens.
func newProjectWithOutputDir(t *testing.T, outputDir string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, outputDir), 0o755))
	return root
}

func readGitignore(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	return string(data)
}

func TestEnsureGitignoreEntryCreatesFile(t *testing.T) {
	root := newProjectWithOutputDir(t, ".promptpack")

	require.NoError(t, EnsureGitignoreEntry(root, ".promptpack", zap.NewNop()))
	assert.Equal(t, ".promptpack/\n", readGitignore(t, root))
}

func TestEnsureGitignoreEntryAppends(t *testing.T) {
	root := newProjectWithOutputDir(t, ".promptpack")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("node_modules/\n*.log\n"), 0o644))

	require.NoError(t, EnsureGitignoreEntry(root, ".promptpack", zap.NewNop()))
	assert.Equal(t, "node_modules/\n*.log\n.promptpack/\n", readGitignore(t, root))
}

func TestEnsureGitignoreEntryRepairsMissingTrailingNewline(t *testing.T) {
	root := newProjectWithOutputDir(t, ".promptpack")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("node_modules"), 0o644))

	require.NoError(t, EnsureGitignoreEntry(root, ".promptpack", zap.NewNop()))
	assert.Equal(t, "node_modules\n.promptpack/\n", readGitignore(t, root))
}

func TestEnsureGitignoreEntryIsIdempotent(t *testing.T) {
	root := newProjectWithOutputDir(t, ".promptpack")

	for i := 0; i < 3; i++ {
		require.NoError(t, EnsureGitignoreEntry(root, ".promptpack", zap.NewNop()))
	}
	assert.Equal(t, 1, strings.Count(readGitignore(t, root), ".promptpack/"))
}

func TestEnsureGitignoreEntryAcceptsSlashlessExisting(t *testing.T) {
	root := newProjectWithOutputDir(t, ".promptpack")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(".promptpack\n"), 0o644))

	require.NoError(t, EnsureGitignoreEntry(root, ".promptpack", zap.NewNop()))
	assert.Equal(t, ".promptpack\n", readGitignore(t, root))
}

func TestEnsureGitignoreEntryWithNestedOutputDir(t *testing.T) {
	root := newProjectWithOutputDir(t, filepath.Join("out", "pack"))

	require.NoError(t, EnsureGitignoreEntry(root, "out/pack", zap.NewNop()))
	assert.Equal(t, "out/pack/\n", readGitignore(t, root))
}
