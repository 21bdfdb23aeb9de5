// File: pkg/pack/gitignore.go
package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// EnsureGitignoreEntry makes sure the project's .gitignore lists the
// output directory, so artifacts never show up as untracked files. The
// update is guarded by a file lock so concurrent runs against the same
// project cannot append duplicate entries.
func EnsureGitignoreEntry(root, outputDir string, logger *zap.Logger) error {
	entry := strings.TrimSuffix(filepath.ToSlash(outputDir), "/") + "/"

	// The lock file lives inside the output directory, which is itself
	// ignored, so it never shows up in the project.
	lock := flock.New(filepath.Join(root, outputDir, ".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock gitignore update: %w", err)
	}
	defer lock.Unlock()

	gitignorePath := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read gitignore: %w", err)
	}

	bare := strings.TrimSuffix(entry, "/")
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == entry || line == bare {
			logger.Debug("Output directory already listed in gitignore", zap.String("entry", entry))
			return nil
		}
	}

	file, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open gitignore: %w", err)
	}
	defer file.Close()

	// Keep the file well formed when its last line has no trailing
	// newline.
	prefix := ""
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		prefix = "\n"
	}
	if _, err := file.WriteString(prefix + entry + "\n"); err != nil {
		return fmt.Errorf("failed to append to gitignore: %w", err)
	}

	logger.Debug("Added output directory to gitignore", zap.String("entry", entry))
	return nil
}
