// File: pkg/pack/enumerate.go
package pack

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// CandidateFile is a regular file discovered under the project root.
type CandidateFile struct {
	AbsPath string // Absolute path of the file on disk.
	RelPath string // Slash-form path relative to the project root.
}

// PathMatcher reports whether a project-relative path is ignored.
// Directory probes carry a trailing slash.
type PathMatcher interface {
	Matches(relPath string) bool
}

// Enumerate walks the project root and returns every regular file that
// survives the ignore matcher and the size cap, in walk order. Ignored
// directories are pruned without descending into them. Entries that
// cannot be read are logged and skipped; only a root that cannot be
// walked at all fails the enumeration.
func Enumerate(ctx context.Context, root string, matcher PathMatcher, maxFileSizeKB int, logger *zap.Logger) ([]CandidateFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &Error{Kind: KindEnumeration, Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &Error{Kind: KindEnumeration, Path: root, Err: fmt.Errorf("not a directory")}
	}

	logger.Debug("Starting enumeration", zap.String("root", root), zap.Int("maxFileSizeKB", maxFileSizeKB))

	var candidates []CandidateFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn("Error accessing path during enumeration", zap.String("path", path), zap.Error(err))
			return nil // Skip paths that cause errors
		}
		if path == root {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			logger.Warn("Failed to resolve relative path", zap.String("path", path), zap.Error(relErr))
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if matcher.Matches(relPath + "/") {
				logger.Debug("Skipping ignored directory", zap.String("directory", relPath))
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks, sockets, and other irregular entries are never
		// followed or read.
		if !d.Type().IsRegular() {
			logger.Debug("Skipping non-regular file", zap.String("filePath", relPath))
			return nil
		}

		if matcher.Matches(relPath) {
			logger.Debug("Skipping ignored file", zap.String("filePath", relPath))
			return nil
		}

		if maxFileSizeKB > 0 {
			fileInfo, infoErr := d.Info()
			if infoErr != nil {
				logger.Warn("Failed to get file info during enumeration", zap.String("filePath", relPath), zap.Error(infoErr))
				return nil
			}
			if fileInfo.Size() > int64(maxFileSizeKB)*1024 {
				logger.Debug("Skipping file due to size limit",
					zap.String("filePath", relPath),
					zap.Int64("sizeBytes", fileInfo.Size()))
				return nil
			}
		}

		candidates = append(candidates, CandidateFile{AbsPath: path, RelPath: relPath})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Kind: KindEnumeration, Path: root, Err: err}
	}

	logger.Debug("Completed enumeration", zap.Int("candidateCount", len(candidates)))
	return candidates, nil
}
