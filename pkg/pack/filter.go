// File: pkg/pack/filter.go
package pack

import (
	"strings"

	"go.uber.org/zap"
)

// Select applies the include and exclude filters to the enumerated
// candidates and returns the survivors in their original order.
//
// Exclusions always win. With both specs empty every candidate is
// kept; with only exclusions everything not excluded is kept; once any
// inclusion is given, a candidate must match one of the include rules
// to survive.
func Select(candidates []CandidateFile, include, exclude FilterSpec, logger *zap.Logger) []CandidateFile {
	excludedFiles := make(map[string]struct{}, len(exclude.Files))
	for _, file := range exclude.Files {
		excludedFiles[file] = struct{}{}
	}

	selected := make([]CandidateFile, 0, len(candidates))
	for _, candidate := range candidates {
		relPath := candidate.RelPath

		if _, ok := excludedFiles[relPath]; ok {
			logger.Debug("Excluding file by path", zap.String("filePath", relPath))
			continue
		}
		if ext := matchingExtension(relPath, exclude.Extensions); ext != "" {
			logger.Debug("Excluding file by extension", zap.String("filePath", relPath), zap.String("extension", ext))
			continue
		}
		if folder := containingFolder(relPath, exclude.Folders); folder != "" {
			logger.Debug("Excluding file by folder", zap.String("filePath", relPath), zap.String("folder", folder))
			continue
		}

		if include.Empty() || includeMatches(relPath, include) {
			selected = append(selected, candidate)
			continue
		}
		logger.Debug("Skipping file not matched by include filters", zap.String("filePath", relPath))
	}

	logger.Debug("Completed file selection",
		zap.Int("candidateCount", len(candidates)),
		zap.Int("selectedCount", len(selected)))
	return selected
}

// includeMatches reports whether relPath matches any include rule.
func includeMatches(relPath string, include FilterSpec) bool {
	for _, file := range include.Files {
		if relPath == file {
			return true
		}
	}
	if matchingExtension(relPath, include.Extensions) != "" {
		return true
	}
	return containingFolder(relPath, include.Folders) != ""
}

// matchingExtension returns the first extension in exts that relPath
// ends with, or "" when none match.
func matchingExtension(relPath string, exts []string) string {
	for _, ext := range exts {
		if strings.HasSuffix(relPath, ext) {
			return ext
		}
	}
	return ""
}

// containingFolder returns the first folder whose subtree contains
// relPath, or "" when none does.
func containingFolder(relPath string, folders []string) string {
	for _, folder := range folders {
		if strings.HasPrefix(relPath, folder+"/") {
			return folder
		}
	}
	return ""
}
