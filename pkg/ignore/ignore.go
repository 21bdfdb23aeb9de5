// Package ignore compiles gitignore-style exclusion patterns into a matcher
// for project-relative paths. Patterns come from three layers: the built-in
// defaults, an optional project-local .promptpackignore file, and extra
// patterns supplied at runtime (for example the output folder itself). All
// layers are additive exclusions; the engine still honors `!` negation lines
// inside any layer.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// LocalIgnoreName is the project-local pattern file read from the root of
// the directory being packed.
const LocalIgnoreName = ".promptpackignore"

// DefaultPatterns returns the built-in exclusions applied to every run.
// The list targets what never belongs in a prompt: VCS bookkeeping,
// dependency and build trees, lockfiles, and binary media.
func DefaultPatterns() []string {
	return []string{
		".git/",
		".gitignore",
		".gitattributes",
		".hg/",
		".svn/",
		"node_modules/",
		"vendor/",
		"dist/",
		"build/",
		"out/",
		"bin/",
		"obj/",
		"target/",
		".venv/",
		"venv/",
		"__pycache__/",
		".idea/",
		".vscode/",
		".terraform/",
		".DS_Store",
		LocalIgnoreName,
		"*.lock",
		"go.sum",
		"*.min.js",
		"*.min.css",
		"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.ico", "*.svg",
		"*.pdf", "*.zip", "*.tar", "*.gz", "*.tgz", "*.7z",
		"*.mp3", "*.mp4", "*.mov", "*.avi",
		"*.exe", "*.dll", "*.so", "*.dylib",
		"*.woff", "*.woff2", "*.ttf", "*.eot",
	}
}

// Matcher answers whether a relative path is excluded by the compiled
// pattern set. Patterns are loaded once per run and immutable afterwards.
type Matcher struct {
	gi       *gitignore.GitIgnore
	patterns int
	logger   *zap.Logger
}

// Compile builds a Matcher from the default patterns, the contents of a
// local ignore file (may be empty), and any extra runtime patterns. Blank
// lines and '#' comments in the local source are dropped; ordering is
// defaults, then local, then extra, so later negations can re-include
// earlier exclusions.
func Compile(defaults []string, localSource string, extra ...string) *Matcher {
	lines := make([]string, 0, len(defaults)+len(extra))
	lines = append(lines, defaults...)
	lines = append(lines, ParseLines(localSource)...)
	for _, pattern := range extra {
		if p := strings.TrimSpace(pattern); p != "" {
			lines = append(lines, p)
		}
	}

	return &Matcher{
		gi:       gitignore.CompileIgnoreLines(lines...),
		patterns: len(lines),
		logger:   zap.NewNop(),
	}
}

// WithLogger attaches a logger used for per-match debug output.
func (m *Matcher) WithLogger(logger *zap.Logger) *Matcher {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Matches reports whether relPath is excluded. Directory probes must carry
// a trailing slash so that directory-only patterns ("node_modules/") apply.
func (m *Matcher) Matches(relPath string) bool {
	matched, _ := m.MatchesWithPattern(relPath)
	return matched
}

// MatchesWithPattern reports whether relPath is excluded and, when it is,
// the original pattern line that decided the match.
func (m *Matcher) MatchesWithPattern(relPath string) (bool, string) {
	normalized := filepath.ToSlash(relPath)
	matched, pattern := m.gi.MatchesPathHow(normalized)
	if matched && pattern != nil {
		m.logger.Debug("path matches ignore pattern",
			zap.String("path", normalized),
			zap.String("pattern", pattern.Line))
		return true, pattern.Line
	}
	return false, ""
}

// PatternCount returns the number of compiled pattern lines.
func (m *Matcher) PatternCount() int {
	return m.patterns
}

// ParseLines splits raw ignore-file content into pattern lines, dropping
// blanks and '#' comments.
func ParseLines(source string) []string {
	if source == "" {
		return nil
	}
	var patterns []string
	for _, line := range strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// LoadLocal reads the project-local ignore file under root. A missing file
// is normal and yields an empty source with no error; any other read
// failure is reported so the caller can log it and fall back to defaults
// only (the failure is never fatal to a run).
func LoadLocal(root string, logger *zap.Logger) (string, error) {
	path := filepath.Join(root, LocalIgnoreName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("no local ignore file", zap.String("filePath", path))
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Debug("loaded local ignore file",
		zap.String("filePath", path),
		zap.Int("byteCount", len(content)))
	return string(content), nil
}
