package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Constants
const (
	DefaultOutputDir     = ".promptpack"      // Artifact directory created under the project root.
	DefaultConcurrency   = 4                  // Default number of file processing workers.
	DefaultMaxFileSizeKB = 1024               // Files above this size (in KB) are skipped.
	MaxConcurrency       = 100                // Upper bound accepted for Concurrency.
	ConfigFileName       = ".promptpack.yaml" // Per-project configuration file name.
)

// FilterSpec names files, extensions, and folders for include or exclude
// filtering. All paths are relative to the project root.
type FilterSpec struct {
	Files      []string `yaml:"files"`      // Exact relative file paths.
	Extensions []string `yaml:"extensions"` // File extensions, with or without the leading dot.
	Folders    []string `yaml:"folders"`    // Relative folder paths; each covers its whole subtree.
}

// Empty reports whether the filter names nothing.
func (s FilterSpec) Empty() bool {
	return len(s.Files) == 0 && len(s.Extensions) == 0 && len(s.Folders) == 0
}

// Config holds the configuration options for a pack run.
type Config struct {
	ProjectPath    string     `yaml:"-"`                // Root directory whose files are packed.
	OutputDir      string     `yaml:"output_dir"`       // Artifact directory, relative to the project root.
	Include        FilterSpec `yaml:"include"`          // Files to keep; empty keeps everything not excluded.
	Exclude        FilterSpec `yaml:"exclude"`          // Files to drop; takes precedence over Include.
	IgnorePatterns []string   `yaml:"ignore"`           // Additional gitignore-style patterns.
	Concurrency    int        `yaml:"concurrency"`      // Number of concurrent file processing workers.
	MaxFileSizeKB  int        `yaml:"max_file_size_kb"` // Maximum size of files to process (in KB); 0 disables the cap.
	Tree           bool       `yaml:"tree"`             // If true, also writes a tree listing next to the artifact.
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		ProjectPath:   ".",
		OutputDir:     DefaultOutputDir,
		Concurrency:   DefaultConcurrency,
		MaxFileSizeKB: DefaultMaxFileSizeKB,
	}
}

// LoadConfig builds the configuration for projectPath: defaults first,
// overlaid with ConfigFileName from the project root when present. A
// missing config file is not an error; an unreadable or malformed one
// is.
func LoadConfig(projectPath string, logger *zap.Logger) (*Config, error) {
	cfg := DefaultConfig()
	cfg.ProjectPath = projectPath

	configPath := filepath.Join(projectPath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, &Error{Kind: KindConfig, Path: ConfigFileName, Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Kind: KindConfig, Path: ConfigFileName, Err: fmt.Errorf("parse: %w", err)}
	}

	logger.Debug("Loaded config file", zap.String("configPath", configPath))
	return cfg, nil
}

// Validate normalizes the configuration in place and reports the first
// problem found. It must be called before the configuration is used.
func (c *Config) Validate() error {
	if c.ProjectPath == "" {
		return &Error{Kind: KindConfig, Err: fmt.Errorf("project path must not be empty")}
	}
	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return &Error{Kind: KindConfig, Err: fmt.Errorf("concurrency must be between 1 and %d, got %d", MaxConcurrency, c.Concurrency)}
	}
	if c.MaxFileSizeKB < 0 {
		return &Error{Kind: KindConfig, Err: fmt.Errorf("max file size must not be negative, got %d", c.MaxFileSizeKB)}
	}

	c.OutputDir = normalizeRelPath(c.OutputDir)
	if c.OutputDir == "" {
		return &Error{Kind: KindConfig, Err: fmt.Errorf("output directory must not be empty")}
	}
	if c.OutputDir == "." {
		return &Error{Kind: KindConfig, Err: fmt.Errorf("output directory must not be the project root")}
	}
	if filepath.IsAbs(c.OutputDir) || hasParentSegment(c.OutputDir) {
		return &Error{Kind: KindConfig, Err: fmt.Errorf("output directory must stay inside the project, got %q", c.OutputDir)}
	}

	var err error
	if c.Include, err = c.Include.normalize(); err != nil {
		return err
	}
	if c.Exclude, err = c.Exclude.normalize(); err != nil {
		return err
	}
	return nil
}

// normalize canonicalizes every entry of the filter: paths to slash form
// without "./" or trailing slashes, extensions to ".ext" form. Empty
// entries are dropped.
func (s FilterSpec) normalize() (FilterSpec, error) {
	var out FilterSpec
	for _, file := range s.Files {
		if file = normalizeRelPath(file); file != "" && file != "." {
			out.Files = append(out.Files, file)
		}
	}
	for _, ext := range s.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext == "." {
			return out, &Error{Kind: KindConfig, Err: fmt.Errorf("invalid extension %q", ext)}
		}
		out.Extensions = append(out.Extensions, ext)
	}
	for _, folder := range s.Folders {
		if folder = normalizeRelPath(folder); folder != "" && folder != "." {
			out.Folders = append(out.Folders, folder)
		}
	}
	return out, nil
}

// normalizeRelPath converts p to slash form and strips surrounding
// whitespace, a leading "./", and any trailing slash.
func normalizeRelPath(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	p = strings.TrimPrefix(p, "./")
	return strings.TrimSuffix(p, "/")
}

// hasParentSegment reports whether the slash-form path contains a ".."
// segment.
func hasParentSegment(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}
