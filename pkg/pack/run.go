// File: pkg/pack/run.go
package pack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"promptpack/pkg/ignore"
	"promptpack/pkg/minify"
)

// artifactTimeFormat names artifacts by their run start time. A run
// started in the same second overwrites the previous artifact.
const artifactTimeFormat = "20060102-150405"

// Summary describes a finished pack run.
type Summary struct {
	RunID        string        // Unique identifier of this run.
	ArtifactPath string        // Absolute path of the written artifact; empty when nothing was packed.
	TreePath     string        // Absolute path of the tree listing, when one was requested.
	Selected     int           // Files that survived ignore rules and filters.
	Processed    int           // Files whose blocks reached the artifact.
	Failed       int           // Files that failed processing.
	Duration     time.Duration // Total wall time of the run.
	Failures     []Outcome     // Outcomes of the failed files.
	Err          error         // Aggregate of the per-file failures.
}

// Run executes one complete pack: enumerate the project, filter the
// candidates, process them through the worker pool, and finalize the
// artifact. Per-file failures are reported through the summary; a
// returned error means the run as a whole did not produce an artifact.
func Run(ctx context.Context, cfg *Config, logger *zap.Logger, onOutcome func(Outcome)) (*Summary, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("runID", runID))
	logger.Debug("Starting pack run", zap.String("projectPath", cfg.ProjectPath))

	absRoot, err := filepath.Abs(cfg.ProjectPath)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Path: cfg.ProjectPath, Err: err}
	}

	// Layer the ignore rules: built-in defaults, the project's local
	// ignore file, then patterns from config and flags. The output
	// directory is always ignored so earlier artifacts are never
	// packed into new ones.
	localSource, err := ignore.LoadLocal(absRoot, logger)
	if err != nil {
		srcErr := &Error{Kind: KindIgnoreSource, Path: ignore.LocalIgnoreName, Err: err}
		logger.Warn("Ignoring unreadable local ignore file", zap.Error(srcErr))
	}
	extra := append([]string{}, cfg.IgnorePatterns...)
	extra = append(extra, cfg.OutputDir+"/", ConfigFileName)
	matcher := ignore.Compile(ignore.DefaultPatterns(), localSource, extra...).WithLogger(logger)
	logger.Debug("Loaded ignore patterns", zap.Int("totalPatterns", matcher.PatternCount()))

	candidates, err := Enumerate(ctx, absRoot, matcher, cfg.MaxFileSizeKB, logger)
	if err != nil {
		return nil, err
	}

	selected := Select(candidates, cfg.Include, cfg.Exclude, logger)
	summary := &Summary{RunID: runID, Selected: len(selected)}
	if len(selected) == 0 {
		logger.Warn("No files to pack after filtering")
		summary.Duration = time.Since(start)
		return summary, nil
	}

	outputDir := filepath.Join(absRoot, filepath.FromSlash(cfg.OutputDir))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, &Error{Kind: KindOutputWrite, Path: cfg.OutputDir, Err: err}
	}
	if err := EnsureGitignoreEntry(absRoot, cfg.OutputDir, logger); err != nil {
		logger.Warn("Failed to update gitignore", zap.Error(err))
	}

	stamp := start.Format(artifactTimeFormat)
	artifactPath := filepath.Join(outputDir, stamp+".txt")
	sink, err := OpenSink(artifactPath, logger)
	if err != nil {
		return nil, err
	}

	pipeline := &Pipeline{
		Transform: minify.Minify,
		Workers:   cfg.Concurrency,
		OnOutcome: onOutcome,
		Logger:    logger,
	}
	outcomes, pipeErr := pipeline.Run(ctx, selected, sink)

	// The artifact is discarded unless every selected file produced an
	// outcome. A cancellation that lands after the last outcome leaves
	// a complete artifact, which is kept.
	if pipeErr != nil || len(outcomes) < len(selected) {
		if removeErr := sink.Remove(); removeErr != nil {
			logger.Warn("Failed to remove partial artifact", zap.Error(removeErr))
		}
		if pipeErr != nil {
			return nil, pipeErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Kind: KindOutputWrite, Path: artifactPath, Err: fmt.Errorf("pipeline stopped early")}
	}

	if err := sink.Close(); err != nil {
		if removeErr := sink.Remove(); removeErr != nil {
			logger.Warn("Failed to remove partial artifact", zap.Error(removeErr))
		}
		return nil, err
	}
	summary.ArtifactPath = artifactPath

	for _, outcome := range outcomes {
		if outcome.OK {
			summary.Processed++
		} else {
			summary.Failed++
			summary.Failures = append(summary.Failures, outcome)
			summary.Err = multierr.Append(summary.Err, outcome.Err)
		}
	}

	if cfg.Tree {
		treePath := filepath.Join(outputDir, stamp+".tree.txt")
		treeContent := RenderTree(filepath.Base(absRoot), selected)
		if err := WriteTree(treePath, treeContent, logger); err != nil {
			logger.Warn("Failed to write tree listing", zap.Error(err))
		} else {
			summary.TreePath = treePath
		}
	}

	summary.Duration = time.Since(start)
	logger.Info("Successfully packed files",
		zap.String("artifactPath", artifactPath),
		zap.Int("processedFiles", summary.Processed),
		zap.Int("failedFiles", summary.Failed),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}
