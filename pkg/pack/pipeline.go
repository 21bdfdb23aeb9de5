// File: pkg/pack/pipeline.go
package pack

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Outcome records the result of processing one file.
type Outcome struct {
	RelPath  string        // Project-relative path of the file.
	OK       bool          // Whether the file's block reached the artifact.
	Err      error         // The failure when OK is false.
	Duration time.Duration // Wall time spent on the file.
}

// Pipeline fans selected files out to a bounded worker pool and funnels
// each produced block into the sink.
type Pipeline struct {
	Transform func(string) string // Applied to each file's content before packing.
	Workers   int                 // Worker goroutines; clamped to [1, len(files)].
	OnOutcome func(Outcome)       // Optional; invoked per finished file in completion order.
	Logger    *zap.Logger
}

// Run processes files and appends one block per successful file to the
// sink. A failure to read or decode a file is recorded in its outcome
// and does not stop the others. A sink write failure or context
// cancellation stops the pipeline from handing out further work;
// files already picked up by a worker still finish. The returned
// outcomes cover exactly the files that were attempted.
func (p *Pipeline) Run(ctx context.Context, files []CandidateFile, sink *Sink) ([]Outcome, error) {
	if len(files) == 0 {
		return nil, nil
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		fatalOnce sync.Once
		fatalErr  error
	)
	fail := func(err error) {
		fatalOnce.Do(func() {
			fatalErr = err
			cancel()
		})
	}

	jobs := make(chan CandidateFile)
	results := make(chan Outcome, len(files))
	var wg sync.WaitGroup

	p.Logger.Debug("Initializing worker pool", zap.Int("workers", workers), zap.Int("fileCount", len(files)))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		workerLogger := p.Logger.With(zap.Int("workerID", w))
		go func() {
			defer wg.Done()
			for file := range jobs {
				outcome, err := p.processOne(file, sink, workerLogger)
				results <- outcome
				if err != nil {
					fail(err)
					return
				}
			}
		}()
	}

	// Hand out jobs until done or cancelled. Cancellation stops
	// admission; it never interrupts a file already being processed.
	go func() {
		defer close(jobs)
		for _, file := range files {
			if ctx.Err() != nil {
				return
			}
			select {
			case jobs <- file:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(files))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
		if p.OnOutcome != nil {
			p.OnOutcome(outcome)
		}
	}

	p.Logger.Debug("Worker pool drained", zap.Int("attemptedFiles", len(outcomes)))
	return outcomes, fatalErr
}

// processOne reads, transforms, and appends a single file. The
// returned error is non-nil only for sink failures, which are fatal to
// the whole pipeline; read and decode problems fail just this file
// through its outcome.
func (p *Pipeline) processOne(file CandidateFile, sink *Sink, logger *zap.Logger) (Outcome, error) {
	start := time.Now()

	raw, err := os.ReadFile(file.AbsPath)
	if err != nil {
		logger.Warn("Failed to read file", zap.String("filePath", file.RelPath), zap.Error(err))
		return Outcome{
			RelPath:  file.RelPath,
			Err:      &Error{Kind: KindPerFile, Path: file.RelPath, Err: err},
			Duration: time.Since(start),
		}, nil
	}

	if !isTextContent(raw) {
		logger.Debug("Skipping binary file", zap.String("filePath", file.RelPath))
		return Outcome{
			RelPath:  file.RelPath,
			Err:      &Error{Kind: KindPerFile, Path: file.RelPath, Err: fmt.Errorf("binary or non-UTF-8 content")},
			Duration: time.Since(start),
		}, nil
	}

	content := string(raw)
	if p.Transform != nil {
		content = p.Transform(content)
	}
	block := file.RelPath + "\n" + content + "\n\n"

	if err := sink.Append(block); err != nil {
		logger.Error("Failed to append block to artifact", zap.String("filePath", file.RelPath), zap.Error(err))
		return Outcome{RelPath: file.RelPath, Err: err, Duration: time.Since(start)}, err
	}

	logger.Debug("Processed file", zap.String("filePath", file.RelPath), zap.Duration("duration", time.Since(start)))
	return Outcome{RelPath: file.RelPath, OK: true, Duration: time.Since(start)}, nil
}
