// File: pkg/pack/sink.go
package pack

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Flush thresholds for the artifact writer.
const (
	sinkBufferBytes  = 64 * 1024 // Write buffer size in bytes.
	sinkFlushEntries = 32        // Appends between forced flushes.
)

// Sink serializes writes of completed file blocks into the artifact
// file. Workers hand it whole blocks; it owns the only file handle and
// flushes on a cadence so the artifact never holds a torn block.
type Sink struct {
	mu      sync.Mutex
	file    *os.File
	writer  *bufio.Writer
	path    string
	entries int
	closed  bool
	logger  *zap.Logger
}

// OpenSink creates (or truncates) the artifact file at path.
func OpenSink(path string, logger *zap.Logger) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, &Error{Kind: KindOutputWrite, Path: path, Err: err}
	}

	logger.Debug("Opened output artifact", zap.String("artifactPath", path))
	return &Sink{
		file:   file,
		writer: bufio.NewWriterSize(file, sinkBufferBytes),
		path:   path,
		logger: logger,
	}, nil
}

// Append writes one complete file block to the artifact. Calls from
// concurrent workers are serialized; blocks are never interleaved.
func (s *Sink) Append(block string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &Error{Kind: KindOutputWrite, Path: s.path, Err: fmt.Errorf("sink already closed")}
	}
	if _, err := s.writer.WriteString(block); err != nil {
		return &Error{Kind: KindOutputWrite, Path: s.path, Err: err}
	}

	s.entries++
	if s.entries >= sinkFlushEntries {
		if err := s.writer.Flush(); err != nil {
			return &Error{Kind: KindOutputWrite, Path: s.path, Err: err}
		}
		s.entries = 0
	}
	return nil
}

// Close flushes buffered blocks and closes the artifact file. Closing
// an already closed sink is a no-op.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.writer.Flush(); err != nil {
		s.file.Close()
		return &Error{Kind: KindOutputWrite, Path: s.path, Err: err}
	}
	if err := s.file.Close(); err != nil {
		return &Error{Kind: KindOutputWrite, Path: s.path, Err: err}
	}

	s.logger.Debug("Closed output artifact", zap.String("artifactPath", s.path))
	return nil
}

// Remove closes the sink if needed and deletes the artifact from disk.
// It is used to discard partial output after a cancelled or failed
// run; a missing file is not an error.
func (s *Sink) Remove() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.file.Close()
	}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &Error{Kind: KindOutputWrite, Path: s.path, Err: err}
	}

	s.logger.Debug("Removed partial artifact", zap.String("artifactPath", s.path))
	return nil
}

// Path returns the artifact file path.
func (s *Sink) Path() string {
	return s.path
}
