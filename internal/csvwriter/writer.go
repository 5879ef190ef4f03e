// =============================================================================
// Dyad Splitter - CSV Writer Module
// =============================================================================
//
// This module writes the split rows. Every destination implements Sink:
//
//   WriteHeader -> once, before any data
//   WriteRecord -> once per output line, in order
//   Close       -> flush and release
//
// DESTINATIONS:
//   - FileSink:    writes a temp file next to the target and renames it into
//                  place on Close, so a failed run never leaves half a file
//   - ConsoleSink: writes to stdout (or any io.Writer)
//   - TeeSink:     forwards to several sinks, e.g. a file plus the console
//
// Framing is the same for every destination: one line per record, fields
// joined by the output delimiter, "\n" line endings. Fields that contain the
// delimiter, quotes or newlines are quoted the usual CSV way.
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ginjaninja78/dyad-splitter/internal/types"
	"github.com/ginjaninja78/dyad-splitter/pkg/utils"
)

// ErrHeaderWritten is returned when WriteHeader is called twice.
var ErrHeaderWritten = errors.New("header already written")

// ErrNoHeader is returned when WriteRecord is called before WriteHeader.
var ErrNoHeader = errors.New("header not written")

// Sink receives the output of a run.
type Sink interface {
	WriteHeader(header []string) error
	WriteRecord(line types.Line) error
	Close() error
}

// Aborter is implemented by sinks that can discard what they have written.
type Aborter interface {
	Abort() error
}

// =============================================================================
// CONSOLE SINK
// =============================================================================

// ConsoleSink writes delimited lines to an io.Writer.
type ConsoleSink struct {
	w      *csv.Writer
	header bool
	lines  int
}

// NewConsoleSink writes to out using comma as the field separator.
func NewConsoleSink(out io.Writer, comma rune) *ConsoleSink {
	w := csv.NewWriter(out)
	w.Comma = comma
	return &ConsoleSink{w: w}
}

// WriteHeader writes the header line.
func (s *ConsoleSink) WriteHeader(header []string) error {
	if s.header {
		return ErrHeaderWritten
	}
	s.header = true
	return s.write(header)
}

// WriteRecord writes one data line.
func (s *ConsoleSink) WriteRecord(line types.Line) error {
	if !s.header {
		return ErrNoHeader
	}
	return s.write(line)
}

func (s *ConsoleSink) write(fields []string) error {
	if err := s.w.Write(fields); err != nil {
		return fmt.Errorf("failed to write line %d: %w", s.lines+1, err)
	}
	s.lines++
	return nil
}

// Lines returns the number of lines written, header included.
func (s *ConsoleSink) Lines() int {
	return s.lines
}

// Flush pushes buffered lines to the writer.
func (s *ConsoleSink) Flush() error {
	s.w.Flush()
	return s.w.Error()
}

// Close flushes. The underlying writer stays open.
func (s *ConsoleSink) Close() error {
	return s.Flush()
}

// =============================================================================
// FILE SINK
// =============================================================================

// FileSink writes to a named file via a temp file in the same directory.
type FileSink struct {
	*ConsoleSink

	path   string
	tmp    string
	file   *os.File
	closed bool
}

// CreateFileSink creates the temp file for path. Missing parent directories
// are created.
func CreateFileSink(path string, comma rune) (*FileSink, error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return nil, err
	}

	tmp := utils.TempPath(path)
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &FileSink{
		ConsoleSink: NewConsoleSink(file, comma),
		path:        path,
		tmp:         tmp,
		file:        file,
	}, nil
}

// Path returns the final output path.
func (s *FileSink) Path() string {
	return s.path
}

// Close flushes, closes and moves the file into place.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.Flush(); err != nil {
		s.discard()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := s.file.Close(); err != nil {
		_ = os.Remove(s.tmp)
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := utils.ReplaceFile(s.tmp, s.path); err != nil {
		_ = os.Remove(s.tmp)
		return err
	}
	return nil
}

// Abort removes the temp file. The target path is left as it was.
func (s *FileSink) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.discard()
}

func (s *FileSink) discard() error {
	_ = s.file.Close()
	if err := os.Remove(s.tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp output: %w", err)
	}
	return nil
}

// =============================================================================
// TEE SINK
// =============================================================================

// TeeSink forwards every call to each of its sinks in order.
type TeeSink struct {
	sinks []Sink
	once  sync.Once
}

// NewTeeSink combines sinks.
func NewTeeSink(sinks ...Sink) *TeeSink {
	return &TeeSink{sinks: sinks}
}

// WriteHeader implements Sink.
func (t *TeeSink) WriteHeader(header []string) error {
	for _, s := range t.sinks {
		if err := s.WriteHeader(header); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord implements Sink.
func (t *TeeSink) WriteRecord(line types.Line) error {
	for _, s := range t.sinks {
		if err := s.WriteRecord(line); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and returns the joined errors.
func (t *TeeSink) Close() error {
	var errs []error
	t.once.Do(func() {
		for _, s := range t.sinks {
			errs = append(errs, s.Close())
		}
	})
	return errors.Join(errs...)
}

// Abort aborts the sinks that support it and closes the others.
func (t *TeeSink) Abort() error {
	var errs []error
	t.once.Do(func() {
		for _, s := range t.sinks {
			if a, ok := s.(Aborter); ok {
				errs = append(errs, a.Abort())
				continue
			}
			errs = append(errs, s.Close())
		}
	})
	return errors.Join(errs...)
}
