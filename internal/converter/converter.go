// =============================================================================
// Dyad Splitter - Converter Module
// =============================================================================
//
// This module drives a run. It reads records from a source, splits each one
// into its first and second lines, and writes the result to a sink.
//
// CONVERSION PIPELINE:
//   1. Write the output header (always, even if every pair is dropped)
//   2. For each input record, in order:
//      a. Project the first and second lines
//      b. Drop the pair if filtering is on and a required value is blank
//      c. Write both lines
//   3. Close the sink (or abort it if anything failed)
//
// CONCURRENCY:
//   With Workers > 1 the records are read in batches and the batch is split
//   concurrently. Lines are still written by one goroutine in input order, so
//   the output is byte-for-byte the same as a sequential run.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/dyad-splitter/internal/csvwriter"
	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
	"github.com/ginjaninja78/dyad-splitter/internal/splitter"
	"github.com/ginjaninja78/dyad-splitter/internal/types"
)

// DefaultBatchSize is used when Options.BatchSize is not set.
const DefaultBatchSize = 256

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RecordsRead is the number of input records processed.
	RecordsRead int

	// PairsWritten is the number of input records that produced output.
	PairsWritten int

	// PairsSuppressed is the number of input records dropped by the
	// completeness filter.
	PairsSuppressed int

	// LinesWritten counts output lines, header included.
	LinesWritten int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// RecordSource is a forward-only sequence of input records.
// csvparser.StreamingParser and xlsxparser.SheetReader implement it.
type RecordSource interface {
	Next() bool
	Record() types.Record
	Err() error
}

// Options controls a run.
type Options struct {
	// FilterIncomplete drops pairs with blank non-exempt values.
	FilterIncomplete bool

	// Workers is the number of goroutines splitting records. Values below 2
	// mean sequential processing.
	Workers int

	// BatchSize is the number of records split per round in parallel mode.
	BatchSize int
}

// Converter runs the split of one input.
type Converter struct {
	mapping *mapping.Mapping
	opts    Options
	logger  *zap.Logger
}

// New creates a Converter. A nil logger discards log output.
func New(m *mapping.Mapping, opts Options, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Converter{
		mapping: m,
		opts:    opts,
		logger:  logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run processes every record of src and writes the result to sink.
//
// The sink is always released before Run returns: closed on success, aborted
// (or closed, if it cannot abort) on failure. The source is left open.
func (c *Converter) Run(ctx context.Context, src RecordSource, sink csvwriter.Sink) (Result, error) {
	start := time.Now()
	var result Result

	if err := c.run(ctx, src, sink, &result.Stats); err != nil {
		if abortErr := abort(sink); abortErr != nil {
			c.logger.Warn("Failed to discard partial output", zap.Error(abortErr))
		}
		result.Stats.ProcessingTime = time.Since(start)
		return result, err
	}

	if err := sink.Close(); err != nil {
		result.Stats.ProcessingTime = time.Since(start)
		return result, fmt.Errorf("failed to close output: %w", err)
	}

	result.Stats.ProcessingTime = time.Since(start)
	c.logger.Debug("Run complete",
		zap.Int("records", result.Stats.RecordsRead),
		zap.Int("pairs_written", result.Stats.PairsWritten),
		zap.Int("pairs_suppressed", result.Stats.PairsSuppressed),
		zap.Duration("elapsed", result.Stats.ProcessingTime))

	return result, nil
}

func (c *Converter) run(ctx context.Context, src RecordSource, sink csvwriter.Sink, stats *ProcessingStats) error {
	if err := sink.WriteHeader(c.mapping.HeaderNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	stats.LinesWritten++

	if c.opts.Workers > 1 {
		c.logger.Debug("Splitting in parallel",
			zap.Int("workers", c.opts.Workers),
			zap.Int("batch_size", c.opts.BatchSize))
		return c.runParallel(ctx, src, sink, stats)
	}
	return c.runSequential(ctx, src, sink, stats)
}

// runSequential splits and writes one record at a time.
func (c *Converter) runSequential(ctx context.Context, src RecordSource, sink csvwriter.Sink, stats *ProcessingStats) error {
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.RecordsRead++

		pair, ok := splitter.Split(src.Record(), c.opts.FilterIncomplete, c.mapping)
		if err := c.emit(sink, pair, ok, stats); err != nil {
			return err
		}
	}

	if err := src.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// outcome is the split result of one record in a batch.
type outcome struct {
	pair splitter.Pair
	ok   bool
}

// runParallel reads a batch, splits it across the workers, then writes the
// batch in order before reading the next one.
func (c *Converter) runParallel(ctx context.Context, src RecordSource, sink csvwriter.Sink, stats *ProcessingStats) error {
	batch := make([]types.Record, 0, c.opts.BatchSize)
	results := make([]outcome, c.opts.BatchSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch = batch[:0]
		for len(batch) < c.opts.BatchSize && src.Next() {
			batch = append(batch, src.Record())
		}
		if len(batch) == 0 {
			break
		}

		if err := c.splitBatch(ctx, batch, results); err != nil {
			return err
		}

		for i := range batch {
			stats.RecordsRead++
			if err := c.emit(sink, results[i].pair, results[i].ok, stats); err != nil {
				return err
			}
			results[i] = outcome{}
		}

		if len(batch) < c.opts.BatchSize {
			break
		}
	}

	if err := src.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// splitBatch fills results[:len(batch)]. Each worker takes a contiguous
// chunk, so no two goroutines write the same slot.
func (c *Converter) splitBatch(ctx context.Context, batch []types.Record, results []outcome) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	chunk := (len(batch) + c.opts.Workers - 1) / c.opts.Workers
	for lo := 0; lo < len(batch); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(batch))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				pair, ok := splitter.Split(batch[i], c.opts.FilterIncomplete, c.mapping)
				results[i] = outcome{pair: pair, ok: ok}
			}
			return nil
		})
	}

	return g.Wait()
}

// emit writes one pair, or counts it as suppressed.
func (c *Converter) emit(sink csvwriter.Sink, pair splitter.Pair, ok bool, stats *ProcessingStats) error {
	if !ok {
		stats.PairsSuppressed++
		c.logger.Debug("Dropped incomplete pair", zap.Int("record", stats.RecordsRead))
		return nil
	}

	if err := sink.WriteRecord(pair.First); err != nil {
		return fmt.Errorf("record %d: %w", stats.RecordsRead, err)
	}
	if err := sink.WriteRecord(pair.Second); err != nil {
		return fmt.Errorf("record %d: %w", stats.RecordsRead, err)
	}

	stats.PairsWritten++
	stats.LinesWritten += 2
	return nil
}

// abort discards what the sink has written, if it can.
func abort(sink csvwriter.Sink) error {
	if a, ok := sink.(csvwriter.Aborter); ok {
		return a.Abort()
	}
	return sink.Close()
}
