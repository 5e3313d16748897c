// Package runner extracts records from a whole stream by scanning its splits in
// parallel, one TagScanner and one stream per split.
//
// Scanners never share state; the runner only plans splits, schedules them on a
// bounded worker pool and aggregates results. Optional verification tracks every
// record key across splits and fails the run if any record is emitted twice.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/tagsplit/internal/options"
	"github.com/arloliu/tagsplit/internal/tracker"
	"github.com/arloliu/tagsplit/scanner"
	"github.com/arloliu/tagsplit/split"
)

// Handler receives each record together with the split that produced it.
// It is called concurrently from split workers and must be safe for concurrent use.
type Handler func(sp split.Split, index int, rec scanner.Record) error

// Option configures a Runner.
type Option = options.Option[*Runner]

// WithSource sets the stream source. The default reads local paths and file://
// URLs directly, other schemes through afs, and decompresses .zst/.s2/.lz4 inputs.
func WithSource(src split.Source) Option {
	return options.New(func(r *Runner) error {
		if src == nil {
			return errors.New("source must not be nil")
		}
		r.source = src

		return nil
	})
}

// WithSplitSize sets the planned split length in bytes.
func WithSplitSize(size int64) Option {
	return options.New(func(r *Runner) error {
		if size <= 0 {
			return fmt.Errorf("split size must be positive, got %d", size)
		}
		r.splitSize = size

		return nil
	})
}

// WithConcurrency bounds the number of splits scanned at once.
func WithConcurrency(n int) Option {
	return options.New(func(r *Runner) error {
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		r.concurrency = n

		return nil
	})
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// WithVerification enables cross-split duplicate detection.
func WithVerification(enabled bool) Option {
	return options.NoError(func(r *Runner) {
		r.verify = enabled
	})
}

// WithScannerOptions passes options to every scanner the runner creates.
func WithScannerOptions(opts ...scanner.Option) Option {
	return options.NoError(func(r *Runner) {
		r.scanOpts = append(r.scanOpts, opts...)
	})
}

// Stats summarizes a run.
//
// Tracked and Duplicates are only filled when verification is enabled: Tracked is
// the number of distinct record keys seen, Duplicates the number of records
// rejected because another split had already emitted them.
type Stats struct {
	Splits     int
	Records    int64
	Bytes      int64
	Tracked    int
	Duplicates int
	Duration   time.Duration
}

// Runner plans and scans splits.
type Runner struct {
	conf        scanner.Config
	source      split.Source
	splitSize   int64
	concurrency int
	logger      *slog.Logger
	verify      bool
	scanOpts    []scanner.Option
}

// New creates a Runner whose scanners read their tags from conf.
func New(conf scanner.Config, opts ...Option) (*Runner, error) {
	r := &Runner{
		conf:        conf,
		source:      split.NewCompressedSource(split.NewLocationSource()),
		splitSize:   split.DefaultSplitSize,
		concurrency: 4,
		logger:      slog.New(slog.DiscardHandler),
	}

	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	if err := scanner.ValidateConfig(conf); err != nil {
		return nil, err
	}

	return r, nil
}

// Plan returns the splits of path under the configured split size.
func (r *Runner) Plan(ctx context.Context, path string) ([]split.Split, error) {
	return split.NewPlanner(r.source, r.splitSize).Plan(ctx, path)
}

// Run scans every split of path and passes each record to handle.
func (r *Runner) Run(ctx context.Context, path string, handle Handler) (Stats, error) {
	splits, err := r.Plan(ctx, path)
	if err != nil {
		return Stats{}, err
	}

	return r.RunSplits(ctx, splits, handle)
}

// RunSplits scans the given splits with at most the configured number of
// workers. The first failing split cancels the others and its error is returned.
func (r *Runner) RunSplits(ctx context.Context, splits []split.Split, handle Handler) (Stats, error) {
	started := time.Now()

	var tr *tracker.Tracker
	if r.verify {
		tr = tracker.NewTracker()
	}

	var records, bytes atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, sp := range splits {
		g.Go(func() error {
			n, size, err := r.scanSplit(gctx, i, sp, tr, handle)
			records.Add(n)
			bytes.Add(size)

			return err
		})
	}

	err := g.Wait()
	stats := Stats{
		Splits:   len(splits),
		Records:  records.Load(),
		Bytes:    bytes.Load(),
		Duration: time.Since(started),
	}
	if tr != nil {
		stats.Tracked = tr.Len()
		stats.Duplicates = tr.Duplicates()
	}
	if err != nil {
		r.logger.Error("extraction failed",
			"splits", stats.Splits,
			"records", stats.Records,
			"duplicates", stats.Duplicates,
			"error", err)
		return stats, err
	}

	r.logger.Info("extraction finished",
		"splits", stats.Splits,
		"records", stats.Records,
		"bytes", stats.Bytes,
		"tracked", stats.Tracked,
		"duration", stats.Duration)

	return stats, nil
}

// Collect scans every split of path and returns all records in split order.
func (r *Runner) Collect(ctx context.Context, path string) ([]scanner.Record, Stats, error) {
	splits, err := r.Plan(ctx, path)
	if err != nil {
		return nil, Stats{}, err
	}

	perSplit := make([][]scanner.Record, len(splits))
	stats, err := r.RunSplits(ctx, splits, func(_ split.Split, index int, rec scanner.Record) error {
		// each index is only ever written by its own worker
		perSplit[index] = append(perSplit[index], rec)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	return slices.Concat(perSplit...), stats, nil
}

func (r *Runner) scanSplit(ctx context.Context, index int, sp split.Split, tr *tracker.Tracker, handle Handler) (int64, int64, error) {
	logger := r.logger.With("split", sp.String(), "index", index)

	opts := append([]scanner.Option{scanner.WithLogger(logger)}, r.scanOpts...)
	sc, err := scanner.Open(ctx, r.source, sp, r.conf, opts...)
	if err != nil {
		logger.Warn("failed to create scanner", "error", err)
		return 0, 0, fmt.Errorf("split %s: %w", sp, err)
	}
	defer sc.Close()

	var count, size int64
	for {
		if err := ctx.Err(); err != nil {
			return count, size, err
		}

		rec, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, size, fmt.Errorf("split %s: %w", sp, err)
		}

		if tr != nil {
			if err := tr.Track(rec.Key, rec.ID(), index); err != nil {
				return count, size, err
			}
		}
		if err := handle(sp, index, rec); err != nil {
			return count, size, err
		}
		count++
		size += int64(len(rec.Value))
	}

	logger.Debug("split finished", "records", count, "bytes", size, "pos", sc.Pos(), "attributeMode", sc.AttributeMode())

	return count, size, nil
}
