package split

import (
	"context"
	"fmt"
)

// DefaultSplitSize is the split length used when none is configured.
const DefaultSplitSize int64 = 64 * 1024 * 1024

// Plan divides [0, size) into consecutive splits of at most splitSize bytes.
// The splits cover the range without gaps or overlap; size 0 yields no splits.
func Plan(path string, size, splitSize int64) ([]Split, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative stream size %d for %s", size, path)
	}
	if splitSize <= 0 {
		return nil, fmt.Errorf("split size must be positive, got %d", splitSize)
	}

	splits := make([]Split, 0, (size+splitSize-1)/splitSize)
	for start := int64(0); start < size; start += splitSize {
		length := min(splitSize, size-start)
		splits = append(splits, Split{Path: path, Start: start, Length: length})
	}

	return splits, nil
}

// Planner plans splits for paths read from a Source.
type Planner struct {
	source    Source
	splitSize int64
}

// NewPlanner creates a Planner. A non-positive splitSize selects DefaultSplitSize.
func NewPlanner(source Source, splitSize int64) *Planner {
	if splitSize <= 0 {
		splitSize = DefaultSplitSize
	}

	return &Planner{source: source, splitSize: splitSize}
}

// SplitSize returns the configured split length.
func (p *Planner) SplitSize() int64 {
	return p.splitSize
}

// Plan returns the splits for path. Non-splittable paths get one split covering
// the whole stream.
func (p *Planner) Plan(ctx context.Context, path string) ([]Split, error) {
	size, err := p.source.Size(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to size %s: %w", path, err)
	}

	splitSize := p.splitSize
	if !IsSplittable(p.source, path) && size > 0 {
		splitSize = size
	}

	return Plan(path, size, splitSize)
}
