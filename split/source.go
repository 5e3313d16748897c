package split

import (
	"context"
	"io"
)

// Stream is an open, seekable byte stream.
type Stream interface {
	io.ReadSeekCloser
}

// Source opens streams by path or URL.
//
// Implementations must return independent streams from each Open call so that
// splits of the same path can be read concurrently.
type Source interface {
	// Open opens the stream at path, positioned at offset 0.
	Open(ctx context.Context, path string) (Stream, error)
	// Size returns the logical length of the stream at path.
	Size(ctx context.Context, path string) (int64, error)
}

// SplittabilityReporter is implemented by sources whose streams cannot always be
// divided into independently readable ranges.
type SplittabilityReporter interface {
	Splittable(path string) bool
}

// IsSplittable reports whether path read from src may be planned into more than one split.
func IsSplittable(src Source, path string) bool {
	if r, ok := src.(SplittabilityReporter); ok {
		return r.Splittable(path)
	}

	return true
}
