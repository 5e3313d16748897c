// Package split describes byte-range slices of a stream and the sources they are
// read from.
//
// A Split is the unit of parallel work: one scanner reads one split. Splits only
// bound where a record may begin; a reader may read past End to finish a record.
package split

import (
	"fmt"

	"github.com/arloliu/tagsplit/errs"
)

// Split is a contiguous byte range [Start, Start+Length) of the stream at Path.
type Split struct {
	Path   string
	Start  int64
	Length int64
}

// New creates a validated split.
func New(path string, start, length int64) (Split, error) {
	s := Split{Path: path, Start: start, Length: length}
	if err := s.Validate(); err != nil {
		return Split{}, err
	}

	return s, nil
}

// End returns the exclusive end offset of the split.
func (s Split) End() int64 {
	return s.Start + s.Length
}

// Contains reports whether offset lies inside the split.
func (s Split) Contains(offset int64) bool {
	return offset >= s.Start && offset < s.End()
}

// Validate checks that the split bounds are non-negative.
func (s Split) Validate() error {
	if s.Start < 0 || s.Length < 0 {
		return fmt.Errorf("%w: start=%d length=%d", errs.ErrInvalidSplit, s.Start, s.Length)
	}

	return nil
}

func (s Split) String() string {
	return fmt.Sprintf("%s:[%d,%d)", s.Path, s.Start, s.End())
}
