package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/arloliu/tagsplit/errs"
	"github.com/arloliu/tagsplit/internal/options"
	"github.com/arloliu/tagsplit/internal/pool"
	"github.com/arloliu/tagsplit/split"
)

// DefaultReadBufferSize is the size of the read-ahead buffer over the stream.
const DefaultReadBufferSize = 32 * 1024

// Option configures a TagScanner.
type Option = options.Option[*TagScanner]

// WithReadBufferSize sets the read-ahead buffer size. It must be positive.
// Read-ahead may fetch up to size bytes past the split end; Pos only counts
// bytes the scanner consumed.
func WithReadBufferSize(size int) Option {
	return options.New(func(s *TagScanner) error {
		if size <= 0 {
			return fmt.Errorf("read buffer size must be positive, got %d", size)
		}
		s.readBufferSize = size

		return nil
	})
}

// WithMaxRecordSize bounds the number of bytes a single record may accumulate.
// A record exceeding it fails Next with errs.ErrRecordTooLarge. Zero means unlimited.
func WithMaxRecordSize(size int) Option {
	return options.New(func(s *TagScanner) error {
		if size < 0 {
			return fmt.Errorf("max record size must not be negative, got %d", size)
		}
		s.maxRecordSize = size

		return nil
	})
}

// WithLogger sets the logger used for errors that are suppressed, such as a
// failing stream close. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(s *TagScanner) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// TagScanner reads the records of one split. See the package documentation.
//
// Note: TagScanner is NOT thread-safe.
type TagScanner struct {
	startTag []byte
	endTag   []byte
	split    split.Split
	start    int64
	end      int64
	pos      int64

	stream io.ReadSeeker
	reader *bufio.Reader
	buffer *pool.ByteBuffer
	logger *slog.Logger

	readBufferSize int
	maxRecordSize  int
	attrSpace      bool
	closed         bool
}

// New creates a scanner over sp, reading tags from conf under StartTagKey and EndTagKey.
//
// The stream is seeked to sp.Start. On error no scanner is returned and the
// stream stays open; the caller still owns it.
func New(stream io.ReadSeeker, sp split.Split, conf Config, opts ...Option) (*TagScanner, error) {
	startTag, endTag, err := lookupTags(conf)
	if err != nil {
		return nil, err
	}

	return NewWithTags(stream, sp, startTag, endTag, opts...)
}

// NewWithTags creates a scanner over sp with explicit tags. The tags are copied.
func NewWithTags(stream io.ReadSeeker, sp split.Split, startTag, endTag []byte, opts ...Option) (*TagScanner, error) {
	if len(startTag) == 0 {
		return nil, fmt.Errorf("%w: start tag", errs.ErrEmptyTag)
	}
	if len(endTag) == 0 {
		return nil, fmt.Errorf("%w: end tag", errs.ErrEmptyTag)
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	s := &TagScanner{
		startTag:       append([]byte(nil), startTag...),
		endTag:         append([]byte(nil), endTag...),
		split:          sp,
		start:          sp.Start,
		end:            sp.End(),
		pos:            sp.Start,
		stream:         stream,
		logger:         slog.New(slog.DiscardHandler),
		readBufferSize: DefaultReadBufferSize,
	}

	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	if _, err := stream.Seek(sp.Start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s to %d: %w", sp.Path, sp.Start, err)
	}

	s.reader = bufio.NewReaderSize(stream, s.readBufferSize)
	s.buffer = pool.GetRecordBuffer()

	return s, nil
}

// Open opens sp.Path from src and creates a scanner over it. The stream is closed
// if the scanner cannot be created, and by Close otherwise.
func Open(ctx context.Context, src split.Source, sp split.Split, conf Config, opts ...Option) (*TagScanner, error) {
	stream, err := src.Open(ctx, sp.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", sp.Path, err)
	}

	s, err := New(stream, sp, conf, opts...)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}

	return s, nil
}

// Next returns the next record of the split, or io.EOF when there is none.
//
// io.EOF is returned when the cursor is at or past the split end, when no start
// tag begins before the split end, or when the stream ends before the end tag of
// a started record. In the last case the partial record is discarded.
func (s *TagScanner) Next() (Record, error) {
	if s.closed {
		return Record{}, errs.ErrScannerClosed
	}
	if s.pos >= s.end {
		return Record{}, io.EOF
	}

	defer s.buffer.Reset()

	found, err := s.readUntilMatch(s.startTag, false)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, io.EOF
	}

	s.buffer.MustWrite(s.startTag)

	found, err = s.readUntilMatch(s.endTag, true)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, io.EOF
	}

	return Record{Key: s.pos, Value: s.buffer.Clone()}, nil
}

// Records returns an iterator over the remaining records. Iteration stops after
// the last record or after yielding the first error.
func (s *TagScanner) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := s.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Pos returns the absolute stream offset of the cursor.
func (s *TagScanner) Pos() int64 {
	return s.pos
}

// Progress returns how far the cursor has moved through the split, in [0, 1].
// An empty split reports 1.
func (s *TagScanner) Progress() float64 {
	if s.end == s.start {
		return 1.0
	}

	p := float64(s.pos-s.start) / float64(s.end-s.start)

	return min(max(p, 0), 1)
}

// Split returns the split the scanner reads.
func (s *TagScanner) Split() split.Split {
	return s.split
}

// StartTag returns a copy of the start tag currently matched against.
func (s *TagScanner) StartTag() []byte {
	return append([]byte(nil), s.startTag...)
}

// EndTag returns a copy of the end tag.
func (s *TagScanner) EndTag() []byte {
	return append([]byte(nil), s.endTag...)
}

// AttributeMode reports whether a start tag with attributes has been seen, which
// switched the stored start tag to end in a space.
func (s *TagScanner) AttributeMode() bool {
	return s.attrSpace
}

// Close releases the record buffer and closes the stream if it is an io.Closer.
// Closing is best-effort: a stream close error, for example on a stream its owner
// already closed, is logged and never returned. Only the first call does any work.
func (s *TagScanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	pool.PutRecordBuffer(s.buffer)
	s.buffer = nil
	s.reader = nil

	if c, ok := s.stream.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Warn("failed to close stream", "split", s.split.String(), "error", err)
		}
	}

	return nil
}
