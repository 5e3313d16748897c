package split

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/arloliu/tagsplit/errs"
)

// AFSSource reads objects through github.com/viant/afs, which covers local files
// (file://), in-memory objects (mem://) and cloud storage (gs://, s3://) when the
// corresponding afs connectors are linked in.
//
// Object storage readers are forward-only, so streams emulate Seek by discarding
// bytes and reopen the object when asked to move backwards.
type AFSSource struct {
	fs afs.Service
}

var _ Source = (*AFSSource)(nil)

// NewAFSSource creates a Source backed by the default afs service.
func NewAFSSource() *AFSSource {
	return &AFSSource{fs: afs.New()}
}

// NewAFSSourceWith creates a Source backed by the given afs service.
func NewAFSSourceWith(fs afs.Service) *AFSSource {
	return &AFSSource{fs: fs}
}

// Open opens the object at location.
func (s *AFSSource) Open(ctx context.Context, location string) (Stream, error) {
	URL, err := normalizeURL(location)
	if err != nil {
		return nil, err
	}

	size, err := s.size(ctx, URL)
	if err != nil {
		return nil, err
	}

	stream := &afsStream{
		ctx:  ctx,
		fs:   s.fs,
		URL:  URL,
		size: size,
	}
	if err := stream.reopen(); err != nil {
		return nil, err
	}

	return stream, nil
}

// Size returns the size of the object at location.
func (s *AFSSource) Size(ctx context.Context, location string) (int64, error) {
	URL, err := normalizeURL(location)
	if err != nil {
		return 0, err
	}

	return s.size(ctx, URL)
}

func (s *AFSSource) size(ctx context.Context, URL string) (int64, error) {
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return 0, fmt.Errorf("failed to check %s: %w", URL, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrObjectNotFound, URL)
	}

	object, err := s.fs.Object(ctx, URL)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", URL, err)
	}
	if object.IsDir() {
		return 0, fmt.Errorf("%s is a directory", URL)
	}

	return object.Size(), nil
}

// normalizeURL turns plain OS paths into file URLs and leaves URLs untouched.
func normalizeURL(location string) (string, error) {
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		abs, err := filepath.Abs(norm)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for %s: %w", location, err)
		}
		norm = abs
	}
	if url.Scheme(norm, "") == "" {
		norm = url.ToFileURL(norm)
	}

	return norm, nil
}

type afsStream struct {
	ctx    context.Context //nolint:containedctx
	fs     afs.Service
	URL    string
	size   int64
	pos    int64
	reader io.ReadCloser
}

func (s *afsStream) reopen() error {
	if s.reader != nil {
		_ = s.reader.Close()
		s.reader = nil
	}

	reader, err := s.fs.OpenURL(s.ctx, s.URL)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.URL, err)
	}
	s.reader = reader
	s.pos = 0

	return nil
}

func (s *afsStream) Read(p []byte) (int, error) {
	if s.reader == nil {
		return 0, io.ErrClosedPipe
	}

	n, err := s.reader.Read(p)
	s.pos += int64(n)

	return n, err
}

func (s *afsStream) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		target = s.size + offset
	default:
		return s.pos, fmt.Errorf("invalid whence: %d", whence)
	}
	if target < 0 {
		return s.pos, fmt.Errorf("%w: %d", errs.ErrNegativeSeek, target)
	}

	if target < s.pos {
		if err := s.reopen(); err != nil {
			return s.pos, err
		}
	}
	if target > s.pos {
		if _, err := io.CopyN(io.Discard, s, target-s.pos); err != nil && err != io.EOF {
			return s.pos, fmt.Errorf("failed to seek %s to %d: %w", s.URL, target, err)
		}
	}

	return s.pos, nil
}

func (s *afsStream) Close() error {
	if s.reader == nil {
		return nil
	}

	err := s.reader.Close()
	s.reader = nil

	return err
}
