package split

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/arloliu/tagsplit/compress"
	"github.com/arloliu/tagsplit/format"
)

// CompressedSource wraps a Source and transparently decompresses paths whose
// extension names a supported codec (.zst, .s2, .lz4).
//
// Compressed streams cannot be entered mid-frame, so they are reported as not
// splittable; the planner assigns them a single split over the decompressed bytes.
// Decompressed payloads are cached per path for the lifetime of the source.
type CompressedSource struct {
	inner Source

	mu    sync.Mutex
	cache map[string][]byte
}

var (
	_ Source                = (*CompressedSource)(nil)
	_ SplittabilityReporter = (*CompressedSource)(nil)
)

// NewCompressedSource wraps inner.
func NewCompressedSource(inner Source) *CompressedSource {
	return &CompressedSource{
		inner: inner,
		cache: make(map[string][]byte),
	}
}

// Splittable reports false for compressed paths.
func (c *CompressedSource) Splittable(path string) bool {
	if format.CompressionFromPath(path) != format.CompressionNone {
		return false
	}

	return IsSplittable(c.inner, path)
}

// Open returns a stream over the decompressed content of path.
func (c *CompressedSource) Open(ctx context.Context, path string) (Stream, error) {
	if format.CompressionFromPath(path) == format.CompressionNone {
		return c.inner.Open(ctx, path)
	}

	data, err := c.load(ctx, path)
	if err != nil {
		return nil, err
	}

	return nopCloser{bytes.NewReader(data)}, nil
}

// Size returns the decompressed size of path.
func (c *CompressedSource) Size(ctx context.Context, path string) (int64, error) {
	if format.CompressionFromPath(path) == format.CompressionNone {
		return c.inner.Size(ctx, path)
	}

	data, err := c.load(ctx, path)
	if err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}

func (c *CompressedSource) load(ctx context.Context, path string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.cache[path]; ok {
		return data, nil
	}

	codec, ct, err := compress.ForPath(path)
	if err != nil {
		return nil, err
	}

	stream, err := c.inner.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	raw, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data, err := codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s (%s): %w", path, ct, err)
	}
	c.cache[path] = data

	return data, nil
}
