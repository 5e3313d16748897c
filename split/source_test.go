package split

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/arloliu/tagsplit/compress"
	"github.com/arloliu/tagsplit/errs"
)

const sampleDoc = "<a>one</a><a>two</a><a>three</a>"

func readFrom(t *testing.T, stream Stream, offset int64) string {
	t.Helper()

	pos, err := stream.Seek(offset, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, offset, pos)

	data, err := io.ReadAll(stream)
	require.NoError(t, err)

	return string(data)
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))

	src := NewFileSource()

	size, err := src.Size(ctx, path)
	require.NoError(t, err)
	require.Equal(t, int64(len(sampleDoc)), size)

	stream, err := src.Open(ctx, path)
	require.NoError(t, err)
	defer stream.Close()
	require.Equal(t, sampleDoc[10:], readFrom(t, stream, 10))

	_, err = src.Open(ctx, filepath.Join(t.TempDir(), "missing.xml"))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = src.Size(ctx, t.TempDir())
	require.Error(t, err)
}

func TestMemorySource(t *testing.T) {
	ctx := context.Background()
	src := NewMemorySource()
	src.Put("doc", []byte(sampleDoc))

	size, err := src.Size(ctx, "doc")
	require.NoError(t, err)
	require.Equal(t, int64(len(sampleDoc)), size)

	stream, err := src.Open(ctx, "doc")
	require.NoError(t, err)
	require.Equal(t, sampleDoc[3:], readFrom(t, stream, 3))
	require.NoError(t, stream.Close())

	_, err = src.Open(ctx, "nope")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	require.True(t, IsSplittable(src, "doc"))
}

func TestAFSSource(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/tagsplit/split_test/doc.xml"
	require.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader([]byte(sampleDoc))))

	src := NewAFSSourceWith(fs)

	size, err := src.Size(ctx, URL)
	require.NoError(t, err)
	require.Equal(t, int64(len(sampleDoc)), size)

	t.Run("forward seek", func(t *testing.T) {
		stream, err := src.Open(ctx, URL)
		require.NoError(t, err)
		defer stream.Close()
		require.Equal(t, sampleDoc[10:], readFrom(t, stream, 10))
	})

	t.Run("backward seek reopens", func(t *testing.T) {
		stream, err := src.Open(ctx, URL)
		require.NoError(t, err)
		defer stream.Close()

		require.Equal(t, sampleDoc[20:], readFrom(t, stream, 20))
		require.Equal(t, sampleDoc[5:], readFrom(t, stream, 5))
	})

	t.Run("seek relative to end", func(t *testing.T) {
		stream, err := src.Open(ctx, URL)
		require.NoError(t, err)
		defer stream.Close()

		pos, err := stream.Seek(-4, io.SeekEnd)
		require.NoError(t, err)
		require.Equal(t, int64(len(sampleDoc)-4), pos)

		_, err = stream.Seek(-100, io.SeekCurrent)
		require.ErrorIs(t, err, errs.ErrNegativeSeek)
	})

	t.Run("close twice", func(t *testing.T) {
		stream, err := src.Open(ctx, URL)
		require.NoError(t, err)
		require.NoError(t, stream.Close())
		require.NoError(t, stream.Close())
	})

	t.Run("local path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "local.xml")
		require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))

		stream, err := src.Open(ctx, path)
		require.NoError(t, err)
		defer stream.Close()
		require.Equal(t, sampleDoc, readFrom(t, stream, 0))
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := src.Open(ctx, "mem://localhost/tagsplit/split_test/missing.xml")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

// countingSource counts the streams it opens and the bytes read through them.
type countingSource struct {
	Source
	opens int
	read  int64
}

func (c *countingSource) Open(ctx context.Context, path string) (Stream, error) {
	stream, err := c.Source.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	c.opens++

	return &countingStream{Stream: stream, read: &c.read}, nil
}

type countingStream struct {
	Stream
	read *int64
}

func (c *countingStream) Read(p []byte) (int, error) {
	n, err := c.Stream.Read(p)
	*c.read += int64(n)

	return n, err
}

func TestLocationSource(t *testing.T) {
	ctx := context.Background()

	const size = 1 << 20
	data := bytes.Repeat([]byte("0123456789abcdef"), size/16)
	path := filepath.Join(t.TempDir(), "big.xml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	mem := NewMemorySource()
	mem.Put("mem://localhost/doc.xml", []byte(sampleDoc))
	remote := &countingSource{Source: mem}
	src := NewLocationSourceWith(remote)

	for _, location := range []string{path, "file://" + path} {
		t.Run(location, func(t *testing.T) {
			n, err := src.Size(ctx, location)
			require.NoError(t, err)
			require.Equal(t, int64(size), n)

			stream, err := src.Open(ctx, location)
			require.NoError(t, err)
			defer stream.Close()
			require.IsType(t, &os.File{}, stream)

			const offset = size - 16
			pos, err := stream.Seek(offset, io.SeekStart)
			require.NoError(t, err)
			require.Equal(t, int64(offset), pos)

			buf := make([]byte, 4)
			_, err = io.ReadFull(stream, buf)
			require.NoError(t, err)
			require.Equal(t, "0123", string(buf))
		})
	}
	require.Zero(t, remote.opens)

	t.Run("remote scheme", func(t *testing.T) {
		stream, err := src.Open(ctx, "mem://localhost/doc.xml")
		require.NoError(t, err)
		defer stream.Close()

		require.Equal(t, sampleDoc[10:], readFrom(t, stream, 10))
		require.Equal(t, 1, remote.opens)
		require.Equal(t, int64(len(sampleDoc)-10), remote.read)
	})

	t.Run("missing local file", func(t *testing.T) {
		_, err := src.Open(ctx, filepath.Join(t.TempDir(), "missing.xml"))
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestCompressedSource(t *testing.T) {
	ctx := context.Background()
	plain := []byte(sampleDoc)

	zstdData, err := compress.NewZstdCompressor().Compress(plain)
	require.NoError(t, err)

	var lz4Frame bytes.Buffer
	w := lz4.NewWriter(&lz4Frame)
	_, err = w.Write(plain)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	inner := NewMemorySource()
	inner.Put("doc.xml", plain)
	inner.Put("doc.xml.zst", zstdData)
	inner.Put("doc.xml.lz4", lz4Frame.Bytes())
	inner.Put("broken.xml.zst", []byte("garbage"))

	src := NewCompressedSource(inner)

	for _, path := range []string{"doc.xml", "doc.xml.zst", "doc.xml.lz4"} {
		t.Run(path, func(t *testing.T) {
			size, err := src.Size(ctx, path)
			require.NoError(t, err)
			require.Equal(t, int64(len(plain)), size)

			stream, err := src.Open(ctx, path)
			require.NoError(t, err)
			defer stream.Close()
			require.Equal(t, sampleDoc[10:], readFrom(t, stream, 10))
		})
	}

	require.True(t, src.Splittable("doc.xml"))
	require.False(t, src.Splittable("doc.xml.zst"))

	_, err = src.Open(ctx, "broken.xml.zst")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decompress")
}

func TestPlanner(t *testing.T) {
	ctx := context.Background()
	inner := NewMemorySource()
	inner.Put("doc.xml", bytes.Repeat([]byte("x"), 250))

	zstdData, err := compress.NewZstdCompressor().Compress(bytes.Repeat([]byte("x"), 250))
	require.NoError(t, err)
	inner.Put("doc.xml.zst", zstdData)
	inner.Put("empty.xml", nil)

	src := NewCompressedSource(inner)
	p := NewPlanner(src, 100)
	require.Equal(t, int64(100), p.SplitSize())

	splits, err := p.Plan(ctx, "doc.xml")
	require.NoError(t, err)
	require.Len(t, splits, 3)

	splits, err = p.Plan(ctx, "doc.xml.zst")
	require.NoError(t, err)
	require.Equal(t, []Split{{Path: "doc.xml.zst", Start: 0, Length: 250}}, splits)

	splits, err = p.Plan(ctx, "empty.xml")
	require.NoError(t, err)
	require.Empty(t, splits)

	_, err = p.Plan(ctx, "missing.xml")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	require.Equal(t, DefaultSplitSize, NewPlanner(src, 0).SplitSize())
}
