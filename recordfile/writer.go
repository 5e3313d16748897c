// Package recordfile stores extracted records in a compact container.
//
// A record file is a header followed by one payload holding every record as
// key (uint64), value length (uint32) and value bytes. The payload may be
// compressed with any codec from the compress package and is protected by an
// xxHash64 checksum.
package recordfile

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/tagsplit/compress"
	"github.com/arloliu/tagsplit/endian"
	"github.com/arloliu/tagsplit/errs"
	"github.com/arloliu/tagsplit/format"
	"github.com/arloliu/tagsplit/internal/hash"
	"github.com/arloliu/tagsplit/internal/options"
	"github.com/arloliu/tagsplit/internal/pool"
	"github.com/arloliu/tagsplit/scanner"
)

// WriterOption configures a Writer.
type WriterOption = options.Option[*Writer]

// WithCompression selects the payload compression.
func WithCompression(ct format.CompressionType) WriterOption {
	return options.New(func(w *Writer) error {
		codec, err := compress.CreateCodec(ct, "payload")
		if err != nil {
			return err
		}
		w.codec = codec
		w.header.Compression = ct

		return nil
	})
}

// WithBigEndian stores multi-byte fields in big-endian order.
func WithBigEndian() WriterOption {
	return options.NoError(func(w *Writer) {
		w.header.Flags |= flagBigEndian
		w.engine = endian.GetBigEndianEngine()
	})
}

// WithLittleEndian stores multi-byte fields in little-endian order. This is the default.
func WithLittleEndian() WriterOption {
	return options.NoError(func(w *Writer) {
		w.header.Flags &^= flagBigEndian
		w.engine = endian.GetLittleEndianEngine()
	})
}

// Writer buffers records and writes the record file on Close.
//
// Note: Writer is NOT thread-safe.
type Writer struct {
	out    io.Writer
	header Header
	engine endian.EndianEngine
	codec  compress.Codec
	buf    *pool.ByteBuffer
	closed bool
}

// NewWriter creates a Writer that emits to out. Nothing is written before Close.
func NewWriter(out io.Writer, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		out: out,
		header: Header{
			Version:     Version,
			Compression: format.CompressionNone,
		},
		engine: endian.GetLittleEndianEngine(),
		codec:  compress.NewNoOpCompressor(),
	}

	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}
	w.buf = pool.GetFileBuffer()

	return w, nil
}

// Write appends one record.
func (w *Writer) Write(rec scanner.Record) error {
	if w.closed {
		return errs.ErrWriterClosed
	}
	if uint64(len(rec.Value)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", errs.ErrRecordTooLarge, len(rec.Value))
	}
	if w.header.Count == math.MaxUint32 {
		return fmt.Errorf("%w: too many records", errs.ErrRecordTooLarge)
	}

	w.buf.Grow(entryOverhead + len(rec.Value))
	w.buf.B = w.engine.AppendUint64(w.buf.B, uint64(rec.Key))
	w.buf.B = w.engine.AppendUint32(w.buf.B, uint32(len(rec.Value)))
	w.buf.MustWrite(rec.Value)
	w.header.Count++

	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return int(w.header.Count)
}

// Close compresses the payload and writes header and payload to the output.
// Later calls return nil.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer func() {
		pool.PutFileBuffer(w.buf)
		w.buf = nil
	}()

	if uint64(w.buf.Len()) > math.MaxUint32 {
		return fmt.Errorf("%w: payload of %d bytes", errs.ErrRecordTooLarge, w.buf.Len())
	}
	w.header.RawLength = uint32(w.buf.Len())

	payload, err := w.codec.Compress(w.buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to compress payload: %w", err)
	}
	w.header.Checksum = hash.Sum(payload)

	if _, err := w.out.Write(w.header.appendTo(make([]byte, 0, HeaderSize))); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.out.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}

	return nil
}
