package recordfile

import (
	"fmt"
	"iter"

	"github.com/arloliu/tagsplit/compress"
	"github.com/arloliu/tagsplit/endian"
	"github.com/arloliu/tagsplit/errs"
	"github.com/arloliu/tagsplit/internal/hash"
	"github.com/arloliu/tagsplit/scanner"
)

// Reader decodes a record file held in memory.
//
// Record values returned by the reader alias its payload; with CompressionNone
// that is the slice passed to NewReader.
type Reader struct {
	header  Header
	engine  endian.EndianEngine
	payload []byte
}

// NewReader validates the header and checksum of data and decompresses the payload.
func NewReader(data []byte) (*Reader, error) {
	header, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	stored := data[HeaderSize:]
	if sum := hash.Sum(stored); sum != header.Checksum {
		return nil, fmt.Errorf("%w: want %#x, got %#x", errs.ErrChecksumMismatch, header.Checksum, sum)
	}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptRecordFile, err)
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptRecordFile, err)
	}
	if len(payload) != int(header.RawLength) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d",
			errs.ErrCorruptRecordFile, len(payload), header.RawLength)
	}

	return &Reader{
		header:  header,
		engine:  header.Engine(),
		payload: payload,
	}, nil
}

// Header returns the parsed header.
func (r *Reader) Header() Header {
	return r.header
}

// Len returns the number of records in the file.
func (r *Reader) Len() int {
	return int(r.header.Count)
}

// All iterates over the records in file order. A malformed entry yields an
// error wrapping errs.ErrCorruptRecordFile and ends the iteration.
func (r *Reader) All() iter.Seq2[scanner.Record, error] {
	return func(yield func(scanner.Record, error) bool) {
		data := r.payload
		for i := uint32(0); i < r.header.Count; i++ {
			if len(data) < entryOverhead {
				yield(scanner.Record{}, fmt.Errorf("%w: entry %d truncated", errs.ErrCorruptRecordFile, i))
				return
			}
			key := int64(r.engine.Uint64(data[0:8]))
			size := int(r.engine.Uint32(data[8:12]))
			data = data[entryOverhead:]
			if len(data) < size {
				yield(scanner.Record{}, fmt.Errorf("%w: entry %d value truncated", errs.ErrCorruptRecordFile, i))
				return
			}

			rec := scanner.Record{Key: key, Value: data[:size:size]}
			data = data[size:]
			if !yield(rec, nil) {
				return
			}
		}
		if len(data) != 0 {
			yield(scanner.Record{}, fmt.Errorf("%w: %d trailing bytes", errs.ErrCorruptRecordFile, len(data)))
		}
	}
}

// Records decodes every record.
func (r *Reader) Records() ([]scanner.Record, error) {
	out := make([]scanner.Record, 0, r.Len())
	for rec, err := range r.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}
