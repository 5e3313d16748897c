// Package tagsplit extracts tag-delimited records from large byte streams, split
// by split, so that independent workers can process one stream in parallel.
//
// A record is every byte from a start tag such as "<page>" through the following
// end tag "</page>". Matching is byte-literal; no XML parsing is done.
//
// # Core Features
//
//   - Split-aware scanning: each record is produced by exactly one split reader
//   - Records may run past the split end; readers never coordinate
//   - Start tags carrying attributes are accepted (`<page id="1">` for "<page>")
//   - Sources for local files, afs URLs (mem://, gs://, s3://) and memory
//   - Transparent decompression of .zst, .s2 and .lz4 inputs
//   - Parallel runner with optional exactly-once verification
//   - Compact, checksummed record file output
//
// # Basic Usage
//
// Extracting records from a file with parallel split readers:
//
//	recs, err := tagsplit.Extract(ctx, "dumps/pages.xml", "<page>", "</page>",
//	    runner.WithSplitSize(64<<20),
//	    runner.WithConcurrency(8),
//	)
//
// Scanning a single split by hand:
//
//	sc, err := tagsplit.NewScanner(f, split.Split{Path: name, Start: off, Length: n}, "<page>", "</page>")
//	if err != nil {
//	    return err
//	}
//	defer sc.Close()
//	for rec, err := range sc.Records() {
//	    ...
//	}
//
// # Package Structure
//
// This package wraps the scanner, runner and recordfile packages for the most
// common cases. Use those packages directly for fine-grained control.
package tagsplit

import (
	"bytes"
	"context"
	"io"

	"github.com/arloliu/tagsplit/format"
	"github.com/arloliu/tagsplit/internal/hash"
	"github.com/arloliu/tagsplit/recordfile"
	"github.com/arloliu/tagsplit/runner"
	"github.com/arloliu/tagsplit/scanner"
	"github.com/arloliu/tagsplit/split"
)

// Record is one extracted record.
type Record = scanner.Record

// NewScanner creates a scanner over one split of stream.
func NewScanner(stream io.ReadSeeker, sp split.Split, startTag, endTag string, opts ...scanner.Option) (*scanner.TagScanner, error) {
	return scanner.New(stream, sp, scanner.Tags(startTag, endTag), opts...)
}

// Extract scans every split of path in parallel and returns all records in stream order.
//
// Without a runner.WithSource option, path may be a local path or any afs URL,
// and compressed inputs are decompressed by extension.
func Extract(ctx context.Context, path, startTag, endTag string, opts ...runner.Option) ([]Record, error) {
	r, err := runner.New(scanner.Tags(startTag, endTag), opts...)
	if err != nil {
		return nil, err
	}

	recs, _, err := r.Collect(ctx, path)

	return recs, err
}

// ExtractBytes returns every record of data, scanned as a single split.
func ExtractBytes(data []byte, startTag, endTag string) ([]Record, error) {
	sp := split.Split{Path: "bytes", Start: 0, Length: int64(len(data))}
	sc, err := NewScanner(bytes.NewReader(data), sp, startTag, endTag)
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	var recs []Record
	for rec, err := range sc.Records() {
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

// WriteRecordFile writes recs to w as a record file with the given payload compression.
func WriteRecordFile(w io.Writer, recs []Record, compression format.CompressionType) error {
	rw, err := recordfile.NewWriter(w, recordfile.WithCompression(compression))
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := rw.Write(rec); err != nil {
			return err
		}
	}

	return rw.Close()
}

// ReadRecordFile decodes every record of a record file.
func ReadRecordFile(data []byte) ([]Record, error) {
	r, err := recordfile.NewReader(data)
	if err != nil {
		return nil, err
	}

	return r.Records()
}

// RecordID returns the 64-bit fingerprint of a record value.
func RecordID(value []byte) uint64 {
	return hash.Sum(value)
}
