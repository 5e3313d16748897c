package scanner

import "github.com/arloliu/tagsplit/internal/hash"

// Record is one extracted record.
type Record struct {
	// Key is the stream offset just past the record's end tag.
	Key int64
	// Value holds the bytes from the start tag through the end tag. The caller owns it.
	Value []byte
}

// ID returns the xxHash64 fingerprint of the record value.
func (r Record) ID() uint64 {
	return hash.Sum(r.Value)
}

// Offset returns the stream offset of the record's first byte.
func (r Record) Offset() int64 {
	return r.Key - int64(len(r.Value))
}
