// Package compress provides the block codecs used for compressed input files and
// for record file payloads.
//
// Supported algorithms:
//   - None: pass-through
//   - Zstd: best ratio, moderate speed (pure Go by default, cgo gozstd with the gozstd build tag)
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//
// Compressed inputs are not splittable: a reader has to start at the beginning of
// the compressed frame, so the split package materializes them in memory and plans
// a single split over the decompressed bytes.
package compress

// ZstdCompressor provides Zstandard compression.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
//
// Example:
//
//	codec := compress.NewZstdCompressor()
//	compressed, err := codec.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
