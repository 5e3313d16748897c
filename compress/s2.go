package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
)

// s2StreamMagic is the stream identifier chunk written by s2.Writer and the s2c tool.
var s2StreamMagic = []byte("\xff\x06\x00\x00S2sTwO")

// S2Compressor provides S2 block compression. Decompress also accepts S2 streams.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data as a single S2 block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses an S2 stream or a single S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if bytes.HasPrefix(data, s2StreamMagic) {
		out, err := io.ReadAll(s2.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("s2 stream decompression failed: %w", err)
		}

		return out, nil
	}

	return s2.Decode(nil, data)
}
