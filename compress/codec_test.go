package compress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/tagsplit/format"
)

func sampleXML() []byte {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("<page><title>t</title><text>some repeated body text</text></page>\n")
	}

	return []byte(sb.String())
}

func TestCodecs_RoundTrip(t *testing.T) {
	data := sampleXML()

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := CreateCodec(ct, "test")
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)
			if ct != format.CompressionNone {
				require.Less(t, len(compressed), len(data))
			}

			out, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, out)
		})
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, codec := range []Codec{NewS2Compressor(), NewLZ4Compressor(), NewZstdCompressor()} {
		out, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Empty(t, out)
	}
}

func TestCreateCodec_Invalid(t *testing.T) {
	_, err := CreateCodec(format.CompressionType(0x7f), "input")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid input compression")

	_, err = GetCodec(format.CompressionType(0x7f))
	require.Error(t, err)
}

func TestForPath(t *testing.T) {
	codec, ct, err := ForPath("dump.xml.zst")
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, ct)
	require.IsType(t, ZstdCompressor{}, codec)

	codec, ct, err = ForPath("dump.xml")
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, ct)
	require.IsType(t, NoOpCompressor{}, codec)
}

func TestLZ4Compressor_DecompressFrame(t *testing.T) {
	data := sampleXML()

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := NewLZ4Compressor().Decompress(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestS2Compressor_DecompressStream(t *testing.T) {
	data := sampleXML()

	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := NewS2Compressor().Decompress(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestZstdCompressor_CorruptInput(t *testing.T) {
	_, err := NewZstdCompressor().Decompress([]byte("definitely not zstd"))
	require.Error(t, err)
}
