package recordfile

import (
	"fmt"

	"github.com/arloliu/tagsplit/endian"
	"github.com/arloliu/tagsplit/errs"
	"github.com/arloliu/tagsplit/format"
)

const (
	// HeaderSize is the fixed size of the record file header.
	HeaderSize = 24
	// Version is the record file layout version written by this package.
	Version = 1
	// entryOverhead is the key and length prefix stored before each value.
	entryOverhead = 8 + 4

	flagBigEndian = 0x01
)

// Magic identifies a record file.
var Magic = [4]byte{'T', 'S', 'R', 'F'}

// Header is the fixed-size preamble of a record file.
//
// Layout (multi-byte fields use the byte order selected by Flags):
//
//	0-3   magic "TSRF"
//	4     version
//	5     flags (bit 0: big-endian)
//	6     compression type
//	7     reserved
//	8-11  record count
//	12-15 uncompressed payload length
//	16-23 xxHash64 of the stored (possibly compressed) payload
type Header struct {
	Version     uint8
	Flags       uint8
	Compression format.CompressionType
	Count       uint32
	RawLength   uint32
	Checksum    uint64
}

// Engine returns the byte order selected by the header flags.
func (h Header) Engine() endian.EndianEngine {
	if h.Flags&flagBigEndian != 0 {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

func (h Header) appendTo(buf []byte) []byte {
	engine := h.Engine()

	buf = append(buf, Magic[:]...)
	buf = append(buf, h.Version, h.Flags, byte(h.Compression), 0)
	buf = engine.AppendUint32(buf, h.Count)
	buf = engine.AppendUint32(buf, h.RawLength)
	buf = engine.AppendUint64(buf, h.Checksum)

	return buf
}

func parseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}
	if [4]byte(data[0:4]) != Magic {
		return Header{}, errs.ErrInvalidMagic
	}

	h := Header{
		Version:     data[4],
		Flags:       data[5],
		Compression: format.CompressionType(data[6]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}

	engine := h.Engine()
	h.Count = engine.Uint32(data[8:12])
	h.RawLength = engine.Uint32(data[12:16])
	h.Checksum = engine.Uint64(data[16:24])

	return h, nil
}
