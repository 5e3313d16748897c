package format

import (
	"path"
	"strings"
)

type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Extension returns the file extension conventionally used for the compression type,
// including the leading dot. CompressionNone and unknown types return "".
func (c CompressionType) Extension() string {
	switch c { //nolint: exhaustive
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// CompressionFromPath detects the compression type from the extension of a path or URL.
// Paths without a recognized extension are reported as CompressionNone.
func CompressionFromPath(p string) CompressionType {
	ext := strings.ToLower(path.Ext(p))
	for _, ct := range []CompressionType{CompressionZstd, CompressionS2, CompressionLZ4} {
		if ext == ct.Extension() {
			return ct
		}
	}

	switch ext {
	case ".zstd":
		return CompressionZstd
	case ".sz":
		return CompressionS2
	default:
		return CompressionNone
	}
}

// ParseCompression parses a compression name such as "zstd" or "none".
// The empty string parses as CompressionNone.
func ParseCompression(name string) (CompressionType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, true
	case "zstd", "zst":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
