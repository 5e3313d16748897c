// Package endian selects the byte order used by record file headers and entries.
//
// EndianEngine joins binary.ByteOrder and binary.AppendByteOrder so writers can
// append fixed-width integers directly to a buffer:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint64(buf, uint64(rec.Key))
//
// All functions are safe for concurrent use; engines are stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
// binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness reports the host's byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine is the big-endian engine.
func IsBigEndian(engine EndianEngine) bool {
	return engine == EndianEngine(binary.BigEndian)
}
