package endian

import (
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	le := GetLittleEndianEngine()
	be := GetBigEndianEngine()

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le.AppendUint32(nil, 0x01020304))
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be.AppendUint32(nil, 0x01020304))

	require.Equal(t, uint64(0x0102030405060708), be.Uint64(be.AppendUint64(nil, 0x0102030405060708)))

	require.True(t, IsBigEndian(be))
	require.False(t, IsBigEndian(le))
}

func TestCheckEndianness(t *testing.T) {
	switch runtime.GOARCH {
	case "amd64", "arm64", "386", "riscv64":
		require.Equal(t, binary.ByteOrder(binary.LittleEndian), CheckEndianness())
		require.True(t, IsNativeLittleEndian())
	}
}
