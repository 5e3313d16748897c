package pool

import (
	"io"
	"sync"
)

const (
	RecordBufferDefaultSize  = 1024 * 4        // 4KiB
	RecordBufferMaxThreshold = 1024 * 1024     // 1MiB
	FileBufferDefaultSize    = 1024 * 64       // 64KiB
	FileBufferMaxThreshold   = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable byte slice that keeps its capacity across Reset calls.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice. It is only valid until the next mutation.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Clone returns a copy of the buffer contents that the caller owns.
func (bb *ByteBuffer) Clone() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// Reset empties the buffer but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteByte appends a single byte. It never fails.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by RecordBufferDefaultSize; buffers past four times that grow
// by 25% of their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := RecordBufferDefaultSize
	if cap(bb.B) > 4*RecordBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers.
//
// Buffers whose capacity exceeds maxThreshold are dropped on Put, so one huge
// record does not pin its memory for the life of the process.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	recordDefaultPool = NewByteBufferPool(RecordBufferDefaultSize, RecordBufferMaxThreshold)
	fileDefaultPool   = NewByteBufferPool(FileBufferDefaultSize, FileBufferMaxThreshold)
)

// GetRecordBuffer retrieves a ByteBuffer sized for assembling a single record.
func GetRecordBuffer() *ByteBuffer {
	return recordDefaultPool.Get()
}

// PutRecordBuffer returns a record ByteBuffer to the default pool.
func PutRecordBuffer(bb *ByteBuffer) {
	recordDefaultPool.Put(bb)
}

// GetFileBuffer retrieves a ByteBuffer sized for a record file payload.
func GetFileBuffer() *ByteBuffer {
	return fileDefaultPool.Get()
}

// PutFileBuffer returns a file ByteBuffer to the default pool.
func PutFileBuffer(bb *ByteBuffer) {
	fileDefaultPool.Put(bb)
}
