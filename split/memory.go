package split

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/arloliu/tagsplit/errs"
)

// MemorySource serves named in-memory byte slices. It is safe for concurrent use.
type MemorySource struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ Source = (*MemorySource)(nil)

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{blobs: make(map[string][]byte)}
}

// Put stores data under path. The slice must not be modified afterwards.
func (m *MemorySource) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[path] = data
}

// Open returns a stream over the data stored under path.
func (m *MemorySource) Open(_ context.Context, path string) (Stream, error) {
	data, err := m.get(path)
	if err != nil {
		return nil, err
	}

	return nopCloser{bytes.NewReader(data)}, nil
}

// Size returns the length of the data stored under path.
func (m *MemorySource) Size(_ context.Context, path string) (int64, error) {
	data, err := m.get(path)
	if err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}

func (m *MemorySource) get(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrObjectNotFound, path)
	}

	return data, nil
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
