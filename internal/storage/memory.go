package storage

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrQuotaExceeded is returned by a Memory store whose quota is exhausted.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Memory keeps blobs in process memory (dev/test use). A positive Quota
// caps the size of any single value.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	Quota int
}

func NewMemory() *Memory {
	return &Memory{blobs: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.blobs[key]
	return slices.Clone(v), ok, nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Quota > 0 && len(value) > m.Quota {
		return ErrQuotaExceeded
	}
	m.blobs[key] = slices.Clone(value)
	return nil
}
