package store

import (
	"context"
	"sync"
)

// Slot is one named key-value blob. Reads and writes always cover the whole value.
type Slot interface {
	// Load returns the stored value, or nil with no error when nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Memory is a process-local slot for dev/testing.
type Memory struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemory creates an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the stored bytes.
func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

// Save replaces the stored bytes.
func (m *Memory) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}
