package store

import (
	"context"
	"sync"
)

type memoryEntry struct {
	value    []byte
	revision Revision
}

// MemorySubstrate keeps records in process memory. Several stores may share
// one instance to behave like contexts on the same device.
type MemorySubstrate struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	capacity int
	used     int
}

// NewMemorySubstrate creates an empty substrate. A positive capacity bounds
// the total stored bytes across all keys.
func NewMemorySubstrate(capacity int) *MemorySubstrate {
	return &MemorySubstrate{entries: make(map[string]memoryEntry), capacity: capacity}
}

func (m *MemorySubstrate) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (m *MemorySubstrate) Set(_ context.Context, key string, value []byte, origin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.entries[key]
	used := m.used - len(prev.value) + len(value)
	if m.capacity > 0 && used > m.capacity {
		return ErrQuotaExceeded
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[key] = memoryEntry{
		value:    stored,
		revision: Revision{Number: prev.revision.Number + 1, Origin: origin},
	}
	m.used = used
	return nil
}

// Put writes raw bytes without an origin, as an external tool editing the
// durable copy would.
func (m *MemorySubstrate) Put(key string, value []byte) {
	_ = m.Set(context.Background(), key, value, "")
}

func (m *MemorySubstrate) Revisions(_ context.Context) (map[string]Revision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Revision, len(m.entries))
	for k, e := range m.entries {
		out[k] = e.revision
	}
	return out, nil
}
