// Package store provides RecordStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/salon-engine/booking"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[booking.RecordKind][][]string
}

func NewMemory() *Memory {
	return &Memory{records: make(map[booking.RecordKind][][]string)}
}

func (m *Memory) LoadAll(_ context.Context, kind booking.RecordKind) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.records[kind]
	out := make([][]string, len(src))
	for i, rec := range src {
		out[i] = append([]string(nil), rec...)
	}
	return out, nil
}

func (m *Memory) AppendOne(_ context.Context, kind booking.RecordKind, fields []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[kind] = append(m.records[kind], append([]string(nil), fields...))
	return nil
}

func (m *Memory) RewriteAll(_ context.Context, kind booking.RecordKind, records [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	replacement := make([][]string, len(records))
	for i, rec := range records {
		replacement[i] = append([]string(nil), rec...)
	}
	m.records[kind] = replacement
	return nil
}
