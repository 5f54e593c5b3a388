package store

import (
	"context"
	"sync"

	"github.com/atinyakov/sbp/internal/models"
)

// MemoryStore keeps slots in process memory. Contents are lost on exit.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]map[models.Slot]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]map[models.Slot]string)}
}

// Get returns the value of slot for device.
func (m *MemoryStore) Get(_ context.Context, device string, slot models.Slot) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[device][slot]
	return v, ok, nil
}

// Set stores value under slot for device.
func (m *MemoryStore) Set(_ context.Context, device string, slot models.Slot, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slots[device] == nil {
		m.slots[device] = make(map[models.Slot]string)
	}
	m.slots[device][slot] = value
	return nil
}

// Clear removes slot for device.
func (m *MemoryStore) Clear(_ context.Context, device string, slot models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots[device], slot)
	if len(m.slots[device]) == 0 {
		delete(m.slots, device)
	}
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
