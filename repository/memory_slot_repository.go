package repository

import (
	"context"
	"sync"
)

// MemorySlotRepository keeps slots in process memory.
// Nothing survives a restart; it backs the "memory" driver and tests.
type MemorySlotRepository struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

var _ SlotRepositoryInterface = (*MemorySlotRepository)(nil)

func NewMemorySlotRepository() *MemorySlotRepository {
	return &MemorySlotRepository{slots: make(map[string][]byte)}
}

func (r *MemorySlotRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *MemorySlotRepository) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	r.slots[key] = v
	return nil
}

func (r *MemorySlotRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.slots, key)
	return nil
}
