package storage

import (
	"context"
	"sync"
)

// MemoryRepository keeps the state blob in memory. Used by tests and by
// ephemeral runs where nothing should touch disk.
type MemoryRepository struct {
	mu      sync.Mutex
	version int
	data    []byte
	found   bool
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Load implements ledger.Repository.
func (r *MemoryRepository) Load(_ context.Context) (int, []byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.found {
		return 0, nil, false, nil
	}
	data := append([]byte(nil), r.data...)
	return r.version, data, true, nil
}

// Save implements ledger.Repository.
func (r *MemoryRepository) Save(_ context.Context, version int, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version = version
	r.data = append([]byte(nil), data...)
	r.found = true
	return nil
}
