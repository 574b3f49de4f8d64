package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// MemoryStore is an in-process Store used in tests and single-node runs.
// Values round-trip through JSON so behavior matches the Redis tier.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, customerID, key string, out any) error {
	m.mu.RLock()
	data, ok := m.data[memKey(customerID, key)]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (m *MemoryStore) Set(_ context.Context, customerID, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("prefs: marshal %s failed: %v", key, err)
		return
	}

	m.mu.Lock()
	m.data[memKey(customerID, key)] = data
	m.mu.Unlock()
}

func (m *MemoryStore) Delete(_ context.Context, customerID, key string) {
	m.mu.Lock()
	delete(m.data, memKey(customerID, key))
	m.mu.Unlock()
}

func memKey(customerID, key string) string {
	return customerID + ":" + key
}
