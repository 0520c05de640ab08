// Package memstore provides an in-memory storage.Adapter used by tests
// and ephemeral sessions.
package memstore

import (
	"sync"

	"github.com/colonyops/scribe/internal/core/storage"
)

// Store is a thread-safe in-memory store with the same quota accounting
// as the durable implementations.
type Store struct {
	mu       sync.RWMutex
	data     map[storage.Key]string
	capacity int64
}

var _ storage.Adapter = (*Store)(nil)

// New creates a store with the default capacity ceiling.
func New() *Store {
	return NewWithCapacity(storage.DefaultCapacityBytes)
}

// NewWithCapacity creates a store with an explicit capacity ceiling.
// Tests use small capacities to exercise quota failures.
func NewWithCapacity(capacity int64) *Store {
	return &Store{
		data:     make(map[storage.Key]string),
		capacity: capacity,
	}
}

// Get retrieves the text stored under key.
func (s *Store) Get(key storage.Key) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores text under key, enforcing the capacity ceiling across all keys.
func (s *Store) Set(key storage.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	required := int64(len(value))
	for k, v := range s.data {
		if k == key {
			continue
		}
		required += int64(len(v))
	}
	if required > s.capacity {
		return &storage.QuotaExceededError{
			Key:           key,
			RequiredBytes: required,
			CapacityBytes: s.capacity,
		}
	}

	s.data[key] = value
	return nil
}

// Remove deletes key. Absent keys are a no-op.
func (s *Store) Remove(key storage.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Usage returns approximate usage accounting.
func (s *Store) Usage() (storage.Usage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var used int64
	for _, v := range s.data {
		used += int64(len(v))
	}

	avail := s.capacity - used
	if avail < 0 {
		avail = 0
	}

	return storage.Usage{
		UsedBytes:               used,
		EstimatedAvailableBytes: avail,
		ActiveKeys:              len(s.data),
	}, nil
}
