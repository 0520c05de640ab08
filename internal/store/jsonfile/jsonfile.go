// Package jsonfile provides a file-backed storage.Adapter. Each logical
// key maps to one blob file under the data directory.
package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/scribe/internal/core/storage"
)

// fileNames maps logical keys to on-disk file names.
var fileNames = map[storage.Key]string{
	storage.KeyRuleSets:  "rulesets.json",
	storage.KeyReport:    "report.json",
	storage.KeyChecklist: "checklist.json",
}

// Store persists each logical key as a file under dir. Writes are atomic
// (temp file + rename). The store is treated as exclusively owned by the
// current session; there is no cross-process locking.
type Store struct {
	dir      string
	capacity int64
	mu       sync.Mutex
}

var _ storage.Adapter = (*Store)(nil)

// New creates a file-backed store rooted at dir with the default capacity.
func New(dir string) *Store {
	return NewWithCapacity(dir, storage.DefaultCapacityBytes)
}

// NewWithCapacity creates a file-backed store with an explicit capacity
// ceiling. The ceiling is an accounting estimate, not a filesystem quota.
func NewWithCapacity(dir string, capacity int64) *Store {
	return &Store{dir: dir, capacity: capacity}
}

// Get reads the text stored under key. Returns ok=false if the file does
// not exist.
func (s *Store) Get(key storage.Key) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}

	return string(data), true, nil
}

// Set writes text under key atomically, enforcing the capacity ceiling
// across all keys. Quota failures return *storage.QuotaExceededError.
func (s *Store) Set(key storage.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}

	required := int64(len(value))
	for k := range fileNames {
		if k == key {
			continue
		}
		required += s.sizeOf(k)
	}
	if required > s.capacity {
		return &storage.QuotaExceededError{
			Key:           key,
			RequiredBytes: required,
			CapacityBytes: s.capacity,
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}

	return nil
}

// Remove deletes the file for key. Absent files are a no-op.
func (s *Store) Remove(key storage.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Usage sums the sizes of all key files against the capacity ceiling.
func (s *Store) Usage() (storage.Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var used int64
	active := 0
	for key := range fileNames {
		size := s.sizeOf(key)
		if size > 0 {
			active++
		}
		used += size
	}

	avail := s.capacity - used
	if avail < 0 {
		avail = 0
	}

	return storage.Usage{
		UsedBytes:               used,
		EstimatedAvailableBytes: avail,
		ActiveKeys:              active,
	}, nil
}

func (s *Store) path(key storage.Key) (string, error) {
	name, ok := fileNames[key]
	if !ok {
		return "", fmt.Errorf("unknown store key %q", key)
	}
	return filepath.Join(s.dir, name), nil
}

// sizeOf returns the on-disk size of a key's file, or 0 if absent.
func (s *Store) sizeOf(key storage.Key) int64 {
	name, ok := fileNames[key]
	if !ok {
		return 0
	}
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return 0
	}
	return info.Size()
}
