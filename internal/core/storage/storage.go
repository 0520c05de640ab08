// Package storage defines the adapter boundary around the durable
// key-value store that holds encoded record families.
package storage

import "fmt"

// Key is a logical store key. The key space is fixed: one key per record
// family, no dynamic key creation.
type Key string

const (
	KeyRuleSets  Key = "scribe.rulesets"
	KeyReport    Key = "scribe.report"
	KeyChecklist Key = "scribe.checklist"
)

// Keys returns all logical keys in a stable order.
func Keys() []Key {
	return []Key{KeyRuleSets, KeyReport, KeyChecklist}
}

// DefaultCapacityBytes is the assumed capacity ceiling used for usage
// accounting. It is an estimate, not an authoritative platform limit.
const DefaultCapacityBytes int64 = 5 * 1024 * 1024

// Usage reports approximate store consumption against the capacity ceiling.
type Usage struct {
	UsedBytes               int64
	EstimatedAvailableBytes int64
	ActiveKeys              int
}

// Adapter is the only boundary through which record families reach the
// durable store. Set reports quota exhaustion as a *QuotaExceededError;
// it never propagates a storage fault as an unhandled panic.
type Adapter interface {
	// Get returns the stored text for key. ok is false if the key is absent.
	Get(key Key) (value string, ok bool, err error)

	// Set stores text under key. Returns *QuotaExceededError when the write
	// would exceed the capacity ceiling.
	Set(key Key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key Key) error

	// Usage returns approximate usage accounting.
	Usage() (Usage, error)
}

// QuotaExceededError is returned by Set when a write would exceed the
// store's assumed capacity. The in-memory state remains valid; callers
// surface this as a non-fatal warning.
type QuotaExceededError struct {
	Key           Key
	RequiredBytes int64
	CapacityBytes int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("storage quota exceeded writing %q: need %d bytes, capacity %d bytes", e.Key, e.RequiredBytes, e.CapacityBytes)
}
