package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/storage"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New()

	_, ok, err := s.Get(storage.KeyReport)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(storage.KeyReport, `{"issueKey":"PROJ-1"}`))

	got, ok, err := s.Get(storage.KeyReport)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"issueKey":"PROJ-1"}`, got)

	require.NoError(t, s.Remove(storage.KeyReport))
	_, ok, err = s.Get(storage.KeyReport)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveAbsentKey(t *testing.T) {
	s := New()
	assert.NoError(t, s.Remove(storage.KeyChecklist))
}

func TestQuotaEnforcedAcrossKeys(t *testing.T) {
	s := NewWithCapacity(10)

	require.NoError(t, s.Set(storage.KeyRuleSets, "12345678"))

	err := s.Set(storage.KeyChecklist, "123")
	var quota *storage.QuotaExceededError
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, storage.KeyChecklist, quota.Key)
	assert.Equal(t, int64(11), quota.RequiredBytes)
	assert.Equal(t, int64(10), quota.CapacityBytes)

	_, ok, err := s.Get(storage.KeyChecklist)
	require.NoError(t, err)
	assert.False(t, ok, "rejected write leaves no trace")
}

func TestQuotaOverwriteReplacesOldSize(t *testing.T) {
	s := NewWithCapacity(10)

	require.NoError(t, s.Set(storage.KeyRuleSets, "12345678"))
	// Replacing the same key counts the new value, not old plus new.
	assert.NoError(t, s.Set(storage.KeyRuleSets, "1234567890"))
}

func TestUsage(t *testing.T) {
	s := NewWithCapacity(100)

	usage, err := s.Usage()
	require.NoError(t, err)
	assert.Zero(t, usage.UsedBytes)
	assert.Equal(t, int64(100), usage.EstimatedAvailableBytes)
	assert.Zero(t, usage.ActiveKeys)

	require.NoError(t, s.Set(storage.KeyRuleSets, "1234"))
	require.NoError(t, s.Set(storage.KeyChecklist, "12"))

	usage, err = s.Usage()
	require.NoError(t, err)
	assert.Equal(t, int64(6), usage.UsedBytes)
	assert.Equal(t, int64(94), usage.EstimatedAvailableBytes)
	assert.Equal(t, 2, usage.ActiveKeys)
}
