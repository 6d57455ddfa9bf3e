package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdherenceEvent(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 3, 45, 0, time.UTC)

	t.Run("stamps response date and time", func(t *testing.T) {
		e, err := NewAdherenceEvent("alice@example.com", "Metformin", true, now)
		require.NoError(t, err)

		assert.NotEmpty(t, e.ID())
		assert.Equal(t, "2026-08-30", e.Date())
		assert.Equal(t, "09:03", e.TimeRecorded())
		assert.True(t, e.Taken())
		assert.Equal(t, "Metformin", e.MedicationName())
	})

	t.Run("skipped dose", func(t *testing.T) {
		e, err := NewAdherenceEvent("alice@example.com", "Metformin", false, now)
		require.NoError(t, err)
		assert.False(t, e.Taken())
	})

	t.Run("rejects missing identity", func(t *testing.T) {
		_, err := NewAdherenceEvent("", "Metformin", true, now)
		assert.Error(t, err)

		_, err = NewAdherenceEvent("alice@example.com", "", true, now)
		assert.Error(t, err)
	})

	t.Run("every event gets its own id", func(t *testing.T) {
		a, err := NewAdherenceEvent("alice@example.com", "Metformin", true, now)
		require.NoError(t, err)
		b, err := NewAdherenceEvent("alice@example.com", "Metformin", true, now)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID(), b.ID())
	})
}
