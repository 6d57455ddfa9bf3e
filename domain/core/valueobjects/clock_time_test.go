package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	t.Run("valid time", func(t *testing.T) {
		c, err := ParseClockTime("08:05")
		require.NoError(t, err)
		assert.Equal(t, "08:05", c.String())
		assert.Equal(t, 8*60+5, c.MinuteOfDay())
	})

	t.Run("rejects malformed literals", func(t *testing.T) {
		for _, s := range []string{"", "8:00:00", "25:00", "08-00", "noon"} {
			_, err := ParseClockTime(s)
			assert.Error(t, err, "literal %q", s)
		}
	})
}

func TestClockTimeOf(t *testing.T) {
	ts := time.Date(2026, 8, 30, 14, 42, 59, 0, time.UTC)
	c := ClockTimeOf(ts)
	assert.Equal(t, "14:42", c.String())
}

func TestMinutesApart(t *testing.T) {
	at := func(s string) ClockTime {
		c, err := ParseClockTime(s)
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"same minute", "09:00", "09:00", 0},
		{"five minutes early", "08:55", "09:00", 5},
		{"five minutes late", "09:05", "09:00", 5},
		{"symmetric", "09:00", "08:55", 5},
		{"across noon", "11:58", "12:03", 5},
		// Raw clock-face subtraction: no midnight rollover correction.
		{"across midnight is the long way round", "23:58", "00:02", 1436},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, at(tt.a).MinutesApart(at(tt.b)))
		})
	}
}

func TestClockTimeEquals(t *testing.T) {
	a, err := ParseClockTime("07:30")
	require.NoError(t, err)
	b, err := ParseClockTime("07:30")
	require.NoError(t, err)
	c, err := ParseClockTime("07:31")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
