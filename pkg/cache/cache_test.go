package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := NewInMemoryCache()
		require.NoError(t, c.Set(ctx, "key", "value", time.Minute))

		got, ok := c.Get(ctx, "key")
		require.True(t, ok)
		assert.Equal(t, "value", got)
	})

	t.Run("missing key", func(t *testing.T) {
		c := NewInMemoryCache()
		_, ok := c.Get(ctx, "missing")
		assert.False(t, ok)
	})

	t.Run("expired entry is gone", func(t *testing.T) {
		c := NewInMemoryCache()
		require.NoError(t, c.Set(ctx, "key", "value", 10*time.Millisecond))

		time.Sleep(20 * time.Millisecond)

		_, ok := c.Get(ctx, "key")
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		c := NewInMemoryCache()
		require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
		require.NoError(t, c.Delete(ctx, "key"))

		_, ok := c.Get(ctx, "key")
		assert.False(t, ok)
	})

	t.Run("overwrite replaces value", func(t *testing.T) {
		c := NewInMemoryCache()
		require.NoError(t, c.Set(ctx, "key", "old", time.Minute))
		require.NoError(t, c.Set(ctx, "key", "new", time.Minute))

		got, ok := c.Get(ctx, "key")
		require.True(t, ok)
		assert.Equal(t, "new", got)
	})
}
