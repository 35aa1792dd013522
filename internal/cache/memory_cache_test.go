package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedView struct {
	Title string   `json:"title"`
	Rows  []string `json:"rows"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "preview:a:1", cachedView{Title: "t", Rows: []string{"x"}}, time.Minute))

	var got cachedView
	require.NoError(t, c.Get(ctx, "preview:a:1", &got))
	assert.Equal(t, cachedView{Title: "t", Rows: []string{"x"}}, got)

	assert.ErrorIs(t, c.Get(ctx, "preview:b:1", &got), ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &memoryCache{entries: make(map[string]memoryEntry), now: func() time.Time { return now }}

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	var v int
	require.NoError(t, c.Get(ctx, "k", &v))
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Second)
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrCacheMiss)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	for _, key := range []string{"preview:a:1", "preview:a:2", "preview:b:1"} {
		require.NoError(t, c.Set(ctx, key, key, 0))
	}

	require.NoError(t, c.DeletePattern(ctx, "preview:a:*"))

	var s string
	assert.ErrorIs(t, c.Get(ctx, "preview:a:1", &s), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "preview:a:2", &s), ErrCacheMiss)
	require.NoError(t, c.Get(ctx, "preview:b:1", &s))
	assert.Equal(t, "preview:b:1", s)

	require.NoError(t, c.Delete(ctx, "preview:b:1"))
	assert.ErrorIs(t, c.Get(ctx, "preview:b:1", &s), ErrCacheMiss)
}
