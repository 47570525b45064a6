package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetWithinTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "home-feed-render:1", []byte("snapshot"), 20*time.Second)

	got, ok := m.Get(ctx, "home-feed-render:1")
	require.True(t, ok)
	assert.Equal(t, []byte("snapshot"), got)
}

func TestMemory_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Now()
	m.now = func() time.Time { return now }
	m.Set(ctx, "k", []byte("v"), 20*time.Second)

	now = now.Add(19 * time.Second)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_ClearIsImmediate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "a", []byte("1"), time.Minute)
	m.Set(ctx, "b", []byte("2"), time.Minute)
	m.Clear(ctx)

	_, ok := m.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "b")
	assert.False(t, ok)
}

func TestMemory_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "k", []byte("first"), time.Minute)
	m.Set(ctx, "k", []byte("second"), time.Minute)

	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), got)
}

func TestMemory_MissOnUnknownKey(t *testing.T) {
	m := NewMemory()
	_, ok := m.Get(context.Background(), "nope")
	assert.False(t, ok)
}
