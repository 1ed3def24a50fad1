package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daotrack/governance-indexer/internal/cache"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time                       { return c.now }
func (c *fakeClock) Since(t time.Time) time.Duration      { return c.now.Sub(t) }
func (c *fakeClock) Sleep(time.Duration)                  {}
func (c *fakeClock) After(time.Duration) <-chan time.Time { return nil }

func TestTTLCache_GetSet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTL[string](5*time.Minute, clock)

	_, ok := c.Get("uni")
	assert.False(t, ok)

	c.Set("uni", "params")
	got, ok := c.Get("uni")
	require.True(t, ok)
	assert.Equal(t, "params", got)
}

func TestTTLCache_EntriesExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTL[int](5*time.Minute, clock)

	c.Set("uni", 42)

	// Just inside the lifetime
	clock.now = clock.now.Add(5 * time.Minute)
	got, ok := c.Get("uni")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	// Past the lifetime the entry reads as absent
	clock.now = clock.now.Add(time.Second)
	_, ok = c.Get("uni")
	assert.False(t, ok)
}

func TestTTLCache_SetResetsLifetime(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTL[int](5*time.Minute, clock)

	c.Set("uni", 1)
	clock.now = clock.now.Add(4 * time.Minute)
	c.Set("uni", 2)
	clock.now = clock.now.Add(4 * time.Minute)

	got, ok := c.Get("uni")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestTTLCache_Clear(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTL[int](5*time.Minute, clock)

	c.Set("uni", 1)
	c.Set("ens", 2)
	c.Clear()

	_, ok := c.Get("uni")
	assert.False(t, ok)
	_, ok = c.Get("ens")
	assert.False(t, ok)
}
