package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	BuildingID string  `json:"building_id"`
	SavingsKWh float64 `json:"savings_kwh"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache(time.Minute)
	defer mc.Close()
	ctx := context.Background()

	in := snapshot{BuildingID: "bld-1", SavingsKWh: 100.5}
	require.NoError(t, mc.Set(ctx, "run:bld-1", in, 0))

	var out snapshot
	require.NoError(t, mc.Get(ctx, "run:bld-1", &out))
	assert.Equal(t, in, out)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache(time.Minute)
	defer mc.Close()

	var out snapshot
	err := mc.Get(context.Background(), "absent", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache(time.Minute)
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "ephemeral", snapshot{}, 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var out snapshot
	assert.ErrorIs(t, mc.Get(ctx, "ephemeral", &out), ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache(time.Minute)
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", snapshot{}, 0))
	require.NoError(t, mc.Set(ctx, "b", snapshot{}, 0))
	require.NoError(t, mc.Delete(ctx, "a", "b"))

	var out snapshot
	assert.ErrorIs(t, mc.Get(ctx, "a", &out), ErrCacheMiss)
	assert.ErrorIs(t, mc.Get(ctx, "b", &out), ErrCacheMiss)
}
