package pool

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/solve-so/solve-core/pkg/record"
)

func TestCachedStoreServesLoadsFromCacheWithoutHittingInner(t *testing.T) {
	_, inner, _, _ := newTestEngine()
	poolKey := identityFromByte(7)
	seedPool(inner, poolKey, 64)

	mock := clock.NewMock()
	cached := NewCachedStore(inner, mock)

	got, err := cached.LoadPool(context.Background(), poolKey)
	require.NoError(t, err)
	require.Equal(t, uint16(64), got.TickSpacing)
	require.Equal(t, 1, cached.Size())

	delete(inner.pools, poolKey)

	got2, err := cached.LoadPool(context.Background(), poolKey)
	require.NoError(t, err)
	require.Equal(t, uint16(64), got2.TickSpacing)
}

func TestCachedStoreSaveRefreshesCache(t *testing.T) {
	_, inner, _, _ := newTestEngine()
	poolKey := identityFromByte(7)
	seedPool(inner, poolKey, 64)

	mock := clock.NewMock()
	cached := NewCachedStore(inner, mock)
	ctx := context.Background()

	got, err := cached.LoadPool(ctx, poolKey)
	require.NoError(t, err)
	got.FeeRate = 500
	require.NoError(t, cached.SavePool(ctx, poolKey, got))

	got2, err := cached.LoadPool(ctx, poolKey)
	require.NoError(t, err)
	require.Equal(t, uint16(500), got2.FeeRate)
}

func TestCachedStoreInvalidateForcesReread(t *testing.T) {
	_, inner, _, _ := newTestEngine()
	poolKey := identityFromByte(7)
	seedPool(inner, poolKey, 64)

	mock := clock.NewMock()
	cached := NewCachedStore(inner, mock)
	ctx := context.Background()

	_, err := cached.LoadPool(ctx, poolKey)
	require.NoError(t, err)

	cached.Invalidate(poolKey)
	require.Equal(t, 0, cached.Size())
}

func TestCachedStoreStaleKeys(t *testing.T) {
	_, inner, _, _ := newTestEngine()
	poolKey := identityFromByte(7)
	seedPool(inner, poolKey, 64)

	mock := clock.NewMock()
	cached := NewCachedStore(inner, mock)
	ctx := context.Background()

	_, err := cached.LoadPool(ctx, poolKey)
	require.NoError(t, err)
	require.Empty(t, cached.StaleKeys(time.Minute))

	mock.Add(2 * time.Minute)
	require.Len(t, cached.StaleKeys(time.Minute), 1)
}
