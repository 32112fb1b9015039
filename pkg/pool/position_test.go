package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
)

func seedPool(store *memStore, key record.Identity, tickSpacing uint16) {
	store.pools[key] = record.Pool{TickSpacing: tickSpacing}
}

func TestOpenPositionRejectsSameTickRange(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := identityFromByte(1)
	seedPool(store, poolKey, 64)

	_, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), 0, 0)
	require.Error(t, err)
}

func TestOpenPositionRejectsMisalignedTicks(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := identityFromByte(1)
	seedPool(store, poolKey, 64)

	_, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), -10, 70)
	require.Error(t, err)
}

func TestOpenPositionAcceptsAlignedRange(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := identityFromByte(1)
	seedPool(store, poolKey, 64)

	posKey, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), -128, 128)
	require.NoError(t, err)

	pos, ok := store.positions[posKey]
	require.True(t, ok)
	require.Equal(t, int32(-128), pos.TickLowerIndex)
	require.Equal(t, int32(128), pos.TickUpperIndex)
	require.True(t, pos.Liquidity.IsZero())
}

func TestOpenPositionRejectsNonFullRangeOnFullRangeOnlyPool(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := identityFromByte(1)
	seedPool(store, poolKey, uint16(fixedmath.FullRangeOnlyTickSpacingThreshold))

	_, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), -128, 128)
	require.Error(t, err)
}

func TestOpenPositionAcceptsFullRangeOnFullRangeOnlyPool(t *testing.T) {
	e, store, _, _ := newTestEngine()
	tickSpacing := uint16(fixedmath.FullRangeOnlyTickSpacingThreshold)
	poolKey := identityFromByte(1)
	seedPool(store, poolKey, tickSpacing)

	minUsable, maxUsable := usableTickBounds(tickSpacing)
	_, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), minUsable, maxUsable)
	require.NoError(t, err)
}

func TestClosePositionRejectsNonEmptyPosition(t *testing.T) {
	e, store, _, _ := newTestEngine()
	posKey, mint := identityFromByte(3), identityFromByte(4)
	store.positions[posKey] = record.Position{FeeOwedA: 5}

	err := e.ClosePosition(context.Background(), posKey, mint, identityFromByte(5))
	require.Error(t, err)
}

func TestClosePositionRejectsLockedPosition(t *testing.T) {
	e, store, _, receipts := newTestEngine()
	posKey, mint := identityFromByte(3), identityFromByte(4)
	store.positions[posKey] = record.Position{}
	receipts.locked[mint] = true

	err := e.ClosePosition(context.Background(), posKey, mint, identityFromByte(5))
	require.Error(t, err)
}

func TestClosePositionSucceedsWhenEmptyAndUnlocked(t *testing.T) {
	e, store, _, receipts := newTestEngine()
	posKey, mint := identityFromByte(3), identityFromByte(4)
	store.positions[posKey] = record.Position{}
	receipts.minted[mint] = true

	err := e.ClosePosition(context.Background(), posKey, mint, identityFromByte(5))
	require.NoError(t, err)
	require.False(t, receipts.minted[mint])
}
