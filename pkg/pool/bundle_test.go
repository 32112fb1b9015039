package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solve-so/solve-core/pkg/record"
)

func TestOpenBundledPositionRejectsOccupiedIndex(t *testing.T) {
	e, store, _, _ := newTestEngine()
	bundleKey, poolKey := identityFromByte(1), identityFromByte(2)
	bundle := record.PositionBundle{}
	bundle.Occupied[3] = true
	store.bundles[bundleKey] = bundle
	seedPool(store, poolKey, 64)

	_, err := e.OpenBundledPosition(context.Background(), bundleKey, 3, poolKey, identityFromByte(5), -128, 128)
	require.Error(t, err)
}

func TestOpenBundledPositionRejectsOutOfRangeIndex(t *testing.T) {
	e, store, _, _ := newTestEngine()
	bundleKey := identityFromByte(1)
	store.bundles[bundleKey] = record.PositionBundle{}

	_, err := e.OpenBundledPosition(context.Background(), bundleKey, record.PositionBundleSize, identityFromByte(2), identityFromByte(5), -128, 128)
	require.Error(t, err)
}

func TestOpenThenCloseBundledPositionClearsOccupancy(t *testing.T) {
	e, store, _, _ := newTestEngine()
	bundleKey, poolKey := identityFromByte(1), identityFromByte(2)
	store.bundles[bundleKey] = record.PositionBundle{}
	seedPool(store, poolKey, 64)

	posKey, err := e.OpenBundledPosition(context.Background(), bundleKey, 3, poolKey, identityFromByte(5), -128, 128)
	require.NoError(t, err)
	require.True(t, store.bundles[bundleKey].Occupied[3])

	err = e.CloseBundledPosition(context.Background(), bundleKey, 3, posKey)
	require.NoError(t, err)
	require.False(t, store.bundles[bundleKey].Occupied[3])
}

func TestCloseBundledPositionRejectsNonEmptyPosition(t *testing.T) {
	e, store, _, _ := newTestEngine()
	bundleKey, poolKey := identityFromByte(1), identityFromByte(2)
	store.bundles[bundleKey] = record.PositionBundle{}
	seedPool(store, poolKey, 64)

	posKey, err := e.OpenBundledPosition(context.Background(), bundleKey, 3, poolKey, identityFromByte(5), -128, 128)
	require.NoError(t, err)

	pos := store.positions[posKey]
	pos.FeeOwedA = 10
	store.positions[posKey] = pos

	err = e.CloseBundledPosition(context.Background(), bundleKey, 3, posKey)
	require.Error(t, err)
}
