package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/record"
)

func TestInitializeRewardRejectsOccupiedSlot(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := identityFromByte(1)
	store.pools[poolKey] = record.Pool{
		RewardInfos: [record.NumRewards]record.RewardInfo{
			{Mint: identityFromByte(5)},
		},
	}

	err := e.InitializeReward(context.Background(), poolKey, 0, identityFromByte(6), identityFromByte(7), identityFromByte(8))
	require.Error(t, err)
}

func TestInitializeRewardRejectsOutOfRangeIndex(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := identityFromByte(1)
	store.pools[poolKey] = record.Pool{}

	err := e.InitializeReward(context.Background(), poolKey, record.NumRewards, identityFromByte(6), identityFromByte(7), identityFromByte(8))
	require.Error(t, err)
}

func TestSetRewardEmissionsSettlesBeforeChangingRate(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := identityFromByte(1)
	store.pools[poolKey] = record.Pool{
		Liquidity:                 uint128.From64(1_000_000),
		RewardLastUpdatedTimestamp: 1000,
		RewardInfos: [record.NumRewards]record.RewardInfo{
			{Mint: identityFromByte(5), EmissionsPerSecond: uint128.From64(10).Lsh(64)},
		},
	}

	err := e.SetRewardEmissions(context.Background(), poolKey, 0, uint128.From64(20), 2000)
	require.NoError(t, err)

	pool := store.pools[poolKey]
	require.Equal(t, uint128.From64(20), pool.RewardInfos[0].EmissionsPerSecond)
	require.False(t, pool.RewardInfos[0].GrowthGlobal.IsZero())
}

func TestCollectFeesZeroesOwedAndTransfers(t *testing.T) {
	e, store, transfer, _ := newTestEngine()
	poolKey, posKey := identityFromByte(1), identityFromByte(2)
	store.pools[poolKey] = record.Pool{TokenVaultA: identityFromByte(90), TokenVaultB: identityFromByte(91)}
	store.positions[posKey] = record.Position{FeeOwedA: 100, FeeOwedB: 200}

	err := e.CollectFees(context.Background(), poolKey, posKey, identityFromByte(100), identityFromByte(101), 6, 6)
	require.NoError(t, err)

	pos := store.positions[posKey]
	require.Zero(t, pos.FeeOwedA)
	require.Zero(t, pos.FeeOwedB)
	require.Len(t, transfer.calls, 2)
}

func TestCollectProtocolFeesZeroesOwed(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := identityFromByte(1)
	store.pools[poolKey] = record.Pool{
		TokenVaultA: identityFromByte(90), TokenVaultB: identityFromByte(91),
		ProtocolFeeOwedA: 50, ProtocolFeeOwedB: 75,
	}

	err := e.CollectProtocolFees(context.Background(), poolKey, identityFromByte(100), identityFromByte(101), 6, 6)
	require.NoError(t, err)

	pool := store.pools[poolKey]
	require.Zero(t, pool.ProtocolFeeOwedA)
	require.Zero(t, pool.ProtocolFeeOwedB)
}

func TestCollectRewardZeroesOwedForSlot(t *testing.T) {
	e, store, transfer, _ := newTestEngine()
	poolKey, posKey := identityFromByte(1), identityFromByte(2)
	store.pools[poolKey] = record.Pool{
		RewardInfos: [record.NumRewards]record.RewardInfo{{Vault: identityFromByte(95)}},
	}
	store.positions[posKey] = record.Position{
		RewardInfos: [record.NumRewards]record.PositionRewardInfo{{AmountOwed: 42}},
	}

	err := e.CollectReward(context.Background(), poolKey, posKey, 0, identityFromByte(100), 6)
	require.NoError(t, err)

	pos := store.positions[posKey]
	require.Zero(t, pos.RewardInfos[0].AmountOwed)
	require.Len(t, transfer.calls, 1)
}
