package pool

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/addr"
	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
)

// seedPoolWithArrays creates a pool at tick 0 with tick_spacing 1, plus the
// two tick-array shards a [-20, 20) position's boundaries land in.
func seedPoolWithArrays(t *testing.T, e *Engine, store *memStore) (poolKey record.Identity) {
	t.Helper()
	poolKey = identityFromByte(1)
	sqrtP, err := fixedmath.SqrtPriceFromTickIndex(0)
	require.NoError(t, err)
	store.pools[poolKey] = record.Pool{
		TickSpacing:      1,
		FeeRate:          3000,
		SqrtPrice:        sqrtP,
		TickCurrentIndex: 0,
		TokenVaultA:      identityFromByte(90),
		TokenVaultB:      identityFromByte(91),
	}

	for _, start := range []int32{-88, 0} {
		arrAddr, _, err := addr.TickArray(e.ProgramID, publicKey(poolKey), start)
		require.NoError(t, err)
		store.tickArrays[identity(arrAddr)] = record.TickArray{StartTickIndex: start}
	}
	return poolKey
}

func TestIncreaseLiquiditySettlesTokensAndUpdatesPool(t *testing.T) {
	e, store, transfer, _ := newTestEngine()
	poolKey := seedPoolWithArrays(t, e, store)

	posKey, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), -20, 20)
	require.NoError(t, err)

	delta := *big.NewInt(1_000_000)
	tokens, err := e.IncreaseLiquidity(context.Background(), poolKey, posKey, identityFromByte(2), delta,
		1_000_000_000, 1_000_000_000, 6, 6, identityFromByte(100), identityFromByte(101), 1000)
	require.NoError(t, err)
	require.Greater(t, tokens.AmountA+tokens.AmountB, uint64(0))

	pool := store.pools[poolKey]
	require.Equal(t, uint128.FromBig(&delta), pool.Liquidity)

	pos := store.positions[posKey]
	require.Equal(t, uint128.FromBig(&delta), pos.Liquidity)
	require.NotEmpty(t, transfer.calls)
}

func TestIncreaseLiquidityRejectsSlippage(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := seedPoolWithArrays(t, e, store)

	posKey, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), -20, 20)
	require.NoError(t, err)

	delta := *big.NewInt(1_000_000)
	_, err = e.IncreaseLiquidity(context.Background(), poolKey, posKey, identityFromByte(2), delta,
		0, 0, 6, 6, identityFromByte(100), identityFromByte(101), 1000)
	require.Error(t, err)
}

func TestDecreaseLiquidityRejectsWhenExceedingPositionLiquidity(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := seedPoolWithArrays(t, e, store)

	posKey, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), -20, 20)
	require.NoError(t, err)

	delta := *big.NewInt(1_000_000)
	_, err = e.DecreaseLiquidity(context.Background(), poolKey, posKey, identityFromByte(2), delta,
		0, 0, 6, 6, identityFromByte(100), identityFromByte(101), 1000)
	require.Error(t, err)
}

func TestIncreaseThenDecreaseLiquidityRoundTrips(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := seedPoolWithArrays(t, e, store)

	posKey, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), -20, 20)
	require.NoError(t, err)

	delta := *big.NewInt(1_000_000)
	_, err = e.IncreaseLiquidity(context.Background(), poolKey, posKey, identityFromByte(2), delta,
		1_000_000_000, 1_000_000_000, 6, 6, identityFromByte(100), identityFromByte(101), 1000)
	require.NoError(t, err)

	_, err = e.DecreaseLiquidity(context.Background(), poolKey, posKey, identityFromByte(2), delta,
		0, 0, 6, 6, identityFromByte(100), identityFromByte(101), 1001)
	require.NoError(t, err)

	pos := store.positions[posKey]
	require.True(t, pos.Liquidity.IsZero())
}

func TestUpdateFeesAndRewardsLeavesLiquidityUnchanged(t *testing.T) {
	e, store, _, _ := newTestEngine()
	poolKey := seedPoolWithArrays(t, e, store)

	posKey, err := e.OpenPosition(context.Background(), poolKey, identityFromByte(2), -20, 20)
	require.NoError(t, err)

	delta := *big.NewInt(1_000_000)
	_, err = e.IncreaseLiquidity(context.Background(), poolKey, posKey, identityFromByte(2), delta,
		1_000_000_000, 1_000_000_000, 6, 6, identityFromByte(100), identityFromByte(101), 1000)
	require.NoError(t, err)

	before := store.positions[posKey].Liquidity
	err = e.UpdateFeesAndRewards(context.Background(), poolKey, posKey, 1005)
	require.NoError(t, err)

	after := store.positions[posKey].Liquidity
	require.Equal(t, before, after)
}
