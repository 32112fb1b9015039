package liquidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
)

func TestCalculateModifyLiquidityOpenInRange(t *testing.T) {
	sqrtP, _ := fixedmath.SqrtPriceFromTickIndex(0)
	pool := &record.Pool{
		TickCurrentIndex: 0,
		SqrtPrice:        sqrtP,
		Liquidity:        uint128.Zero,
	}
	position := &record.Position{TickLowerIndex: -64, TickUpperIndex: 64}

	update, err := CalculateModifyLiquidity(pool, position, record.Tick{}, record.Tick{}, *big.NewInt(1_000_000), 1)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), update.PoolLiquidity.Lo)
	require.True(t, update.TickLowerUpdate.Initialized)
	require.True(t, update.TickUpperUpdate.Initialized)
	require.Equal(t, uint64(1_000_000), update.Position.Liquidity.Lo)
	require.Greater(t, update.Tokens.AmountA, uint64(0))
	require.Greater(t, update.Tokens.AmountB, uint64(0))
}

func TestCalculateModifyLiquidityRejectsZeroDeltaOnEmptyPosition(t *testing.T) {
	pool := &record.Pool{}
	position := &record.Position{}
	_, err := CalculateModifyLiquidity(pool, position, record.Tick{}, record.Tick{}, *big.NewInt(0), 1)
	require.Error(t, err)
}

func TestCalculateModifyLiquidityOutOfRangeDoesNotTouchPoolLiquidity(t *testing.T) {
	sqrtP, _ := fixedmath.SqrtPriceFromTickIndex(1000)
	pool := &record.Pool{
		TickCurrentIndex: 1000,
		SqrtPrice:        sqrtP,
		Liquidity:        uint128.From64(500),
	}
	position := &record.Position{TickLowerIndex: -64, TickUpperIndex: 64}

	update, err := CalculateModifyLiquidity(pool, position, record.Tick{}, record.Tick{}, *big.NewInt(1_000_000), 1)
	require.NoError(t, err)
	require.Equal(t, pool.Liquidity, update.PoolLiquidity)
	require.Greater(t, update.Tokens.AmountB, uint64(0))
	require.Equal(t, uint64(0), update.Tokens.AmountA)
}

func TestNextPoolRewardInfosRejectsPastTimestamp(t *testing.T) {
	pool := &record.Pool{RewardLastUpdatedTimestamp: 100}
	_, err := NextPoolRewardInfos(pool, 50)
	require.Error(t, err)
}

func TestNextPoolRewardInfosNoopOnZeroLiquidity(t *testing.T) {
	pool := &record.Pool{RewardLastUpdatedTimestamp: 100}
	pool.RewardInfos[0] = record.RewardInfo{Mint: record.Identity{1}, EmissionsPerSecond: uint128.From64(10)}
	out, err := NextPoolRewardInfos(pool, 200)
	require.NoError(t, err)
	require.Equal(t, pool.RewardInfos, out)
}
