package ticks

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/record"
)

func TestUpdateOnModifyZeroDeltaIsNoop(t *testing.T) {
	current := record.Tick{Initialized: true, LiquidityGross: uint128.From64(100)}
	update, err := UpdateOnModify(current, 0, 0, *big.NewInt(0), false, GrowthGlobals{}, 0)
	require.NoError(t, err)
	require.Equal(t, current.Initialized, update.Initialized)
	require.Equal(t, current.LiquidityGross, update.LiquidityGross)
}

func TestUpdateOnModifyFirstInitSeedsBelowCurrent(t *testing.T) {
	globals := GrowthGlobals{FeeGrowthA: uint128.From64(500), FeeGrowthB: uint128.From64(700)}
	update, err := UpdateOnModify(record.Tick{}, -10, 0, *big.NewInt(1000), false, globals, 0)
	require.NoError(t, err)
	require.True(t, update.Initialized)
	require.Equal(t, globals.FeeGrowthA, update.FeeGrowthOutsideA)
	require.Equal(t, globals.FeeGrowthB, update.FeeGrowthOutsideB)
}

func TestUpdateOnModifyFirstInitSeedsAboveCurrent(t *testing.T) {
	update, err := UpdateOnModify(record.Tick{}, 10, 0, *big.NewInt(1000), false, GrowthGlobals{FeeGrowthA: uint128.From64(500)}, 0)
	require.NoError(t, err)
	require.True(t, update.Initialized)
	require.True(t, update.FeeGrowthOutsideA.IsZero())
}

func TestUpdateOnModifyUninitializesOnFullWithdraw(t *testing.T) {
	current := record.Tick{Initialized: true, LiquidityGross: uint128.From64(1000), LiquidityNet: *big.NewInt(1000)}
	update, err := UpdateOnModify(current, 0, 0, *big.NewInt(-1000), false, GrowthGlobals{}, 0)
	require.NoError(t, err)
	require.False(t, update.Initialized)
}

func TestUpdateOnModifyUpperTickNegatesNet(t *testing.T) {
	update, err := UpdateOnModify(record.Tick{}, 10, 0, *big.NewInt(1000), true, GrowthGlobals{}, 0)
	require.NoError(t, err)
	require.Equal(t, int64(-1000), update.LiquidityNet.Int64())
}

func TestCrossFlipsOutsideAccumulators(t *testing.T) {
	current := record.Tick{
		Initialized:       true,
		LiquidityNet:      *big.NewInt(500),
		FeeGrowthOutsideA: uint128.From64(100),
	}
	globals := GrowthGlobals{FeeGrowthA: uint128.From64(900)}
	result := Cross(current, true, globals, 0)
	require.Equal(t, uint64(800), result.Update.FeeGrowthOutsideA.Lo)
	require.Equal(t, int64(-500), result.LiquidityNetApplied.Int64())
}

func TestFeeGrowthInsideSymmetric(t *testing.T) {
	lower := record.Tick{FeeGrowthOutsideA: uint128.From64(10)}
	upper := record.Tick{FeeGrowthOutsideA: uint128.From64(20)}
	globalA := uint128.From64(100)

	insideA, _ := FeeGrowthInside(5, 0, lower, 10, upper, globalA, uint128.Zero)
	// current tick is inside [0,10): below = lower.outside (10), above = upper.outside (20)
	require.Equal(t, uint64(100-10-20), insideA.Lo)
}
