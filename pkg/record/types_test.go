package record

import (
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestIdentityLessOrdersLexicographically(t *testing.T) {
	var a, b Identity
	a[31] = 1
	b[31] = 2
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Less(a))
}

func TestIdentityIsZero(t *testing.T) {
	var zero Identity
	require.True(t, zero.IsZero())

	var nonZero Identity
	nonZero[0] = 1
	require.False(t, nonZero.IsZero())
}

func TestRewardInfoInitialized(t *testing.T) {
	var r RewardInfo
	require.False(t, r.Initialized())

	r.Mint[0] = 1
	require.True(t, r.Initialized())
}

func TestPoolIsFullRangeOnly(t *testing.T) {
	narrow := Pool{TickSpacing: 64}
	require.False(t, narrow.IsFullRangeOnly())

	wide := Pool{TickSpacing: uint16(FullRangeOnlyTickSpacingThreshold)}
	require.True(t, wide.IsFullRangeOnly())
}

func TestPositionIsEmpty(t *testing.T) {
	pos := Position{}
	require.True(t, pos.IsEmpty())

	withLiquidity := Position{Liquidity: uint128.From64(1)}
	require.False(t, withLiquidity.IsEmpty())

	withFeeOwed := Position{FeeOwedA: 1}
	require.False(t, withFeeOwed.IsEmpty())

	withRewardOwed := Position{}
	withRewardOwed.RewardInfos[1].AmountOwed = 5
	require.False(t, withRewardOwed.IsEmpty())
}

func TestAdaptiveFeeTierPermissioned(t *testing.T) {
	open := AdaptiveFeeTier{}
	require.False(t, open.Permissioned())

	var authority Identity
	authority[0] = 9
	gated := AdaptiveFeeTier{InitializePoolAuthority: authority}
	require.True(t, gated.Permissioned())
}
