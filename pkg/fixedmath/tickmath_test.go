package fixedmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestSqrtPriceFromTickIndexBounds(t *testing.T) {
	_, err := SqrtPriceFromTickIndex(MinTick - 1)
	require.Error(t, err)

	_, err = SqrtPriceFromTickIndex(MaxTick + 1)
	require.Error(t, err)

	p, err := SqrtPriceFromTickIndex(MinTick)
	require.NoError(t, err)
	require.Equal(t, 0, p.Cmp(MinSqrtPriceX64))

	p, err = SqrtPriceFromTickIndex(MaxTick)
	require.NoError(t, err)
	require.Equal(t, 0, p.Cmp(MaxSqrtPriceX64))
}

func TestSqrtPriceFromTickIndexMonotonic(t *testing.T) {
	ticks := []int32{MinTick, -400000, -100000, -1, 0, 1, 100000, 400000, MaxTick}
	var prev uint128.Uint128
	for i, tick := range ticks {
		p, err := SqrtPriceFromTickIndex(tick)
		require.NoError(t, err)
		if i > 0 {
			require.True(t, p.Cmp(prev) > 0, "tick %d should produce a strictly larger sqrt price than tick %d", tick, ticks[i-1])
		}
		prev = p
	}
}

func TestTickIndexFromSqrtPriceRoundTrip(t *testing.T) {
	for _, tick := range []int32{MinTick, -443600, -10000, -1, 0, 1, 10000, 443600, MaxTick} {
		p, err := SqrtPriceFromTickIndex(tick)
		require.NoError(t, err)
		got := TickIndexFromSqrtPrice(p)
		require.Equal(t, tick, got)
	}
}

func TestAddLiquidityDeltaUnderflow(t *testing.T) {
	_, err := AddLiquidityDelta(uint128.Zero, *big.NewInt(-1))
	require.Error(t, err)
}

func TestAddLiquidityDeltaRoundTrip(t *testing.T) {
	base := uint128.From64(1_000_000)
	grown, err := AddLiquidityDelta(base, *big.NewInt(500))
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_500), grown.Lo)

	shrunk, err := AddLiquidityDelta(grown, *big.NewInt(-500))
	require.NoError(t, err)
	require.Equal(t, 0, shrunk.Cmp(base))
}
