package quote

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
)

// emptySequence never reports an initialized tick, so a quote against it
// runs to completion without crossing any tick boundary.
type emptySequence struct{}

func (emptySequence) GetNextInitTickIndex(fromTick int32) (int32, int32, bool) {
	return 0, 0, false
}

func (emptySequence) GetTick(arrayStart, tickIndex int32) (record.Tick, error) {
	return record.Tick{}, nil
}

func basicPool() *record.Pool {
	sqrtP, _ := fixedmath.SqrtPriceFromTickIndex(0)
	return &record.Pool{
		TickSpacing:      64,
		FeeRate:          3000,
		Liquidity:        uint128.From64(1_000_000_000),
		SqrtPrice:        sqrtP,
		TickCurrentIndex: 0,
	}
}

func TestEstimateSwapRejectsZeroAmount(t *testing.T) {
	_, err := EstimateSwap(Params{
		Pool:                   basicPool(),
		Sequence:               emptySequence{},
		TickSpacing:            64,
		Amount:                 cosmath.ZeroInt(),
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		Now:                    1,
	})
	require.Error(t, err)
}

func TestEstimateSwapRejectsNegativeAmount(t *testing.T) {
	_, err := EstimateSwap(Params{
		Pool:                   basicPool(),
		Sequence:               emptySequence{},
		TickSpacing:            64,
		Amount:                 cosmath.NewInt(-5),
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		Now:                    1,
	})
	require.Error(t, err)
}

func TestEstimateSwapAToBReturnsPositiveOutput(t *testing.T) {
	out, err := EstimateSwap(Params{
		Pool:                   basicPool(),
		Sequence:               emptySequence{},
		TickSpacing:            64,
		Amount:                 cosmath.NewIntFromUint64(1_000_000),
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		Now:                    1,
	})
	require.NoError(t, err)
	require.True(t, out.IsPositive())
	require.True(t, out.LT(cosmath.NewIntFromUint64(1_000_000)))
}

func TestEstimateSwapDoesNotMutatePool(t *testing.T) {
	pool := basicPool()
	originalSqrtPrice := pool.SqrtPrice

	_, err := EstimateSwap(Params{
		Pool:                   pool,
		Sequence:               emptySequence{},
		TickSpacing:            64,
		Amount:                 cosmath.NewIntFromUint64(1_000_000),
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		Now:                    1,
	})
	require.NoError(t, err)
	require.Equal(t, originalSqrtPrice, pool.SqrtPrice)
}
