package swap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/ratelimit"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)


// fakeSequence is a minimal Sequence with no initialized ticks at all: a
// swap against it always runs until amount is exhausted or the price limit
// is hit, never crossing.
type fakeSequence struct{}

func (fakeSequence) GetNextInitTickIndex(fromTick int32) (int32, int32, bool) {
	return 0, 0, false
}

func (fakeSequence) GetTick(arrayStart, tickIndex int32) (record.Tick, error) {
	return record.Tick{}, nil
}

func basicPool() *record.Pool {
	sqrtP, _ := fixedmath.SqrtPriceFromTickIndex(0)
	return &record.Pool{
		TickSpacing:      64,
		FeeRate:          3000, // 0.3%
		ProtocolFeeRate:  0,
		Liquidity:        uint128.From64(1_000_000_000),
		SqrtPrice:        sqrtP,
		TickCurrentIndex: 0,
	}
}

func TestSwapZeroAmountRejected(t *testing.T) {
	pool := basicPool()
	_, err := Run(pool, nil, fakeSequence{}, pool.TickSpacing, Params{
		Amount:                 0,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		Now:                    1,
		Budget:                 ratelimit.NewUnlimited(),
	})
	require.Error(t, err)
}

func TestSwapExactInAToBReducesPrice(t *testing.T) {
	pool := basicPool()
	out, err := Run(pool, nil, fakeSequence{}, pool.TickSpacing, Params{
		Amount:                 1_000_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		Now:                    1,
		Budget:                 ratelimit.NewUnlimited(),
	})
	require.NoError(t, err)
	require.True(t, out.NextSqrtPrice.Cmp(pool.SqrtPrice) < 0)
	require.Equal(t, uint64(1_000_000), out.AmountA)
	require.Greater(t, out.AmountB, uint64(0))
	require.Greater(t, out.LPFee, uint64(0))
}

func TestSwapExactInBToARaisesPrice(t *testing.T) {
	pool := basicPool()
	out, err := Run(pool, nil, fakeSequence{}, pool.TickSpacing, Params{
		Amount:                 1_000_000,
		AmountSpecifiedIsInput: true,
		AToB:                   false,
		Now:                    1,
		Budget:                 ratelimit.NewUnlimited(),
	})
	require.NoError(t, err)
	require.True(t, out.NextSqrtPrice.Cmp(pool.SqrtPrice) > 0)
	require.Equal(t, uint64(1_000_000), out.AmountB)
}

func TestSwapInvalidDirectionRejected(t *testing.T) {
	pool := basicPool()
	_, err := Run(pool, nil, fakeSequence{}, pool.TickSpacing, Params{
		Amount:                 1000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		SqrtPriceLimit:         pool.SqrtPrice.Add(uint128.From64(1)),
		Now:                    1,
		Budget:                 ratelimit.NewUnlimited(),
	})
	require.ErrorIs(t, err, solveerr.ErrInvalidSqrtPriceLimitDirection)
}

func TestSwapSlippageExactInBelowMinimumRejected(t *testing.T) {
	pool := basicPool()
	_, err := Run(pool, nil, fakeSequence{}, pool.TickSpacing, Params{
		Amount:                 1_000_000,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
		OtherAmountThreshold:   ^uint64(0),
		Now:                    1,
		Budget:                 ratelimit.NewUnlimited(),
	})
	require.Error(t, err)
}
