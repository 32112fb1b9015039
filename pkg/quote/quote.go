// Package quote exposes a read-only swap simulation: given already-loaded
// pool/oracle/tick-array state, compute the counterparty amount a swap
// would settle at without persisting anything. This mirrors the teacher's
// per-DEX Quote(ctx, amount) contract (pkg/pool/whirlpool.WhirlpoolPool.Quote
// and its siblings across the other pool packages), adapted from a
// multi-DEX router's view function into a single-program one.
package quote

import (
	"lukechampine.com/uint128"

	cosmath "cosmossdk.io/math"

	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
	"github.com/solve-so/solve-core/pkg/swap"
)

// Params mirrors swap.Params, but its Amount and the returned estimate use
// cosmath.Int, the router-facing amount type the teacher's quoting surface
// already commits to across every pool implementation.
type Params struct {
	Pool                   *record.Pool
	Oracle                 *record.Oracle
	Sequence               swap.Sequence
	TickSpacing            uint16
	Amount                 cosmath.Int
	SqrtPriceLimit         uint128.Uint128
	AmountSpecifiedIsInput bool
	AToB                   bool
	Now                    uint64
}

// EstimateSwap runs the swap step machine against the given state without
// ever calling back into a Store; the PostSwapUpdate it derives from is
// discarded once the counterparty amount has been read off it.
func EstimateSwap(p Params) (cosmath.Int, error) {
	if p.Amount.IsNegative() || p.Amount.IsZero() {
		return cosmath.ZeroInt(), solveerr.ErrZeroTradableAmount
	}
	if !p.Amount.IsUint64() {
		return cosmath.ZeroInt(), solveerr.ErrAmountCalcOverflow
	}

	update, err := swap.Run(p.Pool, p.Oracle, p.Sequence, p.TickSpacing, swap.Params{
		Amount:                 p.Amount.Uint64(),
		SqrtPriceLimit:         p.SqrtPriceLimit,
		AmountSpecifiedIsInput: p.AmountSpecifiedIsInput,
		AToB:                   p.AToB,
		Now:                    p.Now,
	})
	if err != nil {
		return cosmath.ZeroInt(), err
	}

	// update.AmountA/AmountB are the settled amounts for each token leg;
	// AToB picks which one is the counterparty (output, for an exact-in
	// quote; required input, for an exact-out quote).
	counterparty := update.AmountB
	if p.AToB != p.AmountSpecifiedIsInput {
		counterparty = update.AmountA
	}
	return cosmath.NewIntFromUint64(counterparty), nil
}
