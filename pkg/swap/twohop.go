package swap

import (
	"fmt"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// TwoHopParams are the inputs to TwoHopSwap (spec's two-hop variant): two
// independent pool legs whose intermediate token cancels exactly.
type TwoHopParams struct {
	Pool1, Pool2                 *record.Pool
	Oracle1, Oracle2             *record.Oracle
	Seq1, Seq2                   Sequence
	TickSpacing1, TickSpacing2   uint16
	AmountSpecified              uint64
	AmountSpecifiedIsInput       bool
	AToBOne, AToBTwo             bool
	SqrtPriceLimitOne            uint128.Uint128
	SqrtPriceLimitTwo            uint128.Uint128
	OtherAmountThreshold         uint64
	Now                          uint64
}

// TwoHopResult bundles both legs' commits plus the two outer (non-
// intermediate) amounts the caller settles against the trader.
type TwoHopResult struct {
	Leg1, Leg2   *PostSwapUpdate
	AmountIn     uint64
	AmountOut    uint64
}

func outputMint(pool *record.Pool, aToB bool) record.Identity {
	if aToB {
		return pool.TokenMintB
	}
	return pool.TokenMintA
}

func inputMint(pool *record.Pool, aToB bool) record.Identity {
	if aToB {
		return pool.TokenMintA
	}
	return pool.TokenMintB
}

// TwoHopSwap runs two Swap legs back to back such that the intermediate
// token amount cancels exactly (spec: "Two-hop variant"). For exact-in,
// leg 1 runs forward and its output funds leg 2's input. For exact-out,
// leg 2 is solved first from the requested output, and leg 1 is solved
// backwards to produce exactly that much intermediate input.
func TwoHopSwap(p TwoHopParams) (*TwoHopResult, error) {
	if p.Pool1 == p.Pool2 {
		return nil, solveerr.ErrDuplicateTwoHopPool
	}
	if outputMint(p.Pool1, p.AToBOne) != inputMint(p.Pool2, p.AToBTwo) {
		return nil, solveerr.ErrInvalidIntermediaryMint
	}

	if p.AmountSpecifiedIsInput {
		leg1, err := Run(p.Pool1, p.Oracle1, p.Seq1, p.TickSpacing1, Params{
			Amount:                 p.AmountSpecified,
			SqrtPriceLimit:         p.SqrtPriceLimitOne,
			AmountSpecifiedIsInput: true,
			AToB:                   p.AToBOne,
			Now:                    p.Now,
		})
		if err != nil {
			return nil, fmt.Errorf("leg 1: %w", err)
		}
		intermediate := legOutput(leg1, p.AToBOne)

		leg2, err := Run(p.Pool2, p.Oracle2, p.Seq2, p.TickSpacing2, Params{
			Amount:                 intermediate,
			SqrtPriceLimit:         p.SqrtPriceLimitTwo,
			AmountSpecifiedIsInput: true,
			AToB:                   p.AToBTwo,
			Now:                    p.Now,
			OtherAmountThreshold:   p.OtherAmountThreshold,
		})
		if err != nil {
			return nil, fmt.Errorf("leg 2: %w", err)
		}
		if legInput(leg2, p.AToBTwo) != intermediate {
			return nil, solveerr.ErrIntermediateTokenAmountMismatch
		}

		return &TwoHopResult{
			Leg1:      leg1,
			Leg2:      leg2,
			AmountIn:  p.AmountSpecified,
			AmountOut: legOutput(leg2, p.AToBTwo),
		}, nil
	}

	leg2, err := Run(p.Pool2, p.Oracle2, p.Seq2, p.TickSpacing2, Params{
		Amount:                 p.AmountSpecified,
		SqrtPriceLimit:         p.SqrtPriceLimitTwo,
		AmountSpecifiedIsInput: false,
		AToB:                   p.AToBTwo,
		Now:                    p.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("leg 2: %w", err)
	}
	intermediate := legInput(leg2, p.AToBTwo)

	leg1, err := Run(p.Pool1, p.Oracle1, p.Seq1, p.TickSpacing1, Params{
		Amount:                 intermediate,
		SqrtPriceLimit:         p.SqrtPriceLimitOne,
		AmountSpecifiedIsInput: false,
		AToB:                   p.AToBOne,
		Now:                    p.Now,
		OtherAmountThreshold:   p.OtherAmountThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("leg 1: %w", err)
	}
	if legOutput(leg1, p.AToBOne) != intermediate {
		return nil, solveerr.ErrIntermediateTokenAmountMismatch
	}

	return &TwoHopResult{
		Leg1:      leg1,
		Leg2:      leg2,
		AmountIn:  legInput(leg1, p.AToBOne),
		AmountOut: p.AmountSpecified,
	}, nil
}

func legOutput(u *PostSwapUpdate, aToB bool) uint64 {
	if aToB {
		return u.AmountB
	}
	return u.AmountA
}

func legInput(u *PostSwapUpdate, aToB bool) uint64 {
	if aToB {
		return u.AmountA
	}
	return u.AmountB
}
