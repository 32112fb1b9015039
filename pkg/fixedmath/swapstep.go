package fixedmath

import (
	"math/big"

	"lukechampine.com/uint128"
)

// SwapStepResult is the outcome of a single bounded swap step.
type SwapStepResult struct {
	NextSqrtPrice uint128.Uint128
	AmountIn      uint64
	AmountOut     uint64
	FeeAmount     uint64
}

// ComputeSwapStep computes the maximal step towards sqrtPriceTarget that
// consumes at most amountRemaining (net of fee for exact-in; gross output
// for exact-out) at the given liquidity and fee rate (hundredths of a basis
// point, denominator FeeRateMulValue). aToB selects price-decreasing
// (true) vs price-increasing (false) direction. All intermediate products go
// through the widened mul-div kernel.
func ComputeSwapStep(
	amountRemaining uint64,
	feeRate uint32,
	liquidity uint128.Uint128,
	sqrtPriceCurrent uint128.Uint128,
	sqrtPriceTarget uint128.Uint128,
	isExactInput bool,
	aToB bool,
) (SwapStepResult, error) {
	if liquidity.IsZero() {
		return SwapStepResult{NextSqrtPrice: sqrtPriceTarget}, nil
	}

	var result SwapStepResult

	if isExactInput {
		amountRemainingLessFee := applyFeeDown(amountRemaining, feeRate)
		amountInToTarget, err := amountDeltaForStep(sqrtPriceCurrent, sqrtPriceTarget, liquidity, aToB, true)
		if err != nil {
			return SwapStepResult{}, err
		}

		if amountInToTarget <= amountRemainingLessFee {
			result.AmountIn = amountInToTarget
			result.NextSqrtPrice = sqrtPriceTarget
		} else {
			result.AmountIn = amountRemainingLessFee
			next, err := nextSqrtPriceFromAmountIn(sqrtPriceCurrent, liquidity, amountRemainingLessFee, aToB)
			if err != nil {
				return SwapStepResult{}, err
			}
			result.NextSqrtPrice = next
		}

		out, err := amountDeltaForStep(sqrtPriceCurrent, result.NextSqrtPrice, liquidity, !aToB, false)
		if err != nil {
			return SwapStepResult{}, err
		}
		result.AmountOut = out

		if result.NextSqrtPrice.Cmp(sqrtPriceTarget) == 0 {
			// Completed the step to the tick/group boundary: fee is computed
			// on the gross input at the boundary, not proportionally on the
			// partial-fill remainder.
			result.FeeAmount = feeOnGross(result.AmountIn, feeRate)
		} else {
			result.FeeAmount = amountRemaining - result.AmountIn
		}
	} else {
		amountOutToTarget, err := amountDeltaForStep(sqrtPriceCurrent, sqrtPriceTarget, liquidity, !aToB, false)
		if err != nil {
			return SwapStepResult{}, err
		}

		if amountOutToTarget <= amountRemaining {
			result.AmountOut = amountOutToTarget
			result.NextSqrtPrice = sqrtPriceTarget
		} else {
			result.AmountOut = amountRemaining
			next, err := nextSqrtPriceFromAmountOut(sqrtPriceCurrent, liquidity, amountRemaining, aToB)
			if err != nil {
				return SwapStepResult{}, err
			}
			result.NextSqrtPrice = next
		}

		in, err := amountDeltaForStep(sqrtPriceCurrent, result.NextSqrtPrice, liquidity, aToB, true)
		if err != nil {
			return SwapStepResult{}, err
		}
		result.AmountIn = in
		result.FeeAmount = feeOnGross(result.AmountIn, feeRate)
	}

	return result, nil
}

// amountDeltaForStep dispatches to GetAmountDeltaA/B depending on direction:
// a_to_b steps consume/produce token A, b_to_a steps consume/produce token B.
func amountDeltaForStep(p0, p1 uint128.Uint128, liquidity uint128.Uint128, aToB bool, roundUp bool) (uint64, error) {
	if aToB {
		return GetAmountDeltaA(p0, p1, liquidity, roundUp)
	}
	return GetAmountDeltaB(p0, p1, liquidity, roundUp)
}

// applyFeeDown returns amount * (1_000_000 - feeRate) / 1_000_000, the
// amount actually available to trade after the fee is deducted up front.
func applyFeeDown(amount uint64, feeRate uint32) uint64 {
	if feeRate == 0 {
		return amount
	}
	num := new(big.Int).Mul(big.NewInt(int64(amount)), big.NewInt(int64(FeeRateMulValue-int64(feeRate))))
	num.Div(num, big.NewInt(FeeRateMulValue))
	return num.Uint64()
}

// feeOnGross returns fee = amountIn * feeRate / (1_000_000 - feeRate),
// rounded up: the fee charged on top of a gross input so that
// amountIn = grossInput - fee.
func feeOnGross(amountIn uint64, feeRate uint32) uint64 {
	if feeRate == 0 {
		return 0
	}
	denom := int64(FeeRateMulValue) - int64(feeRate)
	if denom <= 0 {
		return amountIn
	}
	num := new(big.Int).Mul(big.NewInt(int64(amountIn)), big.NewInt(int64(feeRate)))
	q, r := new(big.Int).DivMod(num, big.NewInt(denom), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Uint64()
}

// nextSqrtPriceFromAmountIn solves for the sqrt price reached after adding
// amountIn of the input token at the given liquidity.
func nextSqrtPriceFromAmountIn(sqrtPrice uint128.Uint128, liquidity uint128.Uint128, amountIn uint64, aToB bool) (uint128.Uint128, error) {
	if aToB {
		// sqrtP' = L*sqrtP / (L + amountIn*sqrtP/2^64)   (token A added)
		product := Mul128(liquidity, sqrtPrice).big()
		amountInScaled := new(big.Int).Lsh(big.NewInt(int64(amountIn)), 0)
		term := new(big.Int).Mul(amountInScaled, sqrtPrice.Big())
		term.Rsh(term, Q64Resolution)
		denom := new(big.Int).Add(liquidity.Big(), term)
		if denom.Sign() == 0 {
			return uint128.Zero, nil
		}
		q := new(big.Int).Div(product, denom)
		return bigToU128Checked(q)
	}
	// sqrtP' = sqrtP + (amountIn << 64) / L   (token B added)
	num := new(big.Int).Lsh(big.NewInt(int64(amountIn)), Q64Resolution)
	delta := new(big.Int).Div(num, liquidity.Big())
	return uint128.FromBig(new(big.Int).Add(sqrtPrice.Big(), delta)), nil
}

// nextSqrtPriceFromAmountOut solves for the sqrt price reached after
// removing amountOut of the output token at the given liquidity.
func nextSqrtPriceFromAmountOut(sqrtPrice uint128.Uint128, liquidity uint128.Uint128, amountOut uint64, aToB bool) (uint128.Uint128, error) {
	if aToB {
		// Removing token B: sqrtP' = sqrtP - (amountOut << 64) / L
		num := new(big.Int).Lsh(big.NewInt(int64(amountOut)), Q64Resolution)
		delta := new(big.Int).Div(num, liquidity.Big())
		diff := new(big.Int).Sub(sqrtPrice.Big(), delta)
		if diff.Sign() < 0 {
			diff.SetInt64(0)
		}
		return uint128.FromBig(diff), nil
	}
	// Removing token A: sqrtP' = L*sqrtP / (L - amountOut*sqrtP/2^64)
	product := Mul128(liquidity, sqrtPrice).big()
	term := new(big.Int).Mul(big.NewInt(int64(amountOut)), sqrtPrice.Big())
	term.Rsh(term, Q64Resolution)
	denom := new(big.Int).Sub(liquidity.Big(), term)
	if denom.Sign() <= 0 {
		return uint128.Zero, nil
	}
	q := new(big.Int).Div(product, denom)
	return bigToU128Checked(q)
}
