package fixedmath

import (
	"fmt"
	"math/big"

	"github.com/solve-so/solve-core/pkg/solveerr"
	"lukechampine.com/uint128"
)

// orderSqrtPrices returns (lower, upper) given two sqrt prices in any order.
func orderSqrtPrices(a, b uint128.Uint128) (uint128.Uint128, uint128.Uint128) {
	if a.Cmp(b) <= 0 {
		return a, b
	}
	return b, a
}

// GetAmountDeltaA returns the amount of token A required (roundUp=true) or
// yielded (roundUp=false) for a move between sqrtP0 and sqrtP1 at liquidity L:
//
//	deltaA = L * (sqrtPUpper - sqrtPLower) / (sqrtPUpper * sqrtPLower)
//
// computed via the widened mul-div kernel to avoid overflow. A result that
// does not fit in a u64 token amount fails with ErrNumberCastError.
func GetAmountDeltaA(sqrtP0, sqrtP1 uint128.Uint128, liquidity uint128.Uint128, roundUp bool) (uint64, error) {
	lower, upper := orderSqrtPrices(sqrtP0, sqrtP1)
	if lower.IsZero() {
		return 0, fmt.Errorf("sqrt price is zero: %w", solveerr.ErrSqrtPriceOutOfBounds)
	}

	numerator := Mul128(liquidity, upper.Sub(lower)).big()
	numerator.Lsh(numerator, Q64Resolution)
	denom := new(big.Int).Mul(lower.Big(), upper.Big())
	if denom.Sign() == 0 {
		return 0, fmt.Errorf("denominator is zero: %w", solveerr.ErrSqrtPriceOutOfBounds)
	}

	q, r := new(big.Int).DivMod(numerator, denom, new(big.Int))
	if roundUp && r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return bigToU64Checked(q)
}

// GetAmountDeltaB returns the amount of token B required or yielded for a
// move between sqrtP0 and sqrtP1 at liquidity L: deltaB = L * (sqrtPUpper - sqrtPLower).
func GetAmountDeltaB(sqrtP0, sqrtP1 uint128.Uint128, liquidity uint128.Uint128, roundUp bool) (uint64, error) {
	lower, upper := orderSqrtPrices(sqrtP0, sqrtP1)
	prod := Mul128(liquidity, upper.Sub(lower)).big()

	divisor := new(big.Int).Lsh(big.NewInt(1), Q64Resolution)
	q, r := new(big.Int).DivMod(prod, divisor, new(big.Int))
	if roundUp && r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return bigToU64Checked(q)
}

func bigToU64Checked(v *big.Int) (uint64, error) {
	if v.Sign() < 0 {
		return 0, solveerr.ErrNumberCastError
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("amount does not fit in u64: %w", solveerr.ErrNumberCastError)
	}
	return v.Uint64(), nil
}

// AddLiquidityDelta applies a signed liquidity delta to an unsigned
// liquidity total, failing on underflow (delta negative, |delta| > l) or
// overflow (sum would not fit in u128).
func AddLiquidityDelta(l uint128.Uint128, delta big.Int) (uint128.Uint128, error) {
	total := new(big.Int).Add(l.Big(), &delta)
	if total.Sign() < 0 {
		return uint128.Zero, fmt.Errorf("liquidity underflow: %w", solveerr.ErrLiquidityUnderflow)
	}
	max := new(big.Int).Lsh(big.NewInt(1), 128)
	if total.Cmp(max) >= 0 {
		return uint128.Zero, fmt.Errorf("liquidity overflow: %w", solveerr.ErrLiquidityOverflow)
	}
	return uint128.FromBig(total), nil
}

// ConvertToLiquidityDelta asserts |value| <= math.MaxInt128 and returns the
// signed delta as a big.Int (the natural "i128" representation in Go).
func ConvertToLiquidityDelta(value uint128.Uint128, positive bool) (big.Int, error) {
	maxI128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	v := value.Big()
	if v.Cmp(maxI128) > 0 {
		return big.Int{}, fmt.Errorf("liquidity delta too large: %w", solveerr.ErrLiquidityTooHigh)
	}
	if !positive {
		v = new(big.Int).Neg(v)
	}
	return *v, nil
}
