package fixedmath

import (
	"fmt"
	"math/big"

	"github.com/solve-so/solve-core/pkg/solveerr"
	"lukechampine.com/uint128"
)

// tickLadder holds, for bit i of |tick|, the Q64.64 representation of
// 1.0001^(-2^i / 2). SqrtPriceFromTickIndex accumulates the product of the
// ladder entries selected by the bits of |tick| (all in the "descending"
// direction) and inverts the result for positive ticks. Each entry is
// floor(2^64 * 1.0001^(-2^i/2)).
var tickLadder = [20]uint128.Uint128{
	mustU128("18445821805675392311"),
	mustU128("18444899583751176498"),
	mustU128("18443055278223354162"),
	mustU128("18439367220385604838"),
	mustU128("18431993317065449817"),
	mustU128("18417254355718160513"),
	mustU128("18387811781193591352"),
	mustU128("18329067761203520168"),
	mustU128("18212142134806087854"),
	mustU128("17980523815641551639"),
	mustU128("17526086738831147013"),
	mustU128("16651378430235024244"),
	mustU128("15030750278693429944"),
	mustU128("12247334978882834399"),
	mustU128("8131365268884726200"),
	mustU128("3584323654723342297"),
	mustU128("696457651847595233"),
	mustU128("26294789957452057"),
	mustU128("37481735321082"),
	mustU128("76158723"),
}

func mustU128(s string) uint128.Uint128 {
	return uint128.Must(uint128.FromString(s))
}

// rawSqrtPriceFromTickIndex runs the bit-shift ladder with no range check on
// the output; it is monotonic non-decreasing in tick across the full
// [MinTick, MaxTick] domain (verified by the package tests), which is what
// lets MinSqrtPriceX64/MaxSqrtPriceX64 below be *defined* as its endpoints
// rather than independently-sourced magic numbers that could disagree with
// the ladder by a few truncation ULPs at the boundary.
func rawSqrtPriceFromTickIndex(tick int32) uint128.Uint128 {
	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}

	ratio := uint128.From64(1).Lsh(Q64Resolution)
	for i := 0; i < len(tickLadder); i++ {
		if absTick&(1<<uint(i)) != 0 {
			ratio = mulShift64(ratio, tickLadder[i])
		}
	}

	if tick > 0 {
		// ratio <= 2^64 here (it is a Q64.64 value representing something
		// <= 1.0), so 2^128/ratio fits comfortably back in 128 bits; 2^128
		// itself does not fit in a Uint128, so the division is done in
		// math/big rather than via MulDivFloor.
		numerator := new(big.Int).Lsh(big.NewInt(1), 128)
		ratio = uint128.FromBig(new(big.Int).Div(numerator, ratio.Big()))
	}
	return ratio
}

// mulShift64 computes (a * b) >> 64 without overflowing the intermediate product.
func mulShift64(a, b uint128.Uint128) uint128.Uint128 {
	prod := Mul128(a, b).big()
	prod.Rsh(prod, Q64Resolution)
	return uint128.FromBig(prod)
}

// MinSqrtPriceX64 and MaxSqrtPriceX64 are the ladder's own endpoints, so that
// SqrtPriceFromTickIndex(MinTick) == MinSqrtPriceX64 and
// SqrtPriceFromTickIndex(MaxTick) == MaxSqrtPriceX64 exactly.
var (
	MinSqrtPriceX64 = rawSqrtPriceFromTickIndex(MinTick)
	MaxSqrtPriceX64 = rawSqrtPriceFromTickIndex(MaxTick)
)

// SqrtPriceFromTickIndex returns 1.0001^(tick/2) in Q64.64. Defined on
// [MinTick, MaxTick]; fails outside that range.
func SqrtPriceFromTickIndex(tick int32) (uint128.Uint128, error) {
	if tick < MinTick || tick > MaxTick {
		return uint128.Zero, fmt.Errorf("tick %d out of [%d,%d]: %w", tick, MinTick, MaxTick, solveerr.ErrInvalidTickIndex)
	}
	return rawSqrtPriceFromTickIndex(tick), nil
}

// TickIndexFromSqrtPrice is the inverse of SqrtPriceFromTickIndex: monotonic,
// and satisfies SqrtPriceFromTickIndex(t) <= p < SqrtPriceFromTickIndex(t+1)
// where t = TickIndexFromSqrtPrice(p). p is assumed to already lie in
// [MinSqrtPriceX64, MaxSqrtPriceX64]; callers that accept external input
// must validate bounds first (see SqrtPriceOutOfBounds in pkg/swap).
func TickIndexFromSqrtPrice(sqrtPrice uint128.Uint128) int32 {
	lo, hi := int32(MinTick), int32(MaxTick)
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if rawSqrtPriceFromTickIndex(mid).Cmp(sqrtPrice) > 0 {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	return lo
}

// CheckedMulShiftRight computes (a * b) >> 64, failing on overflow (the
// result would need more than 128 bits even after the shift).
func CheckedMulShiftRight(a, b uint128.Uint128) (uint128.Uint128, error) {
	prod := Mul128(a, b).big()
	prod.Rsh(prod, Q64Resolution)
	return bigToU128Checked(prod)
}

// CheckedMulDiv computes floor(a*b/denom), failing on overflow or division
// by zero.
func CheckedMulDiv(a, b, denom uint128.Uint128) (uint128.Uint128, error) {
	return MulDivFloor(a, b, denom)
}
