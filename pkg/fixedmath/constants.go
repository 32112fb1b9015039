// Package fixedmath implements the Q64.64 fixed-point math kernel: sqrt-price
// <-> tick conversion, liquidity-to-amount deltas, and the single-step swap
// computation. All prices and growth accumulators are unsigned 128-bit
// integers; liquidity deltas are signed 128-bit. No floating point is used
// anywhere in this package.
package fixedmath

import "lukechampine.com/uint128"

const (
	// Q64Resolution is the number of fractional bits in a Q64.64 value.
	Q64Resolution = 64

	// MinTick and MaxTick bound the usable tick range: price = 1.0001^tick.
	MinTick = -443636
	MaxTick = 443636

	// TickArraySize is the number of tick slots in a fixed-size TickArray.
	TickArraySize = 88

	// ProtocolFeeRateMulValue is the denominator protocol_fee_rate is expressed over.
	ProtocolFeeRateMulValue = 10000

	// MaxFeeRate is expressed in hundredths of a basis point (1e-6).
	MaxFeeRate = 60000

	// MaxProtocolFeeRate is expressed in basis points (1e-4).
	MaxProtocolFeeRate = 2500

	// FeeRateMulValue is the denominator fee_rate (and adaptive total fee
	// rate) is expressed over: hundredths of a basis point, 1e6 = 100%.
	FeeRateMulValue = 1_000_000

	// FullRangeOnlyTickSpacingThreshold: pools with tick_spacing at or above
	// this value only permit full-range positions.
	FullRangeOnlyTickSpacingThreshold = 32768

	// NoExplicitSqrtPriceLimit is the sentinel meaning "use min/max for direction".
	NoExplicitSqrtPriceLimit = 0
)

// MinSqrtPriceX64 and MaxSqrtPriceX64 are defined in tickmath.go as the
// ladder's own endpoints (sqrt_price_from_tick_index(MinTick) / (MaxTick)),
// so that bounds checks never disagree with the ladder by a few ULPs.

// Q64One is 1.0 represented in Q64.64.
var Q64One = uint128.From64(1).Lsh(Q64Resolution)
