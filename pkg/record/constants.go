// Package record defines the persisted data model: Pool, Tick, TickArray,
// Position, Oracle, and the governance/extension records referenced by
// spec.md §3 and §6. These are plain Go structs; encode/decode to the
// fixed-layout little-endian wire format lives in pkg/codec, and address
// derivation lives in pkg/addr.
package record

import "github.com/solve-so/solve-core/pkg/fixedmath"

// Re-exported for convenience so callers of pkg/record don't also need to
// import pkg/fixedmath for the handful of shape constants used in records.
const (
	TickArraySize      = fixedmath.TickArraySize
	MaxFeeRate         = fixedmath.MaxFeeRate
	MaxProtocolFeeRate = fixedmath.MaxProtocolFeeRate

	// FullRangeOnlyTickSpacingThreshold: tick_spacing at/above this forces
	// full-range-only positions (spec.md §3.4).
	FullRangeOnlyTickSpacingThreshold = fixedmath.FullRangeOnlyTickSpacingThreshold

	// NumRewards is the fixed number of reward slots a pool/position carries.
	NumRewards = 3

	// MaxTradeEnableTimestampDelta bounds how far in the future an adaptive
	// fee pool's trade_enable_timestamp may be set at initialization.
	MaxTradeEnableTimestampDelta = 72 * 60 * 60 // 72h in seconds

	// MaxTradeEnableTimestampPastSlack: timestamps up to this far in the
	// past at initialization are treated as "no delay" rather than rejected.
	MaxTradeEnableTimestampPastSlack = 30 // seconds
)
