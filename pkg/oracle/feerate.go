// Package oracle implements the adaptive-fee controller (L6): the per-pool
// volatility accumulator, reference resets, total-fee-rate computation, and
// the major-swap timestamp freeze, all driven off the record.Oracle state
// machine (spec §3.5, §4.6).
package oracle

import (
	"fmt"
	"math/big"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// MaxReferenceAge is the anti-DoS forced-reset window (spec §4.6 step 1):
// 3600 seconds since the last reference update.
const MaxReferenceAge = 3600

// FeeRateManager drives one swap's worth of adaptive-fee state. It is
// constructed from a snapshot of the Oracle record, mutates only its own
// in-memory copy of the variables during the swap, and the caller persists
// the final Variables (FeeRateManager.Variables()) back to the Oracle record
// once the swap commits.
type FeeRateManager struct {
	aToB          bool
	tickGroupSize int32
	baseFeeRate   uint32
	constants     record.AdaptiveFeeConstants
	variables     record.AdaptiveFeeVariables
	tickGroupIndex int32
	active        bool // false when no oracle is attached: static fee only
}

// NewFeeRateManager builds the manager for one swap. oracle may be nil,
// meaning the pool has no adaptive-fee tier: TotalFeeRate then always
// returns baseFeeRate unmodified and every other method is a no-op.
func NewFeeRateManager(aToB bool, tickCurrentIndex int32, baseFeeRate uint32, oracle *record.Oracle) *FeeRateManager {
	m := &FeeRateManager{aToB: aToB, baseFeeRate: baseFeeRate}
	if oracle == nil {
		return m
	}
	m.active = true
	m.constants = oracle.Constants
	m.variables = oracle.Variables
	m.tickGroupSize = int32(oracle.Constants.TickGroupSize)
	m.tickGroupIndex = tickGroupIndexForTick(tickCurrentIndex, m.tickGroupSize, aToB)
	return m
}

func tickGroupIndexForTick(tick, groupSize int32, aToB bool) int32 {
	g := floorDiv(tick, groupSize)
	if aToB && tick%groupSize == 0 {
		g--
	}
	return g
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Variables returns the working copy of the oracle's mutable state, to be
// persisted by the caller once the swap commits.
func (m *FeeRateManager) Variables() record.AdaptiveFeeVariables {
	return m.variables
}

// UpdateVolatilityAccumulator runs the per-tick-group-step update flow
// (spec §4.6 steps 1–2): first update_reference, then
// update_volatility_accumulator, both against the manager's current
// tick_group_index.
func (m *FeeRateManager) UpdateVolatilityAccumulator(now uint64) error {
	if !m.active {
		return nil
	}
	if err := m.updateReference(now); err != nil {
		return err
	}
	m.updateVolatilityAccumulator()
	return nil
}

func (m *FeeRateManager) updateReference(now uint64) error {
	maxTs := m.variables.LastReferenceUpdateTimestamp
	if m.variables.LastMajorSwapTimestamp > maxTs {
		maxTs = m.variables.LastMajorSwapTimestamp
	}
	if now < maxTs {
		return fmt.Errorf("now %d precedes last reference/major-swap timestamp %d: %w", now, maxTs, solveerr.ErrInvalidTimestamp)
	}

	if now-m.variables.LastReferenceUpdateTimestamp > MaxReferenceAge {
		m.variables.TickGroupIndexReference = m.tickGroupIndex
		m.variables.VolatilityReference = 0
		m.variables.LastReferenceUpdateTimestamp = now
		return nil
	}

	elapsed := now - maxTs
	switch {
	case elapsed < uint64(m.constants.FilterPeriod):
		// High-frequency window: reference unchanged.
	case elapsed < uint64(m.constants.DecayPeriod):
		m.variables.VolatilityReference = uint32(uint64(m.variables.VolatilityAccumulator) * uint64(m.constants.ReductionFactor) / 10000)
		m.variables.TickGroupIndexReference = m.tickGroupIndex
		m.variables.LastReferenceUpdateTimestamp = now
	default:
		m.variables.VolatilityReference = 0
		m.variables.TickGroupIndexReference = m.tickGroupIndex
		m.variables.LastReferenceUpdateTimestamp = now
	}
	return nil
}

func (m *FeeRateManager) updateVolatilityAccumulator() {
	delta := m.tickGroupIndex - m.variables.TickGroupIndexReference
	if delta < 0 {
		delta = -delta
	}
	candidate := uint64(m.variables.VolatilityReference) + uint64(delta)*10000
	if candidate > uint64(m.constants.MaxVolatilityAccumulator) {
		candidate = uint64(m.constants.MaxVolatilityAccumulator)
	}
	m.variables.VolatilityAccumulator = uint32(candidate)
}

// TotalFeeRate computes min(base_fee_rate + adaptive_component, MAX_FEE_RATE)
// (spec §4.6 step 3).
func (m *FeeRateManager) TotalFeeRate() uint32 {
	if !m.active {
		return m.baseFeeRate
	}
	// scaled fits u32 by the oracle-constant invariant max_volatility *
	// tick_group_size <= u32::MAX; squaring and multiplying by the control
	// factor can still exceed u64, so the product goes through big.Int.
	scaled := big.NewInt(int64(m.variables.VolatilityAccumulator) * int64(m.constants.TickGroupSize))
	sq := new(big.Int).Mul(scaled, scaled)
	num := sq.Mul(sq, big.NewInt(int64(m.constants.AdaptiveFeeControlFactor)))
	denom := big.NewInt(100000 * 10000 * 10000)
	adaptive, rem := new(big.Int).QuoRem(num, denom, new(big.Int))
	if rem.Sign() != 0 {
		adaptive.Add(adaptive, big.NewInt(1))
	}

	total := new(big.Int).Add(big.NewInt(int64(m.baseFeeRate)), adaptive)
	if total.Cmp(big.NewInt(fixedmath.MaxFeeRate)) > 0 {
		return fixedmath.MaxFeeRate
	}
	return uint32(total.Int64())
}


// BoundedTarget clips targetSqrtP to the boundary of the current tick
// group, unless the group is empty of liquidity, in which case the step is
// skipped and the raw target is returned unchanged (spec §4.6 step 4).
func (m *FeeRateManager) BoundedTarget(targetSqrtP uint128.Uint128, liquidity uint128.Uint128, tickSpacing uint16) (uint128.Uint128, bool, error) {
	if !m.active {
		return targetSqrtP, false, nil
	}
	if liquidity.IsZero() {
		return targetSqrtP, true, nil
	}

	var boundaryTick int32
	if m.aToB {
		boundaryTick = m.tickGroupIndex * m.tickGroupSize
	} else {
		boundaryTick = (m.tickGroupIndex + 1) * m.tickGroupSize
	}
	if boundaryTick < fixedmath.MinTick {
		boundaryTick = fixedmath.MinTick
	}
	if boundaryTick > fixedmath.MaxTick {
		boundaryTick = fixedmath.MaxTick
	}
	boundarySqrtP, err := fixedmath.SqrtPriceFromTickIndex(boundaryTick)
	if err != nil {
		return uint128.Zero, false, err
	}

	if m.aToB {
		if boundarySqrtP.Cmp(targetSqrtP) > 0 {
			return boundarySqrtP, false, nil
		}
		return targetSqrtP, false, nil
	}
	if boundarySqrtP.Cmp(targetSqrtP) < 0 {
		return boundarySqrtP, false, nil
	}
	return targetSqrtP, false, nil
}

// AdvanceTickGroup steps the manager's tick group by one in the swap direction.
func (m *FeeRateManager) AdvanceTickGroup() {
	if !m.active {
		return
	}
	if m.aToB {
		m.tickGroupIndex--
	} else {
		m.tickGroupIndex++
	}
}

// AdvanceTickGroupAfterSkip fast-forwards tick_group_index to the group
// containing currSqrtP after a skipped (un-bounded) step.
func (m *FeeRateManager) AdvanceTickGroupAfterSkip(currSqrtP uint128.Uint128) {
	if !m.active {
		return
	}
	tick := fixedmath.TickIndexFromSqrtPrice(currSqrtP)
	m.tickGroupIndex = tickGroupIndexForTick(tick, m.tickGroupSize, m.aToB)
}

// UpdateMajorSwapTimestamp implements spec §4.6 step 5: if the swap's price
// move is at least major_swap_threshold_ticks worth of price ratio,
// last_major_swap_timestamp is frozen to now.
func (m *FeeRateManager) UpdateMajorSwapTimestamp(now uint64, preSqrtP, postSqrtP uint128.Uint128) error {
	if !m.active {
		return nil
	}
	smaller, larger := preSqrtP, postSqrtP
	if smaller.Cmp(larger) > 0 {
		smaller, larger = larger, smaller
	}
	thresholdSqrtP, err := fixedmath.SqrtPriceFromTickIndex(int32(m.constants.MajorSwapThresholdTicks))
	if err != nil {
		return err
	}
	majorTarget, err := fixedmath.CheckedMulShiftRight(smaller, thresholdSqrtP)
	if err != nil {
		return err
	}
	if larger.Cmp(majorTarget) >= 0 {
		m.variables.LastMajorSwapTimestamp = now
	}
	return nil
}

// IsTradeEnabled implements the trade gate (spec §4.6 last paragraph): a
// nil oracle always allows trading; otherwise trading is gated on now
// reaching trade_enable_timestamp.
func IsTradeEnabled(oracle *record.Oracle, now uint64) bool {
	if oracle == nil {
		return true
	}
	return now >= oracle.TradeEnableTimestamp
}

// ValidateTradeEnableTimestamp enforces the initialization-time bounds on
// trade_enable_timestamp (spec §4.6 last paragraph): at most
// MaxTradeEnableTimestampDelta in the future, at most
// MaxTradeEnableTimestampPastSlack in the past (treated as "no delay").
func ValidateTradeEnableTimestamp(now, requested uint64) (uint64, error) {
	if requested <= now {
		if now-requested > uint64(record.MaxTradeEnableTimestampPastSlack) {
			return 0, fmt.Errorf("trade_enable_timestamp %d too far in the past: %w", requested, solveerr.ErrInvalidTradeEnableTimestamp)
		}
		return 0, nil
	}
	if requested-now > uint64(record.MaxTradeEnableTimestampDelta) {
		return 0, fmt.Errorf("trade_enable_timestamp %d exceeds max delta from %d: %w", requested, now, solveerr.ErrInvalidTradeEnableTimestamp)
	}
	return requested, nil
}
