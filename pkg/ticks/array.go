// Package ticks implements the tick & tick-array store (L2) and the pure
// tick-update transitions (L3): updating a tick on liquidity modification or
// on price-cross, and computing fee/reward growth inside a range from the
// outside/inside convention.
package ticks

import (
	"fmt"
	"math/big"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// TickUpdate is the full replacement state for one tick slot, produced by
// the L3 transition functions and applied via Array.UpdateTick.
type TickUpdate struct {
	Initialized          bool
	LiquidityNet         big.Int
	LiquidityGross       uint128.Uint128
	FeeGrowthOutsideA    uint128.Uint128
	FeeGrowthOutsideB    uint128.Uint128
	RewardGrowthsOutside [record.NumRewards]uint128.Uint128
}

func (u TickUpdate) apply(t *record.Tick) {
	t.Initialized = u.Initialized
	t.LiquidityNet = u.LiquidityNet
	t.LiquidityGross = u.LiquidityGross
	t.FeeGrowthOutsideA = u.FeeGrowthOutsideA
	t.FeeGrowthOutsideB = u.FeeGrowthOutsideB
	t.RewardGrowthsOutside = u.RewardGrowthsOutside
}

// Array is the capability set any tick-array implementation exposes
// (spec §4.2): fixed, dynamic, and zeroed-placeholder variants all satisfy
// this interface identically.
type Array interface {
	StartTickIndex() int32
	IsVariableSize() bool
	GetTick(tickIndex int32, tickSpacing uint16) (record.Tick, error)
	UpdateTick(tickIndex int32, tickSpacing uint16, update TickUpdate) error
	GetNextInitTickIndex(tickIndex int32, tickSpacing uint16, aToB bool) (int32, bool)
	InSearchRange(tickIndex int32, tickSpacing uint16, shifted bool) bool
}

// ArrayBounds returns [start, start + 88*tickSpacing) for an array rooted at startTickIndex.
func ArrayBounds(startTickIndex int32, tickSpacing uint16) (int32, int32) {
	span := int32(record.TickArraySize) * int32(tickSpacing)
	return startTickIndex, startTickIndex + span
}

// StartIndexForTick returns the array boundary containing tickIndex: the
// largest multiple of 88*tickSpacing that is <= tickIndex.
func StartIndexForTick(tickIndex int32, tickSpacing uint16) int32 {
	span := int32(record.TickArraySize) * int32(tickSpacing)
	q := tickIndex / span
	if tickIndex%span != 0 && tickIndex < 0 {
		q--
	}
	return q * span
}

func slotForTick(startTickIndex int32, tickIndex int32, tickSpacing uint16) (int, error) {
	if tickSpacing == 0 || int32(tickIndex)%int32(tickSpacing) != 0 {
		return 0, solveerr.ErrInvalidTickIndex
	}
	lo, hi := ArrayBounds(startTickIndex, tickSpacing)
	if tickIndex < lo || tickIndex >= hi {
		return 0, solveerr.ErrTickNotFound
	}
	return int((tickIndex - startTickIndex) / int32(tickSpacing)), nil
}

// FixedArray adapts a *record.TickArray (a dense, pre-allocated 88-slot
// shard) to the Array capability interface.
type FixedArray struct {
	Data *record.TickArray
}

func (f *FixedArray) StartTickIndex() int32 { return f.Data.StartTickIndex }
func (f *FixedArray) IsVariableSize() bool  { return false }

func (f *FixedArray) GetTick(tickIndex int32, tickSpacing uint16) (record.Tick, error) {
	slot, err := slotForTick(f.Data.StartTickIndex, tickIndex, tickSpacing)
	if err != nil {
		return record.Tick{}, err
	}
	return f.Data.Ticks[slot], nil
}

func (f *FixedArray) UpdateTick(tickIndex int32, tickSpacing uint16, update TickUpdate) error {
	slot, err := slotForTick(f.Data.StartTickIndex, tickIndex, tickSpacing)
	if err != nil {
		return err
	}
	update.apply(&f.Data.Ticks[slot])
	return nil
}

func (f *FixedArray) GetNextInitTickIndex(tickIndex int32, tickSpacing uint16, aToB bool) (int32, bool) {
	lo, hi := ArrayBounds(f.Data.StartTickIndex, tickSpacing)
	if aToB {
		for t := tickIndex; t >= lo; t -= int32(tickSpacing) {
			slot, err := slotForTick(f.Data.StartTickIndex, t, tickSpacing)
			if err != nil {
				break
			}
			if f.Data.Ticks[slot].Initialized {
				return t, true
			}
		}
		return 0, false
	}
	for t := tickIndex + int32(tickSpacing); t < hi; t += int32(tickSpacing) {
		slot, err := slotForTick(f.Data.StartTickIndex, t, tickSpacing)
		if err != nil {
			break
		}
		if f.Data.Ticks[slot].Initialized {
			return t, true
		}
	}
	return 0, false
}

func (f *FixedArray) InSearchRange(tickIndex int32, tickSpacing uint16, shifted bool) bool {
	lo, hi := ArrayBounds(f.Data.StartTickIndex, tickSpacing)
	t := tickIndex
	if shifted {
		t += int32(tickSpacing)
	}
	return t >= lo && t < hi
}

// ZeroedArray is the "Proxy = Zeroed(start_index)" variant from the design
// notes: it satisfies Array without any backing storage, reporting every
// tick in its span as uninitialized. It lets a swap cross an unmaterialized
// region of the tick grid without the caller supplying storage for it.
type ZeroedArray struct {
	Start int32
}

func (z *ZeroedArray) StartTickIndex() int32 { return z.Start }
func (z *ZeroedArray) IsVariableSize() bool  { return false }

func (z *ZeroedArray) GetTick(tickIndex int32, tickSpacing uint16) (record.Tick, error) {
	if _, err := slotForTick(z.Start, tickIndex, tickSpacing); err != nil {
		return record.Tick{}, err
	}
	return record.Tick{}, nil
}

func (z *ZeroedArray) UpdateTick(tickIndex int32, tickSpacing uint16, update TickUpdate) error {
	return fmt.Errorf("zeroed tick array has no initialized ticks to update at %d: %w", tickIndex, solveerr.ErrTickNotFound)
}

func (z *ZeroedArray) GetNextInitTickIndex(tickIndex int32, tickSpacing uint16, aToB bool) (int32, bool) {
	return 0, false
}

func (z *ZeroedArray) InSearchRange(tickIndex int32, tickSpacing uint16, shifted bool) bool {
	lo, hi := ArrayBounds(z.Start, tickSpacing)
	t := tickIndex
	if shifted {
		t += int32(tickSpacing)
	}
	return t >= lo && t < hi
}
