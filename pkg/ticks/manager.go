package ticks

import (
	"fmt"
	"math/big"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// GrowthGlobals bundles the pool-level wrapping accumulators a tick
// transition needs: the two fee axes plus the fixed reward slots.
type GrowthGlobals struct {
	FeeGrowthA    uint128.Uint128
	FeeGrowthB    uint128.Uint128
	RewardGrowths [record.NumRewards]uint128.Uint128
}

var int128Min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
var int128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

func addSignedChecked(a, b *big.Int) (big.Int, error) {
	sum := new(big.Int).Add(a, b)
	if sum.Cmp(int128Min) < 0 || sum.Cmp(int128Max) > 0 {
		return big.Int{}, fmt.Errorf("liquidity_net overflow: %w", solveerr.ErrLiquidityNetError)
	}
	return *sum, nil
}

// UpdateOnModify computes the TickUpdate for a boundary tick touched by a
// liquidity modification (spec §4.3). isUpper selects the sign convention
// for liquidity_net; numActiveRewards bounds how many reward slots get
// seeded on first initialization.
func UpdateOnModify(
	current record.Tick,
	tickIndex int32,
	tickCurrentIndex int32,
	liquidityDelta big.Int,
	isUpper bool,
	globals GrowthGlobals,
	numActiveRewards int,
) (TickUpdate, error) {
	if liquidityDelta.Sign() == 0 {
		return TickUpdate{
			Initialized:          current.Initialized,
			LiquidityNet:         current.LiquidityNet,
			LiquidityGross:       current.LiquidityGross,
			FeeGrowthOutsideA:    current.FeeGrowthOutsideA,
			FeeGrowthOutsideB:    current.FeeGrowthOutsideB,
			RewardGrowthsOutside: current.RewardGrowthsOutside,
		}, nil
	}

	wasFirstInit := current.LiquidityGross.IsZero()

	newGross, err := fixedmath.AddLiquidityDelta(current.LiquidityGross, liquidityDelta)
	if err != nil {
		return TickUpdate{}, err
	}

	netDelta := new(big.Int).Set(&liquidityDelta)
	if isUpper {
		netDelta.Neg(netDelta)
	}
	newNet, err := addSignedChecked(&current.LiquidityNet, netDelta)
	if err != nil {
		return TickUpdate{}, err
	}

	if newGross.IsZero() {
		return TickUpdate{Initialized: false}, nil
	}

	update := TickUpdate{
		Initialized:          true,
		LiquidityNet:         newNet,
		LiquidityGross:       newGross,
		FeeGrowthOutsideA:    current.FeeGrowthOutsideA,
		FeeGrowthOutsideB:    current.FeeGrowthOutsideB,
		RewardGrowthsOutside: current.RewardGrowthsOutside,
	}

	if wasFirstInit {
		// Seed outside accumulators: assume all prior growth happened below
		// this tick when the current price is already at or past it.
		belowCurrent := tickCurrentIndex >= tickIndex
		if belowCurrent {
			update.FeeGrowthOutsideA = globals.FeeGrowthA
			update.FeeGrowthOutsideB = globals.FeeGrowthB
			for i := 0; i < numActiveRewards; i++ {
				update.RewardGrowthsOutside[i] = globals.RewardGrowths[i]
			}
		} else {
			update.FeeGrowthOutsideA = uint128.Zero
			update.FeeGrowthOutsideB = uint128.Zero
			for i := 0; i < numActiveRewards; i++ {
				update.RewardGrowthsOutside[i] = uint128.Zero
			}
		}
	}

	return update, nil
}

// CrossResult is the outcome of crossing an initialized tick mid-swap.
type CrossResult struct {
	Update              TickUpdate
	LiquidityNetApplied big.Int // signed delta to apply to the pool's active liquidity
}

// Cross computes the TickUpdate for crossing an initialized tick during a
// swap (spec §4.3 "On cross"): the outside accumulators flip via
// wrapping-subtract from the current global, and liquidity_net is applied to
// the pool's active liquidity with a direction-dependent sign.
func Cross(current record.Tick, aToB bool, globals GrowthGlobals, numActiveRewards int) CrossResult {
	update := TickUpdate{
		Initialized:          current.Initialized,
		LiquidityNet:         current.LiquidityNet,
		LiquidityGross:       current.LiquidityGross,
		FeeGrowthOutsideA:    globals.FeeGrowthA.Sub(current.FeeGrowthOutsideA),
		FeeGrowthOutsideB:    globals.FeeGrowthB.Sub(current.FeeGrowthOutsideB),
		RewardGrowthsOutside: current.RewardGrowthsOutside,
	}
	for i := 0; i < numActiveRewards; i++ {
		update.RewardGrowthsOutside[i] = globals.RewardGrowths[i].Sub(current.RewardGrowthsOutside[i])
	}

	applied := new(big.Int).Set(&current.LiquidityNet)
	if aToB {
		applied.Neg(applied)
	}
	return CrossResult{Update: update, LiquidityNetApplied: *applied}
}

// FeeGrowthInside computes fee_growth_inside_{a,b} for a range given the
// current tick and the two boundary ticks, using the outside/inside
// convention (spec §4.3): inside = global − below − above, where "below"/
// "above" are read directly off each boundary tick's outside accumulator
// (whose own sign flips automatically with tick_current_index's position
// relative to it).
func FeeGrowthInside(tickCurrentIndex int32, lowerIndex int32, lower record.Tick, upperIndex int32, upper record.Tick, globalA, globalB uint128.Uint128) (uint128.Uint128, uint128.Uint128) {
	var belowA, belowB uint128.Uint128
	if tickCurrentIndex >= lowerIndex {
		belowA, belowB = lower.FeeGrowthOutsideA, lower.FeeGrowthOutsideB
	} else {
		belowA, belowB = globalA.Sub(lower.FeeGrowthOutsideA), globalB.Sub(lower.FeeGrowthOutsideB)
	}

	var aboveA, aboveB uint128.Uint128
	if tickCurrentIndex < upperIndex {
		aboveA, aboveB = upper.FeeGrowthOutsideA, upper.FeeGrowthOutsideB
	} else {
		aboveA, aboveB = globalA.Sub(upper.FeeGrowthOutsideA), globalB.Sub(upper.FeeGrowthOutsideB)
	}

	insideA := globalA.Sub(belowA).Sub(aboveA)
	insideB := globalB.Sub(belowB).Sub(aboveB)
	return insideA, insideB
}

// RewardGrowthsInside is FeeGrowthInside's analogue for the fixed reward slots.
func RewardGrowthsInside(tickCurrentIndex int32, lowerIndex int32, lower record.Tick, upperIndex int32, upper record.Tick, globalRewards [record.NumRewards]uint128.Uint128) [record.NumRewards]uint128.Uint128 {
	var out [record.NumRewards]uint128.Uint128
	for i := 0; i < record.NumRewards; i++ {
		var below, above uint128.Uint128
		if tickCurrentIndex >= lowerIndex {
			below = lower.RewardGrowthsOutside[i]
		} else {
			below = globalRewards[i].Sub(lower.RewardGrowthsOutside[i])
		}
		if tickCurrentIndex < upperIndex {
			above = upper.RewardGrowthsOutside[i]
		} else {
			above = globalRewards[i].Sub(upper.RewardGrowthsOutside[i])
		}
		out[i] = globalRewards[i].Sub(below).Sub(above)
	}
	return out
}
