package liquidity

import (
	"fmt"
	"math/big"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
	"github.com/solve-so/solve-core/pkg/ticks"
)

// TokenDelta holds the unsigned token amounts a liquidity modification
// moves (spec §4.4 step 7). The direction is given by the sign of the
// liquidity delta: a positive delta is a deposit by the position holder, a
// negative delta a withdrawal.
type TokenDelta struct {
	AmountA uint64
	AmountB uint64
}

// ModifyLiquidityUpdate is the full bundle calculate_modify_liquidity
// produces: new pool liquidity, the two boundary tick updates, the new
// position state, and the token deltas the caller must settle via the
// external transfer collaborator.
type ModifyLiquidityUpdate struct {
	PoolLiquidity    uint128.Uint128
	PoolRewardInfos  [record.NumRewards]record.RewardInfo
	TickLowerUpdate  ticks.TickUpdate
	TickUpperUpdate  ticks.TickUpdate
	Position         record.Position
	Tokens           TokenDelta
}

// numActiveRewards returns how many of a pool's reward slots are initialized.
func numActiveRewards(pool *record.Pool) int {
	n := 0
	for _, r := range pool.RewardInfos {
		if r.Initialized() {
			n++
		}
	}
	return n
}

// CalculateModifyLiquidity implements spec §4.4: given a pool, a position,
// its boundary ticks, a signed liquidity delta, and the current timestamp,
// compute the full update bundle. delta > 0 is a deposit (open/increase);
// delta < 0 is a withdrawal (decrease); delta == 0 recomputes fee/reward
// settlement only (used by CalculateFeeAndRewardGrowths).
func CalculateModifyLiquidity(
	pool *record.Pool,
	position *record.Position,
	lowerTick record.Tick,
	upperTick record.Tick,
	delta big.Int,
	now uint64,
) (ModifyLiquidityUpdate, error) {
	if delta.Sign() == 0 && position.Liquidity.IsZero() {
		return ModifyLiquidityUpdate{}, fmt.Errorf("cannot touch an empty position with a zero delta: %w", solveerr.ErrLiquidityZero)
	}

	nextRewardInfos, err := NextPoolRewardInfos(pool, now)
	if err != nil {
		return ModifyLiquidityUpdate{}, err
	}

	newPoolLiquidity := pool.Liquidity
	inRange := pool.TickCurrentIndex >= position.TickLowerIndex && pool.TickCurrentIndex < position.TickUpperIndex
	if inRange && delta.Sign() != 0 {
		newPoolLiquidity, err = fixedmath.AddLiquidityDelta(pool.Liquidity, delta)
		if err != nil {
			return ModifyLiquidityUpdate{}, err
		}
	}

	globals := ticks.GrowthGlobals{
		FeeGrowthA: pool.FeeGrowthGlobalA,
		FeeGrowthB: pool.FeeGrowthGlobalB,
	}
	for i, r := range nextRewardInfos {
		globals.RewardGrowths[i] = r.GrowthGlobal
	}
	active := numActiveRewards(pool)

	lowerUpdate, err := ticks.UpdateOnModify(lowerTick, position.TickLowerIndex, pool.TickCurrentIndex, delta, false, globals, active)
	if err != nil {
		return ModifyLiquidityUpdate{}, err
	}
	upperUpdate, err := ticks.UpdateOnModify(upperTick, position.TickUpperIndex, pool.TickCurrentIndex, delta, true, globals, active)
	if err != nil {
		return ModifyLiquidityUpdate{}, err
	}

	lowerForInside := lowerTick
	upperForInside := upperTick
	if lowerUpdate.Initialized {
		lowerForInside.FeeGrowthOutsideA = lowerUpdate.FeeGrowthOutsideA
		lowerForInside.FeeGrowthOutsideB = lowerUpdate.FeeGrowthOutsideB
		lowerForInside.RewardGrowthsOutside = lowerUpdate.RewardGrowthsOutside
	}
	if upperUpdate.Initialized {
		upperForInside.FeeGrowthOutsideA = upperUpdate.FeeGrowthOutsideA
		upperForInside.FeeGrowthOutsideB = upperUpdate.FeeGrowthOutsideB
		upperForInside.RewardGrowthsOutside = upperUpdate.RewardGrowthsOutside
	}

	insideA, insideB := ticks.FeeGrowthInside(pool.TickCurrentIndex, position.TickLowerIndex, lowerForInside, position.TickUpperIndex, upperForInside, pool.FeeGrowthGlobalA, pool.FeeGrowthGlobalB)
	insideRewards := ticks.RewardGrowthsInside(pool.TickCurrentIndex, position.TickLowerIndex, lowerForInside, position.TickUpperIndex, upperForInside, globals.RewardGrowths)

	newPosition := *position

	feeDeltaA := insideA.Sub(position.FeeGrowthCheckpointA)
	owedA, err := fixedmath.MulDivFloor(feeDeltaA, position.Liquidity, fixedmath.Q64One)
	if err != nil {
		return ModifyLiquidityUpdate{}, err
	}
	feeDeltaB := insideB.Sub(position.FeeGrowthCheckpointB)
	owedB, err := fixedmath.MulDivFloor(feeDeltaB, position.Liquidity, fixedmath.Q64One)
	if err != nil {
		return ModifyLiquidityUpdate{}, err
	}
	newPosition.FeeOwedA = saturatingAddU64(position.FeeOwedA, fixedmath.ClipToU64(owedA))
	newPosition.FeeOwedB = saturatingAddU64(position.FeeOwedB, fixedmath.ClipToU64(owedB))
	newPosition.FeeGrowthCheckpointA = insideA
	newPosition.FeeGrowthCheckpointB = insideB

	for i := range newPosition.RewardInfos {
		growthDelta := insideRewards[i].Sub(position.RewardInfos[i].GrowthInsideCheckpoint)
		owed, err := fixedmath.MulDivFloor(growthDelta, position.Liquidity, fixedmath.Q64One)
		if err != nil {
			return ModifyLiquidityUpdate{}, err
		}
		newPosition.RewardInfos[i].AmountOwed = saturatingAddU64(position.RewardInfos[i].AmountOwed, fixedmath.ClipToU64(owed))
		newPosition.RewardInfos[i].GrowthInsideCheckpoint = insideRewards[i]
	}

	if delta.Sign() != 0 {
		newLiquidity, err := fixedmath.AddLiquidityDelta(position.Liquidity, delta)
		if err != nil {
			return ModifyLiquidityUpdate{}, err
		}
		newPosition.Liquidity = newLiquidity
	}

	tokens, err := tokenDeltas(pool, position, delta)
	if err != nil {
		return ModifyLiquidityUpdate{}, err
	}

	return ModifyLiquidityUpdate{
		PoolLiquidity:   newPoolLiquidity,
		PoolRewardInfos: nextRewardInfos,
		TickLowerUpdate: lowerUpdate,
		TickUpperUpdate: upperUpdate,
		Position:        newPosition,
		Tokens:          tokens,
	}, nil
}

// CalculateFeeAndRewardGrowths is CalculateModifyLiquidity with delta = 0:
// it only settles fee/reward accrual (used by UpdateFeesAndRewards), never
// touching pool or position liquidity.
func CalculateFeeAndRewardGrowths(pool *record.Pool, position *record.Position, lowerTick, upperTick record.Tick, now uint64) (ModifyLiquidityUpdate, error) {
	return CalculateModifyLiquidity(pool, position, lowerTick, upperTick, *big.NewInt(0), now)
}

func tokenDeltas(pool *record.Pool, position *record.Position, delta big.Int) (TokenDelta, error) {
	if delta.Sign() == 0 {
		return TokenDelta{}, nil
	}
	roundUp := delta.Sign() > 0
	absDelta := new(big.Int).Abs(&delta)
	l, err := fixedmath.ConvertToLiquidityDelta(uint128.FromBig(absDelta), true)
	if err != nil {
		return TokenDelta{}, err
	}
	liquidity := uint128.FromBig(&l)

	lowerSqrtP, err := fixedmath.SqrtPriceFromTickIndex(position.TickLowerIndex)
	if err != nil {
		return TokenDelta{}, err
	}
	upperSqrtP, err := fixedmath.SqrtPriceFromTickIndex(position.TickUpperIndex)
	if err != nil {
		return TokenDelta{}, err
	}

	var out TokenDelta
	switch {
	case pool.TickCurrentIndex < position.TickLowerIndex:
		a, err := fixedmath.GetAmountDeltaA(lowerSqrtP, upperSqrtP, liquidity, roundUp)
		if err != nil {
			return TokenDelta{}, err
		}
		out.AmountA = a
	case pool.TickCurrentIndex < position.TickUpperIndex:
		a, err := fixedmath.GetAmountDeltaA(pool.SqrtPrice, upperSqrtP, liquidity, roundUp)
		if err != nil {
			return TokenDelta{}, err
		}
		b, err := fixedmath.GetAmountDeltaB(lowerSqrtP, pool.SqrtPrice, liquidity, roundUp)
		if err != nil {
			return TokenDelta{}, err
		}
		out.AmountA, out.AmountB = a, b
	default:
		b, err := fixedmath.GetAmountDeltaB(lowerSqrtP, upperSqrtP, liquidity, roundUp)
		if err != nil {
			return TokenDelta{}, err
		}
		out.AmountB = b
	}
	return out, nil
}

func saturatingAddU64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}
