// Package swap implements the stepwise swap engine (L5): marching the
// pool's square-root price across initialized ticks, honoring a price
// limit and slippage threshold, accumulating fees and the protocol-fee
// split, and driving the adaptive-fee controller one tick-group step at a
// time (spec §4.5).
package swap

import (
	"fmt"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/liquidity"
	"github.com/solve-so/solve-core/pkg/logging"
	"github.com/solve-so/solve-core/pkg/oracle"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
	"github.com/solve-so/solve-core/pkg/ticks"
)

// defaultStepsPerSecond caps the swap engine's tick-group sub-steps, for any
// swap whose Params.Budget is nil, regardless of how many initialized ticks a
// malicious or malformed tick-array sequence presents, a runtime backstop for
// the per-operation compute budget rather than a normal-path throttle.
const defaultStepsPerSecond = 100_000

var defaultBudget = ratelimit.New(defaultStepsPerSecond)

// Params are the swap entry point's inputs (spec §4.5).
type Params struct {
	Amount                 uint64
	SqrtPriceLimit         uint128.Uint128 // 0 sentinel: min/max per direction
	AmountSpecifiedIsInput bool
	AToB                   bool
	Now                    uint64
	OtherAmountThreshold   uint64

	// Budget bounds sub-step throughput (ratelimit.Limiter.Take blocks to
	// enforce it). Nil uses the package-wide defaultBudget; tests supply
	// ratelimit.NewUnlimited() to avoid the real-time wait.
	Budget ratelimit.Limiter
}

// PostSwapUpdate is the committed result of a swap (spec §4.5 pseudocode's
// return value).
type PostSwapUpdate struct {
	AmountA, AmountB         uint64
	LPFee, ProtocolFee       uint64
	NextLiquidity            uint128.Uint128
	NextTickIndex            int32
	NextSqrtPrice            uint128.Uint128
	NextFeeGrowthGlobalA     uint128.Uint128
	NextFeeGrowthGlobalB     uint128.Uint128
	NextProtocolFeeOwedA     uint64
	NextProtocolFeeOwedB     uint64
	NextRewardInfos          [record.NumRewards]record.RewardInfo
	NextOracleVariables      record.AdaptiveFeeVariables
	TickUpdates              []TickCrossUpdate
}

// TickCrossUpdate is one initialized tick's replacement state produced by a
// cross during the swap, tagged with the array it belongs to so the caller
// can route it back to storage.
type TickCrossUpdate struct {
	ArrayStart int32
	TickIndex  int32
	Update     ticks.TickUpdate
}

// Sequence is the subset of SparseSwapTickSequence the engine needs; kept
// as an interface so tests can supply a minimal fake.
type Sequence interface {
	GetNextInitTickIndex(fromTick int32) (tickIndex int32, arrayStart int32, found bool)
	GetTick(arrayStart, tickIndex int32) (record.Tick, error)
}

// Run executes one swap against pool/oracle snapshots and a prebuilt tick
// sequence, returning the full commit bundle without mutating its inputs.
func Run(pool *record.Pool, oracleRecord *record.Oracle, seq Sequence, tickSpacing uint16, p Params) (*PostSwapUpdate, error) {
	if p.Amount == 0 {
		return nil, solveerr.ErrZeroTradableAmount
	}
	if !oracle.IsTradeEnabled(oracleRecord, p.Now) {
		return nil, solveerr.ErrTradeIsNotEnabled
	}

	limit := p.SqrtPriceLimit
	sentinel := limit.IsZero()
	if sentinel {
		if p.AToB {
			limit = fixedmath.MinSqrtPriceX64
		} else {
			limit = fixedmath.MaxSqrtPriceX64
		}
	}
	if limit.Cmp(fixedmath.MinSqrtPriceX64) < 0 || limit.Cmp(fixedmath.MaxSqrtPriceX64) > 0 {
		return nil, solveerr.ErrSqrtPriceOutOfBounds
	}
	if p.AToB && limit.Cmp(pool.SqrtPrice) >= 0 {
		return nil, solveerr.ErrInvalidSqrtPriceLimitDirection
	}
	if !p.AToB && limit.Cmp(pool.SqrtPrice) <= 0 {
		return nil, solveerr.ErrInvalidSqrtPriceLimitDirection
	}

	currSqrtP := pool.SqrtPrice
	currTick := pool.TickCurrentIndex
	currL := pool.Liquidity

	rewardInfos, err := liquidity.NextPoolRewardInfos(pool, p.Now)
	if err != nil {
		return nil, err
	}
	feeGrowthGlobalA := pool.FeeGrowthGlobalA
	feeGrowthGlobalB := pool.FeeGrowthGlobalB

	var amountRemaining, amountCalculated uint64
	amountRemaining = p.Amount
	var feeSum, protocolFeeAccrued uint64
	var tickUpdates []TickCrossUpdate

	feeRateMgr := oracle.NewFeeRateManager(p.AToB, currTick, uint32(pool.FeeRate), oracleRecord)

	numActiveRewards := 0
	for _, r := range rewardInfos {
		if r.Initialized() {
			numActiveRewards++
		}
	}

	budget := p.Budget
	if budget == nil {
		budget = defaultBudget
	}

	for amountRemaining > 0 && currSqrtP.Cmp(limit) != 0 {
		nextTick, arrayStart, found := seq.GetNextInitTickIndex(currTick)
		var nextTickSqrtP uint128.Uint128
		if found {
			nextTickSqrtP, err = fixedmath.SqrtPriceFromTickIndex(nextTick)
			if err != nil {
				return nil, err
			}
		} else {
			if p.AToB {
				nextTickSqrtP = fixedmath.MinSqrtPriceX64
			} else {
				nextTickSqrtP = fixedmath.MaxSqrtPriceX64
			}
		}

		target := nextTickSqrtP
		if p.AToB {
			if limit.Cmp(target) > 0 {
				target = limit
			}
		} else {
			if limit.Cmp(target) < 0 {
				target = limit
			}
		}

		for {
			budget.Take()
			if err := feeRateMgr.UpdateVolatilityAccumulator(p.Now); err != nil {
				return nil, err
			}
			totalFeeRate := feeRateMgr.TotalFeeRate()
			boundedTarget, skipped, err := feeRateMgr.BoundedTarget(target, currL, tickSpacing)
			if err != nil {
				return nil, err
			}

			step, err := fixedmath.ComputeSwapStep(amountRemaining, totalFeeRate, currL, currSqrtP, boundedTarget, p.AmountSpecifiedIsInput, p.AToB)
			if err != nil {
				return nil, err
			}

			var consumed, produced uint64
			if p.AmountSpecifiedIsInput {
				consumed = step.AmountIn + step.FeeAmount
				produced = step.AmountOut
			} else {
				consumed = step.AmountOut
				produced = step.AmountIn + step.FeeAmount
			}
			if consumed > amountRemaining {
				return nil, fmt.Errorf("swap step consumed more than remaining: %w", solveerr.ErrAmountRemainingOverflow)
			}
			amountRemaining -= consumed
			amountCalculated += produced
			feeSum += step.FeeAmount

			protocolDelta := uint64(uint128.From64(uint64(step.FeeAmount)).Mul(uint128.From64(uint64(pool.ProtocolFeeRate))).Div64(fixedmath.ProtocolFeeRateMulValue).Lo)
			protocolFeeAccrued += protocolDelta
			remainder := step.FeeAmount - protocolDelta
			if !currL.IsZero() && remainder > 0 {
				growthDelta, err := fixedmath.MulDivFloor(uint128.From64(remainder), fixedmath.Q64One, currL)
				if err != nil {
					return nil, err
				}
				if p.AToB {
					feeGrowthGlobalA = feeGrowthGlobalA.Add(growthDelta)
				} else {
					feeGrowthGlobalB = feeGrowthGlobalB.Add(growthDelta)
				}
			}

			if step.NextSqrtPrice.Cmp(nextTickSqrtP) == 0 && found {
				tick, err := seq.GetTick(arrayStart, nextTick)
				if err != nil {
					return nil, err
				}
				if tick.Initialized {
					globals := ticks.GrowthGlobals{FeeGrowthA: feeGrowthGlobalA, FeeGrowthB: feeGrowthGlobalB}
					for i, r := range rewardInfos {
						globals.RewardGrowths[i] = r.GrowthGlobal
					}
					cross := ticks.Cross(tick, p.AToB, globals, numActiveRewards)
					currL, err = fixedmath.AddLiquidityDelta(currL, cross.LiquidityNetApplied)
					if err != nil {
						return nil, err
					}
					tickUpdates = append(tickUpdates, TickCrossUpdate{ArrayStart: arrayStart, TickIndex: nextTick, Update: cross.Update})
					logging.L().Debug("tick crossed",
						zap.Int32("tick_index", nextTick),
						zap.Bool("a_to_b", p.AToB),
						zap.Uint32("fee_rate", totalFeeRate),
					)
				}
				if p.AToB {
					currTick = nextTick - 1
				} else {
					currTick = nextTick
				}
			} else if step.NextSqrtPrice.Cmp(currSqrtP) != 0 {
				currTick = fixedmath.TickIndexFromSqrtPrice(step.NextSqrtPrice)
			}
			currSqrtP = step.NextSqrtPrice

			if !skipped {
				feeRateMgr.AdvanceTickGroup()
			} else {
				feeRateMgr.AdvanceTickGroupAfterSkip(currSqrtP)
			}

			if amountRemaining == 0 || currSqrtP.Cmp(target) == 0 {
				break
			}
		}
	}

	if amountRemaining > 0 && !p.AmountSpecifiedIsInput && sentinel {
		return nil, solveerr.ErrPartialFillError
	}

	var amountA, amountB uint64
	consumedTotal := p.Amount - amountRemaining
	if p.AToB {
		if p.AmountSpecifiedIsInput {
			amountA, amountB = consumedTotal, amountCalculated
		} else {
			amountB, amountA = consumedTotal, amountCalculated
		}
	} else {
		if p.AmountSpecifiedIsInput {
			amountB, amountA = consumedTotal, amountCalculated
		} else {
			amountA, amountB = consumedTotal, amountCalculated
		}
	}

	if err := checkSlippage(p, amountA, amountB); err != nil {
		return nil, err
	}

	if err := feeRateMgr.UpdateMajorSwapTimestamp(p.Now, pool.SqrtPrice, currSqrtP); err != nil {
		return nil, err
	}

	protocolOwedA, protocolOwedB := pool.ProtocolFeeOwedA, pool.ProtocolFeeOwedB
	if p.AToB {
		protocolOwedA += protocolFeeAccrued
	} else {
		protocolOwedB += protocolFeeAccrued
	}

	return &PostSwapUpdate{
		AmountA:              amountA,
		AmountB:              amountB,
		LPFee:                feeSum - protocolFeeAccrued,
		ProtocolFee:          protocolFeeAccrued,
		NextLiquidity:        currL,
		NextTickIndex:        currTick,
		NextSqrtPrice:        currSqrtP,
		NextFeeGrowthGlobalA: feeGrowthGlobalA,
		NextFeeGrowthGlobalB: feeGrowthGlobalB,
		NextProtocolFeeOwedA: protocolOwedA,
		NextProtocolFeeOwedB: protocolOwedB,
		NextRewardInfos:      rewardInfos,
		NextOracleVariables:  feeRateMgr.Variables(),
		TickUpdates:          tickUpdates,
	}, nil
}

// checkSlippage enforces other_amount_threshold as a minimum output for
// exact-in, a maximum input for exact-out (spec §4.5 slippage thresholds).
func checkSlippage(p Params, amountA, amountB uint64) error {
	if p.OtherAmountThreshold == 0 {
		return nil
	}
	output, input := amountB, amountA
	if !p.AToB {
		output, input = amountA, amountB
	}
	if p.AmountSpecifiedIsInput {
		if output < p.OtherAmountThreshold {
			return solveerr.ErrAmountOutBelowMinimum
		}
	} else {
		if input > p.OtherAmountThreshold {
			return solveerr.ErrAmountInAboveMaximum
		}
	}
	return nil
}
