// Package liquidity implements the position + liquidity manager (L4):
// calculate_modify_liquidity and calculate_fee_and_reward_growths, plus the
// pool-level reward-growth roll-forward they both depend on.
package liquidity

import (
	"fmt"

	"go.uber.org/zap"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/logging"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// NextPoolRewardInfos rolls a pool's reward_infos forward to now
// (spec §4.5a). Overflow in the per-reward delta clamps that reward's
// growth to unchanged rather than failing the whole operation — the
// design notes treat this as intentional emission-halt behavior, not a bug.
func NextPoolRewardInfos(pool *record.Pool, now uint64) ([record.NumRewards]record.RewardInfo, error) {
	if now < pool.RewardLastUpdatedTimestamp {
		return pool.RewardInfos, fmt.Errorf("now %d before last update %d: %w", now, pool.RewardLastUpdatedTimestamp, solveerr.ErrInvalidTimestamp)
	}
	out := pool.RewardInfos
	if pool.Liquidity.IsZero() || now == pool.RewardLastUpdatedTimestamp {
		return out, nil
	}

	elapsed := uint128.From64(now - pool.RewardLastUpdatedTimestamp)
	for i, r := range pool.RewardInfos {
		if !r.Initialized() {
			continue
		}
		delta, err := fixedmath.MulDivFloor(elapsed, r.EmissionsPerSecond, pool.Liquidity)
		if err != nil {
			// Overflow: emissions halt for this reward until liquidity
			// grows enough to bring the product back in range.
			logging.L().Warn("reward growth overflow, emission halted",
				zap.Int("reward_index", i),
				zap.Uint64("elapsed", now-pool.RewardLastUpdatedTimestamp),
			)
			continue
		}
		out[i].GrowthGlobal = r.GrowthGlobal.Add(delta)
	}
	return out, nil
}
