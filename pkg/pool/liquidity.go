package pool

import (
	"context"
	"fmt"
	"math/big"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/addr"
	"github.com/solve-so/solve-core/pkg/events"
	"github.com/solve-so/solve-core/pkg/lock"
	"github.com/solve-so/solve-core/pkg/record"
	liq "github.com/solve-so/solve-core/pkg/liquidity"
	"github.com/solve-so/solve-core/pkg/solveerr"
	"github.com/solve-so/solve-core/pkg/ticks"
)

// boundaryTicks loads a position's lower/upper ticks, deriving each tick
// array's PDA via ticks.StartIndexForTick + addr.TickArray. Returns the
// loaded ticks plus the two array keys so the caller can persist updates
// back to the same arrays.
func (e *Engine) boundaryTicks(ctx context.Context, poolKey record.Identity, pos *record.Position, tickSpacing uint16) (lowerTick, upperTick record.Tick, lowerArrKey, upperArrKey record.Identity, err error) {
	lowerStart := ticks.StartIndexForTick(pos.TickLowerIndex, tickSpacing)
	upperStart := ticks.StartIndexForTick(pos.TickUpperIndex, tickSpacing)

	lowerAddr, _, err := addr.TickArray(e.ProgramID, publicKey(poolKey), lowerStart)
	if err != nil {
		return record.Tick{}, record.Tick{}, record.Identity{}, record.Identity{}, fmt.Errorf("deriving lower tick array address: %w", err)
	}
	upperAddr, _, err := addr.TickArray(e.ProgramID, publicKey(poolKey), upperStart)
	if err != nil {
		return record.Tick{}, record.Tick{}, record.Identity{}, record.Identity{}, fmt.Errorf("deriving upper tick array address: %w", err)
	}
	lowerArrKey, upperArrKey = identity(lowerAddr), identity(upperAddr)

	lowerArr, err := e.Store.LoadTickArray(ctx, lowerArrKey)
	if err != nil {
		return record.Tick{}, record.Tick{}, record.Identity{}, record.Identity{}, err
	}
	upperArr, err := e.Store.LoadTickArray(ctx, upperArrKey)
	if err != nil {
		return record.Tick{}, record.Tick{}, record.Identity{}, record.Identity{}, err
	}

	lowerWrap := &ticks.FixedArray{Data: lowerArr}
	upperWrap := &ticks.FixedArray{Data: upperArr}
	lowerTick, err = lowerWrap.GetTick(pos.TickLowerIndex, tickSpacing)
	if err != nil {
		return record.Tick{}, record.Tick{}, record.Identity{}, record.Identity{}, err
	}
	upperTick, err = upperWrap.GetTick(pos.TickUpperIndex, tickSpacing)
	if err != nil {
		return record.Tick{}, record.Tick{}, record.Identity{}, record.Identity{}, err
	}
	return lowerTick, upperTick, lowerArrKey, upperArrKey, nil
}

// commitModify persists the ModifyLiquidityUpdate bundle: pool liquidity and
// reward infos, both boundary ticks, and the position itself.
func (e *Engine) commitModify(ctx context.Context, poolKey, positionKey record.Identity, pool *record.Pool, pos *record.Position, tickSpacing uint16, lowerArrKey, upperArrKey record.Identity, update liq.ModifyLiquidityUpdate, now uint64) error {
	pool.Liquidity = update.PoolLiquidity
	pool.RewardInfos = update.PoolRewardInfos
	pool.RewardLastUpdatedTimestamp = now
	if err := e.Store.SavePool(ctx, poolKey, pool); err != nil {
		return err
	}

	lowerArr, err := e.Store.LoadTickArray(ctx, lowerArrKey)
	if err != nil {
		return err
	}
	if err := (&ticks.FixedArray{Data: lowerArr}).UpdateTick(pos.TickLowerIndex, tickSpacing, update.TickLowerUpdate); err != nil {
		return err
	}
	if err := e.Store.SaveTickArray(ctx, lowerArrKey, lowerArr); err != nil {
		return err
	}

	upperArr, err := e.Store.LoadTickArray(ctx, upperArrKey)
	if err != nil {
		return err
	}
	if err := (&ticks.FixedArray{Data: upperArr}).UpdateTick(pos.TickUpperIndex, tickSpacing, update.TickUpperUpdate); err != nil {
		return err
	}
	if err := e.Store.SaveTickArray(ctx, upperArrKey, upperArr); err != nil {
		return err
	}

	*pos = update.Position
	return e.Store.SavePosition(ctx, positionKey, pos)
}

// IncreaseLiquidity deposits liquidityDelta into a position, settling the
// required token amounts from payerAccountA/B, rejecting slippage beyond
// tokenMaxA/tokenMaxB and any attempt on a locked position.
func (e *Engine) IncreaseLiquidity(ctx context.Context, poolKey, positionKey, positionMint record.Identity, liquidityDelta big.Int, tokenMaxA, tokenMaxB uint64, mintDecimalsA, mintDecimalsB uint8, payerAccountA, payerAccountB record.Identity, now uint64) (liq.TokenDelta, error) {
	if liquidityDelta.Sign() <= 0 {
		return liq.TokenDelta{}, solveerr.ErrLiquidityZero
	}
	if err := lock.CheckUnlocked(ctx, e.Receipts, positionMint); err != nil {
		return liq.TokenDelta{}, err
	}

	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return liq.TokenDelta{}, err
	}
	pos, err := e.Store.LoadPosition(ctx, positionKey)
	if err != nil {
		return liq.TokenDelta{}, err
	}

	lowerTick, upperTick, lowerArrKey, upperArrKey, err := e.boundaryTicks(ctx, poolKey, pos, pool.TickSpacing)
	if err != nil {
		return liq.TokenDelta{}, err
	}

	update, err := liq.CalculateModifyLiquidity(pool, pos, lowerTick, upperTick, liquidityDelta, now)
	if err != nil {
		return liq.TokenDelta{}, err
	}
	if update.Tokens.AmountA > tokenMaxA {
		return liq.TokenDelta{}, solveerr.ErrTokenMinSubceeded
	}
	if update.Tokens.AmountB > tokenMaxB {
		return liq.TokenDelta{}, solveerr.ErrTokenMinSubceeded
	}

	if update.Tokens.AmountA > 0 {
		if err := e.Transfer.Transfer(ctx, payerAccountA, pool.TokenVaultA, update.Tokens.AmountA, mintDecimalsA, nil); err != nil {
			return liq.TokenDelta{}, fmt.Errorf("settling token A deposit: %w", err)
		}
	}
	if update.Tokens.AmountB > 0 {
		if err := e.Transfer.Transfer(ctx, payerAccountB, pool.TokenVaultB, update.Tokens.AmountB, mintDecimalsB, nil); err != nil {
			return liq.TokenDelta{}, fmt.Errorf("settling token B deposit: %w", err)
		}
	}

	if err := e.commitModify(ctx, poolKey, positionKey, pool, pos, pool.TickSpacing, lowerArrKey, upperArrKey, update, now); err != nil {
		return liq.TokenDelta{}, err
	}

	e.publish(events.KindLiquidityIncreased, events.LiquidityIncreased{
		Pool: poolKey, Position: positionKey,
		LiquidityDelta: uint128.FromBig(&liquidityDelta), AmountA: update.Tokens.AmountA, AmountB: update.Tokens.AmountB,
	})
	return update.Tokens, nil
}

// DecreaseLiquidity withdraws liquidityDelta from a position, settling the
// returned token amounts to recipientAccountA/B and rejecting slippage below
// tokenMinA/tokenMinB.
func (e *Engine) DecreaseLiquidity(ctx context.Context, poolKey, positionKey, positionMint record.Identity, liquidityDelta big.Int, tokenMinA, tokenMinB uint64, mintDecimalsA, mintDecimalsB uint8, recipientAccountA, recipientAccountB record.Identity, now uint64) (liq.TokenDelta, error) {
	if liquidityDelta.Sign() <= 0 {
		return liq.TokenDelta{}, solveerr.ErrLiquidityZero
	}
	if err := lock.CheckUnlocked(ctx, e.Receipts, positionMint); err != nil {
		return liq.TokenDelta{}, err
	}

	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return liq.TokenDelta{}, err
	}
	pos, err := e.Store.LoadPosition(ctx, positionKey)
	if err != nil {
		return liq.TokenDelta{}, err
	}
	if pos.Liquidity.Cmp(uint128.FromBig(&liquidityDelta)) < 0 {
		return liq.TokenDelta{}, solveerr.ErrLiquidityUnderflow
	}

	lowerTick, upperTick, lowerArrKey, upperArrKey, err := e.boundaryTicks(ctx, poolKey, pos, pool.TickSpacing)
	if err != nil {
		return liq.TokenDelta{}, err
	}

	negDelta := new(big.Int).Neg(&liquidityDelta)
	update, err := liq.CalculateModifyLiquidity(pool, pos, lowerTick, upperTick, *negDelta, now)
	if err != nil {
		return liq.TokenDelta{}, err
	}
	if update.Tokens.AmountA < tokenMinA {
		return liq.TokenDelta{}, solveerr.ErrTokenMinSubceeded
	}
	if update.Tokens.AmountB < tokenMinB {
		return liq.TokenDelta{}, solveerr.ErrTokenMinSubceeded
	}

	if update.Tokens.AmountA > 0 {
		if err := e.Transfer.Transfer(ctx, pool.TokenVaultA, recipientAccountA, update.Tokens.AmountA, mintDecimalsA, nil); err != nil {
			return liq.TokenDelta{}, fmt.Errorf("settling token A withdrawal: %w", err)
		}
	}
	if update.Tokens.AmountB > 0 {
		if err := e.Transfer.Transfer(ctx, pool.TokenVaultB, recipientAccountB, update.Tokens.AmountB, mintDecimalsB, nil); err != nil {
			return liq.TokenDelta{}, fmt.Errorf("settling token B withdrawal: %w", err)
		}
	}

	if err := e.commitModify(ctx, poolKey, positionKey, pool, pos, pool.TickSpacing, lowerArrKey, upperArrKey, update, now); err != nil {
		return liq.TokenDelta{}, err
	}

	e.publish(events.KindLiquidityDecreased, events.LiquidityDecreased{
		Pool: poolKey, Position: positionKey,
		LiquidityDelta: uint128.FromBig(&liquidityDelta), AmountA: update.Tokens.AmountA, AmountB: update.Tokens.AmountB,
	})
	return update.Tokens, nil
}

// UpdateFeesAndRewards settles fee/reward accrual without touching
// liquidity (calculate_modify_liquidity with delta=0).
func (e *Engine) UpdateFeesAndRewards(ctx context.Context, poolKey, positionKey record.Identity, now uint64) error {
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}
	pos, err := e.Store.LoadPosition(ctx, positionKey)
	if err != nil {
		return err
	}
	lowerTick, upperTick, lowerArrKey, upperArrKey, err := e.boundaryTicks(ctx, poolKey, pos, pool.TickSpacing)
	if err != nil {
		return err
	}
	update, err := liq.CalculateFeeAndRewardGrowths(pool, pos, lowerTick, upperTick, now)
	if err != nil {
		return err
	}
	return e.commitModify(ctx, poolKey, positionKey, pool, pos, pool.TickSpacing, lowerArrKey, upperArrKey, update, now)
}
