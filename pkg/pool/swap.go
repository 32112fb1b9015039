package pool

import (
	"context"
	"fmt"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/events"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
	"github.com/solve-so/solve-core/pkg/swap"
	"github.com/solve-so/solve-core/pkg/ticks"
)

// loadSequence loads every tick array the caller names, keyed by its own
// start_tick_index, and returns both the ticks.Array map swap.Run marches
// across and the reverse index needed to persist tick crossings back.
func (e *Engine) loadSequence(ctx context.Context, tickArrayKeys []record.Identity) (map[int32]ticks.Array, map[int32]record.Identity, error) {
	supplied := make(map[int32]ticks.Array, len(tickArrayKeys))
	byStart := make(map[int32]record.Identity, len(tickArrayKeys))
	for _, key := range tickArrayKeys {
		arr, err := e.Store.LoadTickArray(ctx, key)
		if err != nil {
			return nil, nil, err
		}
		supplied[arr.StartTickIndex] = &ticks.FixedArray{Data: arr}
		byStart[arr.StartTickIndex] = key
	}
	return supplied, byStart, nil
}

func (e *Engine) commitTickUpdates(ctx context.Context, updates []swap.TickCrossUpdate, byStart map[int32]record.Identity, tickSpacing uint16) error {
	touched := make(map[int32]*record.TickArray)
	for _, u := range updates {
		arrKey, ok := byStart[u.ArrayStart]
		if !ok {
			return fmt.Errorf("tick array at %d not supplied: %w", u.ArrayStart, solveerr.ErrInvalidTickArraySequence)
		}
		arr, ok := touched[u.ArrayStart]
		if !ok {
			loaded, err := e.Store.LoadTickArray(ctx, arrKey)
			if err != nil {
				return err
			}
			arr = loaded
			touched[u.ArrayStart] = arr
		}
		if err := (&ticks.FixedArray{Data: arr}).UpdateTick(u.TickIndex, tickSpacing, u.Update); err != nil {
			return err
		}
	}
	for start, arr := range touched {
		if err := e.Store.SaveTickArray(ctx, byStart[start], arr); err != nil {
			return err
		}
	}
	return nil
}

// SwapParams bundles a single-pool swap request against the records it
// touches, all addressed by the caller (who has already resolved the
// PDAs involved).
type SwapParams struct {
	PoolKey         record.Identity
	OracleKey       record.Identity // zero: pool has no adaptive-fee oracle
	TickArrayKeys   []record.Identity

	Amount                 uint64
	OtherAmountThreshold   uint64
	SqrtPriceLimit         uint128.Uint128
	AmountSpecifiedIsInput bool
	AToB                   bool
	Now                    uint64

	TraderAccountA, TraderAccountB record.Identity
	MintDecimalsA, MintDecimalsB   uint8
}

// Swap runs one swap leg end to end: loads the pool/oracle/tick-array
// sequence, executes swap.Run, settles both token legs via Transfer,
// commits the pool/oracle/tick-array mutations, and publishes Traded.
func (e *Engine) Swap(ctx context.Context, p SwapParams) (*swap.PostSwapUpdate, error) {
	pool, err := e.Store.LoadPool(ctx, p.PoolKey)
	if err != nil {
		return nil, err
	}

	var oracleRecord *record.Oracle
	if !p.OracleKey.IsZero() {
		oracleRecord, err = e.Store.LoadOracle(ctx, p.OracleKey)
		if err != nil {
			return nil, err
		}
	}

	supplied, byStart, err := e.loadSequence(ctx, p.TickArrayKeys)
	if err != nil {
		return nil, err
	}
	seq, err := ticks.NewSparseSwapTickSequence(pool.TickCurrentIndex, pool.TickSpacing, p.AToB, supplied)
	if err != nil {
		return nil, err
	}

	preSqrtPrice := pool.SqrtPrice
	update, err := swap.Run(pool, oracleRecord, seq, pool.TickSpacing, swap.Params{
		Amount:                 p.Amount,
		SqrtPriceLimit:         p.SqrtPriceLimit,
		AmountSpecifiedIsInput: p.AmountSpecifiedIsInput,
		AToB:                   p.AToB,
		Now:                    p.Now,
		OtherAmountThreshold:   p.OtherAmountThreshold,
	})
	if err != nil {
		return nil, err
	}

	inputAmount, outputAmount := update.AmountA, update.AmountB
	inputAccount, outputAccount := p.TraderAccountA, p.TraderAccountB
	inputVault, outputVault := pool.TokenVaultA, pool.TokenVaultB
	inputDecimals, outputDecimals := p.MintDecimalsA, p.MintDecimalsB
	if !p.AToB {
		inputAmount, outputAmount = update.AmountB, update.AmountA
		inputAccount, outputAccount = p.TraderAccountB, p.TraderAccountA
		inputVault, outputVault = pool.TokenVaultB, pool.TokenVaultA
		inputDecimals, outputDecimals = p.MintDecimalsB, p.MintDecimalsA
	}
	if inputAmount > 0 {
		if err := e.Transfer.Transfer(ctx, inputAccount, inputVault, inputAmount, inputDecimals, nil); err != nil {
			return nil, fmt.Errorf("settling swap input: %w", err)
		}
	}
	if outputAmount > 0 {
		if err := e.Transfer.Transfer(ctx, outputVault, outputAccount, outputAmount, outputDecimals, nil); err != nil {
			return nil, fmt.Errorf("settling swap output: %w", err)
		}
	}

	pool.Liquidity = update.NextLiquidity
	pool.TickCurrentIndex = update.NextTickIndex
	pool.SqrtPrice = update.NextSqrtPrice
	pool.FeeGrowthGlobalA = update.NextFeeGrowthGlobalA
	pool.FeeGrowthGlobalB = update.NextFeeGrowthGlobalB
	pool.ProtocolFeeOwedA = update.NextProtocolFeeOwedA
	pool.ProtocolFeeOwedB = update.NextProtocolFeeOwedB
	pool.RewardInfos = update.NextRewardInfos
	pool.RewardLastUpdatedTimestamp = p.Now
	if err := e.Store.SavePool(ctx, p.PoolKey, pool); err != nil {
		return nil, err
	}

	if oracleRecord != nil {
		oracleRecord.Variables = update.NextOracleVariables
		if err := e.Store.SaveOracle(ctx, p.OracleKey, oracleRecord); err != nil {
			return nil, err
		}
	}

	if err := e.commitTickUpdates(ctx, update.TickUpdates, byStart, pool.TickSpacing); err != nil {
		return nil, err
	}

	e.publish(events.KindTraded, events.Traded{
		Pool:          p.PoolKey,
		AToB:          p.AToB,
		PreSqrtPrice:  preSqrtPrice,
		PostSqrtPrice: update.NextSqrtPrice,
		InputAmount:   inputAmount,
		OutputAmount:  outputAmount,
		LPFee:         update.LPFee,
		ProtocolFee:   update.ProtocolFee,
	})
	return update, nil
}
