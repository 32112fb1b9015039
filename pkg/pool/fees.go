package pool

import (
	"context"
	"fmt"

	"lukechampine.com/uint128"

	liq "github.com/solve-so/solve-core/pkg/liquidity"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

func checkRewardIndex(i int) error {
	if i < 0 || i >= record.NumRewards {
		return solveerr.ErrInvalidRewardIndex
	}
	return nil
}

// InitializeReward assigns a mint/vault/authority to one of a pool's fixed
// reward slots. The slot must be unoccupied.
func (e *Engine) InitializeReward(ctx context.Context, poolKey record.Identity, rewardIndex int, rewardMint, rewardVault, rewardAuthority record.Identity) error {
	if err := checkRewardIndex(rewardIndex); err != nil {
		return err
	}
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}
	if pool.RewardInfos[rewardIndex].Initialized() {
		return solveerr.ErrInvalidRewardIndex
	}
	pool.RewardInfos[rewardIndex] = record.RewardInfo{
		Mint:      rewardMint,
		Vault:     rewardVault,
		Authority: rewardAuthority,
	}
	return e.Store.SavePool(ctx, poolKey, pool)
}

// SetRewardEmissions settles growth up to now before changing the emissions
// rate, so the old rate is never applied beyond the moment of the change.
func (e *Engine) SetRewardEmissions(ctx context.Context, poolKey record.Identity, rewardIndex int, emissionsPerSecond uint128.Uint128, now uint64) error {
	if err := checkRewardIndex(rewardIndex); err != nil {
		return err
	}
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}
	if !pool.RewardInfos[rewardIndex].Initialized() {
		return solveerr.ErrInvalidRewardIndex
	}

	settled, err := liq.NextPoolRewardInfos(pool, now)
	if err != nil {
		return err
	}
	settled[rewardIndex].EmissionsPerSecond = emissionsPerSecond
	pool.RewardInfos = settled
	pool.RewardLastUpdatedTimestamp = now
	return e.Store.SavePool(ctx, poolKey, pool)
}

// CollectFees sweeps a position's owed LP fees to the caller's token
// accounts and zeroes the owed amounts.
func (e *Engine) CollectFees(ctx context.Context, poolKey, positionKey record.Identity, recipientAccountA, recipientAccountB record.Identity, mintDecimalsA, mintDecimalsB uint8) error {
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}
	pos, err := e.Store.LoadPosition(ctx, positionKey)
	if err != nil {
		return err
	}

	owedA, owedB := pos.FeeOwedA, pos.FeeOwedB
	if owedA > 0 {
		if err := e.Transfer.Transfer(ctx, pool.TokenVaultA, recipientAccountA, owedA, mintDecimalsA, nil); err != nil {
			return fmt.Errorf("collecting fee A: %w", err)
		}
	}
	if owedB > 0 {
		if err := e.Transfer.Transfer(ctx, pool.TokenVaultB, recipientAccountB, owedB, mintDecimalsB, nil); err != nil {
			return fmt.Errorf("collecting fee B: %w", err)
		}
	}

	pos.FeeOwedA, pos.FeeOwedB = 0, 0
	return e.Store.SavePosition(ctx, positionKey, pos)
}

// CollectProtocolFees sweeps the protocol's share of accrued fees out of a
// pool's vaults and zeroes the owed amounts.
func (e *Engine) CollectProtocolFees(ctx context.Context, poolKey record.Identity, recipientAccountA, recipientAccountB record.Identity, mintDecimalsA, mintDecimalsB uint8) error {
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}

	owedA, owedB := pool.ProtocolFeeOwedA, pool.ProtocolFeeOwedB
	if owedA > 0 {
		if err := e.Transfer.Transfer(ctx, pool.TokenVaultA, recipientAccountA, owedA, mintDecimalsA, nil); err != nil {
			return fmt.Errorf("collecting protocol fee A: %w", err)
		}
	}
	if owedB > 0 {
		if err := e.Transfer.Transfer(ctx, pool.TokenVaultB, recipientAccountB, owedB, mintDecimalsB, nil); err != nil {
			return fmt.Errorf("collecting protocol fee B: %w", err)
		}
	}

	pool.ProtocolFeeOwedA, pool.ProtocolFeeOwedB = 0, 0
	return e.Store.SavePool(ctx, poolKey, pool)
}

// CollectReward sweeps a position's owed amount for one reward slot and
// zeroes it.
func (e *Engine) CollectReward(ctx context.Context, poolKey, positionKey record.Identity, rewardIndex int, recipientAccount record.Identity, mintDecimals uint8) error {
	if err := checkRewardIndex(rewardIndex); err != nil {
		return err
	}
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}
	pos, err := e.Store.LoadPosition(ctx, positionKey)
	if err != nil {
		return err
	}

	owed := pos.RewardInfos[rewardIndex].AmountOwed
	if owed > 0 {
		vault := pool.RewardInfos[rewardIndex].Vault
		if err := e.Transfer.Transfer(ctx, vault, recipientAccount, owed, mintDecimals, nil); err != nil {
			return fmt.Errorf("collecting reward %d: %w", rewardIndex, err)
		}
	}

	pos.RewardInfos[rewardIndex].AmountOwed = 0
	return e.Store.SavePosition(ctx, positionKey, pos)
}
