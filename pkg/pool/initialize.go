package pool

import (
	"context"
	"fmt"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/addr"
	"github.com/solve-so/solve-core/pkg/events"
	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/oracle"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// InitializeConfig creates the governance root a deployment is scoped
// under. configKey is caller-supplied: spec.md's fixed-seed addressing list
// covers Pool/Oracle/TickArray/Position/TokenBadge only, so SolvesConfig (like
// the real program's freshly-created account) has no derivation seed here.
func (e *Engine) InitializeConfig(ctx context.Context, configKey record.Identity, feeAuthority, collectProtocolFeesAuthority, rewardEmissionsSuperAuthority record.Identity, defaultProtocolFeeRate uint16) error {
	if defaultProtocolFeeRate > record.MaxProtocolFeeRate {
		return fmt.Errorf("default protocol fee rate %d: %w", defaultProtocolFeeRate, solveerr.ErrProtocolFeeRateMaxExceeded)
	}
	return e.Store.SaveConfig(ctx, configKey, &record.SolvesConfig{
		FeeAuthority:                  feeAuthority,
		CollectProtocolFeesAuthority:  collectProtocolFeesAuthority,
		RewardEmissionsSuperAuthority: rewardEmissionsSuperAuthority,
		DefaultProtocolFeeRate:        defaultProtocolFeeRate,
	})
}

// InitializeFeeTier creates a tick_spacing -> default_fee_rate mapping,
// gated on the config's fee authority.
func (e *Engine) InitializeFeeTier(ctx context.Context, configKey, tierKey record.Identity, caller record.Identity, tickSpacing, defaultFeeRate uint16) error {
	config, err := e.Store.LoadConfig(ctx, configKey)
	if err != nil {
		return err
	}
	if caller != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	if defaultFeeRate > record.MaxFeeRate {
		return fmt.Errorf("default fee rate %d: %w", defaultFeeRate, solveerr.ErrFeeRateMaxExceeded)
	}
	return e.Store.SaveFeeTier(ctx, tierKey, &record.FeeTier{
		SolvesConfig:   configKey,
		TickSpacing:    tickSpacing,
		DefaultFeeRate: defaultFeeRate,
	})
}

// InitializeAdaptiveFeeTier creates an adaptive-fee governance profile,
// optionally permissioned (a non-zero initializePoolAuthority restricts who
// may call InitializePoolWithAdaptiveFee against it, spec §4.6 gating).
func (e *Engine) InitializeAdaptiveFeeTier(
	ctx context.Context,
	configKey, tierKey record.Identity,
	caller record.Identity,
	feeTierIndex, tickSpacing uint16,
	constants record.AdaptiveFeeConstants,
	defaultBaseFeeRate uint16,
	initializePoolAuthority, delegatedFeeAuthority record.Identity,
) error {
	config, err := e.Store.LoadConfig(ctx, configKey)
	if err != nil {
		return err
	}
	if caller != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	if defaultBaseFeeRate > record.MaxFeeRate {
		return fmt.Errorf("default base fee rate %d: %w", defaultBaseFeeRate, solveerr.ErrFeeRateMaxExceeded)
	}
	if constants.DecayPeriod < constants.FilterPeriod || constants.FilterPeriod == 0 || constants.TickGroupSize == 0 {
		return solveerr.ErrInvalidAdaptiveFeeConstants
	}
	return e.Store.SaveAdaptiveFeeTier(ctx, tierKey, &record.AdaptiveFeeTier{
		SolvesConfig:             configKey,
		FeeTierIndex:             feeTierIndex,
		TickSpacing:              tickSpacing,
		DefaultBaseFeeRate:       defaultBaseFeeRate,
		FilterPeriod:             constants.FilterPeriod,
		DecayPeriod:              constants.DecayPeriod,
		ReductionFactor:          constants.ReductionFactor,
		AdaptiveFeeControlFactor: constants.AdaptiveFeeControlFactor,
		MaxVolatilityAccumulator: constants.MaxVolatilityAccumulator,
		TickGroupSize:            constants.TickGroupSize,
		MajorSwapThresholdTicks:  constants.MajorSwapThresholdTicks,
		InitializePoolAuthority:  initializePoolAuthority,
		DelegatedFeeAuthority:    delegatedFeeAuthority,
	})
}

// InitializePool creates a static-fee pool (spec §7). tokenMintA must sort
// strictly below tokenMintB (spec's mint-ordering invariant).
func (e *Engine) InitializePool(ctx context.Context, configKey record.Identity, tokenMintA, tokenMintB, tokenVaultA, tokenVaultB record.Identity, feeTierKey record.Identity, feeTierIndex, tickSpacing uint16, initialSqrtPrice uint128.Uint128) (record.Identity, error) {
	if !tokenMintA.Less(tokenMintB) {
		return record.Identity{}, solveerr.ErrInvalidTokenMintOrder
	}
	config, err := e.Store.LoadConfig(ctx, configKey)
	if err != nil {
		return record.Identity{}, err
	}
	tier, err := e.Store.LoadFeeTier(ctx, feeTierKey)
	if err != nil {
		return record.Identity{}, err
	}
	if tier.TickSpacing != tickSpacing {
		return record.Identity{}, solveerr.ErrInvalidTickSpacing
	}
	if initialSqrtPrice.Cmp(fixedmath.MinSqrtPriceX64) < 0 || initialSqrtPrice.Cmp(fixedmath.MaxSqrtPriceX64) > 0 {
		return record.Identity{}, solveerr.ErrSqrtPriceOutOfBounds
	}

	poolAddr, bump, err := addr.Pool(e.ProgramID, publicKey(configKey), publicKey(tokenMintA), publicKey(tokenMintB), feeTierIndex)
	if err != nil {
		return record.Identity{}, fmt.Errorf("deriving pool address: %w", err)
	}
	poolKey := identity(poolAddr)

	p := &record.Pool{
		SolvesConfig:     configKey,
		SolveBump:        bump,
		TickSpacing:      tickSpacing,
		FeeTierIndex:     feeTierIndex,
		FeeRate:          tier.DefaultFeeRate,
		ProtocolFeeRate:  config.DefaultProtocolFeeRate,
		Liquidity:        uint128.Zero,
		SqrtPrice:        initialSqrtPrice,
		TickCurrentIndex: fixedmath.TickIndexFromSqrtPrice(initialSqrtPrice),
		TokenMintA:       tokenMintA,
		TokenVaultA:      tokenVaultA,
		TokenMintB:       tokenMintB,
		TokenVaultB:      tokenVaultB,
	}
	if err := e.Store.SavePool(ctx, poolKey, p); err != nil {
		return record.Identity{}, err
	}

	e.publish(events.KindPoolInitialized, events.PoolInitialized{
		Pool: poolKey, TokenMintA: tokenMintA, TokenMintB: tokenMintB,
		TickSpacing: tickSpacing, InitialSqrtPrice: initialSqrtPrice,
	})
	return poolKey, nil
}

// InitializePoolWithAdaptiveFee creates a pool under an AdaptiveFeeTier plus
// its Oracle record, enforcing the permissioned/permissionless gate and the
// trade_enable_timestamp bounds (spec §4.6).
func (e *Engine) InitializePoolWithAdaptiveFee(
	ctx context.Context,
	configKey record.Identity,
	tokenMintA, tokenMintB, tokenVaultA, tokenVaultB record.Identity,
	adaptiveFeeTierKey record.Identity,
	feeTierIndex, tickSpacing uint16,
	initialSqrtPrice uint128.Uint128,
	now uint64,
	requestedTradeEnableTimestamp uint64,
	caller record.Identity,
) (record.Identity, error) {
	if !tokenMintA.Less(tokenMintB) {
		return record.Identity{}, solveerr.ErrInvalidTokenMintOrder
	}
	config, err := e.Store.LoadConfig(ctx, configKey)
	if err != nil {
		return record.Identity{}, err
	}
	tier, err := e.Store.LoadAdaptiveFeeTier(ctx, adaptiveFeeTierKey)
	if err != nil {
		return record.Identity{}, err
	}
	if tier.TickSpacing != tickSpacing {
		return record.Identity{}, solveerr.ErrInvalidTickSpacing
	}
	if tier.Permissioned() && caller != tier.InitializePoolAuthority {
		return record.Identity{}, solveerr.ErrUnauthorizedSigner
	}
	if initialSqrtPrice.Cmp(fixedmath.MinSqrtPriceX64) < 0 || initialSqrtPrice.Cmp(fixedmath.MaxSqrtPriceX64) > 0 {
		return record.Identity{}, solveerr.ErrSqrtPriceOutOfBounds
	}

	var tradeEnableTimestamp uint64
	if requestedTradeEnableTimestamp != 0 {
		if !tier.Permissioned() {
			return record.Identity{}, solveerr.ErrInvalidTradeEnableTimestamp
		}
		tradeEnableTimestamp, err = oracle.ValidateTradeEnableTimestamp(now, requestedTradeEnableTimestamp)
		if err != nil {
			return record.Identity{}, err
		}
	}

	poolAddr, bump, err := addr.Pool(e.ProgramID, publicKey(configKey), publicKey(tokenMintA), publicKey(tokenMintB), feeTierIndex)
	if err != nil {
		return record.Identity{}, fmt.Errorf("deriving pool address: %w", err)
	}
	poolKey := identity(poolAddr)

	p := &record.Pool{
		SolvesConfig:     configKey,
		SolveBump:        bump,
		TickSpacing:      tickSpacing,
		FeeTierIndex:     feeTierIndex,
		FeeRate:          tier.DefaultBaseFeeRate,
		ProtocolFeeRate:  config.DefaultProtocolFeeRate,
		Liquidity:        uint128.Zero,
		SqrtPrice:        initialSqrtPrice,
		TickCurrentIndex: fixedmath.TickIndexFromSqrtPrice(initialSqrtPrice),
		TokenMintA:       tokenMintA,
		TokenVaultA:      tokenVaultA,
		TokenMintB:       tokenMintB,
		TokenVaultB:      tokenVaultB,
	}
	if err := e.Store.SavePool(ctx, poolKey, p); err != nil {
		return record.Identity{}, err
	}

	oracleAddr, _, err := addr.Oracle(e.ProgramID, poolAddr)
	if err != nil {
		return record.Identity{}, fmt.Errorf("deriving oracle address: %w", err)
	}
	oracleKey := identity(oracleAddr)
	o := &record.Oracle{
		Pool:                 poolKey,
		TradeEnableTimestamp: tradeEnableTimestamp,
		Constants: record.AdaptiveFeeConstants{
			FilterPeriod:             tier.FilterPeriod,
			DecayPeriod:              tier.DecayPeriod,
			ReductionFactor:          tier.ReductionFactor,
			AdaptiveFeeControlFactor: tier.AdaptiveFeeControlFactor,
			MaxVolatilityAccumulator: tier.MaxVolatilityAccumulator,
			TickGroupSize:            tier.TickGroupSize,
			MajorSwapThresholdTicks:  tier.MajorSwapThresholdTicks,
		},
	}
	if err := e.Store.SaveOracle(ctx, oracleKey, o); err != nil {
		return record.Identity{}, err
	}

	e.publish(events.KindPoolInitialized, events.PoolInitialized{
		Pool: poolKey, TokenMintA: tokenMintA, TokenMintB: tokenMintB,
		TickSpacing: tickSpacing, InitialSqrtPrice: initialSqrtPrice,
	})
	return poolKey, nil
}

// InitializeTickArray creates an empty tick array shard at startTickIndex,
// rejecting misaligned boundaries (spec §4.2 fixed-stride layout).
func (e *Engine) InitializeTickArray(ctx context.Context, poolKey record.Identity, startTickIndex int32, tickSpacing uint16) (record.Identity, error) {
	span := int32(record.TickArraySize) * int32(tickSpacing)
	if span == 0 || startTickIndex%span != 0 {
		return record.Identity{}, solveerr.ErrInvalidStartTick
	}

	arrAddr, _, err := addr.TickArray(e.ProgramID, publicKey(poolKey), startTickIndex)
	if err != nil {
		return record.Identity{}, fmt.Errorf("deriving tick array address: %w", err)
	}
	arrKey := identity(arrAddr)

	arr := &record.TickArray{StartTickIndex: startTickIndex, Solve: poolKey}
	if err := e.Store.SaveTickArray(ctx, arrKey, arr); err != nil {
		return record.Identity{}, err
	}
	return arrKey, nil
}
