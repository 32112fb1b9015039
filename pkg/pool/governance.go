package pool

import (
	"context"

	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// SetFeeRate updates a pool's fee_rate, gated by the config's fee authority.
func (e *Engine) SetFeeRate(ctx context.Context, poolKey record.Identity, signer record.Identity, feeRate uint16) error {
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}
	config, err := e.Store.LoadConfig(ctx, pool.SolvesConfig)
	if err != nil {
		return err
	}
	if signer != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	if uint32(feeRate) > record.MaxFeeRate {
		return solveerr.ErrFeeRateMaxExceeded
	}
	pool.FeeRate = feeRate
	return e.Store.SavePool(ctx, poolKey, pool)
}

// SetProtocolFeeRate updates a pool's protocol_fee_rate, gated by the
// config's fee authority.
func (e *Engine) SetProtocolFeeRate(ctx context.Context, poolKey record.Identity, signer record.Identity, protocolFeeRate uint16) error {
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}
	config, err := e.Store.LoadConfig(ctx, pool.SolvesConfig)
	if err != nil {
		return err
	}
	if signer != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	if uint32(protocolFeeRate) > record.MaxProtocolFeeRate {
		return solveerr.ErrProtocolFeeRateMaxExceeded
	}
	pool.ProtocolFeeRate = protocolFeeRate
	return e.Store.SavePool(ctx, poolKey, pool)
}

// SetDefaultFeeRate updates a FeeTier's default_fee_rate, gated by the
// config's fee authority.
func (e *Engine) SetDefaultFeeRate(ctx context.Context, tierKey record.Identity, signer record.Identity, defaultFeeRate uint16) error {
	tier, err := e.Store.LoadFeeTier(ctx, tierKey)
	if err != nil {
		return err
	}
	config, err := e.Store.LoadConfig(ctx, tier.SolvesConfig)
	if err != nil {
		return err
	}
	if signer != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	if uint32(defaultFeeRate) > record.MaxFeeRate {
		return solveerr.ErrFeeRateMaxExceeded
	}
	tier.DefaultFeeRate = defaultFeeRate
	return e.Store.SaveFeeTier(ctx, tierKey, tier)
}

// SetDefaultProtocolFeeRate updates a SolvesConfig's
// default_protocol_fee_rate, gated by the config's fee authority.
func (e *Engine) SetDefaultProtocolFeeRate(ctx context.Context, configKey record.Identity, signer record.Identity, defaultProtocolFeeRate uint16) error {
	config, err := e.Store.LoadConfig(ctx, configKey)
	if err != nil {
		return err
	}
	if signer != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	if uint32(defaultProtocolFeeRate) > record.MaxProtocolFeeRate {
		return solveerr.ErrProtocolFeeRateMaxExceeded
	}
	config.DefaultProtocolFeeRate = defaultProtocolFeeRate
	return e.Store.SaveConfig(ctx, configKey, config)
}

// SetDefaultBaseFeeRate updates an AdaptiveFeeTier's default_base_fee_rate,
// gated by the config's fee authority.
func (e *Engine) SetDefaultBaseFeeRate(ctx context.Context, tierKey record.Identity, signer record.Identity, defaultBaseFeeRate uint16) error {
	tier, err := e.Store.LoadAdaptiveFeeTier(ctx, tierKey)
	if err != nil {
		return err
	}
	config, err := e.Store.LoadConfig(ctx, tier.SolvesConfig)
	if err != nil {
		return err
	}
	if signer != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	if uint32(defaultBaseFeeRate) > record.MaxFeeRate {
		return solveerr.ErrFeeRateMaxExceeded
	}
	tier.DefaultBaseFeeRate = defaultBaseFeeRate
	return e.Store.SaveAdaptiveFeeTier(ctx, tierKey, tier)
}

// SetDelegatedFeeAuthority assigns an AdaptiveFeeTier's delegated fee
// authority, gated by the config's fee authority.
func (e *Engine) SetDelegatedFeeAuthority(ctx context.Context, tierKey record.Identity, signer, delegate record.Identity) error {
	tier, err := e.Store.LoadAdaptiveFeeTier(ctx, tierKey)
	if err != nil {
		return err
	}
	config, err := e.Store.LoadConfig(ctx, tier.SolvesConfig)
	if err != nil {
		return err
	}
	if signer != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	tier.DelegatedFeeAuthority = delegate
	return e.Store.SaveAdaptiveFeeTier(ctx, tierKey, tier)
}

// SetFeeRateByDelegatedFeeAuthority lets an AdaptiveFeeTier's delegated fee
// authority set a pool's fee_rate directly, bypassing the config-level
// fee authority check SetFeeRate enforces.
func (e *Engine) SetFeeRateByDelegatedFeeAuthority(ctx context.Context, poolKey, tierKey record.Identity, signer record.Identity, feeRate uint16) error {
	tier, err := e.Store.LoadAdaptiveFeeTier(ctx, tierKey)
	if err != nil {
		return err
	}
	if signer != tier.DelegatedFeeAuthority || tier.DelegatedFeeAuthority.IsZero() {
		return solveerr.ErrUnauthorizedSigner
	}
	if uint32(feeRate) > record.MaxFeeRate {
		return solveerr.ErrFeeRateMaxExceeded
	}
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return err
	}
	pool.FeeRate = feeRate
	return e.Store.SavePool(ctx, poolKey, pool)
}

// SetInitializePoolAuthority assigns an AdaptiveFeeTier's
// initialize_pool_authority, gated by the config's fee authority.
func (e *Engine) SetInitializePoolAuthority(ctx context.Context, tierKey record.Identity, signer, authority record.Identity) error {
	tier, err := e.Store.LoadAdaptiveFeeTier(ctx, tierKey)
	if err != nil {
		return err
	}
	config, err := e.Store.LoadConfig(ctx, tier.SolvesConfig)
	if err != nil {
		return err
	}
	if signer != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	tier.InitializePoolAuthority = authority
	return e.Store.SaveAdaptiveFeeTier(ctx, tierKey, tier)
}
