package pool

import (
	"context"
	"fmt"

	"github.com/solve-so/solve-core/pkg/addr"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// tokenBadgeAuthority resolves the signer allowed to manage badges for a
// config: the config's own fee authority, or the extension's delegated
// token_badge_authority once one has been set.
func (e *Engine) tokenBadgeAuthority(ctx context.Context, configKey record.Identity) (record.Identity, error) {
	ext, err := e.Store.LoadConfigExtension(ctx, configKey)
	if err == nil && !ext.TokenBadgeAuthority.IsZero() {
		return ext.TokenBadgeAuthority, nil
	}
	config, cerr := e.Store.LoadConfig(ctx, configKey)
	if cerr != nil {
		return record.Identity{}, cerr
	}
	return config.FeeAuthority, nil
}

// InitializeTokenBadge marks tokenMint as explicitly supported under
// configKey, gated by the config's token-badge authority.
func (e *Engine) InitializeTokenBadge(ctx context.Context, configKey record.Identity, signer, tokenMint record.Identity) (record.Identity, error) {
	authority, err := e.tokenBadgeAuthority(ctx, configKey)
	if err != nil {
		return record.Identity{}, err
	}
	if signer != authority {
		return record.Identity{}, solveerr.ErrUnauthorizedSigner
	}

	badgeAddr, _, err := addr.TokenBadge(e.ProgramID, publicKey(configKey), publicKey(tokenMint))
	if err != nil {
		return record.Identity{}, fmt.Errorf("deriving token badge address: %w", err)
	}
	badgeKey := identity(badgeAddr)

	badge := &record.TokenBadge{SolvesConfig: configKey, TokenMint: tokenMint}
	if err := e.Store.SaveTokenBadge(ctx, badgeKey, badge); err != nil {
		return record.Identity{}, err
	}
	return badgeKey, nil
}

// DeleteTokenBadge removes a previously initialized token badge, gated by
// the config's token-badge authority.
func (e *Engine) DeleteTokenBadge(ctx context.Context, configKey, badgeKey record.Identity, signer record.Identity) error {
	authority, err := e.tokenBadgeAuthority(ctx, configKey)
	if err != nil {
		return err
	}
	if signer != authority {
		return solveerr.ErrUnauthorizedSigner
	}
	return e.Store.DeleteTokenBadge(ctx, badgeKey)
}

// SetTokenBadgeAuthority delegates badge management to a new authority,
// gated by the config's own fee authority.
func (e *Engine) SetTokenBadgeAuthority(ctx context.Context, configKey record.Identity, signer, newAuthority record.Identity) error {
	config, err := e.Store.LoadConfig(ctx, configKey)
	if err != nil {
		return err
	}
	if signer != config.FeeAuthority {
		return solveerr.ErrUnauthorizedSigner
	}
	ext, err := e.Store.LoadConfigExtension(ctx, configKey)
	if err != nil {
		ext = &record.SolvesConfigExtension{SolvesConfig: configKey}
	}
	ext.TokenBadgeAuthority = newAuthority
	return e.Store.SaveConfigExtension(ctx, configKey, ext)
}
