package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solve-so/solve-core/pkg/record"
)

func TestInitializeTokenBadgeRejectsWrongSigner(t *testing.T) {
	e, store, _, _ := newTestEngine()
	configKey := identityFromByte(1)
	store.configs[configKey] = record.SolvesConfig{FeeAuthority: identityFromByte(9)}

	_, err := e.InitializeTokenBadge(context.Background(), configKey, identityFromByte(99), identityFromByte(50))
	require.Error(t, err)
}

func TestInitializeTokenBadgeSucceeds(t *testing.T) {
	e, store, _, _ := newTestEngine()
	configKey := identityFromByte(1)
	store.configs[configKey] = record.SolvesConfig{FeeAuthority: identityFromByte(9)}

	badgeKey, err := e.InitializeTokenBadge(context.Background(), configKey, identityFromByte(9), identityFromByte(50))
	require.NoError(t, err)
	badge, ok := store.tokenBadges[badgeKey]
	require.True(t, ok)
	require.Equal(t, identityFromByte(50), badge.TokenMint)
}

func TestSetTokenBadgeAuthorityDelegatesSubsequentCalls(t *testing.T) {
	e, store, _, _ := newTestEngine()
	configKey := identityFromByte(1)
	store.configs[configKey] = record.SolvesConfig{FeeAuthority: identityFromByte(9)}

	err := e.SetTokenBadgeAuthority(context.Background(), configKey, identityFromByte(9), identityFromByte(77))
	require.NoError(t, err)

	_, err = e.InitializeTokenBadge(context.Background(), configKey, identityFromByte(9), identityFromByte(50))
	require.Error(t, err)

	_, err = e.InitializeTokenBadge(context.Background(), configKey, identityFromByte(77), identityFromByte(50))
	require.NoError(t, err)
}

func TestDeleteTokenBadgeRemovesRecord(t *testing.T) {
	e, store, _, _ := newTestEngine()
	configKey := identityFromByte(1)
	store.configs[configKey] = record.SolvesConfig{FeeAuthority: identityFromByte(9)}

	badgeKey, err := e.InitializeTokenBadge(context.Background(), configKey, identityFromByte(9), identityFromByte(50))
	require.NoError(t, err)

	err = e.DeleteTokenBadge(context.Background(), configKey, badgeKey, identityFromByte(9))
	require.NoError(t, err)
	_, ok := store.tokenBadges[badgeKey]
	require.False(t, ok)
}
