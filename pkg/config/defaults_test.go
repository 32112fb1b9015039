package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolDefaultsValidateRejectsExcessiveFeeRate(t *testing.T) {
	d := defaultPoolDefaults()
	d.DefaultFeeRate = 60001
	require.Error(t, d.Validate())
}

func TestAdaptiveFeeDefaultsValidateRejectsShortDecayWindow(t *testing.T) {
	a := defaultAdaptiveFeeDefaults()
	a.DecayPeriod = a.FilterPeriod - 1
	require.Error(t, a.Validate())
}

func TestManagerReloadFromEnvAppliesOverride(t *testing.T) {
	t.Setenv("DEFAULT_FEE_RATE", "500")
	m := NewManager(time.Hour)
	ok, err := m.ReloadFromEnv()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint16(500), m.PoolDefaults().DefaultFeeRate)
}

func TestManagerReloadFromEnvRateLimited(t *testing.T) {
	m := NewManager(time.Hour)
	ok, err := m.ReloadFromEnv()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.ReloadFromEnv()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestManagerReloadFromEnvRejectsInvalidOverride(t *testing.T) {
	t.Setenv("DEFAULT_FEE_RATE", "60001")
	defer os.Unsetenv("DEFAULT_FEE_RATE")
	m := NewManager(time.Hour)
	_, err := m.ReloadFromEnv()
	require.Error(t, err)
}
