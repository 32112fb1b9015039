package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// PoolDefaults are default pool-initialization values, loaded from .env the
// same "optional file, fall back to built-ins" way LoadEnv already works.
// InitializePool/InitializePoolWithAdaptiveFee do not read them.
type PoolDefaults struct {
	DefaultFeeRate         uint16
	DefaultProtocolFeeRate uint16
	DefaultTickSpacing     uint16
}

func defaultPoolDefaults() PoolDefaults {
	return PoolDefaults{
		DefaultFeeRate:         3000,
		DefaultProtocolFeeRate: 1000,
		DefaultTickSpacing:     64,
	}
}

// Validate enforces the same ceilings the swap/pool operations enforce at
// runtime, so a bad .env fails at load time rather than at first swap.
func (d PoolDefaults) Validate() error {
	if d.DefaultFeeRate > fixedmath.MaxFeeRate {
		return fmt.Errorf("default_fee_rate %d exceeds max %d: %w", d.DefaultFeeRate, fixedmath.MaxFeeRate, solveerr.ErrFeeRateMaxExceeded)
	}
	if d.DefaultProtocolFeeRate > fixedmath.MaxProtocolFeeRate {
		return fmt.Errorf("default_protocol_fee_rate %d exceeds max %d: %w", d.DefaultProtocolFeeRate, fixedmath.MaxProtocolFeeRate, solveerr.ErrProtocolFeeRateMaxExceeded)
	}
	if d.DefaultTickSpacing == 0 {
		return fmt.Errorf("default_tick_spacing must be nonzero: %w", solveerr.ErrInvalidTickSpacing)
	}
	return nil
}

// AdaptiveFeeDefaults are default AdaptiveFeeConstants; InitializeAdaptiveFeeTier
// does not read them and always uses the constants its caller passes.
type AdaptiveFeeDefaults record.AdaptiveFeeConstants

func defaultAdaptiveFeeDefaults() AdaptiveFeeDefaults {
	return AdaptiveFeeDefaults{
		FilterPeriod:             30,
		DecayPeriod:              600,
		ReductionFactor:          5000,
		AdaptiveFeeControlFactor: 4000,
		MaxVolatilityAccumulator: 350_000,
		TickGroupSize:            64,
		MajorSwapThresholdTicks:  200,
	}
}

// Validate enforces the oracle's own window-ordering invariant (spec §4.6):
// decay_period must be at least filter_period, both must be nonzero.
func (a AdaptiveFeeDefaults) Validate() error {
	if a.FilterPeriod == 0 || a.DecayPeriod == 0 {
		return fmt.Errorf("filter/decay period must be nonzero: %w", solveerr.ErrInvalidAdaptiveFeeConstants)
	}
	if a.DecayPeriod < a.FilterPeriod {
		return fmt.Errorf("decay_period %d shorter than filter_period %d: %w", a.DecayPeriod, a.FilterPeriod, solveerr.ErrInvalidAdaptiveFeeConstants)
	}
	if a.TickGroupSize == 0 {
		return fmt.Errorf("tick_group_size must be nonzero: %w", solveerr.ErrInvalidAdaptiveFeeConstants)
	}
	return nil
}

// Manager holds the current hot-reloadable PoolDefaults/AdaptiveFeeDefaults
// and rate-limits how often ReloadFromEnv is allowed to take effect, so a
// misbehaving file-watcher can't thrash the running defaults every tick.
type Manager struct {
	mu       sync.RWMutex
	pool     PoolDefaults
	adaptive AdaptiveFeeDefaults

	limiter *rate.Limiter
}

// NewManager builds a Manager seeded with built-in defaults, reloadable at
// most once per minInterval.
func NewManager(minInterval time.Duration) *Manager {
	return &Manager{
		pool:     defaultPoolDefaults(),
		adaptive: defaultAdaptiveFeeDefaults(),
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

func (m *Manager) PoolDefaults() PoolDefaults {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pool
}

func (m *Manager) AdaptiveFeeDefaults() AdaptiveFeeDefaults {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.adaptive
}

// ReloadFromEnv re-reads PoolDefaults/AdaptiveFeeDefaults from environment
// variables populated by LoadEnv. It is a no-op (returning false, nil) if
// called more often than the configured minInterval allows.
func (m *Manager) ReloadFromEnv() (bool, error) {
	if !m.limiter.Allow() {
		return false, nil
	}

	pool := defaultPoolDefaults()
	if v, ok := envUint16("DEFAULT_FEE_RATE"); ok {
		pool.DefaultFeeRate = v
	}
	if v, ok := envUint16("DEFAULT_PROTOCOL_FEE_RATE"); ok {
		pool.DefaultProtocolFeeRate = v
	}
	if v, ok := envUint16("DEFAULT_TICK_SPACING"); ok {
		pool.DefaultTickSpacing = v
	}
	if err := pool.Validate(); err != nil {
		return false, err
	}

	adaptive := defaultAdaptiveFeeDefaults()
	if v, ok := envUint16("ADAPTIVE_FILTER_PERIOD"); ok {
		adaptive.FilterPeriod = v
	}
	if v, ok := envUint16("ADAPTIVE_DECAY_PERIOD"); ok {
		adaptive.DecayPeriod = v
	}
	if err := adaptive.Validate(); err != nil {
		return false, err
	}

	m.mu.Lock()
	m.pool = pool
	m.adaptive = adaptive
	m.mu.Unlock()
	return true, nil
}

func envUint16(key string) (uint16, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}
