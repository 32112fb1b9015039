// Package collab defines the narrow interfaces the engine consumes for
// everything explicitly out of scope (spec §1, §6): a clock, a token
// transfer primitive, a persistence layer, and NFT mint/burn for position
// receipts. Production wiring lives in cmd/solve-sim; tests use fakes.
package collab

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/solve-so/solve-core/pkg/record"
)

// Clock yields the monotonic timestamp operations are evaluated against.
// Production code wraps clock.Clock (benbjohnson/clock); tests use
// clock.NewMock() to control time deterministically.
type Clock interface {
	Now() uint64 // unix seconds
}

// SystemClock adapts a benbjohnson/clock.Clock to Clock.
type SystemClock struct {
	Inner clock.Clock
}

func NewSystemClock() SystemClock {
	return SystemClock{Inner: clock.New()}
}

func (c SystemClock) Now() uint64 {
	return uint64(c.Inner.Now().Unix())
}

// Transferer moves an integer token amount between two vaults/accounts. It
// is the only primitive through which token custody changes; the engine
// itself never touches account balances directly.
type Transferer interface {
	Transfer(ctx context.Context, from, to record.Identity, amount uint64, mintDecimals uint8, hookAccounts []record.Identity) error
}

// Store loads and stores fixed-layout records by key. The engine treats it
// as a strongly-consistent, durable map; concurrency and account-model
// concerns belong entirely to the implementation.
type Store interface {
	LoadPool(ctx context.Context, key record.Identity) (*record.Pool, error)
	SavePool(ctx context.Context, key record.Identity, pool *record.Pool) error

	LoadTickArray(ctx context.Context, key record.Identity) (*record.TickArray, error)
	SaveTickArray(ctx context.Context, key record.Identity, arr *record.TickArray) error

	LoadPosition(ctx context.Context, key record.Identity) (*record.Position, error)
	SavePosition(ctx context.Context, key record.Identity, pos *record.Position) error

	LoadOracle(ctx context.Context, key record.Identity) (*record.Oracle, error)
	SaveOracle(ctx context.Context, key record.Identity, oracle *record.Oracle) error

	LoadConfig(ctx context.Context, key record.Identity) (*record.SolvesConfig, error)
	SaveConfig(ctx context.Context, key record.Identity, config *record.SolvesConfig) error

	LoadConfigExtension(ctx context.Context, key record.Identity) (*record.SolvesConfigExtension, error)
	SaveConfigExtension(ctx context.Context, key record.Identity, ext *record.SolvesConfigExtension) error

	LoadFeeTier(ctx context.Context, key record.Identity) (*record.FeeTier, error)
	SaveFeeTier(ctx context.Context, key record.Identity, tier *record.FeeTier) error

	LoadAdaptiveFeeTier(ctx context.Context, key record.Identity) (*record.AdaptiveFeeTier, error)
	SaveAdaptiveFeeTier(ctx context.Context, key record.Identity, tier *record.AdaptiveFeeTier) error

	LoadTokenBadge(ctx context.Context, key record.Identity) (*record.TokenBadge, error)
	SaveTokenBadge(ctx context.Context, key record.Identity, badge *record.TokenBadge) error
	DeleteTokenBadge(ctx context.Context, key record.Identity) error

	LoadPositionBundle(ctx context.Context, key record.Identity) (*record.PositionBundle, error)
	SavePositionBundle(ctx context.Context, key record.Identity, bundle *record.PositionBundle) error

	LoadLockConfig(ctx context.Context, key record.Identity) (*record.LockConfig, error)
	SaveLockConfig(ctx context.Context, key record.Identity, cfg *record.LockConfig) error
}

// ReceiptAuthority mints and burns the NFT receipt that represents
// ownership of a position, and reports whether a receipt is currently
// locked (spec §9: lock state is an externally-tracked query, never an
// internal Position flag).
type ReceiptAuthority interface {
	MintReceipt(ctx context.Context, mint, receiptAccount record.Identity) error
	BurnReceipt(ctx context.Context, mint, receiptAccount record.Identity) error
	IsLocked(ctx context.Context, positionMint record.Identity) (bool, error)
}
