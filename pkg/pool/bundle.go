package pool

import (
	"context"

	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

func checkBundleIndex(i int) error {
	if i < 0 || i >= record.PositionBundleSize {
		return solveerr.ErrInvalidBundleIndex
	}
	return nil
}

// InitializePositionBundle creates an empty occupancy bitmap for a freshly
// minted bundle NFT (spec.md's addressing list omits PositionBundle, so
// bundleKey is caller-supplied rather than PDA-derived, as with SolvesConfig
// and the fee-tier records).
func (e *Engine) InitializePositionBundle(ctx context.Context, bundleKey, bundleMint record.Identity) error {
	bundle := &record.PositionBundle{PositionBundleMint: bundleMint}
	return e.Store.SavePositionBundle(ctx, bundleKey, bundle)
}

// OpenBundledPosition opens a position at bundleIndex within an existing
// bundle, delegating the range/full-range checks to OpenPosition.
func (e *Engine) OpenBundledPosition(ctx context.Context, bundleKey record.Identity, bundleIndex int, poolKey, positionMint record.Identity, tickLower, tickUpper int32) (record.Identity, error) {
	if err := checkBundleIndex(bundleIndex); err != nil {
		return record.Identity{}, err
	}
	bundle, err := e.Store.LoadPositionBundle(ctx, bundleKey)
	if err != nil {
		return record.Identity{}, err
	}
	if bundle.Occupied[bundleIndex] {
		return record.Identity{}, solveerr.ErrBundledPositionAlreadyOpened
	}

	posKey, err := e.OpenPosition(ctx, poolKey, positionMint, tickLower, tickUpper)
	if err != nil {
		return record.Identity{}, err
	}

	bundle.Occupied[bundleIndex] = true
	if err := e.Store.SavePositionBundle(ctx, bundleKey, bundle); err != nil {
		return record.Identity{}, err
	}
	return posKey, nil
}

// CloseBundledPosition frees bundleIndex once its position is empty,
// mirroring ClosePosition's emptiness check without the NFT receipt burn a
// bundled position never minted individually.
func (e *Engine) CloseBundledPosition(ctx context.Context, bundleKey record.Identity, bundleIndex int, positionKey record.Identity) error {
	if err := checkBundleIndex(bundleIndex); err != nil {
		return err
	}
	bundle, err := e.Store.LoadPositionBundle(ctx, bundleKey)
	if err != nil {
		return err
	}
	if !bundle.Occupied[bundleIndex] {
		return solveerr.ErrBundledPositionAlreadyClosed
	}

	pos, err := e.Store.LoadPosition(ctx, positionKey)
	if err != nil {
		return err
	}
	if !pos.IsEmpty() {
		return solveerr.ErrClosePositionNotEmpty
	}

	bundle.Occupied[bundleIndex] = false
	return e.Store.SavePositionBundle(ctx, bundleKey, bundle)
}
