package pool

import (
	"context"
	"fmt"

	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/addr"
	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/lock"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// usableTickBounds returns the extreme usable ticks for a given
// tick_spacing (spec §3.4 "full-range" gating): the multiples of
// tickSpacing closest to MinTick/MaxTick without exceeding them.
func usableTickBounds(tickSpacing uint16) (int32, int32) {
	spacing := int32(tickSpacing)
	max := (fixedmath.MaxTick / spacing) * spacing
	return -max, max
}

// OpenPosition allocates a Position record for [tickLower, tickUpper),
// enforcing the full-range-only gate and rejecting degenerate ranges.
func (e *Engine) OpenPosition(ctx context.Context, poolKey record.Identity, positionMint record.Identity, tickLower, tickUpper int32) (record.Identity, error) {
	pool, err := e.Store.LoadPool(ctx, poolKey)
	if err != nil {
		return record.Identity{}, err
	}
	if tickLower == tickUpper {
		return record.Identity{}, solveerr.ErrSameTickRangeNotAllowed
	}
	if tickLower >= tickUpper {
		return record.Identity{}, solveerr.ErrInvalidTickIndex
	}
	if int32(tickLower)%int32(pool.TickSpacing) != 0 || int32(tickUpper)%int32(pool.TickSpacing) != 0 {
		return record.Identity{}, solveerr.ErrInvalidTickIndex
	}
	if pool.IsFullRangeOnly() {
		minUsable, maxUsable := usableTickBounds(pool.TickSpacing)
		if tickLower != minUsable || tickUpper != maxUsable {
			return record.Identity{}, solveerr.ErrFullRangeOnlyPool
		}
	}

	posAddr, _, err := addr.Position(e.ProgramID, publicKey(positionMint))
	if err != nil {
		return record.Identity{}, fmt.Errorf("deriving position address: %w", err)
	}
	posKey := identity(posAddr)

	pos := &record.Position{
		Pool:           poolKey,
		TickLowerIndex: tickLower,
		TickUpperIndex: tickUpper,
		Liquidity:      uint128.Zero,
	}
	if err := e.Store.SavePosition(ctx, posKey, pos); err != nil {
		return record.Identity{}, err
	}
	return posKey, nil
}

// OpenPositionWithMetadata is OpenPosition plus minting the NFT receipt that
// represents ownership; the metadata name/symbol/uri is display-only and
// never consulted by core logic (spec §6 external collaborator contract).
func (e *Engine) OpenPositionWithMetadata(ctx context.Context, poolKey record.Identity, positionMint record.Identity, tickLower, tickUpper int32, receiptAccount record.Identity) (record.Identity, error) {
	posKey, err := e.OpenPosition(ctx, poolKey, positionMint, tickLower, tickUpper)
	if err != nil {
		return record.Identity{}, err
	}
	if err := e.Receipts.MintReceipt(ctx, positionMint, receiptAccount); err != nil {
		return record.Identity{}, fmt.Errorf("minting position receipt: %w", err)
	}
	return posKey, nil
}

// ClosePosition burns the receipt. The position must be empty (no liquidity,
// no owed fees/rewards) and unlocked; the emptied Position record itself is
// left in the store.
func (e *Engine) ClosePosition(ctx context.Context, positionKey, positionMint, receiptAccount record.Identity) error {
	pos, err := e.Store.LoadPosition(ctx, positionKey)
	if err != nil {
		return err
	}
	if err := lock.CheckUnlocked(ctx, e.Receipts, positionMint); err != nil {
		return err
	}
	if !pos.IsEmpty() {
		return solveerr.ErrClosePositionNotEmpty
	}
	if err := e.Receipts.BurnReceipt(ctx, positionMint, receiptAccount); err != nil {
		return fmt.Errorf("burning position receipt: %w", err)
	}
	return nil
}
