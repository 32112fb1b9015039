// Package lock implements the position-lock query: whether a position's
// receipt is currently frozen against liquidity and close operations. Lock state
// lives with the external receipt authority, never as a Position field
// (design note §9), so this package is a thin guard in front of
// collab.ReceiptAuthority rather than a record mutator.
package lock

import (
	"context"
	"fmt"

	"github.com/solve-so/solve-core/pkg/collab"
	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// CheckUnlocked returns an error wrapping
// solveerr.ErrOperationNotAllowedOnLockedPosition if the position's receipt
// is currently locked. IncreaseLiquidity, DecreaseLiquidity and ClosePosition
// invoke it before mutating; fee and reward collection are not gated by it.
func CheckUnlocked(ctx context.Context, authority collab.ReceiptAuthority, positionMint record.Identity) error {
	locked, err := authority.IsLocked(ctx, positionMint)
	if err != nil {
		return fmt.Errorf("querying lock state: %w", err)
	}
	if locked {
		return fmt.Errorf("position %x: %w", positionMint, solveerr.ErrOperationNotAllowedOnLockedPosition)
	}
	return nil
}
