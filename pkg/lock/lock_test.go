package lock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

type fakeAuthority struct {
	locked bool
	err    error
}

func (f fakeAuthority) MintReceipt(ctx context.Context, mint, receiptAccount record.Identity) error {
	return nil
}
func (f fakeAuthority) BurnReceipt(ctx context.Context, mint, receiptAccount record.Identity) error {
	return nil
}
func (f fakeAuthority) IsLocked(ctx context.Context, positionMint record.Identity) (bool, error) {
	return f.locked, f.err
}

func TestCheckUnlockedPassesWhenNotLocked(t *testing.T) {
	require.NoError(t, CheckUnlocked(context.Background(), fakeAuthority{locked: false}, record.Identity{1}))
}

func TestCheckUnlockedRejectsWhenLocked(t *testing.T) {
	err := CheckUnlocked(context.Background(), fakeAuthority{locked: true}, record.Identity{1})
	require.ErrorIs(t, err, solveerr.ErrOperationNotAllowedOnLockedPosition)
}

func TestCheckUnlockedPropagatesQueryError(t *testing.T) {
	boom := errors.New("boom")
	err := CheckUnlocked(context.Background(), fakeAuthority{err: boom}, record.Identity{1})
	require.ErrorIs(t, err, boom)
}
