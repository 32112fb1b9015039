package pool

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/solve-so/solve-core/pkg/record"
)

// memStore is a map-backed collab.Store fake for tests; it round-trips
// records by value so callers never alias the stored copy.
type memStore struct {
	pools           map[record.Identity]record.Pool
	tickArrays      map[record.Identity]record.TickArray
	positions       map[record.Identity]record.Position
	oracles         map[record.Identity]record.Oracle
	configs         map[record.Identity]record.SolvesConfig
	configExts      map[record.Identity]record.SolvesConfigExtension
	feeTiers        map[record.Identity]record.FeeTier
	adaptiveTiers   map[record.Identity]record.AdaptiveFeeTier
	tokenBadges     map[record.Identity]record.TokenBadge
	bundles         map[record.Identity]record.PositionBundle
	lockConfigs     map[record.Identity]record.LockConfig
}

func newMemStore() *memStore {
	return &memStore{
		pools:         make(map[record.Identity]record.Pool),
		tickArrays:    make(map[record.Identity]record.TickArray),
		positions:     make(map[record.Identity]record.Position),
		oracles:       make(map[record.Identity]record.Oracle),
		configs:       make(map[record.Identity]record.SolvesConfig),
		configExts:    make(map[record.Identity]record.SolvesConfigExtension),
		feeTiers:      make(map[record.Identity]record.FeeTier),
		adaptiveTiers: make(map[record.Identity]record.AdaptiveFeeTier),
		tokenBadges:   make(map[record.Identity]record.TokenBadge),
		bundles:       make(map[record.Identity]record.PositionBundle),
		lockConfigs:   make(map[record.Identity]record.LockConfig),
	}
}

func (s *memStore) LoadPool(_ context.Context, key record.Identity) (*record.Pool, error) {
	v, ok := s.pools[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SavePool(_ context.Context, key record.Identity, pool *record.Pool) error {
	s.pools[key] = *pool
	return nil
}

func (s *memStore) LoadTickArray(_ context.Context, key record.Identity) (*record.TickArray, error) {
	v, ok := s.tickArrays[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SaveTickArray(_ context.Context, key record.Identity, arr *record.TickArray) error {
	s.tickArrays[key] = *arr
	return nil
}

func (s *memStore) LoadPosition(_ context.Context, key record.Identity) (*record.Position, error) {
	v, ok := s.positions[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SavePosition(_ context.Context, key record.Identity, pos *record.Position) error {
	s.positions[key] = *pos
	return nil
}

func (s *memStore) LoadOracle(_ context.Context, key record.Identity) (*record.Oracle, error) {
	v, ok := s.oracles[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SaveOracle(_ context.Context, key record.Identity, o *record.Oracle) error {
	s.oracles[key] = *o
	return nil
}

func (s *memStore) LoadConfig(_ context.Context, key record.Identity) (*record.SolvesConfig, error) {
	v, ok := s.configs[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SaveConfig(_ context.Context, key record.Identity, c *record.SolvesConfig) error {
	s.configs[key] = *c
	return nil
}

func (s *memStore) LoadConfigExtension(_ context.Context, key record.Identity) (*record.SolvesConfigExtension, error) {
	v, ok := s.configExts[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SaveConfigExtension(_ context.Context, key record.Identity, e *record.SolvesConfigExtension) error {
	s.configExts[key] = *e
	return nil
}

func (s *memStore) LoadFeeTier(_ context.Context, key record.Identity) (*record.FeeTier, error) {
	v, ok := s.feeTiers[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SaveFeeTier(_ context.Context, key record.Identity, t *record.FeeTier) error {
	s.feeTiers[key] = *t
	return nil
}

func (s *memStore) LoadAdaptiveFeeTier(_ context.Context, key record.Identity) (*record.AdaptiveFeeTier, error) {
	v, ok := s.adaptiveTiers[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SaveAdaptiveFeeTier(_ context.Context, key record.Identity, t *record.AdaptiveFeeTier) error {
	s.adaptiveTiers[key] = *t
	return nil
}

func (s *memStore) LoadTokenBadge(_ context.Context, key record.Identity) (*record.TokenBadge, error) {
	v, ok := s.tokenBadges[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SaveTokenBadge(_ context.Context, key record.Identity, b *record.TokenBadge) error {
	s.tokenBadges[key] = *b
	return nil
}
func (s *memStore) DeleteTokenBadge(_ context.Context, key record.Identity) error {
	delete(s.tokenBadges, key)
	return nil
}

func (s *memStore) LoadPositionBundle(_ context.Context, key record.Identity) (*record.PositionBundle, error) {
	v, ok := s.bundles[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SavePositionBundle(_ context.Context, key record.Identity, b *record.PositionBundle) error {
	s.bundles[key] = *b
	return nil
}

func (s *memStore) LoadLockConfig(_ context.Context, key record.Identity) (*record.LockConfig, error) {
	v, ok := s.lockConfigs[key]
	if !ok {
		return nil, errNotFound
	}
	return &v, nil
}
func (s *memStore) SaveLockConfig(_ context.Context, key record.Identity, c *record.LockConfig) error {
	s.lockConfigs[key] = *c
	return nil
}

type errString string

func (e errString) Error() string { return string(e) }

const errNotFound = errString("record not found")

// fakeTransfer records every Transfer call without moving anything.
type fakeTransfer struct {
	calls []transferCall
}

type transferCall struct {
	From, To     record.Identity
	Amount       uint64
	MintDecimals uint8
}

func (f *fakeTransfer) Transfer(_ context.Context, from, to record.Identity, amount uint64, mintDecimals uint8, _ []record.Identity) error {
	f.calls = append(f.calls, transferCall{From: from, To: to, Amount: amount, MintDecimals: mintDecimals})
	return nil
}

// fakeReceipts treats every mint as unlocked unless explicitly added to
// locked.
type fakeReceipts struct {
	locked map[record.Identity]bool
	minted map[record.Identity]bool
}

func newFakeReceipts() *fakeReceipts {
	return &fakeReceipts{locked: make(map[record.Identity]bool), minted: make(map[record.Identity]bool)}
}

func (f *fakeReceipts) MintReceipt(_ context.Context, mint, _ record.Identity) error {
	f.minted[mint] = true
	return nil
}
func (f *fakeReceipts) BurnReceipt(_ context.Context, mint, _ record.Identity) error {
	delete(f.minted, mint)
	return nil
}
func (f *fakeReceipts) IsLocked(_ context.Context, positionMint record.Identity) (bool, error) {
	return f.locked[positionMint], nil
}

func testProgramID() solana.PublicKey {
	return solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
}

func newTestEngine() (*Engine, *memStore, *fakeTransfer, *fakeReceipts) {
	store := newMemStore()
	transfer := &fakeTransfer{}
	receipts := newFakeReceipts()
	e := &Engine{
		ProgramID: testProgramID(),
		Store:     store,
		Transfer:  transfer,
		Receipts:  receipts,
	}
	return e, store, transfer, receipts
}

func identityFromByte(b byte) record.Identity {
	var id record.Identity
	id[31] = b
	return id
}
