package main

import (
	"context"
	"fmt"

	"github.com/solve-so/solve-core/pkg/record"
)

// memStore is an in-process collab.Store: a demo harness has no durable
// account model to persist against, so every record lives in a map for the
// lifetime of the process.
type memStore struct {
	pools         map[record.Identity]*record.Pool
	tickArrays    map[record.Identity]*record.TickArray
	positions     map[record.Identity]*record.Position
	oracles       map[record.Identity]*record.Oracle
	configs       map[record.Identity]*record.SolvesConfig
	configExts    map[record.Identity]*record.SolvesConfigExtension
	feeTiers      map[record.Identity]*record.FeeTier
	adaptiveTiers map[record.Identity]*record.AdaptiveFeeTier
	tokenBadges   map[record.Identity]*record.TokenBadge
	bundles       map[record.Identity]*record.PositionBundle
	lockConfigs   map[record.Identity]*record.LockConfig
}

func newMemStore() *memStore {
	return &memStore{
		pools:         make(map[record.Identity]*record.Pool),
		tickArrays:    make(map[record.Identity]*record.TickArray),
		positions:     make(map[record.Identity]*record.Position),
		oracles:       make(map[record.Identity]*record.Oracle),
		configs:       make(map[record.Identity]*record.SolvesConfig),
		configExts:    make(map[record.Identity]*record.SolvesConfigExtension),
		feeTiers:      make(map[record.Identity]*record.FeeTier),
		adaptiveTiers: make(map[record.Identity]*record.AdaptiveFeeTier),
		tokenBadges:   make(map[record.Identity]*record.TokenBadge),
		bundles:       make(map[record.Identity]*record.PositionBundle),
		lockConfigs:   make(map[record.Identity]*record.LockConfig),
	}
}

var errNotFound = fmt.Errorf("record not found")

func (s *memStore) LoadPool(_ context.Context, key record.Identity) (*record.Pool, error) {
	if v, ok := s.pools[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SavePool(_ context.Context, key record.Identity, pool *record.Pool) error {
	cp := *pool
	s.pools[key] = &cp
	return nil
}

func (s *memStore) LoadTickArray(_ context.Context, key record.Identity) (*record.TickArray, error) {
	if v, ok := s.tickArrays[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SaveTickArray(_ context.Context, key record.Identity, arr *record.TickArray) error {
	cp := *arr
	s.tickArrays[key] = &cp
	return nil
}

func (s *memStore) LoadPosition(_ context.Context, key record.Identity) (*record.Position, error) {
	if v, ok := s.positions[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SavePosition(_ context.Context, key record.Identity, pos *record.Position) error {
	cp := *pos
	s.positions[key] = &cp
	return nil
}

func (s *memStore) LoadOracle(_ context.Context, key record.Identity) (*record.Oracle, error) {
	if v, ok := s.oracles[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SaveOracle(_ context.Context, key record.Identity, o *record.Oracle) error {
	cp := *o
	s.oracles[key] = &cp
	return nil
}

func (s *memStore) LoadConfig(_ context.Context, key record.Identity) (*record.SolvesConfig, error) {
	if v, ok := s.configs[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SaveConfig(_ context.Context, key record.Identity, c *record.SolvesConfig) error {
	cp := *c
	s.configs[key] = &cp
	return nil
}

func (s *memStore) LoadConfigExtension(_ context.Context, key record.Identity) (*record.SolvesConfigExtension, error) {
	if v, ok := s.configExts[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SaveConfigExtension(_ context.Context, key record.Identity, e *record.SolvesConfigExtension) error {
	cp := *e
	s.configExts[key] = &cp
	return nil
}

func (s *memStore) LoadFeeTier(_ context.Context, key record.Identity) (*record.FeeTier, error) {
	if v, ok := s.feeTiers[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SaveFeeTier(_ context.Context, key record.Identity, t *record.FeeTier) error {
	cp := *t
	s.feeTiers[key] = &cp
	return nil
}

func (s *memStore) LoadAdaptiveFeeTier(_ context.Context, key record.Identity) (*record.AdaptiveFeeTier, error) {
	if v, ok := s.adaptiveTiers[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SaveAdaptiveFeeTier(_ context.Context, key record.Identity, t *record.AdaptiveFeeTier) error {
	cp := *t
	s.adaptiveTiers[key] = &cp
	return nil
}

func (s *memStore) LoadTokenBadge(_ context.Context, key record.Identity) (*record.TokenBadge, error) {
	if v, ok := s.tokenBadges[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SaveTokenBadge(_ context.Context, key record.Identity, b *record.TokenBadge) error {
	cp := *b
	s.tokenBadges[key] = &cp
	return nil
}
func (s *memStore) DeleteTokenBadge(_ context.Context, key record.Identity) error {
	delete(s.tokenBadges, key)
	return nil
}

func (s *memStore) LoadPositionBundle(_ context.Context, key record.Identity) (*record.PositionBundle, error) {
	if v, ok := s.bundles[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SavePositionBundle(_ context.Context, key record.Identity, b *record.PositionBundle) error {
	cp := *b
	s.bundles[key] = &cp
	return nil
}

func (s *memStore) LoadLockConfig(_ context.Context, key record.Identity) (*record.LockConfig, error) {
	if v, ok := s.lockConfigs[key]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, errNotFound
}
func (s *memStore) SaveLockConfig(_ context.Context, key record.Identity, c *record.LockConfig) error {
	cp := *c
	s.lockConfigs[key] = &cp
	return nil
}

// noopTransfer logs every settlement instead of moving real tokens; the
// demo harness has no SPL token accounts to touch.
type noopTransfer struct{}

func (noopTransfer) Transfer(_ context.Context, from, to record.Identity, amount uint64, _ uint8, _ []record.Identity) error {
	return nil
}

// openReceipts treats every position as unlocked and every mint as freely
// mintable/burnable; the demo harness has no NFT program to call into.
type openReceipts struct{}

func (openReceipts) MintReceipt(_ context.Context, _, _ record.Identity) error { return nil }
func (openReceipts) BurnReceipt(_ context.Context, _, _ record.Identity) error { return nil }
func (openReceipts) IsLocked(_ context.Context, _ record.Identity) (bool, error) {
	return false, nil
}
