package record

import (
	"math/big"

	"lukechampine.com/uint128"
)

// Identity stands in for an on-chain/account identity (a mint, a vault, an
// authority, a PDA). The engine never interprets its bytes beyond equality
// and lexicographic order; persistence/derivation lives in pkg/addr.
type Identity [32]byte

// Less implements the strict token_mint_a < token_mint_b ordering invariant.
func (id Identity) Less(other Identity) bool {
	for i := range id {
		if id[i] != other[i] {
			return id[i] < other[i]
		}
	}
	return false
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

// RewardInfo is one of a pool's 3 fixed reward slots.
type RewardInfo struct {
	Mint               Identity
	Vault              Identity
	Authority          Identity
	EmissionsPerSecond uint128.Uint128 // Q64.64
	GrowthGlobal       uint128.Uint128 // Q64.64, wrapping
}

func (r RewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

// Pool is the central record (spec §3.1).
type Pool struct {
	SolvesConfig   Identity
	SolveBump      uint8
	TickSpacing    uint16
	FeeTierIndex   uint16
	FeeRate        uint16 // hundredths of a basis point
	ProtocolFeeRate uint16 // basis points

	Liquidity  uint128.Uint128
	SqrtPrice  uint128.Uint128 // Q64.64
	TickCurrentIndex int32

	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64

	TokenMintA  Identity
	TokenVaultA Identity
	TokenMintB  Identity
	TokenVaultB Identity

	FeeGrowthGlobalA uint128.Uint128 // Q64.64, wrapping
	FeeGrowthGlobalB uint128.Uint128 // Q64.64, wrapping

	RewardLastUpdatedTimestamp uint64
	RewardInfos                [NumRewards]RewardInfo
}

// IsFullRangeOnly reports whether this pool's tick spacing forces full-range
// positions (spec §3.4).
func (p *Pool) IsFullRangeOnly() bool {
	return uint32(p.TickSpacing) >= FullRangeOnlyTickSpacingThreshold
}

// Tick is per-discrete-tick-index state, stored only at usable indices
// (spec §3.2).
type Tick struct {
	Initialized bool

	LiquidityNet   big.Int // i128, signed
	LiquidityGross uint128.Uint128

	FeeGrowthOutsideA uint128.Uint128 // wrapping
	FeeGrowthOutsideB uint128.Uint128 // wrapping

	RewardGrowthsOutside [NumRewards]uint128.Uint128 // wrapping
}

// TickArray is the fixed-stride storage shard (spec §3.3). Variable/dynamic
// storage is modeled by pkg/ticks as a second implementation of the same
// capability interface; this struct is the fixed-layout variant matching the
// wire format in spec §6.
type TickArray struct {
	StartTickIndex int32
	Ticks          [TickArraySize]Tick
	Solve          Identity
}

// PositionRewardInfo is one of a position's 3 fixed reward checkpoints.
type PositionRewardInfo struct {
	GrowthInsideCheckpoint uint128.Uint128 // wrapping
	AmountOwed             uint64
}

// Position is a liquidity-provider's range record (spec §3.4).
type Position struct {
	Pool           Identity
	TickLowerIndex int32
	TickUpperIndex int32

	Liquidity uint128.Uint128

	FeeGrowthCheckpointA uint128.Uint128 // wrapping
	FeeGrowthCheckpointB uint128.Uint128 // wrapping
	FeeOwedA             uint64
	FeeOwedB             uint64

	RewardInfos [NumRewards]PositionRewardInfo
}

// IsEmpty reports whether the position holds no liquidity and no owed fees
// or rewards (spec §3.4 invariant), the precondition for closing it.
func (p *Position) IsEmpty() bool {
	if !p.Liquidity.IsZero() {
		return false
	}
	if p.FeeOwedA != 0 || p.FeeOwedB != 0 {
		return false
	}
	for _, r := range p.RewardInfos {
		if r.AmountOwed != 0 {
			return false
		}
	}
	return true
}

// AdaptiveFeeConstants are the oracle's governance-set parameters
// (spec §3.5, §4.6).
type AdaptiveFeeConstants struct {
	FilterPeriod               uint16
	DecayPeriod                uint16
	ReductionFactor            uint16
	AdaptiveFeeControlFactor   uint32
	MaxVolatilityAccumulator   uint32
	TickGroupSize              uint16
	MajorSwapThresholdTicks    uint16
}

// AdaptiveFeeVariables is the oracle's mutable state (spec §3.5).
type AdaptiveFeeVariables struct {
	LastReferenceUpdateTimestamp uint64
	LastMajorSwapTimestamp       uint64
	VolatilityReference          uint32
	TickGroupIndexReference      int32
	VolatilityAccumulator        uint32
}

// Oracle is the per-pool adaptive-fee state machine record (spec §3.5).
type Oracle struct {
	Pool                  Identity
	TradeEnableTimestamp  uint64
	Constants             AdaptiveFeeConstants
	Variables             AdaptiveFeeVariables
}

// FeeTier maps a tick_spacing to a static default fee_rate.
type FeeTier struct {
	SolvesConfig Identity
	TickSpacing  uint16
	DefaultFeeRate uint16
}

// AdaptiveFeeTier maps a fee_tier_index to adaptive-fee governance defaults,
// plus the permission gate for setting a non-zero trade_enable_timestamp.
type AdaptiveFeeTier struct {
	SolvesConfig      Identity
	FeeTierIndex      uint16
	TickSpacing       uint16
	DefaultBaseFeeRate uint16
	FilterPeriod      uint16
	DecayPeriod       uint16
	ReductionFactor   uint16
	AdaptiveFeeControlFactor uint32
	MaxVolatilityAccumulator uint32
	TickGroupSize     uint16
	MajorSwapThresholdTicks uint16
	InitializePoolAuthority Identity // zero => permissionless tier
	DelegatedFeeAuthority   Identity
}

// Permissioned reports whether this tier requires an authority to
// initialize pools and therefore may set a non-zero trade_enable_timestamp.
func (t *AdaptiveFeeTier) Permissioned() bool {
	return !t.InitializePoolAuthority.IsZero()
}

// SolvesConfig is the top-level governance root a deployment is scoped under.
type SolvesConfig struct {
	FeeAuthority            Identity
	CollectProtocolFeesAuthority Identity
	RewardEmissionsSuperAuthority Identity
	DefaultProtocolFeeRate  uint16
}

// SolvesConfigExtension carries governance fields added after SolvesConfig's
// initial layout (token-badge authority), kept as a distinct extension
// record per spec §6 rather than reshaping SolvesConfig itself.
type SolvesConfigExtension struct {
	SolvesConfig          Identity
	TokenBadgeAuthority   Identity
}

// TokenBadge marks a token mint as explicitly supported (e.g. for
// Token-2022 extensions) within a SolvesConfig scope.
type TokenBadge struct {
	SolvesConfig Identity
	TokenMint    Identity
}

// LockConfig records a position's externally-tracked freeze state (spec §9
// "Locked positions" design note: lock state is a query on the receipt, not
// an internal Position flag).
type LockConfig struct {
	Position Identity
	Locked   bool
}

// PositionBundle groups up to PositionBundleSize positions under one NFT receipt,
// each tracked by an occupancy bitmap.
type PositionBundle struct {
	PositionBundleMint Identity
	Occupied           [PositionBundleSize]bool
}

const PositionBundleSize = 256
