// Package events defines the domain events emitted by pool operations
// (spec §6) and a websocket fan-out hub that streams them to subscribers.
package events

import (
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/record"
)

// Kind discriminates the JSON frame's Data payload on the wire.
type Kind string

const (
	KindPoolInitialized    Kind = "pool_initialized"
	KindLiquidityIncreased Kind = "liquidity_increased"
	KindLiquidityDecreased Kind = "liquidity_decreased"
	KindTraded             Kind = "traded"
)

// Envelope is the JSON frame written to every subscriber. ID is a random
// UUID generated for each published envelope; publishing the same event
// again yields a new ID.
type Envelope struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Data any    `json:"data"`
}

type PoolInitialized struct {
	Pool             record.Identity `json:"pool"`
	TokenMintA       record.Identity `json:"token_mint_a"`
	TokenMintB       record.Identity `json:"token_mint_b"`
	TickSpacing      uint16          `json:"tick_spacing"`
	InitialSqrtPrice uint128.Uint128 `json:"initial_sqrt_price"`
}

type LiquidityIncreased struct {
	Pool           record.Identity `json:"pool"`
	Position       record.Identity `json:"position"`
	LiquidityDelta uint128.Uint128 `json:"liquidity_delta"`
	AmountA        uint64          `json:"amount_a"`
	AmountB        uint64          `json:"amount_b"`
}

type LiquidityDecreased struct {
	Pool           record.Identity `json:"pool"`
	Position       record.Identity `json:"position"`
	LiquidityDelta uint128.Uint128 `json:"liquidity_delta"`
	AmountA        uint64          `json:"amount_a"`
	AmountB        uint64          `json:"amount_b"`
}

// Traded mirrors spec.md §6's Traded event field list exactly.
type Traded struct {
	Pool              record.Identity `json:"pool"`
	AToB              bool            `json:"a_to_b"`
	PreSqrtPrice      uint128.Uint128 `json:"pre_sqrt_price"`
	PostSqrtPrice     uint128.Uint128 `json:"post_sqrt_price"`
	InputAmount       uint64          `json:"input_amount"`
	OutputAmount      uint64          `json:"output_amount"`
	InputTransferFee  uint64          `json:"input_transfer_fee"`
	OutputTransferFee uint64          `json:"output_transfer_fee"`
	LPFee             uint64          `json:"lp_fee"`
	ProtocolFee       uint64          `json:"protocol_fee"`
}
