// Package display formats Q64.64 sqrt-prices and tick-derived human prices
// as decimal strings for logs and emitted events. Settlement math never uses
// this package; it is read-only, display-layer arithmetic on top of
// already-computed integer results.
package display

import (
	"fmt"
	"math/big"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
)

// two64 is 2^64, the Q64.64 scale factor.
var two64 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), fixedmath.Q64Resolution), 0)

// SqrtPriceToDecimal converts a Q64.64 sqrt-price into its decimal value
// (not squared — callers that want the pool price call PriceFromSqrtPrice).
func SqrtPriceToDecimal(sqrtPrice uint128.Uint128) decimal.Decimal {
	return decimal.NewFromBigInt(sqrtPrice.Big(), 0).Div(two64)
}

// PriceFromSqrtPrice returns token_b-per-token_a, i.e. sqrt_price^2,
// rendered as a decimal string suitable for logs and event payloads.
func PriceFromSqrtPrice(sqrtPrice uint128.Uint128) decimal.Decimal {
	p := SqrtPriceToDecimal(sqrtPrice)
	return p.Mul(p)
}

// TickToPrice renders 1.0001^tick as a decimal, independent of the integer
// sqrt-price ladder, for operator-facing display of a tick boundary.
func TickToPrice(tick int32) decimal.Decimal {
	base := decimal.NewFromFloat(1.0001)
	return base.Pow(decimal.NewFromInt32(tick))
}

// FormatAmount renders a raw token amount with its mint's decimal count,
// e.g. FormatAmount(1_500_000, 6) -> "1.5".
func FormatAmount(raw uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals)).String()
}

// IdentityString renders a record.Identity as base58 text, independent of
// solana-go's PublicKey formatting, for logs and JSON payloads that carry
// identities not sourced from a solana.PublicKey (e.g. record addresses
// read back out of a store fake in tests or tooling).
func IdentityString(id record.Identity) string {
	return base58.Encode(id[:])
}

// ParseIdentity parses base58 text produced by IdentityString back into a
// record.Identity.
func ParseIdentity(s string) (record.Identity, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return record.Identity{}, fmt.Errorf("display: invalid base58 identity %q: %w", s, err)
	}
	if len(decoded) != 32 {
		return record.Identity{}, fmt.Errorf("display: identity %q decodes to %d bytes, want 32", s, len(decoded))
	}
	var id record.Identity
	copy(id[:], decoded)
	return id, nil
}
