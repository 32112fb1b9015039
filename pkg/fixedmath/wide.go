package fixedmath

import (
	"math"
	"math/big"

	"github.com/solve-so/solve-core/pkg/solveerr"
	"lukechampine.com/uint128"
)

// Uint256 is a widened 256-bit unsigned integer split into two u128 halves,
// used as the intermediate of a 128x128 multiplication before dividing back
// down to a u128 result. The actual arithmetic is delegated to math/big
// (the same primitive the teacher package reaches for when a u128*u128
// product would overflow — see whirlpoolPool.go's sqrtPrice^2 computations)
// but the halved representation keeps the public shape the spec calls for.
type Uint256 struct {
	Hi uint128.Uint128
	Lo uint128.Uint128
}

func (u Uint256) big() *big.Int {
	out := new(big.Int).Lsh(u.Hi.Big(), 128)
	out.Add(out, u.Lo.Big())
	return out
}

func uint256FromBig(v *big.Int) Uint256 {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	lo := new(big.Int).And(v, mask)
	hi := new(big.Int).Rsh(v, 128)
	return Uint256{Hi: uint128.FromBig(hi), Lo: uint128.FromBig(lo)}
}

// Mul128 computes the full, non-overflowing 256-bit product of two u128 values.
func Mul128(a, b uint128.Uint128) Uint256 {
	return uint256FromBig(new(big.Int).Mul(a.Big(), b.Big()))
}

// MulDivFloor computes floor(a*b/denom) without overflowing the intermediate
// product, failing if the quotient does not fit back in 128 bits or denom is
// zero.
func MulDivFloor(a, b, denom uint128.Uint128) (uint128.Uint128, error) {
	if denom.IsZero() {
		return uint128.Zero, solveerr.ErrMulDivOverflow
	}
	prod := Mul128(a, b).big()
	q := new(big.Int).Div(prod, denom.Big())
	return bigToU128Checked(q)
}

// MulDivCeil computes ceil(a*b/denom) with the same overflow discipline as MulDivFloor.
func MulDivCeil(a, b, denom uint128.Uint128) (uint128.Uint128, error) {
	if denom.IsZero() {
		return uint128.Zero, solveerr.ErrMulDivOverflow
	}
	prod := Mul128(a, b).big()
	q, r := new(big.Int).DivMod(prod, denom.Big(), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return bigToU128Checked(q)
}

// ClipToU64 saturates a u128 fee/reward-growth product at math.MaxUint64
// (spec §4.4 step 6: amounts owed are clipped to u64 before accumulating).
func ClipToU64(v uint128.Uint128) uint64 {
	if v.Hi != 0 || v.Lo > math.MaxUint64 {
		return math.MaxUint64
	}
	return v.Lo
}

func bigToU128Checked(v *big.Int) (uint128.Uint128, error) {
	if v.Sign() < 0 {
		return uint128.Zero, solveerr.ErrMulDivOverflow
	}
	max := new(big.Int).Lsh(big.NewInt(1), 128)
	if v.Cmp(max) >= 0 {
		return uint128.Zero, solveerr.ErrMulDivOverflow
	}
	return uint128.FromBig(v), nil
}
