package display

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/record"
)

func TestSqrtPriceToDecimalAtTickZero(t *testing.T) {
	sqrtP, err := fixedmath.SqrtPriceFromTickIndex(0)
	require.NoError(t, err)
	d := SqrtPriceToDecimal(sqrtP)
	require.True(t, d.Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.New(1, -9)))
}

func TestPriceFromSqrtPriceSquaresValue(t *testing.T) {
	sqrtP := uint128.From64(1).Lsh(fixedmath.Q64Resolution) // 1.0 in Q64.64
	price := PriceFromSqrtPrice(sqrtP)
	require.True(t, price.Equal(decimal.NewFromInt(1)))
}

func TestFormatAmountAppliesDecimals(t *testing.T) {
	require.Equal(t, "1.5", FormatAmount(1_500_000, 6))
	require.Equal(t, "1000000", FormatAmount(1_000_000, 0))
}

func TestIdentityStringRoundTrips(t *testing.T) {
	var id record.Identity
	id[0], id[31] = 7, 42

	encoded := IdentityString(id)
	decoded, err := ParseIdentity(encoded)
	require.NoError(t, err)
	require.Equal(t, id, decoded)
}

func TestParseIdentityRejectsWrongLength(t *testing.T) {
	_, err := ParseIdentity(base58.Encode([]byte{1, 2, 3}))
	require.Error(t, err)
}
