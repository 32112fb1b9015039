package codec

import (
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/solve-so/solve-core/pkg/record"
)

// PoolWireSize is the total encoded size of a Pool record including its
// 8-byte discriminator (spec §6): 8 + 32+1+2+2+2+2+16+16+4+8+8+32+32+16+32+32+16+8+384.
const PoolWireSize = DiscriminatorSize + 645

// DecodePool parses a Pool record out of its fixed-offset wire format. The
// discriminator itself is not validated here; callers that multiplex record
// kinds by discriminator should check data[0:8] before dispatching.
func DecodePool(data []byte) (*record.Pool, error) {
	if len(data) < PoolWireSize {
		return nil, fmt.Errorf("pool: expected %d bytes, got %d", PoolWireSize, len(data))
	}
	p := &record.Pool{}
	d := data[DiscriminatorSize:]

	if err := decodeIdentity(d, 0, &p.SolvesConfig); err != nil {
		return nil, err
	}
	p.SolveBump = d[32]
	if err := decodeAt(d, 33, 35, &p.TickSpacing); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 35, 37, &p.FeeTierIndex); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 37, 39, &p.FeeRate); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 39, 41, &p.ProtocolFeeRate); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 41, 57, &p.Liquidity); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 57, 73, &p.SqrtPrice); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 73, 77, &p.TickCurrentIndex); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 77, 85, &p.ProtocolFeeOwedA); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 85, 93, &p.ProtocolFeeOwedB); err != nil {
		return nil, err
	}
	if err := decodeIdentity(d, 93, &p.TokenMintA); err != nil {
		return nil, err
	}
	if err := decodeIdentity(d, 125, &p.TokenVaultA); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 157, 173, &p.FeeGrowthGlobalA); err != nil {
		return nil, err
	}
	if err := decodeIdentity(d, 173, &p.TokenMintB); err != nil {
		return nil, err
	}
	if err := decodeIdentity(d, 205, &p.TokenVaultB); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 237, 253, &p.FeeGrowthGlobalB); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 253, 261, &p.RewardLastUpdatedTimestamp); err != nil {
		return nil, err
	}
	for i := 0; i < record.NumRewards; i++ {
		off := 261 + i*128
		if err := decodeIdentity(d, off, &p.RewardInfos[i].Mint); err != nil {
			return nil, err
		}
		if err := decodeIdentity(d, off+32, &p.RewardInfos[i].Vault); err != nil {
			return nil, err
		}
		if err := decodeIdentity(d, off+64, &p.RewardInfos[i].Authority); err != nil {
			return nil, err
		}
		if err := decodeAt(d, off+96, off+112, &p.RewardInfos[i].EmissionsPerSecond); err != nil {
			return nil, err
		}
		if err := decodeAt(d, off+112, off+128, &p.RewardInfos[i].GrowthGlobal); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// EncodePool renders a Pool record to its wire format, prefixed with the
// given 8-byte discriminator.
func EncodePool(p *record.Pool, discriminator [8]byte) ([]byte, error) {
	buf := make([]byte, 0, PoolWireSize)
	enc := bin.NewBinEncoder(&sliceWriter{buf: &buf})

	fields := []interface{}{
		discriminator,
		p.SolvesConfig,
		p.SolveBump,
		p.TickSpacing,
		p.FeeTierIndex,
		p.FeeRate,
		p.ProtocolFeeRate,
		p.Liquidity,
		p.SqrtPrice,
		p.TickCurrentIndex,
		p.ProtocolFeeOwedA,
		p.ProtocolFeeOwedB,
		p.TokenMintA,
		p.TokenVaultA,
		p.FeeGrowthGlobalA,
		p.TokenMintB,
		p.TokenVaultB,
		p.FeeGrowthGlobalB,
		p.RewardLastUpdatedTimestamp,
	}
	for _, f := range fields {
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
	}
	for _, r := range p.RewardInfos {
		for _, f := range []interface{}{r.Mint, r.Vault, r.Authority, r.EmissionsPerSecond, r.GrowthGlobal} {
			if err := enc.Encode(f); err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

func decodeIdentity(data []byte, off int, dst *record.Identity) error {
	return decodeAt(data, off, off+32, dst)
}
