package codec

import (
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/solve-so/solve-core/pkg/record"
)

// PositionWireSize is the Position record's encoded size (spec §3.4, §6),
// including its 8-byte discriminator: pool(32) + lower(4) + upper(4) + liquidity(16)
// + checkpoint_a(16) + checkpoint_b(16) + owed_a(8) + owed_b(8)
// + 3*(growth_inside_checkpoint(16)+amount_owed(8)).
const PositionWireSize = DiscriminatorSize + 32 + 4 + 4 + 16 + 16 + 16 + 8 + 8 + record.NumRewards*(16+8)

// DecodePosition parses a Position record.
func DecodePosition(data []byte) (*record.Position, error) {
	if len(data) < PositionWireSize {
		return nil, fmt.Errorf("position: expected %d bytes, got %d", PositionWireSize, len(data))
	}
	p := &record.Position{}
	d := data[DiscriminatorSize:]

	if err := decodeIdentity(d, 0, &p.Pool); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 32, 36, &p.TickLowerIndex); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 36, 40, &p.TickUpperIndex); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 40, 56, &p.Liquidity); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 56, 72, &p.FeeGrowthCheckpointA); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 72, 88, &p.FeeGrowthCheckpointB); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 88, 96, &p.FeeOwedA); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 96, 104, &p.FeeOwedB); err != nil {
		return nil, err
	}
	for i := 0; i < record.NumRewards; i++ {
		off := 104 + i*24
		if err := decodeAt(d, off, off+16, &p.RewardInfos[i].GrowthInsideCheckpoint); err != nil {
			return nil, err
		}
		if err := decodeAt(d, off+16, off+24, &p.RewardInfos[i].AmountOwed); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// EncodePosition renders a Position record to its wire format.
func EncodePosition(p *record.Position, discriminator [8]byte) ([]byte, error) {
	buf := make([]byte, 0, PositionWireSize)
	enc := bin.NewBinEncoder(&sliceWriter{buf: &buf})

	fields := []interface{}{
		discriminator,
		p.Pool,
		p.TickLowerIndex,
		p.TickUpperIndex,
		p.Liquidity,
		p.FeeGrowthCheckpointA,
		p.FeeGrowthCheckpointB,
		p.FeeOwedA,
		p.FeeOwedB,
	}
	for _, f := range fields {
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
	}
	for _, r := range p.RewardInfos {
		if err := enc.Encode(r.GrowthInsideCheckpoint); err != nil {
			return nil, err
		}
		if err := enc.Encode(r.AmountOwed); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
