package codec

import (
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"

	"github.com/solve-so/solve-core/pkg/record"
)

// TickWireSize is a single Tick slot's encoded size (spec §6):
// 1 + 16(i128) + 16 + 16 + 16 + 3*16.
const TickWireSize = 1 + 16 + 16 + 16 + 16 + 3*16

// TickArrayWireSize is the Fixed TickArray's encoded size including its
// discriminator: 8 + 4 + 88*TickWireSize + 32.
const TickArrayWireSize = DiscriminatorSize + 4 + record.TickArraySize*TickWireSize + 32

func decodeTick(data []byte) (record.Tick, error) {
	var t record.Tick
	if len(data) < TickWireSize {
		return t, fmt.Errorf("tick: expected %d bytes, got %d", TickWireSize, len(data))
	}
	t.Initialized = data[0] != 0

	netBytes := data[1:17]
	t.LiquidityNet = *i128FromLE(netBytes)

	if err := decodeAt(data, 17, 33, &t.LiquidityGross); err != nil {
		return t, err
	}
	if err := decodeAt(data, 33, 49, &t.FeeGrowthOutsideA); err != nil {
		return t, err
	}
	if err := decodeAt(data, 49, 65, &t.FeeGrowthOutsideB); err != nil {
		return t, err
	}
	for i := 0; i < record.NumRewards; i++ {
		off := 65 + i*16
		if err := decodeAt(data, off, off+16, &t.RewardGrowthsOutside[i]); err != nil {
			return t, err
		}
	}
	return t, nil
}

func encodeTick(enc *bin.Encoder, t record.Tick) error {
	init := byte(0)
	if t.Initialized {
		init = 1
	}
	if err := enc.Encode(init); err != nil {
		return err
	}
	if err := enc.WriteBytes(i128ToLE(&t.LiquidityNet), false); err != nil {
		return err
	}
	for _, f := range []interface{}{t.LiquidityGross, t.FeeGrowthOutsideA, t.FeeGrowthOutsideB} {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	for _, g := range t.RewardGrowthsOutside {
		if err := enc.Encode(g); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTickArray parses a Fixed TickArray record.
func DecodeTickArray(data []byte) (*record.TickArray, error) {
	if len(data) < TickArrayWireSize {
		return nil, fmt.Errorf("tick_array: expected %d bytes, got %d", TickArrayWireSize, len(data))
	}
	ta := &record.TickArray{}
	d := data[DiscriminatorSize:]

	if err := decodeAt(d, 0, 4, &ta.StartTickIndex); err != nil {
		return nil, err
	}
	for i := 0; i < record.TickArraySize; i++ {
		off := 4 + i*TickWireSize
		tick, err := decodeTick(d[off : off+TickWireSize])
		if err != nil {
			return nil, fmt.Errorf("tick_array: slot %d: %w", i, err)
		}
		ta.Ticks[i] = tick
	}
	solveOff := 4 + record.TickArraySize*TickWireSize
	if err := decodeIdentity(d, solveOff, &ta.Solve); err != nil {
		return nil, err
	}
	return ta, nil
}

// EncodeTickArray renders a Fixed TickArray record to its wire format.
func EncodeTickArray(ta *record.TickArray, discriminator [8]byte) ([]byte, error) {
	buf := make([]byte, 0, TickArrayWireSize)
	enc := bin.NewBinEncoder(&sliceWriter{buf: &buf})

	if err := enc.Encode(discriminator); err != nil {
		return nil, err
	}
	if err := enc.Encode(ta.StartTickIndex); err != nil {
		return nil, err
	}
	for _, t := range ta.Ticks {
		if err := encodeTick(enc, t); err != nil {
			return nil, err
		}
	}
	if err := enc.Encode(ta.Solve); err != nil {
		return nil, err
	}
	return buf, nil
}

// i128FromLE interprets 16 little-endian bytes as a signed two's-complement
// 128-bit integer, the wire shape for liquidity_net.
func i128FromLE(b []byte) *big.Int {
	be := make([]byte, 16)
	for i, v := range b {
		be[15-i] = v
	}
	v := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return v
}

// i128ToLE renders a signed big.Int (assumed to fit in 128 bits) as 16
// little-endian two's-complement bytes.
func i128ToLE(v *big.Int) []byte {
	mod := new(big.Int).Set(v)
	if mod.Sign() < 0 {
		mod.Add(mod, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	be := mod.FillBytes(make([]byte, 16))
	le := make([]byte, 16)
	for i, b := range be {
		le[15-i] = b
	}
	return le
}
