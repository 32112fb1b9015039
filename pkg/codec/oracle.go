package codec

import (
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/solve-so/solve-core/pkg/record"
)

// OracleWireSize is the Oracle record's encoded size (spec §3.5, §6):
// pool(32) + trade_enable_timestamp(8) + constants(34) + variables(44) + reserved(128).
const OracleWireSize = DiscriminatorSize + 32 + 8 + 34 + 44 + 128

// DecodeOracle parses an Oracle record.
func DecodeOracle(data []byte) (*record.Oracle, error) {
	if len(data) < OracleWireSize {
		return nil, fmt.Errorf("oracle: expected %d bytes, got %d", OracleWireSize, len(data))
	}
	o := &record.Oracle{}
	d := data[DiscriminatorSize:]

	if err := decodeIdentity(d, 0, &o.Pool); err != nil {
		return nil, err
	}
	if err := decodeAt(d, 32, 40, &o.TradeEnableTimestamp); err != nil {
		return nil, err
	}

	c := d[40:74]
	if err := decodeAt(c, 0, 2, &o.Constants.FilterPeriod); err != nil {
		return nil, err
	}
	if err := decodeAt(c, 2, 4, &o.Constants.DecayPeriod); err != nil {
		return nil, err
	}
	if err := decodeAt(c, 4, 6, &o.Constants.ReductionFactor); err != nil {
		return nil, err
	}
	if err := decodeAt(c, 6, 10, &o.Constants.AdaptiveFeeControlFactor); err != nil {
		return nil, err
	}
	if err := decodeAt(c, 10, 14, &o.Constants.MaxVolatilityAccumulator); err != nil {
		return nil, err
	}
	if err := decodeAt(c, 14, 16, &o.Constants.TickGroupSize); err != nil {
		return nil, err
	}
	if err := decodeAt(c, 16, 18, &o.Constants.MajorSwapThresholdTicks); err != nil {
		return nil, err
	}
	// bytes 18:34 of c are reserved.

	v := d[74:118]
	if err := decodeAt(v, 0, 8, &o.Variables.LastReferenceUpdateTimestamp); err != nil {
		return nil, err
	}
	if err := decodeAt(v, 8, 16, &o.Variables.LastMajorSwapTimestamp); err != nil {
		return nil, err
	}
	if err := decodeAt(v, 16, 20, &o.Variables.VolatilityReference); err != nil {
		return nil, err
	}
	if err := decodeAt(v, 20, 24, &o.Variables.TickGroupIndexReference); err != nil {
		return nil, err
	}
	if err := decodeAt(v, 24, 28, &o.Variables.VolatilityAccumulator); err != nil {
		return nil, err
	}
	// bytes 28:44 of v are reserved.

	return o, nil
}

// EncodeOracle renders an Oracle record to its wire format.
func EncodeOracle(o *record.Oracle, discriminator [8]byte) ([]byte, error) {
	buf := make([]byte, 0, OracleWireSize)
	enc := bin.NewBinEncoder(&sliceWriter{buf: &buf})

	fields := []interface{}{
		discriminator,
		o.Pool,
		o.TradeEnableTimestamp,
		o.Constants.FilterPeriod,
		o.Constants.DecayPeriod,
		o.Constants.ReductionFactor,
		o.Constants.AdaptiveFeeControlFactor,
		o.Constants.MaxVolatilityAccumulator,
		o.Constants.TickGroupSize,
		o.Constants.MajorSwapThresholdTicks,
	}
	for _, f := range fields {
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteBytes(make([]byte, 16), false); err != nil { // constants.reserved
		return nil, err
	}

	tailFields := []interface{}{
		o.Variables.LastReferenceUpdateTimestamp,
		o.Variables.LastMajorSwapTimestamp,
		o.Variables.VolatilityReference,
		o.Variables.TickGroupIndexReference,
		o.Variables.VolatilityAccumulator,
	}
	for _, f := range tailFields {
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteBytes(make([]byte, 16), false); err != nil { // variables.reserved
		return nil, err
	}
	if err := enc.WriteBytes(make([]byte, 128), false); err != nil { // record.reserved
		return nil, err
	}
	return buf, nil
}
