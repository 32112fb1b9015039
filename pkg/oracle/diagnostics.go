package oracle

import "gonum.org/v1/gonum/stat"

// VolatilitySample is one observed (tick_group_index, volatility_accumulator)
// pair, collected purely for monitoring dashboards — never read back into
// the fee-rate computation itself.
type VolatilitySample struct {
	TickGroupIndex        int32
	VolatilityAccumulator uint32
}

// AccumulatorDispersion reports the sample (n-1) standard deviation of a
// window of recent volatility-accumulator samples, a display-only signal
// operators use to tune filter_period/decay_period; it has no bearing on
// TotalFeeRate.
func AccumulatorDispersion(samples []VolatilitySample) float64 {
	if len(samples) == 0 {
		return 0
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(s.VolatilityAccumulator)
	}
	return stat.StdDev(values, nil)
}
