package calculator

// EMA computes the exponential moving average of values with smoothing
// factor k = 2/(period+1). The first output is seeded with the first input
// rather than a warm-up average, so early values are biased toward it;
// callers should supply roughly 3-5x the period in history for the bias to
// decay. Output has the same length as the input.
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	k := 2.0 / (float64(period) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}
