package calculator

import (
	"math"

	"TrendScout/internal/model"
)

// SMA computes a simple moving average over a trailing window using a
// running sum. Outputs before index period-1 are NaN. A NaN input is a
// hole: it is never added to the running sum, and every window containing
// it yields NaN.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	holes := 0 // NaN inputs inside the current window
	for i, v := range values {
		if math.IsNaN(v) {
			holes++
		} else {
			sum += v
		}
		if i >= period {
			if old := values[i-period]; math.IsNaN(old) {
				holes--
			} else {
				sum -= old
			}
		}
		if i < period-1 || holes > 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// Closes extracts the close series from bars.
func Closes(bars []model.Candle) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volume series from bars.
func Volumes(bars []model.Candle) []float64 {
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return volumes
}
