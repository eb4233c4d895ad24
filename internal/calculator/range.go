package calculator

import (
	"math"

	"TrendScout/internal/model"
)

// HighestHigh scans bars[start:end] (end exclusive, clamped to the slice)
// and returns the maximum high. An empty range returns NaN.
func HighestHigh(bars []model.Candle, start, end int) float64 {
	if start < 0 {
		start = 0
	}
	if end > len(bars) {
		end = len(bars)
	}
	if start >= end {
		return math.NaN()
	}
	high := math.Inf(-1)
	for i := start; i < end; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
	}
	return high
}
