package calculator

import (
	"math"

	"TrendScout/internal/model"
)

// TrueRange returns the largest of the bar's own range and its gaps up or
// down from the previous close.
func TrueRange(cur, prev model.Candle) float64 {
	hl := cur.High - cur.Low
	hc := math.Abs(cur.High - prev.Close)
	lc := math.Abs(cur.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}

// ATR smooths the true-range series with an EMA of the given period. The
// first bar has no predecessor, so a zero is prepended to keep the output
// aligned index-for-index with the input. Fewer than two candles yield an
// empty series.
func ATR(bars []model.Candle, period int) []float64 {
	if len(bars) < 2 {
		return []float64{}
	}
	trs := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		trs[i] = TrueRange(bars[i], bars[i-1])
	}
	return EMA(trs, period)
}
