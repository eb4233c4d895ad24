package collector

import (
	"sort"
	"strconv"

	"TrendScout/internal/model"
)

// NormalizeCandles sorts bars ascending by time, collapses duplicate
// timestamps (the later-seen bar wins) and drops bars without a positive
// close. Every fetcher runs its output through this before returning.
func NormalizeCandles(bars []model.Candle) []model.Candle {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := make([]model.Candle, 0, len(bars))
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
