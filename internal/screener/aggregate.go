package screener

import (
	"sort"

	"TrendScout/internal/model"
)

// TopSignals filters results down to buys, orders them by score descending
// and truncates to topN. The sort is stable so equal scores keep their
// input order.
func TopSignals(results []model.AnalysisResult, topN int) []model.AnalysisResult {
	buys := make([]model.AnalysisResult, 0, len(results))
	for _, r := range results {
		if r.IsBuy {
			buys = append(buys, r)
		}
	}
	sort.SliceStable(buys, func(i, j int) bool { return buys[i].Score > buys[j].Score })
	if topN >= 0 && len(buys) > topN {
		buys = buys[:topN]
	}
	return buys
}

// Stats tallies per-condition pass counts over the full, unfiltered result
// set. Diagnostic only; selection never reads it.
func Stats(results []model.AnalysisResult) model.PassStats {
	s := model.PassStats{Total: len(results)}
	for _, r := range results {
		if r.CondTrend {
			s.Trend++
		}
		if r.CondVolume {
			s.Volume++
		}
		if r.CondBreakout {
			s.Breakout++
		}
	}
	return s
}
