package strategy

import "math"

// stopLevel picks the stop from the first usable source: two ATRs below the
// close, then 5% under the EMA, then 10% under the close.
func stopLevel(lastClose, atrLast, emaLast float64) float64 {
	if finitePositive(atrLast) {
		return lastClose - 2*atrLast
	}
	if finitePositive(emaLast) {
		return emaLast * 0.95
	}
	return lastClose * 0.90
}

// takeLevel mirrors stopLevel for the profit target: three ATRs above the
// close, else a flat 15%.
func takeLevel(lastClose, atrLast float64) float64 {
	if finitePositive(atrLast) {
		return lastClose + 3*atrLast
	}
	return lastClose * 1.15
}

// score is the ranking key: EMA deviation plus excess volume ratio, no
// weighting. It is a heuristic, not a probability; its exact shape decides
// which symbols make the top N, so keep it as is.
func score(lastClose, emaLast, volRatio float64) float64 {
	if !finitePositive(emaLast) {
		return 0
	}
	s := lastClose/emaLast - 1
	if finite(volRatio) {
		s += volRatio - 1
	}
	return s
}

// pullbackBuy gates the pullback-continuation rule: price near and above
// the EMA with a majority of up days in the recent window.
func pullbackBuy(closes []float64, lastClose, emaLast float64, p Params) bool {
	dist := math.Inf(1)
	if finitePositive(emaLast) {
		dist = math.Abs(lastClose-emaLast) / emaLast
	}
	nearEMA := dist <= p.PullbackBandPct
	aboveEMA := finite(emaLast) && lastClose > emaLast

	hasUpDays := true
	if p.RequireUpDay {
		need := (p.PullbackLookback + 1) / 2 // ceil(lookback/2)
		hasUpDays = upDays(closes, p.PullbackLookback) >= need
	}
	return nearEMA && aboveEMA && hasUpDays
}

// upDays counts up-closes over the last n bars, clamped to available history.
func upDays(closes []float64, n int) int {
	start := len(closes) - n
	if start < 1 {
		start = 1
	}
	count := 0
	for i := start; i < len(closes); i++ {
		if closes[i] > closes[i-1] {
			count++
		}
	}
	return count
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finitePositive(v float64) bool { return finite(v) && v > 0 }
