package strategy

import (
	"fmt"
	"math"

	"TrendScout/internal/calculator"
	"TrendScout/internal/model"
)

// ATR period stays fixed regardless of the configurable EMA/volume periods.
const atrPeriod = 14

// warmupExtra pads the longest configured lookback so the EMA seed bias has
// started to decay before a symbol is evaluated.
const warmupExtra = 5

// Params carries the tunables for one evaluation pass.
type Params struct {
	Mode             model.StrategyMode
	EMAPeriod        int
	VolumeSMAPeriod  int
	VolumeMultiplier float64
	BreakoutLookback int
	UseBreakoutGate  bool
	PullbackLookback int
	PullbackBandPct  float64
	RequireUpDay     bool
}

// MinBars returns the minimum history needed before Evaluate produces a result.
func (p Params) MinBars() int {
	n := p.EMAPeriod
	if p.VolumeSMAPeriod > n {
		n = p.VolumeSMAPeriod
	}
	if p.BreakoutLookback > n {
		n = p.BreakoutLookback
	}
	return n + warmupExtra
}

// Evaluate applies the configured buy rule to one symbol's daily bars.
// Too little history returns (nil, nil): an absence, not an error. An
// unrecognized mode is a configuration error and is reported before any
// bars are touched.
func Evaluate(symbol string, bars []model.Candle, p Params) (*model.AnalysisResult, error) {
	switch p.Mode {
	case model.ModeTrendVolume, model.ModePullback:
	default:
		return nil, fmt.Errorf("unknown strategy mode %q", p.Mode)
	}
	if len(bars) < p.MinBars() {
		return nil, nil
	}

	last := len(bars) - 1
	closes := calculator.Closes(bars)
	volumes := calculator.Volumes(bars)
	lastClose := closes[last]
	lastVolume := volumes[last]

	emaLast := lastOf(calculator.EMA(closes, p.EMAPeriod))
	volSMALast := lastOf(calculator.SMA(volumes, p.VolumeSMAPeriod))
	atrLast := lastOf(calculator.ATR(bars, atrPeriod))

	// The reference high excludes the current bar. When the window is empty
	// the close stands in for it, which neutralizes the breakout test.
	recentHigh := calculator.HighestHigh(bars, last-p.BreakoutLookback+1, last)
	if math.IsNaN(recentHigh) {
		recentHigh = lastClose
	}
	breakoutRatio := 0.0
	if recentHigh > 0 {
		breakoutRatio = lastClose/recentHigh - 1
	}
	isBreakout := lastClose > recentHigh

	condTrend := finite(emaLast) && lastClose > emaLast
	condVolume := finitePositive(volSMALast) && lastVolume > volSMALast*p.VolumeMultiplier
	volRatio := math.NaN()
	if finitePositive(volSMALast) {
		volRatio = lastVolume / volSMALast
	}

	res := &model.AnalysisResult{
		Symbol:        symbol,
		LastClose:     lastClose,
		EMALast:       emaLast,
		VolRatio:      volRatio,
		BreakoutRatio: breakoutRatio,
		Stop:          stopLevel(lastClose, atrLast, emaLast),
		Take:          takeLevel(lastClose, atrLast),
		CondTrend:     condTrend,
		CondVolume:    condVolume,
		CondBreakout:  true,
		Score:         score(lastClose, emaLast, volRatio),
	}

	switch p.Mode {
	case model.ModeTrendVolume:
		if p.UseBreakoutGate {
			res.CondBreakout = isBreakout
		}
		res.IsBuy = condTrend && condVolume && res.CondBreakout
	case model.ModePullback:
		res.IsBuy = pullbackBuy(closes, lastClose, emaLast, p) && condVolume
	}
	return res, nil
}

func lastOf(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
