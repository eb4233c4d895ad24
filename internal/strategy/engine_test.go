package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScout/internal/model"
)

func makeBars(closes, volumes []float64) []model.Candle {
	bars := make([]model.Candle, len(closes))
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = model.Candle{
			Time:   day.AddDate(0, 0, i),
			Open:   open,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: volumes[i],
		}
	}
	return bars
}

func rampCloses(start float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return closes
}

func flatVolumes(n int, spikeLast float64) []float64 {
	volumes := make([]float64, n)
	for i := range volumes {
		volumes[i] = 1000
	}
	if spikeLast > 0 {
		volumes[n-1] = spikeLast
	}
	return volumes
}

func trendVolumeParams() Params {
	return Params{
		Mode:             model.ModeTrendVolume,
		EMAPeriod:        20,
		VolumeSMAPeriod:  20,
		VolumeMultiplier: 1.10,
		BreakoutLookback: 20,
	}
}

func TestEvaluate_UnknownModeIsError(t *testing.T) {
	p := trendVolumeParams()
	p.Mode = "C"
	res, err := Evaluate("BTCUSDT", nil, p)
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestEvaluate_InsufficientHistoryIsAbsence(t *testing.T) {
	p := trendVolumeParams()
	require.Equal(t, 25, p.MinBars())
	bars := makeBars(rampCloses(100, 24), flatVolumes(24, 0))
	res, err := Evaluate("BTCUSDT", bars, p)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestEvaluate_TrendVolumeBuy(t *testing.T) {
	// 30 closes rising 100 -> 129, last volume doubled
	bars := makeBars(rampCloses(100, 30), flatVolumes(30, 2000))
	res, err := Evaluate("BTCUSDT", bars, trendVolumeParams())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.CondTrend)
	assert.True(t, res.CondVolume)
	assert.True(t, res.CondBreakout, "gate disabled means vacuously true")
	assert.True(t, res.IsBuy)
	// vol SMA over last 20 bars: (19*1000 + 2000) / 20 = 1050
	assert.InDelta(t, 2000.0/1050.0, res.VolRatio, 1e-9)
	assert.Greater(t, res.Score, 0.0)
	assert.Less(t, res.Stop, res.LastClose)
	assert.Greater(t, res.Take, res.LastClose)
	// ATR chain active: take distance is 1.5x the stop distance
	assert.InDelta(t, 1.5*(res.LastClose-res.Stop), res.Take-res.LastClose, 1e-9)
}

func TestEvaluate_FlatMarketNoBuy(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	res, err := Evaluate("ETHUSDT", makeBars(closes, flatVolumes(30, 0)), trendVolumeParams())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.False(t, res.CondTrend, "close equal to EMA is not above it")
	assert.False(t, res.CondVolume)
	assert.False(t, res.IsBuy)
	assert.InDelta(t, 0.0, res.Score, 1e-9)
}

func TestEvaluate_BreakoutGate(t *testing.T) {
	p := trendVolumeParams()
	p.UseBreakoutGate = true

	// last close clears every prior high in the lookback window
	closes := append(rampCloses(100, 29), 140)
	res, err := Evaluate("SOLUSDT", makeBars(closes, flatVolumes(30, 2000)), p)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.CondBreakout)
	assert.True(t, res.IsBuy)
	assert.Greater(t, res.BreakoutRatio, 0.0)

	// trend and volume pass but the close stays under the recent high
	closes = append(rampCloses(100, 29), 125)
	res, err = Evaluate("SOLUSDT", makeBars(closes, flatVolumes(30, 2000)), p)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.CondTrend)
	assert.True(t, res.CondVolume)
	assert.False(t, res.CondBreakout)
	assert.False(t, res.IsBuy)
	assert.Less(t, res.BreakoutRatio, 0.0)
}

func pullbackParams() Params {
	p := trendVolumeParams()
	p.Mode = model.ModePullback
	p.PullbackLookback = 5
	p.PullbackBandPct = 0.02
	p.RequireUpDay = true
	return p
}

// 25 flat closes, then five small up days ending just above the EMA.
func pullbackCloses() []float64 {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	for i := 0; i < 5; i++ {
		closes[25+i] = 100 + 0.1*float64(i+1)
	}
	return closes
}

func TestEvaluate_PullbackBuyTracksVolume(t *testing.T) {
	res, err := Evaluate("XRPUSDT", makeBars(pullbackCloses(), flatVolumes(30, 2000)), pullbackParams())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsBuy)
	assert.True(t, res.CondBreakout, "mode B reports the breakout gate as passed")

	// same fixture without the volume spike fails on the shared volume gate
	res, err = Evaluate("XRPUSDT", makeBars(pullbackCloses(), flatVolumes(30, 0)), pullbackParams())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.CondVolume)
	assert.False(t, res.IsBuy)
}

func TestEvaluate_PullbackRejectsFarFromEMA(t *testing.T) {
	// a strong ramp sits far above its EMA, outside the pullback band
	res, err := Evaluate("ADAUSDT", makeBars(rampCloses(100, 30), flatVolumes(30, 2000)), pullbackParams())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.IsBuy)
}

func TestEvaluate_RiskLevelFallbacks(t *testing.T) {
	// zero-range bars produce a zero ATR, pushing stop/take to the fallbacks
	bars := make([]model.Candle, 30)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.Candle{Time: day.AddDate(0, 0, i), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000}
	}
	res, err := Evaluate("DOGEUSDT", bars, trendVolumeParams())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 95.0, res.Stop, 1e-9)  // EMA * 0.95
	assert.InDelta(t, 115.0, res.Take, 1e-9) // close * 1.15
}

func TestEvaluate_ScoreFormula(t *testing.T) {
	bars := makeBars(rampCloses(100, 30), flatVolumes(30, 2000))
	res, err := Evaluate("BTCUSDT", bars, trendVolumeParams())
	require.NoError(t, err)
	require.NotNil(t, res)
	want := (res.LastClose/res.EMALast - 1) + (res.VolRatio - 1)
	assert.InDelta(t, want, res.Score, 1e-9)
}

func TestUpDays_ClampsToHistory(t *testing.T) {
	assert.Equal(t, 2, upDays([]float64{1, 2, 3}, 10))
	assert.Equal(t, 1, upDays([]float64{1, 2, 1, 3}, 2))
	assert.Equal(t, 0, upDays([]float64{5}, 3))
}
