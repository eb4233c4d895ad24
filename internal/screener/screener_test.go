package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScout/internal/collector"
	"TrendScout/internal/model"
	"TrendScout/internal/store"
	"TrendScout/internal/strategy"
)

func makeBars(closes, volumes []float64) []model.Candle {
	bars := make([]model.Candle, len(closes))
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.Candle{Time: day.AddDate(0, 0, i), Open: c, High: c * 1.01, Low: c * 0.99, Close: c, Volume: volumes[i]}
	}
	return bars
}

func risingBars(n int) []model.Candle {
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
		volumes[i] = 1000
	}
	volumes[n-1] = 2000
	return makeBars(closes, volumes)
}

func flatBars(n int) []model.Candle {
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1000
	}
	return makeBars(closes, volumes)
}

func testParams() strategy.Params {
	return strategy.Params{
		Mode:             model.ModeTrendVolume,
		EMAPeriod:        20,
		VolumeSMAPeriod:  20,
		VolumeMultiplier: 1.10,
		BreakoutLookback: 20,
	}
}

func usdtTicker(symbol, turnover string) model.Ticker {
	return model.Ticker{Symbol: symbol, Fields: map[string]string{"turnover24h": turnover}}
}

func TestScan_RanksAndIsolatesFailures(t *testing.T) {
	fetcher := &collector.MockFetcher{
		TickerList: []model.Ticker{
			usdtTicker("AAAUSDT", "300"),
			usdtTicker("BBBUSDT", "200"),
			usdtTicker("CCCUSDT", "100"),
			usdtTicker("DDDUSDT", "50"),
		},
		Candles: map[string][]model.Candle{
			"AAAUSDT": risingBars(30),
			"BBBUSDT": flatBars(30),
			"CCCUSDT": flatBars(10), // below the history threshold
		},
		Errs: map[string]error{"DDDUSDT": errors.New("boom")},
	}

	sc := New(fetcher, store.NewNoopStore(), testParams(), Options{
		UniverseSize: 10,
		QuoteSuffix:  "USDT",
		Concurrency:  4,
		CandleLimit:  60,
		TopN:         5,
	})

	report, err := sc.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Universe)
	assert.Equal(t, 1, report.Skipped, "failed symbol is skipped, not fatal")
	// CCCUSDT is an absence (thin history), DDDUSDT a failure
	require.Len(t, report.Results, 2)
	assert.Equal(t, "AAAUSDT", report.Results[0].Symbol, "universe order preserved")
	assert.Equal(t, "BBBUSDT", report.Results[1].Symbol)

	require.Len(t, report.Top, 1)
	assert.Equal(t, "AAAUSDT", report.Top[0].Symbol)
	assert.Equal(t, 2, report.Stats.Total)
}

func TestScan_UnknownModeAbortsPass(t *testing.T) {
	fetcher := &collector.MockFetcher{
		TickerList: []model.Ticker{usdtTicker("AAAUSDT", "300")},
		Candles:    map[string][]model.Candle{"AAAUSDT": risingBars(30)},
	}
	p := testParams()
	p.Mode = "X"
	sc := New(fetcher, store.NewNoopStore(), p, Options{UniverseSize: 10, Concurrency: 2, CandleLimit: 60, TopN: 5})

	_, err := sc.Scan(context.Background())
	require.Error(t, err)
}

// fakeStore canned-serves one symbol and records writes.
type fakeStore struct {
	cached map[string][]model.Candle
	saved  map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{cached: map[string][]model.Candle{}, saved: map[string]int{}}
}

func (f *fakeStore) SaveCandles(symbol string, bars []model.Candle) error {
	f.saved[symbol] += len(bars)
	return nil
}

func (f *fakeStore) RecentCandles(symbol string, _ int) ([]model.Candle, error) {
	return f.cached[symbol], nil
}

func (f *fakeStore) Close() error { return nil }

func TestScan_CacheFallbackAndWriteThrough(t *testing.T) {
	fetcher := &collector.MockFetcher{
		TickerList: []model.Ticker{
			usdtTicker("AAAUSDT", "300"),
			usdtTicker("BBBUSDT", "200"),
		},
		Candles: map[string][]model.Candle{"AAAUSDT": risingBars(30)},
		Errs:    map[string]error{"BBBUSDT": errors.New("timeout")},
	}
	st := newFakeStore()
	st.cached["BBBUSDT"] = flatBars(30)

	sc := New(fetcher, st, testParams(), Options{UniverseSize: 10, Concurrency: 2, CandleLimit: 60, TopN: 5})
	report, err := sc.Scan(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Skipped, "cached bars rescue the failed fetch")
	require.Len(t, report.Results, 2)
	assert.Equal(t, "BBBUSDT", report.Results[1].Symbol)
	assert.Equal(t, 30, st.saved["AAAUSDT"], "fresh bars written through")
	assert.Zero(t, st.saved["BBBUSDT"])
}
