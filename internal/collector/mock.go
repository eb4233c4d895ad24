package collector

import (
	"context"
	"time"

	"TrendScout/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	TickerList []model.Ticker
	Candles    map[string][]model.Candle
	Errs       map[string]error
	BasePrice  float64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchTickers(_ context.Context) ([]model.Ticker, error) {
	return m.TickerList, nil
}

func (m *MockFetcher) FetchDailyCandles(_ context.Context, symbol string, limit int) ([]model.Candle, error) {
	if err := m.Errs[symbol]; err != nil {
		return nil, err
	}
	if bars, ok := m.Candles[symbol]; ok {
		return bars, nil
	}
	return GenerateMockBars(m.BasePrice, limit), nil
}

// GenerateMockBars produces a mildly trending daily series around basePrice.
func GenerateMockBars(basePrice float64, count int) []model.Candle {
	bars := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Candle{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
