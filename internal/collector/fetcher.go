package collector

import (
	"context"

	"TrendScout/internal/model"
)

// Fetcher defines the interface for retrieving market data from a provider.
type Fetcher interface {
	FetchTickers(ctx context.Context) ([]model.Ticker, error)
	FetchDailyCandles(ctx context.Context, symbol string, limit int) ([]model.Candle, error)
	Name() string
}
