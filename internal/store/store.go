package store

import "TrendScout/internal/model"

// CandleStore caches raw daily bars so a scan pass can survive provider
// hiccups. It holds market data only; evaluation output is never persisted.
type CandleStore interface {
	SaveCandles(symbol string, bars []model.Candle) error
	RecentCandles(symbol string, limit int) ([]model.Candle, error)
	Close() error
}

// NoopStore is used when no SQLite path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveCandles(string, []model.Candle) error          { return nil }
func (n *NoopStore) RecentCandles(string, int) ([]model.Candle, error) { return nil, nil }
func (n *NoopStore) Close() error                                      { return nil }
