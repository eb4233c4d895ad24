package model

import "time"

// Candle represents a single daily OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Ticker is one row from a provider's ticker listing. Providers disagree on
// field names for the same economic quantities, so the raw string fields are
// kept next to the symbol and parsed on demand.
type Ticker struct {
	Symbol string
	Fields map[string]string
}
