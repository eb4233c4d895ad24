package collector

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"TrendScout/internal/model"
)

// turnoverRule extracts one candidate turnover figure from a raw ticker.
type turnoverRule struct {
	name    string
	extract func(t model.Ticker) float64
}

// Rules are tried in priority order; the first finite positive value wins.
// The last entry is the fallback formula when no provider field carries the
// traded value directly.
var turnoverRules = []turnoverRule{
	{"turnover24h", fieldValue("turnover24h")}, // bybit v5
	{"volCcy24h", fieldValue("volCcy24h")},     // okx spot quote volume
	{"quoteVolume", fieldValue("quoteVolume")}, // binance-compatible APIs
	{"value24h", fieldValue("value24h")},
	{"volume*price", volumeTimesPrice},
}

func fieldValue(key string) func(model.Ticker) float64 {
	return func(t model.Ticker) float64 { return parseField(t, key) }
}

func parseField(t model.Ticker, key string) float64 {
	raw, ok := t.Fields[key]
	if !ok || raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func firstField(t model.Ticker, keys ...string) float64 {
	for _, k := range keys {
		if v := parseField(t, k); !math.IsNaN(v) {
			return v
		}
	}
	return math.NaN()
}

// volumeTimesPrice approximates turnover as base volume times last price.
func volumeTimesPrice(t model.Ticker) float64 {
	vol := firstField(t, "volume24h", "vol24h", "volume")
	price := firstField(t, "lastPrice", "last", "lastPx")
	return vol * price
}

// TurnoverScore ranks a ticker by traded value. Zero means no rule produced
// a usable figure and the ticker should not enter the universe.
func TurnoverScore(t model.Ticker) float64 {
	for _, r := range turnoverRules {
		v := r.extract(t)
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 {
			return v
		}
	}
	return 0
}

// SelectUniverse picks the top `size` symbols by turnover, optionally
// restricted to a quote suffix like "USDT". The returned order is the
// ranking order and downstream stages preserve it.
func SelectUniverse(tickers []model.Ticker, quoteSuffix string, size int) []string {
	type scored struct {
		symbol string
		value  float64
	}
	ranked := make([]scored, 0, len(tickers))
	for _, t := range tickers {
		if quoteSuffix != "" && !strings.HasSuffix(t.Symbol, quoteSuffix) {
			continue
		}
		if v := TurnoverScore(t); v > 0 {
			ranked = append(ranked, scored{t.Symbol, v})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].value > ranked[j].value })
	if size > 0 && len(ranked) > size {
		ranked = ranked[:size]
	}
	symbols := make([]string, len(ranked))
	for i, r := range ranked {
		symbols[i] = r.symbol
	}
	return symbols
}
