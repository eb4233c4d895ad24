package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"TrendScout/internal/model"
)

// BybitFetcher implements Fetcher using the Bybit v5 public market API.
type BybitFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBybitFetcher creates a fetcher with optional proxy support.
func NewBybitFetcher(baseURL, apiKey, proxyURL string) *BybitFetcher {
	if baseURL == "" {
		baseURL = "https://api.bybit.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BybitFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *BybitFetcher) Name() string { return "bybit" }

// bybitResponse is the common v5 envelope.
type bybitResponse struct {
	RetCode int             `json:"retCode"`
	RetMsg  string          `json:"retMsg"`
	Result  json.RawMessage `json:"result"`
}

func (f *BybitFetcher) FetchTickers(ctx context.Context) ([]model.Ticker, error) {
	raw, err := f.get(ctx, "/v5/market/tickers?category=spot")
	if err != nil {
		return nil, err
	}
	// every field in a ticker row is a string; keep them raw because the
	// turnover extractor decides which ones matter
	var result struct {
		List []map[string]string `json:"list"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode tickers: %w", err)
	}
	tickers := make([]model.Ticker, 0, len(result.List))
	for _, fields := range result.List {
		sym := fields["symbol"]
		if sym == "" {
			continue
		}
		tickers = append(tickers, model.Ticker{Symbol: sym, Fields: fields})
	}
	return tickers, nil
}

func (f *BybitFetcher) FetchDailyCandles(ctx context.Context, symbol string, limit int) ([]model.Candle, error) {
	path := fmt.Sprintf("/v5/market/kline?category=spot&symbol=%s&interval=D&limit=%d",
		url.QueryEscape(symbol), limit)
	raw, err := f.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var result struct {
		List [][]string `json:"list"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode kline: %w", err)
	}
	bars := make([]model.Candle, 0, len(result.List))
	for _, row := range result.List {
		// [startTime, open, high, low, close, volume, turnover], newest first
		if len(row) < 6 {
			continue
		}
		ms, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		bars = append(bars, model.Candle{
			Time:   time.UnixMilli(ms),
			Open:   parseFloat(row[1]),
			High:   parseFloat(row[2]),
			Low:    parseFloat(row[3]),
			Close:  parseFloat(row[4]),
			Volume: parseFloat(row[5]),
		})
	}
	return NormalizeCandles(bars), nil
}

func (f *BybitFetcher) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("X-BAPI-API-KEY", f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bybit fetch: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bybit read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bybit: status %d, body: %s", resp.StatusCode, string(body))
	}
	var envelope bybitResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("bybit decode: %w", err)
	}
	if envelope.RetCode != 0 {
		return nil, fmt.Errorf("bybit api error %d: %s", envelope.RetCode, envelope.RetMsg)
	}
	return envelope.Result, nil
}
