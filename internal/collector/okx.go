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

// OKXFetcher implements Fetcher using the OKX v5 public market API.
type OKXFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewOKXFetcher creates a fetcher with optional proxy support.
func NewOKXFetcher(baseURL, proxyURL string) *OKXFetcher {
	if baseURL == "" {
		baseURL = "https://www.okx.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OKXFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *OKXFetcher) Name() string { return "okx" }

// okxResponse is the common v5 envelope; code "0" is success.
type okxResponse struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (f *OKXFetcher) FetchTickers(ctx context.Context) ([]model.Ticker, error) {
	raw, err := f.get(ctx, "/api/v5/market/tickers?instType=SPOT")
	if err != nil {
		return nil, err
	}
	var rows []map[string]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode tickers: %w", err)
	}
	tickers := make([]model.Ticker, 0, len(rows))
	for _, fields := range rows {
		sym := fields["instId"] // e.g. "BTC-USDT"
		if sym == "" {
			continue
		}
		tickers = append(tickers, model.Ticker{Symbol: sym, Fields: fields})
	}
	return tickers, nil
}

func (f *OKXFetcher) FetchDailyCandles(ctx context.Context, symbol string, limit int) ([]model.Candle, error) {
	path := fmt.Sprintf("/api/v5/market/candles?instId=%s&bar=1D&limit=%d",
		url.QueryEscape(symbol), limit)
	raw, err := f.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}
	bars := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		// [ts, open, high, low, close, vol, volCcy, ...], newest first
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

func (f *OKXFetcher) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("okx fetch: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("okx read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("okx: status %d, body: %s", resp.StatusCode, string(body))
	}
	var envelope okxResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("okx decode: %w", err)
	}
	if envelope.Code != "0" {
		return nil, fmt.Errorf("okx api error %s: %s", envelope.Code, envelope.Msg)
	}
	return envelope.Data, nil
}
