package screener

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"TrendScout/internal/collector"
	"TrendScout/internal/model"
	"TrendScout/internal/store"
	"TrendScout/internal/strategy"
)

// Options tunes one scan pass.
type Options struct {
	UniverseSize int
	QuoteSuffix  string
	Concurrency  int
	CandleLimit  int
	TopN         int
}

// Screener runs a full evaluation pass over the traded universe.
type Screener struct {
	fetcher collector.Fetcher
	store   store.CandleStore
	params  strategy.Params
	opts    Options
}

func New(fetcher collector.Fetcher, st store.CandleStore, params strategy.Params, opts Options) *Screener {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Screener{fetcher: fetcher, store: st, params: params, opts: opts}
}

// Scan selects the universe by turnover and evaluates every symbol in it.
// Per-symbol retrieval failures are logged and counted, never fatal to the
// pass; only a ticker-listing failure or a configuration error aborts it.
func (s *Screener) Scan(ctx context.Context) (*model.ScanReport, error) {
	started := time.Now()

	tickers, err := s.fetcher.FetchTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}
	symbols := collector.SelectUniverse(tickers, s.opts.QuoteSuffix, s.opts.UniverseSize)
	log.Info().Str("source", s.fetcher.Name()).Int("universe", len(symbols)).Msg("scan started")

	// One slot per universe position: completion timing cannot influence
	// result order, so rankings stay deterministic under concurrency.
	slots := make([]*model.AnalysisResult, len(symbols))
	var skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			bars, err := s.candles(gctx, sym)
			if err != nil {
				log.Warn().Err(err).Str("symbol", sym).Msg("symbol skipped")
				skipped.Add(1)
				return nil
			}
			res, err := strategy.Evaluate(sym, bars, s.params)
			if err != nil {
				return err
			}
			slots[i] = res // nil when history is too short
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]model.AnalysisResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	report := &model.ScanReport{
		StartedAt: started,
		Duration:  time.Since(started),
		Universe:  len(symbols),
		Skipped:   int(skipped.Load()),
		Results:   results,
		Top:       TopSignals(results, s.opts.TopN),
		Stats:     Stats(results),
	}
	log.Info().
		Int("evaluated", len(results)).
		Int("skipped", report.Skipped).
		Int("buys", len(report.Top)).
		Dur("took", report.Duration).
		Msg("scan finished")
	return report, nil
}

// candles fetches daily bars for one symbol, serving cached bars when the
// provider call fails and writing fresh ones through best-effort.
func (s *Screener) candles(ctx context.Context, symbol string) ([]model.Candle, error) {
	bars, err := s.fetcher.FetchDailyCandles(ctx, symbol, s.opts.CandleLimit)
	if err != nil {
		cached, cerr := s.store.RecentCandles(symbol, s.opts.CandleLimit)
		if cerr == nil && len(cached) >= s.params.MinBars() {
			log.Warn().Err(err).Str("symbol", symbol).Msg("provider fetch failed, serving cached bars")
			return cached, nil
		}
		return nil, err
	}
	if serr := s.store.SaveCandles(symbol, bars); serr != nil {
		log.Warn().Err(serr).Str("symbol", symbol).Msg("candle cache write failed")
	}
	return bars, nil
}
