package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TrendScout/internal/collector"
	"TrendScout/internal/config"
	"TrendScout/internal/model"
	"TrendScout/internal/notifier"
	"TrendScout/internal/scheduler"
	"TrendScout/internal/screener"
	"TrendScout/internal/store"
	"TrendScout/internal/strategy"
)

func main() {
	once := flag.Bool("once", false, "run a single scan pass and exit")
	flag.Parse()

	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "okx":
		fetcher = collector.NewOKXFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	default:
		fetcher = collector.NewBybitFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}

	var candleStore store.CandleStore = store.NewNoopStore()
	if cfg.Database.SQLitePath != "" {
		if s, err := store.NewSQLiteStore(cfg.Database.SQLitePath); err != nil {
			log.Warn().Err(err).Msg("candle store unavailable, running without cache")
		} else {
			candleStore = s
			defer s.Close()
		}
	}

	params := strategy.Params{
		Mode:             model.StrategyMode(cfg.Strategy.Mode),
		EMAPeriod:        cfg.Strategy.EMAPeriod,
		VolumeSMAPeriod:  cfg.Strategy.VolumeSMAPeriod,
		VolumeMultiplier: cfg.Strategy.VolumeMultiplier,
		BreakoutLookback: cfg.Strategy.BreakoutLookback,
		UseBreakoutGate:  cfg.Strategy.UseBreakoutGate,
		PullbackLookback: cfg.Strategy.PullbackLookback,
		PullbackBandPct:  cfg.Strategy.PullbackBandPct,
		RequireUpDay:     cfg.Strategy.RequireUpDay,
	}
	opts := screener.Options{
		UniverseSize: cfg.Universe.Size,
		QuoteSuffix:  cfg.Universe.QuoteSuffix,
		Concurrency:  cfg.Scan.Concurrency,
		CandleLimit:  cfg.Scan.CandleLimit,
		TopN:         cfg.Strategy.TopN,
	}

	sc := screener.New(fetcher, candleStore, params, opts)
	tg := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	sched := scheduler.New(sc, tg, cfg.Strategy.UseBreakoutGate)

	if *once {
		if err := sched.RunScanNow(context.Background()); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := sched.Register(cfg.Scan.Cron); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Scan.Cron).Msg("register scan job")
	}
	sched.Start()

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	go tg.StartPolling(pollCtx, sched.HandleCommand)

	if os.Getenv("RUN_ON_START") == "true" {
		go func() {
			if err := sched.RunScanNow(context.Background()); err != nil {
				log.Error().Err(err).Msg("startup scan failed")
			}
		}()
	}

	log.Info().
		Str("provider", fetcher.Name()).
		Str("mode", cfg.Strategy.Mode).
		Str("cron", cfg.Scan.Cron).
		Msg("TrendScout started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	cancelPoll()
	sched.Stop()
}
