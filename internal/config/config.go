package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"TrendScout/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider string `yaml:"provider"` // bybit or okx
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Universe struct {
		Size        int    `yaml:"size"`
		QuoteSuffix string `yaml:"quote_suffix"`
	} `yaml:"universe"`
	Strategy struct {
		Mode             string  `yaml:"mode"` // A: trend+volume, B: pullback
		EMAPeriod        int     `yaml:"ema_period"`
		VolumeSMAPeriod  int     `yaml:"volume_sma_period"`
		VolumeMultiplier float64 `yaml:"volume_multiplier"`
		BreakoutLookback int     `yaml:"breakout_lookback"`
		UseBreakoutGate  bool    `yaml:"use_breakout_gate"`
		PullbackLookback int     `yaml:"pullback_lookback"`
		PullbackBandPct  float64 `yaml:"pullback_band_pct"`
		RequireUpDay     bool    `yaml:"require_up_day"`
		TopN             int     `yaml:"top_n"`
	} `yaml:"strategy"`
	Scan struct {
		Cron        string `yaml:"cron"`
		Concurrency int    `yaml:"concurrency"`
		CandleLimit int    `yaml:"candle_limit"`
	} `yaml:"scan"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; env and defaults carry it.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("STRATEGY_MODE"); v != "" {
		cfg.Strategy.Mode = v
	}
	if v := os.Getenv("TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Strategy.TopN = n
		}
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Scan.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "bybit"
	}
	if cfg.Universe.Size == 0 {
		cfg.Universe.Size = 50
	}
	if cfg.Universe.QuoteSuffix == "" {
		cfg.Universe.QuoteSuffix = "USDT"
	}
	if cfg.Strategy.Mode == "" {
		cfg.Strategy.Mode = string(model.ModeTrendVolume)
	}
	if cfg.Strategy.EMAPeriod == 0 {
		cfg.Strategy.EMAPeriod = 20
	}
	if cfg.Strategy.VolumeSMAPeriod == 0 {
		cfg.Strategy.VolumeSMAPeriod = 20
	}
	if cfg.Strategy.VolumeMultiplier == 0 {
		cfg.Strategy.VolumeMultiplier = 1.5
	}
	if cfg.Strategy.BreakoutLookback == 0 {
		cfg.Strategy.BreakoutLookback = 20
	}
	if cfg.Strategy.PullbackLookback == 0 {
		cfg.Strategy.PullbackLookback = 5
	}
	if cfg.Strategy.PullbackBandPct == 0 {
		cfg.Strategy.PullbackBandPct = 0.02
	}
	if cfg.Strategy.TopN == 0 {
		cfg.Strategy.TopN = 10
	}
	if cfg.Scan.Cron == "" {
		cfg.Scan.Cron = "0 30 8 * * *"
	}
	if cfg.Scan.Concurrency == 0 {
		cfg.Scan.Concurrency = 8
	}
	if cfg.Scan.CandleLimit == 0 {
		cfg.Scan.CandleLimit = 120
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks required fields and rejects unusable strategy settings
// before any symbol is evaluated.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	switch c.DataSource.Provider {
	case "bybit", "okx":
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	switch model.StrategyMode(c.Strategy.Mode) {
	case model.ModeTrendVolume, model.ModePullback:
	default:
		return fmt.Errorf("strategy.mode %q is not supported (want A or B)", c.Strategy.Mode)
	}
	if c.Strategy.EMAPeriod <= 0 || c.Strategy.VolumeSMAPeriod <= 0 || c.Strategy.BreakoutLookback <= 0 {
		return fmt.Errorf("strategy periods must be positive")
	}
	if c.Strategy.VolumeMultiplier <= 0 {
		return fmt.Errorf("strategy.volume_multiplier must be positive")
	}
	if c.Strategy.PullbackLookback <= 0 || c.Strategy.PullbackBandPct < 0 {
		return fmt.Errorf("pullback settings must be positive")
	}
	if c.Strategy.TopN < 0 {
		return fmt.Errorf("strategy.top_n must not be negative")
	}
	if c.Scan.Concurrency <= 0 {
		return fmt.Errorf("scan.concurrency must be positive")
	}
	if min := c.minBars(); c.Scan.CandleLimit < min {
		return fmt.Errorf("scan.candle_limit %d is below the %d bars the strategy needs", c.Scan.CandleLimit, min)
	}
	return nil
}

func (c *Config) minBars() int {
	n := c.Strategy.EMAPeriod
	if c.Strategy.VolumeSMAPeriod > n {
		n = c.Strategy.VolumeSMAPeriod
	}
	if c.Strategy.BreakoutLookback > n {
		n = c.Strategy.BreakoutLookback
	}
	return n + 5
}
