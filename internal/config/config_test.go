package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "bybit", cfg.DataSource.Provider)
	assert.Equal(t, "A", cfg.Strategy.Mode)
	assert.Equal(t, 20, cfg.Strategy.EMAPeriod)
	assert.Equal(t, 1.5, cfg.Strategy.VolumeMultiplier)
	assert.Equal(t, 10, cfg.Strategy.TopN)
	assert.Equal(t, 50, cfg.Universe.Size)
	assert.Equal(t, "USDT", cfg.Universe.QuoteSuffix)
	assert.Equal(t, 120, cfg.Scan.CandleLimit)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte(`
telegram:
  bot_token: file-token
  chat_id: "42"
strategy:
  mode: B
  ema_period: 30
universe:
  size: 25
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("STRATEGY_MODE", "A")
	t.Setenv("TOP_N", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.BotToken, "env wins over file")
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, "A", cfg.Strategy.Mode)
	assert.Equal(t, 30, cfg.Strategy.EMAPeriod)
	assert.Equal(t, 3, cfg.Strategy.TopN)
	assert.Equal(t, 25, cfg.Universe.Size)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = "1"
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig(t).Validate())

	cfg := validConfig(t)
	cfg.Telegram.BotToken = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.Strategy.Mode = "C"
	err := cfg.Validate()
	require.Error(t, err, "unknown mode must fail before any evaluation")
	assert.Contains(t, err.Error(), "strategy.mode")

	cfg = validConfig(t)
	cfg.DataSource.Provider = "binance"
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.Scan.CandleLimit = 10
	assert.Error(t, cfg.Validate(), "candle limit below strategy warmup")

	cfg = validConfig(t)
	cfg.Strategy.TopN = -1
	assert.Error(t, cfg.Validate())
}
