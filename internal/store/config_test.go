package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConfig = `
base_symbol: BTC
quote_symbol: USDT
timeframe: 1h
loop_seconds: 30
strategy:
  ema_fast: 9
  ema_slow: 21
  rsi_period: 14
  atr_period: 14
  use_trend: true
  use_dca: true
  use_martingale: false
  dca_drop_pct: 2.0
  martingale_factor: 1.2
risk:
  max_open_trades: 3
  max_position_usdt: 1000
  min_usdt_order: 10
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "BTC-USDT", cfg.Symbol())
	assert.Equal(t, 30, cfg.LoopSeconds)
	assert.Equal(t, 9, cfg.Strategy.EMAFast)
	assert.True(t, cfg.Strategy.UseTrend)
	assert.False(t, cfg.Strategy.UseMartingale)
	assert.Equal(t, 1000.0, cfg.Risk.MaxPositionUSDT)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
base_symbol: ETH
quote_symbol: USDT
strategy:
  ema_fast: 9
  ema_slow: 21
risk:
  max_position_usdt: 500
`))
	require.NoError(t, err)

	assert.Equal(t, "1h", cfg.Timeframe)
	assert.Equal(t, 60, cfg.LoopSeconds)
	assert.Equal(t, "data/.state.json", cfg.StatePath)
	assert.Equal(t, 14, cfg.Strategy.RSIPeriod)
	assert.Equal(t, 14, cfg.Strategy.ATRPeriod)
	assert.Equal(t, 1.0, cfg.Strategy.DCADropPct)
	assert.Equal(t, 1.0, cfg.Strategy.MartingaleFactor)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing symbol", `
quote_symbol: USDT
strategy: {ema_fast: 9, ema_slow: 21}
risk: {max_position_usdt: 100}
`},
		{"fast not shorter than slow", `
base_symbol: BTC
quote_symbol: USDT
strategy: {ema_fast: 21, ema_slow: 9}
risk: {max_position_usdt: 100}
`},
		{"non-positive position cap", `
base_symbol: BTC
quote_symbol: USDT
strategy: {ema_fast: 9, ema_slow: 21}
risk: {max_position_usdt: -1}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
