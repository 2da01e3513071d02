package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseSymbol  string `yaml:"base_symbol"`
	QuoteSymbol string `yaml:"quote_symbol"`
	Timeframe   string `yaml:"timeframe"`
	LoopSeconds int    `yaml:"loop_seconds"`
	StatePath   string `yaml:"state_path"`
	Strategy    struct {
		EMAFast          int     `yaml:"ema_fast"`
		EMASlow          int     `yaml:"ema_slow"`
		RSIPeriod        int     `yaml:"rsi_period"`
		ATRPeriod        int     `yaml:"atr_period"`
		UseTrend         bool    `yaml:"use_trend"`
		UseDCA           bool    `yaml:"use_dca"`
		UseMartingale    bool    `yaml:"use_martingale"`
		DCADropPct       float64 `yaml:"dca_drop_pct"`
		MartingaleFactor float64 `yaml:"martingale_factor"`
	} `yaml:"strategy"`
	Risk struct {
		MaxOpenTrades   int     `yaml:"max_open_trades"`
		MaxPositionUSDT float64 `yaml:"max_position_usdt"`
		MinUSDTOrder    float64 `yaml:"min_usdt_order"`
	} `yaml:"risk"`
}

// Symbol returns the KuCoin pair name, e.g. "BTC-USDT".
func (c *Config) Symbol() string {
	return c.BaseSymbol + "-" + c.QuoteSymbol
}

func (c *Config) Validate() error {
	if c.BaseSymbol == "" || c.QuoteSymbol == "" {
		return fmt.Errorf("base_symbol and quote_symbol must be set")
	}
	if c.Strategy.EMAFast <= 0 || c.Strategy.EMASlow <= 0 {
		return fmt.Errorf("strategy.ema_fast and strategy.ema_slow must be positive")
	}
	if c.Strategy.EMAFast >= c.Strategy.EMASlow {
		return fmt.Errorf("strategy.ema_fast (%d) must be shorter than ema_slow (%d)", c.Strategy.EMAFast, c.Strategy.EMASlow)
	}
	if c.Risk.MaxPositionUSDT <= 0 {
		return fmt.Errorf("risk.max_position_usdt must be positive, got %.2f", c.Risk.MaxPositionUSDT)
	}
	if c.Risk.MinUSDTOrder < 0 {
		return fmt.Errorf("risk.min_usdt_order cannot be negative, got %.2f", c.Risk.MinUSDTOrder)
	}
	if c.Risk.MaxOpenTrades < 0 {
		return fmt.Errorf("risk.max_open_trades cannot be negative, got %d", c.Risk.MaxOpenTrades)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Timeframe == "" {
		c.Timeframe = "1h"
	}
	if c.LoopSeconds == 0 {
		c.LoopSeconds = 60
	}
	if c.StatePath == "" {
		c.StatePath = "data/.state.json"
	}
	if c.Strategy.RSIPeriod == 0 {
		c.Strategy.RSIPeriod = 14
	}
	if c.Strategy.ATRPeriod == 0 {
		c.Strategy.ATRPeriod = 14
	}
	if c.Strategy.DCADropPct == 0 {
		c.Strategy.DCADropPct = 1.0
	}
	if c.Strategy.MartingaleFactor == 0 {
		c.Strategy.MartingaleFactor = 1.0
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
