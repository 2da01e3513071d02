// Package kucoin is a minimal client for the public KuCoin REST API, covering
// the endpoints the bot needs: candles and server time.
package kucoin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

const defaultBaseURL = "https://api.kucoin.com"

// ErrNoData is returned when the exchange responds without usable candles.
var ErrNoData = errors.New("kucoin: no candle data")

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client against the production KuCoin API.
func New() *Client {
	return NewWithBaseURL(defaultBaseURL)
}

// NewWithBaseURL creates a client against a custom base URL, mainly for
// tests against httptest servers.
func NewWithBaseURL(base string) *Client {
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// MapTimeframe converts the bot's compact timeframe notation to the KuCoin
// kline type parameter, e.g. "1h" -> "1hour". Unknown values pass through.
func MapTimeframe(tf string) string {
	m := map[string]string{
		"1m": "1min", "3m": "3min", "5m": "5min", "15m": "15min",
		"30m": "30min", "1h": "1hour", "4h": "4hour", "1d": "1day",
	}
	if v, ok := m[tf]; ok {
		return v
	}
	return tf
}

type envelope struct {
	Code string          `json:"code"`
	Data json.RawMessage `json:"data"`
}

// RecentCandles fetches klines for symbol at the given bot timeframe and
// returns them sorted oldest first. An empty payload is ErrNoData.
func (c *Client) RecentCandles(ctx context.Context, symbol, timeframe string) ([]types.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("type", MapTimeframe(timeframe))
	env, err := c.get(ctx, "/api/v1/market/candles", q)
	if err != nil {
		return nil, err
	}

	// KuCoin encodes each candle as an array of strings:
	// [time, open, close, high, low, volume, turnover]
	var rows [][]string
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, fmt.Errorf("kucoin: decode candles: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	candles := make([]types.Candle, 0, len(rows))
	for _, r := range rows {
		if len(r) < 7 {
			continue
		}
		vals := make([]float64, 7)
		ok := true
		for i := 0; i < 7; i++ {
			v, err := strconv.ParseFloat(r[i], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		candles = append(candles, types.Candle{
			Ts:       int64(vals[0]),
			Open:     vals[1],
			Close:    vals[2],
			High:     vals[3],
			Low:      vals[4],
			Volume:   vals[5],
			Turnover: vals[6],
		})
	}
	if len(candles) == 0 {
		return nil, ErrNoData
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Ts < candles[j].Ts })
	return candles, nil
}

// ServerTime returns the exchange clock in epoch milliseconds.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	env, err := c.get(ctx, "/api/v1/timestamp", nil)
	if err != nil {
		return 0, err
	}
	var ms int64
	if err := json.Unmarshal(env.Data, &ms); err != nil {
		return 0, fmt.Errorf("kucoin: decode timestamp: %w", err)
	}
	return ms, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*envelope, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("kucoin: create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kucoin: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("kucoin: %s: unexpected status %d: %s", path, resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("kucoin: %s: decode response: %w", path, err)
	}
	if env.Code != "200000" {
		return nil, fmt.Errorf("kucoin: %s: api code %s", path, env.Code)
	}
	return &env, nil
}
