package kucoin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapTimeframe(t *testing.T) {
	assert.Equal(t, "1min", MapTimeframe("1m"))
	assert.Equal(t, "1hour", MapTimeframe("1h"))
	assert.Equal(t, "1day", MapTimeframe("1d"))
	// Unknown values pass through for forward compatibility.
	assert.Equal(t, "2hour", MapTimeframe("2hour"))
}

func TestRecentCandlesParsesAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/market/candles", r.URL.Path)
		require.Equal(t, "BTC-USDT", r.URL.Query().Get("symbol"))
		require.Equal(t, "1hour", r.URL.Query().Get("type"))
		// KuCoin returns newest candle first.
		fmt.Fprint(w, `{"code":"200000","data":[
			["1700003600","101","102","103","100","5","510"],
			["1700000000","100","101","102","99","4","404"]
		]}`)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	candles, err := c.RecentCandles(context.Background(), "BTC-USDT", "1h")
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000000), candles[0].Ts)
	assert.Equal(t, int64(1700003600), candles[1].Ts)
	assert.Equal(t, 102.0, candles[1].Close)
	assert.Equal(t, 510.0, candles[1].Turnover)
}

func TestRecentCandlesEmptyDataIsErrNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"200000","data":[]}`)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.RecentCandles(context.Background(), "BTC-USDT", "1h")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestRecentCandlesAPIErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"400100","data":null}`)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.RecentCandles(context.Background(), "BTC-USDT", "1h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400100")
}

func TestRecentCandlesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.RecentCandles(context.Background(), "BTC-USDT", "1h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestServerTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/timestamp", r.URL.Path)
		fmt.Fprint(w, `{"code":"200000","data":1700000000123}`)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	ms, err := c.ServerTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000123), ms)
}
