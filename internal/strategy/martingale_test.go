package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/state"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

func stateWithSell(pnl float64) *state.EngineState {
	s := state.NewEngineState()
	s.History = append(s.History, state.HistoryEntry{Symbol: "BTC-USDT", Action: "sell", USDT: 50, Price: 95, PnL: pnl})
	return s
}

func TestMartingaleNoSellHistory(t *testing.T) {
	m := NewMartingale(1.0, 1000, 10)
	sig := m.Evaluate(nil, state.NewEngineState(), "BTC-USDT")
	assert.Equal(t, types.SideNone, sig.Side)
	assert.Equal(t, "no_sell_history", sig.Reason)
}

func TestMartingaleLastSellProfitable(t *testing.T) {
	m := NewMartingale(1.0, 1000, 10)
	sig := m.Evaluate(nil, stateWithSell(2.5), "BTC-USDT")
	assert.Equal(t, types.SideNone, sig.Side)
	assert.Equal(t, "last_sell_profitable", sig.Reason)

	// Break-even counts as not a loss.
	sig = m.Evaluate(nil, stateWithSell(0), "BTC-USDT")
	assert.Equal(t, "last_sell_profitable", sig.Reason)
}

func TestMartingaleBuysAfterLoss(t *testing.T) {
	cases := []struct {
		factor     float64
		wantWeight float64
	}{
		{0.6, 0.3},
		{1.0, 0.5},
		{1.4, 0.7},
		{2.0, 0.75}, // factor capped at 1.5
		{5.0, 0.75},
	}
	for _, tc := range cases {
		m := NewMartingale(tc.factor, 1000, 10)
		sig := m.Evaluate(nil, stateWithSell(-5.0), "BTC-USDT")
		require.Equal(t, types.SideBuy, sig.Side, "factor %.1f", tc.factor)
		assert.InDelta(t, tc.wantWeight, sig.Weight, 0.0001, "factor %.1f", tc.factor)
		assert.Equal(t, "martingale_after_loss", sig.Reason)
	}
}

func TestMartingaleRespectsHeadroom(t *testing.T) {
	m := NewMartingale(1.0, 1000, 50)
	s := stateWithSell(-5.0)
	s.Positions["BTC-USDT"] = &state.Position{NotionalUSDT: 980, AvgPrice: 100, LastBuyPrice: 100}
	sig := m.Evaluate(nil, s, "BTC-USDT")
	assert.Equal(t, types.SideNone, sig.Side)
	assert.Equal(t, "max_position_reached", sig.Reason)
}

func TestMartingaleScansBackwardForSell(t *testing.T) {
	m := NewMartingale(1.0, 1000, 10)
	s := state.NewEngineState()
	s.History = append(s.History,
		state.HistoryEntry{Action: "sell", PnL: 3.0},
		state.HistoryEntry{Action: "buy", PnL: 0},
		state.HistoryEntry{Action: "sell", PnL: -1.0},
		state.HistoryEntry{Action: "buy", PnL: 0},
	)
	// The most recent sell is the losing one.
	sig := m.Evaluate(nil, s, "BTC-USDT")
	assert.Equal(t, types.SideBuy, sig.Side)
}
