package strategy

import (
	"math"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/state"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

// Martingale buys after a losing sell, scaling its confidence by a configured
// factor. The factor is capped at 1.5 so a misconfigured multiplier cannot
// push the vote weight past full confidence.
type Martingale struct {
	factor          float64
	maxPositionUSDT float64
	minUSDTOrder    float64
}

func NewMartingale(factor, maxPositionUSDT, minUSDTOrder float64) *Martingale {
	return &Martingale{
		factor:          factor,
		maxPositionUSDT: maxPositionUSDT,
		minUSDTOrder:    minUSDTOrder,
	}
}

func (m *Martingale) Name() string { return "martingale" }

func (m *Martingale) Evaluate(_ []types.Snapshot, st *state.EngineState, symbol string) types.Signal {
	lastSell, ok := st.LastSell()
	if !ok {
		return abstain("no_sell_history")
	}
	if lastSell.PnL >= 0 {
		return abstain("last_sell_profitable")
	}
	available := math.Max(0, m.maxPositionUSDT-st.Notional(symbol))
	if available < m.minUSDTOrder {
		return abstain("max_position_reached")
	}
	weight := math.Min(1.0, 0.5*math.Min(m.factor, 1.5))
	return types.Signal{
		Side:   types.SideBuy,
		Weight: math.Round(weight*100) / 100,
		Reason: "martingale_after_loss",
	}
}
