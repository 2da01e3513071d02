package strategy

import (
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/state"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

// TrendFollow votes on an EMA crossover confirmed by RSI. The signal is
// binary: a confirmed cross is always full confidence.
type TrendFollow struct{}

func NewTrendFollow() *TrendFollow { return &TrendFollow{} }

func (t *TrendFollow) Name() string { return "trend" }

func (t *TrendFollow) Evaluate(snaps []types.Snapshot, _ *state.EngineState, _ string) types.Signal {
	if len(snaps) < 3 {
		return abstain("insufficient")
	}
	prev := snaps[len(snaps)-2]
	cur := snaps[len(snaps)-1]

	// Cross detection compares the fast/slow relation at the previous point
	// against the current one; equality on the previous point still counts
	// as a cross.
	if prev.EMAFast <= prev.EMASlow && cur.EMAFast > cur.EMASlow && cur.RSI > 50 {
		return types.Signal{Side: types.SideBuy, Weight: 1.0, Reason: "ema_cross_up"}
	}
	if prev.EMAFast >= prev.EMASlow && cur.EMAFast < cur.EMASlow && cur.RSI < 50 {
		return types.Signal{Side: types.SideSell, Weight: 1.0, Reason: "ema_cross_down"}
	}
	return abstain("no_cross")
}
