package strategy

import (
	"fmt"
	"math"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/state"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

// DollarCostAveraging buys into an existing position when price has dropped
// far enough below the last buy. It never opens a position and never sells;
// it is an averaging-down strategy, not an exit signal.
type DollarCostAveraging struct {
	dropPct         float64
	maxPositionUSDT float64
	minUSDTOrder    float64
}

func NewDollarCostAveraging(dropPct, maxPositionUSDT, minUSDTOrder float64) *DollarCostAveraging {
	return &DollarCostAveraging{
		dropPct:         dropPct,
		maxPositionUSDT: maxPositionUSDT,
		minUSDTOrder:    minUSDTOrder,
	}
}

func (d *DollarCostAveraging) Name() string { return "dca" }

func (d *DollarCostAveraging) Evaluate(snaps []types.Snapshot, st *state.EngineState, symbol string) types.Signal {
	pos := st.Positions[symbol]
	if pos == nil || pos.NotionalUSDT <= 0 {
		return abstain("no_position")
	}
	lastBuy := pos.LastBuyPrice
	if lastBuy <= 0 {
		return abstain("no_reference")
	}
	if len(snaps) == 0 {
		return abstain("insufficient")
	}
	price := snaps[len(snaps)-1].Close
	drop := (lastBuy - price) / lastBuy * 100
	if drop < d.dropPct {
		return abstain("drop_below_threshold")
	}
	available := math.Max(0, d.maxPositionUSDT-pos.NotionalUSDT)
	if available < d.minUSDTOrder {
		return abstain("max_position_reached")
	}
	ratio := 0.0
	if d.maxPositionUSDT > 0 {
		ratio = available / d.maxPositionUSDT
	}
	// Scale with remaining headroom but stay in the 0.3-0.5 band so DCA
	// alone never dominates the vote weight.
	weight := math.Max(0.3, math.Min(0.5, ratio))
	return types.Signal{
		Side:   types.SideBuy,
		Weight: math.Round(weight*100) / 100,
		Reason: fmt.Sprintf("dca_drop_%.2f%%", drop),
	}
}
