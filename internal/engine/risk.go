package engine

import (
	"math"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

// riskOK reports whether a new buy is allowed under the open-trade cap.
// Sells are never gated; reducing exposure is always permitted.
func riskOK(openTrades, maxOpenTrades int) bool {
	return openTrades < maxOpenTrades
}

// positionSize converts the aggregated vote weight into a concrete order
// size in quote currency. For buys the balance is the headroom under the
// position cap; for sells it is the held notional. A size below the minimum
// order floor returns 0, which callers treat as a below-minimum no-op.
func positionSize(balanceUSDT, weight, maxPositionUSDT, minUSDTOrder float64, side types.Side) float64 {
	weight = math.Max(0, math.Min(1, weight))
	base := math.Min(maxPositionUSDT, math.Max(0, balanceUSDT))
	if side == types.SideSell {
		base = math.Max(0, balanceUSDT)
	}
	size := math.Round(base*weight*100) / 100
	if size < minUSDTOrder {
		return 0
	}
	return size
}
