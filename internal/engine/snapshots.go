package engine

import (
	"math"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/ta"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

// buildSnapshots computes the indicator series over the candles and returns
// one snapshot row per candle where every indicator is warmed up. Candles
// must be sorted oldest first.
func buildSnapshots(candles []types.Candle, emaFast, emaSlow, rsiPeriod, atrPeriod int) []types.Snapshot {
	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	fast := ta.EMASeries(closes, emaFast)
	slow := ta.EMASeries(closes, emaSlow)
	rsi := ta.RSISeries(closes, rsiPeriod)
	atr := ta.ATRSeries(highs, lows, closes, atrPeriod)

	snaps := make([]types.Snapshot, 0, len(candles))
	for i, c := range candles {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) || math.IsNaN(rsi[i]) || math.IsNaN(atr[i]) {
			continue
		}
		snaps = append(snaps, types.Snapshot{
			Ts:      c.Ts,
			Close:   c.Close,
			EMAFast: fast[i],
			EMASlow: slow[i],
			RSI:     rsi[i],
			ATR:     atr[i],
			Volume:  c.Volume,
		})
	}
	return snaps
}
