package ta

import "math"

// EMASeries returns the exponential moving average of closes with period n,
// aligned to the input. Values before the warm-up window are NaN. The first
// defined value is seeded with the simple average of the first n closes.
func EMASeries(closes []float64, n int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if n <= 0 || len(closes) < n {
		return out
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += closes[i]
	}
	prev := sum / float64(n)
	out[n-1] = prev
	k := 2.0 / (float64(n) + 1.0)
	for i := n; i < len(closes); i++ {
		prev = (closes[i]-prev)*k + prev
		out[i] = prev
	}
	return out
}

// RSISeries returns the Wilder-smoothed relative strength index of closes,
// aligned to the input, NaN during warm-up.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	gain, loss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiValue(avgGain, avgLoss)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// ATRSeries returns the Wilder-smoothed average true range, aligned to the
// inputs, NaN during warm-up. The three slices must have equal length.
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(highs) != len(lows) || len(lows) != len(closes) || len(closes) < period+1 {
		return out
	}
	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += trueRange(highs[i], lows[i], closes[i-1])
	}
	prev := sum / float64(period)
	out[period] = prev
	for i := period + 1; i < len(closes); i++ {
		tr := trueRange(highs[i], lows[i], closes[i-1])
		prev = (prev*float64(period-1) + tr) / float64(period)
		out[i] = prev
	}
	return out
}

func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	tr = math.Max(tr, math.Abs(high-prevClose))
	return math.Max(tr, math.Abs(low-prevClose))
}
