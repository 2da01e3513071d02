package types

// Candle is one kline from the market-data provider, values already
// normalized to floats, oldest candle first after sorting.
type Candle struct {
	Ts                     int64
	Open, Close, High, Low float64
	Volume, Turnover       float64
}

// Snapshot is one fully-warmed indicator row derived from a candle. Strategy
// evaluators consume a slice of these, newest last.
type Snapshot struct {
	Ts      int64   `json:"ts"`
	Close   float64 `json:"close"`
	EMAFast float64 `json:"ema_fast"`
	EMASlow float64 `json:"ema_slow"`
	RSI     float64 `json:"rsi"`
	ATR     float64 `json:"atr"`
	Volume  float64 `json:"volume"`
}

// Side is a trade direction vote. SideNone means the evaluator abstains.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Signal is one evaluator's vote for the current cycle. Weight is only
// meaningful when Side is buy or sell. Reason is always set, including for
// abstentions, so a cycle report can explain every evaluator's vote.
type Signal struct {
	Name   string  `json:"name"`
	Side   Side    `json:"side"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason"`
}

// Outcome classifies how a decision cycle ended. Every cycle maps to exactly
// one outcome so telemetry can tell a trade apart from the no-trade paths.
type Outcome string

const (
	OutcomeTrade        Outcome = "trade"
	OutcomeNoSignal     Outcome = "no_signal"
	OutcomeRiskBlocked  Outcome = "risk_blocked"
	OutcomeBelowMinimum Outcome = "below_minimum"
)

// CycleResult summarizes one fetch-evaluate-decide-mutate pass.
type CycleResult struct {
	Symbol     string            `json:"symbol"`
	Outcome    Outcome           `json:"outcome"`
	Side       Side              `json:"side,omitempty"`
	Weight     float64           `json:"weight,omitempty"`
	SizeUSDT   float64           `json:"size_usdt,omitempty"`
	Price      float64           `json:"price"`
	PnL        float64           `json:"pnl,omitempty"`
	OpenTrades int               `json:"open_trades"`
	Reasons    map[string]string `json:"reasons,omitempty"`
}
