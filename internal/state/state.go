// Package state holds the paper-trading ledger: per-symbol positions with
// weighted-average-cost accounting, the append-only trade history, and the
// open-trade counter derived from them.
package state

import (
	"math"
	"time"
)

// Position is the open exposure for one symbol. A position with zero notional
// never exists as a map entry; full exits remove the key outright so a later
// re-entry starts with a fresh average price.
type Position struct {
	NotionalUSDT float64 `json:"qty_usdt"`
	AvgPrice     float64 `json:"avg_price"`
	LastBuyPrice float64 `json:"last_buy_price"`
}

// HistoryEntry is one immutable record in the trade history. PnL is zero for
// buys and the signed realized profit for sells.
type HistoryEntry struct {
	Ts     string  `json:"ts"`
	Symbol string  `json:"symbol"`
	Action string  `json:"action"`
	USDT   float64 `json:"usdt"`
	Price  float64 `json:"price"`
	PnL    float64 `json:"pnl"`
}

// EngineState is the aggregate persisted between decision cycles. OpenTrades
// is always recomputed from the position map after a mutation, never
// maintained independently.
type EngineState struct {
	Positions  map[string]*Position `json:"positions"`
	OpenTrades int                  `json:"open_trades"`
	History    []HistoryEntry       `json:"history"`
}

// NewEngineState returns an empty state with initialized containers.
func NewEngineState() *EngineState {
	return &EngineState{
		Positions: map[string]*Position{},
		History:   []HistoryEntry{},
	}
}

// Notional returns the current notional held for symbol, zero if none.
func (s *EngineState) Notional(symbol string) float64 {
	if p := s.Positions[symbol]; p != nil {
		return p.NotionalUSDT
	}
	return 0
}

// LastSell returns the most recent sell in the history, scanning backward
// from the newest entry. ok is false when no sell has ever been recorded.
func (s *EngineState) LastSell() (HistoryEntry, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Action == "sell" {
			return s.History[i], true
		}
	}
	return HistoryEntry{}, false
}

// RecordBuy applies a buy of usdt notional at price to symbol. The new
// average price is the cost-weighted average over the implied base quantity.
// A non-positive notional or price is a no-op.
func (s *EngineState) RecordBuy(symbol string, usdt, price float64) {
	if usdt <= 0 || price <= 0 {
		return
	}
	pos := s.Positions[symbol]
	if pos == nil {
		pos = &Position{}
	}
	curUSDT := pos.NotionalUSDT
	avg := pos.AvgPrice
	if avg <= 0 {
		// Brand-new position: seed the average with the buy price so the
		// implied quantity never divides by zero.
		avg = price
	}
	curQty := 0.0
	if avg > 0 {
		curQty = curUSDT / avg
	}
	newQty := curQty + usdt/price
	newCost := curUSDT + usdt
	newAvg := price
	if newQty > 0 {
		newAvg = newCost / newQty
	}
	pos.NotionalUSDT = round2(newCost)
	pos.AvgPrice = round4(newAvg)
	pos.LastBuyPrice = price
	s.Positions[symbol] = pos
	s.appendHistory(symbol, "buy", usdt, price, 0)
	s.recountOpenTrades()
}

// RecordSell applies a sell of up to usdt notional at price to symbol.
// The sell is clamped to the held notional; realized PnL is proportional to
// the share of the implied quantity sold. Selling the whole position removes
// the map entry. A missing position or non-positive notional/price is a
// no-op.
func (s *EngineState) RecordSell(symbol string, usdt, price float64) {
	pos := s.Positions[symbol]
	if pos == nil || usdt <= 0 || price <= 0 {
		return
	}
	curUSDT := pos.NotionalUSDT
	if curUSDT <= 0 {
		return
	}
	sell := math.Min(curUSDT, usdt)
	proportion := sell / curUSDT
	avg := pos.AvgPrice
	if avg <= 0 {
		avg = price
	}
	totalQty := 0.0
	if avg > 0 {
		totalQty = curUSDT / avg
	}
	qtySold := totalQty * proportion
	pnl := (price - avg) * qtySold
	remaining := curUSDT - sell
	if remaining <= 0 {
		delete(s.Positions, symbol)
	} else {
		pos.NotionalUSDT = round2(remaining)
	}
	s.appendHistory(symbol, "sell", sell, price, round4(pnl))
	s.recountOpenTrades()
}

func (s *EngineState) appendHistory(symbol, action string, usdt, price, pnl float64) {
	s.History = append(s.History, HistoryEntry{
		Ts:     time.Now().UTC().Format(time.RFC3339),
		Symbol: symbol,
		Action: action,
		USDT:   usdt,
		Price:  price,
		PnL:    pnl,
	})
}

// recountOpenTrades derives the counter from the position map. A full
// recount after every mutation keeps it from ever drifting.
func (s *EngineState) recountOpenTrades() {
	n := 0
	for _, p := range s.Positions {
		if p.NotionalUSDT > 0 {
			n++
		}
	}
	s.OpenTrades = n
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
