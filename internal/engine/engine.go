// Package engine runs the decision cycle: fetch candles, compute indicator
// snapshots, collect strategy votes, aggregate them, apply risk limits and
// sizing, and commit the resulting mutation to the persisted ledger.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/broker/kucoin"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/logger"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/notify"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/state"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/store"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/strategy"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/tradelog"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

// MarketData supplies candles and the exchange clock. A failure here aborts
// the cycle before any state is touched.
type MarketData interface {
	RecentCandles(ctx context.Context, symbol, timeframe string) ([]types.Candle, error)
	ServerTime(ctx context.Context) (int64, error)
}

type Engine struct {
	cfg        *store.Config
	md         MarketData
	notifier   *notify.Notifier
	strategies []strategy.Strategy
}

// New builds an engine with the evaluators enabled in the config. Evaluator
// order is fixed by construction so vote collection is deterministic.
func New(cfg *store.Config, md MarketData, notifier *notify.Notifier) *Engine {
	e := &Engine{cfg: cfg, md: md, notifier: notifier}
	if cfg.Strategy.UseTrend {
		e.strategies = append(e.strategies, strategy.NewTrendFollow())
	}
	if cfg.Strategy.UseDCA {
		e.strategies = append(e.strategies, strategy.NewDollarCostAveraging(
			cfg.Strategy.DCADropPct, cfg.Risk.MaxPositionUSDT, cfg.Risk.MinUSDTOrder))
	}
	if cfg.Strategy.UseMartingale {
		e.strategies = append(e.strategies, strategy.NewMartingale(
			cfg.Strategy.MartingaleFactor, cfg.Risk.MaxPositionUSDT, cfg.Risk.MinUSDTOrder))
	}
	return e
}

// RunOnce executes one full decision cycle. It returns an error only for
// cycle-level failures (no market data, state persistence); risk blocks and
// below-minimum sizes are normal outcomes carried in the result.
func (e *Engine) RunOnce(ctx context.Context) (*types.CycleResult, error) {
	timer := logger.StartOperation(ctx, "run_once", "symbol", e.cfg.Symbol())
	ctx = timer.GetContext()

	snaps, err := e.fetchSnapshots(ctx)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}
	price := snaps[len(snaps)-1].Close
	symbol := e.cfg.Symbol()

	st := state.Load(e.cfg.StatePath)
	signals := e.collectSignals(ctx, snaps, st)
	agg := aggregate(signals)

	logger.Decision(ctx, symbol, string(agg.side), agg.weight, agg.reasons)

	if agg.side == types.SideNone {
		res := &types.CycleResult{
			Symbol:     symbol,
			Outcome:    types.OutcomeNoSignal,
			Price:      price,
			OpenTrades: st.OpenTrades,
			Reasons:    agg.reasons,
		}
		e.finishCycle(ctx, res, snaps[len(snaps)-1])
		timer.End()
		return res, nil
	}

	currentUSDT := st.Notional(symbol)

	if agg.side != types.SideSell && !riskOK(st.OpenTrades, e.cfg.Risk.MaxOpenTrades) {
		logger.Risk(ctx, symbol, "OPEN_TRADES_CAP",
			"open_trades", st.OpenTrades,
			"max_open_trades", e.cfg.Risk.MaxOpenTrades,
		)
		res := &types.CycleResult{
			Symbol:     symbol,
			Outcome:    types.OutcomeRiskBlocked,
			Side:       agg.side,
			Weight:     agg.weight,
			Price:      price,
			OpenTrades: st.OpenTrades,
			Reasons:    agg.reasons,
		}
		e.finishCycle(ctx, res, snaps[len(snaps)-1])
		timer.End()
		return res, nil
	}

	balanceUSDT := currentUSDT
	if agg.side == types.SideBuy {
		balanceUSDT = math.Max(0, e.cfg.Risk.MaxPositionUSDT-currentUSDT)
	}
	size := positionSize(balanceUSDT, agg.weight, e.cfg.Risk.MaxPositionUSDT, e.cfg.Risk.MinUSDTOrder, agg.side)
	if size <= 0 {
		logger.Info(ctx, "Size below minimum order, skipping",
			"symbol", symbol,
			"side", agg.side,
			"balance_usdt", balanceUSDT,
			"weight", agg.weight,
			"min_usdt_order", e.cfg.Risk.MinUSDTOrder,
		)
		res := &types.CycleResult{
			Symbol:     symbol,
			Outcome:    types.OutcomeBelowMinimum,
			Side:       agg.side,
			Weight:     agg.weight,
			Price:      price,
			OpenTrades: st.OpenTrades,
			Reasons:    agg.reasons,
		}
		e.finishCycle(ctx, res, snaps[len(snaps)-1])
		timer.End()
		return res, nil
	}

	pnl := 0.0
	if agg.side == types.SideBuy {
		st.RecordBuy(symbol, size, price)
	} else {
		st.RecordSell(symbol, size, price)
		if n := len(st.History); n > 0 {
			pnl = st.History[n-1].PnL
		}
	}
	if err := state.Save(e.cfg.StatePath, st); err != nil {
		timer.EndWithError(err)
		return nil, fmt.Errorf("persist state: %w", err)
	}

	logger.Trade(ctx, symbol, string(agg.side), size, price, "open_trades", st.OpenTrades, "pnl", pnl)

	res := &types.CycleResult{
		Symbol:     symbol,
		Outcome:    types.OutcomeTrade,
		Side:       agg.side,
		Weight:     agg.weight,
		SizeUSDT:   size,
		Price:      price,
		PnL:        pnl,
		OpenTrades: st.OpenTrades,
		Reasons:    agg.reasons,
	}
	e.finishCycle(ctx, res, snaps[len(snaps)-1])
	timer.End()
	return res, nil
}

// SmokeTest fetches market data, verifies the exchange clock and pushes an
// indicator summary to the notifier without touching state.
func (e *Engine) SmokeTest(ctx context.Context) error {
	snaps, err := e.fetchSnapshots(ctx)
	if err != nil {
		return err
	}
	serverTime, err := e.md.ServerTime(ctx)
	if err != nil {
		return fmt.Errorf("server time: %w", err)
	}
	last := snaps[len(snaps)-1]
	msg := strings.Join([]string{
		"KuCoin smoke test",
		fmt.Sprintf("Symbol: %s", e.cfg.Symbol()),
		fmt.Sprintf("Timeframe: %s", e.cfg.Timeframe),
		fmt.Sprintf("Server time: %d", serverTime),
		fmt.Sprintf("Close: %.4f", last.Close),
		fmt.Sprintf("EMA(%d): %.4f", e.cfg.Strategy.EMAFast, last.EMAFast),
		fmt.Sprintf("EMA(%d): %.4f", e.cfg.Strategy.EMASlow, last.EMASlow),
		fmt.Sprintf("RSI(%d): %.2f", e.cfg.Strategy.RSIPeriod, last.RSI),
		fmt.Sprintf("ATR(%d): %.6f", e.cfg.Strategy.ATRPeriod, last.ATR),
	}, "\n")
	if err := e.notifier.Notify(ctx, msg); err != nil {
		logger.Warn(ctx, "Smoke test notification failed", "error", err)
	}
	logger.Info(ctx, "Smoke test ok", "symbol", e.cfg.Symbol(), "close", last.Close, "rsi", last.RSI)
	return nil
}

// fetchSnapshots pulls recent candles and derives indicator rows. Any failure
// or an empty result aborts the cycle before state is read.
func (e *Engine) fetchSnapshots(ctx context.Context) ([]types.Snapshot, error) {
	candles, err := e.md.RecentCandles(ctx, e.cfg.Symbol(), e.cfg.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	snaps := buildSnapshots(candles,
		e.cfg.Strategy.EMAFast, e.cfg.Strategy.EMASlow,
		e.cfg.Strategy.RSIPeriod, e.cfg.Strategy.ATRPeriod)
	if len(snaps) == 0 {
		return nil, fmt.Errorf("fetch candles: %w", kucoin.ErrNoData)
	}
	return snaps, nil
}

// collectSignals runs the evaluators concurrently and collects their votes
// into a slice indexed by construction order. Evaluators are pure, so the
// result is identical to a sequential pass; the fixed ordering keeps the
// reasons map complete and stable.
func (e *Engine) collectSignals(ctx context.Context, snaps []types.Snapshot, st *state.EngineState) []types.Signal {
	symbol := e.cfg.Symbol()
	signals := make([]types.Signal, len(e.strategies))
	g, _ := errgroup.WithContext(ctx)
	for i, strat := range e.strategies {
		i, strat := i, strat
		g.Go(func() error {
			sig := strat.Evaluate(snaps, st, symbol)
			sig.Name = strat.Name()
			signals[i] = sig
			return nil
		})
	}
	_ = g.Wait()
	return signals
}

// finishCycle records the outcome in the tradelog and pushes the operator
// notification. Neither is allowed to fail the cycle.
func (e *Engine) finishCycle(ctx context.Context, res *types.CycleResult, last types.Snapshot) {
	if err := tradelog.Append(tradelog.Entry{
		Symbol:   res.Symbol,
		Outcome:  string(res.Outcome),
		Side:     string(res.Side),
		SizeUSDT: res.SizeUSDT,
		Price:    res.Price,
		Weight:   res.Weight,
		PnL:      res.PnL,
		Reasons:  res.Reasons,
	}); err != nil {
		logger.Warn(ctx, "Tradelog append failed", "error", err)
	}
	if err := e.notifier.Notify(ctx, e.formatResult(res, last)); err != nil {
		logger.Warn(ctx, "Cycle notification failed", "error", err)
	}
}

func (e *Engine) formatResult(res *types.CycleResult, last types.Snapshot) string {
	lines := []string{
		fmt.Sprintf("[%s] %s", res.Outcome, res.Symbol),
		fmt.Sprintf("Close: %.2f", last.Close),
		fmt.Sprintf("EMA(f/s): %.2f/%.2f", last.EMAFast, last.EMASlow),
		fmt.Sprintf("RSI: %.2f", last.RSI),
		fmt.Sprintf("ATR: %.6f", last.ATR),
	}
	if res.Side != types.SideNone {
		lines = append(lines,
			fmt.Sprintf("Side: %s", res.Side),
			fmt.Sprintf("Weight: %.2f", res.Weight),
			fmt.Sprintf("Size: %.2f", res.SizeUSDT),
		)
	}
	lines = append(lines, fmt.Sprintf("Open trades: %d", res.OpenTrades))
	for name, reason := range res.Reasons {
		lines = append(lines, fmt.Sprintf("%s: %s", name, reason))
	}
	return strings.Join(lines, "\n")
}
