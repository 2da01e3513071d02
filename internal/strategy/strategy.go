// Package strategy contains the per-cycle vote evaluators. Each evaluator is
// a pure function of the indicator history and the current ledger state; none
// of them mutate anything, so the engine is free to run them concurrently.
package strategy

import (
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/state"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

// Strategy is the shared evaluation capability. Evaluate inspects the
// indicator snapshots (newest last) and the ledger state for symbol and
// returns a vote. The returned Signal always carries a Reason, including for
// abstentions.
type Strategy interface {
	Name() string
	Evaluate(snaps []types.Snapshot, st *state.EngineState, symbol string) types.Signal
}

func abstain(reason string) types.Signal {
	return types.Signal{Side: types.SideNone, Weight: 0, Reason: reason}
}
