package engine

import (
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

// voteResult is the combined outcome of one round of evaluator votes.
type voteResult struct {
	side    types.Side
	weight  float64
	reasons map[string]string
}

// aggregate tallies evaluator votes into one side and one confidence weight.
// Majority wins; an equal vote count (including zero votes on both sides) is
// a no-trade. The weight is the arithmetic mean of the weights contributed by
// the winning side only, so abstainers and the losing side never dilute it.
// Reasons are collected from every named signal, abstainers included.
func aggregate(signals []types.Signal) voteResult {
	votes := map[types.Side]int{types.SideBuy: 0, types.SideSell: 0}
	weights := map[types.Side][]float64{}
	reasons := map[string]string{}

	for _, s := range signals {
		if s.Name != "" && s.Reason != "" {
			reasons[s.Name] = s.Reason
		}
		if s.Side != types.SideBuy && s.Side != types.SideSell {
			continue
		}
		votes[s.Side]++
		if s.Weight != 0 {
			weights[s.Side] = append(weights[s.Side], s.Weight)
		}
	}

	if votes[types.SideBuy] == votes[types.SideSell] {
		return voteResult{side: types.SideNone, weight: 0, reasons: reasons}
	}

	side := types.SideBuy
	if votes[types.SideSell] > votes[types.SideBuy] {
		side = types.SideSell
	}
	w := 0.0
	if len(weights[side]) > 0 {
		sum := 0.0
		for _, v := range weights[side] {
			sum += v
		}
		w = sum / float64(len(weights[side]))
	}
	return voteResult{side: side, weight: w, reasons: reasons}
}
