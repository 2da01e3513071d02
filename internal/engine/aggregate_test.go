package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

func TestAggregateTieIsNoTrade(t *testing.T) {
	res := aggregate([]types.Signal{
		{Name: "trend", Side: types.SideBuy, Weight: 1.0, Reason: "ema_cross_up"},
		{Name: "dca", Side: types.SideSell, Weight: 0.3, Reason: "whatever"},
	})
	assert.Equal(t, types.SideNone, res.side)
	assert.Equal(t, 0.0, res.weight)
	// The reasons map is still populated for observability.
	assert.Equal(t, "ema_cross_up", res.reasons["trend"])
}

func TestAggregateNoVotesIsNoTrade(t *testing.T) {
	res := aggregate([]types.Signal{
		{Name: "trend", Side: types.SideNone, Reason: "no_cross"},
		{Name: "dca", Side: types.SideNone, Reason: "no_position"},
		{Name: "martingale", Side: types.SideNone, Reason: "no_sell_history"},
	})
	assert.Equal(t, types.SideNone, res.side)
	assert.Len(t, res.reasons, 3)
}

func TestAggregateMajorityMeansWinningWeights(t *testing.T) {
	res := aggregate([]types.Signal{
		{Name: "trend", Side: types.SideBuy, Weight: 0.8, Reason: "ema_cross_up"},
		{Name: "dca", Side: types.SideBuy, Weight: 0.4, Reason: "dca_drop_3.00%"},
	})
	assert.Equal(t, types.SideBuy, res.side)
	assert.InDelta(t, 0.6, res.weight, 0.0001)
}

func TestAggregateLosersAndAbstainersDoNotDiluteWeight(t *testing.T) {
	res := aggregate([]types.Signal{
		{Name: "trend", Side: types.SideBuy, Weight: 0.8, Reason: "ema_cross_up"},
		{Name: "dca", Side: types.SideBuy, Weight: 0.4, Reason: "dca_drop_2.50%"},
		{Name: "martingale", Side: types.SideNone, Weight: 0, Reason: "last_sell_profitable"},
	})
	assert.Equal(t, types.SideBuy, res.side)
	assert.InDelta(t, 0.6, res.weight, 0.0001)
	assert.Equal(t, "last_sell_profitable", res.reasons["martingale"])
}

func TestAggregateSellMajority(t *testing.T) {
	res := aggregate([]types.Signal{
		{Name: "trend", Side: types.SideSell, Weight: 1.0, Reason: "ema_cross_down"},
		{Name: "dca", Side: types.SideNone, Reason: "no_position"},
	})
	assert.Equal(t, types.SideSell, res.side)
	assert.Equal(t, 1.0, res.weight)
}

func TestAggregateEmptyInput(t *testing.T) {
	res := aggregate(nil)
	assert.Equal(t, types.SideNone, res.side)
	assert.Empty(t, res.reasons)
}
