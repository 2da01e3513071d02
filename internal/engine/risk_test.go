package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/types"
)

func TestRiskOK(t *testing.T) {
	assert.True(t, riskOK(0, 3))
	assert.True(t, riskOK(2, 3))
	assert.False(t, riskOK(3, 3))
	assert.False(t, riskOK(4, 3))
	assert.False(t, riskOK(0, 0))
}

func TestPositionSizeBuyHeadroom(t *testing.T) {
	// cap=1000, held=800 -> headroom 200; weight 0.5 -> size 100
	size := positionSize(200, 0.5, 1000, 10, types.SideBuy)
	assert.Equal(t, 100.0, size)
}

func TestPositionSizeBelowMinimumIsZero(t *testing.T) {
	// Same scenario with a 150 floor: the decision is discarded.
	size := positionSize(200, 0.5, 1000, 150, types.SideBuy)
	assert.Equal(t, 0.0, size)
}

func TestPositionSizeSellUsesHeldNotional(t *testing.T) {
	size := positionSize(800, 0.25, 1000, 10, types.SideSell)
	assert.Equal(t, 200.0, size)
}

func TestPositionSizeWeightClamped(t *testing.T) {
	assert.Equal(t, 500.0, positionSize(500, 1.7, 1000, 10, types.SideBuy))
	assert.Equal(t, 0.0, positionSize(500, -0.5, 1000, 10, types.SideBuy))
}

func TestPositionSizeBuyCappedAtMaxPosition(t *testing.T) {
	// Balance above the cap is never used for a buy.
	assert.Equal(t, 1000.0, positionSize(5000, 1.0, 1000, 10, types.SideBuy))
	// A sell of more than the cap is fine: it only reduces exposure.
	assert.Equal(t, 5000.0, positionSize(5000, 1.0, 1000, 10, types.SideSell))
}

func TestPositionSizeNegativeBalance(t *testing.T) {
	assert.Equal(t, 0.0, positionSize(-50, 1.0, 1000, 10, types.SideBuy))
}
