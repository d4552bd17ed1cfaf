package summarizer

import (
	"testing"

	"github.com/devrecap/devrecap/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCost_Haiku(t *testing.T) {
	// 10k input at $0.80/MTok = $0.008; 1k output at $4.00/MTok = $0.004.
	inputCost, outputCost, err := ComputeCost("claude-3-5-haiku-20241022", 10_000, 1_000)
	require.NoError(t, err)
	assert.Equal(t, money.Money(8_000), inputCost)
	assert.Equal(t, money.Money(4_000), outputCost)
}

func TestComputeCost_ExactFamilyName(t *testing.T) {
	inputCost, outputCost, err := ComputeCost("claude-3-5-sonnet", 1_000_000, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, money.FromDollars(3), inputCost)
	assert.Equal(t, money.FromDollars(15), outputCost)
}

func TestComputeCost_ZeroTokens(t *testing.T) {
	inputCost, outputCost, err := ComputeCost("claude-3-5-haiku-20241022", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, money.Money(0), inputCost)
	assert.Equal(t, money.Money(0), outputCost)
}

func TestComputeCost_UnknownModel(t *testing.T) {
	_, _, err := ComputeCost("gpt-4o", 100, 100)
	assert.ErrorIs(t, err, ErrUnknownModel)
}
