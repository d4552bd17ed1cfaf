package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromDollars(t *testing.T) {
	assert.Equal(t, Money(1_000_000), FromDollars(1))
	assert.Equal(t, Money(1_000), FromDollars(0.001))
	assert.Equal(t, Money(1), FromDollars(0.000001))
	assert.Equal(t, Money(-2_500_000), FromDollars(-2.5))
}

func TestDollarsRoundTrip(t *testing.T) {
	assert.InDelta(t, 0.0035, FromDollars(0.0035).Dollars(), 1e-9)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$0.0026", Money(2_560).Format())
	assert.Equal(t, "$1.5000", FromDollars(1.5).Format())
	assert.Equal(t, "$0.0000", Money(0).Format())
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$100.00", FromDollars(100).FormatCents())
	assert.Equal(t, "$-0.01", Money(-10_000).FormatCents())
}
