package irm

import (
	"context"
	"testing"

	"isolend/core"
	"isolend/internal/lending"
	"isolend/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curve() *JumpRate {
	return NewJumpRate(
		number.Decimal("0.025"),
		number.Decimal("0.2"),
		number.Decimal("2"),
		number.Decimal("0.8"),
	)
}

func marketAt(supply, borrow string) *core.Market {
	return &core.Market{
		TotalSupplyAssets: number.Decimal(supply),
		TotalBorrowAssets: number.Decimal(borrow),
	}
}

func annualized(rate decimal.Decimal) float64 {
	f, _ := rate.Mul(decimal.NewFromInt(lending.SecondsPerYear)).Float64()
	return f
}

func TestUtilization(t *testing.T) {
	j := curve()
	assert.True(t, j.Utilization(marketAt("0", "0")).IsZero())
	assert.True(t, j.Utilization(marketAt("100", "30")).Equal(number.Decimal("0.3")))
	assert.True(t, j.Utilization(marketAt("100", "100")).Equal(number.Decimal("1")))
}

func TestBorrowRateBelowKink(t *testing.T) {
	rate, err := curve().BorrowRateView(context.Background(), marketAt("100", "30"))
	require.Nil(t, err)

	// 0.025 + 0.3*0.2 = 0.085 annual
	assert.InDelta(t, 0.085, annualized(rate), 1e-6)
}

func TestBorrowRateAboveKink(t *testing.T) {
	rate, err := curve().BorrowRateView(context.Background(), marketAt("100", "90"))
	require.Nil(t, err)

	// 0.025 + 0.8*0.2 + 0.1*2 = 0.385 annual
	assert.InDelta(t, 0.385, annualized(rate), 1e-6)
}

func TestFlatCurve(t *testing.T) {
	// zero multiplier and jump pins the rate at base regardless of demand
	j := NewJumpRate(number.Decimal("0.05"), decimal.Zero, decimal.Zero, number.Decimal("0.8"))

	for _, borrow := range []string{"0", "30", "100"} {
		rate, err := j.BorrowRateView(context.Background(), marketAt("100", borrow))
		require.Nil(t, err)
		assert.InDelta(t, 0.05, annualized(rate), 1e-6, borrow)
	}
}
