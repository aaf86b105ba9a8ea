package lending

import (
	"testing"
	"time"

	"isolend/core"
	"isolend/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perSecond(annual string) decimal.Decimal {
	return number.Decimal(annual).
		Div(decimal.NewFromInt(SecondsPerYear)).
		Truncate(MaxPrecision)
}

func testMarket(at time.Time) *core.Market {
	return &core.Market{
		ID:                1,
		TotalSupplyAssets: number.Decimal("100"),
		TotalSupplyShares: number.Decimal("100"),
		TotalBorrowAssets: number.Decimal("30"),
		TotalBorrowShares: number.Decimal("30"),
		LastAccrualAt:     at.Unix(),
	}
}

func TestAccrueSameInstantIsNoop(t *testing.T) {
	now := time.Now()
	market := testMarket(now)
	before := *market

	accrual := Accrue(market, perSecond("0.05"), now)
	require.EqualValues(t, 0, accrual.Elapsed)
	assert.True(t, accrual.Interest.IsZero())
	assert.True(t, market.TotalBorrowAssets.Equal(before.TotalBorrowAssets))
	assert.True(t, market.TotalSupplyAssets.Equal(before.TotalSupplyAssets))
	assert.Equal(t, before.LastAccrualAt, market.LastAccrualAt)
}

func TestAccrueOneYearAtFivePercent(t *testing.T) {
	start := time.Unix(1600000000, 0)
	market := testMarket(start)

	accrual := Accrue(market, perSecond("0.05"), start.Add(time.Duration(SecondsPerYear)*time.Second))

	// 30 * (e^0.05 - 1) ≈ 1.54
	got, _ := accrual.Interest.Float64()
	assert.InDelta(t, 1.54, got, 0.01)

	assert.True(t, market.TotalBorrowAssets.Equal(number.Decimal("30").Add(accrual.Interest)))
	assert.True(t, market.TotalSupplyAssets.Equal(number.Decimal("100").Add(accrual.Interest)))
	assert.True(t, market.TotalBorrowAssets.LessThanOrEqual(market.TotalSupplyAssets))
}

func TestAccrueMintsFeeShares(t *testing.T) {
	start := time.Unix(1600000000, 0)
	market := testMarket(start)
	market.ProtocolFeeRate = number.Decimal("0.1")

	accrual := Accrue(market, perSecond("0.05"), start.Add(time.Duration(SecondsPerYear)*time.Second))
	require.True(t, accrual.FeeShares.IsPositive())
	assert.True(t, accrual.FeeAssets.Equal(accrual.Interest.Mul(number.Decimal("0.1")).Truncate(MaxPrecision)))

	// the minted shares redeem to the fee cut, minus rounding dust at most
	redeemed := ToAssetsDown(accrual.FeeShares, market.TotalSupplyAssets, market.TotalSupplyShares)
	assert.True(t, redeemed.LessThanOrEqual(accrual.FeeAssets))
	assert.True(t, accrual.FeeAssets.Sub(redeemed).LessThan(number.Decimal("0.0000001")))
}

func TestAccrueMonotonicSupply(t *testing.T) {
	start := time.Unix(1600000000, 0)
	market := testMarket(start)
	rate := perSecond("0.05")

	prev := market.TotalSupplyAssets
	for i := 1; i <= 5; i++ {
		Accrue(market, rate, start.Add(time.Duration(i)*time.Hour))
		assert.True(t, market.TotalSupplyAssets.GreaterThanOrEqual(prev))
		prev = market.TotalSupplyAssets
	}
}

func TestCompoundFactorZeroRate(t *testing.T) {
	assert.True(t, CompoundFactor(decimal.Zero, SecondsPerYear).IsZero())
}
