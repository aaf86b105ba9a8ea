package lending

import (
	"testing"

	"isolend/pkg/number"

	"github.com/stretchr/testify/assert"
)

func TestIncentiveFactor(t *testing.T) {
	// 1.3 - 0.3*0.8 = 1.06
	assert.True(t, IncentiveFactor(number.Decimal("0.8")).Equal(number.Decimal("1.06")))
	// low ltv markets hit the protocol-wide cap
	assert.True(t, IncentiveFactor(number.Decimal("0.1")).Equal(MaxLiquidationIncentive))
	// the factor never drops below par while ltv < 1
	assert.True(t, IncentiveFactor(number.Decimal("0.99")).GreaterThan(One))
}

func TestSeizedRepaidSymmetry(t *testing.T) {
	price := number.Decimal("0.5")
	incentive := IncentiveFactor(number.Decimal("0.8"))

	seized := number.Decimal("20")
	repaid := SeizedToRepaid(seized, price, incentive)
	back := RepaidToSeized(repaid, price, incentive)

	assert.True(t, back.Sub(seized).Abs().LessThan(number.Decimal("0.0000001")))
}

func TestHealthFactor(t *testing.T) {
	// 50 collateral at price 1 with 80% ltv against 30 debt ≈ 1.3333
	hf := HealthFactor(number.Decimal("50"), number.Decimal("1"), number.Decimal("0.8"), number.Decimal("30"))
	got, _ := hf.Float64()
	assert.InDelta(t, 1.3333, got, 0.0001)

	// price halves: the same position goes under water
	hf = HealthFactor(number.Decimal("50"), number.Decimal("0.5"), number.Decimal("0.8"), number.Decimal("30"))
	got, _ = hf.Float64()
	assert.InDelta(t, 0.6667, got, 0.0001)
	assert.True(t, hf.LessThan(One))

	// no debt is always healthy
	assert.True(t, HealthFactor(number.Decimal("50"), number.Decimal("1"), number.Decimal("0.8"), number.Decimal("0")).Equal(HealthMax))
}
