package lending

import (
	"isolend/pkg/number"

	"github.com/shopspring/decimal"
)

// IncentiveFactor the liquidator's collateral premium for a market:
// min(MaxLiquidationIncentive, IncentiveIntercept - IncentiveSlope * ltv).
func IncentiveFactor(liquidationLTV decimal.Decimal) decimal.Decimal {
	return number.Min(
		MaxLiquidationIncentive,
		IncentiveIntercept.Sub(IncentiveSlope.Mul(liquidationLTV)),
	).Truncate(MaxPrecision)
}

// SeizedToRepaid prices seized collateral and discounts it by the incentive
// factor, rounding against the liquidator.
func SeizedToRepaid(seizedAssets, price, incentive decimal.Decimal) decimal.Decimal {
	return number.Ceil(seizedAssets.Mul(price).Div(incentive), MaxPrecision)
}

// RepaidToSeized the inverse direction, rounding against the liquidator.
func RepaidToSeized(repaidAssets, price, incentive decimal.Decimal) decimal.Decimal {
	return repaidAssets.Mul(incentive).Div(price).Truncate(MaxPrecision)
}

// HealthFactor liquidation-threshold-adjusted collateral value over debt.
// Debt-free positions report HealthMax.
func HealthFactor(collateral, price, liquidationLTV, borrowed decimal.Decimal) decimal.Decimal {
	if !borrowed.IsPositive() {
		return HealthMax
	}

	return collateral.Mul(price).Mul(liquidationLTV).
		Div(borrowed).
		Truncate(MaxPrecision)
}
