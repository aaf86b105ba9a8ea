package lending

import (
	"isolend/pkg/number"

	"github.com/shopspring/decimal"
)

var (
	// MaxPrecision internal precision of shares, totals and ratios
	MaxPrecision int32 = 16
	// AmountPrecision precision of external token amounts
	AmountPrecision int32 = 8

	// VirtualAssets and VirtualShares pad both sides of every asset/share
	// conversion: one smallest asset unit each. Division by zero becomes
	// impossible and a first depositor cannot inflate the share price by
	// donating into an empty pool.
	VirtualAssets = number.Decimal("0.00000001")
	VirtualShares = number.Decimal("0.00000001")

	// MaxLiquidationIncentive protocol-wide cap of the incentive factor
	MaxLiquidationIncentive = number.Decimal("1.15")
	// IncentiveIntercept / IncentiveSlope define the linear incentive curve
	// incentive = intercept - slope * ltv: thinner collateral buffers
	// (higher ltv) earn liquidators less.
	IncentiveIntercept = number.Decimal("1.3")
	IncentiveSlope     = number.Decimal("0.3")

	// MaxProtocolFeeRate cap of the per-market interest fee cut
	MaxProtocolFeeRate = number.Decimal("0.25")
	// MaxFlashLoanRate cap of the global flash loan fee rate
	MaxFlashLoanRate = number.Decimal("0.05")

	// HealthMax reported for positions with no debt
	HealthMax = decimal.New(1, 12)

	// One the solvency threshold of the health factor
	One = decimal.New(1, 0)
)

// SecondsPerYear converts annual rates to per-second rates.
const SecondsPerYear int64 = 31536000
