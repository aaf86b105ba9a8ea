package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IAccountService health evaluation and liquidation.
type IAccountService interface {
	// HealthFactor of the position against the market's oracle price;
	// >= 1 is solvent. A position with no debt reports the max sentinel.
	HealthFactor(ctx context.Context, market *Market, position *Position) (decimal.Decimal, error)
	// LiquidateBySeizedAssets: the caller names the collateral to seize and
	// the engine derives the debt to repay through the incentive factor.
	LiquidateBySeizedAssets(ctx context.Context, caller, borrower string, marketID uint64, seizedAssets decimal.Decimal, data []byte, callback LiquidateCallback) (*Event, error)
	// LiquidateByRepaidShares: the inverse entry; the caller names the debt
	// shares to clear and the engine derives the collateral seized.
	LiquidateByRepaidShares(ctx context.Context, caller, borrower string, marketID uint64, repaidShares decimal.Decimal, data []byte, callback LiquidateCallback) (*Event, error)
}
