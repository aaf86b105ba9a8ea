package views

import (
	"isolend/core"

	"github.com/shopspring/decimal"
)

// Market market view with derived pool figures
type Market struct {
	core.Market
	Liquidity       decimal.Decimal `json:"liquidity"`
	UtilizationRate decimal.Decimal `json:"utilization_rate"`
	BorrowAPY       decimal.Decimal `json:"borrow_apy"`
}

// Position position view with the share balances resolved to asset amounts
type Position struct {
	core.Position
	Supplied     decimal.Decimal `json:"supplied"`
	Borrowed     decimal.Decimal `json:"borrowed"`
	HealthFactor decimal.Decimal `json:"health_factor"`
}
