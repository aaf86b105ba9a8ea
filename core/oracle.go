package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IPriceOracle prices one market's collateral asset denominated in its loan
// asset. Implementations are external collaborators registered by name.
type IPriceOracle interface {
	// IsPriceProvider self-reports the capability; the registry rejects
	// oracles answering false.
	IsPriceProvider() bool
	GetCollateralTokenPrice(ctx context.Context) (decimal.Decimal, error)
}

// OracleSet registered oracles keyed by the id markets reference.
type OracleSet map[string]IPriceOracle
