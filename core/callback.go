package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Caller callbacks. The data-carrying operations invoke them only when a
// non-empty payload is supplied; ledger state is already committed for the
// issuing side when a callback runs, the pull settles afterwards.

type SupplyCallback interface {
	OnSupply(ctx context.Context, assets decimal.Decimal, data []byte) error
}

type RepayCallback interface {
	OnRepay(ctx context.Context, assets decimal.Decimal, data []byte) error
}

type CollateralCallback interface {
	OnSupplyCollateral(ctx context.Context, assets decimal.Decimal, data []byte) error
}

type LiquidateCallback interface {
	OnLiquidate(ctx context.Context, repaidAssets decimal.Decimal, data []byte) error
}

// FlashLoanCallback is mandatory: the borrowed assets only exist inside it.
type FlashLoanCallback interface {
	OnFlashLoan(ctx context.Context, assets decimal.Decimal, data []byte) error
}
