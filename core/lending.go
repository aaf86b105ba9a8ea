package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// ILendingService pooled lending operations. Every call accrues the market's
// interest first, mutates the ledger, runs the optional callback and settles
// the token transfer last.
type ILendingService interface {
	Supply(ctx context.Context, caller, onBehalf string, marketID uint64, assets decimal.Decimal, data []byte, callback SupplyCallback) (*Event, error)
	// Withdraw accepts assets >= MaxAssets as the withdraw-all sentinel.
	Withdraw(ctx context.Context, caller, onBehalf, receiver string, marketID uint64, assets decimal.Decimal) (*Event, error)
	Borrow(ctx context.Context, caller, onBehalf, receiver string, marketID uint64, assets decimal.Decimal) (*Event, error)
	// Repay caps the request at the outstanding debt; the event reports the
	// assets actually repaid.
	Repay(ctx context.Context, caller, onBehalf string, marketID uint64, assets decimal.Decimal, data []byte, callback RepayCallback) (*Event, error)
	SupplyCollateral(ctx context.Context, caller, onBehalf string, marketID uint64, assets decimal.Decimal, data []byte, callback CollateralCallback) (*Event, error)
	WithdrawCollateral(ctx context.Context, caller, onBehalf, receiver string, marketID uint64, assets decimal.Decimal) (*Event, error)
	// SetGrantPermission toggles the delegate grant; setting the current
	// value fails with ErrGrantUnchanged.
	SetGrantPermission(ctx context.Context, granter, delegate string, granted bool) (*Event, error)
}
