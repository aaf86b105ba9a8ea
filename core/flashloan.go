package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IFlashLoanService uncollateralized single-call loans. The assets are pushed
// to the caller, the callback runs, and assets plus fee are pulled back; no
// market or position state is touched.
type IFlashLoanService interface {
	FlashLoan(ctx context.Context, caller, assetID string, assets decimal.Decimal, data []byte, callback FlashLoanCallback) (*Event, error)
}
