package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Balance per-account per-asset token balance. The module's own account
// (System.ModuleID) holds the pooled liquidity of every market.
type Balance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string          `sql:"size:36;unique_index:balance_idx" json:"user_id"`
	AssetID   string          `sql:"size:36;unique_index:balance_idx" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IWalletStore balance store interface
type IWalletStore interface {
	// Find returns a zero-value balance when none is stored yet
	Find(ctx context.Context, userID, assetID string) (*Balance, error)
	FindByUser(ctx context.Context, userID string) ([]*Balance, error)
	Save(ctx context.Context, balance *Balance) error
}

// IWalletService settles token movement between accounts and the module pool.
type IWalletService interface {
	// Pull moves amount of asset from the payer into the module pool
	Pull(ctx context.Context, payerID, assetID string, amount decimal.Decimal) error
	// Push moves amount of asset from the module pool to the receiver
	Push(ctx context.Context, receiverID, assetID string, amount decimal.Decimal) error
	Balance(ctx context.Context, userID, assetID string) (decimal.Decimal, error)
}
