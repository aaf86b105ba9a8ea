package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FeeConfig single-row mutable protocol fee configuration, owner controlled.
type FeeConfig struct {
	ID                uint64          `sql:"PRIMARY_KEY" json:"id"`
	FeeRecipientID    string          `sql:"size:36" json:"fee_recipient_id"`
	MarketCreationFee decimal.Decimal `sql:"type:decimal(20,8)" json:"market_creation_fee"`
	FlashLoanRate     decimal.Decimal `sql:"type:decimal(20,8)" json:"flash_loan_rate"`
	Version           int64           `sql:"default:0" json:"version"`
	CreatedAt         time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// FeePool accumulated protocol fees per asset (flash loan fees and market
// creation fees), withdrawable by the owner to the fee recipient.
type FeePool struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID   string          `sql:"size:36;unique_index:fee_pool_idx" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IFeeStore fee config and fee pool store interface
type IFeeStore interface {
	// Config returns the singleton row, zero-value when unset
	Config(ctx context.Context) (*FeeConfig, error)
	SaveConfig(ctx context.Context, cfg *FeeConfig) error
	// Pool returns a zero-value pool when none is stored yet
	Pool(ctx context.Context, assetID string) (*FeePool, error)
	AllPools(ctx context.Context) ([]*FeePool, error)
	SavePool(ctx context.Context, pool *FeePool) error
}
