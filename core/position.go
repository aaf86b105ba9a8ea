package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Position per-market per-account balances, created lazily at zero
type Position struct {
	ID           uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	MarketID     uint64          `sql:"unique_index:position_idx" json:"market_id"`
	UserID       string          `sql:"size:36;unique_index:position_idx" json:"user_id"`
	SupplyShares decimal.Decimal `sql:"type:decimal(32,16)" json:"supply_shares"`
	BorrowShares decimal.Decimal `sql:"type:decimal(32,16)" json:"borrow_shares"`
	Collateral   decimal.Decimal `sql:"type:decimal(32,16)" json:"collateral"`
	Version      int64           `sql:"default:0" json:"version"`
	CreatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPositionStore position store interface
type IPositionStore interface {
	// Find returns a zero-value position when none is stored yet
	Find(ctx context.Context, marketID uint64, userID string) (*Position, error)
	FindByMarket(ctx context.Context, marketID uint64) ([]*Position, error)
	FindByUser(ctx context.Context, userID string) ([]*Position, error)
	Save(ctx context.Context, position *Position) error
}
