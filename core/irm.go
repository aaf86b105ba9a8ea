package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// IRateModel derives a market's per-second borrow rate from its state.
// BorrowRate may update internal model state; BorrowRateView never does.
type IRateModel interface {
	// IsIrm self-reports the capability; the registry rejects models
	// answering false.
	IsIrm() bool
	BorrowRate(ctx context.Context, market *Market) (decimal.Decimal, error)
	BorrowRateView(ctx context.Context, market *Market) (decimal.Decimal, error)
}

// RateModelSet registered rate models keyed by the id markets reference.
type RateModelSet map[string]IRateModel

// RateModel owner allow-list entry for one registered rate model.
type RateModel struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Name      string    `sql:"size:36;unique_index:rate_model_idx" json:"name"`
	Allowed   bool      `sql:"default:false" json:"allowed"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IRateModelStore rate model allow-list store interface
type IRateModelStore interface {
	// Find returns a zero-value entry when none is stored yet
	Find(ctx context.Context, name string) (*RateModel, error)
	All(ctx context.Context) ([]*RateModel, error)
	Save(ctx context.Context, model *RateModel) error
	Allowed(ctx context.Context, name string) (bool, error)
}
