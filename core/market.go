package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MaxAssets is the largest amount a decimal(20,8) column holds. It doubles as
// the withdraw-all sentinel: a withdraw request for MaxAssets or more converts
// the caller's full share balance instead.
var MaxAssets = decimal.New(1, 12)

// Market pairs one loan asset with one collateral asset. The identity fields
// (assets, oracle, rate model, liquidation ltv) are fixed at creation; only
// the pool totals, the accrual clock and the protocol fee rate move.
type Market struct {
	ID                uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Symbol            string          `sql:"size:20;unique_index:symbol_idx" json:"symbol"`
	AssetID           string          `sql:"size:36;index:asset_idx" json:"asset_id"`
	CollateralAssetID string          `sql:"size:36" json:"collateral_asset_id"`
	OracleID          string          `sql:"size:36" json:"oracle_id"`
	RateModelID       string          `sql:"size:36" json:"rate_model_id"`
	// 最大借贷抵押率 [0, 1)
	LiquidationLTV    decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_ltv"`
	ProtocolFeeRate   decimal.Decimal `sql:"type:decimal(20,8)" json:"protocol_fee_rate"`
	TotalSupplyAssets decimal.Decimal `sql:"type:decimal(32,16)" json:"total_supply_assets"`
	TotalSupplyShares decimal.Decimal `sql:"type:decimal(32,16)" json:"total_supply_shares"`
	TotalBorrowAssets decimal.Decimal `sql:"type:decimal(32,16)" json:"total_borrow_assets"`
	TotalBorrowShares decimal.Decimal `sql:"type:decimal(32,16)" json:"total_borrow_shares"`
	// unix seconds of the last interest accrual; 0 means the market does not exist
	LastAccrualAt int64     `sql:"default:0" json:"last_accrual_at"`
	Version       int64     `sql:"default:0" json:"version"`
	CreatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Exists reports whether the market has been initialised by the registry.
func (m *Market) Exists() bool {
	return m != nil && m.LastAccrualAt > 0
}

// Liquidity is the loan-asset amount still available to borrow or withdraw.
func (m *Market) Liquidity() decimal.Decimal {
	return m.TotalSupplyAssets.Sub(m.TotalBorrowAssets)
}

// MarketConfig carries the immutable parameters of CreateMarket.
type MarketConfig struct {
	Symbol            string          `json:"symbol"`
	AssetID           string          `json:"asset_id"`
	CollateralAssetID string          `json:"collateral_asset_id"`
	OracleID          string          `json:"oracle_id"`
	RateModelID       string          `json:"rate_model_id"`
	LiquidationLTV    decimal.Decimal `json:"liquidation_ltv"`
}

// IMarketStore market store interface
type IMarketStore interface {
	Create(ctx context.Context, market *Market) error
	Find(ctx context.Context, id uint64) (*Market, error)
	FindBySymbol(ctx context.Context, symbol string) (*Market, error)
	All(ctx context.Context) ([]*Market, error)
	Update(ctx context.Context, market *Market) error
}

// IMarketService market registry and accrual interface
type IMarketService interface {
	CreateMarket(ctx context.Context, caller string, cfg MarketConfig) (*Market, error)
	// AccrueInterest compounds borrow interest on the in-memory market up to
	// the given time. Minted protocol fee shares are returned, not persisted:
	// the caller credits them through CreditFeeShares only after the market
	// itself has been committed, so an aborted operation leaves no orphan
	// shares behind.
	AccrueInterest(ctx context.Context, market *Market, at time.Time) (decimal.Decimal, error)
	// CreditFeeShares adds fee shares minted by AccrueInterest to the fee
	// recipient's position.
	CreditFeeShares(ctx context.Context, marketID uint64, shares decimal.Decimal) error
	// AccrueMarket loads, accrues and persists one market.
	AccrueMarket(ctx context.Context, marketID uint64, at time.Time) error
	SetProtocolFee(ctx context.Context, caller string, marketID uint64, rate decimal.Decimal) error
	AllowRateModel(ctx context.Context, caller, name string, allowed bool) error
	SetMarketCreationFee(ctx context.Context, caller string, fee decimal.Decimal) error
	SetFlashLoanRate(ctx context.Context, caller string, rate decimal.Decimal) error
	SetFeeRecipient(ctx context.Context, caller, recipientID string) error
	WithdrawFees(ctx context.Context, caller, assetID string, amount decimal.Decimal) error
}
