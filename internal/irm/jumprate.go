package irm

import (
	"context"

	"isolend/core"
	"isolend/internal/lending"

	"github.com/shopspring/decimal"
)

// JumpRate kinked utilization curve: a gentle slope up to the kink point and
// a steep one above it. All curve parameters are annual rates; the reported
// rate is per second.
type JumpRate struct {
	Base       decimal.Decimal
	Multiplier decimal.Decimal
	Jump       decimal.Decimal
	Kink       decimal.Decimal
}

func NewJumpRate(base, multiplier, jump, kink decimal.Decimal) *JumpRate {
	return &JumpRate{
		Base:       base,
		Multiplier: multiplier,
		Jump:       jump,
		Kink:       kink,
	}
}

func (j *JumpRate) IsIrm() bool {
	return true
}

// Utilization borrowed assets over supplied assets, zero for an empty pool.
func (j *JumpRate) Utilization(market *core.Market) decimal.Decimal {
	if !market.TotalSupplyAssets.IsPositive() {
		return decimal.Zero
	}

	return market.TotalBorrowAssets.
		Div(market.TotalSupplyAssets).
		Truncate(lending.MaxPrecision)
}

func (j *JumpRate) BorrowRate(ctx context.Context, market *core.Market) (decimal.Decimal, error) {
	return j.BorrowRateView(ctx, market)
}

func (j *JumpRate) BorrowRateView(_ context.Context, market *core.Market) (decimal.Decimal, error) {
	ur := j.Utilization(market)

	var annual decimal.Decimal
	if ur.LessThanOrEqual(j.Kink) {
		annual = j.Base.Add(ur.Mul(j.Multiplier))
	} else {
		excess := ur.Sub(j.Kink)
		annual = j.Base.
			Add(j.Kink.Mul(j.Multiplier)).
			Add(excess.Mul(j.Jump))
	}

	return annual.
		Div(decimal.NewFromInt(lending.SecondsPerYear)).
		Truncate(lending.MaxPrecision), nil
}
