package lending

import (
	"time"

	"isolend/core"

	"github.com/shopspring/decimal"
)

var (
	two = decimal.New(2, 0)
	six = decimal.New(6, 0)
)

// CompoundFactor approximates e^(rate*seconds) - 1 with the three-term
// Taylor expansion x + x²/2 + x³/6. Close enough for per-second rates over
// realistic gaps, and always non-negative for non-negative rates.
func CompoundFactor(rate decimal.Decimal, seconds int64) decimal.Decimal {
	x := rate.Mul(decimal.NewFromInt(seconds))
	x2 := x.Mul(x)
	x3 := x2.Mul(x)
	return x.Add(x2.Div(two)).Add(x3.Div(six)).Truncate(MaxPrecision)
}

// Accrual result of compounding one market up to a point in time.
type Accrual struct {
	Elapsed   int64
	Interest  decimal.Decimal
	FeeAssets decimal.Decimal
	FeeShares decimal.Decimal
}

// Accrue compounds borrow interest on the market in place. The interest is
// added to both the borrow and supply totals (lender income funded by debt
// growth), and the protocol cut is minted as supply shares priced at the
// post-interest, pre-fee rate. The caller credits Accrual.FeeShares to the
// fee recipient's position and persists the market.
//
// A zero elapsed time is a no-op, which makes accruing twice at the same
// instant free.
func Accrue(market *core.Market, rate decimal.Decimal, at time.Time) *Accrual {
	accrual := &Accrual{Elapsed: at.Unix() - market.LastAccrualAt}
	if accrual.Elapsed <= 0 {
		accrual.Elapsed = 0
		return accrual
	}

	interest := market.TotalBorrowAssets.
		Mul(CompoundFactor(rate, accrual.Elapsed)).
		Truncate(MaxPrecision)

	if interest.IsPositive() {
		market.TotalBorrowAssets = market.TotalBorrowAssets.Add(interest)
		market.TotalSupplyAssets = market.TotalSupplyAssets.Add(interest)

		if market.ProtocolFeeRate.IsPositive() {
			feeAssets := interest.Mul(market.ProtocolFeeRate).Truncate(MaxPrecision)
			// price the fee at the share rate excluding the fee itself,
			// exactly as if the recipient had supplied feeAssets
			feeShares := ToSharesDown(
				feeAssets,
				market.TotalSupplyAssets.Sub(feeAssets),
				market.TotalSupplyShares,
			)
			market.TotalSupplyShares = market.TotalSupplyShares.Add(feeShares)

			accrual.FeeAssets = feeAssets
			accrual.FeeShares = feeShares
		}

		accrual.Interest = interest
	}

	market.LastAccrualAt = at.Unix()
	return accrual
}
