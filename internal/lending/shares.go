package lending

import (
	"isolend/pkg/number"

	"github.com/shopspring/decimal"
)

// Asset/share conversions. Both sides of the quotient carry the virtual
// offset; the rounding direction is picked per call site so the pool always
// rounds in its own favor.

func ToSharesDown(assets, totalAssets, totalShares decimal.Decimal) decimal.Decimal {
	return assets.Mul(totalShares.Add(VirtualShares)).
		Div(totalAssets.Add(VirtualAssets)).
		Truncate(MaxPrecision)
}

func ToSharesUp(assets, totalAssets, totalShares decimal.Decimal) decimal.Decimal {
	return number.Ceil(
		assets.Mul(totalShares.Add(VirtualShares)).
			Div(totalAssets.Add(VirtualAssets)),
		MaxPrecision,
	)
}

func ToAssetsDown(shares, totalAssets, totalShares decimal.Decimal) decimal.Decimal {
	return shares.Mul(totalAssets.Add(VirtualAssets)).
		Div(totalShares.Add(VirtualShares)).
		Truncate(MaxPrecision)
}

func ToAssetsUp(shares, totalAssets, totalShares decimal.Decimal) decimal.Decimal {
	return number.Ceil(
		shares.Mul(totalAssets.Add(VirtualAssets)).
			Div(totalShares.Add(VirtualShares)),
		MaxPrecision,
	)
}
