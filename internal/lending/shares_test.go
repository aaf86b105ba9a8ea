package lending

import (
	"testing"

	"isolend/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionEmptyPool(t *testing.T) {
	zero := decimal.Zero

	// the virtual offset keeps the initial rate at one share per asset
	shares := ToSharesDown(number.Decimal("100"), zero, zero)
	assert.True(t, shares.Equal(number.Decimal("100")))

	assets := ToAssetsDown(shares, number.Decimal("100"), shares)
	assert.True(t, assets.Equal(number.Decimal("100")))
}

func TestConversionRoundingDirection(t *testing.T) {
	totalAssets := number.Decimal("101.5381")
	totalShares := number.Decimal("100")

	for _, raw := range []string{"0.00000001", "1", "3.33333333", "99.9"} {
		assets := number.Decimal(raw)

		down := ToSharesDown(assets, totalAssets, totalShares)
		up := ToSharesUp(assets, totalAssets, totalShares)
		require.True(t, down.LessThanOrEqual(up), raw)

		// a full cycle through the pool never pays out more than went in
		back := ToAssetsDown(down, totalAssets, totalShares)
		assert.True(t, back.LessThanOrEqual(assets), raw)

		// debt conversions never understate what is owed
		owed := ToAssetsUp(up, totalAssets, totalShares)
		assert.True(t, owed.GreaterThanOrEqual(assets.Truncate(MaxPrecision)), raw)
	}
}

func TestSupplyThenWithdrawRoundTrip(t *testing.T) {
	// supply X into a pool with an awkward rate, withdraw the minted shares
	// immediately: the payout may lose a rounding crumb but never gains
	totalAssets := number.Decimal("777.7777777")
	totalShares := number.Decimal("321.123456789")

	supplied := number.Decimal("12.34567891")
	minted := ToSharesDown(supplied, totalAssets, totalShares)

	payout := ToAssetsDown(
		minted,
		totalAssets.Add(supplied),
		totalShares.Add(minted),
	)
	assert.True(t, payout.LessThanOrEqual(supplied))
	assert.True(t, supplied.Sub(payout).LessThan(number.Decimal("0.0000001")))
}
