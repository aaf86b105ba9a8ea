package account

import (
	"context"
	"testing"

	"isolend/core"
	"isolend/core/coretest"
	"isolend/internal/irm"
	"isolend/internal/lending"
	"isolend/internal/oracle"
	"isolend/pkg/number"
	lendingz "isolend/service/lending"
	"isolend/service/market"
	"isolend/service/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID     = "admin"
	moduleID    = "module"
	nativeAsset = "native"
	loanAsset   = "usdt"
	collAsset   = "btc"
	oracleID    = "static"
	modelID     = "jump"
)

type env struct {
	ctx       context.Context
	markets   *coretest.MarketStore
	positions *coretest.PositionStore
	wallets   *coretest.WalletStore
	walletz   core.IWalletService
	oracle    *oracle.Static
	marketz   core.IMarketService
	lendz     core.ILendingService
	service   core.IAccountService
	marketID  uint64
}

// setup builds a market with alice supplying 100, bob holding 50 collateral
// against 30 of debt, and carol funded to liquidate.
func setup(t *testing.T) *env {
	e := &env{
		ctx:       context.Background(),
		markets:   coretest.NewMarketStore(),
		positions: coretest.NewPositionStore(),
		wallets:   coretest.NewWalletStore(),
		oracle:    oracle.NewStatic(number.Decimal("1")),
	}

	system := &core.System{
		Admins:        []string{adminID},
		ModuleID:      moduleID,
		NativeAssetID: nativeAsset,
	}

	e.walletz = wallet.New(e.wallets, moduleID)
	oracles := core.OracleSet{oracleID: e.oracle}
	models := core.RateModelSet{modelID: irm.NewJumpRate(
		number.Decimal("0.05"),
		decimal.Zero,
		decimal.Zero,
		number.Decimal("0.8"),
	)}

	fees := coretest.NewFeeStore()
	rateModels := coretest.NewRateModelStore()
	grants := coretest.NewGrantStore()

	e.marketz = market.New(e.markets, e.positions, fees, rateModels, e.walletz, oracles, models, system)
	e.service = New(e.markets, e.positions, e.walletz, e.marketz, oracles)
	e.lendz = lendingz.New(e.markets, e.positions, grants, e.walletz, e.marketz, e.service)

	require.Nil(t, e.marketz.AllowRateModel(e.ctx, adminID, modelID, true))

	m, err := e.marketz.CreateMarket(e.ctx, adminID, core.MarketConfig{
		Symbol:            "BTC-USDT",
		AssetID:           loanAsset,
		CollateralAssetID: collAsset,
		OracleID:          oracleID,
		RateModelID:       modelID,
		LiquidationLTV:    number.Decimal("0.8"),
	})
	require.Nil(t, err)
	e.marketID = m.ID

	e.wallets.Deposit("alice", loanAsset, number.Decimal("100"))
	_, err = e.lendz.Supply(e.ctx, "alice", "alice", e.marketID, number.Decimal("100"), nil, nil)
	require.Nil(t, err)

	e.wallets.Deposit("bob", collAsset, number.Decimal("50"))
	_, err = e.lendz.SupplyCollateral(e.ctx, "bob", "bob", e.marketID, number.Decimal("50"), nil, nil)
	require.Nil(t, err)

	_, err = e.lendz.Borrow(e.ctx, "bob", "bob", "bob", e.marketID, number.Decimal("30"))
	require.Nil(t, err)

	e.wallets.Deposit("carol", loanAsset, number.Decimal("40"))
	return e
}

func (e *env) market(t *testing.T) *core.Market {
	m, err := e.markets.Find(e.ctx, e.marketID)
	require.Nil(t, err)
	return m
}

func (e *env) position(t *testing.T, userID string) *core.Position {
	p, err := e.positions.Find(e.ctx, e.marketID, userID)
	require.Nil(t, err)
	return p
}

func (e *env) balance(t *testing.T, userID, assetID string) decimal.Decimal {
	b, err := e.wallets.Find(e.ctx, userID, assetID)
	require.Nil(t, err)
	return b.Amount
}

func TestLiquidateHealthyPosition(t *testing.T) {
	e := setup(t)

	_, err := e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", e.marketID, number.Decimal("10"), nil, nil)
	assert.Equal(t, core.ErrHealthyPosition, err)
}

func TestLiquidateBySeizedAssets(t *testing.T) {
	e := setup(t)

	// collateral halves: 50 * 0.5 * 0.8 / 30 ≈ 0.67
	e.oracle.SetPrice(number.Decimal("0.5"))

	event, err := e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", e.marketID, number.Decimal("20"), nil, nil)
	require.Nil(t, err)
	assert.Equal(t, core.EventLiquidated, event.Type)
	assert.True(t, event.Seized.Equal(number.Decimal("20")))

	// ltv 0.8 pins the incentive at 1.06: repaid ≈ 20 * 0.5 / 1.06
	repaid, _ := event.Assets.Float64()
	assert.InDelta(t, 9.4340, repaid, 0.001)
	assert.True(t, event.BadDebt.IsZero())

	bob := e.position(t, "bob")
	assert.True(t, bob.Collateral.Equal(number.Decimal("30")))
	assert.True(t, bob.BorrowShares.IsPositive())

	assert.True(t, e.balance(t, "carol", collAsset).Equal(number.Decimal("20")))
	paid := number.Decimal("40").Sub(e.balance(t, "carol", loanAsset))
	assert.True(t, paid.Equal(event.Assets))
}

func TestLiquidateByRepaidShares(t *testing.T) {
	e := setup(t)
	e.oracle.SetPrice(number.Decimal("0.5"))

	event, err := e.service.LiquidateByRepaidShares(e.ctx, "carol", "bob", e.marketID, number.Decimal("10"), nil, nil)
	require.Nil(t, err)
	assert.True(t, event.Shares.Equal(number.Decimal("10")))

	// seized ≈ 10 * 1.06 / 0.5
	seized, _ := event.Seized.Float64()
	assert.InDelta(t, 21.2, seized, 0.001)
	assert.True(t, event.BadDebt.IsZero())
}

func TestLiquidateSeizeDirectionSymmetry(t *testing.T) {
	e := setup(t)
	e.oracle.SetPrice(number.Decimal("0.5"))

	bySeized, err := e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", e.marketID, number.Decimal("10.6"), nil, nil)
	require.Nil(t, err)

	// repaying the same shares the first entry cleared seizes the same
	// collateral, modulo rounding in the liquidator's disfavor
	byShares, err := e.service.LiquidateByRepaidShares(e.ctx, "carol", "bob", e.marketID, bySeized.Shares, nil, nil)
	require.Nil(t, err)

	diff := byShares.Seized.Sub(bySeized.Seized).Abs()
	assert.True(t, diff.LessThan(number.Decimal("0.0001")))
}

func TestLiquidateGuards(t *testing.T) {
	e := setup(t)
	e.oracle.SetPrice(number.Decimal("0.5"))

	_, err := e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", e.marketID, decimal.Zero, nil, nil)
	assert.Equal(t, core.ErrInvalidAmount, err)

	// more collateral than the position holds
	_, err = e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", e.marketID, number.Decimal("51"), nil, nil)
	assert.Equal(t, core.ErrInsufficientCollateral, err)

	// more shares than the position owes
	_, err = e.service.LiquidateByRepaidShares(e.ctx, "carol", "bob", e.marketID, number.Decimal("31"), nil, nil)
	assert.Equal(t, core.ErrInvalidAmount, err)

	_, err = e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", e.marketID, number.Decimal("10"), []byte("x"), nil)
	assert.Equal(t, core.ErrCallbackRequired, err)

	_, err = e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", 999, number.Decimal("10"), nil, nil)
	assert.Equal(t, core.ErrMarketNotFound, err)
}

func TestLiquidateSeizePushFailureRefunds(t *testing.T) {
	e := setup(t)
	e.oracle.SetPrice(number.Decimal("0.5"))

	// drain the module's collateral holdings so the seize payout cannot settle
	require.Nil(t, e.walletz.Push(e.ctx, "sink", collAsset, number.Decimal("50")))

	before := e.market(t)
	carolBefore := e.balance(t, "carol", loanAsset)

	_, err := e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", e.marketID, number.Decimal("20"), nil, nil)
	assert.Equal(t, core.ErrInsufficientLiquidity, err)

	// the repayment already pulled comes back and the ledger rolls back
	assert.True(t, e.balance(t, "carol", loanAsset).Equal(carolBefore))

	bob := e.position(t, "bob")
	assert.True(t, bob.Collateral.Equal(number.Decimal("50")))

	after := e.market(t)
	assert.True(t, after.TotalBorrowShares.Equal(before.TotalBorrowShares))
}

func TestLiquidateSocializesBadDebt(t *testing.T) {
	e := setup(t)

	// deep crash: the whole collateral no longer covers the debt
	e.oracle.SetPrice(number.Decimal("0.2"))

	before := e.market(t)

	event, err := e.service.LiquidateBySeizedAssets(e.ctx, "carol", "bob", e.marketID, number.Decimal("50"), nil, nil)
	require.Nil(t, err)
	assert.True(t, event.Seized.Equal(number.Decimal("50")))

	// 50 * 0.2 / 1.06 ≈ 9.43 repaid, the rest is written off
	badDebt, _ := event.BadDebt.Float64()
	assert.InDelta(t, 20.57, badDebt, 0.01)

	bob := e.position(t, "bob")
	assert.True(t, bob.Collateral.IsZero())
	assert.True(t, bob.BorrowShares.IsZero())

	after := e.market(t)
	assert.True(t, after.TotalBorrowShares.IsZero())
	assert.True(t, after.TotalBorrowAssets.LessThan(number.Decimal("0.0001")))

	// suppliers absorb the loss
	loss := before.TotalSupplyAssets.Sub(after.TotalSupplyAssets)
	got, _ := loss.Float64()
	assert.InDelta(t, 20.57, got, 0.01)
}

func TestHealthFactorTracksPrice(t *testing.T) {
	e := setup(t)

	hf, err := e.service.HealthFactor(e.ctx, e.market(t), e.position(t, "bob"))
	require.Nil(t, err)
	got, _ := hf.Float64()
	assert.InDelta(t, 1.3333, got, 0.001)

	e.oracle.SetPrice(number.Decimal("0.5"))
	hf, err = e.service.HealthFactor(e.ctx, e.market(t), e.position(t, "bob"))
	require.Nil(t, err)
	got, _ = hf.Float64()
	assert.InDelta(t, 0.6667, got, 0.001)

	// debt free position reports the sentinel
	hf, err = e.service.HealthFactor(e.ctx, e.market(t), e.position(t, "alice"))
	require.Nil(t, err)
	assert.True(t, hf.Equal(lending.HealthMax))
}
