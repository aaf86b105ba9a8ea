package flashloan

import (
	"context"
	"errors"
	"testing"

	"isolend/core"
	"isolend/core/coretest"
	"isolend/pkg/number"
	"isolend/service/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	moduleID = "module"
	assetID  = "usdt"
)

type flashFn func(ctx context.Context, assets decimal.Decimal, data []byte) error

func (f flashFn) OnFlashLoan(ctx context.Context, assets decimal.Decimal, data []byte) error {
	return f(ctx, assets, data)
}

type env struct {
	ctx     context.Context
	fees    *coretest.FeeStore
	wallets *coretest.WalletStore
	service core.IFlashLoanService
}

func setup(t *testing.T, rate string) *env {
	e := &env{
		ctx:     context.Background(),
		fees:    coretest.NewFeeStore(),
		wallets: coretest.NewWalletStore(),
	}

	cfg, err := e.fees.Config(e.ctx)
	require.Nil(t, err)
	cfg.FlashLoanRate = number.Decimal(rate)
	require.Nil(t, e.fees.SaveConfig(e.ctx, cfg))

	e.wallets.Deposit(moduleID, assetID, number.Decimal("100"))
	e.service = New(e.fees, wallet.New(e.wallets, moduleID))
	return e
}

func (e *env) balance(t *testing.T, userID string) decimal.Decimal {
	b, err := e.wallets.Find(e.ctx, userID, assetID)
	require.Nil(t, err)
	return b.Amount
}

func TestFlashLoan(t *testing.T) {
	e := setup(t, "0.01")

	var seen decimal.Decimal
	cb := flashFn(func(_ context.Context, assets decimal.Decimal, _ []byte) error {
		seen = assets
		// the borrowed principal is spendable here; top up to cover the fee
		e.wallets.Deposit("carol", assetID, number.Decimal("0.1"))
		return nil
	})

	event, err := e.service.FlashLoan(e.ctx, "carol", assetID, number.Decimal("10"), nil, cb)
	require.Nil(t, err)
	assert.True(t, seen.Equal(number.Decimal("10")))
	assert.True(t, event.Fee.Equal(number.Decimal("0.1")))

	// principal returned, fee collected
	assert.True(t, e.balance(t, "carol").IsZero())
	assert.True(t, e.balance(t, moduleID).Equal(number.Decimal("100.1")))

	pool, err := e.fees.Pool(e.ctx, assetID)
	require.Nil(t, err)
	assert.True(t, pool.Amount.Equal(number.Decimal("0.1")))
}

func TestFlashLoanFreeWhenUnset(t *testing.T) {
	e := setup(t, "0")

	cb := flashFn(func(context.Context, decimal.Decimal, []byte) error { return nil })

	event, err := e.service.FlashLoan(e.ctx, "carol", assetID, number.Decimal("10"), nil, cb)
	require.Nil(t, err)
	assert.True(t, event.Fee.IsZero())
	assert.True(t, e.balance(t, moduleID).Equal(number.Decimal("100")))
}

func TestFlashLoanRequiresCallback(t *testing.T) {
	e := setup(t, "0")

	_, err := e.service.FlashLoan(e.ctx, "carol", assetID, number.Decimal("10"), nil, nil)
	assert.Equal(t, core.ErrCallbackRequired, err)
}

func TestFlashLoanCallbackFailure(t *testing.T) {
	e := setup(t, "0.01")

	boom := errors.New("boom")
	cb := flashFn(func(context.Context, decimal.Decimal, []byte) error { return boom })

	_, err := e.service.FlashLoan(e.ctx, "carol", assetID, number.Decimal("10"), nil, cb)
	assert.Equal(t, boom, err)

	// principal reclaimed
	assert.True(t, e.balance(t, "carol").IsZero())
	assert.True(t, e.balance(t, moduleID).Equal(number.Decimal("100")))
}

func TestFlashLoanUnpaid(t *testing.T) {
	e := setup(t, "0.01")

	// carol holds only the principal, one fee short of the repayment pull
	cb := flashFn(func(context.Context, decimal.Decimal, []byte) error { return nil })

	_, err := e.service.FlashLoan(e.ctx, "carol", assetID, number.Decimal("10"), nil, cb)
	assert.Equal(t, core.ErrInsufficientBalance, err)

	// the principal is clawed back; nothing stays drained from the pool
	assert.True(t, e.balance(t, "carol").IsZero())
	assert.True(t, e.balance(t, moduleID).Equal(number.Decimal("100")))
}

func TestFlashLoanExceedsPool(t *testing.T) {
	e := setup(t, "0")

	cb := flashFn(func(context.Context, decimal.Decimal, []byte) error { return nil })

	_, err := e.service.FlashLoan(e.ctx, "carol", assetID, number.Decimal("101"), nil, cb)
	assert.Equal(t, core.ErrInsufficientLiquidity, err)
}
