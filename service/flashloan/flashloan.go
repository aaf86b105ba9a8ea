package flashloan

import (
	"context"

	"isolend/core"
	"isolend/internal/lending"
	"isolend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type flashLoanService struct {
	fees    core.IFeeStore
	wallets core.IWalletService
}

// New returns the flash loan service. Loans draw on the module pool directly
// and leave market and position state untouched.
func New(fees core.IFeeStore, wallets core.IWalletService) core.IFlashLoanService {
	return &flashLoanService{
		fees:    fees,
		wallets: wallets,
	}
}

func (s *flashLoanService) FlashLoan(ctx context.Context, caller, assetID string, assets decimal.Decimal, data []byte, callback core.FlashLoanCallback) (*core.Event, error) {
	assets = assets.Truncate(lending.AmountPrecision)
	if !assets.IsPositive() {
		return nil, core.ErrInvalidAmount
	}
	if assets.GreaterThanOrEqual(core.MaxAssets) {
		return nil, core.ErrAmountOverflow
	}
	if callback == nil {
		return nil, core.ErrCallbackRequired
	}

	cfg, err := s.fees.Config(ctx)
	if err != nil {
		return nil, err
	}

	fee := number.Ceil(assets.Mul(cfg.FlashLoanRate), lending.AmountPrecision)

	if err := s.wallets.Push(ctx, caller, assetID, assets); err != nil {
		return nil, err
	}

	if err := callback.OnFlashLoan(ctx, assets, data); err != nil {
		// reclaim the pushed principal so the pool stays whole
		if pullErr := s.wallets.Pull(ctx, caller, assetID, assets); pullErr != nil {
			logger.FromContext(ctx).WithError(pullErr).Errorln("flashloan: reclaim principal")
		}
		return nil, err
	}

	if err := s.wallets.Pull(ctx, caller, assetID, assets.Add(fee)); err != nil {
		// the borrower cannot cover principal + fee; claw the principal back
		// so the pool stays whole
		if pullErr := s.wallets.Pull(ctx, caller, assetID, assets); pullErr != nil {
			logger.FromContext(ctx).WithError(pullErr).Errorln("flashloan: reclaim principal")
		}
		return nil, err
	}

	if fee.IsPositive() {
		pool, err := s.fees.Pool(ctx, assetID)
		if err != nil {
			return nil, err
		}

		pool.Amount = pool.Amount.Add(fee)
		if err := s.fees.SavePool(ctx, pool); err != nil {
			return nil, err
		}
	}

	return core.Emit(ctx, &core.Event{
		Type:   core.EventFlashLoan,
		Caller: caller,
		Assets: assets,
		Fee:    fee,
	}), nil
}
