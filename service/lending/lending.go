package lending

import (
	"context"
	"time"

	"isolend/core"
	"isolend/internal/lending"
	"isolend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type lendingService struct {
	markets   core.IMarketStore
	positions core.IPositionStore
	grants    core.IGrantStore
	wallets   core.IWalletService
	marketz   core.IMarketService
	accountz  core.IAccountService
}

// New returns the pooled lending service.
func New(
	markets core.IMarketStore,
	positions core.IPositionStore,
	grants core.IGrantStore,
	wallets core.IWalletService,
	marketz core.IMarketService,
	accountz core.IAccountService,
) core.ILendingService {
	return &lendingService{
		markets:   markets,
		positions: positions,
		grants:    grants,
		wallets:   wallets,
		marketz:   marketz,
		accountz:  accountz,
	}
}

func (s *lendingService) Supply(ctx context.Context, caller, onBehalf string, marketID uint64, assets decimal.Decimal, data []byte, callback core.SupplyCallback) (*core.Event, error) {
	assets = assets.Truncate(lending.AmountPrecision)
	if err := validAmount(assets); err != nil {
		return nil, err
	}
	if len(data) > 0 && callback == nil {
		return nil, core.ErrCallbackRequired
	}

	if ok, err := s.authorized(ctx, caller, onBehalf); err != nil {
		return nil, err
	} else if !ok {
		return nil, core.ErrUnauthorized
	}

	market, feeShares, err := s.accruedMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, marketID, onBehalf)
	if err != nil {
		return nil, err
	}

	shares := lending.ToSharesDown(assets, market.TotalSupplyAssets, market.TotalSupplyShares)

	market.TotalSupplyAssets = market.TotalSupplyAssets.Add(assets)
	market.TotalSupplyShares = market.TotalSupplyShares.Add(shares)
	position.SupplyShares = position.SupplyShares.Add(shares)

	if err := s.persist(ctx, market, position, feeShares); err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := callback.OnSupply(ctx, assets, data); err != nil {
			return nil, s.revert(ctx, marketID, onBehalf, err, func(m *core.Market, p *core.Position) {
				m.TotalSupplyAssets = m.TotalSupplyAssets.Sub(assets)
				m.TotalSupplyShares = m.TotalSupplyShares.Sub(shares)
				p.SupplyShares = p.SupplyShares.Sub(shares)
			})
		}
	}

	if err := s.wallets.Pull(ctx, caller, market.AssetID, assets); err != nil {
		return nil, s.revert(ctx, marketID, onBehalf, err, func(m *core.Market, p *core.Position) {
			m.TotalSupplyAssets = m.TotalSupplyAssets.Sub(assets)
			m.TotalSupplyShares = m.TotalSupplyShares.Sub(shares)
			p.SupplyShares = p.SupplyShares.Sub(shares)
		})
	}

	return core.Emit(ctx, &core.Event{
		Type:     core.EventSupplied,
		MarketID: marketID,
		Caller:   caller,
		OnBehalf: onBehalf,
		Assets:   assets,
		Shares:   shares,
	}), nil
}

func (s *lendingService) Withdraw(ctx context.Context, caller, onBehalf, receiver string, marketID uint64, assets decimal.Decimal) (*core.Event, error) {
	if !assets.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	if ok, err := s.authorized(ctx, caller, onBehalf); err != nil {
		return nil, err
	} else if !ok {
		return nil, core.ErrUnauthorized
	}

	market, feeShares, err := s.accruedMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, marketID, onBehalf)
	if err != nil {
		return nil, err
	}

	var shares decimal.Decimal
	if assets.GreaterThanOrEqual(core.MaxAssets) {
		// withdraw-all: convert the full share balance instead
		shares = position.SupplyShares
		assets = lending.ToAssetsDown(shares, market.TotalSupplyAssets, market.TotalSupplyShares).
			Truncate(lending.AmountPrecision)
	} else {
		assets = assets.Truncate(lending.AmountPrecision)
		shares = lending.ToSharesUp(assets, market.TotalSupplyAssets, market.TotalSupplyShares)
	}

	if !shares.IsPositive() || shares.GreaterThan(position.SupplyShares) {
		return nil, core.ErrInsufficientBalance
	}

	market.TotalSupplyAssets = market.TotalSupplyAssets.Sub(assets)
	market.TotalSupplyShares = market.TotalSupplyShares.Sub(shares)
	position.SupplyShares = position.SupplyShares.Sub(shares)

	if market.TotalBorrowAssets.GreaterThan(market.TotalSupplyAssets) {
		return nil, core.ErrInsufficientLiquidity
	}

	if err := s.persist(ctx, market, position, feeShares); err != nil {
		return nil, err
	}

	if err := s.wallets.Push(ctx, receiver, market.AssetID, assets); err != nil {
		return nil, s.revert(ctx, marketID, onBehalf, err, func(m *core.Market, p *core.Position) {
			m.TotalSupplyAssets = m.TotalSupplyAssets.Add(assets)
			m.TotalSupplyShares = m.TotalSupplyShares.Add(shares)
			p.SupplyShares = p.SupplyShares.Add(shares)
		})
	}

	return core.Emit(ctx, &core.Event{
		Type:     core.EventWithdrawn,
		MarketID: marketID,
		Caller:   caller,
		OnBehalf: onBehalf,
		Receiver: receiver,
		Assets:   assets,
		Shares:   shares,
	}), nil
}

func (s *lendingService) Borrow(ctx context.Context, caller, onBehalf, receiver string, marketID uint64, assets decimal.Decimal) (*core.Event, error) {
	assets = assets.Truncate(lending.AmountPrecision)
	if err := validAmount(assets); err != nil {
		return nil, err
	}

	if ok, err := s.authorized(ctx, caller, onBehalf); err != nil {
		return nil, err
	} else if !ok {
		return nil, core.ErrUnauthorized
	}

	market, feeShares, err := s.accruedMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, marketID, onBehalf)
	if err != nil {
		return nil, err
	}

	shares := lending.ToSharesUp(assets, market.TotalBorrowAssets, market.TotalBorrowShares)

	market.TotalBorrowAssets = market.TotalBorrowAssets.Add(assets)
	market.TotalBorrowShares = market.TotalBorrowShares.Add(shares)
	position.BorrowShares = position.BorrowShares.Add(shares)

	if market.TotalBorrowAssets.GreaterThan(market.TotalSupplyAssets) {
		return nil, core.ErrInsufficientLiquidity
	}

	if hf, err := s.accountz.HealthFactor(ctx, market, position); err != nil {
		return nil, err
	} else if hf.LessThan(lending.One) {
		return nil, core.ErrInsufficientCollateral
	}

	if err := s.persist(ctx, market, position, feeShares); err != nil {
		return nil, err
	}

	if err := s.wallets.Push(ctx, receiver, market.AssetID, assets); err != nil {
		return nil, s.revert(ctx, marketID, onBehalf, err, func(m *core.Market, p *core.Position) {
			m.TotalBorrowAssets = m.TotalBorrowAssets.Sub(assets)
			m.TotalBorrowShares = m.TotalBorrowShares.Sub(shares)
			p.BorrowShares = p.BorrowShares.Sub(shares)
		})
	}

	return core.Emit(ctx, &core.Event{
		Type:     core.EventBorrowed,
		MarketID: marketID,
		Caller:   caller,
		OnBehalf: onBehalf,
		Receiver: receiver,
		Assets:   assets,
		Shares:   shares,
	}), nil
}

func (s *lendingService) Repay(ctx context.Context, caller, onBehalf string, marketID uint64, assets decimal.Decimal, data []byte, callback core.RepayCallback) (*core.Event, error) {
	assets = assets.Truncate(lending.AmountPrecision)
	if err := validAmount(assets); err != nil {
		return nil, err
	}
	if len(data) > 0 && callback == nil {
		return nil, core.ErrCallbackRequired
	}

	if ok, err := s.authorized(ctx, caller, onBehalf); err != nil {
		return nil, err
	} else if !ok {
		return nil, core.ErrUnauthorized
	}

	market, feeShares, err := s.accruedMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, marketID, onBehalf)
	if err != nil {
		return nil, err
	}
	if !position.BorrowShares.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	shares := lending.ToSharesDown(assets, market.TotalBorrowAssets, market.TotalBorrowShares)
	if shares.GreaterThan(position.BorrowShares) {
		// cap at the outstanding debt and charge what those shares are worth
		shares = position.BorrowShares
		assets = number.Ceil(
			lending.ToAssetsUp(shares, market.TotalBorrowAssets, market.TotalBorrowShares),
			lending.AmountPrecision,
		)
	}
	if !shares.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	market.TotalBorrowAssets = number.Max(market.TotalBorrowAssets.Sub(assets), decimal.Zero)
	market.TotalBorrowShares = market.TotalBorrowShares.Sub(shares)
	position.BorrowShares = position.BorrowShares.Sub(shares)

	if err := s.persist(ctx, market, position, feeShares); err != nil {
		return nil, err
	}

	compensate := func(m *core.Market, p *core.Position) {
		m.TotalBorrowAssets = m.TotalBorrowAssets.Add(assets)
		m.TotalBorrowShares = m.TotalBorrowShares.Add(shares)
		p.BorrowShares = p.BorrowShares.Add(shares)
	}

	if len(data) > 0 {
		if err := callback.OnRepay(ctx, assets, data); err != nil {
			return nil, s.revert(ctx, marketID, onBehalf, err, compensate)
		}
	}

	if err := s.wallets.Pull(ctx, caller, market.AssetID, assets); err != nil {
		return nil, s.revert(ctx, marketID, onBehalf, err, compensate)
	}

	return core.Emit(ctx, &core.Event{
		Type:     core.EventRepaid,
		MarketID: marketID,
		Caller:   caller,
		OnBehalf: onBehalf,
		Assets:   assets,
		Shares:   shares,
	}), nil
}

func (s *lendingService) SupplyCollateral(ctx context.Context, caller, onBehalf string, marketID uint64, assets decimal.Decimal, data []byte, callback core.CollateralCallback) (*core.Event, error) {
	assets = assets.Truncate(lending.AmountPrecision)
	if err := validAmount(assets); err != nil {
		return nil, err
	}
	if len(data) > 0 && callback == nil {
		return nil, core.ErrCallbackRequired
	}

	if ok, err := s.authorized(ctx, caller, onBehalf); err != nil {
		return nil, err
	} else if !ok {
		return nil, core.ErrUnauthorized
	}

	market, feeShares, err := s.accruedMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, marketID, onBehalf)
	if err != nil {
		return nil, err
	}

	position.Collateral = position.Collateral.Add(assets)

	if err := s.persist(ctx, market, position, feeShares); err != nil {
		return nil, err
	}

	compensate := func(_ *core.Market, p *core.Position) {
		p.Collateral = p.Collateral.Sub(assets)
	}

	if len(data) > 0 {
		if err := callback.OnSupplyCollateral(ctx, assets, data); err != nil {
			return nil, s.revert(ctx, marketID, onBehalf, err, compensate)
		}
	}

	if err := s.wallets.Pull(ctx, caller, market.CollateralAssetID, assets); err != nil {
		return nil, s.revert(ctx, marketID, onBehalf, err, compensate)
	}

	return core.Emit(ctx, &core.Event{
		Type:     core.EventCollateralSupplied,
		MarketID: marketID,
		Caller:   caller,
		OnBehalf: onBehalf,
		Assets:   assets,
	}), nil
}

func (s *lendingService) WithdrawCollateral(ctx context.Context, caller, onBehalf, receiver string, marketID uint64, assets decimal.Decimal) (*core.Event, error) {
	if !assets.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	if ok, err := s.authorized(ctx, caller, onBehalf); err != nil {
		return nil, err
	} else if !ok {
		return nil, core.ErrUnauthorized
	}

	market, feeShares, err := s.accruedMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, marketID, onBehalf)
	if err != nil {
		return nil, err
	}

	if assets.GreaterThanOrEqual(core.MaxAssets) {
		assets = position.Collateral
	} else {
		assets = assets.Truncate(lending.AmountPrecision)
	}

	// exceeding the held amount is a balance problem; the collateral error is
	// reserved for the health check below
	if !assets.IsPositive() || assets.GreaterThan(position.Collateral) {
		return nil, core.ErrInsufficientBalance
	}

	position.Collateral = position.Collateral.Sub(assets)

	if hf, err := s.accountz.HealthFactor(ctx, market, position); err != nil {
		return nil, err
	} else if hf.LessThan(lending.One) {
		return nil, core.ErrInsufficientCollateral
	}

	if err := s.persist(ctx, market, position, feeShares); err != nil {
		return nil, err
	}

	if err := s.wallets.Push(ctx, receiver, market.CollateralAssetID, assets); err != nil {
		return nil, s.revert(ctx, marketID, onBehalf, err, func(_ *core.Market, p *core.Position) {
			p.Collateral = p.Collateral.Add(assets)
		})
	}

	return core.Emit(ctx, &core.Event{
		Type:     core.EventCollateralWithdrawn,
		MarketID: marketID,
		Caller:   caller,
		OnBehalf: onBehalf,
		Receiver: receiver,
		Assets:   assets,
	}), nil
}

func (s *lendingService) SetGrantPermission(ctx context.Context, granter, delegate string, granted bool) (*core.Event, error) {
	grant, err := s.grants.Find(ctx, granter, delegate)
	if err != nil {
		return nil, err
	}

	if grant.Granted == granted {
		return nil, core.ErrGrantUnchanged
	}

	grant.Granted = granted
	if err := s.grants.Save(ctx, grant); err != nil {
		return nil, err
	}

	return core.Emit(ctx, &core.Event{
		Type:     core.EventGrantUpdated,
		Caller:   granter,
		OnBehalf: delegate,
	}), nil
}

func (s *lendingService) authorized(ctx context.Context, caller, onBehalf string) (bool, error) {
	if caller == onBehalf {
		return true, nil
	}

	return s.grants.Allowed(ctx, onBehalf, caller)
}

// accruedMarket loads the market and compounds its interest up to now. The
// caller persists the market together with the position it touches and hands
// the returned fee shares back to persist; an aborted operation drops both.
func (s *lendingService) accruedMarket(ctx context.Context, marketID uint64) (*core.Market, decimal.Decimal, error) {
	market, err := s.markets.Find(ctx, marketID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if !market.Exists() {
		return nil, decimal.Zero, core.ErrMarketNotFound
	}

	feeShares, err := s.marketz.AccrueInterest(ctx, market, time.Now())
	if err != nil {
		return nil, decimal.Zero, err
	}

	return market, feeShares, nil
}

func (s *lendingService) persist(ctx context.Context, market *core.Market, position *core.Position, feeShares decimal.Decimal) error {
	if err := s.markets.Update(ctx, market); err != nil {
		return err
	}

	if err := s.positions.Save(ctx, position); err != nil {
		return err
	}

	// an uncredited fee leaves the minted shares unowned, which only ever
	// favors the remaining suppliers; the committed operation stands
	if err := s.marketz.CreditFeeShares(ctx, market.ID, feeShares); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("creditFeeShares")
	}

	return nil
}

// revert undoes committed ledger deltas after a failed callback or transfer
// and surfaces the original error. The deltas are re-applied inversely on
// fresh copies so concurrent accruals are preserved.
func (s *lendingService) revert(ctx context.Context, marketID uint64, userID string, cause error, undo func(*core.Market, *core.Position)) error {
	log := logger.FromContext(ctx).WithField("market", marketID)

	market, err := s.markets.Find(ctx, marketID)
	if err != nil {
		log.WithError(err).Errorln("revert: markets.Find")
		return cause
	}

	position, err := s.positions.Find(ctx, marketID, userID)
	if err != nil {
		log.WithError(err).Errorln("revert: positions.Find")
		return cause
	}

	undo(market, position)

	if err := s.persist(ctx, market, position, decimal.Zero); err != nil {
		log.WithError(err).Errorln("revert: persist")
	}

	return cause
}

func validAmount(assets decimal.Decimal) error {
	if !assets.IsPositive() {
		return core.ErrInvalidAmount
	}
	if assets.GreaterThanOrEqual(core.MaxAssets) {
		return core.ErrAmountOverflow
	}

	return nil
}
