package account

import (
	"context"
	"time"

	"isolend/core"
	"isolend/internal/lending"
	"isolend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type accountService struct {
	markets   core.IMarketStore
	positions core.IPositionStore
	wallets   core.IWalletService
	marketz   core.IMarketService
	oracles   core.OracleSet
}

// New returns the health evaluation and liquidation service.
func New(
	markets core.IMarketStore,
	positions core.IPositionStore,
	wallets core.IWalletService,
	marketz core.IMarketService,
	oracles core.OracleSet,
) core.IAccountService {
	return &accountService{
		markets:   markets,
		positions: positions,
		wallets:   wallets,
		marketz:   marketz,
		oracles:   oracles,
	}
}

func (s *accountService) HealthFactor(ctx context.Context, market *core.Market, position *core.Position) (decimal.Decimal, error) {
	price, err := s.price(ctx, market)
	if err != nil {
		return decimal.Zero, err
	}

	borrowed := lending.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares)
	return lending.HealthFactor(position.Collateral, price, market.LiquidationLTV, borrowed), nil
}

func (s *accountService) LiquidateBySeizedAssets(ctx context.Context, caller, borrower string, marketID uint64, seizedAssets decimal.Decimal, data []byte, callback core.LiquidateCallback) (*core.Event, error) {
	seizedAssets = seizedAssets.Truncate(lending.AmountPrecision)
	return s.liquidate(ctx, caller, borrower, marketID, seizedAssets, decimal.Zero, data, callback)
}

func (s *accountService) LiquidateByRepaidShares(ctx context.Context, caller, borrower string, marketID uint64, repaidShares decimal.Decimal, data []byte, callback core.LiquidateCallback) (*core.Event, error) {
	return s.liquidate(ctx, caller, borrower, marketID, decimal.Zero, repaidShares, data, callback)
}

// liquidate the shared path behind both entries; exactly one of seizedAssets
// and repaidShares is positive, the other side is derived through the
// incentive factor.
func (s *accountService) liquidate(ctx context.Context, caller, borrower string, marketID uint64, seizedAssets, repaidShares decimal.Decimal, data []byte, callback core.LiquidateCallback) (*core.Event, error) {
	if !seizedAssets.IsPositive() && !repaidShares.IsPositive() {
		return nil, core.ErrInvalidAmount
	}
	if len(data) > 0 && callback == nil {
		return nil, core.ErrCallbackRequired
	}

	market, err := s.markets.Find(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if !market.Exists() {
		return nil, core.ErrMarketNotFound
	}

	feeShares, err := s.marketz.AccrueInterest(ctx, market, time.Now())
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, marketID, borrower)
	if err != nil {
		return nil, err
	}

	price, err := s.price(ctx, market)
	if err != nil {
		return nil, err
	}

	borrowed := lending.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares)
	if lending.HealthFactor(position.Collateral, price, market.LiquidationLTV, borrowed).
		GreaterThanOrEqual(lending.One) {
		return nil, core.ErrHealthyPosition
	}

	incentive := lending.IncentiveFactor(market.LiquidationLTV)

	var repaidAssets decimal.Decimal
	if seizedAssets.IsPositive() {
		if seizedAssets.GreaterThan(position.Collateral) {
			return nil, core.ErrInsufficientCollateral
		}

		repaidAssets = lending.SeizedToRepaid(seizedAssets, price, incentive)
		repaidShares = lending.ToSharesUp(repaidAssets, market.TotalBorrowAssets, market.TotalBorrowShares)
		if repaidShares.GreaterThan(position.BorrowShares) {
			return nil, core.ErrInvalidAmount
		}
	} else {
		if repaidShares.GreaterThan(position.BorrowShares) {
			return nil, core.ErrInvalidAmount
		}

		seizedAssets = lending.RepaidToSeized(
			lending.ToAssetsDown(repaidShares, market.TotalBorrowAssets, market.TotalBorrowShares),
			price,
			incentive,
		)
		if seizedAssets.GreaterThan(position.Collateral) {
			return nil, core.ErrInsufficientCollateral
		}

		repaidAssets = lending.ToAssetsUp(repaidShares, market.TotalBorrowAssets, market.TotalBorrowShares)
	}

	repaidAssets = number.Ceil(repaidAssets, lending.AmountPrecision)

	position.Collateral = position.Collateral.Sub(seizedAssets)
	position.BorrowShares = position.BorrowShares.Sub(repaidShares)
	market.TotalBorrowShares = market.TotalBorrowShares.Sub(repaidShares)
	market.TotalBorrowAssets = number.Max(market.TotalBorrowAssets.Sub(repaidAssets), decimal.Zero)

	// a position stripped of all collateral with debt left over can never be
	// repaid voluntarily: write the loss off against the suppliers at once
	var badDebt, badShares decimal.Decimal
	if !position.Collateral.IsPositive() && position.BorrowShares.IsPositive() {
		badShares = position.BorrowShares
		badDebt = lending.ToAssetsUp(badShares, market.TotalBorrowAssets, market.TotalBorrowShares)

		market.TotalSupplyAssets = number.Max(market.TotalSupplyAssets.Sub(badDebt), decimal.Zero)
		market.TotalBorrowAssets = number.Max(market.TotalBorrowAssets.Sub(badDebt), decimal.Zero)
		market.TotalBorrowShares = market.TotalBorrowShares.Sub(badShares)
		position.BorrowShares = decimal.Zero
	}

	if err := s.markets.Update(ctx, market); err != nil {
		return nil, err
	}
	if err := s.positions.Save(ctx, position); err != nil {
		return nil, err
	}

	// an uncredited fee only ever favors the remaining suppliers
	if err := s.marketz.CreditFeeShares(ctx, marketID, feeShares); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("creditFeeShares")
	}

	if len(data) > 0 {
		if err := callback.OnLiquidate(ctx, repaidAssets, data); err != nil {
			return nil, s.revert(ctx, marketID, borrower, err, liquidationDelta{
				seizedAssets: seizedAssets,
				repaidAssets: repaidAssets,
				repaidShares: repaidShares,
				badDebt:      badDebt,
				badShares:    badShares,
			})
		}
	}

	if err := s.wallets.Pull(ctx, caller, market.AssetID, repaidAssets); err != nil {
		return nil, s.revert(ctx, marketID, borrower, err, liquidationDelta{
			seizedAssets: seizedAssets,
			repaidAssets: repaidAssets,
			repaidShares: repaidShares,
			badDebt:      badDebt,
			badShares:    badShares,
		})
	}

	if err := s.wallets.Push(ctx, caller, market.CollateralAssetID, seizedAssets); err != nil {
		// refund the repayment already pulled, then roll the ledger back
		if pushErr := s.wallets.Push(ctx, caller, market.AssetID, repaidAssets); pushErr != nil {
			logger.FromContext(ctx).WithError(pushErr).Errorln("liquidate: refund repaid assets")
		}
		return nil, s.revert(ctx, marketID, borrower, err, liquidationDelta{
			seizedAssets: seizedAssets,
			repaidAssets: repaidAssets,
			repaidShares: repaidShares,
			badDebt:      badDebt,
			badShares:    badShares,
		})
	}

	if badDebt.IsPositive() {
		core.Emit(ctx, &core.Event{
			Type:     core.EventBadDebt,
			MarketID: marketID,
			OnBehalf: borrower,
			BadDebt:  badDebt,
		})
	}

	return core.Emit(ctx, &core.Event{
		Type:     core.EventLiquidated,
		MarketID: marketID,
		Caller:   caller,
		OnBehalf: borrower,
		Assets:   repaidAssets,
		Shares:   repaidShares,
		Seized:   seizedAssets,
		BadDebt:  badDebt,
	}), nil
}

func (s *accountService) price(ctx context.Context, market *core.Market) (decimal.Decimal, error) {
	oracle, ok := s.oracles[market.OracleID]
	if !ok || !oracle.IsPriceProvider() {
		return decimal.Zero, core.ErrInvalidOracle
	}

	price, err := oracle.GetCollateralTokenPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		return decimal.Zero, core.ErrInvalidOracle
	}

	return price, nil
}

type liquidationDelta struct {
	seizedAssets decimal.Decimal
	repaidAssets decimal.Decimal
	repaidShares decimal.Decimal
	badDebt      decimal.Decimal
	badShares    decimal.Decimal
}

// revert restores the ledger after a failed callback or repayment pull.
func (s *accountService) revert(ctx context.Context, marketID uint64, borrower string, cause error, d liquidationDelta) error {
	log := logger.FromContext(ctx).WithField("market", marketID)

	market, err := s.markets.Find(ctx, marketID)
	if err != nil {
		log.WithError(err).Errorln("revert: markets.Find")
		return cause
	}

	position, err := s.positions.Find(ctx, marketID, borrower)
	if err != nil {
		log.WithError(err).Errorln("revert: positions.Find")
		return cause
	}

	position.Collateral = position.Collateral.Add(d.seizedAssets)
	position.BorrowShares = position.BorrowShares.Add(d.repaidShares)
	market.TotalBorrowShares = market.TotalBorrowShares.Add(d.repaidShares)
	market.TotalBorrowAssets = market.TotalBorrowAssets.Add(d.repaidAssets)

	if d.badDebt.IsPositive() {
		market.TotalSupplyAssets = market.TotalSupplyAssets.Add(d.badDebt)
		market.TotalBorrowAssets = market.TotalBorrowAssets.Add(d.badDebt)
		market.TotalBorrowShares = market.TotalBorrowShares.Add(d.badShares)
		position.BorrowShares = position.BorrowShares.Add(d.badShares)
	}

	if err := s.markets.Update(ctx, market); err != nil {
		log.WithError(err).Errorln("revert: markets.Update")
		return cause
	}
	if err := s.positions.Save(ctx, position); err != nil {
		log.WithError(err).Errorln("revert: positions.Save")
	}

	return cause
}
