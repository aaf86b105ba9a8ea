package market

import (
	"context"
	"time"

	"isolend/core"
	"isolend/internal/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type marketService struct {
	markets    core.IMarketStore
	positions  core.IPositionStore
	fees       core.IFeeStore
	rateModels core.IRateModelStore
	wallets    core.IWalletService
	oracles    core.OracleSet
	models     core.RateModelSet
	system     *core.System
}

// New returns the market registry service.
func New(
	markets core.IMarketStore,
	positions core.IPositionStore,
	fees core.IFeeStore,
	rateModels core.IRateModelStore,
	wallets core.IWalletService,
	oracles core.OracleSet,
	models core.RateModelSet,
	system *core.System,
) core.IMarketService {
	return &marketService{
		markets:    markets,
		positions:  positions,
		fees:       fees,
		rateModels: rateModels,
		wallets:    wallets,
		oracles:    oracles,
		models:     models,
		system:     system,
	}
}

func (s *marketService) CreateMarket(ctx context.Context, caller string, cfg core.MarketConfig) (*core.Market, error) {
	log := logger.FromContext(ctx).WithField("symbol", cfg.Symbol)

	if cfg.LiquidationLTV.IsNegative() || cfg.LiquidationLTV.GreaterThanOrEqual(lending.One) {
		return nil, core.ErrInvalidLiquidationLTV
	}

	if oracle, ok := s.oracles[cfg.OracleID]; !ok || !oracle.IsPriceProvider() {
		return nil, core.ErrInvalidOracle
	}

	if model, ok := s.models[cfg.RateModelID]; !ok || !model.IsIrm() {
		return nil, core.ErrInvalidRateModel
	}

	allowed, err := s.rateModels.Allowed(ctx, cfg.RateModelID)
	if err != nil {
		log.WithError(err).Errorln("rateModels.Allowed")
		return nil, err
	}
	if !allowed {
		return nil, core.ErrRateModelNotAllowed
	}

	if existing, err := s.markets.FindBySymbol(ctx, cfg.Symbol); err != nil {
		log.WithError(err).Errorln("markets.FindBySymbol")
		return nil, err
	} else if existing.Exists() {
		return nil, core.ErrMarketExists
	}

	feeCfg, err := s.fees.Config(ctx)
	if err != nil {
		log.WithError(err).Errorln("fees.Config")
		return nil, err
	}

	if feeCfg.MarketCreationFee.IsPositive() {
		if err := s.wallets.Pull(ctx, caller, s.system.NativeAssetID, feeCfg.MarketCreationFee); err != nil {
			return nil, err
		}

		if err := s.creditPool(ctx, s.system.NativeAssetID, feeCfg.MarketCreationFee); err != nil {
			return nil, err
		}
	}

	market := &core.Market{
		Symbol:            cfg.Symbol,
		AssetID:           cfg.AssetID,
		CollateralAssetID: cfg.CollateralAssetID,
		OracleID:          cfg.OracleID,
		RateModelID:       cfg.RateModelID,
		LiquidationLTV:    cfg.LiquidationLTV,
		LastAccrualAt:     time.Now().Unix(),
	}

	if err := s.markets.Create(ctx, market); err != nil {
		log.WithError(err).Errorln("markets.Create")
		return nil, err
	}

	core.Emit(ctx, &core.Event{
		Type:     core.EventMarketCreated,
		MarketID: market.ID,
		Caller:   caller,
	})

	return market, nil
}

func (s *marketService) AccrueInterest(ctx context.Context, market *core.Market, at time.Time) (decimal.Decimal, error) {
	model, ok := s.models[market.RateModelID]
	if !ok {
		return decimal.Zero, core.ErrInvalidRateModel
	}

	rate, err := model.BorrowRate(ctx, market)
	if err != nil {
		return decimal.Zero, err
	}

	feeCfg, err := s.fees.Config(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	// fee accrual needs a configured recipient to credit; without one the
	// whole interest goes to suppliers
	feeRate := market.ProtocolFeeRate
	if feeCfg.FeeRecipientID == "" {
		market.ProtocolFeeRate = decimal.Zero
	}

	accrual := lending.Accrue(market, rate, at)
	market.ProtocolFeeRate = feeRate

	return accrual.FeeShares, nil
}

func (s *marketService) CreditFeeShares(ctx context.Context, marketID uint64, shares decimal.Decimal) error {
	if !shares.IsPositive() {
		return nil
	}

	feeCfg, err := s.fees.Config(ctx)
	if err != nil {
		return err
	}
	if feeCfg.FeeRecipientID == "" {
		return nil
	}

	position, err := s.positions.Find(ctx, marketID, feeCfg.FeeRecipientID)
	if err != nil {
		return err
	}

	position.SupplyShares = position.SupplyShares.Add(shares)
	return s.positions.Save(ctx, position)
}

func (s *marketService) AccrueMarket(ctx context.Context, marketID uint64, at time.Time) error {
	market, err := s.markets.Find(ctx, marketID)
	if err != nil {
		return err
	}
	if !market.Exists() {
		return core.ErrMarketNotFound
	}

	feeShares, err := s.AccrueInterest(ctx, market, at)
	if err != nil {
		return err
	}

	if err := s.markets.Update(ctx, market); err != nil {
		return err
	}

	return s.CreditFeeShares(ctx, marketID, feeShares)
}

func (s *marketService) SetProtocolFee(ctx context.Context, caller string, marketID uint64, rate decimal.Decimal) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if rate.IsNegative() {
		return core.ErrInvalidAmount
	}
	if rate.GreaterThan(lending.MaxProtocolFeeRate) {
		return core.ErrFeeTooHigh
	}

	market, err := s.markets.Find(ctx, marketID)
	if err != nil {
		return err
	}
	if !market.Exists() {
		return core.ErrMarketNotFound
	}

	// settle outstanding interest at the old rate before switching
	feeShares, err := s.AccrueInterest(ctx, market, time.Now())
	if err != nil {
		return err
	}

	market.ProtocolFeeRate = rate
	if err := s.markets.Update(ctx, market); err != nil {
		return err
	}

	if err := s.CreditFeeShares(ctx, marketID, feeShares); err != nil {
		return err
	}

	core.Emit(ctx, &core.Event{
		Type:     core.EventProtocolFeeUpdated,
		MarketID: marketID,
		Caller:   caller,
		Assets:   rate,
	})

	return nil
}

func (s *marketService) AllowRateModel(ctx context.Context, caller, name string, allowed bool) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if model, ok := s.models[name]; !ok || !model.IsIrm() {
		return core.ErrInvalidRateModel
	}

	entry, err := s.rateModels.Find(ctx, name)
	if err != nil {
		return err
	}

	entry.Allowed = allowed
	if err := s.rateModels.Save(ctx, entry); err != nil {
		return err
	}

	core.Emit(ctx, &core.Event{
		Type:   core.EventRateModelAllowed,
		Caller: caller,
	})

	return nil
}

func (s *marketService) SetMarketCreationFee(ctx context.Context, caller string, fee decimal.Decimal) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}
	if fee.IsNegative() {
		return core.ErrInvalidAmount
	}

	cfg, err := s.fees.Config(ctx)
	if err != nil {
		return err
	}

	cfg.MarketCreationFee = fee
	if err := s.fees.SaveConfig(ctx, cfg); err != nil {
		return err
	}

	core.Emit(ctx, &core.Event{
		Type:   core.EventCreationFeeUpdated,
		Caller: caller,
		Assets: fee,
	})

	return nil
}

func (s *marketService) SetFlashLoanRate(ctx context.Context, caller string, rate decimal.Decimal) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}
	if rate.IsNegative() {
		return core.ErrInvalidAmount
	}
	if rate.GreaterThan(lending.MaxFlashLoanRate) {
		return core.ErrFeeTooHigh
	}

	cfg, err := s.fees.Config(ctx)
	if err != nil {
		return err
	}

	cfg.FlashLoanRate = rate
	if err := s.fees.SaveConfig(ctx, cfg); err != nil {
		return err
	}

	core.Emit(ctx, &core.Event{
		Type:   core.EventFlashLoanRateSet,
		Caller: caller,
		Assets: rate,
	})

	return nil
}

func (s *marketService) SetFeeRecipient(ctx context.Context, caller, recipientID string) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}
	if recipientID == "" {
		return core.ErrInvalidAmount
	}

	cfg, err := s.fees.Config(ctx)
	if err != nil {
		return err
	}

	cfg.FeeRecipientID = recipientID
	if err := s.fees.SaveConfig(ctx, cfg); err != nil {
		return err
	}

	core.Emit(ctx, &core.Event{
		Type:     core.EventFeeRecipientSet,
		Caller:   caller,
		Receiver: recipientID,
	})

	return nil
}

func (s *marketService) WithdrawFees(ctx context.Context, caller, assetID string, amount decimal.Decimal) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	cfg, err := s.fees.Config(ctx)
	if err != nil {
		return err
	}
	if cfg.FeeRecipientID == "" {
		return core.ErrInvalidAmount
	}

	pool, err := s.fees.Pool(ctx, assetID)
	if err != nil {
		return err
	}
	if pool.Amount.LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	pool.Amount = pool.Amount.Sub(amount)
	if err := s.fees.SavePool(ctx, pool); err != nil {
		return err
	}

	if err := s.wallets.Push(ctx, cfg.FeeRecipientID, assetID, amount); err != nil {
		return err
	}

	core.Emit(ctx, &core.Event{
		Type:     core.EventFeesWithdrawn,
		Caller:   caller,
		Receiver: cfg.FeeRecipientID,
		Assets:   amount,
	})

	return nil
}

func (s *marketService) creditPool(ctx context.Context, assetID string, amount decimal.Decimal) error {
	pool, err := s.fees.Pool(ctx, assetID)
	if err != nil {
		return err
	}

	pool.Amount = pool.Amount.Add(amount)
	return s.fees.SavePool(ctx, pool)
}
