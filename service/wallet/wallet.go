package wallet

import (
	"context"

	"isolend/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type walletService struct {
	wallets  core.IWalletStore
	moduleID string
}

// New returns the internal-ledger wallet service. The module account holds
// the pooled liquidity of every market plus the fee pools.
func New(wallets core.IWalletStore, moduleID string) core.IWalletService {
	return &walletService{
		wallets:  wallets,
		moduleID: moduleID,
	}
}

func (s *walletService) Pull(ctx context.Context, payerID, assetID string, amount decimal.Decimal) error {
	if err := s.transfer(ctx, payerID, s.moduleID, assetID, amount); err != nil {
		if err == core.ErrInsufficientLiquidity {
			return core.ErrInsufficientBalance
		}
		return err
	}

	return nil
}

func (s *walletService) Push(ctx context.Context, receiverID, assetID string, amount decimal.Decimal) error {
	return s.transfer(ctx, s.moduleID, receiverID, assetID, amount)
}

func (s *walletService) Balance(ctx context.Context, userID, assetID string) (decimal.Decimal, error) {
	b, err := s.wallets.Find(ctx, userID, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return b.Amount, nil
}

func (s *walletService) transfer(ctx context.Context, fromID, toID, assetID string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"from":   fromID,
		"to":     toID,
		"asset":  assetID,
		"amount": amount,
	})

	if !amount.IsPositive() {
		if amount.IsZero() {
			return nil
		}
		return core.ErrInvalidAmount
	}

	from, err := s.wallets.Find(ctx, fromID, assetID)
	if err != nil {
		log.WithError(err).Errorln("wallets.Find")
		return err
	}

	if from.Amount.LessThan(amount) {
		// the module account running short means the pool totals are out of
		// sync with the ledger
		if fromID == s.moduleID {
			log.Errorln("module balance below requested amount")
		}
		return core.ErrInsufficientLiquidity
	}

	from.Amount = from.Amount.Sub(amount)
	if err := s.wallets.Save(ctx, from); err != nil {
		log.WithError(err).Errorln("wallets.Save")
		return err
	}

	to, err := s.wallets.Find(ctx, toID, assetID)
	if err != nil {
		log.WithError(err).Errorln("wallets.Find")
		return err
	}

	to.Amount = to.Amount.Add(amount)
	if err := s.wallets.Save(ctx, to); err != nil {
		log.WithError(err).Errorln("wallets.Save")
		return err
	}

	return nil
}
