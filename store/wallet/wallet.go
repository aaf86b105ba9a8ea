package wallet

import (
	"context"

	"isolend/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type walletStore struct {
	db *db.DB
}

// New new balance store
func New(db *db.DB) core.IWalletStore {
	return &walletStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Balance{})
		if err := tx.AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *walletStore) Find(ctx context.Context, userID, assetID string) (*core.Balance, error) {
	var balance core.Balance
	if err := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&balance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Balance{UserID: userID, AssetID: assetID}, nil
		}
		return nil, err
	}

	return &balance, nil
}

func (s *walletStore) FindByUser(ctx context.Context, userID string) ([]*core.Balance, error) {
	var balances []*core.Balance
	if err := s.db.View().Where("user_id=?", userID).Find(&balances).Error; err != nil {
		return nil, err
	}

	return balances, nil
}

func (s *walletStore) Save(ctx context.Context, balance *core.Balance) error {
	if balance.ID == 0 {
		balance.Version++
		return s.db.Update().Create(balance).Error
	}

	version := balance.Version
	balance.Version++
	tx := s.db.Update().Model(core.Balance{}).
		Where("id=? and version=?", balance.ID, version).
		Update(balance)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
