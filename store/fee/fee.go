package fee

import (
	"context"

	"isolend/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type feeStore struct {
	db *db.DB
}

// New new fee store
func New(db *db.DB) core.IFeeStore {
	return &feeStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.FeeConfig{}).AutoMigrate(core.FeeConfig{}).Error; err != nil {
			return err
		}
		if err := db.Update().Model(core.FeePool{}).AutoMigrate(core.FeePool{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *feeStore) Config(ctx context.Context) (*core.FeeConfig, error) {
	var cfg core.FeeConfig
	if err := s.db.View().Where("id=?", 1).First(&cfg).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.FeeConfig{ID: 1}, nil
		}
		return nil, err
	}

	return &cfg, nil
}

func (s *feeStore) SaveConfig(ctx context.Context, cfg *core.FeeConfig) error {
	cfg.ID = 1

	if cfg.Version == 0 {
		cfg.Version++
		return s.db.Update().Create(cfg).Error
	}

	version := cfg.Version
	cfg.Version++
	tx := s.db.Update().Model(core.FeeConfig{}).
		Where("id=? and version=?", cfg.ID, version).
		Update(cfg)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (s *feeStore) Pool(ctx context.Context, assetID string) (*core.FeePool, error) {
	var pool core.FeePool
	if err := s.db.View().Where("asset_id=?", assetID).First(&pool).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.FeePool{AssetID: assetID}, nil
		}
		return nil, err
	}

	return &pool, nil
}

func (s *feeStore) AllPools(ctx context.Context) ([]*core.FeePool, error) {
	var pools []*core.FeePool
	if err := s.db.View().Find(&pools).Error; err != nil {
		return nil, err
	}

	return pools, nil
}

func (s *feeStore) SavePool(ctx context.Context, pool *core.FeePool) error {
	if pool.ID == 0 {
		pool.Version++
		return s.db.Update().Create(pool).Error
	}

	version := pool.Version
	pool.Version++
	tx := s.db.Update().Model(core.FeePool{}).
		Where("id=? and version=?", pool.ID, version).
		Update(pool)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
