package position

import (
	"context"

	"isolend/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, marketID uint64, userID string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("market_id=? and user_id=?", marketID, userID).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Position{MarketID: marketID, UserID: userID}, nil
		}
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByMarket(ctx context.Context, marketID uint64) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("market_id=?", marketID).Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("user_id=?", userID).Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) Save(ctx context.Context, position *core.Position) error {
	if position.ID == 0 {
		position.Version++
		return s.db.Update().Create(position).Error
	}

	version := position.Version
	position.Version++
	tx := s.db.Update().Model(core.Position{}).
		Where("id=? and version=?", position.ID, version).
		Update(position)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
