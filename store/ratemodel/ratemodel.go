package ratemodel

import (
	"context"

	"isolend/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type rateModelStore struct {
	db *db.DB
}

// New new rate model allow-list store
func New(db *db.DB) core.IRateModelStore {
	return &rateModelStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.RateModel{})
		if err := tx.AutoMigrate(core.RateModel{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *rateModelStore) Find(ctx context.Context, name string) (*core.RateModel, error) {
	var model core.RateModel
	if err := s.db.View().Where("name=?", name).First(&model).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.RateModel{Name: name}, nil
		}
		return nil, err
	}

	return &model, nil
}

func (s *rateModelStore) All(ctx context.Context) ([]*core.RateModel, error) {
	var models []*core.RateModel
	if err := s.db.View().Find(&models).Error; err != nil {
		return nil, err
	}

	return models, nil
}

func (s *rateModelStore) Save(ctx context.Context, model *core.RateModel) error {
	if model.ID == 0 {
		model.Version++
		return s.db.Update().Create(model).Error
	}

	version := model.Version
	model.Version++
	tx := s.db.Update().Model(core.RateModel{}).
		Where("id=? and version=?", model.ID, version).
		Update(model)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (s *rateModelStore) Allowed(ctx context.Context, name string) (bool, error) {
	model, err := s.Find(ctx, name)
	if err != nil {
		return false, err
	}

	return model.Allowed, nil
}
