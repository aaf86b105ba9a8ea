package grant

import (
	"context"

	"isolend/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type grantStore struct {
	db *db.DB
}

// New new grant store
func New(db *db.DB) core.IGrantStore {
	return &grantStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Grant{})
		if err := tx.AutoMigrate(core.Grant{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *grantStore) Find(ctx context.Context, granterID, delegateID string) (*core.Grant, error) {
	var grant core.Grant
	if err := s.db.View().Where("granter_id=? and delegate_id=?", granterID, delegateID).First(&grant).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Grant{GranterID: granterID, DelegateID: delegateID}, nil
		}
		return nil, err
	}

	return &grant, nil
}

func (s *grantStore) FindByGranter(ctx context.Context, granterID string) ([]*core.Grant, error) {
	var grants []*core.Grant
	if err := s.db.View().Where("granter_id=?", granterID).Find(&grants).Error; err != nil {
		return nil, err
	}

	return grants, nil
}

func (s *grantStore) Save(ctx context.Context, grant *core.Grant) error {
	if grant.ID == 0 {
		grant.Version++
		return s.db.Update().Create(grant).Error
	}

	version := grant.Version
	grant.Version++
	tx := s.db.Update().Model(core.Grant{}).
		Where("id=? and version=?", grant.ID, version).
		Update(grant)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (s *grantStore) Allowed(ctx context.Context, granterID, delegateID string) (bool, error) {
	grant, err := s.Find(ctx, granterID, delegateID)
	if err != nil {
		return false, err
	}

	return grant.Granted, nil
}
