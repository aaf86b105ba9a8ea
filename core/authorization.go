package core

import (
	"context"
	"time"
)

// Grant authorizes a delegate to act for the granter in every delegated
// entry point. Grants are market independent.
type Grant struct {
	ID         uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	GranterID  string    `sql:"size:36;unique_index:grant_idx" json:"granter_id"`
	DelegateID string    `sql:"size:36;unique_index:grant_idx" json:"delegate_id"`
	Granted    bool      `sql:"default:false" json:"granted"`
	Version    int64     `sql:"default:0" json:"version"`
	CreatedAt  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IGrantStore grant store interface
type IGrantStore interface {
	// Find returns a zero-value grant when none is stored yet
	Find(ctx context.Context, granterID, delegateID string) (*Grant, error)
	FindByGranter(ctx context.Context, granterID string) ([]*Grant, error)
	Save(ctx context.Context, grant *Grant) error
	// Allowed reports whether delegate may act for granter
	Allowed(ctx context.Context, granterID, delegateID string) (bool, error)
}
