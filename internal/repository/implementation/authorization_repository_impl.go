package implementation

import (
	"context"
	"fmt"

	"dce-cancel-be/internal/repository/contract"

	"gorm.io/gorm"
)

type authorizationRepositoryImpl struct {
	db    *gorm.DB
	table string
}

// NewAuthorizationRepository creates an authorization lookup over the
// configured pairing table.
func NewAuthorizationRepository(db *gorm.DB, table string) contract.AuthorizationRepository {
	return &authorizationRepositoryImpl{db: db, table: table}
}

func (r *authorizationRepositoryImpl) IsAuthorized(ctx context.Context, accessKey, clientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(r.table).
		Where("access_key = ? AND client_id = ?", accessKey, clientID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("authorization lookup: %w", err)
	}
	return count > 0, nil
}
