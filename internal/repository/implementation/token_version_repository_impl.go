// FILE: internal/repository/implementation/token_version_repository_impl.go
// Implementation of TokenVersionRepository
package implementation

import (
	"context"
	"errors"

	"vauntico-access-be/internal/model"
	"vauntico-access-be/internal/repository/contract"

	"gorm.io/gorm"
)

type TokenVersionRepositoryImpl struct {
	db *gorm.DB
}

func NewTokenVersionRepository(db *gorm.DB) contract.TokenVersionRepository {
	return &TokenVersionRepositoryImpl{db: db}
}

func (r *TokenVersionRepositoryImpl) Get(ctx context.Context, userId string) (int64, error) {
	var m model.TokenVersion
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Absent row means the counter was never bumped.
			return 1, nil
		}
		return 0, err
	}
	return m.Version, nil
}

// Increment bumps the counter in one atomic statement and reads back the
// new value via RETURNING, so concurrent bulk revocations cannot race.
func (r *TokenVersionRepositoryImpl) Increment(ctx context.Context, userId string) (int64, error) {
	var version int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO token_versions (user_id, version, updated_at)
		 VALUES (?, 2, NOW())
		 ON CONFLICT (user_id)
		 DO UPDATE SET version = token_versions.version + 1, updated_at = NOW()
		 RETURNING version`,
		userId,
	).Scan(&version).Error
	if err != nil {
		return 0, err
	}
	return version, nil
}
