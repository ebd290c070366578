// FILE: internal/repository/implementation/feature_usage_repository_impl.go
// Implementation of FeatureUsageRepository
package implementation

import (
	"context"
	"errors"
	"time"

	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/mapper"
	"vauntico-access-be/internal/model"
	"vauntico-access-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeatureUsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureUsageMapper
}

func NewFeatureUsageRepository(db *gorm.DB) contract.FeatureUsageRepository {
	return &FeatureUsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureUsageMapper(),
	}
}

func (r *FeatureUsageRepositoryImpl) Find(ctx context.Context, userId, featureKey string) (*entity.FeatureUsage, error) {
	var m model.FeatureUsage
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND feature_key = ?", userId, featureKey).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// Increment is a single upsert round-trip. The counter math happens in the
// store (usage_count = usage_count + delta), so concurrent increments for
// the same (user, feature) pair never lose updates.
func (r *FeatureUsageRepositoryImpl) Increment(ctx context.Context, userId, featureKey string, delta int) error {
	now := time.Now()
	row := &model.FeatureUsage{
		UserId:      userId,
		FeatureKey:  featureKey,
		UsageCount:  delta,
		PeriodStart: now,
		PeriodEnd:   now.AddDate(0, 1, 0),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "feature_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"usage_count": gorm.Expr("feature_usages.usage_count + ?", delta),
			"updated_at":  now,
		}),
	}).Create(row).Error
}
