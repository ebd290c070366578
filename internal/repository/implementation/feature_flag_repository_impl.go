// FILE: internal/repository/implementation/feature_flag_repository_impl.go
// Implementation of FeatureFlagRepository
package implementation

import (
	"context"
	"errors"

	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/mapper"
	"vauntico-access-be/internal/model"
	"vauntico-access-be/internal/repository/contract"
	"vauntico-access-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeatureFlagRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureFlagMapper
}

func NewFeatureFlagRepository(db *gorm.DB) contract.FeatureFlagRepository {
	return &FeatureFlagRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureFlagMapper(),
	}
}

func (r *FeatureFlagRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FeatureFlagRepositoryImpl) Save(ctx context.Context, flag *entity.FeatureFlag) error {
	m := r.mapper.ToModel(flag)
	// Upsert by unique key so admin writes and the kill switch share one path.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "type", "enabled", "percentage", "user_ids", "environments", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*flag = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureFlagRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FeatureFlag{}, id).Error
}

func (r *FeatureFlagRepositoryImpl) DeleteByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.FeatureFlag{}).Error
}

func (r *FeatureFlagRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureFlag, error) {
	var m model.FeatureFlag
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureFlagRepositoryImpl) FindByKey(ctx context.Context, key string) (*entity.FeatureFlag, error) {
	var m model.FeatureFlag
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureFlagRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureFlag, error) {
	var models []*model.FeatureFlag
	query := r.applySpecifications(r.db.WithContext(ctx).Order("updated_at DESC"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
