// FILE: internal/mapper/feature_usage_mapper.go
package mapper

import (
	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/model"
)

type FeatureUsageMapper struct{}

func NewFeatureUsageMapper() *FeatureUsageMapper {
	return &FeatureUsageMapper{}
}

func (m *FeatureUsageMapper) ToEntity(model *model.FeatureUsage) *entity.FeatureUsage {
	if model == nil {
		return nil
	}
	return &entity.FeatureUsage{
		Id:          model.Id,
		UserId:      model.UserId,
		FeatureKey:  model.FeatureKey,
		UsageCount:  model.UsageCount,
		UsageLimit:  model.UsageLimit,
		PeriodStart: model.PeriodStart,
		PeriodEnd:   model.PeriodEnd,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (m *FeatureUsageMapper) ToModel(entity *entity.FeatureUsage) *model.FeatureUsage {
	if entity == nil {
		return nil
	}
	return &model.FeatureUsage{
		Id:          entity.Id,
		UserId:      entity.UserId,
		FeatureKey:  entity.FeatureKey,
		UsageCount:  entity.UsageCount,
		UsageLimit:  entity.UsageLimit,
		PeriodStart: entity.PeriodStart,
		PeriodEnd:   entity.PeriodEnd,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}
