// FILE: internal/mapper/feature_flag_mapper.go
// Mapper for FeatureFlag entity <-> model conversion
package mapper

import (
	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/model"

	"gorm.io/datatypes"
)

type FeatureFlagMapper struct{}

func NewFeatureFlagMapper() *FeatureFlagMapper {
	return &FeatureFlagMapper{}
}

func (m *FeatureFlagMapper) ToEntity(model *model.FeatureFlag) *entity.FeatureFlag {
	if model == nil {
		return nil
	}
	return &entity.FeatureFlag{
		Id:           model.Id,
		Key:          model.Key,
		Description:  model.Description,
		Type:         entity.FlagType(model.Type),
		Enabled:      model.Enabled,
		Percentage:   model.Percentage,
		UserIds:      []string(model.UserIds),
		Environments: []string(model.Environments),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func (m *FeatureFlagMapper) ToModel(entity *entity.FeatureFlag) *model.FeatureFlag {
	if entity == nil {
		return nil
	}
	return &model.FeatureFlag{
		Id:           entity.Id,
		Key:          entity.Key,
		Description:  entity.Description,
		Type:         string(entity.Type),
		Enabled:      entity.Enabled,
		Percentage:   entity.Percentage,
		UserIds:      datatypes.NewJSONSlice(entity.UserIds),
		Environments: datatypes.NewJSONSlice(entity.Environments),
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (m *FeatureFlagMapper) ToEntities(models []*model.FeatureFlag) []*entity.FeatureFlag {
	entities := make([]*entity.FeatureFlag, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
