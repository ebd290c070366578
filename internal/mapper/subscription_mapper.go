// FILE: internal/mapper/subscription_mapper.go
package mapper

import (
	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(model *model.Subscription) *entity.Subscription {
	if model == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                 model.Id,
		UserId:             model.UserId,
		Tier:               entity.SubscriptionTier(model.Tier),
		Status:             entity.SubscriptionStatus(model.Status),
		CurrentPeriodStart: model.CurrentPeriodStart,
		CurrentPeriodEnd:   model.CurrentPeriodEnd,
		TrialStart:         model.TrialStart,
		TrialEnd:           model.TrialEnd,
		MaxVaults:          model.MaxVaults,
		MaxGenerations:     model.MaxGenerations,
		MaxStorageMB:       model.MaxStorageMB,
		MaxTeamMembers:     model.MaxTeamMembers,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(entity *entity.Subscription) *model.Subscription {
	if entity == nil {
		return nil
	}
	return &model.Subscription{
		Id:                 entity.Id,
		UserId:             entity.UserId,
		Tier:               string(entity.Tier),
		Status:             string(entity.Status),
		CurrentPeriodStart: entity.CurrentPeriodStart,
		CurrentPeriodEnd:   entity.CurrentPeriodEnd,
		TrialStart:         entity.TrialStart,
		TrialEnd:           entity.TrialEnd,
		MaxVaults:          entity.MaxVaults,
		MaxGenerations:     entity.MaxGenerations,
		MaxStorageMB:       entity.MaxStorageMB,
		MaxTeamMembers:     entity.MaxTeamMembers,
		CreatedAt:          entity.CreatedAt,
		UpdatedAt:          entity.UpdatedAt,
	}
}
