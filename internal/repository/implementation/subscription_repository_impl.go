// FILE: internal/repository/implementation/subscription_repository_impl.go
// Implementation of SubscriptionRepository
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
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) FindByUserId(ctx context.Context, userId string) (*entity.Subscription, error) {
	var m model.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, userId string, update *entity.SubscriptionUpdate) (*entity.Subscription, error) {
	values := map[string]interface{}{}
	if update.Tier != nil {
		values["tier"] = string(*update.Tier)
	}
	if update.Status != nil {
		values["status"] = string(*update.Status)
	}
	if update.CurrentPeriodStart != nil {
		values["current_period_start"] = *update.CurrentPeriodStart
	}
	if update.CurrentPeriodEnd != nil {
		values["current_period_end"] = *update.CurrentPeriodEnd
	}
	if update.TrialStart != nil {
		values["trial_start"] = *update.TrialStart
	}
	if update.TrialEnd != nil {
		values["trial_end"] = *update.TrialEnd
	}
	if update.MaxVaults != nil {
		values["max_vaults"] = *update.MaxVaults
	}
	if update.MaxGenerations != nil {
		values["max_generations"] = *update.MaxGenerations
	}
	if update.MaxStorageMB != nil {
		values["max_storage_mb"] = *update.MaxStorageMB
	}
	if update.MaxTeamMembers != nil {
		values["max_team_members"] = *update.MaxTeamMembers
	}

	if len(values) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("user_id = ?", userId).Updates(values)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	return r.FindByUserId(ctx, userId)
}

// HasActivePaidOrTrial pushes the premium predicate into a single query so
// the caller never loads the row just to inspect it.
func (r *SubscriptionRepositoryImpl) HasActivePaidOrTrial(ctx context.Context, userId string) (bool, error) {
	now := time.Now()
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userId).
		Where(
			r.db.Where("status = ? AND tier IN ?", string(entity.SubscriptionStatusActive), []string{string(entity.TierPro), string(entity.TierEnterprise)}).
				Or("trial_start IS NOT NULL AND trial_end IS NOT NULL AND trial_start <= ? AND trial_end > ?", now, now),
		).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
