// FILE: internal/service/subscription_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"vauntico-access-be/internal/constant"
	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/pkg/cache"
	"vauntico-access-be/internal/pkg/logger"
	"vauntico-access-be/internal/repository/unitofwork"
)

const (
	premiumCachePrefix      = "premium:"
	subscriptionCachePrefix = "subscription:"
	usageCachePrefix        = "usage:"

	// Usage counters move fast; keep their cached copies short-lived.
	usageCacheTTL = 60 * time.Second
)

type ISubscriptionService interface {
	// HasPremiumAccess reports whether the user holds an active paid tier
	// or trial. The global AI kill switch is consulted first and any
	// failure resolves to false.
	HasPremiumAccess(ctx context.Context, userId string) bool
	// CanAccessFeature applies the feature-level kill switch, then premium
	// bypass, then the per-feature usage counter.
	CanAccessFeature(ctx context.Context, userId, featureKey string) bool
	// IncrementFeatureUsage is best-effort: failures are logged and
	// swallowed so metering never blocks the feature it meters.
	IncrementFeatureUsage(ctx context.Context, userId, featureKey string, delta int)
	GetSubscription(ctx context.Context, userId string) (*entity.Subscription, error)
	UpdateSubscription(ctx context.Context, userId string, update *entity.SubscriptionUpdate) (*entity.Subscription, error)
}

type subscriptionService struct {
	uowFactory      unitofwork.RepositoryFactory
	cacheStore      cache.Store
	flagService     IFeatureFlagService
	logger          logger.ILogger
	subscriptionTTL time.Duration
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	cacheStore cache.Store,
	flagService IFeatureFlagService,
	sysLogger logger.ILogger,
	subscriptionTTL time.Duration,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory:      uowFactory,
		cacheStore:      cacheStore,
		flagService:     flagService,
		logger:          sysLogger,
		subscriptionTTL: subscriptionTTL,
	}
}

func (s *subscriptionService) HasPremiumAccess(ctx context.Context, userId string) bool {
	// Global emergency override takes precedence over per-user entitlement.
	killSwitch := string(constant.KillSwitchAIFeatures)
	if !s.flagService.IsEnabled(ctx, killSwitch, &entity.EvaluationContext{FlagKey: killSwitch, UserId: userId}) {
		return false
	}

	cacheKey := premiumCachePrefix + userId
	if raw, found, err := s.cacheStore.Get(ctx, cacheKey); err != nil {
		s.logger.Warn("SUBSCRIPTION", "Premium cache read failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
	} else if found {
		premium, parseErr := strconv.ParseBool(raw)
		if parseErr == nil {
			return premium
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	premium, err := uow.SubscriptionRepository().HasActivePaidOrTrial(ctx, userId)
	if err != nil {
		s.logger.Warn("SUBSCRIPTION", "Premium check failed, denying", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return false
	}

	if err := s.cacheStore.Set(ctx, cacheKey, strconv.FormatBool(premium), s.subscriptionTTL); err != nil {
		s.logger.Warn("SUBSCRIPTION", "Premium cache write failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}

	return premium
}

func (s *subscriptionService) CanAccessFeature(ctx context.Context, userId, featureKey string) bool {
	// Feature-level kill switch dominates everything else.
	if !s.flagService.IsEnabled(ctx, featureKey, &entity.EvaluationContext{FlagKey: featureKey, UserId: userId}) {
		return false
	}

	// Premium users are never metered.
	if s.HasPremiumAccess(ctx, userId) {
		return true
	}

	usage, err := s.loadUsage(ctx, userId, featureKey)
	if err != nil {
		s.logger.Warn("SUBSCRIPTION", "Usage lookup failed, denying", map[string]interface{}{
			"user_id":     userId,
			"feature_key": featureKey,
			"error":       err.Error(),
		})
		return false
	}

	// No row means the feature was never metered for this user.
	if usage == nil {
		return true
	}
	return !usage.Exhausted()
}

func (s *subscriptionService) loadUsage(ctx context.Context, userId, featureKey string) (*entity.FeatureUsage, error) {
	cacheKey := usageCacheKey(userId, featureKey)
	if raw, found, err := s.cacheStore.Get(ctx, cacheKey); err != nil {
		s.logger.Warn("SUBSCRIPTION", "Usage cache read failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
	} else if found {
		var usage *entity.FeatureUsage
		if json.Unmarshal([]byte(raw), &usage) == nil {
			return usage, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	usage, err := uow.FeatureUsageRepository().Find(ctx, userId, featureKey)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(usage); marshalErr == nil {
		if err := s.cacheStore.Set(ctx, cacheKey, string(payload), usageCacheTTL); err != nil {
			s.logger.Warn("SUBSCRIPTION", "Usage cache write failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
		}
	}

	return usage, nil
}

func (s *subscriptionService) IncrementFeatureUsage(ctx context.Context, userId, featureKey string, delta int) {
	if delta <= 0 {
		delta = 1
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FeatureUsageRepository().Increment(ctx, userId, featureKey, delta); err != nil {
		s.logger.Error("SUBSCRIPTION", "Usage increment failed", map[string]interface{}{
			"user_id":     userId,
			"feature_key": featureKey,
			"error":       err.Error(),
		})
		return
	}

	if err := s.cacheStore.Delete(ctx, usageCacheKey(userId, featureKey)); err != nil {
		s.logger.Warn("SUBSCRIPTION", "Usage cache invalidation failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}
}

func (s *subscriptionService) GetSubscription(ctx context.Context, userId string) (*entity.Subscription, error) {
	cacheKey := subscriptionCachePrefix + userId
	if raw, found, err := s.cacheStore.Get(ctx, cacheKey); err != nil {
		s.logger.Warn("SUBSCRIPTION", "Subscription cache read failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
	} else if found {
		var sub *entity.Subscription
		if json.Unmarshal([]byte(raw), &sub) == nil {
			return sub, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(sub); marshalErr == nil {
		if err := s.cacheStore.Set(ctx, cacheKey, string(payload), s.subscriptionTTL); err != nil {
			s.logger.Warn("SUBSCRIPTION", "Subscription cache write failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		}
	}

	return sub, nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, userId string, update *entity.SubscriptionUpdate) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().Update(ctx, userId, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription for %s: %w", userId, err)
	}

	// A subscription change must not leave a stale premium-access entry.
	if err := s.cacheStore.Delete(ctx, subscriptionCachePrefix+userId, premiumCachePrefix+userId); err != nil {
		s.logger.Warn("SUBSCRIPTION", "Subscription cache invalidation failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}

	return sub, nil
}

func usageCacheKey(userId, featureKey string) string {
	return usageCachePrefix + userId + ":" + featureKey
}
