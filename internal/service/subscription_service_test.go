package service

import (
	"context"
	"testing"
	"time"

	"vauntico-access-be/internal/constant"
	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/pkg/cache"
	"vauntico-access-be/pkg/flags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionServiceUnderTest(t *testing.T) (ISubscriptionService, *fakeRepositoryFactory, *cache.MemoryStore) {
	t.Helper()
	factory := newFakeRepositoryFactory()
	store := cache.NewMemoryStore()
	publisher := &fakePublisher{}
	flagService := NewFeatureFlagService(factory, store, flags.NewEvaluator("production"), fakeLogger{}, publisher, 5*time.Minute)
	svc := NewSubscriptionService(factory, store, flagService, fakeLogger{}, 10*time.Minute)
	return svc, factory, store
}

func enableKillSwitch(t *testing.T, factory *fakeRepositoryFactory) {
	t.Helper()
	require.NoError(t, factory.uow.flagRepo.Save(context.Background(), &entity.FeatureFlag{
		Key:     string(constant.KillSwitchAIFeatures),
		Type:    entity.FlagTypeBoolean,
		Enabled: true,
	}))
}

func TestHasPremiumAccessKillSwitchShortCircuits(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()

	// Kill switch not defined: everything behind it is off, and the
	// subscription store must never be consulted.
	factory.uow.subscriptionRepo.premium["u1"] = true
	assert.False(t, svc.HasPremiumAccess(ctx, "u1"))
	assert.Equal(t, 0, factory.uow.subscriptionRepo.queries)
}

func TestHasPremiumAccessPaidTier(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()
	enableKillSwitch(t, factory)

	factory.uow.subscriptionRepo.premium["u1"] = true
	assert.True(t, svc.HasPremiumAccess(ctx, "u1"))
	assert.False(t, svc.HasPremiumAccess(ctx, "u2"))
}

func TestHasPremiumAccessCachesResult(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()
	enableKillSwitch(t, factory)

	factory.uow.subscriptionRepo.premium["u1"] = true
	assert.True(t, svc.HasPremiumAccess(ctx, "u1"))
	assert.True(t, svc.HasPremiumAccess(ctx, "u1"))
	assert.True(t, svc.HasPremiumAccess(ctx, "u1"))

	assert.Equal(t, 1, factory.uow.subscriptionRepo.queries)
}

func TestHasPremiumAccessStoreFailureDenies(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()
	enableKillSwitch(t, factory)

	factory.uow.subscriptionRepo.premiumErr = assert.AnError
	assert.False(t, svc.HasPremiumAccess(ctx, "u1"))
}

func TestCanAccessFeatureDisabledFlagBlocks(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()

	require.NoError(t, factory.uow.flagRepo.Save(ctx, &entity.FeatureFlag{
		Key:     "vault_export",
		Type:    entity.FlagTypeBoolean,
		Enabled: false,
	}))

	assert.False(t, svc.CanAccessFeature(ctx, "u1", "vault_export"))
}

func TestCanAccessFeaturePremiumBypassesLimits(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()
	enableKillSwitch(t, factory)

	require.NoError(t, factory.uow.flagRepo.Save(ctx, &entity.FeatureFlag{
		Key:     "vault_export",
		Type:    entity.FlagTypeBoolean,
		Enabled: true,
	}))
	factory.uow.subscriptionRepo.premium["u1"] = true

	// Limit exhausted, but premium users are never metered.
	factory.uow.usageRepo.usages[usageKey("u1", "vault_export")] = &entity.FeatureUsage{
		UserId: "u1", FeatureKey: "vault_export", UsageCount: 10, UsageLimit: 10,
	}

	assert.True(t, svc.CanAccessFeature(ctx, "u1", "vault_export"))
}

func TestCanAccessFeatureUsageLimits(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()

	require.NoError(t, factory.uow.flagRepo.Save(ctx, &entity.FeatureFlag{
		Key:     "vault_export",
		Type:    entity.FlagTypeBoolean,
		Enabled: true,
	}))

	tests := []struct {
		name  string
		usage *entity.FeatureUsage
		want  bool
	}{
		{name: "no usage row allows", usage: nil, want: true},
		{
			name:  "unmetered allows",
			usage: &entity.FeatureUsage{UsageCount: 1000, UsageLimit: 0},
			want:  true,
		},
		{
			name:  "under limit allows",
			usage: &entity.FeatureUsage{UsageCount: 9, UsageLimit: 10},
			want:  true,
		},
		{
			name:  "at limit blocks",
			usage: &entity.FeatureUsage{UsageCount: 10, UsageLimit: 10},
			want:  false,
		},
		{
			name:  "over limit blocks",
			usage: &entity.FeatureUsage{UsageCount: 11, UsageLimit: 10},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userId := "user-" + tt.name
			if tt.usage != nil {
				usage := *tt.usage
				usage.UserId = userId
				usage.FeatureKey = "vault_export"
				factory.uow.usageRepo.usages[usageKey(userId, "vault_export")] = &usage
			}
			assert.Equal(t, tt.want, svc.CanAccessFeature(ctx, userId, "vault_export"))
		})
	}
}

func TestIncrementFeatureUsageSwallowsErrors(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()

	factory.uow.usageRepo.incErr = assert.AnError
	// Must not panic or surface the failure.
	svc.IncrementFeatureUsage(ctx, "u1", "vault_export", 1)
}

func TestIncrementFeatureUsageInvalidatesCachedCount(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()

	require.NoError(t, factory.uow.flagRepo.Save(ctx, &entity.FeatureFlag{
		Key:     "vault_export",
		Type:    entity.FlagTypeBoolean,
		Enabled: true,
	}))
	factory.uow.usageRepo.usages[usageKey("u1", "vault_export")] = &entity.FeatureUsage{
		UserId: "u1", FeatureKey: "vault_export", UsageCount: 9, UsageLimit: 10,
	}

	assert.True(t, svc.CanAccessFeature(ctx, "u1", "vault_export"))

	// The increment pushes the counter to the limit and drops the cached
	// copy, so the next check sees the fresh count.
	svc.IncrementFeatureUsage(ctx, "u1", "vault_export", 1)
	assert.False(t, svc.CanAccessFeature(ctx, "u1", "vault_export"))
}

func TestUpdateSubscriptionInvalidatesPremiumCache(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()
	enableKillSwitch(t, factory)

	require.NoError(t, factory.uow.subscriptionRepo.Create(ctx, &entity.Subscription{
		UserId: "u1",
		Tier:   entity.TierPro,
		Status: entity.SubscriptionStatusActive,
	}))
	factory.uow.subscriptionRepo.premium["u1"] = true
	assert.True(t, svc.HasPremiumAccess(ctx, "u1"))

	// Downgrade; the cached premium verdict must not outlive the change.
	tier := entity.TierFree
	factory.uow.subscriptionRepo.premium["u1"] = false
	_, err := svc.UpdateSubscription(ctx, "u1", &entity.SubscriptionUpdate{Tier: &tier})
	require.NoError(t, err)

	assert.False(t, svc.HasPremiumAccess(ctx, "u1"))
}

func TestGetSubscription(t *testing.T) {
	svc, factory, _ := newSubscriptionServiceUnderTest(t)
	ctx := context.Background()

	require.NoError(t, factory.uow.subscriptionRepo.Create(ctx, &entity.Subscription{
		UserId: "u1",
		Tier:   entity.TierEnterprise,
		Status: entity.SubscriptionStatusActive,
	}))

	sub, err := svc.GetSubscription(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, entity.TierEnterprise, sub.Tier)

	missing, err := svc.GetSubscription(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
