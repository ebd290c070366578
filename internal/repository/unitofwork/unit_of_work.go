package unitofwork

import (
	"context"

	"vauntico-access-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FeatureFlagRepository() contract.FeatureFlagRepository
	SubscriptionRepository() contract.SubscriptionRepository
	FeatureUsageRepository() contract.FeatureUsageRepository
	TokenVersionRepository() contract.TokenVersionRepository
}
