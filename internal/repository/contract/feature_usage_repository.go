// FILE: internal/repository/contract/feature_usage_repository.go
package contract

import (
	"context"

	"vauntico-access-be/internal/entity"
)

type FeatureUsageRepository interface {
	Find(ctx context.Context, userId, featureKey string) (*entity.FeatureUsage, error)
	// Increment adds delta to the usage counter in a single atomic
	// round-trip (upsert with a store-side expression, never
	// read-modify-write at the application layer).
	Increment(ctx context.Context, userId, featureKey string, delta int) error
}
