// FILE: internal/repository/contract/subscription_repository.go
package contract

import (
	"context"

	"vauntico-access-be/internal/entity"
)

type SubscriptionRepository interface {
	FindByUserId(ctx context.Context, userId string) (*entity.Subscription, error)
	// Update applies a partial update to the user's subscription row.
	Update(ctx context.Context, userId string, update *entity.SubscriptionUpdate) (*entity.Subscription, error)
	Create(ctx context.Context, sub *entity.Subscription) error
	// HasActivePaidOrTrial is the store-side premium predicate: an active
	// paid-tier row, or any row currently inside its trial window.
	HasActivePaidOrTrial(ctx context.Context, userId string) (bool, error)
}
