// FILE: internal/entity/feature_usage_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// FeatureUsage is a per-user, per-feature usage counter for the current
// billing period. UsageLimit 0 means no configured limit (unmetered).
// Incrementing is the only mutation path here; resets are billing-driven.
type FeatureUsage struct {
	Id          uuid.UUID
	UserId      string
	FeatureKey  string
	UsageCount  int
	UsageLimit  int // 0 = unmetered
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Exhausted reports whether the configured limit has been reached.
func (u *FeatureUsage) Exhausted() bool {
	return u.UsageLimit > 0 && u.UsageCount >= u.UsageLimit
}
