// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionTier string
type SubscriptionStatus string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"

	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
)

// Subscription holds a user's billing state. One row per user; mutated by
// billing-provider callbacks (external) and read here for gating.
type Subscription struct {
	Id                 uuid.UUID
	UserId             string
	Tier               SubscriptionTier
	Status             SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
	// Resource Limits (-1 = unlimited)
	MaxVaults      int
	MaxGenerations int
	MaxStorageMB   int
	MaxTeamMembers int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPaidTier reports whether the tier is a paying one.
func (s *Subscription) IsPaidTier() bool {
	return s.Tier == TierPro || s.Tier == TierEnterprise
}

// InTrial reports whether now falls inside the trial window.
func (s *Subscription) InTrial(now time.Time) bool {
	if s.TrialStart == nil || s.TrialEnd == nil {
		return false
	}
	return !now.Before(*s.TrialStart) && now.Before(*s.TrialEnd)
}

// SubscriptionUpdate is a partial update applied by the write path.
// Nil fields are left untouched.
type SubscriptionUpdate struct {
	Tier               *SubscriptionTier
	Status             *SubscriptionStatus
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
	MaxVaults          *int
	MaxGenerations     *int
	MaxStorageMB       *int
	MaxTeamMembers     *int
}
