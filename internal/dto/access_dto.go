// FILE: internal/dto/access_dto.go
// DTOs for access checks and subscription administration
package dto

import (
	"time"

	"github.com/google/uuid"
)

// PremiumAccessResponse is returned by GET /api/access/premium.
type PremiumAccessResponse struct {
	UserId  string `json:"user_id"`
	Premium bool   `json:"premium"`
}

// FeatureAccessResponse is returned by GET /api/access/feature/:key.
type FeatureAccessResponse struct {
	UserId     string `json:"user_id"`
	FeatureKey string `json:"feature_key"`
	Allowed    bool   `json:"allowed"`
}

// IncrementUsageRequest records consumption of a metered feature.
type IncrementUsageRequest struct {
	Delta int `json:"delta" validate:"omitempty,min=1"`
}

type SubscriptionResponse struct {
	Id                 uuid.UUID  `json:"id"`
	UserId             string     `json:"user_id"`
	Tier               string     `json:"tier"`
	Status             string     `json:"status"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	TrialStart         *time.Time `json:"trial_start,omitempty"`
	TrialEnd           *time.Time `json:"trial_end,omitempty"`
	MaxVaults          int        `json:"max_vaults"`
	MaxGenerations     int        `json:"max_generations"`
	MaxStorageMB       int        `json:"max_storage_mb"`
	MaxTeamMembers     int        `json:"max_team_members"`
}

// UpdateSubscriptionRequest patches a subscription row; nil fields stay
// untouched. Limits use -1 for unlimited.
type UpdateSubscriptionRequest struct {
	Tier               *string    `json:"tier,omitempty"`
	Status             *string    `json:"status,omitempty"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	TrialStart         *time.Time `json:"trial_start,omitempty"`
	TrialEnd           *time.Time `json:"trial_end,omitempty"`
	MaxVaults          *int       `json:"max_vaults,omitempty"`
	MaxGenerations     *int       `json:"max_generations,omitempty"`
	MaxStorageMB       *int       `json:"max_storage_mb,omitempty"`
	MaxTeamMembers     *int       `json:"max_team_members,omitempty"`
}
