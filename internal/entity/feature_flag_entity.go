// FILE: internal/entity/feature_flag_entity.go
// Domain entity for feature flags
package entity

import (
	"time"

	"github.com/google/uuid"
)

type FlagType string

const (
	FlagTypeBoolean       FlagType = "boolean"
	FlagTypePercentage    FlagType = "percentage"
	FlagTypeUserTargeting FlagType = "user_targeting"
	FlagTypeEnvironment   FlagType = "environment"
)

// FeatureFlag is a flag definition from the authoritative store.
// Percentage is only meaningful when Type is percentage; zero means the flag
// enables nobody under that type. Enabled is the master switch and dominates
// every type-specific field.
type FeatureFlag struct {
	Id           uuid.UUID
	Key          string // Unique key: new_checkout, ai_features, etc.
	Description  string
	Type         FlagType
	Enabled      bool
	Percentage   int      // 0-100, percentage type only
	UserIds      []string // user ids or emails, user_targeting type only
	Environments []string // environment names, environment type only
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EvaluationContext carries the request-side inputs for a flag check.
// Attributes (ip, path, method) are audit-only and never feed the decision.
type EvaluationContext struct {
	FlagKey    string
	UserId     string
	UserEmail  string
	Attributes map[string]string
}
