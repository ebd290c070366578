// FILE: internal/model/subscription_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId             string     `gorm:"type:varchar(255);uniqueIndex;not null"` // one subscription per user
	Tier               string     `gorm:"type:subscription_tier;not null;default:'free'"`
	Status             string     `gorm:"type:subscription_status;not null;default:'incomplete'"`
	CurrentPeriodStart time.Time  `gorm:"not null"`
	CurrentPeriodEnd   time.Time  `gorm:"not null"`
	TrialStart         *time.Time `gorm:""`
	TrialEnd           *time.Time `gorm:""`
	// Resource Limits (-1 = unlimited)
	MaxVaults      int       `gorm:"default:1"`
	MaxGenerations int       `gorm:"default:10"`
	MaxStorageMB   int       `gorm:"default:100"`
	MaxTeamMembers int       `gorm:"default:1"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
