// FILE: internal/model/feature_usage_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type FeatureUsage struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_feature_usages_user_feature"`
	FeatureKey  string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_feature_usages_user_feature"`
	UsageCount  int       `gorm:"not null;default:0"`
	UsageLimit  int       `gorm:"not null;default:0"` // 0 = unmetered
	PeriodStart time.Time `gorm:"not null"`
	PeriodEnd   time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (FeatureUsage) TableName() string {
	return "feature_usages"
}
