// FILE: internal/model/feature_flag_model.go
// GORM model for the feature_flags table
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FeatureFlag struct {
	Id           uuid.UUID                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key          string                         `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description  string                         `gorm:"type:text"`
	Type         string                         `gorm:"type:varchar(50);not null"` // boolean, percentage, user_targeting, environment
	Enabled      bool                           `gorm:"not null;default:false"`
	Percentage   int                            `gorm:"not null;default:0"`
	UserIds      datatypes.JSONSlice[string]    `gorm:"type:jsonb"`
	Environments datatypes.JSONSlice[string]    `gorm:"type:jsonb"`
	CreatedAt    time.Time                      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time                      `gorm:"autoUpdateTime"`
}

func (FeatureFlag) TableName() string {
	return "feature_flags"
}
