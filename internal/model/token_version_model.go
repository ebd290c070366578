// FILE: internal/model/token_version_model.go
package model

import "time"

type TokenVersion struct {
	UserId    string    `gorm:"type:varchar(255);primaryKey"`
	Version   int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (TokenVersion) TableName() string {
	return "token_versions"
}
