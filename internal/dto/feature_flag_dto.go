// FILE: internal/dto/feature_flag_dto.go
// DTOs for feature flag administration
package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateFlagRequest defines or redefines a flag under a key.
type CreateFlagRequest struct {
	Key          string   `json:"key" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Type         string   `json:"type" validate:"required"` // boolean, percentage, user_targeting, environment
	Enabled      bool     `json:"enabled"`
	Percentage   int      `json:"percentage,omitempty" validate:"min=0,max=100"`
	UserIds      []string `json:"user_ids,omitempty"`
	Environments []string `json:"environments,omitempty"`
}

// UpdateFlagRequest patches an existing flag; nil fields stay untouched.
type UpdateFlagRequest struct {
	Description  *string   `json:"description,omitempty"`
	Enabled      *bool     `json:"enabled,omitempty"`
	Percentage   *int      `json:"percentage,omitempty" validate:"omitempty,min=0,max=100"`
	UserIds      *[]string `json:"user_ids,omitempty"`
	Environments *[]string `json:"environments,omitempty"`
}

type FlagResponse struct {
	Id           uuid.UUID `json:"id"`
	Key          string    `json:"key"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Enabled      bool      `json:"enabled"`
	Percentage   int       `json:"percentage"`
	UserIds      []string  `json:"user_ids"`
	Environments []string  `json:"environments"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FlagEnabledResponse is the public evaluation result for one flag.
type FlagEnabledResponse struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}
