// FILE: internal/repository/contract/feature_flag_repository.go
package contract

import (
	"context"

	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FeatureFlagRepository interface {
	// Save upserts a flag definition by key.
	Save(ctx context.Context, flag *entity.FeatureFlag) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByKey(ctx context.Context, key string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureFlag, error)
	FindByKey(ctx context.Context, key string) (*entity.FeatureFlag, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureFlag, error)
}
