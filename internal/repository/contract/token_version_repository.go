// FILE: internal/repository/contract/token_version_repository.go
package contract

import "context"

type TokenVersionRepository interface {
	// Get returns the current version for the user; 1 when no row exists.
	Get(ctx context.Context, userId string) (int64, error)
	// Increment bumps the version atomically and returns the new value.
	Increment(ctx context.Context, userId string) (int64, error)
}
