// FILE: internal/entity/token_entity.go
package entity

import "time"

// TokenVersion is the bulk-revocation counter for a user. Every refresh
// token embeds the version current at issuance; incrementing the row
// invalidates all previously issued refresh tokens at once.
type TokenVersion struct {
	UserId    string
	Version   int64 // starts at 1
	UpdatedAt time.Time
}
