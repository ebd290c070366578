// FILE: internal/service/token_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"vauntico-access-be/internal/config"
	"vauntico-access-be/internal/pkg/cache"
	"vauntico-access-be/internal/pkg/logger"
	"vauntico-access-be/internal/repository/unitofwork"
	"vauntico-access-be/pkg/events"
	pktNats "vauntico-access-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrInvalidToken = errors.New("token is invalid")
	ErrTokenRevoked = errors.New("token has been revoked")
)

const invalidatedTokenPrefix = "invalidated_token:"

// AccessClaims is the short-lived credential carried on every API call.
type AccessClaims struct {
	UserId string `json:"user_id"`
	Email  string `json:"email"`
	Tier   string `json:"tier"`
	jwt.RegisteredClaims
}

// RefreshClaims carries the token version and a unique jti so a single
// refresh token can be revoked without touching the rest.
type RefreshClaims struct {
	UserId       string `json:"user_id"`
	Email        string `json:"email"`
	Tier         string `json:"tier"`
	TokenVersion int64  `json:"token_version"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type ITokenService interface {
	GenerateTokenPair(ctx context.Context, userId, email, tier string) (*TokenPair, error)
	VerifyAccessToken(tokenString string) (*AccessClaims, error)
	// VerifyRefreshToken checks signature and expiry, then the per-token
	// revocation marker, then the stored token version. A version mismatch
	// means all of the user's tokens were revoked after issuance.
	VerifyRefreshToken(ctx context.Context, tokenString string) (*RefreshClaims, error)
	// InvalidateRefreshToken marks a single refresh token as unusable for
	// the remainder of its lifetime.
	InvalidateRefreshToken(ctx context.Context, tokenString string) error
	// InvalidateAllUserTokens bumps the user's token version, which
	// retroactively fails every outstanding refresh token.
	InvalidateAllUserTokens(ctx context.Context, userId string) error
}

type tokenService struct {
	cfg            config.TokenConfig
	uowFactory     unitofwork.RepositoryFactory
	cacheStore     cache.Store
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher // optional, nil when NATS is not wired
	logger         logger.ILogger
}

func NewTokenService(
	cfg config.TokenConfig,
	uowFactory unitofwork.RepositoryFactory,
	cacheStore cache.Store,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) ITokenService {
	return &tokenService{
		cfg:            cfg,
		uowFactory:     uowFactory,
		cacheStore:     cacheStore,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		logger:         sysLogger,
	}
}

func (s *tokenService) GenerateTokenPair(ctx context.Context, userId, email, tier string) (*TokenPair, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	version, err := uow.TokenVersionRepository().Get(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to load token version for %s: %w", userId, err)
	}

	now := time.Now()

	accessClaims := &AccessClaims{
		UserId: userId,
		Email:  email,
		Tier:   tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessLifetime)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := &RefreshClaims{
		UserId:       userId,
		Email:        email,
		Tier:         tier,
		TokenVersion: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshLifetime)),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *tokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.AccessSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserId == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *tokenService) VerifyRefreshToken(ctx context.Context, tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.RefreshSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserId == "" {
		return nil, ErrInvalidToken
	}

	// Per-token revocation marker. A cache failure here resolves to the
	// most restrictive answer: the token is treated as revoked.
	markerKey := revocationMarkerKey(claims.UserId, revocationId(claims, tokenString))
	if _, found, cacheErr := s.cacheStore.Get(ctx, markerKey); cacheErr != nil {
		s.logger.Warn("TOKEN", "Revocation marker check failed, rejecting token", map[string]interface{}{
			"user_id": claims.UserId,
			"error":   cacheErr.Error(),
		})
		return nil, ErrTokenRevoked
	} else if found {
		return nil, ErrTokenRevoked
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	currentVersion, err := uow.TokenVersionRepository().Get(ctx, claims.UserId)
	if err != nil {
		return nil, fmt.Errorf("failed to load token version for %s: %w", claims.UserId, err)
	}
	if claims.TokenVersion != currentVersion {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

func (s *tokenService) InvalidateRefreshToken(ctx context.Context, tokenString string) error {
	claims := &RefreshClaims{}
	// An expired token can still be invalidated; only a bad signature or
	// malformed token is rejected.
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.RefreshSecret), nil
	})
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return ErrInvalidToken
	}
	if claims.UserId == "" {
		return ErrInvalidToken
	}

	// The marker only needs to outlive the token itself.
	ttl := s.cfg.RefreshLifetime
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		} else {
			// Already expired; nothing left to revoke.
			return nil
		}
	}

	markerKey := revocationMarkerKey(claims.UserId, revocationId(claims, tokenString))
	if err := s.cacheStore.Set(ctx, markerKey, "1", ttl); err != nil {
		return fmt.Errorf("failed to store revocation marker for %s: %w", claims.UserId, err)
	}

	if err := s.publisher.PublishAccessEvent(events.TypeTokenInvalidated, map[string]interface{}{
		"user_id": claims.UserId,
		"jti":     claims.ID,
	}); err != nil {
		s.logger.Warn("TOKEN", "Failed to publish token invalidation event", map[string]interface{}{"user_id": claims.UserId, "error": err.Error()})
	}

	return nil
}

func (s *tokenService) InvalidateAllUserTokens(ctx context.Context, userId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	newVersion, err := uow.TokenVersionRepository().Increment(ctx, userId)
	if err != nil {
		return fmt.Errorf("failed to increment token version for %s: %w", userId, err)
	}

	payload := map[string]interface{}{
		"user_id": userId,
		"version": newVersion,
	}
	if err := s.publisher.PublishAccessEvent(events.TypeAllTokensRevoked, payload); err != nil {
		s.logger.Warn("TOKEN", "Failed to publish revocation event", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}
	if s.eventPublisher != nil {
		event := events.BaseEvent{Type: events.TypeAllTokensRevoked, Data: payload, OccurredAt: time.Now()}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("TOKEN", "Failed to publish revocation event to NATS", map[string]interface{}{"user_id": userId, "error": err.Error()})
		}
	}

	return nil
}

// revocationId identifies a single refresh token: the jti claim when
// present, otherwise the first 16 hex chars of the token's SHA-256.
func revocationId(claims *RefreshClaims, tokenString string) string {
	if claims.ID != "" {
		return claims.ID
	}
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])[:16]
}

func revocationMarkerKey(userId, id string) string {
	return invalidatedTokenPrefix + userId + ":" + id
}
