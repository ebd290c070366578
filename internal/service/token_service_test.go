package service

import (
	"context"
	"testing"
	"time"

	"vauntico-access-be/internal/config"
	"vauntico-access-be/internal/pkg/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServiceUnderTest(t *testing.T) (ITokenService, *fakeRepositoryFactory, *fakePublisher) {
	t.Helper()
	cfg := config.TokenConfig{
		AccessSecret:    "access-secret-for-tests",
		RefreshSecret:   "refresh-secret-for-tests",
		AccessLifetime:  15 * time.Minute,
		RefreshLifetime: 7 * 24 * time.Hour,
	}
	factory := newFakeRepositoryFactory()
	publisher := &fakePublisher{}
	svc := NewTokenService(cfg, factory, cache.NewMemoryStore(), publisher, nil, fakeLogger{})
	return svc, factory, publisher
}

func TestGenerateAndVerifyTokenPair(t *testing.T) {
	svc, _, _ := newTokenServiceUnderTest(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "u1", "u1@example.com", "pro")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	accessClaims, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", accessClaims.UserId)
	assert.Equal(t, "u1@example.com", accessClaims.Email)
	assert.Equal(t, "pro", accessClaims.Tier)

	refreshClaims, err := svc.VerifyRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", refreshClaims.UserId)
	assert.Equal(t, int64(1), refreshClaims.TokenVersion)
	assert.NotEmpty(t, refreshClaims.ID, "refresh token must carry a jti")
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newTokenServiceUnderTest(t)

	_, err := svc.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenRejectsRefreshToken(t *testing.T) {
	// The pair is signed with different secrets, so tokens are not
	// interchangeable across the two verifiers.
	svc, _, _ := newTokenServiceUnderTest(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "u1", "u1@example.com", "free")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyRefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	svc, _, _ := newTokenServiceUnderTest(t)

	claims := &AccessClaims{
		UserId: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret-for-tests"))
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	svc, _, _ := newTokenServiceUnderTest(t)

	claims := &AccessClaims{
		UserId: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInvalidateRefreshToken(t *testing.T) {
	svc, _, publisher := newTokenServiceUnderTest(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "u1", "u1@example.com", "pro")
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateRefreshToken(ctx, pair.RefreshToken))

	_, err = svc.VerifyRefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Contains(t, publisher.eventTypes(), "TOKEN_INVALIDATED")
}

func TestInvalidateRefreshTokenLeavesOthersValid(t *testing.T) {
	svc, _, _ := newTokenServiceUnderTest(t)
	ctx := context.Background()

	first, err := svc.GenerateTokenPair(ctx, "u1", "u1@example.com", "pro")
	require.NoError(t, err)
	second, err := svc.GenerateTokenPair(ctx, "u1", "u1@example.com", "pro")
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateRefreshToken(ctx, first.RefreshToken))

	_, err = svc.VerifyRefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = svc.VerifyRefreshToken(ctx, second.RefreshToken)
	assert.NoError(t, err, "revoking one token must not touch the user's other tokens")
}

func TestInvalidateAllUserTokens(t *testing.T) {
	svc, factory, publisher := newTokenServiceUnderTest(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "u1", "u1@example.com", "pro")
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateAllUserTokens(ctx, "u1"))

	// Old token carries version 1, the user is now at 2.
	_, err = svc.VerifyRefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Equal(t, int64(2), factory.uow.tokenVersionRepo.versions["u1"])
	assert.Contains(t, publisher.eventTypes(), "ALL_TOKENS_REVOKED")

	// A fresh pair minted after the bump is valid.
	fresh, err := svc.GenerateTokenPair(ctx, "u1", "u1@example.com", "pro")
	require.NoError(t, err)
	claims, err := svc.VerifyRefreshToken(ctx, fresh.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(2), claims.TokenVersion)
}

func TestInvalidateAllUserTokensIsolatedPerUser(t *testing.T) {
	svc, _, _ := newTokenServiceUnderTest(t)
	ctx := context.Background()

	other, err := svc.GenerateTokenPair(ctx, "u2", "u2@example.com", "free")
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateAllUserTokens(ctx, "u1"))

	_, err = svc.VerifyRefreshToken(ctx, other.RefreshToken)
	assert.NoError(t, err)
}

func TestInvalidateRefreshTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newTokenServiceUnderTest(t)
	err := svc.InvalidateRefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
