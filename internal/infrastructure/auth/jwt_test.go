package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopapi/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

func newTestJWTService() *JWTService {
	return NewJWTService(testJWTConfig())
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
		Role:     "customer",
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret"}

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.False(t, claims.IsAdmin())
	assert.Greater(t, claims.GetRemainingTTL(), time.Duration(0))

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpiration = -time.Hour
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_DifferentSecret(t *testing.T) {
	pair, err := newTestJWTService().GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	cfg := testJWTConfig()
	cfg.Secret = "another-secret-key-at-least-32-chars"
	_, err = NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongTokenType(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshSecret = cfg.Secret
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestRefreshTokenPair(t *testing.T) {
	t.Run("issues a new pair with the current role", func(t *testing.T) {
		svc := newTestJWTService()
		input := newTestInput()

		pair, err := svc.GenerateTokenPair(input)
		require.NoError(t, err)

		input.Role = "admin"
		newPair, err := svc.RefreshTokenPair(pair.RefreshToken, input)
		require.NoError(t, err)
		assert.NotEqual(t, pair.AccessToken, newPair.AccessToken)

		claims, err := svc.ValidateAccessToken(newPair.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin())

		refreshClaims, err := svc.ValidateRefreshToken(newPair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, refreshClaims.RefreshCount)
	})

	t.Run("stops at the refresh limit", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.MaxRefreshCount = 2
		svc := NewJWTService(cfg)
		input := newTestInput()

		pair, err := svc.GenerateTokenPair(input)
		require.NoError(t, err)
		pair, err = svc.RefreshTokenPair(pair.RefreshToken, input)
		require.NoError(t, err)
		pair, err = svc.RefreshTokenPair(pair.RefreshToken, input)
		require.NoError(t, err)

		_, err = svc.RefreshTokenPair(pair.RefreshToken, input)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects a token issued to another user", func(t *testing.T) {
		svc := newTestJWTService()

		pair, err := svc.GenerateTokenPair(newTestInput())
		require.NoError(t, err)

		_, err = svc.RefreshTokenPair(pair.RefreshToken, newTestInput())
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := newTestJWTService().RefreshTokenPair("invalid-token", newTestInput())
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
