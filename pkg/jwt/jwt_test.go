package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-access-secret-key-for-testing-purposes"

func TestNewService(t *testing.T) {
	service := NewService(testSecret, "jelajah", time.Hour)

	assert.NotNil(t, service)
	assert.Equal(t, testSecret, service.secret)
	assert.Equal(t, "jelajah", service.issuer)
	assert.Equal(t, time.Hour, service.accessTokenExpiry)
}

func TestGenerateAccessToken(t *testing.T) {
	service := NewService(testSecret, "jelajah", time.Hour)

	token, err := service.GenerateAccessToken("demo-user", "demo@jelajah.id", RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "demo-user", claims.UserID)
	assert.Equal(t, "demo@jelajah.id", claims.Email)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, "jelajah", claims.Issuer)
	assert.Equal(t, "demo-user", claims.Subject)

	t.Run("Requires user id", func(t *testing.T) {
		_, err := service.GenerateAccessToken("", "", RoleUser)
		assert.Error(t, err)
	})
}

func TestValidateAccessToken(t *testing.T) {
	service := NewService(testSecret, "jelajah", time.Hour)

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewService("another-secret", "jelajah", time.Hour)
		token, err := other.GenerateAccessToken("1", "", RoleAgent)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := NewService(testSecret, "jelajah", -time.Minute)
		token, err := expired.GenerateAccessToken("1", "", RoleAgent)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.Error(t, err)
		assert.True(t, service.IsTokenExpired(token))
	})

	t.Run("Wrong token type", func(t *testing.T) {
		claims := Claims{
			UserID:    "1",
			Role:      RoleAgent,
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid token type")
	})

	t.Run("Unsigned token", func(t *testing.T) {
		claims := Claims{UserID: "1", TokenType: AccessToken}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not.a.token")
		assert.Error(t, err)
		assert.True(t, service.IsTokenExpired("not.a.token"))
	})
}

func TestGetTokenExpiry(t *testing.T) {
	service := NewService(testSecret, "jelajah", time.Hour)

	before := time.Now()
	token, err := service.GenerateAccessToken("demo-user", "", RoleUser)
	require.NoError(t, err)

	expiry, err := service.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(time.Hour), expiry, 2*time.Second)
	assert.False(t, service.IsTokenExpired(token))
}
