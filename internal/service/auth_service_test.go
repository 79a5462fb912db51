package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadirly/hadirly-api/internal/models"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, method jwt.SigningMethod, claims *models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService(AuthConfig{AccessTokenSecret: testSecret})
	tokenString := signedToken(t, testSecret, jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "u-1",
		Role:   models.RoleTeacher,
		Email:  "guru@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(tokenString)

	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthServiceValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(AuthConfig{AccessTokenSecret: testSecret})
	tokenString := signedToken(t, "other-secret", jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := svc.ValidateToken(tokenString)

	require.Error(t, err)
}

func TestAuthServiceValidateTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService(AuthConfig{AccessTokenSecret: testSecret})
	tokenString := signedToken(t, testSecret, jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := svc.ValidateToken(tokenString)

	require.Error(t, err)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(AuthConfig{AccessTokenSecret: testSecret})

	_, err := svc.ValidateToken("not.a.token")

	require.Error(t, err)
}
