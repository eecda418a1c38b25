package services

import (
	"testing"
	"time"

	"portal/internal/apperrors"
	. "portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAdmin() *Admin {
	return &Admin{
		BaseUUIDModel: BaseUUIDModel{ID: "0190f5e2-7b1c-7c3a-9d2e-3f4a5b6c7d8e"},
		Username:      "admin",
		Email:         "admin@example.com",
		Role:          RoleSuperAdmin,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", "pension-portal", time.Hour)

	token, expiresAt, err := svc.Generate(testAdmin())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "0190f5e2-7b1c-7c3a-9d2e-3f4a5b6c7d8e", claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, RoleSuperAdmin, claims.Role)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret", "pension-portal", time.Hour)
	valid, _, err := svc.Generate(testAdmin())
	require.NoError(t, err)

	expired := NewTokenService("secret", "pension-portal", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Generate(testAdmin())
	require.NoError(t, err)

	otherIssuer, _, err := NewTokenService("secret", "someone-else", time.Hour).Generate(testAdmin())
	require.NoError(t, err)

	otherKey, _, err := NewTokenService("different", "pension-portal", time.Hour).Generate(testAdmin())
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  "x",
		"iss": "pension-portal",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"expired", expiredToken},
		{"wrong issuer", otherIssuer},
		{"wrong key", otherKey},
		{"alg none", unsigned},
		{"tampered", valid[:len(valid)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}
