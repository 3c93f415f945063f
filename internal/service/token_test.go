//go:build !integration

package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("", "weight-service")
	assert.ErrorIs(t, err, ErrSecretRequired)

	svc, err := NewTokenService("secret", "weight-service")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewTokenService("test-secret", "weight-service")
	require.NoError(t, err)

	token, err := svc.Issue("operator-1", "Scale Operator", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "operator-1", claims.Subject)
	assert.Equal(t, "Scale Operator", claims.Name)
	assert.Equal(t, "weight-service", claims.Issuer)
}

func TestTokenService_Verify(t *testing.T) {
	svc, err := NewTokenService("test-secret", "weight-service")
	require.NoError(t, err)

	other, err := NewTokenService("other-secret", "weight-service")
	require.NoError(t, err)
	foreign, err := other.Issue("operator-1", "", time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewTokenService("test-secret", "billing")
	require.NoError(t, err)
	wrongIssuer, err := otherIssuer.Issue("operator-1", "", time.Hour)
	require.NoError(t, err)

	expired, err := svc.Issue("operator-1", "", -time.Minute)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "operator-1",
		Issuer:  "weight-service",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "operator-1",
		Issuer:    "weight-service",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "empty", token: ""},
		{name: "foreign secret", token: foreign},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "expired", token: expired},
		{name: "no expiry", token: noExpiry},
		{name: "different algorithm", token: hs512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenService_IssueRequiresSubject(t *testing.T) {
	svc, err := NewTokenService("test-secret", "")
	require.NoError(t, err)

	_, err = svc.Issue("", "", time.Hour)
	assert.Error(t, err)
}
