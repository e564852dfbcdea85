package service

import (
	"testing"
	"time"

	"github.com/mansoorceksport/gymhub/internal/config"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour})

	token, err := svc.GenerateAccessToken(&domain.User{ID: "t1", Role: domain.RoleTrainer, Email: "t1@example.com"})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{ID: "t1", Role: domain.RoleTrainer}, claims.Principal())
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour})
	other := NewTokenService(config.JWTConfig{Secret: "other-secret", AccessTokenExpiry: time.Hour})
	expired := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: -time.Minute})

	foreign, err := other.GenerateAccessToken(&domain.User{ID: "t1", Role: domain.RoleTrainer})
	require.NoError(t, err)
	stale, err := expired.GenerateAccessToken(&domain.User{ID: "t1", Role: domain.RoleTrainer})
	require.NoError(t, err)
	badRole, err := svc.GenerateAccessToken(&domain.User{ID: "t1", Role: "superuser"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": foreign,
		"expired":      stale,
		"unknown role": badRole,
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
