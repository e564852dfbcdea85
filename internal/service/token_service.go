package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/gymhub/internal/config"
	"github.com/mansoorceksport/gymhub/internal/domain"
)

// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService signs and verifies the HS256 access tokens that carry a principal.
// Issuance is used by the seed command and tests; production tokens come from
// the auth service sharing the same secret.
type TokenService struct {
	jwtConfig config.JWTConfig
}

// NewTokenService creates a new token service
func NewTokenService(jwtConfig config.JWTConfig) *TokenService {
	return &TokenService{jwtConfig: jwtConfig}
}

// GenerateAccessToken signs a short-lived token for user
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := domain.PrincipalClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken parses tokenString and returns its claims
func (s *TokenService) ValidateAccessToken(tokenString string) (*domain.PrincipalClaims, error) {
	claims := &domain.PrincipalClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !domain.IsValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
