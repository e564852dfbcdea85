package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// PrincipalClaims are the JWT claims issued by the auth service.
// Only the subject id and role are trusted; gym membership is always read from the store.
type PrincipalClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Principal returns the authenticated caller described by the claims
func (c *PrincipalClaims) Principal() Principal {
	return Principal{ID: c.UserID, Role: c.Role}
}
