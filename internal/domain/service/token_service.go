package service

import (
	"time"

	"rentalhub/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for access tokens.
type Claims struct {
	UserID uuid.UUID `json:"-"`
	Roles  []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts validated claims into the request principal.
func (c *Claims) Principal() entity.Principal {
	return entity.Principal{
		ID:    c.UserID,
		Roles: entity.RolesFromStrings(c.Roles),
	}
}

// TokenService validates bearer tokens issued by the identity provider.
// IssueToken exists for local development and tests.
type TokenService interface {
	// IssueToken signs an access token for the principal.
	IssueToken(principal entity.Principal, ttl time.Duration) (string, error)

	// ValidateToken checks the signature and expiry of a token string.
	ValidateToken(tokenString string) (*Claims, error)
}
