// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"rentalhub/config"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "rentalhub"

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret []byte // Secret key for signing access tokens.
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt access secret must be provided")
	}

	return &jwtService{accessSecret: []byte(cfg.SecretKey.Access)}, nil
}

// IssueToken signs an HS256 access token carrying the principal's ID as subject and its roles.
func (s *jwtService) IssueToken(principal entity.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &service.Claims{
		Roles: principal.Roles.ToStrings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID.String(), // Subject (who the token is for)
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}

	return signed, nil
}

// ValidateToken checks the validity of a token string and extracts its claims.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.accessSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(err, "invalid access token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token subject")
	}
	claims.UserID = userID

	return claims, nil
}
