package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthEnabled reports whether data routes must carry a bearer token.
func (s *Service) AuthEnabled() bool {
	return len(s.jwtSigningKey) > 0
}

// ValidateAccessToken verifies an HS256 token issued by the configured
// issuer. Tokens are minted outside this service.
func (s *Service) ValidateAccessToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return unauthorizedError("invalid token")
	}
	if len(s.jwtSigningKey) == 0 {
		return fmt.Errorf("jwt signing key is not configured")
	}

	claims := &jwt.RegisteredClaims{}
	parsedToken, err := jwt.ParseWithClaims(
		token,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, unauthorizedError("invalid token")
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsedToken.Valid {
		return unauthorizedError("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return unauthorizedError("invalid token")
	}

	return nil
}
