// Package token issues and validates the backend's bearer tokens.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token uses carried in the token_use claim.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims represents the JWT claims.
type Claims struct {
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// Generate creates a signed token for the given use and lifetime.
func Generate(secret, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates a token, requiring the expected use.
func Validate(secret, tokenStr, expectedUse string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.TokenUse != expectedUse {
		return nil, fmt.Errorf("wrong token use %q", claims.TokenUse)
	}
	return claims, nil
}
