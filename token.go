package goGate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessTokenExpiry extracts the exp claim from an access token without
// verifying the signature. The result is a hint for audit and metrics only:
// tokens stay opaque credentials, and no routing decision reads this.
func accessTokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}

	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}
