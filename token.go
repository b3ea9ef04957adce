package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether raw is a JWT whose exp claim has already
// passed. The signature is not checked; this is only a fast path so a
// clearly stale persisted token can be rejected without a network round
// trip. Opaque or unparseable tokens are not judged locally, the backend
// has the final word.
func tokenExpired(raw string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}
