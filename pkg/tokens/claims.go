package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("tokens: empty token")

// AccessClaims is the part of the commerce API's access token the client
// shows to the user.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Expiry returns the zero time when the token carries no exp claim.
func (c *AccessClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// AccessClaimsUnverified decodes the token without checking its signature.
// The client holds no key; the result is informational only and must never
// be used for an access decision.
func AccessClaimsUnverified(tokenStr string) (*AccessClaims, error) {
	if tokenStr == "" {
		return nil, ErrNoToken
	}
	var claims AccessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil, fmt.Errorf("tokens: parse: %w", err)
	}
	return &claims, nil
}
