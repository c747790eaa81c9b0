package tokenstore

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/medquery/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the client can read from an access token without the
// server's signing key. It is informational only; the server remains the
// sole judge of validity.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Inspect decodes token without verifying its signature.
func Inspect(token string) (Claims, error) {
	var c accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	out := Claims{Subject: c.Subject, Role: c.Role}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}

// Expired reports whether the claims carry an expiry that lies before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
