package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL matches the seven day lifetime of the web session
// tokens this service replaces.
const DefaultAccessTokenTTL = 7 * 24 * time.Hour

// Claims are the access token claims. The token id (jti) doubles as the key
// of the server side token record, which is what makes logout possible.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the display name at issue time, for clients only.
	Name string `json:"name,omitempty"`
}

// NewAccessClaims builds claims for subject with the given token id.
func NewAccessClaims(subject, tokenID, name, issuer string, ttl time.Duration, now time.Time) Claims {
	now = now.UTC()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        tokenID,
		},
		Name: name,
	}
}

// ValidateIssuer checks the iss claim. An empty expectation accepts any.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks exp and nbf against now with leeway for clock skew.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
