package domain

import "time"

// AccessToken is the server side record of an issued bearer token. Deleting
// it revokes the token even though the JWT itself is still well formed.
type AccessToken struct {
	ID         string // the JWT jti
	UserID     string
	Name       string
	CreatedAt  time.Time
	LastUsedAt *time.Time
	ExpiresAt  time.Time
}

func (t AccessToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// IssuedToken is what a successful register or login hands back.
type IssuedToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}
