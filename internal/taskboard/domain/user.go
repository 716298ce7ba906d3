package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string // stored lower-cased, unique
	PasswordHash string // argon2id PHC string, or bcrypt for imported accounts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries the profile fields an update touches.
type UserPatch struct {
	Name         Field[string]
	PasswordHash Field[string]
}
