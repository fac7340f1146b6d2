package models

import "time"

// RefreshToken is a stored, single-use refresh token.
type RefreshToken struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
