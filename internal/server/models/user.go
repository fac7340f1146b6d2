package models

import "time"

// User is an administrator allowed to edit the catalog.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
