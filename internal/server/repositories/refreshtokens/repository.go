// Package refreshtokens declares the server-side repository contract for
// single-use refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/server/models"
)

// Repository issues, looks up and consumes refresh tokens.
type Repository interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error

	// Find returns common.ErrNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume deletes the token. It returns common.ErrNotFound when the token
	// was already used, so a token can be exchanged only once.
	Consume(ctx context.Context, token string) error
}
