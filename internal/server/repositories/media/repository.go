// Package media stores metadata of files uploaded for products.
package media

import (
	"context"

	"github.com/dmitrijs2005/lubecatalog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Media) error
	Get(ctx context.Context, id string) (*models.Media, error)
	// MarkUploaded flags a pending upload as completed.
	MarkUploaded(ctx context.Context, id string) error
}
