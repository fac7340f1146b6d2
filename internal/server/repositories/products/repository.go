// Package products declares and implements storage of product rows.
package products

import (
	"context"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/server/models"
)

// Repository stores the scalar columns of products. Sub-collections live in
// the items repository.
type Repository interface {
	// Create inserts a product with the given id. Fields missing from values
	// take their column defaults.
	Create(ctx context.Context, id string, values catalog.Patch) (*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	// Update writes only the fields present in patch and bumps updated_at.
	Update(ctx context.Context, id string, patch catalog.Patch) (*models.Product, error)
	// Touch bumps updated_at and locks the row for the rest of the transaction.
	Touch(ctx context.Context, id string) error
	// SlugTaken reports whether another product than exceptID uses slug.
	SlugTaken(ctx context.Context, slug, exceptID string) (bool, error)
}
