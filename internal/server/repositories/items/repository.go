// Package items stores the ordered sub-collections of products.
package items

import (
	"context"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// Repository reads and replaces product sub-collections. Rows are kept with
// a zero-based position per product and kind.
type Repository interface {
	List(ctx context.Context, productID string) (map[catalog.Kind][]string, error)
	DeleteKind(ctx context.Context, productID string, kind catalog.Kind) error
	InsertKind(ctx context.Context, productID string, kind catalog.Kind, values []string) error
}
