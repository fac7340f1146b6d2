package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/dbx"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// newID is a seam for generated row ids.
var newID = uuid.NewString

// slugPattern is the stored slug format. Unlike the editor hint there is no
// minimum length, so short names still get a derived slug.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ProductService applies the editing rules of the catalog: field types,
// required name, slug format and uniqueness, and whole-list replacement of
// sub-collections.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *ProductService {
	return &ProductService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "product_service"),
	}
}

// Get returns the product with its sub-collections.
func (s *ProductService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	p, err := s.repomanager.Products(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repomanager.Items(s.db).List(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ToCatalog(items), nil
}

// Create inserts a product. name is required; a missing or empty slug is
// derived from it.
func (s *ProductService) Create(ctx context.Context, patch catalog.Patch) (*catalog.Product, error) {
	values, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}
	if _, ok := values[catalog.FieldName]; !ok {
		return nil, fmt.Errorf("%w: name required", common.ErrValidation)
	}

	if slug, _ := values[catalog.FieldSlug].(string); slug == "" {
		derived := catalog.DeriveSlug(values[catalog.FieldName].(string))
		if derived == "" {
			return nil, fmt.Errorf("%w: cannot derive a slug from name", common.ErrValidation)
		}
		values[catalog.FieldSlug] = derived
	}
	if err := s.checkSlug(ctx, values[catalog.FieldSlug].(string), ""); err != nil {
		return nil, err
	}

	p, err := s.repomanager.Products(s.db).Create(ctx, newID(), values)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "product created", "product_id", p.ID, "slug", p.Slug)
	return p.ToCatalog(nil), nil
}

// Update writes the fields present in patch and returns the stored product.
func (s *ProductService) Update(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error) {
	values, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}
	if v, ok := values[catalog.FieldSlug]; ok {
		slug := v.(string)
		if slug == "" {
			return nil, fmt.Errorf("%w: slug must not be empty", common.ErrValidation)
		}
		if err := s.checkSlug(ctx, slug, id); err != nil {
			return nil, err
		}
	}

	if _, err := s.repomanager.Products(s.db).Update(ctx, id, values); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "product updated", "product_id", id, "fields", len(values))
	return s.Get(ctx, id)
}

// ReplaceSubcollection replaces every item of kind with items, in order.
func (s *ProductService) ReplaceSubcollection(ctx context.Context, id string, kind catalog.Kind, items []string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown list %q", common.ErrValidation, kind)
	}
	for i, it := range items {
		if strings.TrimSpace(it) == "" {
			return fmt.Errorf("%w: %s item %d is blank", common.ErrValidation, kind, i)
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Products(tx).Touch(ctx, id); err != nil {
			return err
		}
		repo := s.repomanager.Items(tx)
		if err := repo.DeleteKind(ctx, id, kind); err != nil {
			return err
		}
		return repo.InsertKind(ctx, id, kind, items)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "list replaced", "product_id", id, "kind", kind, "items", len(items))
	return nil
}

func (s *ProductService) checkSlug(ctx context.Context, slug, exceptID string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: slug %q must be lower-case words joined by single hyphens", common.ErrValidation, slug)
	}
	taken, err := s.repomanager.Products(s.db).SlugTaken(ctx, slug, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: slug %q is used by another product", common.ErrAlreadyExists, slug)
	}
	return nil
}

// normalizePatch type-checks every value and trims the name.
func normalizePatch(patch catalog.Patch) (catalog.Patch, error) {
	out := make(catalog.Patch, len(patch))
	for f, v := range patch {
		nv, err := catalog.NormalizeValue(f, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
		}
		out[f] = nv
	}

	if v, ok := out[catalog.FieldName]; ok {
		name := strings.TrimSpace(v.(string))
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", common.ErrValidation)
		}
		out[catalog.FieldName] = name
	}
	return out, nil
}
