package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/dbx"
	"github.com/dmitrijs2005/lubecatalog/internal/server/models"
)

// columns maps wire field names to table columns.
var columns = map[catalog.Field]string{
	catalog.FieldName:             "name",
	catalog.FieldSlug:             "slug",
	catalog.FieldCategory:         "category",
	catalog.FieldBrand:            "brand",
	catalog.FieldViscosityGrade:   "viscosity_grade",
	catalog.FieldShortDescription: "short_description",
	catalog.FieldDescription:      "description",
	catalog.FieldSpecifications:   "specifications",
	catalog.FieldMetaTitle:        "meta_title",
	catalog.FieldMetaDescription:  "meta_description",
	catalog.FieldImageURL:         "image_url",
	catalog.FieldDatasheetURL:     "datasheet_url",
	catalog.FieldIsActive:         "is_active",
	catalog.FieldIsFeatured:       "is_featured",
}

const returning = `id, name, slug, category, brand, viscosity_grade, short_description,
	description, specifications, meta_title, meta_description, image_url,
	datasheet_url, is_active, is_featured, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row *sql.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Category, &p.Brand, &p.ViscosityGrade,
		&p.ShortDescription, &p.Description, &p.Specifications, &p.MetaTitle,
		&p.MetaDescription, &p.ImageURL, &p.DatasheetURL, &p.IsActive, &p.IsFeatured,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows), dbx.IsInvalidText(err):
		return common.ErrNotFound
	case dbx.IsUniqueViolation(err):
		return fmt.Errorf("%w: slug", common.ErrAlreadyExists)
	}
	return fmt.Errorf("db error: %w", err)
}

// assignments returns "col = $n" pairs for the fields in values, in field
// order, numbering placeholders from first.
func assignments(values catalog.Patch, first int) ([]string, []string, []any) {
	var cols, marks []string
	var args []any
	for _, f := range catalog.AllFields() {
		v, ok := values[f]
		if !ok {
			continue
		}
		cols = append(cols, columns[f])
		marks = append(marks, fmt.Sprintf("$%d", first+len(args)))
		args = append(args, v)
	}
	return cols, marks, args
}

func (r *PostgresRepository) Create(ctx context.Context, id string, values catalog.Patch) (*models.Product, error) {
	cols, marks, args := assignments(values, 2)

	query := fmt.Sprintf(`INSERT INTO products (%s) VALUES (%s) RETURNING %s`,
		strings.Join(append([]string{"id"}, cols...), ", "),
		strings.Join(append([]string{"$1"}, marks...), ", "),
		returning)

	return scan(r.db.QueryRowContext(ctx, query, append([]any{id}, args...)...))
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + returning + ` FROM products WHERE id = $1`
	return scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch catalog.Patch) (*models.Product, error) {
	cols, marks, args := assignments(patch, 1)

	set := make([]string, 0, len(cols)+1)
	for i := range cols {
		set = append(set, cols[i]+" = "+marks[i])
	}
	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args)+1, returning)

	return scan(r.db.QueryRowContext(ctx, query, append(args, id)...))
}

func (r *PostgresRepository) Touch(ctx context.Context, id string) error {
	query := `UPDATE products SET updated_at = now() WHERE id = $1 RETURNING id`

	var got string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&got); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *PostgresRepository) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1 AND id::text <> $2)`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, slug, exceptID).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return taken, nil
}
