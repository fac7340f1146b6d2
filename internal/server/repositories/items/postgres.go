package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, productID string) (map[catalog.Kind][]string, error) {
	query := `SELECT kind, value FROM product_items WHERE product_id = $1 ORDER BY kind, position`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	result := make(map[catalog.Kind][]string)
	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return nil, err
		}
		k := catalog.Kind(kind)
		result[k] = append(result[k], value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteKind(ctx context.Context, productID string, kind catalog.Kind) error {
	query := `DELETE FROM product_items WHERE product_id = $1 AND kind = $2`
	if _, err := r.db.ExecContext(ctx, query, productID, string(kind)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// InsertKind writes values at positions 0..n-1 in a single statement.
func (r *PostgresRepository) InsertKind(ctx context.Context, productID string, kind catalog.Kind, values []string) error {
	if len(values) == 0 {
		return nil
	}

	tuples := make([]string, 0, len(values))
	args := make([]any, 0, 2+2*len(values))
	args = append(args, productID, string(kind))
	for i, v := range values {
		n := len(args)
		tuples = append(tuples, fmt.Sprintf("($1, $2, $%d, $%d)", n+1, n+2))
		args = append(args, i, v)
	}

	query := `INSERT INTO product_items (product_id, kind, position, value) VALUES ` + strings.Join(tuples, ", ")
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != int64(len(values)) {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}
