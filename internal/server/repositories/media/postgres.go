package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/dbx"
	"github.com/dmitrijs2005/lubecatalog/internal/server/models"
)

// PostgresRepository implements media storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a media row. A product that does not exist yields
// common.ErrNotFound.
func (r *PostgresRepository) Create(ctx context.Context, m *models.Media) error {
	query := `
		INSERT INTO product_media (id, product_id, kind, file_name, content_type, size, storage_key, public_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.ProductID, string(m.Kind), m.FileName, m.ContentType, m.Size, m.StorageKey, m.PublicURL, m.Status,
	).Scan(&m.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidText(err) {
			return fmt.Errorf("product %s: %w", m.ProductID, common.ErrNotFound)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Media, error) {
	query := `
		SELECT id, product_id, kind, file_name, content_type, size, storage_key, public_url, status, created_at
		FROM product_media
		WHERE id = $1
	`
	m := &models.Media{}
	var kind string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.ProductID, &kind, &m.FileName, &m.ContentType, &m.Size, &m.StorageKey, &m.PublicURL, &m.Status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	m.Kind = catalog.MediaKind(kind)
	return m, nil
}

// MarkUploaded sets status to completed. Exactly one row must be affected.
func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query := `UPDATE product_media SET status = 'completed' WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark uploaded: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}
