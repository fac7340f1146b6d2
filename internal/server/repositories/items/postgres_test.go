package items

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestList_GroupsByKindInOrder(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"kind", "value"}).
		AddRow("applications", "Passenger cars").
		AddRow("applications", "Vans").
		AddRow("features", "Low ash")
	mock.ExpectQuery(`^SELECT kind, value FROM product_items WHERE product_id = \$1 ORDER BY kind, position$`).
		WithArgs("p1").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, map[catalog.Kind][]string{
		catalog.KindApplications: {"Passenger cars", "Vans"},
		catalog.KindFeatures:     {"Low ash"},
	}, got)
}

func TestList_Error(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM product_items`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background(), "p1")
	require.ErrorContains(t, err, "failed to select items")
}

func TestDeleteKind(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM product_items WHERE product_id = \$1 AND kind = \$2$`).
		WithArgs("p1", "packSizes").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteKind(context.Background(), "p1", catalog.KindPackSizes))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertKind_NumbersPositions(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `^INSERT INTO product_items \(product_id, kind, position, value\) VALUES \(\$1, \$2, \$3, \$4\), \(\$1, \$2, \$5, \$6\)$`
	mock.ExpectExec(q).
		WithArgs("p1", "features", 0, "Low ash", 1, "High VI").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.InsertKind(context.Background(), "p1", catalog.KindFeatures, []string{"Low ash", "High VI"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertKind_EmptyIsNoop(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	require.NoError(t, repo.InsertKind(context.Background(), "p1", catalog.KindFeatures, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertKind_RowCountMismatch(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^INSERT INTO product_items`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.InsertKind(context.Background(), "p1", catalog.KindFeatures, []string{"a", "b"})
	require.ErrorContains(t, err, "unexpected rows affected: 1")
}
