package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/dbx"
	"github.com/dmitrijs2005/lubecatalog/internal/server/models"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/items"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/media"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/products"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func stubIDs(t *testing.T, ids ...string) {
	t.Helper()
	orig := newID
	t.Cleanup(func() { newID = orig })
	var mu sync.Mutex
	newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		ids = ids[1:]
		return id
	}
}

// fakeProducts keeps rows in memory and records what it was asked to write.
type fakeProducts struct {
	rows      map[string]*models.Product
	taken     map[string]string // slug -> product id
	created   catalog.Patch
	updated   catalog.Patch
	touched   []string
	createErr error
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{rows: map[string]*models.Product{}, taken: map[string]string{}}
}

func (f *fakeProducts) Create(ctx context.Context, id string, values catalog.Patch) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = values
	p := &models.Product{ID: id, CreatedAt: time.Unix(1, 0), UpdatedAt: time.Unix(1, 0)}
	apply(p, values)
	f.rows[id] = p
	return p, nil
}

func (f *fakeProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeProducts) Update(ctx context.Context, id string, patch catalog.Patch) (*models.Product, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	f.updated = patch
	apply(p, patch)
	return p, nil
}

func (f *fakeProducts) Touch(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return common.ErrNotFound
	}
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeProducts) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	owner, ok := f.taken[slug]
	return ok && owner != exceptID, nil
}

func apply(p *models.Product, patch catalog.Patch) {
	for k, v := range patch {
		switch k {
		case catalog.FieldName:
			p.Name = v.(string)
		case catalog.FieldSlug:
			p.Slug = v.(string)
		case catalog.FieldBrand:
			p.Brand = v.(string)
		case catalog.FieldImageURL:
			p.ImageURL = v.(*string)
		case catalog.FieldIsActive:
			p.IsActive = v.(bool)
		}
	}
}

type fakeItems struct {
	lists     map[string]map[catalog.Kind][]string
	deleted   []catalog.Kind
	insertErr error
}

func (f *fakeItems) List(ctx context.Context, productID string) (map[catalog.Kind][]string, error) {
	return f.lists[productID], nil
}

func (f *fakeItems) DeleteKind(ctx context.Context, productID string, kind catalog.Kind) error {
	f.deleted = append(f.deleted, kind)
	if f.lists[productID] != nil {
		delete(f.lists[productID], kind)
	}
	return nil
}

func (f *fakeItems) InsertKind(ctx context.Context, productID string, kind catalog.Kind, values []string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.lists == nil {
		f.lists = map[string]map[catalog.Kind][]string{}
	}
	if f.lists[productID] == nil {
		f.lists[productID] = map[catalog.Kind][]string{}
	}
	f.lists[productID][kind] = values
	return nil
}

type fakeMedia struct {
	rows      map[string]*models.Media
	marked    []string
	createErr error
	getErr    error
}

func (f *fakeMedia) Create(ctx context.Context, m *models.Media) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.rows == nil {
		f.rows = map[string]*models.Media{}
	}
	f.rows[m.ID] = m
	return nil
}

func (f *fakeMedia) Get(ctx context.Context, id string) (*models.Media, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return m, nil
}

func (f *fakeMedia) MarkUploaded(ctx context.Context, id string) error {
	f.marked = append(f.marked, id)
	f.rows[id].Status = models.UploadCompleted
	return nil
}

type fakeUsers struct {
	byName    map[string]*models.User
	created   *models.User
	getErr    error
	createErr error
}

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	return u, nil
}

func (f *fakeUsers) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[login]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeRefresh struct {
	findOut    *models.RefreshToken
	findErr    error
	consumeErr error
	createErr  error
	consumed   []string
	stored     []string
}

func (f *fakeRefresh) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.stored = append(f.stored, token)
	return nil
}

func (f *fakeRefresh) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefresh) Consume(ctx context.Context, token string) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.consumed = append(f.consumed, token)
	return nil
}

type fakeRepoManager struct {
	products *fakeProducts
	items    *fakeItems
	media    *fakeMedia
	users    *fakeUsers
	refresh  *fakeRefresh
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Products(db dbx.DBTX) products.Repository { return m.products }
func (m *fakeRepoManager) Items(db dbx.DBTX) items.Repository { return m.items }
func (m *fakeRepoManager) Media(db dbx.DBTX) media.Repository { return m.media }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.users }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.refresh }
