package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
	"github.com/dmitrijs2005/lubecatalog/internal/server/auth"
	"github.com/dmitrijs2005/lubecatalog/internal/server/config"
	"github.com/dmitrijs2005/lubecatalog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testServerConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}
}

func newUserService(t *testing.T) (*UserService, *fakeRepoManager) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	m := &fakeRepoManager{users: &fakeUsers{byName: map[string]*models.User{}}, refresh: &fakeRefresh{}}
	s := NewUserService(db, m, testServerConfig(), logging.Discard())
	s.bcryptCost = bcrypt.MinCost
	s.now = func() time.Time { return testNow }
	return s, m
}

func addUser(t *testing.T, m *fakeRepoManager, id, name, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	m.users.byName[name] = &models.User{ID: id, UserName: name, PasswordHash: hash}
}

func TestUserService_Login(t *testing.T) {
	s, m := newUserService(t)
	addUser(t, m, "u-1", "admin", "s3cret")

	pair, err := s.Login(context.Background(), "admin", []byte("s3cret"))
	require.NoError(t, err)

	uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
	assert.Len(t, pair.RefreshToken, 64)
	assert.Equal(t, []string{pair.RefreshToken}, m.refresh.stored)
}

func TestUserService_Login_Errors(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		getErr   error
		storeErr error
		want     error
	}{
		{"wrong password", "admin", "nope", nil, nil, common.ErrUnauthorized},
		{"unknown user", "ghost", "s3cret", nil, nil, common.ErrUnauthorized},
		{"lookup fails", "admin", "s3cret", errors.New("db down"), nil, common.ErrInternal},
		{"token store fails", "admin", "s3cret", nil, errors.New("db down"), common.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newUserService(t)
			addUser(t, m, "u-1", "admin", "s3cret")
			m.users.getErr = tt.getErr
			m.refresh.createErr = tt.storeErr

			pair, err := s.Login(context.Background(), tt.user, []byte(tt.password))
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, pair)
		})
	}
}

func TestUserService_RefreshToken(t *testing.T) {
	s, m := newUserService(t)
	db, mock := newSQLMockDB(t)
	s.db = db
	m.refresh.findOut = &models.RefreshToken{UserID: "u-1", Token: "old", Expires: testNow.Add(time.Minute)}

	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, err := s.RefreshToken(context.Background(), "old")
	require.NoError(t, err)

	assert.Equal(t, []string{"old"}, m.refresh.consumed)
	assert.Equal(t, []string{pair.RefreshToken}, m.refresh.stored)
	assert.NotEqual(t, "old", pair.RefreshToken)
	uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_RefreshToken_Rejected(t *testing.T) {
	s, m := newUserService(t)

	m.refresh.findErr = common.ErrNotFound
	_, err := s.RefreshToken(context.Background(), "unknown")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	m.refresh.findErr = nil
	m.refresh.findOut = &models.RefreshToken{UserID: "u-1", Token: "old", Expires: testNow.Add(-time.Second)}
	_, err = s.RefreshToken(context.Background(), "old")
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)

	assert.Empty(t, m.refresh.consumed)
}

func TestUserService_RefreshToken_RollsBack(t *testing.T) {
	tests := []struct {
		name       string
		consumeErr error
		createErr  error
		want       error
	}{
		{"already used", common.ErrNotFound, nil, common.ErrUnauthorized},
		{"store fails", nil, errors.New("db down"), common.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newUserService(t)
			db, mock := newSQLMockDB(t)
			s.db = db
			m.refresh.findOut = &models.RefreshToken{UserID: "u-1", Token: "old", Expires: testNow.Add(time.Minute)}
			m.refresh.consumeErr = tt.consumeErr
			m.refresh.createErr = tt.createErr

			mock.ExpectBegin()
			mock.ExpectRollback()

			pair, err := s.RefreshToken(context.Background(), "old")
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, pair)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	stubIDs(t, "u-1")
	s, m := newUserService(t)

	created, err := s.EnsureAdmin(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.True(t, created)

	require.NotNil(t, m.users.created)
	assert.Equal(t, "u-1", m.users.created.ID)
	assert.Equal(t, "admin", m.users.created.UserName)
	require.NoError(t, bcrypt.CompareHashAndPassword(m.users.created.PasswordHash, []byte("s3cret")))
}

func TestUserService_EnsureAdmin_Existing(t *testing.T) {
	s, m := newUserService(t)
	addUser(t, m, "u-1", "admin", "s3cret")

	created, err := s.EnsureAdmin(context.Background(), "admin", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, m.users.created)
}

func TestUserService_EnsureAdmin_Errors(t *testing.T) {
	t.Run("no password", func(t *testing.T) {
		s, _ := newUserService(t)
		_, err := s.EnsureAdmin(context.Background(), "admin", "")
		require.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("created concurrently", func(t *testing.T) {
		stubIDs(t, "u-1")
		s, m := newUserService(t)
		m.users.createErr = common.ErrAlreadyExists

		created, err := s.EnsureAdmin(context.Background(), "admin", "s3cret")
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("lookup fails", func(t *testing.T) {
		s, m := newUserService(t)
		m.users.getErr = errors.New("db down")

		_, err := s.EnsureAdmin(context.Background(), "admin", "s3cret")
		require.Error(t, err)
	})
}
