package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storeauth/internal/model"
)

func newRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewUserRepository(db), mock
}

var userCols = []string{"id", "email", "name", "surname", "role", "password_hash", "owned_resource_ids", "created_at", "updated_at"}

func TestGetByID_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email.*FROM\s+users\s+WHERE\s+id\s*=\s*\?\s+AND\s+deleted_at\s+IS\s+NULL$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "u1@example.com", "Ann", "Lee", "USER", "salt:hash", `["unit-1","unit-2"]`, "2025-01-02T03:04:05Z", "2025-01-02 03:04:05"))

	user, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, []string{"unit-1", "unit-2"}, user.OwnedResourceIDs)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), user.CreatedAt)
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE\s+email\s*=\s*\?`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE\s+email\s*=\s*\?`).
		WithArgs("u1@example.com").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.GetByEmail(context.Background(), "u1@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.Regexp(t, regexp.MustCompile(`querying user: .*disk I/O error`), err.Error())
}

func TestGetByID_BadRow(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		owned string
		want  string
	}{
		{name: "unknown role", role: "ROOT", owned: `[]`, want: "unknown role"},
		{name: "corrupt owned ids", role: "USER", owned: `not-json`, want: "decoding owned resource ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			mock.ExpectQuery(`FROM\s+users`).
				WithArgs("u1").
				WillReturnRows(sqlmock.NewRows(userCols).
					AddRow("u1", "u1@example.com", "", "", tt.role, "", tt.owned, "", ""))

			_, err := repo.GetByID(context.Background(), "u1")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("u1", "u1@example.com", "Ann", "", "ADMIN", "salt:hash", `[]`,
			"2025-01-02T03:04:05Z", "2025-01-02T03:04:05Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user, err := repo.Create(context.Background(), model.User{
		ID: "u1", Email: "u1@example.com", Name: "Ann", Role: model.RoleAdmin,
		PasswordHash: "salt:hash", CreatedAt: created,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, user.OwnedResourceIDs)
	assert.Equal(t, created, user.UpdatedAt)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+deleted_at`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+users\s+SET\s+deleted_at`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u2"), model.ErrNotFound)
}

func TestOpen_RealDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewUserRepository(db)
	u := model.User{ID: "u1", Email: "u1@example.com", Role: model.RoleUser, OwnedResourceIDs: []string{"unit-1"}}

	_, err = repo.Create(ctx, u)
	require.NoError(t, err)

	_, err = repo.Create(ctx, model.User{ID: "u2", Email: "u1@example.com", Role: model.RoleUser})
	assert.ErrorIs(t, err, model.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"unit-1"}, got.OwnedResourceIDs)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// a deleted account frees its email
	_, err = repo.Create(ctx, model.User{ID: "u3", Email: "u1@example.com", Role: model.RoleUser})
	require.NoError(t, err)
	got, err = repo.GetByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u3", got.ID)

	_, err = repo.Create(ctx, model.User{ID: "u4", Email: "u1@example.com", Role: model.RoleUser})
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}
