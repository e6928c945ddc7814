// Package sqlite is a single-file user store for small deployments and local runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/dtroode/storeauth/database"
	"github.com/dtroode/storeauth/internal/model"
)

var (
	_ model.UserStore  = (*UserRepository)(nil)
	_ model.UserWriter = (*UserRepository)(nil)
)

const selectUser = `SELECT id, email, name, surname, role, password_hash, owned_resource_ids, created_at, updated_at FROM users`

// Open opens (or creates) the database file and applies migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	if err := database.MigrateDB(ctx, db, database.DialectSQLite); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// UserRepository implements the user store on SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a SQLite-backed user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getUser(ctx, selectUser+` WHERE id = ? AND deleted_at IS NULL`, id)
}

// GetByEmail retrieves a user by email. Matching is exact.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, selectUser+` WHERE email = ? AND deleted_at IS NULL`, email)
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	owned, err := encodeOwned(user.OwnedResourceIDs)
	if err != nil {
		return model.User{}, err
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, surname, role, password_hash, owned_resource_ids, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.Surname, string(user.Role), user.PasswordHash, owned,
		user.CreatedAt.UTC().Format(time.RFC3339Nano), user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("%w: %s", model.ErrEmailTaken, user.Email)
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	if user.OwnedResourceIDs == nil {
		user.OwnedResourceIDs = []string{}
	}
	return user, nil
}

// Delete soft-deletes a user.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg string) (model.User, error) {
	var (
		user                 model.User
		role, owned          string
		createdAt, updatedAt string
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.Surname, &role, &user.PasswordHash,
		&owned, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("querying user: %w", err)
	}

	if user.Role, err = model.ParseRole(role); err != nil {
		return model.User{}, fmt.Errorf("user %s: %w", user.ID, err)
	}
	if err := json.Unmarshal([]byte(owned), &user.OwnedResourceIDs); err != nil {
		return model.User{}, fmt.Errorf("user %s: decoding owned resource ids: %w", user.ID, err)
	}
	user.CreatedAt = parseTime(createdAt)
	user.UpdatedAt = parseTime(updatedAt)

	return user, nil
}

func encodeOwned(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding owned resource ids: %w", err)
	}
	return string(data), nil
}

// parseTime accepts both our RFC3339 writes and SQLite's CURRENT_TIMESTAMP format.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
