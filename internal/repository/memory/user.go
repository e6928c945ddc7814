// Package memory is an in-process user store, optionally seeded from YAML.
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtroode/storeauth/internal/model"
)

var (
	_ model.UserStore  = (*UserRepository)(nil)
	_ model.UserWriter = (*UserRepository)(nil)
)

// UserRepository keeps users in maps guarded by a RWMutex.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

// NewUserRepository creates a store holding users.
func NewUserRepository(users ...model.User) (*UserRepository, error) {
	r := &UserRepository{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
	}
	for _, u := range users {
		if _, err := r.Create(context.Background(), u); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	if user.ID == "" || user.Email == "" {
		return model.User{}, fmt.Errorf("user needs id and email")
	}
	if !user.Role.Valid() {
		return model.User{}, fmt.Errorf("user %s: unknown role %q", user.ID, user.Role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; ok {
		return model.User{}, fmt.Errorf("user %s already exists", user.ID)
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrEmailTaken, user.Email)
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	user = clone(user)
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID

	return clone(user), nil
}

// Delete removes a user. Tokens already issued for it stop authenticating.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

func clone(u model.User) model.User {
	if u.OwnedResourceIDs != nil {
		u.OwnedResourceIDs = append([]string(nil), u.OwnedResourceIDs...)
	}
	return u
}

// seedFile is the on-disk layout read by LoadSeedFile.
type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	ID           string   `yaml:"id"`
	Email        string   `yaml:"email"`
	Name         string   `yaml:"name"`
	Surname      string   `yaml:"surname"`
	Role         string   `yaml:"role"`
	PasswordHash string   `yaml:"password_hash"`
	Owned        []string `yaml:"owned_resource_ids"`
}

// LoadSeedFile reads users from a YAML file.
func LoadSeedFile(path string) ([]model.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML seed document. A missing role defaults to USER.
func ParseSeed(data []byte) ([]model.User, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	users := make([]model.User, 0, len(f.Users))
	for i, su := range f.Users {
		role := model.RoleUser
		if su.Role != "" {
			r, err := model.ParseRole(su.Role)
			if err != nil {
				return nil, fmt.Errorf("seed user %d: %w", i, err)
			}
			role = r
		}

		users = append(users, model.User{
			ID:               su.ID,
			Email:            su.Email,
			Name:             su.Name,
			Surname:          su.Surname,
			Role:             role,
			PasswordHash:     su.PasswordHash,
			OwnedResourceIDs: su.Owned,
		})
	}

	return users, nil
}
