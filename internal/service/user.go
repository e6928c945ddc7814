package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// UserStoreWriter is a store that can both look up and create accounts.
type UserStoreWriter interface {
	model.UserStore
	model.UserWriter
}

// CreateUserParams describes an account to provision.
type CreateUserParams struct {
	Email            string
	Password         string
	Name             string
	Surname          string
	Role             model.Role
	OwnedResourceIDs []string
}

// Users serves account lookups for the API and provisioning for the admin tooling.
type Users struct {
	store     model.UserStore
	writer    model.UserWriter
	passwords model.PasswordCodec
	logger    *logger.Logger
}

// NewUsers creates the user service. writer and passwords are only needed by Create.
func NewUsers(store model.UserStore, writer model.UserWriter, passwords model.PasswordCodec, logger *logger.Logger) *Users {
	return &Users{store: store, writer: writer, passwords: passwords, logger: logger}
}

// Get returns the account with the given id.
func (u *Users) Get(ctx context.Context, id string) (model.User, error) {
	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return user, nil
}

// Create hashes the password and stores a new account.
func (u *Users) Create(ctx context.Context, params CreateUserParams) (model.User, error) {
	if u.writer == nil {
		return model.User{}, errors.New("store is read-only")
	}

	email := strings.TrimSpace(params.Email)
	if email == "" {
		return model.User{}, errors.New("email is required")
	}
	if params.Password == "" {
		return model.User{}, errors.New("password is required")
	}

	role := params.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return model.User{}, fmt.Errorf("unknown role %q", role)
	}

	_, err := u.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return model.User{}, fmt.Errorf("%w: %s", model.ErrEmailTaken, email)
	case !errors.Is(err, model.ErrNotFound):
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := u.passwords.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:               uuid.NewString(),
		Email:            email,
		Name:             params.Name,
		Surname:          params.Surname,
		Role:             role,
		PasswordHash:     hash,
		OwnedResourceIDs: params.OwnedResourceIDs,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := u.writer.Create(ctx, user)
	if err != nil {
		u.logger.Error("User service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	u.logger.Info("User service: user created",
		"user_id", created.ID,
		"role", string(created.Role))

	return created, nil
}
