package model

import (
	"context"
	"fmt"
	"time"
)

// Role is an authorisation tier of a user account.
type Role string

const (
	// RoleUser is a regular account scoped to the resources it owns.
	RoleUser Role = "USER"
	// RoleAdmin has access to admin-gated routes.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UserStore is the lookup capability the authentication core consumes.
type UserStore interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// UserWriter provisions accounts. Only the admin tooling uses it.
type UserWriter interface {
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored account with its authentication material.
type User struct {
	ID               string
	Email            string
	Name             string
	Surname          string
	Role             Role
	PasswordHash     string
	OwnedResourceIDs []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PublicUser is the user view returned over the API. It never carries the password hash.
type PublicUser struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Surname          string   `json:"surname"`
	Role             Role     `json:"role"`
	OwnedResourceIDs []string `json:"unitsOwnedIds"`
}

// Public strips authentication material from the user.
func (u User) Public() PublicUser {
	owned := u.OwnedResourceIDs
	if owned == nil {
		owned = []string{}
	}
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Surname:          u.Surname,
		Role:             u.Role,
		OwnedResourceIDs: owned,
	}
}

// PasswordCodec derives and checks stored password hashes.
type PasswordCodec interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, stored string) error
}

// CaptchaVerifier checks a client-supplied reCAPTCHA response.
type CaptchaVerifier interface {
	Verify(ctx context.Context, response, remoteIP string) error
}
